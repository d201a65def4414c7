// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/varanno/compression/codec"
	"github.com/varanno/compression/internal/base"
)

// encodeFrame writes a complete BGZF member holding src into dst and
// returns its length. dst must be at least MaxBlockSize long and src
// must not be longer than BlockSize.
func encodeFrame(dst []byte, d *codec.Deflate, src []byte) (int, error) {
	if len(src) > BlockSize {
		return 0, base.Markf(base.ErrBlockOverflow, "bgzf: block of %d bytes exceeds %d", len(src), BlockSize)
	}
	if len(dst) < MaxBlockSize {
		return 0, base.Markf(base.ErrShortBuffer, "bgzf: frame buffer of %d bytes", len(dst))
	}
	if len(src) == 0 {
		return copy(dst, magicBlock), nil
	}

	copy(dst, magicBlock[:12])
	copy(dst[12:], bgzfExtra)
	n, err := d.Compress(dst[HeaderLength:MaxBlockSize-trailerLength], src)
	if err != nil {
		if errors.Is(err, base.ErrShortBuffer) {
			return 0, base.Wrapf(err, base.ErrBlockOverflow, "bgzf: compressed block exceeds %d bytes", MaxBlockSize)
		}
		return 0, err
	}
	size := HeaderLength + n + trailerLength
	binary.LittleEndian.PutUint16(dst[16:], uint16(size-1))
	binary.LittleEndian.PutUint32(dst[size-8:], crc32.ChecksumIEEE(src))
	binary.LittleEndian.PutUint32(dst[size-4:], uint32(len(src)))
	return size, nil
}

// validHeader reports whether h is a BGZF member header.
func validHeader(h []byte) bool {
	return len(h) == HeaderLength &&
		h[0] == 31 && h[1] == 139 && h[2] == 8 &&
		h[3]&4 != 0 &&
		binary.LittleEndian.Uint16(h[10:]) == 6 &&
		h[12] == 'B' && h[13] == 'C'
}

// readFrame reads one complete BGZF member from r into frame and returns
// its length. It returns io.EOF if r holds no more bytes at a member
// boundary. frame must be at least MaxBlockSize long.
func readFrame(r io.Reader, frame []byte, name string, off int64) (int, error) {
	n, err := io.ReadFull(r, frame[:HeaderLength])
	switch err {
	case nil:
	case io.EOF:
		return 0, io.EOF
	case io.ErrUnexpectedEOF:
		return 0, base.Markf(base.ErrTruncated, "bgzf: %s: truncated header at offset %d: %d of %d bytes", name, off, n, HeaderLength)
	default:
		return 0, err
	}
	if !validHeader(frame[:HeaderLength]) {
		return 0, base.Markf(base.ErrCorrupt, "bgzf: %s: invalid block header at offset %d", name, off)
	}
	size := int(binary.LittleEndian.Uint16(frame[16:])) + 1
	if size < minFrame {
		return 0, base.Markf(base.ErrCorrupt, "bgzf: %s: invalid block size %d at offset %d", name, size, off)
	}
	n, err = io.ReadFull(r, frame[HeaderLength:size])
	switch err {
	case nil:
	case io.EOF, io.ErrUnexpectedEOF:
		return 0, base.Markf(base.ErrTruncated, "bgzf: %s: truncated block at offset %d: %d of %d bytes", name, off, HeaderLength+n, size)
	default:
		return 0, err
	}
	return size, nil
}

// decodeFrame decompresses the BGZF member in frame into dst and
// returns the number of decompressed bytes.
func decodeFrame(dst, frame []byte, d *codec.Deflate, name string, off int64) (int, error) {
	size := len(frame)
	want := int(binary.LittleEndian.Uint32(frame[size-4:]))
	if want > len(dst) || want > MaxBlockSize {
		return 0, base.Markf(base.ErrCorrupt, "bgzf: %s: block at offset %d declares %d bytes", name, off, want)
	}
	n, err := d.Decompress(dst[:want], frame[HeaderLength:size-trailerLength])
	if err != nil {
		return 0, base.Wrapf(err, base.ErrDecompress, "bgzf: %s: block at offset %d", name, off)
	}
	if n != want {
		return 0, base.Markf(base.ErrDecompress, "bgzf: %s: block at offset %d: size mismatch: got:%d want:%d", name, off, n, want)
	}
	if sum := crc32.ChecksumIEEE(dst[:n]); sum != binary.LittleEndian.Uint32(frame[size-8:]) {
		return 0, base.Markf(base.ErrDecompress, "bgzf: %s: block at offset %d: checksum mismatch", name, off)
	}
	return n, nil
}
