// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockstream

import (
	"encoding/binary"
	"io"

	"github.com/varanno/compression/internal/base"
)

const (
	// HeaderSize is the on-disk length of a frame Header.
	HeaderSize = 12

	// Magic is the frame header identifier, stored little endian.
	Magic int32 = -822411574

	// magicBits is the two's complement bit pattern of Magic.
	magicBits uint32 = 0xcefafeca
)

// Header precedes each frame of a block stream. A Header with both
// lengths set to -1 marks the end of the stream. A NumCompressedBytes
// of -1 marks a frame stored without compression.
type Header struct {
	NumUncompressedBytes int32
	NumCompressedBytes   int32
}

// IsEmpty returns whether h is the end of stream sentinel.
func (h *Header) IsEmpty() bool {
	return h.NumUncompressedBytes == -1 && h.NumCompressedBytes == -1
}

// IsRaw returns whether h describes an uncompressed frame.
func (h *Header) IsRaw() bool {
	return h.NumCompressedBytes == -1 && h.NumUncompressedBytes >= 0
}

// Write writes the 12 byte encoding of h to w.
func (h *Header) Write(w io.Writer) error {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], magicBits)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.NumUncompressedBytes))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(h.NumCompressedBytes))
	_, err := w.Write(buf[:])
	return err
}

// Read reads a Header from r. If r is exhausted before the first
// byte, both lengths are set to -1 and Read returns io.EOF.
func (h *Header) Read(r io.Reader) error {
	var buf [HeaderSize]byte
	n, err := io.ReadFull(r, buf[:])
	switch err {
	case nil:
	case io.EOF:
		h.NumUncompressedBytes = -1
		h.NumCompressedBytes = -1
		return io.EOF
	case io.ErrUnexpectedEOF:
		return base.Markf(base.ErrTruncated, "blockstream: truncated frame header: %d of %d bytes", n, HeaderSize)
	default:
		return err
	}
	if magic := int32(binary.LittleEndian.Uint32(buf[0:4])); magic != Magic {
		return base.Markf(base.ErrCorrupt, "blockstream: invalid frame magic %#x", uint32(magic))
	}
	h.NumUncompressedBytes = int32(binary.LittleEndian.Uint32(buf[4:8]))
	h.NumCompressedBytes = int32(binary.LittleEndian.Uint32(buf[8:12]))
	if h.IsEmpty() {
		return nil
	}
	if h.NumUncompressedBytes < 0 || h.NumCompressedBytes < -1 {
		return base.Markf(base.ErrCorrupt, "blockstream: invalid frame lengths: uncompressed=%d compressed=%d",
			h.NumUncompressedBytes, h.NumCompressedBytes)
	}
	return nil
}
