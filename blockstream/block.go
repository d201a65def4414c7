// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockstream

import (
	"io"

	"github.com/cockroachdb/errors"

	"github.com/varanno/compression/codec"
	"github.com/varanno/compression/internal/base"
	"github.com/varanno/compression/internal/count"
)

// DefaultBlockSize is the uncompressed capacity of a Block when no
// size is given.
const DefaultBlockSize = 16 << 20

// Block holds one frame of a block stream in both its uncompressed
// and compressed forms. The buffers are allocated once and reused for
// every frame.
type Block struct {
	alg    codec.Algorithm
	header Header

	data       []byte
	compressed []byte

	// n is the number of valid bytes in data after Read.
	n int

	// sentinel is set when Read found the end of stream
	// header and end when Read returned io.EOF.
	sentinel bool
	end      bool

	// Offset is the cursor into the uncompressed data.
	Offset int

	// FileOffset is the offset of the start of the last frame
	// read, or the offset following the last frame written.
	// It is -1 when it could not be determined.
	FileOffset int64
}

// NewBlock returns a Block holding up to size uncompressed bytes
// that are compressed with alg. If size is not positive,
// DefaultBlockSize is used.
func NewBlock(alg codec.Algorithm, size int) *Block {
	if size <= 0 {
		size = DefaultBlockSize
	}
	return &Block{
		alg:        alg,
		data:       make([]byte, size),
		compressed: make([]byte, alg.CompressBound(size)),
		FileOffset: -1,
	}
}

// Size returns the uncompressed capacity of the Block.
func (b *Block) Size() int { return len(b.data) }

// Len returns the number of uncompressed bytes held after a Read.
func (b *Block) Len() int { return b.n }

// Header returns the header of the last frame read or written.
func (b *Block) Header() Header { return b.header }

// HasMoreData returns whether unread bytes remain in the Block.
func (b *Block) HasMoreData() bool { return b.Offset < b.n }

// IsFull returns whether the Block has no room for more bytes.
func (b *Block) IsFull() bool { return b.Offset == len(b.data) }

// CopyFrom copies unread bytes from the Block into p and returns the
// number of bytes copied.
func (b *Block) CopyFrom(p []byte) int {
	n := copy(p, b.data[b.Offset:b.n])
	b.Offset += n
	return n
}

// CopyTo copies bytes from p into the Block's free space and returns
// the number of bytes copied.
func (b *Block) CopyTo(p []byte) int {
	n := copy(b.data[b.Offset:], p)
	b.Offset += n
	return n
}

// Read reads the next frame from r and decompresses it into the Block,
// resetting Offset. It returns the number of uncompressed bytes, or
// io.EOF at the end of stream header or when r is exhausted at a
// frame boundary.
func (b *Block) Read(r io.Reader) (int, error) {
	b.FileOffset = offsetOf(r)
	b.Offset = 0
	b.n = 0
	b.sentinel = false
	b.end = false

	err := b.header.Read(r)
	if err == io.EOF || (err == nil && b.header.IsEmpty()) {
		b.sentinel = err == nil
		b.end = true
		return 0, io.EOF
	}
	if err != nil {
		return 0, err
	}

	want := int(b.header.NumUncompressedBytes)
	if want > len(b.data) {
		return 0, base.Markf(base.ErrCorrupt, "blockstream: frame of %d bytes exceeds block size %d", want, len(b.data))
	}
	if b.header.IsRaw() {
		if err := readFull(r, b.data[:want]); err != nil {
			return 0, err
		}
		b.n = want
		return want, nil
	}

	size := int(b.header.NumCompressedBytes)
	if size > len(b.compressed) {
		return 0, base.Markf(base.ErrCorrupt, "blockstream: compressed frame of %d bytes exceeds %s bound %d", size, b.alg.Name(), len(b.compressed))
	}
	if err := readFull(r, b.compressed[:size]); err != nil {
		return 0, err
	}
	n, err := b.alg.Decompress(b.data[:want], b.compressed[:size])
	if err != nil {
		return 0, base.Wrapf(err, base.ErrDecompress, "blockstream: %s frame", b.alg.Name())
	}
	if n != want {
		return 0, base.Markf(base.ErrDecompress, "blockstream: %s frame: size mismatch: got:%d want:%d", b.alg.Name(), n, want)
	}
	b.n = n
	return n, nil
}

func readFull(r io.Reader, p []byte) error {
	n, err := io.ReadFull(r, p)
	switch err {
	case nil:
		return nil
	case io.EOF, io.ErrUnexpectedEOF:
		return base.Markf(base.ErrTruncated, "blockstream: truncated frame: %d of %d bytes", n, len(p))
	default:
		return err
	}
}

// Write compresses the bytes before Offset and writes them to w as a
// frame, resetting Offset. Data that does not compress is stored raw.
// It returns the number of bytes written to w.
func (b *Block) Write(w io.Writer) (int, error) {
	src := b.data[:b.Offset]
	b.header.NumUncompressedBytes = int32(len(src))

	var payload []byte
	n, err := b.alg.Compress(b.compressed, src)
	switch {
	case err == nil && n <= len(src):
		b.header.NumCompressedBytes = int32(n)
		payload = b.compressed[:n]
	case err == nil, errors.Is(err, base.ErrShortBuffer):
		b.header.NumCompressedBytes = -1
		payload = src
	default:
		return 0, errors.Wrapf(err, "blockstream: %s compress", b.alg.Name())
	}

	if err := b.header.Write(w); err != nil {
		return 0, err
	}
	m, err := w.Write(payload)
	b.Offset = 0
	b.FileOffset = offsetOf(w)
	return HeaderSize + m, err
}

// WriteEOF writes the end of stream header to w.
func (b *Block) WriteEOF(w io.Writer) error {
	b.header = Header{NumUncompressedBytes: -1, NumCompressedBytes: -1}
	return b.header.Write(w)
}

// offsetOf returns the current offset of the stream s, or -1.
func offsetOf(s interface{}) int64 {
	switch s := s.(type) {
	case *count.Reader:
		return s.Off
	case *count.Writer:
		return s.Off
	case io.Seeker:
		off, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return -1
		}
		return off
	}
	return -1
}
