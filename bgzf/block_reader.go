// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"io"

	"github.com/varanno/compression/codec"
	"github.com/varanno/compression/internal/base"
	"github.com/varanno/compression/internal/count"
	"github.com/varanno/compression/internal/pool"
)

// ReadBlock reads the next BGZF member from r, using compressed as
// scratch space, and decompresses it into dst. It returns the number
// of decompressed bytes, or io.EOF if r is exhausted at a member
// boundary. Both buffers must be at least MaxBlockSize long.
//
// ReadBlock does not stop at the EOF block; it returns 0 and a nil
// error for it.
func ReadBlock(r io.Reader, compressed, dst []byte) (int, error) {
	return readBlock(r, codec.NewDeflate(codec.DefaultLevel), compressed, dst, base.NameOf(r), -1)
}

func readBlock(r io.Reader, d *codec.Deflate, compressed, dst []byte, name string, off int64) (int, error) {
	if len(compressed) < MaxBlockSize || len(dst) < MaxBlockSize {
		return 0, base.Markf(base.ErrShortBuffer, "bgzf: block buffers must hold %d bytes: have %d and %d", MaxBlockSize, len(compressed), len(dst))
	}
	size, err := readFrame(r, compressed, name, off)
	if err != nil {
		return 0, err
	}
	return decodeFrame(dst, compressed[:size], d, name, off)
}

// BlockReader reads BGZF members one at a time without seeking.
type BlockReader struct {
	r       *count.Reader
	name    string
	deflate *codec.Deflate

	compressed []byte
	data       []byte
	n          int
	base       int64

	err error
}

// NewBlockReader returns a BlockReader reading from r.
func NewBlockReader(r io.Reader) (*BlockReader, error) {
	if r == nil {
		return nil, base.Markf(base.ErrNilStream, "bgzf: nil underlying stream")
	}
	return &BlockReader{
		r:          count.NewReader(r),
		name:       base.NameOf(r),
		deflate:    codec.NewDeflate(codec.DefaultLevel),
		compressed: pool.GetBuffer(MaxBlockSize),
		data:       pool.GetBuffer(MaxBlockSize),
	}, nil
}

// Next decompresses the next non-empty member and returns its data.
// The returned slice is valid until the next call to Next. Next
// returns io.EOF after the EOF block or at the end of the stream.
func (b *BlockReader) Next() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.data == nil {
		return nil, base.Markf(base.ErrClosed, "bgzf: %s: next block", b.name)
	}
	b.base = b.r.Off
	b.n, b.err = readBlock(b.r, b.deflate, b.compressed, b.data, b.name, b.base)
	if b.err == nil && b.n == 0 {
		b.err = io.EOF
	}
	if b.err != nil {
		b.n = 0
		return nil, b.err
	}
	return b.data[:b.n], nil
}

// Base returns the file offset of the member last returned by Next.
func (b *BlockReader) Base() int64 { return b.base }

// Text returns the data of the member last returned by Next as a string.
func (b *BlockReader) Text() string { return string(b.data[:b.n]) }

// Close releases the buffers held by the BlockReader. It does not
// close the underlying reader.
func (b *BlockReader) Close() error {
	if b.data == nil {
		return nil
	}
	pool.PutBuffer(b.compressed)
	pool.PutBuffer(b.data)
	b.compressed = nil
	b.data = nil
	b.n = 0
	return nil
}
