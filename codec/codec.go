// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec provides the pluggable block compression algorithms used
// by the block container streams.
//
// An Algorithm compresses and decompresses whole blocks between caller
// owned buffers. Algorithm values may hold reusable coder state and are
// not safe for concurrent use; each stream should obtain its own value
// from a constructor or Lookup.
package codec

import (
	"io"
	"sort"

	"github.com/varanno/compression/internal/base"
)

// Algorithm is a block compression algorithm.
type Algorithm interface {
	// Name returns the registered name of the algorithm.
	Name() string

	// Compress compresses src into dst and returns the number of
	// bytes written to dst. If dst is too small to hold the
	// compressed data, ErrShortBuffer is returned.
	Compress(dst, src []byte) (int, error)

	// Decompress decompresses src into dst and returns the number
	// of bytes written to dst. If the decompressed data does not
	// fit in dst, ErrShortBuffer is returned. Input that cannot be
	// decoded, including truncated input, gives ErrDecompress.
	Decompress(dst, src []byte) (int, error)

	// CompressBound returns the maximum compressed length of
	// n bytes of input.
	CompressBound(n int) int
}

// Errors returned by Algorithm implementations.
var (
	// ErrShortBuffer is returned when a destination buffer cannot
	// hold the result of an operation.
	ErrShortBuffer = base.ErrShortBuffer

	// ErrDecompress is returned when compressed input is truncated
	// or cannot be decoded.
	ErrDecompress = base.ErrDecompress
)

var constructors = map[string]func() Algorithm{
	"none":    func() Algorithm { return NewNone() },
	"deflate": func() Algorithm { return NewDeflate(DefaultLevel) },
	"zstd":    func() Algorithm { return NewZstd(DefaultLevel) },
	"snappy":  func() Algorithm { return NewSnappy() },
	"minlz":   func() Algorithm { return NewMinLZ(DefaultLevel) },
	"xz":      func() Algorithm { return NewXZ() },
}

// DefaultLevel requests the default compression level of an algorithm.
const DefaultLevel = -1

// Lookup returns a new Algorithm for the given name configured with
// its default level.
func Lookup(name string) (Algorithm, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, base.Markf(base.ErrNotSupported, "codec: unknown algorithm %q", name)
	}
	return fn(), nil
}

// Names returns the sorted names of the available algorithms.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sliceWriter is an io.Writer over a fixed buffer.
type sliceWriter struct {
	buf []byte
	n   int
}

func (w *sliceWriter) reset(buf []byte) {
	w.buf = buf
	w.n = 0
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.n:], p)
	w.n += n
	if n < len(p) {
		return n, ErrShortBuffer
	}
	return n, nil
}

// fill reads the output of the decoder r into dst until r reports
// io.EOF. It returns ErrShortBuffer if r holds more than len(dst)
// bytes. Any other decoder error, including io.ErrUnexpectedEOF for
// truncated input, is marked as ErrDecompress.
func fill(dst []byte, r io.Reader, name string) (int, error) {
	var (
		n     int
		one   [1]byte
		empty int
	)
	for {
		buf := dst[n:]
		if len(buf) == 0 {
			buf = one[:]
		}
		m, err := r.Read(buf)
		if len(dst) == n && m != 0 {
			return n, base.Markf(base.ErrShortBuffer, "codec: %s output exceeds %d bytes", name, len(dst))
		}
		n += m
		switch err {
		case nil:
			if m != 0 {
				empty = 0
				continue
			}
			empty++
			if empty == maxConsecutiveEmptyReads {
				return n, decodeError(io.ErrNoProgress, name)
			}
		case io.EOF:
			return n, nil
		default:
			return n, decodeError(err, name)
		}
	}
}

const maxConsecutiveEmptyReads = 100

// decodeError marks a decoder failure as ErrDecompress.
func decodeError(err error, name string) error {
	return base.Wrapf(err, base.ErrDecompress, "codec: %s", name)
}
