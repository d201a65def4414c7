// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"golang.org/x/exp/mmap"

	"github.com/varanno/compression/bgzf"
	"github.com/varanno/compression/internal/base"
	"github.com/varanno/compression/peek"
)

// NewReader detects the format of r and returns a reader of its
// decompressed contents. Closing the returned reader closes r if it
// is an io.Closer.
func NewReader(r io.Reader) (io.ReadCloser, Format, error) {
	p, err := peek.NewDefaultReader(r)
	if err != nil {
		return nil, Unknown, err
	}
	f, err := Detect(p)
	if err != nil {
		p.Close()
		return nil, f, err
	}

	var rc io.ReadCloser
	switch f {
	case Text:
		return p, f, nil
	case BGZF:
		rc, err = bgzf.NewStream(p, bgzf.Decompress, false, 0)
	case Gzip:
		var gz *gzip.Reader
		gz, err = gzip.NewReader(p)
		if err == nil {
			rc = &readCloser{Reader: gz, close: []io.Closer{gz, p}}
		}
	case Zstd:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(p, zstd.WithDecoderConcurrency(1))
		if err == nil {
			rc = &readCloser{Reader: zr, close: []io.Closer{closerFunc(zr.Close), p}}
		}
	case XZ:
		var xr *xz.Reader
		xr, err = xz.NewReader(p)
		if err == nil {
			rc = &readCloser{Reader: xr, close: []io.Closer{p}}
		}
	default:
		err = base.Markf(base.ErrNotSupported, "compression: %s: unrecognised stream format", p.Name())
	}
	if err != nil {
		p.Close()
		return nil, f, err
	}
	return rc, f, nil
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

type readCloser struct {
	io.Reader
	close []io.Closer
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.close {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	r.close = nil
	return err
}

// File is a read-only file accessed through mapped memory.
type File struct {
	name string
	m    *mmap.ReaderAt
	*io.SectionReader
}

// Open opens the file at path for reading through mapped memory.
func Open(path string) (*File, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, err
	}
	return &File{
		name:          path,
		m:             m,
		SectionReader: io.NewSectionReader(m, 0, int64(m.Len())),
	}, nil
}

// Name returns the path of the file.
func (f *File) Name() string { return f.name }

// Close unmaps the file. Calling Close more than once has no effect.
func (f *File) Close() error {
	if f.m == nil {
		return nil
	}
	err := f.m.Close()
	f.m = nil
	return err
}

// OpenReader opens the file at path and returns a reader of its
// decompressed contents and its format.
func OpenReader(path string) (io.ReadCloser, Format, error) {
	f, err := Open(path)
	if err != nil {
		return nil, Unknown, err
	}
	return NewReader(f)
}
