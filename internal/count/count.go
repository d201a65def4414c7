// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package count provides offset tracking wrappers for the streams
// underlying the block containers.
package count

import "io"

// Reader tracks the file offset of an underlying io.Reader.
type Reader struct {
	r io.Reader

	// Off is the offset of the next byte to be read.
	Off int64
}

// NewReader returns a Reader wrapping r. If r is an io.Seeker the
// initial offset is taken from its current position.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, Off: current(r)}
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.Off += int64(n)
	return n, err
}

// CanSeek returns whether the underlying reader is an io.Seeker.
func (r *Reader) CanSeek() bool {
	_, ok := r.r.(io.Seeker)
	return ok
}

// SeekTo positions the underlying reader at the absolute offset off.
func (r *Reader) SeekTo(off int64) error {
	n, err := seekTo(r.r, off)
	if err != nil {
		return err
	}
	r.Off = n
	return nil
}

// Writer tracks the file offset of an underlying io.Writer.
type Writer struct {
	w io.Writer

	// Off is the offset of the next byte to be written.
	Off int64
}

// NewWriter returns a Writer wrapping w. If w is an io.Seeker the
// initial offset is taken from its current position.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, Off: current(w)}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.Off += int64(n)
	return n, err
}

// CanSeek returns whether the underlying writer is an io.Seeker.
func (w *Writer) CanSeek() bool {
	_, ok := w.w.(io.Seeker)
	return ok
}

// SeekTo positions the underlying writer at the absolute offset off.
func (w *Writer) SeekTo(off int64) error {
	n, err := seekTo(w.w, off)
	if err != nil {
		return err
	}
	w.Off = n
	return nil
}

// ErrNotSeeker is returned by SeekTo when the underlying stream
// is not an io.Seeker.
var ErrNotSeeker = notSeeker{}

type notSeeker struct{}

func (notSeeker) Error() string { return "count: underlying stream is not an io.Seeker" }

func current(v interface{}) int64 {
	s, ok := v.(io.Seeker)
	if !ok {
		return 0
	}
	off, err := s.Seek(0, io.SeekCurrent)
	if err != nil {
		// Pipes and terminals satisfy io.Seeker but cannot seek.
		return 0
	}
	return off
}

func seekTo(v interface{}, off int64) (int64, error) {
	s, ok := v.(io.Seeker)
	if !ok {
		return 0, ErrNotSeeker
	}
	return s.Seek(off, io.SeekStart)
}
