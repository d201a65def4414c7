// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package peek provides a buffered reader that allows the leading bytes
// of a stream to be inspected before a decoder for the stream is chosen.
package peek

import (
	"io"

	"github.com/varanno/compression/internal/base"
)

// DefaultBufferSize is the buffer size used by NewDefaultReader.
const DefaultBufferSize = 4096

const maxConsecutiveEmptyReads = 100

// Errors returned by the peek package.
var (
	ErrNilStream   = base.ErrNilStream
	ErrCapability  = base.ErrCapability
	ErrNotSeekable = base.ErrNotSeekable
	ErrClosed      = base.ErrClosed
	ErrOffsetRange = base.ErrOffsetRange
	ErrShortBuffer = base.ErrShortBuffer
)

// Reader is a read-only buffering wrapper around an io.Reader.
type Reader struct {
	rd   io.Reader
	name string

	buf      []byte
	pos, end int

	// off is the offset in rd of buf[end].
	off int64

	err error
}

// NewReader returns a Reader with a buffer of size bytes, filled with
// a first read from r.
func NewReader(r io.Reader, size int) (*Reader, error) {
	if r == nil {
		return nil, base.Markf(base.ErrNilStream, "peek: nil underlying stream")
	}
	if size <= 0 {
		return nil, base.Markf(base.ErrCapability, "peek: invalid buffer size: %d", size)
	}
	p := &Reader{
		rd:   r,
		name: base.NameOf(r),
		buf:  make([]byte, size),
	}
	if s, ok := r.(io.Seeker); ok {
		if off, err := s.Seek(0, io.SeekCurrent); err == nil {
			p.off = off
		}
	}
	p.fill()
	return p, nil
}

// NewDefaultReader returns a Reader with a buffer of DefaultBufferSize.
func NewDefaultReader(r io.Reader) (*Reader, error) {
	return NewReader(r, DefaultBufferSize)
}

// Name returns the name of the underlying stream.
func (p *Reader) Name() string { return p.name }

// Size returns the size of the buffer.
func (p *Reader) Size() int { return len(p.buf) }

// Buffered returns the number of bytes that can be read from the
// buffer without reading from the underlying stream.
func (p *Reader) Buffered() int { return p.end - p.pos }

// fill moves unread data to the start of the buffer and reads a new
// chunk into the free space.
func (p *Reader) fill() {
	if p.pos > 0 {
		copy(p.buf, p.buf[p.pos:p.end])
		p.end -= p.pos
		p.pos = 0
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := p.rd.Read(p.buf[p.end:])
		p.end += n
		p.off += int64(n)
		if err != nil {
			p.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	p.err = io.ErrNoProgress
}

func (p *Reader) readErr() error {
	err := p.err
	p.err = nil
	return err
}

// Peek returns the next n bytes without advancing the reader. The
// returned slice is only valid until the next call to Read or Seek.
// If fewer than n bytes are available, Peek returns them with the
// error that ended the stream. n must not exceed the buffer size.
func (p *Reader) Peek(n int) ([]byte, error) {
	if p.rd == nil {
		return nil, base.Markf(base.ErrClosed, "peek: %s: peek", p.name)
	}
	if n < 0 {
		return nil, base.Markf(base.ErrOffsetRange, "peek: negative count: %d", n)
	}
	if n > len(p.buf) {
		return p.buf[p.pos:p.end], base.Markf(base.ErrShortBuffer, "peek: %d bytes exceeds buffer size %d", n, len(p.buf))
	}
	for p.end-p.pos < n && p.err == nil {
		p.fill()
	}
	if p.end-p.pos < n {
		return p.buf[p.pos:p.end], p.readErr()
	}
	return p.buf[p.pos : p.pos+n], nil
}

// Read implements the io.Reader interface. Buffered data is returned
// first. Requests at least as large as the buffer are read directly
// from the underlying stream when the buffer is empty.
func (p *Reader) Read(b []byte) (int, error) {
	if p.rd == nil {
		return 0, base.Markf(base.ErrClosed, "peek: %s: read", p.name)
	}
	if len(b) == 0 {
		if p.Buffered() > 0 {
			return 0, nil
		}
		return 0, p.readErr()
	}
	if p.pos == p.end {
		if p.err != nil {
			return 0, p.readErr()
		}
		p.pos, p.end = 0, 0
		if len(b) >= len(p.buf) {
			n, err := p.rd.Read(b)
			p.off += int64(n)
			return n, err
		}
		p.fill()
		if p.end == 0 {
			return 0, p.readErr()
		}
	}
	n := copy(b, p.buf[p.pos:p.end])
	p.pos += n
	return n, nil
}

// Position returns the offset in the underlying stream of the next
// byte to be read.
func (p *Reader) Position() int64 {
	return p.off - int64(p.end-p.pos)
}

// Seek implements the io.Seeker interface. A target within the
// buffered bytes is reached without moving the underlying stream.
// Otherwise the buffer is discarded.
func (p *Reader) Seek(offset int64, whence int) (int64, error) {
	if p.rd == nil {
		return 0, base.Markf(base.ErrClosed, "peek: %s: seek", p.name)
	}
	s, ok := p.rd.(io.Seeker)
	if !ok {
		return 0, base.Markf(base.ErrNotSeekable, "peek: %s: seek", p.name)
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = p.Position() + offset
	case io.SeekEnd:
		return p.seek(s, offset, io.SeekEnd)
	default:
		return 0, base.Markf(base.ErrOffsetRange, "peek: invalid whence: %d", whence)
	}
	if target < 0 {
		return 0, base.Markf(base.ErrOffsetRange, "peek: negative position: %d", target)
	}

	start := p.off - int64(p.end)
	if start <= target && target < p.off {
		p.pos = int(target - start)
		return target, nil
	}
	return p.seek(s, target, io.SeekStart)
}

func (p *Reader) seek(s io.Seeker, offset int64, whence int) (int64, error) {
	n, err := s.Seek(offset, whence)
	if err != nil {
		return n, err
	}
	p.off = n
	p.pos, p.end = 0, 0
	p.err = nil
	return n, nil
}

// Close closes the underlying stream if it is an io.Closer. Calling
// Close more than once has no effect.
func (p *Reader) Close() error {
	if p.rd == nil {
		return nil
	}
	var err error
	if c, ok := p.rd.(io.Closer); ok {
		err = c.Close()
	}
	p.rd = nil
	p.buf = nil
	p.pos, p.end = 0, 0
	return err
}
