// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"bytes"
	"io"

	"github.com/varanno/compression/internal/base"
)

// TextReader reads delimited lines from a decompressing Stream and
// reports the virtual file pointer of each line start.
type TextReader struct {
	s          *Stream
	wasBlocked bool

	// Delim is the line terminator. It is '\n' unless changed.
	Delim byte

	buf      []byte
	pos, end int
	bufPos   int64
	line     []byte

	err error
}

// NewTextReader returns a TextReader reading from s. The Stream is put
// into Blocked mode until the TextReader is closed.
func NewTextReader(s *Stream) (*TextReader, error) {
	if s == nil {
		return nil, base.Markf(base.ErrNilStream, "bgzf: nil stream")
	}
	if s.mode != Decompress {
		return nil, base.Markf(base.ErrCapability, "bgzf: %s: text reader needs a decompressor", s.name)
	}
	t := &TextReader{
		s:          s,
		wasBlocked: s.Blocked,
		Delim:      '\n',
		buf:        make([]byte, BlockSize),
	}
	s.Blocked = true
	return t, nil
}

// fill reads the next run of bytes from a single block into buf.
func (t *TextReader) fill() error {
	t.bufPos = t.s.Position()
	n, err := t.s.Read(t.buf)
	t.pos, t.end = 0, n
	return err
}

// ReadLine returns the next line without its terminator. An
// unterminated final line is returned with a nil error. ReadLine
// returns io.EOF only when no data remains.
func (t *TextReader) ReadLine() (string, error) {
	t.line = t.line[:0]
	for {
		if t.pos >= t.end {
			if t.err != nil {
				break
			}
			t.err = t.fill()
			if t.end == 0 {
				if t.err == nil {
					continue
				}
				break
			}
		}
		if i := bytes.IndexByte(t.buf[t.pos:t.end], t.Delim); i >= 0 {
			t.line = append(t.line, t.buf[t.pos:t.pos+i]...)
			t.pos += i + 1
			return string(t.line), nil
		}
		t.line = append(t.line, t.buf[t.pos:t.end]...)
		t.pos = t.end
	}
	if len(t.line) != 0 && t.err == io.EOF {
		return string(t.line), nil
	}
	return "", t.err
}

// Position returns the virtual file pointer of the next unread byte.
func (t *TextReader) Position() int64 {
	if t.pos >= t.end {
		return t.s.Position()
	}
	return t.bufPos + int64(t.pos)
}

// Close restores the blocking mode of the Stream and closes it.
func (t *TextReader) Close() error {
	if t.s == nil {
		return nil
	}
	t.s.Blocked = t.wasBlocked
	err := t.s.Close()
	t.s = nil
	return err
}

// TextWriter writes text to a compressing Stream.
type TextWriter struct {
	s   *Stream
	buf []byte
	err error
}

// NewTextWriter returns a TextWriter writing to s.
func NewTextWriter(s *Stream) (*TextWriter, error) {
	if s == nil {
		return nil, base.Markf(base.ErrNilStream, "bgzf: nil stream")
	}
	if s.mode != Compress {
		return nil, base.Markf(base.ErrCapability, "bgzf: %s: text writer needs a compressor", s.name)
	}
	return &TextWriter{s: s, buf: make([]byte, 0, BlockSize)}, nil
}

// Write writes str.
func (t *TextWriter) Write(str string) error {
	if t.err != nil {
		return t.err
	}
	for len(str) != 0 {
		if len(t.buf) == cap(t.buf) {
			if err := t.drain(); err != nil {
				return err
			}
		}
		n := cap(t.buf) - len(t.buf)
		if n > len(str) {
			n = len(str)
		}
		t.buf = append(t.buf, str[:n]...)
		str = str[n:]
	}
	return nil
}

// WriteLine writes str followed by a newline.
func (t *TextWriter) WriteLine(str string) error {
	if err := t.Write(str); err != nil {
		return err
	}
	return t.Write("\n")
}

func (t *TextWriter) drain() error {
	if len(t.buf) == 0 {
		return nil
	}
	_, t.err = t.s.Write(t.buf)
	t.buf = t.buf[:0]
	return t.err
}

// Flush writes buffered text to the Stream and ends the current BGZF
// member, so the next write starts a new block.
func (t *TextWriter) Flush() error {
	if t.err != nil {
		return t.err
	}
	if err := t.drain(); err != nil {
		return err
	}
	t.err = t.s.Flush()
	return t.err
}

// Position returns the virtual file pointer at which the next byte
// written will be stored.
//
// When the buffered text fills the current block, Position writes it
// to the Stream, completing the BGZF member so the address of the
// following member is known. An error from that write is not returned
// by Position; it is held by Err and returned by subsequent calls to
// Write, WriteLine, Flush and Close.
func (t *TextWriter) Position() int64 {
	if t.s.wn+len(t.buf) < BlockSize {
		return t.s.Position() + int64(len(t.buf))
	}
	t.drain() // A failure is held by t.err.
	return t.s.Position()
}

// Err returns the first error encountered by the TextWriter.
func (t *TextWriter) Err() error { return t.err }

// Close writes buffered text and closes the Stream.
func (t *TextWriter) Close() error {
	if t.s == nil {
		return nil
	}
	err := t.err
	if err == nil {
		err = t.drain()
	}
	cerr := t.s.Close()
	t.s = nil
	if err == nil {
		err = cerr
	}
	return err
}
