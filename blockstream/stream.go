// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blockstream implements a block compressed container with a
// pluggable compression algorithm.
//
// A block stream is an application header followed by a sequence of
// frames, each a 12 byte Header and its payload, and ends with a frame
// header whose lengths are both -1. Positions within the stream are
// saved and restored as BlockPosition values.
package blockstream

import (
	"bytes"
	"io"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/varanno/compression/codec"
	"github.com/varanno/compression/internal/base"
	"github.com/varanno/compression/internal/count"
	"github.com/varanno/compression/metrics"
)

// Errors returned by the blockstream package.
var (
	ErrNilStream    = base.ErrNilStream
	ErrCapability   = base.ErrCapability
	ErrCorrupt      = base.ErrCorrupt
	ErrTruncated    = base.ErrTruncated
	ErrDecompress   = base.ErrDecompress
	ErrMisuse       = base.ErrMisuse
	ErrNotSupported = base.ErrNotSupported
	ErrNotSeekable  = base.ErrNotSeekable
	ErrClosed       = base.ErrClosed
	ErrOffsetRange  = base.ErrOffsetRange
	ErrHeaderSize   = base.ErrHeaderSize
)

// Mode is the direction of a Stream.
type Mode int

const (
	Decompress Mode = iota
	Compress
)

func (m Mode) String() string {
	switch m {
	case Decompress:
		return "decompress"
	case Compress:
		return "compress"
	default:
		return "unknown"
	}
}

// BlockPosition is a saved cursor into a block stream.
type BlockPosition struct {
	FileOffset     int64
	InternalOffset int
}

// HeaderReader parses an application header from r. The custom
// function, which may be nil, parses any custom sub-header.
type HeaderReader func(r io.Reader, custom CustomReader) (interface{}, error)

// CustomReader parses a custom sub-header.
type CustomReader func(r io.Reader) (interface{}, error)

// Stream is a compressing or decompressing block stream.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	mode      Mode
	name      string
	rw        interface{}
	leaveOpen bool
	closed    bool

	blk *Block

	r      *count.Reader
	loaded bool
	eof    bool

	w         *count.Writer
	header    func(io.Writer) error
	headerOff int64
	headerLen int

	err error

	log base.Logger
	rec *metrics.Recorder
}

// NewStream returns a Stream over rw that compresses or decompresses
// frames of up to size bytes with alg. In Decompress mode rw must be an
// io.Reader and in Compress mode an io.Writer. If size is not positive,
// DefaultBlockSize is used. If leaveOpen is false, Close closes rw when
// it is an io.Closer.
func NewStream(alg codec.Algorithm, rw interface{}, mode Mode, leaveOpen bool, size int) (*Stream, error) {
	if rw == nil {
		return nil, base.Markf(base.ErrNilStream, "blockstream: nil underlying stream")
	}
	if alg == nil {
		return nil, base.Markf(base.ErrCapability, "blockstream: nil compression algorithm")
	}
	s := &Stream{
		mode:      mode,
		name:      base.NameOf(rw),
		rw:        rw,
		leaveOpen: leaveOpen,
		log:       base.DefaultLogger{},
	}
	switch mode {
	case Decompress:
		r, ok := rw.(io.Reader)
		if !ok {
			return nil, base.Markf(base.ErrCapability, "blockstream: %s: cannot decompress from a stream that is not readable", s.name)
		}
		s.r = count.NewReader(r)
	case Compress:
		w, ok := rw.(io.Writer)
		if !ok {
			return nil, base.Markf(base.ErrCapability, "blockstream: %s: cannot compress to a stream that is not writable", s.name)
		}
		s.w = count.NewWriter(w)
	default:
		return nil, base.Markf(base.ErrCapability, "blockstream: invalid mode: %d", mode)
	}
	s.blk = NewBlock(alg, size)
	return s, nil
}

// Name returns the name of the underlying stream.
func (s *Stream) Name() string { return s.name }

// CanRead returns whether the Stream is a decompressor.
func (s *Stream) CanRead() bool { return s.mode == Decompress && !s.closed }

// CanWrite returns whether the Stream is a compressor.
func (s *Stream) CanWrite() bool { return s.mode == Compress && !s.closed }

// CanSeek returns whether the underlying stream is an io.Seeker.
func (s *Stream) CanSeek() bool {
	if s.closed {
		return false
	}
	if s.mode == Compress {
		return s.w.CanSeek()
	}
	return s.r.CanSeek()
}

// SetLogger sets the Logger used to report a missing end of stream
// frame. A nil Logger discards messages.
func (s *Stream) SetLogger(l base.Logger) {
	if l == nil {
		l = base.NoopLogger{}
	}
	s.log = l
}

// SetMetrics sets the collectors updated for each frame processed by
// the Stream. A nil Metrics disables collection.
func (s *Stream) SetMetrics(m *metrics.Metrics) {
	direction := metrics.Read
	if s.mode == Compress {
		direction = metrics.Write
	}
	s.rec = m.Recorder("block_"+s.blk.alg.Name(), direction)
}

// WriteHeader writes an application header using fn. The header is
// written again by fn at Close, at the same offset, so fn may record
// values only known once all data has been written. The rewritten
// header must have the same length. WriteHeader requires the
// underlying stream to be an io.WriteSeeker.
func (s *Stream) WriteHeader(fn func(io.Writer) error) error {
	if s.mode != Compress {
		return base.Markf(base.ErrMisuse, "blockstream: %s: write header to a decompressor", s.name)
	}
	if s.closed {
		return base.Markf(base.ErrClosed, "blockstream: %s: write header", s.name)
	}
	if !s.w.CanSeek() {
		return base.Markf(base.ErrNotSeekable, "blockstream: %s: header rewrite needs a seekable stream", s.name)
	}
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	s.header = fn
	s.headerOff = s.w.Off
	s.headerLen = buf.Len()
	_, err := s.w.Write(buf.Bytes())
	return err
}

// rewriteHeader writes the application header again at its original
// offset and returns the underlying stream to its end.
func (s *Stream) rewriteHeader() error {
	if s.header == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := s.header(&buf); err != nil {
		return err
	}
	if buf.Len() != s.headerLen {
		return base.Markf(base.ErrHeaderSize, "blockstream: %s: header rewritten with %d bytes, was %d", s.name, buf.Len(), s.headerLen)
	}
	end := s.w.Off
	if err := s.w.SeekTo(s.headerOff); err != nil {
		return errors.Wrapf(err, "blockstream: %s: seek to header", s.name)
	}
	if _, err := s.w.Write(buf.Bytes()); err != nil {
		return errors.Wrapf(err, "blockstream: %s: rewrite header", s.name)
	}
	return s.w.SeekTo(end)
}

// ReadHeader parses the application header at the current position of
// the underlying stream with read and returns the parsed value.
func (s *Stream) ReadHeader(read HeaderReader, custom CustomReader) (interface{}, error) {
	if s.mode != Decompress {
		return nil, base.Markf(base.ErrMisuse, "blockstream: %s: read header from a compressor", s.name)
	}
	if s.closed {
		return nil, base.Markf(base.ErrClosed, "blockstream: %s: read header", s.name)
	}
	return read(s.r, custom)
}

// Read implements the io.Reader interface. After the end of the stream
// is reached, Read returns io.EOF until SetBlockPosition is called.
func (s *Stream) Read(p []byte) (int, error) {
	if s.mode != Decompress {
		return 0, base.Markf(base.ErrMisuse, "blockstream: %s: read from a compressor", s.name)
	}
	if s.closed {
		return 0, base.Markf(base.ErrClosed, "blockstream: %s: read", s.name)
	}
	if s.err != nil {
		return 0, s.err
	}
	if s.eof {
		return 0, io.EOF
	}

	var n int
	for n < len(p) {
		if !s.loaded || !s.blk.HasMoreData() {
			err := s.readBlock()
			if err == io.EOF {
				s.eof = true
				if n != 0 {
					return n, nil
				}
				return 0, io.EOF
			}
			if err != nil {
				s.err = err
				return n, err
			}
			continue
		}
		n += s.blk.CopyFrom(p[n:])
	}
	return n, nil
}

func (s *Stream) readBlock() error {
	off := s.r.Off
	start := time.Now()
	n, err := s.blk.Read(s.r)
	s.loaded = true
	if err == io.EOF {
		if !s.blk.sentinel {
			s.log.Infof("blockstream: %s: missing end of stream frame at offset %d", s.name, off)
		}
		return io.EOF
	}
	if err != nil {
		return errors.Wrapf(err, "blockstream: %s: frame at offset %d", s.name, off)
	}
	s.rec.Block(int(s.r.Off-off), n, time.Since(start))
	return nil
}

// Write implements the io.Writer interface.
func (s *Stream) Write(p []byte) (int, error) {
	if s.mode != Compress {
		return 0, base.Markf(base.ErrMisuse, "blockstream: %s: write to a decompressor", s.name)
	}
	if s.closed {
		return 0, base.Markf(base.ErrClosed, "blockstream: %s: write", s.name)
	}
	if s.err != nil {
		return 0, s.err
	}

	var n int
	for n < len(p) {
		n += s.blk.CopyTo(p[n:])
		if s.blk.IsFull() {
			if err := s.writeBlock(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (s *Stream) writeBlock() error {
	off := s.w.Off
	uncompressed := s.blk.Offset
	start := time.Now()
	size, err := s.blk.Write(s.w)
	if err != nil {
		s.err = errors.Wrapf(err, "blockstream: %s: write frame at offset %d", s.name, off)
		return s.err
	}
	s.rec.Block(size, uncompressed, time.Since(start))
	return nil
}

// Flush writes any buffered data as a frame. It is a no-op for a
// decompressor.
func (s *Stream) Flush() error {
	if s.mode != Compress {
		return nil
	}
	if s.closed {
		return base.Markf(base.ErrClosed, "blockstream: %s: flush", s.name)
	}
	if s.err != nil {
		return s.err
	}
	if s.blk.Offset == 0 {
		return nil
	}
	return s.writeBlock()
}

// BlockPosition returns the current cursor of the Stream. For a
// compressor the FileOffset is that of the next frame to be written.
// For a decompressor that has read to the end of the resident frame
// it is the start of the following frame.
func (s *Stream) BlockPosition() BlockPosition {
	if s.mode == Compress {
		return BlockPosition{FileOffset: s.w.Off, InternalOffset: s.blk.Offset}
	}
	if !s.loaded || (!s.blk.HasMoreData() && !s.blk.end) {
		return BlockPosition{FileOffset: s.r.Off}
	}
	return BlockPosition{FileOffset: s.blk.FileOffset, InternalOffset: s.blk.Offset}
}

// SetBlockPosition restores a cursor returned by BlockPosition. The
// frame at bp.FileOffset is read unless it is already resident.
func (s *Stream) SetBlockPosition(bp BlockPosition) error {
	if s.mode != Decompress {
		return base.Markf(base.ErrNotSupported, "blockstream: %s: cannot set the position of a compressor", s.name)
	}
	if s.closed {
		return base.Markf(base.ErrClosed, "blockstream: %s: set position", s.name)
	}
	if bp.FileOffset < 0 || bp.InternalOffset < 0 {
		return base.Markf(base.ErrOffsetRange, "blockstream: %s: invalid position %+v", s.name, bp)
	}
	s.err = nil
	if !s.loaded || bp.FileOffset != s.blk.FileOffset {
		if s.r.Off != bp.FileOffset {
			if err := s.r.SeekTo(bp.FileOffset); err != nil {
				if errors.Is(err, count.ErrNotSeeker) {
					return base.Markf(base.ErrNotSeekable, "blockstream: %s: cannot move to offset %d", s.name, bp.FileOffset)
				}
				return errors.Wrapf(err, "blockstream: %s: seek to offset %d", s.name, bp.FileOffset)
			}
		}
		if err := s.readBlock(); err != nil && err != io.EOF {
			s.err = err
			return err
		}
	}
	if bp.InternalOffset > s.blk.Len() {
		return base.Markf(base.ErrOffsetRange, "blockstream: %s: offset %d beyond %d byte frame at %d", s.name, bp.InternalOffset, s.blk.Len(), bp.FileOffset)
	}
	s.blk.Offset = bp.InternalOffset
	s.eof = s.blk.end
	return nil
}

// Close closes the Stream. A compressor writes any buffered data, the
// end of stream frame and then rewrites the application header. The
// underlying stream is closed unless the Stream was created to leave
// it open. Calling Close more than once has no effect.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	var err error
	if s.mode == Compress {
		err = s.err
		if err == nil && s.blk.Offset != 0 {
			err = s.writeBlock()
		}
		if err == nil {
			err = s.blk.WriteEOF(s.w)
		}
		if err == nil {
			err = s.rewriteHeader()
		}
	}
	s.closed = true
	if !s.leaveOpen {
		if c, ok := s.rw.(io.Closer); ok {
			cerr := c.Close()
			if err == nil {
				err = cerr
			}
		}
	}
	return err
}
