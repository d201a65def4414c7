// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

import (
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/flate"

	"github.com/varanno/compression/codec"
	"github.com/varanno/compression/internal/base"
	"github.com/varanno/compression/internal/count"
	"github.com/varanno/compression/internal/pool"
	"github.com/varanno/compression/metrics"
)

// Mode is the direction of a Stream. It is fixed when the Stream
// is created.
type Mode int

const (
	// Decompress reads BGZF data from an io.Reader.
	Decompress Mode = iota
	// Compress writes BGZF data to an io.Writer.
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

// Stream is a BGZF compressor or decompressor. Its position is a
// virtual file pointer; see Position and SetPosition.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	mode      Mode
	name      string
	rw        interface{}
	leaveOpen bool
	closed    bool

	// Blocked specifies the behaviour of a decompressing Stream
	// at the end of a BGZF member. If Blocked is true, a call to
	// Read that has returned data will not continue into the
	// following member.
	Blocked bool

	// err is sticky. A decompressor holds io.EOF after the
	// end of the stream until SetPosition is called.
	err error

	r     *count.Reader
	blk   *Block
	off   int
	cache Cache

	w   *count.Writer
	buf []byte
	wn  int

	deflate *codec.Deflate
	frame   []byte

	log base.Logger
	rec *metrics.Recorder
}

// NewStream returns a Stream over rw in the given mode. In Decompress
// mode rw must be an io.Reader and in Compress mode an io.Writer. The
// level is a flate compression level and is ignored by decompressors.
// If leaveOpen is false, Close closes rw when it is an io.Closer.
func NewStream(rw interface{}, mode Mode, leaveOpen bool, level int) (*Stream, error) {
	if rw == nil {
		return nil, base.Markf(base.ErrNilStream, "bgzf: nil underlying stream")
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
			return nil, base.Markf(base.ErrCapability, "bgzf: %s: cannot decompress from a stream that is not readable", s.name)
		}
		s.r = count.NewReader(r)
		s.deflate = codec.NewDeflate(codec.DefaultLevel)
	case Compress:
		w, ok := rw.(io.Writer)
		if !ok {
			return nil, base.Markf(base.ErrCapability, "bgzf: %s: cannot compress to a stream that is not writable", s.name)
		}
		if level < flate.HuffmanOnly || level > flate.BestCompression {
			return nil, base.Markf(base.ErrCapability, "bgzf: invalid compression level: %d", level)
		}
		s.w = count.NewWriter(w)
		s.buf = make([]byte, BlockSize)
		s.deflate = codec.NewDeflate(level)
	default:
		return nil, base.Markf(base.ErrCapability, "bgzf: invalid mode: %d", mode)
	}
	s.frame = pool.GetBuffer(MaxBlockSize)
	return s, nil
}

// NewReader returns a decompressing Stream reading from r. Closing the
// Stream does not close r.
func NewReader(r io.Reader) (*Stream, error) {
	return NewStream(r, Decompress, true, 0)
}

// NewWriter returns a compressing Stream writing to w using the given
// flate compression level. Closing the Stream does not close w.
func NewWriter(w io.Writer, level int) (*Stream, error) {
	return NewStream(w, Compress, true, level)
}

// Name returns the name of the underlying stream.
func (s *Stream) Name() string { return s.name }

// Mode returns the direction of the Stream.
func (s *Stream) Mode() Mode { return s.mode }

// CanRead returns whether the Stream is a decompressor.
func (s *Stream) CanRead() bool { return s.mode == Decompress && !s.closed }

// CanWrite returns whether the Stream is a compressor.
func (s *Stream) CanWrite() bool { return s.mode == Compress && !s.closed }

// CanSeek returns whether SetPosition may move the Stream to a block
// that is not resident.
func (s *Stream) CanSeek() bool { return s.mode == Decompress && !s.closed && s.r.CanSeek() }

// SetLogger sets the Logger used to report tolerated anomalies such as
// a missing EOF block. A nil Logger discards messages.
func (s *Stream) SetLogger(l base.Logger) {
	if l == nil {
		l = base.NoopLogger{}
	}
	s.log = l
}

// SetMetrics sets the collectors updated for each block processed by
// the Stream. A nil Metrics disables collection.
func (s *Stream) SetMetrics(m *metrics.Metrics) {
	direction := metrics.Read
	if s.mode == Compress {
		direction = metrics.Write
	}
	s.rec = m.Recorder("bgzf", direction)
}

// SetCache sets the cache to be used by the Stream. The cache is only
// used when the underlying stream is an io.Seeker.
func (s *Stream) SetCache(c Cache) { s.cache = c }

// Position returns the virtual file pointer of the Stream. For a
// decompressor this is the offset of the next byte to be read; when
// the resident block has been read to its end it is the start of the
// following member. For a compressor it is the offset of the next byte
// to be written.
func (s *Stream) Position() int64 {
	if s.mode == Compress {
		return s.w.Off<<16 | int64(s.wn)
	}
	if s.blk == nil {
		return s.r.Off << 16
	}
	if s.off >= s.blk.n {
		return s.blk.NextBase() << 16
	}
	return s.blk.base<<16 | int64(s.off)
}

// Offset returns the Position of the Stream as an Offset.
func (s *Stream) Offset() Offset { return OffsetOf(s.Position()) }

// SetPosition moves a decompressor to the virtual file pointer vp.
// The underlying stream is only repositioned when the target member
// is not resident.
func (s *Stream) SetPosition(vp int64) error {
	if s.mode != Decompress {
		return base.Markf(base.ErrNotSupported, "bgzf: %s: cannot set the position of a compressor", s.name)
	}
	if s.closed {
		return base.Markf(base.ErrClosed, "bgzf: %s: set position", s.name)
	}
	if vp < 0 {
		return base.Markf(base.ErrOffsetRange, "bgzf: %s: negative virtual offset %d", s.name, vp)
	}
	o := OffsetOf(vp)
	s.err = nil
	if s.blk == nil || s.blk.base != o.File || s.blk.size == 0 {
		err := s.load(o.File)
		if err != nil && err != io.EOF {
			s.err = err
			return err
		}
	}
	if int(o.Block) > s.blk.n {
		return base.Markf(base.ErrOffsetRange, "bgzf: %s: offset %d beyond %d byte block at %d", s.name, o.Block, s.blk.n, o.File)
	}
	s.off = int(o.Block)
	if s.blk.n == 0 {
		s.err = io.EOF
	}
	return nil
}

// Seek sets the position of a decompressor to off.
func (s *Stream) Seek(off Offset) error { return s.SetPosition(off.Virtual()) }

// BlockLen returns the number of bytes remaining to be read from the
// resident block.
func (s *Stream) BlockLen() int {
	if s.blk == nil {
		return 0
	}
	return s.blk.n - s.off
}

// Read implements the io.Reader interface.
func (s *Stream) Read(p []byte) (int, error) {
	if s.mode != Decompress {
		return 0, base.Markf(base.ErrMisuse, "bgzf: %s: read from a compressor", s.name)
	}
	if s.closed {
		return 0, base.Markf(base.ErrClosed, "bgzf: %s: read", s.name)
	}
	if s.err != nil {
		return 0, s.err
	}

	var n int
	for n < len(p) {
		if s.blk == nil || s.off >= s.blk.n {
			if n != 0 && s.Blocked {
				break
			}
			err := s.nextBlock()
			if err != nil {
				s.err = err
				if n != 0 && err == io.EOF {
					return n, nil
				}
				return n, err
			}
			continue
		}
		m := copy(p[n:], s.blk.data[s.off:s.blk.n])
		s.off += m
		n += m
		s.blk.used = true
	}
	return n, nil
}

// ReadByte implements the io.ByteReader interface.
func (s *Stream) ReadByte() (byte, error) {
	if s.mode == Decompress && !s.closed && s.err == nil && s.blk != nil && s.off < s.blk.n {
		b := s.blk.data[s.off]
		s.off++
		s.blk.used = true
		return b, nil
	}
	var b [1]byte
	_, err := io.ReadFull(s, b[:])
	return b[0], err
}

// nextBlock makes the member following the resident block resident.
func (s *Stream) nextBlock() error {
	next := s.r.Off
	if s.blk != nil {
		next = s.blk.NextBase()
	}
	err := s.load(next)
	if err == io.EOF && s.blk.size == 0 {
		s.log.Infof("bgzf: %s: missing EOF block at offset %d", s.name, next)
	}
	return err
}

// load makes the member at the file offset off resident. It returns
// io.EOF if the member is the empty EOF block or the underlying stream
// ends at off.
func (s *Stream) load(off int64) error {
	blk := s.release()
	if s.cache != nil && s.r.CanSeek() {
		if cached := s.cache.Get(off); cached != nil {
			if cached.ownedBy(s) && cached.base == off && cached.size != 0 {
				s.blk = cached
				s.off = 0
				if cached.n == 0 {
					return io.EOF
				}
				return nil
			}
		}
	}
	if blk == nil {
		blk = &Block{}
	}
	blk.setOwner(s)
	blk.base = off
	s.blk = blk
	s.off = 0

	if s.r.Off != off {
		err := s.r.SeekTo(off)
		if err != nil {
			return seekError(err, s.name, off)
		}
	}
	size, err := readFrame(s.r, s.frame, s.name, off)
	if err != nil {
		return err
	}
	start := time.Now()
	n, err := decodeFrame(blk.data[:], s.frame[:size], s.deflate, s.name, off)
	if err != nil {
		return err
	}
	s.rec.Block(size, n, time.Since(start))
	blk.size = size
	blk.n = n
	if n == 0 {
		return io.EOF
	}
	return nil
}

// release hands the resident block to the cache and returns a block
// that may be refilled, or nil if none is available.
func (s *Stream) release() *Block {
	blk := s.blk
	s.blk = nil
	if blk == nil || s.cache == nil || !s.r.CanSeek() || blk.size == 0 {
		return blk
	}
	evicted, retained := s.cache.Put(blk)
	if retained || evicted == blk {
		return evicted
	}
	// The cache already holds a block at this base, possibly
	// blk itself, so blk must not be refilled.
	return nil
}

func seekError(err error, name string, off int64) error {
	if errors.Is(err, count.ErrNotSeeker) {
		return base.Markf(base.ErrNotSeekable, "bgzf: %s: cannot move to offset %d", name, off)
	}
	return errors.Wrapf(err, "bgzf: %s: seek to offset %d", name, off)
}

// Write implements the io.Writer interface.
func (s *Stream) Write(p []byte) (int, error) {
	if s.mode != Compress {
		return 0, base.Markf(base.ErrMisuse, "bgzf: %s: write to a decompressor", s.name)
	}
	if s.closed {
		return 0, base.Markf(base.ErrClosed, "bgzf: %s: write", s.name)
	}
	if s.err != nil {
		return 0, s.err
	}

	var n int
	for n < len(p) {
		m := copy(s.buf[s.wn:], p[n:])
		s.wn += m
		n += m
		if s.wn == BlockSize {
			if err := s.flush(); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

// Flush writes any buffered data to the underlying stream as a
// complete BGZF member. It is a no-op for a decompressor.
func (s *Stream) Flush() error {
	if s.mode != Compress {
		return nil
	}
	if s.closed {
		return base.Markf(base.ErrClosed, "bgzf: %s: flush", s.name)
	}
	if s.err != nil {
		return s.err
	}
	return s.flush()
}

func (s *Stream) flush() error {
	if s.wn == 0 {
		return nil
	}
	start := time.Now()
	size, err := encodeFrame(s.frame, s.deflate, s.buf[:s.wn])
	if err != nil {
		s.err = err
		return err
	}
	elapsed := time.Since(start)
	off := s.w.Off
	if _, err = s.w.Write(s.frame[:size]); err != nil {
		s.err = errors.Wrapf(err, "bgzf: %s: write block at offset %d", s.name, off)
		return s.err
	}
	s.rec.Block(size, s.wn, elapsed)
	s.wn = 0
	return nil
}

// Close closes the Stream. A compressor writes any buffered data and
// then the BGZF EOF block. The underlying stream is closed unless the
// Stream was created to leave it open. Calling Close more than once
// has no effect.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	var err error
	if s.mode == Compress {
		err = s.err
		if err == nil {
			err = s.flush()
		}
		if err == nil {
			_, err = io.WriteString(s.w, magicBlock)
		}
		if err == nil {
			s.rec.Block(len(magicBlock), 0, 0)
		}
	}
	s.closed = true
	pool.PutBuffer(s.frame)
	s.frame = nil
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
