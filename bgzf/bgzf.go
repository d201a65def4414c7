// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bgzf implements BGZF format reading and writing according to the
// SAM specification.
//
// The specification is available at https://github.com/samtools/hts-specs.
package bgzf

import (
	"io"
	"os"

	"github.com/varanno/compression/internal/base"
)

const (
	BlockSize    = 0x0ff00 // Size of input data block.
	MaxBlockSize = 0x10000 // Maximum size of output block.
	HeaderLength = 18      // Length of a BGZF member header.
)

const (
	bgzfExtra     = "BC\x02\x00\x00\x00"
	trailerLength = 8
	minFrame      = HeaderLength + trailerLength // Minimum bgzf header+footer length.

	// Magic EOF block.
	magicBlock = "\x1f\x8b\x08\x04\x00\x00\x00\x00\x00\xff\x06\x00\x42\x43\x02\x00\x1b\x00\x03\x00\x00\x00\x00\x00\x00\x00\x00\x00"
)

// MagicBlock is the BGZF EOF marker block. A BGZF stream written by
// this package always ends with it.
const MagicBlock = magicBlock

func compressBound(srcLen int) int {
	return srcLen + srcLen>>12 + srcLen>>14 + srcLen>>25 + 13 + minFrame
}

func init() {
	if compressBound(BlockSize) > MaxBlockSize {
		panic("bgzf: BlockSize too large")
	}
}

// Errors returned by the bgzf package. Each is a category that may be
// tested with errors.Is from github.com/cockroachdb/errors; returned
// errors carry the stream name and offset of the failure.
var (
	ErrNilStream     = base.ErrNilStream
	ErrCapability    = base.ErrCapability
	ErrCorrupt       = base.ErrCorrupt
	ErrTruncated     = base.ErrTruncated
	ErrDecompress    = base.ErrDecompress
	ErrMisuse        = base.ErrMisuse
	ErrNotSupported  = base.ErrNotSupported
	ErrNotSeekable   = base.ErrNotSeekable
	ErrClosed        = base.ErrClosed
	ErrOffsetRange   = base.ErrOffsetRange
	ErrShortBuffer   = base.ErrShortBuffer
	ErrBlockOverflow = base.ErrBlockOverflow

	ErrNoEnd = base.Markf(base.ErrNotSupported, "bgzf: cannot determine offset from end")
)

// Offset is a BGZF virtual offset.
type Offset struct {
	File  int64
	Block uint16
}

// OffsetOf returns the Offset corresponding to the virtual file
// pointer vp.
func OffsetOf(vp int64) Offset {
	return Offset{File: int64(uint64(vp) >> 16), Block: uint16(vp)}
}

// Virtual returns the packed virtual file pointer of o.
func (o Offset) Virtual() int64 {
	return o.File<<16 | int64(o.Block)
}

// Chunk is a region of a BGZF file.
type Chunk struct {
	Begin Offset
	End   Offset
}

// HasEOF checks for the presence of a BGZF magic EOF block.
// The magic block is defined in the SAM specification. A magic block
// is written by a Stream on calls to Close. The ReaderAt must provide
// some method for determining valid ReadAt offsets.
func HasEOF(r io.ReaderAt) (bool, error) {
	type sizer interface {
		Size() int64
	}
	type stater interface {
		Stat() (os.FileInfo, error)
	}
	type lenSeeker interface {
		io.Seeker
		Len() int
	}
	var size int64
	switch r := r.(type) {
	case sizer:
		size = r.Size()
	case stater:
		fi, err := r.Stat()
		if err != nil {
			return false, err
		}
		size = fi.Size()
	case lenSeeker:
		var err error
		size, err = r.Seek(0, io.SeekCurrent)
		if err != nil {
			return false, err
		}
		size += int64(r.Len())
	default:
		return false, ErrNoEnd
	}

	if size < int64(len(magicBlock)) {
		return false, nil
	}
	b := make([]byte, len(magicBlock))
	_, err := r.ReadAt(b, size-int64(len(magicBlock)))
	if err != nil {
		return false, err
	}
	for i := range b {
		if b[i] != magicBlock[i] {
			return false, nil
		}
	}
	return true, nil
}
