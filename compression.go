// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compression provides access to the block compressed
// containers used for persisted annotation data.
//
// The bgzf package implements the BGZF format with virtual file
// pointer addressing. The blockstream package implements a generic
// block container with a pluggable codec.Algorithm, an application
// header that is rewritten on Close, and saved positions. The peek
// package allows the leading bytes of a stream to be inspected, which
// this package uses to choose a decoder for a stream of unknown format.
package compression

import "github.com/varanno/compression/internal/base"

// Logger reports anomalies that are tolerated by the container
// streams, such as a missing end of stream marker.
type Logger = base.Logger

// Errors returned by the container packages. Each is a category that
// may be tested with errors.Is from github.com/cockroachdb/errors.
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
	ErrHeaderSize    = base.ErrHeaderSize
)
