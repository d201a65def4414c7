// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package base holds the error taxonomy and logging interface shared by the
// container packages.
package base

import "github.com/cockroachdb/errors"

// Construction misuse.
var (
	ErrNilStream  = errors.New("compression: nil underlying stream")
	ErrCapability = errors.New("compression: underlying stream lacks required capability")
)

// Format and data errors.
var (
	ErrCorrupt    = errors.New("compression: corrupt data")
	ErrTruncated  = errors.New("compression: truncated data")
	ErrDecompress = errors.New("compression: decompression failed")
)

// API misuse.
var (
	ErrMisuse        = errors.New("compression: operation not valid in this mode")
	ErrNotSupported  = errors.New("compression: operation not supported")
	ErrNotSeekable   = errors.New("compression: underlying stream is not seekable")
	ErrClosed        = errors.New("compression: use of closed stream")
	ErrOffsetRange   = errors.New("compression: offset out of range")
	ErrShortBuffer   = errors.New("compression: buffer too small")
	ErrBlockOverflow = errors.New("compression: block overflow")
	ErrHeaderSize    = errors.New("compression: rewritten header changed size")
)

// Markf returns a new error with the formatted message that is
// identified by errors.Is as ref.
func Markf(ref error, format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), ref)
}

// Wrapf annotates err with the formatted message and marks it as ref.
// If err is nil, Wrapf returns nil.
func Wrapf(err, ref error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), ref)
}

// NameOf returns a name identifying the stream v for error messages.
func NameOf(v interface{}) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "(stream)"
}
