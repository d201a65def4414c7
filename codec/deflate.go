// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"

	"github.com/varanno/compression/internal/base"
)

// Deflate is a raw deflate Algorithm. The flate coders are retained
// between calls.
type Deflate struct {
	level int

	out sliceWriter
	fw  *flate.Writer

	in bytes.Reader
	fr io.ReadCloser
}

// NewDeflate returns a raw deflate Algorithm using the given flate
// compression level. DefaultLevel selects flate.DefaultCompression.
func NewDeflate(level int) *Deflate {
	if level == DefaultLevel {
		level = flate.DefaultCompression
	}
	return &Deflate{level: level}
}

// Level returns the flate compression level used by d.
func (d *Deflate) Level() int { return d.level }

func (d *Deflate) Name() string { return "deflate" }

// Compress compresses src as a single final deflate stream.
func (d *Deflate) Compress(dst, src []byte) (int, error) {
	d.out.reset(dst)
	if d.fw == nil {
		var err error
		d.fw, err = flate.NewWriter(&d.out, d.level)
		if err != nil {
			return 0, base.Wrapf(err, base.ErrNotSupported, "codec: deflate level %d", d.level)
		}
	} else {
		d.fw.Reset(&d.out)
	}
	if _, err := d.fw.Write(src); err != nil {
		return 0, err
	}
	if err := d.fw.Close(); err != nil {
		return 0, err
	}
	return d.out.n, nil
}

func (d *Deflate) Decompress(dst, src []byte) (int, error) {
	d.in.Reset(src)
	if d.fr == nil {
		d.fr = flate.NewReader(&d.in)
	} else if err := d.fr.(flate.Resetter).Reset(&d.in, nil); err != nil {
		return 0, decodeError(err, "deflate")
	}
	return fill(dst, d.fr, "deflate")
}

// CompressBound returns the worst case deflate output length for n bytes.
func (d *Deflate) CompressBound(n int) int {
	return n + n>>12 + n>>14 + n>>25 + 13
}
