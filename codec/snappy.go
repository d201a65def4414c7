// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/golang/snappy"

	"github.com/varanno/compression/internal/base"
)

type snappyAlgorithm struct{}

// NewSnappy returns a Snappy block format Algorithm.
func NewSnappy() Algorithm { return snappyAlgorithm{} }

func (snappyAlgorithm) Name() string { return "snappy" }

func (snappyAlgorithm) Compress(dst, src []byte) (int, error) {
	if len(dst) < snappy.MaxEncodedLen(len(src)) {
		return 0, base.Markf(base.ErrShortBuffer, "codec: snappy needs %d bytes, have %d", snappy.MaxEncodedLen(len(src)), len(dst))
	}
	return into(dst, snappy.Encode(dst, src))
}

func (snappyAlgorithm) Decompress(dst, src []byte) (int, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return 0, decodeError(err, "snappy")
	}
	if n > len(dst) {
		return 0, base.Markf(base.ErrShortBuffer, "codec: snappy block is %d bytes, have %d", n, len(dst))
	}
	b, err := snappy.Decode(dst, src)
	if err != nil {
		return 0, decodeError(err, "snappy")
	}
	return into(dst, b)
}

func (snappyAlgorithm) CompressBound(n int) int {
	bound := snappy.MaxEncodedLen(n)
	if bound < 0 {
		// Too large for the snappy block format.
		return n
	}
	return bound
}
