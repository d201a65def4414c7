// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/minio/minlz"

	"github.com/varanno/compression/internal/base"
)

type minlzAlgorithm struct {
	level int
}

// NewMinLZ returns a MinLZ Algorithm. Blocks larger than
// minlz.MaxBlockSize are compressed with Snappy, which MinLZ
// decodes transparently.
func NewMinLZ(level int) Algorithm {
	if level == DefaultLevel {
		level = minlz.LevelBalanced
	}
	return minlzAlgorithm{level: level}
}

func (minlzAlgorithm) Name() string { return "minlz" }

func (m minlzAlgorithm) Compress(dst, src []byte) (int, error) {
	if len(src) > minlz.MaxBlockSize {
		return snappyAlgorithm{}.Compress(dst, src)
	}
	b, err := minlz.Encode(dst, src, m.level)
	if err != nil {
		return 0, err
	}
	return into(dst, b)
}

func (minlzAlgorithm) Decompress(dst, src []byte) (int, error) {
	n, err := minlz.DecodedLen(src)
	if err != nil {
		return 0, decodeError(err, "minlz")
	}
	if n > len(dst) {
		return 0, base.Markf(base.ErrShortBuffer, "codec: minlz block is %d bytes, have %d", n, len(dst))
	}
	b, err := minlz.Decode(dst, src)
	if err != nil {
		return 0, decodeError(err, "minlz")
	}
	return into(dst, b)
}

// CompressBound uses the Snappy bound, which also covers the
// MinLZ block format.
func (minlzAlgorithm) CompressBound(n int) int {
	return snappyAlgorithm{}.CompressBound(n)
}
