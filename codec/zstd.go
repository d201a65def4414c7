// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/klauspost/compress/zstd"

	"github.com/varanno/compression/internal/base"
)

type zstdAlgorithm struct {
	level zstd.EncoderLevel

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd returns a Zstandard Algorithm. The level is interpreted as
// a zstd command line level and mapped with zstd.EncoderLevelFromZstd.
func NewZstd(level int) Algorithm {
	l := zstd.SpeedDefault
	if level != DefaultLevel {
		l = zstd.EncoderLevelFromZstd(level)
	}
	return &zstdAlgorithm{level: l}
}

func (z *zstdAlgorithm) Name() string { return "zstd" }

func (z *zstdAlgorithm) Compress(dst, src []byte) (int, error) {
	if z.enc == nil {
		var err error
		z.enc, err = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(z.level),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return 0, err
		}
	}
	return into(dst, z.enc.EncodeAll(src, dst[:0]))
}

func (z *zstdAlgorithm) Decompress(dst, src []byte) (int, error) {
	if z.dec == nil {
		var err error
		z.dec, err = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return 0, err
		}
	}
	b, err := z.dec.DecodeAll(src, dst[:0])
	if err != nil {
		return 0, decodeError(err, "zstd")
	}
	return into(dst, b)
}

// CompressBound follows the ZSTD_COMPRESSBOUND definition.
func (z *zstdAlgorithm) CompressBound(n int) int {
	const small = 128 << 10
	bound := n + n>>8
	if n < small {
		bound += (small - n) >> 11
	}
	return bound
}

// into ensures the appended result b is held by dst.
func into(dst, b []byte) (int, error) {
	if len(b) > len(dst) {
		return 0, base.Markf(base.ErrShortBuffer, "codec: need %d bytes, have %d", len(b), len(dst))
	}
	if len(b) != 0 && &b[0] != &dst[0] {
		copy(dst, b)
	}
	return len(b), nil
}
