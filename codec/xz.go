// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"

	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// maxDictCap is the dictionary capacity used by the xz command line
// tool at its default level.
const maxDictCap = 8 << 20

type xzAlgorithm struct {
	out sliceWriter
	in  bytes.Reader

	wcfg xz.WriterConfig
	rcfg xz.ReaderConfig
}

// NewXZ returns an LZMA2 Algorithm producing xz streams. The xz coders
// cannot be reset, so the dictionary of each stream is limited to the
// length of its block and the decoder allocates only what a stream
// declares.
func NewXZ() Algorithm {
	return &xzAlgorithm{
		wcfg: xz.WriterConfig{CheckSum: xz.CRC32},
		rcfg: xz.ReaderConfig{DictCap: lzma.MinDictCap, SingleStream: true},
	}
}

func (x *xzAlgorithm) Name() string { return "xz" }

// dictCap returns the dictionary capacity for a block of n bytes.
func dictCap(n int) int {
	switch {
	case n < lzma.MinDictCap:
		return lzma.MinDictCap
	case n > maxDictCap:
		return maxDictCap
	}
	return n
}

func (x *xzAlgorithm) Compress(dst, src []byte) (int, error) {
	x.out.reset(dst)
	x.wcfg.DictCap = dictCap(len(src))
	enc, err := x.wcfg.NewWriter(&x.out)
	if err != nil {
		return 0, err
	}
	if _, err = enc.Write(src); err != nil {
		return 0, err
	}
	if err = enc.Close(); err != nil {
		return 0, err
	}
	return x.out.n, nil
}

func (x *xzAlgorithm) Decompress(dst, src []byte) (int, error) {
	x.in.Reset(src)
	dec, err := x.rcfg.NewReader(&x.in)
	if err != nil {
		return 0, decodeError(err, "xz")
	}
	return fill(dst, dec, "xz")
}

// CompressBound covers the xz stream framing and the LZMA2 chunk
// headers of incompressible input.
func (x *xzAlgorithm) CompressBound(n int) int {
	return n + n>>12 + 1024
}
