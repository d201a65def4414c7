// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

type none struct{}

// NewNone returns an Algorithm that copies blocks unchanged.
func NewNone() Algorithm { return none{} }

func (none) Name() string { return "none" }

func (none) Compress(dst, src []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, ErrShortBuffer
	}
	return copy(dst, src), nil
}

func (none) Decompress(dst, src []byte) (int, error) {
	if len(src) > len(dst) {
		return 0, ErrShortBuffer
	}
	return copy(dst, src), nil
}

func (none) CompressBound(n int) int { return n }
