// Copyright ©2021 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pool provides size stratified byte buffer pools for the
// scratch buffers of the container streams.
package pool

import (
	"math/bits"
	"sync"
)

// pool contains size stratified []byte pools. Element i holds
// pointers to slices with a capacity of exactly 1<<i.
var pool [32]sync.Pool

// GetBuffer returns a []byte with len size and a cap that is
// less than 2*size. Sizes beyond the largest pool are allocated
// directly.
func GetBuffer(size int) []byte {
	if size <= 0 {
		return nil
	}
	i := poolFor(uint(size))
	if i >= len(pool) {
		return make([]byte, size)
	}
	if b, ok := pool[i].Get().(*[]byte); ok {
		return (*b)[:size]
	}
	return make([]byte, size, 1<<uint(i))
}

// PutBuffer returns a buffer obtained from GetBuffer to its pool.
// Buffers that did not come from GetBuffer are dropped.
func PutBuffer(buf []byte) {
	c := cap(buf)
	if c == 0 || c&(c-1) != 0 {
		return
	}
	i := poolFor(uint(c))
	if i >= len(pool) {
		return
	}
	buf = buf[:0]
	pool[i].Put(&buf)
}

// poolFor returns the ceiling of base 2 log of size. It provides an index
// into a pool array to a sync.Pool that will return values able to hold
// size elements.
func poolFor(size uint) int {
	return bits.Len(size - 1)
}
