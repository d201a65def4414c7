// Copyright ©2012 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf

// Cache is a Block caching type. Basic cache implementations are provided
// in the cache package. A Cache is only consulted by Streams reading from
// an io.ReadSeeker.
type Cache interface {
	// Get returns the Block in the Cache with the specified
	// base or a nil Block if it does not exist. The returned
	// Block must be removed from the Cache.
	Get(base int64) *Block

	// Put inserts a Block into the Cache, returning the Block
	// that was evicted or nil if no eviction was necessary and
	// a boolean indicating whether the put Block was retained
	// by the Cache.
	Put(*Block) (evicted *Block, retained bool)
}

// Block holds a decompressed BGZF data block.
type Block struct {
	owner *Stream
	used  bool

	base int64
	size int

	n    int
	data [MaxBlockSize]byte
}

// Base returns the file offset of the start of the gzip member
// from which the Block data was decompressed.
func (b *Block) Base() int64 { return b.base }

// NextBase returns the file offset of the gzip member following
// the one the Block data was decompressed from.
func (b *Block) NextBase() int64 { return b.base + int64(b.size) }

// Used returns whether one or more bytes have been read from the Block.
func (b *Block) Used() bool { return b.used }

// Len returns the number of decompressed bytes held by the Block.
func (b *Block) Len() int { return b.n }

// Bytes returns the decompressed data of the Block. The returned
// slice is only valid until the Block is next filled.
func (b *Block) Bytes() []byte { return b.data[:b.n] }

// setOwner changes the owner to the given Stream, reseting other
// data to its zero state.
func (b *Block) setOwner(s *Stream) {
	b.owner = s
	b.used = false
	b.base = -1
	b.size = 0
	b.n = 0
}

func (b *Block) ownedBy(s *Stream) bool { return b.owner == s }
