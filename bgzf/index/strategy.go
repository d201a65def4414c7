// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"github.com/varanno/compression/bgzf"
)

// MergeStrategy represents a chunk compression strategy.
type MergeStrategy func([]bgzf.Chunk) []bgzf.Chunk

var (
	// Identity leaves the []bgzf.Chunk unaltered.
	Identity MergeStrategy = identity

	// Adjacent merges contiguous bgzf.Chunks.
	Adjacent MergeStrategy = adjacent

	// Squash merges all bgzf.Chunks into a single bgzf.Chunk.
	Squash MergeStrategy = squash
)

// CompressorStrategy returns a MergeStrategy that will merge bgzf.Chunks
// that have a distance between BGZF block starts less than or equal
// to near.
func CompressorStrategy(near int64) MergeStrategy {
	return func(chunks []bgzf.Chunk) []bgzf.Chunk {
		return merge(chunks, func(left, right bgzf.Chunk) bool {
			return left.End.File+near >= right.Begin.File
		})
	}
}

func identity(chunks []bgzf.Chunk) []bgzf.Chunk { return chunks }

func adjacent(chunks []bgzf.Chunk) []bgzf.Chunk {
	return merge(chunks, func(left, right bgzf.Chunk) bool {
		return left.End.Virtual() >= right.Begin.Virtual()
	})
}

// merge folds each chunk into its successor when join reports that
// the pair may be combined.
func merge(chunks []bgzf.Chunk, join func(left, right bgzf.Chunk) bool) []bgzf.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	for c := 1; c < len(chunks); c++ {
		left := chunks[c-1]
		right := &chunks[c]
		if join(left, *right) {
			right.Begin = left.Begin
			if left.End.Virtual() > right.End.Virtual() {
				right.End = left.End
			}
			chunks = append(chunks[:c-1], chunks[c:]...)
			c--
		}
	}
	return chunks
}

func squash(chunks []bgzf.Chunk) []bgzf.Chunk {
	if len(chunks) == 0 {
		return nil
	}
	left := chunks[0].Begin
	right := chunks[0].End
	for _, c := range chunks[1:] {
		if c.End.Virtual() > right.Virtual() {
			right = c.End
		}
	}
	return []bgzf.Chunk{{Begin: left, End: right}}
}
