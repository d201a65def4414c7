// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index provides chunk based access to BGZF streams using
// virtual offsets recorded by an external index.
package index

import (
	"io"

	"github.com/varanno/compression/bgzf"
)

// ChunkReader wraps a bgzf.Stream to provide a mechanism to read a selection of
// BGZF chunks.
type ChunkReader struct {
	r *bgzf.Stream

	wasBlocked bool

	chunks []bgzf.Chunk
}

// NewChunkReader returns a ChunkReader to read from r, limiting the reads to
// the provided chunks. The provided bgzf.Stream will be put into Blocked mode.
func NewChunkReader(r *bgzf.Stream, chunks []bgzf.Chunk) (*ChunkReader, error) {
	b := r.Blocked
	r.Blocked = true
	if len(chunks) != 0 {
		err := r.Seek(chunks[0].Begin)
		if err != nil {
			r.Blocked = b
			return nil, err
		}
	}
	return &ChunkReader{r: r, wasBlocked: b, chunks: chunks}, nil
}

// Read satisfies the io.Reader interface.
func (r *ChunkReader) Read(p []byte) (int, error) {
	for len(r.chunks) != 0 {
		end := r.chunks[0].End
		pos := r.r.Offset()
		if pos.Virtual() >= end.Virtual() {
			r.chunks = r.chunks[1:]
			if len(r.chunks) == 0 {
				break
			}
			if err := r.r.Seek(r.chunks[0].Begin); err != nil {
				return 0, err
			}
			continue
		}

		// Ensure the byte slice does not extend beyond the end of
		// the current chunk. We do not need to consider reading
		// beyond the end of the block because the bgzf.Stream is in
		// blocked mode and so will stop there anyway.
		want := len(p)
		if pos.File == end.File && int(end.Block-pos.Block) < want {
			want = int(end.Block - pos.Block)
		}
		n, err := r.r.Read(p[:want])
		if err == io.EOF {
			// The stream ended inside the chunk.
			r.chunks = nil
			if n != 0 {
				err = nil
			}
		}
		return n, err
	}
	return 0, io.EOF
}

// Close returns the bgzf.Stream to its original blocking mode and releases it.
// The bgzf.Stream is not closed.
func (r *ChunkReader) Close() error {
	if r.r == nil {
		return nil
	}
	r.r.Blocked = r.wasBlocked
	r.r = nil
	return nil
}
