// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cache_test

import (
	"bytes"
	"fmt"
	"testing"

	"gopkg.in/check.v1"

	"github.com/varanno/compression/bgzf"
	"github.com/varanno/compression/bgzf/cache"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

// collector retains every Block it is given.
type collector struct {
	blocks []*bgzf.Block
}

func (c *collector) Get(int64) *bgzf.Block { return nil }

func (c *collector) Put(b *bgzf.Block) (*bgzf.Block, bool) {
	c.blocks = append(c.blocks, b)
	return nil, true
}

// blocks returns n distinct Blocks decompressed from a BGZF stream.
// Blocks for which used returns true have had data read from them.
func blocks(c *check.C, n int, used func(i int) bool) []*bgzf.Block {
	var buf bytes.Buffer
	w, err := bgzf.NewWriter(&buf, 1)
	c.Assert(err, check.Equals, nil)
	offsets := make([]int64, n)
	for i := range offsets {
		offsets[i] = int64(buf.Len())
		fmt.Fprintf(w, "block %d", i)
		c.Assert(w.Flush(), check.Equals, nil)
	}
	c.Assert(w.Close(), check.Equals, nil)

	r, err := bgzf.NewReader(bytes.NewReader(buf.Bytes()))
	c.Assert(err, check.Equals, nil)
	var col collector
	r.SetCache(&col)
	for i, o := range offsets {
		c.Assert(r.Seek(bgzf.Offset{File: o}), check.Equals, nil)
		if used(i) {
			_, err := r.ReadByte()
			c.Assert(err, check.Equals, nil)
		}
	}
	// Move off the last block so that it is handed to the collector.
	c.Assert(r.Seek(bgzf.Offset{File: int64(buf.Len()) - int64(len(bgzf.MagicBlock))}), check.Equals, nil)
	c.Assert(col.blocks, check.HasLen, n)
	for i, b := range col.blocks {
		c.Assert(b.Base(), check.Equals, offsets[i])
		c.Assert(b.Used(), check.Equals, used(i))
		c.Assert(string(b.Bytes()), check.Equals, fmt.Sprintf("block %d", i))
	}
	return col.blocks
}

func all(int) bool  { return true }
func none(int) bool { return false }

func (s *S) TestNilCaches(c *check.C) {
	c.Check(cache.NewLRU(0), check.IsNil)
	c.Check(cache.NewFIFO(-1), check.IsNil)
	c.Check(cache.NewRandom(0), check.IsNil)
}

func (s *S) TestLRU(c *check.C) {
	b := blocks(c, 4, all)
	lru := cache.NewLRU(2)

	for _, blk := range b[:2] {
		evicted, retained := lru.Put(blk)
		c.Check(evicted, check.IsNil)
		c.Check(retained, check.Equals, true)
	}
	evicted, retained := lru.Put(b[0])
	c.Check(evicted, check.IsNil)
	c.Check(retained, check.Equals, false, check.Commentf("duplicate base retained"))

	// b[0] is least recently inserted.
	evicted, retained = lru.Put(b[2])
	c.Check(evicted, check.Equals, b[0])
	c.Check(retained, check.Equals, true)
	c.Check(lru.Len(), check.Equals, 2)

	c.Check(lru.Get(b[0].Base()), check.IsNil)
	c.Check(lru.Get(b[1].Base()), check.Equals, b[1])
	c.Check(lru.Len(), check.Equals, 1)

	// Returning b[1] makes it the most recent.
	lru.Put(b[1])
	evicted, _ = lru.Put(b[3])
	c.Check(evicted, check.Equals, b[2])
}

func (s *S) TestUnusedEvictedFirst(c *check.C) {
	b := blocks(c, 4, func(i int) bool { return i != 1 })
	for _, test := range []struct {
		name string
		c    cache.Cache
	}{
		{name: "lru", c: cache.NewLRU(2)},
		{name: "fifo", c: cache.NewFIFO(2)},
		{name: "random", c: cache.NewRandom(2)},
	} {
		comment := check.Commentf("%s cache", test.name)
		test.c.Put(b[0])
		test.c.Put(b[1])
		evicted, retained := test.c.Put(b[2])
		c.Check(evicted, check.Equals, b[1], comment)
		c.Check(retained, check.Equals, true, comment)
		c.Check(test.c.Get(b[1].Base()), check.IsNil, comment)
	}
}

func (s *S) TestUnusedNotRetainedWhenFull(c *check.C) {
	b := blocks(c, 3, func(i int) bool { return i != 2 })
	for _, ca := range []cache.Cache{cache.NewLRU(2), cache.NewFIFO(2), cache.NewRandom(2)} {
		ca.Put(b[0])
		ca.Put(b[1])
		evicted, retained := ca.Put(b[2])
		c.Check(evicted, check.Equals, b[2])
		c.Check(retained, check.Equals, false)
		c.Check(ca.Len(), check.Equals, 2)
	}
}

func (s *S) TestFIFOShares(c *check.C) {
	b := blocks(c, 2, func(i int) bool { return i == 0 })
	fifo := cache.NewFIFO(2)
	fifo.Put(b[0])
	fifo.Put(b[1])

	// Used blocks stay in the queue.
	c.Check(fifo.Get(b[0].Base()), check.Equals, b[0])
	c.Check(fifo.Len(), check.Equals, 2)
	c.Check(fifo.Get(b[1].Base()), check.Equals, b[1])
	c.Check(fifo.Len(), check.Equals, 1)
}

func (s *S) TestResizeDrop(c *check.C) {
	b := blocks(c, 4, all)
	for _, ca := range []cache.Cache{cache.NewLRU(4), cache.NewFIFO(4), cache.NewRandom(4)} {
		for _, blk := range b {
			ca.Put(blk)
		}
		c.Check(ca.Len(), check.Equals, 4)
		c.Check(ca.Cap(), check.Equals, 4)

		ca.Drop(1)
		c.Check(ca.Len(), check.Equals, 3)

		ca.Resize(1)
		c.Check(ca.Len(), check.Equals, 1)
		c.Check(ca.Cap(), check.Equals, 1)

		ca.Drop(10)
		c.Check(ca.Len(), check.Equals, 0)

		ca.Resize(3)
		for _, blk := range b[:3] {
			_, retained := ca.Put(blk)
			c.Check(retained, check.Equals, true)
		}
		c.Check(ca.Len(), check.Equals, 3)
	}
}

func (s *S) TestStatsRecorder(c *check.C) {
	b := blocks(c, 3, all)
	sr := &cache.StatsRecorder{Cache: cache.NewLRU(2), Name: "lru"}

	sr.Put(b[0])
	sr.Put(b[1])
	sr.Put(b[2])
	sr.Get(b[0].Base())
	sr.Get(b[1].Base())

	c.Check(sr.Stats(), check.Equals, cache.Stats{
		Gets:      2,
		Misses:    1,
		Puts:      3,
		Retains:   3,
		Evictions: 1,
	})
	sr.Reset()
	c.Check(sr.Stats(), check.Equals, cache.Stats{})
}
