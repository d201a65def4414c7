// Copyright ©2015 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache provides basic block cache types for the bgzf package.
package cache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/varanno/compression/bgzf"
)

var (
	_ Cache = (*LRU)(nil)
	_ Cache = (*FIFO)(nil)
	_ Cache = (*Random)(nil)
)

// Cache is an extension of bgzf.Cache that allows inspection
// and manipulation of the cache.
type Cache interface {
	bgzf.Cache

	// Len returns the number of elements held by
	// the cache.
	Len() int

	// Cap returns the maximum number of elements
	// that can be held by the cache.
	Cap() int

	// Resize changes the capacity of the cache to n,
	// dropping excess blocks if n is less than the
	// number of cached blocks.
	Resize(n int)

	// Drop evicts n elements from the cache according
	// to the cache eviction policy.
	Drop(n int)
}

type node struct {
	b *bgzf.Block

	next, prev *node
}

// list is a block table ordered from most to least recently inserted
// used Block. Unused Blocks are kept at the tail so they are evicted
// first.
type list struct {
	root  node
	table map[int64]*node
	cap   int
}

func (l *list) init(n int) {
	l.table = make(map[int64]*node, n)
	l.cap = n
	l.root.next = &l.root
	l.root.prev = &l.root
}

func (l *list) insertAfter(pos, n *node) {
	n.prev = pos
	pos.next, n.next, pos.next.prev = n, pos.next, n
}

func (l *list) remove(n *node) {
	delete(l.table, n.b.Base())
	n.prev.next = n.next
	n.next.prev = n.prev
	n.next = nil
	n.prev = nil
}

// Len returns the number of elements held by the cache.
func (l *list) Len() int { return len(l.table) }

// Cap returns the maximum number of elements that can be held by the cache.
func (l *list) Cap() int { return l.cap }

// Resize changes the capacity of the cache to n, dropping excess blocks
// if n is less than the number of cached blocks.
func (l *list) Resize(n int) {
	if n < len(l.table) {
		l.Drop(len(l.table) - n)
	}
	l.cap = n
}

// Drop evicts n elements from the cache according to the cache eviction policy.
func (l *list) Drop(n int) {
	for ; n > 0 && l.Len() > 0; n-- {
		l.remove(l.root.prev)
	}
}

// Put inserts a Block into the Cache, returning the Block that was evicted or
// nil if no eviction was necessary and the Block was retained. Unused Blocks
// are not retained but are returned if the Cache is full.
func (l *list) Put(b *bgzf.Block) (evicted *bgzf.Block, retained bool) {
	if _, ok := l.table[b.Base()]; ok {
		return nil, false
	}
	used := b.Used()
	if len(l.table) == l.cap {
		if !used {
			return b, false
		}
		evicted = l.root.prev.b
		l.remove(l.root.prev)
	}
	n := &node{b: b}
	l.table[b.Base()] = n
	if used {
		l.insertAfter(&l.root, n)
	} else {
		l.insertAfter(l.root.prev, n)
	}
	return evicted, true
}

// NewLRU returns an LRU cache with n slots. If n is less than 1
// a nil cache is returned.
func NewLRU(n int) Cache {
	if n < 1 {
		return nil
	}
	var c LRU
	c.init(n)
	return &c
}

// LRU satisfies the Cache interface with least recently used eviction
// behavior where Unused Blocks are preferentially evicted.
type LRU struct {
	list
}

// Get returns the Block in the Cache with the specified base or a nil Block
// if it does not exist.
func (c *LRU) Get(base int64) *bgzf.Block {
	n, ok := c.table[base]
	if !ok {
		return nil
	}
	c.remove(n)
	return n.b
}

// NewFIFO returns a FIFO cache with n slots. If n is less than 1
// a nil cache is returned.
func NewFIFO(n int) Cache {
	if n < 1 {
		return nil
	}
	var c FIFO
	c.init(n)
	return &c
}

// FIFO satisfies the Cache interface with first in first out eviction
// behavior where Unused Blocks are preferentially evicted.
type FIFO struct {
	list
}

// Get returns the Block in the Cache with the specified base or a nil Block
// if it does not exist. Used Blocks keep their place in the queue and
// are shared with the caller.
func (c *FIFO) Get(base int64) *bgzf.Block {
	n, ok := c.table[base]
	if !ok {
		return nil
	}
	if !n.b.Used() {
		c.remove(n)
	}
	return n.b
}

// NewRandom returns a random eviction cache with n slots. If n is less than 1
// a nil cache is returned.
func NewRandom(n int) Cache {
	if n < 1 {
		return nil
	}
	return &Random{
		table: make(map[int64]*bgzf.Block, n),
		cap:   n,
	}
}

// Random satisfies the Cache interface with random eviction behavior
// where Unused Blocks are preferentially evicted.
type Random struct {
	table map[int64]*bgzf.Block
	cap   int
}

// Len returns the number of elements held by the cache.
func (c *Random) Len() int { return len(c.table) }

// Cap returns the maximum number of elements that can be held by the cache.
func (c *Random) Cap() int { return c.cap }

// Resize changes the capacity of the cache to n, dropping excess blocks
// if n is less than the number of cached blocks.
func (c *Random) Resize(n int) {
	if n < len(c.table) {
		c.Drop(len(c.table) - n)
	}
	c.cap = n
}

// Drop evicts n elements from the cache according to the cache eviction policy.
func (c *Random) Drop(n int) {
	for ; n > 0 && len(c.table) != 0; n-- {
		delete(c.table, c.victim().Base())
	}
}

// victim returns an unused Block if there is one, otherwise any Block.
func (c *Random) victim() *bgzf.Block {
	var fallback *bgzf.Block
	for _, b := range c.table {
		if !b.Used() {
			return b
		}
		if fallback == nil {
			fallback = b
		}
	}
	return fallback
}

// Get returns the Block in the Cache with the specified base or a nil Block
// if it does not exist.
func (c *Random) Get(base int64) *bgzf.Block {
	b, ok := c.table[base]
	if !ok {
		return nil
	}
	delete(c.table, base)
	return b
}

// Put inserts a Block into the Cache, returning the Block that was evicted or
// nil if no eviction was necessary and the Block was retained. Unused Blocks
// are not retained but are returned if the Cache is full.
func (c *Random) Put(b *bgzf.Block) (evicted *bgzf.Block, retained bool) {
	if _, ok := c.table[b.Base()]; ok {
		return nil, false
	}
	if len(c.table) == c.cap {
		if !b.Used() {
			return b, false
		}
		evicted = c.victim()
		delete(c.table, evicted.Base())
	}
	c.table[b.Base()] = b
	return evicted, true
}

// StatsRecorder allows a bgzf.Cache to capture cache statistics.
// It is also a prometheus.Collector exporting the statistics.
type StatsRecorder struct {
	bgzf.Cache

	// Name is used as the cache label value of exported metrics.
	Name string

	stats Stats
}

var _ prometheus.Collector = (*StatsRecorder)(nil)

// Stats represents statistics of a bgzf.Cache.
type Stats struct {
	Gets      int // number of Get operations
	Misses    int // number of cache misses
	Puts      int // number of Put operations
	Retains   int // number of times a Put has resulted in Block retention
	Evictions int // number of times a Put has resulted in a Block eviction
}

// Stats returns the current statistics for the cache.
func (s *StatsRecorder) Stats() Stats { return s.stats }

// Reset zeros the statistics kept by the StatsRecorder.
func (s *StatsRecorder) Reset() { s.stats = Stats{} }

// Get returns the Block in the underlying Cache with the specified base or a nil
// Block if it does not exist. It updates the gets and misses statistics.
func (s *StatsRecorder) Get(base int64) *bgzf.Block {
	s.stats.Gets++
	blk := s.Cache.Get(base)
	if blk == nil {
		s.stats.Misses++
	}
	return blk
}

// Put inserts a Block into the underlying Cache, returning the Block and eviction
// status according to the underlying cache behavior. It updates the puts, retains and
// evictions statistics.
func (s *StatsRecorder) Put(b *bgzf.Block) (evicted *bgzf.Block, retained bool) {
	s.stats.Puts++
	blk, retained := s.Cache.Put(b)
	if retained {
		s.stats.Retains++
	}
	if blk != nil && retained {
		s.stats.Evictions++
	}
	return blk, retained
}

var statNames = [...][2]string{
	{"bgzf_cache_gets_total", "Number of block cache Get operations."},
	{"bgzf_cache_misses_total", "Number of block cache misses."},
	{"bgzf_cache_puts_total", "Number of block cache Put operations."},
	{"bgzf_cache_retains_total", "Number of blocks retained by Put."},
	{"bgzf_cache_evictions_total", "Number of blocks evicted by Put."},
}

func (s *StatsRecorder) descs() []*prometheus.Desc {
	labels := prometheus.Labels{"cache": s.Name}
	d := make([]*prometheus.Desc, len(statNames))
	for i, n := range statNames {
		d[i] = prometheus.NewDesc(n[0], n[1], nil, labels)
	}
	return d
}

// Describe implements the prometheus.Collector interface.
func (s *StatsRecorder) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range s.descs() {
		ch <- d
	}
}

// Collect implements the prometheus.Collector interface.
func (s *StatsRecorder) Collect(ch chan<- prometheus.Metric) {
	values := [...]int{s.stats.Gets, s.stats.Misses, s.stats.Puts, s.stats.Retains, s.stats.Evictions}
	for i, d := range s.descs() {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(values[i]))
	}
}
