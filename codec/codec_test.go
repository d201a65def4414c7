// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"math/rand"
	"runtime"
	"strconv"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithms(t *testing.T) {
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)
		require.Equal(t, name, alg.Name())

		for i := 0; i < 10; i++ {
			src := []byte("source bytes" + strconv.Itoa(i))

			compressed := make([]byte, alg.CompressBound(len(src)))
			n, err := alg.Compress(compressed, src)
			require.NoError(t, err, "algorithm %s", name)

			got := make([]byte, len(src))
			m, err := alg.Decompress(got, compressed[:n])
			require.NoError(t, err, "algorithm %s", name)
			assert.Equal(t, src, got[:m], "algorithm %s", name)
		}
	}
}

func TestIncompressible(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	src := make([]byte, 1<<16)
	rnd.Read(src)
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		compressed := make([]byte, alg.CompressBound(len(src)))
		n, err := alg.Compress(compressed, src)
		require.NoError(t, err, "algorithm %s", name)
		assert.LessOrEqual(t, n, len(compressed), "algorithm %s", name)

		got := make([]byte, len(src))
		m, err := alg.Decompress(got, compressed[:n])
		require.NoError(t, err, "algorithm %s", name)
		assert.True(t, bytes.Equal(src, got[:m]), "algorithm %s", name)
	}
}

func TestEmptyBlock(t *testing.T) {
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		compressed := make([]byte, alg.CompressBound(0))
		n, err := alg.Compress(compressed, nil)
		require.NoError(t, err, "algorithm %s", name)

		m, err := alg.Decompress(make([]byte, 16), compressed[:n])
		require.NoError(t, err, "algorithm %s", name)
		assert.Zero(t, m, "algorithm %s", name)
	}
}

func TestShortDestination(t *testing.T) {
	src := bytes.Repeat([]byte("abcdefgh"), 512)
	for _, name := range Names() {
		alg, err := Lookup(name)
		require.NoError(t, err)

		compressed := make([]byte, alg.CompressBound(len(src)))
		n, err := alg.Compress(compressed, src)
		require.NoError(t, err, "algorithm %s", name)

		_, err = alg.Decompress(make([]byte, len(src)/2), compressed[:n])
		assert.True(t, errors.Is(err, ErrShortBuffer), "algorithm %s: got %v", name, err)
	}
}

func words(n int, seed int64) []byte {
	rnd := rand.New(rand.NewSource(seed))
	vocab := []string{"chr1", "\t", "10177", "rs367896724", "A", "AC", "PASS", "AC=2130;AF=0.425", "\n"}
	var buf bytes.Buffer
	for buf.Len() < n {
		buf.WriteString(vocab[rnd.Intn(len(vocab))])
		buf.WriteString(strconv.Itoa(rnd.Intn(1000)))
	}
	return buf.Bytes()[:n]
}

func TestTruncatedInput(t *testing.T) {
	src := words(1<<15, 1)
	for _, name := range Names() {
		if name == "none" {
			// Stored blocks carry no length to check against.
			continue
		}
		alg, err := Lookup(name)
		require.NoError(t, err)

		compressed := make([]byte, alg.CompressBound(len(src)))
		n, err := alg.Compress(compressed, src)
		require.NoError(t, err, "algorithm %s", name)
		require.Less(t, n, len(src), "algorithm %s", name)

		for _, cut := range []int{n / 2, n - 1} {
			got := make([]byte, len(src))
			m, err := alg.Decompress(got, compressed[:cut])
			assert.True(t, errors.Is(err, ErrDecompress), "algorithm %s: cut at %d of %d: got n=%d err=%v", name, cut, n, m, err)
		}
	}
}

func TestXZBlockAllocation(t *testing.T) {
	alg := NewXZ()
	src := words(1<<10, 2)
	compressed := make([]byte, alg.CompressBound(len(src)))
	got := make([]byte, len(src))

	const rounds = 10
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	for i := 0; i < rounds; i++ {
		n, err := alg.Compress(compressed, src)
		require.NoError(t, err)
		m, err := alg.Decompress(got, compressed[:n])
		require.NoError(t, err)
		require.True(t, bytes.Equal(src, got[:m]))
	}
	runtime.ReadMemStats(&after)

	// A default xz coder pair allocates at least two 8 MiB dictionaries.
	perBlock := (after.TotalAlloc - before.TotalAlloc) / rounds
	assert.Less(t, perBlock, uint64(4<<20), "allocated %d bytes per block", perBlock)
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("lz77")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lz77")
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"deflate", "minlz", "none", "snappy", "xz", "zstd"}, Names())
}
