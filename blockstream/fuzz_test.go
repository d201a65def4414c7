// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blockstream

import (
	"bytes"
	"testing"
)

func FuzzRead(f *testing.F) {
	alg := lookup(f, "zstd")
	valid := compress(f, alg, text(3*testBlockSize, 1))
	f.Add(valid)
	f.Add(valid[:len(valid)/2])
	f.Add(valid[:HeaderSize+3])
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		s, err := NewStream(alg, bytes.NewReader(data), Decompress, true, testBlockSize)
		if err != nil {
			t.Fatalf("NewStream: %v", err)
		}
		s.SetLogger(&recordLogger{})
		tmp := make([]byte, 1000)
		for {
			n, err := s.Read(tmp)
			if n > len(tmp) {
				t.Fatalf("read overran buffer: %d", n)
			}
			if err != nil {
				break
			}
		}
		if n, err := s.Read(tmp); n != 0 || err == nil {
			t.Errorf("unexpected read after end: n=%d err=%v", n, err)
		}
		s.Close()
	})
}
