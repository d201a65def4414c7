// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bgzf_test

import (
	"bytes"
	"io"
	"testing"

	. "github.com/varanno/compression/bgzf"
)

func FuzzRead(f *testing.F) {
	valid := compress(f, payload(3*BlockSize/2, 1), BlockSize/3)
	f.Add(valid)
	f.Add(valid[:len(valid)/2])
	f.Add([]byte(MagicBlock))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := NewStream(bytes.NewReader(data), Decompress, true, 0)
		if err != nil {
			t.Fatalf("NewStream: %v", err)
		}
		r.SetLogger(&quietLogger{})
		tmp := make([]byte, 1024)
		for {
			_, err := r.Read(tmp)
			if err != nil {
				break
			}
		}
		// An exhausted stream stays exhausted.
		if n, err := r.Read(tmp); n != 0 || err == nil {
			t.Errorf("unexpected read after end: n=%d err=%v", n, err)
		}
		r.Close()
	})
}

func FuzzReadBlock(f *testing.F) {
	f.Add(compress(f, payload(100, 2)))
	f.Add([]byte(MagicBlock))
	f.Fuzz(func(t *testing.T, data []byte) {
		compressed := make([]byte, MaxBlockSize)
		dst := make([]byte, MaxBlockSize)
		r := bytes.NewReader(data)
		for {
			n, err := ReadBlock(r, compressed, dst)
			if err != nil {
				if err == io.EOF && n != 0 {
					t.Errorf("unexpected data with io.EOF: n=%d", n)
				}
				return
			}
			if n > MaxBlockSize {
				t.Fatalf("block length out of range: %d", n)
			}
		}
	})
}
