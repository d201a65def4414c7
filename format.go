// Copyright ©2026 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compression

import (
	"bytes"
	"encoding/binary"
	"io"
	"unicode/utf8"

	"github.com/varanno/compression/bgzf"
	"github.com/varanno/compression/peek"
)

// Format is a stream format recognised by Detect.
type Format int

const (
	Unknown Format = iota
	Text
	BGZF
	Gzip
	Zstd
	XZ
)

func (f Format) String() string {
	switch f {
	case Text:
		return "text"
	case BGZF:
		return "bgzf"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case XZ:
		return "xz"
	default:
		return "unknown"
	}
}

var (
	gzipMagic = [2]byte{0x1f, 0x8b}
	zstdMagic = [4]byte{0x28, 0xb5, 0x2f, 0xfd}
	xzMagic   = [6]byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
)

// sniffLen is the number of leading bytes examined by Detect.
const sniffLen = 512

// Detect returns the format of the stream buffered by p without
// consuming any of it. A stream that is not a recognised compressed
// format is Text if its leading bytes hold no NUL and are valid UTF-8.
func Detect(p *peek.Reader) (Format, error) {
	n := sniffLen
	if n > p.Size() {
		n = p.Size()
	}
	b, err := p.Peek(n)
	if err != nil && err != io.EOF {
		return Unknown, err
	}

	switch {
	case isBGZF(b):
		return BGZF, nil
	case hasPrefix(b, gzipMagic[:]):
		return Gzip, nil
	case hasPrefix(b, zstdMagic[:]):
		return Zstd, nil
	case hasPrefix(b, xzMagic[:]):
		return XZ, nil
	case isText(b):
		return Text, nil
	}
	return Unknown, nil
}

func hasPrefix(b, magic []byte) bool { return bytes.HasPrefix(b, magic) }

func isBGZF(b []byte) bool {
	return len(b) >= bgzf.HeaderLength &&
		hasPrefix(b, gzipMagic[:]) && b[2] == 8 &&
		b[3]&0x4 != 0 &&
		binary.LittleEndian.Uint16(b[10:]) == 6 &&
		b[12] == 'B' && b[13] == 'C'
}

func isText(b []byte) bool {
	if bytes.IndexByte(b, 0) >= 0 {
		return false
	}
	// The peeked bytes may end within a rune.
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				b = b[:i]
			}
			break
		}
	}
	return utf8.Valid(b)
}
