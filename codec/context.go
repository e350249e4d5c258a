// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "fmt"

// LiteralMode selects how the two previous bytes are condensed into one of
// the 64 literal contexts.
type LiteralMode uint8

// Literal modes.
const (
	ModeLSB6 LiteralMode = iota
	ModeMSB6
	ModeUTF8
	ModeSigned
	numLiteralModes
)

// contextsPerBlockType is the number of literal contexts per literal
// block type.
const contextsPerBlockType = 64

var modeNames = [...]string{"lsb6", "msb6", "utf8", "signed"}

// String returns the name of the mode.
func (m LiteralMode) String() string {
	if m < numLiteralModes {
		return modeNames[m]
	}
	return fmt.Sprintf("LiteralMode(%d)", uint8(m))
}

// utf8Class1 classifies the previous byte.
func utf8Class1(c byte) byte {
	switch {
	case c == ' ' || c == '\t' || c == '\n' || c == '\r':
		return 1
	case c < 0x20 || c == 0x7f:
		return 0
	case '0' <= c && c <= '9':
		return 2
	case 'A' <= c && c <= 'Z':
		return 3
	case 'a' <= c && c <= 'z':
		return 4
	case c == '.' || c == ',' || c == ';' || c == ':' || c == '!' ||
		c == '?':
		return 5
	case c == '"' || c == '\'' || c == '(' || c == ')' || c == '[' ||
		c == ']' || c == '{' || c == '}' || c == '<' || c == '>':
		return 6
	case c < 0x80:
		return 7
	case c < 0xc0:
		// continuation byte
		return 8
	case c < 0xe0:
		return 9
	case c < 0xf0:
		return 10
	case c < 0xf8:
		return 11
	}
	return 12
}

// utf8Class2 classifies the byte before the previous byte.
func utf8Class2(c byte) byte {
	switch {
	case c <= ' ' || c == 0x7f:
		return 0
	case '0' <= c && c <= '9', 'A' <= c && c <= 'Z', 'a' <= c && c <= 'z':
		return 1
	case c < 0x80:
		return 2
	}
	return 3
}

// signedBucket maps a byte interpreted as a signed delta to one of eight
// buckets.
func signedBucket(c byte) byte {
	switch {
	case c == 0:
		return 0
	case c < 16:
		return 1
	case c < 64:
		return 2
	case c < 128:
		return 3
	case c < 192:
		return 4
	case c < 240:
		return 5
	case c < 255:
		return 6
	}
	return 7
}

// literalContext computes the context of the next literal from the two
// previous bytes. The result is less than contextsPerBlockType.
func literalContext(m LiteralMode, prev1, prev2 byte) uint8 {
	switch m {
	case ModeLSB6:
		return prev1 & 0x3f
	case ModeMSB6:
		return prev1 >> 2
	case ModeUTF8:
		return utf8Class1(prev1)<<2 | utf8Class2(prev2)
	case ModeSigned:
		return signedBucket(prev1)<<3 | signedBucket(prev2)
	}
	panic("codec: invalid literal mode")
}
