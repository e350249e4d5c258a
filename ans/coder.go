// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ans implements the rANS entropy coders. Encoder and Decoder are
// the production coders; they code nibbles directly on a 15-bit scale
// using two interleaved states. BitEncoder and BitDecoder are the simpler
// binary coders with an 8-bit scale; they code a nibble as four binary
// decisions.
//
// rANS decodes symbols in the reverse order they were encoded, so the
// encoders buffer a chunk of symbols and encode it backward into a stack
// buffer, from where the bytes are popped in stream order.
package ans

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// ErrCorrupt indicates that the coded stream is inconsistent.
var ErrCorrupt = errors.New("ans: corrupt stream")

const (
	// NormalizationInterval is the lower bound of a normalized state and
	// the state every chunk starts with.
	NormalizationInterval = 1 << 31
	// MaxBufferSize is the size of the encoder's output stack.
	MaxBufferSize = 64 << 10
	// SymbolsBeforeFlush is the number of nibble symbols per chunk.
	SymbolsBeforeFlush = MaxBufferSize / 4
	// BitSymbolsPerChunk is the number of binary decisions after which
	// the binary coder closes a chunk.
	BitSymbolsPerChunk = 16384
)

// EntropyEncoder is the encoding side of an entropy coder.
type EntropyEncoder interface {
	// PutBit codes a bit; probOfFalse must be in [1,255].
	PutBit(bit bool, probOfFalse uint8)
	// PutNibble codes the lower four bits of nibble.
	PutNibble(nibble uint8, c prob.CDF)
	// Blocked reports whether produced bytes must be popped before the
	// next symbol can be put.
	Blocked() bool
	// Close codes all buffered symbols. It returns false if the output
	// must be drained first.
	Close() bool
	NumPopBytesAvail() int
	PopData(p []byte) int
}

// EntropyDecoder is the decoding side of an entropy coder.
type EntropyDecoder interface {
	// GetBit decodes a bit; probOfFalse must be in [1,255].
	GetBit(probOfFalse uint8) bool
	// GetNibble decodes a nibble.
	GetNibble(c prob.CDF) uint8
	// Ready reports whether enough input is buffered to decode the next
	// bit or nibble.
	Ready() (bool, error)
	// Finish verifies that the coded stream ended properly. It returns
	// false if more input is required.
	Finish() (bool, error)
	NumPushBytesAvail() int
	PushData(p []byte) int
	// PopData returns input bytes following the coded stream.
	PopData(p []byte) int
}

// splitProbOfFalse computes the probability that a nibble known to be in
// [lo, lo+2*half) lies in the lower half.
func splitProbOfFalse(c prob.CDF, lo, half uint8) uint8 {
	mid := uint32(c.Cdf(lo + half - 1))
	if lo == 0 && half == 8 {
		if lm, ok := c.LogMax(); ok {
			return prob.ClampProbOfFalse(mid << 8 >> lm)
		}
	}
	var base uint32
	if lo > 0 {
		base = uint32(c.Cdf(lo - 1))
	}
	top := uint32(c.Cdf(lo + 2*half - 1))
	return prob.ClampProbOfFalse((mid - base) << 8 / (top - base))
}

// putNibbleBits codes the nibble as four binary decisions, most
// significant bit first.
func putNibbleBits(put func(bit bool, probOfFalse uint8), nibble uint8,
	c prob.CDF) {
	var lo uint8
	for half := uint8(8); half > 0; half >>= 1 {
		bit := nibble&half != 0
		put(bit, splitProbOfFalse(c, lo, half))
		if bit {
			lo += half
		}
	}
}

// getNibbleBits is the inverse of putNibbleBits.
func getNibbleBits(get func(probOfFalse uint8) bool, c prob.CDF) uint8 {
	var lo uint8
	for half := uint8(8); half > 0; half >>= 1 {
		if get(splitProbOfFalse(c, lo, half)) {
			lo += half
		}
	}
	return lo
}
