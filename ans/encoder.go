// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ans

import (
	"encoding/binary"

	"github.com/dropbox/divans-sub000/prob"
	"github.com/dropbox/divans-sub000/queue"
)

const scaleMask = prob.Scale - 1

// Encoder is the nibble rANS encoder. Symbols are buffered as
// (start, freq) pairs; once SymbolsBeforeFlush pairs are collected they
// are encoded backward, alternating between two states. The words of a
// chunk are 32-bit little-endian values, followed by the two final states
// as 64-bit little-endian values.
type Encoder struct {
	// start<<16 | freq
	syms []uint32
	out  *queue.StackBuffer
}

// NewEncoder creates a nibble encoder.
func NewEncoder() *Encoder {
	return &Encoder{
		syms: make([]uint32, 0, SymbolsBeforeFlush),
		out:  queue.NewStackBuffer(MaxBufferSize),
	}
}

func (e *Encoder) put(start, freq uint32) {
	if freq == 0 {
		panic("ans: zero frequency")
	}
	if len(e.syms) >= SymbolsBeforeFlush {
		panic("ans: put on blocked encoder")
	}
	e.syms = append(e.syms, start<<16|freq)
	if len(e.syms) == SymbolsBeforeFlush && e.out.NumPopBytesAvail() == 0 {
		e.flushChunk()
	}
}

// PutBit codes a bit on the 15-bit scale.
func (e *Encoder) PutBit(bit bool, probOfFalse uint8) {
	e.put(prob.BitStartAndFreq(bit, probOfFalse))
}

// PutNibble codes the nibble with the given distribution.
func (e *Encoder) PutNibble(nibble uint8, c prob.CDF) {
	e.put(prob.SymToStartAndFreq(c, nibble&0xf))
}

// Blocked reports whether a complete chunk waits for the output to be
// drained.
func (e *Encoder) Blocked() bool {
	if len(e.syms) < SymbolsBeforeFlush {
		return false
	}
	if e.out.NumPopBytesAvail() > 0 {
		return true
	}
	e.flushChunk()
	return false
}

// Close codes the buffered symbols as the final chunk.
func (e *Encoder) Close() bool {
	if len(e.syms) == 0 {
		return true
	}
	if e.out.NumPopBytesAvail() > 0 {
		return false
	}
	e.flushChunk()
	return true
}

// NumPopBytesAvail returns the number of coded bytes ready for output.
func (e *Encoder) NumPopBytesAvail() int { return e.out.NumPopBytesAvail() }

// PopData moves coded bytes into p.
func (e *Encoder) PopData(p []byte) int { return e.out.PopData(p) }

// flushChunk replays the buffered symbols in reverse. Symbol i uses state
// i&1, so the decoder can rotate the states after every symbol.
func (e *Encoder) flushChunk() {
	var w [8]byte
	st := [2]uint64{NormalizationInterval, NormalizationInterval}
	for i := len(e.syms) - 1; i >= 0; i-- {
		start := uint64(e.syms[i] >> 16)
		freq := uint64(e.syms[i] & 0xffff)
		s := &st[i&1]
		lim := ((NormalizationInterval >> prob.LogScale) << 32) * freq
		if *s >= lim {
			binary.LittleEndian.PutUint32(w[:4], uint32(*s))
			e.out.PushData(w[:4])
			*s >>= 32
		}
		*s = (*s/freq)<<prob.LogScale + *s%freq + start
	}
	binary.LittleEndian.PutUint64(w[:], st[1])
	e.out.PushData(w[:])
	binary.LittleEndian.PutUint64(w[:], st[0])
	e.out.PushData(w[:])
	e.syms = e.syms[:0]
}
