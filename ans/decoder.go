// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ans

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
	"github.com/dropbox/divans-sub000/queue"
)

// load identifies the value the decoder is currently accumulating.
type load uint8

const (
	loadNone load = iota
	// loadStates reads the two 64-bit states at the start of a chunk.
	loadStates
	// loadWord reads a 32-bit renormalization word into state b.
	loadWord
)

// Decoder is the nibble rANS decoder. Loads from the byte stream are
// deferred until the next symbol is requested, so the input may be split
// at arbitrary positions. Bytes are collected into an accumulator until
// the required count has been reached.
type Decoder struct {
	in *queue.CycleQueue
	a  uint64
	b  uint64

	pending load
	need    int
	acc     uint64
	shift   uint

	symCount int
	err      error
}

// NewDecoder creates a nibble decoder.
func NewDecoder() *Decoder {
	d := &Decoder{in: queue.NewCycleQueue(MaxBufferSize)}
	d.startChunk()
	return d
}

func (d *Decoder) startChunk() {
	d.pending = loadStates
	d.need = 16
	d.acc = 0
	d.shift = 0
	d.symCount = 0
}

// Ready completes the pending load.
func (d *Decoder) Ready() (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	for d.need > 0 {
		c, ok := d.in.PopByte()
		if !ok {
			return false, nil
		}
		d.acc |= uint64(c) << d.shift
		d.shift += 8
		d.need--
		switch d.pending {
		case loadStates:
			if d.shift == 64 {
				if d.need == 8 {
					d.a = d.acc
				} else {
					d.b = d.acc
				}
				d.acc, d.shift = 0, 0
			}
		case loadWord:
			if d.need == 0 {
				d.b = d.b<<32 | d.acc
				d.acc, d.shift = 0, 0
			}
		}
	}
	d.pending = loadNone
	return true, nil
}

// advance removes the symbol with the interval [start, start+freq) from
// state a and rotates the states.
func (d *Decoder) advance(start, freq uint32) {
	x := uint64(freq)*(d.a>>prob.LogScale) + d.a&scaleMask - uint64(start)
	d.a = d.b
	d.b = x
	if x < NormalizationInterval {
		d.pending = loadWord
		d.need = 4
	}
	d.symCount++
	if d.symCount == SymbolsBeforeFlush {
		d.verifyChunk()
		d.startChunk()
	}
}

func (d *Decoder) verifyChunk() {
	if d.err != nil {
		return
	}
	if d.a != NormalizationInterval || d.b != NormalizationInterval ||
		d.pending == loadWord {
		d.err = errors.Wrap(ErrCorrupt, "invalid chunk end state")
	}
}

func (d *Decoder) checkReady() bool {
	if d.err != nil {
		return false
	}
	if d.need > 0 {
		panic("ans: decoding without Ready")
	}
	return true
}

// GetBit decodes a bit.
func (d *Decoder) GetBit(probOfFalse uint8) bool {
	if !d.checkReady() {
		return false
	}
	bit, start, freq := prob.OffsetToBit(probOfFalse,
		uint32(d.a&scaleMask))
	d.advance(start, freq)
	return bit
}

// GetNibble decodes a nibble with the given distribution.
func (d *Decoder) GetNibble(c prob.CDF) uint8 {
	if !d.checkReady() {
		return 0
	}
	sym, start, freq := prob.CdfOffsetToSymStartAndFreq(c,
		uint32(d.a&scaleMask))
	d.advance(start, freq)
	return sym
}

// Finish verifies the final chunk. A chunk that hasn't been started is
// fine; the encoder doesn't write empty chunks.
func (d *Decoder) Finish() (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.pending == loadStates && d.need == 16 {
		return true, nil
	}
	if d.pending == loadStates {
		d.err = errors.Wrap(ErrCorrupt, "truncated chunk")
		return false, d.err
	}
	d.verifyChunk()
	if d.err != nil {
		return false, d.err
	}
	d.startChunk()
	return true, nil
}

// NumPushBytesAvail returns the free space of the input queue.
func (d *Decoder) NumPushBytesAvail() int { return d.in.NumPushBytesAvail() }

// PushData adds coded bytes to the input queue.
func (d *Decoder) PushData(p []byte) int { return d.in.PushData(p) }

// PopData returns buffered input that hasn't been used by the decoder.
func (d *Decoder) PopData(p []byte) int { return d.in.PopData(p) }
