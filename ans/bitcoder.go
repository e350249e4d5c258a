// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ans

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
	"github.com/dropbox/divans-sub000/queue"
)

// bitScaleBits is the precision of the binary coder.
const bitScaleBits = 8

// maxBitChunk limits the payload length of a binary coder chunk so that
// the chunk and its header fit into the decoder's input queue.
const maxBitChunk = MaxBufferSize - 2

// bitFreq returns the frequency and the cumulative start of a bit.
func bitFreq(bit bool, probOfFalse uint64) (ls, bs uint64) {
	if bit {
		return 1<<bitScaleBits - probOfFalse, probOfFalse
	}
	return probOfFalse, 0
}

// BitEncoder is the binary rANS encoder. It writes chunks of the form
//
//	[length uint16][state uint64][words uint32...]
//
// with all values big-endian. The length covers the state and the words.
// A chunk is closed after the call that brings the number of binary
// decisions to BitSymbolsPerChunk.
type BitEncoder struct {
	// bit<<8 | probOfFalse
	syms []uint16
	out  *queue.StackBuffer
}

// NewBitEncoder creates a binary encoder.
func NewBitEncoder() *BitEncoder {
	return &BitEncoder{
		syms: make([]uint16, 0, BitSymbolsPerChunk+4),
		out:  queue.NewStackBuffer(MaxBufferSize),
	}
}

func (e *BitEncoder) putBit(bit bool, probOfFalse uint8) {
	if probOfFalse == 0 {
		panic("ans: probability of false is zero")
	}
	v := uint16(probOfFalse)
	if bit {
		v |= 1 << 8
	}
	e.syms = append(e.syms, v)
}

// endCall flushes the chunk if it is complete and the output stack is
// free.
func (e *BitEncoder) endCall() {
	if len(e.syms) >= BitSymbolsPerChunk && e.out.NumPopBytesAvail() == 0 {
		e.flushChunk()
	}
}

// PutBit codes a single bit.
func (e *BitEncoder) PutBit(bit bool, probOfFalse uint8) {
	if len(e.syms) >= BitSymbolsPerChunk {
		panic("ans: PutBit on blocked encoder")
	}
	e.putBit(bit, probOfFalse)
	e.endCall()
}

// PutNibble codes the nibble as four binary decisions.
func (e *BitEncoder) PutNibble(nibble uint8, c prob.CDF) {
	if len(e.syms) >= BitSymbolsPerChunk {
		panic("ans: PutNibble on blocked encoder")
	}
	putNibbleBits(e.putBit, nibble, c)
	e.endCall()
}

// Blocked reports whether a complete chunk waits for the output to be
// drained.
func (e *BitEncoder) Blocked() bool {
	if len(e.syms) < BitSymbolsPerChunk {
		return false
	}
	if e.out.NumPopBytesAvail() > 0 {
		return true
	}
	e.flushChunk()
	return false
}

// Close codes the buffered decisions as the final chunk.
func (e *BitEncoder) Close() bool {
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
func (e *BitEncoder) NumPopBytesAvail() int { return e.out.NumPopBytesAvail() }

// PopData moves coded bytes into p.
func (e *BitEncoder) PopData(p []byte) int { return e.out.PopData(p) }

// flushChunk encodes the buffered decisions in reverse order. The
// renormalization test precedes the state update so the words come out
// in the order the decoder consumes them.
func (e *BitEncoder) flushChunk() {
	var w [8]byte
	r := uint64(NormalizationInterval)
	for i := len(e.syms) - 1; i >= 0; i-- {
		s := e.syms[i]
		ls, bs := bitFreq(s>>8 != 0, uint64(s&0xff))
		if r >= ((NormalizationInterval>>bitScaleBits)<<32)*ls {
			binary.BigEndian.PutUint32(w[:4], uint32(r))
			e.out.PushData(w[:4])
			r >>= 32
		}
		r = (r/ls)<<bitScaleBits + bs + r%ls
	}
	binary.BigEndian.PutUint64(w[:], r)
	e.out.PushData(w[:])
	binary.BigEndian.PutUint16(w[:2], uint16(e.out.NumPopBytesAvail()))
	e.out.PushData(w[:2])
	e.syms = e.syms[:0]
}

// BitDecoder is the binary rANS decoder. It loads a complete chunk before
// decoding from it.
type BitDecoder struct {
	in     *queue.CycleQueue
	chunk  []byte
	pos    int
	r      uint64
	count  int
	active bool
	err    error
}

// NewBitDecoder creates a binary decoder.
func NewBitDecoder() *BitDecoder {
	return &BitDecoder{
		in:    queue.NewCycleQueue(MaxBufferSize),
		chunk: make([]byte, 0, maxBitChunk),
	}
}

// Ready loads the next chunk if required.
func (d *BitDecoder) Ready() (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.active {
		return true, nil
	}
	var h [2]byte
	if d.in.Peek(h[:]) < 2 {
		return false, nil
	}
	n := int(binary.BigEndian.Uint16(h[:]))
	if n < 8 || n > maxBitChunk {
		d.err = errors.Wrapf(ErrCorrupt, "chunk length %d", n)
		return false, d.err
	}
	if d.in.NumPopBytesAvail() < 2+n {
		return false, nil
	}
	d.in.PopData(h[:])
	d.chunk = d.chunk[:n]
	d.in.PopData(d.chunk)
	d.r = binary.BigEndian.Uint64(d.chunk)
	d.pos = 8
	d.count = 0
	d.active = true
	return true, nil
}

func (d *BitDecoder) getBit(probOfFalse uint8) bool {
	if d.err != nil {
		return false
	}
	if !d.active {
		panic("ans: GetBit without Ready")
	}
	xm := d.r & (1<<bitScaleBits - 1)
	p := uint64(probOfFalse)
	bit := xm >= p
	ls, bs := bitFreq(bit, p)
	x := ls*(d.r>>bitScaleBits) + xm - bs
	if x < NormalizationInterval {
		if d.pos+4 > len(d.chunk) {
			d.err = errors.Wrap(ErrCorrupt, "chunk exhausted")
			return bit
		}
		x = x<<32 | uint64(binary.BigEndian.Uint32(d.chunk[d.pos:]))
		d.pos += 4
	}
	d.r = x
	d.count++
	return bit
}

// endCall closes the chunk after the call that completed it.
func (d *BitDecoder) endCall() {
	if d.active && d.count >= BitSymbolsPerChunk {
		d.verifyChunk()
	}
}

func (d *BitDecoder) verifyChunk() {
	d.active = false
	if d.err != nil {
		return
	}
	if d.r != NormalizationInterval || d.pos != len(d.chunk) {
		d.err = errors.Wrap(ErrCorrupt, "invalid chunk end state")
	}
}

// GetBit decodes a single bit.
func (d *BitDecoder) GetBit(probOfFalse uint8) bool {
	b := d.getBit(probOfFalse)
	d.endCall()
	return b
}

// GetNibble decodes a nibble from four binary decisions.
func (d *BitDecoder) GetNibble(c prob.CDF) uint8 {
	n := getNibbleBits(d.getBit, c)
	d.endCall()
	return n
}

// Finish verifies the final chunk.
func (d *BitDecoder) Finish() (bool, error) {
	if d.active {
		d.verifyChunk()
	}
	if d.err != nil {
		return false, d.err
	}
	return true, nil
}

// NumPushBytesAvail returns the free space of the input queue.
func (d *BitDecoder) NumPushBytesAvail() int { return d.in.NumPushBytesAvail() }

// PushData adds coded bytes to the input queue.
func (d *BitDecoder) PushData(p []byte) int { return d.in.PushData(p) }

// PopData returns buffered input that hasn't been used by the decoder.
func (d *BitDecoder) PopData(p []byte) int { return d.in.PopData(p) }
