// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/dropbox/divans-sub000/ans"
	"github.com/dropbox/divans-sub000/prob"
)

// entropyCoder lets the state machines run unchanged for encoding and
// decoding. When encoding, nibble and bit code the value pointed to; when
// decoding they store the decoded value there.
type entropyCoder interface {
	// ready reports whether the next symbol can be coded.
	ready() (Result, error)
	nibble(v *uint8, c prob.CDF)
	bit(b *bool, probOfFalse uint8)
}

// encodeCoder adapts an entropy encoder.
type encodeCoder struct {
	e ans.EntropyEncoder
}

func (c encodeCoder) ready() (Result, error) {
	if c.e.Blocked() {
		return NeedsMoreOutput, nil
	}
	return Success, nil
}

func (c encodeCoder) nibble(v *uint8, cdf prob.CDF) { c.e.PutNibble(*v, cdf) }

func (c encodeCoder) bit(b *bool, probOfFalse uint8) {
	c.e.PutBit(*b, probOfFalse)
}

// decodeCoder adapts an entropy decoder.
type decodeCoder struct {
	d ans.EntropyDecoder
}

func (c decodeCoder) ready() (Result, error) {
	ok, err := c.d.Ready()
	if err != nil {
		return Failure, err
	}
	if !ok {
		return NeedsMoreInput, nil
	}
	return Success, nil
}

func (c decodeCoder) nibble(v *uint8, cdf prob.CDF) { *v = c.d.GetNibble(cdf) }

func (c decodeCoder) bit(b *bool, probOfFalse uint8) {
	*b = c.d.GetBit(probOfFalse)
}

// uniformCDF is used for high-entropy literals. It is never blended.
var uniformCDF = prob.NewFrequentistCDF16()

// byteState codes a byte as two nibbles. The prior of the low nibble
// depends on the high nibble, so a prior row of 17 entries is used.
type byteState struct {
	low bool
	hi  uint8
}

func (st *byteState) code(s *session, v *uint8, b Billing, i int,
	speed prob.Speed) Result {
	if !st.low {
		hi := *v >> 4
		if r := s.codeNibble(&hi, b, i, 0, speed); r != Success {
			return r
		}
		st.hi, st.low = hi, true
	}
	lo := *v & 0xf
	if r := s.codeNibble(&lo, b, i, 1+int(st.hi), speed); r != Success {
		return r
	}
	*v = st.hi<<4 | lo
	*st = byteState{}
	return Success
}
