// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// cdf2Limit is the count total that triggers halving.
const cdf2Limit = 1024

// CDF2 is an adaptive model of a single bit. The probability of false is
// kept as an 8-bit fraction in [1,255].
type CDF2 struct {
	counts [2]uint16
	pof    uint8
}

// NewCDF2 returns a model with both outcomes equally likely.
func NewCDF2() CDF2 {
	var c CDF2
	c.Reset()
	return c
}

// Reset restores equal probabilities.
func (c *CDF2) Reset() {
	c.counts = [2]uint16{1, 1}
	c.pof = 128
}

// ProbOfFalse returns P(bit == false) in units of 1/256.
func (c *CDF2) ProbOfFalse() uint8 { return c.pof }

// Blend records the bit.
func (c *CDF2) Blend(bit bool) {
	i := 0
	if bit {
		i = 1
	}
	c.counts[i]++
	if c.counts[0]+c.counts[1] >= cdf2Limit {
		c.counts[0] = (c.counts[0] + 1) >> 1
		c.counts[1] = (c.counts[1] + 1) >> 1
	}
	c.pof = ClampProbOfFalse(uint32(c.counts[0]) << 8 /
		uint32(c.counts[0]+c.counts[1]))
}

// OffsetToBit maps an offset on the 15-bit coder scale to the bit whose
// interval contains it.
func (c *CDF2) OffsetToBit(offset uint32) (bit bool, start, freq uint32) {
	return OffsetToBit(c.pof, offset)
}

// OffsetToBit is the inverse of BitStartAndFreq.
func OffsetToBit(probOfFalse uint8, offset uint32) (bit bool,
	start, freq uint32) {
	split := uint32(probOfFalse) << (LogScale - 8)
	if offset < split {
		return false, 0, split
	}
	return true, split, Scale - split
}

// BitStartAndFreq returns the coder interval of a bit with the given
// probability of false. False occupies [0, pof<<7) and true the rest.
func BitStartAndFreq(bit bool, probOfFalse uint8) (start, freq uint32) {
	split := uint32(probOfFalse) << (LogScale - 8)
	if !bit {
		return 0, split
	}
	return split, Scale - split
}

// ClampProbOfFalse maps a probability in units of 1/256 into [1,255].
func ClampProbOfFalse(p uint32) uint8 {
	switch {
	case p < 1:
		return 1
	case p > 255:
		return 255
	}
	return uint8(p)
}
