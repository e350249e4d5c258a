// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package prob implements the adaptive probability models that drive the
// entropy coders. A model tracks a cumulative distribution over the 16
// values of a nibble (CDF16) or over the two values of a bit (CDF2) and is
// updated after every coded symbol.
package prob

import (
	"math"
	"math/bits"
)

// Scale constants for the 15-bit coders.
const (
	LogScale = 15
	Scale    = 1 << LogScale
	CDFMax   = Scale - 1

	// BlendFixedPointPrecision is the number of fraction bits of the
	// mixing weights used by Average and Weights.
	BlendFixedPointPrecision = 15
)

// Prob is a cumulative count. The largest value a model may reach is
// Scale, which still fits into 16 bits.
type Prob uint16

// CDF describes a cumulative distribution over the 16 nibble values.
// Cdf(15) must equal Max().
type CDF interface {
	// Cdf returns the cumulative mass of all symbols up to and including
	// sym.
	Cdf(sym uint8) Prob
	// Max returns the total mass.
	Max() Prob
	// LogMax returns log2(Max()) if Max is a power of two.
	LogMax() (int, bool)
}

// Model is an adaptive CDF.
type Model interface {
	CDF
	// Blend updates the model after sym has been coded.
	Blend(sym uint8, s Speed)
}

// logMax computes the LogMax value for arbitrary maxima.
func logMax(m Prob) (int, bool) {
	if m == 0 || m&(m-1) != 0 {
		return 0, false
	}
	return bits.Len16(uint16(m)) - 1, true
}

// Pdf returns the mass of the symbol sym.
func Pdf(c CDF, sym uint8) Prob {
	if sym == 0 {
		return c.Cdf(0)
	}
	return c.Cdf(sym) - c.Cdf(sym-1)
}

// NormalizedPdf returns the mass of sym scaled to Scale.
func NormalizedPdf(c CDF, sym uint8) int32 {
	return int32(uint32(Pdf(c, sym)) << LogScale / uint32(c.Max()))
}

// Valid checks that the cumulative counts are strictly increasing, that
// every symbol has a positive mass and that the maximum doesn't exceed
// Scale.
func Valid(c CDF) bool {
	var prev Prob
	for i := 0; i < 16; i++ {
		v := c.Cdf(uint8(i))
		if v <= prev {
			return false
		}
		prev = v
	}
	return prev == c.Max() && prev <= Scale
}

// scaled maps the cumulative value v of c onto the 15-bit coder scale.
func scaled(c CDF, v Prob) uint32 {
	if lm, ok := c.LogMax(); ok {
		return uint32(v) << (LogScale - lm)
	}
	return uint32(v) << LogScale / uint32(c.Max())
}

// SymToStartAndFreq returns the interval of sym on the 15-bit coder
// scale. The interval starts one above the rounded lower bound and is one
// shorter than the rounded width. Encoder and decoder must agree on this
// rounding exactly.
func SymToStartAndFreq(c CDF, sym uint8) (start, freq uint32) {
	var lo uint32
	if sym > 0 {
		lo = scaled(c, c.Cdf(sym-1))
	}
	hi := scaled(c, c.Cdf(sym))
	return lo + 1, hi - lo - 1
}

// CdfOffsetToSymStartAndFreq maps an offset on the 15-bit coder scale
// back to the symbol whose interval contains it.
func CdfOffsetToSymStartAndFreq(c CDF, offset uint32) (sym uint8,
	start, freq uint32) {
	var r uint32
	if lm, ok := c.LogMax(); ok {
		r = offset >> (LogScale - lm)
	} else {
		r = offset * uint32(c.Max()) >> LogScale
	}
	for sym = 0; sym < 15; sym++ {
		if r < uint32(c.Cdf(sym)) {
			break
		}
	}
	start, freq = SymToStartAndFreq(c, sym)
	return sym, start, freq
}

// Entropy returns the entropy of the distribution in bits per symbol.
func Entropy(c CDF) float64 {
	m := float64(c.Max())
	var h float64
	for i := 0; i < 16; i++ {
		p := float64(Pdf(c, uint8(i))) / m
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h
}
