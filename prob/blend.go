// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

const (
	// blendFloor is the mass per symbol that the blend target keeps for
	// symbols below the coded one.
	blendFloor = 32
	// blendPeak is the additional mass the target assigns to the coded
	// symbol.
	blendPeak = Scale - 16*blendFloor
	// blendRateStart is the initial mix rate: one half.
	blendRateStart = 1 << (BlendFixedPointPrecision - 1)
	// blendRateDecay is the shift of the geometric decay of the mix rate.
	blendRateDecay = 5
)

// BlendCDF16 is a model with a fixed total of Scale. Blending moves the
// distribution toward a target that puts nearly all mass on the coded
// symbol. The mix rate starts at one half and decays geometrically toward
// a floor that depends on the speed.
//
// The target keeps blendFloor units for every symbol, so each symbol
// retains a mass of at least two units.
type BlendCDF16 struct {
	cdf  [16]Prob
	rate int32
}

// NewBlendCDF16 returns the uniform distribution.
func NewBlendCDF16() BlendCDF16 {
	var b BlendCDF16
	b.Reset()
	return b
}

// Reset restores the uniform distribution and the initial mix rate.
func (b *BlendCDF16) Reset() {
	for i := range b.cdf {
		b.cdf[i] = Prob((Scale / 16) * (i + 1))
	}
	b.rate = blendRateStart
}

// Cdf returns the cumulative mass through sym.
func (b *BlendCDF16) Cdf(sym uint8) Prob { return b.cdf[sym] }

// Max returns Scale.
func (b *BlendCDF16) Max() Prob { return Scale }

// LogMax returns LogScale.
func (b *BlendCDF16) LogMax() (int, bool) { return LogScale, true }

// Rate returns the current mix rate as a 15-bit fraction.
func (b *BlendCDF16) Rate() int32 { return b.rate }

// Blend moves the distribution toward sym.
func (b *BlendCDF16) Blend(sym uint8, s Speed) {
	for i := 0; i < 15; i++ {
		target := int32(blendFloor * (i + 1))
		if i >= int(sym) {
			target += blendPeak
		}
		c := int32(b.cdf[i])
		c += ((target - c) * b.rate) >> BlendFixedPointPrecision
		b.cdf[i] = Prob(c)
	}
	floor := int32(s.Inc) << 4
	if floor > Scale {
		floor = Scale
	}
	b.rate += (floor - b.rate) >> blendRateDecay
}
