// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// mixOne is the fixed-point representation of a mix weight of one.
const mixOne = 1 << BlendFixedPointPrecision

// Average mixes the distributions a and b. The weight of a is mix/2^15.
// Both inputs are normalized by their own maximum before mixing and the
// result uses the smaller of the two maxima. Each symbol keeps a mass of
// at least two, so the result can always be coded.
func Average(a, b CDF, mix int32) FrequentistCDF16 {
	if mix < 0 {
		mix = 0
	} else if mix > mixOne {
		mix = mixOne
	}
	ma, mb := int64(a.Max()), int64(b.Max())
	lgmax := ma
	if mb < lgmax {
		lgmax = mb
	}
	var r FrequentistCDF16
	for i := 0; i < 16; i++ {
		na := int64(a.Cdf(uint8(i))) << LogScale / ma
		nb := int64(b.Cdf(uint8(i))) << LogScale / mb
		mixed := (na*int64(mix) + nb*int64(mixOne-mix)) >>
			BlendFixedPointPrecision
		v := (mixed*(lgmax-32))>>LogScale + int64(2*(i+1))
		r.cdf[i] = Prob(v)
	}
	return r
}

const (
	weightBits = 16
	minWeight  = 1 << 8
	maxWeight  = 1 << 24
	// weightRate is the shift applied to weight changes.
	weightRate = 4
)

// Weights holds the online mixing weights of two models. The weight of a
// model grows when it predicted the coded symbol better than the mix.
// Only integer arithmetic is used so encoder and decoder agree exactly.
type Weights struct {
	w [2]int32
}

// NewWeights returns equal weights.
func NewWeights() Weights {
	return Weights{w: [2]int32{1 << weightBits, 1 << weightBits}}
}

// Mix returns the weight of the first model as a 15-bit fraction, the
// mix argument of Average.
func (w *Weights) Mix() int32 {
	return int32(int64(w.w[0]) << BlendFixedPointPrecision /
		int64(w.w[0]+w.w[1]))
}

// Update adjusts the weights. The arguments are the normalized
// probabilities of the coded symbol under both models and under the mix,
// as returned by NormalizedPdf.
func (w *Weights) Update(p0, p1, pMixed int32) {
	if pMixed <= 0 {
		return
	}
	for i, p := range [2]int32{p0, p1} {
		d := int64(w.w[i]) * int64(p-pMixed) / int64(pMixed)
		nw := int64(w.w[i]) + d>>weightRate
		if nw < minWeight {
			nw = minWeight
		} else if nw > maxWeight {
			nw = maxWeight
		}
		w.w[i] = int32(nw)
	}
}
