// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

// FrequentistCDF16 counts symbol occurrences. Blending adds the speed
// increment to all buckets from the coded symbol upward; when the total
// reaches the speed limit all counts decay to about three quarters.
//
// The zero value is not a valid distribution; use NewFrequentistCDF16.
type FrequentistCDF16 struct {
	cdf [16]Prob
}

// NewFrequentistCDF16 returns the uniform start distribution 4, 8, ..., 64.
func NewFrequentistCDF16() FrequentistCDF16 {
	var f FrequentistCDF16
	f.Reset()
	return f
}

// Reset restores the uniform start distribution.
func (f *FrequentistCDF16) Reset() {
	for i := range f.cdf {
		f.cdf[i] = Prob(4 * (i + 1))
	}
}

// Cdf returns the cumulative count through sym.
func (f *FrequentistCDF16) Cdf(sym uint8) Prob { return f.cdf[sym] }

// Max returns the total count.
func (f *FrequentistCDF16) Max() Prob { return f.cdf[15] }

// LogMax returns log2 of the total count if it is a power of two.
func (f *FrequentistCDF16) LogMax() (int, bool) { return logMax(f.cdf[15]) }

// Blend records an occurrence of sym.
func (f *FrequentistCDF16) Blend(sym uint8, s Speed) {
	for i := int(sym); i < 16; i++ {
		f.cdf[i] += s.Inc
	}
	if f.cdf[15] < s.Lim {
		return
	}
	// The per-bucket bias keeps every symbol reachable.
	for i := range f.cdf {
		t := f.cdf[i] + Prob(i+1)
		f.cdf[i] = t - t>>2
	}
}
