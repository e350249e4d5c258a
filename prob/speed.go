// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import "fmt"

// Speed controls how fast a model adapts. Inc is the mass added to the
// coded symbol; a frequentist model rescales once its maximum reaches Lim.
type Speed struct {
	Inc Prob
	Lim Prob
}

// The standard speeds ordered from slowest to fastest. All limits are
// chosen such that a frequentist model never exceeds 1<<14.
var (
	Geologic = Speed{Inc: 2, Lim: 0x4000}
	Glacial  = Speed{Inc: 4, Lim: 0x4000}
	Mud      = Speed{Inc: 16, Lim: 0x4000}
	Slow     = Speed{Inc: 32, Lim: 0x4000}
	Med      = Speed{Inc: 48, Lim: 0x4000}
	Fast     = Speed{Inc: 96, Lim: 0x4000}
	Plane    = Speed{Inc: 128, Lim: 0x4000}
	Rocket   = Speed{Inc: 384, Lim: 0x4000}
)

var speeds = [...]Speed{Geologic, Glacial, Mud, Slow, Med, Fast, Plane,
	Rocket}

// NumSpeeds is the number of speeds selectable by index.
const NumSpeeds = len(speeds)

// SpeedFromIndex returns the speed with the given index. The index must
// be less than NumSpeeds.
func SpeedFromIndex(i uint8) (s Speed, ok bool) {
	if int(i) >= len(speeds) {
		return Speed{}, false
	}
	return speeds[i], true
}

// Index returns the index of a standard speed or -1.
func (s Speed) Index() int {
	for i, t := range speeds {
		if t == s {
			return i
		}
	}
	return -1
}

// String returns a short description of the speed.
func (s Speed) String() string {
	return fmt.Sprintf("speed(%d,%#x)", s.Inc, s.Lim)
}
