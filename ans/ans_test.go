// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ans

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/dropbox/divans-sub000/prob"
)

var (
	_ EntropyEncoder = (*Encoder)(nil)
	_ EntropyEncoder = (*BitEncoder)(nil)
	_ EntropyDecoder = (*Decoder)(nil)
	_ EntropyDecoder = (*BitDecoder)(nil)
)

// op is a single bit or nibble to code.
type op struct {
	isBit  bool
	bit    bool
	pof    uint8
	nibble uint8
}

type coderPair struct {
	name string
	enc  func() EntropyEncoder
	dec  func() EntropyDecoder
}

var coders = []coderPair{
	{"nibble", func() EntropyEncoder { return NewEncoder() },
		func() EntropyDecoder { return NewDecoder() }},
	{"bit", func() EntropyEncoder { return NewBitEncoder() },
		func() EntropyDecoder { return NewBitDecoder() }},
}

func encodeOps(enc EntropyEncoder, ops []op) []byte {
	var buf bytes.Buffer
	p := make([]byte, 777)
	drain := func() {
		for enc.NumPopBytesAvail() > 0 {
			n := enc.PopData(p)
			buf.Write(p[:n])
		}
	}
	cdf := prob.NewFrequentistCDF16()
	for _, o := range ops {
		for enc.Blocked() {
			drain()
		}
		if o.isBit {
			enc.PutBit(o.bit, o.pof)
			continue
		}
		enc.PutNibble(o.nibble, &cdf)
		cdf.Blend(o.nibble, prob.Med)
	}
	for !enc.Close() {
		drain()
	}
	drain()
	return buf.Bytes()
}

// decodeOps decodes len(ops) symbols from data, pushing at most feed
// bytes at a time. It returns the decoded symbols and the bytes following
// the coded stream.
func decodeOps(dec EntropyDecoder, data []byte, feed int,
	ops []op) (got []op, rest []byte, err error) {
	push := func() bool {
		if len(data) == 0 {
			return false
		}
		k := feed
		if k > len(data) {
			k = len(data)
		}
		n := dec.PushData(data[:k])
		data = data[n:]
		return n > 0
	}
	cdf := prob.NewFrequentistCDF16()
	got = make([]op, 0, len(ops))
	for i, o := range ops {
		for {
			ok, err := dec.Ready()
			if err != nil {
				return got, nil, err
			}
			if ok {
				break
			}
			if !push() {
				return got, nil, fmt.Errorf("out of input at op %d", i)
			}
		}
		g := o
		if o.isBit {
			g.bit = dec.GetBit(o.pof)
		} else {
			g.nibble = dec.GetNibble(&cdf)
			cdf.Blend(g.nibble, prob.Med)
		}
		got = append(got, g)
	}
	for {
		ok, err := dec.Finish()
		if err != nil {
			return got, nil, err
		}
		if ok {
			break
		}
		if !push() {
			return got, nil, errors.New("out of input in Finish")
		}
	}
	for push() {
	}
	p := make([]byte, 64)
	for {
		n := dec.PopData(p)
		if n == 0 {
			break
		}
		rest = append(rest, p[:n]...)
	}
	return got, rest, nil
}

func randomOps(r *rand.Rand, n int) []op {
	ops := make([]op, n)
	for i := range ops {
		if r.Intn(3) == 0 {
			pof := uint8(1 + r.Intn(255))
			ops[i] = op{isBit: true, pof: pof,
				bit: r.Intn(256) >= int(pof)}
			continue
		}
		// skewed nibbles
		nib := uint8(r.Intn(16))
		if r.Intn(2) == 0 {
			nib &= 3
		}
		ops[i] = op{nibble: nib}
	}
	return ops
}

func roundTrip(t *testing.T, c coderPair, ops []op, feed int) {
	t.Helper()
	data := encodeOps(c.enc(), ops)
	tail := []byte("tail")
	stream := append(append([]byte{}, data...), tail...)
	got, rest, err := decodeOps(c.dec(), stream, feed, ops)
	require.NoError(t, err, "%s coder, %d ops", c.name, len(ops))
	require.Equal(t, ops, got, "%s coder, %d ops", c.name, len(ops))
	require.Equal(t, tail, rest, "%s coder trailing bytes", c.name)
}

func TestRoundTripLengths(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	lengths := []int{0, 1, 2, 3, 100,
		SymbolsBeforeFlush - 1, SymbolsBeforeFlush,
		SymbolsBeforeFlush + 1, 3*SymbolsBeforeFlush + 7}
	for _, c := range coders {
		for _, n := range lengths {
			roundTrip(t, c, randomOps(r, n), 1<<16)
		}
	}
}

func TestRoundTripSingleBytes(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	ops := randomOps(r, 2*SymbolsBeforeFlush+11)
	for _, c := range coders {
		roundTrip(t, c, ops, 1)
		roundTrip(t, c, ops, 3)
	}
}

// TestRenormalizationBoundary codes a growing run of improbable bits and
// checks the lengths around the first emitted word.
func TestRenormalizationBoundary(t *testing.T) {
	for _, c := range coders {
		run := func(n int) []op {
			ops := make([]op, n)
			for i := range ops {
				ops[i] = op{isBit: true, bit: false, pof: 1}
			}
			return ops
		}
		base := len(encodeOps(c.enc(), run(1)))
		first := 0
		for n := 2; n < 64; n++ {
			if len(encodeOps(c.enc(), run(n))) > base {
				first = n
				break
			}
		}
		require.NotZero(t, first, "%s coder never renormalized", c.name)
		require.Equal(t, base+4, len(encodeOps(c.enc(), run(first))),
			"%s coder: one word expected", c.name)
		for n := first - 1; n <= first+1; n++ {
			roundTrip(t, c, run(n), 1)
		}
	}
}

func TestRoundTripLarge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping in short mode")
	}
	r := rand.New(rand.NewSource(3))
	ops := randomOps(r, 4<<20)
	for _, c := range coders {
		roundTrip(t, c, ops, 1<<15+3)
	}
}

func TestEfficiency(t *testing.T) {
	const n = 1 << 20
	for _, p := range []float64{0.5, 0.2, 0.03} {
		r := rand.New(rand.NewSource(4))
		pof := prob.ClampProbOfFalse(uint32(math.Round(p * 256)))
		ops := make([]op, n)
		for i := range ops {
			ops[i] = op{isBit: true, pof: pof, bit: r.Float64() >= p}
		}
		optimal := -float64(n) * (p*math.Log2(p) + (1-p)*math.Log2(1-p))
		// ideal is the information content under the coded probability
		var ideal float64
		q := float64(pof) / 256
		for _, o := range ops {
			if o.bit {
				ideal -= math.Log2(1 - q)
			} else {
				ideal -= math.Log2(q)
			}
		}
		for _, c := range coders {
			bits := float64(8 * len(encodeOps(c.enc(), ops)))
			if bits < 0.999*ideal {
				t.Fatalf("%s coder p=%g: %.0f bits below ideal %.0f",
					c.name, p, bits, ideal)
			}
			if ratio := bits / optimal; ratio >= 1.1 {
				t.Fatalf("%s coder p=%g: %.0f bits, optimal %.0f, "+
					"ratio %.4f", c.name, p, bits, optimal, ratio)
			}
		}
	}
}

func TestCorruption(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	ops := randomOps(r, 5000)
	for _, c := range coders {
		data := encodeOps(c.enc(), ops)
		for _, i := range []int{0, 5, len(data) / 2, len(data) - 1} {
			bad := append([]byte{}, data...)
			bad[i] ^= 0x10
			got, _, err := decodeOps(c.dec(), bad, 1<<16, ops)
			if err == nil {
				require.NotEqual(t, ops, got,
					"%s coder: corruption at %d not noticed", c.name, i)
			}
		}
	}
}

// mixer codes nibbles with the average of two models and adapts the
// mixing weights after every nibble.
type mixer struct {
	stride [16]prob.FrequentistCDF16
	cmap   [16]prob.BlendCDF16
	w      prob.Weights
}

func newMixer() *mixer {
	m := &mixer{w: prob.NewWeights()}
	for i := range m.stride {
		m.stride[i] = prob.NewFrequentistCDF16()
		m.cmap[i] = prob.NewBlendCDF16()
	}
	return m
}

func (m *mixer) cdf(ctx uint8) prob.FrequentistCDF16 {
	return prob.Average(&m.stride[ctx], &m.cmap[ctx>>2], m.w.Mix())
}

func (m *mixer) update(ctx, sym uint8, mixed *prob.FrequentistCDF16) {
	s, c := &m.stride[ctx], &m.cmap[ctx>>2]
	m.w.Update(prob.NormalizedPdf(s, sym), prob.NormalizedPdf(c, sym),
		prob.NormalizedPdf(mixed, sym))
	s.Blend(sym, prob.Fast)
	c.Blend(sym, prob.Med)
}

func TestMixingLockstep(t *testing.T) {
	r := rand.New(rand.NewSource(6))
	syms := make([]uint8, 3*SymbolsBeforeFlush)
	for i := range syms {
		if i > 0 && r.Intn(3) > 0 {
			syms[i] = (syms[i-1] + 1) & 0xf
		} else {
			syms[i] = uint8(r.Intn(16))
		}
	}
	for _, c := range coders {
		enc := c.enc()
		em := newMixer()
		var buf bytes.Buffer
		p := make([]byte, 4096)
		var ctx uint8
		for _, s := range syms {
			for enc.Blocked() {
				n := enc.PopData(p)
				buf.Write(p[:n])
			}
			mixed := em.cdf(ctx)
			enc.PutNibble(s, &mixed)
			em.update(ctx, s, &mixed)
			ctx = s
		}
		for !enc.Close() {
			n := enc.PopData(p)
			buf.Write(p[:n])
		}
		for enc.NumPopBytesAvail() > 0 {
			n := enc.PopData(p)
			buf.Write(p[:n])
		}

		dec := c.dec()
		dm := newMixer()
		data := buf.Bytes()
		ctx = 0
		for i, want := range syms {
			for {
				ok, err := dec.Ready()
				require.NoError(t, err)
				if ok {
					break
				}
				require.NotEmpty(t, data, "out of input at %d", i)
				n := dec.PushData(data[:min(len(data), 1000)])
				data = data[n:]
			}
			mixed := dm.cdf(ctx)
			s := dec.GetNibble(&mixed)
			require.Equal(t, want, s, "%s coder symbol %d", c.name, i)
			dm.update(ctx, s, &mixed)
			ctx = s
		}
		for len(data) > 0 {
			n := dec.PushData(data)
			data = data[n:]
		}
		ok, err := dec.Finish()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, em.w, dm.w, "%s coder weights", c.name)
	}
}

func TestSplitProbOfFalse(t *testing.T) {
	f := prob.NewFrequentistCDF16()
	// uniform distribution: every split is one half
	for _, tc := range []struct{ lo, half uint8 }{
		{0, 8}, {8, 4}, {4, 2}, {14, 1}} {
		if p := splitProbOfFalse(&f, tc.lo, tc.half); p != 128 {
			t.Fatalf("splitProbOfFalse(%d, %d) = %d; want 128",
				tc.lo, tc.half, p)
		}
	}
	for i := 0; i < 1000; i++ {
		f.Blend(0, prob.Rocket)
	}
	if p := splitProbOfFalse(&f, 0, 1); p != 255 {
		t.Fatalf("splitProbOfFalse for dominant symbol %d; want 255", p)
	}

	// A rare symbol in the lower half rounds to zero without the clamp.
	g := prob.NewFrequentistCDF16()
	for i := 0; i < 1000; i++ {
		g.Blend(1, prob.Rocket)
	}
	lower := uint32(prob.Pdf(&g, 0))
	if lower<<8/(lower+uint32(prob.Pdf(&g, 1))) != 0 {
		t.Fatalf("pdf(0)=%d isn't small enough", lower)
	}
	pof := splitProbOfFalse(&g, 0, 1)
	if pof != 1 {
		t.Fatalf("splitProbOfFalse for rare symbol %d; want 1", pof)
	}
	ops := make([]op, 64)
	for i := range ops {
		ops[i] = op{isBit: true, bit: i%7 != 0, pof: pof}
	}
	for _, c := range coders {
		roundTrip(t, c, ops, 5)
	}
}
