// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package prob

import (
	"math/rand"
	"testing"
)

var (
	_ Model = (*FrequentistCDF16)(nil)
	_ Model = (*BlendCDF16)(nil)
)

func checkCDF(t *testing.T, name string, c CDF) {
	t.Helper()
	if !Valid(c) {
		t.Fatalf("%s: invalid cdf", name)
	}
	for i := 0; i < 16; i++ {
		if Pdf(c, uint8(i)) == 0 {
			t.Fatalf("%s: pdf(%d) is zero", name, i)
		}
		_, freq := SymToStartAndFreq(c, uint8(i))
		if freq == 0 {
			t.Fatalf("%s: symbol %d has zero frequency", name, i)
		}
	}
}

func TestFrequentistStart(t *testing.T) {
	f := NewFrequentistCDF16()
	for i := 0; i < 16; i++ {
		if g := f.Cdf(uint8(i)); g != Prob(4*(i+1)) {
			t.Fatalf("Cdf(%d) = %d; want %d", i, g, 4*(i+1))
		}
	}
	if m := f.Max(); m != 64 {
		t.Fatalf("Max() = %d; want 64", m)
	}
	if lm, ok := f.LogMax(); !ok || lm != 6 {
		t.Fatalf("LogMax() = %d, %t; want 6, true", lm, ok)
	}
}

func TestModelsStayValid(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for si := 0; si < NumSpeeds; si++ {
		s, _ := SpeedFromIndex(uint8(si))
		f := NewFrequentistCDF16()
		b := NewBlendCDF16()
		for n := 0; n < 20000; n++ {
			// skewed symbols push buckets toward the extremes
			sym := uint8(r.Intn(16))
			if r.Intn(4) > 0 {
				sym = 15
			}
			f.Blend(sym, s)
			b.Blend(sym, s)
			if n%97 == 0 {
				checkCDF(t, "frequentist "+s.String(), &f)
				checkCDF(t, "blend "+s.String(), &b)
			}
			if f.Max() >= 1<<14 {
				t.Fatalf("frequentist max %d exceeds 1<<14", f.Max())
			}
		}
		checkCDF(t, "frequentist "+s.String(), &f)
		checkCDF(t, "blend "+s.String(), &b)
	}
}

func TestBlendRateDecays(t *testing.T) {
	b := NewBlendCDF16()
	if b.Rate() != 1<<14 {
		t.Fatalf("initial rate %d; want %d", b.Rate(), 1<<14)
	}
	prev := b.Rate()
	for i := 0; i < 50; i++ {
		b.Blend(3, Slow)
		if b.Rate() > prev {
			t.Fatalf("rate increased from %d to %d", prev, b.Rate())
		}
		prev = b.Rate()
	}
	if prev >= 1<<14 {
		t.Fatalf("rate %d didn't decay", prev)
	}
	if Pdf(&b, 3) < Scale/2 {
		t.Fatalf("pdf(3) = %d; expected most of the mass", Pdf(&b, 3))
	}
}

func TestStartAndFreqInverse(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	f := NewFrequentistCDF16()
	b := NewBlendCDF16()
	models := []Model{&f, &b}
	for n := 0; n < 300; n++ {
		for _, m := range models {
			m.Blend(uint8(r.Intn(16)), Fast)
			for sym := 0; sym < 16; sym++ {
				start, freq := SymToStartAndFreq(m, uint8(sym))
				for _, off := range []uint32{start, start + freq/2,
					start + freq - 1} {
					s, st, fr := CdfOffsetToSymStartAndFreq(m, off)
					if int(s) != sym || st != start || fr != freq {
						t.Fatalf("offset %d maps to (%d,%d,%d); "+
							"want (%d,%d,%d)",
							off, s, st, fr, sym, start, freq)
					}
				}
			}
		}
	}
}

func TestAverage(t *testing.T) {
	a := NewFrequentistCDF16()
	b := NewBlendCDF16()
	for i := 0; i < 100; i++ {
		a.Blend(2, Rocket)
		b.Blend(9, Rocket)
	}
	for _, mix := range []int32{0, 1, 1 << 14, 1<<15 - 1, 1 << 15} {
		c := Average(&a, &b, mix)
		checkCDF(t, "average", &c)
		if c.Max() != a.Max() {
			t.Fatalf("Average max %d; want %d", c.Max(), a.Max())
		}
	}
	onlyA := Average(&a, &b, 1<<15)
	onlyB := Average(&a, &b, 0)
	if Pdf(&onlyA, 2) <= Pdf(&onlyB, 2) {
		t.Fatalf("mix toward a must favor symbol 2")
	}
	if Pdf(&onlyB, 9) <= Pdf(&onlyA, 9) {
		t.Fatalf("mix toward b must favor symbol 9")
	}
}

func TestWeightsFavorBetterModel(t *testing.T) {
	w := NewWeights()
	if m := w.Mix(); m != 1<<14 {
		t.Fatalf("initial mix %d; want %d", m, 1<<14)
	}
	good := NewFrequentistCDF16()
	bad := NewFrequentistCDF16()
	for i := 0; i < 200; i++ {
		good.Blend(5, Fast)
		bad.Blend(11, Fast)
	}
	for i := 0; i < 100; i++ {
		mixed := Average(&good, &bad, w.Mix())
		w.Update(NormalizedPdf(&good, 5), NormalizedPdf(&bad, 5),
			NormalizedPdf(&mixed, 5))
	}
	if m := w.Mix(); m <= 1<<14 {
		t.Fatalf("mix %d; want weight shifted toward the first model", m)
	}
}

func TestCDF2(t *testing.T) {
	c := NewCDF2()
	if c.ProbOfFalse() != 128 {
		t.Fatalf("ProbOfFalse() = %d; want 128", c.ProbOfFalse())
	}
	for i := 0; i < 20000; i++ {
		c.Blend(true)
	}
	if p := c.ProbOfFalse(); p != 1 {
		t.Fatalf("ProbOfFalse() = %d after only true bits; want 1", p)
	}
	for i := 0; i < 20000; i++ {
		c.Blend(false)
	}
	if p := c.ProbOfFalse(); p != 255 {
		t.Fatalf("ProbOfFalse() = %d after only false bits; want 255", p)
	}
	for _, off := range []uint32{0, 100, 255 << 7, Scale - 1} {
		bit, start, freq := c.OffsetToBit(off)
		s, f := BitStartAndFreq(bit, c.ProbOfFalse())
		if s != start || f != freq || off < start || off >= start+freq {
			t.Fatalf("offset %d: got (%t,%d,%d)", off, bit, start, freq)
		}
	}
}

func TestEntropy(t *testing.T) {
	b := NewBlendCDF16()
	if h := Entropy(&b); h < 3.999 || h > 4.001 {
		t.Fatalf("entropy of uniform cdf %f; want 4", h)
	}
}
