// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// countMantissaBase is the smallest count coded with mantissa nibbles.
const countMantissaBase = 25

// maxMantissaNibbles limits the mantissa to 32 bits.
const maxMantissaNibbles = 8

// countTiers describes a three-tier count code. The first nibble codes
// 1..small directly; 0 escapes to the second nibble. Values of the second
// nibble below firstDirect code small+1 onward, firstDirect selects the
// middle tier up to 24 and higher values give the number of mantissa
// nibbles, offset by firstDirect, holding count-25.
type countTiers struct {
	small       int
	firstDirect int
}

var (
	// literal lengths: 1..13, 14, 15..24, mantissa
	literalTiers = countTiers{small: 13, firstDirect: 1}
	// copy lengths and dictionary ids: 1..15, 16..17, 18..24, mantissa
	copyTiers = countTiers{small: 15, firstDirect: 2}
)

func (t countTiers) midLo() uint32 { return uint32(t.small + 1 + t.firstDirect) }

// mantissaNibbles returns the number of nibbles required for m.
func mantissaNibbles(m uint32) int {
	n := (bits.Len32(m) + 3) / 4
	if n == 0 {
		n = 1
	}
	return n
}

// firstNibble computes the second-tier nibble for an escaped count.
func (t countTiers) firstNibble(v uint32) uint8 {
	switch {
	case v < t.midLo():
		return uint8(v - uint32(t.small) - 1)
	case v < countMantissaBase:
		return uint8(t.firstDirect)
	}
	return uint8(t.firstDirect + mantissaNibbles(v-countMantissaBase))
}

// countBillings lists the priors and speeds of a count field.
type countBillings struct {
	small, first, mid, mantissa Billing
	header, body                prob.Speed
}

var (
	literalCountBillings = countBillings{BillLiteralCountSmall,
		BillLiteralCountFirst, BillLiteralCountMid, BillLiteralMantissa,
		prob.Rocket, prob.Med}
	copyCountBillings = countBillings{BillCopyCountSmall,
		BillCopyCountFirst, BillCopyCountMid, BillCopyMantissa,
		prob.Rocket, prob.Med}
	dictCountBillings = countBillings{BillDictCountSmall,
		BillDictCountFirst, BillDictCountMid, BillDictMantissa,
		prob.Fast, prob.Slow}
	contextMapCountBillings = countBillings{BillContextMapCountSmall,
		BillContextMapCountFirst, BillContextMapCountMid,
		BillContextMapMantissa, prob.Fast, prob.Slow}
)

type countSub uint8

const (
	countSmall countSub = iota
	countFirst
	countMid
	countMantissa
	countDone
)

// countState codes a positive count. When encoding value holds the count
// from the start; when decoding it holds the result once the state is
// countDone.
type countState struct {
	sub       countSub
	value     uint32
	n         int
	remaining int
	soFar     uint32
	// nibbles counts the coded nibbles
	nibbles int
}

func (cs *countState) reset(v uint32) { *cs = countState{value: v} }

func (cs *countState) code(s *session, t countTiers, b *countBillings,
	ctx int) Result {
	for {
		var nib uint8
		switch cs.sub {
		case countSmall:
			if s.encoding && cs.value <= uint32(t.small) {
				nib = uint8(cs.value)
			}
			if r := s.codeNibble(&nib, b.small, ctx, 0, b.header); r != Success {
				return r
			}
			cs.nibbles++
			switch {
			case nib == 0:
				cs.sub = countFirst
			case int(nib) > t.small:
				return s.fail(errors.Wrapf(ErrReserved,
					"count nibble %d", nib))
			default:
				cs.value = uint32(nib)
				cs.sub = countDone
			}
		case countFirst:
			if s.encoding {
				nib = t.firstNibble(cs.value)
			}
			if r := s.codeNibble(&nib, b.first, ctx, 0, b.header); r != Success {
				return r
			}
			cs.nibbles++
			switch {
			case int(nib) < t.firstDirect:
				cs.value = uint32(t.small+1) + uint32(nib)
				cs.sub = countDone
			case int(nib) == t.firstDirect:
				cs.sub = countMid
			default:
				n := int(nib) - t.firstDirect
				if n > maxMantissaNibbles {
					return s.fail(errors.Wrapf(ErrReserved,
						"%d mantissa nibbles", n))
				}
				cs.n, cs.remaining, cs.soFar = n, n, 0
				cs.sub = countMantissa
			}
		case countMid:
			if s.encoding {
				nib = uint8(cs.value - t.midLo())
			}
			if r := s.codeNibble(&nib, b.mid, ctx, 0, b.header); r != Success {
				return r
			}
			cs.nibbles++
			if uint32(nib) >= countMantissaBase-t.midLo() {
				return s.fail(errors.Wrapf(ErrReserved,
					"middle tier nibble %d", nib))
			}
			cs.value = t.midLo() + uint32(nib)
			cs.sub = countDone
		case countMantissa:
			shift := uint(4 * (cs.remaining - 1))
			if s.encoding {
				nib = uint8(((cs.value - countMantissaBase) ^ cs.soFar) >>
					shift)
			}
			if r := s.codeNibble(&nib, b.mantissa, cs.n, cs.remaining,
				b.body); r != Success {
				return r
			}
			cs.nibbles++
			cs.soFar |= uint32(nib) << shift
			cs.remaining--
			if cs.remaining > 0 {
				continue
			}
			v := uint64(cs.soFar) + countMantissaBase
			if v > 1<<32-1 {
				return s.fail(errors.Wrap(ErrReserved,
					"count overflow"))
			}
			cs.value = uint32(v)
			cs.sub = countDone
		case countDone:
			return Success
		}
	}
}
