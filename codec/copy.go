// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"math/bits"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// Mnemonics of the distance code. Values below mnemonicLRU1 that are at
// least numDistanceSlots adjust the most recent distance, values from
// mnemonicLRU1 adjust the second most recent one.
const (
	numDistanceSlots  = 4
	mnemonicLRU1      = 10
	mnemonicExplicit  = 15
	distanceBitLenEsc = 16
)

var (
	lru0Deltas = [...]int64{-1, 1, -2, 2, -3, 3}
	lru1Deltas = [...]int64{-1, 1, -2, 2, -3}
)

// defaultDistanceLRU is the initial content of the distance cache.
var defaultDistanceLRU = [numDistanceSlots]uint32{4, 11, 15, 16}

// distanceMnemonic selects the cheapest mnemonic for the distance d.
func distanceMnemonic(lru *[numDistanceSlots]uint32, d uint32) uint8 {
	for i, v := range lru {
		if v == d {
			return uint8(i)
		}
	}
	for i, delta := range lru0Deltas {
		if int64(lru[0])+delta == int64(d) {
			return uint8(numDistanceSlots + i)
		}
	}
	for i, delta := range lru1Deltas {
		if int64(lru[1])+delta == int64(d) {
			return uint8(mnemonicLRU1 + i)
		}
	}
	return mnemonicExplicit
}

// mnemonicDistance resolves a mnemonic below mnemonicExplicit. The result
// may be non-positive.
func mnemonicDistance(lru *[numDistanceSlots]uint32, m uint8) int64 {
	switch {
	case m < numDistanceSlots:
		return int64(lru[m])
	case m < mnemonicLRU1:
		return int64(lru[0]) + lru0Deltas[m-numDistanceSlots]
	}
	return int64(lru[1]) + lru1Deltas[m-mnemonicLRU1]
}

// pushDistance moves d to the front of the cache.
func pushDistance(lru *[numDistanceSlots]uint32, d uint32) {
	i := 0
	for i < numDistanceSlots-1 && lru[i] != d {
		i++
	}
	copy(lru[1:i+1], lru[:i])
	lru[0] = d
}

type copySub uint8

const (
	copyLength copySub = iota
	copyMnemonic
	copyBitLen
	copyBitLenHigh
	copyMantissa
	copyCheck
	copyWrite
)

// copyState codes a copy command: the length first, then the distance.
type copyState struct {
	sub       copySub
	cmd       CopyCommand
	count     countState
	mnemonic  uint8
	bitLen    int
	remaining int
	soFar     uint32
	left      uint32
}

func (c *copyState) reset(cmd CopyCommand) {
	*c = copyState{cmd: cmd}
	c.count.reset(cmd.NumBytes)
}

// verifyCopy checks a copy command before it is encoded.
func (s *session) verifyCopy(cmd CopyCommand) error {
	if cmd.NumBytes == 0 {
		return errors.Wrap(ErrInvalidCommand, "copy of zero bytes")
	}
	if cmd.Distance == 0 || int64(cmd.Distance) > s.win.history() {
		return errors.Wrapf(ErrDistance, "copy distance %d, history %d",
			cmd.Distance, s.win.history())
	}
	return nil
}

// distancePrior returns the row of the distance mnemonic prior. It is
// selected through the distance context map.
func (s *session) distancePrior(numBytes uint32) (int, error) {
	bucket := numBytes - 1
	if bucket > 3 {
		bucket = 3
	}
	i := int(s.blocks[BlockSwitchDistance].last)*4 + int(bucket)
	if i >= len(s.mode.DistanceContextMap) {
		return 0, errors.Wrapf(ErrContextMapSize,
			"distance context %d", i)
	}
	return int(s.mode.DistanceContextMap[i]), nil
}

func (c *copyState) code(s *session) Result {
	for {
		switch c.sub {
		case copyLength:
			ctx := int(s.blocks[BlockSwitchCommandType].last & 0xf)
			if r := c.count.code(s, copyTiers, &copyCountBillings,
				ctx); r != Success {
				return r
			}
			c.cmd.NumBytes = c.count.value
			c.sub = copyMnemonic
		case copyMnemonic:
			row, err := s.distancePrior(c.cmd.NumBytes)
			if err != nil {
				return s.fail(err)
			}
			if s.encoding {
				c.mnemonic = distanceMnemonic(&s.distanceLRU,
					c.cmd.Distance)
			}
			if r := s.codeNibble(&c.mnemonic, BillDistanceMnemonic, row, 0,
				prob.Fast); r != Success {
				return r
			}
			if c.mnemonic == mnemonicExplicit {
				c.sub = copyBitLen
				continue
			}
			d := mnemonicDistance(&s.distanceLRU, c.mnemonic)
			if d <= 0 || d > 1<<32-1 {
				return s.fail(errors.Wrapf(ErrDistance,
					"mnemonic %d yields distance %d", c.mnemonic, d))
			}
			c.cmd.Distance = uint32(d)
			c.sub = copyCheck
		case copyBitLen:
			var nib uint8
			if s.encoding {
				c.bitLen = bits.Len32(c.cmd.Distance)
				if c.bitLen < distanceBitLenEsc {
					nib = uint8(c.bitLen)
				}
			}
			if r := s.codeNibble(&nib, BillDistanceBitLen, 0, 0,
				prob.Med); r != Success {
				return r
			}
			if nib == 0 {
				c.sub = copyBitLenHigh
				continue
			}
			c.startMantissa(int(nib))
		case copyBitLenHigh:
			var nib uint8
			if s.encoding {
				nib = uint8(c.bitLen - distanceBitLenEsc)
			}
			if r := s.codeNibble(&nib, BillDistanceBitLen, 1, 0,
				prob.Med); r != Success {
				return r
			}
			c.startMantissa(distanceBitLenEsc + int(nib))
		case copyMantissa:
			if c.remaining == 0 {
				if bits.Len32(c.soFar) != c.bitLen {
					return s.fail(errors.Wrapf(ErrDistance,
						"mantissa exceeds %d bits", c.bitLen))
				}
				c.cmd.Distance = c.soFar
				c.sub = copyCheck
				continue
			}
			shift := uint(4 * (c.remaining - 1))
			var nib uint8
			if s.encoding {
				nib = uint8((c.cmd.Distance ^ c.soFar) >> shift)
			}
			if r := s.codeNibble(&nib, BillDistanceMantissa, c.bitLen,
				c.remaining-1, prob.Slow); r != Success {
				return r
			}
			c.soFar |= uint32(nib) << shift
			c.remaining--
		case copyCheck:
			if int64(c.cmd.Distance) > s.win.history() {
				return s.fail(errors.Wrapf(ErrDistance,
					"copy distance %d, history %d",
					c.cmd.Distance, s.win.history()))
			}
			pushDistance(&s.distanceLRU, c.cmd.Distance)
			c.left = c.cmd.NumBytes
			c.sub = copyWrite
		case copyWrite:
			for c.left > 0 {
				if s.win.room() == 0 {
					return NeedsMoreOutput
				}
				s.win.writeByte(s.win.byteAt(int64(c.cmd.Distance)))
				c.left--
			}
			return Success
		}
	}
}

// startMantissa prepares the explicit distance bits below the implicit
// top bit.
func (c *copyState) startMantissa(bitLen int) {
	c.bitLen = bitLen
	c.remaining = (bitLen - 1 + 3) / 4
	c.soFar = 1 << uint(bitLen-1)
	c.sub = copyMantissa
}
