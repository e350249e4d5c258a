// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// Context map limits.
const (
	maxBlockTypes        = 256
	distanceContexts     = 4
	cmapLRUSize          = 13
	cmapMnemonicNext     = 13
	cmapMnemonicExplicit = 14
)

// Context maps coded by a prediction mode command.
const (
	literalContextMapKind = iota
	distanceContextMapKind
)

// cmapLRU predicts context map entries. Entries are either one of the
// recently used values or the successor of the largest value so far.
type cmapLRU struct {
	lru [cmapLRUSize]uint8
	max int
}

func newCMapLRU() cmapLRU {
	var c cmapLRU
	for i := range c.lru {
		c.lru[i] = uint8(i)
	}
	c.max = -1
	return c
}

func (c *cmapLRU) mnemonic(v uint8) uint8 {
	for i, e := range c.lru {
		if e == v {
			return uint8(i)
		}
	}
	if int(v) == c.max+1 {
		return cmapMnemonicNext
	}
	return cmapMnemonicExplicit
}

func (c *cmapLRU) push(v uint8) {
	i := 0
	for i < cmapLRUSize-1 && c.lru[i] != v {
		i++
	}
	copy(c.lru[1:i+1], c.lru[:i])
	c.lru[0] = v
	if int(v) > c.max {
		c.max = int(v)
	}
}

type predModeSub uint8

const (
	pmMode predModeSub = iota
	pmStrideSpeed
	pmCMapSpeed
	pmMapSize
	pmEntry
	pmExplicit
	pmDone
)

// predModeState codes a prediction mode command. The literal context map
// is coded first, then the distance context map.
type predModeState struct {
	sub   predModeSub
	cmd   PredictionModeCommand
	count countState
	// which selects the context map being coded
	which    int
	i        int
	mnemonic uint8
	lru      cmapLRU
	explicit byteState
	entry    uint8
}

func (p *predModeState) reset(cmd PredictionModeCommand) {
	*p = predModeState{cmd: cmd}
}

func verifyPredictionMode(cmd PredictionModeCommand) error {
	if cmd.LiteralMode >= numLiteralModes {
		return errors.Wrapf(ErrPredictionMode, "literal mode %d",
			cmd.LiteralMode)
	}
	if int(cmd.StrideSpeed) >= prob.NumSpeeds ||
		int(cmd.CMapSpeed) >= prob.NumSpeeds {
		return errors.Wrapf(ErrPredictionMode, "speeds %d,%d",
			cmd.StrideSpeed, cmd.CMapSpeed)
	}
	n := len(cmd.LiteralContextMap)
	if n == 0 || n%contextsPerBlockType != 0 ||
		n > maxBlockTypes*contextsPerBlockType {
		return errors.Wrapf(ErrContextMapSize,
			"literal context map has %d entries", n)
	}
	n = len(cmd.DistanceContextMap)
	if n == 0 || n%distanceContexts != 0 ||
		n > maxBlockTypes*distanceContexts {
		return errors.Wrapf(ErrContextMapSize,
			"distance context map has %d entries", n)
	}
	return nil
}

// contextMap returns the map currently coded.
func (p *predModeState) contextMap() *[]byte {
	if p.which == literalContextMapKind {
		return &p.cmd.LiteralContextMap
	}
	return &p.cmd.DistanceContextMap
}

func (p *predModeState) speed(v uint8) (prob.Speed, error) {
	sp, ok := prob.SpeedFromIndex(v)
	if !ok {
		return sp, errors.Wrapf(ErrPredictionMode, "speed index %d", v)
	}
	return sp, nil
}

func (p *predModeState) code(s *session) Result {
	for {
		switch p.sub {
		case pmMode:
			m := uint8(p.cmd.LiteralMode)
			if r := s.codeNibble(&m, BillPredictionMode, 0, 0,
				prob.Med); r != Success {
				return r
			}
			if LiteralMode(m) >= numLiteralModes {
				return s.fail(errors.Wrapf(ErrPredictionMode,
					"literal mode %d", m))
			}
			p.cmd.LiteralMode = LiteralMode(m)
			p.sub = pmStrideSpeed
		case pmStrideSpeed:
			if r := s.codeNibble(&p.cmd.StrideSpeed, BillSpeed, 0, 0,
				prob.Med); r != Success {
				return r
			}
			if _, err := p.speed(p.cmd.StrideSpeed); err != nil {
				return s.fail(err)
			}
			p.sub = pmCMapSpeed
		case pmCMapSpeed:
			if r := s.codeNibble(&p.cmd.CMapSpeed, BillSpeed, 1, 0,
				prob.Med); r != Success {
				return r
			}
			if _, err := p.speed(p.cmd.CMapSpeed); err != nil {
				return s.fail(err)
			}
			p.startMap()
		case pmMapSize:
			if r := p.count.code(s, literalTiers, &contextMapCountBillings,
				p.which); r != Success {
				return r
			}
			n := p.count.value
			if n > maxBlockTypes {
				return s.fail(errors.Wrapf(ErrContextMapSize,
					"%d block types", n))
			}
			per := contextsPerBlockType
			if p.which == distanceContextMapKind {
				per = distanceContexts
			}
			if !s.encoding {
				*p.contextMap() = make([]byte, int(n)*per)
			}
			p.i = 0
			p.lru = newCMapLRU()
			p.sub = pmEntry
		case pmEntry:
			m := *p.contextMap()
			if p.i == len(m) {
				if p.which == literalContextMapKind {
					p.which = distanceContextMapKind
					p.startMap()
					continue
				}
				p.sub = pmDone
				continue
			}
			if s.encoding {
				p.entry = m[p.i]
				p.mnemonic = p.lru.mnemonic(p.entry)
			}
			if r := s.codeNibble(&p.mnemonic, BillContextMapEntry, p.which,
				0, prob.Fast); r != Success {
				return r
			}
			switch {
			case p.mnemonic < cmapLRUSize:
				p.entry = p.lru.lru[p.mnemonic]
			case p.mnemonic == cmapMnemonicNext:
				if p.lru.max+1 > 255 {
					return s.fail(errors.Wrap(ErrContextMapSize,
						"context map entry exceeds 255"))
				}
				p.entry = uint8(p.lru.max + 1)
			case p.mnemonic == cmapMnemonicExplicit:
				p.sub = pmExplicit
				continue
			default:
				return s.fail(errors.Wrapf(ErrReserved,
					"context map mnemonic %d", p.mnemonic))
			}
			p.storeEntry(s)
		case pmExplicit:
			if r := p.explicit.code(s, &p.entry, BillContextMapExplicit,
				p.which, prob.Fast); r != Success {
				return r
			}
			p.storeEntry(s)
			p.sub = pmEntry
		case pmDone:
			s.setPredictionMode(p.cmd)
			return Success
		}
	}
}

// startMap prepares the size count of the current context map.
func (p *predModeState) startMap() {
	per := contextsPerBlockType
	if p.which == distanceContextMapKind {
		per = distanceContexts
	}
	p.count.reset(uint32(len(*p.contextMap()) / per))
	p.sub = pmMapSize
}

func (p *predModeState) storeEntry(s *session) {
	if !s.encoding {
		(*p.contextMap())[p.i] = p.entry
	}
	p.lru.push(p.entry)
	p.i++
}
