// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

type literalSub uint8

const (
	litLength literalSub = iota
	litHighEntropy
	litByteStart
	litHighNibble
	litLowNibble
	litDone
)

// literalState codes a literal command: the length, the high-entropy flag
// and two nibbles per byte.
type literalState struct {
	sub   literalSub
	cmd   LiteralCommand
	count countState
	n     uint32
	i     uint32
	hi    uint8
	// model rows of the current byte
	strideRow int
	cmapRow   int
}

func (l *literalState) reset(cmd LiteralCommand) {
	*l = literalState{cmd: cmd}
	l.count.reset(uint32(len(cmd.Data)))
}

func verifyLiteral(cmd LiteralCommand) error {
	if len(cmd.Data) == 0 {
		return errors.Wrap(ErrInvalidCommand, "empty literal")
	}
	if uint64(len(cmd.Data)) > 1<<32-1 {
		return errors.Wrap(ErrInvalidCommand, "literal too long")
	}
	return nil
}

// byteContext selects the model rows for the next byte.
func (s *session) byteContext(l *literalState) error {
	stride := int64(s.stride)
	if stride == 0 {
		stride = 1
	}
	l.strideRow = int(s.win.byteAt(stride))
	ctx := literalContext(s.mode.LiteralMode, s.win.byteAt(1),
		s.win.byteAt(2))
	i := int(s.blocks[BlockSwitchLiteral].last)*contextsPerBlockType +
		int(ctx)
	if i >= len(s.mode.LiteralContextMap) {
		return errors.Wrapf(ErrContextMapSize, "literal context %d", i)
	}
	l.cmapRow = int(s.mode.LiteralContextMap[i])
	return nil
}

// codeLiteralNibble codes a nibble of a literal byte. Position 0 is the
// high nibble; the low nibble uses the row selected by the high nibble.
func (s *session) codeLiteralNibble(l *literalState, v *uint8,
	pos int) Result {
	if r := s.ready(); r != Success {
		return r
	}
	if l.cmd.HighEntropy {
		s.coder.nibble(v, &uniformCDF)
		return Success
	}
	j := 0
	if pos == 1 {
		j = 1 + int(l.hi)
	}
	sm := s.pri.freq.At(BillLiteralStride, l.strideRow, j)
	cm := s.pri.blend.At(BillLiteralContextMap, l.cmapRow, j)
	w := &s.pri.weights[pos]
	mixed := prob.Average(sm, cm, w.Mix())
	s.coder.nibble(v, &mixed)
	w.Update(prob.NormalizedPdf(sm, *v), prob.NormalizedPdf(cm, *v),
		prob.NormalizedPdf(&mixed, *v))
	sm.Blend(*v, s.strideSpeed)
	cm.Blend(*v, s.cmapSpeed)
	return Success
}

func (l *literalState) code(s *session) Result {
	for {
		switch l.sub {
		case litLength:
			ctx := int(s.blocks[BlockSwitchLiteral].last & 0xf)
			if r := l.count.code(s, literalTiers, &literalCountBillings,
				ctx); r != Success {
				return r
			}
			l.n = l.count.value
			if !s.encoding {
				c := l.n
				if c > 1<<16 {
					c = 1 << 16
				}
				l.cmd.Data = make([]byte, 0, c)
			}
			l.sub = litHighEntropy
		case litHighEntropy:
			if r := s.ready(); r != Success {
				return r
			}
			m := &s.pri.highEntropy[s.blocks[BlockSwitchLiteral].last]
			s.coder.bit(&l.cmd.HighEntropy, m.ProbOfFalse())
			m.Blend(l.cmd.HighEntropy)
			l.sub = litByteStart
		case litByteStart:
			if l.i == l.n {
				l.sub = litDone
				continue
			}
			if s.win.room() == 0 {
				return NeedsMoreOutput
			}
			if err := s.byteContext(l); err != nil {
				return s.fail(err)
			}
			l.sub = litHighNibble
		case litHighNibble:
			var nib uint8
			if s.encoding {
				nib = l.cmd.Data[l.i] >> 4
			}
			if r := s.codeLiteralNibble(l, &nib, 0); r != Success {
				return r
			}
			l.hi = nib
			l.sub = litLowNibble
		case litLowNibble:
			var nib uint8
			if s.encoding {
				nib = l.cmd.Data[l.i] & 0xf
			}
			if r := s.codeLiteralNibble(l, &nib, 1); r != Success {
				return r
			}
			c := l.hi<<4 | nib
			if !s.encoding {
				l.cmd.Data = append(l.cmd.Data, c)
			}
			s.win.writeByte(c)
			l.i++
			l.sub = litByteStart
		case litDone:
			return Success
		}
	}
}
