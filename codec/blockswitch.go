// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// Block type mnemonics.
const (
	btSecondLast = 0
	btNext       = 1
	btDirect     = 2
	btExplicit   = 15
	// maxStride is the largest stride of the literal model.
	maxStride = 8
)

// blockTypes tracks the two most recent block types of a kind.
type blockTypes struct {
	last, secondLast uint8
}

func newBlockTypes() blockTypes { return blockTypes{last: 0, secondLast: 1} }

// mnemonic selects the code for the block type t.
func (b *blockTypes) mnemonic(t uint8) uint8 {
	switch {
	case t == b.secondLast:
		return btSecondLast
	case t == b.last+1:
		return btNext
	case t < btExplicit-btDirect:
		return btDirect + t
	}
	return btExplicit
}

// resolve returns the block type of a mnemonic below btExplicit.
func (b *blockTypes) resolve(m uint8) uint8 {
	switch m {
	case btSecondLast:
		return b.secondLast
	case btNext:
		return b.last + 1
	}
	return m - btDirect
}

func (b *blockTypes) push(t uint8) {
	b.secondLast, b.last = b.last, t
}

type blockSwitchSub uint8

const (
	bsMnemonic blockSwitchSub = iota
	bsExplicit
	bsStride
	bsDone
)

// blockSwitchState codes a block switch command.
type blockSwitchState struct {
	sub      blockSwitchSub
	cmd      BlockSwitchCommand
	mnemonic uint8
	explicit byteState
}

func (b *blockSwitchState) reset(cmd BlockSwitchCommand) {
	*b = blockSwitchState{cmd: cmd}
}

func verifyBlockSwitch(cmd BlockSwitchCommand) error {
	if cmd.Kind >= numBlockSwitchKinds {
		return errors.Wrapf(ErrInvalidCommand, "block switch kind %d",
			cmd.Kind)
	}
	if cmd.Kind == BlockSwitchLiteral && cmd.Stride > maxStride {
		return errors.Wrapf(ErrInvalidCommand, "stride %d", cmd.Stride)
	}
	return nil
}

func (b *blockSwitchState) code(s *session) Result {
	bt := &s.blocks[b.cmd.Kind]
	for {
		switch b.sub {
		case bsMnemonic:
			if s.encoding {
				b.mnemonic = bt.mnemonic(b.cmd.BlockType)
			}
			if r := s.codeNibble(&b.mnemonic, BillBlockSwitchType,
				int(b.cmd.Kind), 0, prob.Fast); r != Success {
				return r
			}
			if b.mnemonic == btExplicit {
				b.sub = bsExplicit
				continue
			}
			b.cmd.BlockType = bt.resolve(b.mnemonic)
			b.sub = bsStride
		case bsExplicit:
			if r := b.explicit.code(s, &b.cmd.BlockType,
				BillBlockSwitchExplicit, int(b.cmd.Kind),
				prob.Fast); r != Success {
				return r
			}
			b.sub = bsStride
		case bsStride:
			if b.cmd.Kind == BlockSwitchLiteral {
				if r := s.codeNibble(&b.cmd.Stride, BillBlockSwitchStride,
					0, 0, prob.Fast); r != Success {
					return r
				}
				if b.cmd.Stride > maxStride {
					return s.fail(errors.Wrapf(ErrReserved, "stride %d",
						b.cmd.Stride))
				}
				s.stride = b.cmd.Stride
			}
			bt.push(b.cmd.BlockType)
			b.sub = bsDone
		case bsDone:
			return Success
		}
	}
}
