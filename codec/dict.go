// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/prob"
)

// wordSizeEsc escapes word sizes that don't fit into the first nibble.
const wordSizeEsc = 15

type dictSub uint8

const (
	dictWordSize dictSub = iota
	dictWordSizeHigh
	dictWordID
	dictTransform
	dictLookup
	dictWrite
)

// dictState codes a dictionary command.
type dictState struct {
	sub       dictSub
	cmd       DictCommand
	count     countState
	transform byteState
	word      []byte
	i         int
}

func (d *dictState) reset(cmd DictCommand) {
	*d = dictState{cmd: cmd}
	d.count.reset(cmd.WordID + 1)
}

func verifyDict(cmd DictCommand) error {
	if !(MinWordSize <= cmd.WordSize && cmd.WordSize <= MaxWordSize) {
		return errors.Wrapf(ErrInvalidCommand, "word size %d",
			cmd.WordSize)
	}
	if cmd.WordID == 1<<32-1 {
		return errors.Wrap(ErrInvalidCommand, "word id too large")
	}
	return nil
}

func (d *dictState) code(s *session) Result {
	for {
		switch d.sub {
		case dictWordSize:
			var nib uint8
			if s.encoding {
				nib = wordSizeEsc
				if d.cmd.WordSize-MinWordSize < wordSizeEsc {
					nib = d.cmd.WordSize - MinWordSize
				}
			}
			if r := s.codeNibble(&nib, BillDictWordSize, 0, 0,
				prob.Med); r != Success {
				return r
			}
			if nib == wordSizeEsc {
				d.sub = dictWordSizeHigh
				continue
			}
			d.cmd.WordSize = MinWordSize + nib
			d.sub = dictWordID
		case dictWordSizeHigh:
			var nib uint8
			if s.encoding {
				nib = d.cmd.WordSize - MinWordSize - wordSizeEsc
			}
			if r := s.codeNibble(&nib, BillDictWordSize, 0, 1,
				prob.Med); r != Success {
				return r
			}
			d.cmd.WordSize = MinWordSize + wordSizeEsc + nib
			d.sub = dictWordID
		case dictWordID:
			if r := d.count.code(s, copyTiers, &dictCountBillings,
				0); r != Success {
				return r
			}
			d.cmd.WordID = d.count.value - 1
			d.sub = dictTransform
		case dictTransform:
			if r := d.transform.code(s, &d.cmd.Transform,
				BillDictTransform, 0, prob.Slow); r != Success {
				return r
			}
			d.sub = dictLookup
		case dictLookup:
			if s.cfg.Dictionary == nil {
				return s.fail(errors.Wrap(ErrDictionary,
					"no dictionary configured"))
			}
			w, ok := s.cfg.Dictionary.Word(d.cmd.WordSize, d.cmd.WordID,
				d.cmd.Transform)
			if !ok {
				return s.fail(errors.Wrapf(ErrDictionary,
					"word size %d id %d transform %d", d.cmd.WordSize,
					d.cmd.WordID, d.cmd.Transform))
			}
			d.word = w
			d.cmd.FinalSize = uint32(len(w))
			d.sub = dictWrite
		case dictWrite:
			for d.i < len(d.word) {
				if s.win.room() == 0 {
					return NeedsMoreOutput
				}
				s.win.writeByte(d.word[d.i])
				d.i++
			}
			return Success
		}
	}
}
