// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec serializes command streams through an entropy coder. The
// encoder and the decoder run the same resumable state machines; every
// step checks the readiness of the coder first and returns NeedsMoreInput
// or NeedsMoreOutput if the caller has to supply buffers.
//
// The coded stream is followed by the CRC-32 of the output in
// little-endian byte order.
package codec

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/ans"
	"github.com/dropbox/divans-sub000/prob"
)

// checksumLen is the length of the stream trailer.
const checksumLen = 4

type cmdPhase uint8

const (
	phaseType cmdPhase = iota
	phaseBody
)

// session is the state shared by encoder and decoder.
type session struct {
	cfg         Config
	coder       entropyCoder
	encoding    bool
	pri         *priors
	win         *window
	distanceLRU [numDistanceSlots]uint32
	blocks      [numBlockSwitchKinds]blockTypes
	stride      uint8
	mode        PredictionModeCommand
	strideSpeed prob.Speed
	cmapSpeed   prob.Speed
	err         error

	// command state
	phase    cmdPhase
	cmdType  uint8
	lastType uint8
	lit      literalState
	cp       copyState
	dict     dictState
	bs       blockSwitchState
	pm       predModeState
}

// DefaultPredictionMode returns the prediction mode in effect at the
// start of a stream.
func DefaultPredictionMode() PredictionModeCommand {
	lcm := make([]byte, contextsPerBlockType)
	for i := range lcm {
		lcm[i] = byte(i)
	}
	return PredictionModeCommand{
		LiteralMode:        ModeUTF8,
		LiteralContextMap:  lcm,
		DistanceContextMap: []byte{0, 1, 2, 3},
		StrideSpeed:        uint8(prob.Slow.Index()),
		CMapSpeed:          uint8(prob.Med.Index()),
	}
}

func newSession(cfg Config, coder entropyCoder, encoding bool) *session {
	s := &session{
		cfg:         cfg,
		coder:       coder,
		encoding:    encoding,
		pri:         newPriors(),
		win:         newWindow(cfg.WindowBits, !encoding),
		distanceLRU: defaultDistanceLRU,
	}
	for i := range s.blocks {
		s.blocks[i] = newBlockTypes()
	}
	s.setPredictionMode(DefaultPredictionMode())
	return s
}

// setPredictionMode installs m. The context maps are copied, so callers
// may reuse the slices of the command.
func (s *session) setPredictionMode(m PredictionModeCommand) {
	m.LiteralContextMap = append([]byte(nil), m.LiteralContextMap...)
	m.DistanceContextMap = append([]byte(nil), m.DistanceContextMap...)
	s.mode = m
	s.strideSpeed, _ = prob.SpeedFromIndex(m.StrideSpeed)
	s.cmapSpeed, _ = prob.SpeedFromIndex(m.CMapSpeed)
}

// fail records the first error of the session.
func (s *session) fail(err error) Result {
	if s.err == nil {
		s.err = err
	}
	return Failure
}

// ready checks whether the coder can code the next symbol.
func (s *session) ready() Result {
	r, err := s.coder.ready()
	if err != nil {
		return s.fail(err)
	}
	return r
}

// codeNibble codes a nibble with the frequentist prior (b, i, j) and
// adapts the prior.
func (s *session) codeNibble(v *uint8, b Billing, i, j int,
	speed prob.Speed) Result {
	if r := s.ready(); r != Success {
		return r
	}
	m := s.pri.freq.At(b, i, j)
	s.coder.nibble(v, m)
	m.Blend(*v, speed)
	return Success
}

// verify checks a command before it is encoded.
func (s *session) verify(cmd Command) error {
	switch c := cmd.(type) {
	case LiteralCommand:
		return verifyLiteral(c)
	case CopyCommand:
		return s.verifyCopy(c)
	case DictCommand:
		if err := verifyDict(c); err != nil {
			return err
		}
		if s.cfg.Dictionary == nil {
			return errors.Wrap(ErrDictionary, "no dictionary configured")
		}
		if _, ok := s.cfg.Dictionary.Word(c.WordSize, c.WordID,
			c.Transform); !ok {
			return errors.Wrapf(ErrDictionary, "%v", c)
		}
		return nil
	case BlockSwitchCommand:
		return verifyBlockSwitch(c)
	case PredictionModeCommand:
		return verifyPredictionMode(c)
	case EOFCommand:
		return nil
	case nil:
		return errors.Wrap(ErrInvalidCommand, "nil command")
	}
	return errors.Wrapf(ErrInvalidCommand, "unsupported command %T", cmd)
}

// begin prepares the state machine for the command type t. When decoding
// cmd is nil.
func (s *session) begin(t uint8, cmd Command) error {
	switch t {
	case typeCopy:
		c, _ := cmd.(CopyCommand)
		s.cp.reset(c)
	case typeDict:
		c, _ := cmd.(DictCommand)
		s.dict.reset(c)
	case typeLiteral:
		c, _ := cmd.(LiteralCommand)
		s.lit.reset(c)
	case typeBlockSwitchLiteral, typeBlockSwitchCommand,
		typeBlockSwitchDistance:
		c, _ := cmd.(BlockSwitchCommand)
		c.Kind = BlockSwitchKind(t - typeBlockSwitchLiteral)
		s.bs.reset(c)
	case typePredictionMode:
		c, _ := cmd.(PredictionModeCommand)
		s.pm.reset(c)
	case typeEOF:
	default:
		return errors.Wrapf(ErrCommandType, "command type %d", t)
	}
	s.cmdType = t
	return nil
}

// step codes a single command. The decoder passes nil and retrieves the
// command with current after Success.
func (s *session) step(cmd Command) Result {
	if s.err != nil {
		return Failure
	}
	if s.phase == phaseType {
		var t uint8
		if s.encoding {
			if err := s.verify(cmd); err != nil {
				return s.fail(err)
			}
			t = cmd.commandType()
		}
		ctx := int(s.blocks[BlockSwitchCommandType].last & 0xf)
		if r := s.codeNibble(&t, BillCommandType, ctx, int(s.lastType),
			prob.Rocket); r != Success {
			return r
		}
		if err := s.begin(t, cmd); err != nil {
			return s.fail(err)
		}
		s.phase = phaseBody
	}
	var r Result
	switch s.cmdType {
	case typeCopy:
		r = s.cp.code(s)
	case typeDict:
		r = s.dict.code(s)
	case typeLiteral:
		r = s.lit.code(s)
	case typePredictionMode:
		r = s.pm.code(s)
	case typeEOF:
		r = Success
	default:
		r = s.bs.code(s)
	}
	if r != Success {
		return r
	}
	s.lastType = s.cmdType
	s.phase = phaseType
	return Success
}

// current returns the command completed by the last step.
func (s *session) current() Command {
	switch s.cmdType {
	case typeCopy:
		return s.cp.cmd
	case typeDict:
		return s.dict.cmd
	case typeLiteral:
		return s.lit.cmd
	case typePredictionMode:
		return s.pm.cmd
	case typeEOF:
		return EOFCommand{}
	}
	return s.bs.cmd
}

type closePhase uint8

const (
	closeEOF closePhase = iota
	closeCoder
	closeDrain
	closeTrailer
	closeDone
)

// Encoder encodes commands into a compressed stream.
type Encoder struct {
	s        *session
	enc      ans.EntropyEncoder
	phase    closePhase
	closing  bool
	trailer  [checksumLen]byte
	trailerN int
}

// NewEncoder creates an encoder.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	enc := cfg.newEncoder()
	return &Encoder{
		s:   newSession(cfg, encodeCoder{enc}, true),
		enc: enc,
	}, nil
}

// Err returns the error that caused a Failure result.
func (e *Encoder) Err() error { return e.s.err }

// History returns the number of bytes a copy command may reach back.
func (e *Encoder) History() int64 { return e.s.win.history() }

// Encode codes the commands and writes compressed bytes to out. It returns
// the number of commands consumed and the number of bytes written. Success
// means that all commands have been consumed; coded bytes may remain
// buffered until the next call or Close.
func (e *Encoder) Encode(cmds []Command, out []byte) (ncmds, nout int,
	r Result) {
	if e.s.err != nil {
		return 0, 0, Failure
	}
	if e.closing {
		return 0, 0, e.s.fail(ErrClosed)
	}
	for {
		nout += e.enc.PopData(out[nout:])
		if ncmds == len(cmds) {
			return ncmds, nout, Success
		}
		if _, ok := cmds[ncmds].(EOFCommand); ok {
			return ncmds, nout, e.s.fail(errors.Wrap(ErrInvalidCommand,
				"EOF passed to Encode"))
		}
		switch r = e.s.step(cmds[ncmds]); r {
		case Success:
			logCommand("encode", cmds[ncmds])
			ncmds++
		case NeedsMoreOutput:
			if nout == len(out) || e.enc.NumPopBytesAvail() == 0 {
				return ncmds, nout, NeedsMoreOutput
			}
		default:
			return ncmds, nout, r
		}
	}
}

// Close writes the end of the stream: the EOF command, the remaining
// coded bytes and the checksum. It must be called until it returns
// Success.
func (e *Encoder) Close(out []byte) (nout int, r Result) {
	if e.s.err != nil {
		return 0, Failure
	}
	e.closing = true
	for {
		switch e.phase {
		case closeEOF:
			nout += e.enc.PopData(out[nout:])
			switch r = e.s.step(EOFCommand{}); r {
			case Success:
				logCommand("encode", EOFCommand{})
				e.phase = closeCoder
			case NeedsMoreOutput:
				if nout == len(out) || e.enc.NumPopBytesAvail() == 0 {
					return nout, NeedsMoreOutput
				}
			default:
				return nout, r
			}
		case closeCoder:
			nout += e.enc.PopData(out[nout:])
			if !e.enc.Close() {
				if nout == len(out) {
					return nout, NeedsMoreOutput
				}
				continue
			}
			e.phase = closeDrain
		case closeDrain:
			nout += e.enc.PopData(out[nout:])
			if e.enc.NumPopBytesAvail() > 0 {
				return nout, NeedsMoreOutput
			}
			binary.LittleEndian.PutUint32(e.trailer[:], e.s.win.sum())
			e.phase = closeTrailer
		case closeTrailer:
			k := copy(out[nout:], e.trailer[e.trailerN:])
			nout += k
			e.trailerN += k
			if e.trailerN < checksumLen {
				return nout, NeedsMoreOutput
			}
			e.phase = closeDone
		case closeDone:
			return nout, Success
		}
	}
}

type decodePhase uint8

const (
	decodeCommands decodePhase = iota
	decodeFinish
	decodeTrailer
	decodeDone
)

// Decoder decodes a compressed stream.
type Decoder struct {
	s        *session
	dec      ans.EntropyDecoder
	phase    decodePhase
	hook     func(Command)
	trailer  [checksumLen]byte
	trailerN int
	extra    []byte
}

// NewDecoder creates a decoder.
func NewDecoder(cfg Config) (*Decoder, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	dec := cfg.newDecoder()
	return &Decoder{
		s:   newSession(cfg, decodeCoder{dec}, false),
		dec: dec,
	}, nil
}

// SetCommandHook sets a function that is called with every decoded
// command including the final EOF command.
func (d *Decoder) SetCommandHook(f func(Command)) { d.hook = f }

// Err returns the error that caused a Failure result.
func (d *Decoder) Err() error { return d.s.err }

// Buffered returns input bytes following the checksum that have been
// consumed by earlier calls of Decode.
func (d *Decoder) Buffered() []byte { return d.extra }

// Decode reads compressed bytes from in and writes the decompressed bytes
// to out. Success is returned after the checksum has been verified and all
// output has been written; nin doesn't include input bytes following the
// checksum that have been provided in the same call.
func (d *Decoder) Decode(in, out []byte) (nin, nout int, r Result) {
	if d.s.err != nil {
		return 0, 0, Failure
	}
	for {
		if d.phase == decodeCommands && nin < len(in) {
			nin += d.dec.PushData(in[nin:])
		}
		nout += d.s.win.emitTo(out[nout:])
		switch d.phase {
		case decodeCommands:
			switch r = d.s.step(nil); r {
			case Success:
				cmd := d.s.current()
				logCommand("decode", cmd)
				if d.hook != nil {
					d.hook(cmd)
				}
				if d.s.cmdType == typeEOF {
					d.phase = decodeFinish
				}
			case NeedsMoreInput:
				if nin == len(in) || d.dec.NumPushBytesAvail() == 0 {
					return nin, nout, NeedsMoreInput
				}
			case NeedsMoreOutput:
				if nout == len(out) {
					return nin, nout, NeedsMoreOutput
				}
			default:
				return nin, nout, r
			}
		case decodeFinish:
			if _, err := d.dec.Finish(); err != nil {
				return nin, nout, d.s.fail(err)
			}
			d.trailerN = d.dec.PopData(d.trailer[:])
			d.phase = decodeTrailer
		case decodeTrailer:
			if d.trailerN < checksumLen {
				k := copy(d.trailer[d.trailerN:], in[nin:])
				d.trailerN += k
				nin += k
				if d.trailerN < checksumLen {
					return nin, nout, NeedsMoreInput
				}
			}
			if d.s.win.pending() > 0 {
				return nin, nout, NeedsMoreOutput
			}
			if got := binary.LittleEndian.Uint32(d.trailer[:]); got !=
				d.s.win.sum() {
				return nin, nout, d.s.fail(errors.Wrapf(ErrChecksum,
					"stream has %#08x; output has %#08x", got,
					d.s.win.sum()))
			}
			nin -= d.returnExtra(nin)
			d.phase = decodeDone
		case decodeDone:
			return nin, nout, Success
		}
	}
}

// returnExtra removes the input following the checksum from the coder's
// queue. It returns the number of bytes that can be handed back to the
// caller; the others are kept in extra.
func (d *Decoder) returnExtra(nin int) int {
	var buf [512]byte
	var extra []byte
	for {
		k := d.dec.PopData(buf[:])
		if k == 0 {
			break
		}
		extra = append(extra, buf[:k]...)
	}
	n := len(extra)
	if n > nin {
		n = nin
	}
	d.extra = extra[:len(extra)-n]
	return n
}
