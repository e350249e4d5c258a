// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "fmt"

// Values of the command-type nibble.
const (
	typeCopy                = 1
	typeDict                = 2
	typeLiteral             = 3
	typeBlockSwitchLiteral  = 4
	typeBlockSwitchCommand  = 5
	typeBlockSwitchDistance = 6
	typePredictionMode      = 7
	typeEOF                 = 15
)

// Command is a single instruction of the compressed stream. The concrete
// types are LiteralCommand, CopyCommand, DictCommand, BlockSwitchCommand,
// PredictionModeCommand and EOFCommand.
type Command interface {
	// commandType returns the value of the command-type nibble.
	commandType() uint8
	// Len returns the number of bytes the command adds to the output.
	Len() int
}

// LiteralCommand inserts Data. HighEntropy literals are coded with a
// fixed uniform distribution instead of the adaptive models.
type LiteralCommand struct {
	Data        []byte
	HighEntropy bool
}

func (c LiteralCommand) commandType() uint8 { return typeLiteral }

// Len returns the length of the data.
func (c LiteralCommand) Len() int { return len(c.Data) }

// String returns a short representation of the literal.
func (c LiteralCommand) String() string {
	const max = 16
	d := c.Data
	suffix := ""
	if len(d) > max {
		d, suffix = d[:max], "..."
	}
	he := ""
	if c.HighEntropy {
		he = " high-entropy"
	}
	return fmt.Sprintf("literal(%d%s %q%s)", len(c.Data), he, d, suffix)
}

// CopyCommand repeats NumBytes bytes starting Distance bytes back in the
// output. The copy may overlap the bytes it produces.
type CopyCommand struct {
	Distance uint32
	NumBytes uint32
}

func (c CopyCommand) commandType() uint8 { return typeCopy }

// Len returns the number of copied bytes.
func (c CopyCommand) Len() int { return int(c.NumBytes) }

// String returns a string representation of the copy.
func (c CopyCommand) String() string {
	return fmt.Sprintf("copy(%d,%d)", c.Distance, c.NumBytes)
}

// DictCommand inserts a transformed word of the static dictionary.
// FinalSize is the length of the transformed word; the encoder ignores
// the field and the decoder fills it in.
type DictCommand struct {
	WordSize  uint8
	WordID    uint32
	Transform uint8
	FinalSize uint32
}

func (c DictCommand) commandType() uint8 { return typeDict }

// Len returns the final size of the word.
func (c DictCommand) Len() int { return int(c.FinalSize) }

// String returns a string representation of the dictionary reference.
func (c DictCommand) String() string {
	return fmt.Sprintf("dict(size=%d id=%d transform=%d final=%d)",
		c.WordSize, c.WordID, c.Transform, c.FinalSize)
}

// BlockSwitchKind selects the block type a BlockSwitchCommand changes.
type BlockSwitchKind uint8

// Block switch kinds.
const (
	BlockSwitchLiteral BlockSwitchKind = iota
	BlockSwitchCommandType
	BlockSwitchDistance
	numBlockSwitchKinds
)

var blockSwitchNames = [...]string{"literal", "command", "distance"}

// String returns the name of the kind.
func (k BlockSwitchKind) String() string {
	if k < numBlockSwitchKinds {
		return blockSwitchNames[k]
	}
	return fmt.Sprintf("BlockSwitchKind(%d)", uint8(k))
}

// BlockSwitchCommand changes the current block type of one kind. Literal
// switches also set the stride used by the literal model.
type BlockSwitchCommand struct {
	Kind      BlockSwitchKind
	BlockType uint8
	Stride    uint8
}

func (c BlockSwitchCommand) commandType() uint8 {
	return typeBlockSwitchLiteral + uint8(c.Kind)
}

// Len returns zero.
func (c BlockSwitchCommand) Len() int { return 0 }

// String returns a string representation of the block switch.
func (c BlockSwitchCommand) String() string {
	if c.Kind == BlockSwitchLiteral {
		return fmt.Sprintf("blockswitch(%s %d stride=%d)", c.Kind,
			c.BlockType, c.Stride)
	}
	return fmt.Sprintf("blockswitch(%s %d)", c.Kind, c.BlockType)
}

// PredictionModeCommand configures the literal model. The literal context
// map has 64 entries per literal block type, the distance context map 4
// entries per distance block type. The speeds are indexes as accepted by
// prob.SpeedFromIndex.
type PredictionModeCommand struct {
	LiteralMode        LiteralMode
	LiteralContextMap  []byte
	DistanceContextMap []byte
	StrideSpeed        uint8
	CMapSpeed          uint8
}

func (c PredictionModeCommand) commandType() uint8 { return typePredictionMode }

// Len returns zero.
func (c PredictionModeCommand) Len() int { return 0 }

// String returns a string representation of the prediction mode.
func (c PredictionModeCommand) String() string {
	return fmt.Sprintf("predmode(%s lit=%d dist=%d speeds=%d,%d)",
		c.LiteralMode, len(c.LiteralContextMap),
		len(c.DistanceContextMap), c.StrideSpeed, c.CMapSpeed)
}

// EOFCommand marks the end of the command stream. Encoder.Close writes
// it; it is never passed to Encode.
type EOFCommand struct{}

func (c EOFCommand) commandType() uint8 { return typeEOF }

// Len returns zero.
func (c EOFCommand) Len() int { return 0 }

// String returns "eof".
func (c EOFCommand) String() string { return "eof" }
