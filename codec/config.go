// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/ans"
)

// CoderKind selects the entropy coder.
type CoderKind uint8

// Entropy coders.
const (
	// CoderNibble is the nibble rANS coder with two interleaved states.
	CoderNibble CoderKind = iota
	// CoderBit is the binary rANS coder.
	CoderBit
)

// String returns the name of the coder.
func (k CoderKind) String() string {
	switch k {
	case CoderNibble:
		return "nibble"
	case CoderBit:
		return "bit"
	}
	return fmt.Sprintf("CoderKind(%d)", uint8(k))
}

// Limits of the window size.
const (
	MinWindowBits     = 10
	MaxWindowBits     = 24
	DefaultWindowBits = 22
)

// Config defines the parameters shared by encoder and decoder. Both sides
// must use the same values.
type Config struct {
	// WindowBits is the base-2 logarithm of the window size and limits
	// the copy distance. (default: 22)
	WindowBits int
	// Coder selects the entropy coder. (default: CoderNibble)
	Coder CoderKind
	// Dictionary resolves dictionary commands. Streams with dictionary
	// commands can't be coded without it.
	Dictionary Dictionary
}

// ApplyDefaults replaces zero values by their defaults.
func (c *Config) ApplyDefaults() {
	if c.WindowBits == 0 {
		c.WindowBits = DefaultWindowBits
	}
}

// Verify checks the configuration. Zero values are replaced by their
// defaults.
func (c *Config) Verify() error {
	if c == nil {
		return errors.New("codec: configuration is nil")
	}
	c.ApplyDefaults()
	if !(MinWindowBits <= c.WindowBits && c.WindowBits <= MaxWindowBits) {
		return errors.Errorf("codec: WindowBits %d out of range [%d,%d]",
			c.WindowBits, MinWindowBits, MaxWindowBits)
	}
	if c.Coder > CoderBit {
		return errors.Errorf("codec: unknown coder %d", c.Coder)
	}
	return nil
}

func (c *Config) newEncoder() ans.EntropyEncoder {
	if c.Coder == CoderBit {
		return ans.NewBitEncoder()
	}
	return ans.NewEncoder()
}

func (c *Config) newDecoder() ans.EntropyDecoder {
	if c.Coder == CoderBit {
		return ans.NewBitDecoder()
	}
	return ans.NewDecoder()
}
