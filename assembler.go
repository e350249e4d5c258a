// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"math"

	"github.com/dropbox/divans-sub000/codec"
)

// highEntropyBits is the order-0 entropy per byte above which a literal
// chunk is coded with the uniform distribution.
const highEntropyBits = 7.5

// assembler turns raw bytes into codec commands. Runs of a repeated byte
// become copies with distance 1; everything else is split into literal
// chunks.
type assembler struct {
	literalChunk int
	minRun       int
	started      bool
}

// order0Entropy returns the empirical entropy of p in bits per byte.
func order0Entropy(p []byte) float64 {
	if len(p) == 0 {
		return 0
	}
	var freq [256]int
	for _, c := range p {
		freq[c]++
	}
	n := float64(len(p))
	h := 0.0
	for _, f := range freq {
		if f == 0 {
			continue
		}
		q := float64(f) / n
		h -= q * math.Log2(q)
	}
	return h
}

// predictionMode selects the literal context mode for the first block.
func predictionMode(p []byte) codec.PredictionModeCommand {
	m := codec.DefaultPredictionMode()
	if len(p) == 0 {
		return m
	}
	text := 0
	for _, c := range p {
		if c == '\n' || c == '\t' || c == '\r' || (0x20 <= c && c < 0x7f) ||
			c >= 0x80 {
			text++
		}
	}
	if text*10 < len(p)*9 {
		m.LiteralMode = codec.ModeLSB6
	}
	return m
}

func (a *assembler) appendLiterals(cmds []codec.Command,
	p []byte) []codec.Command {
	for len(p) > 0 {
		k := a.literalChunk
		if k > len(p) {
			k = len(p)
		}
		chunk := p[:k:k]
		cmds = append(cmds, codec.LiteralCommand{
			Data:        chunk,
			HighEntropy: order0Entropy(chunk) > highEntropyBits,
		})
		p = p[k:]
	}
	return cmds
}

// commands converts the block p into commands. The commands reference p.
func (a *assembler) commands(p []byte) []codec.Command {
	var cmds []codec.Command
	if !a.started {
		cmds = append(cmds, predictionMode(p))
		a.started = true
	}
	start := 0
	for i := 0; i < len(p); {
		j := i + 1
		for j < len(p) && p[j] == p[i] {
			j++
		}
		if j-i < a.minRun {
			i = j
			continue
		}
		// The first byte of the run is a literal, so the copy never
		// reaches before the start of the stream.
		cmds = a.appendLiterals(cmds, p[start:i+1])
		cmds = append(cmds, codec.CopyCommand{
			Distance: 1,
			NumBytes: uint32(j - i - 1),
		})
		start, i = j, j
	}
	return a.appendLiterals(cmds, p[start:])
}
