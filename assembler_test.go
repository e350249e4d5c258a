// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/kr/pretty"

	"github.com/dropbox/divans-sub000/codec"
)

func TestAssembler(t *testing.T) {
	a := assembler{literalChunk: 4, minRun: 3}
	p := []byte("abcdefxxxxxyzz")
	cmds := a.commands(p)
	want := []codec.Command{
		codec.DefaultPredictionMode(),
		codec.LiteralCommand{Data: []byte("abcd")},
		codec.LiteralCommand{Data: []byte("efx")},
		codec.CopyCommand{Distance: 1, NumBytes: 4},
		codec.LiteralCommand{Data: []byte("yzz")},
	}
	if diff := pretty.Diff(cmds, want); len(diff) > 0 {
		t.Fatalf("commands differ:\n%s", diff)
	}
	// the prediction mode is only sent once
	cmds = a.commands([]byte("aaaa"))
	want = []codec.Command{
		codec.LiteralCommand{Data: []byte("a")},
		codec.CopyCommand{Distance: 1, NumBytes: 3},
	}
	if diff := pretty.Diff(cmds, want); len(diff) > 0 {
		t.Fatalf("commands differ:\n%s", diff)
	}
}

func TestAssemblerHighEntropy(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	p := make([]byte, 4096)
	r.Read(p)
	a := assembler{literalChunk: 4096, minRun: 8}
	cmds := a.commands(p)
	var n int
	for _, c := range cmds {
		lit, ok := c.(codec.LiteralCommand)
		if !ok {
			continue
		}
		n += len(lit.Data)
		if !lit.HighEntropy {
			t.Fatalf("random literal of %d bytes not high-entropy",
				len(lit.Data))
		}
	}
	if n == 0 {
		t.Fatalf("no literals")
	}
	text := bytes.Repeat([]byte("abcdefgh"), 100)
	if order0Entropy(text) != 3 {
		t.Fatalf("order0Entropy(text) = %g; want 3", order0Entropy(text))
	}
}

func TestPredictionModeChoice(t *testing.T) {
	if m := predictionMode([]byte("plain text\n")); m.LiteralMode !=
		codec.ModeUTF8 {
		t.Fatalf("text mode %s; want %s", m.LiteralMode, codec.ModeUTF8)
	}
	bin := make([]byte, 100)
	for i := range bin {
		bin[i] = byte(i % 16)
	}
	if m := predictionMode(bin); m.LiteralMode != codec.ModeLSB6 {
		t.Fatalf("binary mode %s; want %s", m.LiteralMode,
			codec.ModeLSB6)
	}
}
