// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xlog

import (
	"bytes"
	"testing"
)

func TestNilLogger(t *testing.T) {
	l := New(nil, "x: ")
	if l != nil {
		t.Fatalf("New(nil) returned %v; want nil", l)
	}
	// must not panic
	Print(l, "a")
	Printf(l, "%d", 1)
	Println(l, "b")
}

func TestOutput(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "codec: ")
	Printf(l, "nibble %d", 7)
	Println(l, "eof")
	want := "codec: nibble 7\ncodec: eof\n"
	if got := buf.String(); got != want {
		t.Fatalf("output %q; want %q", got, want)
	}
}
