// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

import (
	"bytes"
	"testing"
)

var (
	_ ByteQueue = (*CycleQueue)(nil)
	_ ByteQueue = (*StackBuffer)(nil)
)

func TestCycleQueue_PushPop(t *testing.T) {
	q := NewCycleQueue(10)
	b := []byte("1234567890")
	for i := range b {
		if n := q.PushData(b[i : i+1]); n != 1 {
			t.Fatalf("q.PushData(b[%d:%d]) returned %d; want %d",
				i, i+1, n, 1)
		}
	}
	if n := q.NumPushBytesAvail(); n != 0 {
		t.Fatalf("q.NumPushBytesAvail() returned %d; want 0", n)
	}
	if n := q.PushData(b); n != 0 {
		t.Fatalf("q.PushData on full queue returned %d; want 0", n)
	}
	p := make([]byte, 8)
	if n := q.PopData(p); n != 8 {
		t.Fatalf("q.PopData returned %d; want %d", n, 8)
	}
	if !bytes.Equal(p, b[:8]) {
		t.Fatalf("q.PopData got %q; want %q", p, b[:8])
	}
	// partial push: only 8 bytes fit
	if n := q.PushData(b); n != 8 {
		t.Fatalf("partial q.PushData returned %d; want %d", n, 8)
	}
	out := make([]byte, 20)
	n := q.PopData(out)
	if n != 10 {
		t.Fatalf("q.PopData returned %d; want %d", n, 10)
	}
	want := append([]byte("90"), b[:8]...)
	if !bytes.Equal(out[:n], want) {
		t.Fatalf("q.PopData got %q; want %q", out[:n], want)
	}
	if n := q.NumPopBytesAvail(); n != 0 {
		t.Fatalf("q.NumPopBytesAvail() returned %d; want 0", n)
	}
}

func TestCycleQueue_RoundTrips(t *testing.T) {
	const capacity = 7
	q := NewCycleQueue(capacity)
	front, rear := q.front, q.rear
	src := []byte{1, 2, 3}
	dst := make([]byte, 3)
	for i := 0; i < capacity+1; i++ {
		if n := q.PushData(src[:1]); n != 1 {
			t.Fatalf("round %d: PushData returned %d", i, n)
		}
		if n := q.PopData(dst[:1]); n != 1 {
			t.Fatalf("round %d: PopData returned %d", i, n)
		}
		if dst[0] != src[0] {
			t.Fatalf("round %d: got %d; want %d", i, dst[0], src[0])
		}
	}
	if q.front != front || q.rear != rear {
		t.Fatalf("queue indices (%d,%d); want (%d,%d)",
			q.front, q.rear, front, rear)
	}
	if q.NumPushBytesAvail() != capacity {
		t.Fatalf("NumPushBytesAvail %d; want %d",
			q.NumPushBytesAvail(), capacity)
	}
}

func TestCycleQueue_PopByte(t *testing.T) {
	q := NewCycleQueue(2)
	if _, ok := q.PopByte(); ok {
		t.Fatal("PopByte on empty queue succeeded")
	}
	q.PushData([]byte{7, 8})
	for _, want := range []byte{7, 8} {
		c, ok := q.PopByte()
		if !ok || c != want {
			t.Fatalf("PopByte returned %d, %t; want %d", c, ok, want)
		}
	}
}

func TestStackBuffer_Order(t *testing.T) {
	s := NewStackBuffer(8)
	if n := s.PushData([]byte("cd")); n != 2 {
		t.Fatalf("PushData returned %d; want 2", n)
	}
	if !s.PushByte('b') {
		t.Fatal("PushByte failed")
	}
	if n := s.PushData([]byte("a")); n != 1 {
		t.Fatalf("PushData returned %d; want 1", n)
	}
	p := make([]byte, 3)
	if n := s.PopData(p); n != 3 || string(p) != "abc" {
		t.Fatalf("PopData got %q (%d); want %q", p[:n], n, "abc")
	}
	if n := s.NumPopBytesAvail(); n != 1 {
		t.Fatalf("NumPopBytesAvail %d; want 1", n)
	}
	if n := s.PopData(p); n != 1 || p[0] != 'd' {
		t.Fatalf("PopData got %q; want %q", p[:n], "d")
	}
	// drained completely: full capacity is available again
	if n := s.NumPushBytesAvail(); n != 8 {
		t.Fatalf("NumPushBytesAvail %d; want 8", n)
	}
}

func TestStackBuffer_Boundaries(t *testing.T) {
	s := NewStackBuffer(4)
	if n := s.PushData([]byte("123456")); n != 4 {
		t.Fatalf("PushData returned %d; want 4", n)
	}
	if n := s.NumPushBytesAvail(); n != 0 {
		t.Fatalf("NumPushBytesAvail %d; want 0", n)
	}
	if s.PushByte('x') {
		t.Fatal("PushByte into full buffer succeeded")
	}
	if n := s.PushData([]byte("x")); n != 0 {
		t.Fatalf("PushData into full buffer returned %d", n)
	}
	p := make([]byte, 10)
	n := s.PopData(p)
	if string(p[:n]) != "3456" {
		t.Fatalf("PopData got %q; want %q", p[:n], "3456")
	}
	if n := s.PopData(p); n != 0 {
		t.Fatalf("PopData on empty buffer returned %d", n)
	}
}
