// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

// StackBuffer is a byte buffer that grows toward lower indices. Pushed
// bytes are placed directly in front of the bytes already stored, so a
// block pushed last is popped first while the bytes inside a block keep
// their order. The rANS encoders rely on this: they emit words in the
// reverse of the order the decoder consumes them.
//
// The valid bytes are data[low:high]. Once the buffer has been drained
// completely both indices return to the end of the slice.
type StackBuffer struct {
	data []byte
	low  int
	high int
}

// NewStackBuffer creates a stack buffer with the given capacity.
func NewStackBuffer(capacity int) *StackBuffer {
	if capacity <= 0 {
		panic("queue: capacity out of range")
	}
	return &StackBuffer{data: make([]byte, capacity), low: capacity,
		high: capacity}
}

// Reset empties the buffer.
func (s *StackBuffer) Reset() {
	s.low = len(s.data)
	s.high = len(s.data)
}

// Cap returns the capacity of the buffer.
func (s *StackBuffer) Cap() int { return len(s.data) }

// NumPushBytesAvail returns the free space in front of the stored bytes.
func (s *StackBuffer) NumPushBytesAvail() int { return s.low }

// NumPopBytesAvail returns the number of stored bytes.
func (s *StackBuffer) NumPopBytesAvail() int { return s.high - s.low }

// PushData puts the tail of p that fits in front of the stored bytes.
// Pushing is all or nothing for callers that check NumPushBytesAvail
// first; if p is larger than the free space only its last bytes are
// stored, preserving the property that stored bytes are a suffix of the
// logical stream.
func (s *StackBuffer) PushData(p []byte) int {
	n := len(p)
	if s.low < n {
		n = s.low
		p = p[len(p)-n:]
	}
	s.low -= n
	copy(s.data[s.low:], p)
	return n
}

// PushByte puts a single byte in front of the stored bytes. It reports
// false if the buffer is full.
func (s *StackBuffer) PushByte(c byte) bool {
	if s.low == 0 {
		return false
	}
	s.low--
	s.data[s.low] = c
	return true
}

// PopData copies stored bytes into p starting at the low-water mark.
func (s *StackBuffer) PopData(p []byte) int {
	n := copy(p, s.data[s.low:s.high])
	s.low += n
	if s.low == s.high {
		s.Reset()
	}
	return n
}
