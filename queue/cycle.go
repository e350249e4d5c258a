// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package queue

// CycleQueue provides a circular buffer of bytes. If the front index
// equals the rear index the queue is empty. As a consequence front cannot
// be equal rear for a full queue, so the data slice has one byte more than
// the capacity.
type CycleQueue struct {
	data  []byte
	front int
	rear  int
}

// NewCycleQueue creates a cycle queue holding up to capacity bytes. The
// function panics if the capacity is not positive.
func NewCycleQueue(capacity int) *CycleQueue {
	// second condition checks for overflow
	if !(0 < capacity && 0 < capacity+1) {
		panic("queue: capacity out of range")
	}
	return &CycleQueue{data: make([]byte, capacity+1)}
}

// Reset empties the queue.
func (q *CycleQueue) Reset() {
	q.front = 0
	q.rear = 0
}

// Cap returns the capacity of the queue.
func (q *CycleQueue) Cap() int {
	return len(q.data) - 1
}

// NumPopBytesAvail returns the number of bytes buffered.
func (q *CycleQueue) NumPopBytesAvail() int {
	delta := q.front - q.rear
	if delta < 0 {
		delta += len(q.data)
	}
	return delta
}

// NumPushBytesAvail returns the number of bytes that can be pushed.
func (q *CycleQueue) NumPushBytesAvail() int {
	delta := q.rear - 1 - q.front
	if delta < 0 {
		delta += len(q.data)
	}
	return delta
}

// addIndex adds a non-negative integer to the index i and returns the
// wrapped index.
func (q *CycleQueue) addIndex(i int, n int) int {
	// subtraction of len(q.data) prevents overflow
	i += n - len(q.data)
	if i < 0 {
		i += len(q.data)
	}
	return i
}

// PushData appends as much of p as fits and returns the number of bytes
// copied.
func (q *CycleQueue) PushData(p []byte) int {
	n := q.NumPushBytesAvail()
	if len(p) < n {
		n = len(p)
	}
	p = p[:n]
	k := copy(q.data[q.front:], p)
	if k < n {
		copy(q.data, p[k:])
	}
	q.front = q.addIndex(q.front, n)
	return n
}

// Peek copies buffered bytes into p without consuming them.
func (q *CycleQueue) Peek(p []byte) int {
	n := q.NumPopBytesAvail()
	if len(p) < n {
		n = len(p)
	}
	p = p[:n]
	k := copy(p, q.data[q.rear:])
	if k < n {
		copy(p[k:], q.data)
	}
	return n
}

// PopData moves buffered bytes into p in FIFO order.
func (q *CycleQueue) PopData(p []byte) int {
	n := q.Peek(p)
	q.rear = q.addIndex(q.rear, n)
	return n
}

// PopByte removes a single byte. The second return value is false if the
// queue is empty.
func (q *CycleQueue) PopByte() (c byte, ok bool) {
	if q.front == q.rear {
		return 0, false
	}
	c = q.data[q.rear]
	q.rear = q.addIndex(q.rear, 1)
	return c, true
}
