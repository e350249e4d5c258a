// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package queue provides the bounded byte queues used to move compressed
// bytes between the entropy coders and the outer I/O buffers.
//
// Two shapes are provided. CycleQueue is a classic circular FIFO; the
// decoders keep the compressed input in it. StackBuffer grows backward;
// the rANS encoders produce their output in reverse order and push it
// into a StackBuffer, from where it is popped in stream order.
package queue

// ByteQueue is the push/pop contract the coders use for byte interchange.
// Neither method blocks; both copy as many bytes as currently fit and
// return the count.
type ByteQueue interface {
	// NumPushBytesAvail returns the number of bytes PushData would accept.
	NumPushBytesAvail() int
	// NumPopBytesAvail returns the number of bytes PopData would return.
	NumPopBytesAvail() int
	// PushData copies min(len(p), NumPushBytesAvail()) bytes into the
	// queue.
	PushData(p []byte) int
	// PopData copies min(len(p), NumPopBytesAvail()) bytes out of the
	// queue and consumes them.
	PopData(p []byte) int
}
