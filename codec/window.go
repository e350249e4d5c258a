// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"hash"
	"hash/crc32"
)

// window keeps the most recent output bytes. It provides the history for
// copies and literal contexts and computes the checksum of the output.
//
// The decoder emits the window content to the caller; bytes that haven't
// been emitted must not be overwritten, which limits the room for new
// bytes. The encoder discards the bytes immediately.
type window struct {
	buf     []byte
	pos     int64
	emitted int64
	emit    bool
	crc     hash.Hash32
	scratch [1]byte
}

func newWindow(bits int, emit bool) *window {
	return &window{
		buf:  make([]byte, 1<<uint(bits)),
		emit: emit,
		crc:  crc32.NewIEEE(),
	}
}

// history returns the number of bytes available for copies.
func (w *window) history() int64 {
	if w.pos < int64(len(w.buf)) {
		return w.pos
	}
	return int64(len(w.buf))
}

// room returns the number of bytes that can be added.
func (w *window) room() int {
	return len(w.buf) - int(w.pos-w.emitted)
}

// byteAt returns the byte dist positions back. The zero byte is returned
// for positions before the start of the stream.
func (w *window) byteAt(dist int64) byte {
	if !(0 < dist && dist <= w.history()) {
		return 0
	}
	return w.buf[(w.pos-dist)&int64(len(w.buf)-1)]
}

// writeByte adds a byte; the caller must check room.
func (w *window) writeByte(c byte) {
	w.buf[w.pos&int64(len(w.buf)-1)] = c
	w.pos++
	if !w.emit {
		w.scratch[0] = c
		w.crc.Write(w.scratch[:])
		w.emitted = w.pos
	}
}

// emitTo copies pending bytes to p and adds them to the checksum.
func (w *window) emitTo(p []byte) int {
	n := 0
	for w.emitted < w.pos && n < len(p) {
		i := int(w.emitted & int64(len(w.buf)-1))
		k := int(w.pos - w.emitted)
		if len(w.buf)-i < k {
			k = len(w.buf) - i
		}
		k = copy(p[n:], w.buf[i:i+k])
		w.crc.Write(w.buf[i : i+k])
		w.emitted += int64(k)
		n += k
	}
	return n
}

// pending returns the number of bytes not yet emitted.
func (w *window) pending() int { return int(w.pos - w.emitted) }

// sum returns the checksum of the emitted bytes. In discard mode all
// written bytes count as emitted.
func (w *window) sum() uint32 { return w.crc.Sum32() }
