// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"io"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/codec"
)

// Defaults of the writer configuration.
const (
	defaultBufferSize   = 1 << 16
	defaultLiteralChunk = 4096
	defaultMinRun       = 8
	maxBufferSize       = 1 << 26
)

// WriterConfig describes the parameters of a divans writer.
type WriterConfig struct {
	// Codec configures the entropy coder and the window. A dictionary
	// isn't used by the writer.
	Codec codec.Config

	// LiteralChunk is the maximum length of a literal command.
	// (default: 4096)
	LiteralChunk int

	// MinRun is the minimum length of a byte run coded as a copy.
	// (default: 8)
	MinRun int

	// BufferSize is the number of bytes collected before they are
	// converted into commands. (default: 64 KiB)
	BufferSize int
}

// ApplyDefaults replaces zero values by their defaults.
func (c *WriterConfig) ApplyDefaults() {
	c.Codec.ApplyDefaults()
	if c.LiteralChunk == 0 {
		c.LiteralChunk = defaultLiteralChunk
	}
	if c.MinRun == 0 {
		c.MinRun = defaultMinRun
	}
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
}

// Verify checks the configuration for errors. Zero values will be
// replaced by default values.
func (c *WriterConfig) Verify() error {
	if c == nil {
		return errors.New("divans: writer configuration is nil")
	}
	c.ApplyDefaults()
	if err := c.Codec.Verify(); err != nil {
		return err
	}
	if c.LiteralChunk < 1 {
		return errors.New("divans: LiteralChunk must be positive")
	}
	if c.MinRun < 2 {
		return errors.New("divans: MinRun must be at least 2")
	}
	if !(1 <= c.BufferSize && c.BufferSize <= maxBufferSize) {
		return errors.Errorf("divans: BufferSize %d out of range",
			c.BufferSize)
	}
	return nil
}

// errWriterClosed is returned for writes after Close.
var errWriterClosed = errors.New("divans: writer is closed")

// Writer compresses the data written to it.
type Writer struct {
	cfg WriterConfig
	w   io.Writer
	enc *codec.Encoder
	asm assembler
	buf []byte
	out []byte
	err error
}

// NewWriter creates a writer using the default configuration.
func NewWriter(w io.Writer) (*Writer, error) {
	return NewWriterConfig(w, WriterConfig{})
}

// NewWriterConfig creates a writer and writes the stream header.
func NewWriterConfig(w io.Writer, cfg WriterConfig) (*Writer, error) {
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	cfg.Codec.Dictionary = nil
	enc, err := codec.NewEncoder(cfg.Codec)
	if err != nil {
		return nil, err
	}
	h := header{coder: cfg.Codec.Coder, windowBits: cfg.Codec.WindowBits}
	if _, err = writeHeader(w, h); err != nil {
		return nil, err
	}
	return &Writer{
		cfg: cfg,
		w:   w,
		enc: enc,
		asm: assembler{
			literalChunk: cfg.LiteralChunk,
			minRun:       cfg.MinRun,
		},
		buf: make([]byte, 0, cfg.BufferSize),
		out: make([]byte, 32<<10),
	}, nil
}

// encode converts the buffered bytes into commands and encodes them.
func (w *Writer) encode() error {
	cmds := w.asm.commands(w.buf)
	for len(cmds) > 0 {
		n, k, r := w.enc.Encode(cmds, w.out)
		cmds = cmds[n:]
		if _, err := w.w.Write(w.out[:k]); err != nil {
			return err
		}
		if r == codec.Failure {
			return errors.Wrap(w.enc.Err(), "divans: encoding failed")
		}
	}
	w.buf = w.buf[:0]
	return nil
}

// Write compresses p. Data is buffered until the buffer is full or the
// writer is closed.
func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	for len(p) > 0 {
		k := cap(w.buf) - len(w.buf)
		if k > len(p) {
			k = len(p)
		}
		w.buf = append(w.buf, p[:k]...)
		n += k
		p = p[k:]
		if len(w.buf) == cap(w.buf) {
			if err = w.encode(); err != nil {
				w.err = err
				return n, err
			}
		}
	}
	return n, nil
}

// Close encodes the buffered data and finishes the stream. It doesn't
// close the underlying writer.
func (w *Writer) Close() error {
	if w.err != nil {
		if w.err == errWriterClosed {
			return nil
		}
		return w.err
	}
	if err := w.encode(); err != nil {
		w.err = err
		return err
	}
	for {
		k, r := w.enc.Close(w.out)
		if _, err := w.w.Write(w.out[:k]); err != nil {
			w.err = err
			return err
		}
		if r == codec.Success {
			break
		}
		if r == codec.Failure {
			w.err = errors.Wrap(w.enc.Err(), "divans: closing failed")
			return w.err
		}
	}
	w.err = errWriterClosed
	return nil
}
