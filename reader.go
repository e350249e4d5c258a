// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"io"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/codec"
)

// ReaderConfig describes the parameters of a divans reader.
type ReaderConfig struct {
	// Dictionary resolves dictionary commands.
	Dictionary codec.Dictionary

	// BufferSize is the size of the input buffer. (default: 64 KiB)
	BufferSize int
}

// ApplyDefaults replaces zero values by their defaults.
func (c *ReaderConfig) ApplyDefaults() {
	if c.BufferSize == 0 {
		c.BufferSize = defaultBufferSize
	}
}

// Verify checks the configuration for errors. Zero values will be
// replaced by default values.
func (c *ReaderConfig) Verify() error {
	if c == nil {
		return errors.New("divans: reader configuration is nil")
	}
	c.ApplyDefaults()
	if !(1 <= c.BufferSize && c.BufferSize <= maxBufferSize) {
		return errors.Errorf("divans: BufferSize %d out of range",
			c.BufferSize)
	}
	return nil
}

// Reader decompresses a divans stream.
type Reader struct {
	r   io.Reader
	dec *codec.Decoder
	in  []byte
	// unread input is in[start:end]
	start, end int
	eof        bool
	err        error
}

// NewReader creates a reader using the default configuration.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderConfig(r, ReaderConfig{})
}

// NewReaderConfig reads the stream header and creates the reader.
func NewReaderConfig(r io.Reader, cfg ReaderConfig) (*Reader, error) {
	if r == nil {
		return nil, errors.New("divans: reader must be not nil")
	}
	if err := cfg.Verify(); err != nil {
		return nil, err
	}
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	dec, err := codec.NewDecoder(codec.Config{
		WindowBits: h.windowBits,
		Coder:      h.coder,
		Dictionary: cfg.Dictionary,
	})
	if err != nil {
		return nil, err
	}
	return &Reader{r: r, dec: dec, in: make([]byte, cfg.BufferSize)}, nil
}

// fill reads more input into the empty input buffer.
func (r *Reader) fill() error {
	k, err := r.r.Read(r.in)
	r.start, r.end = 0, k
	if err == io.EOF {
		r.eof = true
		return nil
	}
	return err
}

// Read decompresses data into p. It returns io.EOF after the checksum of
// the stream has been verified.
func (r *Reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if r.start == r.end && !r.eof {
			if err = r.fill(); err != nil {
				r.err = err
				return n, err
			}
		}
		nin, nout, res := r.dec.Decode(r.in[r.start:r.end], p[n:])
		r.start += nin
		n += nout
		switch res {
		case codec.Success:
			r.err = io.EOF
			return n, r.err
		case codec.NeedsMoreOutput:
			return n, nil
		case codec.Failure:
			r.err = errors.Wrap(r.dec.Err(), "divans: decoding failed")
			return n, r.err
		}
		// more input required
		if r.start == r.end && r.eof {
			r.err = io.ErrUnexpectedEOF
			return n, r.err
		}
		if n > 0 {
			return n, nil
		}
	}
}
