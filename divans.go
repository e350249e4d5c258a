// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"bytes"
	"io"
)

// Compress compresses p into a complete divans stream.
func Compress(p []byte, cfg WriterConfig) ([]byte, error) {
	var buf bytes.Buffer
	w, err := NewWriterConfig(&buf, cfg)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(p); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decompress decompresses a complete divans stream.
func Decompress(p []byte, cfg ReaderConfig) ([]byte, error) {
	r, err := NewReaderConfig(bytes.NewReader(p), cfg)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err = io.Copy(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
