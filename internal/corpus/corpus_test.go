// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package corpus

import (
	"bytes"
	"crypto/sha256"
	"io"
	"testing"
	"testing/fstest"

	"github.com/ulikunitz/zdata"

	"github.com/dropbox/divans-sub000"
	"github.com/dropbox/divans-sub000/codec"
)

func TestFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"a.txt":     {Data: []byte("hello")},
		"dir/b.bin": {Data: []byte{1, 2, 3}},
	}
	files, err := Files(fsys)
	if err != nil {
		t.Fatalf("Files error %s", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files; want 2", len(files))
	}
	if n := Size(files); n != 8 {
		t.Fatalf("Size returned %d; want 8", n)
	}
	n, err := CompressedSize(files, divans.WriterConfig{})
	if err != nil {
		t.Fatalf("CompressedSize error %s", err)
	}
	if n <= 0 {
		t.Fatalf("CompressedSize returned %d", n)
	}
}

func TestSilesia(t *testing.T) {
	if testing.Short() {
		t.Skip("Silesia corpus skipped in short mode")
	}
	configs := []struct {
		name string
		cfg  divans.WriterConfig
	}{
		{"nibble", divans.WriterConfig{}},
		{"bit", divans.WriterConfig{
			Codec: codec.Config{Coder: codec.CoderBit},
		}},
	}

	files, err := Files(zdata.Silesia)
	if err != nil {
		t.Fatalf("Files(zdata.Silesia) error %s", err)
	}

	for _, c := range configs {
		c := c
		for _, f := range files {
			f := f
			t.Run(c.name+":"+f.Name, func(t *testing.T) {
				s := sha256.Sum256(f.Data)
				hsum := s[:]

				buf := new(bytes.Buffer)
				w, err := divans.NewWriterConfig(buf, c.cfg)
				if err != nil {
					t.Fatalf("divans.NewWriterConfig error %s",
						err)
				}
				_, err = io.Copy(w, bytes.NewReader(f.Data))
				if err != nil {
					t.Fatalf("%s: io.Copy compression error %s",
						f.Name, err)
				}
				if err = w.Close(); err != nil {
					t.Fatalf("%s: w.Close() error %s",
						f.Name, err)
				}
				t.Logf("%s: %d -> %d bytes", f.Name, len(f.Data),
					buf.Len())

				h := sha256.New()
				r, err := divans.NewReader(buf)
				if err != nil {
					t.Fatalf("%s: divans.NewReader error %s",
						f.Name, err)
				}
				if _, err = io.Copy(h, r); err != nil {
					t.Fatalf("%s: io.Copy decompression error %s",
						f.Name, err)
				}
				gsum := h.Sum(nil)
				if !bytes.Equal(gsum, hsum) {
					t.Errorf("%s: got %x; want %x",
						f.Name, gsum, hsum)
				}
			})
		}
	}
}
