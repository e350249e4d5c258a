// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestOutputPaths(t *testing.T) {
	out, tmp, err := compressor{}.outputPaths("a.txt")
	if err != nil || out != "a.txt.divans" || tmp != "a.txt.divans.pack" {
		t.Fatalf("compressor paths %q %q %v", out, tmp, err)
	}
	if _, _, err = (compressor{}).outputPaths("a.divans"); err == nil {
		t.Fatalf("compressor accepted a .divans file")
	}
	out, tmp, err = decompressor{}.outputPaths("a.txt.divans")
	if err != nil || out != "a.txt" || tmp != "a.txt.unpack" {
		t.Fatalf("decompressor paths %q %q %v", out, tmp, err)
	}
	if _, _, err = (decompressor{}).outputPaths("dir/.divans"); err == nil {
		t.Fatalf("decompressor accepted a bare suffix")
	}
	if _, _, err = (decompressor{}).outputPaths("a.txt"); err == nil {
		t.Fatalf("decompressor accepted a file without suffix")
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	data := bytes.Repeat([]byte("divans compresses this line.\n"), 200)
	if err := os.WriteFile(path, data, 0666); err != nil {
		t.Fatalf("WriteFile error %s", err)
	}
	opts := options{}
	if err := opts.wcfg.Verify(); err != nil {
		t.Fatalf("Verify error %s", err)
	}
	if !processFile(path, &opts) {
		t.Fatalf("compression of %s failed", path)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("input file not removed")
	}
	opts.decompress = true
	if !processFile(path+divansSuffix, &opts) {
		t.Fatalf("decompression failed")
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error %s", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("decompressed file differs")
	}
}
