// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package corpus loads test corpora and measures the compression of
// their files.
package corpus

import (
	"bytes"
	"io"
	"io/fs"

	"github.com/dropbox/divans-sub000"
)

// File is a corpus file held in memory.
type File struct {
	Name string
	Data []byte
}

// Files reads all regular files of the corpus.
func Files(corpus fs.FS) (files []File, err error) {
	err = fs.WalkDir(corpus, ".",
		func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if entry.IsDir() {
				return nil
			}
			data, err := fs.ReadFile(corpus, path)
			if err != nil {
				return err
			}
			files = append(files, File{Name: path, Data: data})
			return nil
		})
	return files, err
}

// Size returns the total size of the files.
func Size(files []File) int64 {
	n := int64(0)
	for _, f := range files {
		n += int64(len(f.Data))
	}
	return n
}

type countWriter struct {
	n int64
}

func (w *countWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	w.n += int64(n)
	return n, nil
}

// CompressedSize compresses every file separately and returns the sum of
// the compressed sizes.
func CompressedSize(files []File, cfg divans.WriterConfig) (n int64,
	err error) {
	for _, f := range files {
		cw := &countWriter{}
		w, err := divans.NewWriterConfig(cw, cfg)
		if err != nil {
			return n, err
		}
		_, err = io.Copy(w, bytes.NewReader(f.Data))
		if err == nil {
			err = w.Close()
		}
		n += cw.n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
