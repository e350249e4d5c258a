// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000"
)

const divansSuffix = ".divans"

type packer interface {
	outputPaths(path string) (outputPath, tmpPath string, err error)
	pack(w io.Writer, r io.Reader, opts *options) (n int64, err error)
}

type compressor struct{}

func (p compressor) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if path == "" {
		return "", "", errors.New("path is empty")
	}
	if strings.HasSuffix(path, divansSuffix) {
		return "", "", errors.Errorf("path %s has suffix %s -- ignored",
			path, divansSuffix)
	}
	out = path + divansSuffix
	return out, out + ".pack", nil
}

func (p compressor) pack(w io.Writer, r io.Reader, opts *options) (n int64,
	err error) {
	bw := bufio.NewWriter(w)
	dw, err := divans.NewWriterConfig(bw, opts.wcfg)
	if err != nil {
		return 0, err
	}
	if n, err = io.Copy(dw, r); err != nil {
		return n, err
	}
	if err = dw.Close(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}

type decompressor struct{}

func (u decompressor) outputPaths(path string) (out, tmp string, err error) {
	if path == "-" {
		return "-", "-", nil
	}
	if !strings.HasSuffix(path, divansSuffix) {
		return "", "", errors.Errorf("path %s has no suffix %s",
			path, divansSuffix)
	}
	if filepath.Base(path) == divansSuffix {
		return "", "", errors.Errorf(
			"path %s has only suffix %s as filename",
			path, divansSuffix)
	}
	out = path[:len(path)-len(divansSuffix)]
	return out, out + ".unpack", nil
}

func (u decompressor) pack(w io.Writer, r io.Reader, opts *options) (n int64,
	err error) {
	dr, err := divans.NewReader(bufio.NewReader(r))
	if err != nil {
		return 0, err
	}
	return io.Copy(w, dr)
}

// signalHandler removes the temporary file if the program is interrupted.
func signalHandler(tmpPath string) chan<- struct{} {
	quit := make(chan struct{})
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt)
	go func() {
		select {
		case <-quit:
			signal.Stop(sigch)
		case <-sigch:
			if tmpPath != "-" {
				os.Remove(tmpPath)
			}
			os.Exit(7)
		}
	}()
	return quit
}

func packFile(pck packer, path, tmpPath string, opts *options) (err error) {
	// open reader
	var r *os.File
	if path == "-" {
		r = os.Stdin
	} else {
		fi, err := os.Lstat(path)
		if err != nil {
			return err
		}
		if !fi.Mode().IsRegular() {
			return fmt.Errorf("%s is not a regular file", path)
		}
		if r, err = os.Open(path); err != nil {
			return err
		}
		defer r.Close()
	}

	// open writer
	var w *os.File
	if tmpPath == "-" {
		w = os.Stdout
	} else {
		if opts.force {
			os.Remove(tmpPath)
		}
		w, err = os.OpenFile(tmpPath,
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0666)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := w.Close(); err == nil {
				err = cerr
			}
		}()
	}

	_, err = pck.pack(w, r, opts)
	return err
}

// userPathError represents a path error presentable to a user. It drops
// the operation of os.PathError.
type userPathError struct {
	Path string
	Err  error
}

// Error provides the error string for the path error.
func (e *userPathError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// userError converts a path error into an error message for the user.
func userError(err error) error {
	pe, ok := errors.Cause(err).(*os.PathError)
	if !ok {
		return err
	}
	return &userPathError{Path: pe.Path, Err: pe.Err}
}

// processFile compresses or decompresses a single file. It returns false
// if the operation failed.
func processFile(path string, opts *options) bool {
	var pck packer
	if opts.decompress {
		pck = decompressor{}
	} else {
		pck = compressor{}
	}
	outputPath, tmpPath, err := pck.outputPaths(path)
	if err != nil {
		log.Print(userError(err))
		return false
	}
	if opts.stdout {
		outputPath, tmpPath = "-", "-"
	}
	if outputPath != "-" {
		_, err = os.Lstat(outputPath)
		if err == nil && !opts.force {
			log.Printf("file %s exists", outputPath)
			return false
		}
	}
	defer func() {
		if tmpPath != "-" {
			os.Remove(tmpPath)
		}
	}()
	quit := signalHandler(tmpPath)
	defer close(quit)

	if err = packFile(pck, path, tmpPath, opts); err != nil {
		log.Print(userError(err))
		return false
	}
	if tmpPath != "-" && outputPath != "-" {
		if err = os.Rename(tmpPath, outputPath); err != nil {
			log.Print(userError(err))
			return false
		}
	}
	if !opts.keep && !opts.stdout && path != "-" {
		if err = os.Remove(path); err != nil {
			log.Print(userError(err))
			return false
		}
	}
	return true
}
