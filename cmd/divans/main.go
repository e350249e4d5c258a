// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command divans compresses and decompresses files in the divans format.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kr/pretty"
	"github.com/ogier/pflag"

	"github.com/dropbox/divans-sub000"
	"github.com/dropbox/divans-sub000/codec"
)

const usageStr = `Usage: divans [OPTION]... [FILE]...
Compress or uncompress FILEs in the .divans format (by default, compress
FILES in place).

  -c, --stdout      write to standard output and don't delete input files
  -d, --decompress  force decompression
  -f, --force       force overwrite of output file
  -h, --help        give this help
  -k, --keep        keep (don't delete) input files
  -v, --verbose     print the configuration
      --coder NAME  entropy coder: nibble (default) or bit
      --window N    base-2 logarithm of the window size (10..24)
      --debug       trace the coded commands on standard error

With no file, or when FILE is -, read standard input.
`

func usage(w io.Writer) {
	fmt.Fprint(w, usageStr)
}

// options collects the flags relevant for processing a file.
type options struct {
	stdout     bool
	decompress bool
	force      bool
	keep       bool
	wcfg       divans.WriterConfig
}

func parseCoder(s string) (codec.CoderKind, error) {
	switch s {
	case "nibble":
		return codec.CoderNibble, nil
	case "bit":
		return codec.CoderBit, nil
	}
	return 0, fmt.Errorf("unknown coder %q", s)
}

func main() {
	// setup logger
	cmdName := filepath.Base(os.Args[0])
	log.SetPrefix(fmt.Sprintf("%s: ", cmdName))
	log.SetFlags(0)

	// initialize flags
	pflag.CommandLine = pflag.NewFlagSet(cmdName, pflag.ExitOnError)
	pflag.SetInterspersed(true)
	pflag.Usage = func() { usage(os.Stderr); os.Exit(1) }
	var (
		help       = pflag.BoolP("help", "h", false, "")
		stdout     = pflag.BoolP("stdout", "c", false, "")
		decompress = pflag.BoolP("decompress", "d", false, "")
		force      = pflag.BoolP("force", "f", false, "")
		keep       = pflag.BoolP("keep", "k", false, "")
		verbose    = pflag.BoolP("verbose", "v", false, "")
		coder      = pflag.String("coder", "nibble", "")
		window     = pflag.Int("window", codec.DefaultWindowBits, "")
		debug      = pflag.Bool("debug", false, "")
	)
	pflag.Parse()

	if *help {
		usage(os.Stdout)
		os.Exit(0)
	}

	opts := options{
		stdout:     *stdout,
		decompress: *decompress,
		force:      *force,
		keep:       *keep,
	}
	kind, err := parseCoder(*coder)
	if err != nil {
		log.Fatal(err)
	}
	opts.wcfg.Codec = codec.Config{Coder: kind, WindowBits: *window}
	if err = opts.wcfg.Verify(); err != nil {
		log.Fatal(err)
	}
	if *verbose {
		log.Printf("configuration %# v", pretty.Formatter(opts.wcfg))
	}
	if *debug {
		codec.SetDebug(os.Stderr)
	}

	args := pflag.Args()
	if len(args) == 0 {
		args = []string{"-"}
	}
	exit := 0
	for _, path := range args {
		if !processFile(path, &opts) {
			exit = 1
		}
	}
	os.Exit(exit)
}
