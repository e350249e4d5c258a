// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package xlog provides the Logger interface used for the debug output of the
codec packages.

The log.Logger type of the standard library satisfies the interface but
can't be switched off; calling its methods on a nil pointer panics. The
functions in this package accept a nil Logger and do nothing in that case,
so a package keeps a single logger variable that is nil unless debugging
has been requested. Formatting is skipped as well if the logger is nil,
which keeps the disabled debug statements cheap inside the coding loops.
*/
package xlog

import (
	"fmt"
	"io"
	"log"
)

// Logger is the interface the package functions write to. The log.Logger
// type supports this interface.
type Logger interface {
	Output(calldepth int, s string) error
}

// New returns a logger writing to w with the given prefix. It returns nil
// if w is nil, so the result disables output in that case.
func New(w io.Writer, prefix string) Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, 0)
}

// Print outputs the arguments using the logger. If the logger is nil
// nothing will be printed.
func Print(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprint(v...))
	}
}

// Printf prints the arguments using the format string. If the logger
// argument is nil nothing will be printed.
func Printf(l Logger, format string, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintf(format, v...))
	}
}

// Println prints the arguments and adds a newline. If the logger argument
// is nil nothing will be printed.
func Println(l Logger, v ...interface{}) {
	if l != nil {
		l.Output(2, fmt.Sprintln(v...))
	}
}
