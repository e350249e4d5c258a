// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"io"

	"github.com/dropbox/divans-sub000/xlog"
)

// debug is the package logger. It is nil unless SetDebug has been called
// with a writer.
var debug xlog.Logger

// SetDebug directs the trace of the coded commands to w. A nil writer
// switches the trace off. The function must not be called while encoders
// or decoders are running.
func SetDebug(w io.Writer) {
	debug = xlog.New(w, "codec: ")
}

func logCommand(dir string, cmd Command) {
	if debug == nil {
		return
	}
	xlog.Printf(debug, "%s %v", dir, cmd)
}
