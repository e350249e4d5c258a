// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

// Result tells the caller of a coding step how to continue.
type Result uint8

const (
	// Success means the requested work is complete.
	Success Result = iota
	// NeedsMoreInput asks the caller to supply more compressed bytes.
	NeedsMoreInput
	// NeedsMoreOutput asks the caller to provide more output space.
	NeedsMoreOutput
	// Failure means the stream is broken; Err returns the cause.
	Failure
)

var resultNames = [...]string{"Success", "NeedsMoreInput",
	"NeedsMoreOutput", "Failure"}

// String returns the name of the result.
func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "Result(?)"
}
