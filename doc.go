// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package divans supports the compression and decompression of divans
// streams. A stream consists of an 11-byte header followed by the coded
// command stream of the codec package and the CRC-32 of the uncompressed
// data.
//
// The writer doesn't search for matches. It codes repeated bytes as copies
// and everything else as literals, so the compression relies on the
// adaptive context models of the codec.
package divans
