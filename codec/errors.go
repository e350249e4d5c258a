// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "github.com/pkg/errors"

// Errors reported by the codec. All of them are fatal for the stream; a
// desynchronized entropy coder cannot be resumed.
var (
	ErrCommandType    = errors.New("codec: invalid command type")
	ErrDistance       = errors.New("codec: distance out of range")
	ErrContextMapSize = errors.New("codec: context map index out of range")
	ErrPredictionMode = errors.New("codec: invalid prediction mode")
	ErrChecksum       = errors.New("codec: checksum mismatch")
	ErrReserved       = errors.New("codec: reserved code")
	ErrDictionary     = errors.New("codec: dictionary word not available")
	ErrInvalidCommand = errors.New("codec: invalid command")
	ErrClosed         = errors.New("codec: encoder closed")
)
