// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package divans

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"

	"github.com/pkg/errors"

	"github.com/dropbox/divans-sub000/codec"
)

/*** Header ***/

// headerMagic stores the magic bytes of the stream header.
var headerMagic = []byte{0xff, 'D', 'V', 'N'}

// formatVersion is the only supported version of the stream format.
const formatVersion = 1

// headerLen is the length of the stream header: magic, version, coder,
// window bits and the CRC-32 of the three bytes before.
const headerLen = 4 + 3 + 4

// errHeaderMagic indicates that the input is not a divans stream.
var errHeaderMagic = errors.New("divans: invalid header magic")

// header describes the parameters of the codec stream.
type header struct {
	coder      codec.CoderKind
	windowBits int
}

// MarshalBinary converts the header into its binary representation.
func (h header) MarshalBinary() (data []byte, err error) {
	if h.coder > codec.CoderBit {
		return nil, errors.Errorf("divans: unsupported coder %d", h.coder)
	}
	if !(codec.MinWindowBits <= h.windowBits &&
		h.windowBits <= codec.MaxWindowBits) {
		return nil, errors.Errorf("divans: window bits %d out of range",
			h.windowBits)
	}
	data = make([]byte, headerLen)
	copy(data, headerMagic)
	data[4] = formatVersion
	data[5] = byte(h.coder)
	data[6] = byte(h.windowBits)
	binary.LittleEndian.PutUint32(data[7:], crc32.ChecksumIEEE(data[4:7]))
	return data, nil
}

// UnmarshalBinary reads the header from its binary representation.
func (h *header) UnmarshalBinary(data []byte) error {
	if len(data) != headerLen {
		return errors.New("divans: wrong header length")
	}
	if !bytes.Equal(headerMagic, data[:4]) {
		return errHeaderMagic
	}
	if binary.LittleEndian.Uint32(data[7:]) !=
		crc32.ChecksumIEEE(data[4:7]) {
		return errors.New("divans: invalid checksum for header")
	}
	if data[4] != formatVersion {
		return errors.Errorf("divans: unsupported format version %d",
			data[4])
	}
	h.coder = codec.CoderKind(data[5])
	h.windowBits = int(data[6])
	if h.coder > codec.CoderBit {
		return errors.Errorf("divans: unsupported coder %d", h.coder)
	}
	if !(codec.MinWindowBits <= h.windowBits &&
		h.windowBits <= codec.MaxWindowBits) {
		return errors.Errorf("divans: window bits %d out of range",
			h.windowBits)
	}
	return nil
}

// writeHeader writes the stream header.
func writeHeader(w io.Writer, h header) (n int, err error) {
	p, err := h.MarshalBinary()
	if err != nil {
		return 0, err
	}
	return w.Write(p)
}

// readHeader reads the stream header.
func readHeader(r io.Reader) (h header, err error) {
	p := make([]byte, headerLen)
	if _, err = io.ReadFull(r, p); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return h, err
	}
	err = h.UnmarshalBinary(p)
	return h, err
}

// ValidHeader checks whether p starts with a divans stream header.
func ValidHeader(p []byte) bool {
	if len(p) < headerLen {
		return false
	}
	var h header
	return h.UnmarshalBinary(p[:headerLen]) == nil
}
