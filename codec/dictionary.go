// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import "bytes"

// Limits of the dictionary word size.
const (
	MinWordSize = 4
	MaxWordSize = 34
)

// Dictionary resolves dictionary commands into bytes.
type Dictionary interface {
	// Word returns the transformed word. The boolean is false if the
	// word or the transform doesn't exist.
	Word(wordSize uint8, wordID uint32, transform uint8) ([]byte, bool)
}

// Transforms supported by WordList.
const (
	TransformIdentity = iota
	TransformUppercaseFirst
	TransformUppercaseAll
	TransformPrefixSpace
	TransformSuffixSpace
	numTransforms
)

// WordList is a simple dictionary. Words are grouped by their length and
// numbered in the order they were added.
type WordList struct {
	words [MaxWordSize + 1][][]byte
}

// NewWordList creates a dictionary from the given words. Words outside
// the supported size range are ignored.
func NewWordList(words ...string) *WordList {
	l := new(WordList)
	for _, w := range words {
		l.Add([]byte(w))
	}
	return l
}

// Add appends the word to the list of its size and returns its id. It
// returns false if the size is not supported.
func (l *WordList) Add(w []byte) (id uint32, ok bool) {
	n := len(w)
	if !(MinWordSize <= n && n <= MaxWordSize) {
		return 0, false
	}
	l.words[n] = append(l.words[n], append([]byte(nil), w...))
	return uint32(len(l.words[n]) - 1), true
}

// Lookup finds the id of a word.
func (l *WordList) Lookup(w []byte) (id uint32, ok bool) {
	n := len(w)
	if !(MinWordSize <= n && n <= MaxWordSize) {
		return 0, false
	}
	for i, v := range l.words[n] {
		if bytes.Equal(v, w) {
			return uint32(i), true
		}
	}
	return 0, false
}

// Word returns the transformed word.
func (l *WordList) Word(wordSize uint8, wordID uint32,
	transform uint8) ([]byte, bool) {
	if int(wordSize) > MaxWordSize || transform >= numTransforms {
		return nil, false
	}
	list := l.words[wordSize]
	if uint64(wordID) >= uint64(len(list)) {
		return nil, false
	}
	w := list[wordID]
	switch transform {
	case TransformUppercaseFirst:
		r := append([]byte(nil), w...)
		r[0] = upper(r[0])
		return r, true
	case TransformUppercaseAll:
		r := make([]byte, len(w))
		for i, c := range w {
			r[i] = upper(c)
		}
		return r, true
	case TransformPrefixSpace:
		return append([]byte{' '}, w...), true
	case TransformSuffixSpace:
		return append(append([]byte(nil), w...), ' '), true
	}
	return w, true
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
