// Copyright 2026 The Divans Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"fmt"

	"github.com/dropbox/divans-sub000/prob"
)

// Billing identifies the field a prior belongs to.
type Billing uint8

// Billing categories.
const (
	BillCommandType Billing = iota
	BillCopyCountSmall
	BillCopyCountFirst
	BillCopyCountMid
	BillCopyMantissa
	BillDistanceMnemonic
	BillDistanceBitLen
	BillDistanceMantissa
	BillLiteralCountSmall
	BillLiteralCountFirst
	BillLiteralCountMid
	BillLiteralMantissa
	BillLiteralStride
	BillLiteralContextMap
	BillDictWordSize
	BillDictCountSmall
	BillDictCountFirst
	BillDictCountMid
	BillDictMantissa
	BillDictTransform
	BillBlockSwitchType
	BillBlockSwitchExplicit
	BillBlockSwitchStride
	BillPredictionMode
	BillSpeed
	BillContextMapCountSmall
	BillContextMapCountFirst
	BillContextMapCountMid
	BillContextMapMantissa
	BillContextMapEntry
	BillContextMapExplicit
	numBillings
)

var billingNames = [numBillings]string{
	"CommandType",
	"CopyCountSmall", "CopyCountFirst", "CopyCountMid", "CopyMantissa",
	"DistanceMnemonic", "DistanceBitLen", "DistanceMantissa",
	"LiteralCountSmall", "LiteralCountFirst", "LiteralCountMid",
	"LiteralMantissa", "LiteralStride", "LiteralContextMap",
	"DictWordSize", "DictCountSmall", "DictCountFirst", "DictCountMid",
	"DictMantissa", "DictTransform",
	"BlockSwitchType", "BlockSwitchExplicit", "BlockSwitchStride",
	"PredictionMode", "Speed",
	"ContextMapCountSmall", "ContextMapCountFirst", "ContextMapCountMid",
	"ContextMapMantissa", "ContextMapEntry", "ContextMapExplicit",
}

// String returns the name of the billing category.
func (b Billing) String() string {
	if b < numBillings {
		return billingNames[b]
	}
	return fmt.Sprintf("Billing(%d)", uint8(b))
}

// Shape declares the two-dimensional index space of a billing category.
type Shape struct {
	Billing Billing
	I, J    int
}

// PriorCollection is a flat arena of priors. The offset of every billing
// category is computed once from the shapes.
type PriorCollection[T any] struct {
	items  []T
	offset [numBillings]int
	dims   [numBillings][2]int
}

// NewPriorCollection allocates the priors for the given shapes and
// initializes every element with init.
func NewPriorCollection[T any](shapes []Shape, init func() T) *PriorCollection[T] {
	p := new(PriorCollection[T])
	n := 0
	for _, s := range shapes {
		if s.I <= 0 || s.J <= 0 {
			panic("codec: invalid prior shape")
		}
		p.offset[s.Billing] = n
		p.dims[s.Billing] = [2]int{s.I, s.J}
		n += s.I * s.J
	}
	p.items = make([]T, n)
	for i := range p.items {
		p.items[i] = init()
	}
	return p
}

// Len returns the total number of priors.
func (p *PriorCollection[T]) Len() int { return len(p.items) }

// At returns the prior of the billing category at the index (i, j). The
// function panics if the index is out of range.
func (p *PriorCollection[T]) At(b Billing, i, j int) *T {
	d := p.dims[b]
	if !(0 <= i && i < d[0] && 0 <= j && j < d[1]) {
		panic(fmt.Sprintf("codec: prior index (%d,%d) out of range "+
			"for %s %v", i, j, b, d))
	}
	return &p.items[p.offset[b]+i*d[1]+j]
}

// frequentistShapes lists the priors using the frequentist model.
var frequentistShapes = []Shape{
	{BillCommandType, 16, 16},
	{BillCopyCountSmall, 16, 1},
	{BillCopyCountFirst, 16, 1},
	{BillCopyCountMid, 16, 1},
	{BillCopyMantissa, 16, 16},
	{BillDistanceMnemonic, 256, 1},
	{BillDistanceBitLen, 2, 1},
	{BillDistanceMantissa, 32, 8},
	{BillLiteralCountSmall, 16, 1},
	{BillLiteralCountFirst, 16, 1},
	{BillLiteralCountMid, 16, 1},
	{BillLiteralMantissa, 16, 16},
	{BillLiteralStride, 256, 17},
	{BillDictWordSize, 1, 2},
	{BillDictCountSmall, 1, 1},
	{BillDictCountFirst, 1, 1},
	{BillDictCountMid, 1, 1},
	{BillDictMantissa, 16, 16},
	{BillDictTransform, 1, 17},
	{BillBlockSwitchType, int(numBlockSwitchKinds), 1},
	{BillBlockSwitchExplicit, int(numBlockSwitchKinds), 17},
	{BillBlockSwitchStride, 1, 1},
	{BillPredictionMode, 1, 1},
	{BillSpeed, 2, 1},
	{BillContextMapCountSmall, 2, 1},
	{BillContextMapCountFirst, 2, 1},
	{BillContextMapCountMid, 2, 1},
	{BillContextMapMantissa, 16, 16},
	{BillContextMapEntry, 2, 1},
	{BillContextMapExplicit, 2, 17},
}

// blendShapes lists the priors using the blend model.
var blendShapes = []Shape{
	{BillLiteralContextMap, 256, 17},
}

// priors holds all adaptive state of a coding session.
type priors struct {
	freq        *PriorCollection[prob.FrequentistCDF16]
	blend       *PriorCollection[prob.BlendCDF16]
	highEntropy [256]prob.CDF2
	// mixing weights for the high and the low nibble of a literal
	weights [2]prob.Weights
}

func newPriors() *priors {
	p := &priors{
		freq: NewPriorCollection(frequentistShapes,
			prob.NewFrequentistCDF16),
		blend: NewPriorCollection(blendShapes, prob.NewBlendCDF16),
	}
	for i := range p.highEntropy {
		p.highEntropy[i] = prob.NewCDF2()
	}
	for i := range p.weights {
		p.weights[i] = prob.NewWeights()
	}
	return p
}
