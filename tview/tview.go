// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tview is the strided-view collaborator spec.md's External
// Interfaces section treats as "out of scope, specified only by
// interface": size, stride, offset, an elementwise op, permutedims and
// sreshape. The pack has no single view library this grounds on cleanly
// (the view abstraction is, per spec.md, meant to be supplied by a
// separate project entirely), so View's shape follows the
// stride/offset/Data layout gonum.org/v1/gonum/mat64's Dense type uses
// internally (row-major-equivalent flat storage addressed by an affine
// stride map) generalized from 2 dimensions to N, with the Data-backed
// escape hatch for BLAS reshape that mat64.Dense's own .RawMatrix()
// convention provides for its 2-D case.
package tview

import "math/cmplx"

// Op is the elementwise operation a view applies when its elements are
// read: identity or complex conjugation (spec.md §3's conjugation flag,
// restricted at the view layer to the two operations a raw strided read
// can apply without first materializing anything).
type Op int

const (
	OpIdentity Op = iota
	OpConj
)

// Numeric is the set of element types the contraction engine supports.
// BLAS-contractable element types (float64, complex128) are a strict
// subset, tested with IsBLASType.
type Numeric interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64 | ~complex64 | ~complex128
}

// ApplyOp applies op to v.
func ApplyOp[T Numeric](op Op, v T) T {
	if op == OpIdentity {
		return v
	}
	switch x := any(v).(type) {
	case complex128:
		return any(cmplx.Conj(x)).(T)
	case complex64:
		return any(complex64(cmplx.Conj(complex128(x)))).(T)
	default:
		// conj is identity on real types.
		return v
	}
}

// IsBLASType reports whether T is a type tblas has a native matmul kernel
// for (float64 or complex128); spec.md §4.7 restricts the BLAS path to
// "the element type of C is a BLAS float".
func IsBLASType[T Numeric]() bool {
	var zero T
	switch any(zero).(type) {
	case float64, complex128:
		return true
	default:
		return false
	}
}

// View is a strided, possibly-offset window over a flat backing array,
// carrying an elementwise op, matching spec.md §3's Tensor operand: "a
// rank-N multidimensional array... presented through a strided view
// carrying size, stride, offset, and an elementwise op".
type View[T Numeric] interface {
	// Rank is the number of axes.
	Rank() int
	// Size returns the extent of the given axis.
	Size(axis int) int
	// Sizes returns the extents of all axes, in order.
	Sizes() []int
	// Stride returns the backing-array step of the given axis.
	Stride(axis int) int
	// Strides returns the backing-array steps of all axes, in order.
	Strides() []int
	// Offset is the backing-array index of element (0, 0, ..., 0).
	Offset() int
	// ElemOp is the elementwise op applied on read.
	ElemOp() Op
	// At returns op(backing[offset + sum(idx[k]*stride(k))]).
	At(idx ...int) T
	// Set writes v into the backing array at the given index, ignoring
	// ElemOp (writes are always raw; spec.md's kernels only ever apply op
	// to sources, never to the destination they accumulate into).
	Set(v T, idx ...int)
	// Permutedims returns a view of the same backing array with axes
	// reordered by perm: result.Size(k) == v.Size(perm[k]).
	Permutedims(perm []int) View[T]
	// Sreshape returns a view of the same backing array with the given
	// new shape, and true, iff the requested shape is consistent with a
	// fusable reinterpretation of the current strides (see package
	// tfuse); otherwise it returns nil, false.
	Sreshape(newSizes []int) (View[T], bool)
	// RawData exposes the flat backing slice and its strides/offset
	// directly, for the BLAS reshape path (§4.7) and the fusion analyzer
	// (§4.4), which both need to reason about raw strides rather than
	// go through per-element At/Set calls.
	RawData() (data []T, offset int, strides []int)
}
