// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tfuse implements spec.md §4.4's fusion analyzer: the axis-group
// collapsibility test that decides whether a view's axes can be
// reinterpreted as one contiguous axis, and a role-based
// BLAS-contractability test over two axis groups. The contract kernel
// (package tkernel) calls CanFuse directly on each operand's axis groups to
// decide whether a view can go to tblas.Gemm without a copy; it does not
// call IsBLASContractable. There is no teacher file for this exact test (it is internal to
// gonum's mat.Dense rather than exposed), so this package is grounded on
// the row-major stride arithmetic gonum.org/v1/gonum/blas64's General
// (Stride = Cols, row-major, contiguous) generalizes from: fusability here
// is exactly the N-dimensional generalization of "this view's Stride
// equals its own Cols", i.e. that there's no gap between rows.
package tfuse

// CanFuse walks axes outward-in (last axis first, matching row-major
// storage order) and reports whether the whole group collapses into one
// contiguous axis, per spec.md §4.4: size-0 axes fuse trivially, size-1
// axes are skipped, and adjacent axes (s_i, d_i), (s_{i+1}, d_{i+1}) fuse
// when d_{i+1} == s_i * d_i. On success it also returns the group's total
// element count and leading (smallest-magnitude, i.e. last-axis) stride.
func CanFuse(sizes, strides []int) (fusable bool, total, leadingStride int) {
	n := len(sizes)
	if n == 0 {
		return true, 1, 1
	}
	for _, s := range sizes {
		if s == 0 {
			return true, 0, strides[0]
		}
	}
	// Find the last axis with size > 1 to anchor the leading stride; an
	// all-size-1 group is trivially fusable with any nominal stride.
	last := -1
	for i := n - 1; i >= 0; i-- {
		if sizes[i] != 1 {
			last = i
			break
		}
	}
	if last == -1 {
		return true, 1, strides[n-1]
	}
	total = sizes[last]
	leadingStride = strides[last]
	for i := last - 1; i >= 0; i-- {
		if sizes[i] == 1 {
			continue
		}
		if strides[i] != total*leadingStride {
			return false, 0, 0
		}
		total *= sizes[i]
	}
	return true, total, leadingStride
}

// Role describes how a BLAS-contractable group of axes participates in a
// matmul, per spec.md §4.4.
type Role int

const (
	// RoleDestination is C's role: the output of a matmul.
	RoleDestination Role = iota
	// RoleConjugatedSource is an operand read with op = conj, which BLAS
	// expresses via a transposed (ConjTrans) read rather than
	// materializing the conjugate.
	RoleConjugatedSource
	// RolePlainSource is an operand read with op = identity.
	RolePlainSource
)

// Group describes one axis-position group (e.g. the "open" axes or the
// "contracted" axes of an operand) by its sizes and strides in the order
// those axes are considered for fusion.
type Group struct {
	Sizes   []int
	Strides []int
}

// IsBLASContractable reports whether a view, split into the two axis
// groups p1 (interpreted as the BLAS-matrix's row axis) and p2 (its column
// axis), can be reshaped for a direct tblas.Gemm call without
// materializing a temporary, per spec.md §4.4:
//
//   - destination: p2's leading stride is 1 (row-major General stores
//     (M,N) with the trailing column axis contiguous). The elementwise op
//     is not part of Group and is not checked here.
//   - conjugated-source: p2's leading stride is 1 (transposed orientation,
//     since BLAS expresses "read with conj" as ConjTrans of the
//     contiguous-by-column layout).
//   - plain-source: at least one of the two leading strides is 1.
func IsBLASContractable(p1, p2 Group, role Role) bool {
	f1, _, lead1 := CanFuse(p1.Sizes, p1.Strides)
	f2, _, lead2 := CanFuse(p2.Sizes, p2.Strides)
	if !f1 || !f2 {
		return false
	}
	switch role {
	case RoleDestination:
		return lead2 == 1
	case RoleConjugatedSource:
		return lead2 == 1
	case RolePlainSource:
		return lead1 == 1 || lead2 == 1
	default:
		return false
	}
}
