// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cmplxs provides a small set of allocation-free helper routines for
// dealing with slices of complex128. package tview's Dense.MaterializeOp
// uses ConjTo to bulk-conjugate a complex128 tensor's whole backing array in
// one pass when its elementwise op needs baking in before a caller (such as
// tkernel's BLAS-backed axpby fast path) reads the raw slice directly,
// rather than looping by hand over ApplyOp at every element.
//
// The convention used is that when a slice is being modified in place, it has
// the name dst.
package cmplxs // import "github.com/tensorcontract/tcontract/cmplxs"

import "math/cmplx"

const badLength = "cmplxs: slice lengths do not match"

// Conj replaces each element of dst with its complex conjugate.
func Conj(dst []complex128) {
	for i, v := range dst {
		dst[i] = cmplx.Conj(v)
	}
}

// ConjTo stores the complex conjugate of each element of s into dst.
// It panics if the argument lengths do not match.
func ConjTo(dst, s []complex128) []complex128 {
	if len(dst) != len(s) {
		panic(badLength)
	}
	for i, v := range s {
		dst[i] = cmplx.Conj(v)
	}
	return dst
}

// Scale multiplies every element of dst by c.
func Scale(c complex128, dst []complex128) {
	for i, v := range dst {
		dst[i] = c * v
	}
}

// AddScaledTo performs dst = y + alpha*s, where alpha is a scalar and dst, y
// and s are all slices. It panics if the slice argument lengths do not
// match.
func AddScaledTo(dst, y []complex128, alpha complex128, s []complex128) []complex128 {
	if len(s) != len(y) {
		panic(badLength)
	}
	if len(dst) != len(y) {
		panic("cmplxs: destination slice length does not match input")
	}
	for i, v := range s {
		dst[i] = y[i] + alpha*v
	}
	return dst
}

// EqualApprox returns whether s1 and s2 have the same length and all of
// their elements are equal to within the given absolute tolerance.
func EqualApprox(s1, s2 []complex128, tol float64) bool {
	if len(s1) != len(s2) {
		return false
	}
	for i, v := range s1 {
		if cmplx.Abs(v-s2[i]) > tol {
			return false
		}
	}
	return true
}
