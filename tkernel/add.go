// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkernel

import (
	"github.com/tensorcontract/tcontract/tblas"
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tfuse"
	"github.com/tensorcontract/tcontract/tview"
)

// Add computes C ← β·C + α·op(A) permuted by indCinA, implementing
// spec.md §4.5. indCinA[k] names the axis of A that becomes axis k of C;
// per invariant I1, indCinA must be a permutation of 0..rank(A)-1 and
// rank(A) must equal rank(C).
func Add[T tview.Numeric](alpha T, A tview.View[T], cjA ConjFlag, beta T, C tview.View[T], indCinA []int) {
	opA := cjA.op() // panics with ErrUnknownFlag on an unrecognized flag
	checkAddPermutation(A, C, indCinA)

	permA := withOp(A, combineOp(A.ElemOp(), opA)).Permutedims(indCinA)

	if tview.IsBLASType[T]() {
		if done := tryAxpby(alpha, permA, beta, C); done {
			return
		}
	}
	forEachIndex(C.Sizes(), func(idx []int) {
		C.Set(combine(alpha, permA.At(idx...), beta, C.At(idx...)), idx...)
	})
}

// combineOp composes two elementwise ops; conj applied twice is identity.
func combineOp(a, b tview.Op) tview.Op {
	if a == b {
		return tview.OpIdentity
	}
	return tview.OpConj
}

// tryAxpby attempts the BLAS-backed axpby fast path for float64 and
// complex128 operands, succeeding only when both permA and C are, as a
// whole, fusable into one contiguous run (package tfuse). It returns
// false (having done nothing) when the fast path does not apply, leaving
// the caller to fall back to the native elementwise walk.
//
// tblas.Axpby/AxpbyC128 read permA's backing slice directly, bypassing
// ElemOp entirely, so a conjugated permA is materialized first via
// tview.Materialize (package cmplxs's bulk conjugation) before the raw
// data is handed to the BLAS call; if permA turns out not to be a type
// tview knows how to bulk-rewrite, this falls back to the native path.
func tryAxpby[T tview.Numeric](alpha T, permA tview.View[T], beta T, C tview.View[T]) bool {
	if permA.ElemOp() != tview.OpIdentity {
		permA = tview.Materialize[T](permA)
		if permA.ElemOp() != tview.OpIdentity {
			return false
		}
	}
	fusableA, totalA, leadA := tfuse.CanFuse(permA.Sizes(), permA.Strides())
	fusableC, totalC, leadC := tfuse.CanFuse(C.Sizes(), C.Strides())
	if !fusableA || !fusableC || totalA != totalC {
		return false
	}
	dataA, offA, _ := permA.RawData()
	dataC, offC, _ := C.RawData()
	switch anyAlpha := any(alpha).(type) {
	case float64:
		x := tblas.Vector{N: totalA, Inc: leadA, Data: any(dataA).([]float64)[offA:]}
		y := tblas.Vector{N: totalC, Inc: leadC, Data: any(dataC).([]float64)[offC:]}
		tblas.Axpby(anyAlpha, x, any(beta).(float64), y)
		return true
	case complex128:
		x := tblas.VectorC128{N: totalA, Inc: leadA, Data: any(dataA).([]complex128)[offA:]}
		y := tblas.VectorC128{N: totalC, Inc: leadC, Data: any(dataC).([]complex128)[offC:]}
		tblas.AxpbyC128(anyAlpha, x, any(beta).(complex128), y)
		return true
	default:
		return false
	}
}

func checkAddPermutation[T tview.Numeric](A, C tview.View[T], indCinA []int) {
	rankA, rankC := A.Rank(), C.Rank()
	if rankA != rankC {
		panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "add: rank(A)=%d != rank(C)=%d", rankA, rankC))
	}
	if len(indCinA) != rankA {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "add: permutation has length %d, want %d", len(indCinA), rankA))
	}
	seen := make([]bool, rankA)
	for k, p := range indCinA {
		if p < 0 || p >= rankA || seen[p] {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "add: indCinA is not a valid permutation of 0..%d", rankA-1))
		}
		seen[p] = true
		if A.Size(p) != C.Size(k) {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "add: size(A,%d)=%d != size(C,%d)=%d", p, A.Size(p), k, C.Size(k)))
		}
	}
}
