// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkernel

import (
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tview"
)

// Trace computes C ← β·C + α·partial_trace(op(A)), tracing the axis pairs
// (cind1[k], cind2[k]) for each k, implementing spec.md §4.6. left++right
// is the permutation of A's remaining (free) axes onto C's axes, exactly
// like indCinA in Add.
func Trace[T tview.Numeric](alpha T, A tview.View[T], cjA ConjFlag, beta T, C tview.View[T], left, right, cind1, cind2 []int) {
	opA := cjA.op()
	indCinA := append(append([]int{}, left...), right...)
	traceSize := checkTraceIndices(A, C, indCinA, cind1, cind2)

	data, offset, strides := A.RawData()
	synthSizes := append(append([]int{}, C.Sizes()...), traceSize...)
	synthStrides := make([]int, 0, len(synthSizes))
	for _, p := range indCinA {
		synthStrides = append(synthStrides, strides[p])
	}
	for k := range cind1 {
		synthStrides = append(synthStrides, strides[cind1[k]]+strides[cind2[k]])
	}
	synth := tview.NewRawView(data, offset, synthSizes, synthStrides, combineOp(A.ElemOp(), opA))

	rankC := C.Rank()
	nTrace := len(cind1)
	traceShape := synthSizes[rankC:]
	forEachIndex(C.Sizes(), func(freeIdx []int) {
		idx := make([]int, rankC+nTrace)
		copy(idx, freeIdx)
		var sum T
		forEachIndex(traceShape, func(tIdx []int) {
			copy(idx[rankC:], tIdx)
			sum += synth.At(idx...)
		})
		C.Set(combine(alpha, sum, beta, C.At(freeIdx...)), freeIdx...)
	})
}

// checkTraceIndices validates invariant I2 and returns the per-pair trace
// axis sizes.
func checkTraceIndices[T tview.Numeric](A, C tview.View[T], indCinA, cind1, cind2 []int) []int {
	rankA, rankC := A.Rank(), C.Rank()
	if (rankA-rankC)%2 != 0 {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: rank(A)-rank(C) = %d is not even", rankA-rankC))
	}
	want := (rankA - rankC) / 2
	if len(cind1) != want || len(cind2) != want {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: expected %d traced axis pairs, got %d/%d", want, len(cind1), len(cind2)))
	}
	if len(indCinA) != rankC {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: left++right has length %d, want rank(C)=%d", len(indCinA), rankC))
	}
	seen := make([]bool, rankA)
	mark := func(p int) {
		if p < 0 || p >= rankA || seen[p] {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: (left,right,cind1,cind2) is not a valid permutation of 0..%d", rankA-1))
		}
		seen[p] = true
	}
	for _, p := range indCinA {
		mark(p)
	}
	for i := range cind1 {
		mark(cind1[i])
		mark(cind2[i])
	}
	for _, s := range seen {
		if !s {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "trace: (left,right,cind1,cind2) does not cover all %d axes of A", rankA))
		}
	}
	for k, p := range indCinA {
		if A.Size(p) != C.Size(k) {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "trace: size(A,%d)=%d != size(C,%d)=%d", p, A.Size(p), k, C.Size(k)))
		}
	}
	traceSize := make([]int, want)
	for k := range cind1 {
		s1, s2 := A.Size(cind1[k]), A.Size(cind2[k])
		if s1 != s2 {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "trace: traced axis pair (%d,%d) sizes differ (%d vs %d)", cind1[k], cind2[k], s1, s2))
		}
		traceSize[k] = s1
	}
	return traceSize
}
