// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkernel

import (
	"github.com/tensorcontract/tcontract/tblas"
	"github.com/tensorcontract/tcontract/tcache"
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tfuse"
	"github.com/tensorcontract/tcontract/tview"
)

// ContractSites optionally routes Contract's BLAS-path temporary through
// package tcache, per spec.md §4.3 and §4.7's "C' ... drawn from the
// temporary cache when a site tag is supplied". A nil *ContractSites
// bypasses the cache and allocates the temporary directly, matching
// Contract's behavior when called outside compiled code (spec.md §4.3:
// "absent caching, it always allocates").
type ContractSites struct {
	Site tcache.SiteTag
	Task tcache.TaskID
}

// Contract computes C ← β·C + α·Σ_contracted opA(A)·opB(B), implementing
// spec.md §4.7. oindA/cindA partition A's axes into the open (destination-
// bound) and contracted axes; oindB/cindB do the same for B. indCinoAB
// has the same convention as Add's indCinA: indCinoAB[k] is the position,
// within the concatenation (oindA axes..., oindB axes...), of the axis
// that becomes axis k of C.
//
// When T is a BLAS-native element type, BLAS is enabled, and neither
// operand is read with a conjugating op, Contract reshapes A and B into
// (M,K) and (K,N) matrices (package tfuse decides whether the operands'
// strides permit this without copying) and dispatches to tblas.Gemm into
// a temporary, then folds the temporary into C via Add - reusing Add's own
// permute-and-accumulate rather than duplicating it. Conjugated operands
// and operands that do not reshape cleanly fall back to direct nested
// summation.
func Contract[T tview.Numeric](alpha T, A tview.View[T], cjA ConjFlag, B tview.View[T], cjB ConjFlag, beta T, C tview.View[T], oindA, cindA, oindB, cindB, indCinoAB []int, sites *ContractSites) {
	effA := combineOp(A.ElemOp(), cjA.op())
	effB := combineOp(B.ElemOp(), cjB.op())
	openSizes := checkContractIndices(A, B, C, oindA, cindA, oindB, cindB, indCinoAB)

	if tview.IsBLASType[T]() && BLASEnabled() && effA == tview.OpIdentity && effB == tview.OpIdentity {
		if done := tryGemm(alpha, A, oindA, cindA, B, oindB, cindB, beta, C, indCinoAB, openSizes, sites); done {
			return
		}
	}
	contractNative(alpha, A, effA, oindA, cindA, B, effB, oindB, cindB, beta, C, indCinoAB, openSizes)
}

func tryGemm[T tview.Numeric](alpha T, A tview.View[T], oindA, cindA []int, B tview.View[T], oindB, cindB []int, beta T, C tview.View[T], indCinoAB, openSizes []int, sites *ContractSites) bool {
	fuseAOpen, m, strideM := tfuse.CanFuse(selectSizes(A, oindA), selectStrides(A, oindA))
	fuseAContract, k1, strideK1 := tfuse.CanFuse(selectSizes(A, cindA), selectStrides(A, cindA))
	fuseBContract, k2, strideK2 := tfuse.CanFuse(selectSizes(B, cindB), selectStrides(B, cindB))
	fuseBOpen, n, strideN := tfuse.CanFuse(selectSizes(B, oindB), selectStrides(B, oindB))
	if !fuseAOpen || !fuseAContract || !fuseBContract || !fuseBOpen || k1 != k2 {
		return false
	}
	// tblas.General assumes the trailing (column) axis is contiguous;
	// require it of both operands' contracted/open trailing group.
	if strideK1 != 1 || strideN != 1 {
		return false
	}

	shape := tview.Shape(openSizes)
	var cPrime *tview.Dense[T]
	if sites != nil {
		cPrime = tcache.GetOrMake[T](sites.Site, sites.Task, A, shape)
	} else {
		cPrime = tview.Allocate[T](A, shape)
	}

	dataA, offA, _ := A.RawData()
	dataB, offB, _ := B.RawData()
	cData, cOff, _ := cPrime.RawData()

	ok := false
	switch a := any(alpha).(type) {
	case float64:
		ma := tblas.General{Rows: m, Cols: k1, Stride: strideM, Data: any(dataA).([]float64)[offA:]}
		mb := tblas.General{Rows: k2, Cols: n, Stride: strideK2, Data: any(dataB).([]float64)[offB:]}
		mc := tblas.General{Rows: m, Cols: n, Stride: n, Data: any(cData).([]float64)[cOff:]}
		tblas.Gemm(tblas.NoTrans, tblas.NoTrans, a, ma, mb, 0, mc)
		ok = true
	case complex128:
		ma := tblas.GeneralC128{Rows: m, Cols: k1, Stride: strideM, Data: any(dataA).([]complex128)[offA:]}
		mb := tblas.GeneralC128{Rows: k2, Cols: n, Stride: strideK2, Data: any(dataB).([]complex128)[offB:]}
		mc := tblas.GeneralC128{Rows: m, Cols: n, Stride: n, Data: any(cData).([]complex128)[cOff:]}
		tblas.GemmC128(tblas.NoTrans, tblas.NoTrans, a, ma, mb, 0, mc)
		ok = true
	}
	if !ok {
		return false
	}
	Add(T(1), cPrime, Plain, beta, C, indCinoAB)
	return true
}

// contractNative accumulates C directly by nested iteration over the open
// axes of A and B and the shared contracted axes, applying the fused
// combinator at each destination element. It is the fallback for
// non-BLAS-type elements, disabled BLAS, conjugated operands, and operand
// layouts tryGemm cannot reshape without a copy.
func contractNative[T tview.Numeric](alpha T, A tview.View[T], effA tview.Op, oindA, cindA []int, B tview.View[T], effB tview.Op, oindB, cindB []int, beta T, C tview.View[T], indCinoAB, openSizes []int) {
	permA := withOp(A, effA)
	permB := withOp(B, effB)

	contractedSizes := make([]int, len(cindA))
	for i, p := range cindA {
		contractedSizes[i] = A.Size(p)
	}

	rankA, rankB, rankC := A.Rank(), B.Rank(), C.Rank()
	noA := len(oindA)

	forEachIndex(openSizes, func(openIdx []int) {
		idxA := make([]int, rankA)
		idxB := make([]int, rankB)
		for i, p := range oindA {
			idxA[p] = openIdx[i]
		}
		for i, p := range oindB {
			idxB[p] = openIdx[noA+i]
		}
		var sum T
		forEachIndex(contractedSizes, func(cIdx []int) {
			for i, p := range cindA {
				idxA[p] = cIdx[i]
			}
			for i, p := range cindB {
				idxB[p] = cIdx[i]
			}
			sum += permA.At(idxA...) * permB.At(idxB...)
		})
		idxC := make([]int, rankC)
		for k := 0; k < rankC; k++ {
			idxC[k] = openIdx[indCinoAB[k]]
		}
		C.Set(combine(alpha, sum, beta, C.At(idxC...)), idxC...)
	})
}

func selectSizes[T tview.Numeric](v tview.View[T], positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = v.Size(p)
	}
	return out
}

func selectStrides[T tview.Numeric](v tview.View[T], positions []int) []int {
	out := make([]int, len(positions))
	for i, p := range positions {
		out[i] = v.Stride(p)
	}
	return out
}

func checkContractIndices[T tview.Numeric](A, B, C tview.View[T], oindA, cindA, oindB, cindB, indCinoAB []int) []int {
	rankA, rankB, rankC := A.Rank(), B.Rank(), C.Rank()
	if len(oindA)+len(cindA) != rankA {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: open+contracted axes of A (%d) do not cover rank(A)=%d", len(oindA)+len(cindA), rankA))
	}
	if len(oindB)+len(cindB) != rankB {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: open+contracted axes of B (%d) do not cover rank(B)=%d", len(oindB)+len(cindB), rankB))
	}
	if len(cindA) != len(cindB) {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: contracted axis counts differ (%d vs %d)", len(cindA), len(cindB)))
	}
	checkPositions("A", rankA, append(append([]int{}, oindA...), cindA...))
	checkPositions("B", rankB, append(append([]int{}, oindB...), cindB...))
	for i := range cindA {
		if A.Size(cindA[i]) != B.Size(cindB[i]) {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "contract: contracted axis pair (%d,%d) sizes differ (%d vs %d)", cindA[i], cindB[i], A.Size(cindA[i]), B.Size(cindB[i])))
		}
	}
	noA, noB := len(oindA), len(oindB)
	if noA+noB != rankC {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: open axis count (%d) does not match rank(C)=%d", noA+noB, rankC))
	}
	if len(indCinoAB) != rankC {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: indCinoAB has length %d, want %d", len(indCinoAB), rankC))
	}
	checkPositions("open'", rankC, indCinoAB)

	openSizes := make([]int, 0, rankC)
	for _, p := range oindA {
		openSizes = append(openSizes, A.Size(p))
	}
	for _, p := range oindB {
		openSizes = append(openSizes, B.Size(p))
	}
	for k, p := range indCinoAB {
		if openSizes[p] != C.Size(k) {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "contract: open axis %d has size %d, destination axis %d has size %d", p, openSizes[p], k, C.Size(k)))
		}
	}
	return openSizes
}

func checkPositions(name string, rank int, positions []int) {
	if len(positions) != rank {
		panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: %s axis positions have length %d, want rank %d", name, len(positions), rank))
	}
	seen := make([]bool, rank)
	for _, p := range positions {
		if p < 0 || p >= rank || seen[p] {
			panic(tcerr.Detailf(tcerr.ErrInvalidIndices, "contract: %s axis positions are not a valid permutation of 0..%d", name, rank-1))
		}
		seen[p] = true
	}
}
