// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tkernel

import (
	"testing"

	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tview"
)

func fillSeq(d *tview.Dense[float64]) {
	forEachIndex(d.Sizes(), func(idx []int) {
		flat := 0
		for k, i := range idx {
			flat = flat*d.Size(k) + i
		}
		d.Set(float64(flat)+1, idx...)
	})
}

// TestAddPermute exercises spec scenario S1: C[i,j] = A[j,i], a pure
// permutation with β=0.
func TestAddPermute(t *testing.T) {
	A := tview.NewDense[float64]([]int{2, 3})
	fillSeq(A)
	C := tview.NewDense[float64]([]int{3, 2})
	Add(1, A, Plain, 0, C, []int{1, 0})
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			want := A.At(j, i)
			if got := C.At(i, j); got != want {
				t.Errorf("C(%d,%d) = %v, want %v", i, j, got, want)
			}
		}
	}
}

// TestAddAccumulates exercises the β≠0 accumulation branch.
func TestAddAccumulates(t *testing.T) {
	A := tview.NewDense[float64]([]int{2, 2})
	fillSeq(A)
	C := tview.NewDense[float64]([]int{2, 2})
	fillSeq(C)
	before := make([]float64, 4)
	k := 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			before[k] = C.At(i, j)
			k++
		}
	}
	Add(2, A, Plain, 3, C, []int{0, 1})
	k = 0
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			want := 2*A.At(i, j) + 3*before[k]
			if got := C.At(i, j); got != want {
				t.Errorf("C(%d,%d) = %v, want %v", i, j, got, want)
			}
			k++
		}
	}
}

func TestAddConjugate(t *testing.T) {
	A := tview.NewDense[complex128]([]int{2})
	A.Set(complex(1, 2), 0)
	A.Set(complex(3, -4), 1)
	C := tview.NewDense[complex128]([]int{2})
	Add(1, A, Conjugate, 0, C, []int{0})
	if got, want := C.At(0), complex(1, -2); got != want {
		t.Errorf("C(0) = %v, want %v", got, want)
	}
	if got, want := C.At(1), complex(3, 4); got != want {
		t.Errorf("C(1) = %v, want %v", got, want)
	}
}

func TestAddRankMismatchPanics(t *testing.T) {
	A := tview.NewDense[float64]([]int{2, 2})
	C := tview.NewDense[float64]([]int{2})
	err := tcerr.Maybe(func() { Add(1, A, Plain, 0, C, []int{0}) })
	if err == nil {
		t.Fatal("expected panic on rank mismatch")
	}
}

func TestAddDimensionMismatchPanics(t *testing.T) {
	A := tview.NewDense[float64]([]int{2, 3})
	C := tview.NewDense[float64]([]int{2, 3})
	err := tcerr.Maybe(func() { Add(1, A, Plain, 0, C, []int{1, 0}) })
	if err == nil {
		t.Fatal("expected panic on axis size mismatch")
	}
}

// TestAddBLASNativePermuteParity checks that the BLAS-eligible contiguous
// case (identity permutation) and a non-fusable permuted case both obey
// the same combinator table, per spec.md §8 property 4: the two code
// paths inside Add must agree with combine on every element.
func TestAddBLASNativePermuteParity(t *testing.T) {
	A := tview.NewDense[float64]([]int{4, 5})
	fillSeq(A)

	// Identity permutation: eligible for the axpby fast path.
	Cfast := tview.NewDense[float64]([]int{4, 5})
	fillSeq(Cfast)
	before := tview.NewDense[float64]([]int{4, 5})
	forEachIndex([]int{4, 5}, func(idx []int) { before.Set(Cfast.At(idx...), idx...) })
	Add(2, A, Plain, 3, Cfast, []int{0, 1})
	forEachIndex([]int{4, 5}, func(idx []int) {
		want := combine(2.0, A.At(idx...), 3.0, before.At(idx...))
		if got := Cfast.At(idx...); got != want {
			t.Errorf("fast path C%v = %v, want %v", idx, got, want)
		}
	})

	// Transposed permutation: the destination axis order differs from A's
	// storage order, which tfuse.CanFuse rejects for the combined group,
	// forcing the native per-element loop.
	Cnative := tview.NewDense[float64]([]int{5, 4})
	fillSeq(Cnative)
	beforeT := tview.NewDense[float64]([]int{5, 4})
	forEachIndex([]int{5, 4}, func(idx []int) { beforeT.Set(Cnative.At(idx...), idx...) })
	Add(2, A, Plain, 3, Cnative, []int{1, 0})
	forEachIndex([]int{5, 4}, func(idx []int) {
		want := combine(2.0, A.At(idx[1], idx[0]), 3.0, beforeT.At(idx...))
		if got := Cnative.At(idx...); got != want {
			t.Errorf("native path C%v = %v, want %v", idx, got, want)
		}
	})
}
