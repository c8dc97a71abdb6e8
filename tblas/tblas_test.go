// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tblas

import "testing"

func TestGemm(t *testing.T) {
	// A (2x3) * B (3x4) = C (2x4)
	a := General{Rows: 2, Cols: 3, Stride: 3, Data: []float64{
		1, 2, 3,
		4, 5, 6,
	}}
	b := General{Rows: 3, Cols: 4, Stride: 4, Data: []float64{
		1, 0, 0, 1,
		0, 1, 0, 1,
		0, 0, 1, 1,
	}}
	c := General{Rows: 2, Cols: 4, Stride: 4, Data: make([]float64, 8)}
	Gemm(NoTrans, NoTrans, 1, a, b, 0, c)
	want := []float64{
		1, 2, 3, 6,
		4, 5, 6, 15,
	}
	for i, v := range want {
		if c.Data[i] != v {
			t.Errorf("Gemm result[%d] = %v, want %v", i, c.Data[i], v)
		}
	}
}

func TestGemmBeta(t *testing.T) {
	a := General{Rows: 1, Cols: 1, Stride: 1, Data: []float64{2}}
	b := General{Rows: 1, Cols: 1, Stride: 1, Data: []float64{3}}
	c := General{Rows: 1, Cols: 1, Stride: 1, Data: []float64{10}}
	Gemm(NoTrans, NoTrans, 2, a, b, 5, c)
	want := 2*2*3 + 5*10.0
	if c.Data[0] != want {
		t.Errorf("Gemm with beta = %v, want %v", c.Data[0], want)
	}
}

func TestAxpby(t *testing.T) {
	x := Vector{N: 3, Inc: 1, Data: []float64{1, 2, 3}}
	y := Vector{N: 3, Inc: 1, Data: []float64{10, 10, 10}}
	Axpby(2, x, 0.5, y)
	want := []float64{2*1 + 0.5*10, 2*2 + 0.5*10, 2*3 + 0.5*10}
	for i, v := range want {
		if y.Data[i] != v {
			t.Errorf("Axpby result[%d] = %v, want %v", i, y.Data[i], v)
		}
	}
}

func TestGemmC128ConjTrans(t *testing.T) {
	a := GeneralC128{Rows: 1, Cols: 2, Stride: 2, Data: []complex128{1 + 1i, 2 - 1i}}
	b := GeneralC128{Rows: 1, Cols: 2, Stride: 2, Data: []complex128{1 + 1i, 2 - 1i}}
	c := GeneralC128{Rows: 1, Cols: 1, Stride: 1, Data: make([]complex128, 1)}
	// C = A * B^H : (1x2) * (2x1 conj-transposed from 1x2) = (1x1)
	GemmC128(NoTrans, ConjTrans, 1, a, b, 0, c)
	want := (1 + 1i) * complex(real(1+1i), -imag(1+1i))
	want += (2 - 1i) * complex(real(2-1i), -imag(2-1i))
	if c.Data[0] != want {
		t.Errorf("GemmC128 ConjTrans = %v, want %v", c.Data[0], want)
	}
}
