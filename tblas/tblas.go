// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tblas is the BLAS collaborator §6 of the contraction engine names
// but leaves external: a minimal matmul/axpby binding over the row-major
// General/Vector storage conventions of gonum.org/v1/gonum/blas64 and
// gonum.org/v1/gonum/cblas128, trimmed to a few level-1 and level-3
// operations: package tkernel dispatches to Gemm for the matmul path of
// contract and to Axpby for the permute-and-accumulate of add; Axpy, Scal
// and Dot are kept alongside them. Only a pure-Go native implementation is provided; gonum
// itself splits this surface into a swappable blas.Float64 interface plus
// a cgo-linked and a pure-Go backend, but this module has no cgo
// dependency to offer, so the native path is the only one.
package tblas

// Transpose specifies whether an operand participates in a matmul as
// itself or as its conjugate transpose. Gonum's blas package distinguishes
// Trans from ConjTrans for real vs. complex matrices; tcontract only ever
// reshapes operands so that the contracted axis is already in the right
// position (see tkernel's tryGemm), so only NoTrans is actually used; Trans
// and ConjTrans are kept for fidelity with the blas.Transpose contract.
type Transpose int

const (
	NoTrans Transpose = iota
	Trans
	ConjTrans
)

// General represents a real matrix using row-major conventional storage:
// element (i, j) lives at Data[i*Stride+j].
type General struct {
	Rows, Cols int
	Stride     int
	Data       []float64
}

// Vector represents a real vector with an associated element increment.
type Vector struct {
	N    int
	Inc  int
	Data []float64
}

// GeneralC128 is the complex128 analogue of General.
type GeneralC128 struct {
	Rows, Cols int
	Stride     int
	Data       []complex128
}

// VectorC128 is the complex128 analogue of Vector.
type VectorC128 struct {
	N    int
	Inc  int
	Data []complex128
}
