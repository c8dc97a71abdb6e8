// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tblas

import "math/cmplx"

// AxpyC128 computes y += alpha*x, the complex128 analogue of Axpy,
// following gonum.org/v1/gonum/cblas128's Axpy signature.
func AxpyC128(alpha complex128, x, y VectorC128) {
	checkVecLenC128(x, y)
	xi, yi := 0, 0
	for k := 0; k < x.N; k++ {
		y.Data[yi] += alpha * x.Data[xi]
		xi += x.Inc
		yi += y.Inc
	}
}

// ScalC128 computes x *= alpha in place.
func ScalC128(alpha complex128, x VectorC128) {
	xi := 0
	for k := 0; k < x.N; k++ {
		x.Data[xi] *= alpha
		xi += x.Inc
	}
}

// AxpbyC128 computes y = alpha*x + beta*y.
func AxpbyC128(alpha complex128, x VectorC128, beta complex128, y VectorC128) {
	checkVecLenC128(x, y)
	xi, yi := 0, 0
	switch beta {
	case 0:
		for k := 0; k < x.N; k++ {
			y.Data[yi] = alpha * x.Data[xi]
			xi += x.Inc
			yi += y.Inc
		}
	case 1:
		for k := 0; k < x.N; k++ {
			y.Data[yi] += alpha * x.Data[xi]
			xi += x.Inc
			yi += y.Inc
		}
	default:
		for k := 0; k < x.N; k++ {
			y.Data[yi] = alpha*x.Data[xi] + beta*y.Data[yi]
			xi += x.Inc
			yi += y.Inc
		}
	}
}

func checkVecLenC128(x, y VectorC128) {
	if x.N != y.N {
		panic("tblas: vector length mismatch")
	}
}

// GemmC128 computes C = alpha*opA(A)*opB(B) + beta*C for row-major general
// complex matrices. ConjTrans conjugates in addition to transposing,
// following gonum.org/v1/gonum/cblas128's Gemm convention.
func GemmC128(tA, tB Transpose, alpha complex128, a, b GeneralC128, beta complex128, c GeneralC128) {
	m, k := dimsC128(tA, a)
	k2, n := dimsC128(tB, b)
	if k != k2 {
		panic("tblas: dimension mismatch in GemmC128")
	}
	if c.Rows != m || c.Cols != n {
		panic("tblas: dimension mismatch in GemmC128")
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum complex128
			for p := 0; p < k; p++ {
				sum += atC128(a, tA, i, p) * atC128(b, tB, p, j)
			}
			ci := i*c.Stride + j
			if beta == 0 {
				c.Data[ci] = alpha * sum
			} else {
				c.Data[ci] = alpha*sum + beta*c.Data[ci]
			}
		}
	}
}

func dimsC128(t Transpose, a GeneralC128) (rows, cols int) {
	if t == NoTrans {
		return a.Rows, a.Cols
	}
	return a.Cols, a.Rows
}

func atC128(a GeneralC128, t Transpose, i, j int) complex128 {
	switch t {
	case NoTrans:
		return a.Data[i*a.Stride+j]
	case Trans:
		return a.Data[j*a.Stride+i]
	default: // ConjTrans
		return cmplx.Conj(a.Data[j*a.Stride+i])
	}
}
