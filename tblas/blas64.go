// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tblas

// Axpy computes y += alpha*x, following gonum.org/v1/gonum/blas64's Axpy
// signature but operating directly on the Vector type rather than forwarding
// to an installed blas.Float64 implementation.
func Axpy(alpha float64, x, y Vector) {
	checkVecLen(x, y)
	xi, yi := 0, 0
	for k := 0; k < x.N; k++ {
		y.Data[yi] += alpha * x.Data[xi]
		xi += x.Inc
		yi += y.Inc
	}
}

// Scal computes x *= alpha in place.
func Scal(alpha float64, x Vector) {
	xi := 0
	for k := 0; k < x.N; k++ {
		x.Data[xi] *= alpha
		xi += x.Inc
	}
}

// Axpby computes y = alpha*x + beta*y, the fused combinator the add kernel's
// contiguous fast path uses (spec §4.5's
// "axpby!(α, permutedims(op(A), indCinA), β, C)"). It special-cases the
// common β ∈ {0, 1} scale factors so callers need not special-case the
// identity/zero cases at every call site.
func Axpby(alpha float64, x Vector, beta float64, y Vector) {
	checkVecLen(x, y)
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

// Dot computes the inner product of x and y.
func Dot(x, y Vector) float64 {
	checkVecLen(x, y)
	var sum float64
	xi, yi := 0, 0
	for k := 0; k < x.N; k++ {
		sum += x.Data[xi] * y.Data[yi]
		xi += x.Inc
		yi += y.Inc
	}
	return sum
}

func checkVecLen(x, y Vector) {
	if x.N != y.N {
		panic("tblas: vector length mismatch")
	}
}

// Gemm computes C = alpha*op(A)*op(B) + beta*C for row-major general
// matrices, following the shape convention of gonum.org/v1/gonum/blas64's
// Gemm. Only NoTrans and Trans are meaningful for real matrices; ConjTrans
// is treated as Trans.
func Gemm(tA, tB Transpose, alpha float64, a, b General, beta float64, c General) {
	m, k := dims(tA, a)
	k2, n := dims(tB, b)
	if k != k2 {
		panic("tblas: dimension mismatch in Gemm")
	}
	if c.Rows != m || c.Cols != n {
		panic("tblas: dimension mismatch in Gemm")
	}
	for i := 0; i < m; i++ {
		for j := 0; j < n; j++ {
			var sum float64
			for p := 0; p < k; p++ {
				sum += at(a, tA, i, p) * at(b, tB, p, j)
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

func dims(t Transpose, a General) (rows, cols int) {
	if t == NoTrans {
		return a.Rows, a.Cols
	}
	return a.Cols, a.Rows
}

func at(a General, t Transpose, i, j int) float64 {
	if t == NoTrans {
		return a.Data[i*a.Stride+j]
	}
	return a.Data[j*a.Stride+i]
}
