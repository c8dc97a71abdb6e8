// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tkernel implements spec.md §4.5-§4.7's three primitive kernels
// (Add, Trace, Contract) and the §6 process-wide BLAS toggle (the cache
// toggles are tcache.Enable/Disable in package tcache). Each
// kernel validates the index arithmetic invariants (I1-I3) from
// package tcindex, then either dispatches to package tblas's matmul/axpby
// or falls back to a native strided reduction, following the two-path
// split gonum.org/v1/gonum/mat's arithmetic methods use throughout
// (e.g. mat/cdense_arithmetic.go's Add, which takes a fast same-concrete-
// type path and a slower At/Set path): here the fast path is "reshape to
// 2-D and call tblas", the slow path is "walk every multi-index".
package tkernel

import (
	"sync/atomic"

	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tview"
)

// ConjFlag is spec.md §3's conjugation flag: plain, conjugate, or adjoint.
type ConjFlag int

const (
	// Plain applies no transformation.
	Plain ConjFlag = iota
	// Conjugate applies complex conjugation elementwise.
	Conjugate
	// Adjoint applies elementwise adjoint, which for the numeric scalar
	// element types this engine supports equals Conjugate (spec.md §3).
	Adjoint
)

// op converts a ConjFlag to the tview.Op a View applies on read. It
// panics with tcerr.ErrUnknownFlag for any value outside {Plain,
// Conjugate, Adjoint}.
func (c ConjFlag) op() tview.Op {
	switch c {
	case Plain:
		return tview.OpIdentity
	case Conjugate, Adjoint:
		return tview.OpConj
	default:
		panic(unknownFlag(c))
	}
}

var blasEnabled atomic.Bool

func init() {
	blasEnabled.Store(true)
}

// EnableBLAS turns on the BLAS matmul path for Contract. It is enabled by
// default.
func EnableBLAS() { blasEnabled.Store(true) }

// DisableBLAS forces Contract onto the native reduction path regardless of
// operand shape, for testing BLAS/native parity (spec.md §8 property 4).
func DisableBLAS() { blasEnabled.Store(false) }

// BLASEnabled reports whether the BLAS path is currently allowed.
func BLASEnabled() bool { return blasEnabled.Load() }

// withOp reinterprets a tview.View[T] with a replaced elementwise op,
// using the WithOp method when the concrete type supports it (as
// *tview.Dense[T] does) and falling back to a new raw view over the same
// backing data otherwise. Every View this package receives from package tview is a
// *tview.Dense[T], so the fallback exists only to keep this function total
// over the View interface rather than the concrete type.
func withOp[T tview.Numeric](v tview.View[T], op tview.Op) tview.View[T] {
	if d, ok := v.(*tview.Dense[T]); ok {
		return d.WithOp(op)
	}
	data, offset, strides := v.RawData()
	return tview.NewRawView(data, offset, v.Sizes(), strides, op)
}

// combine implements the fused combinator/initializer table shared by
// spec.md §4.6 (trace) and §4.7's native path, and reused by Add's native
// path for the same α/β case analysis:
//
//	β == 0:        result = α·sum
//	β != 0:        result = α·sum + β·old
//
// (the β == 1 row of the spec's table is the second branch with β == 1,
// which already equals "old + α·sum"; there is no need to special-case it
// separately).
func combine[T tview.Numeric](alpha, sum, beta, old T) T {
	var zero T
	if beta == zero {
		return alpha * sum
	}
	return alpha*sum + beta*old
}

// forEachIndex calls fn once for every multi-index in the box described by
// sizes, in row-major (last axis fastest) order. It is the native-path
// substitute for the strided view library's mapreducedim collaborator
// (External Interfaces, spec.md §6): rather than building a broadcast-
// padded synthetic view and asking the view library to reduce it, this
// package walks the index space directly, since package tview does not
// implement mapreducedim itself.
func forEachIndex(sizes []int, fn func(idx []int)) {
	n := len(sizes)
	for _, s := range sizes {
		if s == 0 {
			return
		}
	}
	idx := make([]int, n)
	if n == 0 {
		fn(idx)
		return
	}
	for {
		fn(idx)
		k := n - 1
		for k >= 0 {
			idx[k]++
			if idx[k] < sizes[k] {
				break
			}
			idx[k] = 0
			k--
		}
		if k < 0 {
			return
		}
	}
}

func unknownFlag(c ConjFlag) error {
	return tcerr.Detailf(tcerr.ErrUnknownFlag, "unrecognized conjugation flag %d", int(c))
}
