// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tcerr defines the error values raised by the contraction engine
// and compiler, following the typed-string-error convention of
// gonum.org/v1/gonum/mat64 (its matrix.Error type and Maybe/Must helpers):
// kernels panic with one of these values at the first point a precondition
// in spec.md §7 is violated, and Maybe lets a caller at an API boundary
// recover that panic back into a normal error return.
package tcerr

import "fmt"

// Error is a tcontract error value. It implements the error interface so
// it can be returned normally, but kernels in package tkernel raise it by
// panicking, matching spec.md §7: "errors are raised synchronously at the
// first detection point and are not caught internally."
type Error string

func (e Error) Error() string { return string(e) }

// Sentinel error kinds, one per spec.md §7 error kind.
const (
	// ErrInvalidIndices reports that a tuple-permutation precondition
	// (I1-I5) failed, or that an index occurs more than twice across a
	// contraction.
	ErrInvalidIndices = Error("tcontract: invalid indices")

	// ErrDimensionMismatch reports that operand shapes do not align on a
	// contraction, trace, or assignment boundary.
	ErrDimensionMismatch = Error("tcontract: dimension mismatch")

	// ErrUnknownFlag reports a conjugation flag outside
	// {plain, conjugate, adjoint}.
	ErrUnknownFlag = Error("tcontract: unknown conjugation flag")

	// ErrInvalidExpression reports that the compiler encountered a
	// syntactic shape it cannot classify as any recognized form.
	ErrInvalidExpression = Error("tcontract: invalid expression")
)

// Detailf wraps one of the sentinel Error values with call-specific detail,
// preserving the sentinel's identity for errors.Is via %w-style wrapping
// while adding context a bare sentinel can't carry.
func Detailf(kind Error, format string, args ...any) Detailed {
	return Detailed{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Detailed is an Error carrying extra diagnostic context.
type Detailed struct {
	Kind Error
	Msg  string
}

func (e Detailed) Error() string { return string(e.Kind) + ": " + e.Msg }

// Unwrap lets errors.Is(err, ErrInvalidIndices) succeed against a Detailed
// value built from ErrInvalidIndices.
func (e Detailed) Unwrap() error { return e.Kind }

// Panicker is a function that may panic with a tcerr.Error or tcerr.Detailed.
type Panicker func()

// Maybe recovers a panic carrying an Error or Detailed from fn and returns
// it as a normal error; any other panic value is re-raised, matching
// mat64.Maybe's contract of only ever swallowing its own error type.
func Maybe(fn Panicker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case Error:
				err = e
			case Detailed:
				err = e
			default:
				panic(r)
			}
		}
	}()
	fn()
	return nil
}

// Must panics if err is non-nil. It is the inverse of Maybe, for callers
// that want to keep the panic-based control flow at a boundary that is
// itself allowed to panic.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
