// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tview

import (
	"github.com/tensorcontract/tcontract/cmplxs"
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tfuse"
)

// Dense is the reference View implementation: a dense, row-major-strided
// array over its own private backing slice. It always takes the checked
// (bounds-checked) path; per spec.md §9's Design Notes, the "unsafe
// strided" fast path for bit-trivial element types is a pure performance
// optimization this implementation forgoes.
type Dense[T Numeric] struct {
	sizes   []int
	strides []int
	offset  int
	op      Op
	data    []T
}

// NewDense allocates a new, zero-valued, contiguous row-major Dense tensor
// of the given shape.
func NewDense[T Numeric](sizes []int) *Dense[T] {
	n := 1
	for _, s := range sizes {
		n *= s
	}
	strides := rowMajorStrides(sizes)
	return &Dense[T]{
		sizes:   append([]int(nil), sizes...),
		strides: strides,
		data:    make([]T, n),
	}
}

// NewDenseUninitialized allocates exactly like NewDense, zeroing included,
// since make([]T, n) always zeroes in Go; T being a value type with no
// pointers, there is no meaningful "uninitialized-but-safe" allocation
// below what make gives for free, so this is an alias of NewDense. It
// exists so callers following spec.md §4.2's "allocate(A, T, shape)
// returns... an uninitialized one otherwise [for trivial T]" can express
// that intent even though, in Go, there is nothing cheaper to do.
func NewDenseUninitialized[T Numeric](sizes []int) *Dense[T] {
	return NewDense[T](sizes)
}

func rowMajorStrides(sizes []int) []int {
	strides := make([]int, len(sizes))
	stride := 1
	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= sizes[i]
	}
	return strides
}

func (d *Dense[T]) Rank() int        { return len(d.sizes) }
func (d *Dense[T]) Size(axis int) int { return d.sizes[axis] }
func (d *Dense[T]) Sizes() []int     { return append([]int(nil), d.sizes...) }
func (d *Dense[T]) Stride(axis int) int { return d.strides[axis] }
func (d *Dense[T]) Strides() []int   { return append([]int(nil), d.strides...) }
func (d *Dense[T]) Offset() int      { return d.offset }
func (d *Dense[T]) ElemOp() Op       { return d.op }

func (d *Dense[T]) flatIndex(idx ...int) int {
	if len(idx) != len(d.sizes) {
		panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "index has %d components, view has rank %d", len(idx), len(d.sizes)))
	}
	pos := d.offset
	for k, i := range idx {
		if i < 0 || i >= d.sizes[k] {
			panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "index %d out of range [0,%d) on axis %d", i, d.sizes[k], k))
		}
		pos += i * d.strides[k]
	}
	return pos
}

func (d *Dense[T]) At(idx ...int) T {
	return ApplyOp(d.op, d.data[d.flatIndex(idx...)])
}

func (d *Dense[T]) Set(v T, idx ...int) {
	d.data[d.flatIndex(idx...)] = v
}

func (d *Dense[T]) Permutedims(perm []int) View[T] {
	if len(perm) != len(d.sizes) {
		panic(tcerr.Detailf(tcerr.ErrDimensionMismatch, "permutation length %d does not match rank %d", len(perm), len(d.sizes)))
	}
	newSizes := make([]int, len(perm))
	newStrides := make([]int, len(perm))
	for k, p := range perm {
		newSizes[k] = d.sizes[p]
		newStrides[k] = d.strides[p]
	}
	return &Dense[T]{
		sizes:   newSizes,
		strides: newStrides,
		offset:  d.offset,
		op:      d.op,
		data:    d.data,
	}
}

// Sreshape succeeds only when the view is, as a whole, a single fusable
// group covering every axis (see package tfuse) whose total element count
// matches the product of newSizes; this mirrors spec.md's sreshape, which
// "returns a view iff shape is fusable".
func (d *Dense[T]) Sreshape(newSizes []int) (View[T], bool) {
	total := 1
	for _, s := range d.sizes {
		total *= s
	}
	newTotal := 1
	for _, s := range newSizes {
		newTotal *= s
	}
	if total != newTotal {
		return nil, false
	}
	fusable, _, leadingStride := tfuse.CanFuse(d.sizes, d.strides)
	if !fusable {
		return nil, false
	}
	return &Dense[T]{
		sizes:   append([]int(nil), newSizes...),
		strides: rowMajorStridesFrom(newSizes, leadingStride),
		offset:  d.offset,
		op:      d.op,
		data:    d.data,
	}, true
}

func rowMajorStridesFrom(sizes []int, leadingStride int) []int {
	strides := make([]int, len(sizes))
	stride := leadingStride
	for i := len(sizes) - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= sizes[i]
	}
	return strides
}

func (d *Dense[T]) RawData() (data []T, offset int, strides []int) {
	return d.data, d.offset, d.strides
}

// NewRawView constructs a View directly from a backing slice, offset,
// sizes, strides and elementwise op, without the row-major-contiguity
// assumption NewDense makes. package tkernel uses this to build the
// synthetic diagonal-walking view spec.md §4.6 describes for trace, whose
// strides are not a permutation of any single source view's strides but a
// sum of two of them.
func NewRawView[T Numeric](data []T, offset int, sizes, strides []int, op Op) View[T] {
	return &Dense[T]{
		sizes:   append([]int(nil), sizes...),
		strides: append([]int(nil), strides...),
		offset:  offset,
		op:      op,
		data:    data,
	}
}

// WithOp returns a shallow view of d with its elementwise op replaced.
func (d *Dense[T]) WithOp(op Op) *Dense[T] {
	return &Dense[T]{sizes: d.sizes, strides: d.strides, offset: d.offset, op: op, data: d.data}
}

// MaterializeOp returns a view with the same shape and strides as d but a
// freshly-owned backing array already holding d's elementwise op applied,
// and ElemOp reset to OpIdentity; when d's op is already OpIdentity, d
// itself is returned with no copy. Applying the op once over the whole
// backing slice is valid regardless of d's current strides/permutation,
// since both ops this package supports (identity and conjugate) act
// elementwise and do not depend on how the strides reinterpret the data.
//
// This is the bulk counterpart to ApplyOp, for a caller about to hand the
// raw backing slice to code that does not know about ElemOp (e.g. a BLAS
// binding, package tblas). For complex128 it conjugates via package
// cmplxs rather than looping by hand; other element types fall back to
// ApplyOp per element (cmplxs only covers complex128, and conjugation is
// the identity on every other type this package supports).
func (d *Dense[T]) MaterializeOp() *Dense[T] {
	if d.op == OpIdentity {
		return d
	}
	out := &Dense[T]{sizes: d.sizes, strides: d.strides, offset: d.offset, op: OpIdentity}
	if data, ok := any(d.data).([]complex128); ok {
		conj := make([]complex128, len(data))
		cmplxs.ConjTo(conj, data)
		out.data = any(conj).([]T)
		return out
	}
	data := make([]T, len(d.data))
	for i, v := range d.data {
		data[i] = ApplyOp(d.op, v)
	}
	out.data = data
	return out
}

// Materialize returns a view equivalent to v but with ElemOp already baked
// into a freshly-owned backing array and ElemOp reset to OpIdentity,
// bulk-applying the op via MaterializeOp when v is a *Dense[T] (a *Dense[T]
// whose op is already OpIdentity comes back as v itself). A view
// type this package does not know how to bulk-rewrite is returned
// unchanged, leaving the op in place; the caller must check ElemOp() on
// the result before assuming it is safe to read raw.
func Materialize[T Numeric](v View[T]) View[T] {
	if d, ok := v.(*Dense[T]); ok {
		return d.MaterializeOp()
	}
	return v
}

