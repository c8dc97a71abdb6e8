// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tview

import "strconv"

// Shape is the shape descriptor spec.md §4.2 returns from
// similar_structure: for dense arrays, simply the tuple of sizes of the
// selected axes.
type Shape []int

// Equal reports whether two shapes describe the same extents.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i, v := range s {
		if v != o[i] {
			return false
		}
	}
	return true
}

// Len returns the total element count of a tensor with this shape.
func (s Shape) Len() int {
	n := 1
	for _, v := range s {
		n *= v
	}
	return n
}

// String renders a Shape the way gonum's mat.Dense.Dims-based error
// messages do: a compact "(d0,d1,...)" tuple.
func (s Shape) String() string {
	out := "("
	for i, v := range s {
		if i > 0 {
			out += ","
		}
		out += strconv.Itoa(v)
	}
	return out + ")"
}

// SelectSizes returns the shape descriptor for a's axes at the given
// positions, implementing spec.md §4.2's
// similar_structure(T, left_sel, right_sel, A, cjA) when called with the
// concatenation of left_sel and right_sel.
func SelectSizes[T Numeric](a View[T], positions []int) Shape {
	out := make(Shape, len(positions))
	for k, p := range positions {
		out[k] = a.Size(p)
	}
	return out
}

// SelectSizesAB returns the shape descriptor for the concatenation of a's
// axes at posA and b's axes at posB, implementing spec.md §4.2's two-
// operand similar_structure overload used to size contract's C'
// temporary.
func SelectSizesAB[T Numeric](a View[T], posA []int, b View[T], posB []int) Shape {
	out := make(Shape, 0, len(posA)+len(posB))
	for _, p := range posA {
		out = append(out, a.Size(p))
	}
	for _, p := range posB {
		out = append(out, b.Size(p))
	}
	return out
}

// Allocate returns a freshly allocated Dense tensor with the given shape,
// implementing spec.md §4.2's allocate(A, T, shape). The reference
// parameter a is unused by this dense implementation (a real strided-view
// library might use it to pick an allocator/backing-storage kind to
// match); it is kept in the signature so callers read the same way the
// spec's allocate(A, T, shape) does.
func Allocate[T Numeric](_ View[T], shape Shape) *Dense[T] {
	return NewDense[T](shape)
}
