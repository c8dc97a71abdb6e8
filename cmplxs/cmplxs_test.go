// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cmplxs

import "testing"

func TestConj(t *testing.T) {
	s := []complex128{1 + 2i, 3 - 4i, 0}
	want := []complex128{1 - 2i, 3 + 4i, 0}
	Conj(s)
	if !EqualApprox(s, want, 0) {
		t.Errorf("Conj(%v) = %v, want %v", "input", s, want)
	}
}

func TestConjTo(t *testing.T) {
	s := []complex128{1 + 2i, 3 - 4i}
	dst := make([]complex128, 2)
	ConjTo(dst, s)
	want := []complex128{1 - 2i, 3 + 4i}
	if !EqualApprox(dst, want, 0) {
		t.Errorf("ConjTo = %v, want %v", dst, want)
	}
}

func TestConjToPanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on length mismatch")
		}
	}()
	ConjTo(make([]complex128, 1), make([]complex128, 2))
}

func TestScale(t *testing.T) {
	s := []complex128{1, 2, 3}
	Scale(2, s)
	want := []complex128{2, 4, 6}
	if !EqualApprox(s, want, 1e-12) {
		t.Errorf("Scale = %v, want %v", s, want)
	}
}

func TestAddScaledTo(t *testing.T) {
	y := []complex128{1, 1, 1}
	s := []complex128{1, 2, 3}
	dst := make([]complex128, 3)
	AddScaledTo(dst, y, 2, s)
	want := []complex128{3, 5, 7}
	if !EqualApprox(dst, want, 1e-12) {
		t.Errorf("AddScaledTo = %v, want %v", dst, want)
	}
}

func TestEqualApprox(t *testing.T) {
	a := []complex128{1, 2}
	b := []complex128{1, 2}
	if !EqualApprox(a, b, 0) {
		t.Error("expected equal slices to compare equal")
	}
	if EqualApprox(a, []complex128{1}, 0) {
		t.Error("expected mismatched lengths to compare unequal")
	}
	if EqualApprox([]complex128{1}, []complex128{1 + 1}, 0.5) {
		t.Error("expected values outside tolerance to compare unequal")
	}
}
