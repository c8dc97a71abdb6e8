// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tview

import "testing"

func TestDenseAtSet(t *testing.T) {
	d := NewDense[float64]([]int{2, 3})
	d.Set(5, 1, 2)
	if got := d.At(1, 2); got != 5 {
		t.Errorf("At(1,2) = %v, want 5", got)
	}
}

func TestDensePermutedims(t *testing.T) {
	d := NewDense[float64]([]int{2, 3, 4})
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 4; k++ {
				d.Set(float64(i*100+j*10+k), i, j, k)
			}
		}
	}
	// perm[k] names the source axis feeding result axis k (0-based):
	// result axis 0 <- axis 2 (k), axis 1 <- axis 0 (i), axis 2 <- axis 1 (j),
	// so p.At(3,1,2) reads d.At(1,2,3).
	p := d.Permutedims([]int{2, 0, 1})
	if p.Size(0) != 4 || p.Size(1) != 2 || p.Size(2) != 3 {
		t.Fatalf("Permutedims sizes = (%d,%d,%d), want (4,2,3)", p.Size(0), p.Size(1), p.Size(2))
	}
	if got := p.At(3, 1, 2); got != 123 {
		t.Errorf("p.At(3,1,2) = %v, want 123", got)
	}
}

func TestDenseConjOp(t *testing.T) {
	d := NewDense[complex128]([]int{2})
	d.Set(1+2i, 0)
	d.Set(3-4i, 1)
	c := d.WithOp(OpConj)
	if got := c.At(0); got != 1-2i {
		t.Errorf("conj At(0) = %v, want 1-2i", got)
	}
	if got := c.At(1); got != 3+4i {
		t.Errorf("conj At(1) = %v, want 3+4i", got)
	}
	// The underlying data is untouched; op is applied on read only.
	if d.At(0) != 1+2i {
		t.Errorf("original view mutated by WithOp")
	}
}

func TestDenseSreshape(t *testing.T) {
	d := NewDense[float64]([]int{2, 3})
	r, ok := d.Sreshape([]int{6})
	if !ok {
		t.Fatal("expected contiguous dense view to be reshapable")
	}
	if r.Size(0) != 6 {
		t.Errorf("reshaped size = %d, want 6", r.Size(0))
	}
}

func TestDenseSreshapeFailsOnNonFusableView(t *testing.T) {
	d := NewDense[float64]([]int{2, 3, 4})
	// Swapping the last two axes gives sizes (2,4,3) with strides (12,1,4):
	// not in storage order, so the view cannot fuse into one contiguous axis
	// even though the requested element count (24) matches.
	sub := d.Permutedims([]int{0, 2, 1})
	_, ok := sub.Sreshape([]int{24})
	if ok {
		t.Error("expected non-contiguous permuted view to fail Sreshape")
	}
}

func TestShapeEqual(t *testing.T) {
	a := Shape{2, 3}
	b := Shape{2, 3}
	c := Shape{3, 2}
	if !a.Equal(b) {
		t.Error("expected equal shapes to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected different shapes to compare unequal")
	}
}

func TestAllocate(t *testing.T) {
	ref := NewDense[float64]([]int{1})
	got := Allocate[float64](ref, Shape{2, 2})
	if got.Rank() != 2 || got.Size(0) != 2 || got.Size(1) != 2 {
		t.Errorf("Allocate shape = (%d,%d), want (2,2)", got.Size(0), got.Size(1))
	}
}
