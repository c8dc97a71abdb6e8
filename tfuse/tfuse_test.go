// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tfuse

import "testing"

func TestCanFuseContiguous(t *testing.T) {
	// row-major (2,3,4): strides (12,4,1)
	fusable, total, lead := CanFuse([]int{2, 3, 4}, []int{12, 4, 1})
	if !fusable || total != 24 || lead != 1 {
		t.Errorf("CanFuse = (%v,%d,%d), want (true,24,1)", fusable, total, lead)
	}
}

func TestCanFuseWithUnitAxis(t *testing.T) {
	// (2,1,4) with strides (4,99,1): the size-1 axis's stride is irrelevant.
	fusable, total, lead := CanFuse([]int{2, 1, 4}, []int{4, 99, 1})
	if !fusable || total != 8 || lead != 1 {
		t.Errorf("CanFuse with unit axis = (%v,%d,%d), want (true,8,1)", fusable, total, lead)
	}
}

func TestCanFuseZeroSize(t *testing.T) {
	fusable, total, _ := CanFuse([]int{2, 0, 4}, []int{4, 1, 1})
	if !fusable || total != 0 {
		t.Errorf("CanFuse with zero-size axis = (%v,%d), want (true,0)", fusable, total)
	}
}

func TestCanFuseGap(t *testing.T) {
	// (2,3) with strides (12,1): row stride should be 3 for contiguity, not 12.
	fusable, _, _ := CanFuse([]int{2, 3}, []int{12, 1})
	if fusable {
		t.Error("expected a strided gap between rows to fail fusion")
	}
}

func TestIsBLASContractableDestination(t *testing.T) {
	p1 := Group{Sizes: []int{2}, Strides: []int{4}}
	p2 := Group{Sizes: []int{4}, Strides: []int{1}}
	if !IsBLASContractable(p1, p2, RoleDestination) {
		t.Error("expected contiguous destination group to be BLAS-contractable")
	}
}

func TestIsBLASContractableConjugatedSource(t *testing.T) {
	p1 := Group{Sizes: []int{3}, Strides: []int{1}}
	p2 := Group{Sizes: []int{4}, Strides: []int{3}}
	if IsBLASContractable(p1, p2, RoleConjugatedSource) {
		t.Error("conjugated-source role requires p2's leading stride to be 1")
	}
	p2 = Group{Sizes: []int{4}, Strides: []int{1}}
	p1 = Group{Sizes: []int{3}, Strides: []int{4}}
	if !IsBLASContractable(p1, p2, RoleConjugatedSource) {
		t.Error("expected p2 leading-stride-1 to satisfy conjugated-source role")
	}
}

func TestIsBLASContractableNotFusable(t *testing.T) {
	p1 := Group{Sizes: []int{2, 2}, Strides: []int{9, 1}}
	p2 := Group{Sizes: []int{4}, Strides: []int{1}}
	if IsBLASContractable(p1, p2, RolePlainSource) {
		t.Error("expected a non-fusable group to fail BLAS-contractability regardless of role")
	}
}
