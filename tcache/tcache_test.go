// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tcache

import (
	"testing"

	"github.com/tensorcontract/tcontract/tview"
)

func TestGetOrMakeDisabledAlwaysAllocates(t *testing.T) {
	Disable()
	ref := tview.NewDense[float64]([]int{1})
	a := GetOrMake[float64]("site-a", NewTaskID(), ref, tview.Shape{2, 2})
	b := GetOrMake[float64]("site-a", NewTaskID(), ref, tview.Shape{2, 2})
	if a == b {
		t.Error("expected distinct allocations while cache disabled")
	}
}

func TestGetOrMakeEnabledReuses(t *testing.T) {
	Enable()
	defer Disable()
	task := NewTaskID()
	ref := tview.NewDense[float64]([]int{1})
	a := GetOrMake[float64]("site-b", task, ref, tview.Shape{2, 3})
	b := GetOrMake[float64]("site-b", task, ref, tview.Shape{2, 3})
	if a != b {
		t.Error("expected same-key GetOrMake calls to reuse the cached tensor")
	}
}

func TestGetOrMakeShapeMismatchReallocates(t *testing.T) {
	Enable()
	defer Disable()
	task := NewTaskID()
	ref := tview.NewDense[float64]([]int{1})
	a := GetOrMake[float64]("site-c", task, ref, tview.Shape{2, 3})
	b := GetOrMake[float64]("site-c", task, ref, tview.Shape{3, 2})
	if a == b {
		t.Error("expected shape mismatch to force reallocation")
	}
	if b.Size(0) != 3 || b.Size(1) != 2 {
		t.Errorf("reallocated shape = (%d,%d), want (3,2)", b.Size(0), b.Size(1))
	}
}

func TestGetOrMakeDifferentTasksDoNotShare(t *testing.T) {
	Enable()
	defer Disable()
	ref := tview.NewDense[float64]([]int{1})
	a := GetOrMake[float64]("site-d", NewTaskID(), ref, tview.Shape{2})
	b := GetOrMake[float64]("site-d", NewTaskID(), ref, tview.Shape{2})
	if a == b {
		t.Error("expected distinct tasks to get distinct cache entries")
	}
}

func TestFlush(t *testing.T) {
	Enable()
	defer Disable()
	task := NewTaskID()
	ref := tview.NewDense[float64]([]int{1})
	before := Len()
	GetOrMake[float64]("site-e", task, ref, tview.Shape{4})
	if Len() != before+1 {
		t.Fatalf("Len = %d, want %d", Len(), before+1)
	}
	Flush(task)
	if Len() != before {
		t.Errorf("Len after Flush = %d, want %d", Len(), before)
	}
}
