// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/tensorcontract/tcontract/tcache"
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tkernel"
	"github.com/tensorcontract/tcontract/tview"
)

// RunOptions configures Run's cache behavior for OpContract instructions
// carrying a non-empty Site, per spec.md §4.3 and §5.
type RunOptions struct {
	Task tcache.TaskID
}

// Run executes prog's instructions in order against env, mutating env to
// record each instruction's destination (allocating it first when the
// instruction is marked Alloc), implementing spec.md §4.12's emitted
// kernel calls and §5's "kernel calls execute in the textual order of the
// sorted contraction tree." It is the single generic dispatcher every
// compiled Program runs through, for any BLAS-eligible or plain numeric
// element type T.
//
// Run does not log per instruction (Log is reserved for compilation, to
// keep this hot path allocation-light); a caller wanting an execution
// trace can range over prog.Instructions and prog.String() itself before
// calling Run.
func Run[T tview.Numeric](prog *Program, env map[string]tview.View[T], opts RunOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case tcerr.Error:
				err = e
			case tcerr.Detailed:
				err = e
			default:
				panic(r)
			}
		}
	}()
	for _, in := range prog.Instructions {
		runOne(in, env, opts)
	}
	return nil
}

func runOne[T tview.Numeric](in Instruction, env map[string]tview.View[T], opts RunOptions) {
	switch in.Op {
	case OpAdd:
		A := env[in.Src]
		dst := resolveDest(env, in, func() tview.Shape {
			return tview.SelectSizes[T](A, in.Perm)
		})
		tkernel.Add[T](scalarOf[T](in.Alpha), A, conjFlag(in.ConjSrc), scalarOf[T](in.Beta), dst, in.Perm)
	case OpTrace:
		A := env[in.Src]
		indCinA := append(append([]int{}, in.Left...), in.Right...)
		dst := resolveDest(env, in, func() tview.Shape {
			return tview.SelectSizes[T](A, indCinA)
		})
		tkernel.Trace[T](scalarOf[T](in.Alpha), A, conjFlag(in.ConjSrc), scalarOf[T](in.Beta), dst, in.Left, in.Right, in.Cind1, in.Cind2)
	case OpContract:
		A, B := env[in.SrcA], env[in.SrcB]
		dst := resolveDest(env, in, func() tview.Shape {
			open := tview.SelectSizesAB[T](A, in.OindA, B, in.OindB)
			shape := make(tview.Shape, len(in.Perm))
			for k, p := range in.Perm {
				shape[k] = open[p]
			}
			return shape
		})
		var sites *tkernel.ContractSites
		if in.Site != "" {
			sites = &tkernel.ContractSites{Site: in.Site, Task: opts.Task}
		}
		tkernel.Contract[T](scalarOf[T](in.Alpha), A, conjFlag(in.ConjSrc), B, conjFlag(in.ConjB), scalarOf[T](in.Beta), dst,
			in.OindA, in.CindA, in.OindB, in.CindB, in.Perm, sites)
	case OpBind:
		env[in.Dst] = env[in.Src]
	case OpScalar:
		dst := resolveDest(env, in, func() tview.Shape { return tview.Shape{} })
		var old T
		if !in.Alloc {
			old = dst.At()
		}
		dst.Set(scalarOf[T](in.Alpha) + scalarOf[T](in.Beta)*old)
	}
}

// scalarOf converts a compile-time float64 coefficient into the
// instruction's runtime element type T, which package tview.Numeric
// allows to be a complex type; a direct generic conversion T(v) is
// rejected by the compiler whenever T's type set includes a complex type
// (Go permits conversions between real numeric kinds, and between complex
// kinds, but not directly from a real non-constant value to a complex
// one), so this dispatches on T's concrete type the same way
// tkernel/contract.go's tryGemm does for its BLAS dispatch.
func scalarOf[T tview.Numeric](v float64) T {
	var zero T
	switch any(zero).(type) {
	case complex64:
		return any(complex64(complex(float32(v), 0))).(T)
	case complex128:
		return any(complex(v, 0)).(T)
	case float32:
		return any(float32(v)).(T)
	case float64:
		return any(v).(T)
	case int:
		return any(int(v)).(T)
	case int32:
		return any(int32(v)).(T)
	case int64:
		return any(int64(v)).(T)
	default:
		return zero
	}
}

// resolveDest returns the live destination view for in.Dst, allocating
// and storing a fresh zero-valued one first when in.Alloc is set. shape
// is computed lazily since it is only needed on the allocating path.
func resolveDest[T tview.Numeric](env map[string]tview.View[T], in Instruction, shape func() tview.Shape) tview.View[T] {
	if !in.Alloc {
		return env[in.Dst]
	}
	d := tview.Allocate[T](nil, shape())
	env[in.Dst] = d
	return d
}

func conjFlag(c bool) tkernel.ConjFlag {
	if c {
		return tkernel.Conjugate
	}
	return tkernel.Plain
}
