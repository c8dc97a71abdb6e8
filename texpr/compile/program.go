// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compile implements spec.md §4.12's instantiator and §4.13's
// postprocessors, lowering a preprocessed syntax tree into a Program: a
// flat sequence of kernel-call Instructions. It is grounded the same way
// texpr/preprocess and texpr/ctree are, with one addition: compiled code
// runs many times against different environments, so - following
// itohio-EasyRobot's pkg/logger package-level zerolog.Logger convention -
// this package logs compilation (not per-instruction execution) at debug
// level through a package-level Log.
package compile

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/tensorcontract/tcontract/tcache"
)

// Log is this package's logger, grounded on itohio-EasyRobot's
// pkg/logger.Log: a package-level zerolog.Logger tagged with a
// "component" field, used only around compilation (Compile), never inside Run's per-
// instruction dispatch, which must stay allocation-light.
var Log = zlog.With().Str("component", "texpr/compile").Logger()

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// Op names which kernel an Instruction invokes.
type Op int

const (
	OpAdd Op = iota
	OpTrace
	OpContract
	// OpScalar assigns a compile-time-constant scalar (Alpha) into a
	// rank-0 destination, combined with the destination's prior value via
	// Beta; it has no source operand.
	OpScalar
	// OpBind aliases Dst to Src in the environment without calling a
	// kernel: Compile emits one per preamble/postamble binding that
	// preprocess.ExtractTensorObjects records (§4.10d), realizing the
	// gensym-to-original and original-to-gensym renames its opaque blocks
	// describe.
	OpBind
)

func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpTrace:
		return "trace"
	case OpContract:
		return "contract"
	case OpScalar:
		return "scalar"
	case OpBind:
		return "bind"
	default:
		return "unknown"
	}
}

// Instruction is one lowered kernel call. Which fields are meaningful
// depends on Op:
//
//   - OpAdd: Src, Dst, Perm (indCinA), Alpha, Beta, ConjSrc.
//   - OpTrace: Src, Dst, Left, Right, Cind1, Cind2, Alpha, Beta, ConjSrc.
//   - OpContract: SrcA, SrcB, Dst, OindA, CindA, OindB, CindB, Perm
//     (indCinoAB), Alpha, Beta, ConjSrc (A), ConjB.
//
// Dst names a fresh temporary when Alloc is true (a `:=` definition);
// Run allocates it, sized from the operand views, before issuing the
// kernel call.
type Instruction struct {
	Op Op

	Src, SrcA, SrcB, Dst string

	Perm                   []int
	Left, Right            []int
	Cind1, Cind2           []int
	OindA, CindA           []int
	OindB, CindB           []int

	Alpha   float64
	Beta    float64
	ConjSrc bool
	ConjB   bool

	// Alloc marks Dst as needing fresh allocation before the kernel call
	// (a `:=` definition, or an intermediate temporary introduced while
	// lowering a chained contraction); Run sizes it from the live operand
	// view(s) via tview.SelectSizes/SelectSizesAB rather than a
	// compile-time shape, since shapes are only known at Run time.
	Alloc bool

	// Site, when non-empty, routes a contraction's BLAS temporary through
	// package tcache under this call-site tag (spec.md §4.3).
	Site tcache.SiteTag
}

func (in Instruction) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s <- %g*%s", in.Dst, in.Alpha, in.Op)
	switch in.Op {
	case OpAdd:
		fmt.Fprintf(&b, "(%s)%v + %g*%s", in.Src, in.Perm, in.Beta, in.Dst)
	case OpTrace:
		fmt.Fprintf(&b, "(%s)[%v;%v] + %g*%s", in.Src, in.Left, in.Right, in.Beta, in.Dst)
	case OpContract:
		fmt.Fprintf(&b, "(%s,%s)[%v;%v|%v;%v]%v + %g*%s", in.SrcA, in.SrcB, in.OindA, in.CindA, in.OindB, in.CindB, in.Perm, in.Beta, in.Dst)
	case OpScalar:
		fmt.Fprintf(&b, "() + %g*%s", in.Beta, in.Dst)
	case OpBind:
		fmt.Fprintf(&b, "(%s)", in.Src)
	}
	if in.Alloc {
		b.WriteString(" [alloc]")
	}
	return b.String()
}

// Program is a flat sequence of Instructions, the result of compiling one
// or more assignment/definition statements (§4.13's `_flatten`: "hoists
// nested block expressions so assignments appear at the top level").
type Program struct {
	Instructions []Instruction
}

func (p *Program) String() string {
	var b strings.Builder
	for i, in := range p.Instructions {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(in.String())
	}
	return b.String()
}
