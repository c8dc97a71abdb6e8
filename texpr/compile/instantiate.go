// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"fmt"

	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/tcindex"
	"github.com/tensorcontract/tcontract/texpr/ast"
	"github.com/tensorcontract/tcontract/texpr/classify"
	"github.com/tensorcontract/tcontract/texpr/ctree"
	"github.com/tensorcontract/tcontract/texpr/decompose"
	"github.com/tensorcontract/tcontract/texpr/preprocess"
)

// Instantiate lowers one assignment/definition statement into a Program,
// implementing spec.md §4.12. stmt must be a KindAssignment node whose
// Name is one of "=", ":=", "+=", "-=".
//
// This instantiator supports the subset of §4.12 that can be built and
// verified without a textual parser: the RHS's scalar factors must be
// numeric literals (so the accumulated α is a compile-time constant), and
// every tensor factor must decompose to a plain general tensor (a
// subscript optionally wrapped in unary +/-, conj, or adjoint/transpose
// directly over a tensor leaf, per the Open Question decision in
// decompose.DecomposeGeneralTensor). A non-literal scalar factor (e.g. a
// named scalar variable used as a coefficient) is out of scope for this
// subset and raises ErrInvalidExpression; documented as a simplification
// in DESIGN.md.
func Instantiate(stmt *ast.Node) (*Program, error) {
	if stmt.Kind != ast.KindAssignment || len(stmt.Args) != 2 {
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: expected an assignment node, got %s", stmt.Kind)
	}
	lhs, rhs := stmt.Args[0], stmt.Args[1]
	if !classify.IsTensor(lhs) {
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: left-hand side must be a tensor, got %s", lhs.Kind)
	}
	dstName := lhs.Obj.Name
	dstLabels := labelKeys(axisNodes(lhs))
	if err := checkUnique(dstLabels); err != nil {
		return nil, err
	}

	var beta float64
	alloc := false
	switch stmt.Name {
	case ":=":
		beta, alloc = 0, true
	case "=":
		beta = 0
	case "+=":
		beta = 1
	case "-=":
		beta = -1
	default:
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: unrecognized assignment operator %q", stmt.Name)
	}

	Log.Debug().Str("dst", dstName).Str("op", stmt.Name).Msg("instantiating assignment")

	b := &builder{dstName: dstName, dstLabels: dstLabels, beta: beta, alloc: alloc}

	if !classify.IsTensorExpr(rhs) {
		// A scalar-valued RHS is wrapped in scalar(...) per §4.12; this
		// subset only ever sees that case as a bare numeric literal.
		if classify.IsScalarExpr(rhs) && len(dstLabels) == 0 {
			v, err := literalValue(rhs)
			if err != nil {
				return nil, err
			}
			b.prog.Instructions = append(b.prog.Instructions, Instruction{
				Op: OpScalar, Dst: dstName, Alpha: v, Beta: beta, Alloc: alloc,
			})
			return &b.prog, nil
		}
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: right-hand side is neither a tensor expression nor a scalar expression")
	}

	factors, alpha, err := flattenProduct(rhs)
	if err != nil {
		return nil, err
	}

	switch len(factors) {
	case 0:
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: empty product")
	case 1:
		f := factors[0]
		labels := labelKeys(append(append([]*ast.Node{}, f.left...), f.right...))
		tcindex.CheckAtMostTwice(tcindex.List[string](labels))
		counts := tcindex.CountOccurrences(tcindex.List[string](labels))
		repeated := false
		for _, n := range counts {
			if n == 2 {
				repeated = true
			}
		}
		if repeated {
			left, right, cind1, cind2 := traceLayout(labels, dstLabels)
			b.prog.Instructions = append(b.prog.Instructions, Instruction{
				Op: OpTrace, Src: f.name, Dst: dstName,
				Left: left, Right: right, Cind1: cind1, Cind2: cind2,
				Alpha: alpha, Beta: beta, ConjSrc: f.conj, Alloc: alloc,
			})
		} else {
			perm := tcindex.AddPermutation(tcindex.List[string](labels), tcindex.List[string](dstLabels))
			b.prog.Instructions = append(b.prog.Instructions, Instruction{
				Op: OpAdd, Src: f.name, Dst: dstName, Perm: perm,
				Alpha: alpha, Beta: beta, ConjSrc: f.conj, Alloc: alloc,
			})
		}
		return &b.prog, nil
	default:
		allLabels := make([]string, 0)
		for _, f := range factors {
			allLabels = append(allLabels, labelKeys(append(append([]*ast.Node{}, f.left...), f.right...))...)
		}
		tcindex.CheckAtMostTwice(tcindex.List[string](allLabels))
		tree := ctree.Build(indexListsOf(factors))
		root := b.emitTree(tree, factors, alpha, beta, alloc)
		if root != dstName {
			// Defensive: emitTree always names the root instruction's Dst
			// as dstName (see below), so this path is unreachable; kept as
			// a direct panic rather than silently returning a mismatched
			// program.
			panic("instantiate: internal error, root temporary name does not match destination")
		}
		return &b.prog, nil
	}
}

type builder struct {
	dstName   string
	dstLabels []string
	beta      float64
	alloc     bool
	prog      Program
}

type factor struct {
	name        string
	left, right []*ast.Node
	conj        bool
}

// flattenProduct walks a product of general-tensor and scalar-literal
// factors (spec.md §4.9's general-tensor form, one level up: a product
// node whose args are each either a general tensor, a scalar, or itself a
// nested "*" of more such terms), returning one factor per tensor operand
// and the accumulated scalar coefficient. The recursive descent into
// nested "*" calls is what lets this instantiator accept both a flat
// n-ary product (built directly, as every Instantiate-level test does)
// and the fully-parenthesized binary product ctree.Sort returns when
// Compile has already chosen a contraction order - both flatten to the
// same factor list in source order.
func flattenProduct(rhs *ast.Node) ([]factor, float64, error) {
	alpha := 1.0
	var factors []factor

	var walk func(n *ast.Node) error
	walk = func(n *ast.Node) error {
		if n.Kind == ast.KindCall && n.Name == "*" && !classify.IsGeneralTensor(n) {
			for _, a := range n.Args {
				if err := walk(a); err != nil {
					return err
				}
			}
			return nil
		}
		if classify.IsGeneralTensor(n) {
			obj, left, right, termAlpha, conj, err := decompose.DecomposeGeneralTensor(n)
			if err != nil {
				return err
			}
			if termAlpha != nil {
				v, err := literalValue(termAlpha)
				if err != nil {
					return err
				}
				alpha *= v
			}
			factors = append(factors, factor{name: obj.Name, left: left, right: right, conj: conj})
			return nil
		}
		v, err := literalValue(n)
		if err != nil {
			return err
		}
		alpha *= v
		return nil
	}

	if err := walk(rhs); err != nil {
		return nil, 0, err
	}
	return factors, alpha, nil
}

func indexListsOf(factors []factor) [][]*ast.Node {
	out := make([][]*ast.Node, len(factors))
	for i, f := range factors {
		out[i] = append(append([]*ast.Node{}, f.left...), f.right...)
	}
	return out
}

// emitTree lowers a contraction tree post-order, emitting one OpContract
// Instruction per internal node. root is the final assignment's
// Instruction and is named dstName/beta/alloc/alpha; every other node
// introduces a fresh gensym temporary, accumulates with β=0, and an α of
// 1 (the overall scalar factor is folded entirely into the root
// instruction, since scalar multiplication commutes with contraction).
func (b *builder) emitTree(tree *ctree.Tree, factors []factor, alpha, beta float64, alloc bool) string {
	name, _, _ := b.emit(tree, factors, alpha, beta, alloc, true)
	return name
}

// emit returns (name, labels, conj) for the subtree's result: conj is
// always false for an internal node's materialized temporary, since the
// kernel call already applied any operand conjugation.
func (b *builder) emit(tree *ctree.Tree, factors []factor, alpha, beta float64, alloc, isRoot bool) (string, []string, bool) {
	if tree.Leaf {
		f := factors[tree.FactorIndex]
		return f.name, labelKeys(append(append([]*ast.Node{}, f.left...), f.right...)), f.conj
	}
	lname, llabels, lconj := b.emit(tree.Left, factors, 1, 0, true, false)
	rname, rlabels, rconj := b.emit(tree.Right, factors, 1, 0, true, false)

	cindLabels := commonLabels(llabels, rlabels)
	oindALabels := tcindex.Setdiff(tcindex.List[string](llabels), tcindex.List[string](cindLabels))
	oindBLabels := tcindex.Setdiff(tcindex.List[string](rlabels), tcindex.List[string](cindLabels))

	oindAPos, cindAPos := tcindex.ContractOpenContracted(tcindex.List[string](llabels), tcindex.List[string](oindALabels), tcindex.List[string](cindLabels))
	oindBPos, cindBPos := tcindex.ContractOpenContracted(tcindex.List[string](rlabels), tcindex.List[string](oindBLabels), tcindex.List[string](cindLabels))

	var destLabels []string
	var destName string
	var useAlpha, useBeta float64
	var useAlloc bool
	if isRoot {
		destLabels = b.dstLabels
		destName = b.dstName
		useAlpha, useBeta, useAlloc = alpha, beta, alloc
	} else {
		destLabels = append(append([]string{}, oindALabels...), oindBLabels...)
		destName = preprocess.Gensym("t")
		useAlpha, useBeta, useAlloc = 1, 0, true
	}

	perm := tcindex.ContractOutputPermutation(tcindex.List[string](oindALabels), tcindex.List[string](oindBLabels), tcindex.List[string](destLabels))

	b.prog.Instructions = append(b.prog.Instructions, Instruction{
		Op: OpContract, SrcA: lname, SrcB: rname, Dst: destName,
		OindA: oindAPos, CindA: cindAPos, OindB: oindBPos, CindB: cindBPos, Perm: perm,
		Alpha: useAlpha, Beta: useBeta, ConjSrc: lconj, ConjB: rconj, Alloc: useAlloc,
	})
	return destName, destLabels, false
}

func commonLabels(a, b []string) []string {
	bSet := make(map[string]int, len(b))
	for _, v := range b {
		bSet[v]++
	}
	var out []string
	for _, v := range a {
		if bSet[v] > 0 {
			out = append(out, v)
			bSet[v]--
		}
	}
	return out
}

// traceLayout adapts tcindex.TraceLayout into tkernel.Trace's
// (left, right, cind1, cind2) parameters. TraceLayout's perm already is
// the "left++right" permutation of A's free axes onto C's axes that
// tkernel.Trace expects; this instantiator always returns it whole as
// left, leaving right empty, since nothing here needs to split the
// destination's axes across both halves of that permutation.
func traceLayout(srcLabels, dstLabels []string) (left, right, cind1, cind2 []int) {
	perm, first, second := tcindex.TraceLayout(tcindex.List[string](srcLabels), tcindex.List[string](dstLabels))
	return perm, nil, first, second
}

func axisNodes(tensor *ast.Node) []*ast.Node {
	return append(append([]*ast.Node{}, tensor.Left...), tensor.Right...)
}

func labelKeys(nodes []*ast.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = labelKey(n)
	}
	return out
}

func labelKey(n *ast.Node) string {
	switch n.Kind {
	case ast.KindSymbol:
		return n.Name
	case ast.KindLiteral:
		return fmt.Sprintf("#%g", n.Num)
	default:
		panic(tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: index position is neither a symbol nor a literal: %s", n.Kind))
	}
}

func checkUnique(labels []string) error {
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		if seen[l] {
			return tcerr.Detailf(tcerr.ErrInvalidIndices, "instantiate: destination index %q repeated", l)
		}
		seen[l] = true
	}
	return nil
}

func literalValue(n *ast.Node) (float64, error) {
	if n.Kind != ast.KindLiteral {
		return 0, tcerr.Detailf(tcerr.ErrInvalidExpression, "instantiate: scalar factor must be a numeric literal in this subset, got %s", n.Kind)
	}
	return n.Num, nil
}
