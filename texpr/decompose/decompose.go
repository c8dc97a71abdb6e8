// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decompose implements spec.md §4.9's two extraction functions
// over the syntax tree schema in package texpr/ast, grounded the same way
// package classify is: a total recursive walk keyed on ast.Kind/Name,
// following spec.md §9's "each pass is a total recursive rewrite keyed on
// node kind."
package decompose

import (
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/texpr/ast"
	"github.com/tensorcontract/tcontract/texpr/classify"
)

// DecomposeTensor splits a subscripted form per its bracket shape (§4.9).
func DecomposeTensor(e *ast.Node) (obj *ast.Node, left, right []*ast.Node, err error) {
	if !classify.IsTensor(e) {
		return nil, nil, nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "decompose_tensor: node kind %s is not a subscripted tensor form", e.Kind)
	}
	return e.Obj, e.Left, e.Right, nil
}

// DecomposeGeneralTensor walks unary plus/minus, conj, adjoint, transpose,
// prime, and scalar multiplications/divisions, accumulating a scalar
// factor expression and a conjugation flag, per §4.9. Per the Open
// Question decision recorded in SPEC_FULL.md §4, adjoint/transpose are
// only recognized directly wrapping a tensor leaf (the tensor's own
// conjugation flag); composed with scalar multiplication elsewhere, they
// raise ErrInvalidExpression rather than being treated as a scalar-factor
// prefix, preserving the source's observed omission.
func DecomposeGeneralTensor(e *ast.Node) (obj *ast.Node, left, right []*ast.Node, alpha *ast.Node, conj bool, err error) {
	cur := e
	invalid := func() (*ast.Node, []*ast.Node, []*ast.Node, *ast.Node, bool, error) {
		return nil, nil, nil, nil, false, tcerr.Detailf(tcerr.ErrInvalidExpression, "decompose_general_tensor: not a general tensor")
	}

	for {
		if classify.IsTensor(cur) {
			return cur.Obj, cur.Left, cur.Right, alpha, conj, nil
		}
		if cur.Kind != ast.KindCall {
			return invalid()
		}
		switch cur.Name {
		case "+":
			if len(cur.Args) != 1 {
				return invalid()
			}
			cur = cur.Args[0]
		case "-":
			if len(cur.Args) != 1 {
				return invalid()
			}
			alpha = negate(alpha)
			cur = cur.Args[0]
		case "conj":
			if len(cur.Args) != 1 {
				return invalid()
			}
			conj = !conj
			cur = cur.Args[0]
		case "adjoint", "transpose", "'":
			if len(cur.Args) != 1 || !classify.IsTensor(cur.Args[0]) {
				return invalid()
			}
			conj = !conj
			cur = cur.Args[0]
		case "*":
			tensorIdx := -1
			for i, a := range cur.Args {
				if classify.IsGeneralTensor(a) {
					if tensorIdx >= 0 {
						return invalid()
					}
					tensorIdx = i
				}
			}
			if tensorIdx < 0 {
				return invalid()
			}
			for i, a := range cur.Args {
				if i == tensorIdx {
					continue
				}
				if !classify.IsScalarExpr(a) {
					return invalid()
				}
				alpha = mulAlpha(alpha, a)
			}
			cur = cur.Args[tensorIdx]
		case "/":
			if len(cur.Args) != 2 || !classify.IsScalarExpr(cur.Args[1]) {
				return invalid()
			}
			alpha = divAlpha(alpha, cur.Args[1])
			cur = cur.Args[0]
		default:
			return invalid()
		}
	}
}

func negate(alpha *ast.Node) *ast.Node {
	if alpha == nil {
		return ast.Literal(-1)
	}
	return ast.Mul(ast.Literal(-1), alpha)
}

func mulAlpha(alpha, factor *ast.Node) *ast.Node {
	if alpha == nil {
		return factor
	}
	return ast.Mul(alpha, factor)
}

func divAlpha(alpha, divisor *ast.Node) *ast.Node {
	if alpha == nil {
		return ast.Div(ast.Literal(1), divisor)
	}
	return ast.Div(alpha, divisor)
}
