// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package classify implements spec.md §4.8's syntax-tree predicates: total
// recursive functions keyed on ast.Kind, following the node-kind-switch
// idiom spec.md §9's Design Notes calls for ("each pass is a total
// recursive rewrite keyed on node kind"). There is no teacher file for
// syntax-tree classification (outside this domain's scope for gonum); the
// recursive-descent-over-a-small-closed-node-set style is grounded on
// go/ast's own Inspect-style walks generalized to this package's single
// Node type.
package classify

import "github.com/tensorcontract/tcontract/texpr/ast"

// IsIndex reports whether n is a plain name, a small integer, or a primed
// form of one of those (§4.8).
func IsIndex(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindSymbol:
		return true
	case ast.KindLiteral:
		return n.Num == float64(int64(n.Num))
	case ast.KindCall:
		return n.Name == "'" && len(n.Args) == 1 && IsIndex(n.Args[0])
	default:
		return false
	}
}

// IsTensor reports whether n is a subscripted form obj[...] (§4.8).
func IsTensor(n *ast.Node) bool {
	return n.Kind == ast.KindSubscript
}

// IsGeneralTensor reports whether n is a tensor, a unary +/- of one, a
// conj/adjoint/transpose/prime of one, or a product/quotient of one with
// scalars only (§4.8).
func IsGeneralTensor(n *ast.Node) bool {
	if IsTensor(n) {
		return true
	}
	if n.Kind != ast.KindCall {
		return false
	}
	switch n.Name {
	case "-", "+":
		return len(n.Args) == 1 && IsGeneralTensor(n.Args[0])
	case "conj", "adjoint", "transpose", "'":
		return len(n.Args) == 1 && IsGeneralTensor(n.Args[0])
	case "*":
		return hasExactlyOneGeneralTensor(n.Args)
	case "/":
		return len(n.Args) == 2 && IsGeneralTensor(n.Args[0]) && IsScalarExpr(n.Args[1])
	default:
		return false
	}
}

func hasExactlyOneGeneralTensor(args []*ast.Node) bool {
	count := 0
	for _, a := range args {
		switch {
		case IsGeneralTensor(a):
			count++
		case IsScalarExpr(a):
			// scalar factor, fine
		default:
			return false
		}
	}
	return count == 1
}

// IsScalarExpr reports whether n is a numeric literal, a plain name, or a
// call none of whose leaves is a subscripted form, or an explicit
// scalar(…) escape over a tensor expression (§4.8).
func IsScalarExpr(n *ast.Node) bool {
	switch n.Kind {
	case ast.KindLiteral, ast.KindSymbol:
		return true
	case ast.KindCall:
		if n.Name == "scalar" {
			return len(n.Args) == 1
		}
		for _, a := range n.Args {
			if containsSubscript(a) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func containsSubscript(n *ast.Node) bool {
	if n.Kind == ast.KindSubscript {
		return true
	}
	if n.Kind != ast.KindCall {
		return false
	}
	for _, a := range n.Args {
		if containsSubscript(a) {
			return true
		}
	}
	return false
}

// IsTensorExpr reports whether n is a general-tensor, a sum/difference of
// tensor expressions, a product containing at least one tensor-expr
// factor and any number of scalar factors, a scalar-divided tensor
// expression, or a conjugate/adjoint of one (§4.8).
func IsTensorExpr(n *ast.Node) bool {
	if IsGeneralTensor(n) {
		return true
	}
	if n.Kind != ast.KindCall {
		return false
	}
	switch n.Name {
	case "+", "-":
		if len(n.Args) == 0 {
			return false
		}
		for _, a := range n.Args {
			if !IsTensorExpr(a) {
				return false
			}
		}
		return true
	case "*":
		hasTensor := false
		for _, a := range n.Args {
			switch {
			case IsTensorExpr(a):
				hasTensor = true
			case IsScalarExpr(a):
			default:
				return false
			}
		}
		return hasTensor
	case "/":
		return len(n.Args) == 2 && IsTensorExpr(n.Args[0]) && IsScalarExpr(n.Args[1])
	case "conj", "adjoint":
		return len(n.Args) == 1 && IsTensorExpr(n.Args[0])
	default:
		return false
	}
}

// IsContraction reports whether n is a product with at least two
// tensor-expr factors (§4.8).
func IsContraction(n *ast.Node) bool {
	if n.Kind != ast.KindCall || n.Name != "*" {
		return false
	}
	count := 0
	for _, a := range n.Args {
		if IsTensorExpr(a) {
			count++
		}
	}
	return count >= 2
}
