// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package preprocess implements spec.md §4.10's four ordered rewrite
// passes over the syntax tree. Each pass is a total recursive rewrite
// keyed on node kind (spec.md §9), grounded the same way package classify
// and package decompose are.
package preprocess

import (
	"strconv"
	"sync/atomic"

	"github.com/tensorcontract/tcontract/texpr/ast"
)

// NormalizeIndices rewrites every prime-call node ("'"(x)) into a symbol
// whose name carries a trailing "'" suffix, folding repeated prime
// wrapping into repeated suffix characters (§4.10a). It is stable under
// double application: running it again on its own output is a no-op,
// since no prime-call nodes remain.
func NormalizeIndices(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindCall && n.Name == "'" && len(n.Args) == 1 {
		inner := NormalizeIndices(n.Args[0])
		if inner.Kind == ast.KindSymbol {
			return &ast.Node{Kind: ast.KindSymbol, Name: inner.Name + "'"}
		}
		// Not a symbol leaf (e.g. a primed literal); leave the prime-call
		// wrapping in place over the normalized child.
		return ast.Prime(inner)
	}
	return mapChildren(n, NormalizeIndices)
}

// ExpandConjugation pushes conj(…) inward so it attaches to individual
// tensor and scalar leaves, per §4.10b: conj distributes over +, -, *, /,
// and conj(conj(x)) cancels.
func ExpandConjugation(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindCall && n.Name == "conj" && len(n.Args) == 1 {
		return pushConj(ExpandConjugation(n.Args[0]))
	}
	return mapChildren(n, ExpandConjugation)
}

func pushConj(n *ast.Node) *ast.Node {
	if n.Kind == ast.KindCall {
		switch n.Name {
		case "conj":
			if len(n.Args) == 1 {
				return n.Args[0]
			}
		case "+", "-", "*":
			args := make([]*ast.Node, len(n.Args))
			for i, a := range n.Args {
				args[i] = pushConj(a)
			}
			return &ast.Node{Kind: ast.KindCall, Name: n.Name, Args: args}
		case "/":
			if len(n.Args) == 2 {
				return ast.Div(pushConj(n.Args[0]), pushConj(n.Args[1]))
			}
		}
	}
	// Tensor and scalar leaves: conj attaches directly.
	return ast.Conj(n)
}

// CompleteNIndices fills in the positional-integer convention: an index
// slot left unspecified (represented, since this module has no textual
// parser, as a nil *ast.Node placeholder in a Left/Right list) is assigned
// a fresh label. Positive integers are the contracted convention's free
// slots are negative; this pass assigns the next unused negative integer
// literal to each nil placeholder it finds directly inside a subscript's
// Left or Right list, leaving already-labeled slots untouched (§4.10c).
func CompleteNIndices(n *ast.Node) *ast.Node {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindSubscript {
		next := nextFreeLabel(n.Left, n.Right)
		return &ast.Node{
			Kind:  ast.KindSubscript,
			Obj:   n.Obj,
			Left:  completeSlots(n.Left, &next),
			Right: completeSlots(n.Right, &next),
		}
	}
	return mapChildren(n, CompleteNIndices)
}

func nextFreeLabel(lists ...[]*ast.Node) int {
	min := int64(0)
	for _, list := range lists {
		for _, idx := range list {
			if idx != nil && idx.Kind == ast.KindLiteral && idx.Num < 0 && int64(idx.Num) < min {
				min = int64(idx.Num)
			}
		}
	}
	return int(min) - 1
}

func completeSlots(list []*ast.Node, next *int) []*ast.Node {
	if list == nil {
		return nil
	}
	out := make([]*ast.Node, len(list))
	for i, idx := range list {
		if idx == nil {
			out[i] = ast.Literal(float64(*next))
			*next--
			continue
		}
		out[i] = idx
	}
	return out
}

var gensymCounter atomic.Uint64

// Gensym returns a fresh identifier distinct from every other identifier
// this process has generated via Gensym so far.
func Gensym(prefix string) string {
	id := gensymCounter.Add(1)
	return prefix + "#" + strconv.FormatUint(id, 10)
}

// ExtractedObjects is the result of ExtractTensorObjects: the rewritten
// expression with each distinct tensor object replaced by a gensym, plus
// the preamble/postamble binding blocks (§4.10d).
type ExtractedObjects struct {
	Expr      *ast.Node
	Preamble  *ast.Node // KindBlock of gensym = original bindings
	Postamble *ast.Node // KindBlock rebinding defined output identifiers back to their user name
}

// ExtractTensorObjects gensyms a fresh identifier for each distinct tensor
// object appearing in expr, emitting a preamble block binding gensyms to
// their originals. outputName, when non-empty, names the tensor object
// being defined by the enclosing assignment; when that object occurs in
// expr, a postamble rebinding it back is emitted (otherwise the postamble
// is empty) so later passes see a stable output identity even though the
// kernels write into the gensym. Both blocks are tagged Name "opaque" so
// later passes (package preprocess's own callers, and the _flatten
// postprocessor) must not descend into them, per §4.10d.
func ExtractTensorObjects(expr *ast.Node, outputName string) ExtractedObjects {
	seen := map[string]string{}
	var preamble []*ast.Node

	var walk func(n *ast.Node) *ast.Node
	walk = func(n *ast.Node) *ast.Node {
		if n == nil {
			return nil
		}
		if n.Kind == ast.KindSubscript && n.Obj != nil && n.Obj.Kind == ast.KindSymbol {
			orig := n.Obj.Name
			gensym, ok := seen[orig]
			if !ok {
				gensym = Gensym(orig)
				seen[orig] = gensym
				preamble = append(preamble, ast.Assign("=", ast.Symbol(gensym), ast.Symbol(orig)))
			}
			return &ast.Node{Kind: ast.KindSubscript, Obj: ast.Symbol(gensym), Left: n.Left, Right: n.Right}
		}
		return mapChildren(n, walk)
	}

	rewritten := walk(expr)

	var postamble []*ast.Node
	if outputName != "" {
		if gensym, ok := seen[outputName]; ok {
			postamble = append(postamble, ast.Assign("=", ast.Symbol(outputName), ast.Symbol(gensym)))
		}
	}

	return ExtractedObjects{
		Expr:      rewritten,
		Preamble:  opaqueBlock(preamble),
		Postamble: opaqueBlock(postamble),
	}
}

func opaqueBlock(stmts []*ast.Node) *ast.Node {
	return &ast.Node{Kind: ast.KindBlock, Name: "opaque", Left: stmts}
}

// mapChildren rewrites n's children with fn and returns a new node of the
// same kind, leaving leaf kinds (symbol, literal) untouched. It is the
// shared structural-recursion step every pass in this package uses.
func mapChildren(n *ast.Node, fn func(*ast.Node) *ast.Node) *ast.Node {
	switch n.Kind {
	case ast.KindSymbol, ast.KindLiteral:
		return n
	case ast.KindSubscript:
		return &ast.Node{Kind: n.Kind, Name: n.Name, Obj: fn(n.Obj), Left: mapList(n.Left, fn), Right: mapList(n.Right, fn)}
	case ast.KindBlock:
		if n.Name == "opaque" {
			return n
		}
		return &ast.Node{Kind: n.Kind, Name: n.Name, Left: mapList(n.Left, fn)}
	case ast.KindTuple, ast.KindRow:
		return &ast.Node{Kind: n.Kind, Name: n.Name, Left: mapList(n.Left, fn)}
	case ast.KindAssignment, ast.KindCall, ast.KindMacrocall, ast.KindTypedHcat, ast.KindTypedVcat, ast.KindFor, ast.KindFunction:
		return &ast.Node{Kind: n.Kind, Name: n.Name, Num: n.Num, Args: mapList(n.Args, fn)}
	default:
		return n
	}
}

func mapList(list []*ast.Node, fn func(*ast.Node) *ast.Node) []*ast.Node {
	if list == nil {
		return nil
	}
	out := make([]*ast.Node, len(list))
	for i, c := range list {
		out[i] = fn(c)
	}
	return out
}
