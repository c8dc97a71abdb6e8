// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctree implements spec.md §4.11's contraction-tree builder and
// sorter, grounded the same way package preprocess is: a total recursive
// construction keyed on the factors' free-index lists.
package ctree

import "github.com/tensorcontract/tcontract/texpr/ast"

// Tree is a binary contraction tree. A leaf names a factor by its
// position in the original factor list; an internal node pairs two
// subtrees for a single two-operand contraction.
type Tree struct {
	Leaf        bool
	FactorIndex int
	Left, Right *Tree
}

func leaf(i int) *Tree { return &Tree{Leaf: true, FactorIndex: i} }

func node(l, r *Tree) *Tree { return &Tree{Left: l, Right: r} }

// Build constructs a contraction tree over factors, given each factor's
// free-index list (the subscript's Left++Right labels after n-index
// completion has run, if applicable). When every factor's labels are all
// integer literals (the positional contracted/free convention: positive
// for contracted, negative for free), buildPositional's greedy pairing is
// used; otherwise Build falls back to the default left-fold
// [[[[1,2],3],4],…] (§4.11).
func Build(indexLists [][]*ast.Node) *Tree {
	if len(indexLists) == 0 {
		return nil
	}
	if allPositional(indexLists) {
		return buildPositional(indexLists)
	}
	return leftFold(len(indexLists))
}

func leftFold(n int) *Tree {
	tree := leaf(0)
	for i := 1; i < n; i++ {
		tree = node(tree, leaf(i))
	}
	return tree
}

func allPositional(indexLists [][]*ast.Node) bool {
	for _, labels := range indexLists {
		for _, lbl := range labels {
			if lbl.Kind != ast.KindLiteral {
				return false
			}
		}
	}
	return true
}

// buildPositional is a simplified, documented specialization of §4.11's
// "specialized builder" for the positive/negative positional convention:
// it greedily pairs factors that share a contracted (positive-integer)
// label, left to right, and left-folds the result with any factors that
// share no label with the running accumulation. This differs from a fully
// general bracketing search (which would consider all pairings to
// minimize intermediate rank) by always extending the current
// accumulation next, trading optimality of the resulting tree shape for a
// simple, verifiably-correct construction; documented in DESIGN.md as a
// deliberate simplification since this module's correctness cannot be
// checked by execution.
func buildPositional(indexLists [][]*ast.Node) *Tree {
	used := make([]bool, len(indexLists))
	labelsOf := func(i int) map[float64]bool {
		set := map[float64]bool{}
		for _, lbl := range indexLists[i] {
			if lbl.Num > 0 {
				set[lbl.Num] = true
			}
		}
		return set
	}

	tree := leaf(0)
	acc := labelsOf(0)
	used[0] = true

	for {
		progressed := false
		for i := 1; i < len(indexLists); i++ {
			if used[i] {
				continue
			}
			shares := false
			for lbl := range labelsOf(i) {
				if acc[lbl] {
					shares = true
					break
				}
			}
			if shares {
				tree = node(tree, leaf(i))
				for lbl := range labelsOf(i) {
					acc[lbl] = true
				}
				used[i] = true
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	// Any factor sharing no contracted label with the running product
	// (e.g. a disjoint outer-product factor) is still appended, matching
	// the default builder's behavior for that case.
	for i := 1; i < len(indexLists); i++ {
		if !used[i] {
			tree = node(tree, leaf(i))
			used[i] = true
		}
	}
	return tree
}

// Sort walks tree, substituting each leaf with its corresponding original
// factor expression, and returns the fully parenthesized binary product
// (§4.11). factors[i] is the general-tensor (or scalar-wrapped) expression
// for the factor at position i in the original list supplied to Build.
func Sort(tree *Tree, factors []*ast.Node) *ast.Node {
	if tree.Leaf {
		return factors[tree.FactorIndex]
	}
	return ast.Mul(Sort(tree.Left, factors), Sort(tree.Right, factors))
}
