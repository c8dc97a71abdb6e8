// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctree

import (
	"testing"

	"github.com/tensorcontract/tcontract/texpr/ast"
)

func factorNames(tree *Tree, factors []*ast.Node, t *testing.T) []string {
	t.Helper()
	sorted := Sort(tree, factors)
	var names []string
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n.Kind == ast.KindSymbol {
			names = append(names, n.Name)
			return
		}
		if n.Kind == ast.KindCall && n.Name == "*" {
			for _, a := range n.Args {
				walk(a)
			}
		}
	}
	walk(sorted)
	return names
}

func TestBuildDefaultLeftFold(t *testing.T) {
	indexLists := [][]*ast.Node{
		{ast.Symbol("i"), ast.Symbol("j")},
		{ast.Symbol("j"), ast.Symbol("k")},
		{ast.Symbol("k"), ast.Symbol("l")},
	}
	tree := Build(indexLists)
	if tree.Leaf {
		t.Fatal("expected an internal node for 3 factors")
	}
	// Left fold: ((0,1),2)
	if !tree.Right.Leaf || tree.Right.FactorIndex != 2 {
		t.Fatalf("expected rightmost leaf to be factor 2, got %+v", tree.Right)
	}
	inner := tree.Left
	if inner.Leaf || !inner.Left.Leaf || inner.Left.FactorIndex != 0 || !inner.Right.Leaf || inner.Right.FactorIndex != 1 {
		t.Fatalf("expected inner node (0,1), got %+v", inner)
	}
}

func TestSortProducesFullyParenthesizedProduct(t *testing.T) {
	factors := []*ast.Node{ast.Symbol("A"), ast.Symbol("B"), ast.Symbol("C")}
	tree := Build([][]*ast.Node{
		{ast.Symbol("i"), ast.Symbol("j")},
		{ast.Symbol("j"), ast.Symbol("k")},
		{ast.Symbol("k"), ast.Symbol("l")},
	})
	sorted := Sort(tree, factors)
	if sorted.Kind != ast.KindCall || sorted.Name != "*" || len(sorted.Args) != 2 {
		t.Fatalf("expected a binary product at the root, got %+v", sorted)
	}
	names := factorNames(tree, factors, t)
	want := []string{"A", "B", "C"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, names[i], want[i])
		}
	}
}

// TestBuildPositionalGreedilyPairsSharedContractedLabels covers the
// chained-matmul scenario D[a,d] := A[a,b]*B[b,c]*C[c,d] (spec scenario
// S5): positive integers label contracted axes, negative label free ones.
func TestBuildPositionalGreedilyPairsSharedContractedLabels(t *testing.T) {
	indexLists := [][]*ast.Node{
		{ast.Literal(-1), ast.Literal(1)},  // A[a,b]: a=-1 free, b=1 contracted
		{ast.Literal(1), ast.Literal(2)},   // B[b,c]: b=1, c=2
		{ast.Literal(2), ast.Literal(-2)},  // C[c,d]: c=2, d=-2 free
	}
	tree := Build(indexLists)
	if tree.Leaf {
		t.Fatal("expected an internal node")
	}
	factors := []*ast.Node{ast.Symbol("A"), ast.Symbol("B"), ast.Symbol("C")}
	names := factorNames(tree, factors, t)
	want := []string{"A", "B", "C"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestBuildPositionalAppendsDisjointFactor(t *testing.T) {
	// Factor 2 shares no contracted label with factors 0/1: outer product.
	indexLists := [][]*ast.Node{
		{ast.Literal(-1), ast.Literal(1)},
		{ast.Literal(1), ast.Literal(-2)},
		{ast.Literal(-3), ast.Literal(-4)},
	}
	tree := Build(indexLists)
	factors := []*ast.Node{ast.Symbol("A"), ast.Symbol("B"), ast.Symbol("C")}
	names := factorNames(tree, factors, t)
	if len(names) != 3 || names[2] != "C" {
		t.Fatalf("expected C appended last, got %v", names)
	}
}

func TestBuildSingleFactorIsLeaf(t *testing.T) {
	tree := Build([][]*ast.Node{{ast.Symbol("i")}})
	if !tree.Leaf || tree.FactorIndex != 0 {
		t.Fatalf("expected a single leaf, got %+v", tree)
	}
}
