// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package preprocess

import (
	"testing"

	"github.com/tensorcontract/tcontract/texpr/ast"
)

func TestNormalizeIndicesFoldsPrime(t *testing.T) {
	in := ast.Tensor("A", []*ast.Node{ast.Prime(ast.Symbol("i")), ast.Symbol("j")}, nil)
	out := NormalizeIndices(in)
	if out.Kind != ast.KindSubscript {
		t.Fatalf("expected subscript, got %s", out.Kind)
	}
	if out.Left[0].Kind != ast.KindSymbol || out.Left[0].Name != "i'" {
		t.Fatalf("expected symbol i', got %+v", out.Left[0])
	}
	if out.Left[1].Name != "j" {
		t.Fatalf("second index should be untouched: %+v", out.Left[1])
	}
}

func TestNormalizeIndicesDoublePrime(t *testing.T) {
	in := ast.Prime(ast.Prime(ast.Symbol("i")))
	out := NormalizeIndices(in)
	if out.Kind != ast.KindSymbol || out.Name != "i''" {
		t.Fatalf("expected symbol i'', got %+v", out)
	}
	// Stable under a second application.
	out2 := NormalizeIndices(out)
	if out2.Name != "i''" {
		t.Fatalf("not stable: %+v", out2)
	}
}

func TestExpandConjugationDistributesOverSum(t *testing.T) {
	A := ast.Tensor("A", []*ast.Node{ast.Symbol("i")}, nil)
	B := ast.Tensor("B", []*ast.Node{ast.Symbol("i")}, nil)
	in := ast.Conj(ast.Add(A, B))
	out := ExpandConjugation(in)
	if out.Kind != ast.KindCall || out.Name != "+" || len(out.Args) != 2 {
		t.Fatalf("expected a sum of two conj leaves, got %+v", out)
	}
	for _, arg := range out.Args {
		if arg.Kind != ast.KindCall || arg.Name != "conj" {
			t.Errorf("expected conj leaf, got %+v", arg)
		}
	}
}

func TestExpandConjugationCancelsDouble(t *testing.T) {
	A := ast.Tensor("A", []*ast.Node{ast.Symbol("i")}, nil)
	in := ast.Conj(ast.Conj(A))
	out := ExpandConjugation(in)
	if out.Kind != ast.KindSubscript {
		t.Fatalf("expected conj(conj(A)) to cancel to A, got %+v", out)
	}
}

func TestExpandConjugationDistributesOverProduct(t *testing.T) {
	A := ast.Tensor("A", []*ast.Node{ast.Symbol("i"), ast.Symbol("j")}, nil)
	B := ast.Tensor("B", []*ast.Node{ast.Symbol("j")}, nil)
	in := ast.Conj(ast.Mul(A, B))
	out := ExpandConjugation(in)
	if out.Kind != ast.KindCall || out.Name != "*" {
		t.Fatalf("expected product, got %+v", out)
	}
	for _, arg := range out.Args {
		if arg.Name != "conj" {
			t.Errorf("expected conj leaf in product, got %+v", arg)
		}
	}
}

func TestCompleteNIndicesAssignsDistinctNegativeLabels(t *testing.T) {
	in := ast.Tensor("A", []*ast.Node{nil, ast.Literal(3), nil}, nil)
	out := CompleteNIndices(in)
	if out.Left[1].Num != 3 {
		t.Fatalf("explicit label must survive untouched, got %+v", out.Left[1])
	}
	a, c := out.Left[0].Num, out.Left[2].Num
	if a >= 0 || c >= 0 {
		t.Fatalf("nil slots must receive negative labels, got %v, %v", a, c)
	}
	if a == c {
		t.Fatalf("nil slots must receive distinct labels, both got %v", a)
	}
}

func TestCompleteNIndicesLeavesFullyLabeled(t *testing.T) {
	in := ast.Tensor("A", []*ast.Node{ast.Literal(1), ast.Literal(2)}, nil)
	out := CompleteNIndices(in)
	if out.Left[0].Num != 1 || out.Left[1].Num != 2 {
		t.Fatalf("fully labeled subscript should pass through unchanged, got %+v", out.Left)
	}
}

func TestGensymDistinct(t *testing.T) {
	a := Gensym("A")
	b := Gensym("A")
	if a == b {
		t.Fatalf("Gensym must produce distinct identifiers, got %q twice", a)
	}
}

func TestExtractTensorObjectsSharesGensymPerName(t *testing.T) {
	A1 := ast.Tensor("A", []*ast.Node{ast.Symbol("i"), ast.Symbol("j")}, nil)
	A2 := ast.Tensor("A", []*ast.Node{ast.Symbol("j"), ast.Symbol("k")}, nil)
	expr := ast.Mul(A1, A2)

	result := ExtractTensorObjects(expr, "")

	rewritten := result.Expr
	if rewritten.Kind != ast.KindCall || len(rewritten.Args) != 2 {
		t.Fatalf("expected rewritten product, got %+v", rewritten)
	}
	g1 := rewritten.Args[0].Obj.Name
	g2 := rewritten.Args[1].Obj.Name
	if g1 != g2 {
		t.Fatalf("both references to A should share one gensym, got %q and %q", g1, g2)
	}
	if result.Preamble.Kind != ast.KindBlock || result.Preamble.Name != "opaque" {
		t.Fatalf("preamble should be an opaque block, got %+v", result.Preamble)
	}
	if len(result.Preamble.Left) != 1 {
		t.Fatalf("expected exactly one binding (A appears twice but is one object), got %d", len(result.Preamble.Left))
	}
	binding := result.Preamble.Left[0]
	if binding.Kind != ast.KindAssignment || binding.Args[0].Name != g1 || binding.Args[1].Name != "A" {
		t.Fatalf("expected gensym := A binding, got %+v", binding)
	}
}

func TestExtractTensorObjectsEmitsPostambleForOutput(t *testing.T) {
	A := ast.Tensor("C", []*ast.Node{ast.Symbol("i")}, nil)
	result := ExtractTensorObjects(A, "C")
	if len(result.Postamble.Left) != 1 {
		t.Fatalf("expected a postamble rebinding C, got %d statements", len(result.Postamble.Left))
	}
	binding := result.Postamble.Left[0]
	if binding.Args[0].Name != "C" {
		t.Fatalf("postamble should rebind the user-facing name C, got %+v", binding.Args[0])
	}
}

func TestExtractTensorObjectsNoPostambleWhenOutputAbsent(t *testing.T) {
	A := ast.Tensor("A", []*ast.Node{ast.Symbol("i")}, nil)
	result := ExtractTensorObjects(A, "C")
	if len(result.Postamble.Left) != 0 {
		t.Fatalf("C never appears in expr, expected empty postamble, got %+v", result.Postamble.Left)
	}
}

func TestMapChildrenSkipsOpaqueBlocks(t *testing.T) {
	opaque := opaqueBlock([]*ast.Node{ast.Assign("=", ast.Symbol("g1"), ast.Symbol("A"))})
	touched := false
	fn := func(n *ast.Node) *ast.Node {
		if n.Kind == ast.KindSymbol && n.Name == "A" {
			touched = true
		}
		return n
	}
	_ = mapChildren(opaque, fn)
	if touched {
		t.Fatal("mapChildren must not descend into an opaque block")
	}
}
