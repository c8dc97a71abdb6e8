// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import (
	"github.com/tensorcontract/tcontract/tcerr"
	"github.com/tensorcontract/tcontract/texpr/ast"
	"github.com/tensorcontract/tcontract/texpr/classify"
	"github.com/tensorcontract/tcontract/texpr/ctree"
	"github.com/tensorcontract/tcontract/texpr/decompose"
	"github.com/tensorcontract/tcontract/texpr/preprocess"
)

// Compile implements spec.md §2's full pipeline - user expression →
// preprocessors → contraction-tree sort → per-statement instantiation →
// flattening - rather than Instantiate's direct one-statement lowering.
// root is either a single KindAssignment statement or a KindBlock of them
// (nested blocks are flattened recursively, the same way package ast's own
// Block constructor does for callers building a tree by hand).
//
// Each statement is run through §4.10's four ordered preprocessors
// (NormalizeIndices, ExpandConjugation, CompleteNIndices,
// ExtractTensorObjects), has a multi-factor contraction's factors
// reordered by §4.11's contraction-tree builder/sorter, and is lowered by
// Instantiate; the preamble/postamble bindings ExtractTensorObjects emits
// are realized as OpBind instructions. Flatten (§4.13) hoists every
// statement's preamble, body, and postamble into one sequence before
// lowering, skipping the opaque bind blocks it must not descend into.
func Compile(root *ast.Node) (*Program, error) {
	stmts := statementsOf(root)

	var pipeline []*ast.Node
	for _, stmt := range stmts {
		compiled, err := compileStatement(stmt)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, compiled...)
	}
	flattened := Flatten(&ast.Node{Kind: ast.KindBlock, Left: pipeline})

	prog := &Program{}
	for _, n := range flattened.Left {
		if n.Kind == ast.KindBlock && n.Name == "opaque" {
			for _, bind := range n.Left {
				prog.Instructions = append(prog.Instructions, bindInstruction(bind))
			}
			continue
		}
		sub, err := Instantiate(n)
		if err != nil {
			return nil, err
		}
		prog.Instructions = append(prog.Instructions, sub.Instructions...)
	}
	Log.Debug().Int("statements", len(stmts)).Int("instructions", len(prog.Instructions)).Msg("compiled program")
	return prog, nil
}

// statementsOf flattens root into its constituent assignment statements,
// descending into plain (non-opaque) blocks the way ast.Block itself does.
func statementsOf(root *ast.Node) []*ast.Node {
	if root.Kind == ast.KindBlock && root.Name != "opaque" {
		var out []*ast.Node
		for _, s := range root.Left {
			out = append(out, statementsOf(s)...)
		}
		return out
	}
	return []*ast.Node{root}
}

// compileStatement runs one assignment statement through the four §4.10
// preprocessors and §4.10d's tensor-object extraction, reorders a
// multi-factor contraction's right-hand side via sortProduct, and returns
// - in pipeline order - the preamble, the rewritten statement, and the
// postamble that Compile hands to Flatten.
func compileStatement(stmt *ast.Node) ([]*ast.Node, error) {
	if stmt.Kind != ast.KindAssignment || len(stmt.Args) != 2 {
		return nil, tcerr.Detailf(tcerr.ErrInvalidExpression, "compile: expected an assignment node, got %s", stmt.Kind)
	}

	n := preprocess.NormalizeIndices(stmt)
	n = preprocess.ExpandConjugation(n)
	n = preprocess.CompleteNIndices(n)

	lhs := n.Args[0]
	outputName := ""
	if lhs.Kind == ast.KindSubscript && lhs.Obj != nil {
		outputName = lhs.Obj.Name
	}

	extracted := preprocess.ExtractTensorObjects(n, outputName)
	rewritten := extracted.Expr
	mainStmt := ast.Assign(rewritten.Name, rewritten.Args[0], sortProduct(rewritten.Args[1]))

	return []*ast.Node{extracted.Preamble, mainStmt, extracted.Postamble}, nil
}

// sortProduct reorders a flat product's general-tensor factors via §4.11's
// contraction-tree builder and sorter when rhs is a product of two or more
// tensor factors (plus any number of scalar factors); any other shape - a
// single general tensor, a sum, a bare scalar - is returned unchanged,
// since there is no tree to build over fewer than two tensor factors.
func sortProduct(rhs *ast.Node) *ast.Node {
	if rhs.Kind != ast.KindCall || rhs.Name != "*" {
		return rhs
	}
	var tensorFactors []*ast.Node
	var indexLists [][]*ast.Node
	var scalarFactors []*ast.Node
	for _, a := range rhs.Args {
		if classify.IsGeneralTensor(a) {
			_, left, right, _, _, err := decompose.DecomposeGeneralTensor(a)
			if err != nil {
				// Leave unsorted; Instantiate's own decomposition raises
				// the real, more specific error for this term.
				return rhs
			}
			tensorFactors = append(tensorFactors, a)
			indexLists = append(indexLists, append(append([]*ast.Node{}, left...), right...))
			continue
		}
		scalarFactors = append(scalarFactors, a)
	}
	if len(tensorFactors) < 2 {
		return rhs
	}
	sorted := ctree.Sort(ctree.Build(indexLists), tensorFactors)
	if len(scalarFactors) == 0 {
		return sorted
	}
	return ast.Mul(append(append([]*ast.Node{}, scalarFactors...), sorted)...)
}

// bindInstruction converts one "dst = src" binding statement from an
// extracted preamble/postamble block into an OpBind Instruction.
func bindInstruction(assign *ast.Node) Instruction {
	dst, src := assign.Args[0], assign.Args[1]
	return Instruction{Op: OpBind, Dst: dst.Name, Src: src.Name}
}
