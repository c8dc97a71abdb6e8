// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast defines the tagged syntax-tree node schema spec.md §9's
// Design Notes calls for: "a tagged-node tree with node-kind enum {call,
// subscript, typed_hcat, typed_vcat, row, tuple, block, for, function,
// assignment-kind, macrocall, literal, symbol}... define the node schema
// in the core" rather than reusing a host language's own AST. There is no
// teacher file for a syntax tree (gonum has none), so this package is
// grounded on the single-tagged-struct schema spec.md's own prose
// describes, the way gonum.org/v1/gonum/graph/simple represents a graph
// node as one small concrete struct rather than an interface hierarchy
// per node kind.
package ast

// Kind tags the syntactic role of a Node.
type Kind int

const (
	KindSymbol Kind = iota
	KindLiteral
	KindCall
	KindSubscript
	KindTypedHcat
	KindTypedVcat
	KindRow
	KindTuple
	KindBlock
	KindFor
	KindFunction
	KindAssignment
	KindMacrocall
)

func (k Kind) String() string {
	switch k {
	case KindSymbol:
		return "symbol"
	case KindLiteral:
		return "literal"
	case KindCall:
		return "call"
	case KindSubscript:
		return "subscript"
	case KindTypedHcat:
		return "typed_hcat"
	case KindTypedVcat:
		return "typed_vcat"
	case KindRow:
		return "row"
	case KindTuple:
		return "tuple"
	case KindBlock:
		return "block"
	case KindFor:
		return "for"
	case KindFunction:
		return "function"
	case KindAssignment:
		return "assignment"
	case KindMacrocall:
		return "macrocall"
	default:
		return "unknown"
	}
}

// Node is the one-struct-per-node-kind schema spec.md §9 asks for. Which
// fields are meaningful depends on Kind:
//
//   - KindSymbol: Name is the identifier text (may carry a trailing run of
//     "'" characters once NormalizeIndices has run).
//   - KindLiteral: Num is the value.
//   - KindCall: Name is the operator/function name ("+", "-", "*", "/",
//     "conj", "adjoint", "transpose", "'", "scalar", or a user function);
//     Args are the operands.
//   - KindSubscript: Obj is the tensor object; Left/Right are the bracket
//     contents split into the left and (optional) right index lists.
//   - KindTuple, KindRow, KindBlock: Left holds the element list.
//   - KindAssignment: Name is the operator ("=", ":=", "+=", "-="); Args
//     is [lhs, rhs].
//   - KindMacrocall: Name is the macro name; Args are its operands.
//   - KindFor, KindFunction, KindTypedHcat, KindTypedVcat: carried for
//     schema completeness (spec.md §9); Args/Left hold their sub-nodes in
//     source order. package preprocess's passes rewrite their Args the
//     same way as a call's (and do not visit their Left).
type Node struct {
	Kind  Kind
	Name  string
	Num   float64
	Obj   *Node
	Left  []*Node
	Right []*Node
	Args  []*Node
}

// Symbol constructs a plain name reference.
func Symbol(name string) *Node { return &Node{Kind: KindSymbol, Name: name} }

// Literal constructs a numeric literal.
func Literal(v float64) *Node { return &Node{Kind: KindLiteral, Num: v} }

// Tensor constructs a subscripted tensor reference obj[left...; right...].
func Tensor(name string, left, right []*Node) *Node {
	return &Node{Kind: KindSubscript, Obj: Symbol(name), Left: left, Right: right}
}

// Call constructs a call node with the given head and arguments.
func Call(head string, args ...*Node) *Node {
	return &Node{Kind: KindCall, Name: head, Args: args}
}

// Mul, Add, Sub, Neg, Div are the arithmetic combinators §9's "parser-free
// expression entry points" (SPEC_FULL.md §3) exposes in place of a
// textual parser.
func Mul(args ...*Node) *Node { return Call("*", args...) }
func Add(args ...*Node) *Node { return Call("+", args...) }
func Sub(a, b *Node) *Node    { return Call("-", a, b) }
func Neg(a *Node) *Node       { return Call("-", a) }
func Div(a, b *Node) *Node    { return Call("/", a, b) }

// Conj, Adjoint, Transpose, Prime wrap a general tensor or index per §4.9.
func Conj(a *Node) *Node      { return Call("conj", a) }
func Adjoint(a *Node) *Node   { return Call("adjoint", a) }
func Transpose(a *Node) *Node { return Call("transpose", a) }
func Prime(a *Node) *Node     { return Call("'", a) }

// Scalar wraps e as an explicit is-scalar-expr escape over a tensor
// expression (§4.8's "explicit scalar(…) escape").
func Scalar(e *Node) *Node { return Call("scalar", e) }

// Assign constructs an assignment/definition node. op is one of "=",
// ":=", "+=", "-=".
func Assign(op string, lhs, rhs *Node) *Node {
	return &Node{Kind: KindAssignment, Name: op, Args: []*Node{lhs, rhs}}
}

// Block constructs a block of statements, flattening any nested plain
// blocks passed directly as arguments (callers building expression trees
// by hand do not need to pre-flatten the way a source-language parser's
// tree would). A block tagged Name "opaque" (the marker
// texpr/preprocess.ExtractTensorObjects uses for its preamble/postamble)
// is passed through as one unit instead, matching every other pass in
// this module's rule that opaque blocks are not descended into.
func Block(stmts ...*Node) *Node {
	out := make([]*Node, 0, len(stmts))
	for _, s := range stmts {
		if s.Kind == KindBlock && s.Name != "opaque" {
			out = append(out, s.Left...)
			continue
		}
		out = append(out, s)
	}
	return &Node{Kind: KindBlock, Left: out}
}

// Tuple constructs a tuple node from its elements.
func Tuple(elems ...*Node) *Node { return &Node{Kind: KindTuple, Left: elems} }

// Row constructs a row node (space-separated index list) from its
// elements.
func Row(elems ...*Node) *Node { return &Node{Kind: KindRow, Left: elems} }
