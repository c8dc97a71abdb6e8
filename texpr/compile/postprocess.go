// Copyright ©2026 The TContract Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compile

import "github.com/tensorcontract/tcontract/texpr/ast"

// Flatten implements spec.md §4.13's `_flatten`: it hoists nested block
// expressions so that assignment statements appear at the top level of
// the returned block, skipping over (not descending into) opaque
// preamble/postamble blocks package texpr/preprocess emits, which must
// reach Instantiate unflattened.
func Flatten(n *ast.Node) *ast.Node {
	var out []*ast.Node
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.KindBlock {
			if n.Name == "opaque" {
				out = append(out, n)
				return
			}
			for _, stmt := range n.Left {
				walk(stmt)
			}
			return
		}
		out = append(out, n)
	}
	walk(n)
	return &ast.Node{Kind: ast.KindBlock, Left: out}
}

// RemoveLineNodes implements spec.md §4.13's `remove_line_nodes`: this
// module's ast.Node has no separate line/position node kind (texpr/ast's
// doc comment lists the schema it actually carries), so there is nothing
// to strip; RemoveLineNodes is the identity function, kept as a named
// pass so a Program's construction pipeline can still name all three
// postprocessors spec.md §4.13 lists, the way a no-op stage is still
// named in a fixed pipeline.
func RemoveLineNodes(n *ast.Node) *ast.Node { return n }

// primitiveNamespace resolves spec.md §4.13's seven primitive names to
// this library's concrete namespace, implementing `addtensoroperations`.
var primitiveNamespace = map[string]string{
	"similar_from_indices":        "tview.Allocate",
	"cached_similar_from_indices": "tcache.GetOrMake",
	"add":                         "tkernel.Add",
	"trace":                       "tkernel.Trace",
	"contract":                    "tkernel.Contract",
	"scalar":                      "tview.Numeric (scalar escape)",
	"IndexError":                  "tcerr.ErrInvalidIndices",
}

// ResolvePrimitive looks up one of spec.md §4.13's seven primitive names
// in this library's namespace. It reports ok=false for any other name,
// matching `addtensoroperations`' job of resolving exactly those seven.
func ResolvePrimitive(name string) (resolved string, ok bool) {
	resolved, ok = primitiveNamespace[name]
	return resolved, ok
}
