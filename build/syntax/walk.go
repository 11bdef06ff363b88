// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package syntax

// Inspect traverses a syntax tree in depth-first order.
// It calls f(node) for each node; if f returns true, Inspect is called recursively on the children of node.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *File:
		for _, fn := range n.Funcs {
			Inspect(fn, f)
		}
	case *FuncDecl:
		for _, attr := range n.Attrs {
			Inspect(attr, f)
		}
		Inspect(n.Name, f)
		for _, param := range n.Params {
			Inspect(param, f)
		}
		Inspect(n.Result, f)
		Inspect(n.Body, f)
	case *Attribute:
		Inspect(n.Name, f)
	case *Field:
		Inspect(n.Name, f)
		Inspect(n.Type, f)
	case *BlockStmt:
		for _, stmt := range n.List {
			Inspect(stmt, f)
		}
	case *LetStmt:
		for _, name := range n.Names {
			Inspect(name, f)
		}
		Inspect(n.Type, f)
		Inspect(n.Value, f)
	case *ReturnStmt:
		Inspect(n.Result, f)
	case *AssignStmt:
		Inspect(n.Lhs, f)
		Inspect(n.Rhs, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *Path:
		for _, seg := range n.Segments {
			Inspect(seg, f)
		}
	case *BinaryExpr:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *UnaryExpr:
		Inspect(n.X, f)
	case *ParenExpr:
		Inspect(n.X, f)
	case *TupleExpr:
		inspectExprs(n.Elts, f)
	case *TupleType:
		inspectExprs(n.Elts, f)
	case *ArrayExpr:
		inspectExprs(n.Elts, f)
	case *CallExpr:
		Inspect(n.Fun, f)
		inspectExprs(n.Args, f)
	case *MethodCallExpr:
		Inspect(n.Recv, f)
		Inspect(n.Method, f)
		inspectExprs(n.Args, f)
	case *FieldExpr:
		Inspect(n.X, f)
		Inspect(n.Field, f)
	case *IndexExpr:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *CastExpr:
		Inspect(n.X, f)
		Inspect(n.Type, f)
	case *ClosureExpr:
		for _, param := range n.Params {
			Inspect(param, f)
		}
		Inspect(n.Body, f)
	case *MacroExpr:
		Inspect(n.Name, f)
	case *IfExpr:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		Inspect(n.Else, f)
	case *BlockExpr:
		Inspect(n.Block, f)
	case *LoopExpr:
		Inspect(n.Body, f)
	}
}

func inspectExprs(xs []Expr, f func(Node) bool) {
	for _, x := range xs {
		Inspect(x, f)
	}
}
