// Package instrument - AST visitor for go statement redirection.
//
// This file implements the core rewrite logic: find every go statement,
// then replace it with a hoisting block that calls the propagation runtime.
package instrument

import (
	"fmt"
	"go/ast"
	"go/token"
)

// Stats tracks rewrite statistics for one file.
//
// Use Case:
// Enable with -v flag to see per-file detail:
//
//	ctxspawn build -v main.go
//	Rewrote main.go:
//	  - 3 go statements redirected
//	  - 1 skipped (builtin callee)
type Stats struct {
	GoStmtsRewritten int // go statements redirected through the shim
	GoStmtsSkipped   int // go statements left alone (builtin callee)
}

// Total returns the number of go statements examined.
func (s *Stats) Total() int {
	return s.GoStmtsRewritten + s.GoStmtsSkipped
}

// builtins that can legally head a go statement but cannot be hoisted into
// a function-typed temporary. Spawns of these never carry user work worth
// propagating into, so they are left untouched.
var builtinCallees = map[string]bool{
	"print":   true,
	"println": true,
	"panic":   true,
	"close":   true,
	"copy":    true,
	"delete":  true,
	"recover": true,
}

// rewritePoint records one go statement and the statement list holding it.
//
// Replacement is 1:1 (one GoStmt becomes one BlockStmt), so recorded
// indexes stay valid while applying.
type rewritePoint struct {
	list  *[]ast.Stmt // statement list containing the go statement
	index int         // position of the go statement in that list
	stmt  *ast.GoStmt
}

// rewriteVisitor implements the two-pass rewrite.
//
// Pass 1 (collect): walk the AST recording every go statement together with
// the enclosing statement list. Pass 2 (apply): splice in the replacement
// blocks. Mutating statement lists during the walk would invalidate the
// traversal, hence the two passes.
type rewriteVisitor struct {
	fset   *token.FileSet
	points []rewritePoint
	stats  Stats
}

// collect walks the file recording rewrite points.
//
// go statements live in statement lists: block bodies, case clauses, and
// select clauses. Inspecting those three node kinds covers every possible
// location, including bodies of nested function literals.
func (v *rewriteVisitor) collect(file *ast.File) {
	ast.Inspect(file, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.BlockStmt:
			v.collectList(&node.List)
		case *ast.CaseClause:
			v.collectList(&node.Body)
		case *ast.CommClause:
			v.collectList(&node.Body)
		}
		return true
	})
}

// collectList records the go statements directly contained in one list.
func (v *rewriteVisitor) collectList(list *[]ast.Stmt) {
	for i, stmt := range *list {
		goStmt, ok := stmt.(*ast.GoStmt)
		if !ok {
			continue
		}
		if ident, ok := goStmt.Call.Fun.(*ast.Ident); ok && builtinCallees[ident.Name] {
			v.stats.GoStmtsSkipped++
			continue
		}
		v.points = append(v.points, rewritePoint{list: list, index: i, stmt: goStmt})
	}
}

// apply replaces every recorded go statement with its hoisting block.
func (v *rewriteVisitor) apply() {
	for _, p := range v.points {
		(*p.list)[p.index] = v.rewriteGoStmt(p.stmt)
		v.stats.GoStmtsRewritten++
	}
}

// rewriteGoStmt builds the replacement block for one go statement.
//
// For `go f(a0, a1)` the block is:
//
//	{
//		__ctxspawn_fn := f
//		__ctxspawn_a0 := a0
//		__ctxspawn_a1 := a1
//		spawn.Go(func() { __ctxspawn_fn(__ctxspawn_a0, __ctxspawn_a1) })
//	}
//
// Hoisting into temporaries preserves the original eager evaluation on the
// creating goroutine; the closure captures only the already-evaluated
// values. Method-value callees (x.m) bind their receiver during hoisting,
// which is the same moment the go statement would have bound it. A
// trailing `...` argument survives as `__ctxspawn_aN...` in the closure.
func (v *rewriteVisitor) rewriteGoStmt(goStmt *ast.GoStmt) ast.Stmt {
	call := goStmt.Call
	var stmts []ast.Stmt

	// Hoist the callee.
	fnTemp := ast.NewIdent(tempPrefix + "fn")
	stmts = append(stmts, &ast.AssignStmt{
		Lhs: []ast.Expr{fnTemp},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{call.Fun},
	})

	// Hoist each argument.
	innerArgs := make([]ast.Expr, len(call.Args))
	for i, arg := range call.Args {
		argTemp := ast.NewIdent(fmt.Sprintf("%sa%d", tempPrefix, i))
		stmts = append(stmts, &ast.AssignStmt{
			Lhs: []ast.Expr{argTemp},
			Tok: token.DEFINE,
			Rhs: []ast.Expr{arg},
		})
		innerArgs[i] = ast.NewIdent(argTemp.Name)
	}

	// spawn.Go(func() { __ctxspawn_fn(__ctxspawn_a0, ...) })
	innerCall := &ast.CallExpr{
		Fun:  ast.NewIdent(fnTemp.Name),
		Args: innerArgs,
	}
	if call.Ellipsis.IsValid() {
		// Original variadic spread; position is synthetic but non-zero so
		// the printer emits the ellipsis.
		innerCall.Ellipsis = 1
	}

	spawnCall := &ast.CallExpr{
		Fun: &ast.SelectorExpr{
			X:   ast.NewIdent(SpawnPackageAlias),
			Sel: ast.NewIdent("Go"),
		},
		Args: []ast.Expr{
			&ast.FuncLit{
				Type: &ast.FuncType{Params: &ast.FieldList{}},
				Body: &ast.BlockStmt{
					List: []ast.Stmt{&ast.ExprStmt{X: innerCall}},
				},
			},
		},
	}
	stmts = append(stmts, &ast.ExprStmt{X: spawnCall})

	return &ast.BlockStmt{List: stmts}
}
