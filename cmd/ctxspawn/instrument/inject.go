// Package instrument - Import injection functionality.
//
// This file adds the propagation runtime import to rewritten files.
package instrument

import (
	"go/ast"
	"go/token"
	"strconv"
)

// injectSpawnImport adds the spawn package import to the AST file.
//
// Handles the usual shapes:
//   - No imports section: creates a new import block
//   - Import already present (any alias): skips injection
//   - Grouped imports: appends to the existing group
//   - Single import: converts to grouped form
//
// The injected spec carries an explicit alias so the rewritten call sites
// (spawn.Go) resolve regardless of how the path's last element is spelled.
func injectSpawnImport(file *ast.File) {
	// Already imported, under whatever alias the user chose? Then the
	// rewrite must use that alias — but rewritten code always says
	// "spawn.", so only an exact-alias match counts as present.
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		if path == SpawnPackageImportPath {
			if imp.Name == nil || imp.Name.Name == SpawnPackageAlias {
				return
			}
		}
	}

	// Find the first import declaration, if any.
	var importDecl *ast.GenDecl
	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if ok && genDecl.Tok == token.IMPORT {
			importDecl = genDecl
			break
		}
	}

	// No import block: create one right after the package clause.
	if importDecl == nil {
		importDecl = &ast.GenDecl{
			Tok:    token.IMPORT,
			Lparen: 1, // non-zero Lparen forces grouped form: import (...)
		}
		file.Decls = append([]ast.Decl{importDecl}, file.Decls...)
	}

	spec := &ast.ImportSpec{
		Name: ast.NewIdent(SpawnPackageAlias),
		Path: &ast.BasicLit{
			Kind:  token.STRING,
			Value: strconv.Quote(SpawnPackageImportPath),
		},
	}
	importDecl.Specs = append(importDecl.Specs, spec)
	if importDecl.Lparen == 0 && len(importDecl.Specs) > 1 {
		importDecl.Lparen = 1
	}

	// Keep file.Imports consistent for downstream tooling.
	file.Imports = append(file.Imports, spec)
}
