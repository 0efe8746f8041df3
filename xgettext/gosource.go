// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package xgettext

import (
	"errors"
	"fmt"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"codeberg.org/pixivfe/magictr/i18n"
)

// GoExtension is the file extension handled by GoParser.
const GoExtension = ".go"

var errPackageLoad = errors.New("failed to load package")

// GoParser extracts msgids from Go source: constant arguments of i18n.T and
// constants of type i18n.MsgKey, whether converted, passed as an argument or
// listed in a composite literal.
//
// The package holding the file is loaded and type-checked, so the file must
// belong to a package that builds.
type GoParser struct {
	// Dir is the directory the go command runs in. Empty means the
	// current directory.
	Dir string
}

// Target reports whether file is Go source. Test files are skipped.
func (p *GoParser) Target(file string) bool {
	return filepath.Ext(file) == GoExtension && !strings.HasSuffix(file, "_test.go")
}

// Parse extracts the entries of the Go file.
func (p *GoParser) Parse(file string) ([]i18n.Entry, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedSyntax |
			packages.NeedTypes | packages.NeedTypesInfo,
		Dir: p.Dir,
	}

	pkgs, err := packages.Load(cfg, "file="+abs)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", errPackageLoad, file, err)
	}

	var s i18n.Session

	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("%w for %s: %v", errPackageLoad, file, pkg.Errors[0])
		}

		e := &goExtractor{session: &s, label: file, fset: pkg.Fset, info: pkg.TypesInfo}

		for _, f := range pkg.Syntax {
			if pkg.Fset.Position(f.Pos()).Filename != abs {
				continue
			}

			ast.Inspect(f, func(n ast.Node) bool {
				switch x := n.(type) {
				case *ast.CallExpr:
					e.call(x)
				case *ast.CompositeLit:
					e.compositeLit(x)
				}

				return true
			})
		}
	}

	return s.Entries(), nil
}

type goExtractor struct {
	session *i18n.Session
	label   string
	fset    *token.FileSet
	info    *types.Info
}

func (e *goExtractor) add(expr ast.Expr) {
	tv, ok := e.info.Types[expr]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return
	}

	line := e.fset.Position(expr.Pos()).Line
	e.session.Add(constant.StringVal(tv.Value), fmt.Sprintf("%s:%d", e.label, line))
}

// isMsgKey reports whether t is the MsgKey type of a package named i18n.
func isMsgKey(t types.Type) bool {
	named, ok := t.(*types.Named)
	if !ok {
		return false
	}

	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Pkg().Name() != "i18n" || obj.Name() != "MsgKey" {
		return false
	}

	basic, ok := named.Underlying().(*types.Basic)

	return ok && basic.Kind() == types.String
}

// isTranslate reports whether fun refers to the T function of a package
// named i18n.
func isTranslate(info *types.Info, fun ast.Expr) bool {
	var id *ast.Ident

	switch f := fun.(type) {
	case *ast.SelectorExpr:
		id = f.Sel
	case *ast.Ident:
		id = f
	default:
		return false
	}

	fn, ok := info.Uses[id].(*types.Func)

	return ok && fn.Pkg() != nil && fn.Pkg().Name() == "i18n" && fn.Name() == "T"
}

func (e *goExtractor) call(x *ast.CallExpr) {
	if tv, ok := e.info.Types[x.Fun]; ok && tv.IsType() {
		if len(x.Args) == 1 && isMsgKey(tv.Type) {
			e.add(x.Args[0])
		}

		return
	}

	if isTranslate(e.info, x.Fun) {
		if len(x.Args) > 0 {
			e.add(x.Args[0])
		}

		return
	}

	sig, ok := e.info.TypeOf(x.Fun).(*types.Signature)
	if !ok || sig.Params().Len() == 0 {
		return
	}

	params := sig.Params()
	last := params.Len() - 1

	for i, arg := range x.Args {
		var pt types.Type

		switch {
		case sig.Variadic() && i >= last:
			if x.Ellipsis != token.NoPos {
				continue
			}

			pt = params.At(last).Type().(*types.Slice).Elem()
		case i <= last:
			pt = params.At(i).Type()
		default:
			return
		}

		if isMsgKey(pt) {
			e.add(arg)
		}
	}
}

func (e *goExtractor) compositeLit(x *ast.CompositeLit) {
	t := e.info.TypeOf(x)
	if t == nil {
		return
	}

	if p, ok := t.Underlying().(*types.Pointer); ok {
		t = p.Elem()
	}

	switch u := t.Underlying().(type) {
	case *types.Map:
		keys, values := isMsgKey(u.Key()), isMsgKey(u.Elem())

		for _, elt := range x.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}

			if keys {
				e.add(kv.Key)
			}

			if values {
				e.add(kv.Value)
			}
		}
	case *types.Slice:
		e.elements(x, u.Elem())
	case *types.Array:
		e.elements(x, u.Elem())
	case *types.Struct:
		for i, elt := range x.Elts {
			if kv, ok := elt.(*ast.KeyValueExpr); ok {
				if id, ok := kv.Key.(*ast.Ident); ok {
					if f, ok := e.info.Uses[id].(*types.Var); ok && isMsgKey(f.Type()) {
						e.add(kv.Value)
					}
				}

				continue
			}

			if i < u.NumFields() && isMsgKey(u.Field(i).Type()) {
				e.add(elt)
			}
		}
	}
}

func (e *goExtractor) elements(x *ast.CompositeLit, elem types.Type) {
	if !isMsgKey(elem) {
		return
	}

	for _, elt := range x.Elts {
		if kv, ok := elt.(*ast.KeyValueExpr); ok {
			e.add(kv.Value)

			continue
		}

		e.add(elt)
	}
}
