// Package rewrite replaces `?raw` default imports with string constants
// holding the imported file's contents.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/monako97/raw-import/ast"
)

// Marker is the query suffix that selects raw inlining.
const Marker = "?raw"

// Loader resolves a raw import path and returns the file contents.
// *resolver.Resolver implements it.
type Loader interface {
	ResolveAndRead(rawPath string) (string, error)
}

// Inlined records one import that was replaced by a constant.
type Inlined struct {
	Local     string
	Specifier string
	Line      int
	Size      int
}

// Rewriter rewrites the top-level items of one module.
type Rewriter struct {
	loader  Loader
	factory *ast.Factory
	inlined []Inlined
}

// New creates a Rewriter that reads files through loader.
func New(loader Loader) *Rewriter {
	return &Rewriter{loader: loader, factory: ast.NewFactory()}
}

// RawPath returns the part of an import source before the first ?raw marker
// and whether the marker is present.
func RawPath(source string) (string, bool) {
	before, _, found := strings.Cut(source, Marker)
	return before, found
}

// Rewrite walks items once. Imports whose source contains ?raw are replaced
// by one constant per default specifier; a ?raw import without specifiers is
// dropped. All other items are returned unchanged and in order. Nested
// scopes are not visited. Any error aborts the whole module.
func (r *Rewriter) Rewrite(items []ast.ModuleItem) ([]ast.ModuleItem, error) {
	out := make([]ast.ModuleItem, 0, len(items))
	for _, item := range items {
		imp, ok := item.(*ast.ImportDecl)
		if !ok {
			out = append(out, item)
			continue
		}
		rawPath, ok := RawPath(imp.Source)
		// Type-only imports have no runtime value to inline.
		if !ok || imp.TypeOnly {
			out = append(out, item)
			continue
		}

		for _, spec := range imp.Specifiers {
			if spec.Kind != ast.DefaultSpecifier {
				return nil, &UnsupportedSpecifierError{
					Source: imp.Source,
					Local:  spec.Local,
					Kind:   spec.Kind,
					Line:   imp.ItemLine(),
				}
			}
		}

		for i, spec := range imp.Specifiers {
			content, err := r.loader.ResolveAndRead(rawPath)
			if err != nil {
				return nil, fmt.Errorf("line %d: import %s from %q: %w", imp.ItemLine(), spec.Local, imp.Source, err)
			}
			decl := r.factory.ConstString(spec.Local, content, imp.ItemLine())
			if i == 0 {
				decl.Leading = imp.Leading
			}
			out = append(out, decl)
			r.inlined = append(r.inlined, Inlined{
				Local:     spec.Local,
				Specifier: imp.Source,
				Line:      imp.ItemLine(),
				Size:      len(content),
			})
		}
	}
	return out, nil
}

// Inlined returns the imports replaced so far.
func (r *Rewriter) Inlined() []Inlined {
	return r.inlined
}

// Transform adapts the rewriter to the ast.Transform interface.
func (r *Rewriter) Transform() ast.Transform {
	return ast.TransformFunc{
		N: "raw-import",
		F: func(prog *ast.Program) (*ast.Program, error) {
			items, err := r.Rewrite(prog.Items)
			if err != nil {
				return nil, err
			}
			return r.factory.ProgramFrom(prog, items), nil
		},
	}
}
