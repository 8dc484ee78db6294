// Package printer serializes module items back to JavaScript source.
package printer

import (
	"fmt"
	"strings"

	"github.com/monako97/raw-import/ast"
)

// Print serializes a Program. Items that came from the parser print their
// original text, so an untouched program prints exactly as it was read.
func Print(prog *ast.Program) string {
	p := &jsPrinter{}
	for _, item := range prog.Items {
		p.printItem(item)
	}
	p.raw(prog.Trailing)
	return p.sb.String()
}

type jsPrinter struct {
	sb strings.Builder
}

func (p *jsPrinter) raw(s string) {
	p.sb.WriteString(s)
}

func (p *jsPrinter) printItem(item ast.ModuleItem) {
	switch it := item.(type) {
	case *ast.ImportDecl:
		p.raw(it.Leading)
		p.raw(it.Text)
	case *ast.VarDecl:
		p.raw(it.Leading)
		kind := it.Kind
		if kind == "" {
			kind = "const"
		}
		fmt.Fprintf(&p.sb, "%s %s = %s;", kind, it.Name, Quote(it.Value))
	case *ast.Verbatim:
		p.raw(it.Leading)
		p.raw(it.Text)
	default:
		panic(fmt.Sprintf("printer: unhandled module item %T", item))
	}
}
