package ast

// Node is the interface for all AST nodes.
type Node interface {
	node()
}

// ModuleItem is a top-level statement of a module.
type ModuleItem interface {
	Node
	item()
	ItemLine() int
}

// BaseItem provides common fields for all module items.
type BaseItem struct {
	SourceLine int    // 1-based start line in the original source (0 if synthesized)
	Leading    string // whitespace and comments preceding the item
}

func (b BaseItem) ItemLine() int { return b.SourceLine }

// Program is the root node.
type Program struct {
	Items      []ModuleItem
	SourceFile string // display path of the source file
	RawSource  string // original source text
	Trailing   string // whitespace and comments after the last item
}

func (p *Program) node() {}

// SpecifierKind distinguishes the binding forms of an import.
type SpecifierKind int

const (
	DefaultSpecifier   SpecifierKind = iota // import x from "m"
	NamedSpecifier                          // import { x, y as z } from "m"
	NamespaceSpecifier                      // import * as ns from "m"
)

func (k SpecifierKind) String() string {
	switch k {
	case DefaultSpecifier:
		return "default"
	case NamedSpecifier:
		return "named"
	case NamespaceSpecifier:
		return "namespace"
	}
	return "unknown"
}

// ImportSpecifier is one binding introduced by an import declaration.
type ImportSpecifier struct {
	Kind     SpecifierKind
	Local    string // local binding name
	Imported string // exported name, set for named specifiers only
	TypeOnly bool   // inline `type` modifier
}

// ImportDecl represents import ... from "source".
type ImportDecl struct {
	BaseItem
	Source     string // specifier value with quotes removed and escapes decoded
	Specifiers []ImportSpecifier
	TypeOnly   bool   // import type ...
	Text       string // exact source text, reprinted unchanged
}

func (i *ImportDecl) node() {}
func (i *ImportDecl) item() {}

// VarDecl is a synthesized `const Name = "Value";` declaration.
type VarDecl struct {
	BaseItem
	Kind  string // "const"
	Name  string
	Value string // string literal value, unescaped
}

func (v *VarDecl) node() {}
func (v *VarDecl) item() {}

// Verbatim is any other top-level source text. It is never inspected and
// prints back exactly as it was read.
type Verbatim struct {
	BaseItem
	Text string
}

func (v *Verbatim) node() {}
func (v *Verbatim) item() {}
