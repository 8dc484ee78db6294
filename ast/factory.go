package ast

// Factory centralizes AST node creation for transform passes.
type Factory struct{}

// NewFactory returns a new Factory.
func NewFactory() *Factory { return &Factory{} }

// ConstString creates `const name = "value";` positioned at line.
func (f *Factory) ConstString(name, value string, line int) *VarDecl {
	return &VarDecl{BaseItem: BaseItem{SourceLine: line}, Kind: "const", Name: name, Value: value}
}

// Verbatim creates an opaque item holding text.
func (f *Factory) Verbatim(text string, line int) *Verbatim {
	return &Verbatim{BaseItem: BaseItem{SourceLine: line}, Text: text}
}

// ProgramFrom creates a new Program copying metadata from src with new items.
func (f *Factory) ProgramFrom(src *Program, items []ModuleItem) *Program {
	return &Program{
		Items:      items,
		SourceFile: src.SourceFile,
		RawSource:  src.RawSource,
		Trailing:   src.Trailing,
	}
}
