package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/monako97/raw-import/ast"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"plain", "hello", `"hello"`},
		{"double quote", `say "hi"`, `"say \"hi\""`},
		{"single quote kept", "it's", `"it's"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newlines", "a\nb\r\n", `"a\nb\r\n"`},
		{"tab", "a\tb", `"a\tb"`},
		{"backspace formfeed vtab", "\b\f\v", `"\b\f\v"`},
		{"nul", "a\x00b", `"a\0b"`},
		{"nul before digit", "\x001", `"\x001"`},
		{"other control", "\x01\x1f\x7f", `"\x01\x1f\x7f"`},
		{"line separators", "a\u2028b\u2029c", `"a\u2028b\u2029c"`},
		{"unicode kept", "héllo 世界 😀", `"héllo 世界 😀"`},
		{"template syntax kept", "${x} `y`", "\"${x} `y`\""},
		{"script close kept", "</script>", `"</script>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Quote(tt.in))
		})
	}
}

func TestPrintPassthrough(t *testing.T) {
	prog := &ast.Program{
		Items: []ast.ModuleItem{
			&ast.ImportDecl{
				BaseItem: ast.BaseItem{Leading: "// hi\n"},
				Source:   "m",
				Text:     "import a from 'm'",
			},
			&ast.Verbatim{BaseItem: ast.BaseItem{Leading: "\n"}, Text: "a();"},
		},
		Trailing: "\n",
	}
	assert.Equal(t, "// hi\nimport a from 'm'\na();\n", Print(prog))
}

func TestPrintVarDecl(t *testing.T) {
	f := ast.NewFactory()
	decl := f.ConstString("Foo", "line one\nline \"two\"", 1)
	decl.Leading = "/* doc */\n"
	prog := &ast.Program{
		Items: []ast.ModuleItem{decl, f.Verbatim("const x = 1;", 2)},
	}
	prog.Items[1].(*ast.Verbatim).Leading = "\n"

	want := "/* doc */\nconst Foo = \"line one\\nline \\\"two\\\"\";\nconst x = 1;"
	assert.Equal(t, want, Print(prog))
}

func TestPrintVarDeclKind(t *testing.T) {
	prog := &ast.Program{Items: []ast.ModuleItem{
		&ast.VarDecl{Kind: "let", Name: "x", Value: "v"},
		&ast.VarDecl{Name: "y", Value: ""},
	}}
	assert.Equal(t, `let x = "v";const y = "";`, Print(prog))
}

func TestPrintEmptyProgram(t *testing.T) {
	assert.Equal(t, "", Print(&ast.Program{}))
	assert.Equal(t, "\n", Print(&ast.Program{Trailing: "\n"}))
}
