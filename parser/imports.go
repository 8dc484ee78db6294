package parser

import (
	"github.com/monako97/raw-import/ast"
	"github.com/monako97/raw-import/scanner"
)

// parseImport parses the import declaration whose keyword starts at start.
// It returns the declaration and the offset just past it (including an
// optional semicolon on the same line). A nil declaration with a nil error
// means the keyword does not start a declaration: import(...), import.meta
// and TypeScript's `import x = require(...)` are ordinary code.
func (s *state) parseImport(start int) (*ast.ImportDecl, int, error) {
	i := s.skipTrivia(start + len("import"))
	if i >= len(s.src) {
		return nil, 0, s.errorf(start, "unexpected end of input in import declaration")
	}
	switch s.src[i] {
	case '(', '.':
		return nil, 0, nil
	}

	decl := &ast.ImportDecl{}
	if s.wordAt(i, "type") {
		if j := s.skipTrivia(i + len("type")); s.typeModifierAt(j) {
			decl.TypeOnly = true
			i = j
		}
	}

	if s.isQuote(i) {
		// Side-effect import: import "mod";
		source, next, err := s.parseStringLiteral(i)
		if err != nil {
			return nil, 0, err
		}
		decl.Source = source
		return decl, s.finishImport(next), nil
	}

	if s.identStartAt(i) {
		name, next := s.parseIdent(i)
		i = s.skipTrivia(next)
		if i < len(s.src) && s.src[i] == '=' {
			return nil, 0, nil
		}
		decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
			Kind:     ast.DefaultSpecifier,
			Local:    name,
			TypeOnly: decl.TypeOnly,
		})
		if i < len(s.src) && s.src[i] == ',' {
			i = s.skipTrivia(i + 1)
			if i >= len(s.src) || (s.src[i] != '{' && s.src[i] != '*') {
				return nil, 0, s.errorf(i, "expected '{' or '*' after ',' in import declaration")
			}
		}
	}

	if i < len(s.src) {
		var err error
		switch s.src[i] {
		case '*':
			i, err = s.parseNamespace(decl, i)
		case '{':
			i, err = s.parseNamedList(decl, i)
		}
		if err != nil {
			return nil, 0, err
		}
	}

	if len(decl.Specifiers) == 0 {
		return nil, 0, s.errorf(i, "expected import specifiers or a module specifier")
	}
	if !s.wordAt(i, "from") {
		return nil, 0, s.errorf(i, "expected 'from' in import declaration")
	}
	i = s.skipTrivia(i + len("from"))
	if !s.isQuote(i) {
		return nil, 0, s.errorf(i, "expected module specifier string after 'from'")
	}
	source, next, err := s.parseStringLiteral(i)
	if err != nil {
		return nil, 0, err
	}
	decl.Source = source
	return decl, s.finishImport(next), nil
}

// parseNamespace parses `* as name` starting at the '*'.
func (s *state) parseNamespace(decl *ast.ImportDecl, i int) (int, error) {
	i = s.skipTrivia(i + 1)
	if !s.wordAt(i, "as") {
		return 0, s.errorf(i, "expected 'as' after '*' in import declaration")
	}
	i = s.skipTrivia(i + len("as"))
	if !s.identStartAt(i) {
		return 0, s.errorf(i, "expected namespace name after 'as'")
	}
	name, next := s.parseIdent(i)
	decl.Specifiers = append(decl.Specifiers, ast.ImportSpecifier{
		Kind:     ast.NamespaceSpecifier,
		Local:    name,
		TypeOnly: decl.TypeOnly,
	})
	return s.skipTrivia(next), nil
}

// parseNamedList parses `{ a, b as c, type d, "e-f" as g }` starting at the '{'.
func (s *state) parseNamedList(decl *ast.ImportDecl, i int) (int, error) {
	open := i
	i++
	for {
		i = s.skipTrivia(i)
		if i >= len(s.src) {
			return 0, s.errorf(open, "unterminated import specifier list")
		}
		if s.src[i] == '}' {
			return s.skipTrivia(i + 1), nil
		}

		spec := ast.ImportSpecifier{Kind: ast.NamedSpecifier, TypeOnly: decl.TypeOnly}
		if s.wordAt(i, "type") {
			j := s.skipTrivia(i + len("type"))
			if (s.identStartAt(j) || s.isQuote(j)) && !s.wordAt(j, "as") {
				spec.TypeOnly = true
				i = j
			}
		}

		quoted := false
		switch {
		case s.isQuote(i):
			name, next, err := s.parseStringLiteral(i)
			if err != nil {
				return 0, err
			}
			spec.Imported, i, quoted = name, next, true
		case s.identStartAt(i):
			spec.Imported, i = s.parseIdent(i)
		default:
			return 0, s.errorf(i, "expected import name")
		}

		i = s.skipTrivia(i)
		if s.wordAt(i, "as") {
			i = s.skipTrivia(i + len("as"))
			if !s.identStartAt(i) {
				return 0, s.errorf(i, "expected local name after 'as'")
			}
			spec.Local, i = s.parseIdent(i)
		} else if quoted {
			return 0, s.errorf(i, "string import name %q needs an 'as' clause", spec.Imported)
		} else {
			spec.Local = spec.Imported
		}
		decl.Specifiers = append(decl.Specifiers, spec)

		i = s.skipTrivia(i)
		if i < len(s.src) && s.src[i] == ',' {
			i++
			continue
		}
		if i >= len(s.src) || s.src[i] != '}' {
			return 0, s.errorf(i, "expected ',' or '}' in import specifier list")
		}
	}
}

// typeModifierAt reports whether the token at i follows a TypeScript `type`
// modifier, as in `import type X from` or `import type { X } from`. In
// `import type from "m"` the word type is the default binding instead.
func (s *state) typeModifierAt(i int) bool {
	if i >= len(s.src) {
		return false
	}
	switch s.src[i] {
	case '{', '*':
		return true
	}
	if !s.identStartAt(i) {
		return false
	}
	if s.wordAt(i, "from") {
		return !s.isQuote(s.skipTrivia(i + len("from")))
	}
	return true
}

// finishImport skips import attributes (`with { ... }` or `assert { ... }`)
// and an optional semicolon after the module specifier ending at i.
func (s *state) finishImport(i int) int {
	j := s.skipTrivia(i)
	for _, kw := range []string{"with", "assert"} {
		if !s.wordAt(j, kw) {
			continue
		}
		k := s.skipTrivia(j + len(kw))
		if k < len(s.src) && s.src[k] == '{' {
			closing := scanner.FindTopLevel(s.src[k:], func(ch byte, _ int, _ string) bool { return ch == '}' })
			if closing >= 0 {
				i = k + closing + 1
			}
		}
		break
	}
	return s.skipOptionalSemicolon(i)
}

// skipTrivia skips whitespace, line comments and block comments.
func (s *state) skipTrivia(i int) int {
	n := len(s.src)
	for i < n {
		switch {
		case isSpace(s.src[i]):
			i++
		case i+1 < n && s.src[i] == '/' && s.src[i+1] == '/':
			for i < n && s.src[i] != '\n' {
				i++
			}
		case i+1 < n && s.src[i] == '/' && s.src[i+1] == '*':
			i += 2
			for i+1 < n && !(s.src[i] == '*' && s.src[i+1] == '/') {
				i++
			}
			i += 2
			if i > n {
				i = n
			}
		default:
			return i
		}
	}
	return i
}

// skipOptionalSemicolon skips spaces and tabs then a ';' if present.
// Returns the position after the ';', or i if there is none.
func (s *state) skipOptionalSemicolon(i int) int {
	j := i
	for j < len(s.src) && (s.src[j] == ' ' || s.src[j] == '\t') {
		j++
	}
	if j < len(s.src) && s.src[j] == ';' {
		return j + 1
	}
	return i
}

// wordAt reports whether the identifier at i is exactly word.
func (s *state) wordAt(i int, word string) bool {
	if i < 0 || i+len(word) > len(s.src) || s.src[i:i+len(word)] != word {
		return false
	}
	end := i + len(word)
	return end >= len(s.src) || !scanner.IsIdentByte(s.src[end])
}

func (s *state) identStartAt(i int) bool {
	if i >= len(s.src) {
		return false
	}
	ch := s.src[i]
	return scanner.IsIdentByte(ch) && (ch < '0' || ch > '9')
}

func (s *state) parseIdent(i int) (string, int) {
	start := i
	for i < len(s.src) && scanner.IsIdentByte(s.src[i]) {
		i++
	}
	return s.src[start:i], i
}

func (s *state) isQuote(i int) bool {
	return i < len(s.src) && (s.src[i] == '"' || s.src[i] == '\'')
}

// parseStringLiteral parses the quoted string at i and returns its decoded
// value and the offset after the closing quote.
func (s *state) parseStringLiteral(i int) (string, int, error) {
	quote := s.src[i]
	j := i + 1
	for j < len(s.src) && s.src[j] != quote {
		switch s.src[j] {
		case '\\':
			j++
		case '\n':
			return "", 0, s.errorf(i, "unterminated string literal")
		}
		j++
	}
	if j >= len(s.src) {
		return "", 0, s.errorf(i, "unterminated string literal")
	}
	value, err := unquote(s.src[i+1 : j])
	if err != nil {
		return "", 0, s.errorf(i, "%v", err)
	}
	return value, j + 1, nil
}
