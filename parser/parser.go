// Package parser splits JavaScript and TypeScript modules into top-level
// items.
//
// Only import declarations are parsed structurally. Everything else is kept
// as verbatim text, split after top-level semicolons, so printing a parsed
// program reproduces the input byte for byte.
package parser

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/monako97/raw-import/ast"
	"github.com/monako97/raw-import/scanner"
)

// Error is a syntax error at a position in the source.
type Error struct {
	File string
	Line int
	Col  int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Col, e.Msg)
}

// Parser parses module source into a Program.
type Parser struct{}

// ParseFile reads a module from disk and parses it.
func (p *Parser) ParseFile(filename string) (*ast.Program, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return p.Parse(filename, src)
}

// Parse parses src. The name is used for error messages and recorded as the
// program's SourceFile.
func (p *Parser) Parse(name string, src []byte) (*ast.Program, error) {
	st := newState(name, string(src))
	if err := st.run(); err != nil {
		return nil, err
	}
	return &ast.Program{
		Items:      st.items,
		SourceFile: name,
		RawSource:  st.src,
		Trailing:   st.trailing,
	}, nil
}

type state struct {
	name       string
	src        string
	lineStarts []int
	factory    *ast.Factory
	items      []ast.ModuleItem
	trailing   string
}

func newState(name, src string) *state {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &state{name: name, src: src, lineStarts: starts, factory: ast.NewFactory()}
}

// run walks the source once. pieceStart marks where the pending item's
// leading trivia begins; codeStart/codeEnd delimit its code, -1 when none
// has been seen yet.
func (s *state) run() error {
	sc := scanner.New(s.src)
	depth := 0
	pieceStart, codeStart, codeEnd := 0, -1, 0
	prev := -1

	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		pos := sc.Pos()
		if sc.InComment() {
			continue
		}
		if !sc.InCode() {
			if codeStart < 0 {
				codeStart = pos
			}
			codeEnd, prev = pos+1, pos
			continue
		}
		if isSpace(ch) {
			continue
		}

		if depth == 0 && ch == 'i' && s.importKeywordAt(pos, prev) {
			decl, end, err := s.parseImport(pos)
			if err != nil {
				return err
			}
			if decl != nil {
				if codeStart >= 0 {
					s.emitVerbatim(pieceStart, codeStart, codeEnd)
					pieceStart = codeEnd
				}
				decl.Leading = s.src[pieceStart:pos]
				decl.Text = s.src[pos:end]
				decl.SourceLine = s.line(pos)
				s.items = append(s.items, decl)

				sc.Skip(end - pos - 1)
				pieceStart, codeStart, prev = end, -1, end-1
				continue
			}
		}

		if codeStart < 0 {
			codeStart = pos
		}
		codeEnd, prev = pos+1, pos

		switch {
		case scanner.IsOpenBracket(ch):
			depth++
		case scanner.IsCloseBracket(ch):
			if depth > 0 {
				depth--
			}
		case ch == ';' && depth == 0:
			s.emitVerbatim(pieceStart, codeStart, codeEnd)
			pieceStart, codeStart = codeEnd, -1
		}
	}

	if open, bad := sc.Unterminated(); bad {
		return s.errorf(open, "unterminated template literal or comment")
	}
	if codeStart >= 0 {
		s.emitVerbatim(pieceStart, codeStart, codeEnd)
		pieceStart = codeEnd
	}
	s.trailing = s.src[pieceStart:]
	return nil
}

func (s *state) emitVerbatim(pieceStart, codeStart, codeEnd int) {
	v := s.factory.Verbatim(s.src[codeStart:codeEnd], s.line(codeStart))
	v.Leading = s.src[pieceStart:codeStart]
	s.items = append(s.items, v)
}

// importKeywordAt reports whether an `import` keyword starts a statement at
// pos. prev is the offset of the previous significant byte, -1 if none.
func (s *state) importKeywordAt(pos, prev int) bool {
	if !s.wordAt(pos, "import") {
		return false
	}
	if pos > 0 && (scanner.IsIdentByte(s.src[pos-1]) || s.src[pos-1] == '.') {
		return false
	}
	if prev < 0 {
		return true
	}
	switch s.src[prev] {
	case ';', '}':
		return true
	}
	return strings.IndexByte(s.src[prev+1:pos], '\n') >= 0
}

// line returns the 1-based line of offset off.
func (s *state) line(off int) int {
	return sort.SearchInts(s.lineStarts, off+1)
}

func (s *state) errorf(off int, format string, args ...any) *Error {
	line := s.line(off)
	return &Error{
		File: s.name,
		Line: line,
		Col:  off - s.lineStarts[line-1] + 1,
		Msg:  fmt.Sprintf(format, args...),
	}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
