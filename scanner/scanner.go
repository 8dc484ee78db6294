// Package scanner provides literal-boundary-aware scanning of JavaScript and
// TypeScript source. It tracks quoted strings, template literals (including
// nested ${...} substitutions), line and block comments and regular
// expression literals, so callers can tell real code apart from text that
// only looks like code.
package scanner

import "strings"

type state byte

const (
	stCode state = iota
	stDouble
	stSingle
	stTemplate
	stLineComment
	stBlockComment
	stRegex
)

// closingKind tracks which kind of span was just closed.
type closingKind byte

const (
	noClosing      closingKind = iota
	closingString              // just closed a '...', "..." or `...` literal
	closingComment             // just closed a /* ... */ comment
	closingRegex               // just closed a /.../ literal
)

// regexPrefixes are the code bytes after which a '/' starts a regular
// expression rather than a division.
const regexPrefixes = "(,=:[!&|?{};+-*%<>~^"

// regexKeywords are the words after which a '/' starts a regular expression.
var regexKeywords = map[string]bool{
	"return": true, "typeof": true, "instanceof": true, "in": true, "of": true,
	"new": true, "delete": true, "void": true, "throw": true, "case": true,
	"do": true, "else": true, "yield": true, "await": true,
}

// CodeScanner iterates byte-by-byte over source text, tracking literal and
// comment boundaries. Callers check InCode() instead of maintaining their own
// quote, escape and comment flags.
//
// InString(), InComment() and InRegex() return true for the entire span
// including both delimiters. The newline that ends a line comment is code.
type CodeScanner struct {
	src     string
	pos     int
	st      state
	escaped bool
	inClass bool // inside [...] of a regex literal
	closing closingKind
	// openPos is the offset where the current literal or comment started.
	openPos int
	// braces counts { } in code; templates records the brace depth at each
	// open ${ so the matching } returns to the template.
	braces    int
	templates []int
	resume    bool // return to the template after the current '}'
	// parens holds the offsets of open parentheses; closedParen is the
	// opening offset of the most recently closed one.
	parens      []int
	closedParen int
	// lastSig is the offset of the last non-space code byte, -1 if none.
	lastSig int
}

// New creates a CodeScanner for the given source text.
// Call Next() to advance to the first byte. A leading "#!" line is treated
// as a comment.
func New(src string) *CodeScanner {
	s := &CodeScanner{src: src, pos: -1, lastSig: -1, closedParen: -1}
	if strings.HasPrefix(src, "#!") {
		s.st = stLineComment
	}
	return s
}

// Next advances to the next byte, updating literal, comment and escape state.
// Returns the byte and true, or (0, false) at end of input.
func (s *CodeScanner) Next() (byte, bool) {
	s.closing = noClosing
	if s.resume {
		s.st = stTemplate
		s.resume = false
	}
	s.pos++
	if s.pos >= len(s.src) {
		return 0, false
	}
	ch := s.src[s.pos]

	switch s.st {
	case stCode:
		s.code(ch)
	case stDouble, stSingle:
		switch {
		case s.escaped:
			// A \r\n line continuation escapes both bytes.
			s.escaped = ch == '\r' && s.peekIs('\n')
		case ch == '\\':
			s.escaped = true
		case ch == '"' && s.st == stDouble, ch == '\'' && s.st == stSingle:
			s.st = stCode
			s.closing = closingString
			s.lastSig = s.pos
		case ch == '\n':
			// String literals cannot span lines. A quote that opened one was
			// text, such as an apostrophe in JSX; resynchronize here.
			s.st = stCode
		}
	case stTemplate:
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '`':
			s.st = stCode
			s.closing = closingString
			s.lastSig = s.pos
		case ch == '$' && s.peekIs('{'):
			// The '{' is read in code state and opens the substitution;
			// its matching '}' is code too.
			s.templates = append(s.templates, s.braces)
			s.st = stCode
			s.closing = closingString
		}
	case stLineComment:
		if ch == '\n' {
			s.st = stCode
		}
	case stBlockComment:
		if ch == '/' && s.pos-2 > s.openPos && s.src[s.pos-1] == '*' {
			s.st = stCode
			s.closing = closingComment
		}
	case stRegex:
		switch {
		case s.escaped:
			s.escaped = false
		case ch == '\\':
			s.escaped = true
		case ch == '[':
			s.inClass = true
		case ch == ']':
			s.inClass = false
		case ch == '/' && !s.inClass:
			s.st = stCode
			s.closing = closingRegex
			s.lastSig = s.pos
		case ch == '\n':
			// Not a regex after all; resynchronize on the next line.
			s.st = stCode
		}
	}
	return ch, true
}

func (s *CodeScanner) code(ch byte) {
	switch ch {
	case '"':
		s.open(stDouble)
		return
	case '\'':
		s.open(stSingle)
		return
	case '`':
		s.open(stTemplate)
		return
	case '/':
		switch {
		case s.peekIs('/'):
			s.open(stLineComment)
			return
		case s.peekIs('*'):
			s.open(stBlockComment)
			return
		case s.regexAllowed():
			s.open(stRegex)
			s.inClass = false
			return
		}
	case '(':
		s.parens = append(s.parens, s.pos)
	case ')':
		s.closedParen = -1
		if n := len(s.parens); n > 0 {
			s.closedParen = s.parens[n-1]
			s.parens = s.parens[:n-1]
		}
	case '{':
		s.braces++
	case '}':
		s.braces--
		if n := len(s.templates); n > 0 && s.templates[n-1] == s.braces {
			s.templates = s.templates[:n-1]
			s.resume = true
		}
	}
	if !isSpace(ch) {
		s.lastSig = s.pos
	}
}

func (s *CodeScanner) open(st state) {
	s.st = st
	s.openPos = s.pos
	s.escaped = false
}

// regexAllowed reports whether a '/' at the current position starts a
// regular expression literal.
func (s *CodeScanner) regexAllowed() bool {
	if s.lastSig < 0 {
		return true
	}
	prev := s.src[s.lastSig]
	if prev == ')' {
		// if (...) /re/ and friends: the parenthesized part is a condition.
		return s.closedParen >= 0 && parenKeywords[WordBefore(s.src, trimSpaceEnd(s.src, s.closedParen))]
	}
	if strings.IndexByte(regexPrefixes, prev) >= 0 {
		// ++ and -- end an operand.
		if (prev == '+' || prev == '-') && s.lastSig > 0 && s.src[s.lastSig-1] == prev {
			return false
		}
		return true
	}
	if IsIdentByte(prev) {
		return regexKeywords[WordBefore(s.src, s.lastSig+1)]
	}
	return false
}

// parenKeywords are the words whose parenthesized condition can be followed
// by a statement starting with a regular expression.
var parenKeywords = map[string]bool{"if": true, "while": true, "for": true, "with": true}

// trimSpaceEnd returns end moved back over whitespace.
func trimSpaceEnd(src string, end int) int {
	for end > 0 && isSpace(src[end-1]) {
		end--
	}
	return end
}

func (s *CodeScanner) peekIs(ch byte) bool {
	return s.pos+1 < len(s.src) && s.src[s.pos+1] == ch
}

// InString reports whether the current position is inside a string or
// template literal, including both delimiters. The text of a ${...}
// substitution is code.
func (s *CodeScanner) InString() bool {
	return s.st == stDouble || s.st == stSingle || s.st == stTemplate || s.closing == closingString
}

// InComment reports whether the current position is inside a comment.
func (s *CodeScanner) InComment() bool {
	return s.st == stLineComment || s.st == stBlockComment || s.closing == closingComment
}

// InRegex reports whether the current position is inside a regular
// expression literal.
func (s *CodeScanner) InRegex() bool { return s.st == stRegex || s.closing == closingRegex }

// InCode reports whether the current position is outside all literals and
// comments.
func (s *CodeScanner) InCode() bool { return !s.InString() && !s.InComment() && !s.InRegex() }

// Unterminated reports whether input ended inside a template literal or a
// block comment, and where that span started. Strings and regular
// expressions end at the end of their line, so end of input closes them too.
func (s *CodeScanner) Unterminated() (int, bool) {
	switch s.st {
	case stTemplate, stBlockComment:
		return s.openPos, true
	}
	return 0, false
}

// Pos returns the current byte offset (the position of the last byte
// returned by Next). Returns -1 before the first call to Next.
func (s *CodeScanner) Pos() int { return s.pos }

// Skip advances past n bytes without returning them. Literal and comment
// state is updated for each skipped byte. Returns the number of bytes
// actually skipped (may be less than n at end of input).
func (s *CodeScanner) Skip(n int) int {
	skipped := 0
	for i := 0; i < n; i++ {
		if _, ok := s.Next(); !ok {
			break
		}
		skipped++
	}
	return skipped
}

// IsOpenBracket reports whether ch is an opening bracket/paren/brace.
func IsOpenBracket(ch byte) bool {
	return ch == '(' || ch == '[' || ch == '{'
}

// IsCloseBracket reports whether ch is a closing bracket/paren/brace.
func IsCloseBracket(ch byte) bool {
	return ch == ')' || ch == ']' || ch == '}'
}

// IsIdentByte reports whether ch can appear in an ASCII identifier. Bytes of
// multi-byte UTF-8 sequences count as identifier bytes.
func IsIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' || ch >= 0x80 ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
}

// WordBefore returns the identifier that ends right before offset end.
func WordBefore(src string, end int) string {
	start := end
	for start > 0 && IsIdentByte(src[start-1]) {
		start--
	}
	return src[start:end]
}

// FindTopLevel scans s for a byte matching pred at bracket depth 0,
// in code. Returns the byte offset or -1.
func FindTopLevel(s string, pred func(ch byte, pos int, src string) bool) int {
	depth := 0
	sc := New(s)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if !sc.InCode() {
			continue
		}
		if IsOpenBracket(ch) {
			depth++
		} else if IsCloseBracket(ch) {
			depth--
		}
		if depth == 0 && pred(ch, sc.Pos(), s) {
			return sc.Pos()
		}
	}
	return -1
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}
