package rewrite

import (
	"errors"
	"fmt"

	"github.com/monako97/raw-import/ast"
)

// ErrUnsupportedSpecifier matches any UnsupportedSpecifierError.
var ErrUnsupportedSpecifier = errors.New("unsupported import specifier")

// UnsupportedSpecifierError reports a named or namespace specifier on a ?raw
// import. Only default imports can bind file contents.
type UnsupportedSpecifierError struct {
	Source string
	Local  string
	Kind   ast.SpecifierKind
	Line   int
}

func (e *UnsupportedSpecifierError) Error() string {
	msg := fmt.Sprintf("%s import %q from %q is not supported, ?raw imports only support a default import",
		e.Kind, e.Local, e.Source)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *UnsupportedSpecifierError) Is(target error) bool {
	return target == ErrUnsupportedSpecifier
}
