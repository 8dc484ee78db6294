package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrSandboxedEnvironment is returned when the root directory cannot be
	// listed, which happens when the host runs the transform without
	// filesystem access.
	ErrSandboxedEnvironment = errors.New("?raw imports need filesystem access, which is not available in this execution environment; inline the file content at build time instead of reading it during the transform")

	// ErrInvalidPath is returned when a resolved path still contains a NUL byte.
	ErrInvalidPath = errors.New("invalid path")

	// Causes carried by FileReadError besides the ones from package os.
	ErrNotRegular  = errors.New("not a regular file")
	ErrInvalidUTF8 = errors.New("content is not valid UTF-8")
	ErrTooLarge    = errors.New("file too large")
)

// FileReadError reports a resolved path that could not be read as text.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }
