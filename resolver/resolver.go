// Package resolver turns the path part of a ?raw import into a file on disk
// and reads it.
//
// A Resolver is built once per compiled file. Specifiers starting with "."
// are resolved against the importing file's directory, everything else
// against <root>/node_modules.
package resolver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/dustin/go-humanize"

	"github.com/monako97/raw-import/pathnorm"
)

// Resolver holds the per-file resolution state. It is immutable after New.
type Resolver struct {
	rootDir    string
	workingDir string
	// rootAccessible is probed once at construction.
	rootAccessible bool
	maxBytes       int64
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxBytes rejects files larger than n bytes. Zero means no limit.
func WithMaxBytes(n int64) Option {
	return func(r *Resolver) { r.maxBytes = n }
}

// New creates a Resolver for the file at currentFile inside the project
// rooted at rootDir.
//
// The working directory is derived by stripping rootDir from currentFile,
// joining the remainder back onto rootDir and, when that names an existing
// regular file, dropping the file name.
func New(rootDir, currentFile string, opts ...Option) *Resolver {
	rel := strings.TrimPrefix(currentFile, rootDir)
	rel = strings.TrimLeft(rel, "/")
	wd := pathnorm.Join(rootDir, rel)
	if isRegularFile(wd) {
		wd = path.Dir(wd)
	}

	r := &Resolver{
		rootDir:        rootDir,
		workingDir:     wd,
		rootAccessible: probeDir(rootDir),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RootDir returns the project root the resolver was built with.
func (r *Resolver) RootDir() string { return r.rootDir }

// WorkingDir returns the directory relative specifiers are resolved against.
func (r *Resolver) WorkingDir() string { return r.workingDir }

// CanAccessRoot reports whether the root directory could be listed when the
// resolver was created.
func (r *Resolver) CanAccessRoot() bool { return r.rootAccessible }

// Resolve maps a raw specifier path to a normalized absolute path without
// touching the filesystem.
func (r *Resolver) Resolve(rawPath string) (string, error) {
	rawPath = stripNUL(rawPath)

	var p string
	if strings.HasPrefix(rawPath, ".") {
		p = pathnorm.Join(r.workingDir, rawPath)
	} else {
		p = pathnorm.Join(r.rootDir, "node_modules", rawPath)
	}

	if strings.ContainsRune(p, 0) {
		return "", fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, p)
	}
	return p, nil
}

// ResolveAndRead resolves rawPath and returns the file's text.
func (r *Resolver) ResolveAndRead(rawPath string) (string, error) {
	rawPath = stripNUL(rawPath)
	if !r.rootAccessible {
		return "", fmt.Errorf("importing %q: %w (root %s)", rawPath, ErrSandboxedEnvironment, r.rootDir)
	}

	p, err := r.Resolve(rawPath)
	if err != nil {
		return "", err
	}
	return r.read(p)
}

func (r *Resolver) read(p string) (string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return "", &FileReadError{Path: p, Err: err}
	}
	if !info.Mode().IsRegular() {
		return "", &FileReadError{Path: p, Err: ErrNotRegular}
	}
	if r.maxBytes > 0 && info.Size() > r.maxBytes {
		return "", &FileReadError{
			Path: p,
			Err: fmt.Errorf("%w: %s exceeds the %s limit", ErrTooLarge,
				humanize.Bytes(uint64(info.Size())), humanize.Bytes(uint64(r.maxBytes))),
		}
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", &FileReadError{Path: p, Err: err}
	}
	if !utf8.Valid(data) {
		return "", &FileReadError{Path: p, Err: ErrInvalidUTF8}
	}
	return string(data), nil
}

func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

func isRegularFile(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// probeDir reports whether dir can be opened and listed.
func probeDir(dir string) bool {
	f, err := os.Open(dir)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.ReadDir(1)
	return err == nil || errors.Is(err, io.EOF)
}
