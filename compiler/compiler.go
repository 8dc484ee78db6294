// Package compiler runs the ?raw import transform over module files.
package compiler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/monako97/raw-import/ast"
	"github.com/monako97/raw-import/config"
	"github.com/monako97/raw-import/parser"
	"github.com/monako97/raw-import/printer"
	"github.com/monako97/raw-import/resolver"
	"github.com/monako97/raw-import/rewrite"
)

// Compiler orchestrates parse, rewrite and print for one or more files.
type Compiler struct {
	// Config supplies the root directory and size limit.
	Config *config.Config
	// Logger receives progress events. Nil discards them.
	Logger *log.Logger
}

// Result holds the output of transforming one file.
type Result struct {
	SourceFile string
	Original   string
	Source     string
	Inlined    []rewrite.Inlined
}

// Changed reports whether any import was rewritten.
func (r *Result) Changed() bool {
	return r.Source != r.Original
}

// New creates a Compiler for cfg.
func New(cfg *config.Config, logger *log.Logger) *Compiler {
	return &Compiler{Config: cfg, Logger: logger}
}

var discard = log.New(io.Discard)

func (c *Compiler) logger() *log.Logger {
	if c.Logger == nil {
		return discard
	}
	return c.Logger
}

// Resolver builds the resolver used for imports in filename.
func (c *Compiler) Resolver(filename string) (*resolver.Resolver, error) {
	if c.Config == nil {
		return nil, config.ErrMissingConfiguration
	}
	root, err := c.Config.Root()
	if err != nil {
		return nil, err
	}
	maxBytes, err := c.Config.MaxBytes()
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", filename, err)
	}
	res := resolver.New(root, absPath, resolver.WithMaxBytes(maxBytes))

	logger := c.logger()
	logger.Debug("resolver", "file", filename, "root", res.RootDir(), "dir", res.WorkingDir())
	if !res.CanAccessRoot() {
		logger.Warn("root directory is not readable", "root", res.RootDir())
	}
	return res, nil
}

// TransformSource transforms src as the contents of filename. A module
// without ?raw imports comes back byte for byte.
func (c *Compiler) TransformSource(filename string, src []byte) (*Result, error) {
	start := time.Now()
	p := &parser.Parser{}
	prog, err := p.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return c.transform(filename, prog, start)
}

// TransformFile reads filename and transforms it.
func (c *Compiler) TransformFile(filename string) (*Result, error) {
	start := time.Now()
	p := &parser.Parser{}
	prog, err := p.ParseFile(filename)
	if err != nil {
		return nil, err
	}
	return c.transform(filename, prog, start)
}

func (c *Compiler) transform(filename string, prog *ast.Program, start time.Time) (*Result, error) {
	res, err := c.Resolver(filename)
	if err != nil {
		return nil, err
	}

	rw := rewrite.New(res)
	out, err := ast.Chain(rw.Transform()).Transform(prog)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	result := &Result{
		SourceFile: filename,
		Original:   prog.RawSource,
		Source:     printer.Print(out),
		Inlined:    rw.Inlined(),
	}

	logger := c.logger()
	for _, in := range result.Inlined {
		logger.Debug("inlined", "file", filename, "line", in.Line, "local", in.Local,
			"specifier", in.Specifier, "size", humanize.Bytes(uint64(in.Size)))
	}
	logger.Info("transformed", "file", filename, "raw", len(result.Inlined), "elapsed", time.Since(start))
	return result, nil
}

// TransformFiles transforms paths with at most jobs files in flight (no
// limit when jobs < 1). Results are in input order. The first error stops
// scheduling of files not yet started and is returned.
func (c *Compiler) TransformFiles(ctx context.Context, paths []string, jobs int) ([]*Result, error) {
	results := make([]*Result, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := c.TransformFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
