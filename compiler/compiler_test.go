package compiler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monako97/raw-import/config"
	"github.com/monako97/raw-import/parser"
	"github.com/monako97/raw-import/resolver"
	"github.com/monako97/raw-import/rewrite"
)

// project lays out files under a fresh root and returns the root.
func project(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
	return root
}

func newCompiler(root string) *Compiler {
	return New((&config.Config{}).WithRootDir(root), nil)
}

func TestTransformFile(t *testing.T) {
	root := project(t, map[string]string{
		"src/main.js":             "import Foo from \"./f.txt?raw\";\nconst x = 1;\n",
		"src/f.txt":               "hello\n",
		"node_modules/pkg/a.html": "<p>\"hi\"</p>",
	})

	c := newCompiler(root)
	res, err := c.TransformFile(filepath.Join(root, "src", "main.js"))
	require.NoError(t, err)
	assert.Equal(t, "const Foo = \"hello\\n\";\nconst x = 1;\n", res.Source)
	assert.True(t, res.Changed())
	assert.Equal(t, []rewrite.Inlined{{Local: "Foo", Specifier: "./f.txt?raw", Line: 1, Size: 6}}, res.Inlined)
}

func TestTransformSourcePackageImport(t *testing.T) {
	root := project(t, map[string]string{
		"node_modules/pkg/a.html": "<p>\"hi\"</p>",
	})
	src := "import page from 'pkg/a.html?raw'\nexport default page\n"

	res, err := newCompiler(root).TransformSource(filepath.Join(root, "index.js"), []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "const page = \"<p>\\\"hi\\\"</p>\";\nexport default page\n", res.Source)
}

func TestTransformSourceWithoutRawImports(t *testing.T) {
	root := t.TempDir()
	sources := []string{
		"",
		"import React from 'react'\n\n// comment\nexport const App = () => null;\n",
		"#!/usr/bin/env node\nconsole.log(`${import.meta.url}`)\n",
		"const s = \"import a from './a.txt?raw'\";\n",
	}
	c := newCompiler(root)
	for i, src := range sources {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			res, err := c.TransformSource(filepath.Join(root, "a.js"), []byte(src))
			require.NoError(t, err)
			assert.Equal(t, src, res.Source)
			assert.False(t, res.Changed())
			assert.Empty(t, res.Inlined)
		})
	}
}

func TestTransformSourceJSXText(t *testing.T) {
	root := project(t, map[string]string{"logo.svg": "<svg/>"})
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"apostrophe without raw imports",
			"export const C = () => <p>it's</p>;\n",
			"export const C = () => <p>it's</p>;\n",
		},
		{
			"apostrophe at end of file",
			"const C = () => <p>don't</p>",
			"const C = () => <p>don't</p>",
		},
		{
			"raw import after jsx",
			"const C = () => <p>it's</p>;\nimport logo from './logo.svg?raw';\nexport { C, logo };\n",
			"const C = () => <p>it's</p>;\nconst logo = \"<svg/>\";\nexport { C, logo };\n",
		},
	}
	c := newCompiler(root)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := c.TransformSource(filepath.Join(root, "a.jsx"), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Source)
			assert.Equal(t, tt.src != tt.want, res.Changed())
		})
	}
}

func TestTransformSourceErrors(t *testing.T) {
	root := project(t, map[string]string{
		"main.js": "",
		"big.txt": "0123456789",
	})
	file := filepath.Join(root, "main.js")

	t.Run("missing config", func(t *testing.T) {
		_, err := New(nil, nil).TransformSource(file, []byte("x"))
		assert.ErrorIs(t, err, config.ErrMissingConfiguration)

		_, err = New(&config.Config{}, nil).TransformSource(file, []byte("x"))
		assert.ErrorIs(t, err, config.ErrMissingConfiguration)
	})

	t.Run("syntax error", func(t *testing.T) {
		_, err := newCompiler(root).TransformSource(file, []byte("import x from;"))
		var perr *parser.Error
		require.True(t, errors.As(err, &perr))
		assert.Equal(t, file, perr.File)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newCompiler(root).TransformSource(file, []byte("import a from './nope.txt?raw';"))
		var ferr *resolver.FileReadError
		require.True(t, errors.As(err, &ferr))
		assert.Equal(t, filepath.Join(root, "nope.txt"), ferr.Path)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Contains(t, err.Error(), file)
	})

	t.Run("named specifier", func(t *testing.T) {
		_, err := newCompiler(root).TransformSource(file, []byte("import { a } from './big.txt?raw';"))
		assert.ErrorIs(t, err, rewrite.ErrUnsupportedSpecifier)
	})

	t.Run("too large", func(t *testing.T) {
		cfg := &config.Config{MaxFileSize: "4B"}
		c := New(cfg.WithRootDir(root), nil)
		_, err := c.TransformSource(file, []byte("import a from './big.txt?raw';"))
		assert.ErrorIs(t, err, resolver.ErrTooLarge)
	})

	t.Run("sandboxed", func(t *testing.T) {
		missing := filepath.Join(root, "does-not-exist")
		_, err := newCompiler(missing).TransformSource(filepath.Join(missing, "a.js"), []byte("import a from './a.txt?raw';"))
		assert.ErrorIs(t, err, resolver.ErrSandboxedEnvironment)
	})
}

func TestTransformFileMissing(t *testing.T) {
	root := t.TempDir()
	_, err := newCompiler(root).TransformFile(filepath.Join(root, "nope.js"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTransformFileKeepsOriginal(t *testing.T) {
	src := "#!/usr/bin/env node\nimport a from './a.txt?raw'\nconsole.log(a)\n"
	root := project(t, map[string]string{"bin.js": src, "a.txt": "A"})

	res, err := newCompiler(root).TransformFile(filepath.Join(root, "bin.js"))
	require.NoError(t, err)
	assert.Equal(t, src, res.Original)
	assert.Equal(t, "#!/usr/bin/env node\nconst a = \"A\";\nconsole.log(a)\n", res.Source)
}

func TestTransformFiles(t *testing.T) {
	files := map[string]string{"data.txt": "D"}
	var paths []string
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("m%02d.js", i)
		files[name] = fmt.Sprintf("import d%d from './data.txt?raw';\n", i)
		paths = append(paths, name)
	}
	root := project(t, files)
	for i := range paths {
		paths[i] = filepath.Join(root, paths[i])
	}

	for _, jobs := range []int{0, 1, 4} {
		t.Run(fmt.Sprintf("jobs=%d", jobs), func(t *testing.T) {
			results, err := newCompiler(root).TransformFiles(context.Background(), paths, jobs)
			require.NoError(t, err)
			require.Len(t, results, len(paths))
			for i, res := range results {
				assert.Equal(t, paths[i], res.SourceFile)
				assert.Equal(t, fmt.Sprintf("const d%d = \"D\";\n", i), res.Source)
			}
		})
	}
}

func TestTransformFilesFailFast(t *testing.T) {
	root := project(t, map[string]string{
		"ok.js":  "const a = 1;\n",
		"bad.js": "import a from './missing.txt?raw';\n",
	})
	paths := []string{filepath.Join(root, "ok.js"), filepath.Join(root, "bad.js")}

	results, err := newCompiler(root).TransformFiles(context.Background(), paths, 1)
	require.Error(t, err)
	assert.Nil(t, results)
	var ferr *resolver.FileReadError
	assert.True(t, errors.As(err, &ferr))
}

func TestTransformFilesCanceled(t *testing.T) {
	root := project(t, map[string]string{"a.js": "const a = 1;\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newCompiler(root).TransformFiles(ctx, []string{filepath.Join(root, "a.js")}, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransformLogs(t *testing.T) {
	root := project(t, map[string]string{"main.js": "", "f.txt": "abc"})
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	c := New((&config.Config{}).WithRootDir(root), logger)
	_, err := c.TransformSource(filepath.Join(root, "main.js"), []byte("import F from './f.txt?raw';"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "inlined")
	assert.Contains(t, out, "local=F")
	assert.Contains(t, out, "size=\"3 B\"")
	assert.Contains(t, out, "transformed")
	assert.Contains(t, out, "raw=1")
	assert.Contains(t, out, "root="+root)
	assert.NotContains(t, out, "not readable")
}

func TestTransformWarnsUnreadableRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")
	var buf bytes.Buffer
	c := New((&config.Config{}).WithRootDir(root), log.New(&buf))

	_, err := c.TransformSource(filepath.Join(root, "a.js"), []byte("const a = 1;\n"))
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "root directory is not readable")
}

func TestExamples(t *testing.T) {
	dirs, err := filepath.Glob(filepath.Join("..", "examples", "*"))
	require.NoError(t, err)
	require.NotEmpty(t, dirs)

	for _, dir := range dirs {
		t.Run(filepath.Base(dir), func(t *testing.T) {
			cfgPath := config.Find(dir)
			require.NotEmpty(t, cfgPath, "example needs a rawimport config")
			cfg, err := config.Load(cfgPath)
			require.NoError(t, err)

			expected, err := filepath.Glob(filepath.Join(dir, "expected", "*.js"))
			require.NoError(t, err)
			require.NotEmpty(t, expected)

			c := New(cfg, nil)
			for _, want := range expected {
				res, err := c.TransformFile(filepath.Join(dir, "src", filepath.Base(want)))
				require.NoError(t, err)
				data, err := os.ReadFile(want)
				require.NoError(t, err)
				assert.Equal(t, string(data), res.Source)
			}
		})
	}
}
