package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/urfave/cli/v3"

	"github.com/monako97/raw-import/compiler"
)

func transformAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return cli.DefaultShowRootCommandHelp(cmd.Root())
	}

	write, outDir, diff := cmd.Bool("write"), cmd.String("out-dir"), cmd.Bool("diff")
	if write && outDir != "" {
		return fmt.Errorf("--write and --out-dir are mutually exclusive")
	}
	if len(files) > 1 && !write && outDir == "" && !diff {
		return fmt.Errorf("transforming %d files needs --write, --out-dir or --diff", len(files))
	}

	comp, err := newCompiler(cmd)
	if err != nil {
		return err
	}
	results, err := comp.TransformFiles(ctx, files, cmd.Int("jobs"))
	if err != nil {
		return err
	}

	stdout := cmd.Root().Writer
	for _, res := range results {
		if diff {
			writeDiff(stdout, res.SourceFile, res.Original, res.Source)
		}
		switch {
		case write:
			if !res.Changed() {
				continue
			}
			if err := writeFile(res.SourceFile, res.Source); err != nil {
				return err
			}
		case outDir != "":
			dest, err := outputPath(comp, outDir, res.SourceFile)
			if err != nil {
				return err
			}
			if err := writeFile(dest, res.Source); err != nil {
				return err
			}
		case !diff:
			fmt.Fprint(stdout, res.Source)
		}
	}
	return nil
}

// outputPath mirrors file's location below the project root into outDir.
// Files outside the root are written by base name.
func outputPath(comp *compiler.Compiler, outDir, file string) (string, error) {
	root, err := comp.Config.Root()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", file, err)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(abs)
	}
	return filepath.Join(outDir, rel), nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// writeDiff prints a line diff between before and after. Nothing is printed
// when they are equal.
func writeDiff(w io.Writer, name, before, after string) {
	if before == after {
		return
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	bold := color.New(color.Bold)
	removed := color.New(color.FgRed)
	added := color.New(color.FgGreen)

	bold.Fprintf(w, "--- %s\n", name)
	bold.Fprintf(w, "+++ %s\n", name)
	for _, d := range diffs {
		for _, line := range splitLines(d.Text) {
			switch d.Type {
			case diffmatchpatch.DiffDelete:
				removed.Fprintf(w, "-%s\n", line)
			case diffmatchpatch.DiffInsert:
				added.Fprintf(w, "+%s\n", line)
			default:
				fmt.Fprintf(w, " %s\n", line)
			}
		}
	}
}

// splitLines splits text into lines without their terminators.
func splitLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
