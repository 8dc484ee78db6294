package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/monako97/raw-import/pathnorm"
	"github.com/monako97/raw-import/rewrite"
)

func checkAction(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("usage: raw-import check <file.js> [file.js ...]")
	}
	comp, err := newCompiler(cmd)
	if err != nil {
		return err
	}

	stdout := cmd.Root().Writer
	ok, fail := color.New(color.FgGreen), color.New(color.FgRed)
	failed := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := comp.TransformFile(file)
		if err != nil {
			failed++
			fail.Fprint(stdout, "FAIL")
			fmt.Fprintf(stdout, " %v\n", err)
			continue
		}
		ok.Fprint(stdout, "ok")
		fmt.Fprintf(stdout, "   %s (%d raw %s)\n", file, len(res.Inlined), plural(len(res.Inlined), "import", "imports"))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func resolveAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: raw-import resolve --from <file> <specifier>")
	}
	comp, err := newCompiler(cmd)
	if err != nil {
		return err
	}
	res, err := comp.Resolver(cmd.String("from"))
	if err != nil {
		return err
	}
	rawPath, _ := rewrite.RawPath(cmd.Args().First())
	p, err := res.Resolve(rawPath)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Root().Writer, p)
	return nil
}

func normalizeAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() == 0 {
		return fmt.Errorf("usage: raw-import normalize <path> [path ...]")
	}
	for _, p := range cmd.Args().Slice() {
		fmt.Fprintln(cmd.Root().Writer, pathnorm.Normalize(p))
	}
	return nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
