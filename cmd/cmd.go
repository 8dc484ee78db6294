package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/monako97/raw-import/compiler"
	"github.com/monako97/raw-import/config"
)

// Execute runs the raw-import CLI with the given version string.
func Execute(version string) {
	app := NewApp(version, os.Stdout, os.Stderr)
	if err := app.Run(context.Background(), os.Args); err != nil {
		printError(os.Stderr, err, colorEnabled(os.Stderr, app.Bool("no-color")))
		os.Exit(1)
	}
}

// printError writes err with a red "error:" prefix. The decision is made
// per writer, independent of the global color.NoColor set for stdout.
func printError(w io.Writer, err error, useColor bool) {
	prefix := color.New(color.FgRed)
	if useColor {
		prefix.EnableColor()
	} else {
		prefix.DisableColor()
	}
	fmt.Fprintf(w, "%s%v\n", prefix.Sprint("error: "), err)
}

// NewApp builds the command tree. Output goes to stdout and diagnostics to
// stderr.
func NewApp(version string, stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:                   "raw-import",
		Usage:                  "Inline `import x from \"./file?raw\"` as string constants",
		ArgsUsage:              "[file.js ...]",
		Version:                version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root-dir",
				Aliases: []string{"r"},
				Usage:   "Project root; package imports resolve under <root>/node_modules",
				Sources: cli.EnvVars("RAWIMPORT_ROOT_DIR"),
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Config file (rawimport.json, .yaml, .yml or .toml)",
			},
			&cli.StringFlag{
				Name:  "plugin-config",
				Usage: "Plugin configuration as JSON, e.g. '{\"rootDir\":\"/src\"}'",
			},
			&cli.StringFlag{
				Name:  "max-size",
				Usage: "Largest file that may be inlined (e.g. 512KB)",
			},
			&cli.StringFlag{
				Name:    "out-dir",
				Aliases: []string{"o"},
				Usage:   "Write transformed files under this directory",
			},
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "Rewrite files in place",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "Print a diff of each changed file",
			},
			&cli.IntFlag{
				Name:    "jobs",
				Aliases: []string{"j"},
				Usage:   "Files transformed in parallel",
				Value:   4,
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Log every inlined import",
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Aliases: []string{"C"},
				Usage:   "Disable ANSI color output",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if !colorEnabled(stdout, cmd.Bool("no-color")) {
				color.NoColor = true
			}
			return ctx, nil
		},
		Action: transformAction,
		Commands: []*cli.Command{
			{
				Name:      "transform",
				Usage:     "Transform files (the default command)",
				ArgsUsage: "<file.js> [file.js ...]",
				Action:    transformAction,
			},
			{
				Name:      "check",
				Usage:     "Transform files without writing and report failures",
				ArgsUsage: "<file.js> [file.js ...]",
				Action:    checkAction,
			},
			{
				Name:      "resolve",
				Usage:     "Print the path a ?raw specifier resolves to",
				ArgsUsage: "<specifier>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "from",
						Aliases:  []string{"f"},
						Usage:    "File containing the import",
						Required: true,
					},
				},
				Action: resolveAction,
			},
			{
				Name:      "normalize",
				Usage:     "Print lexically normalized paths",
				ArgsUsage: "<path> [path ...]",
				Action:    normalizeAction,
			},
		},
	}
}

// colorEnabled reports whether output to w may carry ANSI color.
func colorEnabled(w io.Writer, noColor bool) bool {
	return !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(w)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newCompiler builds a compiler from the flags. Precedence, highest first:
// --root-dir (or RAWIMPORT_ROOT_DIR), --plugin-config, --config, then a
// rawimport.* file in the working directory.
func newCompiler(cmd *cli.Command) (*compiler.Compiler, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	level := log.WarnLevel
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(cmd.Root().ErrWriter, log.Options{
		Prefix: "raw-import",
		Level:  level,
	})
	return compiler.New(cfg, logger), nil
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.Find(wd)
		}
	}

	// Overrides apply before validation, so --root-dir can complete a
	// config that only sets maxFileSize.
	cfg := &config.Config{}
	var err error
	switch {
	case cmd.String("plugin-config") != "":
		cfg, err = config.Parse([]byte(cmd.String("plugin-config")))
	case path != "":
		cfg, err = config.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}

	if dir := cmd.String("root-dir"); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving --root-dir: %w", err)
		}
		cfg = cfg.WithRootDir(abs)
	}
	if size := cmd.String("max-size"); size != "" {
		cfg.MaxFileSize = size
	}
	if err := cfg.Validate(); err != nil {
		if path != "" && cmd.String("plugin-config") == "" {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		return nil, err
	}
	return cfg, nil
}
