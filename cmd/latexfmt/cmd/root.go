package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	latex "github.com/eolymp/go-latexfmt"
	"github.com/spf13/cobra"
)

// ErrNotFormatted is returned in check mode when at least one file would change.
var ErrNotFormatted = errors.New("some files are not formatted")

type options struct {
	cfgFile    string
	signatures []string
	width      int
	indent     int
	write      bool
	check      bool
	verbose    bool
}

// NewRootCmd creates the latexfmt command.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "latexfmt [file...]",
		Short: "Format LaTeX documents",
		Long: `latexfmt parses LaTeX documents and prints them back with consistent
line breaks, indentation and aligned tables.

Without files the document is read from stdin and written to stdout.

Examples:
  latexfmt paper.tex
  latexfmt --write chapters/*.tex
  latexfmt --check --width 100 paper.tex
  latexfmt --signatures macros.yaml paper.tex`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.cfgFile, "config", "", "config file (TOML)")
	cmd.Flags().StringSliceVarP(&opts.signatures, "signatures", "s", nil, "additional macro signature files (YAML)")
	cmd.Flags().IntVar(&opts.width, "width", 80, "line width")
	cmd.Flags().IntVar(&opts.indent, "indent", 2, "spaces per indentation level")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write result to the source file instead of stdout")
	cmd.Flags().BoolVarP(&opts.check, "check", "c", false, "list files which are not formatted and exit with an error")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")

	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

// Execute runs the latexfmt command.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrNotFormatted) {
		printError(err)
	}

	return err
}

func run(cmd *cobra.Command, opts *options, args []string) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := latex.DefaultConfig()
	if opts.cfgFile != "" {
		var err error
		if cfg, err = latex.Load(opts.cfgFile); err != nil {
			return err
		}

		logger.Debug("config loaded", "path", opts.cfgFile)
	}

	if cmd.Flags().Changed("width") || opts.cfgFile == "" {
		cfg.Width = opts.width
	}

	if cmd.Flags().Changed("indent") || opts.cfgFile == "" {
		cfg.Indent = opts.indent
	}

	cfg.Signatures = append(cfg.Signatures, opts.signatures...)

	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	f := &formatter{
		opts:   latex.Options{Width: cfg.Width, IndentWidth: cfg.Indent, Registry: registry, Logger: logger},
		out:    cmd.OutOrStdout(),
		logger: logger,
		write:  opts.write,
		check:  opts.check,
	}

	if len(args) == 0 || len(args) == 1 && args[0] == "-" {
		return f.stream(cmd.InOrStdin())
	}

	for _, path := range args {
		if err := f.file(path); err != nil {
			return err
		}
	}

	if f.unformatted > 0 {
		return ErrNotFormatted
	}

	return nil
}

type formatter struct {
	opts        latex.Options
	out         io.Writer
	logger      *slog.Logger
	write       bool
	check       bool
	unformatted int
}

func (f *formatter) stream(in io.Reader) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("unable to read stdin: %w", err)
	}

	res, err := latex.Format(string(src), f.opts)
	if err != nil {
		return fmt.Errorf("<stdin>: %w", err)
	}

	if f.check {
		if res != string(src) {
			fmt.Fprintln(f.out, "<stdin>")
			return ErrNotFormatted
		}

		return nil
	}

	_, err = io.WriteString(f.out, res)
	return err
}

func (f *formatter) file(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	res, err := latex.Format(string(src), f.opts)
	if err != nil {
		return fmt.Errorf("%v: %w", path, err)
	}

	changed := res != string(src)
	f.logger.Debug("file formatted", "path", path, "changed", changed)

	switch {
	case f.check:
		if changed {
			f.unformatted++
			fmt.Fprintln(f.out, path)
		}

		return nil

	case f.write:
		if !changed {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		return os.WriteFile(path, []byte(res), info.Mode().Perm())

	default:
		_, err = io.WriteString(f.out, res)
		return err
	}
}

func printError(err error) {
	fmt.Fprintf(os.Stderr, "latexfmt: %v\n", err)
}
