package latex

import (
	"log/slog"
	"strings"
	"sync"
)

// Options control Format.
type Options struct {
	Width       int       // line width, 80 if not set
	IndentWidth int       // spaces per indentation level, 2 if not set
	Registry    *Registry // macro signatures, DefaultRegistry if nil
	Logger      *slog.Logger
}

var defaultRegistry = sync.OnceValue(DefaultRegistry)

// Format parses LaTeX source and prints it back formatted. The result ends with exactly one line break,
// unless the document is empty.
func Format(src string, opts Options) (string, error) {
	registry := opts.Registry
	if registry == nil {
		registry = defaultRegistry()
	}

	root, err := Parse(src, registry)
	if err != nil {
		return "", err
	}

	p := &Printer{
		Width:       opts.Width,
		IndentWidth: opts.IndentWidth,
		Info:        Annotate(root, registry),
		Logger:      opts.Logger,
	}

	out := strings.TrimRight(p.Print(root), "\n")
	if out == "" {
		return "", nil
	}

	if opts.Logger != nil {
		opts.Logger.Debug("document formatted", "nodes", len(root.Content), "warnings", len(p.Warnings()))
	}

	return out + "\n", nil
}
