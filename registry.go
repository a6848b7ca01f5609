package latex

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// MacroSpec declares how a macro consumes arguments and how it should be formatted.
type MacroSpec struct {
	Signature     string `yaml:"signature" toml:"signature"`
	HangingIndent bool   `yaml:"hanging_indent" toml:"hanging_indent"` // indent continuation lines of the arguments
	InParMode     bool   `yaml:"in_par_mode" toml:"in_par_mode"`       // flow arguments with the surrounding paragraph
	Mode          string `yaml:"mode" toml:"mode"`                     // "text" or "math" forces the mode of arguments
	Verb          bool   `yaml:"verb" toml:"verb"`                     // delimited verbatim argument, like \verb|...|
	BreakBefore   bool   `yaml:"break_before" toml:"break_before"`     // always start on a new line
	BreakAfter    bool   `yaml:"break_after" toml:"break_after"`       // a space after the macro is a line break
}

// EnvSpec declares arguments and content type of an environment.
type EnvSpec struct {
	Signature string `yaml:"signature" toml:"signature"`
	Math      bool   `yaml:"math" toml:"math"`
	Verbatim  bool   `yaml:"verbatim" toml:"verbatim"`
	Align     bool   `yaml:"align" toml:"align"`
}

// UnmarshalYAML accepts either a signature string or a mapping.
func (s *MacroSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = MacroSpec{Signature: node.Value}
		return nil
	}

	type plain MacroSpec
	return node.Decode((*plain)(s))
}

// UnmarshalYAML accepts either a signature string or a mapping.
func (s *EnvSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*s = EnvSpec{Signature: node.Value}
		return nil
	}

	type plain EnvSpec
	return node.Decode((*plain)(s))
}

type macroEntry struct {
	spec MacroSpec
	args []ArgSpec
}

type envEntry struct {
	spec EnvSpec
	args []ArgSpec
}

// Registry maps macro and environment names (without backslash) to their signatures. It is read-only while
// parsing, so one registry can be shared by parsers running in parallel.
type Registry struct {
	macros       map[string]macroEntry
	environments map[string]envEntry
}

func NewRegistry() *Registry {
	return &Registry{macros: map[string]macroEntry{}, environments: map[string]envEntry{}}
}

// DefaultRegistry returns a new registry with signatures of common LaTeX macros and environments.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.addBuiltins()
	return r
}

// Define adds or replaces a macro signature.
func (r *Registry) Define(name string, spec MacroSpec) error {
	args, err := ParseSignature(spec.Signature)
	if err != nil {
		return fmt.Errorf("macro %v: %w", name, err)
	}

	if spec.Mode != "" && spec.Mode != "text" && spec.Mode != "math" {
		return fmt.Errorf("macro %v: unknown mode %q", name, spec.Mode)
	}

	r.macros[name] = macroEntry{spec: spec, args: args}
	return nil
}

// DefineEnvironment adds or replaces an environment signature.
func (r *Registry) DefineEnvironment(name string, spec EnvSpec) error {
	args, err := ParseSignature(spec.Signature)
	if err != nil {
		return fmt.Errorf("environment %v: %w", name, err)
	}

	if spec.Verbatim && (spec.Math || spec.Align) {
		return fmt.Errorf("environment %v: verbatim environment can not be math or aligned", name)
	}

	r.environments[name] = envEntry{spec: spec, args: args}
	return nil
}

// Macro returns the signature of a macro.
func (r *Registry) Macro(name string) (MacroSpec, bool) {
	e, ok := r.macros[name]
	return e.spec, ok
}

// Environment returns the signature of an environment.
func (r *Registry) Environment(name string) (EnvSpec, bool) {
	e, ok := r.environments[name]
	return e.spec, ok
}

// Merge copies all definitions from other, replacing existing ones.
func (r *Registry) Merge(other *Registry) {
	for name, e := range other.macros {
		r.macros[name] = e
	}

	for name, e := range other.environments {
		r.environments[name] = e
	}
}

// LoadRegistry reads registry definitions from YAML:
//
//	macros:
//	  frac: m m
//	  section: {signature: s o m, hanging_indent: true}
//	environments:
//	  tabular: {signature: m, align: true}
func LoadRegistry(in io.Reader) (*Registry, error) {
	var file struct {
		Macros       map[string]MacroSpec `yaml:"macros"`
		Environments map[string]EnvSpec   `yaml:"environments"`
	}

	if err := yaml.NewDecoder(in).Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unable to decode registry: %w", err)
	}

	r := NewRegistry()
	for name, spec := range file.Macros {
		if err := r.Define(name, spec); err != nil {
			return nil, err
		}
	}

	for name, spec := range file.Environments {
		if err := r.DefineEnvironment(name, spec); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// LoadRegistryFile reads registry definitions from a YAML file.
func LoadRegistryFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	r, err := LoadRegistry(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	return r, nil
}

func (r *Registry) macro(name string) (macroEntry, bool) {
	if r == nil {
		return macroEntry{}, false
	}

	e, ok := r.macros[name]
	return e, ok
}

func (r *Registry) environment(name string) (envEntry, bool) {
	if r == nil {
		return envEntry{}, false
	}

	e, ok := r.environments[name]
	return e, ok
}

func (r *Registry) mustDefine(spec MacroSpec, names ...string) {
	for _, name := range names {
		if err := r.Define(name, spec); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) mustDefineEnvironment(spec EnvSpec, names ...string) {
	for _, name := range names {
		if err := r.DefineEnvironment(name, spec); err != nil {
			panic(err)
		}
	}
}

func (r *Registry) addBuiltins() {
	// document structure
	r.mustDefine(MacroSpec{Signature: "o m"}, "documentclass", "usepackage", "RequirePackage", "author", "title", "date")
	r.mustDefine(MacroSpec{Signature: "s o m", HangingIndent: true, BreakBefore: true, BreakAfter: true}, "part", "chapter", "section", "subsection", "subsubsection", "paragraph", "subparagraph")
	r.mustDefine(MacroSpec{Signature: "s m o o m"}, "newcommand", "renewcommand", "providecommand")
	r.mustDefine(MacroSpec{Signature: "m o o m m"}, "newenvironment", "renewenvironment")
	r.mustDefine(MacroSpec{Signature: "o m", HangingIndent: true}, "caption")
	r.mustDefine(MacroSpec{Signature: "o", HangingIndent: true, BreakBefore: true}, "item")
	r.mustDefine(MacroSpec{Signature: "o m", BreakBefore: true}, "bibitem")
	r.mustDefine(MacroSpec{Signature: "m"}, "label", "ref", "eqref", "pageref", "input", "include", "url", "cline")
	r.mustDefine(MacroSpec{Signature: "o m"}, "cite", "includegraphics")
	r.mustDefine(MacroSpec{Signature: "m m"}, "href", "setlength")
	r.mustDefine(MacroSpec{Signature: "s m"}, "vspace", "hspace")
	r.mustDefine(MacroSpec{Signature: "s o", BreakAfter: true}, "\\")
	r.mustDefine(MacroSpec{}, "hline", "toprule", "midrule", "bottomrule", "maketitle", "centering", "noindent", "par")

	// text formatting flows with the paragraph
	r.mustDefine(MacroSpec{Signature: "m", InParMode: true}, "textbf", "textit", "texttt", "textsf", "textsc", "textsl", "textup", "textmd", "emph", "underline")
	r.mustDefine(MacroSpec{Signature: "o m", InParMode: true}, "footnote")
	r.mustDefine(MacroSpec{Signature: "m", Mode: "text"}, "text", "mbox", "textrm", "intertext")
	r.mustDefine(MacroSpec{Signature: "m", Mode: "math"}, "ensuremath")

	// math
	r.mustDefine(MacroSpec{Signature: "m m"}, "frac", "dfrac", "tfrac", "binom")
	r.mustDefine(MacroSpec{Signature: "o m"}, "sqrt")
	r.mustDefine(MacroSpec{Signature: "m"}, "mathbf", "mathrm", "mathit", "mathcal", "mathbb", "mathsf", "mathtt", "mathfrak", "operatorname", "overline", "underbrace", "overbrace", "hat", "bar", "vec", "tilde", "widehat", "dot")

	// verbatim
	r.mustDefine(MacroSpec{Verb: true}, "verb", "lstinline")

	r.mustDefineEnvironment(EnvSpec{Verbatim: true}, "verbatim", "verbatim*", "Verbatim", "comment")
	r.mustDefineEnvironment(EnvSpec{Signature: "o", Verbatim: true}, "lstlisting")
	r.mustDefineEnvironment(EnvSpec{Signature: "o m", Verbatim: true}, "minted")

	r.mustDefineEnvironment(EnvSpec{Math: true}, "equation", "equation*", "gather", "gather*", "multline", "multline*", "displaymath", "math")
	r.mustDefineEnvironment(EnvSpec{Math: true, Align: true}, "align", "align*", "alignat", "alignat*", "flalign", "flalign*", "eqnarray", "eqnarray*")
	r.mustDefineEnvironment(EnvSpec{Align: true}, "aligned", "split", "cases", "matrix", "pmatrix", "bmatrix", "vmatrix", "Vmatrix")
	r.mustDefineEnvironment(EnvSpec{Signature: "o m", Align: true}, "tabular", "array", "longtable")
	r.mustDefineEnvironment(EnvSpec{Signature: "m o m", Align: true}, "tabular*", "tabularx")

	r.mustDefineEnvironment(EnvSpec{Signature: "o"}, "figure", "figure*", "table", "table*", "itemize", "enumerate", "description")
	r.mustDefineEnvironment(EnvSpec{Signature: "o m m"}, "wrapfigure")
	r.mustDefineEnvironment(EnvSpec{Signature: "m"}, "minipage", "thebibliography")
}
