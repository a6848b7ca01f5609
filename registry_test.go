package latex_test

import (
	"strings"
	"testing"

	"github.com/eolymp/go-latexfmt"
	"github.com/google/go-cmp/cmp"
)

func TestParseSignature(t *testing.T) {
	mandatory := latex.ArgSpec{Kind: latex.MandatoryArg, Open: "{", Close: "}"}
	optional := latex.ArgSpec{Kind: latex.OptionalArg, Open: "[", Close: "]"}
	star := latex.ArgSpec{Kind: latex.StarArg}

	tt := []struct {
		name  string
		input string
		want  []latex.ArgSpec
		err   bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "spaced", input: "s o m", want: []latex.ArgSpec{star, optional, mandatory}},
		{name: "compact", input: "mm", want: []latex.ArgSpec{mandatory, mandatory}},
		{name: "optional with default", input: "O{left} m", want: []latex.ArgSpec{optional, mandatory}},
		{name: "default without braces", input: "O m", err: true},
		{name: "default not closed", input: "O{x", err: true},
		{name: "unsupported", input: "m v", err: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := latex.ParseSignature(tc.input)
			if tc.err {
				if err == nil {
					t.Fatal("Expected error, got nil")
				}

				return
			}

			if err != nil {
				t.Fatalf("Unable to parse signature: %v", err)
			}

			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Signature does not match (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRegistry_Define(t *testing.T) {
	r := latex.NewRegistry()

	if err := r.Define("foo", latex.MacroSpec{Signature: "m", Mode: "math"}); err != nil {
		t.Fatalf("Unable to define macro: %v", err)
	}

	if err := r.Define("bar", latex.MacroSpec{Mode: "music"}); err == nil {
		t.Error("Expected error for unknown mode")
	}

	if err := r.Define("baz", latex.MacroSpec{Signature: "x"}); err == nil {
		t.Error("Expected error for invalid signature")
	}

	if err := r.DefineEnvironment("code", latex.EnvSpec{Verbatim: true, Math: true}); err == nil {
		t.Error("Expected error for verbatim math environment")
	}

	if _, ok := r.Macro("bar"); ok {
		t.Error("Invalid macro is not expected to be defined")
	}

	got, ok := r.Macro("foo")
	if !ok {
		t.Fatal("Macro foo is expected to be defined")
	}

	if diff := cmp.Diff(latex.MacroSpec{Signature: "m", Mode: "math"}, got); diff != "" {
		t.Errorf("Macro spec does not match (-want +got):\n%s", diff)
	}
}

func TestRegistry_Merge(t *testing.T) {
	r := latex.DefaultRegistry()

	other := latex.NewRegistry()
	if err := other.Define("frac", latex.MacroSpec{Signature: "m m m"}); err != nil {
		t.Fatalf("Unable to define macro: %v", err)
	}

	r.Merge(other)

	got, _ := r.Macro("frac")
	if got.Signature != "m m m" {
		t.Errorf("Merged signature does not match: want %q, got %q", "m m m", got.Signature)
	}

	if _, ok := r.Macro("sqrt"); !ok {
		t.Error("Existing definitions are expected to survive merge")
	}
}

func TestLoadRegistry(t *testing.T) {
	input := `
macros:
  foo: m m
  bar:
    signature: o m
    in_par_mode: true
  heading: {signature: m, hanging_indent: true, break_before: true}
environments:
  code: {verbatim: true}
  grid: {signature: m, align: true}
  box: o
`

	r, err := latex.LoadRegistry(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Unable to load registry: %v", err)
	}

	macros := map[string]latex.MacroSpec{}
	for _, name := range []string{"foo", "bar", "heading"} {
		macros[name], _ = r.Macro(name)
	}

	wantMacros := map[string]latex.MacroSpec{
		"foo":     {Signature: "m m"},
		"bar":     {Signature: "o m", InParMode: true},
		"heading": {Signature: "m", HangingIndent: true, BreakBefore: true},
	}

	if diff := cmp.Diff(wantMacros, macros); diff != "" {
		t.Errorf("Macros do not match (-want +got):\n%s", diff)
	}

	envs := map[string]latex.EnvSpec{}
	for _, name := range []string{"code", "grid", "box"} {
		envs[name], _ = r.Environment(name)
	}

	wantEnvs := map[string]latex.EnvSpec{
		"code": {Verbatim: true},
		"grid": {Signature: "m", Align: true},
		"box":  {Signature: "o"},
	}

	if diff := cmp.Diff(wantEnvs, envs); diff != "" {
		t.Errorf("Environments do not match (-want +got):\n%s", diff)
	}
}

func TestLoadRegistry_Errors(t *testing.T) {
	tt := []struct {
		name  string
		input string
	}{
		{name: "invalid yaml", input: "macros: [a"},
		{name: "invalid signature", input: "macros:\n  foo: q"},
		{name: "invalid environment", input: "environments:\n  foo: {verbatim: true, align: true}"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := latex.LoadRegistry(strings.NewReader(tc.input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestLoadRegistry_Empty(t *testing.T) {
	r, err := latex.LoadRegistry(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Unable to load empty registry: %v", err)
	}

	if _, ok := r.Macro("frac"); ok {
		t.Error("Empty registry is not expected to have builtins")
	}
}

func TestRegistry_CustomSignature(t *testing.T) {
	r := latex.DefaultRegistry()
	if err := r.Define("pair", latex.MacroSpec{Signature: "m m"}); err != nil {
		t.Fatalf("Unable to define macro: %v", err)
	}

	root, err := latex.Parse("\\pair{a}{b} c", r)
	if err != nil {
		t.Fatalf("Unable to parse document: %v", err)
	}

	macro, ok := root.Content[0].(*latex.Macro)
	if !ok {
		t.Fatalf("Expected macro, got %T", root.Content[0])
	}

	if len(macro.Args) != 2 {
		t.Errorf("Expected 2 arguments, got %d", len(macro.Args))
	}
}
