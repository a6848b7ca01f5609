package latex

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds formatter settings, usually loaded from a TOML file:
//
//	width = 100
//	indent = 4
//	signatures = ["$HOME/.config/latexfmt/signatures.yaml"]
//
//	[macros]
//	frac = "m m"
//	todo = { signature = "o m", in_par_mode = true }
//
//	[environments]
//	tabu = { signature = "m", align = true }
type Config struct {
	Width        int                  `toml:"width"`
	Indent       int                  `toml:"indent"`
	Signatures   []string             `toml:"signatures"` // YAML registry files, relative to the config file
	Macros       map[string]MacroSpec `toml:"macros"`
	Environments map[string]EnvSpec   `toml:"environments"`

	dir string
}

// DefaultConfig returns configuration used when no config file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.dir = filepath.Dir(path)
	cfg.applyDefaults()

	return &cfg, nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	if c.Width <= 0 {
		c.Width = 80
	}

	if c.Indent <= 0 {
		c.Indent = 2
	}
}

// Registry builds the registry described by the config: built-in signatures, then signature files, then
// macros and environments defined in the config itself. Later definitions replace earlier ones.
func (c *Config) Registry() (*Registry, error) {
	r := DefaultRegistry()

	for _, path := range c.Signatures {
		path = os.ExpandEnv(path)
		if !filepath.IsAbs(path) && c.dir != "" {
			path = filepath.Join(c.dir, path)
		}

		file, err := LoadRegistryFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load signatures: %w", err)
		}

		r.Merge(file)
	}

	for name, spec := range c.Macros {
		if err := r.Define(name, spec); err != nil {
			return nil, err
		}
	}

	for name, spec := range c.Environments {
		if err := r.DefineEnvironment(name, spec); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// UnmarshalTOML accepts either a signature string or a table.
func (s *MacroSpec) UnmarshalTOML(v any) error {
	if signature, ok := v.(string); ok {
		*s = MacroSpec{Signature: signature}
		return nil
	}

	table, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("macro must be a signature or a table, got %T", v)
	}

	if err := knownKeys(table, "signature", "hanging_indent", "in_par_mode", "mode", "verb", "break_before", "break_after"); err != nil {
		return err
	}

	var err error
	spec := MacroSpec{}

	if spec.Signature, err = field[string](table, "signature"); err != nil {
		return err
	}

	if spec.HangingIndent, err = field[bool](table, "hanging_indent"); err != nil {
		return err
	}

	if spec.InParMode, err = field[bool](table, "in_par_mode"); err != nil {
		return err
	}

	if spec.Mode, err = field[string](table, "mode"); err != nil {
		return err
	}

	if spec.Verb, err = field[bool](table, "verb"); err != nil {
		return err
	}

	if spec.BreakBefore, err = field[bool](table, "break_before"); err != nil {
		return err
	}

	if spec.BreakAfter, err = field[bool](table, "break_after"); err != nil {
		return err
	}

	*s = spec
	return nil
}

// UnmarshalTOML accepts either a signature string or a table.
func (s *EnvSpec) UnmarshalTOML(v any) error {
	if signature, ok := v.(string); ok {
		*s = EnvSpec{Signature: signature}
		return nil
	}

	table, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("environment must be a signature or a table, got %T", v)
	}

	if err := knownKeys(table, "signature", "math", "verbatim", "align"); err != nil {
		return err
	}

	var err error
	spec := EnvSpec{}

	if spec.Signature, err = field[string](table, "signature"); err != nil {
		return err
	}

	if spec.Math, err = field[bool](table, "math"); err != nil {
		return err
	}

	if spec.Verbatim, err = field[bool](table, "verbatim"); err != nil {
		return err
	}

	if spec.Align, err = field[bool](table, "align"); err != nil {
		return err
	}

	*s = spec
	return nil
}

// knownKeys returns an error for the first key of table which is not listed
func knownKeys(table map[string]any, keys ...string) error {
	for key := range table {
		if !slices.Contains(keys, key) {
			return fmt.Errorf("unknown key %q, expected one of %s", key, strings.Join(keys, ", "))
		}
	}

	return nil
}

// field reads an optional value of a decoded TOML table
func field[T any](table map[string]any, key string) (T, error) {
	var zero T

	v, ok := table[key]
	if !ok {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%v: expected %T, got %T", key, zero, v)
	}

	return t, nil
}
