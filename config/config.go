// Package config handles the optional cbind options file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the TOML options file. All fields are optional; flags take
// precedence over file values.
type Config struct {
	Output Output `toml:"output"`

	// Types maps additional type names to known C primitives, extending
	// the fixed primitive table for headers that use project-specific
	// integer or handle typedefs the input itself does not declare.
	Types map[string]string `toml:"types"`
}

// Output configures the generated file.
type Output struct {
	Package string `toml:"package"`
	Library string `toml:"library"`
}

// Load parses an options file. A missing or malformed file is an error;
// callers that treat the file as optional should not call Load without a
// path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	return &c, nil
}
