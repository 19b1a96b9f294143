// Package config loads optional tool defaults from a YAML file.
//
// Flags always win over the file; the file wins over built-in defaults.
// A missing file is fine, a malformed one is an error.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when --config is not
// given.
const DefaultPath = ".xray.yaml"

// Config holds the tool defaults a user can pin in a file.
type Config struct {
	MaxDepth   int    `yaml:"max_depth"`
	RootLabel  string `yaml:"root_label"`
	MaxModules int    `yaml:"max_modules"`
	MaxParams  int    `yaml:"max_params"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		MaxDepth:  3,
		RootLabel: "Model",
	}
}

// Load reads defaults from path, layered over the built-ins. When path is
// empty, DefaultPath is tried and its absence is not an error; an explicit
// path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: config path comes from the CLI user.
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.MaxDepth < 1 {
		return cfg, fmt.Errorf("config %s: max_depth must be >= 1, got %d", path, cfg.MaxDepth)
	}

	return cfg, nil
}
