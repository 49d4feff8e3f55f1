// Package config loads the optional zylang.toml project file. Absence of
// the file is not an error — built-in defaults apply throughout.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Build holds the [build] table of a zylang.toml project file.
type Build struct {
	RuntimePaths []string `toml:"runtime_paths"`
	Optimize     string   `toml:"optimize"`
	OutputDir    string   `toml:"output_dir"`
}

// Config is the top-level shape of zylang.toml.
type Config struct {
	Build Build `toml:"build"`
}

// Default returns the configuration used when no project file is present.
func Default() Config {
	return Config{Build: Build{Optimize: "ReleaseFast", OutputDir: "."}}
}

// Load reads and parses path. A missing file is not an error: Load returns
// Default() unchanged. Any other read or parse failure is returned as-is
// for the caller to wrap.
func Load(path string) (Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Build.Optimize == "" {
		cfg.Build.Optimize = "ReleaseFast"
	}
	if cfg.Build.OutputDir == "" {
		cfg.Build.OutputDir = "."
	}

	return cfg, nil
}
