// Package config loads the optional .jilrc.yaml controlling JIT/shadow
// toggles and the JIT cache directory (SPEC_FULL.md §4.10).
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the full set of tunables .jilrc.yaml may set. CLI flags take
// precedence over whatever is loaded here (SPEC_FULL.md §8 property 9).
type Config struct {
	JIT      bool   `yaml:"jit"`
	Shadow   bool   `yaml:"shadow"`
	Strict   bool   `yaml:"strict"`
	CacheDir string `yaml:"cacheDir"`
}

// Default returns the built-in defaults, used when no .jilrc.yaml exists.
func Default() Config {
	return Config{JIT: true, Shadow: true, Strict: false, CacheDir: ".jil_cache"}
}

// Load reads path (if it exists) over Default(), leaving defaults for any
// field the file omits. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
