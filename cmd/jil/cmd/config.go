package cmd

import (
	"path/filepath"

	"github.com/go-logr/logr"

	"github.com/jil-lang/jil/internal/config"
	"github.com/jil-lang/jil/internal/jlog"
)

// resolveConfig loads .jilrc.yaml (explicit --config path, or one alongside
// scriptPath) and layers the CLI flags the user actually set on top, since
// CLI flags always take precedence (SPEC_FULL.md §8 property 9).
func resolveConfig(scriptPath string) (config.Config, logr.Logger, error) {
	path := configPath
	if path == "" {
		path = filepath.Join(filepath.Dir(scriptPath), ".jilrc.yaml")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, logr.Logger{}, err
	}

	if noJIT {
		cfg.JIT = false
	} else if rootCmd.PersistentFlags().Changed("jit") || runCmd.Flags().Changed("jit") {
		cfg.JIT = jitEnabled
	}
	if noShadow {
		cfg.Shadow = false
	}
	if runCmd.Flags().Changed("strict") {
		cfg.Strict = strictMode
	}

	verbosity, _ := rootCmd.PersistentFlags().GetCount("verbose")
	logger := jlog.New(verbosity)

	return cfg, logger, nil
}
