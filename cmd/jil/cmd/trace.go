package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jil-lang/jil/internal/config"
	"github.com/jil-lang/jil/internal/trace"
)

var traceCacheDir string

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Inspect the JIT/shadow-harness trace log",
}

var traceShowCmd = &cobra.Command{
	Use:   "show <gjson-path>",
	Short: "Evaluate a gjson path against the accumulated trace.jsonl",
	Long: `Show reads every JSONL record the JIT Engine and shadow Harness wrote
under the cache directory (SPEC_FULL.md §4.11) and evaluates a gjson path
against the array they form, e.g. "#(kind==\"shadow_run\")#.matched".`,
	Args: cobra.ExactArgs(1),
	RunE: runTraceShow,
}

func init() {
	rootCmd.AddCommand(traceCmd)
	traceCmd.AddCommand(traceShowCmd)

	traceCmd.PersistentFlags().StringVar(&traceCacheDir, "cache-dir", "", "cache directory holding trace.jsonl (default: cacheDir from the --config file, else .jil_cache)")
}

func runTraceShow(cmd *cobra.Command, args []string) error {
	cacheDir := traceCacheDir
	if cacheDir == "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cacheDir = cfg.CacheDir
	}

	result, err := trace.Query(cacheDir, args[0])
	if err != nil {
		return err
	}
	fmt.Println(result.String())
	return nil
}
