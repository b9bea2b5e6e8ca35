package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codeatlas/parsecore"
	"github.com/codeatlas/parsecore/internal/config"
)

var (
	scanForce bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a file or directory and build its code knowledge graph",
	Long: `scan walks the given path (a single file or a directory tree), extracts
every file, directory, symbol, and relationship it contains, and prints the
resulting graph.

By default the scan is incremental: a file whose content hash matches the
facade's cache is skipped and its previously emitted entities/relationships
are reused unchanged. Pass --force to ignore the cache and rescan
everything under path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanForce, "force", false, "Force a full rescan, ignoring the cache")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}

	root, input := scanInput(target)
	input.Incremental = !scanForce

	cfg, err := loadFacadeConfig(root)
	if err != nil {
		return err
	}

	facade := parsecore.New(root, cfg)
	ctx := context.Background()
	result := facade.Parse(ctx, input, time.Now())

	return writeOutput(cmd, result)
}

// scanInput maps a CLI target onto a facade root and scan input: a
// directory becomes the root with a full recursive scan, a single file
// becomes a one-file scan rooted at its parent directory.
func scanInput(target string) (string, parsecore.Input) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return filepath.Dir(target), parsecore.Input{Files: []string{filepath.Base(target)}}
	}
	return target, parsecore.Input{Directories: []string{"."}}
}

// loadFacadeConfig loads on-disk configuration for workDir (falling back to
// documented defaults when no .codegraph directory exists) and adapts it
// into the facade's Config shape.
func loadFacadeConfig(workDir string) (parsecore.Config, error) {
	if configPath != "" {
		fileCfg, err := config.LoadFromPath(configPath)
		if err != nil {
			return parsecore.Config{}, fmt.Errorf("loading config: %w", err)
		}
		return parsecore.FromFileConfig(fileCfg), nil
	}

	fileCfg, err := config.Load(workDir)
	if err != nil {
		return parsecore.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return parsecore.FromFileConfig(fileCfg), nil
}

// writeOutput serializes v as YAML (the default) or JSON depending on the
// --format flag and writes it to stdout.
func writeOutput(cmd *cobra.Command, v interface{}) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", outputFormat)
	}
}
