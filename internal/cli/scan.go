package cli

import (
	"fmt"
	"io"

	"github.com/andywolf/forge/internal/config"
	"github.com/andywolf/forge/internal/logging"
	"github.com/andywolf/forge/internal/scanner"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a project and print what was found",
	Long: `Scan walks the project directory, counts lines per file, aggregates the
language mix, and reads version, description, and dependencies from the
project manifests.

Diagnostics go to stderr; the result goes to stdout.

Example:
  forge scan
  forge scan ./service --format json
  forge scan --exclude vendor --exclude "*.min.js" --gitignore`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindScanFlags,
	RunE:    runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	addScanFlags(scanCmd)
	scanCmd.Flags().String("format", "", "output format (text, json, yaml)")
}

// addScanFlags registers the flags shared by every command that scans.
func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-files", 0, "stop after this many files (0 for no limit)")
	cmd.Flags().Int("max-file-size", 0, "skip files larger than this many KB (0 for no limit)")
	cmd.Flags().StringSlice("exclude", nil, "exclude pattern, replaces the configured list (repeatable)")
	cmd.Flags().Bool("gitignore", false, "also skip paths matched by the root .gitignore")
}

// bindScanFlags binds the running command's flags to viper. Binding happens
// here rather than in init because several commands share the same keys.
func bindScanFlags(cmd *cobra.Command, args []string) error {
	bindings := map[string]string{
		"scan.max_files":         "max-files",
		"scan.max_file_size_kb":  "max-file-size",
		"scan.exclude_patterns":  "exclude",
		"scan.respect_gitignore": "gitignore",
		"output.format":          "format",
	}
	for key, name := range bindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := viper.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := scanProject(cfg, args, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	return renderResult(cmd.OutOrStdout(), p, cfg.Output.Format)
}

// scanProject runs the scanner for the optional path argument with a logger
// writing to w.
func scanProject(cfg *config.Config, args []string, w io.Writer) (*scanner.ProjectStructure, error) {
	var root string
	if len(args) > 0 {
		root = args[0]
	}

	logger, err := newScanLogger(cfg, w)
	if err != nil {
		return nil, err
	}
	opts := cfg.ScanOptions(root)
	logger.Debug("starting scan", map[string]interface{}{
		"root":      opts.Root,
		"max_files": opts.MaxFiles,
		"gitignore": opts.RespectGitignore,
	})

	p, err := scanner.Scan(opts, scanner.WithLogger(logger))
	if err != nil {
		logger.Error("scan failed", map[string]interface{}{"error": err.Error()})
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return p, nil
}

var _ scanner.Logger = (*logging.Logger)(nil)
