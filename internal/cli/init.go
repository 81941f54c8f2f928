package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andywolf/forge/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize project configuration",
	Long: `Initialize forge configuration for a project.

This creates a .forge.yaml file with the default scan settings that you can
customize.

Example:
  forge init
  forge init --gitignore --max-files 20000`,
	Args: cobra.MaximumNArgs(1),
	RunE: initProject,
}

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().Int("max-files", config.DefaultMaxFiles, "Maximum number of files to include")
	initCmd.Flags().Int("max-file-size", config.DefaultMaxFileSizeKB, "Maximum file size in KB")
	initCmd.Flags().Bool("gitignore", false, "Respect the root .gitignore")
	initCmd.Flags().String("output-file", config.DefaultOutputFile, "Name of the generated context file")
	initCmd.Flags().Bool("force", false, "Overwrite existing config")
}

const configHeader = `# forge configuration
# Values can be overridden with FORGE_* environment variables, e.g.
# FORGE_SCAN_MAX_FILES=20000.

`

func initProject(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	configPath := filepath.Join(dir, ConfigFileName)

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", configPath)
	}

	cfg := config.Default()
	cfg.Scan.MaxFiles, _ = cmd.Flags().GetInt("max-files")
	cfg.Scan.MaxFileSizeKB, _ = cmd.Flags().GetInt("max-file-size")
	cfg.Scan.RespectGitignore, _ = cmd.Flags().GetBool("gitignore")
	cfg.Output.File, _ = cmd.Flags().GetString("output-file")

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := writeConfigFile(configPath, cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created %s\n\n", configPath)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Adjust exclude_patterns for your build output")
	fmt.Fprintln(out, "  2. Run 'forge scan' to check what gets picked up")
	fmt.Fprintf(out, "  3. Run 'forge generate' to write %s\n", cfg.Output.File)

	return nil
}

func writeConfigFile(path string, cfg *config.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
