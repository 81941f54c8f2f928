package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/andywolf/forge/internal/config"
	"github.com/andywolf/forge/internal/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ConfigFileName is the project configuration file looked up in the working
// directory.
const ConfigFileName = ".forge.yaml"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "forge - Project scanner and CLAUDE.md generator",
	Long: `forge scans a project directory and summarizes what it finds: source files,
line counts, the language mix, and metadata declared in pyproject.toml,
package.json, Cargo.toml, or the README.

The summary can be printed or turned into a CLAUDE.md context file that keeps
any hand-written sections intact across regenerations.

Example:
  forge scan
  forge scan ../service --format json
  forge generate --non-interactive`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Set version for --version flag
	rootCmd.Version = version.Short()
	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .forge.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable verbose output (same as --log-level debug)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warning, error)")
	rootCmd.PersistentFlags().String("log-format", "", "log format (text, json)")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error getting working directory:", err)
			os.Exit(1)
		}

		viper.AddConfigPath(cwd)
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(ConfigFileName, ".yaml"))
	}

	viper.SetEnvPrefix("FORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else if cfgFile != "" {
		fmt.Fprintln(os.Stderr, "Error reading config file:", err)
		os.Exit(1)
	}
}

// loadConfig reads and validates the merged configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if viper.GetBool("verbose") {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
