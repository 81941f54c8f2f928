package config

import (
	"fmt"
	"strings"

	"github.com/andywolf/forge/internal/logging"
	"github.com/andywolf/forge/internal/scanner"
	"github.com/spf13/viper"
)

// Defaults
const (
	DefaultRoot          = "."
	DefaultMaxFiles      = 5000
	DefaultMaxFileSizeKB = 500
	DefaultOutputFormat  = "text"
	DefaultOutputFile    = "CLAUDE.md"
	DefaultLogLevel      = "warning"
	DefaultLogFormat     = "text"
)

// Config represents the full forge configuration
type Config struct {
	Scan   ScanConfig   `mapstructure:"scan" yaml:"scan"`
	Output OutputConfig `mapstructure:"output" yaml:"output"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
}

// ScanConfig controls the project scanner
type ScanConfig struct {
	Root             string   `mapstructure:"root" yaml:"root"`
	MaxFiles         int      `mapstructure:"max_files" yaml:"max_files"`
	MaxFileSizeKB    int      `mapstructure:"max_file_size_kb" yaml:"max_file_size_kb"`
	ExcludePatterns  []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
	RespectGitignore bool     `mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// OutputConfig controls how results are rendered and written
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // text, json or yaml
	File   string `mapstructure:"file" yaml:"file"`     // generated context file name
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Load loads configuration from the global viper instance
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v and applies defaults
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	maxFiles, maxFileSizeKB := cfg.Scan.MaxFiles, cfg.Scan.MaxFileSizeKB
	applyDefaults(cfg)

	// An explicit 0 disables the limit; only unset keys take the default.
	if v.IsSet("scan.max_files") {
		cfg.Scan.MaxFiles = maxFiles
	}
	if v.IsSet("scan.max_file_size_kb") {
		cfg.Scan.MaxFileSizeKB = maxFileSizeKB
	}

	return cfg, nil
}

// SetDefaults registers every key with v so that environment variables and
// flags bound later are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("scan.root", d.Scan.Root)
	v.SetDefault("scan.max_files", d.Scan.MaxFiles)
	v.SetDefault("scan.max_file_size_kb", d.Scan.MaxFileSizeKB)
	v.SetDefault("scan.exclude_patterns", d.Scan.ExcludePatterns)
	v.SetDefault("scan.respect_gitignore", d.Scan.RespectGitignore)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.file", d.Output.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for unset fields
func applyDefaults(cfg *Config) {
	if cfg.Scan.Root == "" {
		cfg.Scan.Root = DefaultRoot
	}

	if cfg.Scan.MaxFiles == 0 {
		cfg.Scan.MaxFiles = DefaultMaxFiles
	}

	if cfg.Scan.MaxFileSizeKB == 0 {
		cfg.Scan.MaxFileSizeKB = DefaultMaxFileSizeKB
	}

	if cfg.Scan.ExcludePatterns == nil {
		cfg.Scan.ExcludePatterns = append([]string(nil), scanner.DefaultExcludePatterns...)
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultOutputFormat
	}

	if cfg.Output.File == "" {
		cfg.Output.File = DefaultOutputFile
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.MaxFiles < 0 {
		return fmt.Errorf("scan.max_files must be positive, got %d", c.Scan.MaxFiles)
	}

	if c.Scan.MaxFileSizeKB < 0 {
		return fmt.Errorf("scan.max_file_size_kb must be positive, got %d", c.Scan.MaxFileSizeKB)
	}

	for _, p := range c.Scan.ExcludePatterns {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("scan.exclude_patterns contains an empty pattern")
		}
		if err := scanner.ValidatePattern(p); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
	}

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (must be text, json, or yaml)", c.Output.Format)
	}

	if strings.ContainsAny(c.Output.File, `/\`) {
		return fmt.Errorf("output.file must be a file name, got %q", c.Output.File)
	}

	if _, err := logging.ParseSeverity(c.Log.Level); err != nil {
		return err
	}

	if c.Log.Format != string(logging.FormatText) && c.Log.Format != string(logging.FormatJSON) {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Log.Format)
	}

	return nil
}

// ScanOptions converts the scan settings into scanner options. A non-empty
// root overrides the configured one.
func (c *Config) ScanOptions(root string) scanner.Options {
	if root == "" {
		root = c.Scan.Root
	}
	return scanner.Options{
		Root:             root,
		MaxFiles:         c.Scan.MaxFiles,
		MaxFileSizeKB:    c.Scan.MaxFileSizeKB,
		ExcludePatterns:  c.Scan.ExcludePatterns,
		RespectGitignore: c.Scan.RespectGitignore,
	}
}
