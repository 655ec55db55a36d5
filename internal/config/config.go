package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default scan settings
const (
	// DefaultConcurrency of 0 lets the scanner size the worker pool from
	// the machine's CPU count
	DefaultConcurrency = 0

	// DefaultFormat is the report format when none is requested
	DefaultFormat = "text"
)

// Config represents the main configuration structure
type Config struct {
	// Scan holds file enumeration and policy configuration
	Scan ScanConfig `json:"scan" mapstructure:"scan" yaml:"scan"`

	// Licenses holds known-identifier set configuration
	Licenses LicensesConfig `json:"licenses" mapstructure:"licenses" yaml:"licenses"`

	// Correction holds header correction configuration
	Correction CorrectionConfig `json:"correction" mapstructure:"correction" yaml:"correction"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// ScanConfig holds configuration for file enumeration and scan policy
type ScanConfig struct {
	// Strict promotes unknown-identifier findings from warning to error
	Strict bool `json:"strict" mapstructure:"strict" yaml:"strict"`

	// ExcludePatterns are gitignore-style patterns never scanned
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// Concurrency bounds the worker pool; 0 means one worker per CPU
	Concurrency int `json:"concurrency" mapstructure:"concurrency" yaml:"concurrency"`

	// Extensions maps extra file extensions to dialect names, layered
	// over the built-in table (e.g. ".zig": "c")
	Extensions map[string]string `json:"extensions,omitempty" mapstructure:"extensions" yaml:"extensions,omitempty"`

	// IncludeSkipped lists ineligible paths in the report
	IncludeSkipped bool `json:"include_skipped" mapstructure:"include_skipped" yaml:"include_skipped"`
}

// LicensesConfig holds the known-identifier set configuration
type LicensesConfig struct {
	// Path points to a JSON file overriding the embedded SPDX list;
	// empty means use the embedded set
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
}

// CorrectionConfig holds configuration for the correct command
type CorrectionConfig struct {
	// LicenseID is the SPDX identifier written into new headers
	LicenseID string `json:"license_id" mapstructure:"license_id" yaml:"license_id"`

	// CopyrightText is the copyright line written into new headers
	CopyrightText string `json:"copyright_text" mapstructure:"copyright_text" yaml:"copyright_text"`

	// Backup writes <path>.bak before modifying a file
	Backup bool `json:"backup" mapstructure:"backup" yaml:"backup"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, markdown
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether per-file declarations are printed
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			Strict: false,
			ExcludePatterns: []string{
				// Package managers and dependencies
				"node_modules",
				"vendor",
				// Build outputs
				"dist",
				"build",
				"target",
				"out",
				// Version control
				".git",
				".hg",
				".svn",
				// Generated and minified files
				"*.min.js",
				"*.pb.go",
				"*_generated.go",
				"*.map",
			},
			Recursive:   true,
			Concurrency: DefaultConcurrency,
		},
		Correction: CorrectionConfig{
			LicenseID: "MIT",
			Backup:    false,
		},
		Output: OutputConfig{
			Format:      DefaultFormat,
			ShowDetails: false,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context:
// when no explicit path is given, config files are discovered from the
// scan target upward
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// A fresh viper instance per load avoids cross-call state
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common
// locations, searching from the scan target upward to the filesystem root
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"spdxscan.yaml",
		"spdxscan.yml",
		".spdxscan.yaml",
		".spdxscan.yml",
		"spdxscan.json",
		".spdxscan.json",
	}

	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// XDG config directory, then home directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "spdxscan"), candidates); config != "" {
			return config
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		if config := searchConfigInDirectory(filepath.Join(home, ".config", "spdxscan"), candidates); config != "" {
			return config
		}
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// SPDXSCAN_CONFIG environment variable as last resort
	if envConfig := os.Getenv("SPDXSCAN_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json", "yaml", "csv", "markdown":
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml, csv, markdown; got %q", c.Output.Format)
	}

	if c.Scan.Concurrency < 0 {
		return fmt.Errorf("scan.concurrency must be >= 0, got %d", c.Scan.Concurrency)
	}

	for ext := range c.Scan.Extensions {
		if ext == "" || ext[0] != '.' {
			return fmt.Errorf("scan.extensions keys must start with a dot, got %q", ext)
		}
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("scan", config.Scan)
	v.Set("licenses", config.Licenses)
	v.Set("correction", config.Correction)
	v.Set("output", config.Output)

	return v.WriteConfig()
}
