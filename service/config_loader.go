package service

import (
	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/config"
)

// ConfigurationLoaderImpl bridges the file-based configuration to scan
// requests. CLI flags win over config values; merging happens after
// both sides are resolved.
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path. An empty path
// triggers the default config file search.
func (l *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.ScanRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	return toScanRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration
func (l *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.ScanRequest {
	return toScanRequest(config.DefaultConfig())
}

// MergeConfig merges CLI flags over a configuration file. Zero values
// in the override leave the base value in place; booleans from flags
// only turn features on, never off.
func (l *ConfigurationLoaderImpl) MergeConfig(base *domain.ScanRequest, override *domain.ScanRequest) *domain.ScanRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.Strict {
		merged.Strict = true
	}
	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = append(merged.ExcludePatterns, override.ExcludePatterns...)
	}
	if override.KnownLicensesPath != "" {
		merged.KnownLicensesPath = override.KnownLicensesPath
	}
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ShowDetails {
		merged.ShowDetails = true
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	if override.Recursive {
		merged.Recursive = true
	}
	if override.Concurrency != 0 {
		merged.Concurrency = override.Concurrency
	}
	if override.SkippedInline {
		merged.SkippedInline = true
	}
	if override.TrackedOnly {
		merged.TrackedOnly = true
	}
	if override.ModifiedOnly {
		merged.ModifiedOnly = true
	}
	if len(override.Extensions) > 0 {
		merged.Extensions = override.Extensions
	}
	return &merged
}

// toScanRequest maps a file configuration onto request defaults
func toScanRequest(cfg *config.Config) *domain.ScanRequest {
	return &domain.ScanRequest{
		Strict:            cfg.Scan.Strict,
		ExcludePatterns:   cfg.Scan.ExcludePatterns,
		KnownLicensesPath: cfg.Licenses.Path,
		OutputFormat:      domain.OutputFormat(cfg.Output.Format),
		ShowDetails:       cfg.Output.ShowDetails,
		Recursive:         cfg.Scan.Recursive,
		Concurrency:       cfg.Scan.Concurrency,
		SkippedInline:     cfg.Scan.IncludeSkipped,
		Extensions:        cfg.Scan.Extensions,
	}
}
