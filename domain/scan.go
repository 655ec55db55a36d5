package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText     OutputFormat = "text"
	OutputFormatJSON     OutputFormat = "json"
	OutputFormatYAML     OutputFormat = "yaml"
	OutputFormatCSV      OutputFormat = "csv"
	OutputFormatMarkdown OutputFormat = "markdown"
)

// ValidOutputFormat reports whether f names a supported format
func ValidOutputFormat(f OutputFormat) bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV, OutputFormatMarkdown:
		return true
	}
	return false
}

// ScanRequest represents a request to scan a file tree for SPDX headers
type ScanRequest struct {
	// Input files or directories to scan
	Paths []string

	// Strict promotes unknown-identifier diagnostics from warning to error
	Strict bool

	// ExcludePatterns are gitignore-style patterns; matching paths never
	// reach the tokenizer
	ExcludePatterns []string

	// KnownLicensesPath overrides the embedded SPDX identifier set
	KnownLicensesPath string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	ShowDetails  bool

	// Configuration file path (empty = search defaults)
	ConfigPath string

	// Analysis options
	Recursive     bool
	Concurrency   int
	SkippedInline bool // include skipped (ineligible) paths in the report

	// TrackedOnly restricts directory arguments to git-tracked files
	TrackedOnly bool

	// ModifiedOnly restricts directory arguments to files changed in the
	// git working tree (staged, unstaged, or untracked)
	ModifiedOnly bool

	// Extensions maps extra file extensions (with dot) to dialect names,
	// layered over the built-in table
	Extensions map[string]string
}

// CorrectRequest represents a request to insert or repair SPDX headers
type CorrectRequest struct {
	Paths           []string
	ExcludePatterns []string

	// Header content
	LicenseID      string
	CopyrightText  string

	// DryRun previews changes without touching files
	DryRun bool

	// Backup writes <path>.bak before modifying a file
	Backup bool

	OutputWriter io.Writer
	ConfigPath   string
}

// CorrectionOutcome describes what happened to a single file
type CorrectionOutcome string

const (
	CorrectionApplied   CorrectionOutcome = "applied"
	CorrectionSkipped   CorrectionOutcome = "skipped" // already compliant
	CorrectionPreviewed CorrectionOutcome = "previewed"
	CorrectionFailed    CorrectionOutcome = "failed"
)

// FileCorrection is the per-file result of a correct run
type FileCorrection struct {
	Path    string            `json:"path" yaml:"path"`
	Outcome CorrectionOutcome `json:"outcome" yaml:"outcome"`
	Header  string            `json:"header,omitempty" yaml:"header,omitempty"`
	Reason  string            `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// CorrectReport aggregates a correct run
type CorrectReport struct {
	Files   []FileCorrection `json:"files" yaml:"files"`
	Applied int              `json:"applied" yaml:"applied"`
	Skipped int              `json:"skipped" yaml:"skipped"`
	Failed  int              `json:"failed" yaml:"failed"`
	DryRun  bool             `json:"dry_run" yaml:"dry_run"`
	Version string           `json:"version" yaml:"version"`

	// Excluded from structured output for the same determinism reason
	// as ScanReport
	GeneratedAt string `json:"-" yaml:"-"`
}

// ScanService defines the core business logic for SPDX scanning
type ScanService interface {
	// Scan walks the request paths and produces one report
	Scan(ctx context.Context, req ScanRequest) (*ScanReport, error)

	// ScanFile scans a single file
	ScanFile(ctx context.Context, filePath string, req ScanRequest) (*FileResult, error)
}

// CorrectService defines the business logic for header correction
type CorrectService interface {
	Correct(ctx context.Context, req CorrectRequest) (*CorrectReport, error)
}

// FileCollector defines the interface for enumerating scan candidates
type FileCollector interface {
	// Collect finds candidate files under the given paths in
	// lexicographic order, applying the exclude patterns
	Collect(paths []string, recursive bool, excludePatterns []string) ([]string, error)

	// CollectGit lists candidates from the git index of each directory
	// argument instead of walking the filesystem. With modifiedOnly the
	// listing narrows to files changed in the working tree.
	CollectGit(paths []string, modifiedOnly bool, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for rendering reports
type OutputFormatter interface {
	// Write renders the report in the given format to the writer
	Write(report *ScanReport, format OutputFormat, writer io.Writer) error

	// WriteCorrections renders a correct-run report
	WriteCorrections(report *CorrectReport, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ScanRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ScanRequest

	// MergeConfig merges CLI flags over a configuration file
	MergeConfig(base *ScanRequest, override *ScanRequest) *ScanRequest
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
