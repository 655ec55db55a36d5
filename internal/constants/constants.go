package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "spdxscan"

	// ConfigFileName is the default config file name
	ConfigFileName = ".spdxscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "SPDXSCAN"
)

// Output format constants
const (
	OutputFormatText     = "text"
	OutputFormatJSON     = "json"
	OutputFormatYAML     = "yaml"
	OutputFormatCSV      = "csv"
	OutputFormatMarkdown = "markdown"
)

// Exit codes for the scan command
const (
	// ExitPass means every eligible file is compliant
	ExitPass = 0

	// ExitFail means at least one eligible file is not compliant
	ExitFail = 1

	// ExitToolError means the tool itself failed (unreadable root,
	// malformed known-licenses file, bad flags)
	ExitToolError = 2
)
