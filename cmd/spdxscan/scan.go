package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/ludo-technologies/spdxscan/app"
	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/constants"
	"github.com/ludo-technologies/spdxscan/internal/dialect"
	"github.com/ludo-technologies/spdxscan/service"
	"github.com/spf13/cobra"
)

// ScanExitError carries the process exit code for the scan command
type ScanExitError struct {
	Code    int
	Message string
}

func (e *ScanExitError) Error() string {
	return e.Message
}

var (
	scanStrict       bool
	scanExclude      []string
	scanLicensesPath string
	scanFormat       string
	scanDetails      bool
	scanConfigPath   string
	scanNoRecursive  bool
	scanConcurrency  int
	scanShowSkipped  bool
	scanNoProgress   bool
	scanTracked      bool
	scanModified     bool
)

func scanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [path...]",
		Short: "Scan files for SPDX license headers",
		Long: `Scan files and directories for SPDX license declarations.

Exit codes:
  0 - Every eligible file carries a valid declaration
  1 - At least one file is missing or invalid, or the scan was interrupted
  2 - Scan error (unknown path, bad config, bad license data)

Examples:
  # Scan the current directory
  spdxscan scan .

  # Fail on unknown license identifiers
  spdxscan scan --strict src/

  # Machine-readable output
  spdxscan scan --format json src/

  # Use an internal license list
  spdxscan scan --known-licenses licenses.json src/

  # Check only files changed in the working tree
  spdxscan scan --modified .`,
		RunE:          runScan,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().BoolVar(&scanStrict, "strict", false,
		"Treat unknown license identifiers as errors")
	cmd.Flags().StringSliceVarP(&scanExclude, "exclude", "e", nil,
		"Gitignore-style patterns to exclude (repeatable)")
	cmd.Flags().StringVar(&scanLicensesPath, "known-licenses", "",
		"Path to a JSON file replacing the built-in SPDX identifier list")
	cmd.Flags().StringVarP(&scanFormat, "format", "f", "",
		"Output format: text, json, yaml, csv, markdown")
	cmd.Flags().BoolVar(&scanDetails, "details", false,
		"List every scanned file, not only problems")
	cmd.Flags().StringVarP(&scanConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVar(&scanNoRecursive, "no-recursive", false,
		"Do not descend into subdirectories")
	cmd.Flags().IntVar(&scanConcurrency, "concurrency", 0,
		"Number of files scanned in parallel (0 = number of CPUs)")
	cmd.Flags().BoolVar(&scanShowSkipped, "show-skipped", false,
		"Include skipped (ineligible) paths in the report")
	cmd.Flags().BoolVar(&scanNoProgress, "no-progress", false,
		"Disable the progress bar")
	cmd.Flags().BoolVar(&scanTracked, "tracked", false,
		"Scan only git-tracked files under directory arguments")
	cmd.Flags().BoolVar(&scanModified, "modified", false,
		"Scan only files changed in the git working tree")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	loader := service.NewConfigurationLoader()
	base, err := loader.LoadConfig(scanConfigPath)
	if err != nil {
		return &ScanExitError{Code: constants.ExitToolError, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	override := &domain.ScanRequest{
		Paths:             paths,
		Strict:            scanStrict,
		ExcludePatterns:   scanExclude,
		KnownLicensesPath: scanLicensesPath,
		OutputFormat:      domain.OutputFormat(scanFormat),
		ShowDetails:       scanDetails,
		Concurrency:       scanConcurrency,
		SkippedInline:     scanShowSkipped,
		TrackedOnly:       scanTracked,
		ModifiedOnly:      scanModified,
	}
	req := loader.MergeConfig(base, override)
	if scanNoRecursive {
		req.Recursive = false
	}
	req.OutputWriter = os.Stdout
	if req.OutputFormat == "" {
		req.OutputFormat = domain.OutputFormatText
	}
	if !domain.ValidOutputFormat(req.OutputFormat) {
		return &ScanExitError{Code: constants.ExitToolError, Message: fmt.Sprintf("unsupported output format: %s", req.OutputFormat)}
	}

	// Ctrl-C cancels the scan; the partial report is still written with
	// an interrupted status.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	// Progress is auto-disabled for non-TTY and machine formats
	pm := service.NewProgressManager(!scanNoProgress && req.OutputFormat == domain.OutputFormatText)
	defer pm.Close()

	registry := dialect.NewRegistryWithExtensions(req.Extensions)
	svc := service.NewScanServiceWithProgress(service.NewFileCollector(), registry, pm)
	useCase := app.NewScanUseCase(svc, service.NewOutputFormatter(req.ShowDetails))

	report, err := useCase.Execute(ctx, *req)
	if err != nil {
		return &ScanExitError{Code: constants.ExitToolError, Message: err.Error()}
	}

	switch report.Status {
	case domain.StatusPass:
		return nil
	case domain.StatusInterrupted:
		return &ScanExitError{Code: constants.ExitFail, Message: "scan interrupted"}
	default:
		return &ScanExitError{Code: constants.ExitFail, Message: ""}
	}
}
