package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ludo-technologies/spdxscan/domain"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl renders scan and correct reports. Text output is
// for terminals; json and yaml carry the full report structure; csv and
// markdown are one row per file for spreadsheets and PR comments.
type OutputFormatterImpl struct {
	showDetails bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(showDetails bool) *OutputFormatterImpl {
	return &OutputFormatterImpl{showDetails: showDetails}
}

// Write renders the report in the given format to the writer
func (f *OutputFormatterImpl) Write(report *domain.ScanReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeText(report, writer)
	case domain.OutputFormatJSON:
		return writeJSON(report, writer)
	case domain.OutputFormatYAML:
		return writeYAML(report, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(report, writer)
	case domain.OutputFormatMarkdown:
		return f.writeMarkdown(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// WriteCorrections renders a correct-run report
func (f *OutputFormatterImpl) WriteCorrections(report *domain.CorrectReport, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText:
		return f.writeCorrectionsText(report, writer)
	case domain.OutputFormatJSON:
		return writeJSON(report, writer)
	case domain.OutputFormatYAML:
		return writeYAML(report, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func writeJSON(v any, writer io.Writer) error {
	enc := json.NewEncoder(writer)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

func writeYAML(v any, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeText(report *domain.ScanReport, writer io.Writer) error {
	var sb strings.Builder

	sb.WriteString("SPDX License Scan\n")
	sb.WriteString("=================\n\n")
	sb.WriteString(fmt.Sprintf("Status: %s\n", strings.ToUpper(string(report.Status))))
	if report.GeneratedAt != "" {
		sb.WriteString(fmt.Sprintf("Generated: %s\n", report.GeneratedAt))
	}
	sb.WriteString("\n")

	s := report.Summary
	sb.WriteString("Summary:\n")
	sb.WriteString(fmt.Sprintf("  Files scanned: %d\n", s.FilesScanned))
	if s.FilesSkipped > 0 {
		sb.WriteString(fmt.Sprintf("  Files skipped: %d\n", s.FilesSkipped))
	}
	sb.WriteString(fmt.Sprintf("  Compliant:     %d\n", s.Compliant))
	sb.WriteString(fmt.Sprintf("  Invalid:       %d\n", s.Invalid))
	sb.WriteString(fmt.Sprintf("  Missing:       %d\n", s.Missing))
	sb.WriteString(fmt.Sprintf("  Compliance:    %.1f%%\n", s.CompliancePct))
	if s.Errors > 0 || s.Warnings > 0 {
		sb.WriteString(fmt.Sprintf("  Diagnostics:   %d errors, %d warnings\n", s.Errors, s.Warnings))
	}

	if len(s.LicenseCounts) > 0 {
		sb.WriteString("\nLicenses:\n")
		for _, lic := range sortedKeys(s.LicenseCounts) {
			sb.WriteString(fmt.Sprintf("  %-30s %d\n", lic, s.LicenseCounts[lic]))
		}
	}

	// Non-compliant files are always listed; --details adds the rest.
	var shown []*domain.FileResult
	for i := range report.Files {
		file := &report.Files[i]
		if f.showDetails || file.Verdict != domain.VerdictCompliant {
			shown = append(shown, file)
		}
	}
	if len(shown) > 0 {
		sb.WriteString("\nFiles:\n")
		for _, file := range shown {
			line := fmt.Sprintf("  [%s] %s", file.Verdict, file.Path)
			if lic := file.License(); lic != "" {
				line += fmt.Sprintf(" (%s)", lic)
			}
			sb.WriteString(line + "\n")
			for _, d := range file.Diagnostics {
				if d.Line > 0 {
					sb.WriteString(fmt.Sprintf("    %s: %s (line %d)\n", d.Severity, d.Message, d.Line))
				} else {
					sb.WriteString(fmt.Sprintf("    %s: %s\n", d.Severity, d.Message))
				}
			}
		}
	}

	if f.showDetails && len(report.Skipped) > 0 {
		sb.WriteString("\nSkipped:\n")
		for _, path := range report.Skipped {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
	}

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeCSV(report *domain.ScanReport, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"path", "dialect", "verdict", "license", "errors", "warnings"}); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	for i := range report.Files {
		file := &report.Files[i]
		errors, warnings := 0, 0
		for _, d := range file.Diagnostics {
			if d.Severity == domain.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		row := []string{
			file.Path,
			file.Dialect,
			string(file.Verdict),
			file.License(),
			strconv.Itoa(errors),
			strconv.Itoa(warnings),
		}
		if err := w.Write(row); err != nil {
			return domain.NewOutputError("failed to write CSV", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("failed to write CSV", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeMarkdown(report *domain.ScanReport, writer io.Writer) error {
	var sb strings.Builder

	sb.WriteString("# SPDX License Scan\n\n")
	sb.WriteString(fmt.Sprintf("**Status:** %s\n\n", strings.ToUpper(string(report.Status))))

	s := report.Summary
	sb.WriteString("| Metric | Count |\n|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Files scanned | %d |\n", s.FilesScanned))
	sb.WriteString(fmt.Sprintf("| Compliant | %d |\n", s.Compliant))
	sb.WriteString(fmt.Sprintf("| Invalid | %d |\n", s.Invalid))
	sb.WriteString(fmt.Sprintf("| Missing | %d |\n", s.Missing))
	sb.WriteString(fmt.Sprintf("| Compliance | %.1f%% |\n", s.CompliancePct))

	if len(report.Files) > 0 {
		sb.WriteString("\n## Files\n\n")
		sb.WriteString("| File | Verdict | License | Diagnostics |\n")
		sb.WriteString("|------|---------|---------|-------------|\n")
		for i := range report.Files {
			file := &report.Files[i]
			if !f.showDetails && file.Verdict == domain.VerdictCompliant {
				continue
			}
			var notes []string
			for _, d := range file.Diagnostics {
				notes = append(notes, fmt.Sprintf("%s: %s", d.Severity, d.Message))
			}
			sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n",
				file.Path, file.Verdict, file.License(), strings.Join(notes, "; ")))
		}
	}

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func (f *OutputFormatterImpl) writeCorrectionsText(report *domain.CorrectReport, writer io.Writer) error {
	var sb strings.Builder

	if report.DryRun {
		sb.WriteString("SPDX Header Correction (dry run)\n")
	} else {
		sb.WriteString("SPDX Header Correction\n")
	}
	sb.WriteString("======================\n\n")
	sb.WriteString(fmt.Sprintf("Applied: %d  Skipped: %d  Failed: %d\n\n", report.Applied, report.Skipped, report.Failed))

	for _, fc := range report.Files {
		line := fmt.Sprintf("  [%s] %s", fc.Outcome, fc.Path)
		if fc.Reason != "" {
			line += " (" + fc.Reason + ")"
		}
		sb.WriteString(line + "\n")
	}

	if _, err := io.WriteString(writer, sb.String()); err != nil {
		return domain.NewOutputError("failed to write report", err)
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Stable ordering keeps reports diffable across runs
	sort.Strings(keys)
	return keys
}
