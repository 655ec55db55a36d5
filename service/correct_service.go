package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/dialect"
	"github.com/ludo-technologies/spdxscan/internal/spdx"
	"github.com/ludo-technologies/spdxscan/internal/tokenizer"
	"github.com/ludo-technologies/spdxscan/internal/version"
)

// CorrectServiceImpl inserts SPDX headers into files that lack a valid
// declaration. Files that already declare a license are left untouched;
// files with a broken declaration are also left alone, because an
// automated rewrite could destroy information the author meant to keep.
type CorrectServiceImpl struct {
	collector domain.FileCollector
	registry  *dialect.Registry
}

// NewCorrectService creates a new correct service
func NewCorrectService(collector domain.FileCollector, registry *dialect.Registry) *CorrectServiceImpl {
	return &CorrectServiceImpl{
		collector: collector,
		registry:  registry,
	}
}

// Correct walks the request paths and inserts headers where missing
func (s *CorrectServiceImpl) Correct(ctx context.Context, req domain.CorrectRequest) (*domain.CorrectReport, error) {
	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no paths specified", nil)
	}
	if req.LicenseID == "" {
		return nil, domain.NewInvalidInputError("no license identifier specified", nil)
	}
	if _, err := spdx.ParseExpression(req.LicenseID); err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("invalid license expression %q", req.LicenseID), err)
	}

	files, err := s.collector.Collect(req.Paths, true, req.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	parser := spdx.NewParser(spdx.DefaultLicenseSet(), false)
	report := &domain.CorrectReport{
		Files:       []domain.FileCorrection{},
		DryRun:      req.DryRun,
		Version:     version.GetVersion(),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fc := s.correctOne(path, parser, req)
		if fc == nil {
			continue // ineligible
		}
		report.Files = append(report.Files, *fc)
		switch fc.Outcome {
		case domain.CorrectionApplied, domain.CorrectionPreviewed:
			report.Applied++
		case domain.CorrectionSkipped:
			report.Skipped++
		case domain.CorrectionFailed:
			report.Failed++
		}
	}

	return report, nil
}

// correctOne handles a single file; nil means the file is not eligible
func (s *CorrectServiceImpl) correctOne(path string, parser *spdx.Parser, req domain.CorrectRequest) *domain.FileCorrection {
	content, err := s.collector.ReadFile(path)
	if err != nil {
		return &domain.FileCorrection{
			Path:    path,
			Outcome: domain.CorrectionFailed,
			Reason:  err.Error(),
		}
	}

	d := s.registry.ForContent(path, content)
	if d == nil || dialect.IsBinary(content) {
		return nil
	}

	decls, _ := parser.ParseBlocks(tokenizer.Extract(string(content), d))
	for _, decl := range decls {
		if decl.Tag == domain.TagLicenseIdentifier {
			return &domain.FileCorrection{
				Path:    path,
				Outcome: domain.CorrectionSkipped,
				Reason:  fmt.Sprintf("already declares %s", decl.Value),
			}
		}
	}

	header := BuildHeader(d, req.LicenseID, req.CopyrightText)
	updated := insertHeader(string(content), header)

	if req.DryRun {
		return &domain.FileCorrection{
			Path:    path,
			Outcome: domain.CorrectionPreviewed,
			Header:  header,
		}
	}

	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}
	if req.Backup {
		if err := os.WriteFile(path+".bak", content, perm); err != nil {
			return &domain.FileCorrection{
				Path:    path,
				Outcome: domain.CorrectionFailed,
				Reason:  fmt.Sprintf("backup failed: %v", err),
			}
		}
	}
	if err := os.WriteFile(path, []byte(updated), perm); err != nil {
		return &domain.FileCorrection{
			Path:    path,
			Outcome: domain.CorrectionFailed,
			Reason:  err.Error(),
		}
	}

	return &domain.FileCorrection{
		Path:    path,
		Outcome: domain.CorrectionApplied,
		Header:  header,
	}
}

// BuildHeader renders an SPDX header comment in the given dialect.
// Dialects with line comments get one tag per line; block-only dialects
// (XML) get a single block.
func BuildHeader(d *dialect.Dialect, licenseID, copyrightText string) string {
	lines := []string{"SPDX-License-Identifier: " + licenseID}
	if copyrightText != "" {
		lines = append([]string{"SPDX-FileCopyrightText: " + copyrightText}, lines...)
	}

	if len(d.LinePrefixes) > 0 {
		prefix := d.LinePrefixes[0]
		var sb strings.Builder
		for _, line := range lines {
			sb.WriteString(prefix + " " + line + "\n")
		}
		return sb.String()
	}

	pair := d.BlockPairs[0]
	if len(lines) == 1 {
		return pair.Open + " " + lines[0] + " " + pair.Close + "\n"
	}
	var sb strings.Builder
	sb.WriteString(pair.Open + "\n")
	for _, line := range lines {
		sb.WriteString("  " + line + "\n")
	}
	sb.WriteString(pair.Close + "\n")
	return sb.String()
}

// insertHeader places the header at the top of the file, after a shebang
// or XML declaration when one is present. Those lines must stay first
// for the file to keep working.
func insertHeader(content, header string) string {
	if strings.HasPrefix(content, "#!") || strings.HasPrefix(content, "<?xml") {
		idx := strings.IndexByte(content, '\n')
		if idx < 0 {
			return content + "\n" + header
		}
		return content[:idx+1] + header + content[idx+1:]
	}
	return header + content
}
