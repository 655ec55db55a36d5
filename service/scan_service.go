package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/dialect"
	"github.com/ludo-technologies/spdxscan/internal/spdx"
	"github.com/ludo-technologies/spdxscan/internal/tokenizer"
	"github.com/ludo-technologies/spdxscan/internal/version"
)

// ScanServiceImpl implements the ScanService interface
type ScanServiceImpl struct {
	collector domain.FileCollector
	registry  *dialect.Registry
	progress  domain.ProgressManager
}

// NewScanService creates a new scan service
func NewScanService(collector domain.FileCollector, registry *dialect.Registry) *ScanServiceImpl {
	return &ScanServiceImpl{
		collector: collector,
		registry:  registry,
	}
}

// NewScanServiceWithProgress creates a scan service with progress tracking
func NewScanServiceWithProgress(collector domain.FileCollector, registry *dialect.Registry, pm domain.ProgressManager) *ScanServiceImpl {
	svc := NewScanService(collector, registry)
	svc.progress = pm
	return svc
}

// Scan walks the request paths and produces one report. Per-file
// problems become diagnostics in that file's result; only input-level
// failures (unknown root path, bad license data) abort the run.
func (s *ScanServiceImpl) Scan(ctx context.Context, req domain.ScanRequest) (*domain.ScanReport, error) {
	start := time.Now()

	if len(req.Paths) == 0 {
		return nil, domain.NewInvalidInputError("no paths specified", nil)
	}

	set, err := s.licenseSet(req)
	if err != nil {
		return nil, err
	}
	parser := spdx.NewParser(set, req.Strict)

	var files []string
	if req.TrackedOnly || req.ModifiedOnly {
		files, err = s.collector.CollectGit(req.Paths, req.ModifiedOnly, req.ExcludePatterns)
	} else {
		files, err = s.collector.Collect(req.Paths, req.Recursive, req.ExcludePatterns)
	}
	if err != nil {
		return nil, err
	}

	// Each worker writes only its own slot; slot order mirrors the
	// sorted file list, so the report is deterministic regardless of
	// completion order.
	type slot struct {
		result  *domain.FileResult
		skipped bool
		done    bool
	}
	slots := make([]slot, len(files))
	var mu sync.Mutex

	tasks := make([]Task, len(files))
	for i, path := range files {
		tasks[i] = Task{
			Name: path,
			Run: func(ctx context.Context) error {
				result, eligible := s.scanOne(path, parser)
				mu.Lock()
				slots[i] = slot{result: result, skipped: !eligible, done: true}
				mu.Unlock()
				return nil
			},
		}
	}

	executor := NewParallelExecutorWithProgress(req.Concurrency, s.progress)
	if err := executor.Execute(ctx, "Scanning files", tasks); err != nil {
		return nil, err
	}

	interrupted := ctx.Err() != nil

	report := &domain.ScanReport{
		GeneratedAt: start.UTC().Format(time.RFC3339),
		Version:     version.GetVersion(),

		// Non-nil so an empty tree encodes as [] rather than null
		Files: []domain.FileResult{},
	}
	for i := range slots {
		sl := &slots[i]
		if !sl.done {
			continue
		}
		if sl.skipped {
			report.Skipped = append(report.Skipped, files[i])
			continue
		}
		report.Files = append(report.Files, *sl.result)
	}
	// The collector already sorts; re-sort so the ordering contract
	// holds even for callers composing their own collectors.
	sort.Slice(report.Files, func(a, b int) bool {
		return report.Files[a].Path < report.Files[b].Path
	})
	sort.Strings(report.Skipped)
	if !req.SkippedInline {
		report.Skipped = nil
	}

	report.ComputeSummary()
	report.Status = overallStatus(report, interrupted)
	report.DurationMs = time.Since(start).Milliseconds()
	return report, nil
}

// ScanFile scans a single file
func (s *ScanServiceImpl) ScanFile(ctx context.Context, filePath string, req domain.ScanRequest) (*domain.FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists, err := s.collector.FileExists(filePath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, nil)
	}

	set, err := s.licenseSet(req)
	if err != nil {
		return nil, err
	}

	result, eligible := s.scanOne(filePath, spdx.NewParser(set, req.Strict))
	if !eligible {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("file is not eligible for scanning: %s", filePath), nil)
	}
	return result, nil
}

// licenseSet resolves the identifier set for one request
func (s *ScanServiceImpl) licenseSet(req domain.ScanRequest) (*spdx.LicenseSet, error) {
	if req.KnownLicensesPath != "" {
		return spdx.LoadLicenseSet(req.KnownLicensesPath)
	}
	return spdx.DefaultLicenseSet(), nil
}

// scanOne runs the per-file pipeline: read, classify, tokenize, parse,
// assign a verdict. Eligible is false for files with no dialect mapping
// or binary content; those are skipped, not failed.
func (s *ScanServiceImpl) scanOne(path string, parser *spdx.Parser) (*domain.FileResult, bool) {
	content, err := s.collector.ReadFile(path)
	if err != nil {
		// Unreadable files stay in the report so a permissions problem
		// is visible instead of silently shrinking the file count.
		return &domain.FileResult{
			Path:         path,
			Verdict:      domain.VerdictInvalid,
			Declarations: []domain.Declaration{},
			Diagnostics: []domain.Diagnostic{{
				Severity: domain.SeverityError,
				Code:     domain.DiagUnreadableFile,
				Message:  fmt.Sprintf("cannot read file: %v", err),
			}},
		}, true
	}

	d := s.registry.ForContent(path, content)
	if d == nil || dialect.IsBinary(content) {
		return nil, false
	}

	blocks := tokenizer.Extract(string(content), d)
	decls, diags := parser.ParseBlocks(blocks)
	// Empty slices, not nil, so structured output shows [] for clean files
	if decls == nil {
		decls = []domain.Declaration{}
	}
	if diags == nil {
		diags = []domain.Diagnostic{}
	}

	result := &domain.FileResult{
		Path:         path,
		Dialect:      d.Name,
		Declarations: decls,
		Diagnostics:  diags,
	}
	result.Verdict = verdictFor(result)
	return result, true
}

// verdictFor assigns the per-file verdict. A malformed comment or any
// other error diagnostic blocks compliance even when a valid
// declaration exists.
func verdictFor(r *domain.FileResult) domain.Verdict {
	if len(r.Declarations) == 0 {
		return domain.VerdictMissing
	}
	if r.License() != "" && !r.HasErrors() {
		return domain.VerdictCompliant
	}
	return domain.VerdictInvalid
}

// overallStatus maps the report to the process-level outcome
func overallStatus(report *domain.ScanReport, interrupted bool) domain.ReportStatus {
	if interrupted {
		return domain.StatusInterrupted
	}
	for i := range report.Files {
		if report.Files[i].Verdict != domain.VerdictCompliant {
			return domain.StatusFail
		}
	}
	return domain.StatusPass
}
