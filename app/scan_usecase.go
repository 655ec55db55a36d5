package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/spdxscan/domain"
)

// ScanUseCase orchestrates the scan workflow: validate the request, run
// the scan, render the report
type ScanUseCase struct {
	service   domain.ScanService
	formatter domain.OutputFormatter
}

// NewScanUseCase creates a new scan use case
func NewScanUseCase(service domain.ScanService, formatter domain.OutputFormatter) *ScanUseCase {
	return &ScanUseCase{
		service:   service,
		formatter: formatter,
	}
}

// Execute performs the complete scan workflow and writes the report
func (uc *ScanUseCase) Execute(ctx context.Context, req domain.ScanRequest) (*domain.ScanReport, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	report, err := uc.service.Scan(ctx, req)
	if err != nil {
		return nil, err
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if err := uc.formatter.Write(report, req.OutputFormat, writer); err != nil {
		return nil, err
	}

	return report, nil
}

// validateRequest validates the scan request
func (uc *ScanUseCase) validateRequest(req domain.ScanRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if !domain.ValidOutputFormat(req.OutputFormat) {
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}
	if req.Concurrency < 0 {
		return fmt.Errorf("concurrency cannot be negative")
	}
	return nil
}

// ScanUseCaseBuilder provides a builder pattern for creating ScanUseCase
type ScanUseCaseBuilder struct {
	service   domain.ScanService
	formatter domain.OutputFormatter
}

// NewScanUseCaseBuilder creates a new builder
func NewScanUseCaseBuilder() *ScanUseCaseBuilder {
	return &ScanUseCaseBuilder{}
}

// WithService sets the scan service
func (b *ScanUseCaseBuilder) WithService(service domain.ScanService) *ScanUseCaseBuilder {
	b.service = service
	return b
}

// WithFormatter sets the output formatter
func (b *ScanUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *ScanUseCaseBuilder {
	b.formatter = formatter
	return b
}

// Build creates the ScanUseCase with the configured dependencies
func (b *ScanUseCaseBuilder) Build() (*ScanUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("scan service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}
	return NewScanUseCase(b.service, b.formatter), nil
}
