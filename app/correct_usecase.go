package app

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-technologies/spdxscan/domain"
)

// CorrectUseCase orchestrates the header correction workflow
type CorrectUseCase struct {
	service   domain.CorrectService
	formatter domain.OutputFormatter
}

// NewCorrectUseCase creates a new correct use case
func NewCorrectUseCase(service domain.CorrectService, formatter domain.OutputFormatter) *CorrectUseCase {
	return &CorrectUseCase{
		service:   service,
		formatter: formatter,
	}
}

// Execute performs the correction workflow and writes the report
func (uc *CorrectUseCase) Execute(ctx context.Context, req domain.CorrectRequest) (*domain.CorrectReport, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	report, err := uc.service.Correct(ctx, req)
	if err != nil {
		return nil, err
	}

	writer := req.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	if err := uc.formatter.WriteCorrections(report, domain.OutputFormatText, writer); err != nil {
		return nil, err
	}

	return report, nil
}

// validateRequest validates the correct request
func (uc *CorrectUseCase) validateRequest(req domain.CorrectRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}
	if req.LicenseID == "" {
		return fmt.Errorf("no license identifier specified")
	}
	return nil
}
