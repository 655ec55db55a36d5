package main

import (
	"fmt"
	"os"

	"github.com/ludo-technologies/spdxscan/app"
	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/config"
	"github.com/ludo-technologies/spdxscan/internal/dialect"
	"github.com/ludo-technologies/spdxscan/service"
	"github.com/spf13/cobra"
)

var (
	correctLicense    string
	correctCopyright  string
	correctExclude    []string
	correctDryRun     bool
	correctBackup     bool
	correctConfigPath string
)

func correctCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "correct [path...]",
		Short: "Insert SPDX headers into files that lack one",
		Long: `Insert an SPDX license header into every eligible file that has no
license declaration. Files that already declare a license are left
untouched, including files with a broken declaration.

Examples:
  # Preview what would change
  spdxscan correct --dry-run --license MIT src/

  # Insert headers with a copyright line
  spdxscan correct --license Apache-2.0 --copyright "2026 Example Corp" src/

  # Keep a .bak copy of every modified file
  spdxscan correct --license MIT --backup src/`,
		RunE:         runCorrect,
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&correctLicense, "license", "l", "",
		"SPDX license expression for the inserted header")
	cmd.Flags().StringVar(&correctCopyright, "copyright", "",
		"SPDX-FileCopyrightText value for the inserted header")
	cmd.Flags().StringSliceVarP(&correctExclude, "exclude", "e", nil,
		"Gitignore-style patterns to exclude (repeatable)")
	cmd.Flags().BoolVar(&correctDryRun, "dry-run", false,
		"Preview changes without modifying files")
	cmd.Flags().BoolVar(&correctBackup, "backup", false,
		"Write <file>.bak before modifying a file")
	cmd.Flags().StringVarP(&correctConfigPath, "config", "c", "",
		"Path to config file")

	return cmd
}

func runCorrect(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := config.LoadConfigWithTarget(correctConfigPath, paths[0])
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Flags win over config defaults
	licenseID := cfg.Correction.LicenseID
	if correctLicense != "" {
		licenseID = correctLicense
	}
	copyrightText := cfg.Correction.CopyrightText
	if correctCopyright != "" {
		copyrightText = correctCopyright
	}
	backup := cfg.Correction.Backup || correctBackup

	req := domain.CorrectRequest{
		Paths:           paths,
		ExcludePatterns: append(cfg.Scan.ExcludePatterns, correctExclude...),
		LicenseID:       licenseID,
		CopyrightText:   copyrightText,
		DryRun:          correctDryRun,
		Backup:          backup,
		OutputWriter:    os.Stdout,
		ConfigPath:      correctConfigPath,
	}

	registry := dialect.NewRegistryWithExtensions(cfg.Scan.Extensions)
	svc := service.NewCorrectService(service.NewFileCollector(), registry)
	useCase := app.NewCorrectUseCase(svc, service.NewOutputFormatter(false))

	report, err := useCase.Execute(cmd.Context(), req)
	if err != nil {
		return err
	}
	if report.Failed > 0 {
		return fmt.Errorf("%d files could not be corrected", report.Failed)
	}
	return nil
}
