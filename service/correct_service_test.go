package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/dialect"
	"github.com/ludo-technologies/spdxscan/internal/testutil"
)

func newTestCorrectService() *CorrectServiceImpl {
	return NewCorrectService(NewFileCollector(), dialect.NewRegistry())
}

func TestCorrect_InsertsHeader(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"main.go": "package main\n",
	})

	report, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "MIT",
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if report.Applied != 1 || report.Failed != 0 {
		t.Fatalf("Unexpected report: %+v", report)
	}

	content, err := os.ReadFile(filepath.Join(dir, "main.go"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(content), "// SPDX-License-Identifier: MIT\n") {
		t.Errorf("Header not inserted:\n%s", content)
	}
	if !strings.Contains(string(content), "package main") {
		t.Errorf("Original content lost:\n%s", content)
	}
}

func TestCorrect_SkipsCompliantFile(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"a.go": "// SPDX-License-Identifier: MIT\npackage a\n",
	})

	report, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "Apache-2.0",
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if report.Skipped != 1 || report.Applied != 0 {
		t.Errorf("Compliant file should be skipped: %+v", report)
	}
}

func TestCorrect_SkipsFileWithBrokenDeclaration(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"a.go": "// SPDX-License-Identifier: Not-Real\npackage a\n",
	})

	report, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "MIT",
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	// Any existing declaration blocks automatic insertion
	if report.Skipped != 1 {
		t.Errorf("Existing declaration should block insertion: %+v", report)
	}
}

func TestCorrect_DryRunLeavesFilesAlone(t *testing.T) {
	original := "package main\n"
	dir := testutil.WriteTree(t, map[string]string{"main.go": original})

	report, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "MIT",
		DryRun:    true,
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}
	if report.Applied != 1 || !report.DryRun {
		t.Errorf("Unexpected dry-run report: %+v", report)
	}
	if report.Files[0].Outcome != domain.CorrectionPreviewed {
		t.Errorf("Outcome = %s, want previewed", report.Files[0].Outcome)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "main.go"))
	if string(content) != original {
		t.Errorf("Dry run must not modify files, got:\n%s", content)
	}
}

func TestCorrect_BackupWritesOriginal(t *testing.T) {
	original := "x = 1\n"
	dir := testutil.WriteTree(t, map[string]string{"a.py": original})

	_, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:         []string{dir},
		LicenseID:     "MIT",
		CopyrightText: "2026 Example Corp",
		Backup:        true,
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}

	backup, err := os.ReadFile(filepath.Join(dir, "a.py.bak"))
	if err != nil {
		t.Fatalf("Backup file missing: %v", err)
	}
	if string(backup) != original {
		t.Errorf("Backup should hold the original content, got %q", backup)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "a.py"))
	if !strings.Contains(string(content), "# SPDX-FileCopyrightText: 2026 Example Corp") {
		t.Errorf("Copyright line missing:\n%s", content)
	}
}

func TestCorrect_ShebangStaysFirst(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"run.sh": "#!/bin/bash\necho hi\n",
	})

	_, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "MIT",
	})
	if err != nil {
		t.Fatalf("Correct failed: %v", err)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "run.sh"))
	lines := strings.Split(string(content), "\n")
	if lines[0] != "#!/bin/bash" {
		t.Errorf("Shebang must stay first, got %q", lines[0])
	}
	if lines[1] != "# SPDX-License-Identifier: MIT" {
		t.Errorf("Header should follow the shebang, got %q", lines[1])
	}
}

func TestCorrect_InvalidLicenseExpression(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{"a.go": "package a\n"})

	_, err := newTestCorrectService().Correct(context.Background(), domain.CorrectRequest{
		Paths:     []string{dir},
		LicenseID: "MIT AND",
	})
	if err == nil {
		t.Fatal("Invalid license expression should fail up front")
	}
}

func TestBuildHeader_Dialects(t *testing.T) {
	tests := []struct {
		name      string
		d         *dialect.Dialect
		copyright string
		want      string
	}{
		{"c line", &dialect.CStyle, "", "// SPDX-License-Identifier: MIT\n"},
		{"hash", &dialect.Hash, "", "# SPDX-License-Identifier: MIT\n"},
		{"xml block", &dialect.XML, "", "<!-- SPDX-License-Identifier: MIT -->\n"},
		{"with copyright", &dialect.CStyle, "2026 Acme",
			"// SPDX-FileCopyrightText: 2026 Acme\n// SPDX-License-Identifier: MIT\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildHeader(tt.d, "MIT", tt.copyright); got != tt.want {
				t.Errorf("BuildHeader = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildHeader_XMLMultiLine(t *testing.T) {
	got := BuildHeader(&dialect.XML, "MIT", "2026 Acme")
	if !strings.HasPrefix(got, "<!--\n") || !strings.HasSuffix(got, "-->\n") {
		t.Errorf("Multi-line XML header should use one block, got %q", got)
	}
}
