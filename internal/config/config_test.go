package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scan.Strict {
		t.Error("Default policy should be lenient")
	}
	if !cfg.Scan.Recursive {
		t.Error("Default scan should be recursive")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Default format = %q, want text", cfg.Output.Format)
	}
	if cfg.Correction.LicenseID != "MIT" {
		t.Errorf("Default correction license = %q, want MIT", cfg.Correction.LicenseID)
	}

	excluded := false
	for _, p := range cfg.Scan.ExcludePatterns {
		if p == "node_modules" {
			excluded = true
		}
	}
	if !excluded {
		t.Error("node_modules should be excluded by default")
	}
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spdxscan.yaml")
	content := `scan:
  strict: true
  exclude_patterns:
    - generated
  concurrency: 2
licenses:
  path: ./my-licenses.json
output:
  format: json
  show_details: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if !cfg.Scan.Strict {
		t.Error("strict should be true")
	}
	if cfg.Scan.Concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", cfg.Scan.Concurrency)
	}
	if len(cfg.Scan.ExcludePatterns) != 1 || cfg.Scan.ExcludePatterns[0] != "generated" {
		t.Errorf("exclude_patterns = %v", cfg.Scan.ExcludePatterns)
	}
	if cfg.Licenses.Path != "./my-licenses.json" {
		t.Errorf("licenses.path = %q", cfg.Licenses.Path)
	}
	if cfg.Output.Format != "json" || !cfg.Output.ShowDetails {
		t.Errorf("output = %+v", cfg.Output)
	}
}

func TestLoadConfig_EmptyPathReturnsDefaults(t *testing.T) {
	// Run from a temp dir so no real config file is discovered
	dir := t.TempDir()
	old, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(old) }()

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Output.Format != DefaultFormat {
		t.Errorf("Expected defaults, got format %q", cfg.Output.Format)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig("/nonexistent/spdxscan.yaml"); err == nil {
		t.Error("Missing explicit config file should fail")
	}
}

func TestLoadConfigWithTarget_DiscoversUpward(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "src", "pkg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	content := "output:\n  format: yaml\n"
	if err := os.WriteFile(filepath.Join(root, ".spdxscan.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigWithTarget("", sub)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if cfg.Output.Format != "yaml" {
		t.Errorf("Discovered config not applied, format = %q", cfg.Output.Format)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, true},
		{"negative concurrency", func(c *Config) { c.Scan.Concurrency = -1 }, true},
		{"extension without dot", func(c *Config) { c.Scan.Extensions = map[string]string{"zig": "c"} }, true},
		{"extension with dot", func(c *Config) { c.Scan.Extensions = map[string]string{".zig": "c"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "spdxscan.yaml")

	cfg := DefaultConfig()
	cfg.Scan.Strict = true
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if !loaded.Scan.Strict {
		t.Error("Saved strict flag should round-trip")
	}
}

func TestConfigTemplates(t *testing.T) {
	minimal := GetMinimalConfigTemplate()
	if !strings.Contains(minimal, "exclude_patterns") {
		t.Error("Minimal template should mention exclude_patterns")
	}

	full := GetFullConfigTemplate("Apache-2.0", PolicyStrict)
	if !strings.Contains(full, "license_id: Apache-2.0") {
		t.Error("Full template should embed the chosen license")
	}
	if !strings.Contains(full, "strict: true") {
		t.Error("Strict policy should set strict: true")
	}

	lenient := GetFullConfigTemplate("MIT", PolicyLenient)
	if !strings.Contains(lenient, "strict: false") {
		t.Error("Lenient policy should set strict: false")
	}
}
