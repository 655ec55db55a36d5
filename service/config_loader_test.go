package service

import (
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/spdxscan/domain"
	"github.com/ludo-technologies/spdxscan/internal/testutil"
)

func TestConfigLoader_Defaults(t *testing.T) {
	req := NewConfigurationLoader().LoadDefaultConfig()
	if req.Strict {
		t.Error("Default should be lenient")
	}
	if !req.Recursive {
		t.Error("Default should be recursive")
	}
	if req.OutputFormat != domain.OutputFormatText {
		t.Errorf("Default format = %s, want text", req.OutputFormat)
	}
	if len(req.ExcludePatterns) == 0 {
		t.Error("Default excludes should not be empty")
	}
}

func TestConfigLoader_FromFile(t *testing.T) {
	dir := testutil.WriteTree(t, map[string]string{
		"spdxscan.yaml": "scan:\n  strict: true\n  exclude_patterns:\n    - generated/\noutput:\n  format: json\n",
	})

	req, err := NewConfigurationLoader().LoadConfig(filepath.Join(dir, "spdxscan.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !req.Strict {
		t.Error("Strict should come from the file")
	}
	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("Format = %s, want json", req.OutputFormat)
	}
	found := false
	for _, p := range req.ExcludePatterns {
		if p == "generated/" {
			found = true
		}
	}
	if !found {
		t.Errorf("Exclude pattern missing: %v", req.ExcludePatterns)
	}
}

func TestConfigLoader_Merge(t *testing.T) {
	loader := NewConfigurationLoader()
	base := loader.LoadDefaultConfig()
	baseExcludes := len(base.ExcludePatterns)

	override := &domain.ScanRequest{
		Paths:           []string{"src"},
		Strict:          true,
		ExcludePatterns: []string{"extra/"},
		OutputFormat:    domain.OutputFormatCSV,
		Concurrency:     8,
		ModifiedOnly:    true,
	}
	merged := loader.MergeConfig(base, override)

	if !merged.Strict || merged.Concurrency != 8 || !merged.ModifiedOnly {
		t.Errorf("Flags should win: %+v", merged)
	}
	if merged.OutputFormat != domain.OutputFormatCSV {
		t.Errorf("Format = %s, want csv", merged.OutputFormat)
	}
	if len(merged.ExcludePatterns) != baseExcludes+1 {
		t.Errorf("Flag excludes should extend config excludes, got %v", merged.ExcludePatterns)
	}
	if len(merged.Paths) != 1 || merged.Paths[0] != "src" {
		t.Errorf("Paths should come from flags: %v", merged.Paths)
	}
	// Base defaults survive where the override is zero
	if !merged.Recursive {
		t.Error("Recursive default should survive the merge")
	}
}

func TestConfigLoader_MergeNil(t *testing.T) {
	loader := NewConfigurationLoader()
	base := loader.LoadDefaultConfig()
	if merged := loader.MergeConfig(base, nil); merged != base {
		t.Error("Nil override should return base")
	}
	if merged := loader.MergeConfig(nil, base); merged != base {
		t.Error("Nil base should return override")
	}
}
