package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default config must validate: %v", err)
	}
	if cfg.Checks.MaxFileLines != DefaultMaxFileLines {
		t.Errorf("Expected default max file lines %d, got %d", DefaultMaxFileLines, cfg.Checks.MaxFileLines)
	}
	if !cfg.Tools.ESLint.Enabled || !cfg.Tools.Compiler.Enabled {
		t.Error("External tools should be enabled by default")
	}
}

func TestLoadConfigMissingPathUsesDefaults(t *testing.T) {
	// An empty path with no discoverable config falls back to defaults.
	cfg, err := LoadConfigWithTarget("", t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Checks.MaxFileLines != DefaultMaxFileLines {
		t.Errorf("Expected defaults, got max_file_lines=%d", cfg.Checks.MaxFileLines)
	}
}

func TestLoadConfigFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsreview.yaml")
	content := `checks:
  max_file_lines: 300
tools:
  duplication:
    min_tokens: 35
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Checks.MaxFileLines != 300 {
		t.Errorf("Expected max_file_lines 300, got %d", cfg.Checks.MaxFileLines)
	}
	if cfg.Tools.Duplication.MinTokens != 35 {
		t.Errorf("Expected min_tokens 35, got %d", cfg.Tools.Duplication.MinTokens)
	}
	// Untouched sections keep their defaults.
	if cfg.Tools.ESLint.SubBatchSize != DefaultLintSubBatchSize {
		t.Errorf("Expected default sub-batch size, got %d", cfg.Tools.ESLint.SubBatchSize)
	}
}

func TestLoadConfigDiscoversUpward(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "src", "features")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}
	path := filepath.Join(root, "tsreview.yaml")
	if err := os.WriteFile(path, []byte("checks:\n  max_file_lines: 250\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfigWithTarget("", nested)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Checks.MaxFileLines != 250 {
		t.Errorf("Expected discovered config with max_file_lines 250, got %d", cfg.Checks.MaxFileLines)
	}
}

func TestLoadConfigInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tsreview.yaml")
	if err := os.WriteFile(path, []byte("checks:\n  max_file_lines: -1\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for negative max_file_lines")
	}
}

func TestValidateRejectsBadFormat(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unsupported output format")
	}
}

func TestValidateRejectsEmptyExtensions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Analysis.IncludeExtensions = nil
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for empty extension list")
	}
}

func TestMinimalTemplateIsWellFormed(t *testing.T) {
	content := GetMinimalConfigTemplate()
	if !strings.Contains(content, "max_file_lines") {
		t.Error("Minimal template should mention max_file_lines")
	}
}

func TestFullTemplateAppliesPresets(t *testing.T) {
	strict := GetFullConfigTemplate(ProjectTypeReact, StrictnessStrict)
	if !strings.Contains(strict, "300") {
		t.Error("Strict template should carry the strict line budget")
	}
	if !strings.Contains(strict, ".next") {
		t.Error("React template should exclude .next")
	}

	relaxed := GetFullConfigTemplate(ProjectTypeGeneric, StrictnessRelaxed)
	if !strings.Contains(relaxed, "800") {
		t.Error("Relaxed template should carry the relaxed line budget")
	}
}
