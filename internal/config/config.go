// Package config loads and validates tsreview configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default analysis settings
const (
	// DefaultMaxFileLines is the per-file size budget
	DefaultMaxFileLines = 500

	// DefaultMaxGoroutines bounds the per-file analysis when the
	// config value is invalid
	DefaultMaxGoroutines = 4

	// DefaultToolTimeoutSeconds bounds one external tool invocation
	DefaultToolTimeoutSeconds = 300

	// DefaultLintSubBatchSize splits lint invocations to respect
	// command-length limits
	DefaultLintSubBatchSize = 60

	// DefaultDuplicateMinTokens is the clone-pair token threshold
	DefaultDuplicateMinTokens = 50

	// DefaultReportPath is where the report artifact is written
	DefaultReportPath = "tsreview-report.json"
)

// Config represents the main configuration structure
type Config struct {
	// Checks holds the heuristic analyzer configuration
	Checks ChecksConfig `json:"checks" mapstructure:"checks" yaml:"checks"`

	// Tools holds the external tool configuration
	Tools ToolsConfig `json:"tools" mapstructure:"tools" yaml:"tools"`

	// Analysis holds file discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Performance holds concurrency configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Output holds report output configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// ChecksConfig holds configuration for the heuristic per-file analyzers
type ChecksConfig struct {
	// MaxFileLines is the size budget enforced by the size check
	MaxFileLines int `json:"max_file_lines" mapstructure:"max_file_lines" yaml:"max_file_lines"`

	// AllowedCommentMarkers are comment prefixes exempt from the
	// comment policy (tooling directives)
	AllowedCommentMarkers []string `json:"allowed_comment_markers" mapstructure:"allowed_comment_markers" yaml:"allowed_comment_markers"`

	// Per-analyzer enable switches
	Size        bool `json:"size" mapstructure:"size" yaml:"size"`
	Comments    bool `json:"comments" mapstructure:"comments" yaml:"comments"`
	Console     bool `json:"console" mapstructure:"console" yaml:"console"`
	Fallback    bool `json:"fallback" mapstructure:"fallback" yaml:"fallback"`
	Framework   bool `json:"framework" mapstructure:"framework" yaml:"framework"`
	Annotations bool `json:"annotations" mapstructure:"annotations" yaml:"annotations"`
}

// ToolsConfig holds configuration for the delegated external tools
type ToolsConfig struct {
	// TimeoutSeconds is the hard timeout per tool invocation
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`

	ESLint      ESLintConfig      `json:"eslint" mapstructure:"eslint" yaml:"eslint"`
	Compiler    CompilerConfig    `json:"compiler" mapstructure:"compiler" yaml:"compiler"`
	DeadCode    DeadCodeConfig    `json:"dead_code" mapstructure:"dead_code" yaml:"dead_code"`
	Duplication DuplicationConfig `json:"duplication" mapstructure:"duplication" yaml:"duplication"`
}

// ESLintConfig holds lint engine settings
type ESLintConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Binary  string `json:"binary" mapstructure:"binary" yaml:"binary"`

	// CacheLocation lets the engine skip unchanged files across runs
	CacheLocation string `json:"cache_location" mapstructure:"cache_location" yaml:"cache_location"`

	// SubBatchSize caps paths per process call
	SubBatchSize int `json:"sub_batch_size" mapstructure:"sub_batch_size" yaml:"sub_batch_size"`
}

// CompilerConfig holds compiler diagnostics settings
type CompilerConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Binary  string `json:"binary" mapstructure:"binary" yaml:"binary"`

	// AppConfig and TestConfig are the two project configurations the
	// repo-wide compiler gates run against
	AppConfig  string `json:"app_config" mapstructure:"app_config" yaml:"app_config"`
	TestConfig string `json:"test_config" mapstructure:"test_config" yaml:"test_config"`
}

// DeadCodeConfig holds dead-code detector settings
type DeadCodeConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Binary  string `json:"binary" mapstructure:"binary" yaml:"binary"`
}

// DuplicationConfig holds duplicate detector settings
type DuplicationConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	Binary  string `json:"binary" mapstructure:"binary" yaml:"binary"`

	// MinTokens is the clone-pair token threshold
	MinTokens int `json:"min_tokens" mapstructure:"min_tokens" yaml:"min_tokens"`

	// TopGroups caps the repo-level largest-duplicates list
	TopGroups int `json:"top_groups" mapstructure:"top_groups" yaml:"top_groups"`
}

// AnalysisConfig holds file discovery configuration
type AnalysisConfig struct {
	// IncludeExtensions is the reviewable-extension allow-list
	IncludeExtensions []string `json:"include_extensions" mapstructure:"include_extensions" yaml:"include_extensions"`

	// ExcludeDirs are directory names never descended into
	ExcludeDirs []string `json:"exclude_dirs" mapstructure:"exclude_dirs" yaml:"exclude_dirs"`

	// RespectGitignore honors .gitignore during full-tree discovery
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore"`
}

// PerformanceConfig holds concurrency configuration
type PerformanceConfig struct {
	// MaxGoroutines bounds concurrent per-file analysis
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines"`
}

// OutputConfig holds report output configuration
type OutputConfig struct {
	// Format specifies the console projection: text, json, yaml
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ReportPath is where the report artifact is written
	ReportPath string `json:"report_path" mapstructure:"report_path" yaml:"report_path"`

	// FullReport includes passing files in the result list
	FullReport bool `json:"full_report" mapstructure:"full_report" yaml:"full_report"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Checks: ChecksConfig{
			MaxFileLines: DefaultMaxFileLines,
			Size:         true,
			Comments:     true,
			Console:      true,
			Fallback:     true,
			Framework:    true,
			Annotations:  true,
		},
		Tools: ToolsConfig{
			TimeoutSeconds: DefaultToolTimeoutSeconds,
			ESLint: ESLintConfig{
				Enabled:       true,
				Binary:        "eslint",
				CacheLocation: ".tsreview/eslint-cache",
				SubBatchSize:  DefaultLintSubBatchSize,
			},
			Compiler: CompilerConfig{
				Enabled:    true,
				Binary:     "tsc",
				AppConfig:  "tsconfig.json",
				TestConfig: "tsconfig.test.json",
			},
			DeadCode: DeadCodeConfig{
				Enabled: true,
				Binary:  "knip",
			},
			Duplication: DuplicationConfig{
				Enabled:   true,
				Binary:    "jscpd",
				MinTokens: DefaultDuplicateMinTokens,
				TopGroups: 10,
			},
		},
		Analysis: AnalysisConfig{
			IncludeExtensions: []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts"},
			ExcludeDirs: []string{
				"node_modules", "dist", "build", "out", "coverage",
				".next", ".nuxt", ".git", "vendor", "__generated__",
			},
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines: DefaultMaxGoroutines,
		},
		Output: OutputConfig{
			Format:     "text",
			ReportPath: DefaultReportPath,
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context;
// when no path is given, a config file is discovered by walking up from
// the target directory
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	cfg := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// configFileCandidates lists config file names in lookup order
var configFileCandidates = []string{
	"tsreview.config.json",
	".tsreviewrc.json",
	".tsreviewrc",
	"tsreview.yaml",
	"tsreview.yml",
	"tsreview.json",
}

// findDefaultConfig looks for configuration files starting at targetPath
// and walking up to the filesystem root
func findDefaultConfig(targetPath string) string {
	dir := targetPath
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return ""
		}
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}

	for {
		if path := searchConfigInDirectory(dir, configFileCandidates); path != "" {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(cfg *Config, path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("checks", cfg.Checks)
	v.Set("tools", cfg.Tools)
	v.Set("analysis", cfg.Analysis)
	v.Set("performance", cfg.Performance)
	v.Set("output", cfg.Output)

	return v.WriteConfig()
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.Checks.MaxFileLines <= 0 {
		return fmt.Errorf("checks.max_file_lines must be > 0, got %d", c.Checks.MaxFileLines)
	}

	if c.Tools.TimeoutSeconds <= 0 {
		return fmt.Errorf("tools.timeout_seconds must be > 0, got %d", c.Tools.TimeoutSeconds)
	}

	if c.Tools.ESLint.SubBatchSize <= 0 {
		return fmt.Errorf("tools.eslint.sub_batch_size must be > 0, got %d", c.Tools.ESLint.SubBatchSize)
	}

	if c.Tools.Duplication.MinTokens <= 0 {
		return fmt.Errorf("tools.duplication.min_tokens must be > 0, got %d", c.Tools.Duplication.MinTokens)
	}

	if len(c.Analysis.IncludeExtensions) == 0 {
		return fmt.Errorf("analysis.include_extensions cannot be empty")
	}

	validFormats := map[string]bool{"text": true, "json": true, "yaml": true}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml", c.Output.Format)
	}

	if c.Output.ReportPath == "" {
		return fmt.Errorf("output.report_path cannot be empty")
	}

	return nil
}
