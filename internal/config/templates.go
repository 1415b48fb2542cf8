package config

import "strconv"

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// Strictness represents the review strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds discovery presets for different project types
type ProjectPreset struct {
	ExcludeDirs []string
}

// StrictnessPreset holds thresholds for different strictness levels
type StrictnessPreset struct {
	MaxFileLines       int
	DuplicateMinTokens int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	base := []string{"node_modules", "dist", "build", "out", "coverage", ".git", "vendor", "__generated__"}
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric:     {ExcludeDirs: base},
		ProjectTypeReact:       {ExcludeDirs: append(append([]string{}, base...), ".next", "storybook-static")},
		ProjectTypeVue:         {ExcludeDirs: append(append([]string{}, base...), ".nuxt")},
		ProjectTypeNodeBackend: {ExcludeDirs: base},
	}
}

// GetStrictnessPresets returns thresholds for each strictness level
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed:  {MaxFileLines: 800, DuplicateMinTokens: 100},
		StrictnessStandard: {MaxFileLines: 500, DuplicateMinTokens: 50},
		StrictnessStrict:   {MaxFileLines: 300, DuplicateMinTokens: 35},
	}
}

// GetMinimalConfigTemplate returns a small config with essential options
func GetMinimalConfigTemplate() string {
	return `{
  "checks": {
    "max_file_lines": ` + strconv.Itoa(DefaultMaxFileLines) + `
  },
  "tools": {
    "compiler": {
      "app_config": "tsconfig.json",
      "test_config": "tsconfig.test.json"
    }
  },
  "output": {
    "report_path": "` + DefaultReportPath + `"
  }
}
`
}

// GetFullConfigTemplate returns a documented config for the given
// project type and strictness
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	thresholds, ok := GetStrictnessPresets()[strictness]
	if !ok {
		thresholds = GetStrictnessPresets()[StrictnessStandard]
	}

	excludeDirs := "["
	for i, dir := range preset.ExcludeDirs {
		if i > 0 {
			excludeDirs += ", "
		}
		excludeDirs += `"` + dir + `"`
	}
	excludeDirs += "]"

	return `{
  "checks": {
    "max_file_lines": ` + strconv.Itoa(thresholds.MaxFileLines) + `,
    "size": true,
    "comments": true,
    "console": true,
    "fallback": true,
    "framework": true,
    "annotations": true
  },
  "tools": {
    "timeout_seconds": ` + strconv.Itoa(DefaultToolTimeoutSeconds) + `,
    "eslint": {
      "enabled": true,
      "binary": "eslint",
      "cache_location": ".tsreview/eslint-cache",
      "sub_batch_size": ` + strconv.Itoa(DefaultLintSubBatchSize) + `
    },
    "compiler": {
      "enabled": true,
      "binary": "tsc",
      "app_config": "tsconfig.json",
      "test_config": "tsconfig.test.json"
    },
    "dead_code": {
      "enabled": true,
      "binary": "knip"
    },
    "duplication": {
      "enabled": true,
      "binary": "jscpd",
      "min_tokens": ` + strconv.Itoa(thresholds.DuplicateMinTokens) + `,
      "top_groups": 10
    }
  },
  "analysis": {
    "include_extensions": [".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs", ".mts", ".cts"],
    "exclude_dirs": ` + excludeDirs + `,
    "respect_gitignore": true
  },
  "performance": {
    "max_goroutines": ` + strconv.Itoa(DefaultMaxGoroutines) + `
  },
  "output": {
    "format": "text",
    "report_path": "` + DefaultReportPath + `",
    "full_report": false
  }
}
`
}
