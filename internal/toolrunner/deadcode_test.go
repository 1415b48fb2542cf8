package toolrunner

import (
	"testing"
)

const sampleKnipJSON = `{
  "files": ["src/orphan.ts"],
  "issues": [
    {
      "file": "src/util.ts",
      "exports": [{"name": "formatDate", "line": 10, "col": 14}],
      "types": [{"name": "DateParts", "line": 3, "col": 13}],
      "enumMembers": {"Color": [{"name": "Magenta", "line": 22, "col": 3}]},
      "classMembers": {},
      "unresolved": [{"name": "./missing"}],
      "unlisted": [{"name": "left-pad"}]
    }
  ]
}`

func TestParseKnipJSON(t *testing.T) {
	out, err := parseKnipJSON(sampleKnipJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(out.UnusedFiles) != 1 || out.UnusedFiles[0] != "src/orphan.ts" {
		t.Errorf("Unexpected unused files: %v", out.UnusedFiles)
	}
	if len(out.Files) != 1 {
		t.Fatalf("Expected 1 file report, got %d", len(out.Files))
	}

	file := out.Files[0]
	if file.FilePath != "src/util.ts" {
		t.Errorf("Unexpected file path: %q", file.FilePath)
	}
	if len(file.UnusedExports) != 1 || file.UnusedExports[0].Name != "formatDate" {
		t.Errorf("Unexpected exports: %v", file.UnusedExports)
	}
	if file.UnusedExports[0].Line != 10 || file.UnusedExports[0].Column != 14 {
		t.Errorf("Unexpected export position: %+v", file.UnusedExports[0])
	}
	if len(file.UnusedTypes) != 1 || file.UnusedTypes[0].Name != "DateParts" {
		t.Errorf("Unexpected types: %v", file.UnusedTypes)
	}
	if len(file.UnusedEnumMembers) != 1 || file.UnusedEnumMembers[0].Name != "Color.Magenta" {
		t.Errorf("Enum members should be owner-qualified, got %v", file.UnusedEnumMembers)
	}
	if len(file.UnresolvedImports) != 1 || file.UnresolvedImports[0] != "./missing" {
		t.Errorf("Unexpected unresolved imports: %v", file.UnresolvedImports)
	}
	if len(file.UnlistedDeps) != 1 || file.UnlistedDeps[0] != "left-pad" {
		t.Errorf("Unexpected unlisted deps: %v", file.UnlistedDeps)
	}
}

func TestParseKnipJSONInvalid(t *testing.T) {
	if _, err := parseKnipJSON("not json at all"); err == nil {
		t.Error("Expected parse error for non-JSON output")
	}
}

func TestParseKnipJSONEmptyReport(t *testing.T) {
	out, err := parseKnipJSON(`{"files": [], "issues": []}`)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(out.Files) != 0 || len(out.UnusedFiles) != 0 {
		t.Errorf("Expected empty output, got %+v", out)
	}
}
