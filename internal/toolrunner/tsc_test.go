package toolrunner

import (
	"testing"
)

func TestParseCompilerDiagnosticsParenFormat(t *testing.T) {
	out := ParseCompilerDiagnostics("src/a.ts(12,5): error TS2322: Type 'string' is not assignable to type 'number'.\n")

	if len(out.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.File != "src/a.ts" || d.Line != 12 || d.Column != 5 || d.Code != "TS2322" {
		t.Errorf("Unexpected diagnostic: %+v", d)
	}
}

func TestParseCompilerDiagnosticsColonFormat(t *testing.T) {
	out := ParseCompilerDiagnostics("src/b.ts:7:13 - error TS2345: Argument of type 'null' is not assignable.\n")

	if len(out.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(out.Diagnostics))
	}
	d := out.Diagnostics[0]
	if d.File != "src/b.ts" || d.Line != 7 || d.Column != 13 || d.Code != "TS2345" {
		t.Errorf("Unexpected diagnostic: %+v", d)
	}
}

func TestParseCompilerDiagnosticsGlobalError(t *testing.T) {
	out := ParseCompilerDiagnostics("error TS18003: No inputs were found in config file 'tsconfig.json'.\n")

	if len(out.GlobalErrors) != 1 {
		t.Fatalf("Expected 1 global error, got %d", len(out.GlobalErrors))
	}
	if len(out.Diagnostics) != 0 {
		t.Errorf("Global error must not become a file diagnostic")
	}
}

func TestParseCompilerDiagnosticsUnknownLinesCounted(t *testing.T) {
	out := ParseCompilerDiagnostics("some completely unexpected output\nanother odd line\n")

	if out.UnknownLines != 2 {
		t.Errorf("Expected 2 unknown lines, got %d", out.UnknownLines)
	}
	if out.Clean() {
		t.Error("Unknown output must not count as a clean run")
	}
}

func TestParseCompilerDiagnosticsSkipsNoise(t *testing.T) {
	input := "src/a.ts(1,1): error TS1005: ';' expected.\n" +
		"    12 const x = 1\n" +
		"Found 1 error in src/a.ts:1\n" +
		"\n"
	out := ParseCompilerDiagnostics(input)

	if len(out.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(out.Diagnostics))
	}
	if out.UnknownLines != 0 {
		t.Errorf("Indented and summary lines are noise, got %d unknown", out.UnknownLines)
	}
}

func TestCompilerOutputClean(t *testing.T) {
	out := ParseCompilerDiagnostics("")
	if !out.Clean() {
		t.Error("Empty output should be clean")
	}
}
