package service

import (
	"path/filepath"
	"testing"

	"github.com/ludo-technologies/tsreview/internal/config"
	"github.com/ludo-technologies/tsreview/internal/testutil"
)

func defaultAnalysisConfig() *config.AnalysisConfig {
	cfg := config.DefaultConfig()
	return &cfg.Analysis
}

func TestCollectFilesWalksTree(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTestFile(t, root, "src/a.ts", "const a = 1;\n")
	testutil.WriteTestFile(t, root, "src/ui/b.tsx", "export const B = 1;\n")
	testutil.WriteTestFile(t, root, "README.md", "# docs\n")
	testutil.WriteTestFile(t, root, "node_modules/dep/index.js", "module.exports = {};\n")

	c := NewFileCollector(defaultAnalysisConfig())
	tasks, err := c.CollectFiles(root, nil)
	testutil.AssertNoError(t, err)

	if len(tasks) != 2 {
		t.Fatalf("Expected 2 reviewable files, got %d: %+v", len(tasks), tasks)
	}
	rels := map[string]bool{}
	for _, task := range tasks {
		rels[task.RelPath] = true
		if !filepath.IsAbs(task.AbsPath) {
			t.Errorf("AbsPath should be absolute, got %q", task.AbsPath)
		}
	}
	if !rels["src/a.ts"] || !rels["src/ui/b.tsx"] {
		t.Errorf("Unexpected rel paths: %v", rels)
	}
}

func TestCollectFilesExplicitPaths(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteTestFile(t, root, "src/a.ts", "const a = 1;\n")
	testutil.WriteTestFile(t, root, "src/b.ts", "const b = 2;\n")
	md := testutil.WriteTestFile(t, root, "notes.md", "notes\n")

	c := NewFileCollector(defaultAnalysisConfig())
	tasks, err := c.CollectFiles(root, []string{a, md})
	testutil.AssertNoError(t, err)

	if len(tasks) != 1 {
		t.Fatalf("Expected only the .ts file, got %d", len(tasks))
	}
	testutil.AssertEqual(t, "src/a.ts", tasks[0].RelPath)
}

func TestCollectFilesDeduplicates(t *testing.T) {
	root := t.TempDir()
	a := testutil.WriteTestFile(t, root, "src/a.ts", "const a = 1;\n")

	c := NewFileCollector(defaultAnalysisConfig())
	tasks, err := c.CollectFiles(root, []string{a, filepath.Join(root, "src"), root})
	testutil.AssertNoError(t, err)

	if len(tasks) != 1 {
		t.Fatalf("Expected 1 task after dedup, got %d", len(tasks))
	}
}

func TestCollectFilesRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTestFile(t, root, ".gitignore", "src/generated/\n")
	testutil.WriteTestFile(t, root, "src/a.ts", "const a = 1;\n")
	testutil.WriteTestFile(t, root, "src/generated/schema.ts", "export type S = {};\n")

	c := NewFileCollector(defaultAnalysisConfig())
	tasks, err := c.CollectFiles(root, nil)
	testutil.AssertNoError(t, err)

	if len(tasks) != 1 || tasks[0].RelPath != "src/a.ts" {
		t.Errorf("Gitignored files should be excluded, got %+v", tasks)
	}
}

func TestCollectFilesGitignoreDisabled(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTestFile(t, root, ".gitignore", "src/generated/\n")
	testutil.WriteTestFile(t, root, "src/generated/schema.ts", "export type S = {};\n")

	cfg := defaultAnalysisConfig()
	cfg.RespectGitignore = false
	c := NewFileCollector(cfg)
	tasks, err := c.CollectFiles(root, nil)
	testutil.AssertNoError(t, err)

	if len(tasks) != 1 {
		t.Errorf("With gitignore disabled the file should be collected, got %+v", tasks)
	}
}

func TestCollectFilesMissingPath(t *testing.T) {
	c := NewFileCollector(defaultAnalysisConfig())
	_, err := c.CollectFiles(t.TempDir(), []string{"does/not/exist.ts"})
	testutil.AssertError(t, err)
}

func TestFileExists(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteTestFile(t, root, "a.ts", "x")

	c := NewFileCollector(defaultAnalysisConfig())
	ok, err := c.FileExists(path)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, ok, "existing file should be reported")

	ok, err = c.FileExists(filepath.Join(root, "missing.ts"))
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, ok, "missing file should not be reported")

	ok, err = c.FileExists(root)
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, ok, "directories are not files")
}
