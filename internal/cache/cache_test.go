package cache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileCacheReadsContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte("const a = 1;\n"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	c := NewFileCache()
	content, err := c.Read(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if content != "const a = 1;\n" {
		t.Errorf("Unexpected content: %q", content)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", c.Len())
	}
}

func TestFileCacheReadsOncePerPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	c := NewFileCache()
	if _, err := c.Read(path); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The second read must come from the cache, not the changed file.
	if err := os.WriteFile(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite test file: %v", err)
	}
	content, err := c.Read(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if content != "first" {
		t.Errorf("Expected cached content 'first', got %q", content)
	}
}

func TestFileCacheMissingFile(t *testing.T) {
	c := NewFileCache()
	if _, err := c.Read(filepath.Join(t.TempDir(), "missing.ts")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestFileCacheConcurrentReads(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.ts")
	if err := os.WriteFile(path, []byte("shared"), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	c := NewFileCache()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			content, err := c.Read(path)
			if err != nil || content != "shared" {
				t.Errorf("Concurrent read failed: %q, %v", content, err)
			}
		}()
	}
	wg.Wait()

	if c.Len() != 1 {
		t.Errorf("Expected a single cache entry, got %d", c.Len())
	}
}
