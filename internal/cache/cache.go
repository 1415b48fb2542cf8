// Package cache provides the run-scoped file content cache shared by all
// analyzers and the merge-time reconciliation scan. The cache is created
// per pipeline invocation and discarded afterward; entries are write-once
// per key, so concurrent readers never observe partial content.
package cache

import (
	"os"
	"sync"
)

// FileCache lazily reads and memoizes file contents keyed by absolute path
type FileCache struct {
	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	once    sync.Once
	content string
	err     error
}

// NewFileCache creates an empty cache for one pipeline run
func NewFileCache() *FileCache {
	return &FileCache{entries: make(map[string]*entry)}
}

// Read returns the content of the file at absPath, reading it from disk
// at most once per run
func (c *FileCache) Read(absPath string) (string, error) {
	c.mu.Lock()
	e, ok := c.entries[absPath]
	if !ok {
		e = &entry{}
		c.entries[absPath] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		data, err := os.ReadFile(absPath)
		if err != nil {
			e.err = err
			return
		}
		e.content = string(data)
	})
	return e.content, e.err
}

// Len returns the number of cached entries
func (c *FileCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
