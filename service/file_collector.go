package service

import (
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/config"
)

// FileCollectorImpl implements domain.FileCollector with the
// reviewable-path rules: extension allow-list, directory exclusions and
// optional .gitignore awareness
type FileCollectorImpl struct {
	extensions       map[string]bool
	excludeDirs      map[string]bool
	respectGitignore bool
}

// NewFileCollector creates a file collector from analysis configuration
func NewFileCollector(cfg *config.AnalysisConfig) *FileCollectorImpl {
	extensions := make(map[string]bool, len(cfg.IncludeExtensions))
	for _, ext := range cfg.IncludeExtensions {
		extensions[strings.ToLower(ext)] = true
	}
	excludeDirs := make(map[string]bool, len(cfg.ExcludeDirs))
	for _, dir := range cfg.ExcludeDirs {
		excludeDirs[dir] = true
	}
	return &FileCollectorImpl{
		extensions:       extensions,
		excludeDirs:      excludeDirs,
		respectGitignore: cfg.RespectGitignore,
	}
}

// CollectFiles resolves paths into reviewable file tasks. Explicit file
// paths are filtered by the extension rules; directories are walked
// recursively. Empty paths means full-tree discovery from projectRoot.
func (c *FileCollectorImpl) CollectFiles(projectRoot string, paths []string) ([]domain.FileTask, error) {
	if len(paths) == 0 {
		paths = []string{projectRoot}
	}

	ignorer := c.loadGitignore(projectRoot)

	var tasks []domain.FileTask
	seen := make(map[string]bool)

	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, err
		}

		if !info.IsDir() {
			if c.isReviewable(abs) && !seen[abs] {
				seen[abs] = true
				tasks = append(tasks, c.toTask(projectRoot, abs))
			}
			continue
		}

		err = filepath.Walk(abs, func(filePath string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				if c.excludeDirs[filepath.Base(filePath)] {
					return filepath.SkipDir
				}
				return nil
			}
			if !c.isReviewable(filePath) || seen[filePath] {
				return nil
			}
			if ignorer != nil {
				if rel, relErr := filepath.Rel(projectRoot, filePath); relErr == nil && ignorer.MatchesPath(rel) {
					return nil
				}
			}
			seen[filePath] = true
			tasks = append(tasks, c.toTask(projectRoot, filePath))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return tasks, nil
}

// FileExists reports whether path exists and is a regular file
func (c *FileCollectorImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (c *FileCollectorImpl) loadGitignore(projectRoot string) *gitignore.GitIgnore {
	if !c.respectGitignore {
		return nil
	}
	ignorer, err := gitignore.CompileIgnoreFile(filepath.Join(projectRoot, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignorer
}

func (c *FileCollectorImpl) isReviewable(path string) bool {
	return c.extensions[strings.ToLower(filepath.Ext(path))]
}

func (c *FileCollectorImpl) toTask(projectRoot, abs string) domain.FileTask {
	rel, err := filepath.Rel(projectRoot, abs)
	if err != nil {
		rel = abs
	}
	return domain.FileTask{AbsPath: abs, RelPath: filepath.ToSlash(rel)}
}
