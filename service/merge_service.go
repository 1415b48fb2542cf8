package service

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ludo-technologies/tsreview/domain"
	"github.com/ludo-technologies/tsreview/internal/analyzer"
	"github.com/ludo-technologies/tsreview/internal/cache"
)

// MergeService reconciles raw external tool outputs into the per-file
// result set. Dead-code candidates are reclassified by a secondary
// occurrence scan over the implicated files; duplicate pairs fan out
// into mirrored per-file segment records.
type MergeService struct {
	projectRoot string
	cache       *cache.FileCache
	executor    domain.ParallelExecutor
	occurrences *analyzer.OccurrenceCounter
	topGroups   int
}

// NewMergeService creates a merge service scoped to one review run
func NewMergeService(projectRoot string, fc *cache.FileCache, executor domain.ParallelExecutor, topGroups int) *MergeService {
	if topGroups <= 0 {
		topGroups = 5
	}
	return &MergeService{
		projectRoot: projectRoot,
		cache:       fc,
		executor:    executor,
		occurrences: analyzer.NewOccurrenceCounter(),
		topGroups:   topGroups,
	}
}

// MergeDeadCode reclassifies every dead-code candidate and records the
// deadcode category on each reviewed file. A symbol reported as unused
// but occurring at least twice in its own file is used internally and
// only over-exported; everything else is genuinely deletable.
func (s *MergeService) MergeDeadCode(ctx context.Context, out *domain.DeadCodeOutput, results []*domain.FileResult) (*domain.RepoDeadCode, error) {
	byPath := indexResults(results)
	repo := &domain.RepoDeadCode{}

	if out == nil {
		for _, r := range results {
			r.Skip(domain.CategoryDeadCode)
		}
		return repo, nil
	}

	violations := make([][]domain.Violation, len(out.Files))
	err := s.executor.ForEach(ctx, len(out.Files), func(ctx context.Context, i int) error {
		file := out.Files[i]
		vs, err := s.reclassifyFile(file)
		if err != nil {
			return err
		}
		violations[i] = vs
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, file := range out.Files {
		repo.UnlistedDeps = append(repo.UnlistedDeps, file.UnlistedDeps...)
		if result := byPath[s.normalize(file.FilePath)]; result != nil {
			result.Set(domain.CategoryDeadCode, violations[i])
		}
	}

	for _, r := range results {
		if _, ok := r.Categories[domain.CategoryDeadCode]; !ok {
			r.Set(domain.CategoryDeadCode, nil)
		}
	}

	for _, f := range out.UnusedFiles {
		repo.UnusedFiles = append(repo.UnusedFiles, filepath.ToSlash(f))
	}
	sort.Strings(repo.UnusedFiles)
	repo.UnlistedDeps = dedupeSorted(repo.UnlistedDeps)
	return repo, nil
}

func (s *MergeService) reclassifyFile(file domain.DeadCodeFileReport) ([]domain.Violation, error) {
	abs := file.FilePath
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(s.projectRoot, filepath.FromSlash(file.FilePath))
	}
	content, err := s.cache.Read(abs)
	if err != nil {
		return nil, domain.NewAnalysisError(fmt.Sprintf("failed to re-read %s for dead-code reconciliation", file.FilePath), err)
	}

	var violations []domain.Violation
	groups := []struct {
		kind    string
		symbols []domain.SymbolRef
	}{
		{"export", file.UnusedExports},
		{"type", file.UnusedTypes},
		{"enum member", file.UnusedEnumMembers},
		{"class member", file.UnusedClassMembers},
	}
	for _, g := range groups {
		for _, sym := range g.symbols {
			violations = append(violations, s.classifySymbol(content, g.kind, sym))
		}
	}
	for _, imp := range file.UnresolvedImports {
		violations = append(violations, domain.Violation{
			Rule:    "unresolved-import",
			Message: fmt.Sprintf("import %q cannot be resolved", imp),
			Advice:  "fix the import path or add the missing dependency",
			Symbol:  imp,
		})
	}
	return violations, nil
}

func (s *MergeService) classifySymbol(content, kind string, sym domain.SymbolRef) domain.Violation {
	name := sym.Name
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if s.occurrences.Count(content, name) >= 2 {
		return domain.Violation{
			Line:    sym.Line,
			Column:  sym.Column,
			Rule:    "unused-exported",
			Message: fmt.Sprintf("%s %q is exported but only used inside this file", kind, sym.Name),
			Advice:  "remove the export keyword; keep the declaration",
			Symbol:  sym.Name,
		}
	}
	return domain.Violation{
		Line:    sym.Line,
		Column:  sym.Column,
		Rule:    "unused",
		Message: fmt.Sprintf("%s %q is never used", kind, sym.Name),
		Advice:  "delete the declaration",
		Symbol:  sym.Name,
	}
}

// MergeDuplicates fans each duplicate pair out into two mirrored
// per-file segment records and aggregates the largest pairs into the
// repo-level group list with a suggested consolidation location.
func (s *MergeService) MergeDuplicates(out *domain.DuplicateOutput, results []*domain.FileResult) *domain.RepoDuplication {
	_ = indexResults(results)
	repo := &domain.RepoDuplication{}

	if out == nil {
		for _, r := range results {
			r.Skip(domain.CategoryDuplication)
		}
		return repo
	}
	repo.Percentage = out.Percentage

	perFile := make(map[string][]domain.Violation)
	for _, pair := range out.Pairs {
		s.appendSegment(perFile, pair.First, pair.Second, pair.Lines)
		s.appendSegment(perFile, pair.Second, pair.First, pair.Lines)
	}

	for _, r := range results {
		r.Set(domain.CategoryDuplication, perFile[r.Task.RelPath])
	}

	pairs := make([]domain.DuplicatePair, len(out.Pairs))
	copy(pairs, out.Pairs)
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Tokens > pairs[j].Tokens
	})
	if len(pairs) > s.topGroups {
		pairs = pairs[:s.topGroups]
	}
	for _, pair := range pairs {
		repo.TopGroups = append(repo.TopGroups, domain.DuplicateGroup{
			First:             pair.First,
			Second:            pair.Second,
			Tokens:            pair.Tokens,
			Lines:             pair.Lines,
			SuggestedLocation: lowestCommonDir(s.normalize(pair.First.File), s.normalize(pair.Second.File)),
		})
	}
	return repo
}

func (s *MergeService) appendSegment(perFile map[string][]domain.Violation, own, other domain.Span, lines int) {
	rel := s.normalize(own.File)
	perFile[rel] = append(perFile[rel], domain.Violation{
		Line: own.StartLine,
		Rule: "duplicate-block",
		Message: fmt.Sprintf("lines %d-%d duplicate %s:%d-%d (%d lines)",
			own.StartLine, own.EndLine, s.normalize(other.File), other.StartLine, other.EndLine, lines),
		Advice: "extract the shared logic into one location",
	})
}

// normalize maps a tool-reported file path onto the repo-relative slash
// form used as file identity throughout the result set
func (s *MergeService) normalize(p string) string {
	if filepath.IsAbs(p) {
		if rel, err := filepath.Rel(s.projectRoot, p); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(p)
}

func indexResults(results []*domain.FileResult) map[string]*domain.FileResult {
	byPath := make(map[string]*domain.FileResult, len(results))
	for _, r := range results {
		byPath[r.Task.RelPath] = r
	}
	return byPath
}

func dedupeSorted(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	sort.Strings(items)
	out := items[:1]
	for _, item := range items[1:] {
		if item != out[len(out)-1] {
			out = append(out, item)
		}
	}
	return out
}

// lowestCommonDir returns the deepest directory containing both paths,
// used as the suggested home for consolidated duplicate logic
func lowestCommonDir(a, b string) string {
	da := strings.Split(path.Dir(a), "/")
	db := strings.Split(path.Dir(b), "/")
	n := len(da)
	if len(db) < n {
		n = len(db)
	}
	var common []string
	for i := 0; i < n; i++ {
		if da[i] != db[i] {
			break
		}
		common = append(common, da[i])
	}
	if len(common) == 0 {
		return "."
	}
	return path.Join(common...)
}
