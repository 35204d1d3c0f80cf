// Package scanner discovers templates and their language variants on disk by
// file name convention.
//
// For a game version the scanner walks <root>/<version>/<category>/ and
// reports every <version_underscored>_<category><flag>.json it finds.
// Language, notes and (on legacy versions) snapshot files are companions and
// never reported as templates. Discovered templates are synchronized into a
// registry.TemplateRegistry, which tells the scanner when a rescan is due.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/logging"
	"github.com/conneroisu/trackforge/internal/registry"
	"github.com/conneroisu/trackforge/internal/version"
)

// TemplateScanner finds templates below a Layout root.
type TemplateScanner struct {
	layout   Layout
	registry *registry.TemplateRegistry
	logger   logging.Logger

	// scanned tracks versions synchronized since the last dirty signal.
	mu      sync.Mutex
	scanned map[string]bool
}

// NewTemplateScanner creates a scanner feeding reg. A nil logger discards
// log output.
func NewTemplateScanner(layout Layout, reg *registry.TemplateRegistry, logger logging.Logger) *TemplateScanner {
	return &TemplateScanner{
		layout:   layout,
		registry: reg,
		logger:   logging.OrNop(logger).WithComponent("scanner"),
		scanned:  make(map[string]bool),
	}
}

// GetRegistry returns the template registry
func (s *TemplateScanner) GetRegistry() *registry.TemplateRegistry {
	return s.registry
}

// Layout returns the file layout the scanner reads.
func (s *TemplateScanner) Layout() Layout {
	return s.layout
}

// Refresh returns the templates of v, rescanning the disk only when the
// registry was marked dirty or v has not been scanned yet.
func (s *TemplateScanner) Refresh(ctx context.Context, v version.Game) ([]*registry.TemplateInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.registry.ConsumeDirty() {
		s.scanned = make(map[string]bool)
	}
	if !s.scanned[v.String()] {
		found, err := s.Scan(ctx, v)
		if err != nil {
			// Keep the request pending so the next call retries.
			s.registry.MarkDirty()
			return nil, err
		}
		events := s.registry.Sync(v.String(), found)
		s.scanned[v.String()] = true
		s.logger.Debug(ctx, "Catalog synchronized", "version", v.String(), "templates", len(found), "changes", events)
	}
	return s.registry.GetAll(v.String()), nil
}

// Scan walks the version directory of v and returns every template found,
// sorted by category and flag. A missing version directory yields no
// templates.
func (s *TemplateScanner) Scan(ctx context.Context, v version.Game) ([]*registry.TemplateInfo, error) {
	root := s.layout.VersionDir(v)
	categories, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, root, "failed to read version directory")
	}

	var found []*registry.TemplateInfo
	for _, cat := range categories {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !cat.IsDir() {
			continue
		}
		infos, err := s.scanCategory(v, cat.Name())
		if err != nil {
			return nil, err
		}
		found = append(found, infos...)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].Category != found[j].Category {
			return found[i].Category < found[j].Category
		}
		return found[i].Flag < found[j].Flag
	})
	return found, nil
}

func (s *TemplateScanner) scanCategory(v version.Game, category string) ([]*registry.TemplateInfo, error) {
	dir := s.layout.CategoryDir(v, category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, dir, "failed to read category directory")
	}

	var infos []*registry.TemplateInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		flag, ok := parseTemplateName(v, category, entry.Name())
		if !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		stat, err := entry.Info()
		if err != nil {
			return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, path, "failed to stat template")
		}
		hash, err := fileHash(path)
		if err != nil {
			return nil, err
		}

		infos = append(infos, &registry.TemplateInfo{
			Version:   v.String(),
			Category:  category,
			Flag:      flag,
			Path:      path,
			Languages: languagesIn(entries, BaseName(v, category, flag)),
			LastMod:   stat.ModTime(),
			Hash:      hash,
		})
	}
	return infos, nil
}

// Languages lists the language flags available for a template, sorted and
// deduplicated. The result is never empty: with no language file at all it
// holds the default language "".
func (s *TemplateScanner) Languages(v version.Game, category, flag string) ([]string, error) {
	dir := s.layout.CategoryDir(v, category)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{""}, nil
		}
		return nil, fe.WrapIO(err, fe.ErrCodeReadFailed, dir, "failed to read category directory")
	}
	return languagesIn(entries, BaseName(v, category, flag)), nil
}

func languagesIn(entries []fs.DirEntry, base string) []string {
	set := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if lang, ok := ParseLanguageName(base, entry.Name()); ok {
			set[lang] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []string{""}
	}
	langs := make([]string, 0, len(set))
	for l := range set {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs
}

func fileHash(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fe.WrapIO(err, fe.ErrCodeReadFailed, path, "failed to read template")
	}
	return fmt.Sprintf("%x", crc32.ChecksumIEEE(content)), nil
}
