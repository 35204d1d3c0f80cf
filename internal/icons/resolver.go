// Package icons resolves icon paths against the icons resource directory.
package icons

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/conneroisu/trackforge/internal/validation"
)

// DirResolver answers icon existence for paths relative to Root.
type DirResolver struct {
	Root string
}

// NewDirResolver returns a resolver rooted at dir.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{Root: dir}
}

// Exists implements validation.IconResolver. Paths escaping Root never
// exist.
func (r *DirResolver) Exists(relPath string) bool {
	if err := validation.ValidateRelativePath(relPath); err != nil {
		return false
	}
	info, err := os.Stat(filepath.Join(r.Root, filepath.FromSlash(relPath)))
	return err == nil && !info.IsDir()
}

// List returns every icon below Root as slash separated relative paths,
// sorted. Only files with one of the given extensions are listed; no
// extensions lists everything.
func (r *DirResolver) List(exts ...string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(r.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !hasExt(path, exts) {
			return nil
		}
		rel, err := filepath.Rel(r.Root, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func hasExt(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == strings.ToLower(e) {
			return true
		}
	}
	return false
}

var _ validation.IconResolver = (*DirResolver)(nil)
