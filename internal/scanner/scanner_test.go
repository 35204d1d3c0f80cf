package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/trackforge/internal/registry"
	"github.com/conneroisu/trackforge/internal/version"
)

func touch(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newScanner(t *testing.T) (*TemplateScanner, string) {
	t.Helper()
	root := t.TempDir()
	return NewTemplateScanner(Layout{Root: root}, registry.NewTemplateRegistry(), nil), root
}

func ids(infos []*registry.TemplateInfo) []string {
	out := make([]string, len(infos))
	for i, info := range infos {
		out[i] = info.ID()
	}
	return out
}

func TestLayoutPaths(t *testing.T) {
	v := version.MustParseGame("1.16.1")
	l := Layout{Root: "templates"}

	assert.Equal(t, filepath.Join("templates", "1.16.1", "all"), l.CategoryDir(v, "all"))
	assert.Equal(t, "1_16_1_all_opt", BaseName(v, "all", "_opt"))
	assert.Equal(t, filepath.Join("templates", "1.16.1", "all", "1_16_1_all_opt.json"), l.TemplatePath(v, "all", "_opt"))
	assert.Equal(t, filepath.Join("templates", "1.16.1", "all", "1_16_1_all_lang.json"), l.LanguagePath(v, "all", "", ""))
	assert.Equal(t, filepath.Join("templates", "1.16.1", "all", "1_16_1_all_lang_de.json"), l.LanguagePath(v, "all", "", "de"))
	assert.Equal(t, filepath.Join("templates", "1.16.1", "all", "1_16_1_all_notes.txt"), l.NotesPath(v, "all", ""))
}

func TestScanDiscoversTemplates(t *testing.T) {
	s, root := newScanner(t)
	v := version.MustParseGame("1.16.1")
	dir := filepath.Join(root, "1.16.1", "all_advancements")

	touch(t, filepath.Join(dir, "1_16_1_all_advancements.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_optimized.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_lang.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_lang_de.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_lang_de.json.bak"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_notes.txt"), "notes")
	touch(t, filepath.Join(dir, "1_16_1_all_advancements_snapshot.json"), "{}")
	touch(t, filepath.Join(dir, "1_12_all_advancements.json"), "{}")
	touch(t, filepath.Join(dir, "readme.md"), "x")
	touch(t, filepath.Join(root, "1.16.1", "stray.json"), "{}")

	found, err := s.Scan(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, []string{"all_advancements", "all_advancements_optimized", "all_advancements_snapshot"}, ids(found))

	base := found[0]
	assert.Equal(t, "", base.Flag)
	assert.Equal(t, []string{"", "de"}, base.Languages)
	assert.NotEmpty(t, base.Hash)
	assert.Equal(t, "1.16.1", base.Version)

	assert.Equal(t, "_optimized", found[1].Flag)
	assert.Equal(t, []string{""}, found[1].Languages, "defaults to the empty language")
}

func TestScanLegacySkipsSnapshots(t *testing.T) {
	s, root := newScanner(t)
	v := version.MustParseGame("1.6.4")
	dir := filepath.Join(root, "1.6.4", "achievements")

	touch(t, filepath.Join(dir, "1_6_4_achievements.json"), "{}")
	touch(t, filepath.Join(dir, "1_6_4_achievements_snapshot.json"), "{}")

	found, err := s.Scan(context.Background(), v)
	require.NoError(t, err)
	assert.Equal(t, []string{"achievements"}, ids(found))
}

func TestScanMissingVersion(t *testing.T) {
	s, _ := newScanner(t)
	found, err := s.Scan(context.Background(), version.MustParseGame("1.21"))
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestScanCancelled(t *testing.T) {
	s, root := newScanner(t)
	touch(t, filepath.Join(root, "1.16.1", "a", "1_16_1_a.json"), "{}")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Scan(ctx, version.MustParseGame("1.16.1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLanguages(t *testing.T) {
	s, root := newScanner(t)
	v := version.MustParseGame("1.16.1")
	dir := filepath.Join(root, "1.16.1", "all")

	touch(t, filepath.Join(dir, "1_16_1_all_lang_fr.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_lang_de.json"), "{}")
	touch(t, filepath.Join(dir, "1_16_1_all_x_lang_es.json"), "{}")

	langs, err := s.Languages(v, "all", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"de", "fr"}, langs)

	langs, err = s.Languages(v, "all", "_x")
	require.NoError(t, err)
	assert.Equal(t, []string{"es"}, langs)

	langs, err = s.Languages(v, "missing", "")
	require.NoError(t, err)
	assert.Equal(t, []string{""}, langs)
}

func TestRefreshUsesDirtyFlag(t *testing.T) {
	s, root := newScanner(t)
	v := version.MustParseGame("1.16.1")
	ctx := context.Background()
	touch(t, filepath.Join(root, "1.16.1", "a", "1_16_1_a.json"), "{}")

	infos, err := s.Refresh(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(infos))

	// Without a dirty signal the registry is served as is.
	touch(t, filepath.Join(root, "1.16.1", "b", "1_16_1_b.json"), "{}")
	infos, err = s.Refresh(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(infos))

	s.GetRegistry().MarkDirty()
	infos, err = s.Refresh(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids(infos))
	assert.False(t, s.GetRegistry().IsDirty())
}

func TestParseTemplateName(t *testing.T) {
	v := version.MustParseGame("1.16.1")
	tests := []struct {
		name string
		flag string
		ok   bool
	}{
		{"1_16_1_all.json", "", true},
		{"1_16_1_all_v2.json", "_v2", true},
		{"1_16_1_allx.json", "x", true},
		{"1_16_1_all_lang.json", "", false},
		{"1_16_1_all_notes.json", "", false},
		{"1_16_1_other.json", "", false},
		{"1_16_1_all.txt", "", false},
	}
	for _, tt := range tests {
		flag, ok := parseTemplateName(v, "all", tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.flag, flag, tt.name)
	}
}
