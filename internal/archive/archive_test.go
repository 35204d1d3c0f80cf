package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/trackforge/internal/catalog"
	"github.com/conneroisu/trackforge/internal/codec"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/registry"
	"github.com/conneroisu/trackforge/internal/scanner"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/version"
)

var v1161 = version.MustParseGame("1.16.1")

func newCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	s := scanner.NewTemplateScanner(scanner.Layout{Root: t.TempDir()}, registry.NewTemplateRegistry(), nil)
	return catalog.New(s, catalog.Options{})
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestExportImportRoundTrip(t *testing.T) {
	cat := newCatalog(t)
	ctx := context.Background()
	src := catalog.Ref{Version: v1161, Category: "all"}

	doc := template.New()
	doc.CustomGoals = []template.Item{{RootName: "g", DisplayName: "Goal", IconPath: "g.png", Goal: -1}}
	require.NoError(t, codec.SaveFiles(cat.TemplatePath(src), cat.LanguagePath(src, ""), doc))
	require.NoError(t, cat.CreateLanguage(ctx, src, "de"))
	require.NoError(t, os.WriteFile(cat.NotesPath(src), []byte("notes"), 0o644))

	zipPath := filepath.Join(t.TempDir(), "all.zip")
	n, err := Export(ctx, cat, src, zipPath)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	dst := catalog.Ref{Version: v1161, Category: "all", Flag: "_imported"}
	skipped, err := Import(ctx, cat, zipPath, dst)
	require.NoError(t, err)
	assert.Empty(t, skipped)

	got, err := codec.LoadFiles(cat.TemplatePath(dst), cat.LanguagePath(dst, ""))
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.FileExists(t, cat.LanguagePath(dst, "de"))
	assert.FileExists(t, cat.NotesPath(dst))

	_, err = Import(ctx, cat, zipPath, dst)
	assert.True(t, fe.IsDuplicate(err), "destination must be unused")
}

func TestImportSkipsForeignEntries(t *testing.T) {
	cat := newCatalog(t)
	zipPath := filepath.Join(t.TempDir(), "x.zip")
	writeZip(t, zipPath, map[string]string{
		"1_12_foo.json":         `{}`,
		"1_12_foo_lang_fr.json": `{}`,
		"readme.md":             "hello",
	})

	dst := catalog.Ref{Version: v1161, Category: "foo"}
	skipped, err := Import(context.Background(), cat, zipPath, dst)
	require.NoError(t, err)
	assert.Equal(t, []string{"readme.md"}, skipped)
	assert.True(t, cat.Exists(dst))
	assert.FileExists(t, cat.LanguagePath(dst, "fr"))
}

func TestImportRejectsBadArchives(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		// Unsafe names may already be refused when the archive is opened.
		validation bool
	}{
		{"no template", map[string]string{"x_lang.json": "{}"}, true},
		{"two templates", map[string]string{"a.json": "{}", "b.json": "{}"}, true},
		{"path escape", map[string]string{"../evil.json": "{}"}, false},
		{"absolute path", map[string]string{"/etc/evil.json": "{}"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newCatalog(t)
			zipPath := filepath.Join(t.TempDir(), "bad.zip")
			writeZip(t, zipPath, tt.entries)

			dst := catalog.Ref{Version: v1161, Category: "dst"}
			_, err := Import(context.Background(), cat, zipPath, dst)
			require.Error(t, err)
			if tt.validation {
				assert.True(t, fe.IsValidation(err))
			}
			assert.False(t, cat.Exists(dst), "nothing may be written")
		})
	}
}

func TestImportRejectsUndecodableEntries(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
	}{
		{"broken template", map[string]string{"a.json": `{"advancements": [`}},
		{"bad stage type", map[string]string{"a.json": `{"multi_stage_goals": [{"root_name": "m", "stages": [{"stage_id": "0", "type": "bogus"}]}]}`}},
		{"broken language", map[string]string{"a.json": `{}`, "a_lang_de.json": `[1, 2]`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat := newCatalog(t)
			zipPath := filepath.Join(t.TempDir(), "bad.zip")
			writeZip(t, zipPath, tt.entries)

			dst := catalog.Ref{Version: v1161, Category: "dst"}
			_, err := Import(context.Background(), cat, zipPath, dst)
			require.Error(t, err)
			assert.True(t, fe.IsValidation(err))
			assert.Equal(t, fe.ErrCodeParseFailed, fe.CodeOf(err))
			assert.False(t, cat.Exists(dst))
			assert.NoFileExists(t, cat.LanguagePath(dst, "de"))
		})
	}
}

func TestImportRemovesPartialFiles(t *testing.T) {
	cat := newCatalog(t)
	zipPath := filepath.Join(t.TempDir(), "x.zip")
	writeZip(t, zipPath, map[string]string{
		"a.json":         `{}`,
		"a_lang.json":    `{}`,
		"a_lang_de.json": `{}`,
	})

	// A non-empty directory where the German language file goes makes that
	// write fail whatever the entry order.
	dst := catalog.Ref{Version: v1161, Category: "dst"}
	blocker := cat.LanguagePath(dst, "de")
	require.NoError(t, os.MkdirAll(blocker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(blocker, "keep"), nil, 0o644))

	_, err := Import(context.Background(), cat, zipPath, dst)
	require.Error(t, err)
	assert.False(t, cat.Exists(dst))
	assert.NoFileExists(t, cat.LanguagePath(dst, ""))
}

func TestExportFailureRemovesArchive(t *testing.T) {
	cat := newCatalog(t)
	src := catalog.Ref{Version: v1161, Category: "all"}
	require.NoError(t, codec.SaveFiles(cat.TemplatePath(src), cat.LanguagePath(src, ""), template.New()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	zipPath := filepath.Join(t.TempDir(), "all.zip")
	_, err := Export(ctx, cat, src, zipPath)
	require.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, zipPath)
}

func TestImportMissingArchive(t *testing.T) {
	cat := newCatalog(t)
	_, err := Import(context.Background(), cat, filepath.Join(t.TempDir(), "nope.zip"), catalog.Ref{Version: v1161, Category: "a"})
	assert.True(t, fe.IsNotFound(err))
}

func TestExportMissingTemplate(t *testing.T) {
	cat := newCatalog(t)
	_, err := Export(context.Background(), cat, catalog.Ref{Version: v1161, Category: "a"}, filepath.Join(t.TempDir(), "a.zip"))
	assert.True(t, fe.IsNotFound(err))
}
