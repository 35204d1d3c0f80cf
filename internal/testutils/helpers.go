// Package testutils holds fixtures shared by package tests: temporary
// workspaces with icon files and gopter generators for template documents.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Workspace is a temporary resources directory.
type Workspace struct {
	Root         string
	TemplatesDir string
	IconsDir     string
}

// CreateTempWorkspace creates empty templates and icons directories below
// a test temp dir.
func CreateTempWorkspace(t *testing.T) Workspace {
	t.Helper()
	root := t.TempDir()
	ws := Workspace{
		Root:         root,
		TemplatesDir: filepath.Join(root, "templates"),
		IconsDir:     filepath.Join(root, "icons"),
	}
	for _, dir := range []string{ws.TemplatesDir, ws.IconsDir} {
		require.NoError(t, os.MkdirAll(dir, 0o755))
	}
	return ws
}

// WriteIcons creates placeholder icon files for slash separated paths
// relative to the icons directory.
func (ws Workspace) WriteIcons(t *testing.T, rel ...string) {
	t.Helper()
	for _, r := range rel {
		WriteFile(t, filepath.Join(ws.IconsDir, filepath.FromSlash(r)), "png")
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
