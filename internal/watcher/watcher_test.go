package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/trackforge/internal/registry"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		path     string
		template bool
		hidden   bool
		temp     bool
	}{
		{"t/1.16.1/all/1_16_1_all.json", true, false, false},
		{"t/1.16.1/all/1_16_1_all_notes.txt", true, false, false},
		{"t/1.16.1/all/.1_16_1_all.json.123.tmp", false, true, true},
		{"t/1.16.1/all/readme.md", false, false, false},
		{"t/1.16.1/all/1_16_1_all.json~", false, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.template, TemplateFileFilter(tc.path))
			assert.Equal(t, !tc.hidden, NoHiddenFilter(tc.path))
			assert.Equal(t, !tc.temp, NoTempFilter(tc.path))
		})
	}
}

func TestDebouncerCoalescesByPath(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)

	d.addEvent(ChangeEvent{Type: EventTypeCreated, Path: "b.json"})
	d.addEvent(ChangeEvent{Type: EventTypeModified, Path: "a.json"})
	d.addEvent(ChangeEvent{Type: EventTypeDeleted, Path: "b.json"})

	select {
	case events := <-d.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.json", events[0].Path)
		assert.Equal(t, "b.json", events[1].Path)
		assert.Equal(t, EventTypeDeleted, events[1].Type, "the latest event for a path wins")
	case <-time.After(2 * time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerFlushEmpty(t *testing.T) {
	d := newDebouncer(time.Millisecond)
	d.flush()
	assert.Empty(t, d.output)
}

func TestMarkDirtyHandler(t *testing.T) {
	reg := registry.NewTemplateRegistry()
	reg.ConsumeDirty()

	h := MarkDirtyHandler(reg, nil)
	require.NoError(t, h([]ChangeEvent{{Path: "x.json"}}))
	assert.True(t, reg.ConsumeDirty())
}

func TestAddRecursiveSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "1.16.1", "all"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))

	fw, err := NewFileWatcher(10*time.Millisecond, nil)
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, fw.AddRecursive(root))
	list := fw.WatchList()
	assert.Contains(t, list, filepath.Join(root, "1.16.1", "all"))
	for _, p := range list {
		assert.NotContains(t, p, ".git")
	}

	assert.Error(t, fw.AddRecursive(filepath.Join(root, "missing")))
}

func TestWatchTemplatesMarksRegistryDirty(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "1.16.1", "all")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	reg := registry.NewTemplateRegistry()
	reg.ConsumeDirty()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := WatchTemplates(ctx, root, 20*time.Millisecond, reg, nil)
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "1_16_1_all.json"), []byte("{}"), 0o644))

	assert.Eventually(t, reg.IsDirty, 5*time.Second, 20*time.Millisecond)
}

func TestWatchTemplatesIgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()

	reg := registry.NewTemplateRegistry()
	reg.ConsumeDirty()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fw, err := WatchTemplates(ctx, root, 10*time.Millisecond, reg, nil)
	require.NoError(t, err)
	defer fw.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(root, "readme.md"), []byte("x"), 0o644))

	assert.Never(t, reg.IsDirty, 200*time.Millisecond, 20*time.Millisecond)
}
