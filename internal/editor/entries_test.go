package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/trackforge/internal/catalog"
	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/version"
)

func newSession(t *testing.T) *Session {
	t.Helper()
	f := newFixture(t)
	return f.open(t, catalog.Ref{Version: version.MustParseGame("1.16.1"), Category: "all"})
}

func TestSelectionSurvivesReorder(t *testing.T) {
	s := newSession(t)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, s.AddUnlock(template.Item{RootName: name}))
	}
	require.NoError(t, s.Select(template.CollectionUnlocks, "c"))

	require.NoError(t, s.Move(template.CollectionUnlocks, "c", 0))
	sel, i, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "c", sel.RootName)
	assert.Equal(t, 0, i)

	require.NoError(t, s.Remove(template.CollectionUnlocks, "a"))
	_, i, ok = s.Selected()
	require.True(t, ok)
	assert.Equal(t, 0, i)

	require.NoError(t, s.Remove(template.CollectionUnlocks, "c"))
	_, _, ok = s.Selected()
	assert.False(t, ok)

	assert.True(t, fe.IsNotFound(s.Select(template.CollectionUnlocks, "zzz")))
	assert.True(t, fe.IsNotFound(s.Remove(template.CollectionUnlocks, "zzz")))
	assert.True(t, fe.IsNotFound(s.Move(template.CollectionUnlocks, "zzz", 0)))
}

func TestAddRejectsDuplicates(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddAdvancement(template.Category{RootName: "foo"}))
	err := s.AddAdvancement(template.Category{RootName: "foo"})
	require.Error(t, err)
	assert.True(t, fe.IsDuplicate(err))
	assert.Len(t, s.Document().Advancements, 1)

	// The same root name is fine in another collection.
	require.NoError(t, s.AddStat(template.Category{RootName: "foo"}))
	require.NoError(t, s.AddGoal(template.MultiStageGoal{RootName: "foo"}))
	require.NoError(t, s.AddCustomGoal(template.Item{RootName: "foo"}))
}

func TestRename(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddStat(template.Category{RootName: "a"}))
	require.NoError(t, s.AddStat(template.Category{RootName: "b"}))
	require.NoError(t, s.Select(template.CollectionStats, "a"))

	require.NoError(t, s.Rename(template.CollectionStats, "a", "z"))
	sel, i, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, "z", sel.RootName)
	assert.Equal(t, 0, i)

	assert.True(t, fe.IsDuplicate(s.Rename(template.CollectionStats, "z", "b")))
	assert.True(t, fe.IsValidation(s.Rename(template.CollectionStats, "z", "")))
	assert.True(t, fe.IsNotFound(s.Rename(template.CollectionStats, "a", "q")))
	assert.NoError(t, s.Rename(template.CollectionStats, "z", "z"))
}

func TestToggleSimpleReportsDroppedCriteria(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddStat(template.Category{
		RootName: "mined",
		Criteria: []template.Item{
			{RootName: "stone", Goal: 10},
			{RootName: "dirt", Goal: 20},
			{RootName: "sand", Goal: 30},
		},
	}))

	dropped, err := s.ToggleSimple("mined")
	require.NoError(t, err)
	assert.Equal(t, 2, dropped)
	stat := s.Document().Stat("mined")
	assert.True(t, stat.IsSimple)
	assert.Equal(t, []template.Item{{RootName: "stone", Goal: 10}}, stat.Criteria)

	dropped, err = s.ToggleSimple("mined")
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.False(t, s.Document().Stat("mined").IsSimple)

	_, err = s.ToggleSimple("nope")
	assert.True(t, fe.IsNotFound(err))
}

func TestSetSimpleOnEmptyStat(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddStat(template.Category{RootName: "jumps", DisplayName: "Jumps", IconPath: "j.png"}))

	dropped, err := s.SetSimple("jumps", true)
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Equal(t, []template.Item{{RootName: "jumps", DisplayName: "Jumps", IconPath: "j.png", Goal: 1}},
		s.Document().Stat("jumps").Criteria)

	dropped, err = s.SetSimple("jumps", true)
	require.NoError(t, err)
	assert.Zero(t, dropped)
}

func TestStageOperations(t *testing.T) {
	s := newSession(t)
	require.NoError(t, s.AddGoal(template.MultiStageGoal{RootName: "g"}))
	require.NoError(t, s.AddStage("g", template.Stage{StageID: "final", Kind: template.StageFinal}))
	require.NoError(t, s.AddStage("g", template.Stage{StageID: "first", Kind: template.StageUnlock, TriggerRootName: "u"}))

	require.NoError(t, s.MoveStage("g", "first", 0))
	ids := func() []string {
		var out []string
		for _, st := range s.Document().Goal("g").Stages {
			out = append(out, st.StageID)
		}
		return out
	}
	assert.Equal(t, []string{"first", "final"}, ids())

	require.NoError(t, s.UpdateStage("g", "first", template.Stage{StageID: "start", Kind: template.StageUnlock, TriggerRootName: "u"}))
	assert.Equal(t, []string{"start", "final"}, ids())
	assert.True(t, fe.IsDuplicate(s.UpdateStage("g", "start", template.Stage{StageID: "final"})))

	assert.True(t, fe.IsNotFound(s.MoveStage("g", "nope", 0)))
	assert.True(t, fe.IsNotFound(s.RemoveStage("g", "nope")))
	assert.True(t, fe.IsNotFound(s.AddStage("missing", template.Stage{StageID: "x"})))
}
