package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

func TestMergeRecipeCollapsed(t *testing.T) {
	doc := template.New()
	c := Candidates{Advancements: []ImportableAdvancement{{
		RootName: "minecraft:recipes/misc/x",
		IsDone:   true,
		Selected: true,
	}}}

	res, err := Merge(doc, c, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Advancements)

	require.Len(t, doc.Advancements, 1)
	adv := doc.Advancements[0]
	assert.True(t, adv.IsRecipe)
	assert.Empty(t, adv.Criteria)
	assert.Equal(t, "minecraft:recipes/misc/x", adv.DisplayName)
	assert.Equal(t, DefaultPlaceholderIcon, adv.IconPath)
}

func TestMergeDoneSingleCriterionCollapses(t *testing.T) {
	doc := template.New()
	c := Candidates{Advancements: []ImportableAdvancement{
		{RootName: "minecraft:story/mine_stone", IsDone: true, Selected: true,
			Criteria: []ImportableCriterion{{RootName: "get_stone", Selected: true}}},
		{RootName: "minecraft:adventure/kill_all", IsDone: true, Selected: true,
			Criteria: []ImportableCriterion{{RootName: "zombie", Selected: true}, {RootName: "skeleton"}}},
		{RootName: "minecraft:story/smelt_iron", Selected: true,
			Criteria: []ImportableCriterion{{RootName: "iron", Selected: true}}},
	}}

	res, err := Merge(doc, c, Options{PlaceholderIcon: "misc/unknown.png"})
	require.NoError(t, err)
	assert.Equal(t, Result{Advancements: 3, Criteria: 2}, res)

	assert.Empty(t, doc.Advancements[0].Criteria)
	assert.False(t, doc.Advancements[0].IsRecipe)

	require.Len(t, doc.Advancements[1].Criteria, 1, "only selected criteria are merged")
	assert.Equal(t, "zombie", doc.Advancements[1].Criteria[0].RootName)
	assert.Equal(t, "misc/unknown.png", doc.Advancements[1].Criteria[0].IconPath)

	require.Len(t, doc.Advancements[2].Criteria, 1, "not done keeps its single criterion")
}

func TestMergeStatsAndUnlocks(t *testing.T) {
	doc := template.New()
	c := Candidates{
		Stats:   []ImportableStat{{RootName: "minecraft:custom/minecraft:jump", Selected: true}, {RootName: "ignored"}, {RootName: "s2", Target: 50, Selected: true}},
		Unlocks: []ImportableUnlock{{RootName: "u1", Selected: true}},
	}

	res, err := Merge(doc, c, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total())

	require.Len(t, doc.Stats, 2)
	jump := doc.Stats[0]
	assert.True(t, jump.IsSimple)
	assert.Equal(t, 1, jump.SimpleTarget())
	assert.Equal(t, "minecraft:custom/minecraft:jump", jump.Criteria[0].RootName)
	assert.Equal(t, 50, doc.Stats[1].SimpleTarget())

	require.Len(t, doc.Unlocks, 1)
	assert.Equal(t, "u1", doc.Unlocks[0].DisplayName)
}

func TestMergeRejectsDuplicatesWithoutMutation(t *testing.T) {
	tests := []struct {
		name string
		c    Candidates
		dup  string
	}{
		{"existing advancement", Candidates{
			Advancements: []ImportableAdvancement{{RootName: "new", Selected: true}, {RootName: "existing", Selected: true}},
		}, "existing"},
		{"selected twice", Candidates{
			Stats: []ImportableStat{{RootName: "s", Selected: true}, {RootName: "s", Selected: true}},
		}, "s"},
		{"existing unlock", Candidates{
			Advancements: []ImportableAdvancement{{RootName: "fresh", Selected: true}},
			Unlocks:      []ImportableUnlock{{RootName: "u", Selected: true}},
		}, "u"},
		{"duplicate criterion", Candidates{
			Advancements: []ImportableAdvancement{{RootName: "fresh", Selected: true, Criteria: []ImportableCriterion{
				{RootName: "c", Selected: true}, {RootName: "c", Selected: true},
			}}},
		}, "c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := template.New()
			doc.Advancements = []template.Category{{RootName: "existing"}}
			doc.Unlocks = []template.Item{{RootName: "u"}}
			before := doc.Clone()

			_, err := Merge(doc, tt.c, Options{})
			require.Error(t, err)
			assert.True(t, fe.IsDuplicate(err))
			assert.Equal(t, tt.dup, fe.EntryOf(err))
			assert.Equal(t, before, doc)
		})
	}
}

func TestMergeIgnoresUnselectedDuplicates(t *testing.T) {
	doc := template.New()
	doc.Advancements = []template.Category{{RootName: "existing"}}

	_, err := Merge(doc, Candidates{Advancements: []ImportableAdvancement{{RootName: "existing"}}}, Options{})
	assert.NoError(t, err)
	assert.Len(t, doc.Advancements, 1)
}

func TestSelect(t *testing.T) {
	c := Candidates{
		Advancements: []ImportableAdvancement{{RootName: "a", Criteria: []ImportableCriterion{{RootName: "x"}}}, {RootName: "b"}},
		Stats:        []ImportableStat{{RootName: "s"}},
		Unlocks:      []ImportableUnlock{{RootName: "u"}},
	}
	c.Select("a", "u")
	assert.True(t, c.Advancements[0].Selected)
	assert.True(t, c.Advancements[0].Criteria[0].Selected)
	assert.False(t, c.Advancements[1].Selected)
	assert.False(t, c.Stats[0].Selected)
	assert.True(t, c.Unlocks[0].Selected)

	c.SelectAll()
	assert.True(t, c.Advancements[1].Selected)
	assert.True(t, c.Stats[0].Selected)
}

func TestLoadCandidates(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{
		"advancements": [{"root_name": "minecraft:recipes/x", "is_done": true, "criteria": [{"root_name": "has"}]}],
		"stats": [{"root_name": "s", "target": 3}]
	}`), 0o644))
	c, err := LoadCandidates(jsonPath)
	require.NoError(t, err)
	require.Len(t, c.Advancements, 1)
	assert.True(t, c.Advancements[0].IsDone)
	assert.Equal(t, "has", c.Advancements[0].Criteria[0].RootName)
	assert.Equal(t, 3, c.Stats[0].Target)

	yamlPath := filepath.Join(dir, "c.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("unlocks:\n  - root_name: u1\n    selected: true\n"), 0o644))
	c, err = LoadCandidates(yamlPath)
	require.NoError(t, err)
	require.Len(t, c.Unlocks, 1)
	assert.True(t, c.Unlocks[0].Selected)

	_, err = LoadCandidates(filepath.Join(dir, "missing.json"))
	assert.True(t, fe.IsNotFound(err))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = LoadCandidates(bad)
	assert.Equal(t, fe.ErrCodeParseFailed, fe.CodeOf(err))
}

func TestIsRecipe(t *testing.T) {
	assert.True(t, IsRecipe("minecraft:recipes/misc/bread"))
	assert.False(t, IsRecipe("minecraft:story/root"))
	assert.False(t, IsRecipe("recipes/misc"))
}
