package codec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

func sampleDocument() *template.Document {
	return &template.Document{
		Advancements: []template.Category{
			{RootName: "minecraft:story/root", DisplayName: "Minecraft", IconPath: "blocks/grass.png", Criteria: []template.Item{
				{RootName: "crafting_table", DisplayName: "Crafting Table", IconPath: "blocks/crafting_table.png"},
			}},
			{RootName: "minecraft:recipes/misc/bread", DisplayName: "Bread", IconPath: "items/bread.png", IsRecipe: true, IsHidden: true},
		},
		Stats: []template.Category{
			{RootName: "jumps", DisplayName: "Jumps", IconPath: "items/feather.png", IsSimple: true, InSecondRow: true,
				Criteria: []template.Item{{RootName: "minecraft:custom/minecraft:jump", DisplayName: "Jumps", IconPath: "items/feather.png", Goal: 100}}},
			{RootName: "mined", DisplayName: "Mined", IconPath: "items/pickaxe.png", Criteria: []template.Item{
				{RootName: "minecraft:stone", DisplayName: "Stone", IconPath: "blocks/stone.png", Goal: -1},
				{RootName: "minecraft:dirt", DisplayName: "Dirt", IconPath: "blocks/dirt.png", Goal: 64, IsHidden: true},
			}},
		},
		Unlocks:     []template.Item{{RootName: "unlock_a", DisplayName: "Unlock A", IconPath: "a.png"}},
		CustomGoals: []template.Item{{RootName: "beat_game", DisplayName: "Beat the game", IconPath: "b.png", Goal: -1, InSecondRow: true}},
		MultiStageGoals: []template.MultiStageGoal{{
			RootName: "ms", DisplayName: "Multi", IconPath: "ms.png", UsePerStageIcons: true,
			Stages: []template.Stage{
				{StageID: "0", DisplayText: "Jump", IconPath: "s0.png", Kind: template.StageStat, TriggerRootName: "minecraft:custom/minecraft:jump", RequiredProgress: 10},
				{StageID: "1", DisplayText: "Craft", IconPath: "s1.png", Kind: template.StageCriterion, TriggerRootName: "crafting_table", ParentRootName: "minecraft:story/root"},
				{StageID: "2", DisplayText: "Done", IconPath: "s2.png", Kind: template.StageFinal},
			},
		}},
	}
}

func decodeGeneric(t *testing.T, data []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEncodeTemplateShape(t *testing.T) {
	tmpl, _, err := Encode(sampleDocument())
	require.NoError(t, err)

	root := decodeGeneric(t, tmpl)
	advs := root["advancements"].(map[string]interface{})
	story := advs["minecraft:story/root"].(map[string]interface{})
	assert.Equal(t, "blocks/grass.png", story["icon"])
	assert.NotContains(t, story, "hidden")
	assert.NotContains(t, story, "is_recipe")
	assert.Contains(t, story["criteria"], "crafting_table")

	bread := advs["minecraft:recipes/misc/bread"].(map[string]interface{})
	assert.Equal(t, true, bread["is_recipe"])
	assert.Equal(t, true, bread["hidden"])

	stats := root["stats"].(map[string]interface{})
	jumps := stats["jumps"].(map[string]interface{})
	assert.Equal(t, "minecraft:custom/minecraft:jump", jumps["root_name"])
	assert.EqualValues(t, 100, jumps["target"])
	assert.Equal(t, true, jumps["in_2nd_row"])
	assert.NotContains(t, jumps, "criteria")

	mined := stats["mined"].(map[string]interface{})
	assert.NotContains(t, mined, "root_name")
	crits := mined["criteria"].(map[string]interface{})
	assert.EqualValues(t, -1, crits["minecraft:stone"].(map[string]interface{})["target"])

	unlocks := root["unlocks"].([]interface{})
	require.Len(t, unlocks, 1)
	assert.Equal(t, map[string]interface{}{"root_name": "unlock_a", "icon": "a.png"}, unlocks[0])

	goals := root["multi_stage_goals"].([]interface{})
	goal := goals[0].(map[string]interface{})
	assert.Equal(t, true, goal["use_stage_icons"])
	stages := goal["stages"].([]interface{})
	require.Len(t, stages, 3)
	assert.Equal(t, "criterion", stages[1].(map[string]interface{})["type"])
	assert.Equal(t, "minecraft:story/root", stages[1].(map[string]interface{})["parent_advancement"])
	final := stages[2].(map[string]interface{})
	assert.Equal(t, "final", final["type"])
	assert.Equal(t, "", final["root_name"])
	assert.NotContains(t, final, "target")
}

func TestEncodeEmptyDocument(t *testing.T) {
	tmpl, lang, err := Encode(template.New())
	require.NoError(t, err)

	root := decodeGeneric(t, tmpl)
	assert.Equal(t, map[string]interface{}{}, root["advancements"])
	assert.Equal(t, []interface{}{}, root["unlocks"])
	assert.Equal(t, []interface{}{}, root["multi_stage_goals"])
	assert.Equal(t, "{}\n", string(lang))
}

func TestEncodePreservesOrder(t *testing.T) {
	doc := template.New()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		doc.Advancements = append(doc.Advancements, template.Category{RootName: name, IconPath: "x.png"})
	}
	tmpl, _, err := Encode(doc)
	require.NoError(t, err)

	var w wireDocument
	require.NoError(t, json.Unmarshal(tmpl, &w))
	keys := make([]string, len(w.Advancements))
	for i, m := range w.Advancements {
		keys[i] = m.Key
	}
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, keys)
}

func TestLanguageKeyOrder(t *testing.T) {
	_, lang, err := Encode(sampleDocument())
	require.NoError(t, err)

	keys, err := objectKeys(lang)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"advancement.minecraft.story.root",
		"advancement.minecraft.story.root.criteria.crafting_table",
		"advancement.minecraft.recipes.misc.bread",
		"stat.jumps",
		"stat.mined",
		"stat.mined.criteria.minecraft:stone",
		"stat.mined.criteria.minecraft:dirt",
		"unlock.unlock_a",
		"custom.beat_game",
		"multi_stage_goal.ms.display_name",
		"multi_stage_goal.ms.stage.0",
		"multi_stage_goal.ms.stage.1",
		"multi_stage_goal.ms.stage.2",
	}, keys)
}

func TestKeyBuilders(t *testing.T) {
	assert.Equal(t, "advancement.minecraft.story.mine_stone", AdvancementKey("minecraft:story/mine_stone"))
	assert.Equal(t, "advancement.x.criteria.c:1", CriterionKey("advancement.x", "c:1"))
	assert.Equal(t, "stat.minecraft:custom/x", StatKey("minecraft:custom/x"))
	assert.Equal(t, "unlock.u", UnlockKey("u"))
	assert.Equal(t, "custom.g", CustomKey("g"))
	assert.Equal(t, "multi_stage_goal.m.display_name", GoalKey("m"))
	assert.Equal(t, "multi_stage_goal.m.stage.3", StageKey("m", "3"))
}

func TestRoundTrip(t *testing.T) {
	doc := sampleDocument()
	tmpl, lang, err := Encode(doc)
	require.NoError(t, err)

	got, err := Decode(tmpl, lang)
	require.NoError(t, err)
	assert.Equal(t, doc, got)
}

func TestDecodeFallsBackToRootNames(t *testing.T) {
	tmpl, _, err := Encode(sampleDocument())
	require.NoError(t, err)

	doc, err := Decode(tmpl, nil)
	require.NoError(t, err)
	assert.Equal(t, "minecraft:story/root", doc.Advancements[0].DisplayName)
	assert.Equal(t, "crafting_table", doc.Advancements[0].Criteria[0].DisplayName)
	assert.Equal(t, "jumps", doc.Stats[0].DisplayName)
	assert.Equal(t, "ms", doc.MultiStageGoals[0].DisplayName)
	assert.Equal(t, "1", doc.MultiStageGoals[0].Stages[1].DisplayText)
}

func TestDecodeSimpleAndComplexStats(t *testing.T) {
	tmpl := []byte(`{
		"stats": {
			"simple": {"icon": "s.png", "root_name": "minecraft:jump", "target": 5},
			"empty_criteria": {"icon": "a.png", "root_name": "minecraft:walk", "target": 7, "criteria": {}},
			"complex": {"icon": "c.png", "criteria": {"minecraft:stone": {"icon": "st.png", "target": 3}}}
		}
	}`)
	lang := []byte(`{"stat.simple": "Simple"}`)

	doc, err := Decode(tmpl, lang)
	require.NoError(t, err)
	require.Len(t, doc.Stats, 3)

	simple := doc.Stats[0]
	assert.True(t, simple.IsSimple)
	require.Len(t, simple.Criteria, 1)
	assert.Equal(t, template.Item{RootName: "minecraft:jump", DisplayName: "Simple", IconPath: "s.png", Goal: 5}, simple.Criteria[0])

	// An empty criteria object does not make a stat complex.
	empty := doc.Stats[1]
	assert.True(t, empty.IsSimple)
	assert.Equal(t, []template.Item{{RootName: "minecraft:walk", DisplayName: "empty_criteria", IconPath: "a.png", Goal: 7}},
		empty.Criteria)

	complexStat := doc.Stats[2]
	assert.False(t, complexStat.IsSimple)
	require.Len(t, complexStat.Criteria, 1)
	assert.Equal(t, 3, complexStat.Criteria[0].Goal)
	assert.Empty(t, doc.Advancements)

	out, _, err := Encode(doc)
	require.NoError(t, err)
	stats := decodeGeneric(t, out)["stats"].(map[string]interface{})
	walk := stats["empty_criteria"].(map[string]interface{})
	assert.NotContains(t, walk, "criteria")
	assert.Equal(t, "minecraft:walk", walk["root_name"])
	assert.EqualValues(t, 7, walk["target"])
}

func TestEncodeComplexStatWithoutCriteria(t *testing.T) {
	doc := template.New()
	doc.Stats = []template.Category{{RootName: "mined", IconPath: "m.png"}}

	tmpl, _, err := Encode(doc)
	require.NoError(t, err)
	mined := decodeGeneric(t, tmpl)["stats"].(map[string]interface{})["mined"].(map[string]interface{})
	assert.NotContains(t, mined, "criteria")
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte(`{"advancements": [`), nil)
	require.Error(t, err)
	assert.Equal(t, fe.ErrCodeParseFailed, fe.CodeOf(err))

	_, err = Decode([]byte(`{"multi_stage_goals": [{"root_name": "m", "stages": [{"stage_id": "0", "type": "bogus"}]}]}`), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	_, err = Decode([]byte(`{}`), []byte(`[1, 2]`))
	require.Error(t, err)
}

func TestObjectKeysNested(t *testing.T) {
	keys, err := objectKeys([]byte(`{"b": {"x": 1, "y": [1, {"z": 2}]}, "a": "s", "c": [], "b": null}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, keys)

	_, err = objectKeys([]byte(`[1]`))
	assert.Error(t, err)
}

func TestStringMapSkipsNonStrings(t *testing.T) {
	m := newStringMap()
	require.NoError(t, json.Unmarshal([]byte(`{"a": "1", "b": 2, "c": "3"}`), m))
	assert.Equal(t, 2, m.Len())
	v, ok := m.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "3", v)
	_, ok = m.Get("b")
	assert.False(t, ok)
}

func TestSaveAndLoadFiles(t *testing.T) {
	dir := t.TempDir()
	tmplPath := filepath.Join(dir, "1.16.1", "all", "1_16_1_all.json")
	langPath := filepath.Join(dir, "1.16.1", "all", "1_16_1_all_lang.json")

	doc := sampleDocument()
	require.NoError(t, SaveFiles(tmplPath, langPath, doc))

	loaded, err := LoadFiles(tmplPath, langPath)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	entries, err := os.ReadDir(filepath.Dir(tmplPath))
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary files must not be left behind")
}

func TestLoadFilesMissing(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFiles(filepath.Join(dir, "nope.json"), "")
	require.Error(t, err)
	assert.True(t, fe.IsNotFound(err))

	tmplPath := filepath.Join(dir, "t.json")
	require.NoError(t, os.WriteFile(tmplPath, []byte(`{"unlocks": [{"root_name": "u", "icon": "u.png"}]}`), 0o644))
	doc, err := LoadFiles(tmplPath, filepath.Join(dir, "t_lang.json"))
	require.NoError(t, err)
	assert.Equal(t, "u", doc.Unlocks[0].DisplayName)

	require.NoError(t, os.WriteFile(tmplPath, []byte(`not json`), 0o644))
	_, err = LoadFiles(tmplPath, "")
	require.Error(t, err)
	assert.Equal(t, fe.ErrCodeParseFailed, fe.CodeOf(err))
	assert.Contains(t, err.Error(), tmplPath)
}
