package testutils

import (
	"reflect"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"github.com/conneroisu/trackforge/internal/template"
)

// Generated documents keep root names unique per collection, per category
// and per goal, so they survive an encode and decode cycle unchanged. They
// are not necessarily valid.

// TriggerNames is the small pool Stat stage triggers are drawn from, so
// goals share triggers and helper stats collide with them.
var TriggerNames = []interface{}{"16908566", "jump", "mine_block", "walk"}

func genName() gopter.Gen {
	return gen.Identifier().Map(func(s string) string {
		if len(s) > 12 {
			return s[:12]
		}
		return s
	})
}

func genIcon() gopter.Gen {
	return gen.OneConstOf("", "blocks/stone.png", "items/apple.png", "misc/star.png")
}

func upTo[T any](max int, g gopter.Gen) gopter.Gen {
	return between[T](0, max, g)
}

func between[T any](min, max int, g gopter.Gen) gopter.Gen {
	return gen.IntRange(min, max).FlatMap(func(n interface{}) gopter.Gen {
		return gen.SliceOfN(n.(int), g, reflect.TypeOf((*T)(nil)).Elem())
	}, reflect.TypeOf([]T(nil)))
}

func uniqueBy[T any](in []T, key func(T) string) []T {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0:0]
	for _, v := range in {
		k := key(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, v)
	}
	return out
}

func itemRoot(it template.Item) string          { return it.RootName }
func categoryRoot(c template.Category) string   { return c.RootName }
func goalRoot(g template.MultiStageGoal) string { return g.RootName }
func stageID(s template.Stage) string           { return s.StageID }

// GenItem generates a criterion, unlock or custom goal.
func GenItem() gopter.Gen {
	return gopter.CombineGens(
		genName(), gen.AlphaString(), genIcon(), gen.IntRange(-1, 64), gen.Bool(), gen.Bool(),
	).Map(func(v []interface{}) template.Item {
		return template.Item{
			RootName:    v[0].(string),
			DisplayName: v[1].(string),
			IconPath:    v[2].(string),
			Goal:        v[3].(int),
			IsHidden:    v[4].(bool),
			InSecondRow: v[5].(bool),
		}
	})
}

// GenAdvancement generates an advancement with up to three criteria.
func GenAdvancement() gopter.Gen {
	return gopter.CombineGens(
		genName(), gen.AlphaString(), genIcon(), gen.Bool(), gen.Bool(), gen.Bool(),
		upTo[template.Item](3, GenItem()),
	).Map(func(v []interface{}) template.Category {
		return template.Category{
			RootName:    v[0].(string),
			DisplayName: v[1].(string),
			IconPath:    v[2].(string),
			IsHidden:    v[3].(bool),
			InSecondRow: v[4].(bool),
			IsRecipe:    v[5].(bool),
			Criteria:    uniqueBy(v[6].([]template.Item), itemRoot),
		}
	})
}

// GenStat generates a simple or complex stat. A simple stat's value shares
// the display name and icon of its category, as it does on disk. A complex
// stat has at least one criterion.
func GenStat() gopter.Gen {
	return gopter.CombineGens(
		genName(), gen.AlphaString(), genIcon(), gen.Bool(), gen.Bool(), gen.Bool(),
		genName(), gen.IntRange(-1, 64), between[template.Item](1, 3, GenItem()),
	).Map(func(v []interface{}) template.Category {
		stat := template.Category{
			RootName:    v[0].(string),
			DisplayName: v[1].(string),
			IconPath:    v[2].(string),
			IsHidden:    v[3].(bool),
			InSecondRow: v[4].(bool),
			IsSimple:    v[5].(bool),
		}
		if stat.IsSimple {
			stat.Criteria = []template.Item{{
				RootName:    v[6].(string),
				DisplayName: stat.DisplayName,
				IconPath:    stat.IconPath,
				Goal:        v[7].(int),
			}}
		} else {
			stat.Criteria = uniqueBy(v[8].([]template.Item), itemRoot)
		}
		return stat
	})
}

// GenStage generates a stage of any kind. Stat triggers come from
// TriggerNames.
func GenStage() gopter.Gen {
	return gopter.CombineGens(
		genName(), gen.AlphaString(), genIcon(), gen.IntRange(int(template.StageStat), int(template.StageFinal)),
		gen.OneConstOf(TriggerNames...), genName(), gen.IntRange(0, 64),
	).Map(func(v []interface{}) template.Stage {
		s := template.Stage{
			StageID:     v[0].(string),
			DisplayText: v[1].(string),
			IconPath:    v[2].(string),
			Kind:        template.StageKind(v[3].(int)),
		}
		switch s.Kind {
		case template.StageFinal:
		case template.StageStat:
			s.TriggerRootName = v[4].(string)
			s.RequiredProgress = v[6].(int)
		case template.StageCriterion:
			s.TriggerRootName = v[5].(string)
			s.ParentRootName = v[5].(string) + "_parent"
		default:
			s.TriggerRootName = v[5].(string)
		}
		return s
	})
}

// GenGoal generates a multi-stage goal with up to four stages.
func GenGoal() gopter.Gen {
	return gopter.CombineGens(
		genName(), gen.AlphaString(), genIcon(), gen.Bool(), gen.Bool(), gen.Bool(),
		upTo[template.Stage](4, GenStage()),
	).Map(func(v []interface{}) template.MultiStageGoal {
		return template.MultiStageGoal{
			RootName:         v[0].(string),
			DisplayName:      v[1].(string),
			IconPath:         v[2].(string),
			IsHidden:         v[3].(bool),
			InSecondRow:      v[4].(bool),
			UsePerStageIcons: v[5].(bool),
			Stages:           uniqueBy(v[6].([]template.Stage), stageID),
		}
	})
}

// GenDocument generates a whole document.
func GenDocument() gopter.Gen {
	return gopter.CombineGens(
		upTo[template.Category](4, GenAdvancement()),
		upTo[template.Category](4, GenStat()),
		upTo[template.Item](4, GenItem()),
		upTo[template.Item](4, GenItem()),
		upTo[template.MultiStageGoal](3, GenGoal()),
	).Map(func(v []interface{}) *template.Document {
		return &template.Document{
			Advancements:    uniqueBy(v[0].([]template.Category), categoryRoot),
			Stats:           uniqueBy(v[1].([]template.Category), categoryRoot),
			Unlocks:         uniqueBy(v[2].([]template.Item), itemRoot),
			CustomGoals:     uniqueBy(v[3].([]template.Item), itemRoot),
			MultiStageGoals: uniqueBy(v[4].([]template.MultiStageGoal), goalRoot),
		}
	})
}
