// Package template holds the in-memory document model for one tracker
// template: advancement and stat categories, unlocks, custom goals and
// multi-stage goals.
//
// The model is a plain mutable tree. It enforces nothing; partially invalid
// states are legal while editing and the validation package decides whether a
// document may be saved.
package template

// HiddenStatPrefix marks synthesized helper stats that drive Stat stages of
// multi-stage goals on legacy versions.
const HiddenStatPrefix = "hidden_ms_stat_"

// Document is one template. Collection order is display order.
type Document struct {
	Advancements    []Category
	Stats           []Category
	Unlocks         []Item
	CustomGoals     []Item
	MultiStageGoals []MultiStageGoal
}

// Category is an advancement (or achievement) or a stat with its criteria.
type Category struct {
	RootName    string
	DisplayName string
	IconPath    string
	IsHidden    bool
	InSecondRow bool
	// IsRecipe only applies to advancements.
	IsRecipe bool
	// IsSimple only applies to stats: the category is itself a single
	// trackable value stored in Criteria[0].
	IsSimple bool
	Criteria []Item
}

// Item is a criterion, an unlock or a custom goal.
//
// Goal: -1 is an infinite manual counter, 0 a simple toggle (custom goals
// only), >0 a counter that completes at that value.
type Item struct {
	RootName    string
	DisplayName string
	IconPath    string
	Goal        int
	IsHidden    bool
	InSecondRow bool
}

// MultiStageGoal is a goal completed by walking its stages in order.
type MultiStageGoal struct {
	RootName         string
	DisplayName      string
	IconPath         string
	IsHidden         bool
	InSecondRow      bool
	UsePerStageIcons bool
	Stages           []Stage
}

// Stage is one step of a MultiStageGoal.
type Stage struct {
	StageID     string
	DisplayText string
	// IconPath is only used when the goal has UsePerStageIcons set.
	IconPath string
	Kind     StageKind
	// TriggerRootName is empty for Final stages.
	TriggerRootName string
	// ParentRootName is only set for Criterion stages.
	ParentRootName string
	// RequiredProgress is only meaningful for Stat stages.
	RequiredProgress int
}

// New returns an empty document.
func New() *Document {
	return &Document{}
}

// SimpleTarget returns the target value of a simple stat, or 0 when the
// category has no criterion.
func (c *Category) SimpleTarget() int {
	if len(c.Criteria) == 0 {
		return 0
	}
	return c.Criteria[0].Goal
}

// HasFinalStage reports whether any stage is of kind Final.
func (g *MultiStageGoal) HasFinalStage() bool {
	for _, s := range g.Stages {
		if s.Kind == StageFinal {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of d. Editing the copy never affects d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	return &Document{
		Advancements:    cloneCategories(d.Advancements),
		Stats:           cloneCategories(d.Stats),
		Unlocks:         cloneItems(d.Unlocks),
		CustomGoals:     cloneItems(d.CustomGoals),
		MultiStageGoals: cloneGoals(d.MultiStageGoals),
	}
}

func cloneCategories(in []Category) []Category {
	if in == nil {
		return nil
	}
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = c
		out[i].Criteria = cloneItems(c.Criteria)
	}
	return out
}

func cloneItems(in []Item) []Item {
	if in == nil {
		return nil
	}
	out := make([]Item, len(in))
	copy(out, in)
	return out
}

func cloneGoals(in []MultiStageGoal) []MultiStageGoal {
	if in == nil {
		return nil
	}
	out := make([]MultiStageGoal, len(in))
	for i, g := range in {
		out[i] = g
		if g.Stages != nil {
			out[i].Stages = make([]Stage, len(g.Stages))
			copy(out[i].Stages, g.Stages)
		}
	}
	return out
}
