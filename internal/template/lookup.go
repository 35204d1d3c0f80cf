package template

// Entries are addressed by root name rather than by pointer or index so a
// selection stays valid across inserts, removals and reorders.

// Collection names one of the five document collections.
type Collection string

const (
	CollectionAdvancements    Collection = "advancements"
	CollectionStats           Collection = "stats"
	CollectionUnlocks         Collection = "unlocks"
	CollectionCustomGoals     Collection = "custom"
	CollectionMultiStageGoals Collection = "multi_stage_goals"
)

// Collections lists every collection in document order.
var Collections = []Collection{
	CollectionAdvancements,
	CollectionStats,
	CollectionUnlocks,
	CollectionCustomGoals,
	CollectionMultiStageGoals,
}

// Singular returns a human readable noun for messages.
func (c Collection) Singular() string {
	switch c {
	case CollectionAdvancements:
		return "advancement"
	case CollectionStats:
		return "stat"
	case CollectionUnlocks:
		return "unlock"
	case CollectionCustomGoals:
		return "custom goal"
	case CollectionMultiStageGoals:
		return "multi-stage goal"
	default:
		return string(c)
	}
}

// RootNames returns the root names of collection c in order.
func (d *Document) RootNames(c Collection) []string {
	var names []string
	switch c {
	case CollectionAdvancements:
		for _, e := range d.Advancements {
			names = append(names, e.RootName)
		}
	case CollectionStats:
		for _, e := range d.Stats {
			names = append(names, e.RootName)
		}
	case CollectionUnlocks:
		for _, e := range d.Unlocks {
			names = append(names, e.RootName)
		}
	case CollectionCustomGoals:
		for _, e := range d.CustomGoals {
			names = append(names, e.RootName)
		}
	case CollectionMultiStageGoals:
		for _, e := range d.MultiStageGoals {
			names = append(names, e.RootName)
		}
	}
	return names
}

// Len returns the size of collection c.
func (d *Document) Len(c Collection) int {
	switch c {
	case CollectionAdvancements:
		return len(d.Advancements)
	case CollectionStats:
		return len(d.Stats)
	case CollectionUnlocks:
		return len(d.Unlocks)
	case CollectionCustomGoals:
		return len(d.CustomGoals)
	case CollectionMultiStageGoals:
		return len(d.MultiStageGoals)
	}
	return 0
}

// IndexOf returns the index of the first entry named root in c, or -1.
func (d *Document) IndexOf(c Collection, root string) int {
	for i, name := range d.RootNames(c) {
		if name == root {
			return i
		}
	}
	return -1
}

// Contains reports whether c has an entry named root.
func (d *Document) Contains(c Collection, root string) bool {
	return d.IndexOf(c, root) >= 0
}

// Advancement returns the advancement named root, or nil.
func (d *Document) Advancement(root string) *Category {
	if i := d.IndexOf(CollectionAdvancements, root); i >= 0 {
		return &d.Advancements[i]
	}
	return nil
}

// Stat returns the stat category named root, or nil.
func (d *Document) Stat(root string) *Category {
	if i := d.IndexOf(CollectionStats, root); i >= 0 {
		return &d.Stats[i]
	}
	return nil
}

// Goal returns the multi-stage goal named root, or nil.
func (d *Document) Goal(root string) *MultiStageGoal {
	if i := d.IndexOf(CollectionMultiStageGoals, root); i >= 0 {
		return &d.MultiStageGoals[i]
	}
	return nil
}

// CriterionIndex returns the index of the criterion named root, or -1.
func (c *Category) CriterionIndex(root string) int {
	for i, it := range c.Criteria {
		if it.RootName == root {
			return i
		}
	}
	return -1
}

// StageIndex returns the index of the stage with id, or -1.
func (g *MultiStageGoal) StageIndex(id string) int {
	for i, s := range g.Stages {
		if s.StageID == id {
			return i
		}
	}
	return -1
}

// Remove deletes the entry named root from c and reports whether it existed.
func (d *Document) Remove(c Collection, root string) bool {
	i := d.IndexOf(c, root)
	if i < 0 {
		return false
	}
	switch c {
	case CollectionAdvancements:
		d.Advancements = append(d.Advancements[:i], d.Advancements[i+1:]...)
	case CollectionStats:
		d.Stats = append(d.Stats[:i], d.Stats[i+1:]...)
	case CollectionUnlocks:
		d.Unlocks = append(d.Unlocks[:i], d.Unlocks[i+1:]...)
	case CollectionCustomGoals:
		d.CustomGoals = append(d.CustomGoals[:i], d.CustomGoals[i+1:]...)
	case CollectionMultiStageGoals:
		d.MultiStageGoals = append(d.MultiStageGoals[:i], d.MultiStageGoals[i+1:]...)
	}
	return true
}

// Move relocates the entry named root in c to index to (clamped) and
// reports whether the entry existed.
func (d *Document) Move(c Collection, root string, to int) bool {
	from := d.IndexOf(c, root)
	if from < 0 {
		return false
	}
	switch c {
	case CollectionAdvancements:
		d.Advancements = moveElem(d.Advancements, from, to)
	case CollectionStats:
		d.Stats = moveElem(d.Stats, from, to)
	case CollectionUnlocks:
		d.Unlocks = moveElem(d.Unlocks, from, to)
	case CollectionCustomGoals:
		d.CustomGoals = moveElem(d.CustomGoals, from, to)
	case CollectionMultiStageGoals:
		d.MultiStageGoals = moveElem(d.MultiStageGoals, from, to)
	}
	return true
}

func moveElem[T any](s []T, from, to int) []T {
	if to < 0 {
		to = 0
	}
	if to >= len(s) {
		to = len(s) - 1
	}
	if from == to {
		return s
	}
	elem := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s[:to], append([]T{elem}, s[to:]...)...)
	return s
}

// MoveStage relocates a stage within the goal.
func (g *MultiStageGoal) MoveStage(id string, to int) bool {
	from := g.StageIndex(id)
	if from < 0 {
		return false
	}
	g.Stages = moveElem(g.Stages, from, to)
	return true
}

// MoveCriterion relocates a criterion within the category.
func (c *Category) MoveCriterion(root string, to int) bool {
	from := c.CriterionIndex(root)
	if from < 0 {
		return false
	}
	c.Criteria = moveElem(c.Criteria, from, to)
	return true
}
