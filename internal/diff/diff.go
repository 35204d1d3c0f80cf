// Package diff compares two template documents field by field. Editors use
// it to detect unsaved changes before discarding an in-memory document.
//
// Sequence order is significant: reordering entries is a change. A nil and
// an empty sequence compare equal.
package diff

import (
	"fmt"

	"github.com/conneroisu/trackforge/internal/template"
)

// Differs reports whether a and b differ anywhere. It is reflexive and
// symmetric.
func Differs(a, b *template.Document) bool {
	return len(changes(a, b, 1)) > 0
}

// Changes returns up to limit paths where a and b differ, in document order.
// A limit <= 0 returns every difference.
func Changes(a, b *template.Document, limit int) []string {
	return changes(a, b, limit)
}

type collector struct {
	paths []string
	limit int
}

func (c *collector) full() bool {
	return c.limit > 0 && len(c.paths) >= c.limit
}

func (c *collector) add(format string, args ...interface{}) {
	if c.full() {
		return
	}
	c.paths = append(c.paths, fmt.Sprintf(format, args...))
}

func changes(a, b *template.Document, limit int) []string {
	c := &collector{limit: limit}
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil || b == nil:
		c.add("document")
		return c.paths
	}

	compareCategories(c, "advancements", a.Advancements, b.Advancements)
	compareCategories(c, "stats", a.Stats, b.Stats)
	compareItems(c, "unlocks", a.Unlocks, b.Unlocks)
	compareItems(c, "custom", a.CustomGoals, b.CustomGoals)
	compareGoals(c, "multi_stage_goals", a.MultiStageGoals, b.MultiStageGoals)
	return c.paths
}

func compareCategories(c *collector, path string, a, b []template.Category) {
	if len(a) != len(b) {
		c.add("%s: length %d != %d", path, len(a), len(b))
		return
	}
	for i := range a {
		if c.full() {
			return
		}
		x, y := &a[i], &b[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if x.RootName != y.RootName ||
			x.DisplayName != y.DisplayName ||
			x.IconPath != y.IconPath ||
			x.IsHidden != y.IsHidden ||
			x.InSecondRow != y.InSecondRow ||
			x.IsRecipe != y.IsRecipe ||
			x.IsSimple != y.IsSimple {
			c.add("%s (%s)", p, x.RootName)
		}
		compareItems(c, p+".criteria", x.Criteria, y.Criteria)
	}
}

func compareItems(c *collector, path string, a, b []template.Item) {
	if len(a) != len(b) {
		c.add("%s: length %d != %d", path, len(a), len(b))
		return
	}
	for i := range a {
		if c.full() {
			return
		}
		if a[i] != b[i] {
			c.add("%s[%d] (%s)", path, i, a[i].RootName)
		}
	}
}

func compareGoals(c *collector, path string, a, b []template.MultiStageGoal) {
	if len(a) != len(b) {
		c.add("%s: length %d != %d", path, len(a), len(b))
		return
	}
	for i := range a {
		if c.full() {
			return
		}
		x, y := &a[i], &b[i]
		p := fmt.Sprintf("%s[%d]", path, i)
		if x.RootName != y.RootName ||
			x.DisplayName != y.DisplayName ||
			x.IconPath != y.IconPath ||
			x.IsHidden != y.IsHidden ||
			x.InSecondRow != y.InSecondRow ||
			x.UsePerStageIcons != y.UsePerStageIcons {
			c.add("%s (%s)", p, x.RootName)
		}
		if len(x.Stages) != len(y.Stages) {
			c.add("%s.stages: length %d != %d", p, len(x.Stages), len(y.Stages))
			continue
		}
		for j := range x.Stages {
			if x.Stages[j] != y.Stages[j] {
				c.add("%s.stages[%d] (%s)", p, j, x.Stages[j].StageID)
			}
		}
	}
}
