// Package importer merges entries parsed from an external source, such as a
// player's save file, into a template document.
//
// A merge is all or nothing: every selected candidate is checked for a
// duplicate root name before the document is touched.
package importer

import (
	"strings"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

// DefaultPlaceholderIcon is given to merged entries until the user picks an
// icon.
const DefaultPlaceholderIcon = "blocks/placeholder.png"

// recipeMarker identifies recipe advancements by root name.
const recipeMarker = ":recipes/"

// ImportableCriterion is a criterion of an advancement candidate.
type ImportableCriterion struct {
	RootName string `json:"root_name" yaml:"root_name"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// ImportableAdvancement is an advancement found in the source.
type ImportableAdvancement struct {
	RootName string                `json:"root_name" yaml:"root_name"`
	IsDone   bool                  `json:"is_done,omitempty" yaml:"is_done,omitempty"`
	Criteria []ImportableCriterion `json:"criteria,omitempty" yaml:"criteria,omitempty"`
	Selected bool                  `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// ImportableStat is a stat found in the source.
type ImportableStat struct {
	RootName string `json:"root_name" yaml:"root_name"`
	// Target becomes the stat's target value; values below 1 import as 1.
	Target   int  `json:"target,omitempty" yaml:"target,omitempty"`
	Selected bool `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// ImportableUnlock is an unlock found in the source.
type ImportableUnlock struct {
	RootName string `json:"root_name" yaml:"root_name"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Candidates is everything the source offers for import.
type Candidates struct {
	Advancements []ImportableAdvancement `json:"advancements,omitempty" yaml:"advancements,omitempty"`
	Stats        []ImportableStat        `json:"stats,omitempty" yaml:"stats,omitempty"`
	Unlocks      []ImportableUnlock      `json:"unlocks,omitempty" yaml:"unlocks,omitempty"`
}

// SelectAll marks every candidate and criterion as selected.
func (c *Candidates) SelectAll() {
	for i := range c.Advancements {
		c.Advancements[i].Selected = true
		for j := range c.Advancements[i].Criteria {
			c.Advancements[i].Criteria[j].Selected = true
		}
	}
	for i := range c.Stats {
		c.Stats[i].Selected = true
	}
	for i := range c.Unlocks {
		c.Unlocks[i].Selected = true
	}
}

// Select marks the candidates whose root names are listed. A listed
// advancement also gets all of its criteria selected.
func (c *Candidates) Select(roots ...string) {
	want := make(map[string]struct{}, len(roots))
	for _, r := range roots {
		want[r] = struct{}{}
	}
	for i := range c.Advancements {
		if _, ok := want[c.Advancements[i].RootName]; ok {
			c.Advancements[i].Selected = true
			for j := range c.Advancements[i].Criteria {
				c.Advancements[i].Criteria[j].Selected = true
			}
		}
	}
	for i := range c.Stats {
		if _, ok := want[c.Stats[i].RootName]; ok {
			c.Stats[i].Selected = true
		}
	}
	for i := range c.Unlocks {
		if _, ok := want[c.Unlocks[i].RootName]; ok {
			c.Unlocks[i].Selected = true
		}
	}
}

// Options tunes a merge.
type Options struct {
	// PlaceholderIcon defaults to DefaultPlaceholderIcon.
	PlaceholderIcon string
}

// Result counts what a merge added.
type Result struct {
	Advancements int
	Criteria     int
	Stats        int
	Unlocks      int
}

// Total is the number of top-level entries added.
func (r Result) Total() int {
	return r.Advancements + r.Stats + r.Unlocks
}

// IsRecipe reports whether an advancement root name names a recipe.
func IsRecipe(root string) bool {
	return strings.Contains(root, recipeMarker)
}

// Merge adds the selected candidates to doc. If any selected root name
// already exists in its collection, or is selected twice, Merge returns a
// duplicate error and leaves doc unchanged.
func Merge(doc *template.Document, c Candidates, opts Options) (Result, error) {
	if err := checkDuplicates(doc, c); err != nil {
		return Result{}, err
	}

	icon := opts.PlaceholderIcon
	if icon == "" {
		icon = DefaultPlaceholderIcon
	}

	var res Result
	for _, adv := range c.Advancements {
		if !adv.Selected {
			continue
		}
		cat := template.Category{
			RootName:    adv.RootName,
			DisplayName: adv.RootName,
			IconPath:    icon,
			IsRecipe:    IsRecipe(adv.RootName),
		}
		// A completed advancement with a single criterion is tracked as
		// complete-by-default rather than through that criterion.
		collapse := adv.IsDone && len(adv.Criteria) == 1
		if !collapse {
			for _, crit := range adv.Criteria {
				if !crit.Selected {
					continue
				}
				cat.Criteria = append(cat.Criteria, template.Item{
					RootName:    crit.RootName,
					DisplayName: crit.RootName,
					IconPath:    icon,
				})
				res.Criteria++
			}
		}
		doc.Advancements = append(doc.Advancements, cat)
		res.Advancements++
	}

	for _, stat := range c.Stats {
		if !stat.Selected {
			continue
		}
		target := stat.Target
		if target < 1 {
			target = 1
		}
		doc.Stats = append(doc.Stats, template.Category{
			RootName:    stat.RootName,
			DisplayName: stat.RootName,
			IconPath:    icon,
			IsSimple:    true,
			Criteria: []template.Item{{
				RootName:    stat.RootName,
				DisplayName: stat.RootName,
				IconPath:    icon,
				Goal:        target,
			}},
		})
		res.Stats++
	}

	for _, u := range c.Unlocks {
		if !u.Selected {
			continue
		}
		doc.Unlocks = append(doc.Unlocks, template.Item{
			RootName:    u.RootName,
			DisplayName: u.RootName,
			IconPath:    icon,
		})
		res.Unlocks++
	}
	return res, nil
}

func checkDuplicates(doc *template.Document, c Candidates) error {
	check := func(col template.Collection, names []string) error {
		seen := make(map[string]struct{}, len(names))
		for _, n := range names {
			if _, dup := seen[n]; dup || doc.Contains(col, n) {
				return fe.NewDuplicateError(col.Singular(), n)
			}
			seen[n] = struct{}{}
		}
		return nil
	}

	var advs, stats, unlocks []string
	for _, a := range c.Advancements {
		if !a.Selected {
			continue
		}
		advs = append(advs, a.RootName)
		seen := make(map[string]struct{}, len(a.Criteria))
		for _, crit := range a.Criteria {
			if !crit.Selected {
				continue
			}
			if _, dup := seen[crit.RootName]; dup {
				return fe.NewDuplicateError("criterion", crit.RootName)
			}
			seen[crit.RootName] = struct{}{}
		}
	}
	for _, s := range c.Stats {
		if s.Selected {
			stats = append(stats, s.RootName)
		}
	}
	for _, u := range c.Unlocks {
		if u.Selected {
			unlocks = append(unlocks, u.RootName)
		}
	}

	if err := check(template.CollectionAdvancements, advs); err != nil {
		return err
	}
	if err := check(template.CollectionStats, stats); err != nil {
		return err
	}
	return check(template.CollectionUnlocks, unlocks)
}
