// Package validation checks a template document against its structural
// invariants and validates user supplied names and paths.
//
// Validate runs the rule groups in a fixed order and returns the first
// violation found:
//
//  1. root names: empty or duplicate names per collection, criteria and stage ids
//  2. icons: every visible entry references an existing icon
//  3. targets: complex stats need a sub-stat, and stats and sub-stats may
//     not target 0
//  4. helper stats: hidden_ms_stat_ entries must be referenced by a Stat stage
//  5. stages: exactly one Final stage, and it is last
//
// Validate never mutates the document and never touches disk itself; icon
// existence is answered by the injected IconResolver.
package validation

import (
	"fmt"
	"strings"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/version"
)

// IconResolver answers whether an icon path relative to the icons directory
// exists.
type IconResolver interface {
	Exists(relPath string) bool
}

// IconResolverFunc adapts a function to IconResolver.
type IconResolverFunc func(relPath string) bool

// Exists implements IconResolver.
func (f IconResolverFunc) Exists(relPath string) bool { return f(relPath) }

// Validate returns nil when doc satisfies every invariant for game version v,
// otherwise a *errors.ForgeError of type validation naming the offending
// entry. A nil icons resolver skips the existence check but still requires
// visible entries to have an icon path.
func Validate(doc *template.Document, v version.Game, icons IconResolver) error {
	if doc == nil {
		return nil
	}
	checks := []func() error{
		func() error { return checkRootNames(doc) },
		func() error { return checkIcons(doc, v, icons) },
		func() error { return checkTargets(doc, v) },
		func() error { return checkHelperStats(doc) },
		func() error { return checkStages(doc) },
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func checkUnique(kind string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for i, name := range names {
		if name == "" {
			return fe.NewValidationError(fe.ErrCodeEmptyName, "",
				fmt.Sprintf("The %s at position %d has an empty root name", kind, i+1))
		}
		if _, dup := seen[name]; dup {
			return fe.NewValidationError(fe.ErrCodeDuplicateName, name,
				fmt.Sprintf("Duplicate %s root name: '%s'", kind, name))
		}
		seen[name] = struct{}{}
	}
	return nil
}

func itemNames(items []template.Item) []string {
	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.RootName
	}
	return names
}

func checkRootNames(doc *template.Document) error {
	if err := checkUnique("advancement", doc.RootNames(template.CollectionAdvancements)); err != nil {
		return err
	}
	for _, adv := range doc.Advancements {
		if err := checkUnique(fmt.Sprintf("criterion of advancement '%s'", adv.RootName), itemNames(adv.Criteria)); err != nil {
			return err
		}
	}

	if err := checkUnique("stat", doc.RootNames(template.CollectionStats)); err != nil {
		return err
	}
	for _, stat := range doc.Stats {
		if stat.IsSimple {
			if len(stat.Criteria) == 0 || stat.Criteria[0].RootName == "" {
				return fe.NewValidationError(fe.ErrCodeEmptyName, stat.RootName,
					fmt.Sprintf("Simple stat '%s' has no stat root name", stat.RootName))
			}
			continue
		}
		if err := checkUnique(fmt.Sprintf("sub-stat of stat '%s'", stat.RootName), itemNames(stat.Criteria)); err != nil {
			return err
		}
	}

	if err := checkUnique("unlock", doc.RootNames(template.CollectionUnlocks)); err != nil {
		return err
	}
	if err := checkUnique("custom goal", doc.RootNames(template.CollectionCustomGoals)); err != nil {
		return err
	}
	if err := checkUnique("multi-stage goal", doc.RootNames(template.CollectionMultiStageGoals)); err != nil {
		return err
	}
	for _, goal := range doc.MultiStageGoals {
		ids := make([]string, len(goal.Stages))
		for i, s := range goal.Stages {
			ids[i] = s.StageID
		}
		if err := checkUnique(fmt.Sprintf("stage id in multi-stage goal '%s'", goal.RootName), ids); err != nil {
			return err
		}
	}
	return nil
}

func checkIcon(icons IconResolver, kind, root, icon string) error {
	if icon == "" {
		return fe.NewValidationError(fe.ErrCodeIconNotFound, root,
			fmt.Sprintf("%s '%s' has no icon path", kind, root))
	}
	if icons != nil && !icons.Exists(icon) {
		return fe.NewValidationError(fe.ErrCodeIconNotFound, root,
			fmt.Sprintf("Icon '%s' of %s '%s' does not exist in the icons directory", icon, kind, root)).
			WithContext("icon", icon)
	}
	return nil
}

// isExemptLegacyCounter reports whether stat is an icon-less internal
// counter on a legacy version, which has no on-screen representation.
func isExemptLegacyCounter(stat *template.Category, v version.Game) bool {
	return v.IsLegacy() && stat.IsSimple && stat.IconPath == "" && stat.SimpleTarget() == 0
}

func checkIcons(doc *template.Document, v version.Game, icons IconResolver) error {
	for _, adv := range doc.Advancements {
		if adv.IsHidden {
			continue
		}
		if err := checkIcon(icons, "Advancement", adv.RootName, adv.IconPath); err != nil {
			return err
		}
		for _, crit := range adv.Criteria {
			if crit.IsHidden {
				continue
			}
			if err := checkIcon(icons, "Criterion", crit.RootName, crit.IconPath); err != nil {
				return err
			}
		}
	}

	for i := range doc.Stats {
		stat := &doc.Stats[i]
		if stat.IsHidden || isExemptLegacyCounter(stat, v) {
			continue
		}
		if err := checkIcon(icons, "Stat", stat.RootName, stat.IconPath); err != nil {
			return err
		}
		if stat.IsSimple {
			continue
		}
		for _, crit := range stat.Criteria {
			if crit.IsHidden {
				continue
			}
			if err := checkIcon(icons, "Sub-stat", crit.RootName, crit.IconPath); err != nil {
				return err
			}
		}
	}

	for _, it := range doc.Unlocks {
		if it.IsHidden {
			continue
		}
		if err := checkIcon(icons, "Unlock", it.RootName, it.IconPath); err != nil {
			return err
		}
	}
	for _, it := range doc.CustomGoals {
		if it.IsHidden {
			continue
		}
		if err := checkIcon(icons, "Custom goal", it.RootName, it.IconPath); err != nil {
			return err
		}
	}

	for _, goal := range doc.MultiStageGoals {
		if goal.IsHidden {
			continue
		}
		if err := checkIcon(icons, "Multi-stage goal", goal.RootName, goal.IconPath); err != nil {
			return err
		}
		if !goal.UsePerStageIcons {
			continue
		}
		for _, s := range goal.Stages {
			if err := checkIcon(icons, "Stage", s.StageID, s.IconPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTargets(doc *template.Document, v version.Game) error {
	for _, stat := range doc.Stats {
		if !stat.IsSimple && len(stat.Criteria) == 0 {
			return fe.NewValidationError(fe.ErrCodeEmptyStat, stat.RootName,
				fmt.Sprintf("Complex stat '%s' has no sub-stats. Add one or make it a simple stat", stat.RootName))
		}
		if v.IsLegacy() && strings.HasPrefix(stat.RootName, template.HiddenStatPrefix) {
			continue
		}
		if stat.IsSimple {
			if stat.SimpleTarget() == 0 {
				return fe.NewValidationError(fe.ErrCodeZeroTarget, stat.RootName,
					fmt.Sprintf("Stat '%s' cannot have a Target Value of 0. Use a Custom Goal for on/off goals", stat.RootName))
			}
			continue
		}
		for _, crit := range stat.Criteria {
			if crit.Goal == 0 {
				return fe.NewValidationError(fe.ErrCodeZeroTarget, crit.RootName,
					fmt.Sprintf("Sub-stat '%s' of stat '%s' cannot have a Target Value of 0. Use a Custom Goal for on/off goals",
						crit.RootName, stat.RootName))
			}
		}
	}
	return nil
}

// StatTriggers returns the distinct trigger root names of every Stat stage
// across all multi-stage goals, in first-seen order.
func StatTriggers(doc *template.Document) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, goal := range doc.MultiStageGoals {
		for _, s := range goal.Stages {
			if s.Kind != template.StageStat {
				continue
			}
			if _, ok := seen[s.TriggerRootName]; ok {
				continue
			}
			seen[s.TriggerRootName] = struct{}{}
			out = append(out, s.TriggerRootName)
		}
	}
	return out
}

func checkHelperStats(doc *template.Document) error {
	referenced := make(map[string]struct{})
	for _, t := range StatTriggers(doc) {
		referenced[t] = struct{}{}
	}
	for _, stat := range doc.Stats {
		suffix, ok := strings.CutPrefix(stat.RootName, template.HiddenStatPrefix)
		if !ok {
			continue
		}
		if _, used := referenced[suffix]; !used {
			return fe.NewValidationError(fe.ErrCodeOrphanHelper, stat.RootName,
				fmt.Sprintf("Stat '%s' uses the reserved prefix '%s' but no multi-stage goal Stat stage targets '%s'",
					stat.RootName, template.HiddenStatPrefix, suffix))
		}
	}
	return nil
}

func checkStages(doc *template.Document) error {
	for _, goal := range doc.MultiStageGoals {
		if len(goal.Stages) == 0 {
			continue
		}
		finals := 0
		for _, s := range goal.Stages {
			if s.Kind == template.StageFinal {
				finals++
			}
		}
		switch {
		case finals == 0:
			return stageError(goal.RootName, "Multi-stage goal '%s' must have one stage of type Final", goal.RootName)
		case finals > 1:
			return stageError(goal.RootName, "Multi-stage goal '%s' can only have one stage of type Final", goal.RootName)
		case goal.Stages[len(goal.Stages)-1].Kind != template.StageFinal:
			return stageError(goal.RootName, "The Final stage of multi-stage goal '%s' must be the last stage", goal.RootName)
		}

		for _, s := range goal.Stages {
			if s.Kind == template.StageFinal {
				continue
			}
			if s.TriggerRootName == "" {
				return stageError(goal.RootName, "Stage '%s' of multi-stage goal '%s' has no target root name", s.StageID, goal.RootName)
			}
			if s.Kind == template.StageCriterion && s.ParentRootName == "" {
				return stageError(goal.RootName, "Criterion stage '%s' of multi-stage goal '%s' needs a parent advancement", s.StageID, goal.RootName)
			}
			if s.Kind == template.StageStat && s.RequiredProgress <= 0 {
				return stageError(goal.RootName, "Stat stage '%s' of multi-stage goal '%s' needs a Target Value greater than 0", s.StageID, goal.RootName)
			}
		}
	}
	return nil
}

func stageError(entry, format string, args ...interface{}) error {
	return fe.NewValidationError(fe.ErrCodeStageStructure, entry, fmt.Sprintf(format, args...))
}
