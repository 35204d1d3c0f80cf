// Package legacy keeps the synthesized helper stats of legacy templates in
// step with the multi-stage goals that need them.
//
// Legacy game versions have no generic progress field, so a Stat stage can
// only observe a value through a stat entry. For every distinct Stat stage
// trigger the template carries a hidden simple stat named
// hidden_ms_stat_<trigger>; helpers nothing references are pruned.
package legacy

import (
	"strings"

	"github.com/conneroisu/trackforge/internal/template"
	"github.com/conneroisu/trackforge/internal/validation"
	"github.com/conneroisu/trackforge/internal/version"
)

// HelperName returns the helper stat root name for a Stat stage trigger.
func HelperName(trigger string) string {
	return template.HiddenStatPrefix + trigger
}

// IsHelper reports whether stat is a synthesized helper.
func IsHelper(stat *template.Category) bool {
	return strings.HasPrefix(stat.RootName, template.HiddenStatPrefix)
}

// Synchronize prunes orphaned or misnamed helper stats and appends missing
// ones. It is a no-op for non-legacy versions and reports whether doc
// changed. Running it twice yields the same document as running it once.
func Synchronize(doc *template.Document, v version.Game) bool {
	if doc == nil || !v.IsLegacy() {
		return false
	}

	triggers := validation.StatTriggers(doc)
	wanted := make(map[string]struct{}, len(triggers))
	for _, t := range triggers {
		if t != "" {
			wanted[t] = struct{}{}
		}
	}

	changed := false
	backed := make(map[string]struct{}, len(triggers))
	kept := doc.Stats[:0:0]
	for i := range doc.Stats {
		stat := doc.Stats[i]
		if IsHelper(&stat) {
			trigger, ok := backedTrigger(&stat)
			if !ok {
				changed = true
				continue
			}
			if _, ok := wanted[trigger]; !ok {
				changed = true
				continue
			}
			if _, dup := backed[trigger]; dup {
				changed = true
				continue
			}
			backed[trigger] = struct{}{}
		}
		kept = append(kept, stat)
	}

	for _, t := range triggers {
		if _, ok := wanted[t]; !ok {
			continue
		}
		if _, ok := backed[t]; ok {
			continue
		}
		kept = append(kept, newHelper(t))
		backed[t] = struct{}{}
		changed = true
	}

	if changed {
		doc.Stats = kept
	}
	return changed
}

// backedTrigger returns the trigger a helper stat backs. A helper backs t
// only when it is named HelperName(t) and its first criterion is t; any
// other helper is stale and gets rebuilt.
func backedTrigger(stat *template.Category) (string, bool) {
	if len(stat.Criteria) == 0 {
		return "", false
	}
	trigger := stat.Criteria[0].RootName
	if stat.RootName != HelperName(trigger) {
		return "", false
	}
	return trigger, true
}

func newHelper(trigger string) template.Category {
	name := HelperName(trigger)
	return template.Category{
		RootName:    name,
		DisplayName: name,
		IsHidden:    true,
		IsSimple:    true,
		Criteria:    []template.Item{{RootName: trigger, DisplayName: name}},
	}
}

// Helpers returns the root names of the helper stats in doc, in order.
func Helpers(doc *template.Document) []string {
	var out []string
	for i := range doc.Stats {
		if IsHelper(&doc.Stats[i]) {
			out = append(out, doc.Stats[i].RootName)
		}
	}
	return out
}
