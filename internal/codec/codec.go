// Package codec maps a template.Document to and from its two on-disk JSON
// artifacts: the template file holding structure and the language file
// holding display names.
//
// Field names of the template file are a compatibility contract with the
// tracker that reads these files. Optional booleans and numbers are omitted
// when false or zero. Advancement and stat objects preserve key order, which
// is display order. A stat is complex only when its criteria object is
// non-empty; a stat with no criteria key or an empty one is simple.
package codec

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

const indent = "\t"

type wireCategory struct {
	Icon        string  `json:"icon"`
	Hidden      bool    `json:"hidden,omitempty"`
	InSecondRow bool    `json:"in_2nd_row,omitempty"`
	IsRecipe    bool    `json:"is_recipe,omitempty"`
	RootName    string  `json:"root_name,omitempty"`
	Target      int     `json:"target,omitempty"`
	Criteria    *object `json:"criteria,omitempty"`
}

type wireCriterion struct {
	Icon        string `json:"icon"`
	Hidden      bool   `json:"hidden,omitempty"`
	Target      int    `json:"target,omitempty"`
	InSecondRow bool   `json:"in_2nd_row,omitempty"`
}

type wireItem struct {
	RootName    string `json:"root_name"`
	Icon        string `json:"icon"`
	Target      int    `json:"target,omitempty"`
	Hidden      bool   `json:"hidden,omitempty"`
	InSecondRow bool   `json:"in_2nd_row,omitempty"`
}

type wireGoal struct {
	RootName      string      `json:"root_name"`
	Icon          string      `json:"icon"`
	Hidden        bool        `json:"hidden,omitempty"`
	InSecondRow   bool        `json:"in_2nd_row,omitempty"`
	UseStageIcons bool        `json:"use_stage_icons,omitempty"`
	Stages        []wireStage `json:"stages"`
}

type wireStage struct {
	StageID           string `json:"stage_id"`
	Icon              string `json:"icon,omitempty"`
	Type              string `json:"type"`
	ParentAdvancement string `json:"parent_advancement,omitempty"`
	RootName          string `json:"root_name"`
	Target            int    `json:"target,omitempty"`
}

type wireDocument struct {
	Advancements    object     `json:"advancements"`
	Stats           object     `json:"stats"`
	Unlocks         []wireItem `json:"unlocks"`
	Custom          []wireItem `json:"custom"`
	MultiStageGoals []wireGoal `json:"multi_stage_goals"`
}

// Encode serializes doc into the template file and the language file, both
// indented with tabs. A complex stat without criteria has no encoding of its
// own and is written without a criteria object; validation rejects it
// before a save gets here.
func Encode(doc *template.Document) (templateJSON, langJSON []byte, err error) {
	if doc == nil {
		doc = template.New()
	}
	lang := newStringMap()
	w := wireDocument{
		Advancements:    object{},
		Stats:           object{},
		Unlocks:         []wireItem{},
		Custom:          []wireItem{},
		MultiStageGoals: []wireGoal{},
	}

	for _, adv := range doc.Advancements {
		key := AdvancementKey(adv.RootName)
		lang.Set(key, adv.DisplayName)
		crits := object{}
		for _, c := range adv.Criteria {
			lang.Set(CriterionKey(key, c.RootName), c.DisplayName)
			if err := crits.set(c.RootName, criterionToWire(c)); err != nil {
				return nil, nil, encodeError(err)
			}
		}
		wc := wireCategory{
			Icon:        adv.IconPath,
			Hidden:      adv.IsHidden,
			InSecondRow: adv.InSecondRow,
			IsRecipe:    adv.IsRecipe,
			Criteria:    &crits,
		}
		if err := w.Advancements.set(adv.RootName, wc); err != nil {
			return nil, nil, encodeError(err)
		}
	}

	for _, stat := range doc.Stats {
		key := StatKey(stat.RootName)
		lang.Set(key, stat.DisplayName)
		wc := wireCategory{
			Icon:        stat.IconPath,
			Hidden:      stat.IsHidden,
			InSecondRow: stat.InSecondRow,
		}
		if stat.IsSimple {
			if len(stat.Criteria) > 0 {
				wc.RootName = stat.Criteria[0].RootName
				wc.Target = stat.Criteria[0].Goal
			}
		} else if len(stat.Criteria) > 0 {
			crits := object{}
			for _, c := range stat.Criteria {
				lang.Set(CriterionKey(key, c.RootName), c.DisplayName)
				if err := crits.set(c.RootName, criterionToWire(c)); err != nil {
					return nil, nil, encodeError(err)
				}
			}
			wc.Criteria = &crits
		}
		if err := w.Stats.set(stat.RootName, wc); err != nil {
			return nil, nil, encodeError(err)
		}
	}

	for _, it := range doc.Unlocks {
		lang.Set(UnlockKey(it.RootName), it.DisplayName)
		w.Unlocks = append(w.Unlocks, itemToWire(it))
	}
	for _, it := range doc.CustomGoals {
		lang.Set(CustomKey(it.RootName), it.DisplayName)
		w.Custom = append(w.Custom, itemToWire(it))
	}

	for _, g := range doc.MultiStageGoals {
		lang.Set(GoalKey(g.RootName), g.DisplayName)
		wg := wireGoal{
			RootName:      g.RootName,
			Icon:          g.IconPath,
			Hidden:        g.IsHidden,
			InSecondRow:   g.InSecondRow,
			UseStageIcons: g.UsePerStageIcons,
			Stages:        make([]wireStage, 0, len(g.Stages)),
		}
		for _, s := range g.Stages {
			lang.Set(StageKey(g.RootName, s.StageID), s.DisplayText)
			wg.Stages = append(wg.Stages, wireStage{
				StageID:           s.StageID,
				Icon:              s.IconPath,
				Type:              s.Kind.String(),
				ParentAdvancement: s.ParentRootName,
				RootName:          s.TriggerRootName,
				Target:            s.RequiredProgress,
			})
		}
		w.MultiStageGoals = append(w.MultiStageGoals, wg)
	}

	templateJSON, err = marshalIndent(w)
	if err != nil {
		return nil, nil, encodeError(err)
	}
	langJSON, err = marshalIndent(lang)
	if err != nil {
		return nil, nil, encodeError(err)
	}
	return templateJSON, langJSON, nil
}

func marshalIndent(v interface{}) ([]byte, error) {
	compact, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", indent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func criterionToWire(c template.Item) wireCriterion {
	return wireCriterion{Icon: c.IconPath, Hidden: c.IsHidden, Target: c.Goal, InSecondRow: c.InSecondRow}
}

func itemToWire(it template.Item) wireItem {
	return wireItem{
		RootName:    it.RootName,
		Icon:        it.IconPath,
		Target:      it.Goal,
		Hidden:      it.IsHidden,
		InSecondRow: it.InSecondRow,
	}
}

func encodeError(err error) error {
	return fe.NewInternalError(fe.ErrCodeInternalError, "failed to encode template", err)
}

// Decode builds a document from a template file and an optional language
// file. Display names missing from the language file fall back to the root
// name of their entry.
func Decode(templateJSON, langJSON []byte) (*template.Document, error) {
	var w wireDocument
	if err := json.Unmarshal(templateJSON, &w); err != nil {
		return nil, parseError("invalid template JSON", err)
	}

	lang := newStringMap()
	if len(bytes.TrimSpace(langJSON)) > 0 {
		if err := json.Unmarshal(langJSON, lang); err != nil {
			return nil, parseError("invalid language JSON", err)
		}
	}
	name := func(key, fallback string) string {
		if v, ok := lang.Get(key); ok {
			return v
		}
		return fallback
	}

	doc := template.New()

	for _, m := range w.Advancements {
		var wc wireCategory
		if err := json.Unmarshal(m.Value, &wc); err != nil {
			return nil, parseError(fmt.Sprintf("invalid advancement '%s'", m.Key), err)
		}
		key := AdvancementKey(m.Key)
		adv := template.Category{
			RootName:    m.Key,
			DisplayName: name(key, m.Key),
			IconPath:    wc.Icon,
			IsHidden:    wc.Hidden,
			InSecondRow: wc.InSecondRow,
			IsRecipe:    wc.IsRecipe,
		}
		crits, err := decodeCriteria(wc.Criteria, key, name)
		if err != nil {
			return nil, err
		}
		adv.Criteria = crits
		doc.Advancements = append(doc.Advancements, adv)
	}

	for _, m := range w.Stats {
		var wc wireCategory
		if err := json.Unmarshal(m.Value, &wc); err != nil {
			return nil, parseError(fmt.Sprintf("invalid stat '%s'", m.Key), err)
		}
		key := StatKey(m.Key)
		stat := template.Category{
			RootName:    m.Key,
			DisplayName: name(key, m.Key),
			IconPath:    wc.Icon,
			IsHidden:    wc.Hidden,
			InSecondRow: wc.InSecondRow,
		}
		if wc.Criteria == nil || len(*wc.Criteria) == 0 {
			stat.IsSimple = true
			stat.Criteria = []template.Item{{
				RootName:    wc.RootName,
				DisplayName: stat.DisplayName,
				IconPath:    stat.IconPath,
				Goal:        wc.Target,
			}}
		} else {
			crits, err := decodeCriteria(wc.Criteria, key, name)
			if err != nil {
				return nil, err
			}
			stat.Criteria = crits
		}
		doc.Stats = append(doc.Stats, stat)
	}

	for _, it := range w.Unlocks {
		doc.Unlocks = append(doc.Unlocks, itemFromWire(it, name(UnlockKey(it.RootName), it.RootName)))
	}
	for _, it := range w.Custom {
		doc.CustomGoals = append(doc.CustomGoals, itemFromWire(it, name(CustomKey(it.RootName), it.RootName)))
	}

	for _, wg := range w.MultiStageGoals {
		g := template.MultiStageGoal{
			RootName:         wg.RootName,
			DisplayName:      name(GoalKey(wg.RootName), wg.RootName),
			IconPath:         wg.Icon,
			IsHidden:         wg.Hidden,
			InSecondRow:      wg.InSecondRow,
			UsePerStageIcons: wg.UseStageIcons,
		}
		for _, ws := range wg.Stages {
			kind, err := template.ParseStageKind(ws.Type)
			if err != nil {
				return nil, parseError(fmt.Sprintf("invalid stage '%s' of multi-stage goal '%s'", ws.StageID, wg.RootName), err)
			}
			g.Stages = append(g.Stages, template.Stage{
				StageID:          ws.StageID,
				DisplayText:      name(StageKey(wg.RootName, ws.StageID), ws.StageID),
				IconPath:         ws.Icon,
				Kind:             kind,
				TriggerRootName:  ws.RootName,
				ParentRootName:   ws.ParentAdvancement,
				RequiredProgress: ws.Target,
			})
		}
		doc.MultiStageGoals = append(doc.MultiStageGoals, g)
	}
	return doc, nil
}

func decodeCriteria(o *object, parentKey string, name func(key, fallback string) string) ([]template.Item, error) {
	if o == nil {
		return nil, nil
	}
	var out []template.Item
	for _, m := range *o {
		var wc wireCriterion
		if err := json.Unmarshal(m.Value, &wc); err != nil {
			return nil, parseError(fmt.Sprintf("invalid criterion '%s'", m.Key), err)
		}
		out = append(out, template.Item{
			RootName:    m.Key,
			DisplayName: name(CriterionKey(parentKey, m.Key), m.Key),
			IconPath:    wc.Icon,
			Goal:        wc.Target,
			IsHidden:    wc.Hidden,
			InSecondRow: wc.InSecondRow,
		})
	}
	return out, nil
}

func itemFromWire(it wireItem, display string) template.Item {
	return template.Item{
		RootName:    it.RootName,
		DisplayName: display,
		IconPath:    it.Icon,
		Goal:        it.Target,
		IsHidden:    it.Hidden,
		InSecondRow: it.InSecondRow,
	}
}

func parseError(msg string, cause error) error {
	return fe.NewIOError(fe.ErrCodeParseFailed, "", msg, cause)
}
