package editor

import (
	"fmt"

	fe "github.com/conneroisu/trackforge/internal/errors"
	"github.com/conneroisu/trackforge/internal/template"
)

func notFound(c template.Collection, root string) *fe.ForgeError {
	return fe.NewNotFoundError("", fmt.Sprintf("%s '%s' does not exist", c.Singular(), root)).WithEntry(root)
}

func (s *Session) checkNew(c template.Collection, root string) error {
	if s.current.Contains(c, root) {
		return fe.NewDuplicateError(c.Singular(), root)
	}
	return nil
}

// Select marks the entry named root in c as selected.
func (s *Session) Select(c template.Collection, root string) error {
	if !s.current.Contains(c, root) {
		return notFound(c, root)
	}
	s.selection = &Selection{Collection: c, RootName: root}
	return nil
}

// ClearSelection deselects the current entry.
func (s *Session) ClearSelection() { s.selection = nil }

// Selected returns the selected entry and its current index. ok is false
// when nothing is selected.
func (s *Session) Selected() (sel Selection, index int, ok bool) {
	if s.selection == nil {
		return Selection{}, -1, false
	}
	i := s.current.IndexOf(s.selection.Collection, s.selection.RootName)
	if i < 0 {
		return Selection{}, -1, false
	}
	return *s.selection, i, true
}

func (s *Session) dropStaleSelection() {
	if s.selection != nil && !s.current.Contains(s.selection.Collection, s.selection.RootName) {
		s.selection = nil
	}
}

// AddAdvancement appends an advancement and selects it.
func (s *Session) AddAdvancement(adv template.Category) error {
	if err := s.checkNew(template.CollectionAdvancements, adv.RootName); err != nil {
		return err
	}
	s.current.Advancements = append(s.current.Advancements, adv)
	s.selection = &Selection{Collection: template.CollectionAdvancements, RootName: adv.RootName}
	return nil
}

// AddStat appends a stat category and selects it.
func (s *Session) AddStat(stat template.Category) error {
	if err := s.checkNew(template.CollectionStats, stat.RootName); err != nil {
		return err
	}
	s.current.Stats = append(s.current.Stats, stat)
	s.selection = &Selection{Collection: template.CollectionStats, RootName: stat.RootName}
	return nil
}

// AddUnlock appends an unlock and selects it.
func (s *Session) AddUnlock(it template.Item) error {
	if err := s.checkNew(template.CollectionUnlocks, it.RootName); err != nil {
		return err
	}
	s.current.Unlocks = append(s.current.Unlocks, it)
	s.selection = &Selection{Collection: template.CollectionUnlocks, RootName: it.RootName}
	return nil
}

// AddCustomGoal appends a custom goal and selects it.
func (s *Session) AddCustomGoal(it template.Item) error {
	if err := s.checkNew(template.CollectionCustomGoals, it.RootName); err != nil {
		return err
	}
	s.current.CustomGoals = append(s.current.CustomGoals, it)
	s.selection = &Selection{Collection: template.CollectionCustomGoals, RootName: it.RootName}
	return nil
}

// AddGoal appends a multi-stage goal, selects it and synchronizes helper
// stats for its Stat stages.
func (s *Session) AddGoal(g template.MultiStageGoal) error {
	if err := s.checkNew(template.CollectionMultiStageGoals, g.RootName); err != nil {
		return err
	}
	s.current.MultiStageGoals = append(s.current.MultiStageGoals, g)
	s.selection = &Selection{Collection: template.CollectionMultiStageGoals, RootName: g.RootName}
	s.Synchronize()
	return nil
}

// Remove deletes the entry named root from c. Removing a goal prunes the
// helper stats only it needed.
func (s *Session) Remove(c template.Collection, root string) error {
	if !s.current.Remove(c, root) {
		return notFound(c, root)
	}
	if c == template.CollectionMultiStageGoals {
		s.Synchronize()
	}
	s.dropStaleSelection()
	return nil
}

// Move relocates the entry named root in c to index to. The index is
// clamped to the collection.
func (s *Session) Move(c template.Collection, root string, to int) error {
	if !s.current.Move(c, root, to) {
		return notFound(c, root)
	}
	return nil
}

// Rename changes the root name of an entry. The selection follows the
// entry.
func (s *Session) Rename(c template.Collection, from, to string) error {
	i := s.current.IndexOf(c, from)
	if i < 0 {
		return notFound(c, from)
	}
	if from == to {
		return nil
	}
	if to == "" {
		return fe.NewValidationError(fe.ErrCodeEmptyName, from, fmt.Sprintf("%s '%s' cannot get an empty root name", c.Singular(), from))
	}
	if err := s.checkNew(c, to); err != nil {
		return err
	}

	doc := s.current
	switch c {
	case template.CollectionAdvancements:
		doc.Advancements[i].RootName = to
	case template.CollectionStats:
		doc.Stats[i].RootName = to
	case template.CollectionUnlocks:
		doc.Unlocks[i].RootName = to
	case template.CollectionCustomGoals:
		doc.CustomGoals[i].RootName = to
	case template.CollectionMultiStageGoals:
		doc.MultiStageGoals[i].RootName = to
	}
	if s.selection != nil && s.selection.Collection == c && s.selection.RootName == from {
		s.selection.RootName = to
	}
	return nil
}

// SetSimple switches a stat between the simple and the complex encoding
// and returns the number of criteria dropped. A simple stat tracks exactly
// one value, so switching a stat with several criteria to simple keeps only
// the first; callers should warn when the result is non-zero.
func (s *Session) SetSimple(root string, simple bool) (dropped int, err error) {
	stat := s.current.Stat(root)
	if stat == nil {
		return 0, notFound(template.CollectionStats, root)
	}
	if stat.IsSimple == simple {
		return 0, nil
	}
	stat.IsSimple = simple
	if !simple {
		return 0, nil
	}

	switch len(stat.Criteria) {
	case 0:
		stat.Criteria = []template.Item{{
			RootName:    stat.RootName,
			DisplayName: stat.DisplayName,
			IconPath:    stat.IconPath,
			Goal:        1,
		}}
	default:
		dropped = len(stat.Criteria) - 1
		stat.Criteria = stat.Criteria[:1]
	}
	return dropped, nil
}

// ToggleSimple flips the encoding of a stat. See SetSimple.
func (s *Session) ToggleSimple(root string) (dropped int, err error) {
	stat := s.current.Stat(root)
	if stat == nil {
		return 0, notFound(template.CollectionStats, root)
	}
	return s.SetSimple(root, !stat.IsSimple)
}

func (s *Session) goal(root string) (*template.MultiStageGoal, error) {
	g := s.current.Goal(root)
	if g == nil {
		return nil, notFound(template.CollectionMultiStageGoals, root)
	}
	return g, nil
}

func stageNotFound(goal, id string) *fe.ForgeError {
	return fe.NewNotFoundError("", fmt.Sprintf("stage '%s' of multi-stage goal '%s' does not exist", id, goal)).WithEntry(id)
}

// AddStage appends a stage to a goal and synchronizes helper stats.
func (s *Session) AddStage(goalRoot string, st template.Stage) error {
	g, err := s.goal(goalRoot)
	if err != nil {
		return err
	}
	if g.StageIndex(st.StageID) >= 0 {
		return fe.NewDuplicateError("stage", st.StageID)
	}
	g.Stages = append(g.Stages, st)
	s.Synchronize()
	return nil
}

// UpdateStage replaces the stage with id and synchronizes helper stats. The
// replacement may carry a new stage id as long as it stays unique.
func (s *Session) UpdateStage(goalRoot, id string, st template.Stage) error {
	g, err := s.goal(goalRoot)
	if err != nil {
		return err
	}
	i := g.StageIndex(id)
	if i < 0 {
		return stageNotFound(goalRoot, id)
	}
	if st.StageID != id && g.StageIndex(st.StageID) >= 0 {
		return fe.NewDuplicateError("stage", st.StageID)
	}
	g.Stages[i] = st
	s.Synchronize()
	return nil
}

// RemoveStage deletes the stage with id and synchronizes helper stats.
func (s *Session) RemoveStage(goalRoot, id string) error {
	g, err := s.goal(goalRoot)
	if err != nil {
		return err
	}
	i := g.StageIndex(id)
	if i < 0 {
		return stageNotFound(goalRoot, id)
	}
	g.Stages = append(g.Stages[:i], g.Stages[i+1:]...)
	s.Synchronize()
	return nil
}

// MoveStage relocates the stage with id within its goal.
func (s *Session) MoveStage(goalRoot, id string, to int) error {
	g, err := s.goal(goalRoot)
	if err != nil {
		return err
	}
	if !g.MoveStage(id, to) {
		return stageNotFound(goalRoot, id)
	}
	return nil
}
