package codec

import "strings"

var advancementKeyReplacer = strings.NewReplacer(":", ".", "/", ".")

// AdvancementKey is the language key of an advancement display name.
// Colons and slashes in the root name become dots.
func AdvancementKey(root string) string {
	return "advancement." + advancementKeyReplacer.Replace(root)
}

// CriterionKey is the language key of a criterion under parentKey.
func CriterionKey(parentKey, criterion string) string {
	return parentKey + ".criteria." + criterion
}

// StatKey is the language key of a stat display name. The root name is used
// verbatim.
func StatKey(root string) string {
	return "stat." + root
}

// UnlockKey is the language key of an unlock.
func UnlockKey(root string) string {
	return "unlock." + root
}

// CustomKey is the language key of a custom goal.
func CustomKey(root string) string {
	return "custom." + root
}

// GoalKey is the language key of a multi-stage goal display name.
func GoalKey(root string) string {
	return "multi_stage_goal." + root + ".display_name"
}

// StageKey is the language key of a stage display text.
func StageKey(goalRoot, stageID string) string {
	return "multi_stage_goal." + goalRoot + ".stage." + stageID
}
