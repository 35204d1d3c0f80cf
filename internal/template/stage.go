package template

import "fmt"

// StageKind is what completes a stage.
type StageKind int

const (
	StageStat StageKind = iota
	StageAdvancement
	StageCriterion
	StageUnlock
	StageFinal
)

var stageKindNames = map[StageKind]string{
	StageStat:        "stat",
	StageAdvancement: "advancement",
	StageCriterion:   "criterion",
	StageUnlock:      "unlock",
	StageFinal:       "final",
}

// String returns the wire name of the kind.
func (k StageKind) String() string {
	if name, ok := stageKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseStageKind maps a wire name back to a StageKind.
func ParseStageKind(s string) (StageKind, error) {
	for kind, name := range stageKindNames {
		if name == s {
			return kind, nil
		}
	}
	return StageStat, fmt.Errorf("unknown stage type %q", s)
}
