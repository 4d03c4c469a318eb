package solver

import "fmt"

// ActionKind names the kind of step a strategy took
type ActionKind string

const (
	ActionBuild    ActionKind = "build"
	ActionMiner    ActionKind = "miner"
	ActionResearch ActionKind = "research"
	ActionRetarget ActionKind = "retarget"
	ActionVictory  ActionKind = "victory"
)

// Action is one recorded step of a playthrough
type Action struct {
	Tick   uint64
	Kind   ActionKind
	Detail string
}

func (a Action) String() string {
	return fmt.Sprintf("[%d] %s %s", a.Tick, a.Kind, a.Detail)
}
