package craft

import (
	"fmt"
	"math"
)

// ActionID names every action in the catalog.
type ActionID uint8

const (
	ActionNone ActionID = iota
	BasicSynthesis
	RapidSynthesis
	CarefulSynthesis
	Groundwork
	FocusedSynthesis
	MuscleMemory
	DelicateSynthesis
	IntensiveSynthesis
	PrudentSynthesis
	BasicTouch
	HastyTouch
	StandardTouch
	AdvancedTouch
	PreparatoryTouch
	PrudentTouch
	FocusedTouch
	Reflect
	ByregotsBlessing
	PreciseTouch
	TrainedFinesse
	TrainedEye
	WasteNot
	WasteNotII
	Manipulation
	Veneration
	Innovation
	GreatStrides
	FinalAppraisal
	RemoveFinalAppraisal
	HeartAndSoul
	Observe
	MastersMend
	TricksOfTheTrade
	CarefulObservation

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:           "None",
	BasicSynthesis:       "BasicSynthesis",
	RapidSynthesis:       "RapidSynthesis",
	CarefulSynthesis:     "CarefulSynthesis",
	Groundwork:           "Groundwork",
	FocusedSynthesis:     "FocusedSynthesis",
	MuscleMemory:         "MuscleMemory",
	DelicateSynthesis:    "DelicateSynthesis",
	IntensiveSynthesis:   "IntensiveSynthesis",
	PrudentSynthesis:     "PrudentSynthesis",
	BasicTouch:           "BasicTouch",
	HastyTouch:           "HastyTouch",
	StandardTouch:        "StandardTouch",
	AdvancedTouch:        "AdvancedTouch",
	PreparatoryTouch:     "PreparatoryTouch",
	PrudentTouch:         "PrudentTouch",
	FocusedTouch:         "FocusedTouch",
	Reflect:              "Reflect",
	ByregotsBlessing:     "ByregotsBlessing",
	PreciseTouch:         "PreciseTouch",
	TrainedFinesse:       "TrainedFinesse",
	TrainedEye:           "TrainedEye",
	WasteNot:             "WasteNot",
	WasteNotII:           "WasteNotII",
	Manipulation:         "Manipulation",
	Veneration:           "Veneration",
	Innovation:           "Innovation",
	GreatStrides:         "GreatStrides",
	FinalAppraisal:       "FinalAppraisal",
	RemoveFinalAppraisal: "RemoveFinalAppraisal",
	HeartAndSoul:         "HeartAndSoul",
	Observe:              "Observe",
	MastersMend:          "MastersMend",
	TricksOfTheTrade:     "TricksOfTheTrade",
	CarefulObservation:   "CarefulObservation",
}

func (id ActionID) String() string {
	if id < actionCount {
		return actionNames[id]
	}
	return fmt.Sprintf("Action(%d)", uint8(id))
}

func (id ActionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// ActionIDs lists every catalog id in declaration order, ActionNone excluded.
func ActionIDs() []ActionID {
	out := make([]ActionID, 0, actionCount-1)
	for id := ActionID(1); id < actionCount; id++ {
		out = append(out, id)
	}
	return out
}

// Action is the contract every crafting action implements. Implementations
// are stateless values; all run state lives in the Simulation passed in.
type Action interface {
	ID() ActionID
	LevelRequirement() (CraftingJob, CraftingLevel)
	Type() ActionType

	BaseCPCost(s *Simulation) uint32
	DurabilityCost(s *Simulation) uint32
	// SuccessRate is a percentage in 0..100.
	SuccessRate(s *Simulation) uint32

	// Usable reports usability beyond the job/level gate. linear is set for
	// deterministic runs, where condition-gated actions are always allowed.
	Usable(s *Simulation, linear bool) (bool, FailCause)
	HasCombo(s *Simulation) bool

	Execute(s *Simulation)
	OnFail(s *Simulation)

	SkipOnFail() bool
	SkipsBuffTicks() bool
	RequiresGood() bool
}

// UnboundedDuration marks a buff that only ends when something removes it.
const UnboundedDuration int32 = math.MaxInt32

// BuffAction is an Action that applies a Buff.
type BuffAction interface {
	Action
	Duration(s *Simulation) int32
	CanBeClipped() bool
	BuffKind() Buff
	InitialStacks() uint32
}

// usableWithFlags applies the level gate, then the action's own checks.
func (s *Simulation) usableWithFlags(a Action, linear bool) (bool, FailCause) {
	job, lvl := a.LevelRequirement()
	have := s.Stats.Level
	if job != JobAny {
		if l, ok := s.Stats.Levels.For(job); ok {
			have = l
		}
	}
	if have < lvl {
		return false, FailMissingLevel
	}
	return a.Usable(s, linear)
}

// CPCost is the CP an action actually spends at the current condition.
// Pliant halves the base cost, rounding up.
func (s *Simulation) CPCost(a Action) uint32 {
	base := a.BaseCPCost(s)
	if s.state == StatePliant {
		return uint32(math.Ceil(float64(base) / 2))
	}
	return base
}

// HasComboAvailable reports whether the most recent non-skipped step was a
// successful use of id. Skipped steps are transparent.
func (s *Simulation) HasComboAvailable(id ActionID) bool {
	_, ok := s.ComboStep(id)
	return ok
}

// ComboStep returns the step that grants a combo from id, if any.
func (s *Simulation) ComboStep(id ActionID) (ActionResult, bool) {
	for i := len(s.Steps) - 1; i >= 0; i-- {
		step := s.Steps[i]
		if step.Action != nil && step.Action.ID() == id && step.Success == OutcomeSucceeded {
			return step, true
		}
		if !step.Skipped {
			return ActionResult{}, false
		}
	}
	return ActionResult{}, false
}

// ApplyBuff replaces any active buff of the same kind, and of each kind in
// overrides, with a fresh instance from a. A buff that cannot be clipped
// keeps running untouched while it is active.
func (s *Simulation) ApplyBuff(a BuffAction, overrides ...Buff) {
	if !a.CanBeClipped() && s.HasBuff(a.BuffKind()) {
		return
	}
	for _, b := range overrides {
		s.RemoveBuff(b)
	}
	s.RemoveBuff(a.BuffKind())
	s.buffs = append(s.buffs, EffectiveBuff{
		Buff:        a.BuffKind(),
		Duration:    a.Duration(s),
		Stacks:      a.InitialStacks(),
		AppliedStep: len(s.Steps),
	})
}
