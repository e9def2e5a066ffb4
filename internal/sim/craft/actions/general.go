// Package actions is the crafting action catalog. Every action is a
// zero-size value implementing craft.Action; the registry maps ids and
// names to them.
package actions

import (
	"math"

	"craftsim.ai/internal/sim/craft"
	"craftsim.ai/internal/sim/tables"
)

// defaults supplies the contract methods most actions leave alone.
type defaults struct{}

func (defaults) SuccessRate(*craft.Simulation) uint32 { return 100 }

func (defaults) Usable(*craft.Simulation, bool) (bool, craft.FailCause) { return true, "" }

func (defaults) HasCombo(*craft.Simulation) bool { return false }

func (defaults) OnFail(*craft.Simulation) {}

func (defaults) SkipOnFail() bool { return false }

func (defaults) SkipsBuffTicks() bool { return false }

func (defaults) RequiresGood() bool { return false }

func anyJob(level int) (craft.CraftingJob, craft.CraftingLevel) {
	return craft.JobAny, craft.CraftingLevel(level)
}

// modifierApplies reports whether the recipe's stat modifiers count: only
// when the crafter is not rated above the recipe.
func modifierApplies(s *craft.Simulation) bool {
	return tables.RecipeLevel(uint8(s.Stats.Level)) <= s.Recipe.RLvl
}

// BaseProgress is the progress a potency-100 synthesis adds at Normal.
func BaseProgress(s *craft.Simulation) uint32 {
	v := float64(s.Stats.Craftsmanship)*10/float64(s.Recipe.ProgressDivider) + 2
	if modifierApplies(s) {
		v = v * modifierOr100(s.Recipe.ProgressModifier) / 100
	}
	return uint32(math.Floor(v))
}

// BaseQuality is the quality a potency-100 touch adds at Normal with no buffs.
func BaseQuality(s *craft.Simulation) uint32 {
	v := float64(s.Stats.Control)*10/float64(s.Recipe.QualityDivider) + 35
	if modifierApplies(s) {
		v = v * modifierOr100(s.Recipe.QualityModifier) / 100
	}
	return uint32(math.Floor(v))
}

func modifierOr100(m *float64) float64 {
	if m == nil {
		return 100
	}
	return *m
}

// durabilityCost halves base for Waste Not and again for Sturdy, rounding up.
func durabilityCost(s *craft.Simulation, base uint32) uint32 {
	divider := 1.0
	if s.HasBuff(craft.BuffWasteNot) || s.HasBuff(craft.BuffWasteNotII) {
		divider *= 2
	}
	if s.State() == craft.StateSturdy {
		divider *= 2
	}
	return uint32(math.Ceil(float64(base) / divider))
}

// addProgress applies a synthesis of the given potency. Muscle Memory is
// spent by it; Final Appraisal keeps the craft one point short of done.
func addProgress(s *craft.Simulation, potency uint32) {
	condition := 1.0
	if s.State() == craft.StateMalleable {
		condition *= 1.5
	}

	buffMod := 1.0
	if s.HasBuff(craft.BuffMuscleMemory) {
		buffMod += 1
		s.RemoveBuff(craft.BuffMuscleMemory)
	}
	if s.HasBuff(craft.BuffVeneration) {
		buffMod += 0.5
	}

	efficiency := float64(float32(float64(potency) * buffMod))
	added := math.Floor(float64(BaseProgress(s)) * condition * efficiency / 100)
	s.Progress += uint32(added)

	if s.HasBuff(craft.BuffFinalAppraisal) && s.Progress >= s.Recipe.Progress {
		s.Progress = min(s.Progress, s.Recipe.Progress-1)
		s.RemoveBuff(craft.BuffFinalAppraisal)
	}
}

// addQuality applies a touch of the given potency, then grants stacks of
// Inner Quiet (none when stacks is 0).
func addQuality(s *craft.Simulation, potency, stacks uint32) {
	condition := 1.0
	switch s.State() {
	case craft.StateExcellent:
		condition *= 4
	case craft.StatePoor:
		condition *= 0.5
	case craft.StateGood:
		if s.Stats.Splendorous {
			condition *= 1.75
		} else {
			condition *= 1.5
		}
	}

	buffMod := 1 + float64(s.InnerQuietStacks())/10

	mult := 1.0
	if s.HasBuff(craft.BuffGreatStrides) {
		mult += 1
		s.RemoveBuff(craft.BuffGreatStrides)
	}
	if s.HasBuff(craft.BuffInnovation) {
		mult += 0.5
	}

	buffMod = float64(float32(buffMod) * float32(mult))
	efficiency := float64(float32(float64(potency) * buffMod))
	added := math.Floor(float64(BaseQuality(s)) * condition * efficiency / 100)
	s.Quality += uint32(added)

	if stacks > 0 {
		s.AddInnerQuietStacks(stacks)
	}
}

// firstStep gates opener actions.
func firstStep(s *craft.Simulation) (bool, craft.FailCause) {
	if len(s.Steps) > 0 {
		return false, craft.FailNotFirstStep
	}
	return true, ""
}

func noWasteNot(s *craft.Simulation) (bool, craft.FailCause) {
	if s.HasBuff(craft.BuffWasteNot) || s.HasBuff(craft.BuffWasteNotII) {
		return false, craft.FailWasteNotActive
	}
	return true, ""
}

// goodOnly is embedded by actions that need a Good or Excellent condition.
// Linear runs and Heart and Soul lift the requirement.
type goodOnly struct{ defaults }

func (goodOnly) Usable(s *craft.Simulation, linear bool) (bool, craft.FailCause) {
	if linear || s.HasBuff(craft.BuffHeartAndSoul) {
		return true, ""
	}
	if st := s.State(); st == craft.StateGood || st == craft.StateExcellent {
		return true, ""
	}
	return false, craft.FailNotGood
}

func (goodOnly) SkipOnFail() bool { return true }

func (goodOnly) RequiresGood() bool { return true }

func usedCount(s *craft.Simulation, id craft.ActionID) int {
	n := 0
	for _, st := range s.Steps {
		if !st.Skipped && st.ActionID() == id {
			n++
		}
	}
	return n
}
