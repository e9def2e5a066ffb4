package actions

import "craftsim.ai/internal/sim/craft"

type BasicSynthesis struct{ defaults }

func (BasicSynthesis) ID() craft.ActionID { return craft.BasicSynthesis }
func (BasicSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(1)
}
func (BasicSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (BasicSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 0 }
func (BasicSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }

func (BasicSynthesis) potency(s *craft.Simulation) uint32 {
	if s.Stats.Level >= 31 {
		return 120
	}
	return 100
}

func (a BasicSynthesis) Execute(s *craft.Simulation) { addProgress(s, a.potency(s)) }

type RapidSynthesis struct{ defaults }

func (RapidSynthesis) ID() craft.ActionID { return craft.RapidSynthesis }
func (RapidSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(9)
}
func (RapidSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (RapidSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 0 }
func (RapidSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (RapidSynthesis) SuccessRate(*craft.Simulation) uint32      { return 50 }

func (RapidSynthesis) Execute(s *craft.Simulation) {
	potency := uint32(250)
	if s.Stats.Level >= 63 {
		potency = 500
	}
	addProgress(s, potency)
}

type CarefulSynthesis struct{ defaults }

func (CarefulSynthesis) ID() craft.ActionID { return craft.CarefulSynthesis }
func (CarefulSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(62)
}
func (CarefulSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (CarefulSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 7 }
func (CarefulSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }

func (CarefulSynthesis) Execute(s *craft.Simulation) {
	potency := uint32(150)
	if s.Stats.Level >= 82 {
		potency = 180
	}
	addProgress(s, potency)
}

// Groundwork loses half its potency when the remaining durability cannot
// cover its cost.
type Groundwork struct{ defaults }

func (Groundwork) ID() craft.ActionID { return craft.Groundwork }
func (Groundwork) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(72)
}
func (Groundwork) Type() craft.ActionType                    { return craft.TypeProgression }
func (Groundwork) BaseCPCost(*craft.Simulation) uint32       { return 18 }
func (Groundwork) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 20) }

func (a Groundwork) Execute(s *craft.Simulation) {
	potency := uint32(300)
	if s.Stats.Level >= 86 {
		potency = 360
	}
	if s.Durability < int32(a.DurabilityCost(s)) {
		potency /= 2
	}
	addProgress(s, potency)
}

// FocusedSynthesis always lands right after Observe.
type FocusedSynthesis struct{ defaults }

func (FocusedSynthesis) ID() craft.ActionID { return craft.FocusedSynthesis }
func (FocusedSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(67)
}
func (FocusedSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (FocusedSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 5 }
func (FocusedSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (FocusedSynthesis) HasCombo(s *craft.Simulation) bool {
	return s.HasComboAvailable(craft.Observe)
}

func (a FocusedSynthesis) SuccessRate(s *craft.Simulation) uint32 {
	if a.HasCombo(s) {
		return 100
	}
	return 50
}

func (FocusedSynthesis) Execute(s *craft.Simulation) { addProgress(s, 200) }

// MuscleMemory opens the craft and doubles the next synthesis.
type MuscleMemory struct{ defaults }

func (MuscleMemory) ID() craft.ActionID { return craft.MuscleMemory }
func (MuscleMemory) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(54)
}
func (MuscleMemory) Type() craft.ActionType                    { return craft.TypeProgression }
func (MuscleMemory) BaseCPCost(*craft.Simulation) uint32       { return 6 }
func (MuscleMemory) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (MuscleMemory) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	return firstStep(s)
}

func (MuscleMemory) Duration(*craft.Simulation) int32 { return 5 }
func (MuscleMemory) CanBeClipped() bool               { return false }
func (MuscleMemory) BuffKind() craft.Buff             { return craft.BuffMuscleMemory }
func (MuscleMemory) InitialStacks() uint32            { return 0 }

func (a MuscleMemory) Execute(s *craft.Simulation) {
	addProgress(s, 300)
	s.ApplyBuff(a)
}

type DelicateSynthesis struct{ defaults }

func (DelicateSynthesis) ID() craft.ActionID { return craft.DelicateSynthesis }
func (DelicateSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(76)
}
func (DelicateSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (DelicateSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 32 }
func (DelicateSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }

func (DelicateSynthesis) Execute(s *craft.Simulation) {
	addProgress(s, 100)
	addQuality(s, 100, 1)
}

type IntensiveSynthesis struct{ goodOnly }

func (IntensiveSynthesis) ID() craft.ActionID { return craft.IntensiveSynthesis }
func (IntensiveSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(78)
}
func (IntensiveSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (IntensiveSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 6 }
func (IntensiveSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (IntensiveSynthesis) Execute(s *craft.Simulation)               { addProgress(s, 400) }

type PrudentSynthesis struct{ defaults }

func (PrudentSynthesis) ID() craft.ActionID { return craft.PrudentSynthesis }
func (PrudentSynthesis) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(88)
}
func (PrudentSynthesis) Type() craft.ActionType                    { return craft.TypeProgression }
func (PrudentSynthesis) BaseCPCost(*craft.Simulation) uint32       { return 18 }
func (PrudentSynthesis) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 5) }
func (PrudentSynthesis) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	return noWasteNot(s)
}
func (PrudentSynthesis) Execute(s *craft.Simulation) { addProgress(s, 180) }
