package actions

import "craftsim.ai/internal/sim/craft"

type BasicTouch struct{ defaults }

func (BasicTouch) ID() craft.ActionID { return craft.BasicTouch }
func (BasicTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(5)
}
func (BasicTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (BasicTouch) BaseCPCost(*craft.Simulation) uint32       { return 18 }
func (BasicTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (BasicTouch) Execute(s *craft.Simulation)               { addQuality(s, 100, 1) }

type HastyTouch struct{ defaults }

func (HastyTouch) ID() craft.ActionID { return craft.HastyTouch }
func (HastyTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(9)
}
func (HastyTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (HastyTouch) BaseCPCost(*craft.Simulation) uint32       { return 0 }
func (HastyTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (HastyTouch) SuccessRate(*craft.Simulation) uint32      { return 60 }
func (HastyTouch) Execute(s *craft.Simulation)               { addQuality(s, 100, 1) }

// StandardTouch is cheaper right after Basic Touch.
type StandardTouch struct{ defaults }

func (StandardTouch) ID() craft.ActionID { return craft.StandardTouch }
func (StandardTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(18)
}
func (StandardTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (StandardTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (StandardTouch) Execute(s *craft.Simulation)               { addQuality(s, 125, 1) }

func (StandardTouch) HasCombo(s *craft.Simulation) bool {
	return s.HasComboAvailable(craft.BasicTouch)
}

func (a StandardTouch) BaseCPCost(s *craft.Simulation) uint32 {
	if a.HasCombo(s) {
		return 18
	}
	return 32
}

// AdvancedTouch is cheaper only when it closes a full Basic, Standard,
// Advanced chain.
type AdvancedTouch struct{ defaults }

func (AdvancedTouch) ID() craft.ActionID { return craft.AdvancedTouch }
func (AdvancedTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(84)
}
func (AdvancedTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (AdvancedTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (AdvancedTouch) Execute(s *craft.Simulation)               { addQuality(s, 150, 1) }

func (AdvancedTouch) HasCombo(s *craft.Simulation) bool {
	step, ok := s.ComboStep(craft.StandardTouch)
	return ok && step.Combo
}

func (a AdvancedTouch) BaseCPCost(s *craft.Simulation) uint32 {
	if a.HasCombo(s) {
		return 18
	}
	return 46
}

type PreparatoryTouch struct{ defaults }

func (PreparatoryTouch) ID() craft.ActionID { return craft.PreparatoryTouch }
func (PreparatoryTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(71)
}
func (PreparatoryTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (PreparatoryTouch) BaseCPCost(*craft.Simulation) uint32       { return 40 }
func (PreparatoryTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 20) }
func (PreparatoryTouch) Execute(s *craft.Simulation)               { addQuality(s, 200, 2) }

type PrudentTouch struct{ defaults }

func (PrudentTouch) ID() craft.ActionID { return craft.PrudentTouch }
func (PrudentTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(66)
}
func (PrudentTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (PrudentTouch) BaseCPCost(*craft.Simulation) uint32       { return 25 }
func (PrudentTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 5) }
func (PrudentTouch) Execute(s *craft.Simulation)               { addQuality(s, 100, 1) }

func (PrudentTouch) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	return noWasteNot(s)
}

// FocusedTouch always lands right after Observe.
type FocusedTouch struct{ defaults }

func (FocusedTouch) ID() craft.ActionID { return craft.FocusedTouch }
func (FocusedTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(68)
}
func (FocusedTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (FocusedTouch) BaseCPCost(*craft.Simulation) uint32       { return 18 }
func (FocusedTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (FocusedTouch) Execute(s *craft.Simulation)               { addQuality(s, 150, 1) }

func (FocusedTouch) HasCombo(s *craft.Simulation) bool {
	return s.HasComboAvailable(craft.Observe)
}

func (a FocusedTouch) SuccessRate(s *craft.Simulation) uint32 {
	if a.HasCombo(s) {
		return 100
	}
	return 50
}

// Reflect opens the craft with two stacks of Inner Quiet.
type Reflect struct{ defaults }

func (Reflect) ID() craft.ActionID { return craft.Reflect }
func (Reflect) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(69)
}
func (Reflect) Type() craft.ActionType                    { return craft.TypeQuality }
func (Reflect) BaseCPCost(*craft.Simulation) uint32       { return 6 }
func (Reflect) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (Reflect) Execute(s *craft.Simulation)               { addQuality(s, 100, 2) }

func (Reflect) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	return firstStep(s)
}

// ByregotsBlessing spends every Inner Quiet stack for 20 potency each.
type ByregotsBlessing struct{ defaults }

func (ByregotsBlessing) ID() craft.ActionID { return craft.ByregotsBlessing }
func (ByregotsBlessing) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(50)
}
func (ByregotsBlessing) Type() craft.ActionType                    { return craft.TypeQuality }
func (ByregotsBlessing) BaseCPCost(*craft.Simulation) uint32       { return 24 }
func (ByregotsBlessing) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }

func (ByregotsBlessing) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if s.InnerQuietStacks() == 0 {
		return false, craft.FailNoInnerQuiet
	}
	return true, ""
}

func (ByregotsBlessing) Execute(s *craft.Simulation) {
	addQuality(s, 100+20*s.InnerQuietStacks(), 0)
	s.RemoveBuff(craft.BuffInnerQuiet)
}

type PreciseTouch struct{ goodOnly }

func (PreciseTouch) ID() craft.ActionID { return craft.PreciseTouch }
func (PreciseTouch) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(53)
}
func (PreciseTouch) Type() craft.ActionType                    { return craft.TypeQuality }
func (PreciseTouch) BaseCPCost(*craft.Simulation) uint32       { return 18 }
func (PreciseTouch) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }
func (PreciseTouch) Execute(s *craft.Simulation)               { addQuality(s, 150, 2) }

// TrainedFinesse needs a full Inner Quiet and costs no durability.
type TrainedFinesse struct{ defaults }

func (TrainedFinesse) ID() craft.ActionID { return craft.TrainedFinesse }
func (TrainedFinesse) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(90)
}
func (TrainedFinesse) Type() craft.ActionType                  { return craft.TypeQuality }
func (TrainedFinesse) BaseCPCost(*craft.Simulation) uint32     { return 32 }
func (TrainedFinesse) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (TrainedFinesse) Execute(s *craft.Simulation)             { addQuality(s, 100, 0) }

func (TrainedFinesse) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if s.InnerQuietStacks() < craft.MaxInnerQuiet {
		return false, craft.FailInnerQuietNotFull
	}
	return true, ""
}

// TrainedEye maxes quality on an opener for recipes well below the crafter.
type TrainedEye struct{ defaults }

func (TrainedEye) ID() craft.ActionID { return craft.TrainedEye }
func (TrainedEye) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(80)
}
func (TrainedEye) Type() craft.ActionType                    { return craft.TypeQuality }
func (TrainedEye) BaseCPCost(*craft.Simulation) uint32       { return 250 }
func (TrainedEye) DurabilityCost(s *craft.Simulation) uint32 { return durabilityCost(s, 10) }

func (TrainedEye) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if ok, cause := firstStep(s); !ok {
		return false, cause
	}
	if s.Recipe.Expert || int(s.Recipe.Lvl) > int(s.Stats.Level)-10 {
		return false, craft.FailRecipeTooHigh
	}
	return true, ""
}

func (TrainedEye) Execute(s *craft.Simulation) {
	s.Quality += s.Recipe.Quality
}
