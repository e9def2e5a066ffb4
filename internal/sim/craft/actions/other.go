package actions

import "craftsim.ai/internal/sim/craft"

type Observe struct{ defaults }

func (Observe) ID() craft.ActionID { return craft.Observe }
func (Observe) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(13)
}
func (Observe) Type() craft.ActionType                  { return craft.TypeOther }
func (Observe) BaseCPCost(*craft.Simulation) uint32     { return 7 }
func (Observe) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (Observe) Execute(*craft.Simulation)               {}

type MastersMend struct{ defaults }

func (MastersMend) ID() craft.ActionID { return craft.MastersMend }
func (MastersMend) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(7)
}
func (MastersMend) Type() craft.ActionType                  { return craft.TypeRepair }
func (MastersMend) BaseCPCost(*craft.Simulation) uint32     { return 88 }
func (MastersMend) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (MastersMend) Execute(s *craft.Simulation)             { s.Repair(30) }

type TricksOfTheTrade struct{ goodOnly }

func (TricksOfTheTrade) ID() craft.ActionID { return craft.TricksOfTheTrade }
func (TricksOfTheTrade) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(13)
}
func (TricksOfTheTrade) Type() craft.ActionType                  { return craft.TypeCPRecovery }
func (TricksOfTheTrade) BaseCPCost(*craft.Simulation) uint32     { return 0 }
func (TricksOfTheTrade) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (TricksOfTheTrade) Execute(s *craft.Simulation)             { s.RestoreCP(20) }

// MaxCarefulObservations is how often CarefulObservation can be used per craft.
const MaxCarefulObservations = 3

// CarefulObservation spends a step only for its condition draw, which the
// engine makes after every step. Specialists only.
type CarefulObservation struct{ defaults }

func (CarefulObservation) ID() craft.ActionID { return craft.CarefulObservation }
func (CarefulObservation) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(55)
}
func (CarefulObservation) Type() craft.ActionType                  { return craft.TypeSpecialty }
func (CarefulObservation) BaseCPCost(*craft.Simulation) uint32     { return 0 }
func (CarefulObservation) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (CarefulObservation) SkipsBuffTicks() bool                    { return true }
func (CarefulObservation) Execute(*craft.Simulation)               {}

func (CarefulObservation) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if !s.Stats.Specialist {
		return false, craft.FailNotSpecialist
	}
	if usedCount(s, craft.CarefulObservation) >= MaxCarefulObservations {
		return false, craft.FailAlreadyUsed
	}
	return true, ""
}

// RemoveFinalAppraisal drops Final Appraisal without spending a step's
// buff or condition tick.
type RemoveFinalAppraisal struct{ defaults }

func (RemoveFinalAppraisal) ID() craft.ActionID { return craft.RemoveFinalAppraisal }
func (RemoveFinalAppraisal) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(42)
}
func (RemoveFinalAppraisal) Type() craft.ActionType                  { return craft.TypeOther }
func (RemoveFinalAppraisal) BaseCPCost(*craft.Simulation) uint32     { return 0 }
func (RemoveFinalAppraisal) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (RemoveFinalAppraisal) SkipsBuffTicks() bool                    { return true }

func (RemoveFinalAppraisal) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if !s.HasBuff(craft.BuffFinalAppraisal) {
		return false, craft.FailNoFinalAppraisal
	}
	return true, ""
}

func (RemoveFinalAppraisal) Execute(s *craft.Simulation) {
	s.RemoveBuff(craft.BuffFinalAppraisal)
}
