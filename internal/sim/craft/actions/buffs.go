package actions

import "craftsim.ai/internal/sim/craft"

// buffAction is embedded by actions whose whole effect is applying a buff.
type buffAction struct{ defaults }

func (buffAction) Type() craft.ActionType                  { return craft.TypeBuff }
func (buffAction) DurabilityCost(*craft.Simulation) uint32 { return 0 }
func (buffAction) CanBeClipped() bool                      { return true }
func (buffAction) InitialStacks() uint32                   { return 0 }

type WasteNot struct{ buffAction }

func (WasteNot) ID() craft.ActionID { return craft.WasteNot }
func (WasteNot) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(15)
}
func (WasteNot) BaseCPCost(*craft.Simulation) uint32 { return 56 }
func (WasteNot) Duration(*craft.Simulation) int32    { return 4 }
func (WasteNot) BuffKind() craft.Buff                { return craft.BuffWasteNot }
func (a WasteNot) Execute(s *craft.Simulation)       { s.ApplyBuff(a, craft.BuffWasteNotII) }

type WasteNotII struct{ buffAction }

func (WasteNotII) ID() craft.ActionID { return craft.WasteNotII }
func (WasteNotII) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(47)
}
func (WasteNotII) BaseCPCost(*craft.Simulation) uint32 { return 98 }
func (WasteNotII) Duration(*craft.Simulation) int32    { return 8 }
func (WasteNotII) BuffKind() craft.Buff                { return craft.BuffWasteNotII }
func (a WasteNotII) Execute(s *craft.Simulation)       { s.ApplyBuff(a, craft.BuffWasteNot) }

// Manipulation repairs 5 durability on every step after the one it is
// used on.
type Manipulation struct{ buffAction }

func (Manipulation) ID() craft.ActionID { return craft.Manipulation }
func (Manipulation) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(65)
}
func (Manipulation) BaseCPCost(*craft.Simulation) uint32 { return 96 }
func (Manipulation) Duration(*craft.Simulation) int32    { return 8 }
func (Manipulation) BuffKind() craft.Buff                { return craft.BuffManipulation }
func (a Manipulation) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

type Veneration struct{ buffAction }

func (Veneration) ID() craft.ActionID { return craft.Veneration }
func (Veneration) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(15)
}
func (Veneration) BaseCPCost(*craft.Simulation) uint32 { return 18 }
func (Veneration) Duration(*craft.Simulation) int32    { return 4 }
func (Veneration) BuffKind() craft.Buff                { return craft.BuffVeneration }
func (a Veneration) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

type Innovation struct{ buffAction }

func (Innovation) ID() craft.ActionID { return craft.Innovation }
func (Innovation) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(26)
}
func (Innovation) BaseCPCost(*craft.Simulation) uint32 { return 18 }
func (Innovation) Duration(*craft.Simulation) int32    { return 4 }
func (Innovation) BuffKind() craft.Buff                { return craft.BuffInnovation }
func (a Innovation) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

type GreatStrides struct{ buffAction }

func (GreatStrides) ID() craft.ActionID { return craft.GreatStrides }
func (GreatStrides) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(21)
}
func (GreatStrides) BaseCPCost(*craft.Simulation) uint32 { return 32 }
func (GreatStrides) Duration(*craft.Simulation) int32    { return 3 }
func (GreatStrides) BuffKind() craft.Buff                { return craft.BuffGreatStrides }
func (a GreatStrides) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

// FinalAppraisal stops the next synthesis one point short of completion.
// Using it does not advance buffs or the condition.
type FinalAppraisal struct{ buffAction }

func (FinalAppraisal) ID() craft.ActionID { return craft.FinalAppraisal }
func (FinalAppraisal) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(42)
}
func (FinalAppraisal) BaseCPCost(*craft.Simulation) uint32 { return 1 }
func (FinalAppraisal) Duration(*craft.Simulation) int32    { return 5 }
func (FinalAppraisal) BuffKind() craft.Buff                { return craft.BuffFinalAppraisal }
func (FinalAppraisal) SkipsBuffTicks() bool                { return true }
func (a FinalAppraisal) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

// HeartAndSoul lets one condition-gated action run at any condition. It is
// a specialist action, usable once per craft.
type HeartAndSoul struct{ buffAction }

func (HeartAndSoul) ID() craft.ActionID { return craft.HeartAndSoul }
func (HeartAndSoul) LevelRequirement() (craft.CraftingJob, craft.CraftingLevel) {
	return anyJob(86)
}
func (HeartAndSoul) Type() craft.ActionType              { return craft.TypeOther }
func (HeartAndSoul) BaseCPCost(*craft.Simulation) uint32 { return 0 }
func (HeartAndSoul) Duration(*craft.Simulation) int32    { return craft.UnboundedDuration }
func (HeartAndSoul) BuffKind() craft.Buff                { return craft.BuffHeartAndSoul }
func (HeartAndSoul) SkipOnFail() bool                    { return true }
func (HeartAndSoul) SkipsBuffTicks() bool                { return true }
func (a HeartAndSoul) Execute(s *craft.Simulation)       { s.ApplyBuff(a) }

func (HeartAndSoul) Usable(s *craft.Simulation, _ bool) (bool, craft.FailCause) {
	if !s.Stats.Specialist {
		return false, craft.FailNotSpecialist
	}
	for _, st := range s.Steps {
		if st.ActionID() == craft.HeartAndSoul {
			return false, craft.FailAlreadyUsed
		}
	}
	return true, ""
}
