package craft

import (
	"math"

	"craftsim.ai/internal/sim/tables"
)

// Simulation is the mutable state of one crafting run. It is not safe for
// concurrent use; independent runs share nothing.
type Simulation struct {
	Recipe Craft
	Stats  CrafterStats

	Progress    uint32
	Quality     uint32
	Durability  int32
	AvailableCP uint32
	MaxCP       uint32

	Steps []ActionResult
	// Success is decided at most once per run: Succeeded when progress
	// reaches the target, Failed when durability runs out first.
	Success Outcome

	actions    []Action
	stepStates []StepState
	fails      map[int]struct{}
	possible   []StepState

	state StepState
	buffs []EffectiveBuff
	safe  bool

	rates   ConditionRates
	hooks   map[Buff]BuffHooks
	roller  Roller
	sampler Sampler
}

// Actions returns the rotation the simulation was built with.
func (s *Simulation) Actions() []Action {
	out := make([]Action, len(s.actions))
	copy(out, s.actions)
	return out
}

// Safe is false once a safe-mode run refused an action.
func (s *Simulation) Safe() bool { return s.safe }

func (s *Simulation) reset() {
	s.Progress = 0
	s.Quality = 0
	s.Durability = int32(s.Recipe.Durability)
	s.AvailableCP = s.Stats.CP
	s.MaxCP = s.Stats.CP
	s.Steps = nil
	s.Success = OutcomeUnset
	s.state = StateNormal
	s.buffs = nil
	s.safe = false
}

// Repair restores durability, capped at the recipe's durability.
func (s *Simulation) Repair(amount uint32) {
	s.Durability = min(int32(s.Recipe.Durability), s.Durability+int32(amount))
}

// RestoreCP adds CP, capped at the run's maximum.
func (s *Simulation) RestoreCP(amount uint32) {
	s.AvailableCP = min(s.MaxCP, s.AvailableCP+amount)
}

// HQPercent maps the current quality to a high-quality chance.
func (s *Simulation) HQPercent() uint32 {
	return tables.HQPercent(s.Quality, s.Recipe.Quality)
}

// Run executes every action with random rolls.
func (s *Simulation) Run() SimulationResult { return s.RunLinear(false) }

// RunLinear with linear set makes every roll pass and keeps the condition
// fixed unless overridden.
func (s *Simulation) RunLinear(linear bool) SimulationResult {
	return s.RunMaxSteps(linear, math.MaxInt)
}

// RunMaxSteps executes at most maxSteps actions; the rest are logged skipped.
func (s *Simulation) RunMaxSteps(linear bool, maxSteps int) SimulationResult {
	return s.RunWithFlags(linear, maxSteps, false)
}

// RunWithFlags is the full entry point. With safe set, actions that could
// fail are refused instead of rolled and Safe reports false afterwards.
// Every call starts from the built state, so runs can be repeated.
func (s *Simulation) RunWithFlags(linear bool, maxSteps int, safe bool) SimulationResult {
	s.reset()
	s.safe = safe

	for i, action := range s.actions {
		if i < len(s.stepStates) && s.stepStates[i] != StateNone {
			s.state = s.stepStates[i]
		}
		if s.state == StateNone {
			s.state = StateNormal
		}

		usable, cause := s.usableWithFlags(action, linear)
		enoughCP := action.BaseCPCost(s) <= s.AvailableCP
		if !enoughCP {
			cause = FailNotEnoughCP
		}

		var result ActionResult
		if s.Success == OutcomeUnset && enoughCP && len(s.Steps) < maxSteps && usable {
			result = s.runAction(action, i, linear, safe)
		} else {
			result = ActionResult{
				Action:    action,
				FailCause: cause,
				Skipped:   true,
				State:     s.state,
			}
		}

		if len(s.Steps) < maxSteps {
			progress, quality := s.Progress, s.Quality
			durability, cp := s.Durability, s.AvailableCP
			failed := result.Success != OutcomeSucceeded
			if s.Success == OutcomeUnset && !action.SkipsBuffTicks() && !(failed && action.SkipOnFail()) {
				s.tickBuffs(action)
			}
			result.AfterBuffTick = &BuffTickResult{
				AddedProgress:        s.Progress - progress,
				AddedQuality:         s.Quality - quality,
				CPDifference:         cpDelta(cp, s.AvailableCP),
				DurabilityDifference: s.Durability - durability,
			}
		}

		if !linear && action.ID() != FinalAppraisal && action.ID() != RemoveFinalAppraisal {
			s.TickState()
		}
		s.Steps = append(s.Steps, result)
	}

	return s.result()
}

func (s *Simulation) runAction(action Action, index int, linear, safe bool) ActionResult {
	_, forced := s.fails[index]

	progress, quality := s.Progress, s.Quality
	durability, cp := s.Durability, s.AvailableCP
	combo := action.HasCombo(s)
	rate := action.SuccessRate(s)
	// Execute may add or consume buffs that would change the action's own
	// costs, so costs are read first.
	durabilityCost := action.DurabilityCost(s)
	cpCost := s.CPCost(action)

	var cause FailCause
	outcome := OutcomeFailed
	switch {
	case safe && (rate < 100 || (action.RequiresGood() && !s.HasBuff(BuffHeartAndSoul))):
		cause = FailUnsafeAction
		action.OnFail(s)
		s.safe = false
	case !forced && (linear || s.roller.Roll() < rate):
		action.Execute(s)
		outcome = OutcomeSucceeded
	default:
		action.OnFail(s)
	}

	s.Durability -= int32(durabilityCost)
	s.AvailableCP -= min(cpCost, s.AvailableCP)

	if s.Progress >= s.Recipe.Progress {
		s.Success = OutcomeSucceeded
	} else if s.Durability <= 0 {
		cause = FailDurabilityZero
		s.Success = OutcomeFailed
	}

	return ActionResult{
		Action:               action,
		Success:              outcome,
		FailCause:            cause,
		AddedProgress:        s.Progress - progress,
		AddedQuality:         s.Quality - quality,
		CPDifference:         cpDelta(cp, s.AvailableCP),
		DurabilityDifference: s.Durability - durability,
		State:                s.state,
		Combo:                combo,
	}
}

func (s *Simulation) result() SimulationResult {
	success := s.Progress >= s.Recipe.Progress
	if rq := s.Recipe.RequiredQuality; rq != nil {
		success = success && s.Quality > *rq
	}

	res := SimulationResult{
		Steps:      append([]ActionResult(nil), s.Steps...),
		Success:    success,
		HQPercent:  s.HQPercent(),
		Simulation: s,
	}
	if rq := s.Recipe.RequiredQuality; rq != nil && s.Quality <= *rq {
		res.FailCause = FailQualityTooLow
		return res
	}
	for _, st := range s.Steps {
		if st.FailCause != "" {
			res.FailCause = st.FailCause
			break
		}
	}
	return res
}

func cpDelta(before, after uint32) int32 {
	return int32(int64(after) - int64(before))
}
