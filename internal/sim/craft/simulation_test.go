package craft

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestBuildRequiresRecipeAndStats(t *testing.T) {
	_, err := NewBuilder().Stats(testStats()).Build()
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "recipe" {
		t.Fatalf("expected recipe field error, got %v", err)
	}
	if !errors.Is(err, ErrUninitializedField) {
		t.Fatalf("expected ErrUninitializedField, got %v", err)
	}

	_, err = NewBuilder().Recipe(testRecipe()).Build()
	if !errors.As(err, &fe) || fe.Field != "stats" {
		t.Fatalf("expected stats field error, got %v", err)
	}

	r := testRecipe()
	r.QualityDivider = 0
	_, err = NewBuilder().Recipe(r).Stats(testStats()).Build()
	if !errors.Is(err, ErrUninitializedField) {
		t.Fatalf("expected zero divider to be rejected, got %v", err)
	}
}

func TestBuildDerivesStartingState(t *testing.T) {
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Seed(1))
	if s.Durability != 40 || s.AvailableCP != 100 || s.MaxCP != 100 {
		t.Fatalf("unexpected start: durability=%d cp=%d/%d", s.Durability, s.AvailableCP, s.MaxCP)
	}
	if s.State() != StateNormal || s.Success != OutcomeUnset {
		t.Fatalf("unexpected start state=%s success=%s", s.State(), s.Success)
	}
}

func TestLinearRunIsRepeatable(t *testing.T) {
	actions := []Action{
		fakeAction{id: BasicTouch, cp: 18, dur: 10, quality: 50, stacks: 1},
		fakeAction{id: Innovation, cp: 18, buff: BuffInnovation, buffDuration: 4},
		fakeAction{id: BasicSynthesis, dur: 10, progress: 60},
		fakeAction{id: BasicSynthesis, dur: 10, progress: 60},
	}
	b := NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...)

	s1 := mustBuild(t, b)
	first := s1.RunLinear(true)
	again := s1.RunLinear(true)
	other := mustBuild(t, b).RunLinear(true)

	if first.Digest() != other.Digest() {
		t.Fatalf("digest differs between simulations: %s vs %s", first.Digest(), other.Digest())
	}
	if !reflect.DeepEqual(first.Steps, again.Steps) {
		t.Fatalf("rerun produced different steps")
	}
	if !first.Success || s1.Progress != 120 {
		t.Fatalf("expected success with progress 120, got %v %d", first.Success, s1.Progress)
	}
}

func TestCostsAreDeductedOnFailedRoll(t *testing.T) {
	failed := 0
	a := fakeAction{id: BasicSynthesis, cp: 12, dur: 10, progress: 50, failed: &failed}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(a).Fails(0))
	res := s.RunLinear(true)

	step := res.Steps[0]
	if step.Success != OutcomeFailed || step.Skipped {
		t.Fatalf("expected a failed attempt, got %+v", step)
	}
	if failed != 1 {
		t.Fatalf("expected OnFail once, got %d", failed)
	}
	if s.Progress != 0 || s.Durability != 30 || s.AvailableCP != 88 {
		t.Fatalf("unexpected state progress=%d durability=%d cp=%d", s.Progress, s.Durability, s.AvailableCP)
	}
	if step.CPDifference != -12 || step.DurabilityDifference != -10 {
		t.Fatalf("unexpected deltas cp=%d durability=%d", step.CPDifference, step.DurabilityDifference)
	}
}

func TestNotEnoughCPOverridesOtherCauses(t *testing.T) {
	a := fakeAction{id: BasicTouch, cp: 500, unusable: FailNotFirstStep}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(a))
	res := s.RunLinear(true)

	if !res.Steps[0].Skipped || res.Steps[0].FailCause != FailNotEnoughCP {
		t.Fatalf("expected skipped step with Not enough CP, got %+v", res.Steps[0])
	}
	if res.Steps[0].Success != OutcomeUnset {
		t.Fatalf("skipped step must not have an outcome")
	}
	if res.FailCause != FailNotEnoughCP {
		t.Fatalf("expected run fail cause from first step, got %q", res.FailCause)
	}
}

func TestUnusableStepIsSkippedWithCause(t *testing.T) {
	a := fakeAction{id: Reflect, cp: 6, unusable: FailNotFirstStep}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(a))
	res := s.RunLinear(true)
	if !res.Steps[0].Skipped || res.Steps[0].FailCause != FailNotFirstStep {
		t.Fatalf("unexpected step %+v", res.Steps[0])
	}
	if s.AvailableCP != 100 {
		t.Fatalf("skipped step must not spend CP")
	}
}

func TestLevelRequirementGatesActions(t *testing.T) {
	stats := testStats()
	stats.Level = 10
	stats.Levels = UniformLevels(10)
	a := gatedAction{fakeAction: fakeAction{id: BasicTouch}, level: 50}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(stats).Actions(a))
	res := s.RunLinear(true)
	if res.Steps[0].FailCause != FailMissingLevel {
		t.Fatalf("expected missing level, got %+v", res.Steps[0])
	}
}

type gatedAction struct {
	fakeAction
	level CraftingLevel
}

func (a gatedAction) LevelRequirement() (CraftingJob, CraftingLevel) { return JobCRP, a.level }

func TestTerminalStateSkipsRemainingSteps(t *testing.T) {
	actions := []Action{
		fakeAction{id: BasicSynthesis, dur: 10, progress: 100},
		fakeAction{id: BasicTouch, cp: 18, dur: 10, quality: 10},
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...))
	res := s.RunLinear(true)

	if s.Success != OutcomeSucceeded || !res.Success {
		t.Fatalf("expected success, got %s", s.Success)
	}
	if !res.Steps[1].Skipped || s.Quality != 0 || s.AvailableCP != 100 {
		t.Fatalf("expected second step skipped, got %+v", res.Steps[1])
	}
	if len(res.Steps) != 2 {
		t.Fatalf("expected a complete trace, got %d steps", len(res.Steps))
	}
}

func TestDurabilityExhaustionFailsRun(t *testing.T) {
	a := fakeAction{id: BasicSynthesis, dur: 40, progress: 10}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(a, a))
	res := s.RunLinear(true)
	if s.Success != OutcomeFailed || res.Success {
		t.Fatalf("expected failure")
	}
	if res.Steps[0].FailCause != FailDurabilityZero || res.FailCause != FailDurabilityZero {
		t.Fatalf("unexpected causes step=%q run=%q", res.Steps[0].FailCause, res.FailCause)
	}
	if !res.Steps[1].Skipped {
		t.Fatalf("expected step after failure to be skipped")
	}
}

func TestRequiredQualityMissedFailsRun(t *testing.T) {
	r := testRecipe()
	required := uint32(500)
	r.RequiredQuality = &required
	actions := []Action{
		fakeAction{id: BasicTouch, quality: 500},
		fakeAction{id: BasicSynthesis, progress: 100},
	}
	s := mustBuild(t, NewBuilder().Recipe(r).Stats(testStats()).Actions(actions...))
	res := s.RunLinear(true)
	if res.Success {
		t.Fatalf("quality equal to the threshold must not pass")
	}
	if res.FailCause != FailQualityTooLow {
		t.Fatalf("expected Quality too low, got %q", res.FailCause)
	}
}

func TestSafeModeRefusesRiskyActions(t *testing.T) {
	failed := 0
	actions := []Action{
		fakeAction{id: HastyTouch, dur: 10, quality: 100, rate: 60, failed: &failed},
		fakeAction{id: PreciseTouch, cp: 18, dur: 10, quality: 100, requiresGood: true, skipOnFail: true},
		fakeAction{id: BasicTouch, cp: 18, dur: 10, quality: 100},
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...).Seed(7))
	res := s.RunWithFlags(true, math.MaxInt, true)

	for i := 0; i < 2; i++ {
		if res.Steps[i].FailCause != FailUnsafeAction || res.Steps[i].Success != OutcomeFailed {
			t.Fatalf("step %d: expected unsafe failure, got %+v", i, res.Steps[i])
		}
	}
	if failed != 1 {
		t.Fatalf("expected OnFail for the refused action, got %d", failed)
	}
	if s.Safe() {
		t.Fatalf("safe flag should drop after a refused action")
	}
	if s.Quality != 100 || s.Durability != 10 {
		t.Fatalf("unexpected quality=%d durability=%d", s.Quality, s.Durability)
	}

	s2 := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions[2]))
	s2.RunWithFlags(true, math.MaxInt, true)
	if !s2.Safe() {
		t.Fatalf("safe flag should hold when nothing was refused")
	}
}

func TestStepBudgetSkipsAndFreezesBuffs(t *testing.T) {
	noop := fakeAction{id: Observe}
	actions := []Action{
		fakeAction{id: Manipulation, buff: BuffManipulation, buffDuration: 8},
		noop, noop, noop, noop,
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...))
	res := s.RunMaxSteps(true, 3)

	b, ok := s.Buff(BuffManipulation)
	if !ok || b.Duration != 6 {
		t.Fatalf("expected manipulation at 6, got %+v (active=%v)", b, ok)
	}
	for i := 3; i < 5; i++ {
		if !res.Steps[i].Skipped || res.Steps[i].AfterBuffTick != nil {
			t.Fatalf("step %d should be skipped without a tick record: %+v", i, res.Steps[i])
		}
	}
}

func TestManipulationRepairsAfterItsOwnStep(t *testing.T) {
	hit := fakeAction{id: BasicTouch, dur: 10}
	actions := []Action{
		hit,
		fakeAction{id: Manipulation, buff: BuffManipulation, buffDuration: 8},
		hit,
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...))
	res := s.RunLinear(true)

	if got := res.Steps[1].AfterBuffTick.DurabilityDifference; got != 0 {
		t.Fatalf("manipulation must not tick on its own step, got %d", got)
	}
	if got := res.Steps[2].AfterBuffTick.DurabilityDifference; got != 5 {
		t.Fatalf("expected repair of 5 after the next step, got %d", got)
	}
	if s.Durability != 25 {
		t.Fatalf("expected durability 25, got %d", s.Durability)
	}
}

func TestRepairAndRestoreAreCapped(t *testing.T) {
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()))
	s.Durability = 35
	s.Repair(30)
	if s.Durability != 40 {
		t.Fatalf("repair should cap at recipe durability, got %d", s.Durability)
	}
	s.AvailableCP = 90
	s.RestoreCP(20)
	if s.AvailableCP != 100 {
		t.Fatalf("restore should cap at max CP, got %d", s.AvailableCP)
	}
}

func TestHQPercentOnResult(t *testing.T) {
	a := fakeAction{id: BasicTouch, quality: 500}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(a))
	if got := s.RunLinear(true).HQPercent; got != 15 {
		t.Fatalf("expected 15%% HQ at half quality, got %d", got)
	}
}
