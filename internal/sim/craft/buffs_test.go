package craft

import "testing"

func TestInnerQuietStacksCapAtTen(t *testing.T) {
	touch := fakeAction{id: BasicTouch, quality: 1, stacks: 3}
	actions := make([]Action, 6)
	for i := range actions {
		actions[i] = touch
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...))
	s.RunLinear(true)

	if got := s.InnerQuietStacks(); got != MaxInnerQuiet {
		t.Fatalf("expected %d stacks, got %d", MaxInnerQuiet, got)
	}
	n := 0
	for _, b := range s.Buffs() {
		if b.Buff == BuffInnerQuiet {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("inner quiet must be a single instance, got %d", n)
	}
}

func TestBuffExpiresAfterDurationWithSingleOnExpire(t *testing.T) {
	expired := 0
	var expiredAt int
	hooks := map[Buff]BuffHooks{
		BuffInnovation: {OnExpire: func(s *Simulation, _ Action) {
			expired++
			expiredAt = len(s.Steps)
		}},
	}
	noop := fakeAction{id: Observe}
	actions := []Action{
		fakeAction{id: Innovation, buff: BuffInnovation, buffDuration: 3},
		noop, noop, noop, noop, noop,
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...).BuffHooks(hooks))

	s.RunMaxSteps(true, 3)
	if b, ok := s.Buff(BuffInnovation); !ok || b.Duration != 1 {
		t.Fatalf("expected innovation with 1 tick left after 2 ticks, got %+v ok=%v", b, ok)
	}
	if expired != 0 {
		t.Fatalf("on-expire fired early")
	}

	s.RunLinear(true)
	if s.HasBuff(BuffInnovation) {
		t.Fatalf("innovation should be gone")
	}
	if expired != 1 || expiredAt != 3 {
		t.Fatalf("expected one expiry on step 3, got %d at %d", expired, expiredAt)
	}
}

func TestSkippingActionsDoNotTick(t *testing.T) {
	actions := []Action{
		fakeAction{id: GreatStrides, buff: BuffGreatStrides, buffDuration: 3},
		fakeAction{id: FinalAppraisal, skipTicks: true},
		fakeAction{id: TricksOfTheTrade, skipOnFail: true},
		fakeAction{id: Observe},
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...).Fails(2))
	res := s.RunMaxSteps(true, 3)

	if b, _ := s.Buff(BuffGreatStrides); b.Duration != 3 {
		t.Fatalf("expected great strides untouched, got %d", b.Duration)
	}
	if res.Steps[2].Success != OutcomeFailed {
		t.Fatalf("expected forced failure on step 2")
	}

	s.RunLinear(true)
	if b, _ := s.Buff(BuffGreatStrides); b.Duration != 2 {
		t.Fatalf("expected one tick from the last step, got %d", b.Duration)
	}
}

func TestFailedStepStillTicksWithoutSkipOnFail(t *testing.T) {
	actions := []Action{
		fakeAction{id: GreatStrides, buff: BuffGreatStrides, buffDuration: 3},
		fakeAction{id: HastyTouch, quality: 10},
	}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(actions...).Fails(1))
	s.RunLinear(true)
	if b, _ := s.Buff(BuffGreatStrides); b.Duration != 2 {
		t.Fatalf("expected a tick after the failed step, got %d", b.Duration)
	}
}

func TestReapplyingBuffRefreshes(t *testing.T) {
	apply := fakeAction{id: Veneration, buff: BuffVeneration, buffDuration: 4}
	noop := fakeAction{id: Observe}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(apply, noop, apply))
	s.RunLinear(true)

	b, ok := s.Buff(BuffVeneration)
	if !ok || b.Duration != 4 || b.AppliedStep != 2 {
		t.Fatalf("expected a fresh veneration, got %+v", b)
	}
	if len(s.Buffs()) != 1 {
		t.Fatalf("expected a single buff, got %d", len(s.Buffs()))
	}
}

func TestUnclippableBuffIsNotRefreshed(t *testing.T) {
	apply := fakeAction{id: MuscleMemory, buff: BuffMuscleMemory, buffDuration: 5, noClip: true}
	noop := fakeAction{id: Observe}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(apply, noop, apply))
	s.RunLinear(true)

	b, ok := s.Buff(BuffMuscleMemory)
	if !ok || b.AppliedStep != 0 {
		t.Fatalf("expected the first muscle memory to stay, got %+v ok=%v", b, ok)
	}
	if b.Duration != 3 {
		t.Fatalf("expected duration 3 after two ticks, got %d", b.Duration)
	}
	if len(s.Buffs()) != 1 {
		t.Fatalf("expected a single buff, got %d", len(s.Buffs()))
	}
}

func TestHeartAndSoulConsumedOutsideGood(t *testing.T) {
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()))
	s.Steps = []ActionResult{{Skipped: true}}
	s.AddBuff(EffectiveBuff{Buff: BuffHeartAndSoul, Duration: UnboundedDuration})

	s.OverrideState(StateGood)
	s.tickBuffs(fakeAction{id: PreciseTouch})
	if !s.HasBuff(BuffHeartAndSoul) {
		t.Fatalf("heart and soul must survive a Good condition")
	}

	s.OverrideState(StateNormal)
	s.tickBuffs(fakeAction{id: BasicTouch})
	if !s.HasBuff(BuffHeartAndSoul) {
		t.Fatalf("heart and soul must survive unrelated actions")
	}

	s.tickBuffs(fakeAction{id: IntensiveSynthesis})
	if s.HasBuff(BuffHeartAndSoul) {
		t.Fatalf("heart and soul should be consumed")
	}
}

func TestComboRecognition(t *testing.T) {
	trigger := fakeAction{id: BasicTouch, cp: 1}
	follow := fakeAction{id: StandardTouch, cp: 1, combo: BasicTouch}
	skipped := fakeAction{id: Reflect, unusable: FailNotFirstStep}
	other := fakeAction{id: Observe}

	cases := []struct {
		name    string
		actions []Action
		fails   []int
		want    bool
	}{
		{"direct", []Action{trigger, follow}, nil, true},
		{"across skipped", []Action{trigger, skipped, follow}, nil, true},
		{"broken", []Action{trigger, other, follow}, nil, false},
		{"failed trigger", []Action{trigger, follow}, []int{0}, false},
		{"no trigger", []Action{other, follow}, nil, false},
	}
	for _, tc := range cases {
		s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(tc.actions...).Fails(tc.fails...))
		res := s.RunLinear(true)
		last := res.Steps[len(res.Steps)-1]
		if last.Combo != tc.want {
			t.Fatalf("%s: combo=%v want %v", tc.name, last.Combo, tc.want)
		}
	}
}

func TestComboStepExposesChainFlag(t *testing.T) {
	trigger := fakeAction{id: BasicTouch}
	follow := fakeAction{id: StandardTouch, combo: BasicTouch}
	s := mustBuild(t, NewBuilder().Recipe(testRecipe()).Stats(testStats()).Actions(trigger, follow))
	s.RunLinear(true)

	step, ok := s.ComboStep(StandardTouch)
	if !ok || !step.Combo {
		t.Fatalf("expected a combo'd StandardTouch step, got %+v ok=%v", step, ok)
	}
	if s.HasComboAvailable(BasicTouch) {
		t.Fatalf("BasicTouch combo should be broken by StandardTouch")
	}
}
