package craft

import "testing"

// fakeAction is a configurable Action for engine tests.
type fakeAction struct {
	id       ActionID
	cp       uint32
	dur      uint32
	rate     uint32
	progress uint32
	quality  uint32
	stacks   uint32

	unusable     FailCause
	combo        ActionID
	skipTicks    bool
	skipOnFail   bool
	requiresGood bool

	// buff, when set, is applied by Execute with buffDuration.
	buff         Buff
	buffDuration int32
	noClip       bool

	failed *int
}

func (a fakeAction) ID() ActionID { return a.id }
func (a fakeAction) LevelRequirement() (CraftingJob, CraftingLevel) {
	return JobAny, 1
}
func (a fakeAction) Type() ActionType                  { return TypeOther }
func (a fakeAction) BaseCPCost(*Simulation) uint32     { return a.cp }
func (a fakeAction) DurabilityCost(*Simulation) uint32 { return a.dur }
func (a fakeAction) SkipOnFail() bool                  { return a.skipOnFail }
func (a fakeAction) SkipsBuffTicks() bool              { return a.skipTicks }
func (a fakeAction) RequiresGood() bool                { return a.requiresGood }
func (a fakeAction) Duration(*Simulation) int32        { return a.buffDuration }
func (a fakeAction) CanBeClipped() bool                { return !a.noClip }
func (a fakeAction) BuffKind() Buff                    { return a.buff }
func (a fakeAction) InitialStacks() uint32             { return 0 }

func (a fakeAction) SuccessRate(*Simulation) uint32 {
	if a.rate == 0 {
		return 100
	}
	return a.rate
}

func (a fakeAction) Usable(*Simulation, bool) (bool, FailCause) {
	if a.unusable != "" {
		return false, a.unusable
	}
	return true, ""
}

func (a fakeAction) HasCombo(s *Simulation) bool {
	return a.combo != ActionNone && s.HasComboAvailable(a.combo)
}

func (a fakeAction) Execute(s *Simulation) {
	s.Progress += a.progress
	s.Quality += a.quality
	if a.stacks > 0 {
		s.AddInnerQuietStacks(a.stacks)
	}
	if a.buff != 0 {
		s.ApplyBuff(a)
	}
}

func (a fakeAction) OnFail(*Simulation) {
	if a.failed != nil {
		*a.failed++
	}
}

func testRecipe() Craft {
	return Craft{
		ID:              "test",
		Lvl:             90,
		RLvl:            560,
		Durability:      40,
		Progress:        100,
		Quality:         1000,
		ProgressDivider: 100,
		QualityDivider:  100,
		ConditionsFlag:  15,
	}
}

func testStats() CrafterStats {
	return CrafterStats{
		JobID:         8,
		Craftsmanship: 1000,
		Control:       1000,
		CP:            100,
		Level:         90,
		Levels:        UniformLevels(90),
	}
}

func mustBuild(t *testing.T, b *Builder) *Simulation {
	t.Helper()
	s, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return s
}
