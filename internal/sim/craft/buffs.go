package craft

// EffectiveBuff is an active instance of a Buff.
type EffectiveBuff struct {
	Buff     Buff   `json:"buff"`
	Duration int32  `json:"duration"`
	Stacks   uint32 `json:"stacks"`
	// AppliedStep is the index of the step that applied the buff. The buff
	// does not tick on that step.
	AppliedStep int `json:"applied_step"`
}

// BuffHook runs against the simulation during buff ticking. action is the
// action of the step being ticked.
type BuffHook func(s *Simulation, action Action)

// BuffHooks are the optional behaviors of a buff kind.
type BuffHooks struct {
	Tick     BuffHook
	OnExpire BuffHook
}

// DefaultBuffHooks returns the hook table for the built-in buffs.
func DefaultBuffHooks() map[Buff]BuffHooks {
	return map[Buff]BuffHooks{
		BuffManipulation: {Tick: manipulationTick},
		BuffHeartAndSoul: {Tick: heartAndSoulTick},
	}
}

func manipulationTick(s *Simulation, _ Action) {
	s.Repair(5)
}

// Heart and Soul is spent by a condition-gated action used outside Good or
// Excellent.
func heartAndSoulTick(s *Simulation, action Action) {
	if s.state == StateGood || s.state == StateExcellent {
		return
	}
	switch action.ID() {
	case PreciseTouch, IntensiveSynthesis, TricksOfTheTrade:
		s.RemoveBuff(BuffHeartAndSoul)
	}
}

func (s *Simulation) HasBuff(b Buff) bool {
	return s.buffIndex(b) >= 0
}

// Buff returns the active instance of b.
func (s *Simulation) Buff(b Buff) (EffectiveBuff, bool) {
	if i := s.buffIndex(b); i >= 0 {
		return s.buffs[i], true
	}
	return EffectiveBuff{}, false
}

// Buffs returns a copy of the active buffs.
func (s *Simulation) Buffs() []EffectiveBuff {
	out := make([]EffectiveBuff, len(s.buffs))
	copy(out, s.buffs)
	return out
}

// AddBuff activates b, replacing an active buff of the same kind.
func (s *Simulation) AddBuff(b EffectiveBuff) {
	s.RemoveBuff(b.Buff)
	s.buffs = append(s.buffs, b)
}

func (s *Simulation) RemoveBuff(b Buff) {
	i := s.buffIndex(b)
	if i < 0 {
		return
	}
	s.buffs = append(s.buffs[:i], s.buffs[i+1:]...)
}

func (s *Simulation) buffIndex(b Buff) int {
	for i := range s.buffs {
		if s.buffs[i].Buff == b {
			return i
		}
	}
	return -1
}

// MaxInnerQuiet is the Inner Quiet stack cap.
const MaxInnerQuiet = 10

// AddInnerQuietStacks merges stacks into the active Inner Quiet, creating it
// if needed.
func (s *Simulation) AddInnerQuietStacks(stacks uint32) {
	if i := s.buffIndex(BuffInnerQuiet); i >= 0 {
		s.buffs[i].Stacks = min(s.buffs[i].Stacks+stacks, MaxInnerQuiet)
		return
	}
	s.buffs = append(s.buffs, EffectiveBuff{
		Buff:        BuffInnerQuiet,
		Duration:    UnboundedDuration,
		Stacks:      min(stacks, MaxInnerQuiet),
		AppliedStep: len(s.Steps),
	})
}

// InnerQuietStacks is 0 when Inner Quiet is not active.
func (s *Simulation) InnerQuietStacks() uint32 {
	if b, ok := s.Buff(BuffInnerQuiet); ok {
		return b.Stacks
	}
	return 0
}

// tickBuffs advances every buff applied before the current step: tick hooks
// run first (only for buffs still active), then durations drop by one, then
// on-expire hooks fire for buffs that reached zero, then those are removed.
func (s *Simulation) tickBuffs(action Action) {
	current := len(s.Steps)
	ticking := s.Buffs()
	for _, b := range ticking {
		if b.AppliedStep >= current {
			continue
		}
		if h := s.hooks[b.Buff]; h.Tick != nil && s.HasBuff(b.Buff) {
			h.Tick(s, action)
		}
		if i := s.buffIndex(b.Buff); i >= 0 {
			s.buffs[i].Duration--
		}
	}

	var expired []Buff
	for _, b := range s.buffs {
		if b.Duration <= 0 {
			expired = append(expired, b.Buff)
		}
	}
	for _, kind := range expired {
		if h := s.hooks[kind]; h.OnExpire != nil {
			h.OnExpire(s, action)
		}
	}

	kept := s.buffs[:0]
	for _, b := range s.buffs {
		if b.Duration > 0 {
			kept = append(kept, b)
		}
	}
	s.buffs = kept
}
