package craft

// ConditionRates are the draw weights of each non-Normal condition. Normal
// takes whatever mass is left.
type ConditionRates struct {
	Good            float64 `yaml:"good" json:"good"`
	GoodAssured     float64 `yaml:"good_assured" json:"good_assured"`
	GoodExpert      float64 `yaml:"good_expert" json:"good_expert"`
	Excellent       float64 `yaml:"excellent" json:"excellent"`
	ExcellentExpert float64 `yaml:"excellent_expert" json:"excellent_expert"`
	Centered        float64 `yaml:"centered" json:"centered"`
	Sturdy          float64 `yaml:"sturdy" json:"sturdy"`
	Pliant          float64 `yaml:"pliant" json:"pliant"`
	Malleable       float64 `yaml:"malleable" json:"malleable"`
	Primed          float64 `yaml:"primed" json:"primed"`
	GoodOmen        float64 `yaml:"good_omen" json:"good_omen"`

	// QualityAssuranceLevel is the crafter level from which GoodAssured
	// replaces Good.
	QualityAssuranceLevel CraftingLevel `yaml:"quality_assurance_level" json:"quality_assurance_level"`
}

func DefaultConditionRates() ConditionRates {
	return ConditionRates{
		Good:                  0.20,
		GoodAssured:           0.25,
		GoodExpert:            0.12,
		Excellent:             0.04,
		ExcellentExpert:       0,
		Centered:              0.15,
		Sturdy:                0.15,
		Pliant:                0.12,
		Malleable:             0.12,
		Primed:                0.12,
		GoodOmen:              0.10,
		QualityAssuranceLevel: 63,
	}
}

// PossibleConditionsFor expands a conditions flag: bit i enables the state
// with ordinal i+1. The result is in ordinal order.
func PossibleConditionsFor(flag uint32) []StepState {
	var out []StepState
	for st := StateNormal; st <= StateGoodOmen; st++ {
		if flag&(1<<(uint(st)-1)) != 0 {
			out = append(out, st)
		}
	}
	return out
}

func (s *Simulation) State() StepState { return s.state }

// OverrideState forces the current condition.
func (s *Simulation) OverrideState(st StepState) { s.state = st }

// PossibleConditions returns the eligible conditions fixed at build time.
func (s *Simulation) PossibleConditions() []StepState {
	out := make([]StepState, len(s.possible))
	copy(out, s.possible)
	return out
}

// conditionWeights lists Normal followed by every eligible non-Normal
// condition, in ordinal order.
func (s *Simulation) conditionWeights() []WeightedState {
	r := s.rates
	good := r.Good
	if s.Stats.Level >= r.QualityAssuranceLevel {
		good = r.GoodAssured
	}
	excellent := r.Excellent
	if s.Recipe.Expert {
		good = r.GoodExpert
		excellent = r.ExcellentExpert
	}

	out := []WeightedState{{State: StateNormal}}
	rest := 0.0
	for _, st := range s.possible {
		var w float64
		switch st {
		case StateGood:
			w = good
		case StateExcellent:
			w = excellent
		case StatePoor:
			w = 0
		case StateCentered:
			w = r.Centered
		case StateSturdy:
			w = r.Sturdy
		case StatePliant:
			w = r.Pliant
		case StateMalleable:
			w = r.Malleable
		case StatePrimed:
			w = r.Primed
		case StateGoodOmen:
			w = r.GoodOmen
		default:
			continue
		}
		rest += w
		out = append(out, WeightedState{State: st, Weight: w})
	}
	out[0].Weight = max(1-rest, 0)
	return out
}

// TickState advances the condition for the next step.
func (s *Simulation) TickState() {
	switch s.state {
	case StateExcellent:
		s.state = StatePoor
		return
	case StateGoodOmen:
		s.state = StateGood
		return
	}
	next := s.sampler.Sample(s.conditionWeights())
	if next == StateNone {
		next = StateNormal
	}
	s.state = next
}
