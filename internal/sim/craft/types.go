package craft

import (
	"fmt"
	"strings"

	"craftsim.ai/internal/sim/tables"
)

// CraftingLevel is a crafter or recipe class level in 1..tables.MaxLevel.
type CraftingLevel uint8

func NewCraftingLevel(n int) (CraftingLevel, error) {
	if n < 1 || n > tables.MaxLevel {
		return 0, fmt.Errorf("crafting level %d out of range 1..%d", n, tables.MaxLevel)
	}
	return CraftingLevel(n), nil
}

// MustLevel is NewCraftingLevel for constants; it panics on a bad level.
func MustLevel(n int) CraftingLevel {
	l, err := NewCraftingLevel(n)
	if err != nil {
		panic(err)
	}
	return l
}

func (l CraftingLevel) Valid() bool { return l >= 1 && l <= tables.MaxLevel }

// CraftingJob is a crafting class. JobAny matches every class.
type CraftingJob uint8

const (
	JobAny CraftingJob = iota
	JobCRP
	JobBSM
	JobARM
	JobGSM
	JobLTW
	JobWVR
	JobALC
	JobCUL
)

var jobNames = [...]string{"ANY", "CRP", "BSM", "ARM", "GSM", "LTW", "WVR", "ALC", "CUL"}

func (j CraftingJob) String() string {
	if int(j) < len(jobNames) {
		return jobNames[j]
	}
	return fmt.Sprintf("JOB(%d)", uint8(j))
}

// JobFromID maps a game class id (8 = CRP .. 15 = CUL) to a job.
func JobFromID(id uint32) (CraftingJob, bool) {
	if id < 8 || id > 15 {
		return JobAny, false
	}
	return CraftingJob(id - 7), true
}

// CrafterLevels holds the level of every crafting class.
type CrafterLevels struct {
	CRP CraftingLevel `json:"crp"`
	BSM CraftingLevel `json:"bsm"`
	ARM CraftingLevel `json:"arm"`
	GSM CraftingLevel `json:"gsm"`
	LTW CraftingLevel `json:"ltw"`
	WVR CraftingLevel `json:"wvr"`
	ALC CraftingLevel `json:"alc"`
	CUL CraftingLevel `json:"cul"`
}

// UniformLevels returns levels with every class at l.
func UniformLevels(l CraftingLevel) CrafterLevels {
	return CrafterLevels{CRP: l, BSM: l, ARM: l, GSM: l, LTW: l, WVR: l, ALC: l, CUL: l}
}

// For returns the level of job. JobAny has no level of its own.
func (c CrafterLevels) For(job CraftingJob) (CraftingLevel, bool) {
	switch job {
	case JobCRP:
		return c.CRP, true
	case JobBSM:
		return c.BSM, true
	case JobARM:
		return c.ARM, true
	case JobGSM:
		return c.GSM, true
	case JobLTW:
		return c.LTW, true
	case JobWVR:
		return c.WVR, true
	case JobALC:
		return c.ALC, true
	case JobCUL:
		return c.CUL, true
	}
	return 0, false
}

type Ingredient struct {
	ID     uint32 `json:"id"`
	Amount uint32 `json:"amount"`
}

// Craft is a recipe. It is not modified during a run.
type Craft struct {
	ID              string        `json:"id"`
	Job             uint32        `json:"job"`
	Lvl             CraftingLevel `json:"lvl"`
	RLvl            uint32        `json:"rlvl"`
	Durability      uint32        `json:"durability"`
	Progress        uint32        `json:"progress"`
	Quality         uint32        `json:"quality"`
	ProgressDivider uint32        `json:"progress_divider"`
	QualityDivider  uint32        `json:"quality_divider"`

	ProgressModifier *float64 `json:"progress_modifier,omitempty"`
	QualityModifier  *float64 `json:"quality_modifier,omitempty"`
	RequiredQuality  *uint32  `json:"required_quality,omitempty"`
	Expert           bool     `json:"expert,omitempty"`
	HQ               bool     `json:"hq,omitempty"`
	QuickSynth       bool     `json:"quick_synth,omitempty"`

	// ConditionsFlag selects the eligible conditions: bit i enables the
	// StepState with ordinal i+1.
	ConditionsFlag uint32       `json:"conditions_flag"`
	Ingredients    []Ingredient `json:"ingredients,omitempty"`
}

// CrafterStats are the crafter's attributes. CP seeds the run's CP pool.
type CrafterStats struct {
	JobID         uint32        `json:"job_id"`
	Craftsmanship uint32        `json:"craftsmanship"`
	Control       uint32        `json:"control"`
	CP            uint32        `json:"cp"`
	Level         CraftingLevel `json:"level"`
	Levels        CrafterLevels `json:"levels"`
	Specialist    bool          `json:"specialist,omitempty"`
	Splendorous   bool          `json:"splendorous,omitempty"`
}

// StepState is the per-step condition. Ordinals are significant: they are
// the bit positions (minus one) of Craft.ConditionsFlag.
type StepState uint8

const (
	StateNone StepState = iota
	StateNormal
	StateGood
	StateExcellent
	StatePoor
	StateCentered
	StateSturdy
	StatePliant
	StateMalleable
	StatePrimed
	StateGoodOmen
)

var stepStateNames = [...]string{
	"NONE", "NORMAL", "GOOD", "EXCELLENT", "POOR", "CENTERED",
	"STURDY", "PLIANT", "MALLEABLE", "PRIMED", "GOOD_OMEN",
}

func (s StepState) String() string {
	if int(s) < len(stepStateNames) {
		return stepStateNames[s]
	}
	return fmt.Sprintf("STATE(%d)", uint8(s))
}

// ParseStepState accepts the upper-case names used by String, case-insensitively.
func ParseStepState(name string) (StepState, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "_")
	for i, s := range stepStateNames {
		if s == n {
			return StepState(i), nil
		}
	}
	return StateNone, fmt.Errorf("unknown step state %q", name)
}

func (s StepState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *StepState) UnmarshalText(b []byte) error {
	v, err := ParseStepState(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Buff is the kind of a temporary effect.
type Buff uint8

const (
	BuffInnerQuiet Buff = iota + 1
	BuffInnovation
	BuffGreatStrides
	BuffWasteNot
	BuffWasteNotII
	BuffManipulation
	BuffVeneration
	BuffMuscleMemory
	BuffHeartAndSoul
	BuffFinalAppraisal
)

var buffNames = [...]string{
	"", "INNER_QUIET", "INNOVATION", "GREAT_STRIDES", "WASTE_NOT", "WASTE_NOT_II",
	"MANIPULATION", "VENERATION", "MUSCLE_MEMORY", "HEART_AND_SOUL", "FINAL_APPRAISAL",
}

func (b Buff) String() string {
	if b > 0 && int(b) < len(buffNames) {
		return buffNames[b]
	}
	return fmt.Sprintf("BUFF(%d)", uint8(b))
}

func ParseBuff(name string) (Buff, error) {
	n := strings.ToUpper(strings.TrimSpace(name))
	for i := 1; i < len(buffNames); i++ {
		if buffNames[i] == n {
			return Buff(i), nil
		}
	}
	return 0, fmt.Errorf("unknown buff %q", name)
}

func (b Buff) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *Buff) UnmarshalText(text []byte) error {
	v, err := ParseBuff(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}

type ActionType uint8

const (
	TypeOther ActionType = iota
	TypeProgression
	TypeQuality
	TypeCPRecovery
	TypeBuff
	TypeSpecialty
	TypeRepair
)

func (t ActionType) String() string {
	switch t {
	case TypeProgression:
		return "PROGRESSION"
	case TypeQuality:
		return "QUALITY"
	case TypeCPRecovery:
		return "CP_RECOVERY"
	case TypeBuff:
		return "BUFF"
	case TypeSpecialty:
		return "SPECIALTY"
	case TypeRepair:
		return "REPAIR"
	}
	return "OTHER"
}

// Outcome is a tri-state result: a step that was not attempted, or a run
// that has not finished, is OutcomeUnset.
type Outcome uint8

const (
	OutcomeUnset Outcome = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "SUCCESS"
	case OutcomeFailed:
		return "FAIL"
	}
	return "UNSET"
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// FailCause is a human-readable reason attached to a step or a run.
// Fail causes are simulated outcomes, not errors.
type FailCause string

const (
	FailNotEnoughCP       FailCause = "Not enough CP"
	FailDurabilityZero    FailCause = "Durability reached zero"
	FailUnsafeAction      FailCause = "Unsafe action"
	FailQualityTooLow     FailCause = "Quality too low"
	FailMissingLevel      FailCause = "Missing level requirement"
	FailNotSpecialist     FailCause = "Not specialist"
	FailNotFirstStep      FailCause = "Only usable on the first step"
	FailNoInnerQuiet      FailCause = "No Inner Quiet stacks"
	FailInnerQuietNotFull FailCause = "Inner Quiet is not at 10 stacks"
	FailWasteNotActive    FailCause = "Not usable under Waste Not"
	FailNotGood           FailCause = "Requires Good or Excellent condition"
	FailAlreadyUsed       FailCause = "No uses left"
	FailNoFinalAppraisal  FailCause = "Final Appraisal is not active"
	FailRecipeTooHigh     FailCause = "Recipe level too high"
)
