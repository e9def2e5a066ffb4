package craft

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// BuffTickResult is what buff ticking alone changed after a step resolved.
type BuffTickResult struct {
	AddedProgress        uint32 `json:"added_progress"`
	AddedQuality         uint32 `json:"added_quality"`
	CPDifference         int32  `json:"cp_difference"`
	DurabilityDifference int32  `json:"durability_difference"`
}

// ActionResult is the log record of one step.
type ActionResult struct {
	Action    Action    `json:"-"`
	Success   Outcome   `json:"success"`
	FailCause FailCause `json:"fail_cause,omitempty"`

	AddedProgress        uint32 `json:"added_progress"`
	AddedQuality         uint32 `json:"added_quality"`
	CPDifference         int32  `json:"cp_difference"`
	DurabilityDifference int32  `json:"durability_difference"`

	Skipped bool      `json:"skipped"`
	State   StepState `json:"state"`
	// Combo is set when the action had its combo available. It is false on
	// skipped steps.
	Combo         bool            `json:"combo"`
	AfterBuffTick *BuffTickResult `json:"after_buff_tick,omitempty"`
}

// ActionID is ActionNone for a record without an action.
func (r ActionResult) ActionID() ActionID {
	if r.Action == nil {
		return ActionNone
	}
	return r.Action.ID()
}

// SimulationResult bundles the outcome of a run.
type SimulationResult struct {
	Steps     []ActionResult
	Success   bool
	FailCause FailCause
	HQPercent uint32
	// Simulation is the finished run, for inspecting final state.
	Simulation *Simulation
}

type digestStep struct {
	Action ActionID `json:"action"`
	ActionResult
}

type digestView struct {
	Steps      []digestStep    `json:"steps"`
	Success    bool            `json:"success"`
	FailCause  FailCause       `json:"fail_cause"`
	HQPercent  uint32          `json:"hq_percent"`
	Progress   uint32          `json:"progress"`
	Quality    uint32          `json:"quality"`
	Durability int32           `json:"durability"`
	CP         uint32          `json:"cp"`
	Buffs      []EffectiveBuff `json:"buffs"`
}

// Digest is a hex sha256 over the canonical JSON form of the result and the
// final state. Equal runs have equal digests.
func (r SimulationResult) Digest() string {
	v := digestView{
		Success:   r.Success,
		FailCause: r.FailCause,
		HQPercent: r.HQPercent,
	}
	for _, st := range r.Steps {
		v.Steps = append(v.Steps, digestStep{Action: st.ActionID(), ActionResult: st})
	}
	if s := r.Simulation; s != nil {
		v.Progress = s.Progress
		v.Quality = s.Quality
		v.Durability = s.Durability
		v.CP = s.AvailableCP
		v.Buffs = s.Buffs()
	}
	b, err := json.Marshal(v)
	if err != nil {
		// Every field is a plain value; Marshal cannot fail here.
		panic(err)
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
