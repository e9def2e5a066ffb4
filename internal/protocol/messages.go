package protocol

import "craftsim.ai/internal/sim/craft"

// ROTATION (client -> simulator)
//
// The recipe is named by RecipeID or given inline as Recipe; the crafter by
// CrafterID or inline Stats. Inline values win when both are set.
type RotationRequest struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id,omitempty"`

	RecipeID  string              `json:"recipe_id,omitempty"`
	Recipe    *craft.Craft        `json:"recipe,omitempty"`
	CrafterID string              `json:"crafter_id,omitempty"`
	Stats     *craft.CrafterStats `json:"stats,omitempty"`

	Actions    []string `json:"actions"`
	StepStates []string `json:"step_states,omitempty"`
	Fails      []int    `json:"fails,omitempty"`

	Mode RunMode `json:"mode"`
}

type RunMode struct {
	Linear   bool   `json:"linear,omitempty"`
	Safe     bool   `json:"safe,omitempty"`
	MaxSteps int    `json:"max_steps,omitempty"`
	Seed     *int64 `json:"seed,omitempty"`
	// Runs > 1 asks for a Monte Carlo summary instead of a single report.
	Runs int `json:"runs,omitempty"`
}

// Deterministic reports whether two evaluations of the request always agree.
func (r RotationRequest) Deterministic() bool {
	return r.Mode.Linear || r.Mode.Seed != nil
}

// REPORT (simulator -> client)
type ReportMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	RecipeID        string `json:"recipe_id,omitempty"`
	CrafterID       string `json:"crafter_id,omitempty"`
	Seed            *int64 `json:"seed,omitempty"`

	Steps     []StepRecord `json:"steps"`
	Success   bool         `json:"success"`
	FailCause string       `json:"fail_cause,omitempty"`
	HQPercent uint32       `json:"hq_percent"`

	Progress   uint32                `json:"progress"`
	Quality    uint32                `json:"quality"`
	Durability int32                 `json:"durability"`
	CP         uint32                `json:"cp"`
	Buffs      []craft.EffectiveBuff `json:"buffs"`
	Safe       bool                  `json:"safe"`

	Digest string `json:"digest"`
}

type StepRecord struct {
	Index     int    `json:"index"`
	Action    string `json:"action"`
	Outcome   string `json:"outcome"`
	FailCause string `json:"fail_cause,omitempty"`
	Skipped   bool   `json:"skipped"`
	State     string `json:"state"`
	Combo     bool   `json:"combo"`

	AddedProgress        uint32 `json:"added_progress"`
	AddedQuality         uint32 `json:"added_quality"`
	CPDifference         int32  `json:"cp_difference"`
	DurabilityDifference int32  `json:"durability_difference"`

	AfterBuffTick *craft.BuffTickResult `json:"after_buff_tick,omitempty"`
}

// SUMMARY (simulator -> client): aggregate of many randomized runs.
type SummaryMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	RecipeID        string `json:"recipe_id,omitempty"`
	CrafterID       string `json:"crafter_id,omitempty"`

	Runs          int            `json:"runs"`
	Successes     int            `json:"successes"`
	SuccessRate   float64        `json:"success_rate"`
	MeanHQPercent float64        `json:"mean_hq_percent"`
	MeanQuality   float64        `json:"mean_quality"`
	MinQuality    uint32         `json:"min_quality"`
	MaxQuality    uint32         `json:"max_quality"`
	FailCauses    map[string]int `json:"fail_causes,omitempty"`
}

// ERROR (simulator -> client)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RequestID       string `json:"request_id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
