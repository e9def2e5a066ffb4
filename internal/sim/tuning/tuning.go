package tuning

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"craftsim.ai/internal/sim/craft"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	Conditions craft.ConditionRates `yaml:"conditions"`
	Evaluation Evaluation           `yaml:"evaluation"`

	// Digest is the sha256 of the file the tuning was loaded from, empty for
	// Defaults.
	Digest string `yaml:"-"`
}

type Evaluation struct {
	Workers        int `yaml:"workers"`
	CacheSize      int `yaml:"cache_size"`
	MaxSteps       int `yaml:"max_steps"`
	MonteCarloRuns int `yaml:"monte_carlo_runs"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		Conditions:      craft.DefaultConditionRates(),
		Evaluation: Evaluation{
			Workers:        4,
			CacheSize:      1024,
			MaxSteps:       0,
			MonteCarloRuns: 1000,
		},
	}
}

// Load overlays the YAML file at path on Defaults. Keys missing from the
// file keep their default value.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	sum := sha256.Sum256(raw)
	t.Digest = hex.EncodeToString(sum[:])
	return t, nil
}

func (t Tuning) Validate() error {
	c := t.Conditions
	rates := []struct {
		name string
		v    float64
	}{
		{"good", c.Good},
		{"good_assured", c.GoodAssured},
		{"good_expert", c.GoodExpert},
		{"excellent", c.Excellent},
		{"excellent_expert", c.ExcellentExpert},
		{"centered", c.Centered},
		{"sturdy", c.Sturdy},
		{"pliant", c.Pliant},
		{"malleable", c.Malleable},
		{"primed", c.Primed},
		{"good_omen", c.GoodOmen},
	}
	for _, r := range rates {
		if r.v < 0 || r.v > 1 {
			return fmt.Errorf("conditions.%s: rate %v outside [0,1]", r.name, r.v)
		}
	}
	if !c.QualityAssuranceLevel.Valid() {
		return fmt.Errorf("conditions.quality_assurance_level: %d out of range", c.QualityAssuranceLevel)
	}

	e := t.Evaluation
	if e.Workers < 1 {
		return fmt.Errorf("evaluation.workers: must be >= 1, got %d", e.Workers)
	}
	if e.CacheSize < 0 || e.MaxSteps < 0 || e.MonteCarloRuns < 0 {
		return fmt.Errorf("evaluation: negative value")
	}
	return nil
}

// StepBudget maps the configured max steps to a run budget; zero means the
// whole rotation.
func (e Evaluation) StepBudget() int {
	if e.MaxSteps <= 0 {
		return int(^uint(0) >> 1)
	}
	return e.MaxSteps
}
