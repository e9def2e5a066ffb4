package craft

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

// Roller draws the success roll of a step, uniform in [0,100).
type Roller interface {
	Roll() uint32
}

// WeightedState is one candidate of a condition draw.
type WeightedState struct {
	State  StepState
	Weight float64
}

// Sampler picks one state from weighted candidates. Candidates arrive in
// canonical StepState order.
type Sampler interface {
	Sample(candidates []WeightedState) StepState
}

// RollerFunc adapts a function to Roller.
type RollerFunc func() uint32

func (f RollerFunc) Roll() uint32 { return f() }

// SamplerFunc adapts a function to Sampler.
type SamplerFunc func([]WeightedState) StepState

func (f SamplerFunc) Sample(c []WeightedState) StepState { return f(c) }

// Source is the default Roller and Sampler: one PCG stream per simulation.
type Source struct {
	rng *rand.Rand
}

func NewSource(seed int64) *Source {
	s := uint64(seed)
	return &Source{rng: rand.New(rand.NewPCG(s, mix64(s)))}
}

func (r *Source) Roll() uint32 { return r.rng.Uint32N(100) }

// Sample accumulates weights against a single uniform threshold and returns
// the first candidate whose cumulative weight exceeds it.
func (r *Source) Sample(candidates []WeightedState) StepState {
	return pickWeighted(candidates, r.rng.Float64())
}

func pickWeighted(candidates []WeightedState, u float64) StepState {
	total := 0.0
	for _, c := range candidates {
		if c.Weight > 0 {
			total += c.Weight
		}
	}
	if total <= 0 {
		return StateNormal
	}
	threshold := u * total
	acc := 0.0
	for _, c := range candidates {
		if c.Weight <= 0 {
			continue
		}
		acc += c.Weight
		if acc > threshold {
			return c.State
		}
	}
	return StateNormal
}

// NewSeed draws a seed from crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

func mix64(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
