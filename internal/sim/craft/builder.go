package craft

import (
	"errors"
	"fmt"
)

// ErrUninitializedField is wrapped by every FieldError.
var ErrUninitializedField = errors.New("uninitialized field")

// FieldError names a builder field that is missing or unusable.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("simulation builder: field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("simulation builder: field %s must be initialized", e.Field)
}

func (e *FieldError) Unwrap() error { return ErrUninitializedField }

// Builder assembles a Simulation. The zero value is usable.
type Builder struct {
	recipe     *Craft
	stats      *CrafterStats
	actions    []Action
	stepStates []StepState
	fails      []int

	seed    *int64
	roller  Roller
	sampler Sampler
	rates   *ConditionRates
	hooks   map[Buff]BuffHooks
}

func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) Recipe(c Craft) *Builder {
	b.recipe = &c
	return b
}

func (b *Builder) Stats(s CrafterStats) *Builder {
	b.stats = &s
	return b
}

func (b *Builder) Actions(actions ...Action) *Builder {
	b.actions = append([]Action(nil), actions...)
	return b
}

// StepStates forces the condition of step i to states[i]. StateNone, or an
// index past the end, means no override.
func (b *Builder) StepStates(states ...StepState) *Builder {
	b.stepStates = append([]StepState(nil), states...)
	return b
}

// Fails forces the success roll of the given step indices to fail.
func (b *Builder) Fails(indices ...int) *Builder {
	b.fails = append([]int(nil), indices...)
	return b
}

// Seed pins the default random source. Without it Build draws a fresh seed.
func (b *Builder) Seed(seed int64) *Builder {
	b.seed = &seed
	return b
}

func (b *Builder) Roller(r Roller) *Builder {
	b.roller = r
	return b
}

func (b *Builder) Sampler(s Sampler) *Builder {
	b.sampler = s
	return b
}

func (b *Builder) ConditionRates(r ConditionRates) *Builder {
	b.rates = &r
	return b
}

// BuffHooks adds to (or replaces entries of) the default hook table.
func (b *Builder) BuffHooks(hooks map[Buff]BuffHooks) *Builder {
	if b.hooks == nil {
		b.hooks = map[Buff]BuffHooks{}
	}
	for k, v := range hooks {
		b.hooks[k] = v
	}
	return b
}

func (b *Builder) Build() (*Simulation, error) {
	if b.recipe == nil {
		return nil, &FieldError{Field: "recipe"}
	}
	if b.stats == nil {
		return nil, &FieldError{Field: "stats"}
	}
	if b.recipe.ProgressDivider == 0 {
		return nil, &FieldError{Field: "recipe.progress_divider", Reason: "must be non-zero"}
	}
	if b.recipe.QualityDivider == 0 {
		return nil, &FieldError{Field: "recipe.quality_divider", Reason: "must be non-zero"}
	}
	for i, a := range b.actions {
		if a == nil {
			return nil, &FieldError{Field: fmt.Sprintf("actions[%d]", i), Reason: "nil action"}
		}
	}

	s := &Simulation{
		Recipe:     *b.recipe,
		Stats:      *b.stats,
		actions:    b.actions,
		stepStates: b.stepStates,
		fails:      make(map[int]struct{}, len(b.fails)),
		possible:   PossibleConditionsFor(b.recipe.ConditionsFlag),
		rates:      DefaultConditionRates(),
		hooks:      DefaultBuffHooks(),
	}
	for _, i := range b.fails {
		s.fails[i] = struct{}{}
	}
	if b.rates != nil {
		s.rates = *b.rates
	}
	for k, v := range b.hooks {
		s.hooks[k] = v
	}

	if b.roller == nil || b.sampler == nil {
		var seed int64
		if b.seed != nil {
			seed = *b.seed
		} else {
			var err error
			if seed, err = NewSeed(); err != nil {
				return nil, err
			}
		}
		src := NewSource(seed)
		s.roller, s.sampler = src, src
	}
	if b.roller != nil {
		s.roller = b.roller
	}
	if b.sampler != nil {
		s.sampler = b.sampler
	}

	s.reset()
	return s, nil
}
