package actions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"craftsim.ai/internal/sim/craft"
)

var catalog = map[craft.ActionID]craft.Action{
	craft.BasicSynthesis:       BasicSynthesis{},
	craft.RapidSynthesis:       RapidSynthesis{},
	craft.CarefulSynthesis:     CarefulSynthesis{},
	craft.Groundwork:           Groundwork{},
	craft.FocusedSynthesis:     FocusedSynthesis{},
	craft.MuscleMemory:         MuscleMemory{},
	craft.DelicateSynthesis:    DelicateSynthesis{},
	craft.IntensiveSynthesis:   IntensiveSynthesis{},
	craft.PrudentSynthesis:     PrudentSynthesis{},
	craft.BasicTouch:           BasicTouch{},
	craft.HastyTouch:           HastyTouch{},
	craft.StandardTouch:        StandardTouch{},
	craft.AdvancedTouch:        AdvancedTouch{},
	craft.PreparatoryTouch:     PreparatoryTouch{},
	craft.PrudentTouch:         PrudentTouch{},
	craft.FocusedTouch:         FocusedTouch{},
	craft.Reflect:              Reflect{},
	craft.ByregotsBlessing:     ByregotsBlessing{},
	craft.PreciseTouch:         PreciseTouch{},
	craft.TrainedFinesse:       TrainedFinesse{},
	craft.TrainedEye:           TrainedEye{},
	craft.WasteNot:             WasteNot{},
	craft.WasteNotII:           WasteNotII{},
	craft.Manipulation:         Manipulation{},
	craft.Veneration:           Veneration{},
	craft.Innovation:           Innovation{},
	craft.GreatStrides:         GreatStrides{},
	craft.FinalAppraisal:       FinalAppraisal{},
	craft.RemoveFinalAppraisal: RemoveFinalAppraisal{},
	craft.HeartAndSoul:         HeartAndSoul{},
	craft.Observe:              Observe{},
	craft.MastersMend:          MastersMend{},
	craft.TricksOfTheTrade:     TricksOfTheTrade{},
	craft.CarefulObservation:   CarefulObservation{},
}

// byName is keyed by normalized name.
var byName = func() map[string]craft.ActionID {
	m := make(map[string]craft.ActionID, len(catalog))
	for id := range catalog {
		m[normalize(id.String())] = id
	}
	return m
}()

func ByID(id craft.ActionID) (craft.Action, bool) {
	a, ok := catalog[id]
	return a, ok
}

// All returns every action in id order.
func All() []craft.Action {
	out := make([]craft.Action, 0, len(catalog))
	for _, id := range craft.ActionIDs() {
		if a, ok := catalog[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

// UnknownActionError is returned by Parse for a name not in the catalog.
type UnknownActionError struct {
	Name        string
	Suggestions []string
}

func (e *UnknownActionError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("unknown action %q", e.Name)
	}
	return fmt.Sprintf("unknown action %q (did you mean %s?)", e.Name, strings.Join(e.Suggestions, ", "))
}

// Parse resolves an action name. Case, spaces, underscores, dashes and
// apostrophes are ignored, so "byregot's blessing" finds ByregotsBlessing.
func Parse(name string) (craft.Action, error) {
	key := normalize(name)
	if id, ok := byName[key]; ok {
		return catalog[id], nil
	}
	return nil, &UnknownActionError{Name: name, Suggestions: suggest(key)}
}

// ParseAll resolves names in order, stopping at the first unknown one.
func ParseAll(names []string) ([]craft.Action, error) {
	out := make([]craft.Action, 0, len(names))
	for i, n := range names {
		a, err := Parse(n)
		if err != nil {
			return nil, fmt.Errorf("actions[%d]: %w", i, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Names returns the canonical names of actions, for reports and files.
func Names(list []craft.Action) []string {
	out := make([]string, len(list))
	for i, a := range list {
		out[i] = a.ID().String()
	}
	return out
}

func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch r {
		case ' ', '_', '-', '\'', '\t':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func suggest(key string) []string {
	type scored struct {
		name string
		dist int
	}
	var hits []scored
	for norm, id := range byName {
		d := levenshtein.ComputeDistance(key, norm)
		if d > levenshteinLimit(len(norm)) {
			continue
		}
		hits = append(hits, scored{name: id.String(), dist: d})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].name < hits[j].name
	})
	out := make([]string, 0, 3)
	for _, h := range hits {
		out = append(out, h.name)
		if len(out) == 3 {
			break
		}
	}
	return out
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}
