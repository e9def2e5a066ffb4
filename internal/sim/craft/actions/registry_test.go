package actions

import (
	"errors"
	"strings"
	"testing"

	"craftsim.ai/internal/sim/craft"
)

func TestCatalogCoversEveryID(t *testing.T) {
	for _, id := range craft.ActionIDs() {
		a, ok := ByID(id)
		if !ok {
			t.Fatalf("no action for %s", id)
		}
		if a.ID() != id {
			t.Fatalf("catalog entry %s reports id %s", id, a.ID())
		}
	}
	if len(All()) != len(craft.ActionIDs()) {
		t.Fatalf("All returned %d actions, want %d", len(All()), len(craft.ActionIDs()))
	}
}

func TestBuffActionsImplementBuffContract(t *testing.T) {
	buffs := map[craft.ActionID]craft.Buff{
		craft.WasteNot:       craft.BuffWasteNot,
		craft.WasteNotII:     craft.BuffWasteNotII,
		craft.Manipulation:   craft.BuffManipulation,
		craft.Veneration:     craft.BuffVeneration,
		craft.Innovation:     craft.BuffInnovation,
		craft.GreatStrides:   craft.BuffGreatStrides,
		craft.FinalAppraisal: craft.BuffFinalAppraisal,
		craft.HeartAndSoul:   craft.BuffHeartAndSoul,
		craft.MuscleMemory:   craft.BuffMuscleMemory,
	}
	for id, kind := range buffs {
		a, _ := ByID(id)
		ba, ok := a.(craft.BuffAction)
		if !ok {
			t.Fatalf("%s does not apply a buff", id)
		}
		if ba.BuffKind() != kind {
			t.Fatalf("%s applies %s, want %s", id, ba.BuffKind(), kind)
		}
	}
}

func TestParseNormalizesNames(t *testing.T) {
	cases := map[string]craft.ActionID{
		"BasicSynthesis":     craft.BasicSynthesis,
		"basic synthesis":    craft.BasicSynthesis,
		"BYREGOTS_BLESSING":  craft.ByregotsBlessing,
		"Byregot's Blessing": craft.ByregotsBlessing,
		"waste-not-ii":       craft.WasteNotII,
	}
	for name, want := range cases {
		a, err := Parse(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if a.ID() != want {
			t.Fatalf("%q: got %s want %s", name, a.ID(), want)
		}
	}
}

func TestParseSuggestsCloseNames(t *testing.T) {
	_, err := Parse("Manipulaton")
	var ue *UnknownActionError
	if !errors.As(err, &ue) {
		t.Fatalf("expected UnknownActionError, got %v", err)
	}
	if len(ue.Suggestions) == 0 || ue.Suggestions[0] != "Manipulation" {
		t.Fatalf("expected Manipulation suggestion, got %v", ue.Suggestions)
	}
	if !strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("error should carry suggestions: %v", err)
	}

	_, err = Parse("xyzzy")
	if !errors.As(err, &ue) || len(ue.Suggestions) != 0 {
		t.Fatalf("expected no suggestions, got %v", err)
	}
}

func TestParseAllReportsIndex(t *testing.T) {
	list, err := ParseAll([]string{"Reflect", "BasicTouch"})
	if err != nil || len(list) != 2 {
		t.Fatalf("got %v, %v", list, err)
	}
	if got := Names(list); got[0] != "Reflect" || got[1] != "BasicTouch" {
		t.Fatalf("names %v", got)
	}

	_, err = ParseAll([]string{"Reflect", "Nope"})
	if err == nil || !strings.Contains(err.Error(), "actions[1]") {
		t.Fatalf("expected indexed error, got %v", err)
	}
}
