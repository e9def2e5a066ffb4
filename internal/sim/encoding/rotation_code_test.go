package encoding

import (
	"strings"
	"testing"

	"craftsim.ai/internal/sim/craft"
)

func TestRotationCode_RoundTrip(t *testing.T) {
	in := []craft.ActionID{craft.Reflect, craft.BasicTouch, craft.BasicTouch}
	for i := 0; i < 5; i++ {
		in = append(in, craft.BasicSynthesis)
	}
	in = append(in, craft.ByregotsBlessing, craft.BasicSynthesis)

	code := EncodeRotation(in)
	if strings.ContainsAny(code, "+/=") {
		t.Fatalf("code is not URL-safe: %q", code)
	}
	out, err := DecodeRotation(code)
	if err != nil {
		t.Fatalf("DecodeRotation: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("len mismatch: got %d want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("mismatch at %d: got %s want %s", i, out[i], in[i])
		}
	}
}

func TestRotationCode_RunsCollapse(t *testing.T) {
	long := make([]craft.ActionID, 40)
	for i := range long {
		long[i] = craft.BasicSynthesis
	}
	if a, b := EncodeRotation(long), EncodeRotation(long[:1]); len(a) != len(b) {
		t.Fatalf("a run should cost one pair: %q vs %q", a, b)
	}
	if out, err := DecodeRotation(EncodeRotation(nil)); err != nil || len(out) != 0 {
		t.Fatalf("empty rotation: %v %v", out, err)
	}
}

func TestRotationCode_Rejects(t *testing.T) {
	for _, code := range []string{"", "!!", "AgEB", "AeMBAQ", "AQEA"} {
		if _, err := DecodeRotation(code); err == nil {
			t.Fatalf("expected error for %q", code)
		}
	}
}
