package tables

import "testing"

func TestRecipeLevel(t *testing.T) {
	cases := map[uint8]uint32{1: 1, 50: 50, 51: 120, 61: 260, 72: 395, 80: 420, 90: 560, 99: 560}
	for lvl, want := range cases {
		if got := RecipeLevel(lvl); got != want {
			t.Fatalf("RecipeLevel(%d): got %d want %d", lvl, got, want)
		}
	}
}

func TestHQPercent(t *testing.T) {
	if got := HQPercent(0, 1000); got != 1 {
		t.Fatalf("zero quality: got %d want 1", got)
	}
	if got := HQPercent(1000, 1000); got != 100 {
		t.Fatalf("full quality: got %d want 100", got)
	}
	if got := HQPercent(2000, 1000); got != 100 {
		t.Fatalf("over quality: got %d want 100", got)
	}
	if got := HQPercent(500, 1000); got != 15 {
		t.Fatalf("half quality: got %d want 15", got)
	}
	if got := HQPercent(999, 1000); got != 98 {
		t.Fatalf("99%%: got %d want 98", got)
	}
	if got := HQPercent(10, 0); got != 1 {
		t.Fatalf("zero recipe quality: got %d want 1", got)
	}
}

func TestHQTableMonotonic(t *testing.T) {
	for i := 1; i < len(hqTable); i++ {
		if hqTable[i] < hqTable[i-1] {
			t.Fatalf("hq table not monotonic at %d: %d < %d", i, hqTable[i], hqTable[i-1])
		}
	}
}
