package catalogs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"craftsim.ai/internal/sim/craft"
)

func TestLoadShippedCatalogs(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "..", "configs"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	r, ok := c.Recipe("careful-72")
	if !ok || r.Progress != 1220 || r.RLvl != 395 {
		t.Fatalf("unexpected careful-72: %+v ok=%v", r, ok)
	}
	exp, _ := c.Recipe("expert-80")
	if !exp.Expert || exp.QualityModifier == nil || *exp.QualityModifier != 70 {
		t.Fatalf("expert-80 modifiers not decoded: %+v", exp)
	}
	col, _ := c.Recipe("collectable-70")
	if col.RequiredQuality == nil || *col.RequiredQuality != 4000 {
		t.Fatalf("required quality not decoded")
	}

	d, ok := c.Crafter("alc-90-mid")
	if !ok || d.Stats.CP != 534 {
		t.Fatalf("unexpected crafter: %+v", d)
	}
	if d.Stats.Levels.ALC != 90 || d.Stats.Levels.CRP != 90 {
		t.Fatalf("class levels should default to the crafter level: %+v", d.Stats.Levels)
	}
	if !c.Crafters.ByID["alc-90-bis"].Stats.Specialist {
		t.Fatalf("specialist flag lost")
	}

	for i := 1; i < len(c.Recipes.IDs); i++ {
		if c.Recipes.IDs[i-1] >= c.Recipes.IDs[i] {
			t.Fatalf("recipe ids not sorted: %v", c.Recipes.IDs)
		}
	}
	if len(c.Recipes.Digest) != 64 || len(c.Crafters.Digest) != 64 {
		t.Fatalf("expected sha256 digests")
	}
}

func writeCatalogs(t *testing.T, recipes, crafters string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "recipes.json"), []byte(recipes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "crafters.json"), []byte(crafters), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadRejectsInvalidEntries(t *testing.T) {
	okRecipe := `[{"id":"r","lvl":10,"rlvl":10,"durability":40,"progress":10,"quality":10,"progress_divider":50,"quality_divider":30}]`
	okCrafter := `[{"id":"c","stats":{"craftsmanship":1,"control":1,"cp":1,"level":10}}]`

	cases := []struct {
		name     string
		recipes  string
		crafters string
		want     string
	}{
		{"empty recipe id", `[{"lvl":10}]`, okCrafter, "empty id"},
		{"zero divider", `[{"id":"r","lvl":10,"durability":40,"progress":10}]`, okCrafter, "dividers"},
		{"bad recipe level", `[{"id":"r","lvl":0,"durability":40,"progress":10,"progress_divider":1,"quality_divider":1}]`, okCrafter, "lvl"},
		{"duplicate", okRecipe[:len(okRecipe)-1] + "," + okRecipe[1:], okCrafter, "duplicate"},
		{"bad crafter level", okRecipe, `[{"id":"c","stats":{"level":95}}]`, "level 95"},
	}
	for _, tc := range cases {
		_, err := Load(writeCatalogs(t, tc.recipes, tc.crafters))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: expected %q error, got %v", tc.name, tc.want, err)
		}
	}

	c, err := Load(writeCatalogs(t, okRecipe, okCrafter))
	if err != nil {
		t.Fatalf("valid catalogs rejected: %v", err)
	}
	if c.Crafters.ByID["c"].Stats.Levels != craft.UniformLevels(10) {
		t.Fatalf("levels not normalized")
	}
}
