package catalogs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"craftsim.ai/internal/sim/craft"
)

type Catalogs struct {
	Recipes  RecipeCatalog
	Crafters CrafterCatalog
}

type RecipeCatalog struct {
	ByID   map[string]craft.Craft
	IDs    []string
	Digest string
}

type CrafterCatalog struct {
	ByID   map[string]CrafterDef
	IDs    []string
	Digest string
}

type CrafterDef struct {
	ID    string             `json:"id"`
	Name  string             `json:"name,omitempty"`
	Stats craft.CrafterStats `json:"stats"`
}

func Load(configDir string) (*Catalogs, error) {
	var c Catalogs

	if err := loadRecipes(filepath.Join(configDir, "recipes.json"), &c.Recipes); err != nil {
		return nil, err
	}
	if err := loadCrafters(filepath.Join(configDir, "crafters.json"), &c.Crafters); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalogs) Recipe(id string) (craft.Craft, bool) {
	r, ok := c.Recipes.ByID[id]
	return r, ok
}

func (c *Catalogs) Crafter(id string) (CrafterDef, bool) {
	d, ok := c.Crafters.ByID[id]
	return d, ok
}

func sha256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

func loadRecipes(path string, out *RecipeCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []craft.Craft
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("recipes.json: %w", err)
	}
	out.ByID = map[string]craft.Craft{}
	for _, r := range defs {
		if r.ID == "" {
			return fmt.Errorf("recipes.json: empty id")
		}
		if _, dup := out.ByID[r.ID]; dup {
			return fmt.Errorf("recipes.json: duplicate id %q", r.ID)
		}
		if err := ValidateRecipe(r); err != nil {
			return fmt.Errorf("recipes.json: %s: %w", r.ID, err)
		}
		out.ByID[r.ID] = r
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

func loadCrafters(path string, out *CrafterCatalog) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	out.Digest = sha256Hex(raw)

	var defs []CrafterDef
	if err := json.Unmarshal(raw, &defs); err != nil {
		return fmt.Errorf("crafters.json: %w", err)
	}
	out.ByID = map[string]CrafterDef{}
	for _, d := range defs {
		if d.ID == "" {
			return fmt.Errorf("crafters.json: empty id")
		}
		if _, dup := out.ByID[d.ID]; dup {
			return fmt.Errorf("crafters.json: duplicate id %q", d.ID)
		}
		d.Stats = NormalizeStats(d.Stats)
		if err := ValidateStats(d.Stats); err != nil {
			return fmt.Errorf("crafters.json: %s: %w", d.ID, err)
		}
		out.ByID[d.ID] = d
	}
	out.IDs = sortedKeys(out.ByID)
	return nil
}

// ValidateRecipe rejects recipes the engine cannot run.
func ValidateRecipe(r craft.Craft) error {
	switch {
	case !r.Lvl.Valid():
		return fmt.Errorf("lvl %d out of range", r.Lvl)
	case r.Durability == 0:
		return fmt.Errorf("durability must be positive")
	case r.Progress == 0:
		return fmt.Errorf("progress must be positive")
	case r.ProgressDivider == 0 || r.QualityDivider == 0:
		return fmt.Errorf("dividers must be positive")
	}
	return nil
}

func ValidateStats(s craft.CrafterStats) error {
	if !s.Level.Valid() {
		return fmt.Errorf("level %d out of range", s.Level)
	}
	return nil
}

// NormalizeStats fills class levels left at zero with the crafter level, so
// a definition can give one level for every class.
func NormalizeStats(s craft.CrafterStats) craft.CrafterStats {
	if s.Levels == (craft.CrafterLevels{}) && s.Level.Valid() {
		s.Levels = craft.UniformLevels(s.Level)
	}
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
