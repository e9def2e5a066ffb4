// Package tables holds the static lookup data the simulator reads: the crafter
// level to recipe level table and the quality to HQ chance table.
package tables

import "math"

// MaxLevel is the highest crafter level the tables cover.
const MaxLevel = 90

// recipeLevels maps crafter levels 51..90 to their recipe level.
// Levels 50 and below map to themselves.
var recipeLevels = [...]uint32{
	51: 120, 52: 125, 53: 130, 54: 133, 55: 136, 56: 139, 57: 142, 58: 145, 59: 148, 60: 150,
	61: 260, 62: 265, 63: 270, 64: 273, 65: 276, 66: 279, 67: 282, 68: 285, 69: 288, 70: 290,
	71: 390, 72: 395, 73: 400, 74: 403, 75: 406, 76: 409, 77: 412, 78: 415, 79: 418, 80: 420,
	81: 517, 82: 520, 83: 525, 84: 530, 85: 535, 86: 540, 87: 545, 88: 550, 89: 555, 90: 560,
}

// hqTable is indexed by floor(quality percent), 0..100.
var hqTable = [101]uint32{
	1, 1, 1, 1, 1, 2, 2, 2, 2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5,
	5, 6, 6, 6, 6, 7, 7, 7, 7, 8, 8, 8, 9, 9, 9, 10, 10, 10, 11, 11,
	11, 12, 12, 12, 13, 13, 13, 14, 14, 14, 15, 15, 15, 16, 16, 17, 17, 17, 18, 18,
	18, 19, 19, 20, 20, 21, 22, 23, 24, 26, 28, 31, 34, 38, 42, 47, 52, 58, 64, 68,
	71, 74, 76, 78, 80, 81, 82, 83, 84, 85, 86, 87, 88, 89, 90, 91, 92, 94, 96, 98,
	100,
}

// RecipeLevel returns the recipe level a crafter of the given level is rated at.
// Levels above MaxLevel are clamped.
func RecipeLevel(level uint8) uint32 {
	if level > MaxLevel {
		level = MaxLevel
	}
	if level <= 50 {
		return uint32(level)
	}
	return recipeLevels[level]
}

// LevelToILevel is the recipe level of a recipe whose class level is level.
func LevelToILevel(level uint8) uint32 {
	return RecipeLevel(level)
}

// HQPercent maps a final quality against the recipe's maximum quality to the
// chance of a high-quality result.
func HQPercent(quality, recipeQuality uint32) uint32 {
	if recipeQuality == 0 {
		return 1
	}
	pct := math.Floor(float64(quality) / float64(recipeQuality) * 100)
	switch {
	case pct <= 0:
		return 1
	case pct >= 100:
		return 100
	}
	return hqTable[int(pct)]
}
