package catalog

import "github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"

// ============================================================
// Element Catalog
// ============================================================

type Category string

const (
	CategoryOpenings  Category = "openings"
	CategoryStructure Category = "structure"
	CategoryFixtures  Category = "fixtures"
	CategoryFurniture Category = "furniture"
)

// Entry describes one placeable kind. Sizes are canonical real-world
// meters; multiply by units-per-meter for drawing-unit sizes.
type Entry struct {
	WidthM   float64
	HeightM  float64
	Category Category

	// ClearsWall marks kinds whose placement cuts a clear gap in the
	// wall underneath (doors, windows).
	ClearsWall bool
	CanFlip    bool
}

var entries = map[plan.Kind]Entry{
	plan.KindDoor: {
		WidthM:     0.82,
		HeightM:    0.1,
		Category:   CategoryOpenings,
		ClearsWall: true,
		CanFlip:    true,
	},
	plan.KindWindow: {
		WidthM:     1.0,
		HeightM:    0.1,
		Category:   CategoryOpenings,
		ClearsWall: true,
		CanFlip:    true,
	},
	plan.KindWall: {
		WidthM:   0.1,
		HeightM:  0.1,
		Category: CategoryStructure,
	},
	plan.KindRobe: {
		WidthM:   0.6,
		HeightM:  1.8,
		Category: CategoryFurniture,
	},
	plan.KindKitchen: {
		WidthM:   2.4,
		HeightM:  0.6,
		Category: CategoryFixtures,
	},
}

// Lookup returns the catalog entry for a kind. The table is closed;
// unknown kinds report ok=false.
func Lookup(kind plan.Kind) (Entry, bool) {
	e, ok := entries[kind]
	return e, ok
}

// CanFlip reports whether flipping is meaningful for the kind.
func CanFlip(kind plan.Kind) bool {
	e, ok := entries[kind]
	return ok && e.CanFlip
}

// ClearsWall reports whether placing the kind cuts a gap in the wall.
func ClearsWall(kind plan.Kind) bool {
	e, ok := entries[kind]
	return ok && e.ClearsWall
}

// Size converts the canonical size to drawing units.
func Size(kind plan.Kind, unitsPerMeter float64) (width, height float64) {
	e, ok := entries[kind]
	if !ok {
		return 0, 0
	}
	return e.WidthM * unitsPerMeter, e.HeightM * unitsPerMeter
}
