package calibrate

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/svgdoc"
)

// ============================================================
// Calibration
// ============================================================

// Calibration converts between drawing-native units and real-world
// meters. Derived once at load; every later size and placement
// computation reuses it.
type Calibration struct {
	UnitsPerMeter float64 `json:"units_per_meter"`
	WallClear     float64 `json:"wall_clear"`
	WallStroke    float64 `json:"wall_stroke"`
	NudgeStep     float64 `json:"nudge_step"`
	CanvasWidth   float64 `json:"canvas_width"`
	CanvasHeight  float64 `json:"canvas_height"`
}

const (
	defaultUnitsPerMeter = 100.0
	defaultCanvasWidth   = 1000.0
	defaultCanvasHeight  = 800.0

	// Scales below the floor are implausible for a residential plan;
	// they usually mean the drawing is in meters rather than
	// centimeters/pixels, so rescale once and clamp.
	minUnitsPerMeter = 4.0
	correctionFactor = 100.0

	nudgeMeters         = 0.05
	fallbackWallMeters  = 0.09
	fallbackClearMeters = 0.12
	clearFactor         = 1.2

	// A rect is wall-like when its long side dominates the short one.
	wallElongation = 3.0

	// Vertical slack when matching a dimension label to the walls
	// that bracket it.
	bracketSlack = 20.0
)

// Default is the degraded-but-usable calibration used when the
// document cannot be parsed at all.
func Default() Calibration {
	return finish(defaultUnitsPerMeter, 0, defaultCanvasWidth, defaultCanvasHeight)
}

// FromSVG parses the raw document and derives the calibration.
// Parse failures never block load.
func FromSVG(data []byte, envelopeWidthM float64) Calibration {
	doc, err := svgdoc.Parse(data)
	if err != nil {
		return Default()
	}
	return FromDocument(doc, envelopeWidthM)
}

// FromDocument derives units-per-meter with a tiered fallback:
// bracketed dimension labels first, the supplied envelope width
// against the wall bounding box second, a clamped default last.
func FromDocument(doc *svgdoc.Document, envelopeWidthM float64) Calibration {
	width, height := doc.Width, doc.Height
	if width <= 0 || height <= 0 {
		width, height = defaultCanvasWidth, defaultCanvasHeight
	}

	scale := labelBracketScale(doc)
	if scale <= 0 {
		scale = boundingBoxScale(doc, envelopeWidthM)
	}
	if scale <= 0 {
		scale = defaultUnitsPerMeter
	}
	if scale < minUnitsPerMeter {
		scale *= correctionFactor
	}
	if scale < minUnitsPerMeter {
		scale = minUnitsPerMeter
	}

	return finish(scale, wallThickness(doc), width, height)
}

func finish(unitsPerMeter, thickness, width, height float64) Calibration {
	stroke := thickness
	if stroke <= 0 {
		stroke = fallbackWallMeters * unitsPerMeter
	}
	clear := thickness * clearFactor
	if clear <= 0 {
		clear = fallbackClearMeters * unitsPerMeter
	}

	return Calibration{
		UnitsPerMeter: unitsPerMeter,
		WallClear:     clear,
		WallStroke:    stroke,
		NudgeStep:     nudgeMeters * unitsPerMeter,
		CanvasWidth:   width,
		CanvasHeight:  height,
	}
}

// ============================================================
// Strategy 1: bracketed dimension labels
// ============================================================

var dimensionLabel = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*m\s*[x×]\s*(\d+(?:[.,]\d+)?)\s*m`)

// labelBracketScale matches "<W>m x <H>m" text nodes against the
// nearest pair of wall rects bracketing them on the x axis and takes
// the median of all derived scales to reject outliers.
func labelBracketScale(doc *svgdoc.Document) float64 {
	walls := wallRects(doc)
	if len(walls) == 0 {
		return 0
	}

	var scales []float64
	for _, text := range doc.Texts {
		m := dimensionLabel.FindStringSubmatch(text.Content)
		if m == nil {
			continue
		}
		meters := parseMeters(m[1])
		if meters <= 0 {
			continue
		}

		gap := bracketGap(walls, text.X, text.Y)
		if gap <= 0 {
			continue
		}
		scales = append(scales, gap/meters)
	}

	return median(scales)
}

// bracketGap finds the closest vertical wall on each side of the
// label and measures the clear span between their inner edges.
func bracketGap(walls []svgdoc.RectNode, lx, ly float64) float64 {
	leftEdge := math.Inf(-1)
	rightEdge := math.Inf(1)

	for _, r := range walls {
		if r.Height <= r.Width {
			continue // horizontal wall, does not bracket on x
		}
		if ly < r.Y-bracketSlack || ly > r.Y+r.Height+bracketSlack {
			continue
		}

		if inner := r.X + r.Width; inner <= lx && inner > leftEdge {
			leftEdge = inner
		}
		if r.X >= lx && r.X < rightEdge {
			rightEdge = r.X
		}
	}

	if math.IsInf(leftEdge, -1) || math.IsInf(rightEdge, 1) {
		return 0
	}
	return rightEdge - leftEdge
}

// ============================================================
// Strategy 2: envelope bounding box
// ============================================================

func boundingBoxScale(doc *svgdoc.Document, envelopeWidthM float64) float64 {
	if envelopeWidthM <= 0 {
		return 0
	}

	minX := math.Inf(1)
	maxX := math.Inf(-1)

	for _, r := range wallRects(doc) {
		if r.X < minX {
			minX = r.X
		}
		if r.X+r.Width > maxX {
			maxX = r.X + r.Width
		}
	}
	for _, p := range doc.Paths {
		if !isSolid(p.Fill) {
			continue
		}
		pMinX, _, pMaxX, _, err := svgdoc.PathBounds(p.D)
		if err != nil {
			continue
		}
		if pMinX < minX {
			minX = pMinX
		}
		if pMaxX > maxX {
			maxX = pMaxX
		}
	}

	if math.IsInf(minX, 1) || maxX <= minX {
		return 0
	}
	return (maxX - minX) / envelopeWidthM
}

// ============================================================
// Wall thickness inference
// ============================================================

// wallThickness buckets the short sides of all solid rects around
// their median and returns the median of the lower bucket: internal
// partitions, which external walls are thicker than.
func wallThickness(doc *svgdoc.Document) float64 {
	var shorts []float64
	for _, r := range doc.Rects {
		if !isSolid(r.Fill) || r.Width <= 0 || r.Height <= 0 {
			continue
		}
		shorts = append(shorts, math.Min(r.Width, r.Height))
	}
	if len(shorts) == 0 {
		return 0
	}

	mid := median(shorts)
	var lower []float64
	for _, s := range shorts {
		if s <= mid {
			lower = append(lower, s)
		}
	}
	return median(lower)
}

// ============================================================
// Helpers
// ============================================================

func wallRects(doc *svgdoc.Document) []svgdoc.RectNode {
	var out []svgdoc.RectNode
	for _, r := range doc.Rects {
		if r.Width <= 0 || r.Height <= 0 {
			continue
		}
		long := math.Max(r.Width, r.Height)
		short := math.Min(r.Width, r.Height)
		if long/short >= wallElongation || isSolid(r.Fill) {
			out = append(out, r)
		}
	}
	return out
}

// isSolid reports whether a fill reads as a dark, solid wall fill.
func isSolid(fill string) bool {
	fill = strings.ToLower(strings.TrimSpace(fill))
	switch fill {
	case "", "none", "transparent", "#fff", "#ffffff", "white":
		return fill == "" // unfilled SVG shapes default to black
	case "black", "#000", "#000000", "currentcolor":
		return true
	}
	if strings.HasPrefix(fill, "#") {
		return darkHex(fill)
	}
	return false
}

func darkHex(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return false
	}
	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	r := (val >> 16) & 0xff
	g := (val >> 8) & 0xff
	b := val & 0xff
	return r+g+b < 3*0x60
}

func parseMeters(raw string) float64 {
	raw = strings.ReplaceAll(raw, ",", ".")
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return val
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
