package svgdoc

import (
	"strings"
	"testing"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

const sampleDoc = `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="900">
<rect id="Wall_1" x="100" y="100" width="10" height="500" fill="#000000"/>
<rect id="Wall_2" x="610" y="100" width="10" height="500" fill="#000000"/>
<text x="350" y="300">5m x 3m</text>
</svg>`

func TestParseCollectsNodes(t *testing.T) {
	doc, err := Parse([]byte(sampleDoc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if doc.Width != 1200 || doc.Height != 900 {
		t.Errorf("size = %v x %v, want 1200 x 900", doc.Width, doc.Height)
	}
	if len(doc.Rects) != 2 {
		t.Fatalf("rects = %d, want 2", len(doc.Rects))
	}
	if doc.Rects[0].Fill != "#000000" {
		t.Errorf("rect fill = %q", doc.Rects[0].Fill)
	}
	if len(doc.Texts) != 1 || doc.Texts[0].Content != "5m x 3m" {
		t.Fatalf("texts = %+v, want one '5m x 3m' label", doc.Texts)
	}
}

func TestParseViewBoxFallback(t *testing.T) {
	doc, err := Parse([]byte(`<svg viewBox="0 0 800 600"></svg>`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if doc.Width != 800 || doc.Height != 600 {
		t.Errorf("size = %v x %v, want 800 x 600", doc.Width, doc.Height)
	}
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []plan.Point
	}{
		{
			name: "absolute move and lines",
			d:    "M 10 20 L 30 20 L 30 40",
			want: []plan.Point{{X: 10, Y: 20}, {X: 30, Y: 20}, {X: 30, Y: 40}},
		},
		{
			name: "relative with close",
			d:    "m 10,10 l 20,0 v 10 z",
			want: []plan.Point{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 20}, {X: 10, Y: 10}},
		},
		{
			name: "horizontal and vertical",
			d:    "M0 0 H50 V25",
			want: []plan.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 25}},
		},
		{
			name: "quadratic endpoint only",
			d:    "M0 0 Q 25 50 50 0",
			want: []plan.Point{{X: 0, Y: 0}, {X: 50, Y: 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePath(tt.d)
			if err != nil {
				t.Fatalf("ParsePath(%q): %v", tt.d, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("points = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("point[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPathBounds(t *testing.T) {
	minX, minY, maxX, maxY, err := PathBounds("M 10 5 L 110 5 L 110 15 Z")
	if err != nil {
		t.Fatalf("PathBounds: %v", err)
	}
	if minX != 10 || minY != 5 || maxX != 110 || maxY != 15 {
		t.Fatalf("bounds = %v %v %v %v", minX, minY, maxX, maxY)
	}
}

func TestSerializeIdempotent(t *testing.T) {
	els := plan.Elements{
		Doors: []*plan.Door{{ID: 1, X: 200, Y: 100, Rotation: 90, Width: 82}},
		Walls: []*plan.Wall{{ID: 1, P1: plan.Point{X: 0, Y: 0}, P2: plan.Point{X: 100, Y: 0}, Control: plan.Point{X: 50, Y: 0}}},
	}

	first := Serialize(sampleDoc, els, 8, 20)
	second := Serialize(first, els, 8, 20)

	if first != second {
		t.Fatal("second save differs from first: generated layers accumulated")
	}
	if strings.Count(first, `id="layout-gen-doors"`) != 1 {
		t.Fatalf("want exactly one generated doors group:\n%s", first)
	}
	if strings.Count(first, `id="layout-gen-walls"`) != 1 {
		t.Fatal("want exactly one generated walls group")
	}
}

func TestStripGeneratedPreservesOriginal(t *testing.T) {
	els := plan.Elements{
		Windows: []*plan.Window{{ID: 3, X: 40, Y: 40, Width: 100}},
	}

	regenerated := Serialize(sampleDoc, els, 8, 20)
	stripped := StripGenerated(regenerated)

	if stripped != sampleDoc {
		t.Fatalf("strip did not restore original document:\n%s", stripped)
	}
}

func TestSerializeCurvedWall(t *testing.T) {
	els := plan.Elements{
		Walls: []*plan.Wall{{
			ID:      2,
			P1:      plan.Point{X: 0, Y: 0},
			P2:      plan.Point{X: 100, Y: 0},
			Curved:  true,
			Control: plan.Point{X: 50, Y: 80},
		}},
	}

	out := Serialize(sampleDoc, els, 8, 20)
	if !strings.Contains(out, "Q 50 80 100 0") {
		t.Fatalf("curved wall should render a quadratic path:\n%s", out)
	}
}

func TestSerializeFlippedDoorTransform(t *testing.T) {
	els := plan.Elements{
		Doors: []*plan.Door{{ID: 1, X: 10, Y: 20, Rotation: 180, Flipped: true, Width: 82}},
	}

	out := Serialize(sampleDoc, els, 8, 20)
	if !strings.Contains(out, `transform="translate(10 20) rotate(180) scale(-1 1)"`) {
		t.Fatalf("flipped door transform missing:\n%s", out)
	}
}
