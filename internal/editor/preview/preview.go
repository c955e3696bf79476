package preview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Raster Preview
// ============================================================

const (
	maxPreviewWidth = 1024
	curveSteps      = 16
)

var (
	wallColor    = color.RGBA{0x20, 0x20, 0x20, 0xff}
	openingColor = color.RGBA{0x3a, 0x7b, 0xd5, 0xff}
	fixtureColor = color.RGBA{0x9a, 0x9a, 0x9a, 0xff}
)

// Render rasterizes the element collections into a PNG preview.
// Canvas dimensions come from the calibrated document; the output is
// scaled down to a bounded width.
func Render(els plan.Elements, canvasW, canvasH, wallStroke float64) ([]byte, error) {
	if canvasW <= 0 || canvasH <= 0 {
		return nil, fmt.Errorf("invalid canvas %v x %v", canvasW, canvasH)
	}

	scale := 1.0
	if canvasW > maxPreviewWidth {
		scale = maxPreviewWidth / canvasW
	}
	w := int(math.Ceil(canvasW * scale))
	h := int(math.Ceil(canvasH * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	stroke := wallStroke * scale
	if stroke < 1 {
		stroke = 1
	}

	// walls first, openings and fixtures on top
	walls := vector.NewRasterizer(w, h)
	for _, wall := range els.Walls {
		strokeWall(walls, wall, scale, stroke)
	}
	walls.Draw(dst, dst.Bounds(), image.NewUniform(wallColor), image.Point{})

	openings := vector.NewRasterizer(w, h)
	for _, d := range els.Doors {
		fillRotatedRect(openings, d.X, d.Y, d.Width, stroke/scale, d.Rotation, scale)
	}
	for _, win := range els.Windows {
		fillRotatedRect(openings, win.X, win.Y, win.Width, stroke/scale, win.Rotation, scale)
	}
	openings.Draw(dst, dst.Bounds(), image.NewUniform(openingColor), image.Point{})

	fixtures := vector.NewRasterizer(w, h)
	for _, r := range els.Robes {
		fillRotatedRect(fixtures, r.X, r.Y, r.Length, r.Width, r.Rotation, scale)
	}
	for _, k := range els.Kitchens {
		fillRotatedRect(fixtures, k.X, k.Y, k.Length, k.Depth, k.Rotation, scale)
	}
	fixtures.Draw(dst, dst.Bounds(), image.NewUniform(fixtureColor), image.Point{})

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// strokeWall adds the wall's stroked outline to the rasterizer.
// Curved walls are flattened into short straight segments.
func strokeWall(r *vector.Rasterizer, wall *plan.Wall, scale, stroke float64) {
	if !wall.Curved {
		strokeSegment(r, wall.P1, wall.P2, scale, stroke)
		return
	}

	prev := wall.P1
	for i := 1; i <= curveSteps; i++ {
		t := float64(i) / curveSteps
		next := quadPoint(wall.P1, wall.Control, wall.P2, t)
		strokeSegment(r, prev, next, scale, stroke)
		prev = next
	}
}

func quadPoint(p1, c, p2 plan.Point, t float64) plan.Point {
	u := 1 - t
	return plan.Point{
		X: u*u*p1.X + 2*u*t*c.X + t*t*p2.X,
		Y: u*u*p1.Y + 2*u*t*c.Y + t*t*p2.Y,
	}
}

// strokeSegment fills the quad spanning the segment at the stroke
// width.
func strokeSegment(r *vector.Rasterizer, p1, p2 plan.Point, scale, stroke float64) {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}

	// unit normal scaled to half the stroke, in raster space
	nx := -dy / length * stroke / 2
	ny := dx / length * stroke / 2

	x1, y1 := p1.X*scale, p1.Y*scale
	x2, y2 := p2.X*scale, p2.Y*scale

	r.MoveTo(float32(x1+nx), float32(y1+ny))
	r.LineTo(float32(x2+nx), float32(y2+ny))
	r.LineTo(float32(x2-nx), float32(y2-ny))
	r.LineTo(float32(x1-nx), float32(y1-ny))
	r.ClosePath()
}

// fillRotatedRect fills a width x height rect centered at (cx, cy),
// rotated in 90 degree steps.
func fillRotatedRect(r *vector.Rasterizer, cx, cy, width, height float64, rotation int, scale float64) {
	halfW := width / 2
	halfH := height / 2
	corners := []plan.Point{
		{X: -halfW, Y: -halfH},
		{X: halfW, Y: -halfH},
		{X: halfW, Y: halfH},
		{X: -halfW, Y: halfH},
	}

	rad := float64(rotation) * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)

	for i, p := range corners {
		corners[i] = plan.Point{
			X: (cx + p.X*cos - p.Y*sin) * scale,
			Y: (cy + p.X*sin + p.Y*cos) * scale,
		}
	}

	r.MoveTo(float32(corners[0].X), float32(corners[0].Y))
	for _, p := range corners[1:] {
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
}
