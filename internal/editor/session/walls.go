package session

import (
	"math"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Wall Handles
// ============================================================

type WallHandle string

const (
	HandleBody  WallHandle = "body"
	HandleStart WallHandle = "start"
	HandleEnd   WallHandle = "end"
	HandleCurve WallHandle = "curve"
)

const eraseToleranceMin = 8.0

func (s *Session) handleOrigin(ref plan.Ref, handle WallHandle) (plan.Point, bool) {
	if ref.Kind != plan.KindWall {
		return s.elementOrigin(ref)
	}
	w, ok := s.Walls.Get(ref.ID)
	if !ok {
		return plan.Point{}, false
	}
	switch handle {
	case HandleStart:
		return w.P1, true
	case HandleEnd:
		return w.P2, true
	case HandleCurve:
		if w.Curved {
			return w.Control, true
		}
		return plan.Midpoint(w.P1, w.P2), true
	default:
		return w.P1, true
	}
}

func (s *Session) moveHandle(ref plan.Ref, handle WallHandle, target plan.Point) {
	if ref.Kind != plan.KindWall {
		s.moveOrigin(ref, target)
		return
	}
	w, ok := s.Walls.Get(ref.ID)
	if !ok {
		return
	}

	switch handle {
	case HandleStart:
		w.P1 = target
		if !w.Curved {
			w.Control = plan.Midpoint(w.P1, w.P2)
		}
	case HandleEnd:
		w.P2 = target
		if !w.Curved {
			w.Control = plan.Midpoint(w.P1, w.P2)
		}
	case HandleCurve:
		// dragging the midpoint handle bends the wall
		w.Curved = true
		w.Control = target
	default:
		s.translateElement(ref, target.X-w.P1.X, target.Y-w.P1.Y)
	}
}

func (s *Session) moveOrigin(ref plan.Ref, target plan.Point) {
	origin, ok := s.elementOrigin(ref)
	if !ok {
		return
	}
	s.translateElement(ref, target.X-origin.X, target.Y-origin.Y)
}

// ============================================================
// Wall drawing
// ============================================================

// wallClick advances the two-click wall tool: the first click anchors
// the start point, the second commits a straight segment with its
// control point at the midpoint.
func (s *Session) wallClick(p plan.Point) {
	if s.wallStart == nil {
		anchor := p
		s.wallStart = &anchor
		return
	}

	start := *s.wallStart
	s.wallStart = nil

	id := s.Walls.NextID()
	s.Walls.Add(&plan.Wall{
		ID:      id,
		P1:      start,
		P2:      p,
		Control: plan.Midpoint(start, p),
	})
	s.selectPlaced(plan.Ref{Kind: plan.KindWall, ID: id})
}

// PendingWallStart exposes the anchored first click, if any.
func (s *Session) PendingWallStart() (plan.Point, bool) {
	if s.wallStart == nil {
		return plan.Point{}, false
	}
	return *s.wallStart, true
}

// ToggleWallCurve bends or straightens the selected wall. Toggling
// off restores the control point to the exact segment midpoint.
func (s *Session) ToggleWallCurve() {
	if s.Selection.Kind != plan.KindWall {
		return
	}
	w, ok := s.Walls.Get(s.Selection.ID)
	if !ok {
		return
	}

	if w.Curved {
		w.Curved = false
		w.Control = plan.Midpoint(w.P1, w.P2)
		return
	}

	w.Curved = true
	w.Control = defaultBulge(w.P1, w.P2)
}

// defaultBulge offsets the midpoint perpendicular to the segment by a
// quarter of its length, so a fresh curve is visibly bent.
func defaultBulge(p1, p2 plan.Point) plan.Point {
	mid := plan.Midpoint(p1, p2)
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return mid
	}
	return plan.Point{
		X: mid.X - dy/length*(length/4),
		Y: mid.Y + dx/length*(length/4),
	}
}

// ============================================================
// Erase
// ============================================================

// eraseClick deletes the nearest wall whose point-to-segment distance
// from the click is below the tolerance.
func (s *Session) eraseClick(p plan.Point) {
	tolerance := s.Calibration.WallStroke * 1.5
	if tolerance < eraseToleranceMin {
		tolerance = eraseToleranceMin
	}

	bestID := 0
	bestDist := math.Inf(1)
	for _, w := range s.Walls.Items() {
		if dist := pointToSegment(p, w.P1, w.P2); dist < bestDist {
			bestDist = dist
			bestID = w.ID
		}
	}

	if bestDist > tolerance {
		return
	}
	s.Walls.Remove(bestID)
	if s.Selection.Kind == plan.KindWall && s.Selection.ID == bestID {
		s.Selection = plan.Ref{}
	}
}

// pointToSegment projects p onto the segment, clamps the projection
// parameter to [0,1] and measures the distance to the clamped point.
func pointToSegment(p, v1, v2 plan.Point) float64 {
	dx := v2.X - v1.X
	dy := v2.Y - v1.Y
	lengthSq := dx*dx + dy*dy
	if lengthSq == 0 {
		return math.Hypot(p.X-v1.X, p.Y-v1.Y)
	}

	t := ((p.X-v1.X)*dx + (p.Y-v1.Y)*dy) / lengthSq
	t = math.Max(0, math.Min(1, t))

	projX := v1.X + t*dx
	projY := v1.Y + t*dy
	return math.Hypot(p.X-projX, p.Y-projY)
}
