package session

import (
	"sync"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/calibrate"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/catalog"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/svgdoc"
)

// ============================================================
// Tools
// ============================================================

type Tool string

const (
	ToolSelect       Tool = "select"
	ToolPlaceDoor    Tool = "place-door"
	ToolPlaceWindow  Tool = "place-window"
	ToolPlaceRobe    Tool = "place-robe"
	ToolPlaceKitchen Tool = "place-kitchen"
	ToolDrawWall     Tool = "draw-wall"
	ToolEraseWall    Tool = "erase-wall"
)

// ============================================================
// Viewport
// ============================================================

// Viewport maps screen pixels to drawing-native coordinates. Stored
// element positions always live in drawing space.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	PanX float64 `json:"pan_x"`
	PanY float64 `json:"pan_y"`
}

// ToDrawing inverse-transforms a pointer coordinate.
func (v Viewport) ToDrawing(screen plan.Point) plan.Point {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return plan.Point{
		X: (screen.X - v.PanX) / zoom,
		Y: (screen.Y - v.PanY) / zoom,
	}
}

// ============================================================
// Session
// ============================================================

// Session is one local editing session over a plan document. All
// state transitions are synchronous; the pointer-drag target and the
// in-flight save flag live outside the serialized state.
//
// Sessions are served by concurrent HTTP handlers: callers hold
// Lock/Unlock around any method call or field access. Save is the one
// exception — it manages the lock itself and must be called without
// holding it.
type Session struct {
	mu sync.Mutex

	Calibration calibrate.Calibration
	Document    *svgdoc.Document

	Doors    *plan.Store[*plan.Door]
	Windows  *plan.Store[*plan.Window]
	Walls    *plan.Store[*plan.Wall]
	Robes    *plan.Store[*plan.Robe]
	Kitchens *plan.Store[*plan.Kitchen]

	Tool      Tool
	Selection plan.Ref
	View      Viewport

	history plan.History

	// transient pointer/keyboard state
	drag       *dragState
	wasDragged bool
	wallStart  *plan.Point
	saving     bool
}

// New builds a session from the raw document, an optional envelope
// width hint (meters) and optional previously persisted elements.
// A document that fails to parse degrades to the default canvas;
// load is never blocked.
func New(document []byte, envelopeWidthM float64, seed plan.Elements) *Session {
	doc, err := svgdoc.Parse(document)
	if err != nil {
		doc = &svgdoc.Document{Raw: string(document)}
	}

	return &Session{
		Calibration: calibrate.FromDocument(doc, envelopeWidthM),
		Document:    doc,
		Doors:       plan.NewStore(seed.Doors),
		Windows:     plan.NewStore(seed.Windows),
		Walls:       plan.NewStore(seed.Walls),
		Robes:       plan.NewStore(seed.Robes),
		Kitchens:    plan.NewStore(seed.Kitchens),
		Tool:        ToolSelect,
		View:        Viewport{Zoom: 1},
	}
}

// Lock serializes access to the session. Handlers hold it for the
// whole request.
func (s *Session) Lock() { s.mu.Lock() }

func (s *Session) Unlock() { s.mu.Unlock() }

// Elements snapshots the per-kind collections for serialization.
func (s *Session) Elements() plan.Elements {
	return plan.Elements{
		Doors:    s.Doors.Items(),
		Windows:  s.Windows.Items(),
		Walls:    s.Walls.Items(),
		Robes:    s.Robes.Items(),
		Kitchens: s.Kitchens.Items(),
	}
}

// SetTool switches the active tool. Leaving the wall tool discards a
// pending first click.
func (s *Session) SetTool(tool Tool) {
	if tool != ToolDrawWall && tool != ToolEraseWall {
		s.wallStart = nil
	}
	s.Tool = tool
}

// ============================================================
// Canvas & element clicks
// ============================================================

// CanvasClick handles a click that reached the canvas itself.
// Element clicks stop propagation and arrive via ElementClick.
func (s *Session) CanvasClick(screen plan.Point) {
	if s.consumeDragClick() {
		return
	}
	p := s.View.ToDrawing(screen)

	switch s.Tool {
	case ToolSelect:
		s.Selection = plan.Ref{}
	case ToolPlaceDoor:
		s.placeDoor(p)
	case ToolPlaceWindow:
		s.placeWindow(p)
	case ToolPlaceRobe:
		s.placeRobe(p)
	case ToolPlaceKitchen:
		s.placeKitchen(p)
	case ToolDrawWall:
		s.wallClick(p)
	case ToolEraseWall:
		s.eraseClick(p)
	}
}

// ElementClick handles a click on an existing element.
func (s *Session) ElementClick(ref plan.Ref) {
	if s.consumeDragClick() {
		return
	}

	if s.Tool == ToolEraseWall && ref.Kind == plan.KindWall {
		s.Walls.Remove(ref.ID)
		if s.Selection == ref {
			s.Selection = plan.Ref{}
		}
		return
	}

	if !s.elementExists(ref) {
		return
	}
	s.Selection = ref
	s.Tool = ToolSelect
}

// ============================================================
// Placement
// ============================================================

func (s *Session) placeDoor(p plan.Point) {
	width, _ := catalog.Size(plan.KindDoor, s.Calibration.UnitsPerMeter)
	id := s.Doors.NextID()
	s.Doors.Add(&plan.Door{ID: id, X: p.X, Y: p.Y, Width: width})
	s.selectPlaced(plan.Ref{Kind: plan.KindDoor, ID: id})
}

func (s *Session) placeWindow(p plan.Point) {
	width, _ := catalog.Size(plan.KindWindow, s.Calibration.UnitsPerMeter)
	id := s.Windows.NextID()
	s.Windows.Add(&plan.Window{ID: id, X: p.X, Y: p.Y, Width: width})
	s.selectPlaced(plan.Ref{Kind: plan.KindWindow, ID: id})
}

func (s *Session) placeRobe(p plan.Point) {
	width, length := catalog.Size(plan.KindRobe, s.Calibration.UnitsPerMeter)
	id := s.Robes.NextID()
	s.Robes.Add(&plan.Robe{ID: id, X: p.X, Y: p.Y, Width: width, Length: length})
	s.selectPlaced(plan.Ref{Kind: plan.KindRobe, ID: id})
}

func (s *Session) placeKitchen(p plan.Point) {
	length, depth := catalog.Size(plan.KindKitchen, s.Calibration.UnitsPerMeter)
	id := s.Kitchens.NextID()
	s.Kitchens.Add(&plan.Kitchen{
		ID:      id,
		X:       p.X,
		Y:       p.Y,
		Subtype: plan.KitchenBench,
		Length:  length,
		Depth:   depth,
	})
	s.selectPlaced(plan.Ref{Kind: plan.KindKitchen, ID: id})
}

// selectPlaced records the addition and makes it the selection.
func (s *Session) selectPlaced(ref plan.Ref) {
	s.Selection = ref
	s.history.Push(ref)
}

// ============================================================
// Kind dispatch
// ============================================================

func (s *Session) elementExists(ref plan.Ref) bool {
	switch ref.Kind {
	case plan.KindDoor:
		_, ok := s.Doors.Get(ref.ID)
		return ok
	case plan.KindWindow:
		_, ok := s.Windows.Get(ref.ID)
		return ok
	case plan.KindWall:
		_, ok := s.Walls.Get(ref.ID)
		return ok
	case plan.KindRobe:
		_, ok := s.Robes.Get(ref.ID)
		return ok
	case plan.KindKitchen:
		_, ok := s.Kitchens.Get(ref.ID)
		return ok
	}
	return false
}

func (s *Session) removeElement(ref plan.Ref) bool {
	switch ref.Kind {
	case plan.KindDoor:
		return s.Doors.Remove(ref.ID)
	case plan.KindWindow:
		return s.Windows.Remove(ref.ID)
	case plan.KindWall:
		return s.Walls.Remove(ref.ID)
	case plan.KindRobe:
		return s.Robes.Remove(ref.ID)
	case plan.KindKitchen:
		return s.Kitchens.Remove(ref.ID)
	}
	return false
}

// translateElement shifts an element by a delta in drawing units.
// Walls move both endpoints and the control point, preserving shape.
func (s *Session) translateElement(ref plan.Ref, dx, dy float64) {
	switch ref.Kind {
	case plan.KindDoor:
		if d, ok := s.Doors.Get(ref.ID); ok {
			d.X += dx
			d.Y += dy
		}
	case plan.KindWindow:
		if w, ok := s.Windows.Get(ref.ID); ok {
			w.X += dx
			w.Y += dy
		}
	case plan.KindWall:
		if w, ok := s.Walls.Get(ref.ID); ok {
			w.P1.X += dx
			w.P1.Y += dy
			w.P2.X += dx
			w.P2.Y += dy
			w.Control.X += dx
			w.Control.Y += dy
		}
	case plan.KindRobe:
		if r, ok := s.Robes.Get(ref.ID); ok {
			r.X += dx
			r.Y += dy
		}
	case plan.KindKitchen:
		if k, ok := s.Kitchens.Get(ref.ID); ok {
			k.X += dx
			k.Y += dy
		}
	}
}

// elementOrigin returns the drag origin for an element. For walls the
// body drags relative to the first endpoint.
func (s *Session) elementOrigin(ref plan.Ref) (plan.Point, bool) {
	switch ref.Kind {
	case plan.KindDoor:
		if d, ok := s.Doors.Get(ref.ID); ok {
			return plan.Point{X: d.X, Y: d.Y}, true
		}
	case plan.KindWindow:
		if w, ok := s.Windows.Get(ref.ID); ok {
			return plan.Point{X: w.X, Y: w.Y}, true
		}
	case plan.KindWall:
		if w, ok := s.Walls.Get(ref.ID); ok {
			return w.P1, true
		}
	case plan.KindRobe:
		if r, ok := s.Robes.Get(ref.ID); ok {
			return plan.Point{X: r.X, Y: r.Y}, true
		}
	case plan.KindKitchen:
		if k, ok := s.Kitchens.Get(ref.ID); ok {
			return plan.Point{X: k.X, Y: k.Y}, true
		}
	}
	return plan.Point{}, false
}
