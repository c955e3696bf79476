package session

import (
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/catalog"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Drag
// ============================================================

// dragState lives outside the serialized session so continuous
// pointer-move never touches persisted state.
type dragState struct {
	ref    plan.Ref
	handle WallHandle
	offset plan.Point // pointer minus element origin at pointer-down
	moved  bool
}

// PointerDown starts a potential drag over an element. The offset
// between the pointer's drawing-space position and the element origin
// is recorded so the element does not jump to the cursor.
func (s *Session) PointerDown(ref plan.Ref, screen plan.Point) {
	s.PointerDownHandle(ref, HandleBody, screen)
}

// PointerDownHandle is PointerDown for a specific wall handle.
func (s *Session) PointerDownHandle(ref plan.Ref, handle WallHandle, screen plan.Point) {
	origin, ok := s.handleOrigin(ref, handle)
	if !ok {
		return
	}
	p := s.View.ToDrawing(screen)
	s.drag = &dragState{
		ref:    ref,
		handle: handle,
		offset: plan.Point{X: p.X - origin.X, Y: p.Y - origin.Y},
	}
}

// PointerMove recomputes origin = pointer - offset for the active
// drag target.
func (s *Session) PointerMove(screen plan.Point) {
	if s.drag == nil {
		return
	}
	p := s.View.ToDrawing(screen)
	target := plan.Point{X: p.X - s.drag.offset.X, Y: p.Y - s.drag.offset.Y}

	origin, ok := s.handleOrigin(s.drag.ref, s.drag.handle)
	if !ok {
		return
	}
	if target == origin {
		return
	}

	s.moveHandle(s.drag.ref, s.drag.handle, target)
	s.drag.moved = true
}

// PointerUp ends the drag. A drag that actually moved suppresses the
// click that fires on release, so releasing a drag neither re-places
// nor deselects.
func (s *Session) PointerUp() {
	if s.drag == nil {
		return
	}
	s.wasDragged = s.drag.moved
	s.drag = nil
}

// consumeDragClick reports and clears the was-dragged flag.
func (s *Session) consumeDragClick() bool {
	if !s.wasDragged {
		return false
	}
	s.wasDragged = false
	return true
}

// ============================================================
// Keyboard & action-bar actions
//
// Every action on an empty selection is a no-op, never an error.
// ============================================================

// RotateSelection advances rotation by 90 degrees. Wall orientation
// is implicit in its endpoints, so walls are skipped.
func (s *Session) RotateSelection() {
	switch s.Selection.Kind {
	case plan.KindDoor:
		if d, ok := s.Doors.Get(s.Selection.ID); ok {
			d.Rotation = (d.Rotation + 90) % 360
		}
	case plan.KindWindow:
		if w, ok := s.Windows.Get(s.Selection.ID); ok {
			w.Rotation = (w.Rotation + 90) % 360
		}
	case plan.KindRobe:
		if r, ok := s.Robes.Get(s.Selection.ID); ok {
			r.Rotation = (r.Rotation + 90) % 360
		}
	case plan.KindKitchen:
		if k, ok := s.Kitchens.Get(s.Selection.ID); ok {
			k.Rotation = (k.Rotation + 90) % 360
		}
	}
}

// FlipSelection toggles the mirrored flag. Kinds whose catalog entry
// has CanFlip=false never change state.
func (s *Session) FlipSelection() {
	if !catalog.CanFlip(s.Selection.Kind) {
		return
	}
	switch s.Selection.Kind {
	case plan.KindDoor:
		if d, ok := s.Doors.Get(s.Selection.ID); ok {
			d.Flipped = !d.Flipped
		}
	case plan.KindWindow:
		if w, ok := s.Windows.Get(s.Selection.ID); ok {
			w.Flipped = !w.Flipped
		}
	}
}

// Nudge translates the selection by the calibrated step. dirX/dirY
// are -1, 0 or 1; holding the modifier multiplies the step by 5.
func (s *Session) Nudge(dirX, dirY int, fast bool) {
	if s.Selection.IsZero() {
		return
	}
	step := s.Calibration.NudgeStep
	if fast {
		step *= 5
	}
	s.translateElement(s.Selection, float64(dirX)*step, float64(dirY)*step)
}

// DeleteSelection removes the selected element and clears the
// selection.
func (s *Session) DeleteSelection() {
	if s.Selection.IsZero() {
		return
	}
	s.removeElement(s.Selection)
	s.Selection = plan.Ref{}
}

// Undo reverses the most recent addition, strictly LIFO. Elements
// already deleted by other means are skipped without error. Moves,
// rotations and deletes are not undoable.
func (s *Session) Undo() {
	ref, ok := s.history.Pop()
	if !ok {
		return
	}
	s.removeElement(ref)
	if s.Selection == ref {
		s.Selection = plan.Ref{}
	}
}

// HistoryLen reports how many additions remain undoable.
func (s *Session) HistoryLen() int {
	return s.history.Len()
}
