package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/calibrate"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/service"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/session"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/svgdoc"
)

// ============================================================
// Editor Handler
// ============================================================

// PlanSource is the subset of the plans client the editor needs.
type PlanSource interface {
	FetchPlan(ctx context.Context, projectID string) ([]byte, error)
	FetchElements(ctx context.Context, projectID string) (plan.Elements, error)
	session.Saver
}

type EditorHandler struct {
	registry *service.Registry
	plans    PlanSource
}

func NewEditorHandler(registry *service.Registry, plans PlanSource) *EditorHandler {
	return &EditorHandler{registry: registry, plans: plans}
}

// ============================================================
// Request/response shapes
// ============================================================

type openSessionRequest struct {
	ProjectID      string        `json:"project_id"`
	Document       string        `json:"document"`
	EnvelopeWidthM float64       `json:"envelope_width_m"`
	Elements       plan.Elements `json:"elements"`
}

type actionRequest struct {
	Action string  `json:"action"`
	Tool   string  `json:"tool"`
	Kind   string  `json:"kind"`
	ID     int     `json:"id"`
	Handle string  `json:"handle"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DirX   int     `json:"dir_x"`
	DirY   int     `json:"dir_y"`
	Fast   bool    `json:"fast"`
	Zoom   float64 `json:"zoom"`
	PanX   float64 `json:"pan_x"`
	PanY   float64 `json:"pan_y"`
}

type sessionState struct {
	Calibration calibrate.Calibration `json:"calibration"`
	Tool        session.Tool          `json:"tool"`
	Selection   *plan.Ref             `json:"selection,omitempty"`
	View        session.Viewport      `json:"view"`
	Elements    plan.Elements         `json:"elements"`
	HistoryLen  int                   `json:"history_len"`
	WallStart   *plan.Point           `json:"wall_start,omitempty"`
	Saving      bool                  `json:"saving"`
}

func stateOf(s *session.Session) sessionState {
	st := sessionState{
		Calibration: s.Calibration,
		Tool:        s.Tool,
		View:        s.View,
		Elements:    s.Elements(),
		HistoryLen:  s.HistoryLen(),
		Saving:      s.Saving(),
	}
	if !s.Selection.IsZero() {
		ref := s.Selection
		st.Selection = &ref
	}
	if start, ok := s.PendingWallStart(); ok {
		st.WallStart = &start
	}
	return st
}

// ============================================================
// Sessions
// ============================================================

// OpenSession starts an editing session, either over an inline
// document or over a project's stored plan.
func (h *EditorHandler) OpenSession(c fiber.Ctx) error {
	var req openSessionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	document := []byte(req.Document)
	seed := req.Elements
	degraded := false
	if req.ProjectID != "" {
		fetched, err := h.plans.FetchPlan(context.Background(), req.ProjectID)
		if err != nil {
			// degraded but usable: the session opens on the default
			// canvas and scale instead of refusing to load
			log.Printf("[EDITOR] fetch plan %s: %v (opening degraded session)", req.ProjectID, err)
			degraded = true
		} else {
			document = fetched
			seed, err = h.plans.FetchElements(context.Background(), req.ProjectID)
			if err != nil {
				log.Printf("[EDITOR] fetch elements %s: %v (starting empty)", req.ProjectID, err)
				seed = plan.Elements{}
			}
		}
	}
	if len(document) == 0 && req.ProjectID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "document or project_id required"})
	}

	sess := session.New(document, req.EnvelopeWidthM, seed)
	state := stateOf(sess)
	id := h.registry.Issue(sess)
	log.Printf("[EDITOR] session %s opened (scale %.2f units/m)", id, state.Calibration.UnitsPerMeter)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"session_id": id,
		"state":      state,
		"degraded":   degraded,
	})
}

func (h *EditorHandler) GetSession(c fiber.Ctx) error {
	sess, ok := h.registry.Resolve(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	sess.Lock()
	defer sess.Unlock()
	return c.JSON(stateOf(sess))
}

func (h *EditorHandler) CloseSession(c fiber.Ctx) error {
	h.registry.Drop(c.Params("id"))
	return c.JSON(fiber.Map{"status": "closed"})
}

// ============================================================
// Actions
// ============================================================

// Act applies one editor action to the session and returns the new
// state. Unknown actions are rejected; a no-op action still returns
// the current state.
func (h *EditorHandler) Act(c fiber.Ctx) error {
	sess, ok := h.registry.Resolve(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req actionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}

	sess.Lock()
	defer sess.Unlock()
	if err := apply(sess, req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(stateOf(sess))
}

func apply(sess *session.Session, req actionRequest) error {
	point := plan.Point{X: req.X, Y: req.Y}
	ref := plan.Ref{Kind: plan.Kind(req.Kind), ID: req.ID}

	switch req.Action {
	case "set-tool":
		sess.SetTool(session.Tool(req.Tool))
	case "canvas-click":
		sess.CanvasClick(point)
	case "element-click":
		sess.ElementClick(ref)
	case "pointer-down":
		if req.Handle != "" {
			sess.PointerDownHandle(ref, session.WallHandle(req.Handle), point)
		} else {
			sess.PointerDown(ref, point)
		}
	case "pointer-move":
		sess.PointerMove(point)
	case "pointer-up":
		sess.PointerUp()
	case "rotate":
		sess.RotateSelection()
	case "flip":
		sess.FlipSelection()
	case "nudge":
		sess.Nudge(req.DirX, req.DirY, req.Fast)
	case "delete":
		sess.DeleteSelection()
	case "undo":
		sess.Undo()
	case "toggle-curve":
		sess.ToggleWallCurve()
	case "set-view":
		sess.View = session.Viewport{Zoom: req.Zoom, PanX: req.PanX, PanY: req.PanY}
	default:
		return errors.New("unknown action")
	}
	return nil
}

// ============================================================
// Document & save
// ============================================================

// GetDocument serializes the session back into the plan document.
func (h *EditorHandler) GetDocument(c fiber.Ctx) error {
	sess, ok := h.registry.Resolve(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}
	sess.Lock()
	doc := sess.Serialize()
	sess.Unlock()

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(doc)
}

type saveSessionRequest struct {
	ProjectID string `json:"project_id"`
}

func (h *EditorHandler) SaveSession(c fiber.Ctx) error {
	sess, ok := h.registry.Resolve(c.Params("id"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "session not found"})
	}

	var req saveSessionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.ProjectID == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "project_id required"})
	}

	result, err := sess.Save(context.Background(), h.plans, req.ProjectID)
	if err != nil {
		if errors.Is(err, session.ErrSaveInFlight) {
			return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("[EDITOR] save session %s: %v", c.Params("id"), err)
		return c.Status(http.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}

type serializeRequest struct {
	Document string        `json:"document"`
	Elements plan.Elements `json:"elements"`
}

// Serialize regenerates a document from element arrays without a
// session. Re-serializing its own output is a no-op.
func (h *EditorHandler) Serialize(c fiber.Ctx) error {
	var req serializeRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Document == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "document required"})
	}

	cal := calibrate.FromSVG([]byte(req.Document), 0)
	out := svgdoc.Serialize(req.Document, req.Elements, cal.WallStroke, cal.WallClear)
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(out)
}

// ============================================================
// Calibration
// ============================================================

type calibrateRequest struct {
	Document       string  `json:"document"`
	EnvelopeWidthM float64 `json:"envelope_width_m"`
}

// Calibrate measures a document without opening a session.
func (h *EditorHandler) Calibrate(c fiber.Ctx) error {
	var req calibrateRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid json"})
	}
	if req.Document == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "document required"})
	}
	return c.JSON(calibrate.FromSVG([]byte(req.Document), req.EnvelopeWidthM))
}
