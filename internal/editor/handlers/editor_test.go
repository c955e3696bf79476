package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/client"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/service"
)

const testDoc = `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="900">
<rect id="wall-left" x="100" y="50" width="10" height="500" fill="#000000"/>
<rect id="wall-right" x="610" y="50" width="10" height="500" fill="#000000"/>
<text x="350" y="300">5m x 3m</text>
</svg>`

type stubPlans struct {
	plans    map[string][]byte
	elements map[string]plan.Elements
	saved    []client.SaveRequest
}

func (s *stubPlans) FetchPlan(_ context.Context, projectID string) ([]byte, error) {
	doc, ok := s.plans[projectID]
	if !ok {
		return nil, fmt.Errorf("plan not found")
	}
	return doc, nil
}

func (s *stubPlans) FetchElements(_ context.Context, projectID string) (plan.Elements, error) {
	return s.elements[projectID], nil
}

func (s *stubPlans) SavePlan(_ context.Context, _ string, payload client.SaveRequest) (*client.SaveResult, error) {
	s.saved = append(s.saved, payload)
	return &client.SaveResult{Preview: "preview.png", SavedAt: time.Now()}, nil
}

func newTestApp(t *testing.T) (*fiber.App, *stubPlans) {
	t.Helper()

	plans := &stubPlans{
		plans:    map[string][]byte{"project-1": []byte(testDoc)},
		elements: map[string]plan.Elements{},
	}
	h := NewEditorHandler(service.NewRegistry(), plans)

	app := fiber.New()
	app.Post("/sessions", h.OpenSession)
	app.Get("/sessions/:id", h.GetSession)
	app.Delete("/sessions/:id", h.CloseSession)
	app.Post("/sessions/:id/actions", h.Act)
	app.Get("/sessions/:id/document", h.GetDocument)
	app.Post("/sessions/:id/save", h.SaveSession)
	app.Post("/calibrate", h.Calibrate)
	app.Post("/serialize", h.Serialize)
	return app, plans
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = strings.NewReader("{}")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var fields map[string]json.RawMessage
	if len(raw) > 0 && json.Valid(raw) && raw[0] == '{' {
		if err := json.Unmarshal(raw, &fields); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
	}
	return resp.StatusCode, fields
}

func openSession(t *testing.T, app *fiber.App, body map[string]any) string {
	t.Helper()

	status, fields := doJSON(t, app, http.MethodPost, "/sessions", body)
	if status != http.StatusCreated {
		t.Fatalf("open session status = %d", status)
	}
	var id string
	if err := json.Unmarshal(fields["session_id"], &id); err != nil {
		t.Fatalf("session_id: %v", err)
	}
	return id
}

func TestOpenSessionFromProject(t *testing.T) {
	app, _ := newTestApp(t)

	id := openSession(t, app, map[string]any{"project_id": "project-1"})

	status, fields := doJSON(t, app, http.MethodGet, "/sessions/"+id, nil)
	if status != http.StatusOK {
		t.Fatalf("get session status = %d", status)
	}

	var cal struct {
		UnitsPerMeter float64 `json:"units_per_meter"`
	}
	if err := json.Unmarshal(fields["calibration"], &cal); err != nil {
		t.Fatalf("calibration: %v", err)
	}
	if cal.UnitsPerMeter != 100 {
		t.Fatalf("units per meter = %v, want 100 from the dimension label", cal.UnitsPerMeter)
	}
}

func TestOpenSessionDegradesWhenFetchFails(t *testing.T) {
	app, _ := newTestApp(t)

	status, fields := doJSON(t, app, http.MethodPost, "/sessions",
		map[string]any{"project_id": "gone"})
	if status != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (degraded session, not a refusal)", status)
	}

	var degraded bool
	if err := json.Unmarshal(fields["degraded"], &degraded); err != nil {
		t.Fatalf("degraded: %v", err)
	}
	if !degraded {
		t.Fatal("session opened from a failed fetch must be flagged degraded")
	}

	var state struct {
		Calibration struct {
			UnitsPerMeter float64 `json:"units_per_meter"`
			CanvasWidth   float64 `json:"canvas_width"`
			CanvasHeight  float64 `json:"canvas_height"`
		} `json:"calibration"`
	}
	if err := json.Unmarshal(fields["state"], &state); err != nil {
		t.Fatalf("state: %v", err)
	}
	if state.Calibration.UnitsPerMeter != 100 ||
		state.Calibration.CanvasWidth != 1000 || state.Calibration.CanvasHeight != 800 {
		t.Fatalf("calibration = %+v, want the defaults", state.Calibration)
	}
}

func TestOpenSessionRequiresDocument(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodPost, "/sessions", map[string]any{})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestActionPlacesAndSelects(t *testing.T) {
	app, _ := newTestApp(t)
	id := openSession(t, app, map[string]any{"document": testDoc})

	doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "set-tool", "tool": "place-door"})
	status, fields := doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "canvas-click", "x": 200.0, "y": 150.0})
	if status != http.StatusOK {
		t.Fatalf("action status = %d", status)
	}

	var sel plan.Ref
	if err := json.Unmarshal(fields["selection"], &sel); err != nil {
		t.Fatalf("selection: %v", err)
	}
	if sel.Kind != plan.KindDoor || sel.ID != 1 {
		t.Fatalf("selection = %+v, want door 1", sel)
	}

	var els plan.Elements
	if err := json.Unmarshal(fields["elements"], &els); err != nil {
		t.Fatalf("elements: %v", err)
	}
	if len(els.Doors) != 1 || els.Doors[0].X != 200 || els.Doors[0].Y != 150 {
		t.Fatalf("doors = %+v", els.Doors)
	}
}

func TestUnknownActionRejected(t *testing.T) {
	app, _ := newTestApp(t)
	id := openSession(t, app, map[string]any{"document": testDoc})

	status, _ := doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "teleport"})
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	app, _ := newTestApp(t)
	id := openSession(t, app, map[string]any{"document": testDoc})

	doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "set-tool", "tool": "place-window"})
	doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "canvas-click", "x": 300.0, "y": 200.0})

	req := httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/document", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	doc := string(raw)
	if !strings.Contains(doc, `id="layout-gen-windows"`) {
		t.Fatalf("document missing generated window layer:\n%s", doc)
	}
	if !strings.Contains(doc, `id="wall-left"`) {
		t.Fatal("original content must be preserved")
	}
}

func TestSaveSendsElements(t *testing.T) {
	app, plans := newTestApp(t)
	id := openSession(t, app, map[string]any{"project_id": "project-1"})

	doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "set-tool", "tool": "place-door"})
	doJSON(t, app, http.MethodPost, "/sessions/"+id+"/actions",
		map[string]any{"action": "canvas-click", "x": 200.0, "y": 150.0})

	status, _ := doJSON(t, app, http.MethodPost, "/sessions/"+id+"/save",
		map[string]any{"project_id": "project-1"})
	if status != http.StatusOK {
		t.Fatalf("save status = %d", status)
	}
	if len(plans.saved) != 1 {
		t.Fatalf("saved %d times, want 1", len(plans.saved))
	}
	if len(plans.saved[0].Elements.Doors) != 1 {
		t.Fatalf("saved doors = %+v", plans.saved[0].Elements.Doors)
	}
	if !strings.Contains(plans.saved[0].Document, "layout-gen-doors") {
		t.Fatal("saved document missing generated door layer")
	}
}

func TestCalibrateStateless(t *testing.T) {
	app, _ := newTestApp(t)

	status, fields := doJSON(t, app, http.MethodPost, "/calibrate",
		map[string]any{"document": testDoc})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var units float64
	if err := json.Unmarshal(fields["units_per_meter"], &units); err != nil {
		t.Fatalf("units_per_meter: %v", err)
	}
	if units != 100 {
		t.Fatalf("units per meter = %v, want 100", units)
	}
}

func TestSerializeStateless(t *testing.T) {
	app, _ := newTestApp(t)

	door := plan.Door{ID: 1, X: 200, Y: 150, Width: 82}
	body := map[string]any{
		"document": testDoc,
		"elements": plan.Elements{Doors: []*plan.Door{&door}},
	}

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/serialize", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)

	first := string(raw)
	if !strings.Contains(first, `id="layout-gen-doors"`) {
		t.Fatalf("missing door layer:\n%s", first)
	}

	// feeding the output back must change nothing
	body["document"] = first
	data, _ = json.Marshal(body)
	req = httptest.NewRequest(http.MethodPost, "/serialize", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("serialize again: %v", err)
	}
	defer resp.Body.Close()
	raw, _ = io.ReadAll(resp.Body)
	if string(raw) != first {
		t.Fatal("re-serializing the serializer output must be a no-op")
	}
}

func TestSessionNotFound(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, http.MethodGet, "/sessions/nope", nil)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
}
