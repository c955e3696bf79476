package session

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/client"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

type stubSaver struct {
	lastProject string
	lastPayload client.SaveRequest
	result      *client.SaveResult
	err         error
	calls       int
}

func (s *stubSaver) SavePlan(_ context.Context, projectID string, payload client.SaveRequest) (*client.SaveResult, error) {
	s.calls++
	s.lastProject = projectID
	s.lastPayload = payload
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func TestSerializeTwiceIsIdentical(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolPlaceDoor)
	s.CanvasClick(plan.Point{X: 150, Y: 150})
	drawWall(t, s, 0, 0, 100, 0)

	first := s.Serialize()
	second := s.Serialize()
	if first != second {
		t.Fatal("serializing unchanged state twice must be byte-identical")
	}
	if strings.Count(first, `id="layout-gen-doors"`) != 1 {
		t.Fatal("exactly one generated doors layer expected")
	}
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolPlaceDoor)
	s.CanvasClick(plan.Point{X: 150, Y: 150})

	saver := &stubSaver{err: errors.New("disk full")}
	_, err := s.Save(context.Background(), saver, "p1")
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("err = %v, want verbatim 'disk full'", err)
	}

	if s.Doors.Len() != 1 || s.HistoryLen() != 1 {
		t.Fatal("failed save must not touch in-memory state")
	}
	if s.Saving() {
		t.Fatal("saving flag must reset after failure")
	}

	// retry is user-initiated and allowed
	saver.err = nil
	saver.result = &client.SaveResult{Preview: "preview.png"}
	if _, err := s.Save(context.Background(), saver, "p1"); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

// End to end: load with an envelope hint and no labels, place a door,
// rotate it, save, and check the submitted payload mirrors memory.
func TestEndToEndPlaceRotateSave(t *testing.T) {
	doc := `<svg width="1200" height="900">
<rect x="100" y="100" width="10" height="500" fill="#000"/>
<rect x="610" y="100" width="10" height="500" fill="#000"/>
</svg>`
	s := New([]byte(doc), 12, plan.Elements{})

	wantScale := 520.0 / 12.0
	if math.Abs(s.Calibration.UnitsPerMeter-wantScale) > 1e-9 {
		t.Fatalf("scale = %v, want %v", s.Calibration.UnitsPerMeter, wantScale)
	}

	s.SetTool(ToolPlaceDoor)
	s.CanvasClick(plan.Point{X: 100, Y: 100})

	d, ok := s.Doors.Get(1)
	if !ok {
		t.Fatal("door not placed")
	}
	if d.X != 100 || d.Y != 100 || d.Rotation != 0 || d.Flipped {
		t.Fatalf("door = %+v", d)
	}
	if math.Abs(d.Width-0.82*wantScale) > 1e-9 {
		t.Fatalf("door width = %v, want %v", d.Width, 0.82*wantScale)
	}

	s.RotateSelection()
	if d.Rotation != 90 {
		t.Fatalf("rotation = %d, want 90", d.Rotation)
	}

	saver := &stubSaver{result: &client.SaveResult{Preview: "preview.png"}}
	res, err := s.Save(context.Background(), saver, "project-7")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Preview != "preview.png" {
		t.Fatalf("preview = %q", res.Preview)
	}

	if saver.lastProject != "project-7" {
		t.Fatalf("project = %q", saver.lastProject)
	}
	doors := saver.lastPayload.Elements.Doors
	if len(doors) != 1 || *doors[0] != *d {
		t.Fatalf("payload doors = %+v, want exactly the in-memory door", doors)
	}
	if !strings.Contains(saver.lastPayload.Document, `id="layout-gen-doors"`) {
		t.Fatal("regenerated document must contain the doors layer")
	}
}

type blockingSaver struct {
	entered chan struct{}
	release chan struct{}
}

func (s *blockingSaver) SavePlan(context.Context, string, client.SaveRequest) (*client.SaveResult, error) {
	close(s.entered)
	<-s.release
	return &client.SaveResult{Preview: "preview.png"}, nil
}

func TestSaveRejectsConcurrentSave(t *testing.T) {
	s := newTestSession(t)
	s.SetTool(ToolPlaceDoor)
	s.CanvasClick(plan.Point{X: 150, Y: 150})

	saver := &blockingSaver{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}

	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), saver, "p1")
		done <- err
	}()
	<-saver.entered

	if _, err := s.Save(context.Background(), &stubSaver{}, "p1"); !errors.Is(err, ErrSaveInFlight) {
		t.Fatalf("second save err = %v, want ErrSaveInFlight", err)
	}

	close(saver.release)
	if err := <-done; err != nil {
		t.Fatalf("first save: %v", err)
	}
	if s.Saving() {
		t.Fatal("saving flag must reset after the save completes")
	}
}

// Exercised under the race detector: handler-style locked edits racing
// an in-flight save must not corrupt the stores or the history.
func TestConcurrentEditsDuringSave(t *testing.T) {
	s := newTestSession(t)

	saver := &blockingSaver{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	done := make(chan error, 1)
	go func() {
		_, err := s.Save(context.Background(), saver, "p1")
		done <- err
	}()
	<-saver.entered

	const workers = 8
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Lock()
			s.SetTool(ToolPlaceDoor)
			s.CanvasClick(plan.Point{X: 150, Y: 150})
			s.Unlock()
		}()
	}
	wg.Wait()

	close(saver.release)
	if err := <-done; err != nil {
		t.Fatalf("save: %v", err)
	}

	if s.Doors.Len() != workers || s.HistoryLen() != workers {
		t.Fatalf("doors = %d, history = %d, want %d each", s.Doors.Len(), s.HistoryLen(), workers)
	}
	seen := make(map[int]bool)
	for _, d := range s.Doors.Items() {
		if seen[d.ID] {
			t.Fatalf("duplicate door id %d", d.ID)
		}
		seen[d.ID] = true
	}
}

func TestSeededCollectionsResumeIDs(t *testing.T) {
	seed := plan.Elements{
		Doors: []*plan.Door{{ID: 4, X: 10, Y: 10, Width: 82}},
		Walls: []*plan.Wall{{ID: 2, P1: plan.Point{X: 0, Y: 0}, P2: plan.Point{X: 50, Y: 0}, Control: plan.Point{X: 25, Y: 0}}},
	}
	s := New([]byte(testDoc), 0, seed)

	s.SetTool(ToolPlaceDoor)
	s.CanvasClick(plan.Point{X: 200, Y: 200})
	if s.Selection != (plan.Ref{Kind: plan.KindDoor, ID: 5}) {
		t.Fatalf("selection = %+v, want door id 5 (max existing + 1)", s.Selection)
	}

	drawWall(t, s, 0, 100, 100, 100)
	if s.Selection.ID != 3 {
		t.Fatalf("wall id = %d, want 3", s.Selection.ID)
	}
}
