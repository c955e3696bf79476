package session

import (
	"context"
	"errors"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/client"
	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/svgdoc"
)

// ============================================================
// Save
// ============================================================

// ErrSaveInFlight rejects a save triggered while another is pending.
var ErrSaveInFlight = errors.New("save already in progress")

// Saver is the persistence endpoint the session submits to.
type Saver interface {
	SavePlan(ctx context.Context, projectID string, payload client.SaveRequest) (*client.SaveResult, error)
}

// Serialize regenerates the document from the current element state.
// Repeated calls with unchanged state yield identical documents.
func (s *Session) Serialize() string {
	return svgdoc.Serialize(s.Document.Raw, s.Elements(),
		s.Calibration.WallStroke, s.Calibration.WallClear)
}

// Save regenerates the document and submits it together with the
// per-kind element arrays. The saving flag blocks concurrent saves;
// on failure the in-memory state is left untouched so the user can
// retry.
//
// Save takes the session lock itself: the flag check-and-set and the
// state snapshot happen under it, the network call does not, so edits
// stay possible while a save is in flight. Callers must not hold the
// lock.
func (s *Session) Save(ctx context.Context, saver Saver, projectID string) (*client.SaveResult, error) {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	s.saving = true
	payload := client.SaveRequest{
		Document: s.Serialize(),
		Elements: s.Elements(),
	}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
	}()

	result, err := saver.SavePlan(ctx, projectID, payload)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Saving reports whether a save is in flight.
func (s *Session) Saving() bool {
	return s.saving
}
