package service

import (
	"sync"

	"github.com/google/uuid"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/session"
)

// ============================================================
// Session Registry
// ============================================================

// Registry holds the live editing sessions of this process. Sessions
// are not shared between editor instances.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session.Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*session.Session),
	}
}

func (r *Registry) Issue(s *session.Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.sessions[id] = s
	return id
}

func (r *Registry) Resolve(id string) (*session.Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}
