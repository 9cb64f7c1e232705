package browser

import (
	"sort"
	"sync"
)

// InstanceInfo is the lightweight listing view of a tracked session.
type InstanceInfo struct {
	InstanceID  string `json:"instanceId"`
	BrowserType string `json:"browserType"`
}

// Registry owns the mapping from instance identifier to Session. Every key
// present refers to a non-disposed session; disposal and removal are atomic
// from the caller's perspective (see Manager.CloseInstance).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Insert tracks a session under its identifier.
func (r *Registry) Insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get returns the session for an identifier when present.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Remove untracks and returns the session for an identifier.
func (r *Registry) Remove(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Len returns the number of tracked sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Only returns the sole tracked session and the current count under one
// lock, so the single-entry resolution fallback cannot race with mutation.
// The session is nil unless the count is exactly one.
func (r *Registry) Only() (*Session, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.sessions) != 1 {
		return nil, len(r.sessions)
	}
	for _, s := range r.sessions {
		return s, 1
	}
	return nil, 0
}

// All returns a snapshot of the tracked sessions.
func (r *Registry) All() []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}

// List returns listing metadata for all tracked sessions, oldest first.
func (r *Registry) List() []InstanceInfo {
	sessions := r.All()
	sort.Slice(sessions, func(i, j int) bool {
		if sessions[i].CreatedAt.Equal(sessions[j].CreatedAt) {
			return sessions[i].ID < sessions[j].ID
		}
		return sessions[i].CreatedAt.Before(sessions[j].CreatedAt)
	})

	infos := make([]InstanceInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, InstanceInfo{
			InstanceID:  s.ID,
			BrowserType: string(s.Config().Type),
		})
	}
	return infos
}
