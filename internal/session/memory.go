package session

import (
	"context"
	"sync"
)

// MemoryStore keeps session state in process memory, matching the
// storefront's ephemeral session semantics. A per-session mutex serializes
// overlapping requests from the same client.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu    sync.Mutex
	state State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entry),
	}
}

func (s *MemoryStore) session(sessionID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[sessionID]
	if !ok {
		e = &entry{}
		s.sessions[sessionID] = e
	}
	return e
}

func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn func(*State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.session(sessionID)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(&e.state)
}

func (s *MemoryStore) View(ctx context.Context, sessionID string, fn func(*State) error) error {
	return s.Update(ctx, sessionID, fn)
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
