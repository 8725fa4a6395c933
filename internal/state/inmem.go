package state

import (
	"fmt"
	"sync"
)

// InMemoryStore keeps attempt views in process memory. Restarting the
// process loses the views; the user lands on a fresh page and the
// backend still holds the attempt itself.
type InMemoryStore struct {
	mu    sync.Mutex
	views map[string]*AttemptView
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{views: make(map[string]*AttemptView)}
}

func viewKey(sessionID string, attemptID uint64) string {
	return fmt.Sprintf("%s/%d", sessionID, attemptID)
}

func (s *InMemoryStore) GetOrCreate(sessionID string, attemptID uint64) *AttemptView {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := viewKey(sessionID, attemptID)
	view, ok := s.views[key]
	if !ok {
		view = newAttemptView()
		s.views[key] = view
	}
	return view
}

func (s *InMemoryStore) Get(sessionID string, attemptID uint64) (*AttemptView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	view, ok := s.views[viewKey(sessionID, attemptID)]
	return view, ok
}

func (s *InMemoryStore) Drop(sessionID string, attemptID uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.views, viewKey(sessionID, attemptID))
}
