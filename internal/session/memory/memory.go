// Package memory is an in-process session store for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sync"

	"faqbot/internal/domain"
)

// Store keeps pending follow-ups in a mutex-guarded map.
type Store struct {
	mu      sync.RWMutex
	pending map[string]domain.PendingFollowup
}

// NewStore creates an empty in-memory session store.
func NewStore() *Store {
	return &Store{pending: make(map[string]domain.PendingFollowup)}
}

// Get returns the conversation's pending follow-up, or nil if none.
func (s *Store) Get(_ context.Context, conversationID string) (*domain.PendingFollowup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.pending[conversationID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// Set stores the conversation's pending follow-up, replacing any
// previous one.
func (s *Store) Set(_ context.Context, conversationID string, pending domain.PendingFollowup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[conversationID] = pending
	return nil
}

// Delete removes the conversation's pending follow-up, if any.
func (s *Store) Delete(_ context.Context, conversationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, conversationID)
	return nil
}
