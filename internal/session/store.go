// Package session defines the per-conversation state contract. Each
// conversation owns at most one pending follow-up; the store is a
// single-slot key-value capability keyed by conversation identity.
package session

import (
	"context"

	"faqbot/internal/domain"
)

// Store persists zero-or-one pending follow-up per conversation.
// Get returns (nil, nil) when no follow-up is pending.
type Store interface {
	Get(ctx context.Context, conversationID string) (*domain.PendingFollowup, error)
	Set(ctx context.Context, conversationID string, pending domain.PendingFollowup) error
	Delete(ctx context.Context, conversationID string) error
}
