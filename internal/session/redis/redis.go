// Package redis backs the session store with Redis so pending
// follow-ups survive restarts and are shared across replicas.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"faqbot/internal/domain"
)

// Config contains connection details for the Redis session store.
type Config struct {
	Address   string
	Password  string
	DB        int
	TTL       time.Duration
	KeyPrefix string
}

// Store implements the session store over a Redis client. Values are
// JSON-encoded pending follow-ups with a per-conversation TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewStore opens a Redis connection for session storage.
func NewStore(cfg Config) *Store {
	if cfg.Address == "" {
		cfg.Address = "localhost:6379"
	}
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "faqbot:followup:"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Store{client: client, ttl: cfg.TTL, prefix: cfg.KeyPrefix}
}

// Ping tests connectivity so startup can fail fast on a bad address.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

// Get returns the conversation's pending follow-up, or nil if none.
func (s *Store) Get(ctx context.Context, conversationID string) (*domain.PendingFollowup, error) {
	val, err := s.client.Get(ctx, s.key(conversationID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get session: %w", err)
	}
	var pending domain.PendingFollowup
	if err := json.Unmarshal([]byte(val), &pending); err != nil {
		return nil, fmt.Errorf("redis: decode session: %w", err)
	}
	return &pending, nil
}

// Set stores the conversation's pending follow-up with the store TTL.
func (s *Store) Set(ctx context.Context, conversationID string, pending domain.PendingFollowup) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("redis: encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: set session: %w", err)
	}
	return nil
}

// Delete removes the conversation's pending follow-up, if any.
func (s *Store) Delete(ctx context.Context, conversationID string) error {
	if err := s.client.Del(ctx, s.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("redis: delete session: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (s *Store) Close() error { return s.client.Close() }

func (s *Store) key(conversationID string) string {
	return s.prefix + conversationID
}
