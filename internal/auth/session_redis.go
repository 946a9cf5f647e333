package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStore keeps sessions in Redis as JSON values whose TTL matches the session lifetime
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	now       func() time.Time
}

// NewRedisSessionStore creates a session store on client. Keys are prefixed with keyPrefix.
func NewRedisSessionStore(client *redis.Client, keyPrefix string) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: keyPrefix,
		now:       time.Now,
	}
}

func (s *RedisSessionStore) Create(ctx context.Context, session *Session) error {
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return ErrSessionExpired
	}

	val, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), val, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if session.IsExpiredAt(s.now()) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Ping checks connectivity to Redis
func (s *RedisSessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisSessionStore) key(id string) string {
	return s.keyPrefix + id
}
