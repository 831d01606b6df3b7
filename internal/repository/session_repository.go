package repository

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/spec-kit/authgate/internal/domain"
)

// SessionRepository persists login sessions for the stored-session strategy.
// Get returns (nil, nil) when the id is unknown.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// MemorySessionRepository keeps sessions in process memory.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemorySessionRepository constructs an empty repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: make(map[string]domain.Session)}
}

func (r *MemorySessionRepository) Create(_ context.Context, session domain.Session) error {
	if session.ID == "" || session.UserID == "" {
		return errors.New("session: missing id or user id")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

func (r *MemorySessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// PurgeExpired drops every session expired at now and returns how many were removed.
func (r *MemorySessionRepository) PurgeExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions.
func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

type redisSessionRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionRepository creates a Redis-backed session repository.
// Keys expire with the session.
func NewRedisSessionRepository(client *redis.Client) SessionRepository {
	return &redisSessionRepository{client: client, prefix: "session:"}
}

func (r *redisSessionRepository) key(id string) string {
	return r.prefix + id
}

func (r *redisSessionRepository) Create(ctx context.Context, session domain.Session) error {
	if session.ID == "" || session.UserID == "" {
		return errors.New("session: missing id or user id")
	}

	ttl := time.Until(session.ExpiresAt)
	if !session.CreatedAt.IsZero() {
		ttl = session.ExpiresAt.Sub(session.CreatedAt)
	}
	if ttl <= 0 {
		return errors.New("session: expires_at must be after created_at")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return oops.In("session_repository").With("operation", "marshal session").Wrap(err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return oops.In("session_repository").With("operation", "store session").Wrap(err)
	}
	return nil
}

func (r *redisSessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	val, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("session_repository").With("operation", "load session").Wrap(err)
	}

	var session domain.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, oops.In("session_repository").With("operation", "unmarshal session").Wrap(err)
	}
	return &session, nil
}

func (r *redisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return oops.In("session_repository").With("operation", "delete session").Wrap(err)
	}
	return nil
}
