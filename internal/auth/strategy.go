package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/samber/oops"
	"go.uber.org/zap"

	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/repository"
)

// SessionStrategy issues session tokens and resolves them back to an identity.
// Resolve returns (nil, nil) when the token does not authenticate anyone.
type SessionStrategy interface {
	Name() string
	TTL() time.Duration
	Issue(ctx context.Context, user domain.PublicUser, now time.Time) (string, time.Time, error)
	Resolve(ctx context.Context, token string, now time.Time) (*domain.Identity, error)
}

// TokenStrategy carries the identity inside a signed JWT. Nothing is stored server side.
type TokenStrategy struct {
	tokens *TokenManager
}

// NewTokenStrategy wraps a TokenManager.
func NewTokenStrategy(tokens *TokenManager) *TokenStrategy {
	return &TokenStrategy{tokens: tokens}
}

func (s *TokenStrategy) Name() string { return "token" }

func (s *TokenStrategy) TTL() time.Duration { return s.tokens.TTL() }

func (s *TokenStrategy) Issue(_ context.Context, user domain.PublicUser, now time.Time) (string, time.Time, error) {
	return s.tokens.GenerateToken(user, now)
}

// Resolve treats any parse or validation failure as unauthenticated.
func (s *TokenStrategy) Resolve(_ context.Context, token string, now time.Time) (*domain.Identity, error) {
	claims, err := s.tokens.ParseToken(token, now)
	if err != nil {
		return nil, nil
	}
	return &domain.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

const sessionIDBytes = 32

// StoredSessionStrategy issues opaque random ids bound to server-side session records.
type StoredSessionStrategy struct {
	sessions repository.SessionRepository
	ttl      time.Duration
	logger   *zap.Logger
}

// NewStoredSessionStrategy builds a strategy over the given repository.
func NewStoredSessionStrategy(sessions repository.SessionRepository, ttl time.Duration, logger *zap.Logger) *StoredSessionStrategy {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoredSessionStrategy{sessions: sessions, ttl: ttl, logger: logger}
}

func (s *StoredSessionStrategy) Name() string { return "stored" }

func (s *StoredSessionStrategy) TTL() time.Duration { return s.ttl }

func (s *StoredSessionStrategy) Issue(ctx context.Context, user domain.PublicUser, now time.Time) (string, time.Time, error) {
	id, err := newSessionID()
	if err != nil {
		return "", time.Time{}, err
	}
	session := domain.Session{
		ID:        id,
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	return id, session.ExpiresAt, nil
}

func (s *StoredSessionStrategy) Resolve(ctx context.Context, token string, now time.Time) (*domain.Identity, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(now) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to delete expired session", zap.Error(err))
		}
		return nil, nil
	}
	identity := session.Identity()
	return &identity, nil
}

func newSessionID() (string, error) {
	buf := make([]byte, sessionIDBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", oops.In("session").With("operation", "generate id").Wrap(err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
