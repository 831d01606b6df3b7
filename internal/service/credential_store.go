package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/authgate/internal/auth"
	"github.com/spec-kit/authgate/internal/domain"
	"github.com/spec-kit/authgate/internal/repository"
)

// dummyPassword is hashed once and verified against when the email is unknown.
const dummyPassword = "authgate-dummy-password"

// CredentialStore registers users and verifies their credentials on top of a
// UserRepository. Passwords are kept only as bcrypt digests.
type CredentialStore struct {
	users      repository.UserRepository
	bcryptCost int
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// NewCredentialStore builds a store over users.
func NewCredentialStore(users repository.UserRepository, bcryptCost int) *CredentialStore {
	return &CredentialStore{users: users, bcryptCost: bcryptCost, now: time.Now}
}

// WithClock replaces the time source used for CreatedAt.
func (s *CredentialStore) WithClock(now func() time.Time) *CredentialStore {
	s.now = now
	return s
}

// Register stores a new user. It returns repository.ErrDuplicateUser when the
// email is already taken in any letter case.
func (s *CredentialStore) Register(ctx context.Context, email, password string) (domain.PublicUser, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return domain.PublicUser{}, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        strings.Clone(strings.ToLower(email)),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.PublicUser{}, err
	}
	return user.Public(), nil
}

// FindByCredentials returns the user whose email matches case-insensitively and
// whose password verifies. It returns (nil, nil) when nothing matches.
func (s *CredentialStore) FindByCredentials(ctx context.Context, email, password string) (*domain.PublicUser, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.burnComparison(password)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		if auth.IsMismatch(err) {
			return nil, nil
		}
		return nil, err
	}
	public := user.Public()
	return &public, nil
}

// ListAll returns every user without password digests, oldest first.
func (s *CredentialStore) ListAll(ctx context.Context) ([]domain.PublicUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		list = append(list, u.Public())
	}
	return list, nil
}

// Clear removes every user.
func (s *CredentialStore) Clear(ctx context.Context) error {
	return s.users.DeleteAll(ctx)
}

func (s *CredentialStore) burnComparison(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = auth.HashPassword(dummyPassword, s.bcryptCost)
	})
	if s.dummyErr == nil {
		_ = auth.ComparePassword(s.dummyHash, password)
	}
}
