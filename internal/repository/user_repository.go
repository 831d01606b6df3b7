package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/authgate/internal/domain"
)

var (
	// ErrDuplicateUser is returned by Create when the email is already taken.
	ErrDuplicateUser = errors.New("user already exists")
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = errors.New("not found")
)

// UserRepository defines persistence access for credential records.
// Emails are stored lower-cased; Create must be an atomic insert-if-absent.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	DeleteAll(ctx context.Context) error
}
