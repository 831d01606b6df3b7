package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/authgate/internal/domain"
)

var userColumns = []string{"id", "email", "password_hash", "created_at"}

func TestPostgresUserRepository_Create(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		setupMock func(mock pgxmock.PgxPoolIface)
		wantErr   error
		errMsg    string
	}{
		{
			name: "successful insert lower-cases email",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u-1", "user@test.com", "hash", createdAt).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "unique violation maps to duplicate",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u-1", "user@test.com", "hash", createdAt).
					WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			wantErr: ErrDuplicateUser,
		},
		{
			name: "other errors are wrapped",
			setupMock: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("u-1", "user@test.com", "hash", createdAt).
					WillReturnError(errors.New("connection refused"))
			},
			errMsg: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()
			tt.setupMock(mock)

			repo := NewPostgresUserRepository(mock)
			err = repo.Create(context.Background(), &domain.User{
				ID:           "u-1",
				Email:        "User@Test.com",
				PasswordHash: "hash",
				CreatedAt:    createdAt,
			})

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.errMsg != "":
				require.Error(t, err)
				assert.NotErrorIs(t, err, ErrDuplicateUser)
				assert.Contains(t, err.Error(), tt.errMsg)
			default:
				require.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresUserRepository_GetByEmail(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("User@Test.com").
			WillReturnRows(pgxmock.NewRows(userColumns).AddRow("u-1", "user@test.com", "hash", createdAt))

		got, err := NewPostgresUserRepository(mock).GetByEmail(context.Background(), "User@Test.com")
		require.NoError(t, err)
		assert.Equal(t, &domain.User{ID: "u-1", Email: "user@test.com", PasswordHash: "hash", CreatedAt: createdAt}, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT id, email, password_hash, created_at`).
			WithArgs("ghost@test.com").
			WillReturnError(pgx.ErrNoRows)

		_, err = NewPostgresUserRepository(mock).GetByEmail(context.Background(), "ghost@test.com")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresUserRepository_ListAndDeleteAll(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`FROM users ORDER BY created_at, email`).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow("u-1", "a@test.com", "h1", createdAt).
			AddRow("u-2", "b@test.com", "h2", createdAt.Add(time.Second)))
	mock.ExpectExec(`DELETE FROM users`).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	repo := NewPostgresUserRepository(mock)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a@test.com", list[0].Email)
	assert.Equal(t, "b@test.com", list[1].Email)

	require.NoError(t, repo.DeleteAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
