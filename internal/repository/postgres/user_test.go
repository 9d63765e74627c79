package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheking94/not-todo-api/internal/domain"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })
	return mock
}

func TestUserRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	user := &domain.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		Name:         "Jane Doe",
		PasswordHash: "hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), user))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryCreateDuplicateEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := repo.Create(context.Background(), &domain.User{ID: "user-1"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUserRepositoryGetByEmail(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}).
		AddRow("user-1", "jane@example.com", "Jane Doe", "hash", now, now)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("jane@example.com").
		WillReturnRows(rows)

	user, err := repo.GetByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "hash", user.PasswordHash)
}

func TestUserRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "name", "password_hash", "created_at", "updated_at"}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUserRepositoryUpdatePassword(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-1", "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.UpdatePassword(context.Background(), "user-1", "newhash"))
}

func TestUserRepositoryUpdatePasswordMissingUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewUserRepository(mock)

	mock.ExpectExec("UPDATE users").
		WithArgs("missing", "newhash").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "missing", "newhash")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
