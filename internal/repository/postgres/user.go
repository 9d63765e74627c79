package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/repository"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

type userRepository struct {
	db DB
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(db DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.Wrap(err, "create user")
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, id), fmt.Sprintf("get user %s", id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT id, email, name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanUser(r.db.QueryRow(ctx, query, email), "get user by email")
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return apperrors.Wrap(err, "update user password")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("user", id)
	}
	return nil
}

func (r *userRepository) scanUser(row pgx.Row, op string) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, op)
	}
	return &u, nil
}
