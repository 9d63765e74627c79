package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/repository"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

type sessionRepository struct {
	db DB
}

// NewSessionRepository creates a PostgreSQL-backed session repository.
func NewSessionRepository(db DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, valid, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		session.ID, session.UserID, session.Valid, session.UserAgent,
		session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "create session")
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `
		SELECT id, user_id, valid, user_agent, created_at, updated_at
		FROM sessions
		WHERE id = $1`

	var s domain.Session
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.UserID, &s.Valid, &s.UserAgent, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "get session")
	}
	return &s, nil
}

func (r *sessionRepository) Invalidate(ctx context.Context, id string) error {
	query := `
		UPDATE sessions
		SET valid = FALSE, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "invalidate session")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("session", id)
	}
	return nil
}

func (r *sessionRepository) InvalidateByUserID(ctx context.Context, userID string) error {
	query := `
		UPDATE sessions
		SET valid = FALSE, updated_at = NOW()
		WHERE user_id = $1 AND valid = TRUE`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return apperrors.Wrap(err, "invalidate user sessions")
	}
	return nil
}
