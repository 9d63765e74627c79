package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/repository"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

type todoRepository struct {
	db DB
}

// NewTodoRepository creates a PostgreSQL-backed todo repository.
func NewTodoRepository(db DB) repository.TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, description, done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		todo.ID, todo.UserID, todo.Description, todo.Done, todo.CreatedAt, todo.UpdatedAt)
	if err != nil {
		return apperrors.Wrap(err, "create todo")
	}
	return nil
}

func (r *todoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	query := `
		SELECT id, user_id, description, done, created_at, updated_at
		FROM todos
		WHERE id = $1`

	var t domain.Todo
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.UserID, &t.Description, &t.Done, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "get todo")
	}
	return &t, nil
}

func (r *todoRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Todo, error) {
	query := `
		SELECT id, user_id, description, done, created_at, updated_at
		FROM todos
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperrors.Wrap(err, "list todos")
	}
	defer rows.Close()

	todos := make([]*domain.Todo, 0)
	for rows.Next() {
		var t domain.Todo
		if err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, apperrors.Wrap(err, "scan todo")
		}
		todos = append(todos, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate todos")
	}
	return todos, nil
}

func (r *todoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	query := `
		UPDATE todos
		SET description = $2, done = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, todo.ID, todo.Description, todo.Done)
	if err != nil {
		return apperrors.Wrap(err, "update todo")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("todo", todo.ID)
	}
	return nil
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM todos WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "delete todo")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFound("todo", id)
	}
	return nil
}
