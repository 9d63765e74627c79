// Package repository defines the persistence contracts consumed by the
// service layer. Implementations live in subpackages.
package repository

import (
	"context"

	"github.com/sheking94/not-todo-api/internal/domain"
)

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionRepository persists session records, the server-side half of every
// refresh token.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Invalidate(ctx context.Context, id string) error
	InvalidateByUserID(ctx context.Context, userID string) error
}

// TodoRepository persists todos. Ownership checks happen in the service
// layer, so lookups here are by primary key only.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetByID(ctx context.Context, id string) (*domain.Todo, error)
	ListByUserID(ctx context.Context, userID string) ([]*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id string) error
}
