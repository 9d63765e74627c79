package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sheking94/not-todo-api/internal/domain"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

// CreateTodo creates a todo owned by the given user.
func (s *Service) CreateTodo(ctx context.Context, userID, description string) (*domain.Todo, error) {
	now := time.Now()
	todo := &domain.Todo{
		ID:          uuid.New().String(),
		UserID:      userID,
		Description: description,
		Done:        false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, apperrors.Internal(err)
	}
	return todo, nil
}

// ListTodos returns all todos owned by the given user, newest first.
func (s *Service) ListTodos(ctx context.Context, userID string) ([]*domain.Todo, error) {
	todos, err := s.todos.ListByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return todos, nil
}

// GetTodo returns a single todo if the given user owns it.
func (s *Service) GetTodo(ctx context.Context, userID, todoID string) (*domain.Todo, error) {
	return s.ownedTodo(ctx, userID, todoID)
}

// UpdateTodo replaces the description and done flag of a todo the given user
// owns.
func (s *Service) UpdateTodo(ctx context.Context, userID, todoID, description string, done bool) (*domain.Todo, error) {
	todo, err := s.ownedTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Description = description
	todo.Done = done
	todo.UpdatedAt = time.Now()

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, apperrors.Internal(err)
	}
	return todo, nil
}

// DeleteTodo removes a todo the given user owns.
func (s *Service) DeleteTodo(ctx context.Context, userID, todoID string) error {
	todo, err := s.ownedTodo(ctx, userID, todoID)
	if err != nil {
		return err
	}

	if err := s.todos.Delete(ctx, todo.ID); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ownedTodo loads a todo and enforces ownership. A todo owned by someone else
// yields Forbidden, not NotFound: the caller is authenticated, just not the
// owner, and that distinction is part of the API contract.
func (s *Service) ownedTodo(ctx context.Context, userID, todoID string) (*domain.Todo, error) {
	todo, err := s.todos.GetByID(ctx, todoID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("todo", todoID)
		}
		return nil, apperrors.Internal(err)
	}
	if todo.UserID != userID {
		return nil, apperrors.Forbidden(MsgNotOwner)
	}
	return todo, nil
}
