package http

import (
	"context"
	"sort"
	"sync"

	"github.com/sheking94/not-todo-api/internal/domain"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

// In-memory repository fakes backing the handler tests. They mirror the
// store contracts closely enough to drive the full request pipeline without
// a database.

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User)}
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return apperrors.ErrAlreadyExists
		}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: make(map[string]*domain.Session)}
}

func (r *memorySessionRepo) Create(_ context.Context, session *domain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *session
	r.sessions[session.ID] = &cp
	return nil
}

func (r *memorySessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memorySessionRepo) Invalidate(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	s.Valid = false
	return nil
}

func (r *memorySessionRepo) InvalidateByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		if s.UserID == userID {
			s.Valid = false
		}
	}
	return nil
}

type memoryTodoRepo struct {
	mu    sync.Mutex
	todos map[string]*domain.Todo
}

func newMemoryTodoRepo() *memoryTodoRepo {
	return &memoryTodoRepo{todos: make(map[string]*domain.Todo)}
}

func (r *memoryTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *todo
	r.todos[todo.ID] = &cp
	return nil
}

func (r *memoryTodoRepo) GetByID(_ context.Context, id string) (*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memoryTodoRepo) ListByUserID(_ context.Context, userID string) ([]*domain.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Todo, 0)
	for _, t := range r.todos {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[todo.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *todo
	r.todos[todo.ID] = &cp
	return nil
}

func (r *memoryTodoRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.todos, id)
	return nil
}
