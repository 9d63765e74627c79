// Package service implements the application's business logic: account
// registration, the session lifecycle (login, refresh, logout), and
// ownership-scoped todo management.
package service

import (
	"log/slog"

	"github.com/sheking94/not-todo-api/internal/event"
	"github.com/sheking94/not-todo-api/internal/repository"
	"github.com/sheking94/not-todo-api/internal/token"
)

// Messages returned to clients. Authentication failures within one operation
// share a single generic message so a caller cannot probe which precondition
// failed.
const (
	MsgInvalidCredentials = "Invalid email or password."
	MsgRefreshFailed      = "Could not refresh access token."
	MsgLogoutFailed       = "Could not log out."
	MsgEmailTaken         = "Account with this email already exists."
	MsgNotOwner           = "You do not have access to this resource."
)

// Service carries the business logic for users, sessions, and todos.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	todos    repository.TodoRepository
	codec    *token.Codec
	events   *event.Producer
	logger   *slog.Logger
}

// New creates a Service. The event producer may be nil, in which case no
// events are published.
func New(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	todos repository.TodoRepository,
	codec *token.Codec,
	events *event.Producer,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		todos:    todos,
		codec:    codec,
		events:   events,
		logger:   logger,
	}
}
