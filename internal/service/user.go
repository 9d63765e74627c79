package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/event"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

const bcryptCost = 12

// RegisterInput holds the fields needed to create an account. Field-level
// validation (email format, password length, confirmation match) happens at
// the transport boundary before this is called.
type RegisterInput struct {
	Email    string
	Name     string
	Password string
}

// Register creates a new account with a hashed password. A duplicate email
// surfaces as a conflict.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        normalizeEmail(input.Email),
		Name:         input.Name,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.Conflict(MsgEmailTaken)
		}
		return nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)
	s.events.UserRegistered(ctx, event.UserRegisteredPayload{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})

	return user, nil
}

// GetUser returns the user with the given ID.
func (s *Service) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("user", id)
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

// ChangePassword verifies the current password, stores a hash of the new one,
// and revokes every session belonging to the user. Hashing happens here and
// nowhere else, so a password row can only ever hold a hash.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", userID)
		}
		return apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return apperrors.Unauthorized(MsgInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return apperrors.Internal(err)
	}

	// A password change ends every active session; clients must log in again.
	if err := s.sessions.InvalidateByUserID(ctx, userID); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", userID))
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
