package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/event"
	apperrors "github.com/sheking94/not-todo-api/pkg/errors"
)

// Login verifies the given credentials, creates a session record, and mints
// an access and a refresh token.
//
// An unknown email and a wrong password both fail with the same generic
// message so login cannot be used to enumerate accounts. The tokens are
// signed before the session record is persisted; if either signature fails,
// no session is created.
func (s *Service) Login(ctx context.Context, email, password, userAgent string) (*domain.Session, *domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.Unauthorized(MsgInvalidCredentials)
		}
		return nil, nil, apperrors.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, apperrors.Unauthorized(MsgInvalidCredentials)
	}

	now := time.Now()
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Valid:     true,
		UserAgent: userAgent,
		CreatedAt: now,
		UpdatedAt: now,
	}

	accessToken, accessExp, err := s.codec.SignAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}
	refreshToken, refreshExp, err := s.codec.SignRefreshToken(session.ID)
	if err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "session created",
		slog.String("session_id", session.ID),
		slog.String("user_id", user.ID),
	)
	s.events.SessionCreated(ctx, event.SessionPayload{SessionID: session.ID, UserID: user.ID})

	return session, &domain.TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// RefreshAccessToken mints a new access token for the session referenced by
// the given refresh token. The session is not rotated; refresh only remints
// the access token from an existing, still-valid session.
//
// A malformed token, a missing or invalidated session, and a missing user all
// collapse into the same generic failure.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", time.Time{}, apperrors.Unauthorized(MsgRefreshFailed)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil || !session.Valid {
		return "", time.Time{}, apperrors.Unauthorized(MsgRefreshFailed)
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return "", time.Time{}, apperrors.Unauthorized(MsgRefreshFailed)
	}

	accessToken, expiresAt, err := s.codec.SignAccessToken(user.ID, user.Email)
	if err != nil {
		return "", time.Time{}, apperrors.Internal(err)
	}
	return accessToken, expiresAt, nil
}

// Logout invalidates the session referenced by the given refresh token.
// Unlike refresh, logout distinguishes an invalid token from a missing
// session: the caller already holds a structurally valid token, so surfacing
// the session's absence leaks nothing.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.codec.VerifyRefreshToken(refreshToken)
	if err != nil {
		return apperrors.Unauthorized(MsgLogoutFailed)
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("session", claims.SessionID)
		}
		return apperrors.Internal(err)
	}
	// Sessions are invalidated rather than deleted, so a repeated logout finds
	// the row but must still report the session as gone.
	if !session.Valid {
		return apperrors.NotFound("session", claims.SessionID)
	}

	if err := s.sessions.Invalidate(ctx, session.ID); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "session revoked",
		slog.String("session_id", session.ID),
		slog.String("user_id", session.UserID),
	)
	s.events.SessionRevoked(ctx, event.SessionPayload{SessionID: session.ID, UserID: session.UserID})

	return nil
}
