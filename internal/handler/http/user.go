package http

import (
	"net/http"
	"time"

	"github.com/sheking94/not-todo-api/internal/domain"
	"github.com/sheking94/not-todo-api/internal/service"
	"github.com/sheking94/not-todo-api/pkg/middleware"
	"github.com/sheking94/not-todo-api/pkg/validator"
)

type registerRequest struct {
	Email                string `json:"email" validate:"required,email"`
	Name                 string `json:"username" validate:"required,min=6,max=32"`
	Password             string `json:"password" validate:"required,min=6,max=32"`
	PasswordConfirmation string `json:"passwordConfirmation" validate:"required,eqfield=Password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// Register handles POST /api/v1/users.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, struct {
		Message string       `json:"message"`
		User    userResponse `json:"user"`
	}{
		Message: "User created successfully.",
		User:    toUserResponse(user),
	})
}

// Me handles GET /api/v1/users/me. It echoes the verified identity claims
// attached by the middleware; no store lookup is involved.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	writeJSON(w, http.StatusOK, struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}{
		UserID: claims.UserID,
		Email:  claims.Email,
	})
}

type changePasswordRequest struct {
	CurrentPassword         string `json:"currentPassword" validate:"required"`
	NewPassword             string `json:"newPassword" validate:"required,min=6,max=32"`
	NewPasswordConfirmation string `json:"newPasswordConfirmation" validate:"required,eqfield=NewPassword"`
}

// ChangePassword handles PUT /api/v1/users/me/password. Every session of the
// user is revoked on success, so the token cookies are cleared as well.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	clearSessionCookies(w, h.cookies)

	writeMessage(w, http.StatusOK, "Password updated successfully.")
}
