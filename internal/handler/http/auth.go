package http

import (
	"net/http"

	"github.com/sheking94/not-todo-api/pkg/middleware"
	"github.com/sheking94/not-todo-api/pkg/validator"
)

type createSessionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateSession handles POST /api/v1/sessions. On success both token cookies
// are set and the response body is a confirmation message only; the tokens
// themselves travel exclusively in the cookies.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	_, tokens, err := h.svc.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, h.cookies, middleware.AccessTokenCookie, tokens.AccessToken, tokens.AccessExpiresAt)
	setTokenCookie(w, h.cookies, RefreshTokenCookie, tokens.RefreshToken, tokens.RefreshExpiresAt)

	writeMessage(w, http.StatusCreated, "Session created successfully.")
}

// RefreshSession handles POST /api/v1/sessions/refresh. The refresh token is
// read from its cookie; a missing cookie fails the same way as an invalid
// token.
func (h *Handler) RefreshSession(w http.ResponseWriter, r *http.Request) {
	refreshToken := cookieValue(r, RefreshTokenCookie)

	accessToken, expiresAt, err := h.svc.RefreshAccessToken(r.Context(), refreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	setTokenCookie(w, h.cookies, middleware.AccessTokenCookie, accessToken, expiresAt)

	writeMessage(w, http.StatusOK, "Access token refreshed successfully.")
}

// DeleteSession handles DELETE /api/v1/sessions/logout. Both cookies are
// cleared regardless of which revocation path was taken server-side.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	refreshToken := cookieValue(r, RefreshTokenCookie)

	if err := h.svc.Logout(r.Context(), refreshToken); err != nil {
		writeError(w, err)
		return
	}

	clearSessionCookies(w, h.cookies)

	writeMessage(w, http.StatusOK, "Successfully logged out.")
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
