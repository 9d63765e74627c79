package http

import (
	"net/http"
	"time"

	"github.com/sheking94/not-todo-api/pkg/middleware"
)

// RefreshTokenCookie is the cookie carrying the refresh token. The access
// token cookie name lives in pkg/middleware, which reads it on every request.
const RefreshTokenCookie = "refreshToken"

// CookieSettings controls the scope attributes of the token cookies.
type CookieSettings struct {
	Domain string
	Path   string
	Secure bool
}

// setTokenCookie writes a token cookie whose max-age is derived from the
// token's actual expiry. Deriving instead of configuring separately keeps the
// cookie lifetime from drifting away from the signed expiry inside the token.
func setTokenCookie(w http.ResponseWriter, cfg CookieSettings, name, value string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Domain:   cfg.Domain,
		Path:     cfg.Path,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearTokenCookie(w http.ResponseWriter, cfg CookieSettings, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Domain:   cfg.Domain,
		Path:     cfg.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookies(w http.ResponseWriter, cfg CookieSettings) {
	clearTokenCookie(w, cfg, middleware.AccessTokenCookie)
	clearTokenCookie(w, cfg, RefreshTokenCookie)
}
