package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKeyType string

const claimsKey contextKeyType = "claims"

// AccessTokenCookie is the cookie the identity middleware reads the access
// token from.
const AccessTokenCookie = "accessToken"

// Claims represents the verified identity attached to a request.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// TokenVerifier validates an access token and returns the identity claims.
// It must return an error for every invalid token; the middleware treats all
// failures the same way.
type TokenVerifier func(token string) (*Claims, error)

// Identity returns middleware that extracts the access token from the request
// (accessToken cookie, falling back to an Authorization bearer header),
// verifies it, and attaches the decoded claims to the request context.
//
// It never rejects the request: on a missing or invalid token the context is
// simply left without claims and the pipeline continues. Protected routes gate
// on RequireIdentity, which lets public and protected routes share one stack.
func Identity(verify TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := accessTokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verify(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireIdentity rejects requests whose context carries no verified claims.
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ClaimsFromContext(r.Context()) == nil {
			writeAuthError(w, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClaimsFromContext extracts the verified claims from the request context.
// Returns nil if the request carried no valid access token.
func ClaimsFromContext(ctx context.Context) *Claims {
	if claims, ok := ctx.Value(claimsKey).(*Claims); ok {
		return claims
	}
	return nil
}

// UserIDFromContext extracts the authenticated user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if claims := ClaimsFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return ""
}

// WithClaims returns a context carrying the given claims. Intended for tests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func accessTokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(AccessTokenCookie); err == nil && c.Value != "" {
		return c.Value
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":    "UNAUTHORIZED",
		"message": message,
	})
}
