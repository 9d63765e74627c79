package domain

import "time"

// Session is the server-side record behind a refresh token. A refresh token
// only mints new access tokens while its session exists and is valid, which
// makes the record the single point of revocation.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Valid     bool      `json:"valid"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
