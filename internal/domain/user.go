package domain

import "time"

// User represents a registered account. PasswordHash is the bcrypt hash of
// the user's password and never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair carries the two signed tokens issued at login together with their
// expiry instants. Expiry is returned so callers can derive cookie lifetimes
// from the tokens themselves instead of re-reading configuration.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}
