package domain

import "time"

// Todo is a task owned by exactly one user. Ownership is enforced at the
// service layer; repositories return records regardless of owner.
type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
