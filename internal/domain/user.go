package domain

import "time"

// User is an account that can hold bookings
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Never serialize password
	CreatedAt    time.Time `json:"created_at"`
}

// Session is the authenticated caller, passed explicitly to every
// operation that needs a current user
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// IsAuthenticated reports whether the session identifies a user
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// Claims represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}
