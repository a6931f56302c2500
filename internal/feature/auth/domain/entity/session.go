package entity

import "time"

// SessionUser is the authenticated session payload: a snapshot of a User
// taken at login, without the password digest. It is not re-validated
// against the users table afterwards.
type SessionUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	CPU      int    `json:"cpu"`
	RAM      int    `json:"ram"`
	Disk     int    `json:"disk"`
	Time     string `json:"time"`
}

// Session maps an opaque identifier to a SessionUser.
type Session struct {
	ID        string      `json:"id"`         // Opaque identifier carried by the session cookie
	User      SessionUser `json:"user"`       // Snapshot taken at login
	CreatedAt time.Time   `json:"created_at"` // Session creation time
	ExpiresAt time.Time   `json:"expires_at"` // Zero means the session never expires
}

// IsExpired returns true if the session has an expiry and has passed it.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}
