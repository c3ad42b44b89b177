package model

import "time"

// Session is the server-side record of an issued token.
// The row is the authoritative revocation source: deleting it revokes the
// token even while its own signature is still valid. Multiple concurrent
// sessions per user are allowed.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session is past its expiry.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
