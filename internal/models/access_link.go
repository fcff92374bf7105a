package models

import "time"

// AccessLink is a token-bearing link gating the public registration form.
// At most one link is active at a time.
type AccessLink struct {
	ID        int64     `json:"id"`
	Token     string    `json:"token"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ShortToken returns the token prefix shown in admin messages.
func (l AccessLink) ShortToken() string {
	if len(l.Token) <= 8 {
		return l.Token
	}
	return l.Token[:8]
}
