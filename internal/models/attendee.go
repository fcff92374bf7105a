package models

import "time"

// Attendee roles offered by the registration form. The server accepts any
// non-empty role; this list only drives the form's choices.
var AttendeeRoles = []string{"Member", "Leader", "Guest", "First-timer", "Volunteer"}

// Attendee is one registration submission.
type Attendee struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Group           *string   `json:"group,omitempty"` // nil when the form omitted the field
	Timestamp       time.Time `json:"timestamp"`
	AccessTokenUsed string    `json:"access_token_used"`
}

// GroupName returns the group or "" when absent.
func (a Attendee) GroupName() string {
	if a.Group == nil {
		return ""
	}
	return *a.Group
}
