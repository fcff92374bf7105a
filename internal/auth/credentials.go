package auth

import "errors"

// ErrInvalidCredentials is returned for any username/password mismatch.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Credentials is the single configured admin account.
type Credentials struct {
	Username string
	Password string
}

// Check compares the submitted values with the configured ones in cleartext.
// Nothing is hashed and the comparison is not constant-time; see DESIGN.md.
// The error never says which field was wrong.
func (cr Credentials) Check(username, password string) error {
	if username == "" || password == "" {
		return ErrInvalidCredentials
	}
	if username != cr.Username || password != cr.Password {
		return ErrInvalidCredentials
	}
	return nil
}
