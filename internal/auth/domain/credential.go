package domain

import "strings"

// Credential is the transient email and password pair of a login attempt.
type Credential struct {
	Email    string
	Password string
}

// Registration is a request to create an account.
type Registration struct {
	Email    string
	Username string
	Password string
}

// NormalizeEmail trims and lower-cases an email so lookups are
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
