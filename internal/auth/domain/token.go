package domain

import "time"

// TokenPair is what login, registration and refresh hand back. Both tokens
// carry the same identity, signed with different secrets.
type TokenPair struct {
	AccessToken  string
	RefreshToken string

	// ExpiresIn is the access token lifetime.
	ExpiresIn time.Duration

	// RefreshExpiresIn is the refresh token lifetime and the cookie Max-Age.
	RefreshExpiresIn time.Duration
}
