package service

import "errors"

var (
	ErrInvalidRequest     = errors.New("invalid_request")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrMissingToken       = errors.New("missing_token")

	// ErrConfiguration means a secret or codec is missing. Config.Validate
	// catches this at startup, so at request time it is a server bug.
	ErrConfiguration = errors.New("configuration_error")

	// ErrUnavailable means the user store did not answer in time.
	ErrUnavailable = errors.New("unavailable")
)
