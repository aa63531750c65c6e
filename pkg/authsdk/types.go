package authsdk

import "github.com/aussiebroadwan/forum/pkg/jwtx"

// ============================================================================
// Request Types
// ============================================================================

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ============================================================================
// Response Types
// ============================================================================

// TokenType is the only token type issued by the service.
const TokenType = "Bearer"

// TokenResponse is returned by login, register and refresh. The refresh
// token is also set as the refresh_token cookie.
type TokenResponse struct {
	Message string `json:"message,omitempty"`

	// AccessToken is sent as "Authorization: Bearer <token>" on protected routes.
	AccessToken string `json:"accessToken"`

	RefreshToken string `json:"refreshToken"`

	// TokenType is always "Bearer".
	TokenType string `json:"tokenType"`

	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int `json:"expiresIn"`
}

// MessageResponse is returned by the logout endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// MeResponse is returned by GET /api/users/me.
type MeResponse struct {
	User jwtx.Identity `json:"user"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz. Only /readyz fills Checks.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the state of each dependency checked by /readyz.
type HealthChecks struct {
	Database string `json:"database"`
	Tokens   string `json:"tokens"`
}
