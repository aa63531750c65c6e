package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Paths served by the session service.
const (
	PathLogin        = "/api/auth/login"
	PathRegister     = "/api/auth/register"
	PathLogout       = "/api/auth/logout"
	PathRefreshToken = "/api/auth/refresh_token"
	PathMe           = "/api/users/me"
	PathLivez        = "/livez"
	PathReadyz       = "/readyz"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refresh_token"

// SDKClient is a client for the forum session service. Its HTTP client
// carries a cookie jar so the refresh_token cookie round-trips like it
// would in a browser. Sessions do not use the jar: each one refreshes with
// its own refresh token, so several sessions can share a client.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client

	// RefreshBuffer is how long before expiry a Session refreshes its
	// access token. Default: 2s.
	RefreshBuffer time.Duration
}

// NewSDKClient creates a client with its own cookie jar.
func NewSDKClient(baseURL string) *SDKClient {
	jar, _ := cookiejar.New(nil)
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
		},
		RefreshBuffer: 2 * time.Second,
	}
}

// Login authenticates with email and password and starts a Session.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	tokenResp, err := c.postTokens(ctx, PathLogin, req)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// Register creates an account and starts a Session for it.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	tokenResp, err := c.postTokens(ctx, PathRegister, req)
	if err != nil {
		return nil, err
	}
	return newSession(c, tokenResp), nil
}

// Refresh exchanges the refresh_token cookie held in the jar for a new pair.
func (c *SDKClient) Refresh(ctx context.Context) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, PathRefreshToken, nil, nil)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// RefreshWith exchanges refreshToken for a new pair. The token is sent as
// the refresh_token cookie and the jar is neither read nor updated.
func (c *SDKClient) RefreshWith(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(PathRefreshToken), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: RefreshCookieName, Value: refreshToken})

	hc := *c.HTTPClient
	hc.Jar = nil
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// DeleteRefreshToken asks the server to clear the refresh_token cookie.
func (c *SDKClient) DeleteRefreshToken(ctx context.Context) (*MessageResponse, error) {
	return c.message(ctx, http.MethodDelete, PathRefreshToken)
}

// Logout asks the server to clear the refresh_token cookie.
func (c *SDKClient) Logout(ctx context.Context) (*MessageResponse, error) {
	return c.message(ctx, http.MethodPost, PathLogout)
}

// Me returns the identity carried by accessToken.
func (c *SDKClient) Me(ctx context.Context, accessToken string) (*MeResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, PathMe, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var me MeResponse
	if err := decodeJSON(resp, &me, http.StatusOK); err != nil {
		return nil, err
	}
	return &me, nil
}

// GetLiveness checks if the service is alive.
func (c *SDKClient) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, PathLivez)
}

// GetReadiness checks if the service is ready.
func (c *SDKClient) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, PathReadyz)
}

func (c *SDKClient) postTokens(ctx context.Context, path string, body any) (*TokenResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, body, nil)
	if err != nil {
		return nil, err
	}

	var tokenResp TokenResponse
	if err := decodeJSON(resp, &tokenResp, http.StatusOK); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

func (c *SDKClient) message(ctx context.Context, method, path string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, method, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var msg MessageResponse
	if err := decodeJSON(resp, &msg, http.StatusOK); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (c *SDKClient) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
