package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access tokens are deliberately very short lived, the
// client is expected to hit the refresh endpoint whenever one expires.
const (
	DefaultAccessTokenTTL  = 20 * time.Second
	DefaultRefreshTokenTTL = 10 * time.Minute
)

// Identity is the minimal user projection carried inside every token.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// IsZero reports whether no identity field is set.
func (i Identity) IsZero() bool {
	return i == Identity{}
}

// Claims is the signed payload of both access and refresh tokens. The
// identity fields sit at the top level of the payload so tokens stay
// readable by the front-end.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewClaims builds claims for id valid from now until now+ttl.
func NewClaims(id Identity, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UserID:   id.ID,
		Username: id.Username,
		Email:    id.Email,
	}
}

// Identity returns the identity embedded in the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		ID:       c.UserID,
		Username: c.Username,
		Email:    c.Email,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim. Nothing
// consumes it yet, it exists so a revocation set can be keyed on it later.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
