package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretBytes is the recommended minimum HMAC secret length.
const MinSecretBytes = 32

var (
	ErrMalformed        = errors.New("jwtx: malformed token")
	ErrInvalidSignature = errors.New("jwtx: invalid signature")
	ErrExpired          = errors.New("jwtx: token expired")
	ErrNotYetValid      = errors.New("jwtx: token not yet valid")

	ErrMissingSecret = errors.New("jwtx: signing secret is empty")
	ErrInvalidTTL    = errors.New("jwtx: ttl must be positive")
)

// IsTokenError reports whether err came from a token failing verification,
// as opposed to a configuration problem.
func IsTokenError(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrInvalidSignature) ||
		errors.Is(err, ErrExpired) ||
		errors.Is(err, ErrNotYetValid)
}

// Codec signs and verifies HS256 tokens with a single secret and lifetime.
// It is immutable after construction and safe for concurrent use.
type Codec struct {
	secret []byte
	ttl    time.Duration
	issuer string
	leeway time.Duration
	now    func() time.Time
}

type CodecOption func(*Codec)

// WithIssuer stamps tokens with iss and requires it when decoding.
func WithIssuer(issuer string) CodecOption {
	return func(c *Codec) { c.issuer = issuer }
}

// WithLeeway tolerates clock skew when checking exp and nbf.
func WithLeeway(d time.Duration) CodecOption {
	return func(c *Codec) { c.leeway = d }
}

// WithClock overrides the time source, mostly useful in tests.
func WithClock(now func() time.Time) CodecOption {
	return func(c *Codec) { c.now = now }
}

// NewCodec returns a Codec for secret. The secret is copied.
func NewCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) TTL() time.Duration { return c.ttl }

// Encode signs id into a token expiring after the codec TTL.
func (c *Codec) Encode(id Identity) (string, error) {
	if c == nil {
		return "", ErrMissingSecret
	}

	claims := NewClaims(id, c.issuer, c.ttl, c.now().UTC())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Decode verifies the token and returns the identity it carries.
func (c *Codec) Decode(raw string) (Identity, error) {
	claims, err := c.DecodeClaims(raw)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

// DecodeClaims verifies the token and returns its full claim set.
func (c *Codec) DecodeClaims(raw string) (*Claims, error) {
	if c == nil {
		return nil, ErrMissingSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.leeway),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	claims := &Claims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if !token.Valid {
		return nil, ErrMalformed
	}

	// A verified token without an identity was not minted by us.
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing identity", ErrMalformed)
	}

	return claims, nil
}

// classify folds golang-jwt errors into our smaller taxonomy. Signature
// problems win over claim problems because the library checks them first.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return fmt.Errorf("%w: %v", ErrNotYetValid, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}

// Encode signs id with secret for ttl.
func Encode(id Identity, secret []byte, ttl time.Duration) (string, error) {
	c, err := NewCodec(secret, ttl)
	if err != nil {
		return "", err
	}
	return c.Encode(id)
}

// Decode verifies token against secret and returns the embedded identity.
func Decode(token string, secret []byte) (Identity, error) {
	if len(secret) == 0 {
		return Identity{}, ErrMissingSecret
	}
	c := &Codec{secret: secret, now: time.Now}
	return c.Decode(token)
}
