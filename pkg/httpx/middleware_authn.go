package httpx

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
)

// Outcomes reported to an AuthnObserver.
const (
	AuthnOK       = "ok"
	AuthnMissing  = "missing"
	AuthnRejected = "rejected"
)

// IdentityDecoder verifies an access token. *jwtx.Codec satisfies it.
type IdentityDecoder interface {
	Decode(token string) (jwtx.Identity, error)
}

// AuthnObserver is told the outcome of every authentication attempt.
type AuthnObserver func(outcome string)

type authnOptions struct {
	observe AuthnObserver
}

type AuthnOption func(*authnOptions)

func WithAuthnObserver(fn AuthnObserver) AuthnOption {
	return func(o *authnOptions) { o.observe = fn }
}

// AuthnMiddleware requires an "Authorization: Bearer <token>" header. A
// missing or malformed header is answered with 401, a token that fails
// verification with 403. On success the decoded identity is attached to the
// request context and the request continues.
func AuthnMiddleware(d IdentityDecoder, opts ...AuthnOption) Middleware {
	o := authnOptions{observe: func(string) {}}
	for _, opt := range opts {
		opt(&o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				o.observe(AuthnMissing)
				writeBearerError(w, http.StatusUnauthorized, "Bearer", "missing_token", "The token is missing.")
				return
			}

			id, err := d.Decode(raw)
			if err != nil {
				o.observe(AuthnRejected)
				log.Warn("access token rejected", "err", err)
				writeBearerError(w, http.StatusForbidden,
					`Bearer error="invalid_token", error_description="The token is invalid or expired."`,
					"forbidden", "The token is invalid or expired.")
				return
			}

			o.observe(AuthnOK)
			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, id)))
		})
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, found := strings.Cut(authz, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// RFC 6750 section 3.1: a request without credentials gets a bare challenge,
// only a presented token that fails earns error="invalid_token". The body
// uses the same shape as every other API error.
func writeBearerError(w http.ResponseWriter, status int, challenge, code, message string) {
	w.Header().Set("WWW-Authenticate", challenge)
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   code,
		"message": message,
	})
}
