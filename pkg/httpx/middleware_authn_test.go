package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/forum/pkg/httpx"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

var accessSecret = []byte("access-secret-0123456789abcdef0123")

func newCodec(t *testing.T, opts ...jwtx.CodecOption) *jwtx.Codec {
	t.Helper()
	c, err := jwtx.NewCodec(accessSecret, time.Minute, opts...)
	require.NoError(t, err)
	return c
}

// captureHandler records the identity seen by the protected handler.
type captureHandler struct {
	called bool
	id     jwtx.Identity
	ok     bool
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.id, h.ok = httpx.IdentityFromContext(r.Context())
	w.WriteHeader(http.StatusOK)
}

func TestAuthnMiddlewarePassesIdentity(t *testing.T) {
	codec := newCodec(t)
	id := jwtx.Identity{ID: "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", Username: "alice", Email: "alice@example.com"}
	token, err := codec.Encode(id)
	require.NoError(t, err)

	h := &captureHandler{}
	srv := httpx.Chain(h, httpx.AuthnMiddleware(codec))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, h.called)
	require.True(t, h.ok)
	require.Equal(t, id, h.id)
}

func TestAuthnMiddlewareRejects(t *testing.T) {
	codec := newCodec(t)
	expired, err := newCodec(t, jwtx.WithClock(func() time.Time { return time.Now().Add(-time.Hour) })).
		Encode(jwtx.Identity{ID: "1", Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	foreign, err := jwtx.Encode(jwtx.Identity{ID: "1"}, []byte("some-other-secret"), time.Minute)
	require.NoError(t, err)

	const (
		bare    = "Bearer"
		invalid = `Bearer error="invalid_token", error_description="The token is invalid or expired."`
	)

	tests := []struct {
		name      string
		header    string
		status    int
		code      string
		challenge string
	}{
		{"no header", "", http.StatusUnauthorized, "missing_token", bare},
		{"wrong scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, "missing_token", bare},
		{"scheme only", "Bearer", http.StatusUnauthorized, "missing_token", bare},
		{"scheme with blank token", "Bearer    ", http.StatusUnauthorized, "missing_token", bare},
		{"extra segments", "Bearer a b", http.StatusUnauthorized, "missing_token", bare},
		{"garbage token", "Bearer garbage", http.StatusForbidden, "forbidden", invalid},
		{"expired token", "Bearer " + expired, http.StatusForbidden, "forbidden", invalid},
		{"foreign secret", "Bearer " + foreign, http.StatusForbidden, "forbidden", invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &captureHandler{}
			srv := httpx.Chain(h, httpx.AuthnMiddleware(codec))

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)

			require.Equal(t, tt.status, rec.Code)
			require.False(t, h.called, "handler must not run")
			require.Equal(t, tt.challenge, rec.Header().Get("WWW-Authenticate"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			require.Equal(t, tt.code, body["error"])
			require.NotEmpty(t, body["message"])
		})
	}
}

func TestAuthnMiddlewareObserver(t *testing.T) {
	codec := newCodec(t)
	token, err := codec.Encode(jwtx.Identity{ID: "1"})
	require.NoError(t, err)

	var outcomes []string
	mw := httpx.AuthnMiddleware(codec, httpx.WithAuthnObserver(func(o string) {
		outcomes = append(outcomes, o)
	}))
	srv := httpx.Chain(&captureHandler{}, mw)

	for _, header := range []string{"Bearer " + token, "", "Bearer garbage"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		srv.ServeHTTP(httptest.NewRecorder(), req)
	}

	require.Equal(t, []string{httpx.AuthnOK, httpx.AuthnMissing, httpx.AuthnRejected}, outcomes)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer abc.def.ghi")

	token, ok := httpx.BearerToken(req)
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", token)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"first", "second", "handler"}, order)
}
