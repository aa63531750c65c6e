package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/forum/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteJSON(rec, http.StatusCreated, map[string]string{"hello": "world"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"hello":"world"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	t.Run("valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")

		var b body
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Equal(t, "a@example.com", b.Email)
	})

	t.Run("empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))

		var b body
		require.NoError(t, httpx.DecodeJSON(req, &b))
		require.Empty(t, b.Email)
	})

	t.Run("broken json", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":`))

		var b body
		require.ErrorIs(t, httpx.DecodeJSON(req, &b), httpx.ErrInvalidJSON)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`email=a`))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		var b body
		require.ErrorIs(t, httpx.DecodeJSON(req, &b), httpx.ErrInvalidJSON)
	})
}
