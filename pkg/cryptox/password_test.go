package cryptox

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"empty password", ""},
		{"whitespace password", "   spaces   "},
		{"max length password", strings.Repeat("a", MaxPasswordBytes)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password, MinCost)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$2a$"), "hash should be bcrypt encoded")
			require.True(t, VerifyPassword(tt.password, hash))
		})
	}
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same-password", MinCost)
	require.NoError(t, err)
	h2, err := HashPassword("same-password", MinCost)
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "each hash should use a fresh salt")
	require.True(t, VerifyPassword("same-password", h1))
	require.True(t, VerifyPassword("same-password", h2))
}

func TestHashPasswordTooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes+1), MinCost)
	require.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestHashPasswordEnforcesMinCost(t *testing.T) {
	hash, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)

	cost, err := HashCost(hash)
	require.NoError(t, err)
	require.Equal(t, MinCost, cost)
}

func TestClampCost(t *testing.T) {
	require.Equal(t, MinCost, ClampCost(0))
	require.Equal(t, MinCost, ClampCost(4))
	require.Equal(t, 12, ClampCost(12))
	require.Equal(t, bcrypt.MaxCost, ClampCost(99))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse", MinCost)
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		require.False(t, VerifyPassword("battery staple", hash))
	})

	t.Run("malformed hash", func(t *testing.T) {
		require.False(t, VerifyPassword("correct horse", "not-a-hash"))
	})

	t.Run("empty hash", func(t *testing.T) {
		require.False(t, VerifyPassword("correct horse", ""))
	})
}

func TestHasher(t *testing.T) {
	ctx := context.Background()
	h := NewHasher(0, 2)
	require.Equal(t, MinCost, h.Cost())

	hash, err := h.Hash(ctx, "pooled-password")
	require.NoError(t, err)

	ok, err := h.Verify(ctx, "pooled-password", hash)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = h.Verify(ctx, "other", hash)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestHasherConcurrentVerify(t *testing.T) {
	h := NewHasher(MinCost, 2)
	hash, err := HashPassword("concurrent", MinCost)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]bool, 6)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ok, err := h.Verify(context.Background(), "concurrent", hash)
			if err == nil {
				results[i] = ok
			}
		}(i)
	}
	wg.Wait()

	for i, ok := range results {
		require.True(t, ok, "verification %d should succeed", i)
	}
}

func TestHasherHonoursCancellation(t *testing.T) {
	h := NewHasher(MinCost, 1)
	hash, err := HashPassword("blocked", MinCost)
	require.NoError(t, err)

	// Occupy the only slot.
	require.NoError(t, h.sem.Acquire(context.Background(), 1))
	defer h.sem.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = h.Verify(ctx, "blocked", hash)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
