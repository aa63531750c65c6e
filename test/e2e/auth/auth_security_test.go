package auth_test

import (
	"testing"

	"github.com/aussiebroadwan/forum/pkg/authsdk"
)

// TestInvalidCredentials verifies that login with a wrong password is rejected.
func TestInvalidCredentials(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t, nil)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client, "grace@example.com", "grace")

	_, err := client.Login(t.Context(), authsdk.LoginRequest{
		Email:    "grace@example.com",
		Password: "wrong-password",
	})
	assertAPIError(t, err, authsdk.ErrInvalidCredentials)

	_, err = client.Login(t.Context(), authsdk.LoginRequest{
		Email:    "nobody@example.com",
		Password: testPassword,
	})
	assertAPIError(t, err, authsdk.ErrUserNotFound)
}

// TestDuplicateRegistration verifies emails are unique regardless of case.
func TestDuplicateRegistration(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t, nil)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	registerUser(t, client, "heidi@example.com", "heidi")

	_, err := client.Register(t.Context(), authsdk.RegisterRequest{
		Email:    "Heidi@Example.com",
		Username: "heidi2",
		Password: testPassword,
	})
	assertAPIError(t, err, authsdk.ErrEmailTaken)
}

// TestInvalidAccessToken verifies /api/users/me rejects tokens it did not mint.
func TestInvalidAccessToken(t *testing.T) {
	baseURL, cleanup := setupAuthContainer(t, nil)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)
	session := registerUser(t, client, "ivan@example.com", "ivan")

	_, err := client.Me(t.Context(), "invalid-token-12345")
	assertAPIError(t, err, authsdk.ErrForbidden)

	// A refresh token is signed with the other secret.
	_, err = client.Me(t.Context(), session.RefreshToken())
	assertAPIError(t, err, authsdk.ErrForbidden)

	_, err = client.Me(t.Context(), "")
	assertAPIError(t, err, authsdk.ErrMissingToken)
}
