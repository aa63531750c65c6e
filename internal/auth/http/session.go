package http

import (
	"net/http"

	"github.com/aussiebroadwan/forum/internal/auth/domain"
	"github.com/aussiebroadwan/forum/internal/auth/service"
	"github.com/aussiebroadwan/forum/pkg/authsdk"
	"github.com/aussiebroadwan/forum/pkg/httpx"
)

const (
	msgLoggedIn       = "Successfully logged in."
	msgRegistered     = "Successfully registered."
	msgLoggedOut      = "User logged out successfully."
	msgRefreshDeleted = "Refresh token deleted."
)

// SessionHandler serves the /api/auth endpoints. The refresh token travels
// in the cookie managed by Cookies.
type SessionHandler struct {
	Sessions *service.SessionService
	Cookies  *httpx.CookieJar
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Verifies email and password and returns a new token pair. The refresh token is also set as an HTTP-only cookie.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		401		{object}	authsdk.ErrorResponse	"Password is incorrect"
//	@Failure		404		{object}	authsdk.ErrorResponse	"Email does not exist"
//	@Failure		422		{object}	authsdk.ErrorResponse	"Invalid or missing parameters"
//	@Failure		503		{object}	authsdk.ErrorResponse	"User store unavailable"
//	@Router			/api/auth/login [post].
func (h *SessionHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.Sessions.Login(r.Context(), domain.Credential{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "login", err)
		return
	}

	h.writePair(w, pair, msgLoggedIn)
}

// HandleRegister godoc
//
//	@Summary		Register
//	@Description	Creates an account and returns a token pair for it, exactly like login.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		authsdk.RegisterRequest	true	"New account"
//	@Success		200		{object}	authsdk.TokenResponse
//	@Failure		409		{object}	authsdk.ErrorResponse	"Email already registered"
//	@Failure		422		{object}	authsdk.ErrorResponse	"Invalid or missing parameters"
//	@Router			/api/auth/register [post].
func (h *SessionHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.Sessions.Register(r.Context(), domain.Registration{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, "register", err)
		return
	}

	h.writePair(w, pair, msgRegistered)
}

// HandleRefresh godoc
//
//	@Summary		Refresh tokens
//	@Description	Exchanges the refresh_token cookie for a new token pair and replaces the cookie.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.TokenResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"No refresh token cookie"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Refresh token invalid or expired"
//	@Router			/api/auth/refresh_token [get].
func (h *SessionHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token, _ := h.Cookies.Get(r)

	pair, err := h.Sessions.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, "refresh", err)
		return
	}

	h.writePair(w, pair, "")
}

// HandleLogout godoc
//
//	@Summary		Log out
//	@Description	Clears the refresh_token cookie. Tokens already issued stay valid until they expire.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Router			/api/auth/logout [post].
func (h *SessionHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgLoggedOut})
}

// HandleDeleteRefresh godoc
//
//	@Summary		Delete refresh token
//	@Description	Clears the refresh_token cookie without looking at it.
//	@Tags			Auth
//	@Produce		json
//	@Success		200	{object}	authsdk.MessageResponse
//	@Router			/api/auth/refresh_token [delete].
func (h *SessionHandler) HandleDeleteRefresh(w http.ResponseWriter, r *http.Request) {
	h.Cookies.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: msgRefreshDeleted})
}

// writePair sets the refresh cookie and writes the pair as JSON. The cookie
// is only written once the pair exists and lives as long as the refresh
// token.
func (h *SessionHandler) writePair(w http.ResponseWriter, pair *domain.TokenPair, message string) {
	h.Cookies.Set(w, pair.RefreshToken, pair.RefreshExpiresIn)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		Message:      message,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    authsdk.TokenType,
		ExpiresIn:    int(pair.ExpiresIn.Seconds()),
	})
}
