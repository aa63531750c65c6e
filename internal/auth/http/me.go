package http

import (
	"net/http"

	"github.com/aussiebroadwan/forum/pkg/authsdk"
	"github.com/aussiebroadwan/forum/pkg/httpx"
)

// MeHandler godoc
//
//	@Summary		Current user
//	@Description	Returns the identity carried by the access token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.MeResponse
//	@Failure		401	{object}	authsdk.ErrorResponse	"Missing bearer token"
//	@Failure		403	{object}	authsdk.ErrorResponse	"Invalid or expired access token"
//	@Router			/api/users/me [get].
func MeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		// Only reachable if the route is mounted without AuthnMiddleware.
		authsdk.ErrForbidden.WriteError(w)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MeResponse{User: id})
}
