package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/forum/internal/auth/service"
	"github.com/aussiebroadwan/forum/pkg/authsdk"
	"github.com/aussiebroadwan/forum/pkg/jwtx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
)

// writeServiceError maps a service error onto its API error. Anything
// unexpected is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrInvalidRequest):
		authsdk.ErrInvalidRequest.WriteError(w)
	case errors.Is(err, service.ErrInvalidCredentials):
		authsdk.ErrInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrUserNotFound):
		authsdk.ErrUserNotFound.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		authsdk.ErrEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrMissingToken):
		authsdk.ErrMissingToken.WriteError(w)
	case jwtx.IsTokenError(err):
		authsdk.ErrForbidden.WriteError(w)
	case errors.Is(err, service.ErrUnavailable):
		authsdk.ErrUnavailable.WriteError(w)
	case errors.Is(err, service.ErrConfiguration):
		log.Error(op+" failed", "err", err)
		authsdk.ErrTokenGeneration.WriteError(w)
	default:
		log.Error(op+" failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
	}
}
