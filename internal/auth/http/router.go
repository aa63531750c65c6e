package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/forum/internal/auth/metrics"
	"github.com/aussiebroadwan/forum/internal/auth/service"
	"github.com/aussiebroadwan/forum/internal/auth/store"
	"github.com/aussiebroadwan/forum/pkg/httpx"
	"github.com/aussiebroadwan/forum/pkg/slogx"
	"github.com/rs/cors"

	_ "github.com/aussiebroadwan/forum/api/auth" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	store        store.Store

	SessionService *service.SessionService
	TokenService   *service.TokenService
	Cookies        *httpx.CookieJar
	Metrics        *metrics.Metrics
}

// NewRouter builds a router. corsOrigins lists the front-end origins allowed
// to make credentialed requests; empty disables CORS handling.
func NewRouter(
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
	corsOrigins []string,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}
	if len(corsOrigins) > 0 {
		r.middlewares = append(r.middlewares, cors.New(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", slogx.RequestIDHeader},
			AllowCredentials: true,
		}).Handler)
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Forum Session Service API
//	@version		0.1.0
//	@description	Email and password login for the forum. Issues short-lived HS256 access tokens and a longer-lived refresh token kept in an HTTP-only cookie.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/forum
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:3000
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &SessionHandler{
		Sessions: r.SessionService,
		Cookies:  r.Cookies,
	}

	r.Mux.HandleFunc("POST /api/auth/login", h.HandleLogin)
	r.Mux.HandleFunc("POST /api/auth/register", h.HandleRegister)
	r.Mux.HandleFunc("POST /api/auth/logout", h.HandleLogout)
	r.Mux.HandleFunc("GET /api/auth/refresh_token", h.HandleRefresh)
	r.Mux.HandleFunc("DELETE /api/auth/refresh_token", h.HandleDeleteRefresh)
}

func (r *Router) registerUsers() {
	var opts []httpx.AuthnOption
	if r.Metrics != nil {
		opts = append(opts, httpx.WithAuthnObserver(r.Metrics.Verification))
	}

	secured := httpx.Chain(http.HandlerFunc(MeHandler),
		httpx.AuthnMiddleware(r.TokenService.AccessCodec, opts...),
	)
	r.Mux.Handle("GET /api/users/me", secured)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.TokenService.Ready))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}
