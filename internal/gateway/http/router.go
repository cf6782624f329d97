package http

import (
	"log/slog"
	"net/http"

	"github.com/aussiebroadwan/credgate/internal/gateway/service"
	"github.com/aussiebroadwan/credgate/pkg/httpx"
	"github.com/aussiebroadwan/credgate/pkg/slogx"
	"github.com/rs/cors"

	_ "github.com/aussiebroadwan/credgate/api/gateway" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Options tune the router. The zero value allows any CORS origin, hides
// internal error detail and leaves the admin route unmounted.
type Options struct {
	AllowedOrigins []string
	ExposeDetail   bool
	AdminToken     string
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	opts    Options
	logger  *slog.Logger
	metrics *Metrics

	AuthService *service.AuthService
}

func NewRouter(auth *service.AuthService, metrics *Metrics, logger *slog.Logger, opts Options) *Router {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	r := &Router{
		Mux:         http.NewServeMux(),
		opts:        opts,
		logger:      logger,
		metrics:     metrics,
		AuthService: auth,
	}

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", slogx.RequestIDHeader, AdminTokenHeader},
		ExposedHeaders: []string{slogx.RequestIDHeader},
	})

	// Outermost first: every response, including panics and CORS
	// preflights, is logged and counted.
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.Middleware(),
		c.Handler,
		httpx.Recover(opts.ExposeDetail),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())

	// Anything unmatched, including a known path with the wrong method.
	r.Mux.Handle("/", httpx.NotFound())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			credgate Authentication Gateway API
//	@version		0.1.0
//	@description	Verifies credentials against the clients directory and issues HS256 access tokens that can be validated and revoked.
//
//	@contact.name	AussieBroadWAN Team
//	@contact.url	https://github.com/aussiebroadwan/credgate
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:3002
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
//
//	@securityDefinitions.apikey	AdminToken
//	@in							header
//	@name						X-Admin-Token
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	r.Mux.Handle("POST /api/auth/login", &LoginHandler{
		AuthService:  r.AuthService,
		Metrics:      r.metrics,
		ExposeDetail: r.opts.ExposeDetail,
	})
	r.Mux.Handle("GET /api/auth/validate-token", &ValidateTokenHandler{
		AuthService:  r.AuthService,
		Metrics:      r.metrics,
		ExposeDetail: r.opts.ExposeDetail,
	})
	r.Mux.Handle("POST /api/auth/logout", &LogoutHandler{
		AuthService:  r.AuthService,
		Metrics:      r.metrics,
		ExposeDetail: r.opts.ExposeDetail,
	})
}

func (r *Router) registerAdmin() {
	// Without a configured token the route does not exist at all.
	if r.opts.AdminToken == "" {
		return
	}
	r.Mux.Handle("DELETE /api/auth/admin/revocations", &AdminRevocationsHandler{
		AuthService: r.AuthService,
		Token:       r.opts.AdminToken,
	})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /health", HealthHandler())
	r.Mux.Handle("GET /metrics", r.metrics.Handler())
}
