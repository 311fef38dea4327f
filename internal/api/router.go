package api

import (
	"net/http"
	"strings"

	"github.com/Togather-Foundation/campus-events/internal/api/handlers"
	"github.com/Togather-Foundation/campus-events/internal/api/middleware"
	"github.com/Togather-Foundation/campus-events/internal/audit"
	"github.com/Togather-Foundation/campus-events/internal/config"
	"github.com/Togather-Foundation/campus-events/internal/metrics"
	"github.com/Togather-Foundation/campus-events/web"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Deps is everything the router wires together. The caller owns the
// lifecycle of each dependency.
type Deps struct {
	Config      config.Config
	Logger      zerolog.Logger
	Pages       *handlers.PagesHandler
	API         *handlers.APIHandler
	Health      *handlers.HealthChecker
	Audit       *audit.Logger
	Tokens      middleware.ProfileTokens
	LoginLimit  *middleware.RateLimiter
	CSRFAuthKey []byte
}

// NewRouter builds the full handler: routes plus the middleware chain,
// outermost first: tracing, correlation id, request logging, audit,
// metrics, security headers, profile cookie, CSRF.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	pages := deps.Pages
	secure := strings.HasPrefix(cfg.Server.BaseURL, "https://")

	requireAuth := middleware.RequireAuth(pages.Accounts)
	guestOnly := middleware.GuestOnly(pages.Accounts)
	forms := middleware.FormRequestSize()
	credentials := func(h http.Handler) http.Handler {
		if deps.LoginLimit == nil {
			return forms(h)
		}
		return deps.LoginLimit.Middleware(forms(h))
	}

	mux := http.NewServeMux()

	// Pages
	mux.Handle("GET /{$}", http.HandlerFunc(pages.Home))
	mux.Handle("POST /contact", forms(http.HandlerFunc(pages.SubmitContact)))
	mux.Handle("GET /events", http.HandlerFunc(pages.Events))
	mux.Handle("POST /events/{id}/register", forms(http.HandlerFunc(pages.RegisterForEvent)))
	mux.Handle("GET /dashboard", requireAuth(http.HandlerFunc(pages.Dashboard)))
	mux.Handle("GET /login", guestOnly(http.HandlerFunc(pages.LoginPage)))
	mux.Handle("POST /login", credentials(http.HandlerFunc(pages.Login)))
	mux.Handle("POST /register", credentials(http.HandlerFunc(pages.Register)))
	mux.Handle("POST /logout", forms(http.HandlerFunc(pages.Logout)))

	// JSON API
	mux.Handle("GET /api/v1/events", http.HandlerFunc(deps.API.ListEvents))
	mux.Handle("GET /api/v1/events/{id}", http.HandlerFunc(deps.API.GetEvent))
	mux.Handle("GET /api/v1/me", http.HandlerFunc(deps.API.Me))

	// Operations
	mux.Handle("GET /healthz", handlers.Healthz())
	mux.Handle("GET /readyz", deps.Health.Readyz())
	mux.Handle("GET /version", deps.Health.Version())
	mux.Handle("GET /metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// Static
	mux.Handle("/robots.txt", web.RobotsTxtHandler())
	mux.Handle("/sitemap.xml", web.SitemapHandler())
	mux.Handle("GET /static/", web.StaticHandler("/static/"))
	mux.Handle("GET /assets/", web.StaticHandler("/assets/"))

	mux.Handle("/", http.HandlerFunc(pages.NotFound))

	return middleware.Chain(mux,
		middleware.Tracing,
		middleware.CorrelationID(deps.Logger),
		middleware.RequestLogging(deps.Logger),
		audit.Middleware(deps.Audit),
		metrics.HTTPMiddleware,
		middleware.SecurityHeaders(cfg.IsProduction()),
		middleware.Profile(deps.Tokens, secure),
		middleware.CSRFProtection(deps.CSRFAuthKey, secure, http.HandlerFunc(pages.CSRFFailure)),
	)
}
