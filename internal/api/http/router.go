package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheusfi/prometheus/internal/api/store"
	"github.com/prometheusfi/prometheus/pkg/gqlx"
	"github.com/prometheusfi/prometheus/pkg/httpx"
	"github.com/prometheusfi/prometheus/pkg/jwtx"
	"github.com/prometheusfi/prometheus/pkg/metricsx"
	"github.com/prometheusfi/prometheus/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeyManager
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store   store.Store
	Schema  *gqlx.Schema
	Metrics *metricsx.Metrics

	// Public throttles every request on the GraphQL endpoint by client IP.
	// Nil disables it.
	Public httpx.Limiter
}

func NewRouter(
	keys *jwtx.KeyManager,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.ClientIP,
	}

	return r
}

// ApplyRoutes registers every route. Schema must be set; Metrics is optional.
func (r *Router) ApplyRoutes() {
	r.registerGraphQL()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerGraphQL() {
	// Authentication is optional here; each root field decides whether it
	// needs a viewer.
	mws := []httpx.Middleware{httpx.OptionalAuthn(r.keys.Verifier)}
	if r.Public != nil {
		mws = append(mws, httpx.RateLimitByIP(r.Public, httpx.PublicLimit))
	}
	r.Mux.Handle("POST /graphql", httpx.Chain(r.Schema, r.observe("graphql", mws)...))
	r.Mux.Handle("GET /graphql/schema", httpx.Chain(r.Schema.SDLHandler(), r.observe("schema", nil)...))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys))
	r.Mux.Handle("GET /.well-known/jwks.json", JWKSHandler(r.keys.KeySet))

	if r.Metrics != nil {
		r.Mux.Handle("GET /metrics", r.Metrics.Handler())
	}
}

// observe appends the metrics middleware for route when metrics are enabled.
func (r *Router) observe(route string, mws []httpx.Middleware) []httpx.Middleware {
	if r.Metrics == nil {
		return mws
	}
	return append(mws, r.Metrics.Middleware(route))
}
