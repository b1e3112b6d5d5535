// package server contains middleware & handlers for the local pipeline server
package server

import (
	"database/sql"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytsum/internal/services"
	"github.com/desertthunder/ytsum/internal/shared"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsPath serves the Prometheus collectors.
const MetricsPath = "/metrics"

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers served by the [Router].
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Opts configures [New].
type Opts struct {
	AuthToken string // bearer token required on pipeline requests; empty disables auth
	Logger    *log.Logger
}

// New builds the handler for a pipeline server over db.
//
// Requests are logged and tagged with a request ID. Only the pipeline route requires the bearer token.
func New(db *sql.DB, opts Opts) http.Handler {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}
	logger := shared.WithLogger(opts.Logger, "component", "pipeline")

	router := NewBasicRouter()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.Handle(http.MethodGet, "/health", HealthHandler(db))
	router.Handle(http.MethodHead, "/health", HealthHandler(db))
	router.Handle(http.MethodGet, MetricsPath, promhttp.Handler())

	pipeline := NewBasicRouter()
	pipeline.Use(BearerAuth(opts.AuthToken))
	pipeline.Handler(NewPipelineHandler(db, logger))
	router.Handle(http.MethodPost, services.PipelinePath, pipeline)

	return router
}
