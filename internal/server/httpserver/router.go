// Package httpserver provides the HTTP/HTTPS server for sigcap.
package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/seqlab/sigcap-go/internal/core/domain"
	"github.com/seqlab/sigcap-go/internal/server/httpserver/handler"
	"github.com/seqlab/sigcap-go/internal/storage"
	"github.com/seqlab/sigcap-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Container is the shared waveform container.
	Container *domain.Container

	// Archive is the capture archive. Nil disables archive endpoints.
	Archive *storage.Engine

	// Metrics is the application metrics registry. Nil disables the
	// /metrics endpoint and request instrumentation.
	Metrics *metric.Registry

	// Logger for request logging.
	Logger *slog.Logger

	// RateLimit is the per-client rate limit (requests/second).
	// Zero disables rate limiting.
	RateLimit float64

	// RateBurst is the per-client burst allowance.
	RateBurst int
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.Container, cfg.Archive, cfg.Metrics, cfg.Logger)

	// Build middleware chain for the API handler.
	// Order of execution: Recover -> RequestID -> RateLimit -> Metrics -> Logging -> handler
	middlewares := []Middleware{
		Recover(cfg.Logger),
		RequestID(),
	}
	if cfg.RateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, cfg.RateBurst))
	}
	if cfg.Metrics != nil {
		middlewares = append(middlewares, Metrics(cfg.Metrics))
	}
	middlewares = append(middlewares, Logging(cfg.Logger))

	apiHandler := Chain(h, middlewares...)

	mux := http.NewServeMux()

	// Metrics endpoint serves the Prometheus exposition format and
	// skips the rate limiter so scrapes never drop.
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(cfg.Logger), RequestID()))
	}

	mux.Handle("/", apiHandler)

	return mux
}
