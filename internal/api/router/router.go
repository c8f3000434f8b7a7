package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/availability"
	"github.com/leoman8109754gmailcom/mcm-cleaning/internal/content"
	httpmiddleware "github.com/leoman8109754gmailcom/mcm-cleaning/internal/http/middleware"
	"github.com/leoman8109754gmailcom/mcm-cleaning/pkg/logging"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Config holds router configuration
type Config struct {
	Logger              *logging.Logger
	ContactHandler      http.Handler
	AvailabilityHandler *availability.Handler
	ContentHandler      *content.Handler
	MetricsHandler      http.Handler
	CORSAllowedOrigins  []string

	// Optional dependencies reported by /health. A failing check reports
	// "degraded" with status 200.
	HealthChecks map[string]Pinger
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", healthHandler(cfg.HealthChecks))
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(api chi.Router) {
		if cfg.ContactHandler != nil {
			// Every method reaches the relay so it can answer 405 itself.
			api.Handle("/contact", cfg.ContactHandler)
		}
		if cfg.AvailabilityHandler != nil {
			api.Get("/availability", cfg.AvailabilityHandler.GetMonth)
		}
		if cfg.ContentHandler != nil {
			api.Get("/content", cfg.ContentHandler.ListDocuments)
			api.Get("/content/{document}", cfg.ContentHandler.GetDocument)
		}
	})

	// Path the static site was originally deployed against.
	if cfg.ContactHandler != nil {
		r.Handle("/.netlify/functions/contact", cfg.ContactHandler)
	}

	return r
}

func healthHandler(checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]string{"status": "ok"}
		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			for name, check := range checks {
				if check == nil {
					continue
				}
				if err := check.Ping(ctx); err != nil {
					resp[name] = "unavailable"
					resp["status"] = "degraded"
					continue
				}
				resp[name] = "ok"
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
