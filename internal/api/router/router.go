// Package router assembles the HTTP surface of the assistant.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/bookwise-ai/bookwise/internal/conversation"
	"github.com/bookwise-ai/bookwise/internal/http/handlers"
	httpmiddleware "github.com/bookwise-ai/bookwise/internal/http/middleware"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	ChatHandler        *conversation.Handler
	DocumentsHandler   *handlers.DocumentsHandler
	AdminBookings      *handlers.AdminBookingsHandler
	AdminAuthSecret    string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests/sec per IP on the chat endpoint; zero disables limiting.
	ChatRateLimit float64
	ChatRateBurst int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

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

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Public conversational surface.
	r.Group(func(public chi.Router) {
		if cfg.ChatRateLimit > 0 {
			public.Use(httpmiddleware.RateLimit(cfg.ChatRateLimit, cfg.ChatRateBurst))
		}
		if cfg.ChatHandler != nil {
			public.Post("/chat", cfg.ChatHandler.Chat)
		}
		if cfg.DocumentsHandler != nil {
			public.Post("/documents", cfg.DocumentsHandler.Ingest)
			public.Get("/documents/count", cfg.DocumentsHandler.Count)
		}
	})

	// Staff-only booking management.
	if cfg.AdminBookings != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			admin.Get("/bookings", cfg.AdminBookings.List)
			admin.Get("/bookings/{id}", cfg.AdminBookings.Get)
			admin.Patch("/bookings/{id}/status", cfg.AdminBookings.UpdateStatus)
			admin.Delete("/bookings/{id}", cfg.AdminBookings.Delete)
			admin.Get("/customers/{email}/bookings", cfg.AdminBookings.CustomerBookings)
		})
	}

	return r
}
