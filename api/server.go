/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. Instrument: Prometheus request count and latency
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/rings            Clock-ring ingestion
  /api/carriers/*       Carrier roster
  /api/detect           Detection runs
  /api/violations/*     Per-rule result tables
  /api/summary          Remedy roll-ups
  /api/maximization/*   OTDL excusal workflow
  /api/reset            Database reset (dev only)
  /metrics              Prometheus exposition

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - metrics.go: Instrument middleware and /metrics handler
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(Instrument)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Ingest routes
		r.Post("/rings", h.SaveRings)

		// Carrier roster routes
		r.Route("/carriers", func(r chi.Router) {
			r.Get("/", h.ListCarriers)
			r.Post("/", h.SaveCarrier)
			r.Delete("/{name}", h.DeleteCarrier)
		})

		// Detection routes
		r.Post("/detect", h.RunDetection)
		r.Get("/violations/{rule}", h.GetViolations)
		r.Get("/summary", h.GetSummary)

		// Maximization routes
		r.Route("/maximization", func(r chi.Router) {
			r.Get("/", h.GetMaximization)
			r.Post("/excusal", h.SetExcusal)
			r.Post("/apply", h.ApplyMaximization)
		})

		// Admin routes
		r.Post("/reset", h.ResetDatabase)
	})

	// Prometheus exposition
	r.Handle("/metrics", MetricsHandler())

	return r
}
