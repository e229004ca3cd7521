/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logger:     zap request log (status, bytes, latency, request id)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for the dashboard frontend

ROUTE GROUPS:
  /api/health           Liveness
  /api/roi/*            Calculator
  /api/scenarios/*      Saved scenarios and runs
  /api/employees/*      Workforce records
  /api/predictions/*    Risk scores: filtered list, batch summary, CSV
  /api/workforce/*      Executive summary, workforce ROI
  /api/demos/*          Demo data loaders

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - internal/logging/middleware.go: request logger
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/warp/attrition-engine/internal/logging"
)

// DefaultAllowedOrigins are the local dashboard dev servers.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}

// NewRouter creates a new router with all routes configured. An empty
// allowedOrigins uses DefaultAllowedOrigins.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.RequestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Calculator routes
		r.Route("/roi", func(r chi.Router) {
			r.Get("/defaults", h.GetDefaults)
			r.Post("/calculate", h.Calculate)
			r.Post("/cashflows.csv", h.CashflowsCSV)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/", h.CreateScenario)
			r.Get("/{id}", h.GetScenario)
			r.Delete("/{id}", h.DeleteScenario)
			r.Post("/{id}/run", h.RunScenario)
			r.Get("/{id}/runs", h.ListRuns)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
		})

		// Prediction routes
		r.Route("/predictions", func(r chi.Router) {
			r.Get("/", h.ListPredictions)
			r.Get("/summary", h.PredictionSummary)
			r.Get("/export.csv", h.PredictionsCSV)
		})

		// Workforce routes
		r.Route("/workforce", func(r chi.Router) {
			r.Get("/summary", h.WorkforceSummary)
			r.Post("/roi", h.WorkforceROI)
		})

		// Demo routes
		r.Route("/demos", func(r chi.Router) {
			r.Get("/", h.ListDemos)
			r.Get("/current", h.GetCurrentDemo)
			r.Post("/load", h.LoadDemo)
			r.Post("/reset", h.ResetDemo)
		})
	})

	return r
}
