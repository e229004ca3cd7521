/*
handlers.go - HTTP API handlers for the attrition ROI dashboard

PURPOSE:
  Exposes the ROI engine, saved scenarios and the workforce summary via REST
  API. Handles HTTP request/response, JSON serialization, and delegates to
  the roi, factory, workforce and store packages.

ENDPOINTS:
  Calculator:
    GET    /api/health                 Liveness
    GET    /api/roi/defaults           Default calculator parameters
    POST   /api/roi/calculate          Compute a projection
    POST   /api/roi/cashflows.csv      Five-year cash flow table as CSV

  Scenarios (scenarios.go):
    GET    /api/scenarios              List saved scenarios
    POST   /api/scenarios              Create or update from factory JSON
    GET    /api/scenarios/{id}         Get scenario
    DELETE /api/scenarios/{id}         Delete scenario and its runs
    POST   /api/scenarios/{id}/run     Compute and persist a run
    GET    /api/scenarios/{id}/runs    Run history, newest first

  Workforce (workforce.go):
    GET/POST /api/employees, GET/DELETE /api/employees/{id}
    GET    /api/workforce/summary      Executive overview
    POST   /api/workforce/roi          Projection on the stored workforce

  Demos (demos.go):
    GET /api/demos, GET /api/demos/current, POST /api/demos/load,
    POST /api/demos/reset

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: persistence (sqlite in the server, memory in tests)
  - ScenarioFactory: JSON to parameters, carries the configured defaults
  - Log: request-independent logging (store failures, demo loads)

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: malformed JSON, invalid parameter (details name the field)
  - 404: scenario or employee not found
  - 409: workforce ROI requested with no employees
  - 500: store failures
  An undefined ROI is not an error response: the projection is returned
  with five_year_roi_percent null and roi_error set.

SECURITY NOTE:
  No authentication. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/goccy/go-json"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/store"
	"github.com/warp/attrition-engine/workforce"
	"go.uber.org/zap"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           store.Store
	ScenarioFactory *factory.ScenarioFactory
	Log             *zap.Logger

	// Track currently loaded demo
	mu          sync.RWMutex
	currentDemo string
}

// NewHandler creates a handler. Omitted request fields fall back to defaults.
func NewHandler(st store.Store, defaults roi.Parameters, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		Store:           st,
		ScenarioFactory: factory.NewScenarioFactory(defaults),
		Log:             log,
	}
}

func (h *Handler) defaults() roi.Parameters {
	return h.ScenarioFactory.Defaults
}

// =============================================================================
// CALCULATOR ENDPOINTS
// =============================================================================

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetDefaults returns the parameters the calculator form starts from.
func (h *Handler) GetDefaults(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toParametersDTO(h.defaults()))
}

// Calculate computes a projection from the request overlaid on the defaults.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.computeFromRequest(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(proj))
}

// CashflowsCSV returns the five-year table of a projection as CSV.
func (h *Handler) CashflowsCSV(w http.ResponseWriter, r *http.Request) {
	proj, ok := h.computeFromRequest(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="cashflows.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WriteCashflowCSV(w, proj); err != nil {
		h.Log.Error("write cashflow csv", zap.Error(err))
	}
}

func (h *Handler) computeFromRequest(w http.ResponseWriter, r *http.Request) (*roi.Projection, bool) {
	var req ParametersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return nil, false
	}
	return h.compute(w, req.Apply(h.defaults()))
}

// compute runs the engine. An undefined ROI still yields the projection.
func (h *Handler) compute(w http.ResponseWriter, params roi.Parameters) (*roi.Projection, bool) {
	proj, err := roi.Compute(params)
	if err != nil && !errors.Is(err, roi.ErrUndefinedROI) {
		h.handleError(w, "Invalid parameters", err)
		return nil, false
	}
	return proj, true
}

// =============================================================================
// WORKFORCE ROI
// =============================================================================

// WorkforceROI computes a projection on the stored workforce. Head count,
// attrition rate and salary come from the employees; the request supplies
// the model and investment inputs.
func (h *Handler) WorkforceROI(w http.ResponseWriter, r *http.Request) {
	var req ParametersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return
	}

	params, err := workforce.DeriveParameters(workforce.Summarize(employees), req.Apply(h.defaults()))
	if err != nil {
		h.handleError(w, "Cannot derive parameters from workforce", err)
		return
	}

	proj, ok := h.compute(w, params)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProjectionDTO(proj))
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// handleError maps domain errors to status codes.
func (h *Handler) handleError(w http.ResponseWriter, message string, err error) {
	var invalid *roi.InvalidParameterError

	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: message,
			Code:  "invalid_parameter",
			Details: map[string]string{
				"field":  invalid.Field,
				"value":  invalid.Value,
				"reason": invalid.Reason,
			},
		})
	case errors.Is(err, factory.ErrMalformedScenario):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "malformed_scenario", Details: err.Error()})
	case store.IsNotFound(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: message, Code: "not_found", Details: err.Error()})
	case errors.Is(err, workforce.ErrEmptyWorkforce):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: message, Code: "empty_workforce", Details: err.Error()})
	default:
		h.Log.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
