package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/store"
	"go.uber.org/zap"
)

// =============================================================================
// SCENARIO ENDPOINTS
// =============================================================================

// ListScenarios returns all saved scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListScenarios(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list scenarios", err)
		return
	}

	result := make([]ScenarioDTO, 0, len(records))
	for _, rec := range records {
		dto, err := h.toScenarioDTO(rec)
		if err != nil {
			h.Log.Warn("skipping unparseable scenario", zap.String("scenario_id", rec.ID), zap.Error(err))
			continue
		}
		result = append(result, dto)
	}
	writeJSON(w, http.StatusOK, result)
}

// CreateScenario saves a scenario from factory JSON. Saving an existing ID
// replaces its config and bumps the version.
func (h *Handler) CreateScenario(w http.ResponseWriter, r *http.Request) {
	var sj factory.ScenarioJSON
	if err := decodeJSON(r, &sj); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if sj.ID == "" {
		sj.ID = uuid.NewString()
	}

	scenario, err := h.ScenarioFactory.FromJSON(sj)
	if err != nil {
		h.handleError(w, "Invalid scenario", err)
		return
	}

	rec, err := h.saveScenario(r.Context(), *scenario)
	if err != nil {
		h.handleError(w, "Failed to save scenario", err)
		return
	}

	dto, err := h.toScenarioDTO(*rec)
	if err != nil {
		h.handleError(w, "Failed to read scenario", err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// GetScenario returns one saved scenario.
func (h *Handler) GetScenario(w http.ResponseWriter, r *http.Request) {
	rec, err := h.getScenario(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Scenario not found", err)
		return
	}

	dto, err := h.toScenarioDTO(*rec)
	if err != nil {
		h.handleError(w, "Failed to read scenario", err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// DeleteScenario removes a scenario and its runs.
func (h *Handler) DeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.getScenario(r.Context(), id); err != nil {
		h.handleError(w, "Scenario not found", err)
		return
	}
	if err := h.Store.DeleteScenario(r.Context(), id); err != nil {
		h.handleError(w, "Failed to delete scenario", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RunScenario computes a projection of a saved scenario and persists it.
func (h *Handler) RunScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.getScenario(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Scenario not found", err)
		return
	}

	scenario, err := h.ScenarioFactory.ParseScenario(rec.ConfigJSON)
	if err != nil {
		h.handleError(w, "Stored scenario is invalid", err)
		return
	}

	proj, ok := h.compute(w, scenario.Parameters)
	if !ok {
		return
	}

	result := toProjectionDTO(proj)
	resultJSON, err := json.Marshal(result)
	if err != nil {
		h.handleError(w, "Failed to encode projection", err)
		return
	}
	paramsJSON, err := json.Marshal(result.Parameters)
	if err != nil {
		h.handleError(w, "Failed to encode parameters", err)
		return
	}

	run := store.RunRecord{
		ID:              uuid.NewString(),
		ScenarioID:      rec.ID,
		ScenarioVersion: rec.Version,
		ParamsJSON:      string(paramsJSON),
		ResultJSON:      string(resultJSON),
		ROIDefined:      proj.ROIDefined,
		CreatedAt:       time.Now().UTC(),
	}
	if err := h.Store.SaveRun(ctx, run); err != nil {
		h.handleError(w, "Failed to save run", err)
		return
	}

	h.Log.Info("scenario run",
		zap.String("scenario_id", rec.ID),
		zap.Int("version", rec.Version),
		zap.Bool("roi_defined", proj.ROIDefined))

	writeJSON(w, http.StatusCreated, toRunDTO(run))
}

// ListRuns returns a scenario's run history, newest first.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.getScenario(ctx, chi.URLParam(r, "id"))
	if err != nil {
		h.handleError(w, "Scenario not found", err)
		return
	}

	runs, err := h.Store.ListRuns(ctx, rec.ID)
	if err != nil {
		h.handleError(w, "Failed to list runs", err)
		return
	}

	result := make([]RunDTO, 0, len(runs))
	for _, run := range runs {
		result = append(result, toRunDTO(run))
	}
	writeJSON(w, http.StatusOK, result)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) getScenario(ctx context.Context, id string) (*store.ScenarioRecord, error) {
	rec, err := h.Store.GetScenario(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &store.NotFoundError{Kind: "scenario", ID: id}
	}
	return rec, nil
}

// saveScenario stores a parsed scenario and returns the stored record.
func (h *Handler) saveScenario(ctx context.Context, s factory.Scenario) (*store.ScenarioRecord, error) {
	configJSON, err := h.ScenarioFactory.MarshalScenario(s)
	if err != nil {
		return nil, err
	}
	if err := h.Store.SaveScenario(ctx, store.ScenarioRecord{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		ConfigJSON:  configJSON,
	}); err != nil {
		return nil, fmt.Errorf("save scenario %q: %w", s.ID, err)
	}
	return h.getScenario(ctx, s.ID)
}

func (h *Handler) toScenarioDTO(rec store.ScenarioRecord) (ScenarioDTO, error) {
	s, err := h.ScenarioFactory.ParseScenario(rec.ConfigJSON)
	if err != nil {
		return ScenarioDTO{}, err
	}
	return ScenarioDTO{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Version:     rec.Version,
		Parameters:  toParametersDTO(s.Parameters),
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

func toRunDTO(run store.RunRecord) RunDTO {
	return RunDTO{
		ID:              run.ID,
		ScenarioID:      run.ScenarioID,
		ScenarioVersion: run.ScenarioVersion,
		ROIDefined:      run.ROIDefined,
		CreatedAt:       run.CreatedAt,
		Result:          json.RawMessage(run.ResultJSON),
	}
}
