package api

import (
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/workforce"
	"go.uber.org/zap"
)

// =============================================================================
// PREDICTION ENDPOINTS
// =============================================================================
//
// All three accept the same query filters:
//   risk_level  Low, Medium or High (any case)
//   department  exact department name ("Unassigned" for none)
//   min_risk    lowest score to include, in [0, 1]

// ListPredictions returns scored employees, highest risk first.
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	preds, ok := h.predictions(w, r)
	if !ok {
		return
	}

	result := make([]PredictionDTO, 0, len(preds))
	for _, p := range preds {
		result = append(result, toPredictionDTO(p))
	}
	writeJSON(w, http.StatusOK, result)
}

// PredictionSummary returns the batch analysis of the filtered predictions.
func (h *Handler) PredictionSummary(w http.ResponseWriter, r *http.Request) {
	preds, ok := h.predictions(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPredictionSummaryDTO(workforce.SummarizeBatch(preds)))
}

// PredictionsCSV downloads the filtered predictions.
func (h *Handler) PredictionsCSV(w http.ResponseWriter, r *http.Request) {
	preds, ok := h.predictions(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="predictions.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := report.WritePredictionsCSV(w, preds); err != nil {
		h.Log.Error("write predictions csv", zap.Error(err))
	}
}

func (h *Handler) predictions(w http.ResponseWriter, r *http.Request) ([]workforce.Prediction, bool) {
	filter, err := parsePredictionFilter(r)
	if err != nil {
		h.handleError(w, "Invalid prediction filter", err)
		return nil, false
	}

	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		h.handleError(w, "Failed to list employees", err)
		return nil, false
	}
	return workforce.Predictions(employees, filter), true
}

func parsePredictionFilter(r *http.Request) (workforce.Filter, error) {
	q := r.URL.Query()
	f := workforce.Filter{Department: q.Get("department")}

	if v := q.Get("risk_level"); v != "" {
		level, err := workforce.ParseRiskLevel(v)
		if err != nil {
			return f, &roi.InvalidParameterError{Field: "risk_level", Value: v, Reason: "must be Low, Medium or High"}
		}
		f.Level = level
	}

	if v := q.Get("min_risk"); v != "" {
		score, err := decimal.NewFromString(v)
		if err != nil {
			return f, &roi.InvalidParameterError{Field: "min_risk", Value: v, Reason: "must be a number"}
		}
		f.MinScore = decimal.NewNullDecimal(score)
		if err := f.Validate(); err != nil {
			return f, &roi.InvalidParameterError{Field: "min_risk", Value: v, Reason: "must be between 0 and 1"}
		}
	}
	return f, nil
}
