package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// PREDICTION TESTS
// =============================================================================

func TestPredictions_ListFiltered(t *testing.T) {
	// GIVEN: The sample workforce, every employee scored
	// WHEN: Listing with each filter
	// THEN: Only matching employees come back, highest risk first

	h, router := setupSQLiteHandler(t)
	require.NoError(t, h.loadSampleWorkforce(context.Background()))

	rec := do(t, router, http.MethodGet, "/api/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	all := decode[[]PredictionDTO](t, rec)
	require.Len(t, all, 120)
	assert.Equal(t, 0.92, all[0].RiskScore)
	assert.Equal(t, "High", all[0].RiskLevel)

	tests := []struct {
		query string
		want  int
	}{
		{"?risk_level=High", 17},
		{"?risk_level=medium", 17},
		{"?risk_level=Low", 86},
		{"?department=Human%20Resources", 20},
		{"?department=Sales&min_risk=0.55", 11},
		{"?risk_level=High&min_risk=0.5&department=Sales", 8},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, router, http.MethodGet, "/api/predictions"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Len(t, decode[[]PredictionDTO](t, rec), tt.want)
		})
	}
}

func TestPredictions_SkipsUnscored(t *testing.T) {
	_, router := setupMemoryHandler(t)
	do(t, router, http.MethodPost, "/api/employees", `{"id":"a","name":"A","monthly_income":4000,"risk_score":0.3}`)
	do(t, router, http.MethodPost, "/api/employees", `{"id":"b","name":"B","monthly_income":4000}`)

	rec := do(t, router, http.MethodGet, "/api/predictions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	preds := decode[[]PredictionDTO](t, rec)
	require.Len(t, preds, 1)
	assert.Equal(t, "a", preds[0].EmployeeID)
	assert.Equal(t, "Low", preds[0].RiskLevel)
}

func TestPredictions_InvalidFilter(t *testing.T) {
	_, router := setupMemoryHandler(t)

	tests := []struct {
		query string
		field string
	}{
		{"?risk_level=Severe", "risk_level"},
		{"?min_risk=lots", "min_risk"},
		{"?min_risk=1.5", "min_risk"},
		{"?min_risk=-0.1", "min_risk"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			for _, path := range []string{"/api/predictions", "/api/predictions/summary", "/api/predictions/export.csv"} {
				rec := do(t, router, http.MethodGet, path+tt.query, "")
				require.Equal(t, http.StatusBadRequest, rec.Code, path)

				resp := decode[struct {
					Code    string            `json:"code"`
					Details map[string]string `json:"details"`
				}](t, rec)
				assert.Equal(t, "invalid_parameter", resp.Code)
				assert.Equal(t, tt.field, resp.Details["field"])
			}
		})
	}
}

func TestPredictionSummary_SampleWorkforce(t *testing.T) {
	h, router := setupMemoryHandler(t)
	require.NoError(t, h.loadSampleWorkforce(context.Background()))

	rec := do(t, router, http.MethodGet, "/api/predictions/summary", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s := decode[PredictionSummaryDTO](t, rec)
	assert.Equal(t, 120, s.Scored)
	assert.Equal(t, 30, s.PredictedToLeave)
	assert.Equal(t, 0.92, s.MaxRiskScore)
	assert.InDelta(t, 36.79/120, s.AverageRiskScore, 1e-9)
	assert.Equal(t, 17, s.HighRiskCount)
	assert.Equal(t, 17, s.MediumRiskCount)
	assert.Equal(t, 86, s.LowRiskCount)

	rec = do(t, router, http.MethodGet, "/api/predictions/summary?risk_level=High", "")
	require.Equal(t, http.StatusOK, rec.Code)
	high := decode[PredictionSummaryDTO](t, rec)
	assert.Equal(t, 17, high.Scored)
	assert.Equal(t, 17, high.PredictedToLeave)
	assert.Zero(t, high.LowRiskCount)
}

func TestPredictionSummary_Empty(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodGet, "/api/predictions/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[PredictionSummaryDTO](t, rec)
	assert.Zero(t, s.Scored)
	assert.Zero(t, s.MaxRiskScore)
}

func TestPredictionsCSV(t *testing.T) {
	h, router := setupMemoryHandler(t)
	require.NoError(t, h.loadSampleWorkforce(context.Background()))

	rec := do(t, router, http.MethodGet, "/api/predictions/export.csv?risk_level=High&department=Human%20Resources", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "predictions.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "employee_id,name,department,risk_score,risk_level,attrited", lines[0])
	assert.Equal(t, "emp-human-001,Human Resources Employee 1,Human Resources,0.920,High,true", lines[1])
	assert.Equal(t, "emp-human-003,Human Resources Employee 3,Human Resources,0.880,High,true", lines[3])
}
