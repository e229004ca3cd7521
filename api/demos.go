/*
demos.go - Demo data loaders for the dashboard

PURPOSE:
  Provides pre-built data sets that populate the database for demos and
  manual testing. Each demo saves scenarios through the factory and, where
  useful, a synthetic workforce for the executive summary.

AVAILABLE DEMOS:
  report-iterations: report-v1 and report-v2 scenarios plus the sample workforce
  boundary-cases:    no-model (never pays back) and zero-investment (ROI undefined)
  sample-workforce:  120 scored employees across three departments, no scenarios

HOW DEMOS WORK:
 1. Reset database (clear all data)
 2. Save scenarios via factory presets
 3. Save employees
 4. Record the demo as current

USAGE VIA API:

	POST /api/demos/load
	{"demo_id": "report-iterations"}

ADDING NEW DEMOS:
 1. Add to 'demos' slice with ID, name, description
 2. Create loader function: loadXxxDemo(ctx)
 3. Add entry to demoLoaders

NOTE:

	Demos reset the database. Only use in development/demo environments.

SEE ALSO:
  - factory/presets.go: scenario definitions
  - workforce/summary.go: what the sample workforce feeds
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/store"
	"go.uber.org/zap"
)

// =============================================================================
// DEMO DEFINITIONS
// =============================================================================

const (
	DemoReportIterations = "report-iterations"
	DemoBoundaryCases    = "boundary-cases"
	DemoSampleWorkforce  = "sample-workforce"
)

var demos = []DemoDTO{
	{
		ID:          DemoReportIterations,
		Name:        "Report Iterations",
		Description: "Both report scenarios (93.0% and 96.4% accuracy) with a sample workforce",
	},
	{
		ID:          DemoBoundaryCases,
		Name:        "Boundary Cases",
		Description: "A model with no accuracy and a programme with no cost",
	},
	{
		ID:          DemoSampleWorkforce,
		Name:        "Sample Workforce",
		Description: "120 employees in three departments for the executive summary",
	},
}

// sampleDepartments drives the synthetic workforce: 120 employees, 17 leavers.
var sampleDepartments = []struct {
	name          string
	headcount     int
	attrited      int
	monthlyIncome int64
}{
	{"Sales", 40, 8, 5200},
	{"Research & Development", 60, 6, 6400},
	{"Human Resources", 20, 3, 4800},
}

func (h *Handler) demoLoaders() map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		DemoReportIterations: h.loadReportIterationsDemo,
		DemoBoundaryCases:    h.loadBoundaryCasesDemo,
		DemoSampleWorkforce:  h.loadSampleWorkforce,
	}
}

// =============================================================================
// DEMO ENDPOINTS
// =============================================================================

// ListDemos returns all available demos.
func (h *Handler) ListDemos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, demos)
}

// GetCurrentDemo returns the currently loaded demo, if any.
func (h *Handler) GetCurrentDemo(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentDemo
	h.mu.RUnlock()

	for _, d := range demos {
		if d.ID == current {
			writeJSON(w, http.StatusOK, d)
			return
		}
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadDemo resets the database and loads a demo.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	var req LoadDemoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	load, ok := h.demoLoaders()[req.DemoID]
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown demo", fmt.Errorf("demo %q", req.DemoID))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	h.currentDemo = ""
	if err := h.Store.Reset(ctx); err != nil {
		h.handleError(w, "Failed to reset database", err)
		return
	}
	if err := load(ctx); err != nil {
		h.handleError(w, "Failed to load demo", err)
		return
	}
	h.currentDemo = req.DemoID

	h.Log.Info("demo loaded", zap.String("demo_id", req.DemoID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "demo_id": req.DemoID})
}

// ResetDemo clears all data.
func (h *Handler) ResetDemo(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(r.Context()); err != nil {
		h.handleError(w, "Failed to reset database", err)
		return
	}
	h.currentDemo = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// DEMO LOADERS
// =============================================================================

func (h *Handler) loadReportIterationsDemo(ctx context.Context) error {
	if err := h.savePresets(ctx, factory.PresetReportV1, factory.PresetReportV2); err != nil {
		return err
	}
	return h.loadSampleWorkforce(ctx)
}

func (h *Handler) loadBoundaryCasesDemo(ctx context.Context) error {
	return h.savePresets(ctx, factory.PresetNoModel, factory.PresetZeroInvestment)
}

func (h *Handler) savePresets(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		s, err := h.ScenarioFactory.Preset(id)
		if err != nil {
			return err
		}
		if _, err := h.saveScenario(ctx, *s); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadSampleWorkforce(ctx context.Context) error {
	for _, e := range SampleEmployees() {
		if err := h.Store.SaveEmployee(ctx, e); err != nil {
			return fmt.Errorf("save employee %s: %w", e.ID, err)
		}
	}
	return nil
}

// SampleEmployees returns the synthetic demo workforce. The first employees
// of each department are the leavers. Every employee is scored: leavers
// High, as many stayers again Medium, the rest Low.
func SampleEmployees() []store.Employee {
	var out []store.Employee
	start := time.Date(2019, 1, 7, 0, 0, 0, 0, time.UTC)

	for _, d := range sampleDepartments {
		slug := strings.ToLower(strings.Fields(d.name)[0])
		for i := 0; i < d.headcount; i++ {
			out = append(out, store.Employee{
				ID:            fmt.Sprintf("emp-%s-%03d", slug, i+1),
				Name:          fmt.Sprintf("%s Employee %d", d.name, i+1),
				Department:    d.name,
				MonthlyIncome: decimal.NewFromInt(d.monthlyIncome),
				Attrited:      i < d.attrited,
				HireDate:      start.AddDate(0, 0, 7*i),
				RiskScore:     decimal.NewNullDecimal(sampleRiskScore(i, d.attrited)),
			})
		}
	}
	return out
}

// sampleRiskScore is the score of the i-th employee of a department with
// the given number of leavers, in hundredths.
func sampleRiskScore(i, attrited int) decimal.Decimal {
	var hundredths int
	switch {
	case i < attrited:
		hundredths = 92 - 2*i
	case i < 2*attrited:
		hundredths = 60 - 2*(i-attrited)
	default:
		hundredths = 10 + i%10
	}
	return decimal.New(int64(hundredths), -2)
}
