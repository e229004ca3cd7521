/*
handlers_test.go - Tests for the HTTP API

Tests for:
- Calculator endpoints (defaults, calculate, CSV)
- Error mapping (400 with field details, 404, 409)
- Undefined ROI returned as a projection, not an error
*/
package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/store"
	"github.com/warp/attrition-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func setupMemoryHandler(t *testing.T) (*Handler, http.Handler) {
	h := NewHandler(store.NewMemory(), factory.DefaultParameters(), nil)
	return h, NewRouter(h, nil)
}

func setupSQLiteHandler(t *testing.T) (*Handler, http.Handler) {
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := NewHandler(st, factory.DefaultParameters(), nil)
	return h, NewRouter(h, nil)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// CALCULATOR TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestGetDefaults(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodGet, "/api/roi/defaults", "")
	require.Equal(t, http.StatusOK, rec.Code)

	p := decode[ParametersDTO](t, rec)
	assert.Equal(t, 5000, p.TotalEmployees)
	assert.Equal(t, 1.5, p.ReplacementCostMultiplier)
	assert.Equal(t, 93.0, p.ModelAccuracyPercent)
}

func TestCalculate_DefaultForm(t *testing.T) {
	// GIVEN: An empty body (every field takes the default)
	// WHEN: Calculating
	// THEN: The default-form projection comes back with display strings

	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/calculate", "{}")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decode[ProjectionDTO](t, rec)
	assert.Equal(t, int64(750), p.AnnualAttritionCount)
	assert.Equal(t, 140000.0, p.CostPerAttrition)
	assert.Equal(t, 105000000.0, p.AnnualAttritionCost)
	assert.Equal(t, 244.125, p.RetainedCount)
	assert.Equal(t, 34177500.0, p.AnnualGrossSavings)
	assert.Equal(t, 33977500.0, p.Year1NetBenefit)
	assert.Equal(t, 400000.0, p.TotalInvestment)
	require.NotNil(t, p.FiveYearROIPercent)
	assert.InDelta(t, 42621.875, *p.FiveYearROIPercent, 1e-9)
	assert.Empty(t, p.ROIError)

	assert.Equal(t, "months", p.Payback.Unit)
	require.NotNil(t, p.Payback.Value)
	assert.Less(t, *p.Payback.Value, 1.0)

	require.Len(t, p.Cashflows, 5)
	assert.Equal(t, 1, p.Cashflows[0].Year)
	assert.Equal(t, 170487500.0, p.Cashflows[4].CumulativeBenefit)

	assert.Equal(t, "$34,177,500", p.Display.AnnualSavings)
	assert.Equal(t, "42621.9%", p.Display.FiveYearROI)
	assert.Equal(t, "0.1 months", p.Display.PaybackPeriod)
}

func TestCalculate_OverridesDefaults(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/calculate", `{"model_accuracy_percent": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)

	p := decode[ProjectionDTO](t, rec)
	assert.Equal(t, 0.0, p.RetainedCount)
	assert.Equal(t, "never", p.Payback.Unit)
	assert.Nil(t, p.Payback.Value)
	assert.Equal(t, "10+ years", p.Display.PaybackPeriod)
}

func TestCalculate_ZeroInvestmentReturnsNullROI(t *testing.T) {
	// GIVEN: No implementation or maintenance cost
	// WHEN: Calculating
	// THEN: 200 with a null ROI and an explanation, everything else computed

	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/calculate",
		`{"implementation_cost": 0, "annual_maintenance_cost": 0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Contains(t, rec.Body.String(), `"five_year_roi_percent":null`)

	p := decode[ProjectionDTO](t, rec)
	assert.Nil(t, p.FiveYearROIPercent)
	assert.NotEmpty(t, p.ROIError)
	assert.Equal(t, 34177500.0, p.Year1NetBenefit)
	assert.Equal(t, "n/a", p.Display.FiveYearROI)
}

func TestCalculate_InvalidParameter(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/calculate", `{"model_accuracy_percent": 140}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_parameter", resp.Code)
	assert.Equal(t, "model_accuracy_percent", resp.Details["field"])
}

func TestCalculate_MalformedBody(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/calculate", `{"total_employees": "many"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCashflowsCSV(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/cashflows.csv", "{}")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "cashflows.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "year,annual_net_benefit,cumulative_benefit", lines[0])
	assert.Equal(t, "1,33977500.00,33977500.00", lines[1])
}

func TestCashflowsCSV_InvalidParameter(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/roi/cashflows.csv", `{"total_employees": -1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORS_AllowsConfiguredOrigin(t *testing.T) {
	h := NewHandler(store.NewMemory(), factory.DefaultParameters(), nil)
	router := NewRouter(h, []string{"https://dashboard.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/roi/calculate", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "https://dashboard.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

// =============================================================================
// WORKFORCE TESTS
// =============================================================================

func TestEmployees_CRUD(t *testing.T) {
	_, router := setupSQLiteHandler(t)

	rec := do(t, router, http.MethodPost, "/api/employees",
		`{"id":"emp-1","name":"Dana","department":"Sales","monthly_income":5200,"hire_date":"2022-03-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[EmployeeDTO](t, rec)
	assert.Equal(t, "2022-03-01", created.HireDate)
	assert.Equal(t, 5200.0, created.MonthlyIncome)

	rec = do(t, router, http.MethodGet, "/api/employees/emp-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dana", decode[EmployeeDTO](t, rec).Name)

	rec = do(t, router, http.MethodGet, "/api/employees", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]EmployeeDTO](t, rec), 1)

	rec = do(t, router, http.MethodDelete, "/api/employees/emp-1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/employees/emp-1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployees_Validation(t *testing.T) {
	_, router := setupMemoryHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"monthly_income": 4000}`},
		{"negative income", `{"name": "X", "monthly_income": -1}`},
		{"bad hire date", `{"name": "X", "monthly_income": 4000, "hire_date": "03/01/2022"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, "/api/employees", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

// vanishingEmployeeStore loses every employee between save and read.
type vanishingEmployeeStore struct {
	store.Store
}

func (vanishingEmployeeStore) GetEmployee(context.Context, string) (*store.Employee, error) {
	return nil, nil
}

func TestCreateEmployee_MissingAfterSave(t *testing.T) {
	// GIVEN: A store that accepts the save but cannot find the employee after
	// WHEN: Creating an employee
	// THEN: 404 naming the employee, not a detail-less 500

	h := NewHandler(vanishingEmployeeStore{Store: store.NewMemory()}, factory.DefaultParameters(), nil)
	router := NewRouter(h, nil)

	rec := do(t, router, http.MethodPost, "/api/employees", `{"id":"emp-9","name":"Kim","monthly_income":4000}`)
	require.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "not_found", resp.Code)
	assert.Contains(t, resp.Details, "emp-9")
}

func TestEmployees_RiskScore(t *testing.T) {
	_, router := setupSQLiteHandler(t)

	rec := do(t, router, http.MethodPost, "/api/employees",
		`{"id":"emp-1","name":"Dana","monthly_income":5200,"risk_score":0.82}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[EmployeeDTO](t, rec)
	require.NotNil(t, created.RiskScore)
	assert.Equal(t, 0.82, *created.RiskScore)
	assert.Equal(t, "High", created.RiskLevel)

	rec = do(t, router, http.MethodPost, "/api/employees", `{"id":"emp-2","name":"Sam","monthly_income":4000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"risk_score":null`)

	rec = do(t, router, http.MethodPost, "/api/employees", `{"name":"Bad","monthly_income":4000,"risk_score":1.5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEmployees_GeneratedID(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/employees", `{"name":"Sam","monthly_income":4000}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decode[EmployeeDTO](t, rec).ID)
}

func TestWorkforceROI_EmptyWorkforceConflicts(t *testing.T) {
	_, router := setupMemoryHandler(t)

	rec := do(t, router, http.MethodPost, "/api/workforce/roi", "{}")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestWorkforceROI_UsesStoredEmployees(t *testing.T) {
	// GIVEN: The sample workforce (120 employees, average salary 68,800)
	// WHEN: Requesting a workforce ROI with a custom accuracy
	// THEN: Workforce inputs come from the employees, model inputs from the request

	h, router := setupMemoryHandler(t)
	require.NoError(t, h.loadSampleWorkforce(context.Background()))

	rec := do(t, router, http.MethodPost, "/api/workforce/roi",
		`{"total_employees": 99999, "model_accuracy_percent": 96.4}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	p := decode[ProjectionDTO](t, rec)
	assert.Equal(t, 120, p.Parameters.TotalEmployees)
	assert.Equal(t, 68800.0, p.Parameters.AverageAnnualSalary)
	assert.Equal(t, 96.4, p.Parameters.ModelAccuracyPercent)
}

func TestWorkforceSummary(t *testing.T) {
	h, router := setupMemoryHandler(t)
	require.NoError(t, h.loadSampleWorkforce(context.Background()))

	rec := do(t, router, http.MethodGet, "/api/workforce/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)

	s := decode[WorkforceSummaryDTO](t, rec)
	assert.Equal(t, 120, s.TotalEmployees)
	assert.Equal(t, 17, s.AttritionCount)
	require.Len(t, s.Departments, 3)
	assert.Equal(t, "Sales", s.Departments[0].Department)
	assert.Equal(t, 20.0, s.Departments[0].AttritionRatePercent)
	assert.Equal(t, 120, s.ScoredCount)
	require.NotNil(t, s.HighRiskCount)
	assert.Equal(t, 17, *s.HighRiskCount)
}

func TestWorkforceSummary_HighRiskNullWhenUnscored(t *testing.T) {
	_, router := setupMemoryHandler(t)
	do(t, router, http.MethodPost, "/api/employees", `{"name":"Sam","monthly_income":4000}`)

	rec := do(t, router, http.MethodGet, "/api/workforce/summary", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"high_risk_count":null`)
}
