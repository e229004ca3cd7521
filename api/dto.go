/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. The engine works in
  exact decimals; the API speaks plain JSON numbers so the dashboard can
  chart them directly. Conversion happens here and nowhere else.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Calculator:
    ParametersRequest, ParametersDTO, ProjectionDTO, PaybackDTO, CashflowDTO

  Scenarios:
    ScenarioDTO (request body is factory.ScenarioJSON), RunDTO

  Workforce:
    EmployeeDTO, CreateEmployeeRequest, WorkforceSummaryDTO, DepartmentDTO

  Predictions:
    PredictionDTO, PredictionSummaryDTO

  Demos:
    DemoDTO, LoadDemoRequest

VALIDATION:
  Validation is done by roi.Parameters.Validate, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - report/format.go: display strings embedded in ProjectionDTO
*/
package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/store"
	"github.com/warp/attrition-engine/workforce"
)

const dateLayout = "2006-01-02"

// =============================================================================
// CALCULATOR DTOs
// =============================================================================

// ParametersRequest is the calculator form. Omitted fields keep the
// configured defaults.
type ParametersRequest struct {
	TotalEmployees                 *int     `json:"total_employees,omitempty"`
	AverageAnnualSalary            *float64 `json:"average_annual_salary,omitempty"`
	CurrentAttritionRatePercent    *float64 `json:"current_attrition_rate_percent,omitempty"`
	ReplacementCostMultiplier      *float64 `json:"replacement_cost_multiplier,omitempty"`
	ModelAccuracyPercent           *float64 `json:"model_accuracy_percent,omitempty"`
	InterventionSuccessRatePercent *float64 `json:"intervention_success_rate_percent,omitempty"`
	ImplementationCost             *float64 `json:"implementation_cost,omitempty"`
	AnnualMaintenanceCost          *float64 `json:"annual_maintenance_cost,omitempty"`
}

// Apply overlays the request on base.
func (r ParametersRequest) Apply(base roi.Parameters) roi.Parameters {
	p := base
	if r.TotalEmployees != nil {
		p.TotalEmployees = *r.TotalEmployees
	}
	overlay(&p.AverageAnnualSalary, r.AverageAnnualSalary)
	overlay(&p.CurrentAttritionRatePercent, r.CurrentAttritionRatePercent)
	overlay(&p.ReplacementCostMultiplier, r.ReplacementCostMultiplier)
	overlay(&p.ModelAccuracyPercent, r.ModelAccuracyPercent)
	overlay(&p.InterventionSuccessRatePercent, r.InterventionSuccessRatePercent)
	overlay(&p.ImplementationCost, r.ImplementationCost)
	overlay(&p.AnnualMaintenanceCost, r.AnnualMaintenanceCost)
	return p
}

func overlay(dst *decimal.Decimal, src *float64) {
	if src != nil {
		*dst = roi.Dec(*src)
	}
}

// ParametersDTO is a complete parameter set.
type ParametersDTO struct {
	TotalEmployees                 int     `json:"total_employees"`
	AverageAnnualSalary            float64 `json:"average_annual_salary"`
	CurrentAttritionRatePercent    float64 `json:"current_attrition_rate_percent"`
	ReplacementCostMultiplier      float64 `json:"replacement_cost_multiplier"`
	ModelAccuracyPercent           float64 `json:"model_accuracy_percent"`
	InterventionSuccessRatePercent float64 `json:"intervention_success_rate_percent"`
	ImplementationCost             float64 `json:"implementation_cost"`
	AnnualMaintenanceCost          float64 `json:"annual_maintenance_cost"`
}

// PaybackDTO is the payback period. Value and Years are null when the
// investment is never recovered.
type PaybackDTO struct {
	Value *float64 `json:"value"`
	Unit  string   `json:"unit"`
	Years *float64 `json:"years"`
}

// CashflowDTO is one row of the five-year table.
type CashflowDTO struct {
	Year              int     `json:"year"`
	AnnualNetBenefit  float64 `json:"annual_net_benefit"`
	CumulativeBenefit float64 `json:"cumulative_benefit"`
}

// ProjectionDTO is a computed projection. FiveYearROIPercent is null and
// ROIError set when the total investment is zero.
type ProjectionDTO struct {
	Parameters ParametersDTO `json:"parameters"`

	AnnualAttritionCount  int64   `json:"annual_attrition_count"`
	CostPerAttrition      float64 `json:"cost_per_attrition"`
	AnnualAttritionCost   float64 `json:"annual_attrition_cost"`
	IdentifiedAtRiskCount float64 `json:"identified_at_risk_count"`
	RetainedCount         float64 `json:"retained_count"`
	AnnualGrossSavings    float64 `json:"annual_gross_savings"`

	Year1NetBenefit             float64  `json:"year1_net_benefit"`
	SteadyStateAnnualNetBenefit float64  `json:"steady_state_annual_net_benefit"`
	FiveYearTotalBenefit        float64  `json:"five_year_total_benefit"`
	TotalInvestment             float64  `json:"total_investment"`
	FiveYearROIPercent          *float64 `json:"five_year_roi_percent"`
	ROIError                    string   `json:"roi_error,omitempty"`

	Payback   PaybackDTO     `json:"payback"`
	Cashflows []CashflowDTO  `json:"cashflows"`
	Display   report.Summary `json:"display"`
}

// =============================================================================
// SCENARIO DTOs
// =============================================================================

// ScenarioDTO is a saved scenario with its resolved parameters.
type ScenarioDTO struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Version     int           `json:"version"`
	Parameters  ParametersDTO `json:"parameters"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// RunDTO is a persisted projection of a scenario.
type RunDTO struct {
	ID              string          `json:"id"`
	ScenarioID      string          `json:"scenario_id"`
	ScenarioVersion int             `json:"scenario_version"`
	ROIDefined      bool            `json:"roi_defined"`
	CreatedAt       time.Time       `json:"created_at"`
	Result          json.RawMessage `json:"result"`
}

// =============================================================================
// WORKFORCE DTOs
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Department    string    `json:"department,omitempty"`
	MonthlyIncome float64   `json:"monthly_income"`
	Attrited      bool      `json:"attrited"`
	HireDate      string    `json:"hire_date,omitempty"`
	RiskScore     *float64  `json:"risk_score"`
	RiskLevel     string    `json:"risk_level,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateEmployeeRequest is the request body for creating an employee.
// ID is generated when omitted; HireDate is YYYY-MM-DD; RiskScore, when
// present, is a probability in [0, 1].
type CreateEmployeeRequest struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Department    string   `json:"department,omitempty"`
	MonthlyIncome float64  `json:"monthly_income"`
	Attrited      bool     `json:"attrited"`
	HireDate      string   `json:"hire_date,omitempty"`
	RiskScore     *float64 `json:"risk_score,omitempty"`
}

// DepartmentDTO is one row of the department ranking.
type DepartmentDTO struct {
	Department           string  `json:"department"`
	Headcount            int     `json:"headcount"`
	AttritionCount       int     `json:"attrition_count"`
	AttritionRatePercent float64 `json:"attrition_rate_percent"`
}

// WorkforceSummaryDTO is the executive dashboard overview.
// HighRiskCount is null when no employee has been scored.
type WorkforceSummaryDTO struct {
	TotalEmployees       int             `json:"total_employees"`
	AttritionCount       int             `json:"attrition_count"`
	AttritionRatePercent float64         `json:"attrition_rate_percent"`
	AverageAnnualSalary  float64         `json:"average_annual_salary"`
	ScoredCount          int             `json:"scored_count"`
	HighRiskCount        *int            `json:"high_risk_count"`
	Departments          []DepartmentDTO `json:"departments"`
}

// =============================================================================
// PREDICTION DTOs
// =============================================================================

// PredictionDTO is one scored employee.
type PredictionDTO struct {
	EmployeeID string  `json:"employee_id"`
	Name       string  `json:"name"`
	Department string  `json:"department,omitempty"`
	RiskScore  float64 `json:"risk_score"`
	RiskLevel  string  `json:"risk_level"`
	Attrited   bool    `json:"attrited"`
}

// PredictionSummaryDTO is the batch analysis of a set of predictions.
type PredictionSummaryDTO struct {
	Scored           int     `json:"scored"`
	PredictedToLeave int     `json:"predicted_to_leave"`
	AverageRiskScore float64 `json:"average_risk_score"`
	MaxRiskScore     float64 `json:"max_risk_score"`
	HighRiskCount    int     `json:"high_risk_count"`
	MediumRiskCount  int     `json:"medium_risk_count"`
	LowRiskCount     int     `json:"low_risk_count"`
}

// =============================================================================
// DEMO DTOs
// =============================================================================

// DemoDTO describes a demo data set.
type DemoDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadDemoRequest is the request body for loading a demo.
type LoadDemoRequest struct {
	DemoID string `json:"demo_id"`
}

// =============================================================================
// ERROR RESPONSE
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toParametersDTO(p roi.Parameters) ParametersDTO {
	return ParametersDTO{
		TotalEmployees:                 p.TotalEmployees,
		AverageAnnualSalary:            p.AverageAnnualSalary.InexactFloat64(),
		CurrentAttritionRatePercent:    p.CurrentAttritionRatePercent.InexactFloat64(),
		ReplacementCostMultiplier:      p.ReplacementCostMultiplier.InexactFloat64(),
		ModelAccuracyPercent:           p.ModelAccuracyPercent.InexactFloat64(),
		InterventionSuccessRatePercent: p.InterventionSuccessRatePercent.InexactFloat64(),
		ImplementationCost:             p.ImplementationCost.InexactFloat64(),
		AnnualMaintenanceCost:          p.AnnualMaintenanceCost.InexactFloat64(),
	}
}

func toProjectionDTO(p *roi.Projection) ProjectionDTO {
	dto := ProjectionDTO{
		Parameters:                  toParametersDTO(p.Parameters),
		AnnualAttritionCount:        p.AnnualAttritionCount,
		CostPerAttrition:            p.CostPerAttrition.InexactFloat64(),
		AnnualAttritionCost:         p.AnnualAttritionCost.InexactFloat64(),
		IdentifiedAtRiskCount:       p.IdentifiedAtRiskCount.InexactFloat64(),
		RetainedCount:               p.RetainedCount.InexactFloat64(),
		AnnualGrossSavings:          p.AnnualGrossSavings.InexactFloat64(),
		Year1NetBenefit:             p.Year1NetBenefit.InexactFloat64(),
		SteadyStateAnnualNetBenefit: p.SteadyStateAnnualNetBenefit.InexactFloat64(),
		FiveYearTotalBenefit:        p.FiveYearTotalBenefit.InexactFloat64(),
		TotalInvestment:             p.TotalInvestment.InexactFloat64(),
		Payback:                     PaybackDTO{Unit: string(p.Payback.Unit)},
		Cashflows:                   make([]CashflowDTO, roi.Horizon),
		Display:                     report.Summarize(p),
	}

	if pct, err := p.ROIPercent(); err != nil {
		dto.ROIError = err.Error()
	} else {
		dto.FiveYearROIPercent = floatPtr(pct)
	}

	if years, ok := p.Payback.Years(); ok {
		dto.Payback.Value = floatPtr(p.Payback.Value)
		dto.Payback.Years = floatPtr(years)
	}

	for i := 0; i < roi.Horizon; i++ {
		dto.Cashflows[i] = CashflowDTO{
			Year:              i + 1,
			AnnualNetBenefit:  p.YearlyCashflows[i].InexactFloat64(),
			CumulativeBenefit: p.CumulativeCashflows[i].InexactFloat64(),
		}
	}
	return dto
}

func toEmployeeDTO(e store.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:            e.ID,
		Name:          e.Name,
		Department:    e.Department,
		MonthlyIncome: e.MonthlyIncome.InexactFloat64(),
		Attrited:      e.Attrited,
		CreatedAt:     e.CreatedAt,
	}
	if !e.HireDate.IsZero() {
		dto.HireDate = e.HireDate.Format(dateLayout)
	}
	if e.RiskScore.Valid {
		dto.RiskScore = floatPtr(e.RiskScore.Decimal)
		dto.RiskLevel = string(workforce.ClassifyRisk(e.RiskScore.Decimal))
	}
	return dto
}

func toWorkforceSummaryDTO(s workforce.Summary) WorkforceSummaryDTO {
	dto := WorkforceSummaryDTO{
		TotalEmployees:       s.TotalEmployees,
		AttritionCount:       s.AttritionCount,
		AttritionRatePercent: s.AttritionRatePercent.InexactFloat64(),
		AverageAnnualSalary:  s.AverageAnnualSalary.InexactFloat64(),
		ScoredCount:          s.ScoredCount,
		Departments:          make([]DepartmentDTO, 0, len(s.Departments)),
	}
	if s.ScoredCount > 0 {
		high := s.HighRiskCount
		dto.HighRiskCount = &high
	}
	for _, d := range s.Departments {
		dto.Departments = append(dto.Departments, DepartmentDTO{
			Department:           d.Department,
			Headcount:            d.Headcount,
			AttritionCount:       d.AttritionCount,
			AttritionRatePercent: d.AttritionRatePercent.InexactFloat64(),
		})
	}
	return dto
}

func toPredictionDTO(p workforce.Prediction) PredictionDTO {
	return PredictionDTO{
		EmployeeID: p.Employee.ID,
		Name:       p.Employee.Name,
		Department: p.Employee.Department,
		RiskScore:  p.Score.InexactFloat64(),
		RiskLevel:  string(p.Level),
		Attrited:   p.Employee.Attrited,
	}
}

func toPredictionSummaryDTO(s workforce.BatchSummary) PredictionSummaryDTO {
	return PredictionSummaryDTO{
		Scored:           s.Scored,
		PredictedToLeave: s.PredictedToLeave,
		AverageRiskScore: s.AverageScore.InexactFloat64(),
		MaxRiskScore:     s.MaxScore.InexactFloat64(),
		HighRiskCount:    s.LevelCounts[workforce.RiskHigh],
		MediumRiskCount:  s.LevelCounts[workforce.RiskMedium],
		LowRiskCount:     s.LevelCounts[workforce.RiskLow],
	}
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
