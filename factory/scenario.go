/*
Package factory provides JSON to Go scenario conversion.

PURPOSE:
  Converts JSON scenario definitions into roi.Parameters. A scenario is a
  named parameter set for the ROI calculator; HR or finance can keep several
  (one per report iteration, one per business unit) without code changes.

JSON SCHEMA:
  {
    "id": "report-v2",
    "name": "Report v2",
    "description": "Second report iteration",
    "workforce": {
      "total_employees": 5000,
      "average_annual_salary": 70000,
      "attrition_rate_percent": 15,
      "replacement_cost_multiplier": 1.5
    },
    "model": {
      "accuracy_percent": 96.4,
      "intervention_success_rate_percent": 35
    },
    "investment": {
      "implementation_cost": 150000,
      "annual_maintenance_cost": 50000
    }
  }

  Every numeric field is optional. Omitted fields take the factory's defaults,
  so {"model": {"accuracy_percent": 96.4}} is a complete scenario.

KEY FEATURES:
  - Validates the resulting parameters with roi.Parameters.Validate
  - Decimal fields accept JSON numbers or strings
  - ToJSON writes every field, so stored configs are self-contained

USAGE:
  f := factory.NewScenarioFactory(factory.DefaultParameters())
  scenario, err := f.ParseScenario(jsonString)
  proj, err := roi.Compute(scenario.Parameters)

SEE ALSO:
  - presets.go: built-in report scenarios
  - roi/types.go: Parameters
*/
package factory

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/roi"
)

// ErrMalformedScenario is returned when scenario JSON cannot be decoded.
var ErrMalformedScenario = errors.New("malformed scenario")

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScenarioJSON is the JSON representation of a scenario.
type ScenarioJSON struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Workforce   *WorkforceJSON  `json:"workforce,omitempty"`
	Model       *ModelJSON      `json:"model,omitempty"`
	Investment  *InvestmentJSON `json:"investment,omitempty"`
}

// WorkforceJSON describes the organisation.
type WorkforceJSON struct {
	TotalEmployees            *int             `json:"total_employees,omitempty"`
	AverageAnnualSalary       *decimal.Decimal `json:"average_annual_salary,omitempty"`
	AttritionRatePercent      *decimal.Decimal `json:"attrition_rate_percent,omitempty"`
	ReplacementCostMultiplier *decimal.Decimal `json:"replacement_cost_multiplier,omitempty"`
}

// ModelJSON describes the prediction model and the retention programme.
type ModelJSON struct {
	AccuracyPercent                *decimal.Decimal `json:"accuracy_percent,omitempty"`
	InterventionSuccessRatePercent *decimal.Decimal `json:"intervention_success_rate_percent,omitempty"`
}

// InvestmentJSON describes what the programme costs.
type InvestmentJSON struct {
	ImplementationCost    *decimal.Decimal `json:"implementation_cost,omitempty"`
	AnnualMaintenanceCost *decimal.Decimal `json:"annual_maintenance_cost,omitempty"`
}

// Scenario is a parsed, validated scenario.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Parameters  roi.Parameters
}

// =============================================================================
// SCENARIO FACTORY
// =============================================================================

// DefaultParameters returns the calculator's default form values.
func DefaultParameters() roi.Parameters {
	return roi.Parameters{
		TotalEmployees:                 5000,
		AverageAnnualSalary:            decimal.NewFromInt(70000),
		CurrentAttritionRatePercent:    decimal.NewFromInt(15),
		ReplacementCostMultiplier:      decimal.RequireFromString("1.5"),
		ModelAccuracyPercent:           decimal.NewFromInt(93),
		InterventionSuccessRatePercent: decimal.NewFromInt(35),
		ImplementationCost:             decimal.NewFromInt(150000),
		AnnualMaintenanceCost:          decimal.NewFromInt(50000),
	}
}

// ScenarioFactory converts JSON scenarios to roi.Parameters.
type ScenarioFactory struct {
	Defaults roi.Parameters
}

// NewScenarioFactory creates a factory that fills omitted fields from defaults.
func NewScenarioFactory(defaults roi.Parameters) *ScenarioFactory {
	return &ScenarioFactory{Defaults: defaults}
}

// ParseScenario parses a JSON string into a Scenario.
func (f *ScenarioFactory) ParseScenario(jsonStr string) (*Scenario, error) {
	var sj ScenarioJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScenario, err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts ScenarioJSON to a validated Scenario.
func (f *ScenarioFactory) FromJSON(sj ScenarioJSON) (*Scenario, error) {
	params := f.Defaults

	if w := sj.Workforce; w != nil {
		if w.TotalEmployees != nil {
			params.TotalEmployees = *w.TotalEmployees
		}
		setDecimal(&params.AverageAnnualSalary, w.AverageAnnualSalary)
		setDecimal(&params.CurrentAttritionRatePercent, w.AttritionRatePercent)
		setDecimal(&params.ReplacementCostMultiplier, w.ReplacementCostMultiplier)
	}
	if m := sj.Model; m != nil {
		setDecimal(&params.ModelAccuracyPercent, m.AccuracyPercent)
		setDecimal(&params.InterventionSuccessRatePercent, m.InterventionSuccessRatePercent)
	}
	if inv := sj.Investment; inv != nil {
		setDecimal(&params.ImplementationCost, inv.ImplementationCost)
		setDecimal(&params.AnnualMaintenanceCost, inv.AnnualMaintenanceCost)
	}

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", sj.ID, err)
	}

	name := sj.Name
	if name == "" {
		name = sj.ID
	}

	return &Scenario{
		ID:          sj.ID,
		Name:        name,
		Description: sj.Description,
		Parameters:  params,
	}, nil
}

// ToJSON converts a Scenario to ScenarioJSON with every field set.
func (f *ScenarioFactory) ToJSON(s Scenario) ScenarioJSON {
	p := s.Parameters
	employees := p.TotalEmployees
	return ScenarioJSON{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		Workforce: &WorkforceJSON{
			TotalEmployees:            &employees,
			AverageAnnualSalary:       decPtr(p.AverageAnnualSalary),
			AttritionRatePercent:      decPtr(p.CurrentAttritionRatePercent),
			ReplacementCostMultiplier: decPtr(p.ReplacementCostMultiplier),
		},
		Model: &ModelJSON{
			AccuracyPercent:                decPtr(p.ModelAccuracyPercent),
			InterventionSuccessRatePercent: decPtr(p.InterventionSuccessRatePercent),
		},
		Investment: &InvestmentJSON{
			ImplementationCost:    decPtr(p.ImplementationCost),
			AnnualMaintenanceCost: decPtr(p.AnnualMaintenanceCost),
		},
	}
}

// MarshalScenario renders a Scenario as its stored JSON config.
func (f *ScenarioFactory) MarshalScenario(s Scenario) (string, error) {
	data, err := json.Marshal(f.ToJSON(s))
	if err != nil {
		return "", fmt.Errorf("failed to marshal scenario %q: %w", s.ID, err)
	}
	return string(data), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func setDecimal(dst *decimal.Decimal, src *decimal.Decimal) {
	if src != nil {
		*dst = *src
	}
}

func decPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
