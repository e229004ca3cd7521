/*
presets.go - Built-in scenario configurations

PURPOSE:
  Ready-to-use scenarios for the two report iterations and the two boundary
  cases finance asks about. The report iterations differ only in model
  accuracy; everything else is the calculator default.

AVAILABLE PRESETS:
  report-v1:       93.0% accuracy (first model comparison)
  report-v2:       96.4% accuracy (revised model comparison)
  no-model:        0% accuracy, shows a programme that never pays back
  zero-investment: no implementation or maintenance cost, ROI undefined

SEE ALSO:
  - scenario.go: JSON schema and factory
*/
package factory

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrUnknownPreset is returned by Preset for an unrecognised ID.
var ErrUnknownPreset = errors.New("unknown preset")

const (
	PresetReportV1       = "report-v1"
	PresetReportV2       = "report-v2"
	PresetNoModel        = "no-model"
	PresetZeroInvestment = "zero-investment"
)

// ReportScenarioJSON returns a scenario that overrides only model accuracy.
func ReportScenarioJSON(id, name string, accuracyPercent float64) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"description": "Calculator defaults with %.1f%% model accuracy",
		"model": {"accuracy_percent": %s}
	}`, id, name, accuracyPercent, decimal.NewFromFloat(accuracyPercent).String())
}

// ZeroInvestmentScenarioJSON returns a scenario with no programme cost.
func ZeroInvestmentScenarioJSON(id, name string) string {
	return fmt.Sprintf(`{
		"id": %q,
		"name": %q,
		"description": "Programme run at no cost; ROI is undefined",
		"investment": {"implementation_cost": 0, "annual_maintenance_cost": 0}
	}`, id, name)
}

// PresetJSON returns the JSON of every built-in scenario, in display order.
func PresetJSON() []string {
	return []string{
		ReportScenarioJSON(PresetReportV1, "Report v1", 93.0),
		ReportScenarioJSON(PresetReportV2, "Report v2", 96.4),
		ReportScenarioJSON(PresetNoModel, "No Model", 0),
		ZeroInvestmentScenarioJSON(PresetZeroInvestment, "Zero Investment"),
	}
}

// Presets parses every built-in scenario against the factory defaults.
func (f *ScenarioFactory) Presets() ([]Scenario, error) {
	raw := PresetJSON()
	out := make([]Scenario, 0, len(raw))
	for _, js := range raw {
		s, err := f.ParseScenario(js)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

// Preset returns one built-in scenario by ID.
func (f *ScenarioFactory) Preset(id string) (*Scenario, error) {
	presets, err := f.Presets()
	if err != nil {
		return nil, err
	}
	for i := range presets {
		if presets[i].ID == id {
			return &presets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, id)
}
