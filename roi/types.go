/*
Package roi provides the financial projection engine for the attrition
prediction programme.

PURPOSE:
  Maps a fixed set of business and model parameters to a five-year
  projection: the attrition cost baseline, the savings a prediction-driven
  retention programme produces, year-by-year net benefit, cumulative benefit,
  ROI percentage and payback period.

KEY CONCEPTS IN THIS FILE (types.go):
  - Parameters: caller-supplied inputs for one calculation
  - Projection: fully derived output, no hidden state
  - Payback:    time to recover the one-time cost, with its unit

DESIGN PRINCIPLES:
  1. Purity: no I/O, no logging, no clock, no randomness
  2. Precision: uses decimal.Decimal so report figures are exact
  3. Fixed horizon: five years, enforced by array types

USAGE:
  proj, err := roi.Compute(roi.Parameters{
      TotalEmployees:                 5000,
      AverageAnnualSalary:            roi.Dec(70000),
      CurrentAttritionRatePercent:    roi.Dec(15),
      ReplacementCostMultiplier:      roi.Dec(1.5),
      ModelAccuracyPercent:           roi.Dec(93),
      InterventionSuccessRatePercent: roi.Dec(35),
      ImplementationCost:             roi.Dec(150000),
      AnnualMaintenanceCost:          roi.Dec(50000),
  })

SEE ALSO:
  - projection.go: Compute and the formula chain
  - errors.go: InvalidParameterError, UndefinedROIError
  - report/format.go: display formatting of a Projection
*/
package roi

import (
	"github.com/shopspring/decimal"
)

// Horizon is the number of years covered by a projection.
const Horizon = 5

// ProductivityLossFactor is the share of annual salary lost to reduced
// productivity for every departure. Not configurable.
var ProductivityLossFactor = decimal.RequireFromString("0.5")

var (
	hundred        = decimal.NewFromInt(100)
	monthsPerYear  = decimal.NewFromInt(12)
	horizonDecimal = decimal.NewFromInt(Horizon)
)

// Dec converts a float to a decimal. Shorthand for callers building
// Parameters by hand.
func Dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// =============================================================================
// PARAMETERS - Inputs for one calculation
// =============================================================================

// Parameters are the inputs of one ROI calculation. They are immutable for
// the duration of a call.
type Parameters struct {
	TotalEmployees                 int
	AverageAnnualSalary            decimal.Decimal
	CurrentAttritionRatePercent    decimal.Decimal
	ReplacementCostMultiplier      decimal.Decimal
	ModelAccuracyPercent           decimal.Decimal
	InterventionSuccessRatePercent decimal.Decimal
	ImplementationCost             decimal.Decimal
	AnnualMaintenanceCost          decimal.Decimal
}

// TotalInvestment is the implementation cost plus five years of maintenance.
func (p Parameters) TotalInvestment() decimal.Decimal {
	return p.ImplementationCost.Add(p.AnnualMaintenanceCost.Mul(horizonDecimal))
}

// =============================================================================
// PAYBACK
// =============================================================================

type PaybackUnit string

const (
	PaybackMonths PaybackUnit = "months"
	PaybackYears  PaybackUnit = "years"
	PaybackNever  PaybackUnit = "never" // net benefit never turns positive
)

// Payback is the time needed to recover the implementation cost.
// Value is zero when Unit is PaybackNever.
type Payback struct {
	Value decimal.Decimal
	Unit  PaybackUnit
}

// Bounded reports whether the investment is ever recovered.
func (p Payback) Bounded() bool { return p.Unit != PaybackNever }

// Years returns the payback period expressed in years. The second return
// value is false for an unbounded payback.
func (p Payback) Years() (decimal.Decimal, bool) {
	switch p.Unit {
	case PaybackMonths:
		return p.Value.Div(monthsPerYear), true
	case PaybackYears:
		return p.Value, true
	default:
		return decimal.Zero, false
	}
}

// =============================================================================
// PROJECTION - Derived output
// =============================================================================

// Projection is the full result of Compute. Counts derived from
// percentages (IdentifiedAtRiskCount, RetainedCount) stay real-valued;
// truncation for display belongs to the report layer.
type Projection struct {
	Parameters Parameters

	// Attrition baseline
	AnnualAttritionCount int64
	CostPerAttrition     decimal.Decimal
	AnnualAttritionCost  decimal.Decimal

	// Programme impact
	IdentifiedAtRiskCount decimal.Decimal
	RetainedCount         decimal.Decimal
	AnnualGrossSavings    decimal.Decimal

	// Net benefit
	Year1NetBenefit             decimal.Decimal
	SteadyStateAnnualNetBenefit decimal.Decimal
	FiveYearTotalBenefit        decimal.Decimal
	TotalInvestment             decimal.Decimal

	// FiveYearROIPercent is only meaningful when ROIDefined is true.
	// Use ROIPercent to read it safely.
	FiveYearROIPercent decimal.Decimal
	ROIDefined         bool

	Payback Payback

	// Index 0 is year 1 (implementation cost subtracted), 1-4 steady state.
	YearlyCashflows     [Horizon]decimal.Decimal
	CumulativeCashflows [Horizon]decimal.Decimal
}

// ROIPercent returns the five-year ROI, or an *UndefinedROIError when the
// total investment is zero.
func (p *Projection) ROIPercent() (decimal.Decimal, error) {
	if !p.ROIDefined {
		return decimal.Zero, &UndefinedROIError{
			ImplementationCost:    p.Parameters.ImplementationCost,
			AnnualMaintenanceCost: p.Parameters.AnnualMaintenanceCost,
		}
	}
	return p.FiveYearROIPercent, nil
}
