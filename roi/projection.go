/*
projection.go - Five-year ROI projection

PURPOSE:
  Runs the formula chain from attrition cost to payback period. This is the
  single source of truth for the calculator; the report and API layers only
  format what Compute returns.

FORMULA CHAIN:
  1. attrition count    = floor(employees × rate / 100)
  2. cost per attrition = salary × multiplier + salary × 0.5
  3. attrition cost     = count × cost per attrition
  4. identified         = count × accuracy / 100          (kept real-valued)
  5. retained           = identified × success / 100      (kept real-valued)
  6. gross savings      = retained × cost per attrition
  7. year 1 net         = savings - implementation - maintenance
  8. steady state net   = savings - maintenance           (years 2..5)
  9. cash flows         = [year 1, steady × 4], cumulative = prefix sums
 10. ROI %              = cumulative[4] / (implementation + maintenance × 5) × 100

  Savings do not decay and salaries do not inflate across years. Steady-state
  years are identical by construction.

PAYBACK:
  year 1 net > 0:       implementation / (gross savings / 12) months.
                        Maintenance is ignored here; report values depend on it.
  steady state net > 0: implementation / steady state net years.
  otherwise:            PaybackNever.

SEE ALSO:
  - types.go: Parameters, Projection, Payback
  - errors.go: error taxonomy
*/
package roi

import (
	"github.com/shopspring/decimal"
)

// Validate checks every parameter against its domain and returns the first
// violation as an *InvalidParameterError.
func (p Parameters) Validate() error {
	if p.TotalEmployees <= 0 {
		return &InvalidParameterError{
			Field:  "total_employees",
			Value:  decimal.NewFromInt(int64(p.TotalEmployees)).String(),
			Reason: "must be positive",
		}
	}
	if !p.AverageAnnualSalary.IsPositive() {
		return invalid("average_annual_salary", p.AverageAnnualSalary, "must be positive")
	}

	percents := []struct {
		field string
		value decimal.Decimal
	}{
		{"current_attrition_rate_percent", p.CurrentAttritionRatePercent},
		{"model_accuracy_percent", p.ModelAccuracyPercent},
		{"intervention_success_rate_percent", p.InterventionSuccessRatePercent},
	}
	for _, pc := range percents {
		if pc.value.IsNegative() || pc.value.GreaterThan(hundred) {
			return invalid(pc.field, pc.value, "must be within [0, 100]")
		}
	}

	nonNegative := []struct {
		field string
		value decimal.Decimal
	}{
		{"replacement_cost_multiplier", p.ReplacementCostMultiplier},
		{"implementation_cost", p.ImplementationCost},
		{"annual_maintenance_cost", p.AnnualMaintenanceCost},
	}
	for _, nn := range nonNegative {
		if nn.value.IsNegative() {
			return invalid(nn.field, nn.value, "must not be negative")
		}
	}
	return nil
}

func invalid(field string, value decimal.Decimal, reason string) *InvalidParameterError {
	return &InvalidParameterError{Field: field, Value: value.String(), Reason: reason}
}

// Compute runs the projection.
//
// An invalid parameter returns (nil, *InvalidParameterError). A zero total
// investment returns the populated projection together with an
// *UndefinedROIError; ROIDefined is false and FiveYearROIPercent is zero.
func Compute(params Parameters) (*Projection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	salary := params.AverageAnnualSalary

	// 1-3. Attrition baseline
	attritionCount := decimal.NewFromInt(int64(params.TotalEmployees)).
		Mul(params.CurrentAttritionRatePercent).
		Div(hundred).
		Floor()
	replacementCost := salary.Mul(params.ReplacementCostMultiplier)
	productivityLoss := salary.Mul(ProductivityLossFactor)
	costPerAttrition := replacementCost.Add(productivityLoss)
	attritionCost := attritionCount.Mul(costPerAttrition)

	// 4-6. Programme impact
	identified := attritionCount.Mul(params.ModelAccuracyPercent.Div(hundred))
	retained := identified.Mul(params.InterventionSuccessRatePercent.Div(hundred))
	grossSavings := retained.Mul(costPerAttrition)

	// 7-8. Net benefit
	year1 := grossSavings.Sub(params.ImplementationCost).Sub(params.AnnualMaintenanceCost)
	steady := grossSavings.Sub(params.AnnualMaintenanceCost)

	proj := &Projection{
		Parameters:                  params,
		AnnualAttritionCount:        attritionCount.IntPart(),
		CostPerAttrition:            costPerAttrition,
		AnnualAttritionCost:         attritionCost,
		IdentifiedAtRiskCount:       identified,
		RetainedCount:               retained,
		AnnualGrossSavings:          grossSavings,
		Year1NetBenefit:             year1,
		SteadyStateAnnualNetBenefit: steady,
		TotalInvestment:             params.TotalInvestment(),
	}

	// 9-11. Cash flows
	proj.YearlyCashflows[0] = year1
	for i := 1; i < Horizon; i++ {
		proj.YearlyCashflows[i] = steady
	}
	running := decimal.Zero
	for i, cf := range proj.YearlyCashflows {
		running = running.Add(cf)
		proj.CumulativeCashflows[i] = running
	}
	proj.FiveYearTotalBenefit = proj.CumulativeCashflows[Horizon-1]

	proj.Payback = payback(params.ImplementationCost, grossSavings, year1, steady)

	// 12. ROI
	if proj.TotalInvestment.IsZero() {
		return proj, &UndefinedROIError{
			ImplementationCost:    params.ImplementationCost,
			AnnualMaintenanceCost: params.AnnualMaintenanceCost,
		}
	}
	proj.FiveYearROIPercent = proj.FiveYearTotalBenefit.Div(proj.TotalInvestment).Mul(hundred)
	proj.ROIDefined = true

	return proj, nil
}

func payback(implementation, grossSavings, year1, steady decimal.Decimal) Payback {
	switch {
	case year1.IsPositive():
		// year1 > 0 with non-negative costs implies grossSavings > 0.
		monthlySavings := grossSavings.Div(monthsPerYear)
		return Payback{Value: implementation.Div(monthlySavings), Unit: PaybackMonths}
	case steady.IsPositive():
		return Payback{Value: implementation.Div(steady), Unit: PaybackYears}
	default:
		return Payback{Value: decimal.Zero, Unit: PaybackNever}
	}
}
