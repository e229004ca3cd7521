package roi_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attrition-engine/roi"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// scenarioA is the calculator's default form: 5000 employees, 15% attrition,
// 93% accuracy, 35% intervention success.
func scenarioA() roi.Parameters {
	return roi.Parameters{
		TotalEmployees:                 5000,
		AverageAnnualSalary:            roi.Dec(70000),
		CurrentAttritionRatePercent:    roi.Dec(15.0),
		ReplacementCostMultiplier:      roi.Dec(1.5),
		ModelAccuracyPercent:           roi.Dec(93.0),
		InterventionSuccessRatePercent: roi.Dec(35.0),
		ImplementationCost:             roi.Dec(150000),
		AnnualMaintenanceCost:          roi.Dec(50000),
	}
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got),
		append([]any{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// =============================================================================
// SCENARIO TESTS
// =============================================================================

func TestCompute_ScenarioA_DefaultForm(t *testing.T) {
	// GIVEN: The calculator's default parameters
	// WHEN: Computing the projection
	// THEN: Every intermediate figure matches the published report values

	proj, err := roi.Compute(scenarioA())
	require.NoError(t, err)

	assert.Equal(t, int64(750), proj.AnnualAttritionCount)
	assertDec(t, "140000", proj.CostPerAttrition)
	assertDec(t, "105000000", proj.AnnualAttritionCost)
	assertDec(t, "697.5", proj.IdentifiedAtRiskCount)
	assertDec(t, "244.125", proj.RetainedCount)
	assertDec(t, "34177500", proj.AnnualGrossSavings)
	assertDec(t, "33977500", proj.Year1NetBenefit)
	assertDec(t, "34127500", proj.SteadyStateAnnualNetBenefit)
	assertDec(t, "170487500", proj.FiveYearTotalBenefit)
	assertDec(t, "400000", proj.TotalInvestment)

	roiPct, err := proj.ROIPercent()
	require.NoError(t, err)
	assertDec(t, "42621.875", roiPct)
	assert.True(t, proj.ROIDefined)

	// Payback inside year 1 is reported in months from gross savings alone.
	assert.Equal(t, roi.PaybackMonths, proj.Payback.Unit)
	assertDec(t, "0.0527", proj.Payback.Value.Round(4))
}

func TestCompute_ScenarioB_ZeroAccuracyNeverPaysBack(t *testing.T) {
	// GIVEN: Scenario A with a model that identifies nobody
	params := scenarioA()
	params.ModelAccuracyPercent = decimal.Zero

	// WHEN: Computing the projection
	proj, err := roi.Compute(params)
	require.NoError(t, err)

	// THEN: No savings, year 1 carries both costs, payback is unbounded
	assert.True(t, proj.AnnualGrossSavings.IsZero())
	assertDec(t, "-200000", proj.Year1NetBenefit)
	assertDec(t, "-50000", proj.SteadyStateAnnualNetBenefit)
	assert.Equal(t, roi.PaybackNever, proj.Payback.Unit)
	assert.False(t, proj.Payback.Bounded())

	_, ok := proj.Payback.Years()
	assert.False(t, ok)
}

func TestCompute_ScenarioC_ZeroInvestmentIsUndefinedROI(t *testing.T) {
	// GIVEN: Scenario A with no implementation or maintenance cost
	params := scenarioA()
	params.ImplementationCost = decimal.Zero
	params.AnnualMaintenanceCost = decimal.Zero

	// WHEN: Computing the projection
	proj, err := roi.Compute(params)

	// THEN: UndefinedROIError, but the rest of the projection is populated
	require.Error(t, err)
	var undefined *roi.UndefinedROIError
	require.ErrorAs(t, err, &undefined)
	assert.True(t, errors.Is(err, roi.ErrUndefinedROI))
	assert.True(t, roi.IsClientError(err))

	require.NotNil(t, proj)
	assert.False(t, proj.ROIDefined)
	assertDec(t, "34177500", proj.FiveYearTotalBenefit.Div(decimal.NewFromInt(5)))
	assert.Equal(t, roi.PaybackMonths, proj.Payback.Unit)
	assert.True(t, proj.Payback.Value.IsZero())

	_, err = proj.ROIPercent()
	assert.ErrorIs(t, err, roi.ErrUndefinedROI)
}

// =============================================================================
// INVARIANT TESTS
// =============================================================================

func TestCompute_CashflowInvariants(t *testing.T) {
	cases := map[string]func(p *roi.Parameters){
		"default":           func(p *roi.Parameters) {},
		"no maintenance":    func(p *roi.Parameters) { p.AnnualMaintenanceCost = decimal.Zero },
		"weak model":        func(p *roi.Parameters) { p.ModelAccuracyPercent = roi.Dec(12.5) },
		"expensive rollout": func(p *roi.Parameters) { p.ImplementationCost = roi.Dec(90000000) },
		"odd headcount": func(p *roi.Parameters) {
			p.TotalEmployees = 1337
			p.CurrentAttritionRatePercent = roi.Dec(7.3)
		},
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			params := scenarioA()
			mutate(&params)

			proj, err := roi.Compute(params)
			require.NoError(t, err)

			require.Len(t, proj.YearlyCashflows, roi.Horizon)
			require.Len(t, proj.CumulativeCashflows, roi.Horizon)

			running := decimal.Zero
			for i := range proj.YearlyCashflows {
				running = running.Add(proj.YearlyCashflows[i])
				assert.True(t, running.Equal(proj.CumulativeCashflows[i]), "prefix sum at year %d", i+1)
			}
			assert.True(t, proj.CumulativeCashflows[roi.Horizon-1].Equal(proj.FiveYearTotalBenefit))

			for i := 2; i < roi.Horizon; i++ {
				assert.True(t, proj.YearlyCashflows[1].Equal(proj.YearlyCashflows[i]), "steady year %d", i+1)
			}
			assert.True(t, proj.YearlyCashflows[0].Equal(proj.Year1NetBenefit))
			assert.True(t, proj.YearlyCashflows[1].Equal(proj.SteadyStateAnnualNetBenefit))
		})
	}
}

func TestCompute_CostPerAttritionIncludesHalfSalary(t *testing.T) {
	params := scenarioA()
	params.ReplacementCostMultiplier = decimal.Zero

	proj, err := roi.Compute(params)
	require.NoError(t, err)

	assertDec(t, "35000", proj.CostPerAttrition)
}

func TestCompute_AttritionCountTruncates(t *testing.T) {
	// 1337 × 7.3% = 97.601 → 97
	params := scenarioA()
	params.TotalEmployees = 1337
	params.CurrentAttritionRatePercent = roi.Dec(7.3)

	proj, err := roi.Compute(params)
	require.NoError(t, err)

	assert.Equal(t, int64(97), proj.AnnualAttritionCount)
}

func TestCompute_Idempotent(t *testing.T) {
	first, err := roi.Compute(scenarioA())
	require.NoError(t, err)
	second, err := roi.Compute(scenarioA())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_ZeroRatesMeanNoSavings(t *testing.T) {
	cases := map[string]func(p *roi.Parameters){
		"zero accuracy": func(p *roi.Parameters) { p.ModelAccuracyPercent = decimal.Zero },
		"zero success":  func(p *roi.Parameters) { p.InterventionSuccessRatePercent = decimal.Zero },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			params := scenarioA()
			mutate(&params)

			proj, err := roi.Compute(params)
			require.NoError(t, err)

			assert.True(t, proj.AnnualGrossSavings.IsZero())
			want := params.ImplementationCost.Add(params.AnnualMaintenanceCost).Neg()
			assert.True(t, want.Equal(proj.Year1NetBenefit))
		})
	}
}

// =============================================================================
// PAYBACK TESTS
// =============================================================================

func TestCompute_PaybackInYears(t *testing.T) {
	// GIVEN: Year 1 is negative but steady state is positive
	// 100 employees × 10% = 10 departures at 20000 each (15000 replacement + 5000 lost productivity)
	// 10 × 50% × 50% = 2.5 retained → savings 50000
	// year 1 = 50000 - 120000 - 10000 = -80000, steady = 40000
	params := roi.Parameters{
		TotalEmployees:                 100,
		AverageAnnualSalary:            roi.Dec(10000),
		CurrentAttritionRatePercent:    roi.Dec(10),
		ReplacementCostMultiplier:      roi.Dec(1.5),
		ModelAccuracyPercent:           roi.Dec(50),
		InterventionSuccessRatePercent: roi.Dec(50),
		ImplementationCost:             roi.Dec(120000),
		AnnualMaintenanceCost:          roi.Dec(10000),
	}

	proj, err := roi.Compute(params)
	require.NoError(t, err)

	assertDec(t, "50000", proj.AnnualGrossSavings)
	assertDec(t, "-80000", proj.Year1NetBenefit)
	assertDec(t, "40000", proj.SteadyStateAnnualNetBenefit)
	assert.Equal(t, roi.PaybackYears, proj.Payback.Unit)
	assertDec(t, "3", proj.Payback.Value)

	years, ok := proj.Payback.Years()
	assert.True(t, ok)
	assertDec(t, "3", years)
}

func TestPayback_MonthsConvertToYears(t *testing.T) {
	p := roi.Payback{Value: decimal.NewFromInt(6), Unit: roi.PaybackMonths}

	years, ok := p.Years()
	assert.True(t, ok)
	assertDec(t, "0.5", years)
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestCompute_InvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(p *roi.Parameters)
		field  string
	}{
		{"zero employees", func(p *roi.Parameters) { p.TotalEmployees = 0 }, "total_employees"},
		{"negative employees", func(p *roi.Parameters) { p.TotalEmployees = -5 }, "total_employees"},
		{"zero salary", func(p *roi.Parameters) { p.AverageAnnualSalary = decimal.Zero }, "average_annual_salary"},
		{"attrition above 100", func(p *roi.Parameters) { p.CurrentAttritionRatePercent = roi.Dec(100.5) }, "current_attrition_rate_percent"},
		{"negative accuracy", func(p *roi.Parameters) { p.ModelAccuracyPercent = roi.Dec(-1) }, "model_accuracy_percent"},
		{"success above 100", func(p *roi.Parameters) { p.InterventionSuccessRatePercent = roi.Dec(101) }, "intervention_success_rate_percent"},
		{"negative multiplier", func(p *roi.Parameters) { p.ReplacementCostMultiplier = roi.Dec(-0.1) }, "replacement_cost_multiplier"},
		{"negative implementation", func(p *roi.Parameters) { p.ImplementationCost = roi.Dec(-1) }, "implementation_cost"},
		{"negative maintenance", func(p *roi.Parameters) { p.AnnualMaintenanceCost = roi.Dec(-1) }, "annual_maintenance_cost"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			params := scenarioA()
			tc.mutate(&params)

			proj, err := roi.Compute(params)

			assert.Nil(t, proj, "no partial result on invalid input")
			var invalid *roi.InvalidParameterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
			assert.ErrorIs(t, err, roi.ErrInvalidParameter)
		})
	}
}

func TestValidate_BoundariesAccepted(t *testing.T) {
	params := scenarioA()
	params.CurrentAttritionRatePercent = roi.Dec(100)
	params.ModelAccuracyPercent = roi.Dec(0)
	params.InterventionSuccessRatePercent = roi.Dec(100)
	params.ReplacementCostMultiplier = decimal.Zero

	assert.NoError(t, params.Validate())
}

func TestTotalInvestment(t *testing.T) {
	assertDec(t, "400000", scenarioA().TotalInvestment())
}
