/*
Package report formats ROI projections for people.

PURPOSE:
  The engine returns exact decimals; this package turns them into the strings
  the dashboard shows: whole-dollar currency with thousands separators, one
  decimal percentages, payback text, and truncated head counts.

DISPLAY RULES:
  Currency:  $34,177,500 / -$200,000 (rounded to whole dollars)
  Percent:   42621.9%
  Payback:   "0.1 months", "3.0 years", "10+ years" (>= 10 years or never)
  Counts:    identified / retained truncated toward zero ("697", "244")

SEE ALSO:
  - roi/types.go: Projection
  - csv.go: cash flow export
*/
package report

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/roi"
)

// PaybackCap is the payback length, in years, from which the exact figure is
// no longer shown.
const PaybackCap = 10

// NotAvailable is shown in place of an undefined ROI.
const NotAvailable = "n/a"

var paybackCap = decimal.NewFromInt(PaybackCap)

// FormatCurrency renders a whole-dollar amount with thousands separators.
func FormatCurrency(d decimal.Decimal) string {
	whole := d.Round(0)
	if whole.IsNegative() {
		return "-$" + humanize.BigComma(whole.Neg().BigInt())
	}
	return "$" + humanize.BigComma(whole.BigInt())
}

// FormatPercent renders a percentage with one decimal.
func FormatPercent(d decimal.Decimal) string {
	return d.StringFixed(1) + "%"
}

// FormatCount truncates a real-valued estimate to a whole head count.
func FormatCount(d decimal.Decimal) string {
	return humanize.BigComma(d.Truncate(0).BigInt())
}

// FormatPayback renders a payback period. Anything at or beyond PaybackCap
// years, and a payback that never happens, reads "10+ years".
func FormatPayback(p roi.Payback) string {
	capped := fmt.Sprintf("%d+ years", PaybackCap)

	switch p.Unit {
	case roi.PaybackMonths:
		return p.Value.StringFixed(1) + " months"
	case roi.PaybackYears:
		if p.Value.GreaterThanOrEqual(paybackCap) {
			return capped
		}
		return p.Value.StringFixed(1) + " years"
	default:
		return capped
	}
}

// =============================================================================
// SUMMARY - Labelled display values for one projection
// =============================================================================

// Row is one labelled figure.
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary is the calculator panel: every figure of a projection formatted
// for display.
type Summary struct {
	AnnualAttritionCost  string `json:"annual_attrition_cost"`
	CostPerAttrition     string `json:"cost_per_attrition"`
	IdentifiedAtRisk     string `json:"identified_at_risk"`
	SuccessfullyRetained string `json:"successfully_retained"`
	AnnualSavings        string `json:"annual_savings"`
	Year1NetBenefit      string `json:"year1_net_benefit"`
	FiveYearTotalBenefit string `json:"five_year_total_benefit"`
	FiveYearROI          string `json:"five_year_roi"`
	PaybackPeriod        string `json:"payback_period"`
}

// Summarize formats a projection. An undefined ROI shows as NotAvailable.
func Summarize(p *roi.Projection) Summary {
	roiText := NotAvailable
	if pct, err := p.ROIPercent(); err == nil {
		roiText = FormatPercent(pct)
	}

	return Summary{
		AnnualAttritionCost:  FormatCurrency(p.AnnualAttritionCost),
		CostPerAttrition:     FormatCurrency(p.CostPerAttrition),
		IdentifiedAtRisk:     FormatCount(p.IdentifiedAtRiskCount),
		SuccessfullyRetained: FormatCount(p.RetainedCount),
		AnnualSavings:        FormatCurrency(p.AnnualGrossSavings),
		Year1NetBenefit:      FormatCurrency(p.Year1NetBenefit),
		FiveYearTotalBenefit: FormatCurrency(p.FiveYearTotalBenefit),
		FiveYearROI:          roiText,
		PaybackPeriod:        FormatPayback(p.Payback),
	}
}

// Rows returns the summary in panel order.
func (s Summary) Rows() []Row {
	return []Row{
		{"Annual Attrition Cost", s.AnnualAttritionCost},
		{"Cost per Attrition", s.CostPerAttrition},
		{"Identified At-Risk", s.IdentifiedAtRisk},
		{"Successfully Retained", s.SuccessfullyRetained},
		{"Annual Savings", s.AnnualSavings},
		{"Year 1 Net Benefit", s.Year1NetBenefit},
		{"Total 5-Year Benefit", s.FiveYearTotalBenefit},
		{"5-Year ROI", s.FiveYearROI},
		{"Payback Period", s.PaybackPeriod},
	}
}
