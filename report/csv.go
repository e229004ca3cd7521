package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/workforce"
)

// CashflowHeader is the header row of the cash flow export.
var CashflowHeader = []string{"year", "annual_net_benefit", "cumulative_benefit"}

// WriteCashflowCSV writes the five-year cash flow table, one row per year.
// Amounts keep two decimals so the export sums back to the projection.
func WriteCashflowCSV(w io.Writer, p *roi.Projection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CashflowHeader); err != nil {
		return err
	}
	for i := 0; i < roi.Horizon; i++ {
		row := []string{
			strconv.Itoa(i + 1),
			p.YearlyCashflows[i].StringFixed(2),
			p.CumulativeCashflows[i].StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// PredictionHeader is the header row of the risk prediction export.
var PredictionHeader = []string{"employee_id", "name", "department", "risk_score", "risk_level", "attrited"}

// WritePredictionsCSV writes one row per scored employee, in the order given.
func WritePredictionsCSV(w io.Writer, preds []workforce.Prediction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PredictionHeader); err != nil {
		return err
	}
	for _, p := range preds {
		row := []string{
			p.Employee.ID,
			p.Employee.Name,
			p.Employee.Department,
			p.Score.StringFixed(3),
			string(p.Level),
			strconv.FormatBool(p.Employee.Attrited),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
