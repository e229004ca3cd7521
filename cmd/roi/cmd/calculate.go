// Package cmd - calculate command
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/internal/logging"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
	"go.uber.org/zap"
)

type calculateOptions struct {
	*rootOptions

	preset string
	file   string
	format string

	employees             int
	salary                float64
	attritionRate         float64
	replacementMultiplier float64
	accuracy              float64
	successRate           float64
	implementationCost    float64
	maintenanceCost       float64
}

func newCalculateCmd(root *rootOptions) *cobra.Command {
	opts := &calculateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Compute a five-year ROI projection",
		Long: `Compute a projection from the configured defaults, a preset or a scenario
file, with any parameter flags applied on top.

Examples:
  roi calculate --employees 1200 --salary 65000
  roi calculate --preset no-model
  roi calculate --file scenario.json --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.preset, "preset", "p", "", "start from a built-in scenario (see 'roi presets')")
	f.StringVar(&opts.file, "file", "", "start from a scenario JSON file")
	f.StringVarP(&opts.format, "format", "f", "text", "output format (text, json, csv)")

	f.IntVar(&opts.employees, "employees", 0, "total employees")
	f.Float64Var(&opts.salary, "salary", 0, "average annual salary")
	f.Float64Var(&opts.attritionRate, "attrition-rate", 0, "current attrition rate (%)")
	f.Float64Var(&opts.replacementMultiplier, "replacement-multiplier", 0, "replacement cost as a multiple of salary")
	f.Float64Var(&opts.accuracy, "accuracy", 0, "model accuracy (%)")
	f.Float64Var(&opts.successRate, "success-rate", 0, "intervention success rate (%)")
	f.Float64Var(&opts.implementationCost, "implementation-cost", 0, "one-off implementation cost")
	f.Float64Var(&opts.maintenanceCost, "maintenance-cost", 0, "annual maintenance cost")

	cmd.MarkFlagsMutuallyExclusive("preset", "file")
	return cmd
}

func (o *calculateOptions) run(cmd *cobra.Command) error {
	switch o.format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("unknown format %q (want text, json or csv)", o.format)
	}

	scenario, err := o.baseScenario()
	if err != nil {
		return err
	}
	scenario.Parameters = o.applyFlags(cmd.Flags(), scenario.Parameters)

	proj, err := roi.Compute(scenario.Parameters)
	if err != nil && !errors.Is(err, roi.ErrUndefinedROI) {
		return err
	}
	if err != nil {
		logging.Warn("roi undefined", zap.Error(err))
	}
	logging.Debug("projection computed",
		zap.String("scenario", scenario.ID),
		zap.String("annual_savings", proj.AnnualGrossSavings.String()))

	out := cmd.OutOrStdout()
	switch o.format {
	case "json":
		return writeJSON(out, *scenario, proj)
	case "csv":
		return report.WriteCashflowCSV(out, proj)
	default:
		_, err := io.WriteString(out, renderProjection(scenario.Name, proj))
		return err
	}
}

func (o *calculateOptions) baseScenario() (*factory.Scenario, error) {
	f := factory.NewScenarioFactory(o.cfg.Defaults.Parameters())

	switch {
	case o.preset != "":
		return f.Preset(o.preset)
	case o.file != "":
		data, err := os.ReadFile(o.file)
		if err != nil {
			return nil, fmt.Errorf("reading scenario: %w", err)
		}
		return f.ParseScenario(string(data))
	default:
		return &factory.Scenario{ID: "defaults", Name: "Calculator defaults", Parameters: f.Defaults}, nil
	}
}

// applyFlags overrides only the parameters set on the command line.
func (o *calculateOptions) applyFlags(flags *pflag.FlagSet, p roi.Parameters) roi.Parameters {
	if flags.Changed("employees") {
		p.TotalEmployees = o.employees
	}
	decimals := []struct {
		flag string
		val  float64
		dst  *decimal.Decimal
	}{
		{"salary", o.salary, &p.AverageAnnualSalary},
		{"attrition-rate", o.attritionRate, &p.CurrentAttritionRatePercent},
		{"replacement-multiplier", o.replacementMultiplier, &p.ReplacementCostMultiplier},
		{"accuracy", o.accuracy, &p.ModelAccuracyPercent},
		{"success-rate", o.successRate, &p.InterventionSuccessRatePercent},
		{"implementation-cost", o.implementationCost, &p.ImplementationCost},
		{"maintenance-cost", o.maintenanceCost, &p.AnnualMaintenanceCost},
	}
	for _, d := range decimals {
		if flags.Changed(d.flag) {
			*d.dst = roi.Dec(d.val)
		}
	}
	return p
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

type cashflowRow struct {
	Year              int    `json:"year"`
	AnnualNetBenefit  string `json:"annual_net_benefit"`
	CumulativeBenefit string `json:"cumulative_benefit"`
}

type calculateOutput struct {
	Scenario   factory.ScenarioJSON `json:"scenario"`
	ROIDefined bool                 `json:"roi_defined"`
	Summary    report.Summary       `json:"summary"`
	Cashflows  []cashflowRow        `json:"cashflows"`
}

func writeJSON(w io.Writer, s factory.Scenario, p *roi.Projection) error {
	out := calculateOutput{
		Scenario:   factory.NewScenarioFactory(s.Parameters).ToJSON(s),
		ROIDefined: p.ROIDefined,
		Summary:    report.Summarize(p),
		Cashflows:  make([]cashflowRow, roi.Horizon),
	}
	for i := range out.Cashflows {
		out.Cashflows[i] = cashflowRow{
			Year:              i + 1,
			AnnualNetBenefit:  p.YearlyCashflows[i].StringFixed(2),
			CumulativeBenefit: p.CumulativeCashflows[i].StringFixed(2),
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
