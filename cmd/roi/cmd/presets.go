package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warp/attrition-engine/factory"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
)

func newPresetsCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List built-in scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := factory.NewScenarioFactory(root.cfg.Defaults.Parameters())
			presets, err := f.Presets()
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(titleStyle.Render("Built-in scenarios"))
			b.WriteString("\n")
			for _, s := range presets {
				roiText := report.NotAvailable
				proj, err := roi.Compute(s.Parameters)
				if err == nil {
					roiText = report.FormatPercent(proj.FiveYearROIPercent)
				}
				fmt.Fprintf(&b, "%s %s\n  %s\n",
					labelStyle.Render(s.ID),
					valueStyle.Render(roiText),
					s.Description)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), b.String())
			return err
		},
	}
}
