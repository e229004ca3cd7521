package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/warp/attrition-engine/report"
	"github.com/warp/attrition-engine/roi"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true).
			MarginBottom(1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Width(24)

	valueStyle = lipgloss.NewStyle().
			Width(18).
			Align(lipgloss.Right)

	negativeStyle = valueStyle.
			Foreground(lipgloss.Color("#FF5F87"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
)

// renderProjection draws the calculator panel and the cash flow table.
func renderProjection(name string, p *roi.Projection) string {
	summary := report.Summarize(p)

	var rows []string
	for _, r := range summary.Rows() {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(r.Label), valueStyle.Render(r.Value)))
	}

	var flows []string
	flows = append(flows, lipgloss.JoinHorizontal(lipgloss.Top,
		labelStyle.Render("Year"),
		valueStyle.Render("Annual Net"),
		valueStyle.Render("Cumulative")))
	for i := 0; i < roi.Horizon; i++ {
		flows = append(flows, lipgloss.JoinHorizontal(lipgloss.Top,
			labelStyle.Render(fmt.Sprintf("Year %d", i+1)),
			money(p.YearlyCashflows[i].IsNegative(), report.FormatCurrency(p.YearlyCashflows[i])),
			money(p.CumulativeCashflows[i].IsNegative(), report.FormatCurrency(p.CumulativeCashflows[i]))))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("ROI Projection: " + name))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n\n")
	b.WriteString(sectionStyle.Render("5-Year Cash Flow Projection"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(strings.Join(flows, "\n")))
	b.WriteString("\n")
	return b.String()
}

func money(negative bool, s string) string {
	if negative {
		return negativeStyle.Render(s)
	}
	return valueStyle.Render(s)
}
