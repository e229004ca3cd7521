package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/attrition-engine/factory"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalculate_TextDefaults(t *testing.T) {
	out, err := execute(t, "calculate")
	require.NoError(t, err)

	assert.Contains(t, out, "Calculator defaults")
	assert.Contains(t, out, "$34,177,500")
	assert.Contains(t, out, "42621.9%")
	assert.Contains(t, out, "0.1 months")
	assert.Contains(t, out, "Year 5")
}

func TestCalculate_CSV(t *testing.T) {
	out, err := execute(t, "calculate", "--format", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "5,34127500.00,170487500.00", lines[5])
}

func TestCalculate_FlagsOverridePreset(t *testing.T) {
	// GIVEN: The no-model preset (never pays back)
	// WHEN: Overriding accuracy back to 93
	// THEN: The projection matches the calculator defaults

	out, err := execute(t, "calculate", "--preset", factory.PresetNoModel, "--accuracy", "93", "--format", "json")
	require.NoError(t, err)

	var got calculateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.ROIDefined)
	assert.Equal(t, "$34,177,500", got.Summary.AnnualSavings)
	assert.Equal(t, "33977500.00", got.Cashflows[0].AnnualNetBenefit)
}

func TestCalculate_ZeroInvestmentIsNotAnError(t *testing.T) {
	out, err := execute(t, "calculate", "--preset", factory.PresetZeroInvestment, "--format", "json")
	require.NoError(t, err)

	var got calculateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.False(t, got.ROIDefined)
	assert.Equal(t, "n/a", got.Summary.FiveYearROI)
}

func TestCalculate_ScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"id":"small","name":"Small Org","workforce":{"total_employees":100}}`), 0644))

	out, err := execute(t, "calculate", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Small Org")
	// 100 × 15% = 15 departures × 140,000
	assert.Contains(t, out, "$2,100,000")
}

func TestCalculate_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"invalid accuracy", []string{"calculate", "--accuracy", "101"}},
		{"unknown preset", []string{"calculate", "--preset", "report-v9"}},
		{"unknown format", []string{"calculate", "--format", "xml"}},
		{"preset and file", []string{"calculate", "--preset", "report-v1", "--file", "x.json"}},
		{"missing file", []string{"calculate", "--file", filepath.Join(t.TempDir(), "absent.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestPresets_ListsAll(t *testing.T) {
	out, err := execute(t, "presets")
	require.NoError(t, err)

	for _, id := range []string{factory.PresetReportV1, factory.PresetReportV2, factory.PresetNoModel, factory.PresetZeroInvestment} {
		assert.Contains(t, out, id)
	}
	assert.Contains(t, out, "n/a")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "roi version "+Version+"\n", out)
}
