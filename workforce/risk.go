package workforce

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/store"
)

// RiskLevel buckets a precomputed attrition probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ErrInvalidRiskFilter is returned for a filter value outside its domain.
var ErrInvalidRiskFilter = errors.New("invalid risk filter")

var (
	highRiskAbove   = decimal.RequireFromString("0.7")
	mediumRiskAbove = decimal.RequireFromString("0.4")

	// PredictedToLeave is the score above which an employee counts as a
	// predicted leaver.
	PredictedToLeave = decimal.RequireFromString("0.5")
)

// ClassifyRisk maps a score to its level: High above 0.7, Medium above 0.4,
// Low otherwise.
func ClassifyRisk(score decimal.Decimal) RiskLevel {
	switch {
	case score.GreaterThan(highRiskAbove):
		return RiskHigh
	case score.GreaterThan(mediumRiskAbove):
		return RiskMedium
	default:
		return RiskLow
	}
}

// ParseRiskLevel accepts a level name in any case. The empty string is not
// a level.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, l := range []RiskLevel{RiskLow, RiskMedium, RiskHigh} {
		if strings.EqualFold(s, string(l)) {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: risk level %q (want Low, Medium or High)", ErrInvalidRiskFilter, s)
}

// ValidRiskScore reports whether a score is a probability.
func ValidRiskScore(score decimal.Decimal) bool {
	return !score.IsNegative() && score.LessThanOrEqual(decimal.NewFromInt(1))
}

// =============================================================================
// PREDICTIONS
// =============================================================================

// Prediction is one scored employee.
type Prediction struct {
	Employee store.Employee
	Score    decimal.Decimal
	Level    RiskLevel
}

// Filter narrows a prediction listing. Zero fields match everything.
type Filter struct {
	Level      RiskLevel
	Department string
	MinScore   decimal.NullDecimal
}

// Validate checks the minimum score is a probability.
func (f Filter) Validate() error {
	if f.MinScore.Valid && !ValidRiskScore(f.MinScore.Decimal) {
		return fmt.Errorf("%w: min_risk %s outside [0, 1]", ErrInvalidRiskFilter, f.MinScore.Decimal)
	}
	return nil
}

func (f Filter) matches(p Prediction) bool {
	if f.Level != "" && p.Level != f.Level {
		return false
	}
	if f.Department != "" && departmentOf(p.Employee) != f.Department {
		return false
	}
	if f.MinScore.Valid && p.Score.LessThan(f.MinScore.Decimal) {
		return false
	}
	return true
}

// Predictions returns the scored employees that pass the filter, highest
// score first with ties by ID. Employees without a score are skipped.
func Predictions(employees []store.Employee, f Filter) []Prediction {
	out := make([]Prediction, 0, len(employees))
	for _, e := range employees {
		if !e.RiskScore.Valid {
			continue
		}
		p := Prediction{Employee: e, Score: e.RiskScore.Decimal, Level: ClassifyRisk(e.RiskScore.Decimal)}
		if f.matches(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Score.Equal(out[j].Score) {
			return out[i].Score.GreaterThan(out[j].Score)
		}
		return out[i].Employee.ID < out[j].Employee.ID
	})
	return out
}

// BatchSummary is the risk picture of a set of predictions.
type BatchSummary struct {
	Scored           int
	PredictedToLeave int
	AverageScore     decimal.Decimal
	MaxScore         decimal.Decimal
	LevelCounts      map[RiskLevel]int
}

// SummarizeBatch aggregates predictions. An empty batch has zero scores and
// zero counts for every level.
func SummarizeBatch(preds []Prediction) BatchSummary {
	s := BatchSummary{
		Scored:      len(preds),
		LevelCounts: map[RiskLevel]int{RiskHigh: 0, RiskMedium: 0, RiskLow: 0},
	}
	if len(preds) == 0 {
		return s
	}

	total := decimal.Zero
	for i, p := range preds {
		total = total.Add(p.Score)
		if i == 0 || p.Score.GreaterThan(s.MaxScore) {
			s.MaxScore = p.Score
		}
		if p.Score.GreaterThan(PredictedToLeave) {
			s.PredictedToLeave++
		}
		s.LevelCounts[p.Level]++
	}
	s.AverageScore = total.Div(decimal.NewFromInt(int64(len(preds))))
	return s
}

func departmentOf(e store.Employee) string {
	if e.Department == "" {
		return UnassignedDepartment
	}
	return e.Department
}
