/*
Package workforce summarises employee records for the executive dashboard
and feeds them into the ROI calculator.

PURPOSE:
  The dashboard's headline numbers (head count, attrition rate, the
  department ranking) come from stored employee records. The same summary
  can replace the workforce half of an ROI parameter set, so the calculator
  runs on the organisation's actual figures instead of form defaults.

  Employees may also carry a precomputed risk score. risk.go classifies
  scores into Low/Medium/High, filters the scored employees and summarises
  a batch of predictions.

SEE ALSO:
  - store/store.go: Employee record
  - roi/types.go: Parameters
*/
package workforce

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/roi"
	"github.com/warp/attrition-engine/store"
)

// ErrEmptyWorkforce is returned when parameters are derived from no employees.
var ErrEmptyWorkforce = errors.New("workforce has no employees")

// UnassignedDepartment groups employees stored without a department.
const UnassignedDepartment = "Unassigned"

var (
	hundred       = decimal.NewFromInt(100)
	monthsPerYear = decimal.NewFromInt(12)
)

// DepartmentStat is the attrition picture of one department.
type DepartmentStat struct {
	Department           string
	Headcount            int
	AttritionCount       int
	AttritionRatePercent decimal.Decimal
}

// Summary is the dashboard's workforce overview.
type Summary struct {
	TotalEmployees       int
	AttritionCount       int
	AttritionRatePercent decimal.Decimal
	AverageAnnualSalary  decimal.Decimal

	// ScoredCount employees carry a risk score; HighRiskCount of them are
	// classified High.
	ScoredCount   int
	HighRiskCount int

	// Highest attrition rate first; ties by department name.
	Departments []DepartmentStat
}

// Summarize builds the overview. An empty workforce yields a zero summary.
func Summarize(employees []store.Employee) Summary {
	var s Summary
	if len(employees) == 0 {
		return s
	}

	type tally struct{ headcount, attrited int }
	byDept := make(map[string]*tally)
	totalIncome := decimal.Zero

	for _, e := range employees {
		dept := departmentOf(e)
		t, ok := byDept[dept]
		if !ok {
			t = &tally{}
			byDept[dept] = t
		}
		t.headcount++
		if e.Attrited {
			t.attrited++
			s.AttritionCount++
		}
		totalIncome = totalIncome.Add(e.MonthlyIncome)

		if e.RiskScore.Valid {
			s.ScoredCount++
			if ClassifyRisk(e.RiskScore.Decimal) == RiskHigh {
				s.HighRiskCount++
			}
		}
	}

	s.TotalEmployees = len(employees)
	s.AttritionRatePercent = rate(s.AttritionCount, s.TotalEmployees)
	s.AverageAnnualSalary = totalIncome.Mul(monthsPerYear).Div(decimal.NewFromInt(int64(s.TotalEmployees)))

	for dept, t := range byDept {
		s.Departments = append(s.Departments, DepartmentStat{
			Department:           dept,
			Headcount:            t.headcount,
			AttritionCount:       t.attrited,
			AttritionRatePercent: rate(t.attrited, t.headcount),
		})
	}
	sort.Slice(s.Departments, func(i, j int) bool {
		a, b := s.Departments[i], s.Departments[j]
		if !a.AttritionRatePercent.Equal(b.AttritionRatePercent) {
			return a.AttritionRatePercent.GreaterThan(b.AttritionRatePercent)
		}
		return a.Department < b.Department
	})

	return s
}

func rate(part, whole int) decimal.Decimal {
	return decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
}

// DeriveParameters replaces the workforce inputs of base (head count,
// attrition rate, average salary) with the summary's figures. Model and
// investment inputs are kept.
func DeriveParameters(s Summary, base roi.Parameters) (roi.Parameters, error) {
	if s.TotalEmployees == 0 {
		return roi.Parameters{}, ErrEmptyWorkforce
	}

	params := base
	params.TotalEmployees = s.TotalEmployees
	params.CurrentAttritionRatePercent = s.AttritionRatePercent
	params.AverageAnnualSalary = s.AverageAnnualSalary

	if err := params.Validate(); err != nil {
		return roi.Parameters{}, err
	}
	return params, nil
}
