/*
Package store defines persistence for scenarios, projection runs and
employees.

PURPOSE:
  The ROI engine itself is pure. What the dashboard keeps between requests
  lives here: saved scenarios, the projection runs computed from them, and
  the employee records the workforce summary is built from.

RECORDS:
  ScenarioRecord: a named parameter set, stored as factory JSON, versioned
  RunRecord:      one persisted projection of a scenario (params + result JSON)
  Employee:       one workforce record (department, income, attrition flag,
                  precomputed risk score)

CONVENTIONS:
  - Get* returns (nil, nil) when the row does not exist; callers map that to
    their own not-found response.
  - Save* upserts. Saving an existing scenario bumps its version.
  - List* returns rows in a stable order (scenarios/employees by name,
    runs newest first).

IMPLEMENTATIONS:
  - Memory (memory.go): in-process, for tests and the CLI
  - sqlite.Store (store/sqlite): durable, used by the server

SEE ALSO:
  - store/sqlite/sqlite.go
  - api/handlers.go: consumer
*/
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RECORDS
// =============================================================================

// ScenarioRecord is a stored scenario with its JSON config.
type ScenarioRecord struct {
	ID          string
	Name        string
	Description string
	ConfigJSON  string
	Version     int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RunRecord is one persisted projection.
type RunRecord struct {
	ID              string
	ScenarioID      string
	ScenarioVersion int
	ParamsJSON      string
	ResultJSON      string
	ROIDefined      bool
	CreatedAt       time.Time
}

// Employee is one workforce record.
type Employee struct {
	ID            string
	Name          string
	Department    string
	MonthlyIncome decimal.Decimal
	Attrited      bool
	HireDate      time.Time

	// RiskScore is the precomputed attrition probability in [0, 1].
	// Invalid when the employee has not been scored.
	RiskScore decimal.NullDecimal

	CreatedAt time.Time
}

// =============================================================================
// INTERFACES
// =============================================================================

// ScenarioStore persists scenarios and their runs.
type ScenarioStore interface {
	SaveScenario(ctx context.Context, s ScenarioRecord) error
	GetScenario(ctx context.Context, id string) (*ScenarioRecord, error)
	ListScenarios(ctx context.Context) ([]ScenarioRecord, error)
	DeleteScenario(ctx context.Context, id string) error

	SaveRun(ctx context.Context, r RunRecord) error
	ListRuns(ctx context.Context, scenarioID string) ([]RunRecord, error)
}

// EmployeeStore persists workforce records.
type EmployeeStore interface {
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id string) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}

// Store is everything the API needs.
type Store interface {
	ScenarioStore
	EmployeeStore

	// Reset removes all data. Development and demo use only.
	Reset(ctx context.Context) error
	Close() error
}
