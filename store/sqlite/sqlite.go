/*
Package sqlite provides a SQLite-backed implementation of store.Store.

PURPOSE:
  Persists scenarios, projection runs and employee records using SQLite. In
  production the same patterns apply to PostgreSQL with only minor SQL
  dialect differences.

INTERFACES IMPLEMENTED:
  store.ScenarioStore: scenarios + projection runs
  store.EmployeeStore: workforce records
  store.Store:         both, plus Reset/Close

KEY TABLES:
  scenarios:       Named parameter sets (factory JSON), versioned on update
  projection_runs: Immutable results of running a scenario (cascade on delete)
  employees:       Workforce records for the dashboard summary

RUN IMMUTABILITY:
  projection_runs is append-only. A run records the scenario version it was
  computed from, so a later edit of the scenario never rewrites history.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  st, err := sqlite.New("./data/attrition.db")
  if err != nil {
      return err
  }
  defer st.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool with versioned migrations.

SEE ALSO:
  - store/store.go: Interface and record definitions
  - store/memory.go: In-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/attrition-engine/store"
)

// Fixed-width UTC timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var _ store.Store = (*Store)(nil)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Each connection to ":memory:" is its own database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return st, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Scenarios (named ROI parameter sets)
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		config_json TEXT NOT NULL,
		version INTEGER DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scenarios_name
		ON scenarios(name);

	-- Projection runs (append-only)
	CREATE TABLE IF NOT EXISTS projection_runs (
		id TEXT PRIMARY KEY,
		scenario_id TEXT NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		scenario_version INTEGER NOT NULL,
		params_json TEXT NOT NULL,
		result_json TEXT NOT NULL,
		roi_defined BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TEXT NOT NULL
	);

	-- Run history per scenario (hot path)
	CREATE INDEX IF NOT EXISTS idx_runs_scenario_created
		ON projection_runs(scenario_id, created_at DESC);

	-- Employees (workforce records)
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT NOT NULL DEFAULT '',
		monthly_income TEXT NOT NULL,
		attrited BOOLEAN NOT NULL DEFAULT FALSE,
		hire_date TEXT,
		risk_score TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_employees_department
		ON employees(department);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCENARIO STORE
// =============================================================================

// SaveScenario upserts a scenario. Updates bump the version.
func (s *Store) SaveScenario(ctx context.Context, sc store.ScenarioRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO scenarios (id, name, description, config_json, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			config_json = excluded.config_json,
			version = scenarios.version + 1,
			updated_at = excluded.updated_at
	`

	version := sc.Version
	if version == 0 {
		version = 1
	}

	now := formatTime(time.Now())
	_, err := s.db.ExecContext(ctx, query,
		sc.ID, sc.Name, nullString(sc.Description), sc.ConfigJSON,
		version, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save scenario %s: %w", sc.ID, err)
	}
	return nil
}

// GetScenario retrieves a scenario by ID.
func (s *Store) GetScenario(ctx context.Context, id string) (*store.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sc store.ScenarioRecord
	var description sql.NullString
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, config_json, version, created_at, updated_at FROM scenarios WHERE id = ?",
		id,
	).Scan(&sc.ID, &sc.Name, &description, &sc.ConfigJSON, &sc.Version, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sc.Description = description.String
	sc.CreatedAt = parseTime(createdAt)
	sc.UpdatedAt = parseTime(updatedAt)
	return &sc, nil
}

// ListScenarios returns all scenarios ordered by name.
func (s *Store) ListScenarios(ctx context.Context) ([]store.ScenarioRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, config_json, version, created_at, updated_at FROM scenarios ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []store.ScenarioRecord
	for rows.Next() {
		var sc store.ScenarioRecord
		var description sql.NullString
		var createdAt, updatedAt string
		if err := rows.Scan(&sc.ID, &sc.Name, &description, &sc.ConfigJSON, &sc.Version, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		sc.Description = description.String
		sc.CreatedAt = parseTime(createdAt)
		sc.UpdatedAt = parseTime(updatedAt)
		scenarios = append(scenarios, sc)
	}
	return scenarios, rows.Err()
}

// DeleteScenario removes a scenario. Its runs go with it.
func (s *Store) DeleteScenario(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM scenarios WHERE id = ?", id)
	return err
}

// =============================================================================
// RUN STORE (append-only)
// =============================================================================

// SaveRun appends a projection run.
func (s *Store) SaveRun(ctx context.Context, r store.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO projection_runs
		(id, scenario_id, scenario_version, params_json, result_json, roi_defined, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.ScenarioID, r.ScenarioVersion, r.ParamsJSON, r.ResultJSON, r.ROIDefined,
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", r.ID, err)
	}
	return nil
}

// ListRuns returns a scenario's runs, newest first.
func (s *Store) ListRuns(ctx context.Context, scenarioID string) ([]store.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario_id, scenario_version, params_json, result_json, roi_defined, created_at
		FROM projection_runs
		WHERE scenario_id = ?
		ORDER BY created_at DESC, rowid DESC`,
		scenarioID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.RunRecord
	for rows.Next() {
		var r store.RunRecord
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ScenarioID, &r.ScenarioVersion, &r.ParamsJSON, &r.ResultJSON, &r.ROIDefined, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// =============================================================================
// EMPLOYEE STORE
// =============================================================================

// SaveEmployee upserts an employee.
func (s *Store) SaveEmployee(ctx context.Context, emp store.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO employees (id, name, department, monthly_income, attrited, hire_date, risk_score, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			monthly_income = excluded.monthly_income,
			attrited = excluded.attrited,
			hire_date = excluded.hire_date,
			risk_score = excluded.risk_score
	`

	var hireDate sql.NullString
	if !emp.HireDate.IsZero() {
		hireDate = sql.NullString{String: emp.HireDate.Format(time.RFC3339), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, query,
		emp.ID, emp.Name, emp.Department,
		emp.MonthlyIncome.String(),
		emp.Attrited,
		hireDate,
		emp.RiskScore,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee %s: %w", emp.ID, err)
	}
	return nil
}

// GetEmployee retrieves an employee by ID.
func (s *Store) GetEmployee(ctx context.Context, id string) (*store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, department, monthly_income, attrited, hire_date, risk_score, created_at FROM employees WHERE id = ?",
		id,
	)
	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListEmployees returns all employees ordered by name.
func (s *Store) ListEmployees(ctx context.Context) ([]store.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, department, monthly_income, attrited, hire_date, risk_score, created_at FROM employees ORDER BY name, id",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []store.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// DeleteEmployee removes an employee.
func (s *Store) DeleteEmployee(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM employees WHERE id = ?", id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (store.Employee, error) {
	var emp store.Employee
	var income, createdAt string
	var hireDate sql.NullString

	if err := row.Scan(&emp.ID, &emp.Name, &emp.Department, &income, &emp.Attrited, &hireDate, &emp.RiskScore, &createdAt); err != nil {
		return store.Employee{}, err
	}

	var err error
	emp.MonthlyIncome, err = decimal.NewFromString(income)
	if err != nil {
		return store.Employee{}, fmt.Errorf("employee %s: bad monthly_income %q: %w", emp.ID, income, err)
	}
	if hireDate.Valid {
		emp.HireDate, _ = time.Parse(time.RFC3339, hireDate.String)
	}
	emp.CreatedAt = parseTime(createdAt)
	return emp, nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset removes all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"projection_runs", "scenarios", "employees"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to reset %s: %w", table, err)
		}
	}
	return nil
}

// Helper functions

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}
