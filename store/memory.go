package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/CLI)
// =============================================================================

type Memory struct {
	mu        sync.RWMutex
	scenarios map[string]ScenarioRecord
	runs      map[string][]RunRecord // by scenario ID, newest first
	employees map[string]Employee

	now func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		scenarios: make(map[string]ScenarioRecord),
		runs:      make(map[string][]RunRecord),
		employees: make(map[string]Employee),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SaveScenario upserts a scenario. An update bumps the version and keeps
// the original creation time.
func (m *Memory) SaveScenario(_ context.Context, s ScenarioRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.scenarios[s.ID]; ok {
		s.Version = existing.Version + 1
		s.CreatedAt = existing.CreatedAt
	} else {
		if s.Version == 0 {
			s.Version = 1
		}
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	m.scenarios[s.ID] = s
	return nil
}

func (m *Memory) GetScenario(_ context.Context, id string) (*ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.scenarios[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) ListScenarios(_ context.Context) ([]ScenarioRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]ScenarioRecord, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteScenario removes a scenario and its runs.
func (m *Memory) DeleteScenario(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scenarios, id)
	delete(m.runs, id)
	return nil
}

// SaveRun appends a run, keeping each scenario's runs newest first.
func (m *Memory) SaveRun(_ context.Context, r RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if r.CreatedAt.IsZero() {
		r.CreatedAt = m.now()
	}

	runs := m.runs[r.ScenarioID]

	// Binary search for insertion point
	i := sort.Search(len(runs), func(i int) bool {
		return !runs[i].CreatedAt.After(r.CreatedAt)
	})

	runs = append(runs, RunRecord{})
	copy(runs[i+1:], runs[i:])
	runs[i] = r
	m.runs[r.ScenarioID] = runs
	return nil
}

func (m *Memory) ListRuns(_ context.Context, scenarioID string) ([]RunRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]RunRecord, len(m.runs[scenarioID]))
	copy(result, m.runs[scenarioID])
	return result, nil
}

func (m *Memory) SaveEmployee(_ context.Context, e Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.employees[e.ID]; ok {
		e.CreatedAt = existing.CreatedAt
	} else {
		e.CreatedAt = m.now()
	}
	m.employees[e.ID] = e
	return nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (*Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *Memory) ListEmployees(_ context.Context) ([]Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Employee, 0, len(m.employees))
	for _, e := range m.employees {
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *Memory) DeleteEmployee(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.employees, id)
	return nil
}

func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.scenarios = make(map[string]ScenarioRecord)
	m.runs = make(map[string][]RunRecord)
	m.employees = make(map[string]Employee)
	return nil
}

func (m *Memory) Close() error { return nil }
