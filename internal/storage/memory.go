package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/focusday/focusday/internal/types"
)

// Memory is an in-memory storage backend implementing the same
// capability interface as the SQLite backend. It exists for tests and
// demo runs; unlike a shared mutable fixture list, every instance owns
// its state and is safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	preferences map[string]types.Preferences
	projects    []types.Project
	tasks       []types.Task
	outcomes    map[string][]types.DayOutcome
	plans       map[string]types.StoredPlan // keyed by userID + "|" + date
	history     []types.GenerationRecord
	nextHistID  int64
}

// Compile-time check that Memory implements Storage
var _ Storage = (*Memory)(nil)

// NewMemory creates an empty in-memory storage backend
func NewMemory() *Memory {
	return &Memory{
		preferences: make(map[string]types.Preferences),
		outcomes:    make(map[string][]types.DayOutcome),
		plans:       make(map[string]types.StoredPlan),
		nextHistID:  1,
	}
}

func planKey(userID string, date time.Time) string {
	return userID + "|" + date.Format("2006-01-02")
}

// GetPreferences returns the user's preferences, or (nil, nil) when absent
func (m *Memory) GetPreferences(ctx context.Context, userID string) (*types.Preferences, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefs, ok := m.preferences[userID]
	if !ok {
		return nil, nil
	}
	return &prefs, nil
}

// PutPreferences stores the user's preferences
func (m *Memory) PutPreferences(ctx context.Context, prefs *types.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.preferences[prefs.UserID] = *prefs
	return nil
}

// CreateProject stores a project
func (m *Memory) CreateProject(ctx context.Context, project *types.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects = append(m.projects, *project)
	return nil
}

// CreateTask stores a task
func (m *Memory) CreateTask(ctx context.Context, task *types.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, *task)
	return nil
}

// GetActiveProjectsWithTasks returns ACTIVE projects with all their tasks
func (m *Memory) GetActiveProjectsWithTasks(ctx context.Context, userID string) ([]*types.ProjectWithTasks, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []*types.ProjectWithTasks
	for _, p := range m.projects {
		if p.UserID != userID || p.Status != types.ProjectStatusActive {
			continue
		}
		pwt := &types.ProjectWithTasks{Project: p}
		for _, t := range m.tasks {
			if t.ProjectID == p.ID {
				pwt.Tasks = append(pwt.Tasks, t)
			}
		}
		result = append(result, pwt)
	}
	return result, nil
}

// RecordOutcome upserts the outcome for one day
func (m *Memory) RecordOutcome(ctx context.Context, userID string, outcome types.DayOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	day := outcome.Date.Format("2006-01-02")
	existing := m.outcomes[userID]
	for i := range existing {
		if existing[i].Date.Format("2006-01-02") == day {
			existing[i] = outcome
			return nil
		}
	}
	m.outcomes[userID] = append(existing, outcome)
	return nil
}

// GetRecentOutcomes returns outcomes on or after since, oldest first
func (m *Memory) GetRecentOutcomes(ctx context.Context, userID string, since time.Time) ([]types.DayOutcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []types.DayOutcome
	for _, o := range m.outcomes[userID] {
		if !o.Date.Before(since) {
			result = append(result, o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// SavePlan stores a plan, replacing any previous plan for the same day
func (m *Memory) SavePlan(ctx context.Context, plan *types.StoredPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[planKey(plan.UserID, plan.Date)] = *plan
	return nil
}

// GetPlan returns the stored plan for a user and date, or (nil, nil)
func (m *Memory) GetPlan(ctx context.Context, userID string, date time.Time) (*types.StoredPlan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	plan, ok := m.plans[planKey(userID, date)]
	if !ok {
		return nil, nil
	}
	return &plan, nil
}

// RecordGeneration appends an audit-trail entry
func (m *Memory) RecordGeneration(ctx context.Context, rec *types.GenerationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *rec
	stored.ID = m.nextHistID
	m.nextHistID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.history = append(m.history, stored)
	return nil
}

// GetGenerationHistory returns the most recent generation records
func (m *Memory) GetGenerationHistory(ctx context.Context, userID string, limit int) ([]*types.GenerationRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		limit = 20
	}

	var result []*types.GenerationRecord
	for i := len(m.history) - 1; i >= 0 && len(result) < limit; i-- {
		if m.history[i].UserID == userID {
			rec := m.history[i]
			result = append(result, &rec)
		}
	}
	return result, nil
}

// Close is a no-op for the in-memory backend
func (m *Memory) Close() error { return nil }
