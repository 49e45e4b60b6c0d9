// Package sqlite implements the storage interface on SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/focusday/focusday/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS preferences (
	user_id                    TEXT PRIMARY KEY,
	max_tasks_per_day          INTEGER NOT NULL,
	max_work_hours_per_day     INTEGER NOT NULL,
	preferred_projects_per_day INTEGER NOT NULL,
	peak_start                 TEXT,
	peak_end                   TEXT,
	short_term_goals           TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS projects (
	id            TEXT PRIMARY KEY,
	user_id       TEXT NOT NULL,
	name          TEXT NOT NULL,
	priority      TEXT NOT NULL,
	category      TEXT,
	status        TEXT NOT NULL,
	soft_deadline TEXT,
	hard_deadline TEXT
);
CREATE INDEX IF NOT EXISTS idx_projects_user_status ON projects(user_id, status);

CREATE TABLE IF NOT EXISTS tasks (
	id          TEXT PRIMARY KEY,
	project_id  TEXT NOT NULL REFERENCES projects(id),
	title       TEXT NOT NULL,
	status      TEXT NOT NULL,
	priority    INTEGER NOT NULL,
	complexity  TEXT NOT NULL,
	energy_type TEXT NOT NULL,
	tags        TEXT NOT NULL DEFAULT '[]'
);
CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);

CREATE TABLE IF NOT EXISTS plans (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	date         TEXT NOT NULL,
	source       TEXT NOT NULL,
	plan         TEXT NOT NULL,
	generated_at TEXT NOT NULL,
	UNIQUE(user_id, date)
);

CREATE TABLE IF NOT EXISTS generation_history (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    TEXT NOT NULL,
	date       TEXT NOT NULL,
	source     TEXT NOT NULL,
	context    TEXT NOT NULL,
	plan       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_user ON generation_history(user_id, created_at);

CREATE TABLE IF NOT EXISTS day_outcomes (
	user_id   TEXT NOT NULL,
	date      TEXT NOT NULL,
	planned   INTEGER NOT NULL,
	completed INTEGER NOT NULL,
	PRIMARY KEY (user_id, date)
);
`

const dateLayout = "2006-01-02"

// Store implements the storage interface using SQLite
type Store struct {
	db *sql.DB
}

// New creates a new SQLite storage backend
func New(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		// WAL mode for better concurrency between the CLI and any
		// long-running generation in flight
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// GetPreferences returns the user's preferences, or (nil, nil) when the
// user has no preferences row.
func (s *Store) GetPreferences(ctx context.Context, userID string) (*types.Preferences, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, max_tasks_per_day, max_work_hours_per_day,
		       preferred_projects_per_day, peak_start, peak_end, short_term_goals
		FROM preferences WHERE user_id = ?`, userID)

	var prefs types.Preferences
	var goalsJSON string
	err := row.Scan(&prefs.UserID, &prefs.MaxTasksPerDay, &prefs.MaxWorkHoursPerDay,
		&prefs.PreferredProjectsPerDay, &prefs.PeakProductivityStart,
		&prefs.PeakProductivityEnd, &goalsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	if err := json.Unmarshal([]byte(goalsJSON), &prefs.ShortTermGoals); err != nil {
		return nil, fmt.Errorf("failed to decode goals for %s: %w", userID, err)
	}
	return &prefs, nil
}

// PutPreferences inserts or replaces the user's preferences
func (s *Store) PutPreferences(ctx context.Context, prefs *types.Preferences) error {
	if err := prefs.Validate(); err != nil {
		return fmt.Errorf("invalid preferences: %w", err)
	}
	goalsJSON, err := json.Marshal(prefs.ShortTermGoals)
	if err != nil {
		return fmt.Errorf("failed to encode goals: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO preferences
		(user_id, max_tasks_per_day, max_work_hours_per_day, preferred_projects_per_day,
		 peak_start, peak_end, short_term_goals)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		prefs.UserID, prefs.MaxTasksPerDay, prefs.MaxWorkHoursPerDay,
		prefs.PreferredProjectsPerDay, prefs.PeakProductivityStart,
		prefs.PeakProductivityEnd, string(goalsJSON))
	if err != nil {
		return fmt.Errorf("failed to store preferences: %w", err)
	}
	return nil
}

// CreateProject inserts a project
func (s *Store) CreateProject(ctx context.Context, project *types.Project) error {
	if !project.Status.IsValid() {
		return fmt.Errorf("invalid project status: %s", project.Status)
	}
	if !project.Priority.IsValid() {
		return fmt.Errorf("invalid project priority: %s", project.Priority)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, priority, category, status, soft_deadline, hard_deadline)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.UserID, project.Name, string(project.Priority),
		project.Category, string(project.Status),
		formatDate(project.SoftDeadline), formatDate(project.HardDeadline))
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// CreateTask inserts a task
func (s *Store) CreateTask(ctx context.Context, task *types.Task) error {
	candidate := task.Candidate()
	if err := candidate.Validate(); err != nil {
		return fmt.Errorf("invalid task: %w", err)
	}
	if !task.Status.IsValid() {
		return fmt.Errorf("invalid task status: %s", task.Status)
	}
	tagsJSON, err := json.Marshal(task.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, project_id, title, status, priority, complexity, energy_type, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, task.ProjectID, task.Title, string(task.Status),
		task.Priority, string(task.Complexity), string(task.EnergyType), string(tagsJSON))
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetActiveProjectsWithTasks returns the user's ACTIVE projects, each
// with all of its tasks. Task-status filtering is the engine's concern.
func (s *Store) GetActiveProjectsWithTasks(ctx context.Context, userID string) ([]*types.ProjectWithTasks, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, priority, category, status, soft_deadline, hard_deadline
		FROM projects WHERE user_id = ? AND status = ?
		ORDER BY rowid`, userID, string(types.ProjectStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var result []*types.ProjectWithTasks
	for rows.Next() {
		var p types.Project
		var priority, status string
		var category, soft, hard sql.NullString
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &priority, &category, &status, &soft, &hard); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		p.Priority = types.ProjectPriority(priority)
		p.Status = types.ProjectStatus(status)
		p.Category = category.String
		if p.SoftDeadline, err = parseDate(soft); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.ID, err)
		}
		if p.HardDeadline, err = parseDate(hard); err != nil {
			return nil, fmt.Errorf("project %s: %w", p.ID, err)
		}
		result = append(result, &types.ProjectWithTasks{Project: p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	for _, pwt := range result {
		tasks, err := s.tasksForProject(ctx, pwt.Project.ID)
		if err != nil {
			return nil, err
		}
		pwt.Tasks = tasks
	}
	return result, nil
}

func (s *Store) tasksForProject(ctx context.Context, projectID string) ([]types.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, status, priority, complexity, energy_type, tags
		FROM tasks WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []types.Task
	for rows.Next() {
		var t types.Task
		var status, complexity, energy, tagsJSON string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.Title, &status, &t.Priority, &complexity, &energy, &tagsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		t.Status = types.TaskStatus(status)
		t.Complexity = types.Complexity(complexity)
		t.EnergyType = types.EnergyType(energy)
		if err := json.Unmarshal([]byte(tagsJSON), &t.Tags); err != nil {
			return nil, fmt.Errorf("failed to decode tags for task %s: %w", t.ID, err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// RecordOutcome upserts the outcome for one day
func (s *Store) RecordOutcome(ctx context.Context, userID string, outcome types.DayOutcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO day_outcomes (user_id, date, planned, completed)
		VALUES (?, ?, ?, ?)`,
		userID, outcome.Date.Format(dateLayout), outcome.Planned, outcome.Completed)
	if err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// GetRecentOutcomes returns outcomes on or after since, oldest first
func (s *Store) GetRecentOutcomes(ctx context.Context, userID string, since time.Time) ([]types.DayOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, planned, completed FROM day_outcomes
		WHERE user_id = ? AND date >= ? ORDER BY date`,
		userID, since.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []types.DayOutcome
	for rows.Next() {
		var o types.DayOutcome
		var date string
		if err := rows.Scan(&date, &o.Planned, &o.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		if o.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse outcome date %q: %w", date, err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// SavePlan stores a generated plan, replacing any previous plan for the
// same user and date. Last write wins; arbitration between concurrent
// generators is not this layer's concern.
func (s *Store) SavePlan(ctx context.Context, plan *types.StoredPlan) error {
	planJSON, err := json.Marshal(plan.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, user_id, date, source, plan, generated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			id = excluded.id, source = excluded.source,
			plan = excluded.plan, generated_at = excluded.generated_at`,
		plan.ID, plan.UserID, plan.Date.Format(dateLayout), string(plan.Source),
		string(planJSON), plan.GeneratedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetPlan returns the stored plan for a user and date, or (nil, nil)
func (s *Store) GetPlan(ctx context.Context, userID string, date time.Time) (*types.StoredPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, date, source, plan, generated_at
		FROM plans WHERE user_id = ? AND date = ?`,
		userID, date.Format(dateLayout))

	var sp types.StoredPlan
	var dateStr, source, planJSON, generatedAt string
	err := row.Scan(&sp.ID, &sp.UserID, &dateStr, &source, &planJSON, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if sp.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return nil, fmt.Errorf("failed to parse plan date %q: %w", dateStr, err)
	}
	sp.Source = types.PlanSource(source)
	if err := json.Unmarshal([]byte(planJSON), &sp.Plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan %s: %w", sp.ID, err)
	}
	if sp.GeneratedAt, err = time.Parse(time.RFC3339, generatedAt); err != nil {
		return nil, fmt.Errorf("failed to parse generated_at %q: %w", generatedAt, err)
	}
	return &sp, nil
}

// RecordGeneration appends an audit-trail entry
func (s *Store) RecordGeneration(ctx context.Context, rec *types.GenerationRecord) error {
	planJSON, err := json.Marshal(rec.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generation_history (user_id, date, source, context, plan, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.Date.Format(dateLayout), string(rec.Source),
		rec.Context, string(planJSON), createdAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// GetGenerationHistory returns the most recent generation records
func (s *Store) GetGenerationHistory(ctx context.Context, userID string, limit int) ([]*types.GenerationRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, date, source, context, plan, created_at
		FROM generation_history WHERE user_id = ?
		ORDER BY id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*types.GenerationRecord
	for rows.Next() {
		var rec types.GenerationRecord
		var dateStr, source, planJSON, createdAt string
		if err := rows.Scan(&rec.ID, &rec.UserID, &dateStr, &source, &rec.Context, &planJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if rec.Date, err = time.Parse(dateLayout, dateStr); err != nil {
			return nil, fmt.Errorf("failed to parse history date %q: %w", dateStr, err)
		}
		rec.Source = types.PlanSource(source)
		if err := json.Unmarshal([]byte(planJSON), &rec.Plan); err != nil {
			return nil, fmt.Errorf("failed to decode history plan %d: %w", rec.ID, err)
		}
		if rec.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(dateLayout)
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s.String)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", s.String, err)
	}
	return &t, nil
}
