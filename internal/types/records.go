package types

import "time"

// Project is the stored form of a project, including lifecycle status.
// The engine only ever sees the ProjectSummary slice of it.
type Project struct {
	ID           string          `json:"id"`
	UserID       string          `json:"user_id"`
	Name         string          `json:"name"`
	Priority     ProjectPriority `json:"priority"`
	Category     string          `json:"category,omitempty"`
	Status       ProjectStatus   `json:"status"`
	SoftDeadline *time.Time      `json:"soft_deadline,omitempty"`
	HardDeadline *time.Time      `json:"hard_deadline,omitempty"`
}

// Summary returns the planning-relevant slice of the project
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:           p.ID,
		Name:         p.Name,
		Priority:     p.Priority,
		Category:     p.Category,
		SoftDeadline: p.SoftDeadline,
		HardDeadline: p.HardDeadline,
	}
}

// Task is the stored form of a task, including lifecycle status.
type Task struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Title      string     `json:"title"`
	Status     TaskStatus `json:"status"`
	Priority   int        `json:"priority"`
	Complexity Complexity `json:"complexity"`
	EnergyType EnergyType `json:"energy_type"`
	Tags       []string   `json:"tags,omitempty"`
}

// Candidate returns the planning-relevant slice of the task
func (t *Task) Candidate() CandidateTask {
	return CandidateTask{
		ID:         t.ID,
		ProjectID:  t.ProjectID,
		Title:      t.Title,
		Priority:   t.Priority,
		Complexity: t.Complexity,
		EnergyType: t.EnergyType,
		Tags:       t.Tags,
	}
}

// ProjectWithTasks pairs a project with its tasks for the data provider
type ProjectWithTasks struct {
	Project Project `json:"project"`
	Tasks   []Task  `json:"tasks"`
}

// GenerationRecord is one audit-trail entry of a plan generation.
// History is best-effort: failures to record must never block delivery
// of an otherwise-successful plan.
type GenerationRecord struct {
	ID        int64         `json:"id"`
	UserID    string        `json:"user_id"`
	Date      time.Time     `json:"date"`
	Source    PlanSource    `json:"source"`
	Context   string        `json:"context"` // JSON snapshot of the PlanningContext
	Plan      GeneratedPlan `json:"plan"`
	CreatedAt time.Time     `json:"created_at"`
}
