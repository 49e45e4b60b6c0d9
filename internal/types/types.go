package types

import (
	"fmt"
	"time"
)

// Preferences holds a user's planning preferences.
// Every account is expected to have preferences provisioned at creation;
// the engine treats a missing row as a fatal condition.
type Preferences struct {
	UserID                  string   `json:"user_id"`
	MaxTasksPerDay          int      `json:"max_tasks_per_day"`
	MaxWorkHoursPerDay      int      `json:"max_work_hours_per_day"`
	PreferredProjectsPerDay int      `json:"preferred_projects_per_day"`
	PeakProductivityStart   *string  `json:"peak_productivity_start,omitempty"` // "HH:MM"
	PeakProductivityEnd     *string  `json:"peak_productivity_end,omitempty"`   // "HH:MM"
	ShortTermGoals          []string `json:"short_term_goals,omitempty"`
}

// Validate checks if the preferences have usable field values
func (p *Preferences) Validate() error {
	if p.MaxTasksPerDay < 1 {
		return fmt.Errorf("max_tasks_per_day must be at least 1 (got %d)", p.MaxTasksPerDay)
	}
	if p.PreferredProjectsPerDay < 1 {
		return fmt.Errorf("preferred_projects_per_day must be at least 1 (got %d)", p.PreferredProjectsPerDay)
	}
	return nil
}

// ProjectPriority represents the relative importance of a project
type ProjectPriority string

const (
	ProjectPriorityHigh   ProjectPriority = "HIGH"
	ProjectPriorityMedium ProjectPriority = "MEDIUM"
	ProjectPriorityLow    ProjectPriority = "LOW"
)

// IsValid checks if the project priority value is valid
func (p ProjectPriority) IsValid() bool {
	switch p {
	case ProjectPriorityHigh, ProjectPriorityMedium, ProjectPriorityLow:
		return true
	}
	return false
}

// Rank returns a sortable rank for the priority (lower sorts first)
func (p ProjectPriority) Rank() int {
	switch p {
	case ProjectPriorityHigh:
		return 0
	case ProjectPriorityMedium:
		return 1
	case ProjectPriorityLow:
		return 2
	default:
		return 3
	}
}

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusActive   ProjectStatus = "ACTIVE"
	ProjectStatusPaused   ProjectStatus = "PAUSED"
	ProjectStatusArchived ProjectStatus = "ARCHIVED"
)

// IsValid checks if the project status value is valid
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusActive, ProjectStatusPaused, ProjectStatusArchived:
		return true
	}
	return false
}

// TaskStatus represents the current state of a task
type TaskStatus string

const (
	TaskStatusNotStarted TaskStatus = "NOT_STARTED"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusDropped    TaskStatus = "DROPPED"
)

// IsValid checks if the task status value is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusNotStarted, TaskStatusInProgress, TaskStatusDone, TaskStatusDropped:
		return true
	}
	return false
}

// Open reports whether a task in this status still counts as plannable work
func (s TaskStatus) Open() bool {
	return s == TaskStatusNotStarted || s == TaskStatusInProgress
}

// Complexity buckets a task's cognitive load
type Complexity string

const (
	ComplexityVerySmall Complexity = "VERY_SMALL"
	ComplexitySmall     Complexity = "SMALL"
	ComplexityMedium    Complexity = "MEDIUM"
	ComplexityLarge     Complexity = "LARGE"
	ComplexityVeryLarge Complexity = "VERY_LARGE"
)

// IsValid checks if the complexity value is valid
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityVerySmall, ComplexitySmall, ComplexityMedium, ComplexityLarge, ComplexityVeryLarge:
		return true
	}
	return false
}

// Human returns a lowercase human-readable label for prompts and rendering
func (c Complexity) Human() string {
	switch c {
	case ComplexityVerySmall:
		return "very small"
	case ComplexitySmall:
		return "small"
	case ComplexityMedium:
		return "medium"
	case ComplexityLarge:
		return "large"
	case ComplexityVeryLarge:
		return "very large"
	default:
		return string(c)
	}
}

// EnergyType categorizes the kind of energy a task demands
type EnergyType string

const (
	EnergyCreative      EnergyType = "CREATIVE"
	EnergyRoutine       EnergyType = "ROUTINE"
	EnergyCommunication EnergyType = "COMMUNICATION"
	EnergyPhysical      EnergyType = "PHYSICAL"
)

// IsValid checks if the energy type value is valid
func (e EnergyType) IsValid() bool {
	switch e {
	case EnergyCreative, EnergyRoutine, EnergyCommunication, EnergyPhysical:
		return true
	}
	return false
}

// Human returns a lowercase human-readable label for prompts and rendering
func (e EnergyType) Human() string {
	switch e {
	case EnergyCreative:
		return "creative"
	case EnergyRoutine:
		return "routine"
	case EnergyCommunication:
		return "communication"
	case EnergyPhysical:
		return "physical"
	default:
		return string(e)
	}
}

// ProjectSummary is the planning-relevant slice of a project
type ProjectSummary struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Priority     ProjectPriority `json:"priority"`
	Category     string          `json:"category,omitempty"`
	SoftDeadline *time.Time      `json:"soft_deadline,omitempty"`
	HardDeadline *time.Time      `json:"hard_deadline,omitempty"`
}

// CandidateTask is an open task eligible for selection into a daily plan
type CandidateTask struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"project_id"`
	Title      string     `json:"title"`
	Priority   int        `json:"priority"` // 1 (lowest) .. 5 (highest)
	Complexity Complexity `json:"complexity"`
	EnergyType EnergyType `json:"energy_type"`
	Tags       []string   `json:"tags,omitempty"`
}

// Validate checks if the candidate task has valid field values
func (t *CandidateTask) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("task id is required")
	}
	if t.Priority < 1 || t.Priority > 5 {
		return fmt.Errorf("priority must be between 1 and 5 (got %d)", t.Priority)
	}
	if !t.Complexity.IsValid() {
		return fmt.Errorf("invalid complexity: %s", t.Complexity)
	}
	if !t.EnergyType.IsValid() {
		return fmt.Errorf("invalid energy type: %s", t.EnergyType)
	}
	return nil
}

// DayOutcome records how a previously generated plan went
type DayOutcome struct {
	Date      time.Time `json:"date"`
	Planned   int       `json:"planned"`
	Completed int       `json:"completed"`
}

// PlanningContext is the immutable snapshot of a user's planning-relevant
// state for one generation request. It is built fresh per request and is
// never persisted by the engine; ownership of the derived plan belongs to
// the caller.
type PlanningContext struct {
	UserID                  string           `json:"user_id"`
	TargetDate              time.Time        `json:"target_date"`
	DailyTaskLimit          int              `json:"daily_task_limit"`
	PreferredProjectsPerDay int              `json:"preferred_projects_per_day"`
	PeakStart               *string          `json:"peak_start,omitempty"`
	PeakEnd                 *string          `json:"peak_end,omitempty"`
	Goals                   []string         `json:"goals,omitempty"`
	Projects                []ProjectSummary `json:"projects"`
	AvailableTasks          []CandidateTask  `json:"available_tasks"`
	RecentOutcomes          []DayOutcome     `json:"recent_outcomes,omitempty"`
}

// HasTask reports whether the given task id is among the available tasks
func (c *PlanningContext) HasTask(id string) bool {
	return c.TaskByID(id) != nil
}

// TaskByID returns the available task with the given id, or nil
func (c *PlanningContext) TaskByID(id string) *CandidateTask {
	for i := range c.AvailableTasks {
		if c.AvailableTasks[i].ID == id {
			return &c.AvailableTasks[i]
		}
	}
	return nil
}
