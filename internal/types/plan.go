package types

import (
	"fmt"
	"regexp"
	"time"
)

// timeOfDayRegex matches zero-padded 24-hour clock times like "09:00".
var timeOfDayRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsClockTime reports whether s is a zero-padded 24-hour "HH:MM" time.
func IsClockTime(s string) bool {
	return timeOfDayRegex.MatchString(s)
}

// PlanItem is one scheduled task inside a generated plan.
// Field names follow the wire contract used when the engine is exposed
// remotely, so advisor responses unmarshal directly into this shape.
type PlanItem struct {
	TaskID               string  `json:"taskId"`
	Order                int     `json:"order"`
	RecommendedStartTime *string `json:"recommendedStartTime,omitempty"`
	RecommendedEndTime   *string `json:"recommendedEndTime,omitempty"`
	AIAdvice             *string `json:"aiAdvice,omitempty"`
}

// GeneratedPlan is a bounded, ordered, time-boxed selection of tasks for
// a single day plus human-readable rationale. Until it has passed the
// validator it is a candidate plan and must be treated as untrusted.
type GeneratedPlan struct {
	Tasks     []PlanItem `json:"tasks"`
	Reasoning string     `json:"reasoning"`
}

// StoredPlan wraps a validated plan with persistence metadata.
type StoredPlan struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Date        time.Time     `json:"date"`
	Plan        GeneratedPlan `json:"plan"`
	Source      PlanSource    `json:"source"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// PlanSource records which path produced a plan
type PlanSource string

const (
	PlanSourceAdvisor   PlanSource = "advisor"
	PlanSourceHeuristic PlanSource = "heuristic"
)

// IsValid checks if the plan source value is valid
func (s PlanSource) IsValid() bool {
	switch s {
	case PlanSourceAdvisor, PlanSourceHeuristic:
		return true
	}
	return false
}

// Verify checks the plan invariants against its originating context:
//  1. len(tasks) does not exceed the daily task limit
//  2. every task id is drawn from the context's available tasks
//  3. order values form a dense 1..n sequence matching array position
//  4. start/end times, when present, are 24-hour "HH:MM"
//  5. reasoning is non-empty
//
// Any plan the engine returns must pass Verify.
func (p *GeneratedPlan) Verify(pctx *PlanningContext) error {
	if len(p.Tasks) > pctx.DailyTaskLimit {
		return fmt.Errorf("plan has %d tasks, limit is %d", len(p.Tasks), pctx.DailyTaskLimit)
	}
	if p.Reasoning == "" {
		return fmt.Errorf("reasoning is empty")
	}
	for i, item := range p.Tasks {
		if !pctx.HasTask(item.TaskID) {
			return fmt.Errorf("task %q is not among the available tasks", item.TaskID)
		}
		if item.Order != i+1 {
			return fmt.Errorf("task %q has order %d, expected %d", item.TaskID, item.Order, i+1)
		}
		if item.RecommendedStartTime != nil && !IsClockTime(*item.RecommendedStartTime) {
			return fmt.Errorf("task %q has invalid start time %q", item.TaskID, *item.RecommendedStartTime)
		}
		if item.RecommendedEndTime != nil && !IsClockTime(*item.RecommendedEndTime) {
			return fmt.Errorf("task %q has invalid end time %q", item.TaskID, *item.RecommendedEndTime)
		}
	}
	return nil
}
