package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/focusday/focusday/internal/types"
)

// outcomeWindowDays is how far back the recent-outcomes history reaches.
// Outcomes feed the advisory prompt only; the heuristic planner ignores them.
const outcomeWindowDays = 7

// DataProvider is the capability the context builder consumes. The
// storage package's backends implement it; tests substitute in-memory
// repositories.
type DataProvider interface {
	GetPreferences(ctx context.Context, userID string) (*types.Preferences, error)
	GetActiveProjectsWithTasks(ctx context.Context, userID string) ([]*types.ProjectWithTasks, error)
	GetRecentOutcomes(ctx context.Context, userID string, since time.Time) ([]types.DayOutcome, error)
}

// ContextBuilder assembles immutable planning contexts from a data provider.
type ContextBuilder struct {
	provider DataProvider
}

// NewContextBuilder creates a context builder backed by the given provider
func NewContextBuilder(provider DataProvider) *ContextBuilder {
	return &ContextBuilder{provider: provider}
}

// Build assembles the planning context for one user and target date.
// Projects are kept only when ACTIVE with at least one open task, and
// availableTasks contains only open tasks of those projects. Returns
// ErrPreferencesNotFound when the user has no preferences row.
func (b *ContextBuilder) Build(ctx context.Context, userID string, targetDate time.Time) (*types.PlanningContext, error) {
	prefs, err := b.provider.GetPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching preferences for %s: %w", userID, err)
	}
	if prefs == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrPreferencesNotFound)
	}
	if err := prefs.Validate(); err != nil {
		return nil, fmt.Errorf("preferences for %s: %w", userID, err)
	}

	projectsWithTasks, err := b.provider.GetActiveProjectsWithTasks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching projects for %s: %w", userID, err)
	}

	var projects []types.ProjectSummary
	var available []types.CandidateTask
	for _, pwt := range projectsWithTasks {
		var open []types.CandidateTask
		for i := range pwt.Tasks {
			if pwt.Tasks[i].Status.Open() {
				open = append(open, pwt.Tasks[i].Candidate())
			}
		}
		if len(open) == 0 {
			continue
		}
		projects = append(projects, pwt.Project.Summary())
		available = append(available, open...)
	}

	since := targetDate.AddDate(0, 0, -outcomeWindowDays)
	outcomes, err := b.provider.GetRecentOutcomes(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("fetching recent outcomes for %s: %w", userID, err)
	}

	return &types.PlanningContext{
		UserID:                  userID,
		TargetDate:              targetDate,
		DailyTaskLimit:          prefs.MaxTasksPerDay,
		PreferredProjectsPerDay: prefs.PreferredProjectsPerDay,
		PeakStart:               prefs.PeakProductivityStart,
		PeakEnd:                 prefs.PeakProductivityEnd,
		Goals:                   prefs.ShortTermGoals,
		Projects:                projects,
		AvailableTasks:          available,
		RecentOutcomes:          outcomes,
	}, nil
}
