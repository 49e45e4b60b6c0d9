package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusday/focusday/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestPreferencesRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	missing, err := store.GetPreferences(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	peakStart := "09:00"
	peakEnd := "12:00"
	prefs := &types.Preferences{
		UserID:                  "u1",
		MaxTasksPerDay:          4,
		MaxWorkHoursPerDay:      6,
		PreferredProjectsPerDay: 2,
		PeakProductivityStart:   &peakStart,
		PeakProductivityEnd:     &peakEnd,
		ShortTermGoals:          []string{"ship the draft", "inbox zero"},
	}
	require.NoError(t, store.PutPreferences(ctx, prefs))

	got, err := store.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 4, got.MaxTasksPerDay)
	require.NotNil(t, got.PeakProductivityStart)
	assert.Equal(t, "09:00", *got.PeakProductivityStart)
	assert.Equal(t, []string{"ship the draft", "inbox zero"}, got.ShortTermGoals)

	// Second put replaces the row
	prefs.MaxTasksPerDay = 2
	prefs.ShortTermGoals = nil
	require.NoError(t, store.PutPreferences(ctx, prefs))
	got, err = store.GetPreferences(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.MaxTasksPerDay)
	assert.Empty(t, got.ShortTermGoals)
}

func TestPutPreferencesRejectsInvalid(t *testing.T) {
	store := testStore(t)
	err := store.PutPreferences(context.Background(), &types.Preferences{UserID: "u1"})
	assert.Error(t, err)
}

func TestProjectsAndTasks(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	hard := day("2026-09-15")
	require.NoError(t, store.CreateProject(ctx, &types.Project{
		ID: "p1", UserID: "u1", Name: "Thesis", Priority: types.ProjectPriorityHigh,
		Category: "writing", Status: types.ProjectStatusActive, HardDeadline: &hard,
	}))
	require.NoError(t, store.CreateProject(ctx, &types.Project{
		ID: "p2", UserID: "u1", Name: "Old", Priority: types.ProjectPriorityLow,
		Status: types.ProjectStatusArchived,
	}))
	require.NoError(t, store.CreateProject(ctx, &types.Project{
		ID: "p3", UserID: "someone-else", Name: "Other", Priority: types.ProjectPriorityHigh,
		Status: types.ProjectStatusActive,
	}))

	require.NoError(t, store.CreateTask(ctx, &types.Task{
		ID: "t1", ProjectID: "p1", Title: "Outline", Status: types.TaskStatusNotStarted,
		Priority: 5, Complexity: types.ComplexityMedium, EnergyType: types.EnergyCreative,
		Tags: []string{"deep-work"},
	}))
	require.NoError(t, store.CreateTask(ctx, &types.Task{
		ID: "t2", ProjectID: "p1", Title: "Bibliography", Status: types.TaskStatusDone,
		Priority: 2, Complexity: types.ComplexitySmall, EnergyType: types.EnergyRoutine,
	}))

	result, err := store.GetActiveProjectsWithTasks(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "p1", result[0].Project.ID)
	require.NotNil(t, result[0].Project.HardDeadline)
	assert.Equal(t, hard, *result[0].Project.HardDeadline)
	assert.Nil(t, result[0].Project.SoftDeadline)

	// All statuses come back; the engine filters open vs closed
	require.Len(t, result[0].Tasks, 2)
	assert.Equal(t, "t1", result[0].Tasks[0].ID)
	assert.Equal(t, []string{"deep-work"}, result[0].Tasks[0].Tags)
	assert.Equal(t, types.TaskStatusDone, result[0].Tasks[1].Status)
}

func TestCreateRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	err := store.CreateProject(ctx, &types.Project{
		ID: "p1", UserID: "u1", Name: "Bad", Priority: "URGENT", Status: types.ProjectStatusActive,
	})
	assert.Error(t, err)

	require.NoError(t, store.CreateProject(ctx, &types.Project{
		ID: "p1", UserID: "u1", Name: "Ok", Priority: types.ProjectPriorityHigh, Status: types.ProjectStatusActive,
	}))
	err = store.CreateTask(ctx, &types.Task{
		ID: "t1", ProjectID: "p1", Title: "Bad", Status: types.TaskStatusNotStarted,
		Priority: 9, Complexity: types.ComplexityMedium, EnergyType: types.EnergyRoutine,
	})
	assert.Error(t, err)
}

func TestOutcomes(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.RecordOutcome(ctx, "u1", types.DayOutcome{Date: day("2026-08-20"), Planned: 3, Completed: 1}))
	require.NoError(t, store.RecordOutcome(ctx, "u1", types.DayOutcome{Date: day("2026-08-22"), Planned: 4, Completed: 4}))
	require.NoError(t, store.RecordOutcome(ctx, "u1", types.DayOutcome{Date: day("2026-08-18"), Planned: 2, Completed: 0}))

	// Re-recording the same day replaces it
	require.NoError(t, store.RecordOutcome(ctx, "u1", types.DayOutcome{Date: day("2026-08-20"), Planned: 3, Completed: 3}))

	outcomes, err := store.GetRecentOutcomes(ctx, "u1", day("2026-08-19"))
	require.NoError(t, err)
	require.Len(t, outcomes, 2)
	assert.Equal(t, day("2026-08-20"), outcomes[0].Date)
	assert.Equal(t, 3, outcomes[0].Completed)
	assert.Equal(t, day("2026-08-22"), outcomes[1].Date)
}

func TestPlanRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)
	date := day("2026-08-28")

	missing, err := store.GetPlan(ctx, "u1", date)
	require.NoError(t, err)
	assert.Nil(t, missing)

	start := "09:00"
	end := "10:00"
	first := &types.StoredPlan{
		ID:     "plan-1",
		UserID: "u1",
		Date:   date,
		Plan: types.GeneratedPlan{
			Tasks: []types.PlanItem{
				{TaskID: "t1", Order: 1, RecommendedStartTime: &start, RecommendedEndTime: &end},
			},
			Reasoning: "start with the anchor task",
		},
		Source:      types.PlanSourceAdvisor,
		GeneratedAt: time.Now(),
	}
	require.NoError(t, store.SavePlan(ctx, first))

	got, err := store.GetPlan(ctx, "u1", date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "plan-1", got.ID)
	assert.Equal(t, types.PlanSourceAdvisor, got.Source)
	require.Len(t, got.Plan.Tasks, 1)
	assert.Equal(t, "09:00", *got.Plan.Tasks[0].RecommendedStartTime)

	// A later save for the same day replaces the plan
	second := &types.StoredPlan{
		ID:          "plan-2",
		UserID:      "u1",
		Date:        date,
		Plan:        types.GeneratedPlan{Tasks: []types.PlanItem{{TaskID: "t2", Order: 1}}, Reasoning: "revised"},
		Source:      types.PlanSourceHeuristic,
		GeneratedAt: time.Now(),
	}
	require.NoError(t, store.SavePlan(ctx, second))

	got, err = store.GetPlan(ctx, "u1", date)
	require.NoError(t, err)
	assert.Equal(t, "plan-2", got.ID)
	assert.Equal(t, types.PlanSourceHeuristic, got.Source)
	require.Len(t, got.Plan.Tasks, 1)
	assert.Equal(t, "t2", got.Plan.Tasks[0].TaskID)
}

func TestGenerationHistory(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	for _, source := range []types.PlanSource{types.PlanSourceAdvisor, types.PlanSourceHeuristic, types.PlanSourceAdvisor} {
		rec := &types.GenerationRecord{
			UserID:  "u1",
			Date:    day("2026-08-28"),
			Source:  source,
			Context: `{"user_id":"u1"}`,
			Plan:    types.GeneratedPlan{Tasks: []types.PlanItem{{TaskID: "t1", Order: 1}}, Reasoning: "r"},
		}
		require.NoError(t, store.RecordGeneration(ctx, rec))
	}

	records, err := store.GetGenerationHistory(ctx, "u1", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// Newest first
	assert.Greater(t, records[0].ID, records[1].ID)
	assert.Equal(t, types.PlanSourceAdvisor, records[0].Source)
	assert.Equal(t, types.PlanSourceHeuristic, records[1].Source)
	assert.Equal(t, `{"user_id":"u1"}`, records[0].Context)
	assert.False(t, records[0].CreatedAt.IsZero())

	none, err := store.GetGenerationHistory(ctx, "someone-else", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}
