package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/focusday/focusday/internal/storage"
	"github.com/focusday/focusday/internal/types"
)

const seedYAML = `user: alex
preferences:
  max_tasks_per_day: 5
  max_work_hours_per_day: 6
  preferred_projects_per_day: 2
  peak_start: "09:00"
  peak_end: "12:00"
  goals: ["ship the draft"]
projects:
  - name: Thesis
    priority: HIGH
    category: writing
    hard_deadline: 2026-09-15
    tasks:
      - title: Outline chapter 3
        priority: 5
        complexity: MEDIUM
        energy: CREATIVE
      - id: task-biblio
        title: Sort bibliography
        status: IN_PROGRESS
        priority: 2
        complexity: SMALL
        energy: ROUTINE
        tags: [admin]
  - id: proj-chores
    name: Chores
    priority: LOW
    status: PAUSED
    tasks: []
outcomes:
  - date: 2026-08-20
    planned: 4
    completed: 3
`

func mustSeedDate(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSeedFromFile(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	userID, counts, err := seedFromFile(ctx, store, writeSeed(t, seedYAML))
	require.NoError(t, err)
	assert.Equal(t, "alex", userID)
	assert.Equal(t, 2, counts.projects)
	assert.Equal(t, 2, counts.tasks)
	assert.Equal(t, 1, counts.outcomes)

	prefs, err := store.GetPreferences(ctx, "alex")
	require.NoError(t, err)
	require.NotNil(t, prefs)
	assert.Equal(t, 5, prefs.MaxTasksPerDay)
	require.NotNil(t, prefs.PeakProductivityStart)
	assert.Equal(t, "09:00", *prefs.PeakProductivityStart)
	assert.Equal(t, []string{"ship the draft"}, prefs.ShortTermGoals)

	// Only the ACTIVE project shows up on the planning path; defaulted
	// ids and statuses land on the stored records
	projects, err := store.GetActiveProjectsWithTasks(ctx, "alex")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Thesis", projects[0].Project.Name)
	assert.NotEmpty(t, projects[0].Project.ID)
	require.NotNil(t, projects[0].Project.HardDeadline)

	require.Len(t, projects[0].Tasks, 2)
	assert.Equal(t, types.TaskStatusNotStarted, projects[0].Tasks[0].Status)
	assert.Equal(t, "task-biblio", projects[0].Tasks[1].ID)
	assert.Equal(t, types.TaskStatusInProgress, projects[0].Tasks[1].Status)

	outcomes, err := store.GetRecentOutcomes(ctx, "alex", mustSeedDate("2026-08-01"))
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, 3, outcomes[0].Completed)
}

func TestSeedFromFileRequiresUser(t *testing.T) {
	store := storage.NewMemory()

	_, _, err := seedFromFile(context.Background(), store, writeSeed(t, "preferences:\n  max_tasks_per_day: 3\n  preferred_projects_per_day: 1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user")
}

func TestSeedFromFileBadYAML(t *testing.T) {
	store := storage.NewMemory()

	_, _, err := seedFromFile(context.Background(), store, writeSeed(t, "user: [broken"))
	require.Error(t, err)
}
