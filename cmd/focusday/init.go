package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/focusday/focusday/internal/storage"
	"github.com/focusday/focusday/internal/types"
)

var initSeed string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the focusday database",
	Long: `Create the focusday database and, optionally, seed it from a YAML file.

Seed file shape:

  user: alex
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
  outcomes:
    - date: 2026-08-20
      planned: 4
      completed: 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		defer store.Close()

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Printf("\n%s Initialized focusday database\n", green("✓"))

		if initSeed != "" {
			userID, counts, err := seedFromFile(ctx, store, initSeed)
			if err != nil {
				return fmt.Errorf("seeding from %s: %w", initSeed, err)
			}
			fmt.Printf("%s Seeded user %q: %d project(s), %d task(s), %d outcome(s)\n",
				green("✓"), userID, counts.projects, counts.tasks, counts.outcomes)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initSeed, "seed", "", "YAML file with a user, preferences, projects, and tasks")
	rootCmd.AddCommand(initCmd)
}

// seedFile is the YAML shape accepted by --seed.
type seedFile struct {
	User        string `yaml:"user"`
	Preferences struct {
		MaxTasksPerDay          int      `yaml:"max_tasks_per_day"`
		MaxWorkHoursPerDay      int      `yaml:"max_work_hours_per_day"`
		PreferredProjectsPerDay int      `yaml:"preferred_projects_per_day"`
		PeakStart               *string  `yaml:"peak_start"`
		PeakEnd                 *string  `yaml:"peak_end"`
		Goals                   []string `yaml:"goals"`
	} `yaml:"preferences"`
	Projects []struct {
		ID           string     `yaml:"id"`
		Name         string     `yaml:"name"`
		Priority     string     `yaml:"priority"`
		Category     string     `yaml:"category"`
		Status       string     `yaml:"status"`
		SoftDeadline *time.Time `yaml:"soft_deadline"`
		HardDeadline *time.Time `yaml:"hard_deadline"`
		Tasks        []struct {
			ID         string   `yaml:"id"`
			Title      string   `yaml:"title"`
			Status     string   `yaml:"status"`
			Priority   int      `yaml:"priority"`
			Complexity string   `yaml:"complexity"`
			Energy     string   `yaml:"energy"`
			Tags       []string `yaml:"tags"`
		} `yaml:"tasks"`
	} `yaml:"projects"`
	Outcomes []struct {
		Date      time.Time `yaml:"date"`
		Planned   int       `yaml:"planned"`
		Completed int       `yaml:"completed"`
	} `yaml:"outcomes"`
}

type seedCounts struct {
	projects, tasks, outcomes int
}

// seedFromFile loads a YAML fixture into storage. Missing ids are
// assigned, missing statuses default to ACTIVE / NOT_STARTED.
func seedFromFile(ctx context.Context, store storage.Storage, path string) (string, seedCounts, error) {
	var counts seedCounts

	data, err := os.ReadFile(path)
	if err != nil {
		return "", counts, err
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return "", counts, fmt.Errorf("parsing YAML: %w", err)
	}
	if seed.User == "" {
		return "", counts, fmt.Errorf("seed file must name a user")
	}

	prefs := &types.Preferences{
		UserID:                  seed.User,
		MaxTasksPerDay:          seed.Preferences.MaxTasksPerDay,
		MaxWorkHoursPerDay:      seed.Preferences.MaxWorkHoursPerDay,
		PreferredProjectsPerDay: seed.Preferences.PreferredProjectsPerDay,
		PeakProductivityStart:   seed.Preferences.PeakStart,
		PeakProductivityEnd:     seed.Preferences.PeakEnd,
		ShortTermGoals:          seed.Preferences.Goals,
	}
	if err := store.PutPreferences(ctx, prefs); err != nil {
		return "", counts, err
	}

	for _, sp := range seed.Projects {
		project := &types.Project{
			ID:           sp.ID,
			UserID:       seed.User,
			Name:         sp.Name,
			Priority:     types.ProjectPriority(sp.Priority),
			Category:     sp.Category,
			Status:       types.ProjectStatus(sp.Status),
			SoftDeadline: sp.SoftDeadline,
			HardDeadline: sp.HardDeadline,
		}
		if project.ID == "" {
			project.ID = uuid.New().String()
		}
		if project.Status == "" {
			project.Status = types.ProjectStatusActive
		}
		if err := store.CreateProject(ctx, project); err != nil {
			return "", counts, err
		}
		counts.projects++

		for _, st := range sp.Tasks {
			task := &types.Task{
				ID:         st.ID,
				ProjectID:  project.ID,
				Title:      st.Title,
				Status:     types.TaskStatus(st.Status),
				Priority:   st.Priority,
				Complexity: types.Complexity(st.Complexity),
				EnergyType: types.EnergyType(st.Energy),
				Tags:       st.Tags,
			}
			if task.ID == "" {
				task.ID = uuid.New().String()
			}
			if task.Status == "" {
				task.Status = types.TaskStatusNotStarted
			}
			if err := store.CreateTask(ctx, task); err != nil {
				return "", counts, err
			}
			counts.tasks++
		}
	}

	for _, so := range seed.Outcomes {
		outcome := types.DayOutcome{Date: so.Date, Planned: so.Planned, Completed: so.Completed}
		if err := store.RecordOutcome(ctx, seed.User, outcome); err != nil {
			return "", counts, err
		}
		counts.outcomes++
	}

	return seed.User, counts, nil
}
