package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/focusday/focusday/internal/ai"
	"github.com/focusday/focusday/internal/engine"
)

var (
	planUser string
	planDate string
	planNoAI bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate a daily plan",
	Long: `Generate the daily plan for a user and date.

The plan is produced by the AI advisor when an Anthropic API key is
configured; with --no-ai (or no key) the deterministic heuristic
scheduler is used instead. The result is stored, replacing any earlier
plan for the same day.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		targetDate := time.Now()
		if planDate != "" {
			var err error
			targetDate, err = time.Parse("2006-01-02", planDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", planDate)
			}
		}

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		var advisor *engine.Advisor
		if !planNoAI {
			client, err := ai.NewClient(&ai.Config{
				APIKey:             cfg.APIKey,
				Model:              cfg.Model,
				Timeout:            cfg.RequestTimeout,
				MaxConcurrentCalls: cfg.MaxConcurrentCalls,
				RequestsPerMinute:  cfg.RequestsPerMinute,
			})
			if err != nil {
				yellow := color.New(color.FgYellow).SprintFunc()
				fmt.Printf("%s No AI credentials (%v), using the heuristic scheduler\n", yellow("⚠"), err)
			} else {
				advisor = engine.NewAdvisor(client)
			}
		}

		orch := engine.NewOrchestrator(engine.NewContextBuilder(store), advisor, store, store)

		result, err := orch.Generate(ctx, planUser, targetDate)
		if err != nil {
			if errors.Is(err, engine.ErrPreferencesNotFound) {
				return fmt.Errorf("user %s has no planning preferences; run 'focusday init --seed' first", planUser)
			}
			return err
		}

		renderPlan(result)
		return nil
	},
}

func init() {
	planCmd.Flags().StringVarP(&planUser, "user", "u", "", "user id (required)")
	planCmd.Flags().StringVarP(&planDate, "date", "d", "", "target date YYYY-MM-DD (default: today)")
	planCmd.Flags().BoolVar(&planNoAI, "no-ai", false, "skip the AI advisor and use the heuristic scheduler")
	_ = planCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(planCmd)
}

func renderPlan(result *engine.Result) {
	green := color.New(color.FgGreen).SprintFunc()
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Printf("\n%s Plan for %s (%s)\n\n",
		green("✓"), result.Stored.Date.Format("2006-01-02"), result.Source)

	if len(result.Plan.Tasks) == 0 {
		fmt.Printf("  %s\n\n", result.Plan.Reasoning)
		return
	}

	for _, item := range result.Plan.Tasks {
		title := item.TaskID
		if task := result.Context.TaskByID(item.TaskID); task != nil {
			title = fmt.Sprintf("%s %s", task.Title, gray("["+task.Complexity.Human()+"]"))
		}
		window := ""
		if item.RecommendedStartTime != nil && item.RecommendedEndTime != nil {
			window = fmt.Sprintf("%s-%s  ", *item.RecommendedStartTime, *item.RecommendedEndTime)
		}
		fmt.Printf("  %d. %s%s\n", item.Order, cyan(window), title)
		if item.AIAdvice != nil && *item.AIAdvice != "" {
			fmt.Printf("     %s\n", gray(*item.AIAdvice))
		}
	}

	fmt.Printf("\n%s %s\n\n", gray("Why:"), result.Plan.Reasoning)
}
