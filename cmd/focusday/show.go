package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	showUser string
	showDate string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored plan for a day",
	Long:  `Print the stored plan for a user and date without regenerating it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		date := time.Now()
		if showDate != "" {
			var err error
			date, err = time.Parse("2006-01-02", showDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", showDate)
			}
		}

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		stored, err := store.GetPlan(ctx, showUser, date)
		if err != nil {
			return err
		}
		if stored == nil {
			fmt.Printf("No plan stored for %s on %s\n", showUser, date.Format("2006-01-02"))
			return nil
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\nPlan for %s (%s, generated %s)\n\n",
			stored.Date.Format("2006-01-02"), stored.Source,
			gray(stored.GeneratedAt.Format("2006-01-02 15:04")))

		for _, item := range stored.Plan.Tasks {
			window := ""
			if item.RecommendedStartTime != nil && item.RecommendedEndTime != nil {
				window = fmt.Sprintf("%s-%s  ", *item.RecommendedStartTime, *item.RecommendedEndTime)
			}
			fmt.Printf("  %d. %s%s\n", item.Order, cyan(window), item.TaskID)
			if item.AIAdvice != nil && *item.AIAdvice != "" {
				fmt.Printf("     %s\n", gray(*item.AIAdvice))
			}
		}
		if len(stored.Plan.Tasks) == 0 {
			fmt.Printf("  %s\n", stored.Plan.Reasoning)
		} else {
			fmt.Printf("\n%s %s\n", gray("Why:"), stored.Plan.Reasoning)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	showCmd.Flags().StringVarP(&showUser, "user", "u", "", "user id (required)")
	showCmd.Flags().StringVarP(&showDate, "date", "d", "", "date YYYY-MM-DD (default: today)")
	_ = showCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(showCmd)
}
