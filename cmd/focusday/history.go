package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	historyUser  string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent plan generations",
	Long:  `List the audit trail of plan generations for a user, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		store, err := openStore(ctx)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer store.Close()

		records, err := store.GetGenerationHistory(ctx, historyUser, historyLimit)
		if err != nil {
			return err
		}

		if len(records) == 0 {
			fmt.Printf("No plan generations recorded for %s\n", historyUser)
			return nil
		}

		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()
		fmt.Println()
		for _, rec := range records {
			fmt.Printf("%s  %s  %s  %d task(s)\n",
				cyan(rec.Date.Format("2006-01-02")),
				rec.Source,
				gray(rec.CreatedAt.Format("2006-01-02 15:04")),
				len(rec.Plan.Tasks))
		}
		fmt.Println()
		return nil
	},
}

func init() {
	historyCmd.Flags().StringVarP(&historyUser, "user", "u", "", "user id (required)")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum records to show")
	_ = historyCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(historyCmd)
}
