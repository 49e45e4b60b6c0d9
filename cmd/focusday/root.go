// focusday generates ADHD-friendly daily task plans.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/focusday/focusday/internal/config"
	"github.com/focusday/focusday/internal/storage"
)

var (
	cfg     *config.Config
	dbPath  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "focusday",
	Short: "ADHD-aware daily plan generator",
	Long: `focusday builds a bounded, ordered, time-boxed plan of tasks for one day,
balancing cognitive load, project variety, and deadlines.

Plans come from an AI advisor when one is configured and reachable, with a
deterministic heuristic scheduler as the fallback.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// openStore opens the configured SQLite database
func openStore(ctx context.Context) (storage.Storage, error) {
	path := dbPath
	if path == "" {
		path = cfg.DBPath
	}
	return storage.NewStorage(ctx, &storage.Config{Path: path})
}

func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func main() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cobra.OnInitialize(setupLogging)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
