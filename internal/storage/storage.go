// Package storage defines the persistence interface backing the plan
// generation engine and the CLI.
package storage

import (
	"context"
	"time"

	"github.com/focusday/focusday/internal/storage/sqlite"
	"github.com/focusday/focusday/internal/types"
)

// Storage defines the interface for focusday storage backends.
//
// The first three methods are the data-provider capability the engine's
// context builder consumes. GetPreferences returns (nil, nil) when the
// user has no preferences row; the engine maps that to its own error.
type Storage interface {
	// Data provider (consumed by the engine)
	GetPreferences(ctx context.Context, userID string) (*types.Preferences, error)
	GetActiveProjectsWithTasks(ctx context.Context, userID string) ([]*types.ProjectWithTasks, error)
	GetRecentOutcomes(ctx context.Context, userID string, since time.Time) ([]types.DayOutcome, error)

	// Seeding and upkeep (consumed by the CLI)
	PutPreferences(ctx context.Context, prefs *types.Preferences) error
	CreateProject(ctx context.Context, project *types.Project) error
	CreateTask(ctx context.Context, task *types.Task) error
	RecordOutcome(ctx context.Context, userID string, outcome types.DayOutcome) error

	// Plan persistence sink
	SavePlan(ctx context.Context, plan *types.StoredPlan) error
	GetPlan(ctx context.Context, userID string, date time.Time) (*types.StoredPlan, error)

	// Generation history (best-effort audit trail)
	RecordGeneration(ctx context.Context, rec *types.GenerationRecord) error
	GetGenerationHistory(ctx context.Context, userID string, limit int) ([]*types.GenerationRecord, error)

	// Lifecycle
	Close() error
}

// Config holds database configuration
type Config struct {
	// Path is the SQLite database file path.
	// Default: ".focusday/focusday.db"
	// Special value ":memory:" creates an in-memory database (useful for tests)
	Path string
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{Path: ".focusday/focusday.db"}
}

// NewStorage creates a new SQLite storage backend
func NewStorage(ctx context.Context, cfg *Config) (Storage, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Path == "" {
		cfg.Path = ".focusday/focusday.db"
	}
	return sqlite.New(cfg.Path)
}
