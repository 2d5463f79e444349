package stores

import (
	"context"
	"time"
)

// SearchRun is one recorded search run.
type SearchRun struct {
	// ID is a UUID assigned when the run starts.
	ID string `json:"id"`

	// Scenario is the name of the scenario that was solved.
	Scenario string `json:"scenario"`

	// RuleSet is the ruleset the run searched with.
	RuleSet string `json:"ruleset"`

	// MergeMethod is the open-list discipline used.
	MergeMethod string `json:"merge_method"`

	// SortNewNodes records whether successor batches were value-sorted.
	SortNewNodes bool `json:"sort_new_nodes"`

	// Found reports whether a goal state was reached.
	Found bool `json:"found"`

	// PathLength is the number of states in the solution, zero if none.
	PathLength int `json:"path_length"`

	// Generated and Expanded are the run's node statistics.
	Generated int `json:"generated"`
	Expanded  int `json:"expanded"`

	// Duration is the wall-clock time of the search.
	Duration time.Duration `json:"duration"`

	// Error holds the error message if the run failed.
	Error *string `json:"error,omitempty"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`
}

// Store persists search run history.
type Store interface {
	// Init opens the underlying storage.
	Init(ctx context.Context) error

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// RecordRun inserts a completed run.
	RecordRun(ctx context.Context, run *SearchRun) error

	// GetRun retrieves a run by ID.
	GetRun(ctx context.Context, id string) (*SearchRun, error)

	// ListRuns returns runs ordered by start time, newest first.
	ListRuns(ctx context.Context, limit, offset int) ([]*SearchRun, error)

	// Close releases the underlying storage.
	Close() error
}
