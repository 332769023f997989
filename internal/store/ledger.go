package store

import (
	"context"

	"github.com/sells-group/profile-cli/internal/model"
)

// RunFilter specifies criteria for listing ledger runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Ledger records batch run metadata alongside the append-only profile
// store. Both backends persist counters as a JSON column.
type Ledger interface {
	CreateRun(ctx context.Context, input, query string) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	CompleteRun(ctx context.Context, runID string, status model.RunStatus, counters model.RunCounters) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	Migrate(ctx context.Context) error
	Close() error
}
