package download

import (
	"context"

	"github.com/kadraa-png/yt-fetch/internal/model"
)

// Fetcher defines the interface for the fetch service.
type Fetcher interface {
	SetUpdateCallback(func(*model.WorkItem))

	// Run processes the prepared inputs sequentially and returns a run summary.
	Run(ctx context.Context, inputs []string) (*Summary, error)

	// Resolve expands inputs into concrete videos without downloading.
	Resolve(ctx context.Context, inputs []string) []model.ResolvedEntry

	// Items returns all work items of the current run in order.
	Items() []*model.WorkItem

	// Hints returns the failure hints collected during the run.
	Hints() Hints
}

// Summary counts the outcomes of a run.
type Summary struct {
	Completed int
	Skipped   int
	Failed    int
}
