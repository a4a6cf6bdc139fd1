// Package progress tracks batch analyses and keeps their results for a
// bounded time.
package progress

import (
	"context"
	"errors"
	"time"

	"github.com/ayoubbkt/airecruitaipme/internal/models"
)

// DefaultTTL is how long batch entries live
const DefaultTTL = time.Hour

// ErrNotFound is returned for unknown or expired batch IDs
var ErrNotFound = errors.New("analysis not found")

// Store records per-batch completion counters and results. Increment must
// be atomic per call.
type Store interface {
	// Start registers a batch of total documents
	Start(ctx context.Context, id string, total int) error
	// Increment counts one finished document
	Increment(ctx context.Context, id string, failed bool) error
	// Complete stores the report and marks the batch completed
	Complete(ctx context.Context, report models.BatchReport) error
	// Status returns the current counters
	Status(ctx context.Context, id string) (models.BatchStatus, error)
	// Report returns the stored report of a completed batch
	Report(ctx context.Context, id string) (models.BatchReport, error)
	Close() error
}

// newStatus fills the derived percentage
func newStatus(id string, total, processed, failed int, status string) models.BatchStatus {
	s := models.BatchStatus{
		ID:        id,
		Total:     total,
		Processed: processed,
		Failed:    failed,
		Status:    status,
	}
	if total > 0 {
		s.Progress = float64(processed) / float64(total) * 100
	} else if status == models.StatusCompleted {
		s.Progress = 100
	}
	return s
}
