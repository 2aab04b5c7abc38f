package repositories

import (
	"context"
	"time"
)

// EntrySequencer hands out the daily journal entry counter.
type EntrySequencer interface {
	// NextEntrySequence atomically increments and returns the 1-based counter for day (UTC).
	NextEntrySequence(ctx context.Context, day time.Time) (int64, error)
}
