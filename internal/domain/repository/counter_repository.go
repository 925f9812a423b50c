package repository

import (
	"context"

	"github.com/google/uuid"
)

// CounterRepository issues per-store, per-day sequential order numbers.
type CounterRepository interface {
	// Next atomically increments and returns the counter for the store,
	// restarting at 1 when day (YYYY-MM-DD) differs from the stored one.
	// Implemented as a single upsert so concurrent callers never observe
	// the same value.
	Next(ctx context.Context, storeID uuid.UUID, day string) (int, error)
}
