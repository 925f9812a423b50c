package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/entity"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
)

// CounterRepo is the in-memory sequence allocator. Increment-or-reset runs
// under the dataset lock, so the all-or-nothing contract holds: a caller
// either gets a fresh number or an error, never a duplicate.
type CounterRepo struct {
	d *Dataset
}

// NewCounterRepo creates a counter repository over the dataset
func NewCounterRepo(d *Dataset) *CounterRepo { return &CounterRepo{d: d} }

var _ repository.CounterRepository = (*CounterRepo)(nil)

func (r *CounterRepo) Next(ctx context.Context, storeID uuid.UUID, day string) (int, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	counter, ok := r.d.counters[storeID]
	if !ok || counter.Day != day {
		counter = &entity.OrderCounter{StoreID: storeID, Value: 0, Day: day}
		r.d.counters[storeID] = counter
	}
	counter.Value++
	counter.UpdatedAt = time.Now()
	return counter.Value, nil
}
