package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainRepo "github.com/balcaohq/balcao-api/internal/domain/repository"
)

type counterRepository struct {
	db *gorm.DB
}

// NewCounterRepository creates a new sequence allocator repository
func NewCounterRepository(db *gorm.DB) domainRepo.CounterRepository {
	return &counterRepository{db: db}
}

// Next increments and reads the per-store counter in a single upsert. The
// CASE in the conflict branch resets the count to 1 whenever the stored day
// differs from the requested one, so the first order of a new day always
// gets number 1 and concurrent callers never share a value.
func (r *counterRepository) Next(ctx context.Context, storeID uuid.UUID, day string) (int, error) {
	var value int
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (store_id, value, day, updated_at)
		VALUES (?, 1, ?, NOW())
		ON CONFLICT (store_id) DO UPDATE SET
			value = CASE WHEN order_counters.day = EXCLUDED.day THEN order_counters.value + 1 ELSE 1 END,
			day = EXCLUDED.day,
			updated_at = NOW()
		RETURNING value`,
		storeID, day,
	).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}
