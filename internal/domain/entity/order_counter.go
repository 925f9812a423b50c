package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderCounter holds the last sequential display number issued for a store
// and the calendar day it was issued on. The counter restarts at 1 whenever
// the stored day differs from the current day. Updated only through the
// repository's atomic upsert-increment.
type OrderCounter struct {
	StoreID   uuid.UUID `gorm:"type:uuid;primary_key" json:"store_id"`
	Value     int       `gorm:"not null" json:"value"`
	Day       string    `gorm:"size:10;not null" json:"day"` // YYYY-MM-DD in store-local time
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the OrderCounter model
func (OrderCounter) TableName() string {
	return "order_counters"
}
