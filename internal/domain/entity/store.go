package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// StoreSettings holds service flags and rates the order policies consult.
type StoreSettings struct {
	AcceptingOrders bool    `json:"accepting_orders"`
	DeliveryEnabled bool    `json:"delivery_enabled"`
	TipRate         float64 `json:"tip_rate"`         // e.g. 0.10 for 10%
	DiscountCeiling int64   `json:"discount_ceiling"` // cents
	PixKey          string  `json:"pix_key"`
}

// Store represents an establishment in the system
type Store struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	Address   string         `gorm:"type:text" json:"address,omitempty"`
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	Settings  StoreSettings  `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new store
func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Store model
func (Store) TableName() string {
	return "stores"
}

// PaymentMethod is a store-configured settlement method with an enabled flag
type PaymentMethod struct {
	ID        uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	StoreID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"store_id"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Form      enum.PaymentForm `gorm:"default:0" json:"form"`
	Enabled   bool             `gorm:"default:true" json:"enabled"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment method
func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
