package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// CashSession is one operator's till-drawer period from open to close.
// At most one open session may exist per operator; the repository enforces
// this with an atomic conditional insert.
type CashSession struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"store_id"`
	OperatorID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"operator_id"`
	Status       enum.SessionStatus `gorm:"default:0" json:"status"`
	OpeningFloat int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	OpenedAt     time.Time          `json:"opened_at"`
	ClosedAt     *time.Time         `json:"closed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`

	// Relationships
	Movements []CashMovement `gorm:"foreignKey:SessionID" json:"movements,omitempty"`
	Closing   *CashClosing   `gorm:"foreignKey:SessionID" json:"closing,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s CashSession) MarshalJSON() ([]byte, error) {
	type Alias CashSession
	return json.Marshal(&struct {
		Alias
		OpeningFloat float64 `json:"opening_float"`
	}{
		Alias:        Alias(s),
		OpeningFloat: float64(s.OpeningFloat) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashSession model
func (CashSession) TableName() string {
	return "cash_sessions"
}

// CashMovement is a manual supply or withdrawal recorded against an open
// session. Movements are never modified or deleted.
type CashMovement struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	SessionID       uuid.UUID         `gorm:"type:uuid;not null;index" json:"session_id"`
	Type            enum.MovementType `gorm:"default:0" json:"type"`
	Amount          int64             `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	PaymentMethodID *uuid.UUID        `gorm:"type:uuid" json:"payment_method_id,omitempty"`
	Note            string            `gorm:"type:text" json:"note"`
	CreatedAt       time.Time         `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (m CashMovement) MarshalJSON() ([]byte, error) {
	type Alias CashMovement
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(m),
		Amount: float64(m.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new movement
func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashMovement model
func (CashMovement) TableName() string {
	return "cash_movements"
}

// CashClosing is the immutable reconciliation snapshot created once at
// session close, holding the operator-counted total per payment form in
// cents. One-to-one with the session.
type CashClosing struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SessionID     uuid.UUID        `gorm:"type:uuid;uniqueIndex;not null" json:"session_id"`
	CountedTotals map[string]int64 `gorm:"type:jsonb;serializer:json" json:"counted_totals"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new closing snapshot
func (c *CashClosing) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashClosing model
func (CashClosing) TableName() string {
	return "cash_closings"
}
