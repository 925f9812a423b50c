package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// Payment is a ledger entry. Entries are immutable once written except for
// the Refunded flag; a refund never deletes, it writes a negated
// compensating entry and flips the flag on the original.
type Payment struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"store_id"`
	AccountID   *uuid.UUID       `gorm:"type:uuid;index" json:"account_id,omitempty"`
	SessionID   *uuid.UUID       `gorm:"type:uuid;index" json:"session_id,omitempty"`
	OrderID     *uuid.UUID       `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Form        enum.PaymentForm `gorm:"default:0" json:"form"`
	Amount      int64            `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	ChargeTxID  *string          `gorm:"size:255;index" json:"charge_tx_id,omitempty"`
	Kind        enum.EntryKind   `gorm:"default:0" json:"kind"`
	Refunded    bool             `gorm:"default:false" json:"refunded"`
	CreatedByID uuid.UUID        `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(p),
		Amount: float64(p.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}

// Compensation builds the negated entry written when p is refunded.
func (p *Payment) Compensation() *Payment {
	return &Payment{
		StoreID:     p.StoreID,
		AccountID:   p.AccountID,
		SessionID:   p.SessionID,
		OrderID:     p.OrderID,
		Form:        p.Form,
		Amount:      -p.Amount,
		ChargeTxID:  p.ChargeTxID,
		Kind:        enum.EntryCompensating,
		Refunded:    true,
		CreatedByID: p.CreatedByID,
	}
}
