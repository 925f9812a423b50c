package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// PendingPayment is the payload embedded in a charge that becomes the real
// ledger entry once the gateway confirms the transfer.
type PendingPayment struct {
	AccountID *uuid.UUID       `json:"account_id,omitempty"`
	SessionID *uuid.UUID       `json:"session_id,omitempty"`
	OrderID   *uuid.UUID       `json:"order_id,omitempty"`
	Form      enum.PaymentForm `json:"form"`
	Amount    int64            `json:"amount"` // cents
}

// PixCharge is an instant-transfer payment request awaiting out-of-band
// confirmation. processing -> finished on a confirmed callback,
// processing -> cancelled on explicit cancellation; both terminal.
type PixCharge struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	StoreID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	CreatedByID uuid.UUID         `gorm:"type:uuid;not null" json:"created_by_id"`
	TxID        string            `gorm:"size:255;uniqueIndex;not null" json:"tx_id"`
	EndToEndID  *string           `gorm:"size:255" json:"end_to_end_id,omitempty"`
	Status      enum.ChargeStatus `gorm:"default:0" json:"status"`
	QRPayload   string            `gorm:"type:text" json:"qr_payload"`
	Pending     PendingPayment    `gorm:"type:jsonb;serializer:json" json:"pending"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new charge
func (c *PixCharge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PixCharge model
func (PixCharge) TableName() string {
	return "pix_charges"
}

// MaterializePayment builds the ledger entry for a confirmed charge.
func (c *PixCharge) MaterializePayment() *Payment {
	txID := c.TxID
	return &Payment{
		StoreID:     c.StoreID,
		AccountID:   c.Pending.AccountID,
		SessionID:   c.Pending.SessionID,
		OrderID:     c.Pending.OrderID,
		Form:        c.Pending.Form,
		Amount:      c.Pending.Amount,
		ChargeTxID:  &txID,
		Kind:        enum.EntryOriginal,
		CreatedByID: c.CreatedByID,
	}
}
