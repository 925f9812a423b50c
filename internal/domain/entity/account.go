package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// Account represents an open tab a customer can order against before
// settling. Orders and payments reference the account by id; the account
// never embeds them.
type Account struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	StoreID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"store_id"`
	Description  string             `gorm:"type:text" json:"description"`
	Status       enum.AccountStatus `gorm:"default:0" json:"status"`
	CustomerID   *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName string             `gorm:"size:255" json:"customer_name"`
	CreatedByID  uuid.UUID          `gorm:"type:uuid;not null" json:"created_by_id"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	DeletedAt    gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relationships
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
}

// BeforeCreate generates a UUID before creating a new account
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Account model
func (Account) TableName() string {
	return "accounts"
}
