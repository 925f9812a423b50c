package entity

import (
	"encoding/json"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
)

// Order represents a sales order placed through one of the four channels.
// Orders are created once by a channel policy and thereafter only
// status-transitioned or line-item-mutated.
type Order struct {
	ID              uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	StoreID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"store_id"`
	Channel         enum.OrderChannel `gorm:"default:0" json:"channel"`
	Status          enum.OrderStatus  `gorm:"default:0" json:"status"`
	AccountID       *uuid.UUID        `gorm:"type:uuid;index" json:"account_id,omitempty"`
	PaymentMethodID *uuid.UUID        `gorm:"type:uuid" json:"payment_method_id,omitempty"`
	CreatedByID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"created_by_id"`
	SequenceNo      *int              `json:"sequence_no,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`

	// Relationships
	Account *Account    `gorm:"foreignKey:AccountID" json:"-"`
	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Subtotal returns the sum of all line totals in cents.
func (o *Order) Subtotal() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].LineTotal()
	}
	return total
}

// TotalTip returns the sum of item tip value x line total, in cents.
func (o *Order) TotalTip() int64 {
	var total int64
	for i := range o.Items {
		total += o.Items[i].TipAmount()
	}
	return total
}

// TotalProducts returns the total quantity across all items.
func (o *Order) TotalProducts() int {
	var total int
	for i := range o.Items {
		total += o.Items[i].Quantity
	}
	return total
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitPrice   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	TipEligible bool           `gorm:"default:false" json:"tip_eligible"`
	TipRate     float64        `gorm:"default:0" json:"tip_rate"`
	Prepare     bool           `gorm:"default:true" json:"prepare"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (it OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(it),
		UnitPrice: float64(it.UnitPrice) / 100,
		LineTotal: float64(it.LineTotal()) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (it *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal returns quantity x unit price in cents.
func (it *OrderItem) LineTotal() int64 {
	return it.UnitPrice * int64(it.Quantity)
}

// TipAmount returns the tip owed on this line in cents, rounded half-up.
func (it *OrderItem) TipAmount() int64 {
	if it.TipRate == 0 {
		return 0
	}
	return int64(math.Round(it.TipRate * float64(it.LineTotal())))
}
