package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FormTotal is a payments-by-method rollup row
type FormTotal struct {
	Form  string  `json:"form"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

// SalesSummary aggregates orders and payments over a window
type SalesSummary struct {
	OrderCount   int64   `json:"order_count"`
	TotalOrder   float64 `json:"total_order"`
	TotalPayment float64 `json:"total_payment"`
	TotalTip     float64 `json:"total_tip"`
}

// ProductSalesRow is a per-product sales rollup row
type ProductSalesRow struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int64     `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// CategorySalesRow is a per-category sales rollup row
type CategorySalesRow struct {
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	TotalSales   float64   `json:"total_sales"`
	OrderCount   int64     `json:"order_count"`
}

// AnalyticsRepository defines read-only aggregation queries. None of these
// mutate ledger state.
type AnalyticsRepository interface {
	// PaymentsByForm groups ledger entries by payment form and sums
	// amounts. SessionID narrows to one cash session when non-nil.
	PaymentsByForm(ctx context.Context, storeID uuid.UUID, sessionID *uuid.UUID, start, end *time.Time) ([]FormTotal, error)
	SalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*SalesSummary, error)
	ProductSales(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]ProductSalesRow, error)
	CategorySales(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]CategorySalesRow, error)
}
