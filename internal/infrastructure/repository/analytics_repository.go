package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
	domainRepo "github.com/balcaohq/balcao-api/internal/domain/repository"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) PaymentsByForm(ctx context.Context, storeID uuid.UUID, sessionID *uuid.UUID, start, end *time.Time) ([]domainRepo.FormTotal, error) {
	var rows []struct {
		Form  enum.PaymentForm
		Total int64
		Count int64
	}

	query := r.db.WithContext(ctx).Table("payments").
		Select("form, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("store_id = ? AND deleted_at IS NULL", storeID)
	if sessionID != nil {
		query = query.Where("session_id = ?", *sessionID)
	}
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at < ?", *end)
	}

	if err := query.Group("form").Order("form ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domainRepo.FormTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRepo.FormTotal{
			Form:  row.Form.String(),
			Total: float64(row.Total) / 100,
			Count: row.Count,
		})
	}
	return out, nil
}

func (r *analyticsRepository) SalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*domainRepo.SalesSummary, error) {
	var orderRow struct {
		OrderCount int64
		TotalOrder int64
		TotalTip   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(DISTINCT o.id) AS order_count,
			COALESCE(SUM(i.unit_price * i.quantity), 0) AS total_order,
			COALESCE(SUM(ROUND(i.tip_rate * i.unit_price * i.quantity)), 0) AS total_tip
		FROM orders o
		JOIN order_items i ON i.order_id = o.id AND i.deleted_at IS NULL
		WHERE o.store_id = ?
		  AND o.status <> ?
		  AND o.deleted_at IS NULL
		  AND o.created_at >= ? AND o.created_at < ?`,
		storeID, enum.OrderStatusCancelled, start, end,
	).Scan(&orderRow).Error
	if err != nil {
		return nil, err
	}

	var totalPayment int64
	err = r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE store_id = ? AND deleted_at IS NULL
		  AND created_at >= ? AND created_at < ?`,
		storeID, start, end,
	).Scan(&totalPayment).Error
	if err != nil {
		return nil, err
	}

	return &domainRepo.SalesSummary{
		OrderCount:   orderRow.OrderCount,
		TotalOrder:   float64(orderRow.TotalOrder) / 100,
		TotalPayment: float64(totalPayment) / 100,
		TotalTip:     float64(orderRow.TotalTip) / 100,
	}, nil
}

func (r *analyticsRepository) ProductSales(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]domainRepo.ProductSalesRow, error) {
	var rows []struct {
		ProductID    uuid.UUID
		ProductName  string
		QuantitySold int64
		Revenue      int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			i.product_id,
			p.name AS product_name,
			COALESCE(SUM(i.quantity), 0) AS quantity_sold,
			COALESCE(SUM(i.unit_price * i.quantity), 0) AS revenue
		FROM order_items i
		JOIN orders o ON o.id = i.order_id AND o.deleted_at IS NULL
		JOIN products p ON p.id = i.product_id
		WHERE o.store_id = ?
		  AND o.status <> ?
		  AND i.deleted_at IS NULL
		  AND o.created_at >= ? AND o.created_at < ?
		GROUP BY i.product_id, p.name
		ORDER BY revenue DESC
		LIMIT ?`,
		storeID, enum.OrderStatusCancelled, start, end, limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domainRepo.ProductSalesRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRepo.ProductSalesRow{
			ProductID:    row.ProductID,
			ProductName:  row.ProductName,
			QuantitySold: row.QuantitySold,
			Revenue:      float64(row.Revenue) / 100,
		})
	}
	return out, nil
}

func (r *analyticsRepository) CategorySales(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]domainRepo.CategorySalesRow, error) {
	var rows []struct {
		CategoryID   uuid.UUID
		CategoryName string
		TotalSales   int64
		OrderCount   int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id AS category_id,
			c.name AS category_name,
			COALESCE(SUM(i.unit_price * i.quantity), 0) AS total_sales,
			COUNT(DISTINCT o.id) AS order_count
		FROM order_items i
		JOIN orders o ON o.id = i.order_id AND o.deleted_at IS NULL
		JOIN products p ON p.id = i.product_id
		JOIN categories c ON c.id = p.category_id
		WHERE o.store_id = ?
		  AND o.status <> ?
		  AND i.deleted_at IS NULL
		  AND o.created_at >= ? AND o.created_at < ?
		GROUP BY c.id, c.name
		ORDER BY total_sales DESC`,
		storeID, enum.OrderStatusCancelled, start, end,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domainRepo.CategorySalesRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRepo.CategorySalesRow{
			CategoryID:   row.CategoryID,
			CategoryName: row.CategoryName,
			TotalSales:   float64(row.TotalSales) / 100,
			OrderCount:   row.OrderCount,
		})
	}
	return out, nil
}
