package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/balcaohq/balcao-api/internal/domain/enum"
	"github.com/balcaohq/balcao-api/internal/domain/repository"
)

// AnalyticsRepo computes the aggregation queries over the in-memory dataset
type AnalyticsRepo struct {
	d *Dataset
}

// NewAnalyticsRepo creates an analytics repository over the dataset
func NewAnalyticsRepo(d *Dataset) *AnalyticsRepo { return &AnalyticsRepo{d: d} }

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

func (r *AnalyticsRepo) PaymentsByForm(ctx context.Context, storeID uuid.UUID, sessionID *uuid.UUID, start, end *time.Time) ([]repository.FormTotal, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	totals := make(map[string]*repository.FormTotal)
	for _, p := range r.d.payments {
		if p.StoreID != storeID {
			continue
		}
		if sessionID != nil && (p.SessionID == nil || *p.SessionID != *sessionID) {
			continue
		}
		if start != nil && p.CreatedAt.Before(*start) {
			continue
		}
		if end != nil && !p.CreatedAt.Before(*end) {
			continue
		}
		form := p.Form.String()
		t, ok := totals[form]
		if !ok {
			t = &repository.FormTotal{Form: form}
			totals[form] = t
		}
		t.Total += float64(p.Amount) / 100
		t.Count++
	}

	out := make([]repository.FormTotal, 0, len(totals))
	for _, t := range totals {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Form < out[j].Form })
	return out, nil
}

func (r *AnalyticsRepo) SalesSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*repository.SalesSummary, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	summary := &repository.SalesSummary{}
	for id, o := range r.d.orders {
		if o.StoreID != storeID || o.Status == enum.OrderStatusCancelled {
			continue
		}
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		summary.OrderCount++
		for i := range r.d.items[id] {
			it := &r.d.items[id][i]
			summary.TotalOrder += float64(it.LineTotal()) / 100
			summary.TotalTip += float64(it.TipAmount()) / 100
		}
	}
	for _, p := range r.d.payments {
		if p.StoreID != storeID {
			continue
		}
		if p.CreatedAt.Before(start) || !p.CreatedAt.Before(end) {
			continue
		}
		summary.TotalPayment += float64(p.Amount) / 100
	}
	return summary, nil
}

func (r *AnalyticsRepo) ProductSales(ctx context.Context, storeID uuid.UUID, start, end time.Time, limit int) ([]repository.ProductSalesRow, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	rows := make(map[uuid.UUID]*repository.ProductSalesRow)
	for id, o := range r.d.orders {
		if o.StoreID != storeID || o.Status == enum.OrderStatusCancelled {
			continue
		}
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		for i := range r.d.items[id] {
			it := &r.d.items[id][i]
			row, ok := rows[it.ProductID]
			if !ok {
				row = &repository.ProductSalesRow{ProductID: it.ProductID}
				if p, found := r.d.products[it.ProductID]; found {
					row.ProductName = p.Name
				}
				rows[it.ProductID] = row
			}
			row.QuantitySold += int64(it.Quantity)
			row.Revenue += float64(it.LineTotal()) / 100
		}
	}

	out := make([]repository.ProductSalesRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revenue > out[j].Revenue })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AnalyticsRepo) CategorySales(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]repository.CategorySalesRow, error) {
	r.d.mu.Lock()
	defer r.d.mu.Unlock()

	rows := make(map[uuid.UUID]*repository.CategorySalesRow)
	for id, o := range r.d.orders {
		if o.StoreID != storeID || o.Status == enum.OrderStatusCancelled {
			continue
		}
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		counted := make(map[uuid.UUID]bool)
		for i := range r.d.items[id] {
			it := &r.d.items[id][i]
			p, found := r.d.products[it.ProductID]
			if !found || p.CategoryID == nil {
				continue
			}
			row, ok := rows[*p.CategoryID]
			if !ok {
				row = &repository.CategorySalesRow{CategoryID: *p.CategoryID}
				if p.Category != nil {
					row.CategoryName = p.Category.Name
				}
				rows[*p.CategoryID] = row
			}
			row.TotalSales += float64(it.LineTotal()) / 100
			if !counted[*p.CategoryID] {
				row.OrderCount++
				counted[*p.CategoryID] = true
			}
		}
	}

	out := make([]repository.CategorySalesRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSales > out[j].TotalSales })
	return out, nil
}
