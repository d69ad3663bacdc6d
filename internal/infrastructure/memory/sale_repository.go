package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/invoice"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepository)(nil)

// SaleRepository ventas en memoria. Las líneas se copian al guardar y al leer.
type SaleRepository struct {
	s   *Store
	uow *unitOfWork
}

func cloneSale(in entity.Sale) entity.Sale {
	out := in
	out.Items = append([]entity.SaleItem(nil), in.Items...)
	return out
}

func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.sales[sale.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, other := range r.s.sales {
		if other.InvoiceNumber == sale.InvoiceNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.sales[sale.ID] = cloneSale(*sale)
	id := sale.ID
	r.uow.record(func() { delete(r.s.sales, id) })
	return nil
}

func (r *SaleRepository) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	s, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	c := cloneSale(s)
	return &c, nil
}

func (r *SaleRepository) Update(_ context.Context, sale *entity.Sale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.sales[sale.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := prev
	next.PaymentStatus = sale.PaymentStatus
	next.AmountPaid = sale.AmountPaid
	next.Notes = sale.Notes
	next.UpdatedAt = sale.UpdatedAt
	next.Items = append([]entity.SaleItem(nil), prev.Items...)
	for i := range next.Items {
		if i < len(sale.Items) {
			next.Items[i].ReturnedQuantity = sale.Items[i].ReturnedQuantity
		}
	}
	r.s.sales[sale.ID] = next
	r.uow.record(func() { r.s.sales[prev.ID] = prev })
	return nil
}

// snapshot copia las ventas ordenadas por (sale_date, id) ascendente.
func (r *SaleRepository) snapshot() []entity.Sale {
	r.s.mu.RLock()
	out := make([]entity.Sale, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		out = append(out, cloneSale(s))
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SaleDate.Equal(out[j].SaleDate) {
			return out[i].SaleDate.Before(out[j].SaleDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *SaleRepository) List(_ context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
	all := r.snapshot()
	matched := make([]*entity.Sale, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		s := &all[i]
		if f.StartDate != nil && s.SaleDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && s.SaleDate.After(*f.EndDate) {
			continue
		}
		if f.PaymentStatus != "" && s.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.CustomerID != "" && s.CustomerID != f.CustomerID {
			continue
		}
		matched = append(matched, s)
	}
	return page(matched, f.Offset, f.Limit), nil
}

func (r *SaleRepository) LatestInvoiceNumber(_ context.Context, day time.Time) (string, error) {
	r.s.mu.RLock()
	numbers := make([]string, 0, len(r.s.sales))
	for _, s := range r.s.sales {
		numbers = append(numbers, s.InvoiceNumber)
	}
	r.s.mu.RUnlock()
	return invoice.Latest(day, numbers), nil
}

// Rollup recorre las ventas en orden (sale_date, id) y las líneas en su orden,
// así los empates del ranking quedan en orden de primera aparición.
func (r *SaleRepository) Rollup(_ context.Context, w repository.StatsWindows, topN int) (*repository.SalesRollup, error) {
	out := &repository.SalesRollup{
		TotalSales:  decimal.Zero,
		TodaySales:  decimal.Zero,
		WeekSales:   decimal.Zero,
		MonthSales:  decimal.Zero,
		TopProducts: []repository.ProductRevenue{},
	}
	inWindow := func(t, start time.Time) bool { return !t.Before(start) && !t.After(w.Now) }

	idx := make(map[string]int)
	agg := make([]repository.ProductRevenue, 0)
	for _, s := range r.snapshot() {
		out.TotalSales = out.TotalSales.Add(s.Total)
		out.TotalCount++
		if inWindow(s.SaleDate, w.TodayStart) {
			out.TodaySales = out.TodaySales.Add(s.Total)
		}
		if inWindow(s.SaleDate, w.WeekStart) {
			out.WeekSales = out.WeekSales.Add(s.Total)
		}
		if inWindow(s.SaleDate, w.MonthStart) {
			out.MonthSales = out.MonthSales.Add(s.Total)
		}
		for _, it := range s.Items {
			i, ok := idx[it.ProductID]
			if !ok {
				i = len(agg)
				idx[it.ProductID] = i
				agg = append(agg, repository.ProductRevenue{
					ProductID:     it.ProductID,
					ProductName:   it.ProductName,
					TotalQuantity: decimal.Zero,
					TotalRevenue:  decimal.Zero,
				})
			}
			agg[i].TotalQuantity = agg[i].TotalQuantity.Add(it.Quantity)
			agg[i].TotalRevenue = agg[i].TotalRevenue.Add(it.LineTotal)
		}
	}
	sort.SliceStable(agg, func(i, j int) bool { return agg[i].TotalRevenue.GreaterThan(agg[j].TotalRevenue) })
	if topN > 0 && len(agg) > topN {
		agg = agg[:topN]
	}
	out.TopProducts = agg
	return out, nil
}
