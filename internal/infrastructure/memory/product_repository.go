package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository catálogo en memoria.
type ProductRepository struct {
	s   *Store
	uow *unitOfWork
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.products {
		if strings.EqualFold(other.SKU, p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	id := p.ID
	r.uow.record(func() { delete(r.s.products, id) })
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if strings.EqualFold(p.SKU, sku) {
			return &p, nil
		}
	}
	return nil, nil
}

// GetForUpdate no bloquea filas: la exclusión la da Store.txMu.
func (r *ProductRepository) GetForUpdate(_ context.Context, ids []string) (map[string]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make(map[string]*entity.Product, len(ids))
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			out[id] = &p
		}
	}
	return out, nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	p.Stock.Quantity = p.Stock.Quantity.Add(delta)
	r.s.products[id] = p
	r.uow.record(func() {
		if cur, ok := r.s.products[id]; ok {
			cur.Stock.Quantity = cur.Stock.Quantity.Sub(delta)
			r.s.products[id] = cur
		}
	})
	return true, nil
}

func (r *ProductRepository) SetStockQuantity(_ context.Context, id string, qty decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	prev := p.Stock.Quantity
	p.Stock.Quantity = qty
	r.s.products[id] = p
	r.uow.record(func() {
		if cur, ok := r.s.products[id]; ok {
			cur.Stock.Quantity = prev
			r.s.products[id] = cur
		}
	})
	return true, nil
}

// Update conserva el stock.quantity guardado, igual que el UPDATE de PostgreSQL.
func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *p
	next.SKU = prev.SKU
	next.CreatedAt = prev.CreatedAt
	next.CreatedBy = prev.CreatedBy
	next.Stock.Quantity = prev.Stock.Quantity
	r.s.products[p.ID] = next
	r.uow.record(func() {
		if cur, ok := r.s.products[prev.ID]; ok {
			prev.Stock.Quantity = cur.Stock.Quantity
		}
		r.s.products[prev.ID] = prev
	})
	return nil
}

func (r *ProductRepository) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.RLock()
	all := make([]entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		all = append(all, p)
	}
	r.s.mu.RUnlock()

	search := strings.ToLower(f.Search)
	matched := make([]*entity.Product, 0, len(all))
	for i := range all {
		p := &all[i]
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) && !strings.Contains(strings.ToLower(p.SKU), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Brand != "" && p.Brand != f.Brand {
			continue
		}
		if f.LowStock && !p.IsLowStock() {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID < matched[j].ID
	})
	return page(matched, f.Offset, f.Limit), nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	prev, ok := r.s.products[id]
	if !ok {
		return false, nil
	}
	delete(r.s.products, id)
	r.uow.record(func() { r.s.products[id] = prev })
	return true, nil
}

func (r *ProductRepository) Categories(_ context.Context) ([]string, error) {
	return r.distinct(func(p entity.Product) string { return p.Category }), nil
}

func (r *ProductRepository) Brands(_ context.Context) ([]string, error) {
	return r.distinct(func(p entity.Product) string { return p.Brand }), nil
}

func (r *ProductRepository) distinct(field func(entity.Product) string) []string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range r.s.products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
