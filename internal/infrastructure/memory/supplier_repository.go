package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepository)(nil)

// SupplierRepository proveedores en memoria. Phone es único.
type SupplierRepository struct {
	s *Store
}

func cloneSupplier(in entity.Supplier) *entity.Supplier {
	out := in
	if in.Rating != nil {
		r := *in.Rating
		out.Rating = &r
	}
	return &out
}

func (r *SupplierRepository) Create(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.suppliers {
		if other.Phone == sup.Phone {
			return domain.ErrDuplicate
		}
	}
	r.s.suppliers[sup.ID] = *cloneSupplier(*sup)
	return nil
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	sup, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	return cloneSupplier(sup), nil
}

func (r *SupplierRepository) GetByPhone(_ context.Context, phone string) (*entity.Supplier, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, sup := range r.s.suppliers {
		if sup.Phone == phone {
			return cloneSupplier(sup), nil
		}
	}
	return nil, nil
}

func (r *SupplierRepository) List(_ context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	r.s.mu.RLock()
	all := make([]*entity.Supplier, 0, len(r.s.suppliers))
	for _, sup := range r.s.suppliers {
		if matchesParty(search, sup.Name, sup.Phone, sup.Email) {
			all = append(all, cloneSupplier(sup))
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, offset, limit), nil
}

func (r *SupplierRepository) Update(_ context.Context, sup *entity.Supplier) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[sup.ID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.s.suppliers {
		if other.ID != sup.ID && other.Phone == sup.Phone {
			return domain.ErrDuplicate
		}
	}
	r.s.suppliers[sup.ID] = *cloneSupplier(*sup)
	return nil
}

func (r *SupplierRepository) Delete(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.suppliers[id]; !ok {
		return false, nil
	}
	delete(r.s.suppliers, id)
	return true, nil
}
