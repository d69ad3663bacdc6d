package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepository)(nil)

// TransactionRepository libro en memoria (solo append).
type TransactionRepository struct {
	s   *Store
	uow *unitOfWork
}

func (r *TransactionRepository) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions = append(r.s.transactions, *t)
	id := t.ID
	r.uow.record(func() {
		for i := len(r.s.transactions) - 1; i >= 0; i-- {
			if r.s.transactions[i].ID == id {
				r.s.transactions = append(r.s.transactions[:i], r.s.transactions[i+1:]...)
				return
			}
		}
	})
	return nil
}

func (r *TransactionRepository) ListByReference(_ context.Context, referenceID string) ([]*entity.Transaction, error) {
	r.s.mu.RLock()
	out := make([]*entity.Transaction, 0)
	for i := range r.s.transactions {
		if r.s.transactions[i].ReferenceID == referenceID {
			t := r.s.transactions[i]
			out = append(out, &t)
		}
	}
	r.s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].TransactionDate.Before(out[j].TransactionDate) })
	return out, nil
}
