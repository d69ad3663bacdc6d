package repository

import (
	"context"

	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
)

// TransactionRepository libro financiero: solo inserción y consulta.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// ListByReference devuelve los asientos de una referencia en orden cronológico.
	ListByReference(ctx context.Context, referenceID string) ([]*entity.Transaction, error)
}
