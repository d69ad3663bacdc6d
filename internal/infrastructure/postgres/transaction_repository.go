package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo libro financiero sobre PostgreSQL. Solo INSERT y SELECT.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el repositorio del libro. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create agrega un asiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transactions (id, reference_id, reference_type, amount, payment_mode, description,
			status, transaction_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.ReferenceID, t.ReferenceType, t.Amount, t.PaymentMode, t.Description,
		t.Status, t.TransactionDate, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByReference asientos de una referencia en orden de registro.
func (r *TransactionRepo) ListByReference(ctx context.Context, referenceID string) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, reference_id, reference_type, amount, payment_mode, description,
			status, transaction_date, created_by, created_at
		FROM transactions WHERE reference_id = $1
		ORDER BY transaction_date, seq`, referenceID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Transaction, 0)
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.ReferenceID, &t.ReferenceType, &t.Amount, &t.PaymentMode, &t.Description,
			&t.Status, &t.TransactionDate, &t.CreatedBy, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
