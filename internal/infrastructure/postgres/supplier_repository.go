package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

const supplierColumns = partyColumns + `, payment_terms, outstanding_balance, rating, is_active, created_at, updated_at`

// SupplierRepo proveedores sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	dest := []any{&s.ID, &s.Name, &s.Email, &s.Phone, &s.GSTNumber}
	dest = append(dest, addressDest(&s.Address)...)
	dest = append(dest, &s.PaymentTerms, &s.OutstandingBalance, &s.Rating, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste un proveedor. Teléfono duplicado -> ErrDuplicate.
func (r *SupplierRepo) Create(ctx context.Context, s *entity.Supplier) error {
	args := []any{s.ID, s.Name, s.Email, s.Phone, s.GSTNumber}
	args = append(args, addressArgs(s.Address)...)
	args = append(args, s.PaymentTerms, s.OutstandingBalance, s.Rating, s.IsActive, s.CreatedAt, s.UpdatedAt)
	_, err := r.q.Exec(ctx, `
		INSERT INTO suppliers (`+supplierColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID.
func (r *SupplierRepo) GetByID(ctx context.Context, id string) (*entity.Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id)
}

// GetByPhone obtiene un proveedor por teléfono.
func (r *SupplierRepo) GetByPhone(ctx context.Context, phone string) (*entity.Supplier, error) {
	return r.findOne(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE phone = $1`, phone)
}

func (r *SupplierRepo) findOne(ctx context.Context, query string, arg any) (*entity.Supplier, error) {
	s, err := scanSupplier(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// List busca en nombre, teléfono y email; más recientes primero.
func (r *SupplierRepo) List(ctx context.Context, search string, limit, offset int) ([]*entity.Supplier, error) {
	var w whereBuilder
	partySearch(&w, search)
	query := `SELECT ` + supplierColumns + ` FROM suppliers` + w.sql() + ` ORDER BY created_at DESC, id` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()
	out := make([]*entity.Supplier, 0)
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Update actualiza los datos del proveedor.
func (r *SupplierRepo) Update(ctx context.Context, s *entity.Supplier) error {
	args := []any{s.ID, s.Name, s.Email, s.Phone, s.GSTNumber}
	args = append(args, addressArgs(s.Address)...)
	args = append(args, s.PaymentTerms, s.OutstandingBalance, s.Rating, s.IsActive, s.UpdatedAt)
	cmd, err := r.q.Exec(ctx, `
		UPDATE suppliers SET name = $2, email = $3, phone = $4, gst_number = $5,
			address_street = $6, address_city = $7, address_state = $8, address_pincode = $9, address_country = $10,
			payment_terms = $11, outstanding_balance = $12, rating = $13, is_active = $14, updated_at = $15
		WHERE id = $1`, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update supplier: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un proveedor.
func (r *SupplierRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete supplier: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}
