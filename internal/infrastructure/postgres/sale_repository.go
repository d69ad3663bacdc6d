package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/invoice"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, invoice_number, customer_id, customer_name, customer_phone,
	subtotal, discount_amount, discount_type, tax_amount, total, amount_paid,
	payment_mode, payment_status, notes, sale_date, created_by, created_at, updated_at`

const saleItemColumns = `sale_id, line_no, product_id, product_name, sku, quantity, unit_price,
	discount, discount_type, tax_rate, tax_amount, line_total, returned_quantity`

// SaleRepo ventas y sus líneas (sale_items) sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el repositorio de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y las líneas en un solo batch.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (`+saleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		s.ID, s.InvoiceNumber, s.CustomerID, s.CustomerName, s.CustomerPhone,
		s.Subtotal, s.DiscountAmount, s.DiscountType, s.TaxAmount, s.Total, s.AmountPaid,
		s.PaymentMode, s.PaymentStatus, s.Notes, s.SaleDate, s.CreatedBy, s.CreatedAt, s.UpdatedAt,
	)
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (`+saleItemColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			s.ID, i, it.ProductID, it.ProductName, it.SKU, it.Quantity, it.UnitPrice,
			it.Discount, it.DiscountType, it.TaxRate, it.TaxAmount, it.LineTotal, it.ReturnedQuantity,
		)
	}
	br := r.q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			if isUniqueViolation(err) && constraintName(err) == "sales_invoice_number_key" {
				return fmt.Errorf("factura %s: %w", s.InvoiceNumber, domain.ErrDuplicate)
			}
			return fmt.Errorf("insert sale: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(
		&s.ID, &s.InvoiceNumber, &s.CustomerID, &s.CustomerName, &s.CustomerPhone,
		&s.Subtotal, &s.DiscountAmount, &s.DiscountType, &s.TaxAmount, &s.Total, &s.AmountPaid,
		&s.PaymentMode, &s.PaymentStatus, &s.Notes, &s.SaleDate, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID obtiene una venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// loadItems carga las líneas de varias ventas con una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		byID[s.ID] = s
		s.Items = make([]entity.SaleItem, 0)
	}
	rows, err := r.q.Query(ctx,
		`SELECT `+saleItemColumns+` FROM sale_items WHERE sale_id = ANY($1) ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID string
			lineNo int
			it     entity.SaleItem
		)
		if err := rows.Scan(&saleID, &lineNo, &it.ProductID, &it.ProductName, &it.SKU, &it.Quantity, &it.UnitPrice,
			&it.Discount, &it.DiscountType, &it.TaxRate, &it.TaxAmount, &it.LineTotal, &it.ReturnedQuantity); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}

// Update persiste estado, pagado, notas y cantidades devueltas por línea.
func (r *SaleRepo) Update(ctx context.Context, s *entity.Sale) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE sales SET payment_status = $2, amount_paid = $3, notes = $4, updated_at = $5
		WHERE id = $1`,
		s.ID, s.PaymentStatus, s.AmountPaid, s.Notes, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	batch := &pgx.Batch{}
	for i, it := range s.Items {
		batch.Queue(`UPDATE sale_items SET returned_quantity = $3 WHERE sale_id = $1 AND line_no = $2`,
			s.ID, i, it.ReturnedQuantity)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("update sale items: %w", err)
	}
	return nil
}

// List ventas por fecha descendente con filtros inclusivos.
func (r *SaleRepo) List(ctx context.Context, f entity.SaleFilter) ([]*entity.Sale, error) {
	var w whereBuilder
	if f.StartDate != nil {
		w.add(`sale_date >= ?`, *f.StartDate)
	}
	if f.EndDate != nil {
		w.add(`sale_date <= ?`, *f.EndDate)
	}
	if f.PaymentStatus != "" {
		w.add(`payment_status = ?`, f.PaymentStatus)
	}
	if f.CustomerID != "" {
		w.add(`customer_id = ?`, f.CustomerID)
	}
	query := `SELECT ` + saleColumns + ` FROM sales` + w.sql() + ` ORDER BY sale_date DESC, id DESC`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	list := make([]*entity.Sale, 0)
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// LatestInvoiceNumber toma un advisory lock de transacción por día y devuelve el mayor número de ese día.
// El mayor se elige por (longitud, texto) para que INV-...-10000 quede por encima de INV-...-9999.
func (r *SaleRepo) LatestInvoiceNumber(ctx context.Context, day time.Time) (string, error) {
	prefix := invoice.DayPrefix(day)
	if _, err := r.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, prefix); err != nil {
		return "", fmt.Errorf("lock invoice sequence: %w", err)
	}
	var number string
	err := r.q.QueryRow(ctx, `
		SELECT invoice_number FROM sales
		WHERE invoice_number LIKE $1 || '-%'
		ORDER BY length(invoice_number) DESC, invoice_number DESC
		LIMIT 1`, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("latest invoice number: %w", err)
	}
	return number, nil
}

// Rollup totales, ventanas y top de productos. Las ventas anuladas cuentan.
// Los empates del ranking se resuelven por primera aparición en (sale_date, id, line_no).
func (r *SaleRepo) Rollup(ctx context.Context, w repository.StatsWindows, topN int) (*repository.SalesRollup, error) {
	out := &repository.SalesRollup{TopProducts: []repository.ProductRevenue{}}
	err := r.q.QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total), 0),
			COUNT(*),
			COALESCE(SUM(total) FILTER (WHERE sale_date >= $1 AND sale_date <= $4), 0),
			COALESCE(SUM(total) FILTER (WHERE sale_date >= $2 AND sale_date <= $4), 0),
			COALESCE(SUM(total) FILTER (WHERE sale_date >= $3 AND sale_date <= $4), 0)
		FROM sales`,
		w.TodayStart, w.WeekStart, w.MonthStart, w.Now,
	).Scan(&out.TotalSales, &out.TotalCount, &out.TodaySales, &out.WeekSales, &out.MonthSales)
	if err != nil {
		return nil, fmt.Errorf("sales rollup: %w", err)
	}

	limit := topN
	if limit <= 0 {
		limit = 1 << 30
	}
	rows, err := r.q.Query(ctx, `
		WITH lines AS (
			SELECT i.product_id, i.product_name, i.quantity, i.line_total,
				row_number() OVER (ORDER BY s.sale_date, s.id, i.line_no) AS pos
			FROM sale_items i
			JOIN sales s ON s.id = i.sale_id
		), agg AS (
			SELECT product_id, SUM(quantity) AS qty, SUM(line_total) AS revenue, MIN(pos) AS first_pos
			FROM lines
			GROUP BY product_id
		)
		SELECT a.product_id, l.product_name, a.qty, a.revenue
		FROM agg a
		JOIN lines l ON l.pos = a.first_pos
		ORDER BY a.revenue DESC, a.first_pos
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pr repository.ProductRevenue
		if err := rows.Scan(&pr.ProductID, &pr.ProductName, &pr.TotalQuantity, &pr.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		out.TopProducts = append(out.TopProducts, pr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	return out, nil
}
