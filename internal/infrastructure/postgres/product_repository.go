package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, sku, barcode, description, category, brand, unit,
	purchase_price, selling_price, mrp, discount, tax_rate,
	stock_quantity, reorder_point, warehouse, supplier_id, is_active, profit_margin,
	created_by, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.SKU, &p.Barcode, &p.Description, &p.Category, &p.Brand, &p.Unit,
		&p.Pricing.PurchasePrice, &p.Pricing.SellingPrice, &p.Pricing.MRP, &p.Pricing.Discount, &p.Pricing.TaxRate,
		&p.Stock.Quantity, &p.Stock.ReorderPoint, &p.Stock.Warehouse, &p.SupplierID, &p.IsActive, &p.ProfitMargin,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.SKU, p.Barcode, p.Description, p.Category, p.Brand, p.Unit,
		p.Pricing.PurchasePrice, p.Pricing.SellingPrice, p.Pricing.MRP, p.Pricing.Discount, p.Pricing.TaxRate,
		p.Stock.Quantity, p.Stock.ReorderPoint, p.Stock.Warehouse, p.SupplierID, p.IsActive, p.ProfitMargin,
		p.CreatedBy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetBySKU obtiene un producto por SKU sin distinguir mayúsculas.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE upper(sku) = upper($1)`, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// GetForUpdate bloquea las filas en orden de id para que dos ventas concurrentes no se crucen.
func (r *ProductRepo) GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	list, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*entity.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

// AdjustStock suma delta al stock. El CHECK de la tabla impide dejarlo negativo.
func (r *ProductRepo) AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = stock_quantity + $2, updated_at = now() WHERE id = $1`,
		id, delta,
	)
	if err != nil {
		return false, fmt.Errorf("adjust stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// SetStockQuantity fija el stock en valor absoluto con un UPDATE atómico sobre la fila.
func (r *ProductRepo) SetStockQuantity(ctx context.Context, id string, qty decimal.Decimal) (bool, error) {
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET stock_quantity = $2, updated_at = now() WHERE id = $1`,
		id, qty,
	)
	if err != nil {
		return false, fmt.Errorf("set stock: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Update actualiza un producto existente. El SKU y stock_quantity no cambian.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products SET name = $2, barcode = $3, description = $4, category = $5, brand = $6, unit = $7,
			purchase_price = $8, selling_price = $9, mrp = $10, discount = $11, tax_rate = $12,
			reorder_point = $13, warehouse = $14, supplier_id = $15, is_active = $16,
			profit_margin = $17, updated_at = $18
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		p.ID, p.Name, p.Barcode, p.Description, p.Category, p.Brand, p.Unit,
		p.Pricing.PurchasePrice, p.Pricing.SellingPrice, p.Pricing.MRP, p.Pricing.Discount, p.Pricing.TaxRate,
		p.Stock.ReorderPoint, p.Stock.Warehouse, p.SupplierID, p.IsActive,
		p.ProfitMargin, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista productos con filtros, más recientes primero.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add(`(name ILIKE ? OR sku ILIKE ?)`, likePattern(f.Search))
	}
	if f.Category != "" {
		w.add(`category = ?`, f.Category)
	}
	if f.Brand != "" {
		w.add(`brand = ?`, f.Brand)
	}
	if f.LowStock {
		w.addRaw(`stock_quantity <= reorder_point`)
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.sql() + ` ORDER BY created_at DESC, id`
	query += w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Delete elimina un producto.
func (r *ProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return cmd.RowsAffected() > 0, nil
}

// Categories categorías distintas, ordenadas.
func (r *ProductRepo) Categories(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "category")
}

// Brands marcas distintas, ordenadas.
func (r *ProductRepo) Brands(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, "brand")
}

// distinct column es siempre un literal interno, nunca entrada del usuario.
func (r *ProductRepo) distinct(ctx context.Context, column string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT `+column+` FROM products WHERE `+column+` <> '' ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
