package repository

import (
	"context"

	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductFilter filtros del listado de productos.
type ProductFilter struct {
	Search   string // nombre o SKU, sin distinguir mayúsculas
	Category string
	Brand    string
	LowStock bool // quantity <= reorder_point
	Limit    int
	Offset   int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID y GetBySKU devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate obtiene y bloquea los productos indicados hasta el fin de la unidad de trabajo.
	// Los ids ausentes no aparecen en el mapa.
	GetForUpdate(ctx context.Context, ids []string) (map[string]*entity.Product, error)
	// AdjustStock suma delta a stock.quantity. Devuelve false si el producto no existe.
	AdjustStock(ctx context.Context, id string, delta decimal.Decimal) (bool, error)
	// SetStockQuantity fija stock.quantity en una sola sentencia. Devuelve false si el producto no existe.
	SetStockQuantity(ctx context.Context, id string, qty decimal.Decimal) (bool, error)
	// Update escribe los campos editables. No toca stock.quantity, que solo cambian
	// AdjustStock y SetStockQuantity.
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Delete devuelve false si el producto no existía.
	Delete(ctx context.Context, id string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
	Brands(ctx context.Context) ([]string, error)
}
