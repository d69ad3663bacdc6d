package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StatsWindows límites de las ventanas de estadísticas (todas terminan en Now).
type StatsWindows struct {
	TodayStart time.Time
	WeekStart  time.Time
	MonthStart time.Time
	Now        time.Time
}

// ProductRevenue acumulado de un producto sobre todas las líneas de venta.
type ProductRevenue struct {
	ProductID     string
	ProductName   string
	TotalQuantity decimal.Decimal
	TotalRevenue  decimal.Decimal
}

// SalesRollup agregados crudos de ventas. Todo en cero / vacío si no hay ventas.
type SalesRollup struct {
	TotalSales  decimal.Decimal
	TotalCount  int
	TodaySales  decimal.Decimal
	WeekSales   decimal.Decimal
	MonthSales  decimal.Decimal
	TopProducts []ProductRevenue // por ingreso desc; empates en orden de primera aparición
}

// SaleRepository define el puerto de persistencia para Sale y sus líneas.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve (nil, nil) si la venta no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// Update persiste los campos mutables (estado, pagado, notas, cantidades devueltas, updated_at).
	Update(ctx context.Context, sale *entity.Sale) error
	// List ordena por sale_date descendente.
	List(ctx context.Context, filter entity.SaleFilter) ([]*entity.Sale, error)
	// LatestInvoiceNumber devuelve el mayor número de factura del día o "" si no hay.
	// Dentro de una unidad de trabajo serializa la asignación por día.
	LatestInvoiceNumber(ctx context.Context, day time.Time) (string, error)
	Rollup(ctx context.Context, w StatsWindows, topN int) (*SalesRollup, error)
}
