package sales

import (
	"context"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

// SalesTxRunner ejecuta fn dentro de una unidad de trabajo con los repos de catálogo, ventas y libro.
// Si fn retorna error no queda ninguna mutación (ni stock, ni venta, ni asiento).
type SalesTxRunner interface {
	RunSales(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		ledgerRepo repository.TransactionRepository,
	) error) error
}

// StatsCache guarda la última foto de estadísticas. Get devuelve (nil, false, nil) si no hay entrada.
type StatsCache interface {
	Get(ctx context.Context) (*dto.SaleStatsResponse, bool, error)
	Set(ctx context.Context, stats *dto.SaleStatsResponse) error
	Invalidate(ctx context.Context) error
}

// InvoicePDFGenerator genera la representación gráfica de una venta.
type InvoicePDFGenerator interface {
	GenerateSalePDF(ctx context.Context, sale *entity.Sale) ([]byte, error)
}
