package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

const (
	topProductsLimit = 5
	recentSalesLimit = 5
)

// Windows calcula las ventanas de estadísticas: desde la medianoche local, últimos 7 y últimos 30 días.
func Windows(now time.Time) repository.StatsWindows {
	y, m, d := now.Date()
	return repository.StatsWindows{
		TodayStart: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		WeekStart:  now.AddDate(0, 0, -7),
		MonthStart: now.AddDate(0, 0, -30),
		Now:        now,
	}
}

// GetSalesStats foto agregada de ventas. Sin ventas devuelve todo en cero y listas vacías.
// Las ventas anuladas se cuentan igual que el resto.
func (uc *UseCase) GetSalesStats(ctx context.Context) (*dto.SaleStatsResponse, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx)
		if err != nil {
			uc.log.Warn().Err(err).Msg("caché de estadísticas no disponible")
		} else if ok {
			return cached, nil
		}
	}
	gen := uc.statsGen.Load()

	rollup, err := uc.saleRepo.Rollup(ctx, Windows(uc.now()), topProductsLimit)
	if err != nil {
		return nil, err
	}
	recent, err := uc.saleRepo.List(ctx, entity.SaleFilter{Limit: recentSalesLimit})
	if err != nil {
		return nil, err
	}

	out := &dto.SaleStatsResponse{
		TotalSales:        rollup.TotalSales,
		TotalTransactions: rollup.TotalCount,
		AverageOrderValue: AverageOrderValue(rollup.TotalSales, rollup.TotalCount),
		TodaySales:        rollup.TodaySales,
		WeekSales:         rollup.WeekSales,
		MonthSales:        rollup.MonthSales,
		TopProducts:       make([]dto.TopProductDTO, 0, len(rollup.TopProducts)),
		RecentSales:       make([]dto.SaleResponse, 0, len(recent)),
	}
	for _, p := range rollup.TopProducts {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:     p.ProductID,
			ProductName:   p.ProductName,
			TotalQuantity: p.TotalQuantity,
			TotalRevenue:  p.TotalRevenue,
		})
	}
	for _, s := range recent {
		out.RecentSales = append(out.RecentSales, *toSaleResponse(s))
	}

	if uc.cache != nil {
		uc.storeStats(ctx, gen, out)
	}
	return out, nil
}

// storeStats guarda la foto solo si no hubo escrituras desde que se empezó a leer.
// Entre procesos distintos la foto puede quedar vieja hasta un TTL.
func (uc *UseCase) storeStats(ctx context.Context, gen uint64, out *dto.SaleStatsResponse) {
	uc.statsMu.Lock()
	defer uc.statsMu.Unlock()
	if uc.statsGen.Load() != gen {
		uc.log.Debug().Msg("estadísticas calculadas durante una escritura, no se guardan en caché")
		return
	}
	if err := uc.cache.Set(ctx, out); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo guardar la caché de estadísticas")
	}
}

// AverageOrderValue total / cantidad redondeado a 2 decimales; 0 si no hay ventas.
func AverageOrderValue(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(2)
}
