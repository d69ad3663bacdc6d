package cache

import (
	"context"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
)

var _ sales.StatsCache = NoopStatsCache{}

// NoopStatsCache se usa cuando no hay Redis configurado: nunca guarda nada.
type NoopStatsCache struct{}

func (NoopStatsCache) Get(_ context.Context) (*dto.SaleStatsResponse, bool, error) {
	return nil, false, nil
}

func (NoopStatsCache) Set(_ context.Context, _ *dto.SaleStatsResponse) error { return nil }

func (NoopStatsCache) Invalidate(_ context.Context) error { return nil }
