package sales_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
	"github.com/jhoicas/stockpilot-api/internal/infrastructure/memory"
)

func TestGetSalesStats_SinVentas(t *testing.T) {
	f := newFixture(t)

	st, err := f.uc.GetSalesStats(context.Background())
	require.NoError(t, err)

	assert.True(t, st.TotalSales.IsZero())
	assert.Zero(t, st.TotalTransactions)
	assert.True(t, st.AverageOrderValue.IsZero())
	assert.True(t, st.TodaySales.IsZero())
	assert.True(t, st.WeekSales.IsZero())
	assert.True(t, st.MonthSales.IsZero())
	assert.NotNil(t, st.TopProducts)
	assert.Empty(t, st.TopProducts)
	assert.NotNil(t, st.RecentSales)
	assert.Empty(t, st.RecentSales)
}

func TestGetSalesStats_VentanasYPromedio(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Arroz", 1000)
	ctx := context.Background()
	now := time.Date(2025, 3, 20, 15, 0, 0, 0, time.UTC)

	at := func(ts time.Time, total int64) {
		f.clock.Set(ts)
		_, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, total}))
		require.NoError(t, err)
	}
	at(now.AddDate(0, 0, -40), 1000) // solo total
	at(now.AddDate(0, 0, -10), 300)  // mes
	at(now.AddDate(0, 0, -3), 200)   // semana + mes
	// hoy
	at(time.Date(2025, 3, 20, 0, 30, 0, 0, time.UTC), 50)
	at(now.Add(-time.Hour), 51)

	f.clock.Set(now)
	st, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)

	assert.True(t, st.TotalSales.Equal(decimal.NewFromInt(1601)))
	assert.Equal(t, 5, st.TotalTransactions)
	assert.True(t, st.AverageOrderValue.Equal(decimal.RequireFromString("320.2")))
	assert.True(t, st.TodaySales.Equal(decimal.NewFromInt(101)))
	assert.True(t, st.WeekSales.Equal(decimal.NewFromInt(301)))
	assert.True(t, st.MonthSales.Equal(decimal.NewFromInt(601)))

	require.Len(t, st.RecentSales, 5)
	assert.True(t, st.RecentSales[0].Total.Equal(decimal.NewFromInt(51)))
	assert.True(t, st.RecentSales[4].Total.Equal(decimal.NewFromInt(1000)))
}

func TestGetSalesStats_TopProductosEmpatesEnOrdenDeAparicion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := make([]string, 7)
	for i := range ids {
		ids[i] = f.addProduct(t, "P", 100)
	}

	_, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid,
		line{ids[0], 1, 100}, line{ids[1], 1, 20}, line{ids[2], 1, 10}))
	require.NoError(t, err)
	_, err = f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid,
		line{ids[3], 2, 100}, line{ids[4], 1, 150}, line{ids[5], 1, 5}, line{ids[6], 1, 1}))
	require.NoError(t, err)
	_, err = f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{ids[1], 3, 30}))
	require.NoError(t, err)

	st, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)

	require.Len(t, st.TopProducts, 5)
	got := make([]string, 0, 5)
	for _, tp := range st.TopProducts {
		got = append(got, tp.ProductID)
	}
	// 150, 100 (primera aparición), 100, 50 (20+30), 10
	assert.Equal(t, []string{ids[4], ids[0], ids[3], ids[1], ids[2]}, got)
	assert.True(t, st.TopProducts[3].TotalQuantity.Equal(decimal.NewFromInt(4)))
	assert.True(t, st.TopProducts[3].TotalRevenue.Equal(decimal.NewFromInt(50)))
}

func TestGetSalesStats_IncluyeVentasAnuladas(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Pan", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
	require.NoError(t, err)
	_, err = f.uc.CancelSale(ctx, s.ID)
	require.NoError(t, err)

	st, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, st.TotalTransactions)
}

func TestAverageOrderValue(t *testing.T) {
	assert.True(t, sales.AverageOrderValue(decimal.NewFromInt(10), 0).IsZero())
	assert.True(t, sales.AverageOrderValue(decimal.NewFromInt(10), 3).Equal(decimal.RequireFromString("3.33")))
}

func TestWindows(t *testing.T) {
	now := time.Date(2025, 3, 20, 15, 4, 5, 0, time.UTC)
	w := sales.Windows(now)
	assert.Equal(t, time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), w.TodayStart)
	assert.Equal(t, now.AddDate(0, 0, -7), w.WeekStart)
	assert.Equal(t, now.AddDate(0, 0, -30), w.MonthStart)
	assert.Equal(t, now, w.Now)
}

// ─── caché ────────────────────────────────────────────────────────────────────

type fakeCache struct {
	stored      *dto.SaleStatsResponse
	gets        int
	invalidated int
}

func (c *fakeCache) Get(context.Context) (*dto.SaleStatsResponse, bool, error) {
	c.gets++
	return c.stored, c.stored != nil, nil
}

func (c *fakeCache) Set(_ context.Context, s *dto.SaleStatsResponse) error {
	c.stored = s
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.invalidated++
	c.stored = nil
	return nil
}

func TestGetSalesStats_UsaCacheEInvalidaEnEscrituras(t *testing.T) {
	c := &fakeCache{}
	f := newFixture(t, sales.WithStatsCache(c))
	p := f.addProduct(t, "Sal", 10)
	ctx := context.Background()

	first, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)
	require.NotNil(t, c.stored)

	second, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)
	assert.Same(t, first, second, "segunda lectura sale de la caché")

	_, err = f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidated)

	third, err := f.uc.GetSalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, third.TotalTransactions)
}

// ventaDuranteRollup registra una venta justo después de leer los agregados, una sola vez.
type ventaDuranteRollup struct {
	repository.SaleRepository
	once      sync.Once
	afterRead func()
}

func (r *ventaDuranteRollup) Rollup(ctx context.Context, w repository.StatsWindows, topN int) (*repository.SalesRollup, error) {
	out, err := r.SaleRepository.Rollup(ctx, w, topN)
	r.once.Do(r.afterRead)
	return out, err
}

func TestGetSalesStats_NoGuardaFotoSiHuboEscrituraDuranteLaLectura(t *testing.T) {
	c := &fakeCache{}
	store := memory.NewStore()
	clock := &testClock{t: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
	repo := &ventaDuranteRollup{SaleRepository: store.Sales()}
	uc := sales.NewUseCase(store, repo, store.Transactions(), zerolog.Nop(),
		sales.WithClock(clock.Now), sales.WithStatsCache(c))
	f := &fixture{store: store, clock: clock, uc: uc}
	p := f.addProduct(t, "Sal", 10)
	ctx := context.Background()

	repo.afterRead = func() {
		_, err := uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
		require.NoError(t, err)
	}

	stale, err := uc.GetSalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stale.TotalTransactions)
	assert.Equal(t, 1, c.invalidated)
	assert.Nil(t, c.stored, "la foto previa a la venta no debe quedar en caché")

	fresh, err := uc.GetSalesStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fresh.TotalTransactions)
	require.NotNil(t, c.stored)
	assert.Equal(t, 1, c.stored.TotalTransactions)
}
