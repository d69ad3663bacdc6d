package postgres_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockpilot-api/pkg/config"
)

// Requiere una base desechable: STOCKPILOT_TEST_DATABASE_URL=postgres://...
func setupPool(t *testing.T) (*postgres.TxRunner, *postgres.ProductRepo, *postgres.SaleRepo, *postgres.TransactionRepo) {
	t.Helper()
	url := os.Getenv("STOCKPILOT_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("set STOCKPILOT_TEST_DATABASE_URL to run postgres integration tests")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10}, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))
	return postgres.NewTxRunner(pool), postgres.NewProductRepository(pool), postgres.NewSaleRepository(pool), postgres.NewTransactionRepository(pool)
}

// Cada test usa un día propio para no chocar con consecutivos de otras corridas.
func testDay() time.Time {
	return time.Date(2001, 1, 1, 12, 0, 0, 0, time.UTC).AddDate(0, 0, int(time.Now().UnixNano()%3000))
}

func seedProduct(t *testing.T, repo *postgres.ProductRepo, qty int64) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      "Prueba integración",
		SKU:       "IT-" + uuid.New().String()[:12],
		Category:  "Pruebas",
		Unit:      entity.UnitPiece,
		Stock:     entity.Stock{Quantity: decimal.NewFromInt(qty), ReorderPoint: decimal.NewFromInt(1)},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func sale(productID string, qty int64) dto.CreateSaleRequest {
	total := decimal.NewFromInt(qty * 10)
	return dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{
			ProductID: productID, ProductName: "Prueba integración",
			Quantity: decimal.NewFromInt(qty), UnitPrice: decimal.NewFromInt(10), LineTotal: total,
		}},
		Subtotal: total, Total: total, AmountPaid: total,
		PaymentMode: entity.PaymentModeCash, PaymentStatus: entity.PaymentStatusPaid,
	}
}

func TestSales_ConcurrenciaSobrePostgres(t *testing.T) {
	runner, products, salesRepo, ledger := setupPool(t)
	day := testDay()
	uc := sales.NewUseCase(runner, salesRepo, ledger, zerolog.Nop(), sales.WithClock(func() time.Time { return day }))
	p := seedProduct(t, products, 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	numbers := map[string]bool{}
	rejected := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := uc.CreateSale(ctx, "it", sale(p.ID, 3))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrInsufficientStock)
				rejected++
				return
			}
			assert.False(t, numbers[s.InvoiceNumber], "número repetido %s", s.InvoiceNumber)
			numbers[s.InvoiceNumber] = true
		}()
	}
	wg.Wait()

	assert.Len(t, numbers, 3)
	assert.Equal(t, 5, rejected)
	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Quantity.Equal(decimal.NewFromInt(1)))
}

func TestSales_DevolucionYAnulacionSobrePostgres(t *testing.T) {
	runner, products, salesRepo, ledger := setupPool(t)
	day := testDay()
	uc := sales.NewUseCase(runner, salesRepo, ledger, zerolog.Nop(), sales.WithClock(func() time.Time { return day }))
	p := seedProduct(t, products, 10)
	ctx := context.Background()

	s, err := uc.CreateSale(ctx, "it", sale(p.ID, 5))
	require.NoError(t, err)
	assert.Regexp(t, fmt.Sprintf(`^INV-%s-\d{4,}$`, day.Format("20060102")), s.InvoiceNumber)

	_, err = uc.ProcessReturn(ctx, "it", s.ID, dto.ReturnSaleRequest{
		Items:        []dto.ReturnItemRequest{{ProductID: p.ID, Quantity: decimal.NewFromInt(2)}},
		RefundAmount: decimal.NewFromInt(20),
		RefundMode:   entity.PaymentModeCash,
	})
	require.NoError(t, err)

	_, err = uc.CancelSale(ctx, s.ID)
	require.NoError(t, err)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Quantity.Equal(decimal.NewFromInt(10)))

	entries, err := uc.ListTransactions(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.TransactionTypeSale, entries[0].ReferenceType)
	assert.Equal(t, entity.TransactionTypeRefund, entries[1].ReferenceType)
}

func TestProductUpdate_NoPisaVentaConcurrente(t *testing.T) {
	runner, products, salesRepo, ledger := setupPool(t)
	day := testDay()
	uc := sales.NewUseCase(runner, salesRepo, ledger, zerolog.Nop(), sales.WithClock(func() time.Time { return day }))
	p := seedProduct(t, products, 10)
	ctx := context.Background()

	stale, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	_, err = uc.CreateSale(ctx, "it", sale(p.ID, 3))
	require.NoError(t, err)

	stale.Name = "Renombrado"
	require.NoError(t, products.Update(ctx, stale))

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", got.Name)
	assert.True(t, got.Stock.Quantity.Equal(decimal.NewFromInt(7)))

	ok, err := products.SetStockQuantity(ctx, p.ID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, ok)
	got, err = products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Stock.Quantity.Equal(decimal.NewFromInt(20)))
}
