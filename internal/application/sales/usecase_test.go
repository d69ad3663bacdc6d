package sales_test

import (
	"context"
	"errors"
	"fmt"
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
	"github.com/jhoicas/stockpilot-api/internal/infrastructure/memory"
)

// ─── helpers ──────────────────────────────────────────────────────────────────

// testClock avanza un segundo en cada lectura para que las ventas queden ordenadas.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(time.Second)
	return now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	store *memory.Store
	clock *testClock
	uc    *sales.UseCase
}

func newFixture(t *testing.T, opts ...sales.Option) *fixture {
	t.Helper()
	store := memory.NewStore()
	clock := &testClock{t: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)}
	opts = append([]sales.Option{sales.WithClock(clock.Now)}, opts...)
	uc := sales.NewUseCase(store, store.Sales(), store.Transactions(), zerolog.Nop(), opts...)
	return &fixture{store: store, clock: clock, uc: uc}
}

func (f *fixture) addProduct(t *testing.T, name string, qty int64) string {
	t.Helper()
	p := &entity.Product{
		ID:    uuid.New().String(),
		Name:  name,
		SKU:   fmt.Sprintf("SKU-%s", uuid.New().String()[:8]),
		Unit:  entity.UnitPiece,
		Stock: entity.Stock{Quantity: decimal.NewFromInt(qty), ReorderPoint: decimal.NewFromInt(2)},
		Pricing: entity.Pricing{
			PurchasePrice: decimal.NewFromInt(5),
			SellingPrice:  decimal.NewFromInt(10),
		},
		IsActive: true,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, productID string) decimal.Decimal {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), productID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock.Quantity
}

func (f *fixture) ledger(t *testing.T, saleID string) []*entity.Transaction {
	t.Helper()
	list, err := f.store.Transactions().ListByReference(context.Background(), saleID)
	require.NoError(t, err)
	return list
}

type line struct {
	productID string
	qty       int64
	total     int64
}

func saleReq(status string, lines ...line) dto.CreateSaleRequest {
	req := dto.CreateSaleRequest{
		PaymentMode:   entity.PaymentModeCash,
		PaymentStatus: status,
	}
	var total decimal.Decimal
	for _, l := range lines {
		lt := decimal.NewFromInt(l.total)
		req.Items = append(req.Items, dto.SaleItemRequest{
			ProductID:   l.productID,
			ProductName: "Producto " + l.productID[:4],
			Quantity:    decimal.NewFromInt(l.qty),
			UnitPrice:   decimal.NewFromInt(10),
			LineTotal:   lt,
		})
		total = total.Add(lt)
	}
	req.Subtotal = total
	req.Total = total
	req.AmountPaid = total
	return req
}

func qty(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

// ─── CreateSale ───────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficienteNoDejaMutaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.addProduct(t, "Arroz", 10)
	b := f.addProduct(t, "Frijol", 5)

	_, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{a, 2, 20}, line{b, 6, 60}))

	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "Frijol", se.ProductName)
	assert.True(t, se.Available.Equal(qty(5)))
	assert.True(t, f.stock(t, a).Equal(qty(10)), "el primer producto no debe quedar descontado")
	assert.True(t, f.stock(t, b).Equal(qty(5)))

	list, err := f.uc.ListSales(ctx, dto.ListSalesRequest{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateSale_AgregaDemandaDelMismoProducto(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Leche", 5)

	_, err := f.uc.CreateSale(context.Background(), "u-1", saleReq(entity.PaymentStatusPaid, line{p, 3, 30}, line{p, 3, 30}))

	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Requested.Equal(qty(6)))
	assert.True(t, f.stock(t, p).Equal(qty(5)))
}

func TestCreateSale_ProductoInexistente(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Pan", 5)

	_, err := f.uc.CreateSale(context.Background(), "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}, line{uuid.New().String(), 1, 10}))

	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.True(t, f.stock(t, p).Equal(qty(5)))
}

func TestCreateSale_Validaciones(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Pan", 5)
	ctx := context.Background()

	cases := map[string]func(r *dto.CreateSaleRequest){
		"sin items":         func(r *dto.CreateSaleRequest) { r.Items = nil },
		"cantidad cero":     func(r *dto.CreateSaleRequest) { r.Items[0].Quantity = decimal.Zero },
		"precio negativo":   func(r *dto.CreateSaleRequest) { r.Items[0].UnitPrice = qty(-1) },
		"medio de pago":     func(r *dto.CreateSaleRequest) { r.PaymentMode = "bitcoin" },
		"estado cancelado":  func(r *dto.CreateSaleRequest) { r.PaymentStatus = entity.PaymentStatusCancelled },
		"total negativo":    func(r *dto.CreateSaleRequest) { r.Total = qty(-5) },
		"producto sin id":   func(r *dto.CreateSaleRequest) { r.Items[0].ProductID = "" },
		"tasa fuera rango":  func(r *dto.CreateSaleRequest) { r.Items[0].TaxRate = qty(150) },
		"tipo de descuento": func(r *dto.CreateSaleRequest) { r.DiscountType = "bogo" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := saleReq(entity.PaymentStatusPaid, line{p, 1, 10})
			mutate(&req)
			_, err := f.uc.CreateSale(ctx, "u-1", req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.True(t, f.stock(t, p).Equal(qty(5)))
}

func TestCreateSale_ConsecutivoDiarioSinHuecos(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Café", 100)
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INV-20250115-%04d", i), s.InvoiceNumber)
	}

	// Nuevo día: vuelve a empezar en 1
	f.clock.Set(time.Date(2025, 1, 16, 8, 0, 0, 0, time.UTC))
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
	require.NoError(t, err)
	assert.Equal(t, "INV-20250116-0001", s.InvoiceNumber)
}

func TestCreateSale_ConsecutivoUnicoEnConcurrencia(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Azúcar", 1000)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 2, 20}))
			if err != nil {
				errs <- err
				return
			}
			numbers <- s.InvoiceNumber
		}()
	}
	wg.Wait()
	close(numbers)
	close(errs)

	for err := range errs {
		t.Fatalf("venta concurrente falló: %v", err)
	}
	seen := make(map[string]bool, n)
	for num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
	assert.True(t, f.stock(t, p).Equal(qty(1000-2*n)))
}

func TestCreateSale_StockConcurrenteNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Aceite", 10)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok, rejected := 0, 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 3, 30}))
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, domain.ErrInsufficientStock) {
				rejected++
				return
			}
			if assert.NoError(t, err) {
				ok++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, 5, rejected)
	assert.True(t, f.stock(t, p).Equal(qty(1)))
}

func TestCreateSale_UnAsientoPorVenta(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Harina", 20)
	ctx := context.Background()

	paid, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 15}))
	require.NoError(t, err)
	pending, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPending, line{p, 1, 15}))
	require.NoError(t, err)

	entries := f.ledger(t, paid.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TransactionTypeSale, entries[0].ReferenceType)
	assert.Equal(t, entity.TransactionStatusSuccess, entries[0].Status)
	assert.True(t, entries[0].Amount.Equal(paid.Total))
	assert.Equal(t, "u-1", entries[0].CreatedBy)

	entries = f.ledger(t, pending.ID)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.TransactionStatusPending, entries[0].Status)
}

func TestCreateSale_EscenarioCompleto(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Galletas", 10)
	ctx := context.Background()

	s1, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 3, 30}))
	require.NoError(t, err)
	assert.Equal(t, "INV-20250115-0001", s1.InvoiceNumber)
	assert.True(t, f.stock(t, p).Equal(qty(7)))

	s2, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 3, 30}))
	require.NoError(t, err)
	assert.Equal(t, "INV-20250115-0002", s2.InvoiceNumber)
	assert.True(t, f.stock(t, p).Equal(qty(4)))

	_, err = f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 10, 100}))
	var se *domain.StockError
	require.ErrorAs(t, err, &se)
	assert.True(t, se.Available.Equal(qty(4)))
	assert.Contains(t, err.Error(), "Disponible: 4")
	assert.True(t, f.stock(t, p).Equal(qty(4)))
}

// ─── Get / List / Update ──────────────────────────────────────────────────────

func TestGetSale_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.GetSale(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSales_OrdenYFiltros(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Sal", 50)
	ctx := context.Background()

	first, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
	require.NoError(t, err)
	req := saleReq(entity.PaymentStatusPending, line{p, 1, 10})
	req.CustomerID = "c-9"
	second, err := f.uc.CreateSale(ctx, "u-1", req)
	require.NoError(t, err)
	third, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 1, 10}))
	require.NoError(t, err)

	all, err := f.uc.ListSales(ctx, dto.ListSalesRequest{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

	pending, err := f.uc.ListSales(ctx, dto.ListSalesRequest{PaymentStatus: entity.PaymentStatusPending})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)

	byCustomer, err := f.uc.ListSales(ctx, dto.ListSalesRequest{CustomerID: "c-9"})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)

	// Rango inclusivo en ambos extremos
	start, end := first.SaleDate, second.SaleDate
	ranged, err := f.uc.ListSales(ctx, dto.ListSalesRequest{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	paged, err := f.uc.ListSales(ctx, dto.ListSalesRequest{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, second.ID, paged[0].ID)
}

func TestUpdateSale_SoloCamposEditables(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Atún", 10)
	ctx := context.Background()

	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPending, line{p, 2, 20}))
	require.NoError(t, err)

	status := entity.PaymentStatusPartial
	paid := qty(5)
	notes := "abono en efectivo"
	upd, err := f.uc.UpdateSale(ctx, s.ID, dto.UpdateSaleRequest{PaymentStatus: &status, AmountPaid: &paid, Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, status, upd.PaymentStatus)
	assert.True(t, upd.AmountPaid.Equal(paid))
	assert.Equal(t, notes, upd.Notes)
	assert.True(t, upd.UpdatedAt.After(s.UpdatedAt))
	assert.Equal(t, s.InvoiceNumber, upd.InvoiceNumber)
	assert.True(t, f.stock(t, p).Equal(qty(8)), "editar no toca el stock")
	assert.Len(t, f.ledger(t, s.ID), 1, "editar no agrega asientos")
}

func TestUpdateSale_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	status := entity.PaymentStatusPaid
	_, err := f.uc.UpdateSale(ctx, uuid.New().String(), dto.UpdateSaleRequest{PaymentStatus: &status})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := "cancelled"
	_, err = f.uc.UpdateSale(ctx, uuid.New().String(), dto.UpdateSaleRequest{PaymentStatus: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ─── ProcessReturn / CancelSale ───────────────────────────────────────────────

func returnReq(items ...dto.ReturnItemRequest) dto.ReturnSaleRequest {
	return dto.ReturnSaleRequest{Items: items, RefundAmount: qty(10), RefundMode: entity.PaymentModeCash}
}

func TestProcessReturn_ExcedeCantidadOriginal(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Jabón", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 3, 30}))
	require.NoError(t, err)

	_, err = f.uc.ProcessReturn(ctx, "u-1", s.ID, returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(4)}))

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Message, "excede")
	assert.True(t, f.stock(t, p).Equal(qty(7)))
	assert.Len(t, f.ledger(t, s.ID), 1)
	got, err := f.uc.GetSale(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, got.PaymentStatus)
}

func TestProcessReturn_ValidaTodoAntesDeMutar(t *testing.T) {
	f := newFixture(t)
	a := f.addProduct(t, "Cloro", 10)
	b := f.addProduct(t, "Esponja", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{a, 2, 20}))
	require.NoError(t, err)

	_, err = f.uc.ProcessReturn(ctx, "u-1", s.ID, returnReq(
		dto.ReturnItemRequest{ProductID: a, Quantity: qty(1)},
		dto.ReturnItemRequest{ProductID: b, Quantity: qty(1)},
	))

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "no está en la venta original")
	assert.True(t, f.stock(t, a).Equal(qty(8)))
	assert.True(t, f.stock(t, b).Equal(qty(10)))
}

func TestProcessReturn_RepongoStockYRegistraReembolso(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Yogur", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 4, 40}))
	require.NoError(t, err)

	req := returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(3)})
	req.RefundAmount = decimal.RequireFromString("29.99")
	req.RefundMode = entity.PaymentModeCard
	receipt, err := f.uc.ProcessReturn(ctx, "u-2", s.ID, req)
	require.NoError(t, err)

	assert.True(t, receipt.RefundAmount.Equal(req.RefundAmount))
	assert.NotEmpty(t, receipt.TransactionID)
	assert.True(t, f.stock(t, p).Equal(qty(9)))

	got, err := f.uc.GetSale(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, got.PaymentStatus)
	assert.True(t, got.Items[0].ReturnedQuantity.Equal(qty(3)))

	entries := f.ledger(t, s.ID)
	require.Len(t, entries, 2)
	refund := entries[1]
	assert.Equal(t, receipt.TransactionID, refund.ID)
	assert.Equal(t, entity.TransactionTypeRefund, refund.ReferenceType)
	assert.Equal(t, entity.TransactionStatusSuccess, refund.Status)
	assert.Equal(t, entity.PaymentModeCard, refund.PaymentMode)
	assert.True(t, refund.Amount.Equal(req.RefundAmount))

	// Solo queda 1 unidad por devolver
	_, err = f.uc.ProcessReturn(ctx, "u-2", s.ID, returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(2)}))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, f.stock(t, p).Equal(qty(9)))
}

func TestProcessReturn_VentaNoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.ProcessReturn(context.Background(), "u-1", uuid.New().String(),
		returnReq(dto.ReturnItemRequest{ProductID: "x", Quantity: qty(1)}))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancelSale_RepongoStockYConservaLaVenta(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Queso", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 5, 50}))
	require.NoError(t, err)
	require.True(t, f.stock(t, p).Equal(qty(5)))

	res, err := f.uc.CancelSale(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.InvoiceNumber, res.InvoiceNumber)
	assert.True(t, f.stock(t, p).Equal(qty(10)))

	got, err := f.uc.GetSale(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusCancelled, got.PaymentStatus)
	assert.Len(t, f.ledger(t, s.ID), 1, "anular no agrega asiento")
}

func TestCancelSale_DespuesDeDevolucionNoDuplicaStock(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Mantequilla", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 5, 50}))
	require.NoError(t, err)

	_, err = f.uc.ProcessReturn(ctx, "u-1", s.ID, returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(2)}))
	require.NoError(t, err)
	require.True(t, f.stock(t, p).Equal(qty(7)))

	_, err = f.uc.CancelSale(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, f.stock(t, p).Equal(qty(10)), "solo se repone lo no devuelto")
}

func TestCancelSale_EstadoTerminal(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Vinagre", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 2, 20}))
	require.NoError(t, err)
	_, err = f.uc.CancelSale(ctx, s.ID)
	require.NoError(t, err)

	_, err = f.uc.CancelSale(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.ProcessReturn(ctx, "u-1", s.ID, returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(1)}))
	assert.ErrorIs(t, err, domain.ErrConflict)

	status := entity.PaymentStatusPaid
	_, err = f.uc.UpdateSale(ctx, s.ID, dto.UpdateSaleRequest{PaymentStatus: &status})
	assert.ErrorIs(t, err, domain.ErrConflict)

	notes := "anulada por error de caja"
	upd, err := f.uc.UpdateSale(ctx, s.ID, dto.UpdateSaleRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, notes, upd.Notes)

	assert.True(t, f.stock(t, p).Equal(qty(10)))
}

func TestCancelSale_NoExiste(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CancelSale(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListTransactions(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Té", 10)
	ctx := context.Background()
	s, err := f.uc.CreateSale(ctx, "u-1", saleReq(entity.PaymentStatusPaid, line{p, 2, 20}))
	require.NoError(t, err)
	_, err = f.uc.ProcessReturn(ctx, "u-1", s.ID, returnReq(dto.ReturnItemRequest{ProductID: p, Quantity: qty(1)}))
	require.NoError(t, err)

	list, err := f.uc.ListTransactions(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, entity.TransactionTypeSale, list[0].ReferenceType)
	assert.Equal(t, entity.TransactionTypeRefund, list[1].ReferenceType)

	_, err = f.uc.ListTransactions(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
