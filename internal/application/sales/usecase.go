package sales

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/invoice"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

const (
	maxNotesLen      = 500
	defaultListLimit = 50
	maxListLimit     = 100
)

// UseCase motor de ventas: creación, consulta, edición, devoluciones, anulación y estadísticas.
type UseCase struct {
	txRunner   SalesTxRunner
	saleRepo   repository.SaleRepository
	ledgerRepo repository.TransactionRepository
	cache      StatsCache
	log        zerolog.Logger
	now        func() time.Time

	// statsGen sube con cada escritura; statsMu ordena Invalidate frente a Set.
	statsGen atomic.Uint64
	statsMu  sync.Mutex
}

// Option configura el caso de uso.
type Option func(*UseCase)

// WithClock reemplaza la fuente de tiempo (fecha de venta, consecutivo diario y ventanas de stats).
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) { uc.now = now }
}

// WithStatsCache activa la caché de estadísticas.
func WithStatsCache(c StatsCache) Option {
	return func(uc *UseCase) { uc.cache = c }
}

// NewUseCase construye el caso de uso. saleRepo y ledgerRepo se usan para lecturas fuera de la tx.
func NewUseCase(
	txRunner SalesTxRunner,
	saleRepo repository.SaleRepository,
	ledgerRepo repository.TransactionRepository,
	log zerolog.Logger,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		txRunner:   txRunner,
		saleRepo:   saleRepo,
		ledgerRepo: ledgerRepo,
		log:        log,
		now:        time.Now,
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// CreateSale descuenta stock, asigna el consecutivo del día, guarda la venta y su asiento en una sola tx.
// Si algún producto no alcanza, no se aplica ningún cambio y se retorna *domain.StockError.
func (uc *UseCase) CreateSale(ctx context.Context, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateCreate(&in); err != nil {
		return nil, err
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:             uuid.New().String(),
		CustomerID:     in.CustomerID,
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		Items:          make([]entity.SaleItem, 0, len(in.Items)),
		Subtotal:       in.Subtotal,
		DiscountAmount: in.DiscountAmount,
		DiscountType:   in.DiscountType,
		TaxAmount:      in.TaxAmount,
		Total:          in.Total,
		AmountPaid:     in.AmountPaid,
		PaymentMode:    in.PaymentMode,
		PaymentStatus:  in.PaymentStatus,
		Notes:          in.Notes,
		SaleDate:       now,
		CreatedBy:      userID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	demand := make([]entity.StockAdjustment, 0, len(in.Items))
	for _, it := range in.Items {
		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			SKU:              it.SKU,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Discount:         it.Discount,
			DiscountType:     it.DiscountType,
			TaxRate:          it.TaxRate,
			TaxAmount:        it.TaxAmount,
			LineTotal:        it.LineTotal,
			ReturnedQuantity: decimal.Zero,
		})
		demand = append(demand, entity.StockAdjustment{ProductID: it.ProductID, Delta: it.Quantity.Neg()})
	}
	demand = entity.MergeAdjustments(demand)

	txStatus := entity.TransactionStatusPending
	if sale.PaymentStatus == entity.PaymentStatusPaid {
		txStatus = entity.TransactionStatusSuccess
	}

	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		ledgerRepo repository.TransactionRepository,
	) error {
		// 1) Bloquear productos y verificar stock de toda la venta antes de mutar
		if err := applyStock(ctx, productRepo, demand, true); err != nil {
			return err
		}

		// 2) Consecutivo del día (serializado por la unidad de trabajo)
		last, err := saleRepo.LatestInvoiceNumber(ctx, now)
		if err != nil {
			return fmt.Errorf("consecutivo de factura: %w", err)
		}
		number, err := invoice.Next(now, last)
		if err != nil {
			return err
		}
		sale.InvoiceNumber = number

		// 3) Venta + asiento
		if err := saleRepo.Create(ctx, sale); err != nil {
			return fmt.Errorf("guardar venta: %w", err)
		}
		return ledgerRepo.Create(ctx, &entity.Transaction{
			ID:              uuid.New().String(),
			ReferenceID:     sale.ID,
			ReferenceType:   entity.TransactionTypeSale,
			Amount:          sale.Total,
			PaymentMode:     sale.PaymentMode,
			Description:     "Venta factura " + sale.InvoiceNumber,
			Status:          txStatus,
			TransactionDate: now,
			CreatedBy:       userID,
			CreatedAt:       now,
		})
	})
	if err != nil {
		var se *domain.StockError
		if errors.As(err, &se) {
			uc.log.Warn().Str("product_id", se.ProductID).
				Str("available", se.Available.String()).
				Str("requested", se.Requested.String()).
				Msg("venta rechazada por stock insuficiente")
		}
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().Str("sale_id", sale.ID).Str("invoice_number", sale.InvoiceNumber).
		Str("total", sale.Total.String()).Int("items", len(sale.Items)).Msg("venta creada")
	return toSaleResponse(sale), nil
}

// applyStock bloquea los productos en orden de id y aplica los deltas.
// Con check=true verifica primero que ningún producto quede en negativo.
func applyStock(ctx context.Context, productRepo repository.ProductRepository, adj []entity.StockAdjustment, check bool) error {
	if len(adj) == 0 {
		return nil
	}
	ids := make([]string, 0, len(adj))
	for _, a := range adj {
		ids = append(ids, a.ProductID)
	}
	sort.Strings(ids)

	locked, err := productRepo.GetForUpdate(ctx, ids)
	if err != nil {
		return fmt.Errorf("bloquear productos: %w", err)
	}
	for _, a := range adj {
		p, ok := locked[a.ProductID]
		if !ok {
			return fmt.Errorf("producto %s: %w", a.ProductID, domain.ErrNotFound)
		}
		if check && p.Stock.Quantity.Add(a.Delta).IsNegative() {
			return &domain.StockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Available:   p.Stock.Quantity,
				Requested:   a.Delta.Neg(),
			}
		}
	}
	for _, a := range adj {
		ok, err := productRepo.AdjustStock(ctx, a.ProductID, a.Delta)
		if err != nil {
			return fmt.Errorf("ajustar stock de %s: %w", a.ProductID, err)
		}
		if !ok {
			return fmt.Errorf("producto %s: %w", a.ProductID, domain.ErrNotFound)
		}
	}
	return nil
}

// ListSales devuelve ventas por fecha descendente. Rango de fechas inclusivo.
func (uc *UseCase) ListSales(ctx context.Context, in dto.ListSalesRequest) ([]dto.SaleResponse, error) {
	if in.Skip < 0 {
		return nil, domain.NewValidationError("skip", "debe ser mayor o igual a 0")
	}
	limit := in.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if in.PaymentStatus != "" && !entity.ValidPaymentStatus(in.PaymentStatus) && in.PaymentStatus != entity.PaymentStatusCancelled {
		return nil, domain.NewValidationError("payment_status", "valor desconocido %q", in.PaymentStatus)
	}
	list, err := uc.saleRepo.List(ctx, entity.SaleFilter{
		StartDate:     in.StartDate,
		EndDate:       in.EndDate,
		PaymentStatus: in.PaymentStatus,
		CustomerID:    in.CustomerID,
		Offset:        in.Skip,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

// GetSale devuelve una venta o ErrNotFound.
func (uc *UseCase) GetSale(ctx context.Context, id string) (*dto.SaleResponse, error) {
	s, err := uc.getSale(ctx, uc.saleRepo, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(s), nil
}

func (uc *UseCase) getSale(ctx context.Context, repo repository.SaleRepository, id string) (*entity.Sale, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// UpdateSale modifica solo estado de pago, monto pagado y notas. Sin efectos sobre stock ni libro.
// Una venta anulada no admite cambio de estado de pago.
func (uc *UseCase) UpdateSale(ctx context.Context, id string, in dto.UpdateSaleRequest) (*dto.SaleResponse, error) {
	if in.PaymentStatus != nil && !entity.ValidPaymentStatus(*in.PaymentStatus) {
		return nil, domain.NewValidationError("paymentStatus", "valor desconocido %q", *in.PaymentStatus)
	}
	if in.AmountPaid != nil && in.AmountPaid.IsNegative() {
		return nil, domain.NewValidationError("amountPaid", "no puede ser negativo")
	}
	if in.Notes != nil && len([]rune(*in.Notes)) > maxNotesLen {
		return nil, domain.NewValidationError("notes", "máximo %d caracteres", maxNotesLen)
	}

	var updated *entity.Sale
	err := uc.txRunner.RunSales(ctx, func(_ repository.ProductRepository, saleRepo repository.SaleRepository, _ repository.TransactionRepository) error {
		s, err := uc.getSale(ctx, saleRepo, id)
		if err != nil {
			return err
		}
		if s.IsCancelled() && in.PaymentStatus != nil {
			return fmt.Errorf("venta %s anulada: %w", s.InvoiceNumber, domain.ErrConflict)
		}
		if in.PaymentStatus != nil {
			s.PaymentStatus = *in.PaymentStatus
		}
		if in.AmountPaid != nil {
			s.AmountPaid = *in.AmountPaid
		}
		if in.Notes != nil {
			s.Notes = *in.Notes
		}
		s.UpdatedAt = uc.now()
		if err := saleRepo.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.invalidateStats(ctx)
	return toSaleResponse(updated), nil
}

// ProcessReturn devuelve unidades al stock, marca la venta como refunded y registra el reembolso.
// Valida todas las líneas antes de mutar; no se puede devolver más de lo que queda sin devolver.
func (uc *UseCase) ProcessReturn(ctx context.Context, userID, saleID string, in dto.ReturnSaleRequest) (*dto.ReturnReceipt, error) {
	if err := validateReturn(&in); err != nil {
		return nil, err
	}

	now := uc.now()
	txID := uuid.New().String()
	var invoiceNumber string
	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		ledgerRepo repository.TransactionRepository,
	) error {
		s, err := uc.getSale(ctx, saleRepo, saleID)
		if err != nil {
			return err
		}
		if s.IsCancelled() {
			return fmt.Errorf("venta %s anulada: %w", s.InvoiceNumber, domain.ErrConflict)
		}
		invoiceNumber = s.InvoiceNumber

		restock, err := allocateReturn(s, in.Items)
		if err != nil {
			return err
		}
		if err := applyStock(ctx, productRepo, restock, false); err != nil {
			return err
		}

		s.PaymentStatus = entity.PaymentStatusRefunded
		s.UpdatedAt = now
		if err := saleRepo.Update(ctx, s); err != nil {
			return err
		}

		desc := in.Reason
		if desc == "" {
			desc = "Reembolso factura " + s.InvoiceNumber
		}
		return ledgerRepo.Create(ctx, &entity.Transaction{
			ID:              txID,
			ReferenceID:     s.ID,
			ReferenceType:   entity.TransactionTypeRefund,
			Amount:          in.RefundAmount,
			PaymentMode:     in.RefundMode,
			Description:     desc,
			Status:          entity.TransactionStatusSuccess,
			TransactionDate: now,
			CreatedBy:       userID,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().Str("sale_id", saleID).Str("invoice_number", invoiceNumber).
		Str("refund_amount", in.RefundAmount.String()).Str("transaction_id", txID).Msg("devolución procesada")
	return &dto.ReturnReceipt{
		Message:       "Devolución procesada correctamente",
		RefundAmount:  in.RefundAmount,
		TransactionID: txID,
	}, nil
}

// allocateReturn reparte cada línea devuelta entre las líneas originales del mismo producto,
// acumula ReturnedQuantity en la venta y devuelve los ajustes de stock (positivos).
// No modifica s si alguna línea es inválida.
func allocateReturn(s *entity.Sale, items []dto.ReturnItemRequest) ([]entity.StockAdjustment, error) {
	remaining := make(map[string]decimal.Decimal)
	for _, it := range s.Items {
		remaining[it.ProductID] = remaining[it.ProductID].Add(it.RemainingQuantity())
	}
	adj := make([]entity.StockAdjustment, 0, len(items))
	for _, r := range items {
		adj = append(adj, entity.StockAdjustment{ProductID: r.ProductID, Delta: r.Quantity})
	}
	adj = entity.MergeAdjustments(adj)
	for _, a := range adj {
		left, ok := remaining[a.ProductID]
		if !ok {
			return nil, domain.NewValidationError("items", "el producto %s no está en la venta original", a.ProductID)
		}
		if a.Delta.GreaterThan(left) {
			return nil, domain.NewValidationError("items", "la cantidad a devolver del producto %s excede la cantidad original (pendiente: %s)", a.ProductID, left.String())
		}
	}

	for _, a := range adj {
		pending := a.Delta
		for i := range s.Items {
			if pending.IsZero() {
				break
			}
			line := &s.Items[i]
			if line.ProductID != a.ProductID {
				continue
			}
			take := decimal.Min(pending, line.RemainingQuantity())
			if !take.IsPositive() {
				continue
			}
			line.ReturnedQuantity = line.ReturnedQuantity.Add(take)
			pending = pending.Sub(take)
		}
	}
	return adj, nil
}

// CancelSale anula la venta (soft delete): repone al stock lo que no se había devuelto y deja la venta en cancelled.
func (uc *UseCase) CancelSale(ctx context.Context, id string) (*dto.CancelResponse, error) {
	var s *entity.Sale
	err := uc.txRunner.RunSales(ctx, func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		_ repository.TransactionRepository,
	) error {
		var err error
		s, err = uc.getSale(ctx, saleRepo, id)
		if err != nil {
			return err
		}
		if s.IsCancelled() {
			return fmt.Errorf("venta %s ya anulada: %w", s.InvoiceNumber, domain.ErrConflict)
		}

		restock := make([]entity.StockAdjustment, 0, len(s.Items))
		for _, it := range s.Items {
			if q := it.RemainingQuantity(); q.IsPositive() {
				restock = append(restock, entity.StockAdjustment{ProductID: it.ProductID, Delta: q})
			}
		}
		if err := applyStock(ctx, productRepo, entity.MergeAdjustments(restock), false); err != nil {
			return err
		}

		s.PaymentStatus = entity.PaymentStatusCancelled
		s.UpdatedAt = uc.now()
		return saleRepo.Update(ctx, s)
	})
	if err != nil {
		return nil, err
	}

	uc.invalidateStats(ctx)
	uc.log.Info().Str("sale_id", s.ID).Str("invoice_number", s.InvoiceNumber).Msg("venta anulada")
	return &dto.CancelResponse{
		Message:       "Venta anulada correctamente",
		SaleID:        s.ID,
		InvoiceNumber: s.InvoiceNumber,
	}, nil
}

// ListTransactions asientos del libro de una referencia (venta), en orden cronológico.
func (uc *UseCase) ListTransactions(ctx context.Context, referenceID string) ([]dto.TransactionResponse, error) {
	if referenceID == "" {
		return nil, domain.NewValidationError("reference_id", "es obligatorio")
	}
	list, err := uc.ledgerRepo.ListByReference(ctx, referenceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, ToTransactionResponse(t))
	}
	return out, nil
}

func (uc *UseCase) invalidateStats(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.statsMu.Lock()
	defer uc.statsMu.Unlock()
	uc.statsGen.Add(1)
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo invalidar la caché de estadísticas")
	}
}

func validateCreate(in *dto.CreateSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la venta debe tener al menos un ítem")
	}
	if !entity.ValidPaymentMode(in.PaymentMode) {
		return domain.NewValidationError("paymentMode", "valor desconocido %q", in.PaymentMode)
	}
	if !entity.ValidPaymentStatus(in.PaymentStatus) {
		return domain.NewValidationError("paymentStatus", "valor desconocido %q", in.PaymentStatus)
	}
	if in.DiscountType == "" {
		in.DiscountType = entity.DiscountTypeFixed
	}
	if !validDiscountType(in.DiscountType) {
		return domain.NewValidationError("discountType", "valor desconocido %q", in.DiscountType)
	}
	amounts := []struct {
		field string
		v     decimal.Decimal
	}{
		{"subtotal", in.Subtotal},
		{"discountAmount", in.DiscountAmount},
		{"taxAmount", in.TaxAmount},
		{"total", in.Total},
		{"amountPaid", in.AmountPaid},
	}
	for _, a := range amounts {
		if a.v.IsNegative() {
			return domain.NewValidationError(a.field, "no puede ser negativo")
		}
	}
	if len([]rune(in.Notes)) > maxNotesLen {
		return domain.NewValidationError("notes", "máximo %d caracteres", maxNotesLen)
	}
	for i := range in.Items {
		it := &in.Items[i]
		if it.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a 0")
		}
		if it.UnitPrice.IsNegative() || it.Discount.IsNegative() || it.TaxAmount.IsNegative() || it.LineTotal.IsNegative() {
			return domain.NewValidationError(fmt.Sprintf("items[%d]", i), "los importes no pueden ser negativos")
		}
		if it.TaxRate.IsNegative() || it.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].taxRate", i), "debe estar entre 0 y 100")
		}
		if it.DiscountType == "" {
			it.DiscountType = entity.DiscountTypeFixed
		}
		if !validDiscountType(it.DiscountType) {
			return domain.NewValidationError(fmt.Sprintf("items[%d].discountType", i), "valor desconocido %q", it.DiscountType)
		}
	}
	return nil
}

func validateReturn(in *dto.ReturnSaleRequest) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "la devolución debe tener al menos un ítem")
	}
	if in.RefundAmount.IsNegative() {
		return domain.NewValidationError("refundAmount", "no puede ser negativo")
	}
	if !entity.ValidPaymentMode(in.RefundMode) {
		return domain.NewValidationError("refundMode", "valor desconocido %q", in.RefundMode)
	}
	if len([]rune(in.Reason)) > maxNotesLen {
		return domain.NewValidationError("reason", "máximo %d caracteres", maxNotesLen)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return domain.NewValidationError(fmt.Sprintf("items[%d].productId", i), "es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor a 0")
		}
	}
	return nil
}

func validDiscountType(t string) bool {
	return t == entity.DiscountTypeFixed || t == entity.DiscountTypePercentage
}
