package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var hundred = decimal.NewFromInt(100)

// ProductUseCase casos de uso del catálogo. El stock solo lo mueven las ventas, devoluciones y ediciones explícitas.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: time.Now}
}

// Create crea un producto. El SKU se normaliza a mayúsculas y debe ser único.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if sku == "" {
		return nil, domain.NewValidationError("sku", "es obligatorio")
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, domain.NewValidationError("category", "es obligatoria")
	}
	if in.Unit == "" {
		in.Unit = entity.UnitPiece
	}
	if !validUnit(in.Unit) {
		return nil, domain.NewValidationError("unit", "valor desconocido %q", in.Unit)
	}
	if err := validatePricing(in.Pricing); err != nil {
		return nil, err
	}
	if err := validateStock(in.Stock); err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := uc.now()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	pricing := toPricing(in.Pricing)
	product := &entity.Product{
		ID:           uuid.New().String(),
		Name:         name,
		SKU:          sku,
		Barcode:      in.Barcode,
		Description:  in.Description,
		Category:     strings.TrimSpace(in.Category),
		Brand:        in.Brand,
		Unit:         in.Unit,
		Pricing:      pricing,
		Stock:        toStock(in.Stock),
		SupplierID:   in.Supplier,
		IsActive:     active,
		ProfitMargin: entity.ProfitMarginFor(pricing),
		CreatedBy:    userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualización parcial. Si cambian los precios se recalcula el margen.
// stock.quantity solo se escribe cuando la solicitud trae stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "es obligatorio")
		}
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = *in.Category
	}
	if in.Brand != nil {
		product.Brand = *in.Brand
	}
	if in.Unit != nil {
		if !validUnit(*in.Unit) {
			return nil, domain.NewValidationError("unit", "valor desconocido %q", *in.Unit)
		}
		product.Unit = *in.Unit
	}
	if in.Pricing != nil {
		if err := validatePricing(*in.Pricing); err != nil {
			return nil, err
		}
		product.Pricing = toPricing(*in.Pricing)
		product.ProfitMargin = entity.ProfitMarginFor(product.Pricing)
	}
	if in.Stock != nil {
		if err := validateStock(*in.Stock); err != nil {
			return nil, err
		}
		product.Stock = toStock(*in.Stock)
	}
	if in.Supplier != nil {
		product.SupplierID = *in.Supplier
	}
	if in.IsActive != nil {
		product.IsActive = *in.IsActive
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	if in.Stock == nil {
		// el stock leído puede estar desactualizado si entró una venta
		current, err := uc.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.ErrNotFound
		}
		product.Stock.Quantity = current.Stock.Quantity
		return toProductResponse(product), nil
	}
	ok, err := uc.repo.SetStockQuantity(ctx, id, product.Stock.Quantity)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista productos con filtros; page empieza en 1.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) ([]dto.ProductResponse, error) {
	page := dto.PageRequest{Limit: in.Limit}
	page.DefaultPage()
	if in.Page > 1 {
		page.Offset = (in.Page - 1) * page.Limit
	}
	list, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:   strings.TrimSpace(in.Search),
		Category: in.Category,
		Brand:    in.Brand,
		LowStock: in.LowStock,
		Limit:    page.Limit,
		Offset:   page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// LowStock productos en o por debajo de su punto de reorden.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.LowStockResponse, error) {
	list, err := uc.repo.List(ctx, repository.ProductFilter{LowStock: true})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.LowStockResponse{LowStockItems: items, Count: len(items)}, nil
}

// Categories categorías distintas del catálogo.
func (uc *ProductUseCase) Categories(ctx context.Context) ([]string, error) {
	return uc.repo.Categories(ctx)
}

// Brands marcas distintas del catálogo.
func (uc *ProductUseCase) Brands(ctx context.Context) ([]string, error) {
	return uc.repo.Brands(ctx)
}

// Delete elimina un producto por ID. Las ventas conservan sus líneas (nombre y SKU copiados).
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func validUnit(u string) bool {
	switch u {
	case entity.UnitPiece, entity.UnitKG, entity.UnitLiter, entity.UnitMeter, entity.UnitBox, entity.UnitDozen:
		return true
	}
	return false
}

func validatePricing(p dto.PricingDTO) error {
	if p.PurchasePrice.IsNegative() || p.SellingPrice.IsNegative() || p.MRP.IsNegative() {
		return domain.NewValidationError("pricing", "los precios no pueden ser negativos")
	}
	if p.Discount.IsNegative() || p.Discount.GreaterThan(hundred) {
		return domain.NewValidationError("pricing.discount", "debe estar entre 0 y 100")
	}
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(hundred) {
		return domain.NewValidationError("pricing.taxRate", "debe estar entre 0 y 100")
	}
	return nil
}

func validateStock(s dto.StockDTO) error {
	if s.Quantity.IsNegative() {
		return domain.NewValidationError("stock.quantity", "no puede ser negativa")
	}
	if s.ReorderPoint.IsNegative() {
		return domain.NewValidationError("stock.reorderPoint", "no puede ser negativo")
	}
	return nil
}

func toPricing(p dto.PricingDTO) entity.Pricing {
	return entity.Pricing{
		PurchasePrice: p.PurchasePrice,
		SellingPrice:  p.SellingPrice,
		MRP:           p.MRP,
		Discount:      p.Discount,
		TaxRate:       p.TaxRate,
	}
}

func toStock(s dto.StockDTO) entity.Stock {
	return entity.Stock{Quantity: s.Quantity, ReorderPoint: s.ReorderPoint, Warehouse: s.Warehouse}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Unit:        p.Unit,
		Pricing: dto.PricingDTO{
			PurchasePrice: p.Pricing.PurchasePrice,
			SellingPrice:  p.Pricing.SellingPrice,
			MRP:           p.Pricing.MRP,
			Discount:      p.Pricing.Discount,
			TaxRate:       p.Pricing.TaxRate,
		},
		Stock:        dto.StockDTO{Quantity: p.Stock.Quantity, ReorderPoint: p.Stock.ReorderPoint, Warehouse: p.Stock.Warehouse},
		Supplier:     p.SupplierID,
		IsActive:     p.IsActive,
		ProfitMargin: p.ProfitMargin,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
