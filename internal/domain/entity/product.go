package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida soportadas.
const (
	UnitPiece = "piece"
	UnitKG    = "kg"
	UnitLiter = "liter"
	UnitMeter = "meter"
	UnitBox   = "box"
	UnitDozen = "dozen"
)

// Pricing precios del producto (compra, venta, MRP) y porcentajes de descuento/impuesto.
type Pricing struct {
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	MRP           decimal.Decimal
	Discount      decimal.Decimal // 0..100
	TaxRate       decimal.Decimal // 0..100
}

// Stock cantidad disponible del producto. Quantity nunca es negativa.
type Stock struct {
	Quantity     decimal.Decimal
	ReorderPoint decimal.Decimal
	Warehouse    string
}

// Product representa un artículo del catálogo. El SKU se guarda siempre en mayúsculas.
type Product struct {
	ID           string
	Name         string
	SKU          string
	Barcode      string
	Description  string
	Category     string
	Brand        string
	Unit         string
	Pricing      Pricing
	Stock        Stock
	SupplierID   string
	IsActive     bool
	ProfitMargin decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsLowStock indica si la cantidad está en o por debajo del punto de reorden.
func (p *Product) IsLowStock() bool {
	return p.Stock.Quantity.LessThanOrEqual(p.Stock.ReorderPoint)
}

// ProfitMarginFor calcula ((venta - compra) / compra) * 100 redondeado a 2 decimales; 0 si compra es 0.
func ProfitMarginFor(p Pricing) decimal.Decimal {
	if !p.PurchasePrice.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return p.SellingPrice.Sub(p.PurchasePrice).
		Div(p.PurchasePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
