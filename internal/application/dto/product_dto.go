package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingDTO precios del producto.
type PricingDTO struct {
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	MRP           decimal.Decimal `json:"mrp"`
	Discount      decimal.Decimal `json:"discount"`
	TaxRate       decimal.Decimal `json:"taxRate"`
}

// StockDTO stock del producto.
type StockDTO struct {
	Quantity     decimal.Decimal `json:"quantity"`
	ReorderPoint decimal.Decimal `json:"reorderPoint"`
	Warehouse    string          `json:"warehouse,omitempty"`
}

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	Name        string     `json:"name"`
	SKU         string     `json:"sku"`
	Barcode     string     `json:"barcode"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Brand       string     `json:"brand"`
	Unit        string     `json:"unit"`
	Pricing     PricingDTO `json:"pricing"`
	Stock       StockDTO   `json:"stock"`
	Supplier    string     `json:"supplier"`
	IsActive    *bool      `json:"isActive"`
}

// UpdateProductRequest actualización parcial; nil = sin cambio. El SKU no se modifica.
type UpdateProductRequest struct {
	Name        *string     `json:"name"`
	Description *string     `json:"description"`
	Category    *string     `json:"category"`
	Brand       *string     `json:"brand"`
	Unit        *string     `json:"unit"`
	Pricing     *PricingDTO `json:"pricing"`
	Stock       *StockDTO   `json:"stock"`
	Supplier    *string     `json:"supplier"`
	IsActive    *bool       `json:"isActive"`
}

// ProductListRequest filtros del listado (page empieza en 1).
type ProductListRequest struct {
	Page     int
	Limit    int
	Search   string
	Category string
	Brand    string
	LowStock bool
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Barcode      string          `json:"barcode,omitempty"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category"`
	Brand        string          `json:"brand,omitempty"`
	Unit         string          `json:"unit"`
	Pricing      PricingDTO      `json:"pricing"`
	Stock        StockDTO        `json:"stock"`
	Supplier     string          `json:"supplier,omitempty"`
	IsActive     bool            `json:"isActive"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	CreatedBy    string          `json:"createdBy"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// LowStockResponse productos en o por debajo del punto de reorden.
type LowStockResponse struct {
	LowStockItems []ProductResponse `json:"lowStockItems"`
	Count         int               `json:"count"`
}
