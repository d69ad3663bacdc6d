package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta enviada por el punto de venta. LineTotal no se recalcula.
type SaleItemRequest struct {
	ProductID    string          `json:"productId"`
	ProductName  string          `json:"productName"`
	SKU          string          `json:"sku"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Discount     decimal.Decimal `json:"discount"`
	DiscountType string          `json:"discountType"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
}

// CreateSaleRequest entrada de POST /api/sales. Los totales se confían tal como llegan.
type CreateSaleRequest struct {
	CustomerID     string            `json:"customerId"`
	CustomerName   string            `json:"customerName"`
	CustomerPhone  string            `json:"customerPhone"`
	Items          []SaleItemRequest `json:"items"`
	Subtotal       decimal.Decimal   `json:"subtotal"`
	DiscountAmount decimal.Decimal   `json:"discountAmount"`
	DiscountType   string            `json:"discountType"`
	TaxAmount      decimal.Decimal   `json:"taxAmount"`
	Total          decimal.Decimal   `json:"total"`
	AmountPaid     decimal.Decimal   `json:"amountPaid"`
	PaymentMode    string            `json:"paymentMode"`
	PaymentStatus  string            `json:"paymentStatus"`
	Notes          string            `json:"notes"`
}

// UpdateSaleRequest campos editables de una venta; nil = sin cambio.
type UpdateSaleRequest struct {
	PaymentStatus *string          `json:"paymentStatus"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
	Notes         *string          `json:"notes"`
}

// ListSalesRequest filtros de GET /api/sales. Fechas inclusivas.
type ListSalesRequest struct {
	Skip          int
	Limit         int
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentStatus string
	CustomerID    string
}

// ReturnItemRequest línea a devolver.
type ReturnItemRequest struct {
	ProductID string          `json:"productId"`
	Quantity  decimal.Decimal `json:"quantity"`
	Reason    string          `json:"reason"`
}

// ReturnSaleRequest entrada de POST /api/sales/:id/return.
type ReturnSaleRequest struct {
	Items        []ReturnItemRequest `json:"items"`
	RefundAmount decimal.Decimal     `json:"refundAmount"`
	RefundMode   string              `json:"refundMode"`
	Reason       string              `json:"reason"`
}

// ReturnReceipt comprobante de devolución.
type ReturnReceipt struct {
	Message       string          `json:"message"`
	RefundAmount  decimal.Decimal `json:"refundAmount"`
	TransactionID string          `json:"transactionId"`
}

// SaleItemResponse línea de venta.
type SaleItemResponse struct {
	ProductID        string          `json:"productId"`
	ProductName      string          `json:"productName"`
	SKU              string          `json:"sku"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountType     string          `json:"discountType"`
	TaxRate          decimal.Decimal `json:"taxRate"`
	TaxAmount        decimal.Decimal `json:"taxAmount"`
	LineTotal        decimal.Decimal `json:"lineTotal"`
	ReturnedQuantity decimal.Decimal `json:"returnedQuantity"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID             string             `json:"id"`
	InvoiceNumber  string             `json:"invoiceNumber"`
	CustomerID     string             `json:"customerId,omitempty"`
	CustomerName   string             `json:"customerName,omitempty"`
	CustomerPhone  string             `json:"customerPhone,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discountAmount"`
	DiscountType   string             `json:"discountType"`
	TaxAmount      decimal.Decimal    `json:"taxAmount"`
	Total          decimal.Decimal    `json:"total"`
	AmountPaid     decimal.Decimal    `json:"amountPaid"`
	PaymentMode    string             `json:"paymentMode"`
	PaymentStatus  string             `json:"paymentStatus"`
	Notes          string             `json:"notes,omitempty"`
	SaleDate       time.Time          `json:"saleDate"`
	CreatedBy      string             `json:"createdBy"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// TopProductDTO producto del ranking por ingresos.
type TopProductDTO struct {
	ProductID     string          `json:"productId"`
	ProductName   string          `json:"productName"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
}

// SaleStatsResponse respuesta de GET /api/sales/stats.
type SaleStatsResponse struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalTransactions int             `json:"totalTransactions"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TodaySales        decimal.Decimal `json:"todaySales"`
	WeekSales         decimal.Decimal `json:"weekSales"`
	MonthSales        decimal.Decimal `json:"monthSales"`
	TopProducts       []TopProductDTO `json:"topProducts"`
	RecentSales       []SaleResponse  `json:"recentSales"`
}

// TransactionResponse asiento del libro.
type TransactionResponse struct {
	ID              string          `json:"id"`
	ReferenceID     string          `json:"referenceId"`
	ReferenceType   string          `json:"referenceType"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMode     string          `json:"paymentMode"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status"`
	TransactionDate time.Time       `json:"transactionDate"`
	CreatedBy       string          `json:"createdBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// CancelResponse confirmación de anulación (la venta se conserva con estado cancelled).
type CancelResponse struct {
	Message       string `json:"message"`
	SaleID        string `json:"saleId"`
	InvoiceNumber string `json:"invoiceNumber"`
}
