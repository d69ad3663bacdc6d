package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una venta.
const (
	PaymentStatusPaid      = "paid"
	PaymentStatusPartial   = "partial"
	PaymentStatusPending   = "pending"
	PaymentStatusRefunded  = "refunded"
	PaymentStatusCancelled = "cancelled"
)

// Medios de pago.
const (
	PaymentModeCash       = "cash"
	PaymentModeCard       = "card"
	PaymentModeUPI        = "upi"
	PaymentModeNetBanking = "net_banking"
	PaymentModeWallet     = "wallet"
	PaymentModeCredit     = "credit"
)

// Tipos de descuento.
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// ValidPaymentMode indica si m es un medio de pago conocido.
func ValidPaymentMode(m string) bool {
	switch m {
	case PaymentModeCash, PaymentModeCard, PaymentModeUPI, PaymentModeNetBanking, PaymentModeWallet, PaymentModeCredit:
		return true
	}
	return false
}

// ValidPaymentStatus indica si s es un estado aceptado al crear o editar una venta.
// cancelled solo se alcanza con CancelSale.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPartial, PaymentStatusPending, PaymentStatusRefunded:
		return true
	}
	return false
}

// SaleItem línea de una venta. LineTotal lo envía el cliente y no se recalcula.
// ReturnedQuantity acumula lo devuelto para no restaurar stock dos veces.
type SaleItem struct {
	ProductID        string
	ProductName      string
	SKU              string
	Quantity         decimal.Decimal
	UnitPrice        decimal.Decimal
	Discount         decimal.Decimal
	DiscountType     string
	TaxRate          decimal.Decimal
	TaxAmount        decimal.Decimal
	LineTotal        decimal.Decimal
	ReturnedQuantity decimal.Decimal
}

// RemainingQuantity cantidad aún no devuelta de la línea.
func (i SaleItem) RemainingQuantity() decimal.Decimal {
	return i.Quantity.Sub(i.ReturnedQuantity)
}

// Sale venta de punto de venta. Es dueña de sus líneas (Items).
type Sale struct {
	ID             string
	InvoiceNumber  string
	CustomerID     string
	CustomerName   string
	CustomerPhone  string
	Items          []SaleItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	DiscountType   string
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	AmountPaid     decimal.Decimal
	PaymentMode    string
	PaymentStatus  string
	Notes          string
	SaleDate       time.Time
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsCancelled indica si la venta ya fue anulada (estado terminal).
func (s *Sale) IsCancelled() bool { return s.PaymentStatus == PaymentStatusCancelled }

// SaleFilter filtros de listado. Las fechas son inclusivas; nil = sin límite.
type SaleFilter struct {
	StartDate     *time.Time
	EndDate       *time.Time
	PaymentStatus string
	CustomerID    string
	Offset        int
	Limit         int
}

// SaleUpdate campos editables después de crear la venta; nil = sin cambio.
type SaleUpdate struct {
	PaymentStatus *string
	AmountPaid    *decimal.Decimal
	Notes         *string
}
