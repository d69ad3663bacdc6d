package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de referencia de un movimiento del libro.
const (
	TransactionTypeSale     = "sale"
	TransactionTypeReturn   = "return"
	TransactionTypeRefund   = "refund"
	TransactionTypePurchase = "purchase"
	TransactionTypeExpense  = "expense"
)

// Estados de un movimiento del libro.
const (
	TransactionStatusSuccess   = "success"
	TransactionStatusPending   = "pending"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Transaction asiento del libro financiero. Solo se inserta, nunca se modifica.
// ReferenceID apunta a la venta (u otro documento) sin ser dueño de ella.
type Transaction struct {
	ID              string
	ReferenceID     string
	ReferenceType   string
	Amount          decimal.Decimal
	PaymentMode     string
	Description     string
	Status          string
	TransactionDate time.Time
	CreatedBy       string
	CreatedAt       time.Time
}
