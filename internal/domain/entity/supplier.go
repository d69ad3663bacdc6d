package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Condiciones de pago a proveedores.
const (
	PaymentTermsImmediate = "immediate"
	PaymentTermsNet15     = "net15"
	PaymentTermsNet30     = "net30"
	PaymentTermsNet60     = "net60"
)

// ValidPaymentTerms indica si t es una condición de pago conocida.
func ValidPaymentTerms(t string) bool {
	switch t {
	case PaymentTermsImmediate, PaymentTermsNet15, PaymentTermsNet30, PaymentTermsNet60:
		return true
	}
	return false
}

// Supplier proveedor de productos.
type Supplier struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	GSTNumber          string
	Address            Address
	PaymentTerms       string
	OutstandingBalance decimal.Decimal
	Rating             *decimal.Decimal // 1..5, nil si no se ha calificado
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
