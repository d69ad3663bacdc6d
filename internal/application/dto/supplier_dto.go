package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name               string           `json:"name"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	GSTNumber          string           `json:"gstNumber"`
	Address            *AddressDTO      `json:"address"`
	PaymentTerms       string           `json:"paymentTerms"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	Rating             *decimal.Decimal `json:"rating"`
	IsActive           *bool            `json:"isActive"`
}

// UpdateSupplierRequest actualización parcial de un proveedor.
type UpdateSupplierRequest struct {
	Name         *string          `json:"name"`
	Email        *string          `json:"email"`
	Phone        *string          `json:"phone"`
	GSTNumber    *string          `json:"gstNumber"`
	Address      *AddressDTO      `json:"address"`
	PaymentTerms *string          `json:"paymentTerms"`
	Rating       *decimal.Decimal `json:"rating"`
	IsActive     *bool            `json:"isActive"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID                 string           `json:"id"`
	Name               string           `json:"name"`
	Email              string           `json:"email,omitempty"`
	Phone              string           `json:"phone"`
	GSTNumber          string           `json:"gstNumber,omitempty"`
	Address            AddressDTO       `json:"address"`
	PaymentTerms       string           `json:"paymentTerms"`
	OutstandingBalance decimal.Decimal  `json:"outstandingBalance"`
	Rating             *decimal.Decimal `json:"rating"`
	IsActive           bool             `json:"isActive"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}
