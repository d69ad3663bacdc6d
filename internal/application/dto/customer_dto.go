package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressDTO dirección postal.
type AddressDTO struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
	Country string `json:"country,omitempty"`
}

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	Name               string          `json:"name"`
	Email              string          `json:"email"`
	Phone              string          `json:"phone"`
	GSTNumber          string          `json:"gstNumber"`
	Address            *AddressDTO     `json:"address"`
	LoyaltyPoints      decimal.Decimal `json:"loyaltyPoints"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	IsActive           *bool           `json:"isActive"`
}

// UpdateCustomerRequest actualización parcial de un cliente.
type UpdateCustomerRequest struct {
	Name        *string          `json:"name"`
	Email       *string          `json:"email"`
	Phone       *string          `json:"phone"`
	GSTNumber   *string          `json:"gstNumber"`
	Address     *AddressDTO      `json:"address"`
	CreditLimit *decimal.Decimal `json:"creditLimit"`
	IsActive    *bool            `json:"isActive"`
}

// CustomerResponse salida de un cliente.
type CustomerResponse struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Email              string          `json:"email,omitempty"`
	Phone              string          `json:"phone"`
	GSTNumber          string          `json:"gstNumber,omitempty"`
	Address            AddressDTO      `json:"address"`
	LoyaltyPoints      decimal.Decimal `json:"loyaltyPoints"`
	CreditLimit        decimal.Decimal `json:"creditLimit"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	IsActive           bool            `json:"isActive"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}
