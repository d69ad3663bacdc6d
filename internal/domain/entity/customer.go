package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Address dirección postal de clientes y proveedores.
type Address struct {
	Street  string
	City    string
	State   string
	Pincode string
	Country string
}

// Customer representa un cliente de la tienda. Phone es único.
type Customer struct {
	ID                 string
	Name               string
	Email              string
	Phone              string
	GSTNumber          string
	Address            Address
	LoyaltyPoints      decimal.Decimal
	CreditLimit        decimal.Decimal
	OutstandingBalance decimal.Decimal
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
