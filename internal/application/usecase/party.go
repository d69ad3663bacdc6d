package usecase

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
)

// Teléfono de clientes y proveedores: exactamente 10 dígitos.
var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

func validatePhone(phone string) error {
	if !phonePattern.MatchString(phone) {
		return domain.NewValidationError("phone", "debe tener 10 dígitos")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.NewValidationError("email", "formato inválido")
	}
	return nil
}

func toAddress(a *dto.AddressDTO) entity.Address {
	if a == nil {
		return entity.Address{}
	}
	return entity.Address{
		Street:  strings.TrimSpace(a.Street),
		City:    strings.TrimSpace(a.City),
		State:   strings.TrimSpace(a.State),
		Pincode: strings.TrimSpace(a.Pincode),
		Country: strings.TrimSpace(a.Country),
	}
}

func fromAddress(a entity.Address) dto.AddressDTO {
	return dto.AddressDTO{Street: a.Street, City: a.City, State: a.State, Pincode: a.Pincode, Country: a.Country}
}

func normalizePage(limit, offset int) (int, int) {
	p := dto.PageRequest{Limit: limit, Offset: offset}
	p.DefaultPage()
	return p.Limit, p.Offset
}
