package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
)

var (
	minRating = decimal.NewFromInt(1)
	maxRating = decimal.NewFromInt(5)
)

// SupplierUseCase casos de uso para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
	now  func() time.Time
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, now: time.Now}
}

// Create crea un proveedor. Sin condiciones de pago se asume net30.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "es obligatorio")
	}
	if err := validatePhone(in.Phone); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	terms := in.PaymentTerms
	if terms == "" {
		terms = entity.PaymentTermsNet30
	}
	if !entity.ValidPaymentTerms(terms) {
		return nil, domain.NewValidationError("paymentTerms", "valor desconocido %q", terms)
	}
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	if in.OutstandingBalance.IsNegative() {
		return nil, domain.NewValidationError("outstandingBalance", "no puede ser negativo")
	}
	existing, err := uc.repo.GetByPhone(ctx, in.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := uc.now()
	s := &entity.Supplier{
		ID:                 uuid.New().String(),
		Name:               name,
		Email:              strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:              in.Phone,
		GSTNumber:          strings.ToUpper(strings.TrimSpace(in.GSTNumber)),
		Address:            toAddress(in.Address),
		PaymentTerms:       terms,
		OutstandingBalance: in.OutstandingBalance,
		Rating:             in.Rating,
		IsActive:           active,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores; search busca en nombre, teléfono y email.
func (uc *SupplierUseCase) List(ctx context.Context, search string, limit, offset int) ([]dto.SupplierResponse, error) {
	limit, offset = normalizePage(limit, offset)
	list, err := uc.repo.List(ctx, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Update actualización parcial de un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, domain.NewValidationError("name", "es obligatorio")
		}
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if err := validateEmail(*in.Email); err != nil {
			return nil, err
		}
		s.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Phone != nil && *in.Phone != s.Phone {
		if err := validatePhone(*in.Phone); err != nil {
			return nil, err
		}
		other, err := uc.repo.GetByPhone(ctx, *in.Phone)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
		s.Phone = *in.Phone
	}
	if in.GSTNumber != nil {
		s.GSTNumber = strings.ToUpper(strings.TrimSpace(*in.GSTNumber))
	}
	if in.Address != nil {
		s.Address = toAddress(in.Address)
	}
	if in.PaymentTerms != nil {
		if !entity.ValidPaymentTerms(*in.PaymentTerms) {
			return nil, domain.NewValidationError("paymentTerms", "valor desconocido %q", *in.PaymentTerms)
		}
		s.PaymentTerms = *in.PaymentTerms
	}
	if in.Rating != nil {
		if err := validateRating(in.Rating); err != nil {
			return nil, err
		}
		s.Rating = in.Rating
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	s.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// Delete elimina un proveedor.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	ok, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

func validateRating(r *decimal.Decimal) error {
	if r == nil {
		return nil
	}
	if r.LessThan(minRating) || r.GreaterThan(maxRating) {
		return domain.NewValidationError("rating", "debe estar entre 1 y 5")
	}
	return nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:                 s.ID,
		Name:               s.Name,
		Email:              s.Email,
		Phone:              s.Phone,
		GSTNumber:          s.GSTNumber,
		Address:            fromAddress(s.Address),
		PaymentTerms:       s.PaymentTerms,
		OutstandingBalance: s.OutstandingBalance,
		Rating:             s.Rating,
		IsActive:           s.IsActive,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}
