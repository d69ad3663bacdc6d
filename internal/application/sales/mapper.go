package sales

import (
	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
)

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	if s == nil {
		return nil
	}
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, dto.SaleItemResponse{
			ProductID:        it.ProductID,
			ProductName:      it.ProductName,
			SKU:              it.SKU,
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			Discount:         it.Discount,
			DiscountType:     it.DiscountType,
			TaxRate:          it.TaxRate,
			TaxAmount:        it.TaxAmount,
			LineTotal:        it.LineTotal,
			ReturnedQuantity: it.ReturnedQuantity,
		})
	}
	return &dto.SaleResponse{
		ID:             s.ID,
		InvoiceNumber:  s.InvoiceNumber,
		CustomerID:     s.CustomerID,
		CustomerName:   s.CustomerName,
		CustomerPhone:  s.CustomerPhone,
		Items:          items,
		Subtotal:       s.Subtotal,
		DiscountAmount: s.DiscountAmount,
		DiscountType:   s.DiscountType,
		TaxAmount:      s.TaxAmount,
		Total:          s.Total,
		AmountPaid:     s.AmountPaid,
		PaymentMode:    s.PaymentMode,
		PaymentStatus:  s.PaymentStatus,
		Notes:          s.Notes,
		SaleDate:       s.SaleDate,
		CreatedBy:      s.CreatedBy,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

// ToTransactionResponse mapea un asiento del libro a su DTO.
func ToTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:              t.ID,
		ReferenceID:     t.ReferenceID,
		ReferenceType:   t.ReferenceType,
		Amount:          t.Amount,
		PaymentMode:     t.PaymentMode,
		Description:     t.Description,
		Status:          t.Status,
		TransactionDate: t.TransactionDate,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}
