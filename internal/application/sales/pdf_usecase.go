package sales

import (
	"context"
	"fmt"

	"github.com/jhoicas/stockpilot-api/internal/domain"
)

// PDFUseCase genera la factura en PDF de una venta. Las ventas anuladas también se pueden imprimir.
type PDFUseCase struct {
	uc        *UseCase
	generator InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(uc *UseCase, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{uc: uc, generator: generator}
}

// DownloadInvoicePDF retorna los bytes del PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound si la venta no existe.
func (p *PDFUseCase) DownloadInvoicePDF(ctx context.Context, saleID string) (pdfBytes []byte, filename string, err error) {
	s, err := p.uc.getSale(ctx, p.uc.saleRepo, saleID)
	if err != nil {
		return nil, "", err
	}
	if p.generator == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado: %w", domain.ErrConflict)
	}
	pdfBytes, err = p.generator.GenerateSalePDF(ctx, s)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("invoice_%s.pdf", s.InvoiceNumber), nil
}
