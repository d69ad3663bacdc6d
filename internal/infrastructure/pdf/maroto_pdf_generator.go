// Package pdf genera la factura de venta imprimible (A4) con Maroto v2.
//
// Layout de la página:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + contacto     │  N° Factura + Fecha + Estado│
//	│  CLIENTE: Nombre + teléfono                                  │
//	│  TABLA: Cant | Producto | P.Unit | Imp% | Total | Dev.       │
//	│  TOTALES: Subtotal / Descuento / Impuestos / TOTAL / Pagado  │
//	│  FOOTER: QR con el número de factura + notas                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stockpilot-api/internal/application/sales"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
)

var _ sales.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorAlert   = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// StoreInfo datos de la tienda impresos en la cabecera.
type StoreInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	store StoreInfo
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(store StoreInfo) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{store: store}
}

// GenerateSalePDF genera el PDF de la venta y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSalePDF(ctx context.Context, sale *entity.Sale) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura "+sale.InvoiceNumber, true).
		WithAuthor(nonEmpty(g.store.Name, "StockPilot"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, g.store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(customerRow(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(sale.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda (izq) y N° factura + fecha + estado (der).
func headerRow(sale *entity.Sale, store StoreInfo) core.Row {
	contact := strings.Join(nonEmptyAll(store.Address, store.Phone, store.Email), "   |   ")
	right := []core.Component{
		text.New("FACTURA DE VENTA", props.Text{
			Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
		}),
		text.New(sale.InvoiceNumber, props.Text{
			Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
		}),
		text.New("Fecha: "+sale.SaleDate.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Top: 13, Color: colorGray,
		}),
	}
	if stamp := statusStamp(sale.PaymentStatus); stamp != "" {
		right = append(right, text.New(stamp, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 18, Color: colorAlert,
		}))
	}
	return row.New(24).Add(
		col.New(7).Add(
			text.New(nonEmpty(store.Name, "StockPilot"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(contact, "—"), props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(right...),
	)
}

// customerRow: datos del cliente; "Consumidor final" si la venta no tiene cliente.
func customerRow(sale *entity.Sale) core.Row {
	return row.New(14).Add(
		col.New(8).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(sale.CustomerName, "Consumidor final"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(4).Add(
			text.New("Tel: "+nonEmpty(sale.CustomerPhone, "—"), props.Text{Size: 8, Top: 6, Align: align.Right, Color: colorGray}),
			text.New("Pago: "+sale.PaymentMode, props.Text{Size: 8, Top: 10, Align: align.Right, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp%", 1, align.Center),
		h("Total", 3, align.Right),
		h("Dev.", 1, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableDetailRows: una fila por línea de la venta.
func tableDetailRows(items []entity.SaleItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := it.ProductName
		if it.SKU != "" {
			desc += " (" + it.SKU + ")"
		}
		returned := "—"
		if it.ReturnedQuantity.IsPositive() {
			returned = it.ReturnedQuantity.String()
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(it.Quantity.String(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(4).Add(text.New(desc, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money(it.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(it.TaxRate.String()+"%", props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money(it.LineTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(returned, props.Text{Size: 8, Align: align.Center, Top: 1})),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, a align.Type) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 10, Align: a, Color: colorPrimary, Right: 1})
	}
	discount := money(sale.DiscountAmount)
	if sale.DiscountType == entity.DiscountTypePercentage {
		discount = sale.DiscountAmount.String() + "%"
	}
	balance := sale.Total.Sub(sale.AmountPaid)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return row.New(36).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("Impuestos:"),
			grand("TOTAL:", align.Right),
			label("Pagado:"),
			label("Saldo:"),
		),
		col.New(4).Add(
			value(money(sale.Subtotal)),
			value(discount),
			value(money(sale.TaxAmount)),
			grand(money(sale.Total), align.Right),
			value(money(sale.AmountPaid)),
			value(money(balance)),
		),
	)
}

// footerRows: QR con el número de factura y notas de la venta.
func footerRows(sale *entity.Sale) []core.Row {
	notes := nonEmpty(sale.Notes, "Gracias por su compra.")
	return []core.Row{
		row.New(40).Add(
			col.New(3).Add(code.NewQr(sale.InvoiceNumber, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Notas", props.Text{Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3, Color: colorPrimary}),
				text.New(notes, props.Text{Size: 8, Top: 10, Left: 3, Color: colorGray}),
			),
		),
		row.New(8).Add(col.New(12).Add(
			text.New("Conserve este documento como soporte de su compra. Devoluciones con la factura original.",
				props.Text{Size: 6.5, Color: colorGray, Top: 2}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusStamp(status string) string {
	switch status {
	case entity.PaymentStatusCancelled:
		return "ANULADA"
	case entity.PaymentStatusRefunded:
		return "CON DEVOLUCIÓN"
	case entity.PaymentStatusPending:
		return "PENDIENTE DE PAGO"
	case entity.PaymentStatusPartial:
		return "PAGO PARCIAL"
	}
	return ""
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func nonEmptyAll(vals ...string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// money formatea con separador de miles y dos decimales. Ej: 1234567.5 -> "$1.234.567,50".
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	return sign + "$" + groupThousands(intPart) + "," + frac
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" -> "25.000", "1000000" -> "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
