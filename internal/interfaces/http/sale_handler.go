package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
)

// SaleHandler maneja ventas, devoluciones, anulaciones, estadísticas y factura PDF.
type SaleHandler struct {
	uc  *sales.UseCase
	pdf *sales.PDFUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.UseCase, pdf *sales.PDFUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta stock, asigna número de factura del día y registra el ingreso en el libro.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Venta"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err, "producto no encontrado")
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        skip            query  int     false  "Desplazamiento"  default(0)
// @Param        limit           query  int     false  "Límite"          default(50)
// @Param        start_date      query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        end_date        query  string  false  "Hasta, inclusivo (RFC3339 o YYYY-MM-DD)"
// @Param        payment_status  query  string  false  "paid, partial, pending o cancelled"
// @Param        customer_id     query  string  false  "Cliente"
// @Success      200             {array}   dto.SaleResponse
// @Failure      400             {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	skip, err := strconv.Atoi(c.Query("skip", "0"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "skip debe ser numérico"})
	}
	in := dto.ListSalesRequest{
		Skip:          skip,
		Limit:         c.QueryInt("limit", 50),
		PaymentStatus: c.Query("payment_status"),
		CustomerID:    c.Query("customer_id"),
	}
	if v := c.Query("start_date"); v != "" {
		t, _, err := parseDateParam(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "start_date inválida"})
		}
		in.StartDate = &t
	}
	if v := c.Query("end_date"); v != "" {
		t, dateOnly, err := parseDateParam(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "end_date inválida"})
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		in.EndDate = &t
	}
	out, err := h.uc.ListSales(c.UserContext(), in)
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Estadísticas de ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SaleStatsResponse
// @Router       /api/sales/stats [get]
func (h *SaleHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.GetSalesStats(c.UserContext())
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.GetSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "venta no encontrada")
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Descargar factura PDF
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice [get]
func (h *SaleHandler) Invoice(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	pdf, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "venta no encontrada")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Update godoc
// @Summary      Actualizar estado de pago o notas
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.UpdateSaleRequest  true  "paymentStatus, amountPaid, notes"
// @Success      200   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [put]
func (h *SaleHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.UpdateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateSale(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, err, "venta no encontrada")
	}
	return c.JSON(out)
}

// Return godoc
// @Summary      Procesar devolución
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la venta"
// @Param        body  body  dto.ReturnSaleRequest  true  "Líneas y reembolso"
// @Success      200   {object}  dto.ReturnReceipt
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/return [post]
func (h *SaleHandler) Return(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.ReturnSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ProcessReturn(c.UserContext(), GetUserID(c), id, in)
	if err != nil {
		return respondError(c, err, "venta no encontrada")
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Repone al stock las unidades no devueltas y marca la venta como cancelled.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.CancelResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	out, err := h.uc.CancelSale(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "venta no encontrada")
	}
	return c.JSON(out)
}

// Transactions godoc
// @Summary      Asientos del libro de una referencia
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        reference_id  query  string  true  "ID de la venta"
// @Success      200           {array}   dto.TransactionResponse
// @Failure      400           {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *SaleHandler) Transactions(c *fiber.Ctx) error {
	out, err := h.uc.ListTransactions(c.UserContext(), c.Query("reference_id"))
	if err != nil {
		return respondError(c, err, "")
	}
	return c.JSON(out)
}

// parseDateParam acepta RFC3339 o YYYY-MM-DD (UTC). dateOnly indica el segundo formato.
func parseDateParam(v string) (t time.Time, dateOnly bool, err error) {
	if t, err = time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err = time.Parse("2006-01-02", v)
	return t, err == nil, err
}
