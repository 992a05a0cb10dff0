package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/dto"
)

// PaymentHandler maneja /api/payments.
type PaymentHandler struct {
	uc        *billing.PaymentUseCase
	csvFormat string
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *billing.PaymentUseCase, csvFormat string) *PaymentHandler {
	return &PaymentHandler{uc: uc, csvFormat: csvFormat}
}

// List GET /api/payments?invoice_id=&method=&status=&from=&to=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	var in dto.PaymentListRequest
	if err := c.QueryParser(&in); err != nil {
		return badRequest(c, "VALIDATION", "parámetros de consulta inválidos")
	}
	in.PageRequest = parsePage(c)
	out, err := h.uc.List(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar pago de una factura
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse "factura cancelada, en borrador o importe superior al saldo"
// @Router       /api/payments [post]
func (h *PaymentHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Record(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Refund POST /api/payments/:id/refund
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	out, err := h.uc.Refund(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/payments/export
func (h *PaymentHandler) Export(c *fiber.Ctx) error {
	format, err := csvFormat(c, h.csvFormat)
	if err != nil {
		return respondError(c, err)
	}
	companyID := GetCompanyID(c)
	return sendCSV(c, "pagos", func(w io.Writer) error {
		return h.uc.Export(c.UserContext(), companyID, w, format)
	})
}
