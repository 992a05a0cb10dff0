package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	"github.com/jhoicas/crm-api/internal/application/dto"
)

// TransactionHandler maneja /api/transactions y la conciliación bancaria.
type TransactionHandler struct {
	uc        *accounting.TransactionUseCase
	csvFormat string
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *accounting.TransactionUseCase, csvFormat string) *TransactionHandler {
	return &TransactionHandler{uc: uc, csvFormat: csvFormat}
}

// List godoc
// @Summary      Listar movimientos contables
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        type      query  string  false  "income|expense"
// @Param        category  query  string  false  "Categoría"
// @Param        status    query  string  false  "pending|cleared"
// @Param        q         query  string  false  "Descripción o referencia"
// @Param        from      query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to        query  string  false  "Hasta (YYYY-MM-DD)"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var in dto.TransactionListRequest
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

// Create POST /api/transactions
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/transactions/:id
func (h *TransactionHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/transactions/:id
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/transactions/:id
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Summary godoc
// @Summary      Totales por categoría y tipo en un rango de fechas
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD), por defecto el día 1 del mes"
// @Param        to    query  string  false  "Hasta (YYYY-MM-DD), por defecto hoy"
// @Success      200  {object}  dto.AccountingSummaryResponse
// @Router       /api/transactions/summary [get]
func (h *TransactionHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), GetCompanyID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export GET /api/transactions/export
func (h *TransactionHandler) Export(c *fiber.Ctx) error {
	format, err := csvFormat(c, h.csvFormat)
	if err != nil {
		return respondError(c, err)
	}
	companyID := GetCompanyID(c)
	return sendCSV(c, "movimientos", func(w io.Writer) error {
		return h.uc.Export(c.UserContext(), companyID, w, format)
	})
}

// Import POST /api/transactions/import?format=&charset=&dedup=
func (h *TransactionHandler) Import(c *fiber.Ctx) error {
	opts, err := importOptions(c, h.csvFormat)
	if err != nil {
		return badRequest(c, "VALIDATION", "parámetros de consulta inválidos")
	}
	r, done, err := importSource(c)
	if err != nil {
		return badRequest(c, "VALIDATION", err.Error())
	}
	defer done()
	out, err := h.uc.Import(c.UserContext(), GetCompanyID(c), r, opts)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Suggest godoc
// @Summary      Propuesta de conciliación movimientos ↔ pagos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ReconciliationResponse
// @Router       /api/transactions/reconciliation [get]
func (h *TransactionHandler) Suggest(c *fiber.Ctx) error {
	out, err := h.uc.Suggest(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Reconcile POST /api/transactions/reconciliation
func (h *TransactionHandler) Reconcile(c *fiber.Ctx) error {
	var in dto.ReconcileRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if in.TransactionID == "" || in.PaymentID == "" {
		return badRequest(c, "VALIDATION", "transaction_id y payment_id son requeridos")
	}
	out, err := h.uc.Reconcile(c.UserContext(), GetCompanyID(c), in.TransactionID, in.PaymentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Unreconcile DELETE /api/transactions/reconciliation/:id
func (h *TransactionHandler) Unreconcile(c *fiber.Ctx) error {
	out, err := h.uc.Unreconcile(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
