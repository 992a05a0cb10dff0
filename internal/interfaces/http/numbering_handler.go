package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/dto"
)

// NumberingHandler administra las series de numeración (solo admin).
type NumberingHandler struct {
	svc *billing.NumberingService
}

// NewNumberingHandler construye el handler.
func NewNumberingHandler(svc *billing.NumberingService) *NumberingHandler {
	return &NumberingHandler{svc: svc}
}

// List GET /api/numbering-series
func (h *NumberingHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Create godoc
// @Summary      Crear serie de numeración
// @Tags         numbering
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.NumberingSeriesRequest  true  "Serie"
// @Success      201   {object}  dto.NumberingSeriesResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/numbering-series [post]
func (h *NumberingHandler) Create(c *fiber.Ctx) error {
	var in dto.NumberingSeriesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update PUT /api/numbering-series/:id
func (h *NumberingHandler) Update(c *fiber.Ctx) error {
	var in dto.NumberingSeriesRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
