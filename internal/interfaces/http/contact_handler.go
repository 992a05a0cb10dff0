package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/dto"
)

// ContactHandler maneja /api/contacts.
type ContactHandler struct {
	uc        *crm.ContactUseCase
	csvFormat string
}

// NewContactHandler construye el handler. csvFormat es el formato CSV por defecto.
func NewContactHandler(uc *crm.ContactUseCase, csvFormat string) *ContactHandler {
	return &ContactHandler{uc: uc, csvFormat: csvFormat}
}

// List godoc
// @Summary      Listar contactos
// @Tags         contacts
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "lead|prospect|client|inactive"
// @Param        tag     query  string  false  "Etiqueta"
// @Param        q       query  string  false  "Búsqueda por nombre, email o empresa"
// @Param        limit   query  int     false  "Límite" default(20)
// @Param        offset  query  int     false  "Offset" default(0)
// @Success      200  {object}  dto.ContactListResponse
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	var in dto.ContactListRequest
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

// Create godoc
// @Summary      Crear contacto
// @Tags         contacts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateContactRequest  true  "Contacto"
// @Success      201   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get GET /api/contacts/:id
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update PUT /api/contacts/:id (actualización parcial: campos nulos no cambian).
func (h *ContactHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateContactRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/contacts/:id
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UploadPhoto godoc
// @Summary      Subir foto del contacto (png, jpeg, gif o webp; máx. 2 MiB)
// @Tags         contacts
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        id    path      string  true  "ID del contacto"
// @Param        photo formData  file    true  "Imagen"
// @Success      200   {object}  dto.ContactResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      415   {object}  dto.ErrorResponse
// @Router       /api/contacts/{id}/photo [post]
func (h *ContactHandler) UploadPhoto(c *fiber.Ctx) error {
	fh, err := c.FormFile("photo")
	if err != nil {
		return badRequest(c, "VALIDATION", "campo photo requerido")
	}
	if fh.Size > crm.MaxPhotoSize {
		return badRequest(c, "VALIDATION", "la foto supera el tamaño máximo")
	}
	f, err := fh.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, crm.MaxPhotoSize+1))
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetPhoto(c.UserContext(), GetCompanyID(c), c.Params("id"), data)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeletePhoto DELETE /api/contacts/:id/photo
func (h *ContactHandler) DeletePhoto(c *fiber.Ctx) error {
	if err := h.uc.ClearPhoto(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Duplicates godoc
// @Summary      Informe de contactos duplicados (nombre + apellido + email)
// @Tags         contacts
// @Security     Bearer
// @Produce      json
// @Param        skip_blank  query  bool  false  "Ignorar contactos con clave vacía"
// @Success      200  {object}  dto.DuplicateReport
// @Router       /api/contacts/duplicates [get]
func (h *ContactHandler) Duplicates(c *fiber.Ctx) error {
	out, err := h.uc.FindDuplicates(c.UserContext(), GetCompanyID(c), c.QueryBool("skip_blank"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Dedup elimina los duplicados conservando la primera aparición.
// POST /api/contacts/dedup
func (h *ContactHandler) Dedup(c *fiber.Ctx) error {
	out, err := h.uc.RemoveDuplicates(c.UserContext(), GetCompanyID(c), c.QueryBool("skip_blank"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar contactos a CSV
// @Tags         contacts
// @Security     Bearer
// @Produce      text/csv
// @Param        format  query  string  false  "rfc4180|legacy"
// @Success      200
// @Router       /api/contacts/export [get]
func (h *ContactHandler) Export(c *fiber.Ctx) error {
	format, err := csvFormat(c, h.csvFormat)
	if err != nil {
		return respondError(c, err)
	}
	companyID := GetCompanyID(c)
	return sendCSV(c, "contactos", func(w io.Writer) error {
		return h.uc.Export(c.UserContext(), companyID, w, format)
	})
}

// Import godoc
// @Summary      Importar contactos desde CSV
// @Tags         contacts
// @Security     Bearer
// @Accept       mpfd
// @Produce      json
// @Param        file     formData  file    true   "CSV"
// @Param        format   query     string  false  "rfc4180|legacy"
// @Param        charset  query     string  false  "utf-8|latin1|windows-1252"
// @Param        dedup    query     bool    false  "Omitir filas duplicadas"
// @Success      200  {object}  dto.ImportResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/contacts/import [post]
func (h *ContactHandler) Import(c *fiber.Ctx) error {
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
