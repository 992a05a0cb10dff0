package dto

// Topes de paginación compartidos por todos los listados del CRM.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest limit/offset de un listado; se embebe en los filtros de contactos, facturas,
// cotizaciones, pagos y movimientos.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// NewPageRequest construye una página ya normalizada a partir de valores crudos del query string.
func NewPageRequest(limit, offset int) PageRequest {
	p := PageRequest{Limit: limit, Offset: offset}
	p.DefaultPage()
	return p
}

// DefaultPage normaliza la página: limit ≤ 0 pasa a DefaultPageLimit, por encima de
// MaxPageLimit se recorta y un offset negativo vuelve a 0.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página. Total cuenta todos los registros que cumplen el filtro.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable (NOT_FOUND, MODULE_DISABLED,
// INVALID_TRANSITION...) y es lo que deben mirar los clientes; Message es texto libre.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
