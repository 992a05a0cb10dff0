package entity

import "time"

// Tipos de documento numerados.
const (
	DocumentInvoice = "invoice"
	DocumentQuote   = "quote"
)

// Modos de numeración.
const (
	NumberingSequential = "sequential" // PREFIX-000042
	NumberingYearly     = "yearly"     // PREFIX-2026-0042, el consecutivo reinicia cada año
	NumberingManual     = "manual"     // el usuario digita el número
)

// NumberingSeries define cómo se numeran las facturas o cotizaciones de una empresa.
// Solo una serie activa por tipo de documento.
type NumberingSeries struct {
	ID           string
	CompanyID    string
	DocumentType string // invoice, quote
	Prefix       string // ej: "FAC", "COT"
	Mode         string // ver constantes Numbering*
	Padding      int    // dígitos del consecutivo; 0 = valor por defecto del modo
	RangeFrom    int64  // primer consecutivo autorizado (0 = 1)
	RangeTo      int64  // último consecutivo autorizado (0 = sin límite)
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
