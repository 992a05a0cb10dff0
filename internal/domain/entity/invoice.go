package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPartial   = "partial"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Invoice representa una factura emitida a un cliente.
type Invoice struct {
	ID          string
	CompanyID   string
	Number      string // número formateado según la serie (ej: FAC-2026-0007)
	Seq         int64  // consecutivo dentro de la serie
	SeriesID    string
	ContactID   string // opcional
	ClientName  string // empresa cliente, coincide con Contact.CompanyName por texto
	ClientEmail string
	IssueDate   time.Time
	DueDate     time.Time
	Items       []LineItem
	NetTotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	AmountPaid  decimal.Decimal
	Status      string
	QuoteID     string // cotización de origen, vacío si se creó directamente
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Outstanding devuelve el saldo pendiente.
func (i *Invoice) Outstanding() decimal.Decimal {
	return i.GrandTotal.Sub(i.AmountPaid)
}
