package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	QuoteStatusDraft     = "draft"
	QuoteStatusSent      = "sent"
	QuoteStatusAccepted  = "accepted"
	QuoteStatusRejected  = "rejected"
	QuoteStatusExpired   = "expired"
	QuoteStatusConverted = "converted"
)

// Quote representa una cotización (devis) enviada a un cliente.
type Quote struct {
	ID          string
	CompanyID   string
	Number      string
	Seq         int64
	SeriesID    string
	ContactID   string
	ClientName  string
	ClientEmail string
	IssueDate   time.Time
	ValidUntil  time.Time
	Items       []LineItem
	NetTotal    decimal.Decimal
	TaxTotal    decimal.Decimal
	GrandTotal  decimal.Decimal
	Status      string
	InvoiceID   string // factura generada al convertir
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
