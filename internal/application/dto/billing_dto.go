package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItemRequest línea de factura o cotización. TaxRate en porcentaje.
type LineItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// LineItemResponse línea con subtotal calculado.
type LineItemResponse struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// Fechas en formato YYYY-MM-DD; DueDate vacío = emisión + días por defecto.
type CreateInvoiceRequest struct {
	ContactID   string            `json:"contact_id,omitempty"`
	ClientName  string            `json:"client"`
	ClientEmail string            `json:"client_email,omitempty"`
	IssueDate   string            `json:"issue_date,omitempty"`
	DueDate     string            `json:"due_date,omitempty"`
	Number      string            `json:"number,omitempty"` // solo series en modo manual
	Items       []LineItemRequest `json:"items"`
	Notes       string            `json:"notes,omitempty"`
}

// InvoiceResponse factura para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	ContactID   string             `json:"contact_id,omitempty"`
	ClientName  string             `json:"client"`
	ClientEmail string             `json:"client_email,omitempty"`
	IssueDate   string             `json:"issue_date"`
	DueDate     string             `json:"due_date"`
	Items       []LineItemResponse `json:"items"`
	NetTotal    decimal.Decimal    `json:"net_total"`
	TaxTotal    decimal.Decimal    `json:"tax_total"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	AmountPaid  decimal.Decimal    `json:"amount_paid"`
	Outstanding decimal.Decimal    `json:"outstanding"`
	Status      string             `json:"status"` // estado efectivo (overdue calculado)
	QuoteID     string             `json:"quote_id,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DocumentListRequest filtros de GET /api/invoices y GET /api/quotes.
type DocumentListRequest struct {
	Status string `query:"status"`
	Search string `query:"q"`
	From   string `query:"from"`
	To     string `query:"to"`
	PageRequest
}

// UpdateStatusRequest body para PATCH .../:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateQuoteRequest body para POST /api/quotes.
type CreateQuoteRequest struct {
	ContactID   string            `json:"contact_id,omitempty"`
	ClientName  string            `json:"client"`
	ClientEmail string            `json:"client_email,omitempty"`
	IssueDate   string            `json:"issue_date,omitempty"`
	ValidUntil  string            `json:"valid_until,omitempty"`
	Number      string            `json:"number,omitempty"`
	Items       []LineItemRequest `json:"items"`
	Notes       string            `json:"notes,omitempty"`
}

// QuoteResponse cotización en respuestas.
type QuoteResponse struct {
	ID          string             `json:"id"`
	Number      string             `json:"number"`
	ContactID   string             `json:"contact_id,omitempty"`
	ClientName  string             `json:"client"`
	ClientEmail string             `json:"client_email,omitempty"`
	IssueDate   string             `json:"issue_date"`
	ValidUntil  string             `json:"valid_until"`
	Items       []LineItemResponse `json:"items"`
	NetTotal    decimal.Decimal    `json:"net_total"`
	TaxTotal    decimal.Decimal    `json:"tax_total"`
	GrandTotal  decimal.Decimal    `json:"grand_total"`
	Status      string             `json:"status"`
	InvoiceID   string             `json:"invoice_id,omitempty"`
	Notes       string             `json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// QuoteListResponse lista paginada de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// ConvertQuoteResponse resultado de POST /api/quotes/:id/convert.
type ConvertQuoteResponse struct {
	Quote   QuoteResponse   `json:"quote"`
	Invoice InvoiceResponse `json:"invoice"`
}

// NumberingSeriesRequest body para crear o actualizar una serie.
type NumberingSeriesRequest struct {
	DocumentType string `json:"document_type"` // invoice | quote
	Prefix       string `json:"prefix"`
	Mode         string `json:"mode"` // sequential | yearly | manual
	Padding      int    `json:"padding,omitempty"`
	RangeFrom    int64  `json:"range_from,omitempty"`
	RangeTo      int64  `json:"range_to,omitempty"`
	IsActive     *bool  `json:"is_active,omitempty"`
}

// NumberingSeriesResponse serie en respuestas, con vista previa del próximo número.
type NumberingSeriesResponse struct {
	ID           string `json:"id"`
	DocumentType string `json:"document_type"`
	Prefix       string `json:"prefix"`
	Mode         string `json:"mode"`
	Padding      int    `json:"padding"`
	RangeFrom    int64  `json:"range_from"`
	RangeTo      int64  `json:"range_to"`
	IsActive     bool   `json:"is_active"`
	Example      string `json:"example"`
}

// RecordPaymentRequest body para POST /api/payments.
type RecordPaymentRequest struct {
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Date      string          `json:"date,omitempty"`
	Reference string          `json:"reference,omitempty"`
	Notes     string          `json:"notes,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID            string          `json:"id"`
	Number        int64           `json:"number"`
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Date          string          `json:"date"`
	Reference     string          `json:"reference,omitempty"`
	Status        string          `json:"status"`
	Reconciled    bool            `json:"reconciled"`
	Notes         string          `json:"notes,omitempty"`
}

// PaymentListRequest filtros de GET /api/payments.
type PaymentListRequest struct {
	InvoiceID string `query:"invoice_id"`
	Method    string `query:"method"`
	Status    string `query:"status"`
	From      string `query:"from"`
	To        string `query:"to"`
	PageRequest
}

// PaymentListResponse lista paginada de pagos.
type PaymentListResponse struct {
	Items []PaymentResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
