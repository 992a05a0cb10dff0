package billing

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// Transiciones manuales permitidas (los estados partial/paid los fija el registro de pagos).
var invoiceTransitions = map[string][]string{
	entity.InvoiceStatusDraft:   {entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:    {entity.InvoiceStatusCancelled},
	entity.InvoiceStatusPartial: {entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOverdue: {entity.InvoiceStatusCancelled},
}

var quoteTransitions = map[string][]string{
	entity.QuoteStatusDraft:   {entity.QuoteStatusSent, entity.QuoteStatusRejected},
	entity.QuoteStatusSent:    {entity.QuoteStatusAccepted, entity.QuoteStatusRejected, entity.QuoteStatusExpired},
	entity.QuoteStatusExpired: {entity.QuoteStatusSent},
}

// CanTransitionInvoice informa si una factura puede pasar de from a to por acción del usuario.
func CanTransitionInvoice(from, to string) bool {
	return slices.Contains(invoiceTransitions[from], to)
}

// CanTransitionQuote informa si una cotización puede pasar de from a to.
func CanTransitionQuote(from, to string) bool {
	return slices.Contains(quoteTransitions[from], to)
}

// StatusAfterPayment calcula el estado tras aplicar (o revertir) pagos.
// Una factura sin pagos vuelve a "sent".
func StatusAfterPayment(grandTotal, amountPaid decimal.Decimal) string {
	switch {
	case !amountPaid.IsPositive():
		return entity.InvoiceStatusSent
	case amountPaid.GreaterThanOrEqual(grandTotal):
		return entity.InvoiceStatusPaid
	default:
		return entity.InvoiceStatusPartial
	}
}

// EffectiveInvoiceStatus reporta "overdue" para facturas enviadas o parciales cuyo vencimiento pasó.
func EffectiveInvoiceStatus(inv *entity.Invoice, now time.Time) string {
	if inv.Status != entity.InvoiceStatusSent && inv.Status != entity.InvoiceStatusPartial {
		return inv.Status
	}
	if !inv.DueDate.IsZero() && startOfDay(now).After(inv.DueDate) {
		return entity.InvoiceStatusOverdue
	}
	return inv.Status
}

// EffectiveQuoteStatus reporta "expired" para cotizaciones enviadas vencidas.
func EffectiveQuoteStatus(q *entity.Quote, now time.Time) string {
	if q.Status == entity.QuoteStatusSent && !q.ValidUntil.IsZero() && startOfDay(now).After(q.ValidUntil) {
		return entity.QuoteStatusExpired
	}
	return q.Status
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
