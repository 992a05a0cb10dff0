package billing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestFormatNumber_Consecutivo(t *testing.T) {
	s := &entity.NumberingSeries{Prefix: "FAC", Mode: entity.NumberingSequential}
	assert.Equal(t, "FAC-000042", billing.FormatNumber(s, 2026, 42))

	s.Padding = 3
	assert.Equal(t, "FAC-007", billing.FormatNumber(s, 2026, 7))
	assert.Equal(t, "FAC-1234", billing.FormatNumber(s, 2026, 1234), "el padding no trunca")
}

func TestFormatNumber_Anual(t *testing.T) {
	s := &entity.NumberingSeries{Prefix: "COT", Mode: entity.NumberingYearly}
	assert.Equal(t, "COT-2026-0042", billing.FormatNumber(s, 2026, 42))
}

func TestNextSeq_RespetaRango(t *testing.T) {
	s := &entity.NumberingSeries{Prefix: "FE", RangeFrom: 1000, RangeTo: 1001}

	n, err := billing.NextSeq(s, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), n, "arranca en RangeFrom")

	n, err = billing.NextSeq(s, 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1001), n)

	_, err = billing.NextSeq(s, 1001)
	assert.ErrorIs(t, err, domain.ErrSeriesExhausted)
}

func TestNextSeq_SinRango(t *testing.T) {
	n, err := billing.NextSeq(billing.DefaultSeries("c1", entity.DocumentInvoice), 41)
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestValidateSeries(t *testing.T) {
	ok := &entity.NumberingSeries{DocumentType: entity.DocumentInvoice, Prefix: "FAC", Mode: entity.NumberingYearly}
	assert.NoError(t, billing.ValidateSeries(ok))

	bad := *ok
	bad.Mode = "random"
	assert.ErrorIs(t, billing.ValidateSeries(&bad), domain.ErrInvalidInput)

	bad = *ok
	bad.RangeFrom, bad.RangeTo = 10, 5
	assert.ErrorIs(t, billing.ValidateSeries(&bad), domain.ErrInvalidInput)

	manual := &entity.NumberingSeries{DocumentType: entity.DocumentQuote, Mode: entity.NumberingManual}
	assert.NoError(t, billing.ValidateSeries(manual), "el modo manual no exige prefijo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Totales
// ──────────────────────────────────────────────────────────────────────────────

func TestComputeTotals(t *testing.T) {
	items := []entity.LineItem{
		{Description: "Consultoría", Quantity: d("10"), UnitPrice: d("80"), TaxRate: d("20")},
		{Description: "Licencia", Quantity: d("1"), UnitPrice: d("199.99"), TaxRate: d("0")},
	}
	tot, err := billing.ComputeTotals(items)
	require.NoError(t, err)

	assert.True(t, d("999.99").Equal(tot.Net), "net=%s", tot.Net)
	assert.True(t, d("160").Equal(tot.Tax), "tax=%s", tot.Tax)
	assert.True(t, d("1159.99").Equal(tot.Grand), "grand=%s", tot.Grand)
	assert.True(t, d("800").Equal(items[0].Subtotal), "rellena el subtotal de cada línea")
}

func TestComputeTotals_Invalidos(t *testing.T) {
	_, err := billing.ComputeTotals(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.ComputeTotals([]entity.LineItem{{Description: "x", Quantity: d("0"), UnitPrice: d("1")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = billing.ComputeTotals([]entity.LineItem{{Description: "x", Quantity: d("1"), UnitPrice: d("1"), TaxRate: d("150")}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados
// ──────────────────────────────────────────────────────────────────────────────

func TestTransicionesFactura(t *testing.T) {
	assert.True(t, billing.CanTransitionInvoice(entity.InvoiceStatusDraft, entity.InvoiceStatusSent))
	assert.True(t, billing.CanTransitionInvoice(entity.InvoiceStatusSent, entity.InvoiceStatusCancelled))
	assert.False(t, billing.CanTransitionInvoice(entity.InvoiceStatusSent, entity.InvoiceStatusPaid), "paid solo vía pagos")
	assert.False(t, billing.CanTransitionInvoice(entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled))
}

func TestTransicionesCotizacion(t *testing.T) {
	assert.True(t, billing.CanTransitionQuote(entity.QuoteStatusSent, entity.QuoteStatusAccepted))
	assert.False(t, billing.CanTransitionQuote(entity.QuoteStatusDraft, entity.QuoteStatusAccepted))
	assert.False(t, billing.CanTransitionQuote(entity.QuoteStatusConverted, entity.QuoteStatusSent))
}

func TestStatusAfterPayment(t *testing.T) {
	assert.Equal(t, entity.InvoiceStatusSent, billing.StatusAfterPayment(d("100"), d("0")))
	assert.Equal(t, entity.InvoiceStatusPartial, billing.StatusAfterPayment(d("100"), d("40")))
	assert.Equal(t, entity.InvoiceStatusPaid, billing.StatusAfterPayment(d("100"), d("100")))
}

func TestEffectiveInvoiceStatus_Vencida(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	inv := &entity.Invoice{Status: entity.InvoiceStatusSent, DueDate: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, entity.InvoiceStatusOverdue, billing.EffectiveInvoiceStatus(inv, now))

	inv.DueDate = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.InvoiceStatusSent, billing.EffectiveInvoiceStatus(inv, now), "vence hoy: aún no está vencida")

	inv.Status = entity.InvoiceStatusPaid
	inv.DueDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, entity.InvoiceStatusPaid, billing.EffectiveInvoiceStatus(inv, now))
}

func TestEffectiveQuoteStatus_Expirada(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	q := &entity.Quote{Status: entity.QuoteStatusSent, ValidUntil: now.AddDate(0, 0, -1)}
	assert.Equal(t, entity.QuoteStatusExpired, billing.EffectiveQuoteStatus(q, now))
}
