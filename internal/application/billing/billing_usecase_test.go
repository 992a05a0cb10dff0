package billing_test

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/internal/infrastructure/memory"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

const companyID = "22222222-2222-2222-2222-222222222222"

type fixture struct {
	store     *memory.Store
	numbering *billing.NumberingService
	invoices  *billing.InvoiceUseCase
	quotes    *billing.QuoteUseCase
	payments  *billing.PaymentUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	repos := store.Repos()
	numbering := billing.NewNumberingService(repos.Series, store)
	invoices := billing.NewInvoiceUseCase(repos.Invoices, store, numbering, 15)
	return &fixture{
		store:     store,
		numbering: numbering,
		invoices:  invoices,
		quotes:    billing.NewQuoteUseCase(repos.Quotes, store, numbering, invoices),
		payments:  billing.NewPaymentUseCase(repos.Payments, repos.Invoices, store),
	}
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func items() []dto.LineItemRequest {
	return []dto.LineItemRequest{
		{Description: "Consultoría", Quantity: d("10"), UnitPrice: d("80"), TaxRate: d("20")},
		{Description: "Formación", Quantity: d("1"), UnitPrice: d("200"), TaxRate: d("0")},
	}
}

func (f *fixture) sentInvoice(t *testing.T) *dto.InvoiceResponse {
	t.Helper()
	inv, err := f.invoices.Create(context.Background(), companyID, dto.CreateInvoiceRequest{ClientName: "ACME", Items: items()})
	require.NoError(t, err)
	inv, err = f.invoices.UpdateStatus(context.Background(), companyID, inv.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	return inv
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturas y numeración
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceCreate_SerieYTotalesPorDefecto(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "ACME", IssueDate: "2026-03-01", Items: items()})
	require.NoError(t, err)
	b, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "ACME", IssueDate: "2026-03-02", Items: items()})
	require.NoError(t, err)

	assert.Equal(t, "FAC-000001", a.Number)
	assert.Equal(t, "FAC-000002", b.Number)
	assert.Equal(t, "2026-03-16", a.DueDate, "emisión + 15 días")
	assert.True(t, d("1000").Equal(a.NetTotal))
	assert.True(t, d("160").Equal(a.TaxTotal))
	assert.True(t, d("1160").Equal(a.GrandTotal))
	assert.Equal(t, entity.InvoiceStatusDraft, a.Status)
}

func TestInvoiceCreate_SerieAnualReiniciaCadaAño(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Prefix: "F", Mode: "yearly"})
	require.NoError(t, err)

	a, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", IssueDate: "2025-12-31", Items: items()})
	require.NoError(t, err)
	b, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", IssueDate: "2026-01-01", Items: items()})
	require.NoError(t, err)

	assert.Equal(t, "F-2025-0001", a.Number)
	assert.Equal(t, "F-2026-0001", b.Number)
}

func TestInvoiceCreate_SerieManual(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Mode: "manual"})
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Items: items()})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin número")

	_, err = f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Number: "A-1", Items: items()})
	require.NoError(t, err)
	_, err = f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Number: "A-1", Items: items()})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestInvoiceCreate_RangoAgotado(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Prefix: "R", RangeFrom: 1, RangeTo: 1})
	require.NoError(t, err)

	_, err = f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Items: items()})
	require.NoError(t, err)
	_, err = f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Items: items()})
	assert.ErrorIs(t, err, domain.ErrSeriesExhausted)
}

func TestInvoiceCreate_SerieNuevaConMismoPrefijoSaltaNumerosEmitidos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "ACME", Items: items()})
	require.NoError(t, err)
	require.Equal(t, "FAC-000001", first.Number)

	_, err = f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Prefix: "FAC", Mode: "sequential"})
	require.NoError(t, err)

	seen := map[string]bool{first.Number: true}
	for i := 0; i < 3; i++ {
		inv, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "ACME", Items: items()})
		require.NoError(t, err)
		assert.False(t, seen[inv.Number], "número repetido %s", inv.Number)
		seen[inv.Number] = true
	}
	assert.True(t, seen["FAC-000002"])
	assert.True(t, seen["FAC-000004"])
}

func TestInvoiceCreate_ConcurrenciaSinNumerosRepetidos(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	numbers := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inv, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Items: items()})
			if assert.NoError(t, err) {
				numbers <- inv.Number
			}
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[string]bool{}
	for num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.Len(t, seen, n)
}

func TestNumberingSeries_UnaActivaPorTipo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Prefix: "A"})
	require.NoError(t, err)
	_, err = f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Prefix: "B"})
	require.NoError(t, err)

	list, err := f.numbering.List(ctx, companyID)
	require.NoError(t, err)
	active := 0
	for _, s := range list {
		if s.IsActive {
			active++
			assert.Equal(t, "B", s.Prefix)
			assert.Equal(t, "B-000001", s.Example)
		}
	}
	assert.Equal(t, 1, active)
}

func TestInvoiceStatus_Transiciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.sentInvoice(t)

	_, err := f.invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusPaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	err = f.invoices.Delete(ctx, companyID, inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "solo borradores")

	out, err := f.invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusCancelled, out.Status)
}

func TestInvoiceList_FiltroVencidas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	past := time.Now().AddDate(0, 0, -40).Format(dto.DateLayout)

	old, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "Viejo", IssueDate: past, Items: items()})
	require.NoError(t, err)
	_, err = f.invoices.UpdateStatus(ctx, companyID, old.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	f.sentInvoice(t)

	out, err := f.invoices.List(ctx, companyID, dto.DocumentListRequest{Status: entity.InvoiceStatusOverdue})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, old.ID, out.Items[0].ID)
	assert.Equal(t, entity.InvoiceStatusOverdue, out.Items[0].Status)
}

func TestInvoiceExport_RFC4180(t *testing.T) {
	f := newFixture()
	_, err := f.invoices.Create(context.Background(), companyID, dto.CreateInvoiceRequest{ClientName: "Dupont, SARL", IssueDate: "2026-01-10", DueDate: "2026-02-10", Items: items()})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.invoices.Export(context.Background(), companyID, &buf, csvcodec.FormatRFC4180))

	assert.Equal(t,
		"number,client,client_email,issue_date,due_date,net_total,tax_total,grand_total,amount_paid,status\n"+
			`FAC-000001,"Dupont, SARL",,2026-01-10,2026-02-10,1000.00,160.00,1160.00,0.00,draft`+"\n",
		buf.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// Cotizaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestConvertToInvoice_SoloAceptadasYUnaVez(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	q, err := f.quotes.Create(ctx, companyID, dto.CreateQuoteRequest{ClientName: "ACME", Items: items()})
	require.NoError(t, err)
	assert.Equal(t, "COT-000001", q.Number)

	_, err = f.quotes.ConvertToInvoice(ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "borrador")

	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusSent)
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusAccepted)
	require.NoError(t, err)

	out, err := f.quotes.ConvertToInvoice(ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusConverted, out.Quote.Status)
	assert.Equal(t, out.Invoice.ID, out.Quote.InvoiceID)
	assert.Equal(t, q.ID, out.Invoice.QuoteID)
	assert.Equal(t, "FAC-000001", out.Invoice.Number)
	assert.True(t, q.GrandTotal.Equal(out.Invoice.GrandTotal))
	require.Len(t, out.Invoice.Items, 2)

	_, err = f.quotes.ConvertToInvoice(ctx, companyID, q.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.ErrorIs(t, f.quotes.Delete(ctx, companyID, q.ID), domain.ErrConflict)
}

func TestConvertToInvoice_RollbackSiFallaLaNumeracion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: "invoice", Mode: "manual"})
	require.NoError(t, err)

	q, err := f.quotes.Create(ctx, companyID, dto.CreateQuoteRequest{ClientName: "ACME", Items: items()})
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusSent)
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusAccepted)
	require.NoError(t, err)

	_, err = f.quotes.ConvertToInvoice(ctx, companyID, q.ID)
	require.Error(t, err)

	again, err := f.quotes.Get(ctx, companyID, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusAccepted, again.Status)
	assert.Empty(t, again.InvoiceID)
}

func TestQuoteStatus_VencidaNoSeAcepta(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	issue := time.Now().AddDate(0, 0, -20)
	q, err := f.quotes.Create(ctx, companyID, dto.CreateQuoteRequest{
		ClientName: "ACME", Items: items(),
		IssueDate:  issue.Format(dto.DateLayout),
		ValidUntil: issue.AddDate(0, 0, 5).Format(dto.DateLayout),
	})
	require.NoError(t, err)
	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusSent)
	require.NoError(t, err)

	_, err = f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusAccepted)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	resent, err := f.quotes.UpdateStatus(ctx, companyID, q.ID, entity.QuoteStatusSent)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteStatusSent, resent.Status, "reenviar extiende la vigencia")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestPayment_ParcialTotalYSobrepago(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.sentInvoice(t)

	p1, err := f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("160"), Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p1.Number)
	assert.Equal(t, inv.Number, p1.InvoiceNumber)

	got, err := f.invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartial, got.Status)
	assert.True(t, d("1000").Equal(got.Outstanding))

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("1000.01"), Method: "card"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("1000"), Method: "card"})
	require.NoError(t, err)
	got, err = f.invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
}

// lockRecorder anota los bloqueos que toma cada transacción, en orden.
type lockRecorder struct {
	store  *memory.Store
	mu     sync.Mutex
	scopes []string
}

func (r *lockRecorder) LockSequence(_ context.Context, _, scope string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scopes = append(r.scopes, scope)
	return nil
}

func (r *lockRecorder) RunInTx(ctx context.Context, fn func(repository.Repos) error) error {
	return r.store.RunInTx(ctx, func(repos repository.Repos) error {
		repos.Locker = r
		return fn(repos)
	})
}

func (r *lockRecorder) take() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.scopes
	r.scopes = nil
	return out
}

func TestPayment_BloqueaLaFacturaAntesDeLeerla(t *testing.T) {
	store := memory.NewStore()
	repos := store.Repos()
	rec := &lockRecorder{store: store}
	numbering := billing.NewNumberingService(repos.Series, rec)
	invoices := billing.NewInvoiceUseCase(repos.Invoices, rec, numbering, 15)
	payments := billing.NewPaymentUseCase(repos.Payments, repos.Invoices, rec)
	ctx := context.Background()

	inv, err := invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "ACME", Items: items()})
	require.NoError(t, err)
	rec.take()

	_, err = invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice:" + inv.ID}, rec.take())

	p, err := payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("100"), Method: "cash"})
	require.NoError(t, err)
	assert.Equal(t, []string{"invoice:" + inv.ID, "payments"}, rec.take())

	_, err = payments.Refund(ctx, companyID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"payment:" + p.ID, "invoice:" + inv.ID}, rec.take())

	got, err := invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.True(t, got.AmountPaid.IsZero())
	assert.Equal(t, entity.InvoiceStatusSent, got.Status)
}

func TestPayment_AnulacionNoPierdePagosConcurrentes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.sentInvoice(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("100"), Method: "cash"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusCancelled)
	require.NoError(t, err)
	assert.True(t, d("500").Equal(got.AmountPaid), "anular conserva lo pagado")
}

func TestPayment_ValidaEntrada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft, err := f.invoices.Create(ctx, companyID, dto.CreateInvoiceRequest{ClientName: "X", Items: items()})
	require.NoError(t, err)

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: draft.ID, Amount: d("10"), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrConflict, "borrador")

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: draft.ID, Amount: d("-1"), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: draft.ID, Amount: d("1"), Method: "bitcoin"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: "nope", Amount: d("1"), Method: "cash"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayment_ReembolsoRestauraSaldo(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.sentInvoice(t)
	p, err := f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("1160"), Method: "check"})
	require.NoError(t, err)

	refunded, err := f.payments.Refund(ctx, companyID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusRefunded, refunded.Status)

	got, err := f.invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusSent, got.Status)
	assert.True(t, got.AmountPaid.IsZero())

	_, err = f.payments.Refund(ctx, companyID, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPaymentExport_Legacy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inv := f.sentInvoice(t)
	_, err := f.payments.Record(ctx, companyID, dto.RecordPaymentRequest{InvoiceID: inv.ID, Amount: d("100"), Method: "cash", Date: "2026-04-01", Reference: "R1"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.payments.Export(ctx, companyID, &buf, csvcodec.FormatLegacy))
	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"1","FAC-000001","100.00","cash","2026-04-01","R1","completed"`, lines[1])
}

func TestQRPayload(t *testing.T) {
	issue := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "FAC-000042|2026-05-04|1160.00", billing.QRPayload("FAC-000042", issue, "1160.00"))
}
