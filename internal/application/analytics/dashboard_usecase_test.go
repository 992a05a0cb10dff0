package analytics_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/internal/infrastructure/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const companyID = "44444444-4444-4444-4444-444444444444"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var clock = func() time.Time { return time.Date(2026, 5, 15, 10, 30, 0, 0, time.UTC) }

func seed(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	ctx := context.Background()

	for i, status := range []string{entity.ContactStatusLead, entity.ContactStatusLead, entity.ContactStatusCustomer} {
		require.NoError(t, repos.Contacts.Create(ctx, &entity.Contact{
			ID: uuid.New().String(), CompanyID: companyID, Number: int64(i + 1),
			FirstName: "Claire", LastName: "Martin", Email: "c" + strconv.Itoa(i) + "@example.fr", Status: status,
		}))
	}

	invoices := []*entity.Invoice{
		// vencida, con abono
		{ClientName: "Durand SA", IssueDate: day("2026-03-01"), DueDate: day("2026-04-01"), GrandTotal: d("1000"), AmountPaid: d("200"), Status: entity.InvoiceStatusPartial},
		// al día
		{ClientName: "Durand SA", IssueDate: day("2026-05-01"), DueDate: day("2026-06-01"), GrandTotal: d("500"), AmountPaid: d("0"), Status: entity.InvoiceStatusSent},
		{ClientName: "Petit SARL", IssueDate: day("2026-05-02"), DueDate: day("2026-06-02"), GrandTotal: d("300"), AmountPaid: d("300"), Status: entity.InvoiceStatusPaid},
		// fuera de cartera y del top
		{ClientName: "Borrador SAS", IssueDate: day("2026-05-03"), DueDate: day("2026-06-03"), GrandTotal: d("9999"), AmountPaid: d("0"), Status: entity.InvoiceStatusDraft},
	}
	for i, inv := range invoices {
		inv.ID = uuid.New().String()
		inv.CompanyID = companyID
		inv.Seq = int64(i + 1)
		inv.Number = "FAC-" + strconv.Itoa(i+1)
		require.NoError(t, repos.Invoices.Create(ctx, inv))
	}

	payments := []*entity.Payment{
		{Amount: d("200"), Date: day("2026-04-20"), Status: entity.PaymentStatusCompleted},
		{Amount: d("300"), Date: day("2026-05-10"), Status: entity.PaymentStatusCompleted},
		{Amount: d("50"), Date: day("2026-05-11"), Status: entity.PaymentStatusRefunded},
	}
	for i, p := range payments {
		p.ID = uuid.New().String()
		p.CompanyID = companyID
		p.Number = int64(i + 1)
		p.Method = entity.PaymentMethodTransfer
		require.NoError(t, repos.Payments.Create(ctx, p))
	}

	txs := []*entity.Transaction{
		{Date: day("2026-05-01"), Type: entity.TransactionIncome, Amount: d("300")},
		{Date: day("2026-05-15"), Type: entity.TransactionExpense, Amount: d("120.40")},
		{Date: day("2026-04-30"), Type: entity.TransactionExpense, Amount: d("999")},
	}
	for i, tx := range txs {
		tx.ID = uuid.New().String()
		tx.CompanyID = companyID
		tx.Number = int64(i + 1)
		tx.Description = "mov"
		tx.Category = "general"
		tx.Status = entity.TransactionPending
		require.NoError(t, repos.Transactions.Create(ctx, tx))
	}

	for i, status := range []string{entity.QuoteStatusConverted, entity.QuoteStatusAccepted, entity.QuoteStatusRejected, entity.QuoteStatusDraft} {
		require.NoError(t, repos.Quotes.Create(ctx, &entity.Quote{
			ID: uuid.New().String(), CompanyID: companyID, Seq: int64(i + 1), Number: "COT-" + strconv.Itoa(i+1),
			ClientName: "Durand SA", IssueDate: day("2026-05-01"), ValidUntil: day("2026-05-31"), Status: status,
		}))
	}
	return store
}

// ──────────────────────────────────────────────────────────────────────────────
// GetSummary
// ──────────────────────────────────────────────────────────────────────────────

func TestGetSummary_AgregaElMesEnCurso(t *testing.T) {
	store := seed(t)
	uc := analytics.NewDashboardUseCase(store.Dashboard()).WithClock(clock)

	out, err := uc.GetSummary(context.Background(), companyID)
	require.NoError(t, err)

	assert.Equal(t, 3, out.TotalContacts)
	assert.Equal(t, 2, out.ContactsByStatus[entity.ContactStatusLead])

	assert.True(t, d("1300").Equal(out.Outstanding), out.Outstanding.String())
	assert.Equal(t, 1, out.OverdueCount)
	assert.True(t, d("800").Equal(out.OverdueAmount), out.OverdueAmount.String())

	assert.True(t, d("300").Equal(out.MonthlyRevenue), "solo pagos completados del mes")
	assert.True(t, d("300").Equal(out.MonthlyIncome))
	assert.True(t, d("120.40").Equal(out.MonthlyExpense), "el día de hoy cuenta")

	assert.True(t, d("66.67").Equal(out.QuoteConversionRate), out.QuoteConversionRate.String())

	require.Len(t, out.TopClients, 2)
	assert.Equal(t, "Durand SA", out.TopClients[0].ClientName)
	assert.Equal(t, 2, out.TopClients[0].InvoiceCount)
	assert.Equal(t, "Petit SARL", out.TopClients[1].ClientName)

	assert.Equal(t, "Mayo 2026", out.DateLabel)
}

func TestGetSummary_EmpresaVacia(t *testing.T) {
	uc := analytics.NewDashboardUseCase(memory.NewStore().Dashboard()).WithClock(clock)

	out, err := uc.GetSummary(context.Background(), companyID)
	require.NoError(t, err)
	assert.Zero(t, out.TotalContacts)
	assert.True(t, out.Outstanding.IsZero())
	assert.True(t, out.QuoteConversionRate.IsZero())
	assert.Empty(t, out.TopClients)
}

// failingRepo envuelve el repositorio en memoria y falla en TopClients.
type failingRepo struct {
	repository.DashboardRepository
}

var errBoom = errors.New("boom")

func (failingRepo) TopClients(context.Context, string, int) ([]repository.ClientTotal, error) {
	return nil, errBoom
}

func TestGetSummary_PropagaErrores(t *testing.T) {
	uc := analytics.NewDashboardUseCase(failingRepo{memory.NewStore().Dashboard()})

	_, err := uc.GetSummary(context.Background(), companyID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "top clientes")
}

func TestConversionRate(t *testing.T) {
	assert.True(t, analytics.ConversionRate(nil).IsZero())
	assert.True(t, d("100").Equal(analytics.ConversionRate(map[string]int{entity.QuoteStatusConverted: 2})))
	assert.True(t, d("25").Equal(analytics.ConversionRate(map[string]int{
		entity.QuoteStatusAccepted: 1, entity.QuoteStatusExpired: 3, entity.QuoteStatusDraft: 7,
	})))
}
