//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/internal/infrastructure/postgres"
)

var pool *pgxpool.Pool

// TestMain levanta un PostgreSQL efímero, aplica las migraciones y comparte el pool entre los tests.
func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("crm"),
		tcpostgres.WithUsername("test_crm"),
		tcpostgres.WithPassword("test_crm"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Error().Err(err).Msg("no se pudo iniciar el contenedor postgres")
		os.Exit(1)
	}
	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatal().Err(err).Msg("connection string")
	}
	if err := postgres.Migrate(dsn); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	// Idempotente: una segunda pasada no falla.
	if err := postgres.Migrate(dsn); err != nil {
		log.Fatal().Err(err).Msg("migraciones (segunda pasada)")
	}
	pool, err = postgres.NewPoolFromDSN(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("pool")
	}

	code := m.Run()
	pool.Close()
	if err := testcontainers.TerminateContainer(container); err != nil {
		log.Error().Err(err).Msg("no se pudo detener el contenedor postgres")
	}
	os.Exit(code)
}

func newCompany(t *testing.T) string {
	t.Helper()
	now := time.Now()
	c := &entity.Company{
		ID:        uuid.New().String(),
		Name:      "Durand SA",
		TaxID:     "FR-" + uuid.New().String()[:8],
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, postgres.NewCompanyRepository(pool).Create(context.Background(), c))
	return c.ID
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestCompanyRepo_TaxIDDuplicado(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewCompanyRepository(pool)
	id := newCompany(t)
	c, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, c)

	dup := *c
	dup.ID = uuid.New().String()
	assert.ErrorIs(t, repo.Create(ctx, &dup), domain.ErrDuplicate)

	missing, err := repo.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCompanyRepo_Modulos(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewCompanyRepository(pool)
	id := newCompany(t)
	now := time.Now()
	require.NoError(t, repo.ActivateModule(ctx, &entity.CompanyModule{
		ID: uuid.New().String(), CompanyID: id, ModuleName: entity.ModuleCRM, IsActive: true,
		ActivatedAt: now, CreatedAt: now, UpdatedAt: now,
	}))

	ok, err := repo.HasActiveModule(ctx, id, entity.ModuleCRM)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.HasActiveModule(ctx, id, entity.ModuleBilling)
	require.NoError(t, err)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contactos
// ──────────────────────────────────────────────────────────────────────────────

func TestContactRepo_FiltrosYBorradoMasivo(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	uc := crm.NewContactUseCase(postgres.NewContactRepository(pool), postgres.NewTxRunner(pool))

	a, err := uc.Create(ctx, companyID, dto.CreateContactRequest{FirstName: "Jean", LastName: "Dupont", Email: "jean@durand.fr", Tags: []string{"vip"}})
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, dto.CreateContactRequest{FirstName: "Marie", LastName: "Curie", Email: "marie@petit.fr", Status: "customer"})
	require.NoError(t, err)
	b, err := uc.Create(ctx, companyID, dto.CreateContactRequest{FirstName: "Jean", LastName: "Dupont", Email: "jean@durand.fr"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), a.Number)
	assert.Equal(t, int64(3), b.Number)

	repo := postgres.NewContactRepository(pool)
	list, total, err := repo.List(ctx, companyID, repository.ContactFilter{Tag: "vip"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"vip"}, list[0].Tags)

	_, total, err = repo.List(ctx, companyID, repository.ContactFilter{Search: "curie", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	report, err := uc.RemoveDuplicates(ctx, companyID, false)
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.Removed)

	all, err := repo.ListAll(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, a.ID, all[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Facturación
// ──────────────────────────────────────────────────────────────────────────────

func newBilling() (*billing.InvoiceUseCase, *billing.PaymentUseCase) {
	tx := postgres.NewTxRunner(pool)
	numbering := billing.NewNumberingService(postgres.NewNumberingSeriesRepository(pool), tx)
	invoices := billing.NewInvoiceUseCase(postgres.NewInvoiceRepository(pool), tx, numbering, 30)
	payments := billing.NewPaymentUseCase(postgres.NewPaymentRepository(pool), postgres.NewInvoiceRepository(pool), tx)
	return invoices, payments
}

func invoiceRequest(client string, amount int64) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		ClientName: client,
		IssueDate:  "2026-05-02",
		DueDate:    "2099-12-31",
		Items: []dto.LineItemRequest{{
			Description: "Conseil",
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   decimal.NewFromInt(amount),
			TaxRate:     decimal.Zero,
		}},
	}
}

func TestInvoiceUseCase_NumeracionConcurrente(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	invoices, _ := newBilling()

	const n = 8
	numbers := make([]string, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			inv, err := invoices.Create(ctx, companyID, invoiceRequest(fmt.Sprintf("Client %d", i), 100))
			if err != nil {
				return err
			}
			numbers[i] = inv.Number
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[string]bool{}
	for _, num := range numbers {
		assert.False(t, seen[num], "número repetido %s", num)
		seen[num] = true
	}
	assert.True(t, seen["FAC-000001"])
	assert.True(t, seen[fmt.Sprintf("FAC-%06d", n)])
}

func TestPaymentUseCase_PagoActualizaFactura(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	invoices, payments := newBilling()

	inv, err := invoices.Create(ctx, companyID, invoiceRequest("Durand SA", 500))
	require.NoError(t, err)
	_, err = invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)

	p, err := payments.Record(ctx, companyID, dto.RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: decimal.NewFromInt(200), Method: entity.PaymentMethodTransfer, Date: "2026-05-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.Number)

	got, err := invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartial, got.Status)
	assert.True(t, decimal.NewFromInt(300).Equal(got.Outstanding))

	_, err = payments.Record(ctx, companyID, dto.RecordPaymentRequest{
		InvoiceID: inv.ID, Amount: decimal.NewFromInt(301), Method: entity.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestPaymentUseCase_PagosConcurrentesNoSobrepasanElTotal(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	invoices, payments := newBilling()

	inv, err := invoices.Create(ctx, companyID, invoiceRequest("Bernard SARL", 100))
	require.NoError(t, err)
	_, err = invoices.UpdateStatus(ctx, companyID, inv.ID, entity.InvoiceStatusSent)
	require.NoError(t, err)

	const n = 4
	errs := make([]error, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			_, errs[i] = payments.Record(ctx, companyID, dto.RecordPaymentRequest{
				InvoiceID: inv.ID, Amount: decimal.NewFromInt(100), Method: entity.PaymentMethodTransfer,
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, ok, "solo un pago cabe en el saldo")

	got, err := invoices.Get(ctx, companyID, inv.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(got.AmountPaid))
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)

	list, err := payments.List(ctx, companyID, dto.PaymentListRequest{InvoiceID: inv.ID})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
}

func TestInvoiceUseCase_SerieNuevaConPrefijoUsado(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	invoices, _ := newBilling()
	tx := postgres.NewTxRunner(pool)
	numbering := billing.NewNumberingService(postgres.NewNumberingSeriesRepository(pool), tx)

	first, err := invoices.Create(ctx, companyID, invoiceRequest("Martin", 100))
	require.NoError(t, err)
	require.Equal(t, "FAC-000001", first.Number)

	_, err = numbering.Create(ctx, companyID, dto.NumberingSeriesRequest{DocumentType: entity.DocumentInvoice, Prefix: "FAC"})
	require.NoError(t, err)

	next, err := invoices.Create(ctx, companyID, invoiceRequest("Martin", 100))
	require.NoError(t, err)
	assert.Equal(t, "FAC-000002", next.Number)
}

// ──────────────────────────────────────────────────────────────────────────────
// Contabilidad y tablero
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactionRepo_ResumenYTablero(t *testing.T) {
	ctx := context.Background()
	companyID := newCompany(t)
	uc := accounting.NewTransactionUseCase(postgres.NewTransactionRepository(pool), postgres.NewPaymentRepository(pool),
		postgres.NewTxRunner(pool), 0)

	for _, in := range []dto.TransactionRequest{
		{Date: "2026-05-02", Description: "Cobro", Category: "ventas", Type: "income", Amount: decimal.RequireFromString("150.50")},
		{Date: "2026-05-03", Description: "Hosting", Category: "it", Type: "expense", Amount: decimal.NewFromInt(40)},
		{Date: "2026-04-28", Description: "Fuera de rango", Type: "income", Amount: decimal.NewFromInt(999)},
	} {
		_, err := uc.Create(ctx, companyID, in)
		require.NoError(t, err)
	}

	sum, err := uc.Summary(ctx, companyID, "2026-05-01", "2026-05-31")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.50").Equal(sum.Income))
	assert.True(t, decimal.NewFromInt(40).Equal(sum.Expense))

	dash := postgres.NewDashboardRepository(pool)
	income, expense, err := dash.TransactionTotals(ctx, companyID, day("2026-05-01"), day("2026-06-01"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.50").Equal(income))
	assert.True(t, decimal.NewFromInt(40).Equal(expense))

	counts, err := dash.ContactsByStatus(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
