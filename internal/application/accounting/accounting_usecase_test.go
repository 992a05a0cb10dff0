package accounting_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/infrastructure/memory"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

const companyID = "33333333-3333-3333-3333-333333333333"

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUseCase() (*accounting.TransactionUseCase, *memory.Store) {
	store := memory.NewStore()
	repos := store.Repos()
	return accounting.NewTransactionUseCase(repos.Transactions, repos.Payments, store, 0), store
}

func addPayment(t *testing.T, store *memory.Store, number int64, amount, date, ref string) *entity.Payment {
	t.Helper()
	day, err := time.Parse(dto.DateLayout, date)
	require.NoError(t, err)
	p := &entity.Payment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Number:    number,
		InvoiceID: uuid.New().String(),
		Amount:    d(amount),
		Method:    entity.PaymentMethodTransfer,
		Date:      day,
		Reference: ref,
		Status:    entity.PaymentStatusCompleted,
	}
	require.NoError(t, store.Repos().Payments.Create(context.Background(), p))
	return p
}

func income(date, amount, ref string) dto.TransactionRequest {
	return dto.TransactionRequest{
		Date: date, Description: "Transferencia recibida", Type: entity.TransactionIncome,
		Amount: d(amount), Reference: ref,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CRUD y resumen
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactionCreate_NumeraYValida(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()

	a, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)
	b, err := uc.Create(ctx, companyID, dto.TransactionRequest{
		Date: "2026-05-03", Description: "Alquiler", Category: "oficina", Type: entity.TransactionExpense, Amount: d("40"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.Number)
	assert.Equal(t, int64(2), b.Number)
	assert.Equal(t, accounting.DefaultCategory, a.Category)
	assert.Equal(t, entity.TransactionPending, a.Status)

	cases := []dto.TransactionRequest{
		{Date: "2026-05-02", Description: "x", Type: "transfer", Amount: d("1")},
		{Date: "2026-05-02", Description: "x", Type: entity.TransactionIncome, Amount: d("0")},
		{Date: "2026-05-02", Description: "", Type: entity.TransactionIncome, Amount: d("1")},
		{Date: "", Description: "x", Type: entity.TransactionIncome, Amount: d("1")},
		{Date: "2026-05-02", Description: "x", Type: entity.TransactionIncome, Amount: d("1"), Status: entity.TransactionReconciled},
	}
	for _, in := range cases {
		_, err := uc.Create(ctx, companyID, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestTransactionGet_OtraEmpresa(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	tx, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)

	_, err = uc.Get(ctx, "otra-empresa", tx.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionSummary_IngresosGastosYNeto(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, income("2026-05-20", "50.50", ""))
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, dto.TransactionRequest{
		Date: "2026-05-10", Description: "Alquiler", Category: "oficina", Type: entity.TransactionExpense, Amount: d("40"),
	})
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, income("2026-06-01", "999", ""))
	require.NoError(t, err)

	sum, err := uc.Summary(ctx, companyID, "2026-05-01", "2026-05-31")
	require.NoError(t, err)
	assert.True(t, d("150.50").Equal(sum.Income), sum.Income.String())
	assert.True(t, d("40").Equal(sum.Expense), sum.Expense.String())
	assert.True(t, d("110.50").Equal(sum.Net), sum.Net.String())
	assert.Len(t, sum.Categories, 2)

	_, err = uc.Summary(ctx, companyID, "2026-05-31", "2026-05-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestTransactionImport_RFC4180RechazaFilasInvalidas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	in := strings.Join([]string{
		"number,date,description,category,type,amount,status,reference",
		",2026-05-02,Cobro FAC-1,ventas,income,120.00,cleared,FAC-1",
		",02/05/2026,Fecha mala,ventas,income,10,,",
		",2026-05-03,Monto malo,ventas,income,abc,,",
		",2026-05-04,Tipo malo,ventas,transfer,10,,",
		",2026-05-05,Papelería,,expense,15.30,,",
		",2026-05-06,Monto cero,ventas,income,0,,",
	}, "\n")

	res, err := uc.Import(ctx, companyID, strings.NewReader(in), dto.ImportOptions{Format: "rfc4180"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	require.Len(t, res.Rejected, 4)
	assert.Equal(t, 3, res.Rejected[0].Line)
	assert.Equal(t, 4, res.Rejected[1].Line)
	assert.Equal(t, 5, res.Rejected[2].Line)
	assert.Equal(t, 7, res.Rejected[3].Line)
	assert.Contains(t, res.Rejected[3].Reason, "mayor que cero")

	list, err := uc.List(ctx, companyID, dto.TransactionListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, 2, list.Page.Total)
}

func TestTransactionImport_CharsetDesconocidoEsEntradaInvalida(t *testing.T) {
	uc, _ := newUseCase()
	in := "number,date,description,category,type,amount,status,reference\n"

	_, err := uc.Import(context.Background(), companyID, strings.NewReader(in), dto.ImportOptions{Charset: "ebcdic"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, err, csvcodec.ErrUnknownFormat)
	assert.NotErrorIs(t, err, domain.ErrUnsupportedFileFormat)
}

func TestTransactionImport_LegacyToleraCeldas(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	in := "number,date,description,category,type,amount,status,reference\n" +
		"7,fecha,Sin fecha,,raro,-25\n"

	res, err := uc.Import(ctx, companyID, strings.NewReader(in), dto.ImportOptions{Format: "legacy"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Empty(t, res.Rejected)

	list, err := uc.List(ctx, companyID, dto.TransactionListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	tx := list.Items[0]
	assert.Equal(t, int64(1), tx.Number, "el número del archivo se ignora")
	assert.Equal(t, entity.TransactionIncome, tx.Type)
	assert.True(t, d("25").Equal(tx.Amount))
	assert.Empty(t, tx.Date, "fecha ilegible queda en cero")
	assert.Equal(t, entity.TransactionPending, tx.Status)
}

func TestTransactionExport_RFC4180(t *testing.T) {
	uc, _ := newUseCase()
	ctx := context.Background()
	_, err := uc.Create(ctx, companyID, dto.TransactionRequest{
		Date: "2026-05-02", Description: "Cobro, parcial", Category: "ventas", Type: entity.TransactionIncome, Amount: d("12.5"),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(ctx, companyID, &buf, csvcodec.FormatRFC4180))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "number,date,description,category,type,amount,status,reference", lines[0])
	assert.Equal(t, `1,2026-05-02,"Cobro, parcial",ventas,income,12.50,pending,`, lines[1])
}

// ──────────────────────────────────────────────────────────────────────────────
// Conciliación
// ──────────────────────────────────────────────────────────────────────────────

func TestSuggest_ProponeParesSinModificar(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	tx1, err := uc.Create(ctx, companyID, income("2026-05-02", "100", "VIR FAC-000001"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, income("2026-05-20", "77", ""))
	require.NoError(t, err)
	p1 := addPayment(t, store, 1, "100", "2026-05-01", "FAC-000001")
	addPayment(t, store, 2, "300", "2026-05-01", "")

	res, err := uc.Suggest(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, res.Pairs, 1)
	assert.Equal(t, tx1.ID, res.Pairs[0].Transaction.ID)
	assert.Equal(t, p1.ID, res.Pairs[0].Payment.ID)
	assert.True(t, res.Pairs[0].ByReference)
	assert.Len(t, res.UnmatchedTransactions, 1)
	assert.Len(t, res.UnmatchedPayments, 1)

	got, err := uc.Get(ctx, companyID, tx1.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionPending, got.Status, "sugerir no modifica")
}

func TestReconcile_MarcaAmbosLados(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	tx, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)
	p := addPayment(t, store, 1, "100", "2026-05-02", "")

	pair, err := uc.Reconcile(ctx, companyID, tx.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionReconciled, pair.Transaction.Status)
	assert.Equal(t, p.ID, pair.Transaction.PaymentID)

	stored, err := store.Repos().Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Reconciled)

	_, err = uc.Reconcile(ctx, companyID, tx.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// un movimiento conciliado no se edita ni se borra
	_, err = uc.Update(ctx, companyID, tx.ID, income("2026-05-02", "90", ""))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, companyID, tx.ID), domain.ErrConflict)

	res, err := uc.Suggest(ctx, companyID)
	require.NoError(t, err)
	assert.Empty(t, res.Pairs)
	assert.Empty(t, res.UnmatchedPayments)
}

func TestReconcile_MontosDistintos(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	tx, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)
	p := addPayment(t, store, 1, "99.99", "2026-05-02", "")

	_, err = uc.Reconcile(ctx, companyID, tx.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := uc.Get(ctx, companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionPending, got.Status)
	stored, err := store.Repos().Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Reconciled)
}

func TestReconcile_GastoNoConcilia(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	tx, err := uc.Create(ctx, companyID, dto.TransactionRequest{
		Date: "2026-05-02", Description: "Compra", Type: entity.TransactionExpense, Amount: d("100"),
	})
	require.NoError(t, err)
	p := addPayment(t, store, 1, "100", "2026-05-02", "")

	_, err = uc.Reconcile(ctx, companyID, tx.ID, p.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = uc.Reconcile(ctx, companyID, tx.ID, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUnreconcile_LiberaElPago(t *testing.T) {
	uc, store := newUseCase()
	ctx := context.Background()
	tx, err := uc.Create(ctx, companyID, income("2026-05-02", "100", ""))
	require.NoError(t, err)
	p := addPayment(t, store, 1, "100", "2026-05-02", "")
	_, err = uc.Reconcile(ctx, companyID, tx.ID, p.ID)
	require.NoError(t, err)

	out, err := uc.Unreconcile(ctx, companyID, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.TransactionCleared, out.Status)
	assert.Empty(t, out.PaymentID)

	stored, err := store.Repos().Payments.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Reconciled)

	_, err = uc.Unreconcile(ctx, companyID, tx.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
