package accounting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain/accounting"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

var base = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func tx(n int64, amount string, dayOffset int, ref string) *entity.Transaction {
	return &entity.Transaction{
		ID: "tx" + decimal.NewFromInt(n).String(), Number: n, Type: entity.TransactionIncome,
		Status: entity.TransactionCleared, Amount: decimal.RequireFromString(amount),
		Date: base.AddDate(0, 0, dayOffset), Reference: ref,
	}
}

func pay(n int64, amount string, dayOffset int, ref string) *entity.Payment {
	return &entity.Payment{
		ID: "p" + decimal.NewFromInt(n).String(), Number: n, Status: entity.PaymentStatusCompleted,
		Amount: decimal.RequireFromString(amount), Date: base.AddDate(0, 0, dayOffset), Reference: ref,
	}
}

func TestMatch_MontoYVentana(t *testing.T) {
	txs := []*entity.Transaction{tx(1, "100", 1, ""), tx(2, "250.50", 10, "")}
	pays := []*entity.Payment{pay(1, "100", 0, ""), pay(2, "250.50", 0, "")}

	res := accounting.Match(txs, pays, 3*24*time.Hour)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "tx1", res.Pairs[0].Transaction.ID)
	assert.Equal(t, "p1", res.Pairs[0].Payment.ID)
	require.Len(t, res.UnmatchedTransactions, 1)
	assert.Equal(t, "tx2", res.UnmatchedTransactions[0].ID, "fuera de ventana")
	require.Len(t, res.UnmatchedPayments, 1)
	assert.Equal(t, "p2", res.UnmatchedPayments[0].ID)
}

func TestMatch_PrefiereReferencia(t *testing.T) {
	txs := []*entity.Transaction{tx(1, "100", 0, "VIR 889"), tx(2, "100", 1, "VIREMENT REF-42")}
	pays := []*entity.Payment{pay(1, "100", 0, "ref-42")}

	res := accounting.Match(txs, pays, 0)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "tx2", res.Pairs[0].Transaction.ID)
	assert.True(t, res.Pairs[0].ByReference)
}

func TestMatch_CadaLadoUnaVez(t *testing.T) {
	txs := []*entity.Transaction{tx(1, "50", 0, "")}
	pays := []*entity.Payment{pay(1, "50", 0, ""), pay(2, "50", 0, "")}

	res := accounting.Match(txs, pays, 0)

	require.Len(t, res.Pairs, 1)
	assert.Equal(t, "p1", res.Pairs[0].Payment.ID, "gana el pago de menor número")
	require.Len(t, res.UnmatchedPayments, 1)
	assert.Empty(t, res.UnmatchedTransactions)
}

func TestMatch_IgnoraNoElegibles(t *testing.T) {
	gasto := tx(1, "80", 0, "")
	gasto.Type = entity.TransactionExpense
	conciliado := tx(2, "80", 0, "")
	conciliado.Status = entity.TransactionReconciled
	reembolsado := pay(1, "80", 0, "")
	reembolsado.Status = entity.PaymentStatusRefunded
	yaConciliado := pay(2, "80", 0, "")
	yaConciliado.Reconciled = true

	res := accounting.Match([]*entity.Transaction{gasto, conciliado}, []*entity.Payment{reembolsado, yaConciliado}, 0)

	assert.Empty(t, res.Pairs)
	assert.Empty(t, res.UnmatchedTransactions)
	assert.Empty(t, res.UnmatchedPayments)
}

func TestMatch_Determinista(t *testing.T) {
	txs := []*entity.Transaction{tx(3, "10", 2, ""), tx(1, "10", 0, ""), tx(2, "10", 1, "")}
	pays := []*entity.Payment{pay(2, "10", 1, ""), pay(1, "10", 0, "")}

	a := accounting.Match(txs, pays, 0)
	b := accounting.Match(txs, pays, 0)

	require.Len(t, a.Pairs, 2)
	for i := range a.Pairs {
		assert.Equal(t, a.Pairs[i].Transaction.ID, b.Pairs[i].Transaction.ID)
		assert.Equal(t, a.Pairs[i].Payment.ID, b.Pairs[i].Payment.ID)
	}
	assert.Equal(t, "tx1", a.Pairs[0].Transaction.ID, "el más cercano en fecha")
	assert.Equal(t, "tx2", a.Pairs[1].Transaction.ID)
}
