package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento contable.
const (
	TransactionIncome  = "income"
	TransactionExpense = "expense"
)

// Estados de un movimiento contable.
const (
	TransactionPending    = "pending"
	TransactionCleared    = "cleared"
	TransactionReconciled = "reconciled"
)

// Transaction representa un movimiento contable (ingreso o gasto). Amount siempre es positivo;
// el signo lo da Type.
type Transaction struct {
	ID          string
	CompanyID   string
	Number      int64
	Date        time.Time
	Description string
	Category    string
	Type        string
	Amount      decimal.Decimal
	Status      string
	Reference   string
	PaymentID   string // pago conciliado, vacío si no aplica
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Signed devuelve el monto con signo (negativo para gastos).
func (t *Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
