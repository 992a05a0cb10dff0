package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago.
const (
	PaymentMethodTransfer = "transfer"
	PaymentMethodCard     = "card"
	PaymentMethodCash     = "cash"
	PaymentMethodCheck    = "check"
)

// Estados de un pago.
const (
	PaymentStatusCompleted = "completed"
	PaymentStatusRefunded  = "refunded"
)

// ValidPaymentMethod informa si m es un medio de pago soportado.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodTransfer, PaymentMethodCard, PaymentMethodCash, PaymentMethodCheck:
		return true
	}
	return false
}

// Payment representa un pago recibido contra una factura.
type Payment struct {
	ID         string
	CompanyID  string
	Number     int64
	InvoiceID  string
	Amount     decimal.Decimal
	Method     string
	Date       time.Time
	Reference  string
	Status     string
	Reconciled bool
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
