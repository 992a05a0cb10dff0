package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ClientTotal facturado acumulado de un cliente (agrupado por ClientName).
type ClientTotal struct {
	ClientName   string
	InvoiceCount int
	Total        decimal.Decimal
}

// InvoiceBalance saldos de cartera a una fecha.
type InvoiceBalance struct {
	Outstanding   decimal.Decimal // saldo pendiente de facturas sent/partial/overdue
	OverdueCount  int
	OverdueAmount decimal.Decimal
}

// DashboardRepository define las consultas de lectura del tablero.
// Las implementaciones son read-only (no modifican datos).
type DashboardRepository interface {
	// ContactsByStatus cuenta contactos por estado.
	ContactsByStatus(ctx context.Context, companyID string) (map[string]int, error)

	// InvoiceBalances calcula la cartera pendiente y vencida respecto de asOf.
	InvoiceBalances(ctx context.Context, companyID string, asOf time.Time) (InvoiceBalance, error)

	// PaymentsTotal suma los pagos completados con fecha en [from, to).
	PaymentsTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error)

	// TransactionTotals suma ingresos y gastos con fecha en [from, to).
	TransactionTotals(ctx context.Context, companyID string, from, to time.Time) (income, expense decimal.Decimal, err error)

	// QuoteStatusCounts cuenta cotizaciones por estado.
	QuoteStatusCounts(ctx context.Context, companyID string) (map[string]int, error)

	// TopClients devuelve los `limit` clientes con mayor facturación (sin anuladas ni borradores).
	TopClients(ctx context.Context, companyID string, limit int) ([]ClientTotal, error)
}
