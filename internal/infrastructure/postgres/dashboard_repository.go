package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// DashboardRepo consultas de solo lectura para el tablero.
type DashboardRepo struct {
	q Querier
}

// NewDashboardRepository construye el adaptador del tablero.
func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

// ContactsByStatus cuenta contactos por estado.
func (r *DashboardRepo) ContactsByStatus(ctx context.Context, companyID string) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM contacts WHERE company_id = $1 GROUP BY status`, companyID)
}

// QuoteStatusCounts cuenta cotizaciones por estado almacenado.
func (r *DashboardRepo) QuoteStatusCounts(ctx context.Context, companyID string) (map[string]int, error) {
	return r.countBy(ctx, `SELECT status, COUNT(*) FROM quotes WHERE company_id = $1 GROUP BY status`, companyID)
}

func (r *DashboardRepo) countBy(ctx context.Context, query, companyID string) (map[string]int, error) {
	rows, err := r.q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("dashboard.countBy: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("dashboard.countBy scan: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

// InvoiceBalances calcula la cartera pendiente; vencidas son las enviadas o parciales con due_date < asOf.
func (r *DashboardRepo) InvoiceBalances(ctx context.Context, companyID string, asOf time.Time) (repository.InvoiceBalance, error) {
	const query = `
	SELECT
	    COALESCE(SUM(grand_total - amount_paid), 0)                                    AS outstanding,
	    COUNT(*) FILTER (WHERE due_date < $2)                                          AS overdue_count,
	    COALESCE(SUM(grand_total - amount_paid) FILTER (WHERE due_date < $2), 0)       AS overdue_amount
	FROM invoices
	WHERE company_id = $1
	  AND status IN ('sent', 'partial', 'overdue')`
	b := repository.InvoiceBalance{}
	err := r.q.QueryRow(ctx, query, companyID, asOf).Scan(&b.Outstanding, &b.OverdueCount, &b.OverdueAmount)
	if err != nil {
		return b, fmt.Errorf("dashboard.InvoiceBalances: %w", err)
	}
	return b, nil
}

// PaymentsTotal suma los pagos completados con fecha en [from, to).
func (r *DashboardRepo) PaymentsTotal(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0) FROM payments
		WHERE company_id = $1 AND status = 'completed' AND date >= $2 AND date < $3`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("dashboard.PaymentsTotal: %w", err)
	}
	return total, nil
}

// TransactionTotals suma ingresos y gastos con fecha en [from, to).
func (r *DashboardRepo) TransactionTotals(ctx context.Context, companyID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	const query = `
		SELECT
		    COALESCE(SUM(amount) FILTER (WHERE type = 'income'), 0),
		    COALESCE(SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE company_id = $1 AND date >= $2 AND date < $3`
	var income, expense decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(&income, &expense); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("dashboard.TransactionTotals: %w", err)
	}
	return income, expense, nil
}

// TopClients agrupa la facturación por nombre de cliente (sin borradores ni anuladas).
func (r *DashboardRepo) TopClients(ctx context.Context, companyID string, limit int) ([]repository.ClientTotal, error) {
	const query = `
	SELECT client_name, COUNT(*) AS invoice_count, SUM(grand_total) AS total
	FROM invoices
	WHERE company_id = $1
	  AND status NOT IN ('draft', 'cancelled')
	GROUP BY client_name
	ORDER BY total DESC, client_name
	LIMIT $2`
	rows, err := r.q.Query(ctx, query, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("dashboard.TopClients: %w", err)
	}
	defer rows.Close()
	var out []repository.ClientTotal
	for rows.Next() {
		var c repository.ClientTotal
		if err := rows.Scan(&c.ClientName, &c.InvoiceCount, &c.Total); err != nil {
			return nil, fmt.Errorf("dashboard.TopClients scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
