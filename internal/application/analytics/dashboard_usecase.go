// Package analytics contiene los casos de uso del tablero comercial.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

const dashboardTopClients = 5 // número de clientes en el widget del dashboard

// DashboardUseCase genera el resumen del tablero para el mes en curso.
//
// Fuente de datos: DashboardRepository (consultas read-only).
type DashboardUseCase struct {
	repo repository.DashboardRepository
	now  func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(repo repository.DashboardRepository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo, now: time.Now}
}

// WithClock fija el reloj usado para "hoy" (tests y reportes históricos).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO para la empresa indicada.
//
// Seis consultas en paralelo; la primera que falla cancela el resto.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, companyID string) (*dto.DashboardSummaryDTO, error) {
	now := uc.now().UTC()

	// ── Rangos de fecha ────────────────────────────────────────────────────────
	// Mes en curso: [día 1 00:00, mañana 00:00)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := today.AddDate(0, 0, 1)

	var (
		contacts        map[string]int
		balance         repository.InvoiceBalance
		revenue         decimal.Decimal
		income, expense decimal.Decimal
		quotes          map[string]int
		top             []repository.ClientTotal
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if contacts, err = uc.repo.ContactsByStatus(gctx, companyID); err != nil {
			return fmt.Errorf("dashboard: contactos: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if balance, err = uc.repo.InvoiceBalances(gctx, companyID, today); err != nil {
			return fmt.Errorf("dashboard: cartera: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if revenue, err = uc.repo.PaymentsTotal(gctx, companyID, monthStart, monthEnd); err != nil {
			return fmt.Errorf("dashboard: pagos del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if income, expense, err = uc.repo.TransactionTotals(gctx, companyID, monthStart, monthEnd); err != nil {
			return fmt.Errorf("dashboard: movimientos del mes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if quotes, err = uc.repo.QuoteStatusCounts(gctx, companyID); err != nil {
			return fmt.Errorf("dashboard: cotizaciones: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if top, err = uc.repo.TopClients(gctx, companyID, dashboardTopClients); err != nil {
			return fmt.Errorf("dashboard: top clientes: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, n := range contacts {
		total += n
	}
	topClients := make([]dto.TopClientDTO, 0, len(top))
	for _, c := range top {
		topClients = append(topClients, dto.TopClientDTO{
			ClientName: c.ClientName, InvoiceCount: c.InvoiceCount, Total: c.Total.Round(2),
		})
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	return &dto.DashboardSummaryDTO{
		ContactsByStatus:    contacts,
		TotalContacts:       total,
		Outstanding:         balance.Outstanding.Round(2),
		OverdueCount:        balance.OverdueCount,
		OverdueAmount:       balance.OverdueAmount.Round(2),
		MonthlyRevenue:      revenue.Round(2),
		MonthlyIncome:       income.Round(2),
		MonthlyExpense:      expense.Round(2),
		QuoteConversionRate: ConversionRate(quotes),
		TopClients:          topClients,
		DateLabel:           monthLabel(now),
	}, nil
}

// ConversionRate porcentaje de cotizaciones ganadas sobre las cerradas, con 2 decimales.
// Sin cotizaciones cerradas devuelve cero.
func ConversionRate(counts map[string]int) decimal.Decimal {
	won := counts[entity.QuoteStatusAccepted] + counts[entity.QuoteStatusConverted]
	closed := won + counts[entity.QuoteStatusRejected] + counts[entity.QuoteStatusExpired]
	if closed == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(won)).Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(closed)), 2)
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
