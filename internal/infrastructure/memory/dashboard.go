package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.DashboardRepository = (*dashboardRepo)(nil)

type dashboardRepo struct{ s *Store }

func (r *dashboardRepo) ContactsByStatus(_ context.Context, companyID string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int{}
	for _, c := range r.s.contacts {
		if c.CompanyID == companyID {
			out[c.Status]++
		}
	}
	return out, nil
}

func (r *dashboardRepo) InvoiceBalances(_ context.Context, companyID string, asOf time.Time) (repository.InvoiceBalance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b := repository.InvoiceBalance{Outstanding: decimal.Zero, OverdueAmount: decimal.Zero}
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID {
			continue
		}
		switch billing.EffectiveInvoiceStatus(inv, asOf) {
		case entity.InvoiceStatusSent, entity.InvoiceStatusPartial:
			b.Outstanding = b.Outstanding.Add(inv.Outstanding())
		case entity.InvoiceStatusOverdue:
			b.Outstanding = b.Outstanding.Add(inv.Outstanding())
			b.OverdueCount++
			b.OverdueAmount = b.OverdueAmount.Add(inv.Outstanding())
		}
	}
	return b, nil
}

func (r *dashboardRepo) PaymentsTotal(_ context.Context, companyID string, from, to time.Time) (decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	total := decimal.Zero
	for _, p := range r.s.payments {
		if p.CompanyID == companyID && p.Status == entity.PaymentStatusCompleted &&
			!p.Date.Before(from) && p.Date.Before(to) {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *dashboardRepo) TransactionTotals(_ context.Context, companyID string, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	income, expense := decimal.Zero, decimal.Zero
	for _, t := range r.s.transactions {
		if t.CompanyID != companyID || t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		if t.Type == entity.TransactionExpense {
			expense = expense.Add(t.Amount)
		} else {
			income = income.Add(t.Amount)
		}
	}
	return income, expense, nil
}

func (r *dashboardRepo) QuoteStatusCounts(_ context.Context, companyID string) (map[string]int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int{}
	for _, q := range r.s.quotes {
		if q.CompanyID == companyID {
			out[q.Status]++
		}
	}
	return out, nil
}

func (r *dashboardRepo) TopClients(_ context.Context, companyID string, limit int) ([]repository.ClientTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	acc := map[string]*repository.ClientTotal{}
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || inv.Status == entity.InvoiceStatusDraft || inv.Status == entity.InvoiceStatusCancelled {
			continue
		}
		ct, ok := acc[inv.ClientName]
		if !ok {
			ct = &repository.ClientTotal{ClientName: inv.ClientName, Total: decimal.Zero}
			acc[inv.ClientName] = ct
		}
		ct.Total = ct.Total.Add(inv.GrandTotal)
		ct.InvoiceCount++
	}
	out := make([]repository.ClientTotal, 0, len(acc))
	for _, ct := range acc {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].ClientName < out[j].ClientName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
