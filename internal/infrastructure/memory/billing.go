package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository         = (*invoiceRepo)(nil)
	_ repository.QuoteRepository           = (*quoteRepo)(nil)
	_ repository.NumberingSeriesRepository = (*seriesRepo)(nil)
)

// matchDocument aplica DocumentFilter a los campos comunes de factura y cotización.
func matchDocument(f repository.DocumentFilter, status, number, client, email string, issued time.Time) bool {
	if f.Status != "" && status != f.Status {
		return false
	}
	if f.Search != "" && !anyContainsFold(f.Search, number, client, email) {
		return false
	}
	if f.From != nil && issued.Before(*f.From) {
		return false
	}
	if f.To != nil && issued.After(*f.To) {
		return false
	}
	return true
}

// newestFirst ordena por fecha de emisión y consecutivo descendentes.
func newestFirst(ai, aj time.Time, si, sj int64) bool {
	if !ai.Equal(aj) {
		return ai.After(aj)
	}
	return si > sj
}

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.CompanyID == inv.CompanyID && existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if inv, ok := r.s.invoices[id]; ok {
		return cloneInvoice(inv), nil
	}
	return nil, nil
}

func (r *invoiceRepo) GetByNumber(_ context.Context, companyID, number string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && inv.Number == number {
			return cloneInvoice(inv), nil
		}
	}
	return nil, nil
}

func (r *invoiceRepo) List(_ context.Context, companyID string, f repository.DocumentFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.CompanyID == companyID && matchDocument(f, inv.Status, inv.Number, inv.ClientName, inv.ClientEmail, inv.IssueDate) {
			list = append(list, cloneInvoice(inv))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].IssueDate, list[j].IssueDate, list[i].Seq, list[j].Seq)
	})
	return paginate(list, f.Limit, f.Offset), len(list), nil
}

func (r *invoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	return nil
}

func (r *invoiceRepo) MaxSeq(_ context.Context, companyID, seriesID string, year int) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var maxSeq int64
	for _, inv := range r.s.invoices {
		if inv.CompanyID != companyID || inv.SeriesID != seriesID || (year > 0 && inv.IssueDate.Year() != year) {
			continue
		}
		if inv.Seq > maxSeq {
			maxSeq = inv.Seq
		}
	}
	return maxSeq, nil
}

type quoteRepo struct{ s *Store }

func (r *quoteRepo) Create(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.quotes {
		if existing.CompanyID == q.CompanyID && existing.Number == q.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.quotes[q.ID] = cloneQuote(q)
	return nil
}

func (r *quoteRepo) GetByID(_ context.Context, id string) (*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if q, ok := r.s.quotes[id]; ok {
		return cloneQuote(q), nil
	}
	return nil, nil
}

func (r *quoteRepo) GetByNumber(_ context.Context, companyID, number string) (*entity.Quote, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, q := range r.s.quotes {
		if q.CompanyID == companyID && q.Number == number {
			return cloneQuote(q), nil
		}
	}
	return nil, nil
}

func (r *quoteRepo) List(_ context.Context, companyID string, f repository.DocumentFilter) ([]*entity.Quote, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Quote
	for _, q := range r.s.quotes {
		if q.CompanyID == companyID && matchDocument(f, q.Status, q.Number, q.ClientName, q.ClientEmail, q.IssueDate) {
			list = append(list, cloneQuote(q))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].IssueDate, list[j].IssueDate, list[i].Seq, list[j].Seq)
	})
	return paginate(list, f.Limit, f.Offset), len(list), nil
}

func (r *quoteRepo) Update(_ context.Context, q *entity.Quote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.quotes[q.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.quotes[q.ID] = cloneQuote(q)
	return nil
}

func (r *quoteRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.quotes, id)
	return nil
}

func (r *quoteRepo) MaxSeq(_ context.Context, companyID, seriesID string, year int) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var maxSeq int64
	for _, q := range r.s.quotes {
		if q.CompanyID != companyID || q.SeriesID != seriesID || (year > 0 && q.IssueDate.Year() != year) {
			continue
		}
		if q.Seq > maxSeq {
			maxSeq = q.Seq
		}
	}
	return maxSeq, nil
}

type seriesRepo struct{ s *Store }

func (r *seriesRepo) Create(_ context.Context, ns *entity.NumberingSeries) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.series[ns.ID] = clonePtr(ns)
	return nil
}

func (r *seriesRepo) GetByID(_ context.Context, id string) (*entity.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if ns, ok := r.s.series[id]; ok {
		return clonePtr(ns), nil
	}
	return nil, nil
}

func (r *seriesRepo) GetActive(_ context.Context, companyID, documentType string) (*entity.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, ns := range r.s.series {
		if ns.CompanyID == companyID && ns.DocumentType == documentType && ns.IsActive {
			return clonePtr(ns), nil
		}
	}
	return nil, nil
}

func (r *seriesRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.NumberingSeries, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.NumberingSeries
	for _, ns := range r.s.series {
		if ns.CompanyID == companyID {
			list = append(list, clonePtr(ns))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].DocumentType != list[j].DocumentType {
			return list[i].DocumentType < list[j].DocumentType
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list, nil
}

func (r *seriesRepo) Update(_ context.Context, ns *entity.NumberingSeries) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.series[ns.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.series[ns.ID] = clonePtr(ns)
	return nil
}

func (r *seriesRepo) DeactivateOthers(_ context.Context, companyID, documentType, keepID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, ns := range r.s.series {
		if ns.CompanyID == companyID && ns.DocumentType == documentType && id != keepID && ns.IsActive {
			cp := clonePtr(ns)
			cp.IsActive = false
			r.s.series[id] = cp
		}
	}
	return nil
}
