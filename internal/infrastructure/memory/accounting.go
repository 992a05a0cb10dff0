package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.PaymentRepository     = (*paymentRepo)(nil)
	_ repository.TransactionRepository = (*transactionRepo)(nil)
)

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.payments {
		if existing.CompanyID == p.CompanyID && existing.Number == p.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.payments[p.ID] = clonePtr(p)
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if p, ok := r.s.payments[id]; ok {
		return clonePtr(p), nil
	}
	return nil, nil
}

func (r *paymentRepo) List(_ context.Context, companyID string, f repository.PaymentFilter) ([]*entity.Payment, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Payment
	for _, p := range r.s.payments {
		switch {
		case p.CompanyID != companyID,
			f.InvoiceID != "" && p.InvoiceID != f.InvoiceID,
			f.Method != "" && p.Method != f.Method,
			f.Status != "" && p.Status != f.Status,
			f.Reconciled != nil && p.Reconciled != *f.Reconciled,
			!inRange(p.Date, f.From, f.To):
			continue
		}
		list = append(list, clonePtr(p))
	}
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].Date, list[j].Date, list[i].Number, list[j].Number)
	})
	return paginate(list, f.Limit, f.Offset), len(list), nil
}

func (r *paymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.payments[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.payments[p.ID] = clonePtr(p)
	return nil
}

func (r *paymentRepo) MaxNumber(_ context.Context, companyID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var maxNum int64
	for _, p := range r.s.payments {
		if p.CompanyID == companyID && p.Number > maxNum {
			maxNum = p.Number
		}
	}
	return maxNum, nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.transactions {
		if existing.CompanyID == t.CompanyID && existing.Number == t.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.transactions[t.ID] = clonePtr(t)
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, id string) (*entity.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if t, ok := r.s.transactions[id]; ok {
		return clonePtr(t), nil
	}
	return nil, nil
}

func (r *transactionRepo) List(_ context.Context, companyID string, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.Transaction
	for _, t := range r.s.transactions {
		switch {
		case t.CompanyID != companyID,
			f.Type != "" && t.Type != f.Type,
			f.Category != "" && t.Category != f.Category,
			f.Status != "" && t.Status != f.Status,
			f.Search != "" && !anyContainsFold(f.Search, t.Description, t.Reference),
			!inRange(t.Date, f.From, f.To):
			continue
		}
		list = append(list, clonePtr(t))
	}
	sort.Slice(list, func(i, j int) bool {
		return newestFirst(list[i].Date, list[j].Date, list[i].Number, list[j].Number)
	})
	return paginate(list, f.Limit, f.Offset), len(list), nil
}

func (r *transactionRepo) Update(_ context.Context, t *entity.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.transactions[t.ID] = clonePtr(t)
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.transactions, id)
	return nil
}

func (r *transactionRepo) MaxNumber(_ context.Context, companyID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var maxNum int64
	for _, t := range r.s.transactions {
		if t.CompanyID == companyID && t.Number > maxNum {
			maxNum = t.Number
		}
	}
	return maxNum, nil
}

func (r *transactionRepo) SumByCategory(_ context.Context, companyID string, from, to time.Time) ([]repository.CategoryTotal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	type key struct{ category, typ string }
	acc := map[key]*repository.CategoryTotal{}
	for _, t := range r.s.transactions {
		if t.CompanyID != companyID || !inRange(t.Date, &from, &to) {
			continue
		}
		k := key{t.Category, t.Type}
		ct, ok := acc[k]
		if !ok {
			ct = &repository.CategoryTotal{Category: t.Category, Type: t.Type, Total: decimal.Zero}
			acc[k] = ct
		}
		ct.Total = ct.Total.Add(t.Amount)
		ct.Count++
	}
	out := make([]repository.CategoryTotal, 0, len(acc))
	for _, ct := range acc {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}
