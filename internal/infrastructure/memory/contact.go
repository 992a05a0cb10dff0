package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*contactRepo)(nil)

type contactRepo struct{ s *Store }

func (r *contactRepo) Create(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.contacts {
		if existing.CompanyID == c.CompanyID && existing.Number == c.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.contacts[c.ID] = cloneContact(c)
	return nil
}

func (r *contactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.contacts[id]; ok {
		return cloneContact(c), nil
	}
	return nil, nil
}

func (r *contactRepo) byCompany(companyID string, keep func(*entity.Contact) bool) []*entity.Contact {
	var list []*entity.Contact
	for _, c := range r.s.contacts {
		if c.CompanyID == companyID && (keep == nil || keep(c)) {
			list = append(list, cloneContact(c))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Number < list[j].Number })
	return list
}

func (r *contactRepo) List(_ context.Context, companyID string, f repository.ContactFilter) ([]*entity.Contact, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := r.byCompany(companyID, func(c *entity.Contact) bool {
		if f.Status != "" && c.Status != f.Status {
			return false
		}
		if f.Tag != "" && !slices.Contains(c.Tags, f.Tag) {
			return false
		}
		return f.Search == "" || anyContainsFold(f.Search, c.FirstName, c.LastName, c.Email, c.CompanyName)
	})
	return paginate(list, f.Limit, f.Offset), len(list), nil
}

func (r *contactRepo) ListAll(_ context.Context, companyID string) ([]*entity.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.byCompany(companyID, nil), nil
}

func (r *contactRepo) Update(_ context.Context, c *entity.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.contacts[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.contacts[c.ID] = cloneContact(c)
	return nil
}

func (r *contactRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contacts, id)
	return nil
}

func (r *contactRepo) DeleteMany(_ context.Context, companyID string, ids []string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, id := range ids {
		if c, ok := r.s.contacts[id]; ok && c.CompanyID == companyID {
			delete(r.s.contacts, id)
			n++
		}
	}
	return n, nil
}

func (r *contactRepo) MaxNumber(_ context.Context, companyID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var maxNum int64
	for _, c := range r.s.contacts {
		if c.CompanyID == companyID && c.Number > maxNum {
			maxNum = c.Number
		}
	}
	return maxNum, nil
}
