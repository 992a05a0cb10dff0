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
	_ repository.CompanyRepository = (*companyRepo)(nil)
	_ repository.UserRepository    = (*userRepo)(nil)
)

type companyRepo struct{ s *Store }

func (r *companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if c.TaxID != "" && existing.TaxID == c.TaxID {
			return domain.ErrDuplicate
		}
	}
	r.s.companies[c.ID] = clonePtr(c)
	return nil
}

func (r *companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if c, ok := r.s.companies[id]; ok {
		return clonePtr(c), nil
	}
	return nil, nil
}

func (r *companyRepo) GetByTaxID(_ context.Context, taxID string) (*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.companies {
		if c.TaxID == taxID {
			return clonePtr(c), nil
		}
	}
	return nil, nil
}

func (r *companyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.companies[c.ID] = clonePtr(c)
	return nil
}

func (r *companyRepo) List(_ context.Context, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	list := make([]*entity.Company, 0, len(r.s.companies))
	for _, c := range r.s.companies {
		list = append(list, clonePtr(c))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}

func (r *companyRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.companies, id)
	return nil
}

func moduleKey(companyID, module string) string { return companyID + "/" + module }

func (r *companyRepo) ActivateModule(_ context.Context, m *entity.CompanyModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.modules[moduleKey(m.CompanyID, m.ModuleName)] = clonePtr(m)
	return nil
}

func (r *companyRepo) HasActiveModule(_ context.Context, companyID, moduleName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.modules[moduleKey(companyID, moduleName)]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

func (r *companyRepo) ListModules(_ context.Context, companyID string) ([]*entity.CompanyModule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.CompanyModule
	for _, m := range r.s.modules {
		if m.CompanyID == companyID {
			list = append(list, clonePtr(m))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ModuleName < list[j].ModuleName })
	return list, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	r.s.users[u.ID] = clonePtr(u)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		return clonePtr(u), nil
	}
	return nil, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return clonePtr(u), nil
		}
	}
	return nil, nil
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[u.ID] = clonePtr(u)
	return nil
}

func (r *userRepo) ListByCompany(_ context.Context, companyID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var list []*entity.User
	for _, u := range r.s.users {
		if u.CompanyID == companyID {
			list = append(list, clonePtr(u))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return paginate(list, limit, offset), nil
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}
