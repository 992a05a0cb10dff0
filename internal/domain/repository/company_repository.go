package repository

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para Company y sus módulos SaaS (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	GetByTaxID(ctx context.Context, taxID string) (*entity.Company, error)
	Update(ctx context.Context, company *entity.Company) error
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
	Delete(ctx context.Context, id string) error

	// ActivateModule inserta o reactiva un módulo para la empresa.
	ActivateModule(ctx context.Context, m *entity.CompanyModule) error
	// HasActiveModule informa si el módulo está activo y sin vencer.
	HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error)
	ListModules(ctx context.Context, companyID string) ([]*entity.CompanyModule, error)
}
