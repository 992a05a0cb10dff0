package repository

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// ContactFilter criterios de búsqueda de contactos. Campos vacíos no filtran.
type ContactFilter struct {
	Status string
	Tag    string
	Search string // nombre, apellido, email o empresa (ILIKE)
	Limit  int
	Offset int
}

// ContactRepository define el puerto de persistencia para Contact.
type ContactRepository interface {
	Create(ctx context.Context, contact *entity.Contact) error
	GetByID(ctx context.Context, id string) (*entity.Contact, error)
	// List devuelve la página pedida ordenada por Number y el total sin paginar.
	List(ctx context.Context, companyID string, f ContactFilter) ([]*entity.Contact, int, error)
	// ListAll devuelve todos los contactos de la empresa en orden de creación (Number asc).
	ListAll(ctx context.Context, companyID string) ([]*entity.Contact, error)
	Update(ctx context.Context, contact *entity.Contact) error
	Delete(ctx context.Context, id string) error
	// DeleteMany elimina los IDs indicados de la empresa y devuelve cuántos borró.
	DeleteMany(ctx context.Context, companyID string, ids []string) (int64, error)
	MaxNumber(ctx context.Context, companyID string) (int64, error)
}
