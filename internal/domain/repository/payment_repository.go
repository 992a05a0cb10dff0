package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// PaymentFilter criterios de búsqueda de pagos.
type PaymentFilter struct {
	InvoiceID  string
	Method     string
	Status     string
	Reconciled *bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	List(ctx context.Context, companyID string, f PaymentFilter) ([]*entity.Payment, int, error)
	Update(ctx context.Context, p *entity.Payment) error
	MaxNumber(ctx context.Context, companyID string) (int64, error)
}
