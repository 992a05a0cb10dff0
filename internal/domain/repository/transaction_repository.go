package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// TransactionFilter criterios de búsqueda de movimientos contables.
type TransactionFilter struct {
	Type     string
	Category string
	Status   string
	Search   string // descripción o referencia
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

// CategoryTotal suma de movimientos de una categoría y tipo en un período.
type CategoryTotal struct {
	Category string
	Type     string
	Total    decimal.Decimal
	Count    int
}

// TransactionRepository define el puerto de persistencia para Transaction.
type TransactionRepository interface {
	Create(ctx context.Context, t *entity.Transaction) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	List(ctx context.Context, companyID string, f TransactionFilter) ([]*entity.Transaction, int, error)
	Update(ctx context.Context, t *entity.Transaction) error
	Delete(ctx context.Context, id string) error
	MaxNumber(ctx context.Context, companyID string) (int64, error)
	// SumByCategory agrupa por categoría y tipo los movimientos con fecha en [from, to].
	SumByCategory(ctx context.Context, companyID string, from, to time.Time) ([]CategoryTotal, error)
}
