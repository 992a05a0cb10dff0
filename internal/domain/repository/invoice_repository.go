package repository

import (
	"context"
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// DocumentFilter criterios comunes para listar facturas y cotizaciones.
type DocumentFilter struct {
	Status string
	Search string // número, cliente o email
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice (las líneas viajan con la factura).
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetByNumber(ctx context.Context, companyID, number string) (*entity.Invoice, error)
	List(ctx context.Context, companyID string, f DocumentFilter) ([]*entity.Invoice, int, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id string) error
	// MaxSeq devuelve el mayor consecutivo de la serie (seriesID vacío = serie por defecto);
	// si year > 0 solo cuenta ese año de emisión.
	MaxSeq(ctx context.Context, companyID, seriesID string, year int) (int64, error)
}

// QuoteRepository define el puerto de persistencia para Quote.
type QuoteRepository interface {
	Create(ctx context.Context, quote *entity.Quote) error
	GetByID(ctx context.Context, id string) (*entity.Quote, error)
	GetByNumber(ctx context.Context, companyID, number string) (*entity.Quote, error)
	List(ctx context.Context, companyID string, f DocumentFilter) ([]*entity.Quote, int, error)
	Update(ctx context.Context, quote *entity.Quote) error
	Delete(ctx context.Context, id string) error
	MaxSeq(ctx context.Context, companyID, seriesID string, year int) (int64, error)
}

// NumberingSeriesRepository define el puerto de persistencia para las series de numeración.
type NumberingSeriesRepository interface {
	Create(ctx context.Context, s *entity.NumberingSeries) error
	GetByID(ctx context.Context, id string) (*entity.NumberingSeries, error)
	// GetActive devuelve la serie activa del tipo de documento o (nil, nil) si no hay.
	GetActive(ctx context.Context, companyID, documentType string) (*entity.NumberingSeries, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.NumberingSeries, error)
	Update(ctx context.Context, s *entity.NumberingSeries) error
	// DeactivateOthers desactiva las series del tipo salvo keepID.
	DeactivateOthers(ctx context.Context, companyID, documentType, keepID string) error
}
