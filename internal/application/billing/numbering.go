package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain"
	domainbilling "github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// Assigned número asignado a un documento nuevo.
type Assigned struct {
	SeriesID string // vacío = serie por defecto
	Seq      int64  // 0 en modo manual
	Number   string
}

// NumberingService administra las series de numeración y asigna números a facturas y cotizaciones.
type NumberingService struct {
	repo repository.NumberingSeriesRepository
	tx   ports.TxRunner
}

// NewNumberingService construye el servicio.
func NewNumberingService(repo repository.NumberingSeriesRepository, tx ports.TxRunner) *NumberingService {
	return &NumberingService{repo: repo, tx: tx}
}

// Next asigna el siguiente número del tipo de documento. Debe llamarse dentro de una
// transacción: bloquea la secuencia de la empresa hasta el commit, así dos documentos
// concurrentes nunca reciben el mismo consecutivo.
//
// Sin serie activa se usa la serie por defecto (FAC / COT, consecutiva). En modo manual
// el número lo aporta el llamador y se rechaza si ya existe.
func (s *NumberingService) Next(ctx context.Context, repos repository.Repos, companyID, docType string, issueDate time.Time, manual string) (Assigned, error) {
	if err := repos.Locker.LockSequence(ctx, companyID, docType); err != nil {
		return Assigned{}, fmt.Errorf("numeración: bloquear secuencia: %w", err)
	}
	series, err := repos.Series.GetActive(ctx, companyID, docType)
	if err != nil {
		return Assigned{}, err
	}
	if series == nil {
		series = domainbilling.DefaultSeries(companyID, docType)
	}

	var out Assigned
	out.SeriesID = series.ID
	if series.Mode == entity.NumberingManual {
		out.Number = strings.TrimSpace(manual)
		if out.Number == "" {
			return Assigned{}, fmt.Errorf("%w: la serie es manual, indique el número", domain.ErrInvalidInput)
		}
	} else {
		year := 0
		if series.Mode == entity.NumberingYearly {
			year = issueDate.Year()
		}
		last, err := maxSeq(ctx, repos, companyID, docType, series.ID, year)
		if err != nil {
			return Assigned{}, err
		}
		if out.Seq, err = domainbilling.NextSeq(series, last); err != nil {
			return Assigned{}, err
		}
		out.Number = domainbilling.FormatNumber(series, issueDate.Year(), out.Seq)
	}

	for {
		taken, err := numberTaken(ctx, repos, companyID, docType, out.Number)
		if err != nil {
			return Assigned{}, err
		}
		if !taken {
			return out, nil
		}
		if series.Mode == entity.NumberingManual {
			return Assigned{}, fmt.Errorf("%w: el número %s ya existe", domain.ErrDuplicate, out.Number)
		}
		// Otra serie con el mismo prefijo ya emitió este número: se salta,
		// seguimos bajo el bloqueo así que nadie más puede tomarlo.
		if out.Seq, err = domainbilling.NextSeq(series, out.Seq); err != nil {
			return Assigned{}, err
		}
		out.Number = domainbilling.FormatNumber(series, issueDate.Year(), out.Seq)
	}
}

func maxSeq(ctx context.Context, repos repository.Repos, companyID, docType, seriesID string, year int) (int64, error) {
	if docType == entity.DocumentQuote {
		return repos.Quotes.MaxSeq(ctx, companyID, seriesID, year)
	}
	return repos.Invoices.MaxSeq(ctx, companyID, seriesID, year)
}

func numberTaken(ctx context.Context, repos repository.Repos, companyID, docType, number string) (bool, error) {
	if docType == entity.DocumentQuote {
		q, err := repos.Quotes.GetByNumber(ctx, companyID, number)
		return q != nil, err
	}
	inv, err := repos.Invoices.GetByNumber(ctx, companyID, number)
	return inv != nil, err
}

// List devuelve las series de la empresa.
func (s *NumberingService) List(ctx context.Context, companyID string) ([]dto.NumberingSeriesResponse, error) {
	list, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NumberingSeriesResponse, 0, len(list))
	for _, ns := range list {
		out = append(out, toSeriesResponse(ns))
	}
	return out, nil
}

// Create crea una serie. Si queda activa, desactiva las demás del mismo tipo.
func (s *NumberingService) Create(ctx context.Context, companyID string, in dto.NumberingSeriesRequest) (*dto.NumberingSeriesResponse, error) {
	now := time.Now()
	ns := &entity.NumberingSeries{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		DocumentType: in.DocumentType,
		Prefix:       strings.TrimSpace(in.Prefix),
		Mode:         in.Mode,
		Padding:      in.Padding,
		RangeFrom:    in.RangeFrom,
		RangeTo:      in.RangeTo,
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if ns.Mode == "" {
		ns.Mode = entity.NumberingSequential
	}
	if err := domainbilling.ValidateSeries(ns); err != nil {
		return nil, err
	}
	err := s.tx.RunInTx(ctx, func(repos repository.Repos) error {
		// primero desactivar: el índice único admite una sola serie activa por tipo
		if ns.IsActive {
			if err := repos.Series.DeactivateOthers(ctx, companyID, ns.DocumentType, ns.ID); err != nil {
				return err
			}
		}
		return repos.Series.Create(ctx, ns)
	})
	if err != nil {
		return nil, err
	}
	out := toSeriesResponse(ns)
	return &out, nil
}

// Update reemplaza la configuración de una serie. El tipo de documento no cambia.
func (s *NumberingService) Update(ctx context.Context, companyID, id string, in dto.NumberingSeriesRequest) (*dto.NumberingSeriesResponse, error) {
	var ns *entity.NumberingSeries
	err := s.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		ns, err = repos.Series.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if ns == nil || ns.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if in.Prefix != "" {
			ns.Prefix = strings.TrimSpace(in.Prefix)
		}
		if in.Mode != "" {
			ns.Mode = in.Mode
		}
		ns.Padding = in.Padding
		ns.RangeFrom = in.RangeFrom
		ns.RangeTo = in.RangeTo
		if in.IsActive != nil {
			ns.IsActive = *in.IsActive
		}
		if err := domainbilling.ValidateSeries(ns); err != nil {
			return err
		}
		ns.UpdatedAt = time.Now()
		if ns.IsActive {
			if err := repos.Series.DeactivateOthers(ctx, companyID, ns.DocumentType, ns.ID); err != nil {
				return err
			}
		}
		return repos.Series.Update(ctx, ns)
	})
	if err != nil {
		return nil, err
	}
	out := toSeriesResponse(ns)
	return &out, nil
}

func toSeriesResponse(ns *entity.NumberingSeries) dto.NumberingSeriesResponse {
	example := ""
	if ns.Mode != entity.NumberingManual {
		first, _ := domainbilling.NextSeq(ns, 0)
		example = domainbilling.FormatNumber(ns, time.Now().Year(), first)
	}
	return dto.NumberingSeriesResponse{
		ID:           ns.ID,
		DocumentType: ns.DocumentType,
		Prefix:       ns.Prefix,
		Mode:         ns.Mode,
		Padding:      ns.Padding,
		RangeFrom:    ns.RangeFrom,
		RangeTo:      ns.RangeTo,
		IsActive:     ns.IsActive,
		Example:      example,
	}
}
