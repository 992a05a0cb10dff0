package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain"
	domainbilling "github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// DefaultValidityDays vigencia de una cotización sin fecha explícita.
const DefaultValidityDays = 30

// QuoteUseCase casos de uso de cotizaciones.
type QuoteUseCase struct {
	repo      repository.QuoteRepository
	tx        ports.TxRunner
	numbering *NumberingService
	invoices  *InvoiceUseCase
}

// NewQuoteUseCase construye el caso de uso. La conversión usa invoices para numerar y
// fijar el vencimiento de la factura generada.
func NewQuoteUseCase(repo repository.QuoteRepository, tx ports.TxRunner, numbering *NumberingService, invoices *InvoiceUseCase) *QuoteUseCase {
	return &QuoteUseCase{repo: repo, tx: tx, numbering: numbering, invoices: invoices}
}

// Create guarda una cotización en borrador con el siguiente número de la serie de cotizaciones.
func (uc *QuoteUseCase) Create(ctx context.Context, companyID string, in dto.CreateQuoteRequest) (*dto.QuoteResponse, error) {
	if err := requireClient(in.ClientName); err != nil {
		return nil, err
	}
	items := toLineItems(in.Items)
	totals, err := domainbilling.ComputeTotals(items)
	if err != nil {
		return nil, err
	}
	issue, err := dto.ParseDate(in.IssueDate, today())
	if err != nil {
		return nil, err
	}
	validUntil, err := dto.ParseDate(in.ValidUntil, issue.AddDate(0, 0, DefaultValidityDays))
	if err != nil {
		return nil, err
	}
	if validUntil.Before(issue) {
		return nil, fmt.Errorf("%w: la vigencia termina antes de la emisión", domain.ErrInvalidInput)
	}

	now := time.Now()
	q := &entity.Quote{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ContactID:   in.ContactID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		IssueDate:   issue,
		ValidUntil:  validUntil,
		Items:       items,
		NetTotal:    totals.Net,
		TaxTotal:    totals.Tax,
		GrandTotal:  totals.Grand,
		Status:      entity.QuoteStatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		assigned, err := uc.numbering.Next(ctx, repos, companyID, entity.DocumentQuote, issue, in.Number)
		if err != nil {
			return err
		}
		q.SeriesID, q.Seq, q.Number = assigned.SeriesID, assigned.Seq, assigned.Number
		return repos.Quotes.Create(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, now), nil
}

// Get obtiene una cotización de la empresa.
func (uc *QuoteUseCase) Get(ctx context.Context, companyID, id string) (*dto.QuoteResponse, error) {
	q, err := loadQuote(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, time.Now()), nil
}

// List lista cotizaciones con filtros y paginación.
func (uc *QuoteUseCase) List(ctx context.Context, companyID string, in dto.DocumentListRequest) (*dto.QuoteListResponse, error) {
	in.DefaultPage()
	f, err := documentFilter(in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	items := make([]dto.QuoteResponse, 0, len(list))
	for _, q := range list {
		items = append(items, *toQuoteResponse(q, now))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateStatus aplica una transición. Una cotización vencida no puede aceptarse.
func (uc *QuoteUseCase) UpdateStatus(ctx context.Context, companyID, id, status string) (*dto.QuoteResponse, error) {
	var q *entity.Quote
	now := time.Now()
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		q, err = lockQuote(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		from := domainbilling.EffectiveQuoteStatus(q, now)
		if !domainbilling.CanTransitionQuote(from, status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, from, status)
		}
		if from == entity.QuoteStatusExpired && status == entity.QuoteStatusSent {
			// reenviar una cotización vencida extiende su vigencia
			q.ValidUntil = today().AddDate(0, 0, DefaultValidityDays)
		}
		q.Status = status
		q.UpdatedAt = now
		return repos.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(q, now), nil
}

// Delete elimina una cotización que no se haya convertido en factura.
func (uc *QuoteUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		q, err := lockQuote(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if q.Status == entity.QuoteStatusConverted {
			return fmt.Errorf("%w: la cotización %s ya generó una factura", domain.ErrConflict, q.Number)
		}
		return repos.Quotes.Delete(ctx, id)
	})
}

// ConvertToInvoice crea en una sola transacción la factura de una cotización aceptada:
// copia las líneas, toma el siguiente número de factura y enlaza ambos documentos.
// Convertir dos veces devuelve domain.ErrConflict.
func (uc *QuoteUseCase) ConvertToInvoice(ctx context.Context, companyID, id string) (*dto.ConvertQuoteResponse, error) {
	var q *entity.Quote
	var inv *entity.Invoice
	now := time.Now()

	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		q, err = lockQuote(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if q.Status == entity.QuoteStatusConverted || q.InvoiceID != "" {
			return fmt.Errorf("%w: la cotización %s ya fue convertida", domain.ErrConflict, q.Number)
		}
		if q.Status != entity.QuoteStatusAccepted {
			return fmt.Errorf("%w: solo se convierten cotizaciones aceptadas (estado %s)", domain.ErrInvalidTransition, q.Status)
		}

		issue := today()
		inv = &entity.Invoice{
			ID:          uuid.New().String(),
			CompanyID:   companyID,
			ContactID:   q.ContactID,
			ClientName:  q.ClientName,
			ClientEmail: q.ClientEmail,
			IssueDate:   issue,
			DueDate:     issue.AddDate(0, 0, uc.invoices.dueDays),
			Items:       append([]entity.LineItem(nil), q.Items...),
			NetTotal:    q.NetTotal,
			TaxTotal:    q.TaxTotal,
			GrandTotal:  q.GrandTotal,
			AmountPaid:  decimal.Zero,
			Status:      entity.InvoiceStatusDraft,
			QuoteID:     q.ID,
			Notes:       q.Notes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.invoices.insert(ctx, repos, inv, ""); err != nil {
			return err
		}
		q.Status = entity.QuoteStatusConverted
		q.InvoiceID = inv.ID
		q.UpdatedAt = now
		return repos.Quotes.Update(ctx, q)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("company_id", companyID).Str("quote", q.Number).Str("invoice", inv.Number).Msg("cotización convertida en factura")
	return &dto.ConvertQuoteResponse{
		Quote:   *toQuoteResponse(q, now),
		Invoice: *toInvoiceResponse(inv, now),
	}, nil
}

func lockQuote(ctx context.Context, repos repository.Repos, companyID, id string) (*entity.Quote, error) {
	if err := repository.LockDocument(ctx, repos, companyID, "quote", id); err != nil {
		return nil, err
	}
	return loadQuote(ctx, repos.Quotes, companyID, id)
}

func loadQuote(ctx context.Context, repo repository.QuoteRepository, companyID, id string) (*entity.Quote, error) {
	q, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return q, nil
}
