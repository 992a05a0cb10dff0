package billing

import (
	"context"
	"fmt"
	"io"
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
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// InvoiceColumns orden fijo de columnas del CSV de facturas.
var InvoiceColumns = []string{
	"number", "client", "client_email", "issue_date", "due_date",
	"net_total", "tax_total", "grand_total", "amount_paid", "status",
}

// InvoiceUseCase casos de uso de facturas.
type InvoiceUseCase struct {
	repo      repository.InvoiceRepository
	tx        ports.TxRunner
	numbering *NumberingService
	dueDays   int
}

// NewInvoiceUseCase construye el caso de uso. dueDays <= 0 usa DefaultDueDays.
func NewInvoiceUseCase(repo repository.InvoiceRepository, tx ports.TxRunner, numbering *NumberingService, dueDays int) *InvoiceUseCase {
	if dueDays <= 0 {
		dueDays = DefaultDueDays
	}
	return &InvoiceUseCase{repo: repo, tx: tx, numbering: numbering, dueDays: dueDays}
}

// Create calcula totales, asigna el número de la serie activa y guarda la factura en borrador.
func (uc *InvoiceUseCase) Create(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
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
	due, err := dto.ParseDate(in.DueDate, issue.AddDate(0, 0, uc.dueDays))
	if err != nil {
		return nil, err
	}
	if due.Before(issue) {
		return nil, fmt.Errorf("%w: el vencimiento es anterior a la emisión", domain.ErrInvalidInput)
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		ContactID:   in.ContactID,
		ClientName:  in.ClientName,
		ClientEmail: in.ClientEmail,
		IssueDate:   issue,
		DueDate:     due,
		Items:       items,
		NetTotal:    totals.Net,
		TaxTotal:    totals.Tax,
		GrandTotal:  totals.Grand,
		AmountPaid:  decimal.Zero,
		Status:      entity.InvoiceStatusDraft,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		return uc.insert(ctx, repos, inv, in.Number)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("company_id", companyID).Str("invoice", inv.Number).Str("total", inv.GrandTotal.String()).Msg("factura creada")
	return toInvoiceResponse(inv, now), nil
}

// insert numera y persiste inv dentro de la transacción del llamador.
func (uc *InvoiceUseCase) insert(ctx context.Context, repos repository.Repos, inv *entity.Invoice, manualNumber string) error {
	assigned, err := uc.numbering.Next(ctx, repos, inv.CompanyID, entity.DocumentInvoice, inv.IssueDate, manualNumber)
	if err != nil {
		return err
	}
	inv.SeriesID, inv.Seq, inv.Number = assigned.SeriesID, assigned.Seq, assigned.Number
	return repos.Invoices.Create(ctx, inv)
}

// Get obtiene una factura de la empresa.
func (uc *InvoiceUseCase) Get(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := loadInvoice(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, time.Now()), nil
}

// List lista facturas. El filtro status=overdue se evalúa sobre el estado efectivo.
func (uc *InvoiceUseCase) List(ctx context.Context, companyID string, in dto.DocumentListRequest) (*dto.InvoiceListResponse, error) {
	in.DefaultPage()
	f, err := documentFilter(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()

	var list []*entity.Invoice
	var total int
	if in.Status == entity.InvoiceStatusOverdue {
		f.Status, f.Limit, f.Offset = "", 0, 0
		all, _, err := uc.repo.List(ctx, companyID, f)
		if err != nil {
			return nil, err
		}
		var overdue []*entity.Invoice
		for _, inv := range all {
			if domainbilling.EffectiveInvoiceStatus(inv, now) == entity.InvoiceStatusOverdue {
				overdue = append(overdue, inv)
			}
		}
		total = len(overdue)
		if in.Offset < len(overdue) {
			overdue = overdue[in.Offset:]
			if len(overdue) > in.Limit {
				overdue = overdue[:in.Limit]
			}
			list = overdue
		}
	} else {
		list, total, err = uc.repo.List(ctx, companyID, f)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, now))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateStatus aplica una transición manual (enviar o anular). Los estados partial y paid
// solo los fija el registro de pagos.
func (uc *InvoiceUseCase) UpdateStatus(ctx context.Context, companyID, id, status string) (*dto.InvoiceResponse, error) {
	var inv *entity.Invoice
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		inv, err = lockInvoice(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if !domainbilling.CanTransitionInvoice(inv.Status, status) {
			return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, inv.Status, status)
		}
		inv.Status = status
		inv.UpdatedAt = time.Now()
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, inv.UpdatedAt), nil
}

// Delete elimina una factura en borrador.
func (uc *InvoiceUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		inv, err := lockInvoice(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if inv.Status != entity.InvoiceStatusDraft {
			return fmt.Errorf("%w: solo se eliminan facturas en borrador, anule la factura %s", domain.ErrConflict, inv.Number)
		}
		return repos.Invoices.Delete(ctx, id)
	})
}

// Export escribe todas las facturas de la empresa en w.
func (uc *InvoiceUseCase) Export(ctx context.Context, companyID string, w io.Writer, format csvcodec.Format) error {
	list, _, err := uc.repo.List(ctx, companyID, repository.DocumentFilter{})
	if err != nil {
		return err
	}
	now := time.Now()
	rows := make([][]string, 0, len(list))
	for _, inv := range list {
		rows = append(rows, []string{
			inv.Number, inv.ClientName, inv.ClientEmail,
			dto.FormatDate(inv.IssueDate), dto.FormatDate(inv.DueDate),
			inv.NetTotal.StringFixed(2), inv.TaxTotal.StringFixed(2),
			inv.GrandTotal.StringFixed(2), inv.AmountPaid.StringFixed(2),
			domainbilling.EffectiveInvoiceStatus(inv, now),
		})
	}
	return csvcodec.Encode(w, format, InvoiceColumns, rows)
}

// lockInvoice bloquea la factura y la lee dentro de la transacción; pagos, reembolsos y
// cambios de estado pasan por aquí para no pisar amount_paid entre sí.
func lockInvoice(ctx context.Context, repos repository.Repos, companyID, id string) (*entity.Invoice, error) {
	if err := repository.LockDocument(ctx, repos, companyID, "invoice", id); err != nil {
		return nil, err
	}
	return loadInvoice(ctx, repos.Invoices, companyID, id)
}

func loadInvoice(ctx context.Context, repo repository.InvoiceRepository, companyID, id string) (*entity.Invoice, error) {
	inv, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
