package billing

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain"
	domainbilling "github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// PaymentColumns orden fijo de columnas del CSV de pagos.
var PaymentColumns = []string{"number", "invoice_number", "amount", "method", "date", "reference", "status"}

const paymentScope = "payments"

// PaymentUseCase registra pagos contra facturas y mantiene su saldo.
type PaymentUseCase struct {
	repo     repository.PaymentRepository
	invoices repository.InvoiceRepository
	tx       ports.TxRunner
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(repo repository.PaymentRepository, invoices repository.InvoiceRepository, tx ports.TxRunner) *PaymentUseCase {
	return &PaymentUseCase{repo: repo, invoices: invoices, tx: tx}
}

// Record registra un pago y actualiza el saldo y estado de la factura en la misma transacción.
// Un pago mayor que el saldo pendiente devuelve domain.ErrConflict.
func (uc *PaymentUseCase) Record(ctx context.Context, companyID string, in dto.RecordPaymentRequest) (*dto.PaymentResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if !entity.ValidPaymentMethod(in.Method) {
		return nil, fmt.Errorf("%w: medio de pago %q", domain.ErrInvalidInput, in.Method)
	}
	date, err := dto.ParseDate(in.Date, today())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	p := &entity.Payment{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		InvoiceID: in.InvoiceID,
		Amount:    in.Amount,
		Method:    in.Method,
		Date:      date,
		Reference: in.Reference,
		Status:    entity.PaymentStatusCompleted,
		Notes:     in.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var inv *entity.Invoice
	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		inv, err = lockInvoice(ctx, repos, companyID, in.InvoiceID)
		if err != nil {
			return err
		}
		switch inv.Status {
		case entity.InvoiceStatusDraft, entity.InvoiceStatusCancelled:
			return fmt.Errorf("%w: la factura %s está en estado %s", domain.ErrConflict, inv.Number, inv.Status)
		}
		if in.Amount.GreaterThan(inv.Outstanding()) {
			return fmt.Errorf("%w: el pago (%s) supera el saldo pendiente (%s)", domain.ErrConflict, in.Amount, inv.Outstanding())
		}

		if err := repos.Locker.LockSequence(ctx, companyID, paymentScope); err != nil {
			return err
		}
		last, err := repos.Payments.MaxNumber(ctx, companyID)
		if err != nil {
			return err
		}
		p.Number = last + 1
		if err := repos.Payments.Create(ctx, p); err != nil {
			return err
		}

		inv.AmountPaid = inv.AmountPaid.Add(p.Amount)
		inv.Status = domainbilling.StatusAfterPayment(inv.GrandTotal, inv.AmountPaid)
		inv.UpdatedAt = now
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("company_id", companyID).Str("invoice", inv.Number).Str("amount", p.Amount.String()).
		Str("status", inv.Status).Msg("pago registrado")
	out := ToPaymentResponse(p, inv.Number)
	return &out, nil
}

// Refund marca el pago como reembolsado y devuelve el monto al saldo de la factura.
// Un pago conciliado debe desconciliarse primero.
func (uc *PaymentUseCase) Refund(ctx context.Context, companyID, paymentID string) (*dto.PaymentResponse, error) {
	var p *entity.Payment
	var inv *entity.Invoice
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		if err := repository.LockDocument(ctx, repos, companyID, "payment", paymentID); err != nil {
			return err
		}
		var err error
		p, err = repos.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if p.Status == entity.PaymentStatusRefunded {
			return fmt.Errorf("%w: el pago %d ya fue reembolsado", domain.ErrConflict, p.Number)
		}
		if p.Reconciled {
			return fmt.Errorf("%w: el pago %d está conciliado", domain.ErrConflict, p.Number)
		}
		inv, err = lockInvoice(ctx, repos, companyID, p.InvoiceID)
		if err != nil {
			return err
		}

		now := time.Now()
		p.Status = entity.PaymentStatusRefunded
		p.UpdatedAt = now
		if err := repos.Payments.Update(ctx, p); err != nil {
			return err
		}
		inv.AmountPaid = inv.AmountPaid.Sub(p.Amount)
		if inv.Status != entity.InvoiceStatusCancelled {
			inv.Status = domainbilling.StatusAfterPayment(inv.GrandTotal, inv.AmountPaid)
		}
		inv.UpdatedAt = now
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	out := ToPaymentResponse(p, inv.Number)
	return &out, nil
}

// List lista pagos con filtros.
func (uc *PaymentUseCase) List(ctx context.Context, companyID string, in dto.PaymentListRequest) (*dto.PaymentListResponse, error) {
	in.DefaultPage()
	f, err := paymentFilter(in)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = in.Limit, in.Offset
	list, total, err := uc.repo.List(ctx, companyID, f)
	if err != nil {
		return nil, err
	}
	numbers := uc.invoiceNumbers(ctx, list)
	items := make([]dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		items = append(items, ToPaymentResponse(p, numbers[p.InvoiceID]))
	}
	return &dto.PaymentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Export escribe los pagos de la empresa en w.
func (uc *PaymentUseCase) Export(ctx context.Context, companyID string, w io.Writer, format csvcodec.Format) error {
	list, _, err := uc.repo.List(ctx, companyID, repository.PaymentFilter{})
	if err != nil {
		return err
	}
	numbers := uc.invoiceNumbers(ctx, list)
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			strconv.FormatInt(p.Number, 10), numbers[p.InvoiceID], p.Amount.StringFixed(2),
			p.Method, dto.FormatDate(p.Date), p.Reference, p.Status,
		})
	}
	return csvcodec.Encode(w, format, PaymentColumns, rows)
}

// invoiceNumbers resuelve el número visible de cada factura referenciada.
func (uc *PaymentUseCase) invoiceNumbers(ctx context.Context, list []*entity.Payment) map[string]string {
	out := make(map[string]string)
	for _, p := range list {
		if _, ok := out[p.InvoiceID]; ok {
			continue
		}
		inv, err := uc.invoices.GetByID(ctx, p.InvoiceID)
		if err != nil || inv == nil {
			out[p.InvoiceID] = ""
			continue
		}
		out[p.InvoiceID] = inv.Number
	}
	return out
}

func paymentFilter(in dto.PaymentListRequest) (repository.PaymentFilter, error) {
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return repository.PaymentFilter{}, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return repository.PaymentFilter{}, err
	}
	return repository.PaymentFilter{
		InvoiceID: in.InvoiceID,
		Method:    in.Method,
		Status:    in.Status,
		From:      from,
		To:        to,
	}, nil
}
