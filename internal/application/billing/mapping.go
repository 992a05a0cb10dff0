package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	domainbilling "github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// DefaultDueDays plazo de pago cuando la empresa no configura otro.
const DefaultDueDays = 30

func toLineItems(in []dto.LineItemRequest) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(in))
	for _, it := range in {
		items = append(items, entity.LineItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		})
	}
	return items
}

func toLineItemResponses(items []entity.LineItem) []dto.LineItemResponse {
	out := make([]dto.LineItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, dto.LineItemResponse{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

// toInvoiceResponse reporta el estado efectivo a la fecha now.
func toInvoiceResponse(inv *entity.Invoice, now time.Time) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		Number:      inv.Number,
		ContactID:   inv.ContactID,
		ClientName:  inv.ClientName,
		ClientEmail: inv.ClientEmail,
		IssueDate:   dto.FormatDate(inv.IssueDate),
		DueDate:     dto.FormatDate(inv.DueDate),
		Items:       toLineItemResponses(inv.Items),
		NetTotal:    inv.NetTotal,
		TaxTotal:    inv.TaxTotal,
		GrandTotal:  inv.GrandTotal,
		AmountPaid:  inv.AmountPaid,
		Outstanding: inv.Outstanding(),
		Status:      domainbilling.EffectiveInvoiceStatus(inv, now),
		QuoteID:     inv.QuoteID,
		Notes:       inv.Notes,
		CreatedAt:   inv.CreatedAt,
	}
}

func toQuoteResponse(q *entity.Quote, now time.Time) *dto.QuoteResponse {
	return &dto.QuoteResponse{
		ID:          q.ID,
		Number:      q.Number,
		ContactID:   q.ContactID,
		ClientName:  q.ClientName,
		ClientEmail: q.ClientEmail,
		IssueDate:   dto.FormatDate(q.IssueDate),
		ValidUntil:  dto.FormatDate(q.ValidUntil),
		Items:       toLineItemResponses(q.Items),
		NetTotal:    q.NetTotal,
		TaxTotal:    q.TaxTotal,
		GrandTotal:  q.GrandTotal,
		Status:      domainbilling.EffectiveQuoteStatus(q, now),
		InvoiceID:   q.InvoiceID,
		Notes:       q.Notes,
		CreatedAt:   q.CreatedAt,
	}
}

// ToPaymentResponse convierte un pago; invoiceNumber puede ir vacío.
func ToPaymentResponse(p *entity.Payment, invoiceNumber string) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		Number:        p.Number,
		InvoiceID:     p.InvoiceID,
		InvoiceNumber: invoiceNumber,
		Amount:        p.Amount,
		Method:        p.Method,
		Date:          dto.FormatDate(p.Date),
		Reference:     p.Reference,
		Status:        p.Status,
		Reconciled:    p.Reconciled,
		Notes:         p.Notes,
	}
}

// documentFilter traduce los filtros del request.
func documentFilter(in dto.DocumentListRequest) (repository.DocumentFilter, error) {
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return repository.DocumentFilter{}, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return repository.DocumentFilter{}, err
	}
	return repository.DocumentFilter{
		Status: in.Status,
		Search: strings.TrimSpace(in.Search),
		From:   from,
		To:     to,
		Limit:  in.Limit,
		Offset: in.Offset,
	}, nil
}

func requireClient(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: cliente requerido", domain.ErrInvalidInput)
	}
	return nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
