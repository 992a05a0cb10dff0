package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-api/internal/domain"
	domainbilling "github.com/jhoicas/crm-api/internal/domain/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de facturas y cotizaciones.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	quoteRepo   repository.QuoteRepository
	companyRepo repository.CompanyRepository
	generator   PDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	quoteRepo repository.QuoteRepository,
	companyRepo repository.CompanyRepository,
	generator PDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		quoteRepo:   quoteRepo,
		companyRepo: companyRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF genera el PDF de una factura.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe o es de otra empresa.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	inv, err := loadInvoice(ctx, uc.invoiceRepo, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	doc := &PDFDocument{
		DocumentType: entity.DocumentInvoice,
		Number:       inv.Number,
		IssueDate:    inv.IssueDate,
		DueDate:      inv.DueDate,
		ClientName:   inv.ClientName,
		ClientEmail:  inv.ClientEmail,
		Items:        inv.Items,
		NetTotal:     inv.NetTotal,
		TaxTotal:     inv.TaxTotal,
		GrandTotal:   inv.GrandTotal,
		AmountPaid:   inv.AmountPaid,
		Status:       domainbilling.EffectiveInvoiceStatus(inv, time.Now()),
		Notes:        inv.Notes,
	}
	return uc.render(ctx, companyID, doc, "factura")
}

// DownloadQuotePDF genera el PDF de una cotización.
func (uc *PDFUseCase) DownloadQuotePDF(ctx context.Context, companyID, quoteID string) ([]byte, string, error) {
	q, err := loadQuote(ctx, uc.quoteRepo, companyID, quoteID)
	if err != nil {
		return nil, "", err
	}
	doc := &PDFDocument{
		DocumentType: entity.DocumentQuote,
		Number:       q.Number,
		IssueDate:    q.IssueDate,
		DueDate:      q.ValidUntil,
		ClientName:   q.ClientName,
		ClientEmail:  q.ClientEmail,
		Items:        q.Items,
		NetTotal:     q.NetTotal,
		TaxTotal:     q.TaxTotal,
		GrandTotal:   q.GrandTotal,
		Status:       domainbilling.EffectiveQuoteStatus(q, time.Now()),
		Notes:        q.Notes,
	}
	return uc.render(ctx, companyID, doc, "cotizacion")
}

func (uc *PDFUseCase) render(ctx context.Context, companyID string, doc *PDFDocument, prefix string) ([]byte, string, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	if company == nil {
		return nil, "", fmt.Errorf("pdf: %w: empresa %s", domain.ErrNotFound, companyID)
	}
	doc.QRData = QRPayload(doc.Number, doc.IssueDate, doc.GrandTotal.StringFixed(2))

	pdfBytes, err := uc.generator.GeneratePDF(ctx, doc, company)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s_%s.pdf", prefix, doc.Number), nil
}

// QRPayload referencia de pago impresa en el QR: número|fecha|total.
func QRPayload(number string, issue time.Time, total string) string {
	return number + "|" + issue.Format("2006-01-02") + "|" + total
}
