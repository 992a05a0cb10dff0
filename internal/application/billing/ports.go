package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// PDFDocument datos comunes de factura y cotización para la representación gráfica.
type PDFDocument struct {
	DocumentType string // entity.DocumentInvoice | entity.DocumentQuote
	Number       string
	IssueDate    time.Time
	DueDate      time.Time // vencimiento (factura) o vigencia (cotización)
	ClientName   string
	ClientEmail  string
	Items        []entity.LineItem
	NetTotal     decimal.Decimal
	TaxTotal     decimal.Decimal
	GrandTotal   decimal.Decimal
	AmountPaid   decimal.Decimal
	Status       string
	Notes        string
	QRData       string // número|fecha|total, referencia de pago
}

// PDFGenerator puerto de salida para generar el PDF de un documento.
type PDFGenerator interface {
	GeneratePDF(ctx context.Context, doc *PDFDocument, company *entity.Company) ([]byte, error)
}
