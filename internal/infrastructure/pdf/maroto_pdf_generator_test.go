package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

func sampleDoc(docType string) *appbilling.PDFDocument {
	issue := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	return &appbilling.PDFDocument{
		DocumentType: docType,
		Number:       "FAC-000007",
		IssueDate:    issue,
		DueDate:      issue.AddDate(0, 0, 30),
		ClientName:   "Durand SA",
		ClientEmail:  "compta@durand.fr",
		Items: []entity.LineItem{{
			Description: "Audit CRM",
			Quantity:    decimal.NewFromInt(2),
			UnitPrice:   decimal.NewFromInt(1200),
			TaxRate:     decimal.NewFromInt(20),
			Subtotal:    decimal.NewFromInt(2400),
		}},
		NetTotal:   decimal.NewFromInt(2400),
		TaxTotal:   decimal.NewFromInt(480),
		GrandTotal: decimal.NewFromInt(2880),
		AmountPaid: decimal.NewFromInt(1000),
		Status:     entity.InvoiceStatusPartial,
		Notes:      "Merci pour votre confiance",
		QRData:     appbilling.QRPayload("FAC-000007", issue, "2880.00"),
	}
}

func TestGeneratePDF_Factura(t *testing.T) {
	company := &entity.Company{Name: "Démo Conseil SARL", TaxID: "FR-123", Email: "contact@demo.crm"}
	out, err := NewMarotoPDFGenerator().GeneratePDF(context.Background(), sampleDoc(entity.DocumentInvoice), company)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGeneratePDF_CotizacionSinQR(t *testing.T) {
	doc := sampleDoc(entity.DocumentQuote)
	doc.QRData = ""
	doc.Notes = ""
	out, err := NewMarotoPDFGenerator().GeneratePDF(context.Background(), doc, &entity.Company{Name: "Démo"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGeneratePDF_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMarotoPDFGenerator().GeneratePDF(ctx, sampleDoc(entity.DocumentInvoice), &entity.Company{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":           "0,00",
		"999.5":       "999,50",
		"25000":       "25.000,00",
		"1234567.891": "1.234.567,89",
		"-1234.5":     "-1.234,50",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}
