package billing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Totals resume una lista de líneas.
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Grand decimal.Decimal
}

// ComputeTotals valida las líneas, rellena Subtotal y devuelve los totales redondeados a 2 decimales.
// TaxRate es porcentaje (0–100).
func ComputeTotals(items []entity.LineItem) (Totals, error) {
	if len(items) == 0 {
		return Totals{}, fmt.Errorf("%w: al menos una línea", domain.ErrInvalidInput)
	}
	var net, tax decimal.Decimal
	for i := range items {
		it := &items[i]
		if it.Description == "" || !it.Quantity.IsPositive() || it.UnitPrice.IsNegative() {
			return Totals{}, fmt.Errorf("%w: línea %d", domain.ErrInvalidInput, i+1)
		}
		if it.TaxRate.IsNegative() || it.TaxRate.GreaterThan(hundred) {
			return Totals{}, fmt.Errorf("%w: tarifa de impuesto en línea %d", domain.ErrInvalidInput, i+1)
		}
		it.Subtotal = it.Quantity.Mul(it.UnitPrice).Round(2)
		net = net.Add(it.Subtotal)
		tax = tax.Add(it.Subtotal.Mul(it.TaxRate).Div(hundred))
	}
	net = net.Round(2)
	tax = tax.Round(2)
	return Totals{Net: net, Tax: tax, Grand: net.Add(tax)}, nil
}
