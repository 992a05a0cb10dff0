package entity

import "github.com/shopspring/decimal"

// LineItem representa una línea de factura o cotización.
// TaxRate se expresa en porcentaje (19 = 19%).
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}
