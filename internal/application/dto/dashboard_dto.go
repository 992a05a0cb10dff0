package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
type DashboardSummaryDTO struct {
	// Contactos por estado (lead, prospect, customer, inactive)
	ContactsByStatus map[string]int `json:"contacts_by_status"`
	TotalContacts    int            `json:"total_contacts"`

	// Cartera
	Outstanding   decimal.Decimal `json:"outstanding"`
	OverdueCount  int             `json:"overdue_count"`
	OverdueAmount decimal.Decimal `json:"overdue_amount"`

	// Mes en curso (día 1 – hoy)
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"` // pagos completados
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`  // movimientos de ingreso
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`

	// (converted + accepted) / (converted + accepted + rejected + expired) × 100
	QuoteConversionRate decimal.Decimal `json:"quote_conversion_rate"`

	TopClients []TopClientDTO `json:"top_clients"`

	DateLabel string `json:"date_label"` // ej: "Octubre 2026"
}

// TopClientDTO cliente del Top-5 por facturación.
type TopClientDTO struct {
	ClientName   string          `json:"client"`
	InvoiceCount int             `json:"invoice_count"`
	Total        decimal.Decimal `json:"total"`
}
