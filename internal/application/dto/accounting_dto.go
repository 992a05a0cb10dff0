package dto

import "github.com/shopspring/decimal"

// TransactionRequest body para crear o actualizar un movimiento contable.
type TransactionRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"` // income | expense
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status,omitempty"` // pending | cleared
	Reference   string          `json:"reference,omitempty"`
}

// TransactionResponse movimiento en respuestas.
type TransactionResponse struct {
	ID          string          `json:"id"`
	Number      int64           `json:"number"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Reference   string          `json:"reference,omitempty"`
	PaymentID   string          `json:"payment_id,omitempty"`
}

// TransactionListRequest filtros de GET /api/transactions.
type TransactionListRequest struct {
	Type     string `query:"type"`
	Category string `query:"category"`
	Status   string `query:"status"`
	Search   string `query:"q"`
	From     string `query:"from"`
	To       string `query:"to"`
	PageRequest
}

// TransactionListResponse lista paginada de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CategoryTotalDTO total de una categoría en el resumen.
type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// AccountingSummaryResponse respuesta de GET /api/transactions/summary.
type AccountingSummaryResponse struct {
	From       string             `json:"from"`
	To         string             `json:"to"`
	Income     decimal.Decimal    `json:"income"`
	Expense    decimal.Decimal    `json:"expense"`
	Net        decimal.Decimal    `json:"net"`
	Categories []CategoryTotalDTO `json:"categories"`
}

// ReconciliationPairDTO par propuesto movimiento ↔ pago.
type ReconciliationPairDTO struct {
	Transaction TransactionResponse `json:"transaction"`
	Payment     PaymentResponse     `json:"payment"`
	ByReference bool                `json:"by_reference"`
}

// ReconciliationResponse respuesta de GET /api/transactions/reconciliation.
type ReconciliationResponse struct {
	Pairs                 []ReconciliationPairDTO `json:"pairs"`
	UnmatchedTransactions []TransactionResponse   `json:"unmatched_transactions"`
	UnmatchedPayments     []PaymentResponse       `json:"unmatched_payments"`
}

// ReconcileRequest body para POST /api/transactions/reconciliation.
type ReconcileRequest struct {
	TransactionID string `json:"transaction_id"`
	PaymentID     string `json:"payment_id"`
}
