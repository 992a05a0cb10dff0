package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
// Las líneas se guardan como JSONB en la misma fila.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, number, seq, series_id, contact_id, client_name, client_email,
	issue_date, due_date, items, net_total, tax_total, grand_total, amount_paid, status, quote_id, notes,
	created_at, updated_at`

func scanInvoice(row pgxScanner) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Number, &inv.Seq, &inv.SeriesID, &inv.ContactID, &inv.ClientName, &inv.ClientEmail,
		&inv.IssueDate, &inv.DueDate, &inv.Items, &inv.NetTotal, &inv.TaxTotal, &inv.GrandTotal, &inv.AmountPaid,
		&inv.Status, &inv.QuoteID, &inv.Notes, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func nonNilItems(items []entity.LineItem) []entity.LineItem {
	if items == nil {
		return []entity.LineItem{}
	}
	return items
}

// Create persiste la factura con sus líneas.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.CompanyID, inv.Number, inv.Seq, inv.SeriesID, inv.ContactID, inv.ClientName, inv.ClientEmail,
		inv.IssueDate, inv.DueDate, nonNilItems(inv.Items), inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.AmountPaid,
		inv.Status, inv.QuoteID, inv.Notes, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura %s", domain.ErrDuplicate, inv.Number)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByID obtiene una factura completa por ID.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id)
}

// GetByNumber obtiene una factura por su número formateado.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, companyID, number string) (*entity.Invoice, error) {
	return r.getOne(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE company_id = $1 AND number = $2`, companyID, number)
}

func (r *InvoiceRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// List lista facturas con filtros, más recientes primero.
func (r *InvoiceRepo) List(ctx context.Context, companyID string, f repository.DocumentFilter) ([]*entity.Invoice, int, error) {
	w := documentWhere(companyID, f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	suffix, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM invoices`+w.sql()+` ORDER BY issue_date DESC, seq DESC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// Update actualiza estado, pagos y datos del cliente. Número y serie no cambian.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET contact_id = $2, client_name = $3, client_email = $4, issue_date = $5, due_date = $6,
		    items = $7, net_total = $8, tax_total = $9, grand_total = $10, amount_paid = $11,
		    status = $12, quote_id = $13, notes = $14, updated_at = $15
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		inv.ID, inv.ContactID, inv.ClientName, inv.ClientEmail, inv.IssueDate, inv.DueDate,
		nonNilItems(inv.Items), inv.NetTotal, inv.TaxTotal, inv.GrandTotal, inv.AmountPaid,
		inv.Status, inv.QuoteID, inv.Notes, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una factura por ID.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// MaxSeq devuelve el último consecutivo usado en la serie (opcionalmente en un año).
func (r *InvoiceRepo) MaxSeq(ctx context.Context, companyID, seriesID string, year int) (int64, error) {
	return maxSeq(ctx, r.q, "invoices", companyID, seriesID, year)
}

func documentWhere(companyID string, f repository.DocumentFilter) *where {
	w := newWhere(companyID)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.addMulti("(number ILIKE ? OR client_name ILIKE ? OR client_email ILIKE ?)", likePattern(f.Search))
	}
	if f.From != nil {
		w.add("issue_date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("issue_date <= ?", *f.To)
	}
	return w
}

func maxSeq(ctx context.Context, q Querier, table, companyID, seriesID string, year int) (int64, error) {
	query := `SELECT COALESCE(MAX(seq), 0) FROM ` + table + ` WHERE company_id = $1 AND series_id = $2`
	args := []any{companyID, seriesID}
	if year > 0 {
		query += ` AND EXTRACT(YEAR FROM issue_date) = $3`
		args = append(args, year)
	}
	var n int64
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("max seq %s: %w", table, err)
	}
	return n, nil
}
