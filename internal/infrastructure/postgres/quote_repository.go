package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.QuoteRepository = (*QuoteRepo)(nil)

// QuoteRepo implementación de QuoteRepository (usable con pool o tx).
type QuoteRepo struct {
	q Querier
}

// NewQuoteRepository construye el adaptador. Pasar pool o tx (Querier).
func NewQuoteRepository(q Querier) *QuoteRepo {
	return &QuoteRepo{q: q}
}

const quoteColumns = `id, company_id, number, seq, series_id, contact_id, client_name, client_email,
	issue_date, valid_until, items, net_total, tax_total, grand_total, status, invoice_id, notes,
	created_at, updated_at`

func scanQuote(row pgxScanner) (*entity.Quote, error) {
	var q entity.Quote
	err := row.Scan(
		&q.ID, &q.CompanyID, &q.Number, &q.Seq, &q.SeriesID, &q.ContactID, &q.ClientName, &q.ClientEmail,
		&q.IssueDate, &q.ValidUntil, &q.Items, &q.NetTotal, &q.TaxTotal, &q.GrandTotal,
		&q.Status, &q.InvoiceID, &q.Notes, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// Create persiste la cotización con sus líneas.
func (r *QuoteRepo) Create(ctx context.Context, q *entity.Quote) error {
	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		q.ID, q.CompanyID, q.Number, q.Seq, q.SeriesID, q.ContactID, q.ClientName, q.ClientEmail,
		q.IssueDate, q.ValidUntil, nonNilItems(q.Items), q.NetTotal, q.TaxTotal, q.GrandTotal,
		q.Status, q.InvoiceID, q.Notes, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: cotización %s", domain.ErrDuplicate, q.Number)
		}
		return fmt.Errorf("insert quote: %w", err)
	}
	return nil
}

// GetByID obtiene una cotización por ID.
func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*entity.Quote, error) {
	return r.getOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
}

// GetByNumber obtiene una cotización por número.
func (r *QuoteRepo) GetByNumber(ctx context.Context, companyID, number string) (*entity.Quote, error) {
	return r.getOne(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE company_id = $1 AND number = $2`, companyID, number)
}

func (r *QuoteRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Quote, error) {
	q, err := scanQuote(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quote: %w", err)
	}
	return q, nil
}

// List lista cotizaciones con filtros, más recientes primero.
func (r *QuoteRepo) List(ctx context.Context, companyID string, f repository.DocumentFilter) ([]*entity.Quote, int, error) {
	w := documentWhere(companyID, f)
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM quotes`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}
	suffix, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+quoteColumns+` FROM quotes`+w.sql()+` ORDER BY issue_date DESC, seq DESC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		list = append(list, q)
	}
	return list, total, rows.Err()
}

// Update actualiza la cotización (número y serie no cambian).
func (r *QuoteRepo) Update(ctx context.Context, q *entity.Quote) error {
	query := `
		UPDATE quotes
		SET contact_id = $2, client_name = $3, client_email = $4, issue_date = $5, valid_until = $6,
		    items = $7, net_total = $8, tax_total = $9, grand_total = $10,
		    status = $11, invoice_id = $12, notes = $13, updated_at = $14
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		q.ID, q.ContactID, q.ClientName, q.ClientEmail, q.IssueDate, q.ValidUntil,
		nonNilItems(q.Items), q.NetTotal, q.TaxTotal, q.GrandTotal,
		q.Status, q.InvoiceID, q.Notes, q.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update quote: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una cotización por ID.
func (r *QuoteRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quote: %w", err)
	}
	return nil
}

// MaxSeq devuelve el último consecutivo usado en la serie.
func (r *QuoteRepo) MaxSeq(ctx context.Context, companyID, seriesID string, year int) (int64, error) {
	return maxSeq(ctx, r.q, "quotes", companyID, seriesID, year)
}
