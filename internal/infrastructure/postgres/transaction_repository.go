package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository (usable con pool o tx).
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

const transactionColumns = `id, company_id, number, date, description, category, type, amount, status, reference, payment_id,
	created_at, updated_at`

func scanTransaction(row pgxScanner) (*entity.Transaction, error) {
	var t entity.Transaction
	err := row.Scan(
		&t.ID, &t.CompanyID, &t.Number, &t.Date, &t.Description, &t.Category, &t.Type, &t.Amount,
		&t.Status, &t.Reference, &t.PaymentID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un movimiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.Number, t.Date, t.Description, t.Category, t.Type, t.Amount,
		t.Status, t.Reference, t.PaymentID, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *TransactionRepo) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	t, err := scanTransaction(r.q.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// List lista movimientos con filtros, más recientes primero.
func (r *TransactionRepo) List(ctx context.Context, companyID string, f repository.TransactionFilter) ([]*entity.Transaction, int, error) {
	w := newWhere(companyID)
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		w.addMulti("(description ILIKE ? OR reference ILIKE ?)", likePattern(f.Search))
	}
	if f.From != nil {
		w.add("date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("date <= ?", *f.To)
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	suffix, args := w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, `SELECT `+transactionColumns+` FROM transactions`+w.sql()+` ORDER BY date DESC, number DESC`+suffix, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	var list []*entity.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

// Update actualiza un movimiento.
func (r *TransactionRepo) Update(ctx context.Context, t *entity.Transaction) error {
	query := `
		UPDATE transactions
		SET date = $2, description = $3, category = $4, type = $5, amount = $6, status = $7,
		    reference = $8, payment_id = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		t.ID, t.Date, t.Description, t.Category, t.Type, t.Amount, t.Status, t.Reference, t.PaymentID, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un movimiento por ID.
func (r *TransactionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

// MaxNumber devuelve el mayor número de movimiento de la empresa.
func (r *TransactionRepo) MaxNumber(ctx context.Context, companyID string) (int64, error) {
	return maxNumber(ctx, r.q, "transactions", companyID)
}

// SumByCategory agrupa por categoría y tipo los movimientos con fecha en [from, to].
func (r *TransactionRepo) SumByCategory(ctx context.Context, companyID string, from, to time.Time) ([]repository.CategoryTotal, error) {
	const query = `
		SELECT category, type, SUM(amount), COUNT(*)
		FROM transactions
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		GROUP BY category, type
		ORDER BY type, category`
	rows, err := r.q.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by category: %w", err)
	}
	defer rows.Close()
	var out []repository.CategoryTotal
	for rows.Next() {
		var ct repository.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Type, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		out = append(out, ct)
	}
	return out, rows.Err()
}
