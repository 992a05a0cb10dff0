package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.NumberingSeriesRepository = (*NumberingSeriesRepo)(nil)

// NumberingSeriesRepo implementa NumberingSeriesRepository sobre PostgreSQL.
type NumberingSeriesRepo struct {
	q Querier
}

// NewNumberingSeriesRepository construye el repositorio.
func NewNumberingSeriesRepository(q Querier) *NumberingSeriesRepo {
	return &NumberingSeriesRepo{q: q}
}

const seriesColumns = `id, company_id, document_type, prefix, mode, padding, range_from, range_to, is_active, created_at, updated_at`

func (r *NumberingSeriesRepo) Create(ctx context.Context, s *entity.NumberingSeries) error {
	const q = `
		INSERT INTO numbering_series (` + seriesColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, q,
		s.ID, s.CompanyID, s.DocumentType, s.Prefix, s.Mode, s.Padding,
		s.RangeFrom, s.RangeTo, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya hay una serie activa para %s", domain.ErrConflict, s.DocumentType)
		}
		return fmt.Errorf("insert numbering_series: %w", err)
	}
	return nil
}

func (r *NumberingSeriesRepo) GetByID(ctx context.Context, id string) (*entity.NumberingSeries, error) {
	s, err := scanSeries(r.q.QueryRow(ctx, `SELECT `+seriesColumns+` FROM numbering_series WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get numbering_series by id: %w", err)
	}
	return s, nil
}

// GetActive es la consulta crítica de la numeración.
// Devuelve nil, nil si no hay serie activa (se usa la serie por defecto).
func (r *NumberingSeriesRepo) GetActive(ctx context.Context, companyID, documentType string) (*entity.NumberingSeries, error) {
	const q = `
		SELECT ` + seriesColumns + `
		FROM numbering_series
		WHERE company_id    = $1
		  AND document_type = $2
		  AND is_active     = true
		LIMIT 1`
	s, err := scanSeries(r.q.QueryRow(ctx, q, companyID, documentType))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active numbering_series: %w", err)
	}
	return s, nil
}

func (r *NumberingSeriesRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.NumberingSeries, error) {
	const q = `
		SELECT ` + seriesColumns + `
		FROM numbering_series
		WHERE company_id = $1
		ORDER BY document_type, created_at`
	rows, err := r.q.Query(ctx, q, companyID)
	if err != nil {
		return nil, fmt.Errorf("list numbering_series: %w", err)
	}
	defer rows.Close()
	var list []*entity.NumberingSeries
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("scan numbering_series: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *NumberingSeriesRepo) Update(ctx context.Context, s *entity.NumberingSeries) error {
	const q = `
		UPDATE numbering_series
		SET prefix = $2, mode = $3, padding = $4, range_from = $5, range_to = $6,
		    is_active = $7, updated_at = $8
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, q,
		s.ID, s.Prefix, s.Mode, s.Padding, s.RangeFrom, s.RangeTo, s.IsActive, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ya hay una serie activa para %s", domain.ErrConflict, s.DocumentType)
		}
		return fmt.Errorf("update numbering_series: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NumberingSeriesRepo) DeactivateOthers(ctx context.Context, companyID, documentType, keepID string) error {
	const q = `
		UPDATE numbering_series
		SET is_active = false, updated_at = now()
		WHERE company_id = $1 AND document_type = $2 AND id <> $3::uuid AND is_active`
	if _, err := r.q.Exec(ctx, q, companyID, documentType, keepID); err != nil {
		return fmt.Errorf("deactivate numbering_series: %w", err)
	}
	return nil
}

func scanSeries(row pgxScanner) (*entity.NumberingSeries, error) {
	var s entity.NumberingSeries
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.DocumentType, &s.Prefix, &s.Mode, &s.Padding,
		&s.RangeFrom, &s.RangeTo, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
