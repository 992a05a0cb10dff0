package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo implementación de ContactRepository (usable con pool o tx).
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador. Pasar pool o tx (Querier).
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, company_id, number, first_name, last_name, email, phone, company_name, position,
	status, tags, notes, photo_data_url, created_at, updated_at`

// pgxScanner abstrae pgx.Row y pgx.Rows para reutilizar los scan*.
type pgxScanner interface {
	Scan(dest ...any) error
}

func scanContact(row pgxScanner) (*entity.Contact, error) {
	var c entity.Contact
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Number, &c.FirstName, &c.LastName, &c.Email, &c.Phone, &c.CompanyName, &c.Position,
		&c.Status, &c.Tags, &c.Notes, &c.PhotoDataURL, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// Create persiste un nuevo contacto.
func (r *ContactRepo) Create(ctx context.Context, c *entity.Contact) error {
	query := `
		INSERT INTO contacts (` + contactColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CompanyID, c.Number, c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyName, c.Position,
		c.Status, nonNilTags(c.Tags), c.Notes, c.PhotoDataURL, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto por ID.
func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.Contact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// List lista contactos con filtros; devuelve la página y el total.
func (r *ContactRepo) List(ctx context.Context, companyID string, f repository.ContactFilter) ([]*entity.Contact, int, error) {
	w := newWhere(companyID)
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Tag != "" {
		w.add("? = ANY(tags)", f.Tag)
	}
	if f.Search != "" {
		w.addMulti("(first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR company_name ILIKE ?)", likePattern(f.Search))
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM contacts`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count contacts: %w", err)
	}
	suffix, args := w.page(f.Limit, f.Offset)
	list, err := r.query(ctx, `SELECT `+contactColumns+` FROM contacts`+w.sql()+` ORDER BY number`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll devuelve todos los contactos de la empresa por número.
func (r *ContactRepo) ListAll(ctx context.Context, companyID string) ([]*entity.Contact, error) {
	return r.query(ctx, `SELECT `+contactColumns+` FROM contacts WHERE company_id = $1 ORDER BY number`, companyID)
}

func (r *ContactRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Contact, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos editables del contacto.
func (r *ContactRepo) Update(ctx context.Context, c *entity.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $2, last_name = $3, email = $4, phone = $5, company_name = $6, position = $7,
		    status = $8, tags = $9, notes = $10, photo_data_url = $11, updated_at = $12
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.CompanyName, c.Position,
		c.Status, nonNilTags(c.Tags), c.Notes, c.PhotoDataURL, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un contacto por ID.
func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// DeleteMany elimina los IDs de la empresa en una sola sentencia.
func (r *ContactRepo) DeleteMany(ctx context.Context, companyID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM contacts WHERE company_id = $1 AND id = ANY($2::uuid[])`, companyID, ids)
	if err != nil {
		return 0, fmt.Errorf("delete contacts: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// MaxNumber devuelve el mayor número de contacto de la empresa (0 si no hay).
func (r *ContactRepo) MaxNumber(ctx context.Context, companyID string) (int64, error) {
	return maxNumber(ctx, r.q, "contacts", companyID)
}

// maxNumber consulta MAX(number) de una tabla con consecutivo por empresa.
func maxNumber(ctx context.Context, q Querier, table, companyID string) (int64, error) {
	var n int64
	err := q.QueryRow(ctx, `SELECT COALESCE(MAX(number), 0) FROM `+table+` WHERE company_id = $1`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("max number %s: %w", table, err)
	}
	return n, nil
}
