package crm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	domaincrm "github.com/jhoicas/crm-api/internal/domain/crm"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// ContactColumns orden fijo de columnas del CSV de contactos.
var ContactColumns = []string{
	"number", "first_name", "last_name", "email", "phone",
	"company", "position", "status", "tags", "notes",
}

// tagSep separa etiquetas dentro de la celda "tags".
const tagSep = ";"

// Export escribe todos los contactos de la empresa en w.
func (uc *ContactUseCase) Export(ctx context.Context, companyID string, w io.Writer, format csvcodec.Format) error {
	list, err := uc.repo.ListAll(ctx, companyID)
	if err != nil {
		return err
	}
	return csvcodec.Encode(w, format, ContactColumns, ContactRows(list))
}

// ContactRows convierte contactos en filas con el orden de ContactColumns.
func ContactRows(list []*entity.Contact) [][]string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{
			strconv.FormatInt(c.Number, 10), c.FirstName, c.LastName, c.Email, c.Phone,
			c.CompanyName, c.Position, c.Status, strings.Join(c.Tags, tagSep), c.Notes,
		})
	}
	return rows
}

// Import crea contactos a partir de un CSV. La primera fila es el encabezado; la columna
// number se ignora y se asignan consecutivos nuevos. Con in.Dedup se descartan las filas
// que repiten un contacto existente o una fila anterior.
//
// En formato legacy las celdas faltantes quedan vacías y un estado desconocido pasa a lead;
// en rfc4180 esas filas se rechazan y se reportan. La importación es atómica.
func (uc *ContactUseCase) Import(ctx context.Context, companyID string, r io.Reader, in dto.ImportOptions) (*dto.ImportResult, error) {
	format, err := csvcodec.ParseFormat(in.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	records, err := csvcodec.Decode(r, format, csvcodec.Options{Charset: in.Charset})
	if err != nil {
		if errors.Is(err, csvcodec.ErrUnknownFormat) {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedFileFormat, err)
	}

	result := &dto.ImportResult{Rejected: []dto.RowError{}}
	if len(records) <= 1 {
		return result, nil
	}

	now := time.Now()
	var parsed []*entity.Contact
	for i, row := range records[1:] {
		line := i + 2
		c, reason := contactFromRow(row, format)
		if reason != "" {
			log.Warn().Str("company_id", companyID).Int("line", line).Str("reason", reason).Msg("importación de contactos: fila rechazada")
			result.Rejected = append(result.Rejected, dto.RowError{Line: line, Reason: reason})
			continue
		}
		c.ID = uuid.New().String()
		c.CompanyID = companyID
		c.CreatedAt, c.UpdatedAt = now, now
		parsed = append(parsed, c)
	}

	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		toCreate := parsed
		if in.Dedup {
			if err := repos.Locker.LockSequence(ctx, companyID, sequenceScope); err != nil {
				return err
			}
			existing, err := repos.Contacts.ListAll(ctx, companyID)
			if err != nil {
				return err
			}
			idx := domaincrm.NewIndex(domaincrm.Options{})
			for _, c := range existing {
				idx.Add(c.FirstName, c.LastName, c.Email)
			}
			toCreate = toCreate[:0:0]
			for _, c := range parsed {
				if !idx.Add(c.FirstName, c.LastName, c.Email) {
					result.Duplicates++
					continue
				}
				toCreate = append(toCreate, c)
			}
		}
		if err := createNumbered(ctx, repos, toCreate); err != nil {
			return err
		}
		result.Imported = len(toCreate)
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("company_id", companyID).Int("imported", result.Imported).
		Int("duplicates", result.Duplicates).Int("rejected", len(result.Rejected)).
		Msg("importación de contactos completada")
	return result, nil
}

// contactFromRow mapea una fila posicionalmente. Devuelve un motivo si la fila se rechaza.
func contactFromRow(row []string, format csvcodec.Format) (*entity.Contact, string) {
	if format == csvcodec.FormatRFC4180 && len(row) != len(ContactColumns) {
		return nil, fmt.Sprintf("se esperaban %d columnas, hay %d", len(ContactColumns), len(row))
	}
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	c := &entity.Contact{
		FirstName:   cell(1),
		LastName:    cell(2),
		Email:       cell(3),
		Phone:       cell(4),
		CompanyName: cell(5),
		Position:    cell(6),
		Status:      strings.ToLower(strings.TrimSpace(cell(7))),
		Tags:        normalizeTags(strings.Split(cell(8), tagSep)),
		Notes:       cell(9),
	}
	switch {
	case c.Status == "":
		c.Status = entity.ContactStatusLead
	case !entity.ValidContactStatus(c.Status):
		if format == csvcodec.FormatRFC4180 {
			return nil, fmt.Sprintf("estado desconocido %q", c.Status)
		}
		c.Status = entity.ContactStatusLead
	}
	if err := validateContact(c); err != nil {
		return nil, "fila sin nombre, apellido ni email"
	}
	return c, ""
}
