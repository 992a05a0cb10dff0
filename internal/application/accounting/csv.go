package accounting

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
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// TransactionColumns orden fijo de columnas del CSV de movimientos.
var TransactionColumns = []string{"number", "date", "description", "category", "type", "amount", "status", "reference"}

// Export escribe los movimientos de la empresa en w.
func (uc *TransactionUseCase) Export(ctx context.Context, companyID string, w io.Writer, format csvcodec.Format) error {
	list, _, err := uc.repo.List(ctx, companyID, repository.TransactionFilter{})
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{
			strconv.FormatInt(t.Number, 10), dto.FormatDate(t.Date), t.Description, t.Category,
			t.Type, t.Amount.StringFixed(2), t.Status, t.Reference,
		})
	}
	return csvcodec.Encode(w, format, TransactionColumns, rows)
}

// Import crea movimientos desde un CSV (primera fila = encabezado, number ignorado).
//
// legacy: celdas faltantes vacías; monto o fecha ilegibles quedan en cero; tipo desconocido
// pasa a income y un monto negativo se toma en valor absoluto.
// rfc4180: esas filas se rechazan y se reportan; el resto se importa. Atómico por request.
func (uc *TransactionUseCase) Import(ctx context.Context, companyID string, r io.Reader, in dto.ImportOptions) (*dto.ImportResult, error) {
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
	var list []*entity.Transaction
	for i, row := range records[1:] {
		line := i + 2
		t, reason := transactionFromRow(row, format)
		if reason != "" {
			log.Warn().Str("company_id", companyID).Int("line", line).Str("reason", reason).Msg("importación de movimientos: fila rechazada")
			result.Rejected = append(result.Rejected, dto.RowError{Line: line, Reason: reason})
			continue
		}
		t.ID = uuid.New().String()
		t.CompanyID = companyID
		t.CreatedAt, t.UpdatedAt = now, now
		list = append(list, t)
	}

	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		return createNumbered(ctx, repos, list)
	})
	if err != nil {
		return nil, err
	}
	result.Imported = len(list)
	log.Info().Str("company_id", companyID).Int("imported", result.Imported).Int("rejected", len(result.Rejected)).
		Msg("importación de movimientos completada")
	return result, nil
}

func transactionFromRow(row []string, format csvcodec.Format) (*entity.Transaction, string) {
	strict := format == csvcodec.FormatRFC4180
	if strict && len(row) != len(TransactionColumns) {
		return nil, fmt.Sprintf("se esperaban %d columnas, hay %d", len(TransactionColumns), len(row))
	}
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	t := &entity.Transaction{
		Description: cell(2),
		Category:    cell(3),
		Type:        strings.ToLower(cell(4)),
		Status:      strings.ToLower(cell(6)),
		Reference:   cell(7),
	}

	date, err := time.Parse(dto.DateLayout, cell(1))
	if err != nil {
		if strict {
			return nil, fmt.Sprintf("fecha inválida %q", cell(1))
		}
		date = time.Time{}
	}
	t.Date = date

	amount, err := decimal.NewFromString(cell(5))
	if err != nil {
		if strict {
			return nil, fmt.Sprintf("monto inválido %q", cell(5))
		}
		amount = decimal.Zero
	}
	if amount.IsNegative() {
		if strict {
			return nil, "monto negativo, use type=expense"
		}
		amount = amount.Abs()
	}
	if strict && amount.IsZero() {
		return nil, "el monto debe ser mayor que cero"
	}
	t.Amount = amount

	if t.Type != entity.TransactionIncome && t.Type != entity.TransactionExpense {
		if strict {
			return nil, fmt.Sprintf("tipo desconocido %q", t.Type)
		}
		t.Type = entity.TransactionIncome
	}
	if t.Status != entity.TransactionCleared {
		t.Status = entity.TransactionPending
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if strict && t.Description == "" {
		return nil, "descripción vacía"
	}
	return t, ""
}
