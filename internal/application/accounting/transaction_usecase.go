// Package accounting casos de uso de movimientos contables y conciliación.
package accounting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain"
	domainaccounting "github.com/jhoicas/crm-api/internal/domain/accounting"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

const sequenceScope = "transactions"

// DefaultCategory categoría asignada cuando no se indica ninguna.
const DefaultCategory = "general"

// TransactionUseCase casos de uso de movimientos contables.
type TransactionUseCase struct {
	repo     repository.TransactionRepository
	payments repository.PaymentRepository
	tx       ports.TxRunner
	window   time.Duration
}

// NewTransactionUseCase construye el caso de uso. window es la tolerancia de fechas de la
// conciliación automática; <= 0 usa la de dominio.
func NewTransactionUseCase(repo repository.TransactionRepository, payments repository.PaymentRepository, tx ports.TxRunner, window time.Duration) *TransactionUseCase {
	if window <= 0 {
		window = domainaccounting.DefaultWindow
	}
	return &TransactionUseCase{repo: repo, payments: payments, tx: tx, window: window}
}

// Create registra un movimiento con el siguiente consecutivo de la empresa.
func (uc *TransactionUseCase) Create(ctx context.Context, companyID string, in dto.TransactionRequest) (*dto.TransactionResponse, error) {
	t, err := transactionFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	t.ID = uuid.New().String()
	t.CompanyID = companyID
	t.CreatedAt, t.UpdatedAt = now, now

	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		return createNumbered(ctx, repos, []*entity.Transaction{t})
	})
	if err != nil {
		return nil, err
	}
	out := toTransactionResponse(t)
	return &out, nil
}

// Get obtiene un movimiento de la empresa.
func (uc *TransactionUseCase) Get(ctx context.Context, companyID, id string) (*dto.TransactionResponse, error) {
	t, err := loadTransaction(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	out := toTransactionResponse(t)
	return &out, nil
}

// Update reemplaza los datos de un movimiento. Los conciliados no se modifican.
func (uc *TransactionUseCase) Update(ctx context.Context, companyID, id string, in dto.TransactionRequest) (*dto.TransactionResponse, error) {
	upd, err := transactionFromRequest(in)
	if err != nil {
		return nil, err
	}
	var t *entity.Transaction
	err = uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		t, err = lockTransaction(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if t.Status == entity.TransactionReconciled {
			return fmt.Errorf("%w: el movimiento %d está conciliado", domain.ErrConflict, t.Number)
		}
		t.Date, t.Description, t.Category = upd.Date, upd.Description, upd.Category
		t.Type, t.Amount, t.Status, t.Reference = upd.Type, upd.Amount, upd.Status, upd.Reference
		t.UpdatedAt = time.Now()
		return repos.Transactions.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	out := toTransactionResponse(t)
	return &out, nil
}

// Delete elimina un movimiento no conciliado.
func (uc *TransactionUseCase) Delete(ctx context.Context, companyID, id string) error {
	return uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		t, err := lockTransaction(ctx, repos, companyID, id)
		if err != nil {
			return err
		}
		if t.Status == entity.TransactionReconciled {
			return fmt.Errorf("%w: el movimiento %d está conciliado", domain.ErrConflict, t.Number)
		}
		return repos.Transactions.Delete(ctx, id)
	})
}

// List lista movimientos con filtros y paginación.
func (uc *TransactionUseCase) List(ctx context.Context, companyID string, in dto.TransactionListRequest) (*dto.TransactionListResponse, error) {
	in.DefaultPage()
	from, err := dto.ParseOptionalDate(in.From)
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseOptionalDate(in.To)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, companyID, repository.TransactionFilter{
		Type:     in.Type,
		Category: in.Category,
		Status:   in.Status,
		Search:   strings.TrimSpace(in.Search),
		From:     from,
		To:       to,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransactionResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransactionResponse(t))
	}
	return &dto.TransactionListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// Summary totaliza ingresos, gastos y categorías del período [from, to].
// Sin fechas se usa el mes en curso.
func (uc *TransactionUseCase) Summary(ctx context.Context, companyID, fromStr, toStr string) (*dto.AccountingSummaryResponse, error) {
	now := time.Now().UTC()
	from, err := dto.ParseDate(fromStr, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	to, err := dto.ParseDate(toStr, time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}

	totals, err := uc.repo.SumByCategory(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	out := &dto.AccountingSummaryResponse{
		From:       dto.FormatDate(from),
		To:         dto.FormatDate(to),
		Income:     decimal.Zero,
		Expense:    decimal.Zero,
		Categories: make([]dto.CategoryTotalDTO, 0, len(totals)),
	}
	for _, ct := range totals {
		if ct.Type == entity.TransactionExpense {
			out.Expense = out.Expense.Add(ct.Total)
		} else {
			out.Income = out.Income.Add(ct.Total)
		}
		out.Categories = append(out.Categories, dto.CategoryTotalDTO{
			Category: ct.Category, Type: ct.Type, Total: ct.Total, Count: ct.Count,
		})
	}
	out.Net = out.Income.Sub(out.Expense)
	return out, nil
}

func transactionFromRequest(in dto.TransactionRequest) (*entity.Transaction, error) {
	date, err := dto.ParseDate(in.Date, time.Time{})
	if err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: fecha requerida", domain.ErrInvalidInput)
	}
	t := &entity.Transaction{
		Date:        date,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Type:        in.Type,
		Amount:      in.Amount,
		Status:      in.Status,
		Reference:   strings.TrimSpace(in.Reference),
	}
	if t.Category == "" {
		t.Category = DefaultCategory
	}
	if t.Status == "" {
		t.Status = entity.TransactionPending
	}
	if err := validateTransaction(t); err != nil {
		return nil, err
	}
	return t, nil
}

func validateTransaction(t *entity.Transaction) error {
	if t.Description == "" {
		return fmt.Errorf("%w: descripción requerida", domain.ErrInvalidInput)
	}
	if t.Type != entity.TransactionIncome && t.Type != entity.TransactionExpense {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: el monto debe ser mayor que cero", domain.ErrInvalidInput)
	}
	if t.Status != entity.TransactionPending && t.Status != entity.TransactionCleared {
		return fmt.Errorf("%w: estado %q (la conciliación se hace por su propio endpoint)", domain.ErrInvalidInput, t.Status)
	}
	return nil
}

// createNumbered asigna consecutivos bajo el bloqueo de secuencia. Debe llamarse en una transacción.
func createNumbered(ctx context.Context, repos repository.Repos, list []*entity.Transaction) error {
	if len(list) == 0 {
		return nil
	}
	companyID := list[0].CompanyID
	if err := repos.Locker.LockSequence(ctx, companyID, sequenceScope); err != nil {
		return err
	}
	last, err := repos.Transactions.MaxNumber(ctx, companyID)
	if err != nil {
		return err
	}
	for _, t := range list {
		last++
		t.Number = last
		if err := repos.Transactions.Create(ctx, t); err != nil {
			return fmt.Errorf("crear movimiento %d: %w", t.Number, err)
		}
	}
	return nil
}

// lockTransaction bloquea el movimiento antes de leerlo; conciliar y editar no se pisan.
func lockTransaction(ctx context.Context, repos repository.Repos, companyID, id string) (*entity.Transaction, error) {
	if err := repository.LockDocument(ctx, repos, companyID, "transaction", id); err != nil {
		return nil, err
	}
	return loadTransaction(ctx, repos.Transactions, companyID, id)
}

func loadTransaction(ctx context.Context, repo repository.TransactionRepository, companyID, id string) (*entity.Transaction, error) {
	t, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil || t.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	return dto.TransactionResponse{
		ID:          t.ID,
		Number:      t.Number,
		Date:        dto.FormatDate(t.Date),
		Description: t.Description,
		Category:    t.Category,
		Type:        t.Type,
		Amount:      t.Amount,
		Status:      t.Status,
		Reference:   t.Reference,
		PaymentID:   t.PaymentID,
	}
}
