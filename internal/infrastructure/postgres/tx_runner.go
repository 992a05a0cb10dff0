package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(repository.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepos construye todos los repositorios sobre q (pool o tx).
func NewRepos(q Querier) repository.Repos {
	return repository.Repos{
		Companies:    NewCompanyRepository(q),
		Users:        NewUserRepository(q),
		Contacts:     NewContactRepository(q),
		Invoices:     NewInvoiceRepository(q),
		Quotes:       NewQuoteRepository(q),
		Series:       NewNumberingSeriesRepository(q),
		Payments:     NewPaymentRepository(q),
		Transactions: NewTransactionRepository(q),
		Locker:       &advisoryLocker{q: q},
	}
}

// advisoryLocker toma un pg_advisory_xact_lock por (empresa, alcance); se libera con el commit/rollback.
// Fuera de una transacción el bloqueo se libera al terminar la sentencia, por eso solo se usa vía RunInTx.
type advisoryLocker struct {
	q Querier
}

func (l *advisoryLocker) LockSequence(ctx context.Context, companyID, scope string) error {
	_, err := l.q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, companyID+":"+scope)
	if err != nil {
		return fmt.Errorf("lock sequence %s: %w", scope, err)
	}
	return nil
}
