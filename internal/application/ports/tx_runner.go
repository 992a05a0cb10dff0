package ports

import (
	"context"

	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con repositorios atados a ella.
// Si fn devuelve error se hace rollback y el error se propaga sin envolver.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(repos repository.Repos) error) error
}
