package accounting

import (
	"context"
	"fmt"
	"time"

	appbilling "github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain"
	domainaccounting "github.com/jhoicas/crm-api/internal/domain/accounting"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// Suggest propone pares movimiento ↔ pago sin modificar nada.
func (uc *TransactionUseCase) Suggest(ctx context.Context, companyID string) (*dto.ReconciliationResponse, error) {
	txs, _, err := uc.repo.List(ctx, companyID, repository.TransactionFilter{Type: entity.TransactionIncome})
	if err != nil {
		return nil, err
	}
	notReconciled := false
	pays, _, err := uc.payments.List(ctx, companyID, repository.PaymentFilter{
		Status:     entity.PaymentStatusCompleted,
		Reconciled: &notReconciled,
	})
	if err != nil {
		return nil, err
	}

	res := domainaccounting.Match(txs, pays, uc.window)
	out := &dto.ReconciliationResponse{
		Pairs:                 make([]dto.ReconciliationPairDTO, 0, len(res.Pairs)),
		UnmatchedTransactions: make([]dto.TransactionResponse, 0, len(res.UnmatchedTransactions)),
		UnmatchedPayments:     make([]dto.PaymentResponse, 0, len(res.UnmatchedPayments)),
	}
	for _, p := range res.Pairs {
		out.Pairs = append(out.Pairs, dto.ReconciliationPairDTO{
			Transaction: toTransactionResponse(p.Transaction),
			Payment:     appbilling.ToPaymentResponse(p.Payment, ""),
			ByReference: p.ByReference,
		})
	}
	for _, t := range res.UnmatchedTransactions {
		out.UnmatchedTransactions = append(out.UnmatchedTransactions, toTransactionResponse(t))
	}
	for _, p := range res.UnmatchedPayments {
		out.UnmatchedPayments = append(out.UnmatchedPayments, appbilling.ToPaymentResponse(p, ""))
	}
	return out, nil
}

// Reconcile confirma un par: marca el pago como conciliado y el movimiento como reconciled
// enlazado al pago, en una sola transacción. Los montos deben coincidir.
func (uc *TransactionUseCase) Reconcile(ctx context.Context, companyID, transactionID, paymentID string) (*dto.ReconciliationPairDTO, error) {
	var t *entity.Transaction
	var p *entity.Payment
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		t, err = lockTransaction(ctx, repos, companyID, transactionID)
		if err != nil {
			return err
		}
		if err := repository.LockDocument(ctx, repos, companyID, "payment", paymentID); err != nil {
			return err
		}
		p, err = repos.Payments.GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil || p.CompanyID != companyID {
			return domain.ErrNotFound
		}
		if !domainaccounting.Eligible(t) {
			return fmt.Errorf("%w: el movimiento %d no es un ingreso pendiente de conciliar", domain.ErrConflict, t.Number)
		}
		if !domainaccounting.PaymentEligible(p) {
			return fmt.Errorf("%w: el pago %d no está disponible para conciliar", domain.ErrConflict, p.Number)
		}
		if !t.Amount.Equal(p.Amount) {
			return fmt.Errorf("%w: montos distintos (%s ≠ %s)", domain.ErrConflict, t.Amount, p.Amount)
		}

		now := time.Now()
		t.Status = entity.TransactionReconciled
		t.PaymentID = p.ID
		t.UpdatedAt = now
		p.Reconciled = true
		p.UpdatedAt = now
		if err := repos.Transactions.Update(ctx, t); err != nil {
			return err
		}
		return repos.Payments.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ReconciliationPairDTO{
		Transaction: toTransactionResponse(t),
		Payment:     appbilling.ToPaymentResponse(p, ""),
	}, nil
}

// Unreconcile deshace la conciliación de un movimiento; queda en estado cleared.
func (uc *TransactionUseCase) Unreconcile(ctx context.Context, companyID, transactionID string) (*dto.TransactionResponse, error) {
	var t *entity.Transaction
	err := uc.tx.RunInTx(ctx, func(repos repository.Repos) error {
		var err error
		t, err = lockTransaction(ctx, repos, companyID, transactionID)
		if err != nil {
			return err
		}
		if t.Status != entity.TransactionReconciled {
			return fmt.Errorf("%w: el movimiento %d no está conciliado", domain.ErrConflict, t.Number)
		}
		now := time.Now()
		if t.PaymentID != "" {
			if err := repository.LockDocument(ctx, repos, companyID, "payment", t.PaymentID); err != nil {
				return err
			}
			p, err := repos.Payments.GetByID(ctx, t.PaymentID)
			if err != nil {
				return err
			}
			if p != nil {
				p.Reconciled = false
				p.UpdatedAt = now
				if err := repos.Payments.Update(ctx, p); err != nil {
					return err
				}
			}
		}
		t.Status = entity.TransactionCleared
		t.PaymentID = ""
		t.UpdatedAt = now
		return repos.Transactions.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	out := toTransactionResponse(t)
	return &out, nil
}
