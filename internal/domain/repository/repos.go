package repository

import "context"

// SequenceLocker serializa la asignación de consecutivos de una empresa.
// El bloqueo dura hasta el fin de la transacción en curso.
type SequenceLocker interface {
	LockSequence(ctx context.Context, companyID, scope string) error
}

// LockDocument bloquea un documento concreto (kind = "invoice", "payment", "quote",
// "transaction") hasta el fin de la transacción. Se toma antes de leerlo para que
// dos escrituras concurrentes no partan de la misma versión.
func LockDocument(ctx context.Context, repos Repos, companyID, kind, id string) error {
	if err := repos.Locker.LockSequence(ctx, companyID, kind+":"+id); err != nil {
		return err
	}
	return nil
}

// Repos agrupa los repositorios atados a una misma unidad de trabajo (pool o transacción).
type Repos struct {
	Companies    CompanyRepository
	Users        UserRepository
	Contacts     ContactRepository
	Invoices     InvoiceRepository
	Quotes       QuoteRepository
	Series       NumberingSeriesRepository
	Payments     PaymentRepository
	Transactions TransactionRepository
	Locker       SequenceLocker
}
