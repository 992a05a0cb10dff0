// Package memory implementa los repositorios en memoria. Se usa en pruebas y con
// STORAGE_DRIVER=memory (modo demo: nada sobrevive a un reinicio).
package memory

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var _ ports.TxRunner = (*Store)(nil)

// Store guarda todas las entidades en mapas protegidos por un RWMutex.
// Las entidades se copian al entrar y al salir: nunca se comparte memoria con el llamador.
type Store struct {
	txMu sync.Mutex // serializa RunInTx
	mu   sync.RWMutex

	companies    map[string]*entity.Company
	modules      map[string]*entity.CompanyModule // clave companyID/module
	users        map[string]*entity.User
	contacts     map[string]*entity.Contact
	invoices     map[string]*entity.Invoice
	quotes       map[string]*entity.Quote
	series       map[string]*entity.NumberingSeries
	payments     map[string]*entity.Payment
	transactions map[string]*entity.Transaction
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies:    map[string]*entity.Company{},
		modules:      map[string]*entity.CompanyModule{},
		users:        map[string]*entity.User{},
		contacts:     map[string]*entity.Contact{},
		invoices:     map[string]*entity.Invoice{},
		quotes:       map[string]*entity.Quote{},
		series:       map[string]*entity.NumberingSeries{},
		payments:     map[string]*entity.Payment{},
		transactions: map[string]*entity.Transaction{},
	}
}

// Repos devuelve los repositorios sobre el almacén (fuera de transacción).
func (s *Store) Repos() repository.Repos {
	return repository.Repos{
		Companies:    &companyRepo{s},
		Users:        &userRepo{s},
		Contacts:     &contactRepo{s},
		Invoices:     &invoiceRepo{s},
		Quotes:       &quoteRepo{s},
		Series:       &seriesRepo{s},
		Payments:     &paymentRepo{s},
		Transactions: &transactionRepo{s},
		Locker:       noopLocker{},
	}
}

// Dashboard devuelve el repositorio de lectura del tablero.
func (s *Store) Dashboard() repository.DashboardRepository {
	return &dashboardRepo{s}
}

// RunInTx ejecuta fn con acceso exclusivo a las transacciones; si fn falla se restaura
// el estado previo. Las escrituras fuera de RunInTx no quedan aisladas de un rollback.
func (s *Store) RunInTx(ctx context.Context, fn func(repos repository.Repos) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snap := s.snapshot()
	if err := fn(s.Repos()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	companies    map[string]*entity.Company
	modules      map[string]*entity.CompanyModule
	users        map[string]*entity.User
	contacts     map[string]*entity.Contact
	invoices     map[string]*entity.Invoice
	quotes       map[string]*entity.Quote
	series       map[string]*entity.NumberingSeries
	payments     map[string]*entity.Payment
	transactions map[string]*entity.Transaction
}

// snapshot copia los mapas; los valores no se mutan en sitio (cada escritura reemplaza el puntero).
func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		companies:    maps.Clone(s.companies),
		modules:      maps.Clone(s.modules),
		users:        maps.Clone(s.users),
		contacts:     maps.Clone(s.contacts),
		invoices:     maps.Clone(s.invoices),
		quotes:       maps.Clone(s.quotes),
		series:       maps.Clone(s.series),
		payments:     maps.Clone(s.payments),
		transactions: maps.Clone(s.transactions),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.companies = snap.companies
	s.modules = snap.modules
	s.users = snap.users
	s.contacts = snap.contacts
	s.invoices = snap.invoices
	s.quotes = snap.quotes
	s.series = snap.series
	s.payments = snap.payments
	s.transactions = snap.transactions
}

// noopLocker: RunInTx ya serializa las transacciones.
type noopLocker struct{}

func (noopLocker) LockSequence(context.Context, string, string) error { return nil }

// ── helpers ──────────────────────────────────────────────────────────────────

func paginate[T any](list []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(needle string, fields ...string) bool {
	return slices.ContainsFunc(fields, func(f string) bool { return containsFold(f, needle) })
}

func cloneContact(c *entity.Contact) *entity.Contact {
	cp := *c
	cp.Tags = slices.Clone(c.Tags)
	return &cp
}

func cloneInvoice(i *entity.Invoice) *entity.Invoice {
	cp := *i
	cp.Items = slices.Clone(i.Items)
	return &cp
}

func cloneQuote(q *entity.Quote) *entity.Quote {
	cp := *q
	cp.Items = slices.Clone(q.Items)
	return &cp
}

func clonePtr[T any](v *T) *T {
	cp := *v
	return &cp
}
