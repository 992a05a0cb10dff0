// Package seed carga el conjunto de datos de demostración (contactos, cotizaciones, facturas,
// pagos y movimientos) de una empresa. Lo usan STORAGE_DRIVER=memory y `crmctl seed`.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

// Credenciales del administrador de demostración.
const (
	DemoAdminEmail    = "admin@demo.crm"
	DemoAdminPassword = "demo-crm-2026"
)

// Options parámetros de la siembra.
type Options struct {
	CompanyID string
	Today     time.Time // fecha de referencia; cero = hoy (UTC)
}

// Result resumen de lo sembrado.
type Result struct {
	CompanyID    string
	Skipped      bool // la empresa ya existía
	Contacts     int
	Quotes       int
	Invoices     int
	Payments     int
	Transactions int
}

// Run crea la empresa de demostración con todos sus módulos y la puebla. Si la empresa
// ya existe no toca nada y devuelve Skipped.
func Run(ctx context.Context, repos repository.Repos, tx ports.TxRunner, opts Options) (*Result, error) {
	if _, err := uuid.Parse(opts.CompanyID); err != nil {
		return nil, fmt.Errorf("seed: company id %q: %w", opts.CompanyID, err)
	}
	today := opts.Today
	if today.IsZero() {
		today = time.Now().UTC()
	}
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	res := &Result{CompanyID: opts.CompanyID}
	existing, err := repos.Companies.GetByID(ctx, opts.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if existing != nil {
		log.Info().Str("company_id", opts.CompanyID).Msg("seed: la empresa ya existe, nada que hacer")
		res.Skipped = true
		return res, nil
	}

	if err := createCompany(ctx, tx, opts.CompanyID, today); err != nil {
		return nil, err
	}
	authUC := auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{})
	if _, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Email: DemoAdminEmail, Password: DemoAdminPassword, CompanyID: opts.CompanyID,
		Name: "Administrateur Démo", Role: entity.RoleAdmin,
	}); err != nil {
		return nil, fmt.Errorf("seed: usuario admin: %w", err)
	}

	s := &seeder{
		companyID: opts.CompanyID,
		today:     today,
		res:       res,
		contacts:  crm.NewContactUseCase(repos.Contacts, tx),
	}
	numbering := billing.NewNumberingService(repos.Series, tx)
	s.invoices = billing.NewInvoiceUseCase(repos.Invoices, tx, numbering, 30)
	s.quotes = billing.NewQuoteUseCase(repos.Quotes, tx, numbering, s.invoices)
	s.payments = billing.NewPaymentUseCase(repos.Payments, repos.Invoices, tx)
	s.transactions = accounting.NewTransactionUseCase(repos.Transactions, repos.Payments, tx, 0)

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"contactos", s.seedContacts},
		{"cotizaciones", s.seedQuotes},
		{"facturas", s.seedInvoices},
		{"movimientos", s.seedTransactions},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("seed: %s: %w", step.name, err)
		}
	}
	log.Info().Str("company_id", opts.CompanyID).Int("contacts", res.Contacts).Int("quotes", res.Quotes).
		Int("invoices", res.Invoices).Int("payments", res.Payments).Int("transactions", res.Transactions).
		Msg("seed: datos de demostración cargados")
	return res, nil
}

func createCompany(ctx context.Context, tx ports.TxRunner, companyID string, today time.Time) error {
	return tx.RunInTx(ctx, func(r repository.Repos) error {
		now := time.Now()
		if err := r.Companies.Create(ctx, &entity.Company{
			ID:        companyID,
			Name:      "Démo Conseil SARL",
			TaxID:     "FR-DEMO-" + companyID[:8],
			Address:   "12 rue de la Paix, 75002 Paris",
			Phone:     "+33 1 23 45 67 89",
			Email:     "contact@demo.crm",
			Status:    "active",
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("seed: empresa: %w", err)
		}
		for _, m := range entity.AllModules {
			if err := r.Companies.ActivateModule(ctx, &entity.CompanyModule{
				ID:          uuid.New().String(),
				CompanyID:   companyID,
				ModuleName:  m,
				IsActive:    true,
				ActivatedAt: today,
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return fmt.Errorf("seed: módulo %s: %w", m, err)
			}
		}
		return nil
	})
}

type seeder struct {
	companyID    string
	today        time.Time
	res          *Result
	contacts     *crm.ContactUseCase
	invoices     *billing.InvoiceUseCase
	quotes       *billing.QuoteUseCase
	payments     *billing.PaymentUseCase
	transactions *accounting.TransactionUseCase
}

// date devuelve today desplazado days días en formato de la API.
func (s *seeder) date(days int) string {
	return dto.FormatDate(s.today.AddDate(0, 0, days))
}

func (s *seeder) seedContacts(ctx context.Context) error {
	for _, c := range demoContacts {
		if _, err := s.contacts.Create(ctx, s.companyID, c); err != nil {
			return err
		}
		s.res.Contacts++
	}
	return nil
}

func (s *seeder) seedQuotes(ctx context.Context) error {
	for _, dq := range demoQuotes {
		q, err := s.quotes.Create(ctx, s.companyID, dto.CreateQuoteRequest{
			ClientName:  dq.client,
			ClientEmail: dq.email,
			IssueDate:   s.date(dq.issuedDaysAgo * -1),
			ValidUntil:  s.date(30),
			Items:       dq.items,
		})
		if err != nil {
			return err
		}
		s.res.Quotes++
		for _, st := range dq.path {
			if _, err := s.quotes.UpdateStatus(ctx, s.companyID, q.ID, st); err != nil {
				return err
			}
		}
		if dq.convert {
			conv, err := s.quotes.ConvertToInvoice(ctx, s.companyID, q.ID)
			if err != nil {
				return err
			}
			s.res.Invoices++
			if _, err := s.invoices.UpdateStatus(ctx, s.companyID, conv.Invoice.ID, entity.InvoiceStatusSent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedInvoices(ctx context.Context) error {
	for _, di := range demoInvoices {
		inv, err := s.invoices.Create(ctx, s.companyID, dto.CreateInvoiceRequest{
			ClientName:  di.client,
			ClientEmail: di.email,
			IssueDate:   s.date(di.issuedDaysAgo * -1),
			DueDate:     s.date(di.issuedDaysAgo*-1 + di.dueDays),
			Items:       di.items,
		})
		if err != nil {
			return err
		}
		s.res.Invoices++
		if di.status == entity.InvoiceStatusDraft {
			continue
		}
		if _, err := s.invoices.UpdateStatus(ctx, s.companyID, inv.ID, entity.InvoiceStatusSent); err != nil {
			return err
		}
		for _, dp := range di.payments {
			amount := inv.GrandTotal
			if !dp.amount.IsZero() {
				amount = dp.amount
			}
			if _, err := s.payments.Record(ctx, s.companyID, dto.RecordPaymentRequest{
				InvoiceID: inv.ID,
				Amount:    amount,
				Method:    dp.method,
				Date:      s.date(dp.paidDaysAgo * -1),
				Reference: dp.reference,
			}); err != nil {
				return err
			}
			s.res.Payments++
		}
		if di.status == entity.InvoiceStatusCancelled {
			if _, err := s.invoices.UpdateStatus(ctx, s.companyID, inv.ID, entity.InvoiceStatusCancelled); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *seeder) seedTransactions(ctx context.Context) error {
	for _, dt := range demoTransactions {
		if _, err := s.transactions.Create(ctx, s.companyID, dto.TransactionRequest{
			Date:        s.date(dt.daysAgo * -1),
			Description: dt.description,
			Category:    dt.category,
			Type:        dt.kind,
			Amount:      decimal.RequireFromString(dt.amount),
			Status:      dt.status,
			Reference:   dt.reference,
		}); err != nil {
			return err
		}
		s.res.Transactions++
	}
	return nil
}
