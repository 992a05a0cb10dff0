package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/infrastructure/memory"
	"github.com/jhoicas/crm-api/internal/infrastructure/seed"
)

const demoCompany = "00000000-0000-0000-0000-000000000001"

func TestRun_CargaDatosDemo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()

	res, err := seed.Run(ctx, repos, store, seed.Options{CompanyID: demoCompany})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 8, res.Contacts)
	assert.Equal(t, 5, res.Quotes)
	assert.Equal(t, 7, res.Invoices) // 6 directas + 1 convertida
	assert.Equal(t, 3, res.Payments)
	assert.Equal(t, 7, res.Transactions)

	ok, err := repos.Companies.HasActiveModule(ctx, demoCompany, "billing")
	require.NoError(t, err)
	assert.True(t, ok)

	// Los contactos repetidos aparecen como duplicados.
	report, err := crm.NewContactUseCase(repos.Contacts, store).FindDuplicates(ctx, demoCompany, false)
	require.NoError(t, err)
	assert.Equal(t, 8, report.Total)
	assert.Equal(t, 6, report.Unique)
	assert.Len(t, report.Duplicates, 2)

	// Cada cobro sembrado tiene su pago.
	rec, err := accounting.NewTransactionUseCase(repos.Transactions, repos.Payments, store, 0).Suggest(ctx, demoCompany)
	require.NoError(t, err)
	assert.Len(t, rec.Pairs, 3)
	assert.Empty(t, rec.UnmatchedPayments)
}

func TestRun_AdminPuedeIniciarSesion(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	repos := store.Repos()
	_, err := seed.Run(ctx, repos, store, seed.Options{CompanyID: demoCompany})
	require.NoError(t, err)

	uc := auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{Secret: "test-secret", ExpMinutes: 5, Issuer: "crm-api"})
	out, err := uc.Login(ctx, dto.LoginRequest{Email: seed.DemoAdminEmail, Password: seed.DemoAdminPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, out.Token)
}

func TestRun_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	_, err := seed.Run(ctx, store.Repos(), store, seed.Options{CompanyID: demoCompany})
	require.NoError(t, err)

	res, err := seed.Run(ctx, store.Repos(), store, seed.Options{CompanyID: demoCompany})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Zero(t, res.Contacts)
}

func TestRun_CompanyIDInvalido(t *testing.T) {
	store := memory.NewStore()
	_, err := seed.Run(context.Background(), store.Repos(), store, seed.Options{CompanyID: "demo"})
	assert.Error(t, err)
}
