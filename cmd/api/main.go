package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	appanalytics "github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/ports"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain/repository"
	"github.com/jhoicas/crm-api/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/crm-api/internal/infrastructure/pdf"
	"github.com/jhoicas/crm-api/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-api/internal/infrastructure/seed"
	httpRouter "github.com/jhoicas/crm-api/internal/interfaces/http"
	"github.com/jhoicas/crm-api/pkg/config"
	"github.com/jhoicas/crm-api/pkg/logger"
)

// storage agrupa lo que necesitan los casos de uso, sea cual sea el backend.
type storage struct {
	repos     repository.Repos
	tx        ports.TxRunner
	dashboard repository.DashboardRepository
	close     func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Storage.Driver).Msg("inicializar almacenamiento")
	}
	defer st.close()

	repos := st.repos
	numbering := billing.NewNumberingService(repos.Series, st.tx)
	invoiceUC := billing.NewInvoiceUseCase(repos.Invoices, st.tx, numbering, cfg.CRM.DefaultDueDays)
	quoteUC := billing.NewQuoteUseCase(repos.Quotes, st.tx, numbering, invoiceUC)
	paymentUC := billing.NewPaymentUseCase(repos.Payments, repos.Invoices, st.tx)

	// PDF de facturas y cotizaciones
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(repos.Invoices, repos.Quotes, repos.Companies, pdfGenerator)

	authUC := auth.NewAuthUseCase(repos.Users, repos.Companies, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    8 << 20, // imports CSV
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:     usecase.NewCompanyUseCase(repos.Companies, st.tx),
		UserUC:        usecase.NewUserUseCase(repos.Users),
		ModuleService: usecase.NewModuleService(repos.Companies),
		AuthUC:        authUC,
		ContactUC:     crm.NewContactUseCase(repos.Contacts, st.tx),
		InvoiceUC:     invoiceUC,
		QuoteUC:       quoteUC,
		PaymentUC:     paymentUC,
		Numbering:     numbering,
		PDFUC:         pdfUC,
		TransactionUC: accounting.NewTransactionUseCase(repos.Transactions, repos.Payments, st.tx, cfg.CRM.ReconcileWindow()),
		DashboardUC:   appanalytics.NewDashboardUseCase(st.dashboard),
		JWTSecret:     cfg.JWT.Secret,
		CSVFormat:     cfg.CRM.CSVDefaultFormat,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// openStorage abre PostgreSQL (aplicando migraciones) o el almacén en memoria con datos demo.
func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.Storage.Driver == config.StorageMemory {
		store := memory.NewStore()
		res, err := seed.Run(ctx, store.Repos(), store, seed.Options{CompanyID: cfg.Storage.DemoCompanyID})
		if err != nil {
			return nil, err
		}
		log.Info().
			Str("company_id", res.CompanyID).
			Int("contacts", res.Contacts).
			Int("invoices", res.Invoices).
			Str("admin", seed.DemoAdminEmail).
			Msg("datos demo cargados en memoria")
		return &storage{repos: store.Repos(), tx: store, dashboard: store.Dashboard(), close: func() {}}, nil
	}

	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		return nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		repos:     postgres.NewRepos(pool),
		tx:        postgres.NewTxRunner(pool),
		dashboard: postgres.NewDashboardRepository(pool),
		close:     pool.Close,
	}, nil
}
