package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-api/internal/application/accounting"
	appanalytics "github.com/jhoicas/crm-api/internal/application/analytics"
	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/billing"
	"github.com/jhoicas/crm-api/internal/application/crm"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	ModuleService *usecase.ModuleService
	AuthUC        *auth.AuthUseCase
	ContactUC     *crm.ContactUseCase
	InvoiceUC     *billing.InvoiceUseCase
	QuoteUC       *billing.QuoteUseCase
	PaymentUC     *billing.PaymentUseCase
	Numbering     *billing.NumberingService
	PDFUC         *billing.PDFUseCase
	TransactionUC *accounting.TransactionUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	JWTSecret     string
	CSVFormat     string // formato CSV por defecto de import/export
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.ModuleService, deps.UserUC)
	api.Post("/companies", companyHandler.Create)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	sales := RequireRole(entity.RoleAdmin, entity.RoleComercial)
	finance := RequireRole(entity.RoleAdmin, entity.RoleContador)
	everyone := RequireRole(entity.RoleAdmin, entity.RoleComercial, entity.RoleContador)

	companies := protected.Group("/companies/me", everyone)
	companies.Get("/", companyHandler.Me)
	companies.Get("/modules", companyHandler.Modules)
	companies.Put("/", adminOnly, companyHandler.UpdateMe)
	companies.Get("/users", adminOnly, companyHandler.Users)

	// Contactos (módulo crm)
	contacts := protected.Group("/contacts", RequireModule(entity.ModuleCRM, deps.ModuleService), sales)
	contactHandler := NewContactHandler(deps.ContactUC, deps.CSVFormat)
	contacts.Get("/duplicates", contactHandler.Duplicates)
	contacts.Post("/dedup", contactHandler.Dedup)
	contacts.Get("/export", contactHandler.Export)
	contacts.Post("/import", contactHandler.Import)
	contacts.Get("/", contactHandler.List)
	contacts.Post("/", contactHandler.Create)
	contacts.Get("/:id", contactHandler.Get)
	contacts.Put("/:id", contactHandler.Update)
	contacts.Delete("/:id", contactHandler.Delete)
	contacts.Post("/:id/photo", contactHandler.UploadPhoto)
	contacts.Delete("/:id/photo", contactHandler.DeletePhoto)

	// Facturación (módulo billing)
	billingModule := RequireModule(entity.ModuleBilling, deps.ModuleService)

	invoices := protected.Group("/invoices", billingModule, everyone)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC, deps.CSVFormat)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", sales, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", sales, invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", sales, invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.PDF)

	quotes := protected.Group("/quotes", billingModule, sales)
	quoteHandler := NewQuoteHandler(deps.QuoteUC, deps.PDFUC)
	quotes.Get("/", quoteHandler.List)
	quotes.Post("/", quoteHandler.Create)
	quotes.Get("/:id", quoteHandler.GetByID)
	quotes.Patch("/:id/status", quoteHandler.UpdateStatus)
	quotes.Post("/:id/convert", quoteHandler.Convert)
	quotes.Delete("/:id", quoteHandler.Delete)
	quotes.Get("/:id/pdf", quoteHandler.PDF)

	payments := protected.Group("/payments", billingModule, everyone)
	paymentHandler := NewPaymentHandler(deps.PaymentUC, deps.CSVFormat)
	payments.Get("/export", paymentHandler.Export)
	payments.Get("/", paymentHandler.List)
	payments.Post("/", paymentHandler.Record)
	payments.Post("/:id/refund", finance, paymentHandler.Refund)

	series := protected.Group("/numbering-series", billingModule, adminOnly)
	numberingHandler := NewNumberingHandler(deps.Numbering)
	series.Get("/", numberingHandler.List)
	series.Post("/", numberingHandler.Create)
	series.Put("/:id", numberingHandler.Update)

	// Contabilidad (módulo accounting)
	transactions := protected.Group("/transactions", RequireModule(entity.ModuleAccounting, deps.ModuleService), finance)
	txHandler := NewTransactionHandler(deps.TransactionUC, deps.CSVFormat)
	transactions.Get("/summary", txHandler.Summary)
	transactions.Get("/export", txHandler.Export)
	transactions.Post("/import", txHandler.Import)
	transactions.Get("/reconciliation", txHandler.Suggest)
	transactions.Post("/reconciliation", txHandler.Reconcile)
	transactions.Delete("/reconciliation/:id", txHandler.Unreconcile)
	transactions.Get("/", txHandler.List)
	transactions.Post("/", txHandler.Create)
	transactions.Get("/:id", txHandler.Get)
	transactions.Put("/:id", txHandler.Update)
	transactions.Delete("/:id", txHandler.Delete)

	// Dashboard (módulo analytics)
	dashboard := protected.Group("/dashboard", RequireModule(entity.ModuleAnalytics, deps.ModuleService), everyone)
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.GetSummary)
}
