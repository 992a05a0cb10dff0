package entity

import "time"

// Company representa una organización/tenant del CRM (multi-tenant).
type Company struct {
	ID        string
	Name      string
	TaxID     string // NIT, SIRET o equivalente
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla company_modules).
const (
	ModuleCRM        = "crm"
	ModuleBilling    = "billing"
	ModuleAccounting = "accounting"
	ModuleAnalytics  = "analytics"
)

// AllModules se activan por defecto al crear una empresa.
var AllModules = []string{ModuleCRM, ModuleBilling, ModuleAccounting, ModuleAnalytics}

// CompanyModule representa la activación de un módulo SaaS en una empresa.
type CompanyModule struct {
	ID          string
	CompanyID   string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
