package seed

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// Contactos de demostración. Incluye dos duplicados (mismo nombre, apellido y email)
// para que /api/contacts/duplicates tenga algo que mostrar.
var demoContacts = []dto.CreateContactRequest{
	{FirstName: "Jean", LastName: "Dupont", Email: "jean.dupont@durand.fr", Phone: "+33 6 12 34 56 78", CompanyName: "Durand SA", Position: "Directeur", Status: entity.ContactStatusCustomer, Tags: []string{"vip", "paris"}},
	{FirstName: "Marie", LastName: "Curie", Email: "marie.curie@petit.fr", Phone: "+33 6 98 76 54 32", CompanyName: "Petit SARL", Position: "Acheteuse", Status: entity.ContactStatusCustomer, Tags: []string{"lyon"}},
	{FirstName: "Luc", LastName: "Moreau", Email: "luc.moreau@bernard.fr", CompanyName: "Bernard & Fils", Position: "Gérant", Status: entity.ContactStatusProspect, Tags: []string{"salon-2026"}},
	{FirstName: "Sophie", LastName: "Lambert", Email: "sophie@lambert-conseil.fr", CompanyName: "Lambert Conseil", Status: entity.ContactStatusLead},
	{FirstName: "Jean", LastName: "Dupont", Email: "jean.dupont@durand.fr", CompanyName: "Durand SA", Status: entity.ContactStatusLead, Notes: "Fiche créée depuis le salon"},
	{FirstName: "Camille", LastName: "Roux", Email: "camille.roux@martin.fr", Phone: "+33 7 11 22 33 44", CompanyName: "Martin Industries", Position: "DAF", Status: entity.ContactStatusCustomer, Tags: []string{"vip"}},
	{FirstName: "Hugo", LastName: "Fontaine", Email: "h.fontaine@atelier-hf.fr", CompanyName: "Atelier HF", Status: entity.ContactStatusInactive},
	{FirstName: "Marie", LastName: "Curie", Email: "marie.curie@petit.fr", CompanyName: "Petit SARL", Status: entity.ContactStatusProspect},
}

func line(desc string, qty, price, tax int64) dto.LineItemRequest {
	return dto.LineItemRequest{
		Description: desc,
		Quantity:    decimal.NewFromInt(qty),
		UnitPrice:   decimal.NewFromInt(price),
		TaxRate:     decimal.NewFromInt(tax),
	}
}

type demoQuote struct {
	client        string
	email         string
	issuedDaysAgo int
	items         []dto.LineItemRequest
	path          []string // transiciones a aplicar en orden
	convert       bool
}

var demoQuotes = []demoQuote{
	{
		client: "Durand SA", email: "jean.dupont@durand.fr", issuedDaysAgo: 40,
		items:   []dto.LineItemRequest{line("Audit CRM", 1, 2400, 20), line("Formation équipe", 2, 450, 20)},
		path:    []string{entity.QuoteStatusSent, entity.QuoteStatusAccepted},
		convert: true,
	},
	{
		client: "Petit SARL", email: "marie.curie@petit.fr", issuedDaysAgo: 20,
		items: []dto.LineItemRequest{line("Licence annuelle", 5, 120, 20)},
		path:  []string{entity.QuoteStatusSent, entity.QuoteStatusAccepted},
	},
	{
		client: "Bernard & Fils", email: "luc.moreau@bernard.fr", issuedDaysAgo: 15,
		items: []dto.LineItemRequest{line("Intégration comptable", 1, 1800, 20)},
		path:  []string{entity.QuoteStatusSent, entity.QuoteStatusRejected},
	},
	{
		client: "Lambert Conseil", email: "sophie@lambert-conseil.fr", issuedDaysAgo: 5,
		items: []dto.LineItemRequest{line("Accompagnement", 3, 600, 20)},
		path:  []string{entity.QuoteStatusSent},
	},
	{
		client: "Martin Industries", issuedDaysAgo: 2,
		items: []dto.LineItemRequest{line("Migration des données", 1, 3200, 20)},
	},
}

type demoPayment struct {
	amount      decimal.Decimal // cero = total de la factura
	method      string
	paidDaysAgo int
	reference   string
}

type demoInvoice struct {
	client        string
	email         string
	issuedDaysAgo int
	dueDays       int
	items         []dto.LineItemRequest
	status        string // draft para dejarla sin enviar, cancelled para anularla
	payments      []demoPayment
}

var demoInvoices = []demoInvoice{
	{
		client: "Durand SA", email: "jean.dupont@durand.fr", issuedDaysAgo: 60, dueDays: 30,
		items:    []dto.LineItemRequest{line("Maintenance T1", 1, 1500, 20)},
		payments: []demoPayment{{method: entity.PaymentMethodTransfer, paidDaysAgo: 35, reference: "VIR-DURAND-01"}},
	},
	{
		client: "Petit SARL", email: "marie.curie@petit.fr", issuedDaysAgo: 45, dueDays: 30,
		items: []dto.LineItemRequest{line("Développement spécifique", 4, 550, 20)},
		payments: []demoPayment{
			{amount: decimal.NewFromInt(1000), method: entity.PaymentMethodCard, paidDaysAgo: 3, reference: "CB-4471"},
		},
	},
	{
		client: "Martin Industries", email: "camille.roux@martin.fr", issuedDaysAgo: 10, dueDays: 30,
		items:    []dto.LineItemRequest{line("Conseil stratégique", 2, 900, 20)},
		payments: []demoPayment{{method: entity.PaymentMethodCheck, paidDaysAgo: 1, reference: "CHQ-0042"}},
	},
	{
		client: "Bernard & Fils", issuedDaysAgo: 8, dueDays: 30,
		items: []dto.LineItemRequest{line("Support premium", 1, 700, 20)},
	},
	{
		client: "Lambert Conseil", issuedDaysAgo: 1, dueDays: 30,
		items:  []dto.LineItemRequest{line("Atelier découverte", 1, 300, 20)},
		status: entity.InvoiceStatusDraft,
	},
	{
		client: "Atelier HF", issuedDaysAgo: 90, dueDays: 15,
		items:  []dto.LineItemRequest{line("Paramétrage", 1, 400, 20)},
		status: entity.InvoiceStatusCancelled,
	},
}

type demoTransaction struct {
	daysAgo     int
	description string
	category    string
	kind        string
	amount      string
	status      string
	reference   string
}

// Los cobros replican los pagos de las facturas (mismo monto y fecha) para que la
// conciliación automática proponga pares.
var demoTransactions = []demoTransaction{
	{35, "Virement Durand SA", "ventes", entity.TransactionIncome, "1800.00", entity.TransactionCleared, "VIR-DURAND-01"},
	{3, "Paiement CB Petit SARL", "ventes", entity.TransactionIncome, "1000.00", entity.TransactionCleared, "CB-4471"},
	{1, "Chèque Martin Industries", "ventes", entity.TransactionIncome, "2160.00", entity.TransactionPending, "CHQ-0042"},
	{20, "Loyer bureau", "loyer", entity.TransactionExpense, "1250.00", entity.TransactionCleared, ""},
	{12, "Hébergement serveurs", "informatique", entity.TransactionExpense, "89.90", entity.TransactionCleared, ""},
	{6, "Fournitures", "bureau", entity.TransactionExpense, "64.35", entity.TransactionPending, ""},
	{2, "Déplacement client Lyon", "déplacements", entity.TransactionExpense, "212.40", entity.TransactionPending, ""},
}
