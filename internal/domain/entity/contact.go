package entity

import "time"

// Estados comerciales de un contacto.
const (
	ContactStatusLead     = "lead"
	ContactStatusProspect = "prospect"
	ContactStatusCustomer = "customer"
	ContactStatusInactive = "inactive"
)

// ValidContactStatus informa si s es un estado de contacto conocido.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusLead, ContactStatusProspect, ContactStatusCustomer, ContactStatusInactive:
		return true
	}
	return false
}

// Contact representa una persona de contacto de la cartera comercial.
// CompanyName es texto libre: las facturas lo referencian por igualdad de cadena, no por FK.
type Contact struct {
	ID           string
	CompanyID    string
	Number       int64 // consecutivo visible por empresa
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	CompanyName  string
	Position     string
	Status       string
	Tags         []string
	Notes        string
	PhotoDataURL string // data:image/...;base64,...
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName devuelve "Nombre Apellido".
func (c *Contact) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
