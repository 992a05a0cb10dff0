package dto

import "time"

// CreateContactRequest body para POST /api/contacts.
type CreateContactRequest struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone,omitempty"`
	CompanyName string   `json:"company,omitempty"`
	Position    string   `json:"position,omitempty"`
	Status      string   `json:"status,omitempty"` // por defecto lead
	Tags        []string `json:"tags,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// UpdateContactRequest body para PUT /api/contacts/:id (campos opcionales).
type UpdateContactRequest struct {
	FirstName   *string   `json:"first_name"`
	LastName    *string   `json:"last_name"`
	Email       *string   `json:"email"`
	Phone       *string   `json:"phone"`
	CompanyName *string   `json:"company"`
	Position    *string   `json:"position"`
	Status      *string   `json:"status"`
	Tags        *[]string `json:"tags"`
	Notes       *string   `json:"notes"`
}

// ContactResponse contacto en respuestas.
type ContactResponse struct {
	ID          string    `json:"id"`
	Number      int64     `json:"number"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	CompanyName string    `json:"company,omitempty"`
	Position    string    `json:"position,omitempty"`
	Status      string    `json:"status"`
	Tags        []string  `json:"tags"`
	Notes       string    `json:"notes,omitempty"`
	Photo       string    `json:"photo,omitempty"` // data URL
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactListResponse lista paginada de contactos.
type ContactListResponse struct {
	Items []ContactResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DuplicateEntry un contacto duplicado y el contacto que sobrevive.
type DuplicateEntry struct {
	Duplicate ContactResponse `json:"duplicate"`
	Survivor  ContactResponse `json:"survivor"`
}

// DuplicateReport resultado de GET /api/contacts/duplicates y POST /api/contacts/dedup.
type DuplicateReport struct {
	Total      int              `json:"total"`      // contactos analizados
	Unique     int              `json:"unique"`     // contactos que quedan
	Duplicates []DuplicateEntry `json:"duplicates"` // en orden de creación
	Removed    int64            `json:"removed"`    // solo en POST /dedup
}

// ContactListRequest filtros de GET /api/contacts.
type ContactListRequest struct {
	Status string `query:"status"`
	Tag    string `query:"tag"`
	Search string `query:"q"`
	PageRequest
}
