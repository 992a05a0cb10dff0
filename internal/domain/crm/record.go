package crm

import "github.com/jhoicas/crm-api/internal/domain/entity"

// ContactRecord adapta entity.Contact a Keyed.
type ContactRecord struct {
	*entity.Contact
}

// DedupFields implementa Keyed.
func (r ContactRecord) DedupFields() (string, string, string) {
	return r.FirstName, r.LastName, r.Email
}

// WrapContacts envuelve una lista de contactos sin copiarlos.
func WrapContacts(list []*entity.Contact) []ContactRecord {
	out := make([]ContactRecord, len(list))
	for i, c := range list {
		out[i] = ContactRecord{Contact: c}
	}
	return out
}
