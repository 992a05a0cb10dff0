package dto

import (
	"fmt"
	"time"

	"github.com/jhoicas/crm-api/internal/domain"
)

// DateLayout formato de fechas en requests y respuestas (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ParseDate interpreta una fecha YYYY-MM-DD en UTC. Si s es vacío devuelve def.
func ParseDate(s string, def time.Time) (time.Time, error) {
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q, se espera YYYY-MM-DD", domain.ErrInvalidInput, s)
	}
	return t, nil
}

// ParseOptionalDate devuelve nil si s es vacío.
func ParseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s, time.Time{})
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatDate formatea t como YYYY-MM-DD; la fecha cero se devuelve vacía.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}
