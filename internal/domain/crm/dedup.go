// Package crm contiene reglas puras sobre la cartera de contactos.
package crm

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// keySep separa los campos de la clave compuesta para que "ab"+"c" y "a"+"bc" no colisionen.
const keySep = "\x1f"

// Keyed es lo mínimo que necesita la deduplicación: nombre, apellido y email.
type Keyed interface {
	DedupFields() (firstName, lastName, email string)
}

// Options ajusta la deduplicación.
type Options struct {
	// SkipBlankKeys trata como únicos los registros cuyos tres campos están vacíos.
	// Por defecto los vacíos participan en la clave como cadenas vacías.
	SkipBlankKeys bool
}

// CompositeKey construye la clave de coincidencia: nombre, apellido y email en minúsculas
// (reglas Unicode sin idioma, así "ß" no se expande a "ss"). No se recortan espacios ni se
// normaliza Unicode.
func CompositeKey(firstName, lastName, email string) string {
	lower := cases.Lower(language.Und)
	return lower.String(firstName) + keySep + lower.String(lastName) + keySep + lower.String(email)
}

// Duplicate describe un registro descartado y el índice del primero con la misma clave.
type Duplicate struct {
	Index         int // posición en la entrada
	SurvivorIndex int // posición del registro que se conserva
	Key           string
}

// Partition separa records en únicos y duplicados preservando el orden relativo.
// Un registro es duplicado si y solo si un registro anterior produjo la misma clave.
func Partition[T Keyed](records []T, opts Options) (unique []T, duplicates []T) {
	_, dups := Classify(records, opts)
	isDup := make(map[int]struct{}, len(dups))
	for _, d := range dups {
		isDup[d.Index] = struct{}{}
	}
	unique = make([]T, 0, len(records)-len(dups))
	duplicates = make([]T, 0, len(dups))
	for i, r := range records {
		if _, ok := isDup[i]; ok {
			duplicates = append(duplicates, r)
			continue
		}
		unique = append(unique, r)
	}
	return unique, duplicates
}

// Classify devuelve los índices de los sobrevivientes y el detalle de cada duplicado.
func Classify[T Keyed](records []T, opts Options) (survivors []int, duplicates []Duplicate) {
	seen := make(map[string]int, len(records))
	for i, r := range records {
		first, last, email := r.DedupFields()
		if opts.SkipBlankKeys && isBlank(first, last, email) {
			survivors = append(survivors, i)
			continue
		}
		key := CompositeKey(first, last, email)
		if at, ok := seen[key]; ok {
			duplicates = append(duplicates, Duplicate{Index: i, SurvivorIndex: at, Key: key})
			continue
		}
		seen[key] = i
		survivors = append(survivors, i)
	}
	return survivors, duplicates
}

// Index acumula claves ya vistas para deduplicar en streaming (importaciones).
type Index struct {
	opts Options
	seen map[string]struct{}
}

// NewIndex construye un índice vacío.
func NewIndex(opts Options) *Index {
	return &Index{opts: opts, seen: make(map[string]struct{})}
}

// Add registra el registro y devuelve false si su clave ya estaba.
func (x *Index) Add(firstName, lastName, email string) bool {
	if x.opts.SkipBlankKeys && isBlank(firstName, lastName, email) {
		return true
	}
	key := CompositeKey(firstName, lastName, email)
	if _, ok := x.seen[key]; ok {
		return false
	}
	x.seen[key] = struct{}{}
	return true
}

func isBlank(fields ...string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
