package crm_test

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-api/internal/domain/crm"
)

type rec struct {
	ID    int
	First string
	Last  string
	Email string
}

func (r rec) DedupFields() (string, string, string) { return r.First, r.Last, r.Email }

func ids(list []rec) []int {
	out := make([]int, 0, len(list))
	for _, r := range list {
		out = append(out, r.ID)
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Clave compuesta
// ──────────────────────────────────────────────────────────────────────────────

func TestCompositeKey_IgnoraMayusculas(t *testing.T) {
	assert.Equal(t,
		crm.CompositeKey("Jean", "Dupont", "j@x.com"),
		crm.CompositeKey("jean", "DUPONT", "J@X.COM"))
}

func TestCompositeKey_NoRecortaEspacios(t *testing.T) {
	assert.NotEqual(t,
		crm.CompositeKey("Jean", "Dupont", "j@x.com"),
		crm.CompositeKey("Jean ", "Dupont", "j@x.com"),
		"solo se pasa a minúsculas, no trim")
}

func TestCompositeKey_SeparadorEvitaColisiones(t *testing.T) {
	assert.NotEqual(t,
		crm.CompositeKey("ab", "c", ""),
		crm.CompositeKey("a", "bc", ""))
}

func TestCompositeKey_MinusculasUnicode(t *testing.T) {
	assert.Equal(t,
		crm.CompositeKey("Élodie", "STRASSE", ""),
		crm.CompositeKey("élodie", "strasse", ""))
}

func TestCompositeKey_EszettNoSeExpande(t *testing.T) {
	assert.NotEqual(t,
		crm.CompositeKey("Hans", "Straße", ""),
		crm.CompositeKey("Hans", "STRASSE", ""),
		"ß no equivale a ss")
	assert.Equal(t,
		crm.CompositeKey("Hans", "Straße", ""),
		crm.CompositeKey("HANS", "straße", ""))
}

// ──────────────────────────────────────────────────────────────────────────────
// Partition
// ──────────────────────────────────────────────────────────────────────────────

func TestPartition_EjemploDuplicadoSinDistinguirMayusculas(t *testing.T) {
	in := []rec{
		{ID: 1, First: "Jean", Last: "Dupont", Email: "j@x.com"},
		{ID: 2, First: "jean", Last: "DUPONT", Email: "J@X.COM"},
	}
	unique, dups := crm.Partition(in, crm.Options{})
	assert.Equal(t, []int{1}, ids(unique))
	assert.Equal(t, []int{2}, ids(dups))
}

func TestPartition_PreservaOrdenYEsDisjunta(t *testing.T) {
	in := []rec{
		{ID: 1, First: "Ana", Last: "Ruiz", Email: "ana@x.com"},
		{ID: 2, First: "Luis", Last: "Mora", Email: "luis@x.com"},
		{ID: 3, First: "ANA", Last: "ruiz", Email: "ana@x.com"},
		{ID: 4, First: "Marta", Last: "Gil", Email: "marta@x.com"},
		{ID: 5, First: "luis", Last: "mora", Email: "LUIS@x.com"},
		{ID: 6, First: "Ana", Last: "Ruiz", Email: "otra@x.com"},
	}
	unique, dups := crm.Partition(in, crm.Options{})

	if diff := cmp.Diff([]int{1, 2, 4, 6}, ids(unique)); diff != "" {
		t.Errorf("únicos (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3, 5}, ids(dups)); diff != "" {
		t.Errorf("duplicados (-want +got):\n%s", diff)
	}

	all := append(ids(unique), ids(dups)...)
	slices.Sort(all)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, all, "la unión debe ser la entrada completa")
}

func TestPartition_Idempotente(t *testing.T) {
	in := []rec{
		{ID: 1, First: "A", Last: "B", Email: "c"},
		{ID: 2, First: "a", Last: "b", Email: "C"},
		{ID: 3, First: "x", Last: "y", Email: "z"},
		{ID: 4, First: "X", Last: "Y", Email: "Z"},
	}
	unique, _ := crm.Partition(in, crm.Options{})
	again, dups := crm.Partition(unique, crm.Options{})

	assert.Empty(t, dups, "deduplicar la salida única no debe quitar nada más")
	assert.Equal(t, ids(unique), ids(again))
}

func TestPartition_DependeDelOrden(t *testing.T) {
	a := rec{ID: 1, First: "Jean", Last: "Dupont", Email: "j@x.com"}
	b := rec{ID: 2, First: "JEAN", Last: "dupont", Email: "j@x.com"}

	keptFwd, _ := crm.Partition([]rec{a, b}, crm.Options{})
	keptRev, _ := crm.Partition([]rec{b, a}, crm.Options{})

	assert.Equal(t, []int{1}, ids(keptFwd))
	assert.Equal(t, []int{2}, ids(keptRev), "invertir la entrada cambia el sobreviviente")
}

func TestPartition_CamposVaciosParticipanEnLaClave(t *testing.T) {
	in := []rec{{ID: 1}, {ID: 2}, {ID: 3, Email: "solo@x.com"}}
	unique, dups := crm.Partition(in, crm.Options{})
	assert.Equal(t, []int{1, 3}, ids(unique))
	assert.Equal(t, []int{2}, ids(dups), "dos registros en blanco se consideran duplicados")
}

func TestPartition_SkipBlankKeysConservaRegistrosVacios(t *testing.T) {
	in := []rec{{ID: 1}, {ID: 2, First: " ", Last: "", Email: ""}, {ID: 3}}
	unique, dups := crm.Partition(in, crm.Options{SkipBlankKeys: true})
	assert.Equal(t, []int{1, 2, 3}, ids(unique))
	assert.Empty(t, dups)
}

func TestPartition_EntradaVacia(t *testing.T) {
	unique, dups := crm.Partition([]rec{}, crm.Options{})
	assert.Empty(t, unique)
	assert.Empty(t, dups)
}

func TestClassify_ReportaSobreviviente(t *testing.T) {
	in := []rec{
		{ID: 1, First: "x", Last: "y", Email: "z"},
		{ID: 2, First: "q", Last: "r", Email: "s"},
		{ID: 3, First: "X", Last: "Y", Email: "Z"},
	}
	survivors, dups := crm.Classify(in, crm.Options{})
	assert.Equal(t, []int{0, 1}, survivors)
	require.Len(t, dups, 1)
	assert.Equal(t, 2, dups[0].Index)
	assert.Equal(t, 0, dups[0].SurvivorIndex)
}

func TestIndex_DetectaRepetidosEnStreaming(t *testing.T) {
	idx := crm.NewIndex(crm.Options{})
	assert.True(t, idx.Add("Jean", "Dupont", "j@x.com"))
	assert.False(t, idx.Add("JEAN", "dupont", "J@x.com"))
	assert.True(t, idx.Add("Jeanne", "Dupont", "j@x.com"))
}
