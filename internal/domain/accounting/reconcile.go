// Package accounting contiene la conciliación entre movimientos contables y pagos.
package accounting

import (
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// DefaultWindow es la tolerancia de fechas por defecto entre pago y movimiento bancario.
const DefaultWindow = 3 * 24 * time.Hour

// Pair es un par movimiento ↔ pago propuesto.
type Pair struct {
	Transaction *entity.Transaction
	Payment     *entity.Payment
	ByReference bool // la referencia coincidió además del monto
}

// Result agrupa los pares y lo que quedó sin conciliar.
type Result struct {
	Pairs                 []Pair
	UnmatchedTransactions []*entity.Transaction
	UnmatchedPayments     []*entity.Payment
}

// Eligible informa si un movimiento puede conciliarse con un pago.
func Eligible(tx *entity.Transaction) bool {
	return tx.Type == entity.TransactionIncome && tx.Status != entity.TransactionReconciled && tx.PaymentID == ""
}

// PaymentEligible informa si un pago puede conciliarse.
func PaymentEligible(p *entity.Payment) bool {
	return p.Status == entity.PaymentStatusCompleted && !p.Reconciled
}

// Match empareja ingresos no conciliados con pagos completados no conciliados.
//
// Reglas: mismo monto y fechas a no más de window. Los pagos se recorren por fecha
// (y número); para cada uno se prefiere el movimiento cuya referencia coincide y, a
// igualdad, el más cercano en fecha y luego el de menor número. Cada lado se usa una vez.
// El resultado es determinista para la misma entrada.
func Match(transactions []*entity.Transaction, payments []*entity.Payment, window time.Duration) Result {
	if window <= 0 {
		window = DefaultWindow
	}

	txs := make([]*entity.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if Eligible(t) {
			txs = append(txs, t)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Number < txs[j].Number })

	pays := make([]*entity.Payment, 0, len(payments))
	for _, p := range payments {
		if PaymentEligible(p) {
			pays = append(pays, p)
		}
	}
	sort.SliceStable(pays, func(i, j int) bool {
		if !pays[i].Date.Equal(pays[j].Date) {
			return pays[i].Date.Before(pays[j].Date)
		}
		return pays[i].Number < pays[j].Number
	})

	used := make([]bool, len(txs))
	var res Result
	for _, p := range pays {
		best := -1
		bestRef := false
		var bestGap time.Duration
		for i, t := range txs {
			if used[i] || !t.Amount.Equal(p.Amount) {
				continue
			}
			gap := absDuration(t.Date.Sub(p.Date))
			if gap > window {
				continue
			}
			ref := referencesMatch(t.Reference, p.Reference)
			if best == -1 || (ref && !bestRef) || (ref == bestRef && gap < bestGap) {
				best, bestRef, bestGap = i, ref, gap
			}
		}
		if best == -1 {
			res.UnmatchedPayments = append(res.UnmatchedPayments, p)
			continue
		}
		used[best] = true
		res.Pairs = append(res.Pairs, Pair{Transaction: txs[best], Payment: p, ByReference: bestRef})
	}
	for i, t := range txs {
		if !used[i] {
			res.UnmatchedTransactions = append(res.UnmatchedTransactions, t)
		}
	}
	return res
}

// referencesMatch compara referencias sin distinguir mayúsculas; una referencia vacía no coincide.
// También acepta que la descripción bancaria contenga la referencia del pago.
func referencesMatch(txRef, payRef string) bool {
	txRef = strings.ToLower(strings.TrimSpace(txRef))
	payRef = strings.ToLower(strings.TrimSpace(payRef))
	if txRef == "" || payRef == "" {
		return false
	}
	return txRef == payRef || strings.Contains(txRef, payRef)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
