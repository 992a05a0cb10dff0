// Package billing contiene las reglas puras de numeración, totales y estados de
// facturas y cotizaciones.
package billing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
)

// Prefijos usados cuando la empresa no ha configurado una serie.
const (
	DefaultInvoicePrefix = "FAC"
	DefaultQuotePrefix   = "COT"
)

// DefaultSeries devuelve la serie implícita (consecutiva, sin rango) para un tipo de documento.
func DefaultSeries(companyID, docType string) *entity.NumberingSeries {
	prefix := DefaultInvoicePrefix
	if docType == entity.DocumentQuote {
		prefix = DefaultQuotePrefix
	}
	return &entity.NumberingSeries{
		CompanyID:    companyID,
		DocumentType: docType,
		Prefix:       prefix,
		Mode:         entity.NumberingSequential,
		IsActive:     true,
	}
}

// ValidateSeries verifica modo, padding y rango de una serie.
func ValidateSeries(s *entity.NumberingSeries) error {
	if s == nil {
		return domain.ErrInvalidInput
	}
	if s.DocumentType != entity.DocumentInvoice && s.DocumentType != entity.DocumentQuote {
		return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, s.DocumentType)
	}
	switch s.Mode {
	case entity.NumberingSequential, entity.NumberingYearly, entity.NumberingManual:
	default:
		return fmt.Errorf("%w: modo de numeración %q", domain.ErrInvalidInput, s.Mode)
	}
	if s.Mode != entity.NumberingManual && strings.TrimSpace(s.Prefix) == "" {
		return fmt.Errorf("%w: prefijo requerido", domain.ErrInvalidInput)
	}
	if s.Padding < 0 || s.Padding > 12 {
		return fmt.Errorf("%w: padding fuera de rango", domain.ErrInvalidInput)
	}
	if s.RangeFrom < 0 || s.RangeTo < 0 || (s.RangeTo > 0 && s.RangeTo < s.RangeFrom) {
		return fmt.Errorf("%w: rango de numeración inválido", domain.ErrInvalidInput)
	}
	return nil
}

// NextSeq calcula el siguiente consecutivo a partir del máximo emitido (0 si no hay ninguno).
// Respeta RangeFrom/RangeTo de la serie.
func NextSeq(s *entity.NumberingSeries, maxSeq int64) (int64, error) {
	next := maxSeq + 1
	if s.RangeFrom > next {
		next = s.RangeFrom
	}
	if s.RangeTo > 0 && next > s.RangeTo {
		return 0, fmt.Errorf("%w: %s alcanzó %d", domain.ErrSeriesExhausted, s.Prefix, s.RangeTo)
	}
	return next, nil
}

// FormatNumber construye el número visible de un documento.
//
//	sequential: FAC-000042
//	yearly:     FAC-2026-0042
func FormatNumber(s *entity.NumberingSeries, year int, seq int64) string {
	pad := s.Padding
	switch s.Mode {
	case entity.NumberingYearly:
		if pad == 0 {
			pad = 4
		}
		return fmt.Sprintf("%s-%d-%0*d", s.Prefix, year, pad, seq)
	default:
		if pad == 0 {
			pad = 6
		}
		return fmt.Sprintf("%s-%0*d", s.Prefix, pad, seq)
	}
}
