// Package csvcodec lee y escribe los CSV de exportación/importación del CRM.
//
// Dos formatos:
//
//   - legacy: el formato histórico del tablero. Cada campo va entre comillas sin
//     escapar comillas internas; la lectura parte por salto de línea y por coma y
//     elimina todas las comillas. Es con pérdida si un campo contiene ',' o '"'.
//   - rfc4180: encoding/csv estándar; el round-trip es exacto.
package csvcodec

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Format identifica el dialecto CSV.
type Format string

const (
	FormatLegacy  Format = "legacy"
	FormatRFC4180 Format = "rfc4180"
)

// ErrUnknownFormat se devuelve para formatos o charsets no soportados.
var ErrUnknownFormat = errors.New("csvcodec: formato desconocido")

// ParseFormat interpreta el parámetro ?format=. Vacío equivale a rfc4180.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rfc4180", "standard":
		return FormatRFC4180, nil
	case "legacy":
		return FormatLegacy, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options para la lectura.
type Options struct {
	Charset string // utf-8 (por defecto), latin1, windows-1252
}

// Encode escribe header seguido de rows en w.
func Encode(w io.Writer, format Format, header []string, rows [][]string) error {
	switch format {
	case FormatLegacy:
		return encodeLegacy(w, header, rows)
	case FormatRFC4180:
		return encodeRFC4180(w, header, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// EncodeToString es un atajo de Encode que devuelve el CSV como string.
func EncodeToString(format Format, header []string, rows [][]string) (string, error) {
	var b bytes.Buffer
	if err := Encode(&b, format, header, rows); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Decode lee todas las filas (incluida la cabecera, si existe) de r.
func Decode(r io.Reader, format Format, opts Options) ([][]string, error) {
	src, err := decodeCharset(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatLegacy:
		return decodeLegacy(src)
	case FormatRFC4180:
		return decodeRFC4180(src)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ── legacy ────────────────────────────────────────────────────────────────────

func encodeLegacy(w io.Writer, header []string, rows [][]string) error {
	lines := make([]string, 0, len(rows)+1)
	if header != nil {
		lines = append(lines, quoteAll(header))
	}
	for _, row := range rows {
		lines = append(lines, quoteAll(row))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// quoteAll envuelve cada campo en comillas sin escapar las internas.
func quoteAll(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + f + `"`
	}
	return strings.Join(quoted, ",")
}

func decodeLegacy(r io.Reader) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvcodec: leer: %w", err)
	}
	var out [][]string
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, ",")
		for i, c := range cells {
			cells[i] = strings.ReplaceAll(c, `"`, "")
		}
		out = append(out, cells)
	}
	return out, nil
}

// ── rfc4180 ───────────────────────────────────────────────────────────────────

func encodeRFC4180(w io.Writer, header []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if header != nil {
		if err := writer.Write(header); err != nil {
			return fmt.Errorf("csvcodec: escribir cabecera: %w", err)
		}
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("csvcodec: escribir fila: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csvcodec: flush: %w", err)
	}
	return nil
}

func decodeRFC4180(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csvcodec: %w", err)
	}
	return rows, nil
}

// ── charset ───────────────────────────────────────────────────────────────────

func decodeCharset(r io.Reader, charset string) (io.Reader, error) {
	var enc encoding.Encoding
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", "utf-8", "utf8":
		enc = unicode.UTF8BOM // quita el BOM si lo hay
	case "latin1", "iso-8859-1", "iso8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		enc = charmap.Windows1252
	default:
		return nil, fmt.Errorf("%w: charset %q", ErrUnknownFormat, charset)
	}
	return transform.NewReader(bufio.NewReader(r), enc.NewDecoder()), nil
}
