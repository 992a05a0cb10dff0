package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	domaincrm "github.com/jhoicas/crm-api/internal/domain/crm"
	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

// csvRow fila de contactos con las posiciones de las columnas de la clave.
type csvRow struct {
	cells            []string
	first, last, eml int
}

func (r csvRow) cell(i int) string {
	if i >= 0 && i < len(r.cells) {
		return r.cells[i]
	}
	return ""
}

func (r csvRow) DedupFields() (string, string, string) {
	return r.cell(r.first), r.cell(r.last), r.cell(r.eml)
}

// keyColumns ubica first_name, last_name y email en el encabezado.
// Sin encabezado reconocible se asume el orden del export de contactos.
func keyColumns(header []string) (first, last, email int) {
	first, last, email = -1, -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "first_name":
			first = i
		case "last_name":
			last = i
		case "email":
			email = i
		}
	}
	if first < 0 || last < 0 || email < 0 {
		return 1, 2, 3
	}
	return first, last, email
}

func newDedupCmd() *cobra.Command {
	var (
		in, out, dupsOut, formatName, charset string
		skipBlank                             bool
	)
	cmd := &cobra.Command{
		Use:   "dedup",
		Short: "Detecta contactos duplicados (nombre + apellido + email) en un CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := csvcodec.ParseFormat(formatName)
			if err != nil {
				return err
			}
			rows, err := readCSV(in, format, charset)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("%s está vacío", in)
			}
			header, body := rows[0], rows[1:]
			first, last, email := keyColumns(header)
			records := make([]csvRow, len(body))
			for i, cells := range body {
				records[i] = csvRow{cells: cells, first: first, last: last, eml: email}
			}

			unique, dups := domaincrm.Partition(records, domaincrm.Options{SkipBlankKeys: skipBlank})
			log.Debug().Str("in", in).Int("rows", len(records)).Int("duplicates", len(dups)).Msg("dedup")

			if out != "" {
				if err := writeCSV(out, format, header, cellsOf(unique)); err != nil {
					return err
				}
			}
			if dupsOut != "" {
				if err := writeCSV(dupsOut, format, header, cellsOf(dups)); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "total: %d, únicos: %d, duplicados: %d\n", len(records), len(unique), len(dups))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "CSV de contactos de entrada")
	cmd.Flags().StringVar(&out, "out", "", "CSV con los contactos únicos")
	cmd.Flags().StringVar(&dupsOut, "duplicates", "", "CSV con los duplicados descartados")
	cmd.Flags().StringVar(&formatName, "format", string(csvcodec.FormatRFC4180), "formato CSV (rfc4180|legacy)")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "codificación de entrada (utf-8|latin1|windows-1252)")
	cmd.Flags().BoolVar(&skipBlank, "skip-blank", false, "no agrupar filas con nombre, apellido y email vacíos")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func cellsOf(rows []csvRow) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.cells
	}
	return out
}
