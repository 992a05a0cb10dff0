package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

func newConvertCmd() *cobra.Command {
	var in, out, from, to, charset string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convierte un CSV entre los formatos legacy y rfc4180 (salida en UTF-8)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			src, err := csvcodec.ParseFormat(from)
			if err != nil {
				return err
			}
			dst, err := csvcodec.ParseFormat(to)
			if err != nil {
				return err
			}
			rows, err := readCSV(in, src, charset)
			if err != nil {
				return err
			}
			if err := writeCSV(out, dst, nil, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d filas convertidas de %s a %s\n", len(rows), src, dst)
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "CSV de entrada")
	cmd.Flags().StringVar(&out, "out", "", "CSV de salida")
	cmd.Flags().StringVar(&from, "from", string(csvcodec.FormatLegacy), "formato de entrada")
	cmd.Flags().StringVar(&to, "to", string(csvcodec.FormatRFC4180), "formato de salida")
	cmd.Flags().StringVar(&charset, "charset", "utf-8", "codificación de entrada (utf-8|latin1|windows-1252)")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
