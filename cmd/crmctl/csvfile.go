package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/crm-api/pkg/csvcodec"
)

func readCSV(path string, format csvcodec.Format, charset string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rows, err := csvcodec.Decode(f, format, csvcodec.Options{Charset: charset})
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	return rows, nil
}

func writeCSV(path string, format csvcodec.Format, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csvcodec.Encode(f, format, header, rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	return f.Close()
}
