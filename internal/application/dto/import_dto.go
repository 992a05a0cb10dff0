package dto

// RowError fila rechazada durante una importación. Line cuenta desde 1 e incluye el encabezado.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportResult resumen de una importación CSV.
type ImportResult struct {
	Imported   int        `json:"imported"`
	Duplicates int        `json:"duplicates"` // filas descartadas por deduplicación
	Rejected   []RowError `json:"rejected"`
}

// ImportOptions parámetros de POST .../import.
type ImportOptions struct {
	Format  string `query:"format"`  // legacy | rfc4180
	Charset string `query:"charset"` // utf-8 | latin1 | windows-1252
	Dedup   bool   `query:"dedup"`
}
