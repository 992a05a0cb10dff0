// crmctl herramientas de línea de comandos del CRM: deduplicación y conversión de CSV
// sin servidor, migraciones y datos de demostración.
//
// Uso:
//
//	crmctl dedup --in contactos.csv --out unicos.csv --duplicates repetidos.csv
//	crmctl convert --in viejo.csv --out nuevo.csv --from legacy --to rfc4180 --charset latin1
//	crmctl migrate
//	crmctl seed --company 00000000-0000-0000-0000-000000000001
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
