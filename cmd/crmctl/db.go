package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-api/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-api/internal/infrastructure/seed"
	"github.com/jhoicas/crm-api/pkg/config"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones embebidas a la base configurada (DATABASE_URL o DB_*)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migraciones aplicadas")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var companyID string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Carga los datos de demostración en PostgreSQL (idempotente por empresa)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if companyID == "" {
				companyID = cfg.Storage.DemoCompanyID
			}
			if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			res, err := seed.Run(ctx, postgres.NewRepos(pool), postgres.NewTxRunner(pool), seed.Options{CompanyID: companyID})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintf(w, "la empresa %s ya existe, no se cargó nada\n", res.CompanyID)
				return nil
			}
			fmt.Fprintf(w, "empresa %s: %d contactos, %d cotizaciones, %d facturas, %d pagos, %d movimientos\n",
				res.CompanyID, res.Contacts, res.Quotes, res.Invoices, res.Payments, res.Transactions)
			fmt.Fprintf(w, "usuario: %s / %s\n", seed.DemoAdminEmail, seed.DemoAdminPassword)
			return nil
		},
	}
	cmd.Flags().StringVar(&companyID, "company", "", "ID (UUID) de la empresa demo; por defecto DEMO_COMPANY_ID")
	return cmd
}
