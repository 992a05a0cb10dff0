package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/crm-api/pkg/logger"
)

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "crmctl",
		Short:         "Herramientas de administración del CRM",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.New(logger.Config{Env: "development", Level: logLevel, Out: cmd.ErrOrStderr()})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "nivel de log (debug, info, warn, error)")

	root.AddCommand(newDedupCmd(), newConvertCmd(), newMigrateCmd(), newSeedCmd())
	return root
}
