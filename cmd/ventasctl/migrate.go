package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica las migraciones pendientes del esquema",
	Example: `  # Aplicar migraciones con la base de DATABASE_URL
  ventasctl migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	pool, err := postgres.NewPool(ctx, app.cfg.DB, app.log.Component("postgres"))
	if err != nil {
		return err
	}
	defer pool.Close()

	applied, err := postgres.Migrate(ctx, pool)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "esquema al día")
		return nil
	}
	for _, name := range applied {
		fmt.Fprintln(cmd.OutOrStdout(), "aplicada", name)
	}
	return nil
}
