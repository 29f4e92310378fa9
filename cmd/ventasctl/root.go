package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

var version = "1.0.0"

// app estado compartido por los subcomandos, cargado en PersistentPreRunE.
var app struct {
	cfg *config.Config
	log *logger.Logger
}

var rootCmd = &cobra.Command{
	Use:   "ventasctl",
	Short: "Herramientas de operación del core de ventas",
	Long: `ventasctl aplica las migraciones de PostgreSQL y genera los estados
financieros (resultados, flujo de caja, balance) de un propietario.

Lee la misma configuración que la API: DATABASE_URL o DB_*, LOG_LEVEL, APP_ENV.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("cargar configuración: %w", err)
		}
		app.cfg = cfg
		app.log = logger.New(logger.Config{
			Env:     cfg.App.Env,
			Level:   cfg.App.LogLevel,
			Service: "ventasctl",
			Output:  cmd.ErrOrStderr(),
		})
		return nil
	},
}

// Execute ejecuta el comando raíz y termina con código 1 si falla.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if app.log != nil {
			app.log.Error().Err(err).Msg("fallo en la ejecución del comando")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
