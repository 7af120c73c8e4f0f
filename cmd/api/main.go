package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clinic-franchise-api/pkg/config"
	"github.com/jhoicas/clinic-franchise-api/pkg/logger"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "clinic-api",
		Short:        "API de la red de clínicas: franquicias, pacientes, inventario y facturación",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap carga la configuración y arma el logger que comparten todos los subcomandos.
func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	return cfg, log, nil
}
