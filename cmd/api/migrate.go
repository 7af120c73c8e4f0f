package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones de la base de datos",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "migrations", "directorio con los archivos NNN_nombre.sql")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.NewMigrator(pool, os.DirFS(dir)).Up(ctx)
			if err != nil {
				log.Error().Err(err).Msg("migración fallida")
				return err
			}
			for _, name := range applied {
				log.Info().Str("migration", name).Msg("aplicada")
			}
			log.Info().Int("count", len(applied)).Msg("migraciones al día")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado de cada migración",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := bootstrap()
			if err != nil {
				return err
			}
			ctx := context.Background()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			list, err := postgres.NewMigrator(pool, os.DirFS(dir)).Status(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, m := range list {
				state := "pendiente"
				if m.Applied && m.AppliedAt != nil {
					state = "aplicada " + m.AppliedAt.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(out, "%03d  %-30s %s\n", m.Version, m.Name, state)
			}
			return nil
		},
	}

	cmd.AddCommand(upCmd, statusCmd)
	return cmd
}
