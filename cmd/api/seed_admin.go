package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jhoicas/clinic-franchise-api/internal/application/auth"
	"github.com/jhoicas/clinic-franchise-api/internal/domain"
	"github.com/jhoicas/clinic-franchise-api/internal/infrastructure/postgres"
)

// seedAdminCmd crea el primer administrador de la central. Es idempotente por email.
func seedAdminCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el usuario administrador inicial",
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

			repos := postgres.NewRepos(pool)
			uc := auth.NewAuthUseCase(repos.Users, repos.Franchises, auth.JWTConfig{
				Secret:     cfg.JWT.Secret,
				ExpMinutes: cfg.JWT.Expiration,
				Issuer:     cfg.JWT.Issuer,
			}, log)
			user, err := uc.SeedAdmin(ctx, email, password, name)
			if errors.Is(err, domain.ErrEmailAlreadyExists) {
				log.Info().Str("email", email).Msg("el administrador ya existe")
				return nil
			}
			if err != nil {
				return err
			}
			log.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("administrador creado")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del administrador")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&name, "name", "Administrador", "nombre visible")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
