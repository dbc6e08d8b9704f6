package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mantenimiento/api/internal/app"
	"github.com/mantenimiento/api/internal/config"
	"github.com/mantenimiento/api/internal/db"
	"github.com/mantenimiento/api/internal/jobs"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/service"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var cfg *config.Config

	root := &cobra.Command{
		Use:           "admin",
		Short:         "Tareas operativas de la API de mantenimiento",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			cfg = loaded
			return nil
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica el esquema y las tablas de River",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				if err := db.Migrate(ctx, pool); err != nil {
					return err
				}
				log.Info().Msg("esquema aplicado")
				return jobs.Migrate(ctx, pool)
			})
		},
	}

	var nombre, email, password string
	initAdminCmd := &cobra.Command{
		Use:   "init-admin",
		Short: "Crea el primer Administrador si no existe (INIT_ADMIN_*)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if nombre == "" {
				nombre = cfg.InitAdmin.Nombre
			}
			if email == "" {
				email = cfg.InitAdmin.Email
			}
			if password == "" {
				password = cfg.InitAdmin.Password
			}
			if email == "" || password == "" {
				return fmt.Errorf("--email y --password (o INIT_ADMIN_EMAIL/INIT_ADMIN_PASSWORD) son requeridos")
			}

			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				store := repo.NewStore(pool)
				provider, err := app.NewProvider(ctx, cfg, store, nil)
				if err != nil {
					return err
				}
				usuarios := service.NewUsuarioService(store, provider, jobs.NoopCompensator{})
				u, created, err := usuarios.Bootstrap(ctx, nombre, service.Credentials{Email: email, Password: password})
				if err != nil {
					return err
				}
				if created {
					log.Info().Int64("id", u.ID).Str("email", u.Email).Msg("administrador creado")
				} else {
					log.Info().Int64("id", u.ID).Str("email", u.Email).Msg("el administrador ya existía")
				}
				return nil
			})
		},
	}
	initAdminCmd.Flags().StringVar(&nombre, "nombre", "", "Nombre del administrador")
	initAdminCmd.Flags().StringVar(&email, "email", "", "Email del administrador")
	initAdminCmd.Flags().StringVar(&password, "password", "", "Contraseña inicial")

	zonasCmd := &cobra.Command{
		Use:   "zonas",
		Short: "Consulta el catálogo de zonas",
	}
	zonasCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista las zonas en JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withPool(cmd.Context(), cfg, func(ctx context.Context, pool *pgxpool.Pool) error {
				zonas, err := repo.NewStore(pool).ListZonas(ctx)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(zonas)
			})
		},
	})

	root.AddCommand(migrateCmd, initAdminCmd, zonasCmd)

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("comando fallido")
		os.Exit(1)
	}
}

func withPool(ctx context.Context, cfg *config.Config, fn func(ctx context.Context, pool *pgxpool.Pool) error) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()
	return fn(ctx, pool)
}
