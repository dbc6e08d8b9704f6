package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mantenimiento/api/internal/app"
	"github.com/mantenimiento/api/internal/config"
	"github.com/mantenimiento/api/internal/db"
	internalhttp "github.com/mantenimiento/api/internal/http"
	"github.com/mantenimiento/api/internal/jobs"
	"github.com/mantenimiento/api/internal/metrics"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api terminada con error")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisClient, err := app.NewRedis(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	store := repo.NewStore(pool)
	provider, err := app.NewProvider(ctx, cfg, store, redisClient)
	if err != nil {
		return err
	}
	uploader, closeUploader, err := app.NewUploader(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeUploader()

	var compensator service.Compensator = jobs.NoopCompensator{}
	var startJobs, stopJobs func(context.Context) error
	if cfg.Jobs.Enabled {
		client, err := jobs.NewClient(pool, provider, uploader, jobs.Config{
			MaxWorkers:                  cfg.Jobs.MaxWorkers,
			CompletedJobRetentionPeriod: cfg.Jobs.CompletedJobRetentionPeriod,
		})
		if err != nil {
			return fmt.Errorf("jobs: %w", err)
		}
		compensator = jobs.NewQueue(client)
		startJobs, stopJobs = client.Start, client.Stop
	} else {
		log.Warn().Msg("JOBS_ENABLED=false: las compensaciones sólo se registran en el log")
	}

	metricsHandler, err := metrics.Register(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	svc := internalhttp.Services{
		Identity:     service.NewIdentityService(store, provider),
		Zonas:        service.NewZonaService(store),
		Sucursales:   service.NewSucursalService(store),
		Preventivos:  service.NewPreventivoService(store),
		Cuadrillas:   service.NewCuadrillaService(store, provider, compensator),
		Usuarios:     service.NewUsuarioService(store, provider, compensator),
		Correctivos:  service.NewMantenimientoCorrectivoService(store, uploader, compensator),
		Programados:  service.NewMantenimientoPreventivoService(store, uploader, compensator),
		Preferencias: service.NewPreferenciaService(store),
	}
	handler := internalhttp.NewRouter(cfg, svc, internalhttp.Options{
		Ready: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if redisClient != nil {
				if err := redisClient.Ping(ctx).Err(); err != nil {
					return fmt.Errorf("redis: %w", err)
				}
			}
			return nil
		},
		Metrics: metricsHandler,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	if startJobs != nil {
		g.Go(func() error {
			if err := startJobs(gctx); err != nil {
				return fmt.Errorf("iniciar jobs: %w", err)
			}
			log.Info().Int("workers", cfg.Jobs.MaxWorkers).Msg("cola de compensaciones iniciada")
			return nil
		})
	}
	g.Go(func() error {
		log.Info().Msgf("API escuchando en %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("cerrando...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if stopJobs != nil {
			return stopJobs(shutdownCtx)
		}
		return nil
	})

	return g.Wait()
}
