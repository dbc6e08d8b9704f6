// Package app arma las dependencias compartidas por los binarios.
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/auth"
	"github.com/mantenimiento/api/internal/config"
	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/repo"
	"github.com/mantenimiento/api/internal/storage"
)

const tokenIssuer = "mantenimiento-api"

// NewRedis devuelve nil si REDIS_URL no está configurado.
func NewRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis parse: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// NewProvider elige el proveedor según AUTH_PROVIDER, lo instrumenta y cachea
// las verificaciones en Redis o en memoria.
func NewProvider(ctx context.Context, cfg *config.Config, store *repo.PgStore, redisClient *redis.Client) (identity.Provider, error) {
	var base identity.Provider
	switch cfg.AuthProvider {
	case config.AuthProviderLocal:
		jwt := auth.NewJWTManager(cfg.LocalJWTSecret, tokenIssuer, cfg.LocalTokenTTL)
		base = identity.NewLocalProvider(store, jwt)
	default:
		fb, err := identity.NewFirebaseProvider(ctx, cfg.FirebaseCredentialsFile, cfg.FirebaseProjectID)
		if err != nil {
			return nil, fmt.Errorf("firebase: %w", err)
		}
		base = fb
	}
	log.Info().Str("provider", cfg.AuthProvider).Msg("proveedor de identidad listo")

	var cache identity.VerifyCache
	if redisClient != nil {
		cache = identity.NewRedisCache(redisClient)
	} else {
		cache = identity.NewMemoryCache(cfg.TokenCacheTTL)
	}
	return identity.NewCachingProvider(identity.Instrumented{Provider: base}, cache, cfg.TokenCacheTTL), nil
}

// NewUploader usa GCS si hay bucket; sin bucket los adjuntos fallan con
// error de configuración.
func NewUploader(ctx context.Context, cfg *config.Config) (storage.Uploader, func() error, error) {
	if cfg.StorageBucket == "" {
		log.Warn().Msg("GOOGLE_CLOUD_BUCKET_NAME vacío: adjuntos deshabilitados")
		return storage.NoopUploader{}, func() error { return nil }, nil
	}
	uploader, err := storage.NewGCSUploader(ctx, storage.GCSConfig{
		Bucket:      cfg.StorageBucket,
		Concurrency: cfg.UploadConcurrency,
		Timeout:     cfg.UploadTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("gcs: %w", err)
	}
	return uploader, uploader.Close, nil
}
