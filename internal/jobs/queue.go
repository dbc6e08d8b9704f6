package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/riverqueue/river/rivertype"
	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/storage"
)

// Config controla el cliente de River.
type Config struct {
	MaxWorkers                  int
	CompletedJobRetentionPeriod time.Duration
}

// NewClient registra los workers de compensación sobre el pool compartido.
func NewClient(pool *pgxpool.Pool, provider identity.Provider, uploader storage.Uploader, cfg Config) (*river.Client[pgx.Tx], error) {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 5
	}
	workers := river.NewWorkers()
	if err := river.AddWorkerSafely(workers, NewIdentityDeleteWorker(provider)); err != nil {
		return nil, fmt.Errorf("registrar identity_delete: %w", err)
	}
	if err := river.AddWorkerSafely(workers, NewStorageDeleteWorker(uploader)); err != nil {
		return nil, fmt.Errorf("registrar storage_delete: %w", err)
	}

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: cfg.MaxWorkers},
		},
		Workers:                     workers,
		CompletedJobRetentionPeriod: cfg.CompletedJobRetentionPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("crear cliente river: %w", err)
	}
	log.Info().Int("max_workers", cfg.MaxWorkers).Msg("cliente river inicializado")
	return client, nil
}

// Migrate crea o actualiza las tablas de River.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("crear migrador river: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return fmt.Errorf("river migrate up: %w", err)
	}
	if len(res.Versions) > 0 {
		log.Info().Int("versions_applied", len(res.Versions)).Msg("migración de river aplicada")
	} else {
		log.Info().Msg("river ya estaba actualizado")
	}
	return nil
}

// Inserter es el subconjunto de *river.Client que usa Queue.
type Inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Queue encola las compensaciones como jobs de River.
type Queue struct {
	client Inserter
}

func NewQueue(client Inserter) *Queue {
	return &Queue{client: client}
}

func (q *Queue) EnqueueIdentityDelete(ctx context.Context, subject, reason string) error {
	res, err := q.client.Insert(ctx, IdentityDeleteArgs{Subject: subject, Reason: reason}, nil)
	if err != nil {
		return fmt.Errorf("encolar identity_delete: %w", err)
	}
	logInsert(res, "identity_delete")
	return nil
}

func (q *Queue) EnqueueStorageDelete(ctx context.Context, urls []string, reason string) error {
	if len(urls) == 0 {
		return nil
	}
	res, err := q.client.Insert(ctx, StorageDeleteArgs{URLs: urls, Reason: reason}, nil)
	if err != nil {
		return fmt.Errorf("encolar storage_delete: %w", err)
	}
	logInsert(res, "storage_delete")
	return nil
}

func logInsert(res *rivertype.JobInsertResult, kind string) {
	if res == nil || res.Job == nil {
		return
	}
	log.Info().Int64("job_id", res.Job.ID).Str("kind", kind).Bool("duplicado", res.UniqueSkippedAsDuplicate).Msg("compensación encolada")
}

// NoopCompensator sólo registra las compensaciones. Se usa cuando no hay cola
// configurada; los huérfanos quedan en el log para limpieza manual.
type NoopCompensator struct{}

func (NoopCompensator) EnqueueIdentityDelete(ctx context.Context, subject, reason string) error {
	log.Warn().Str("subject", subject).Str("reason", reason).Msg("identidad huérfana sin cola de compensación")
	return nil
}

func (NoopCompensator) EnqueueStorageDelete(ctx context.Context, urls []string, reason string) error {
	log.Warn().Strs("urls", urls).Str("reason", reason).Msg("objetos huérfanos sin cola de compensación")
	return nil
}
