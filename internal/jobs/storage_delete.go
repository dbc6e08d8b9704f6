package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/metrics"
	"github.com/mantenimiento/api/internal/storage"
)

// StorageDeleteArgs borra objetos subidos cuyo registro nunca se confirmó.
type StorageDeleteArgs struct {
	URLs   []string `json:"urls"`
	Reason string   `json:"reason"`
}

func (StorageDeleteArgs) Kind() string { return "storage_delete" }

func (StorageDeleteArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 5,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Hour,
		},
	}
}

// StorageDeleteWorker borra cada URL; un objeto inexistente cuenta como borrado.
type StorageDeleteWorker struct {
	river.WorkerDefaults[StorageDeleteArgs]
	uploader storage.Uploader
}

func NewStorageDeleteWorker(uploader storage.Uploader) *StorageDeleteWorker {
	return &StorageDeleteWorker{uploader: uploader}
}

func (w *StorageDeleteWorker) Work(ctx context.Context, job *river.Job[StorageDeleteArgs]) error {
	if w == nil || w.uploader == nil {
		return fmt.Errorf("storage_delete: worker no inicializado")
	}
	err := deleteObjects(ctx, w.uploader, job.Args)
	metrics.JobRuns.WithLabelValues(job.Args.Kind(), metrics.Result(err)).Inc()
	return err
}

// deleteObjects intenta todas las URLs aunque alguna falle. El reintento
// repite también las ya borradas, que devuelven false sin error.
func deleteObjects(ctx context.Context, uploader storage.Uploader, args StorageDeleteArgs) error {
	var errs []error
	for _, url := range args.URLs {
		existed, err := uploader.Delete(ctx, url)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		log.Debug().Str("url", url).Bool("existed", existed).Msg("objeto huérfano borrado")
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("storage_delete (%s): %w", args.Reason, err)
	}
	return nil
}
