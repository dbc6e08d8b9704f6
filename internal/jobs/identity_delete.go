package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/riverqueue/river"
	"github.com/rs/zerolog/log"

	"github.com/mantenimiento/api/internal/identity"
	"github.com/mantenimiento/api/internal/metrics"
)

// IdentityDeleteArgs borra una cuenta del proveedor que quedó sin registro local.
type IdentityDeleteArgs struct {
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

func (IdentityDeleteArgs) Kind() string { return "identity_delete" }

// InsertOpts evita encolar dos veces el mismo sujeto mientras el primero siga pendiente.
func (IdentityDeleteArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       river.QueueDefault,
		MaxAttempts: 10,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Hour,
		},
	}
}

// IdentityDeleteWorker reintenta DeleteIdentity hasta que el proveedor responda.
type IdentityDeleteWorker struct {
	river.WorkerDefaults[IdentityDeleteArgs]
	provider identity.Provider
}

func NewIdentityDeleteWorker(provider identity.Provider) *IdentityDeleteWorker {
	return &IdentityDeleteWorker{provider: provider}
}

func (w *IdentityDeleteWorker) Work(ctx context.Context, job *river.Job[IdentityDeleteArgs]) error {
	if w == nil || w.provider == nil {
		return fmt.Errorf("identity_delete: worker no inicializado")
	}
	err := deleteIdentity(ctx, w.provider, job.Args)
	metrics.JobRuns.WithLabelValues(job.Args.Kind(), metrics.Result(err)).Inc()
	return err
}

func deleteIdentity(ctx context.Context, provider identity.Provider, args IdentityDeleteArgs) error {
	if args.Subject == "" {
		return nil
	}
	err := provider.DeleteIdentity(ctx, args.Subject)
	if errors.Is(err, identity.ErrNotFound) {
		log.Info().Str("subject", args.Subject).Msg("identidad ya borrada en el proveedor")
		return nil
	}
	if err != nil {
		return fmt.Errorf("identity_delete %s: %w", args.Subject, err)
	}
	log.Info().Str("subject", args.Subject).Str("reason", args.Reason).Msg("identidad huérfana borrada")
	return nil
}
