package metrics

import (
	"errors"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Los colectores existen desde el arranque; Register sólo los expone.
var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// ProviderCalls cuenta llamadas al proveedor de identidad. result: ok|error.
	ProviderCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "identity_provider_calls_total",
		Help: "Llamadas al proveedor de identidad por operación y resultado",
	}, []string{"op", "result"})

	StorageOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storage_operations_total",
		Help: "Operaciones contra el almacenamiento de objetos",
	}, []string{"op", "result"})

	// TokenCache cuenta aciertos y fallos del cache de verificación.
	TokenCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "token_cache_lookups_total",
		Help: "Consultas al cache de verificación de tokens",
	}, []string{"result"})

	Compensations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "compensations_enqueued_total",
		Help: "Acciones compensatorias encoladas por tipo",
	}, []string{"kind"})

	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_processed_total",
		Help: "Ejecuciones de jobs en segundo plano por tipo y resultado",
	}, []string{"kind", "result"})
)

var (
	registerOnce sync.Once
	registerErr  error
)

// Register registra los colectores una sola vez y devuelve el handler de /metrics.
func Register(reg prometheus.Registerer) (http.Handler, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	registerOnce.Do(func() {
		for _, c := range []prometheus.Collector{
			HTTPRequests, HTTPDuration, ProviderCalls, StorageOps, TokenCache, Compensations, JobRuns,
		} {
			if err := reg.Register(c); err != nil {
				var already prometheus.AlreadyRegisteredError
				if errors.As(err, &already) {
					continue
				}
				registerErr = err
				return
			}
		}
	})
	if registerErr != nil {
		return nil, registerErr
	}
	if gatherer, ok := reg.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}), nil
	}
	return promhttp.Handler(), nil
}

// Result traduce un error al label result.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
