package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterExposesCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	handler, err := Register(reg)
	require.NoError(t, err)

	ProviderCalls.WithLabelValues("verify", Result(nil)).Inc()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "identity_provider_calls_total")
}

func TestResult(t *testing.T) {
	assert.Equal(t, "ok", Result(nil))
	assert.Equal(t, "error", Result(errors.New("x")))

	before := testutil.ToFloat64(TokenCache.WithLabelValues("hit"))
	TokenCache.WithLabelValues("hit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(TokenCache.WithLabelValues("hit")))
}
