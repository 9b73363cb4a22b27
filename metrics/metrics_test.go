package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandlerLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/projects/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", Handler())

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/projects/{slug}", "404"))
	for _, slug := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/projects/"+slug, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/projects/{slug}", "404"))
	assert.Equal(t, before+2, after)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "devengine_http_requests_total")
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(checkouts.WithLabelValues(OutcomeRedirected))
	RecordCheckout(OutcomeRedirected)
	assert.Equal(t, before+1, testutil.ToFloat64(checkouts.WithLabelValues(OutcomeRedirected)))

	before = testutil.ToFloat64(validations.WithLabelValues(OutcomeDuplicate))
	RecordValidation(OutcomeDuplicate)
	assert.Equal(t, before+1, testutil.ToFloat64(validations.WithLabelValues(OutcomeDuplicate)))

	done := ObserveGateway("validate")
	done()
	assert.Equal(t, 1, testutil.CollectAndCount(gatewayDuration))
}
