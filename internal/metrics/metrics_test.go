package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/api/moods/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest(http.MethodGet, "/api/moods/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	got := testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "/api/moods/{id}", "404"))
	assert.Equal(t, 3.0, got)
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	got := testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "unmatched", "404"))
	assert.Equal(t, 1.0, got)
}

func TestRecordAuthRejection(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuthRejection("forbidden")
	c.RecordAuthRejection("forbidden")
	c.RecordAuthRejection("invalid_credential")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.authRejections.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authRejections.WithLabelValues("invalid_credential")))

	var nilCollector *Collector
	assert.NotPanics(t, func() { nilCollector.RecordAuthRejection("forbidden") })
}

func TestHandler_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordAuthRejection("unauthenticated")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `zenly_auth_rejections_total{reason="unauthenticated"} 1`))
}
