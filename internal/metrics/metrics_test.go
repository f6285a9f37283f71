package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"local_portal/internal/domain"
)

func TestCollector_RecordsValues(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequest(http.MethodGet, "/api/articles", http.StatusOK, 20*time.Millisecond)
	c.RecordRequest(http.MethodGet, "/api/articles", http.StatusOK, 30*time.Millisecond)
	c.StreamOpened("articles")
	c.StreamOpened("articles")
	c.StreamClosed("articles")
	c.RecordPlaceholder("hero", "error")
	c.RecordSweep(&domain.SweepStats{ClassifiedsExpired: 3, AdsExpired: 1, Duration: time.Second})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("GET", "/api/articles", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeStreams.WithLabelValues("articles")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.placeholders.WithLabelValues("hero", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.expired.WithLabelValues("classifieds")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.expired.WithLabelValues("advertisements")))
}

func TestHandler_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordRequest(http.MethodPost, "/api/ads/{id}/click", http.StatusNoContent, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "portal_http_requests_total")
	assert.Contains(t, string(body), `route="/api/ads/{id}/click"`)
}
