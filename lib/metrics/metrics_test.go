package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := New()

	m.PassFinished("posted", time.Second)
	m.PassFinished("posted", time.Second)
	m.PassFinished("skipped", time.Millisecond)
	m.BlameFailed()
	m.ReviewersSuggested(3)
	m.ReviewersSuggested(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.passes.WithLabelValues("posted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.passes.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.blameFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.suggested))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reviewers_passes_total")
}

func TestNilMetrics(t *testing.T) {
	t.Parallel()

	var m *Metrics

	assert.NotPanics(t, func() {
		m.PassFinished("failed", time.Second)
		m.BlameFailed()
		m.ReviewersSuggested(1)
	})
}
