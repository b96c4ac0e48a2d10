package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatStats(t *testing.T) {
	before := testutil.ToFloat64(filesProcessedTotal.WithLabelValues("failed"))
	s := ConcatStats{}
	s.FileProcessed(true)
	s.FileProcessed(false)
	s.RunFinished(10 * time.Millisecond)

	assert.Equal(t, before+1, testutil.ToFloat64(filesProcessedTotal.WithLabelValues("failed")))
}

func TestConnectionGauge(t *testing.T) {
	SetConnected(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(channelConnected))
	SetConnected(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(channelConnected))
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordExecution("sent")
	RecordDial(1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workbench_executions_total")
	assert.Contains(t, rec.Body.String(), "workbench_channel_dial_attempts_total")
}
