package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareLabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/event-runs/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/event-runs/:id", "204"))
	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/event-runs/"+id, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	assert.Equal(t, before+2, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/event-runs/:id", "204")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mayhouse_http_requests_total")
}

func TestRecordJobAndChainTx(t *testing.T) {
	RecordJob("price_refresh", 20*time.Millisecond, nil)
	RecordJob("price_refresh", 0, errors.New("timeout"))
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("price_refresh", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(jobRuns.WithLabelValues("price_refresh", "false")))

	RecordChainTx("createEventRun", nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(chainTransactions.WithLabelValues("createEventRun", "true")))
}
