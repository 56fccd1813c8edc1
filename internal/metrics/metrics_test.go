package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGinMiddleware_LabelsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/pools/:poolName", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/pools/:poolName", "204"))
	for _, name := range []string{"accra", "kumasi"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pools/"+name, nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/pools/:poolName", "204"))

	assert.Equal(t, before+2, after)
	assert.Zero(t, testutil.ToFloat64(httpInFlight))
}

func TestRecordSearch(t *testing.T) {
	before := testutil.ToFloat64(searches.WithLabelValues("exclusive", "false"))
	RecordSearch("exclusive", 12, 3*time.Millisecond, false)
	assert.Equal(t, before+1, testutil.ToFloat64(searches.WithLabelValues("exclusive", "false")))
}

func TestRecordJob(t *testing.T) {
	before := testutil.ToFloat64(jobRuns.WithLabelValues("sync_sql", "failed"))
	RecordJob("sync_sql", "failed", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(jobRuns.WithLabelValues("sync_sql", "failed")))
}

func TestPoolSizeGauge(t *testing.T) {
	SetPoolSize("metrics-test", 42)
	assert.Equal(t, float64(42), testutil.ToFloat64(poolCandidates.WithLabelValues("metrics-test")))

	ForgetPool("metrics-test")
	assert.Zero(t, testutil.ToFloat64(poolCandidates.WithLabelValues("metrics-test")))
}

func TestHandler(t *testing.T) {
	RecordSearch("open", 1, time.Millisecond, false)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "candidate_search_matcher_searches_total")
}
