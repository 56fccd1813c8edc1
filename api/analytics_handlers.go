package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/model"
)

// GetAnalyticsHandler handles the request to get analytics data
func (api *API) GetAnalyticsHandler(c *gin.Context) {
	if api.analytics == nil {
		c.JSON(http.StatusOK, model.AnalyticsDashboard{})
		return
	}
	c.JSON(http.StatusOK, api.analytics.GetDashboardData())
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        "candidate-search",
		"timestamp":      time.Now().Unix(),
		"uptime_seconds": int64(time.Since(api.started).Seconds()),
		"pools":          len(api.engine.ListPools()),
		"candidates":     api.engine.TotalCandidates(),
		"sql_source":     api.engine.HasSource(),
	})
}

func (api *API) trackSearch(event model.SearchEvent) {
	if api.analytics != nil {
		api.analytics.TrackSearchEvent(event)
	}
}
