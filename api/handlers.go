package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/internal/analytics"
	"github.com/gcbaptista/candidate-search/internal/jobs"
	"github.com/gcbaptista/candidate-search/internal/metrics"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/services"
)

// Engine is what the handlers need from the pool orchestrator.
type Engine interface {
	services.PoolManagerWithAsync
	services.JobManager
	Dictionary() *terms.Dictionary
	HasSource() bool
	TotalCandidates() int
	GetJobManager() *jobs.Manager
}

// API holds dependencies for API handlers, primarily the pool engine.
type API struct {
	engine    Engine
	analytics *analytics.Service
	log       *logrus.Entry
	started   time.Time
}

// NewAPI creates a new API handler structure. A nil analytics service disables search tracking.
func NewAPI(engine Engine, analyticsService *analytics.Service) *API {
	return &API{
		engine:    engine,
		analytics: analyticsService,
		log:       logrus.WithField("component", "api"),
		started:   time.Now(),
	}
}

// RouterOptions tunes the middleware stack built by NewRouter.
type RouterOptions struct {
	MaxRequestBytes int64
	RateLimitRPS    float64
	RateLimitBurst  int
}

// NewRouter builds a gin engine with the middleware stack and every route.
func NewRouter(api *API, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware())
	router.Use(metrics.GinMiddleware())
	router.Use(AccessLogMiddleware(api.log))
	if opts.RateLimitRPS > 0 {
		router.Use(NewRateLimiter(opts.RateLimitRPS, max(opts.RateLimitBurst, 1)).Middleware())
	}
	if opts.MaxRequestBytes > 0 {
		router.Use(RequestSizeLimitMiddleware(opts.MaxRequestBytes))
	}

	SetupRoutes(router, api)
	return router
}

// SetupRoutes defines all the API routes for the candidate search service.
func SetupRoutes(router *gin.Engine, api *API) {
	router.GET("/health", api.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/analytics", api.GetAnalyticsHandler)

	// Term dictionary and query parsing
	router.GET("/terms", api.ListTermsHandler)
	router.GET("/terms/:category", api.GetTermCategoryHandler)
	router.POST("/_parse", api.ParseQueryHandler)
	router.POST("/_snapshot", api.SnapshotHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("/metrics", api.GetJobMetricsHandler) // Get job performance metrics
		jobRoutes.GET("/:jobId", api.GetJobHandler)         // Get job status by ID
	}

	// Pool management routes
	poolRoutes := router.Group("/pools")
	{
		poolRoutes.POST("", api.CreatePoolHandler)                             // Create a new pool
		poolRoutes.GET("", api.ListPoolsHandler)                               // List all pools
		poolRoutes.GET("/:poolName", api.GetPoolHandler)                       // Get pool settings and size
		poolRoutes.DELETE("/:poolName", api.DeletePoolHandler)                 // Delete a pool
		poolRoutes.PATCH("/:poolName/settings", api.UpdatePoolSettingsHandler) // Update pool settings
		poolRoutes.POST("/:poolName/rename", api.RenamePoolHandler)            // Rename a pool
		poolRoutes.GET("/:poolName/stats", api.GetPoolStatsHandler)            // Get pool statistics
		poolRoutes.GET("/:poolName/jobs", api.ListJobsHandler)                 // List jobs for a pool

		candidateRoutes := poolRoutes.Group("/:poolName/candidates")
		{
			candidateRoutes.PUT("", api.AddCandidatesHandler)
			candidateRoutes.GET("", api.ListCandidatesHandler)
			candidateRoutes.DELETE("", api.DeleteAllCandidatesHandler)
			candidateRoutes.GET("/:candidateId", api.GetCandidateHandler)
			candidateRoutes.DELETE("/:candidateId", api.DeleteCandidateHandler)
		}

		poolRoutes.POST("/:poolName/_sync", api.SyncPoolHandler)
		poolRoutes.POST("/:poolName/_search", api.SearchHandler)
	}
}

// pool resolves the :poolName parameter or writes the error response.
func (api *API) pool(c *gin.Context) (string, services.PoolAccessor, bool) {
	poolName := c.Param("poolName")
	if result := ValidatePoolName(poolName); result.HasErrors() {
		SendValidationError(c, result)
		return poolName, nil, false
	}

	accessor, err := api.engine.GetPool(poolName)
	if err != nil {
		SendEngineError(c, "get pool", err)
		return poolName, nil, false
	}
	return poolName, accessor, true
}

func acceptedJob(c *gin.Context, message, jobID string, extra gin.H) {
	body := gin.H{
		"status":  "accepted",
		"message": message,
		"job_id":  jobID,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusAccepted, body)
}
