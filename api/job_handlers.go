package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list jobs for a pool
func (api *API) ListJobsHandler(c *gin.Context) {
	poolName := c.Param("poolName")
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		switch status {
		case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted,
			model.JobStatusFailed, model.JobStatusCancelled:
		default:
			result := &ValidationResult{Valid: true}
			result.AddError("status", "Unknown job status '"+statusParam+"'")
			SendInvalidRequestError(c, result)
			return
		}
		statusFilter = &status
	}

	jobs := api.engine.ListJobs(poolName, statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":      jobs,
		"pool_name": poolName,
		"total":     len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	manager := api.engine.GetJobManager()

	c.JSON(http.StatusOK, gin.H{
		"metrics":          manager.GetMetrics(),
		"success_rate":     manager.GetJobSuccessRate(),
		"current_workload": manager.GetCurrentWorkload(),
	})
}

// SnapshotHandler starts a job writing every pool to disk.
func (api *API) SnapshotHandler(c *gin.Context) {
	jobID, err := api.engine.SnapshotAsync()
	if err != nil {
		SendEngineError(c, "snapshot", err)
		return
	}
	acceptedJob(c, "Snapshot started", jobID, nil)
}
