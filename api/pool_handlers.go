package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/model"
)

// CreatePoolHandler handles the request to create a new pool.
// Request Body: config.PoolSettings
func (api *API) CreatePoolHandler(c *gin.Context) {
	var settings config.PoolSettings

	if result := ValidateJSONBinding(c, &settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if result := ValidatePoolSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.CreatePoolAsync(settings)
	if err != nil {
		SendEngineError(c, "create pool", err)
		return
	}

	acceptedJob(c, "Pool creation started for '"+settings.Name+"'", jobID, nil)
}

// PoolSummary is one entry of the pool listing.
type PoolSummary struct {
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	CandidateCount int    `json:"candidate_count"`
}

// ListPoolsHandler lists all available pools.
func (api *API) ListPoolsHandler(c *gin.Context) {
	names := api.engine.ListPools()

	pools := make([]PoolSummary, 0, len(names))
	for _, name := range names {
		accessor, err := api.engine.GetPool(name)
		if err != nil {
			continue // deleted since ListPools
		}
		settings := accessor.Settings()
		pools = append(pools, PoolSummary{
			Name:           name,
			Description:    settings.Description,
			CandidateCount: accessor.CandidateCount(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"pools": pools, "count": len(pools)})
}

// GetPoolHandler retrieves the settings and size of a pool.
func (api *API) GetPoolHandler(c *gin.Context) {
	_, accessor, ok := api.pool(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"settings":        accessor.Settings(),
		"candidate_count": accessor.CandidateCount(),
	})
}

// DeletePoolHandler handles deleting a pool.
func (api *API) DeletePoolHandler(c *gin.Context) {
	poolName := c.Param("poolName")

	if err := api.engine.DeletePool(poolName); err != nil {
		SendEngineError(c, "delete pool", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pool '" + poolName + "' deleted successfully"})
}

// RenamePoolRequest defines the structure for renaming a pool
type RenamePoolRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

// RenamePoolHandler handles requests to rename a pool
func (api *API) RenamePoolHandler(c *gin.Context) {
	oldName := c.Param("poolName")

	var req RenamePoolRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateRenameRequest(oldName, req.NewName); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.RenamePool(oldName, req.NewName); err != nil {
		SendEngineError(c, "rename pool", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Pool renamed successfully",
		"old_name": oldName,
		"new_name": req.NewName,
	})
}

// PoolSettingsUpdate defines the structure for updating pool settings.
// Absent keys keep their current value.
type PoolSettingsUpdate struct {
	Description      *string              `json:"description,omitempty"`
	Fields           *config.FieldMapping `json:"fields,omitempty"`
	FilterableFields *[]string            `json:"filterable_fields,omitempty"`
	DefaultPageSize  *int                 `json:"default_page_size,omitempty"`
	CacheResults     *bool                `json:"cache_results,omitempty"`
}

// apply merges the update into settings and reports whether anything was set.
func (u PoolSettingsUpdate) apply(settings *config.PoolSettings) bool {
	updated := false
	if u.Description != nil {
		settings.Description = *u.Description
		updated = true
	}
	if u.Fields != nil {
		settings.Fields = *u.Fields
		settings.Fields.ApplyDefaults()
		updated = true
	}
	if u.FilterableFields != nil {
		settings.FilterableFields = *u.FilterableFields
		updated = true
	}
	if u.DefaultPageSize != nil {
		settings.DefaultPageSize = *u.DefaultPageSize
		updated = true
	}
	if u.CacheResults != nil {
		settings.CacheResults = *u.CacheResults
		updated = true
	}
	return updated
}

// UpdatePoolSettingsHandler handles requests to update pool settings
func (api *API) UpdatePoolSettingsHandler(c *gin.Context) {
	poolName := c.Param("poolName")

	settings, err := api.engine.GetPoolSettings(poolName)
	if err != nil {
		SendEngineError(c, "get pool settings", err)
		return
	}

	var update PoolSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if !update.apply(&settings) {
		c.JSON(http.StatusOK, gin.H{"message": "No settings changed", "settings": settings})
		return
	}
	if result := ValidatePoolSettings(&settings); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := api.engine.UpdatePoolSettings(poolName, settings); err != nil {
		SendEngineError(c, "update pool settings", err)
		return
	}

	updated, err := api.engine.GetPoolSettings(poolName)
	if err != nil {
		SendEngineError(c, "get pool settings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Settings of pool '%s' updated", poolName),
		"settings": updated,
	})
}

// GetPoolStatsHandler reports the size, mapping and job history of a pool.
func (api *API) GetPoolStatsHandler(c *gin.Context) {
	poolName, accessor, ok := api.pool(c)
	if !ok {
		return
	}

	jobCounts := make(map[model.JobStatus]int)
	for _, job := range api.engine.ListJobs(poolName, nil) {
		jobCounts[job.Status]++
	}

	settings := accessor.Settings()
	c.JSON(http.StatusOK, gin.H{
		"name":              poolName,
		"candidate_count":   accessor.CandidateCount(),
		"fields":            settings.Fields,
		"filterable_fields": settings.FilterableFields,
		"cache_results":     settings.CacheResults,
		"jobs":              jobCounts,
	})
}
