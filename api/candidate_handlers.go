package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/internal/importer"
)

// AddCandidatesHandler handles adding/updating candidates in a pool.
// The body is an array, a single object, or any document with the array at ?path=.
func (api *API) AddCandidatesHandler(c *gin.Context) {
	poolName, _, ok := api.pool(c)
	if !ok {
		return
	}

	raw, err := c.GetRawData()
	if err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	candidates, err := importer.ParseCandidates(raw, c.Query("path"))
	if err != nil {
		SendEngineError(c, "parse candidates", err)
		return
	}
	if len(candidates) == 0 {
		result := &ValidationResult{Valid: true}
		result.AddError("candidates", "No candidates provided")
		SendValidationError(c, result)
		return
	}

	jobID, err := api.engine.AddCandidatesAsync(poolName, candidates)
	if err != nil {
		SendJobExecutionError(c, "add candidates", err)
		return
	}

	acceptedJob(c, fmt.Sprintf("Candidate import started for pool '%s' (%d candidates)", poolName, len(candidates)),
		jobID, gin.H{"candidate_count": len(candidates)})
}

// ListCandidatesHandler lists the candidates of a pool in insertion order.
func (api *API) ListCandidatesHandler(c *gin.Context) {
	_, accessor, ok := api.pool(c)
	if !ok {
		return
	}

	result := &ValidationResult{Valid: true}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		result.AddError("offset", "Offset must be an integer")
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil {
		result.AddError("limit", "Limit must be an integer")
	}
	if result.HasErrors() {
		SendInvalidRequestError(c, result)
		return
	}

	offset, limit, result = ValidateOffsetLimit(offset, limit)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	candidates, total := accessor.ListCandidates(offset, limit)
	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"total":      total,
		"offset":     offset,
		"limit":      limit,
	})
}

// DeleteAllCandidatesHandler handles the request to delete all candidates of a pool.
func (api *API) DeleteAllCandidatesHandler(c *gin.Context) {
	poolName, _, ok := api.pool(c)
	if !ok {
		return
	}

	jobID, err := api.engine.DeleteAllCandidatesAsync(poolName)
	if err != nil {
		SendJobExecutionError(c, "delete all candidates", err)
		return
	}
	acceptedJob(c, fmt.Sprintf("Candidate deletion started for pool '%s'", poolName), jobID, nil)
}

// GetCandidateHandler returns one candidate.
func (api *API) GetCandidateHandler(c *gin.Context) {
	_, accessor, ok := api.pool(c)
	if !ok {
		return
	}

	candidateID := c.Param("candidateId")
	if result := ValidateCandidateID(candidateID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	candidate, err := accessor.GetCandidate(candidateID)
	if err != nil {
		SendEngineError(c, "get candidate", err)
		return
	}
	c.JSON(http.StatusOK, candidate)
}

// DeleteCandidateHandler removes one candidate and saves the pool.
func (api *API) DeleteCandidateHandler(c *gin.Context) {
	poolName, accessor, ok := api.pool(c)
	if !ok {
		return
	}

	candidateID := c.Param("candidateId")
	if result := ValidateCandidateID(candidateID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	if err := accessor.DeleteCandidate(candidateID); err != nil {
		SendEngineError(c, "delete candidate", err)
		return
	}
	if err := api.engine.PersistPoolData(poolName); err != nil {
		SendError(c, http.StatusInternalServerError, ErrorCodePersistenceFailed,
			"Candidate deleted but pool could not be saved: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Candidate '" + candidateID + "' deleted from pool '" + poolName + "'"})
}

// SyncPoolHandler starts importing the pool's candidates from the SQL store.
func (api *API) SyncPoolHandler(c *gin.Context) {
	poolName := c.Param("poolName")

	jobID, err := api.engine.SyncFromSQLAsync(poolName)
	if err != nil {
		SendEngineError(c, "sync pool", err)
		return
	}
	acceptedJob(c, fmt.Sprintf("SQL sync started for pool '%s'", poolName), jobID, nil)
}
