package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
	"github.com/gcbaptista/candidate-search/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query    string            `json:"query"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Country  string            `json:"country,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
	Explain  bool              `json:"explain,omitempty"`
}

// SearchHandler handles search requests to a pool.
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	poolName, accessor, ok := api.pool(c)
	if !ok {
		return
	}

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}
	if result := ValidateSearchRequest(&req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := accessor.Search(c.Request.Context(), services.SearchQuery{
		QueryString: req.Query,
		Page:        req.Page,
		PageSize:    req.PageSize,
		Country:     req.Country,
		Filters:     req.Filters,
		Explain:     req.Explain,
	})
	if err != nil {
		if errors.Is(err, internalErrors.ErrInvalidInput) {
			SendEngineError(c, "search", err)
			return
		}
		SendSearchError(c, poolName, err)
		return
	}

	api.trackSearch(model.SearchEvent{
		PoolName:     poolName,
		Query:        req.Query,
		SearchMode:   results.Mode,
		ResponseTime: time.Since(startTime),
		ResultCount:  results.Total,
	})

	c.JSON(http.StatusOK, results)
}
