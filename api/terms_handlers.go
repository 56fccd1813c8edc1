package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/internal/search"
)

// ParseRequest is the body of POST /_parse.
type ParseRequest struct {
	Query string `json:"query"`
}

// ListTermsHandler lists the job categories of the term dictionary with their phrases.
func (api *API) ListTermsHandler(c *gin.Context) {
	dict := api.engine.Dictionary()

	categories := make(map[string][]string, len(dict.Categories()))
	for _, name := range dict.Categories() {
		phrases, _ := dict.Category(name)
		categories[name] = phrases
	}

	c.JSON(http.StatusOK, gin.H{
		"categories":   categories,
		"count":        len(categories),
		"phrases":      dict.Len(),
		"prepositions": query.Prepositions(),
	})
}

// GetTermCategoryHandler returns the phrases of one category.
func (api *API) GetTermCategoryHandler(c *gin.Context) {
	name := c.Param("category")

	phrases, ok := api.engine.Dictionary().Category(name)
	if !ok {
		SendError(c, http.StatusNotFound, ErrorCodeCategoryNotFound, "Term category '"+name+"' not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": name, "phrases": phrases})
}

// ParseQueryHandler shows how a query would be interpreted without running it.
func (api *API) ParseQueryHandler(c *gin.Context) {
	var req ParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	scorer := search.NewScorer(api.engine.Dictionary(), config.FieldMapping{})
	prepared := scorer.Prepare(req.Query)
	category, _ := api.engine.Dictionary().CategoryOf(prepared.Query.JobTitlePhrase)

	c.JSON(http.StatusOK, gin.H{
		"parsed":           prepared.Query,
		"mode":             search.Mode(prepared.Query, req.Query),
		"relevant_phrases": prepared.Phrases,
		"category":         category,
	})
}
