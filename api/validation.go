// Package api provides the gin HTTP surface of the candidate search service.
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/candidate-search/config"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidatePoolName validates a pool name parameter
func ValidatePoolName(poolName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if poolName == "" {
		result.AddError("poolName", "Pool name is required")
		return result
	}

	if !config.ValidPoolName(poolName) {
		result.AddError("poolName", "Pool name may only contain letters, digits, '_' and '-' and must start with a letter or digit")
	}

	return result
}

// ValidateCandidateID validates a candidate ID
func ValidateCandidateID(candidateID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if candidateID == "" {
		result.AddError("candidateID", "Candidate ID is required")
		return result
	}

	if strings.TrimSpace(candidateID) != candidateID {
		result.AddError("candidateID", "Candidate ID cannot have leading or trailing whitespace")
	}

	return result
}

// ValidatePoolSettings validates pool settings for creation
func ValidatePoolSettings(settings *config.PoolSettings) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if settings == nil {
		result.AddError("settings", "Pool settings are required")
		return result
	}

	if settings.Name == "" {
		result.AddError("name", "Pool name is required")
	} else if !config.ValidPoolName(settings.Name) {
		result.AddError("name", "Pool name may only contain letters, digits, '_' and '-' and must start with a letter or digit")
	}

	for _, conflict := range settings.ValidateFieldNames() {
		result.AddError("field_validation", conflict)
	}

	return result
}

// ValidateOffsetLimit clamps list parameters: limit defaults to 20 and is capped at MaxPageSize.
func ValidateOffsetLimit(offset, limit int) (int, int, *ValidationResult) {
	result := &ValidationResult{Valid: true}

	if offset < 0 {
		result.AddError("offset", "Offset cannot be negative")
	}
	if limit < 0 {
		result.AddError("limit", "Limit cannot be negative")
	}
	if limit == 0 {
		limit = 20
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}

	return offset, limit, result
}

// ValidateSearchRequest checks the paging fields of a search request
func ValidateSearchRequest(req *SearchRequest) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.Page < 0 {
		result.AddError("page", "Page number cannot be negative")
	}
	if req.PageSize < 0 {
		result.AddError("page_size", "Page size cannot be negative")
	}
	if req.PageSize > config.MaxPageSize {
		result.AddError("page_size", "Page size cannot exceed 100")
	}

	return result
}

// ValidateRenameRequest validates a rename pool request
func ValidateRenameRequest(oldName, newName string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if oldName == "" {
		result.AddError("oldName", "Current pool name is required")
	}

	if newName == "" {
		result.AddError("new_name", "New name is required and cannot be empty")
		return result
	}

	if !config.ValidPoolName(newName) {
		result.AddError("new_name", "New name may only contain letters, digits, '_' and '-' and must start with a letter or digit")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}

// ValidateJSONBinding validates JSON binding and returns a standardized error
func ValidateJSONBinding(c *gin.Context, target interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if err := c.ShouldBindJSON(target); err != nil {
		result.AddError("request_body", "Invalid request body: "+err.Error())
	}

	return result
}
