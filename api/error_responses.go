package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrorCodePoolNotFound      ErrorCode = "POOL_NOT_FOUND"
	ErrorCodeCandidateNotFound ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrorCodeJobNotFound       ErrorCode = "JOB_NOT_FOUND"
	ErrorCodePoolExists        ErrorCode = "POOL_ALREADY_EXISTS"
	ErrorCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidJSON       ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidQuery      ErrorCode = "INVALID_QUERY"
	ErrorCodeSameName          ErrorCode = "SAME_NAME_PROVIDED"
	ErrorCodeRateLimited       ErrorCode = "RATE_LIMITED"
	ErrorCodeBodyTooLarge      ErrorCode = "BODY_TOO_LARGE"
	ErrorCodeCategoryNotFound  ErrorCode = "CATEGORY_NOT_FOUND"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeSearchFailed       ErrorCode = "SEARCH_FAILED"
	ErrorCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
	ErrorCodeSourceUnavailable  ErrorCode = "SOURCE_UNAVAILABLE"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.AbortWithStatusJSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidRequestError reports request parameters that cannot be parsed,
// as opposed to well-formed values that fail validation.
func SendInvalidRequestError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{Field: err.Field, Message: err.Message, Code: "MALFORMED_PARAMETER"}
	}
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidRequest, "Malformed request parameters", details...)
}

// SendPoolNotFoundError sends a standardized pool not found error
func SendPoolNotFoundError(c *gin.Context, poolName string) {
	SendError(c, http.StatusNotFound, ErrorCodePoolNotFound,
		"Pool '"+poolName+"' not found")
}

// SendCandidateNotFoundError sends a standardized candidate not found error
func SendCandidateNotFoundError(c *gin.Context, candidateID, poolName string) {
	message := "Candidate '" + candidateID + "' not found"
	if poolName != "" {
		message += " in pool '" + poolName + "'"
	}
	SendError(c, http.StatusNotFound, ErrorCodeCandidateNotFound, message)
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

// SendPoolExistsError sends a standardized pool already exists error
func SendPoolExistsError(c *gin.Context, poolName string) {
	SendError(c, http.StatusConflict, ErrorCodePoolExists,
		"Pool '"+poolName+"' already exists")
}

// SendSameNameError sends a standardized same name error
func SendSameNameError(c *gin.Context, name string) {
	SendError(c, http.StatusBadRequest, ErrorCodeSameName,
		"New name '"+name+"' is the same as the current name")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodeBodyTooLarge, "Request body too large")
		return
	}
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendSearchError sends a standardized search error
func SendSearchError(c *gin.Context, poolName string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeSearchFailed,
		"Search failed on pool '"+poolName+"': "+err.Error())
}

// SendJobExecutionError sends a standardized job execution error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Failed to start "+operation+" job: "+err.Error())
}

// SendEngineError maps an engine error onto the matching API error.
// Unknown errors become 500s attributed to operation.
func SendEngineError(c *gin.Context, operation string, err error) {
	var poolErr *internalErrors.PoolNotFoundError
	var existsErr *internalErrors.PoolAlreadyExistsError
	var candidateErr *internalErrors.CandidateNotFoundError
	var validationErr *internalErrors.ValidationError
	var sameNameErr *internalErrors.SameNameError

	switch {
	case errors.As(err, &poolErr):
		SendPoolNotFoundError(c, poolErr.PoolName)
	case errors.As(err, &existsErr):
		SendPoolExistsError(c, existsErr.PoolName)
	case errors.As(err, &candidateErr):
		SendCandidateNotFoundError(c, candidateErr.CandidateID, candidateErr.PoolName)
	case errors.As(err, &sameNameErr):
		SendSameNameError(c, sameNameErr.Name)
	case errors.As(err, &validationErr):
		SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed",
			ErrorDetail{Field: validationErr.Field, Message: validationErr.Message, Code: "VALIDATION_ERROR"})
	case errors.Is(err, internalErrors.ErrJobNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeJobNotFound, err.Error())
	case errors.Is(err, internalErrors.ErrSourceUnavailable):
		SendError(c, http.StatusNotImplemented, ErrorCodeSourceUnavailable,
			"No SQL candidate source is configured")
	default:
		SendInternalError(c, operation, err)
	}
}
