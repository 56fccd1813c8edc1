package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrPoolNotFound is returned when a candidate pool is not found
	ErrPoolNotFound = errors.New("pool not found")

	// ErrPoolAlreadyExists is returned when trying to create a pool that already exists
	ErrPoolAlreadyExists = errors.New("pool already exists")

	// ErrCandidateNotFound is returned when a candidate is not found
	ErrCandidateNotFound = errors.New("candidate not found")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSameName is returned when trying to rename to the same name
	ErrSameName = errors.New("same name provided")

	// ErrSourceUnavailable is returned when no external candidate source is configured
	ErrSourceUnavailable = errors.New("candidate source unavailable")
)

// PoolNotFoundError represents a pool not found error with context
type PoolNotFoundError struct {
	PoolName string
}

func (e *PoolNotFoundError) Error() string {
	return fmt.Sprintf("pool named '%s' not found", e.PoolName)
}

func (e *PoolNotFoundError) Is(target error) bool {
	return target == ErrPoolNotFound
}

// NewPoolNotFoundError creates a new PoolNotFoundError
func NewPoolNotFoundError(poolName string) *PoolNotFoundError {
	return &PoolNotFoundError{PoolName: poolName}
}

// PoolAlreadyExistsError represents a pool already exists error with context
type PoolAlreadyExistsError struct {
	PoolName string
}

func (e *PoolAlreadyExistsError) Error() string {
	return fmt.Sprintf("pool named '%s' already exists", e.PoolName)
}

func (e *PoolAlreadyExistsError) Is(target error) bool {
	return target == ErrPoolAlreadyExists
}

// NewPoolAlreadyExistsError creates a new PoolAlreadyExistsError
func NewPoolAlreadyExistsError(poolName string) *PoolAlreadyExistsError {
	return &PoolAlreadyExistsError{PoolName: poolName}
}

// CandidateNotFoundError represents a candidate not found error with context
type CandidateNotFoundError struct {
	CandidateID string
	PoolName    string
}

func (e *CandidateNotFoundError) Error() string {
	if e.PoolName != "" {
		return fmt.Sprintf("candidate with ID '%s' not found in pool '%s'", e.CandidateID, e.PoolName)
	}
	return fmt.Sprintf("candidate with ID '%s' not found", e.CandidateID)
}

func (e *CandidateNotFoundError) Is(target error) bool {
	return target == ErrCandidateNotFound
}

// NewCandidateNotFoundError creates a new CandidateNotFoundError
func NewCandidateNotFoundError(candidateID string, poolName ...string) *CandidateNotFoundError {
	err := &CandidateNotFoundError{CandidateID: candidateID}
	if len(poolName) > 0 {
		err.PoolName = poolName[0]
	}
	return err
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SameNameError represents an error when trying to rename to the same name
type SameNameError struct {
	Name string
}

func (e *SameNameError) Error() string {
	return fmt.Sprintf("new name '%s' is the same as the current name", e.Name)
}

func (e *SameNameError) Is(target error) bool {
	return target == ErrSameName
}

// NewSameNameError creates a new SameNameError
func NewSameNameError(name string) *SameNameError {
	return &SameNameError{Name: name}
}
