package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolNotFoundError(t *testing.T) {
	err := NewPoolNotFoundError("accra-agents")

	assert.Equal(t, "pool named 'accra-agents' not found", err.Error())
	assert.ErrorIs(t, err, ErrPoolNotFound)
	assert.NotErrorIs(t, err, ErrCandidateNotFound)
}

func TestPoolAlreadyExistsError(t *testing.T) {
	err := NewPoolAlreadyExistsError("wholesale")

	assert.Equal(t, "pool named 'wholesale' already exists", err.Error())
	assert.ErrorIs(t, err, ErrPoolAlreadyExists)
}

func TestCandidateNotFoundError(t *testing.T) {
	err := NewCandidateNotFoundError("cand-7")
	assert.Equal(t, "candidate with ID 'cand-7' not found", err.Error())

	withPool := NewCandidateNotFoundError("cand-7", "kumasi")
	assert.Equal(t, "candidate with ID 'cand-7' not found in pool 'kumasi'", withPool.Error())

	assert.ErrorIs(t, err, ErrCandidateNotFound)
	assert.ErrorIs(t, withPool, ErrCandidateNotFound)
}

func TestJobNotFoundError(t *testing.T) {
	err := NewJobNotFoundError("job-456")

	assert.Equal(t, "job with ID 'job-456' not found", err.Error())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("name", "cannot be empty")
	assert.Equal(t, "validation error for field 'name': cannot be empty", err.Error())

	noField := NewValidationError("", "cannot be empty")
	assert.Equal(t, "validation error: cannot be empty", noField.Error())

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, noField, ErrInvalidInput)
}

func TestSameNameError(t *testing.T) {
	err := NewSameNameError("same-name")

	assert.Equal(t, "new name 'same-name' is the same as the current name", err.Error())
	assert.ErrorIs(t, err, ErrSameName)
}

func TestErrorChaining(t *testing.T) {
	wrapped := fmt.Errorf("load pool: %w", NewPoolNotFoundError("tema"))
	assert.ErrorIs(t, wrapped, ErrPoolNotFound)

	joined := errors.Join(NewPoolNotFoundError("tema"), errors.New("additional context"))

	var poolErr *PoolNotFoundError
	require.ErrorAs(t, joined, &poolErr)
	assert.Equal(t, "tema", poolErr.PoolName)
}
