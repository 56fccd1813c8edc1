package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
)

func TestParseCandidates(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		wantIDs []string
	}{
		{
			name:    "array",
			body:    `[{"candidateID":"a","jobLookingFor":"Driver"},{"candidateID":"b"}]`,
			wantIDs: []string{"a", "b"},
		},
		{
			name:    "single object",
			body:    `{"candidateID":"solo","country":"Ghana"}`,
			wantIDs: []string{"solo"},
		},
		{
			name:    "nested path",
			body:    `{"data":{"candidates":[{"candidateID":"x"},{"candidateID":"y"}]},"total":2}`,
			path:    "data.candidates",
			wantIDs: []string{"x", "y"},
		},
		{
			name:    "empty array",
			body:    `[]`,
			wantIDs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidates([]byte(tt.body), tt.path)
			require.NoError(t, err)

			ids := make([]string, 0, len(got))
			for _, c := range got {
				id, ok := c.GetCandidateID()
				require.True(t, ok)
				ids = append(ids, id)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestParseCandidates_KeepsFieldTypes(t *testing.T) {
	got, err := ParseCandidates([]byte(`[{"candidateID":"a","jobLookingFor":"Nurse","years":3,"skills":["triage"],"photo":null}]`), "")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "Nurse", got[0].JobLookingFor())
	assert.Equal(t, 3.0, got[0]["years"])
	assert.Equal(t, []interface{}{"triage"}, got[0]["skills"])
	assert.Nil(t, got[0]["photo"])
}

func TestParseCandidates_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		path    string
		message string
	}{
		{name: "invalid json", body: `[{"candidateID":`, message: "invalid JSON"},
		{name: "scalar body", body: `"driver"`, message: "expected a candidate object"},
		{name: "missing path", body: `{"data":[]}`, path: "items", message: `nothing found at "items"`},
		{name: "missing id", body: `[{"candidateID":"a"},{"jobLookingFor":"Driver"}]`, message: "candidates[1]"},
		{name: "numeric id", body: `[{"candidateID":7}]`, message: "non-empty string"},
		{name: "empty id", body: `[{"candidateID":""}]`, message: "non-empty string"},
		{name: "non-object element", body: `[{"candidateID":"a"}, 4]`, message: "expected an object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCandidates([]byte(tt.body), tt.path)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, internalErrors.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
