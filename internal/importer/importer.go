// Package importer decodes candidate uploads. Bodies may be a JSON array, a
// single object, or a document holding the array under a gjson path.
package importer

import (
	"fmt"

	"github.com/tidwall/gjson"

	internalErrors "github.com/gcbaptista/candidate-search/internal/errors"
	"github.com/gcbaptista/candidate-search/model"
)

// ParseCandidates extracts candidates from raw. With an empty path the body
// itself must be an array or a single object; otherwise path selects the
// array (for example "data.candidates").
func ParseCandidates(raw []byte, path string) ([]model.Candidate, error) {
	if !gjson.ValidBytes(raw) {
		return nil, internalErrors.NewValidationError("body", "invalid JSON")
	}

	root := gjson.ParseBytes(raw)
	if path != "" {
		root = root.Get(path)
		if !root.Exists() {
			return nil, internalErrors.NewValidationError("path", fmt.Sprintf("nothing found at %q", path))
		}
	}

	var elements []gjson.Result
	switch {
	case root.IsArray():
		elements = root.Array()
	case root.IsObject():
		elements = []gjson.Result{root}
	default:
		return nil, internalErrors.NewValidationError("body", "expected a candidate object or an array of candidates")
	}

	candidates := make([]model.Candidate, 0, len(elements))
	for i, el := range elements {
		c, err := toCandidate(el)
		if err != nil {
			return nil, internalErrors.NewValidationError(fmt.Sprintf("candidates[%d]", i), err.Error())
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

func toCandidate(el gjson.Result) (model.Candidate, error) {
	if !el.IsObject() {
		return nil, fmt.Errorf("expected an object, got %s", el.Type)
	}
	id := el.Get(model.FieldCandidateID)
	if id.Type != gjson.String || id.Str == "" {
		return nil, fmt.Errorf("%s must be a non-empty string", model.FieldCandidateID)
	}

	fields, ok := el.Value().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an object")
	}
	return model.Candidate(fields), nil
}
