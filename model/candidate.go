package model

import "strings"

// Default field keys read by the matcher. Pools may remap them through
// config.FieldMapping.
const (
	FieldCandidateID   = "candidateID"
	FieldJobLookingFor = "jobLookingFor"
	FieldExactLocation = "exactLocation"
	FieldCountry       = "country"
)

// Candidate is a flexible map representing a candidate record as delivered by
// the external data store. The candidateID is the only required field.
// The matcher only reads candidates; it never copies or reshapes them.
type Candidate map[string]interface{}

// GetCandidateID returns the candidateID if it is stored as a non-empty string.
func (c Candidate) GetCandidateID() (string, bool) {
	if id, ok := c[FieldCandidateID]; ok {
		if str, sok := id.(string); sok && str != "" {
			return str, true
		}
	}
	return "", false
}

// StringField returns the value under key when it is a string.
// Absent, nil and non-string values read as "".
func (c Candidate) StringField(key string) string {
	if c == nil {
		return ""
	}
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

// LowerField is StringField lowercased.
func (c Candidate) LowerField(key string) string {
	return strings.ToLower(c.StringField(key))
}

// JobLookingFor returns the free-text job the candidate is looking for.
func (c Candidate) JobLookingFor() string { return c.StringField(FieldJobLookingFor) }

// ExactLocation returns the free-text location of the candidate.
func (c Candidate) ExactLocation() string { return c.StringField(FieldExactLocation) }

// Country returns the candidate's country.
func (c Candidate) Country() string { return c.StringField(FieldCountry) }
