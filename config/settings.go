// Package config provides configuration structures for the candidate search service.
// It defines per-pool settings and the process-wide server configuration.
package config

import (
	"regexp"
	"strings"
)

// Default candidate record keys read by the matcher.
const (
	DefaultJobField      = "jobLookingFor"
	DefaultLocationField = "exactLocation"
	DefaultCountryField  = "country"
)

// Page size limits for pool searches.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pool names double as directory names under the data directory.
var poolNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,63}$`)

// ValidPoolName reports whether name may be used as a pool name: letters,
// digits, '_' and '-', starting with a letter or digit, at most 64 characters.
func ValidPoolName(name string) bool {
	return poolNamePattern.MatchString(name)
}

// FieldMapping names the candidate keys that hold the job sought, the
// precise location and the country. Pools importing records with a
// different shape remap them here instead of rewriting the records.
type FieldMapping struct {
	JobField      string `json:"job_field"`
	LocationField string `json:"location_field"`
	CountryField  string `json:"country_field"`
}

// ApplyDefaults fills empty keys with the default candidate field names.
func (m *FieldMapping) ApplyDefaults() {
	if strings.TrimSpace(m.JobField) == "" {
		m.JobField = DefaultJobField
	}
	if strings.TrimSpace(m.LocationField) == "" {
		m.LocationField = DefaultLocationField
	}
	if strings.TrimSpace(m.CountryField) == "" {
		m.CountryField = DefaultCountryField
	}
}

// PoolSettings contains the configuration of one candidate pool.
type PoolSettings struct {
	Name             string       `json:"name"`                        // Unique pool name, also the on-disk directory name
	Description      string       `json:"description,omitempty"`       // Free text shown in listings
	Fields           FieldMapping `json:"fields"`                      // Keys the matcher reads
	FilterableFields []string     `json:"filterable_fields,omitempty"` // Extra keys accepted as exact-match search filters
	DefaultPageSize  int          `json:"default_page_size"`           // Page size when a search does not ask for one
	CacheResults     bool         `json:"cache_results"`               // Store ranked IDs in the result cache
}

// ValidateFieldNames validates field names for basic requirements.
func (settings *PoolSettings) ValidateFieldNames() []string {
	var conflicts []string

	conflicts = append(conflicts, checkDuplicates("filterable_fields", settings.FilterableFields)...)

	mapped := map[string]string{
		"fields.job_field":      settings.Fields.JobField,
		"fields.location_field": settings.Fields.LocationField,
		"fields.country_field":  settings.Fields.CountryField,
	}
	for _, role := range []string{"fields.job_field", "fields.location_field", "fields.country_field"} {
		field := mapped[role]
		if field != "" && strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name for "+role+" cannot be whitespace-only")
		}
	}
	if job := settings.Fields.JobField; job != "" && (job == settings.Fields.LocationField || job == settings.Fields.CountryField) {
		conflicts = append(conflicts, "Field '"+job+"' cannot be both the job field and a location field")
	}

	for _, field := range settings.FilterableFields {
		if strings.TrimSpace(field) == "" {
			conflicts = append(conflicts, "Field name cannot be empty or whitespace-only")
		}
	}

	if settings.DefaultPageSize < 0 || settings.DefaultPageSize > MaxPageSize {
		conflicts = append(conflicts, "default_page_size must be between 1 and 100")
	}

	return conflicts
}

// IsFilterable reports whether field may be used as a search filter.
// The mapped country field is always filterable.
func (settings *PoolSettings) IsFilterable(field string) bool {
	if field == settings.Fields.CountryField {
		return true
	}
	for _, f := range settings.FilterableFields {
		if f == field {
			return true
		}
	}
	return false
}

// checkDuplicates checks for duplicate values in a slice and returns error messages
func checkDuplicates(fieldName string, fields []string) []string {
	var errors []string
	seen := make(map[string]bool)

	for _, field := range fields {
		if seen[field] {
			errors = append(errors, "Duplicate field '"+field+"' found in "+fieldName)
		}
		seen[field] = true
	}

	return errors
}

// ApplyDefaults applies default values to the pool settings
func (settings *PoolSettings) ApplyDefaults() {
	settings.Fields.ApplyDefaults()

	if settings.DefaultPageSize == 0 {
		settings.DefaultPageSize = DefaultPageSize
	}
	if settings.FilterableFields == nil {
		settings.FilterableFields = []string{}
	}
}
