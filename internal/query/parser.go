// Package query turns free-text candidate searches such as
// "accountant based in Tema" into a job-title part and a location part.
package query

import (
	"regexp"
	"strings"

	"github.com/gcbaptista/candidate-search/internal/tokenizer"
)

// MatchMode records whether the user separated terms with commas.
// It is informational; the scorer does not consume it.
type MatchMode string

const (
	MatchAll MatchMode = "all"
	MatchAny MatchMode = "any"
)

// ParsedQuery is the per-call result of Parse.
type ParsedQuery struct {
	Raw                    string    `json:"raw"`
	Keywords               []string  `json:"keywords"`
	LocationTerms          []string  `json:"location_terms"`
	JobTitlePhrase         string    `json:"job_title_phrase"`
	HasLocationPreposition bool      `json:"has_location_preposition"`
	Preposition            string    `json:"preposition,omitempty"`
	MatchMode              MatchMode `json:"match_mode"`
}

// Exclusive reports whether candidates must match the location to score at all.
func (p ParsedQuery) Exclusive() bool {
	return p.HasLocationPreposition && len(p.LocationTerms) > 0
}

type prepositionPattern struct {
	phrase string
	re     *regexp.Regexp
}

// Evaluated in order; the first pattern found anywhere in the query wins,
// so compound phrases must precede the bare prepositions they contain.
var prepositionPatterns = compilePatterns(
	"based in", "based at",
	"located in", "located at",
	"stationed in", "stationed at",
	"working in", "working at",
	"living in", "residing in",
	"around", "near", "in", "at",
)

// locationStopWords end the location word run.
var locationStopWords = map[string]struct{}{
	"and": {}, "or": {}, "who": {}, "looking": {}, "with": {}, "that": {},
	"for": {}, "but": {}, "in": {}, "at": {}, "near": {}, "around": {},
}

var locationWordRegex = regexp.MustCompile(`^[\p{L}\p{N}'-]+`)

func compilePatterns(phrases ...string) []prepositionPattern {
	patterns := make([]prepositionPattern, len(phrases))
	for i, p := range phrases {
		expr := `\b` + strings.Join(strings.Fields(p), `\s+`) + `\b`
		patterns[i] = prepositionPattern{phrase: p, re: regexp.MustCompile(expr)}
	}
	return patterns
}

// Prepositions returns the location-introducing phrases in priority order.
func Prepositions() []string {
	out := make([]string, len(prepositionPatterns))
	for i, p := range prepositionPatterns {
		out[i] = p.phrase
	}
	return out
}

// Parse splits input into job-title keywords and location terms.
// It never fails; degenerate input yields an empty ParsedQuery.
func Parse(input string) ParsedQuery {
	normalized := tokenizer.Normalize(input)

	parsed := ParsedQuery{
		Raw:           input,
		Keywords:      []string{},
		LocationTerms: []string{},
		MatchMode:     MatchAny,
	}
	if strings.Contains(input, ",") {
		parsed.MatchMode = MatchAll
	}

	jobPart := normalized
	for _, p := range prepositionPatterns {
		loc := p.re.FindStringIndex(normalized)
		if loc == nil {
			continue
		}
		parsed.HasLocationPreposition = true
		parsed.Preposition = p.phrase
		jobPart = normalized[:loc[0]]
		if term := leadingLocation(normalized[loc[1]:]); term != "" {
			parsed.LocationTerms = append(parsed.LocationTerms, term)
		}
		break
	}

	parsed.JobTitlePhrase = trimPhrase(jobPart)
	parsed.Keywords = tokenizer.Keywords(parsed.JobTitlePhrase)
	return parsed
}

// leadingLocation returns the run of words at the start of text, stopping at
// a stop word, at punctuation, or at the end of text.
func leadingLocation(text string) string {
	var words []string
	rest := strings.TrimSpace(text)
	for rest != "" {
		m := locationWordRegex.FindStringIndex(rest)
		if m == nil {
			break
		}
		word := rest[:m[1]]
		if _, stop := locationStopWords[word]; stop {
			break
		}
		words = append(words, word)

		rest = rest[m[1]:]
		trimmed := strings.TrimLeft(rest, " \t")
		if len(trimmed) == len(rest) {
			break
		}
		rest = trimmed
	}
	return strings.Trim(strings.Join(words, " "), "'-")
}

func trimPhrase(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), ",;:.-"))
}
