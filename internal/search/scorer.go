package search

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/model"
)

// Point values of the matching heuristic.
const (
	PhrasePoints          = 100 // job field contains a dictionary phrase named in the query
	KeywordPoints         = 80  // job field contains a query keyword
	LocationPoints        = 90  // location or country contains the location term (exclusive mode)
	NoJobMatchPenalty     = 50  // exclusive mode, location matched but job did not
	JobAndLocationBonus   = 30  // exclusive mode, both matched
	LocationKeywordPoints = 10  // open mode, per keyword found in location or country
)

// Scorer computes match scores for candidates. It only reads its dictionary
// and field mapping, so one Scorer may be shared by concurrent searches.
type Scorer struct {
	dict    *terms.Dictionary
	phrases []string // flattened dictionary, scanned against every job field
	fields  config.FieldMapping
	print   string
}

// Prepared is a parsed query together with the dictionary phrases it names.
// Phrases is informational; job fields are checked against the whole dictionary.
type Prepared struct {
	Query   query.ParsedQuery
	Phrases []string
}

// NewScorer creates a Scorer. A nil dictionary selects terms.Default();
// empty field names fall back to the default candidate keys.
func NewScorer(dict *terms.Dictionary, fields config.FieldMapping) *Scorer {
	if dict == nil {
		dict = terms.Default()
	}
	fields.ApplyDefaults()
	phrases := dict.Phrases()
	return &Scorer{dict: dict, phrases: phrases, fields: fields, print: fingerprint(fields, phrases)}
}

// fingerprint identifies everything besides the query and the candidates that
// decides a ranking.
func fingerprint(fields config.FieldMapping, phrases []string) string {
	h := fnv.New64a()
	for _, p := range phrases {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%s|%s|%s|%x", fields.JobField, fields.LocationField, fields.CountryField, h.Sum64())
}

// Fingerprint changes whenever the field mapping or the dictionary does.
func (s *Scorer) Fingerprint() string {
	return s.print
}

var defaultScorer = NewScorer(nil, config.FieldMapping{})

// Fields returns the field mapping the scorer reads.
func (s *Scorer) Fields() config.FieldMapping {
	return s.fields
}

// Prepare parses raw and resolves the dictionary phrases of its job-title part.
func (s *Scorer) Prepare(raw string) Prepared {
	return s.PrepareParsed(query.Parse(raw))
}

// PrepareParsed resolves the dictionary phrases of an already parsed query.
func (s *Scorer) PrepareParsed(q query.ParsedQuery) Prepared {
	return Prepared{Query: q, Phrases: s.dict.PhrasesIn(q.JobTitlePhrase)}
}

// Score returns the non-negative match score of c against the raw query.
func (s *Scorer) Score(c model.Candidate, raw string) int {
	return s.Explain(c, s.Prepare(raw)).Total
}

// Explain scores c against p and reports how the total was reached.
func (s *Scorer) Explain(c model.Candidate, p Prepared) model.ScoreBreakdown {
	job := c.LowerField(s.fields.JobField)
	location := c.LowerField(s.fields.LocationField)
	country := c.LowerField(s.fields.CountryField)

	if p.Query.Exclusive() {
		return explainExclusive(job, location, country, s.phrases, p)
	}
	return explainOpen(job, location, country, s.phrases, p)
}

// firstPhrase returns the first dictionary phrase contained in job.
func firstPhrase(job string, phrases []string) (string, bool) {
	if job == "" {
		return "", false
	}
	for _, phrase := range phrases {
		if strings.Contains(job, phrase) {
			return phrase, true
		}
	}
	return "", false
}

// explainExclusive requires the location term to match; job keywords accumulate.
func explainExclusive(job, location, country string, phrases []string, p Prepared) model.ScoreBreakdown {
	b := model.ScoreBreakdown{Exclusive: true}
	jobMatched := false

	if phrase, ok := firstPhrase(job, phrases); ok {
		b.PhraseMatch = phrase
		b.JobPoints += PhrasePoints
		jobMatched = true
	}
	for _, kw := range p.Query.Keywords {
		if strings.Contains(job, kw) {
			b.KeywordMatches = append(b.KeywordMatches, kw)
			b.JobPoints += KeywordPoints
			jobMatched = true
		}
	}

	locationMatched := false
	for _, term := range p.Query.LocationTerms {
		if strings.Contains(location, term) || strings.Contains(country, term) {
			b.LocationMatch = term
			b.LocationPoints = LocationPoints
			locationMatched = true
			break
		}
	}
	if !locationMatched {
		b.ForcedZero = true
		return b
	}

	total := b.JobPoints + b.LocationPoints
	if !jobMatched {
		b.PenaltyPoints = min(NoJobMatchPenalty, total)
		total -= b.PenaltyPoints
	} else {
		b.BonusPoints = JobAndLocationBonus
		total += b.BonusPoints
	}
	b.Total = total
	return b
}

// explainOpen scores job and location independently; only the first job keyword counts.
func explainOpen(job, location, country string, phrases []string, p Prepared) model.ScoreBreakdown {
	var b model.ScoreBreakdown

	if phrase, ok := firstPhrase(job, phrases); ok {
		b.PhraseMatch = phrase
		b.JobPoints += PhrasePoints
	}
	for _, kw := range p.Query.Keywords {
		if strings.Contains(job, kw) {
			b.KeywordMatches = []string{kw}
			b.JobPoints += KeywordPoints
			break
		}
	}
	for _, kw := range p.Query.Keywords {
		if strings.Contains(location, kw) || strings.Contains(country, kw) {
			b.LocationKeyword = append(b.LocationKeyword, kw)
			b.LocationPoints += LocationKeywordPoints
		}
	}

	b.Total = b.JobPoints + b.LocationPoints
	return b
}
