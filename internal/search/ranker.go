package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/candidate-search/model"
)

// MinQueryLength is the trimmed rune count below which a query does not filter.
const MinQueryLength = 2

// ScoredCandidate pairs a candidate with the score it reached.
type ScoredCandidate struct {
	Candidate model.Candidate
	Score     int
	Breakdown *model.ScoreBreakdown
}

// IsPassThrough reports whether raw is too short to filter anything.
func IsPassThrough(raw string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(raw)) < MinQueryLength
}

// FilterByAdvancedSearch ranks candidates against raw with the default
// dictionary and field names. Short queries return candidates unchanged.
func FilterByAdvancedSearch(candidates []model.Candidate, raw string) []model.Candidate {
	return defaultScorer.Filter(candidates, raw)
}

// Filter returns the candidates scoring above zero, best first.
// Short queries return the input slice itself.
func (s *Scorer) Filter(candidates []model.Candidate, raw string) []model.Candidate {
	if IsPassThrough(raw) {
		return candidates
	}
	ranked := s.Rank(candidates, raw, false)
	out := make([]model.Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.Candidate
	}
	return out
}

// Rank scores every candidate, drops those at zero and orders the rest by
// descending score. Equal scores keep their input order. With explain set
// each result carries its breakdown.
func (s *Scorer) Rank(candidates []model.Candidate, raw string, explain bool) []ScoredCandidate {
	return s.RankPrepared(candidates, s.Prepare(raw), explain)
}

// RankPrepared is Rank for a query that was already prepared.
func (s *Scorer) RankPrepared(candidates []model.Candidate, p Prepared, explain bool) []ScoredCandidate {
	return rankByScore(candidates, func(c model.Candidate) (int, *model.ScoreBreakdown) {
		b := s.Explain(c, p)
		if explain {
			return b.Total, &b
		}
		return b.Total, nil
	})
}

func rankByScore(candidates []model.Candidate, score func(model.Candidate) (int, *model.ScoreBreakdown)) []ScoredCandidate {
	ranked := make([]ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		total, breakdown := score(c)
		if total <= 0 {
			continue
		}
		ranked = append(ranked, ScoredCandidate{Candidate: c, Score: total, Breakdown: breakdown})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
