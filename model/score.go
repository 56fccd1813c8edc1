package model

// ScoreBreakdown explains how a candidate's score was assembled.
type ScoreBreakdown struct {
	Exclusive       bool     `json:"exclusive"`         // Location preposition with a location term was present
	PhraseMatch     string   `json:"phrase_match,omitempty"`
	KeywordMatches  []string `json:"keyword_matches,omitempty"`
	LocationMatch   string   `json:"location_match,omitempty"`
	LocationKeyword []string `json:"location_keywords,omitempty"` // Keywords found in location/country (open mode only)
	JobPoints       int      `json:"job_points"`
	LocationPoints  int      `json:"location_points"`
	BonusPoints     int      `json:"bonus_points"`
	PenaltyPoints   int      `json:"penalty_points"`
	ForcedZero      bool     `json:"forced_zero"` // Location terms present but none matched
	Total           int      `json:"total"`
}

// Search modes reported with every search.
const (
	SearchModeExclusive   = "exclusive"   // location term present, non-matching locations score 0
	SearchModeOpen        = "open"        // no location term, keywords scored against job and location
	SearchModePassthrough = "passthrough" // query too short, candidates returned unranked
)
