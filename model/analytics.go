package model

import "time"

// SearchEvent represents a single candidate search for analytics tracking
type SearchEvent struct {
	PoolName     string        `json:"pool_name"`
	Query        string        `json:"query"`
	SearchMode   string        `json:"search_mode"` // "exclusive", "open", "passthrough"
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for a repeated query
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// PoolUsage represents search activity for a specific pool
type PoolUsage struct {
	PoolName       string `json:"pool_name"`
	CandidateCount int    `json:"candidate_count"`
	SearchCount    int    `json:"search_count"`
}

// SearchModeStats counts searches by matcher mode
type SearchModeStats struct {
	Exclusive   int `json:"exclusive"`
	Open        int `json:"open"`
	Passthrough int `json:"passthrough"`
}

// AnalyticsDashboard represents the complete analytics dashboard data
type AnalyticsDashboard struct {
	TotalSearches         int     `json:"total_searches"`
	SearchesChangePercent float64 `json:"searches_change_percent"`
	AvgResponseTime       int64   `json:"avg_response_time"` // in milliseconds
	TotalCandidates       int     `json:"total_candidates"`
	ActivePools           int     `json:"active_pools"`
	LocationQueryShare    float64 `json:"location_query_share"` // Percentage of searches in exclusive mode

	PopularSearches   []PopularSearch `json:"popular_searches"`
	ZeroResultQueries []PopularSearch `json:"zero_result_queries"`
	PoolUsage         []PoolUsage     `json:"pool_usage"`
	SearchModes       SearchModeStats `json:"search_modes"`
}
