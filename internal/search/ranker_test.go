package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/candidate-search/model"
)

func ids(candidates []model.Candidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i], _ = c.GetCandidateID()
	}
	return out
}

func TestFilterByAdvancedSearch_ShortQueryPassesThrough(t *testing.T) {
	candidates := []model.Candidate{
		newCandidate("c1", "Driver", "Kumasi", "Ghana"),
		newCandidate("c2", "Nurse", "Accra", "Ghana"),
		newCandidate("c3", "Chef", "Tema", "Ghana"),
	}

	for _, q := range []string{"a", "", "   ", " b "} {
		out := FilterByAdvancedSearch(candidates, q)
		require.Len(t, out, len(candidates), "query %q", q)
		assert.Equal(t, []string{"c1", "c2", "c3"}, ids(out))
		assert.Same(t, &candidates[0], &out[0], "the input slice is returned as is")
	}
}

func TestFilterByAdvancedSearch_EmptyInput(t *testing.T) {
	out := FilterByAdvancedSearch([]model.Candidate{}, "developer in Kumasi")
	assert.NotNil(t, out)
	assert.Empty(t, out)

	assert.Empty(t, FilterByAdvancedSearch(nil, "developer in Kumasi"))
}

func TestRankByScore_OrdersAndDropsZero(t *testing.T) {
	low := newCandidate("low", "", "", "")
	high := newCandidate("high", "", "", "")
	zero := newCandidate("zero", "", "", "")
	scores := map[string]int{"low": 90, "high": 130, "zero": 0}

	ranked := rankByScore([]model.Candidate{low, zero, high}, func(c model.Candidate) (int, *model.ScoreBreakdown) {
		id, _ := c.GetCandidateID()
		return scores[id], nil
	})

	require.Len(t, ranked, 2)
	assert.Equal(t, 130, ranked[0].Score)
	assert.Equal(t, "high", ranked[0].Candidate[model.FieldCandidateID])
	assert.Equal(t, 90, ranked[1].Score)
	assert.Equal(t, "low", ranked[1].Candidate[model.FieldCandidateID])
}

func TestRankByScore_TiesKeepInputOrder(t *testing.T) {
	var candidates []model.Candidate
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		candidates = append(candidates, newCandidate(id, "", "", ""))
	}
	ranked := rankByScore(candidates, func(c model.Candidate) (int, *model.ScoreBreakdown) {
		if c[model.FieldCandidateID] == "d" {
			return 200, nil
		}
		return 100, nil
	})

	got := make([]string, len(ranked))
	for i, r := range ranked {
		got[i] = r.Candidate[model.FieldCandidateID].(string)
	}
	assert.Equal(t, []string{"d", "a", "b", "c", "e", "f"}, got)
}

func TestFilterByAdvancedSearch_Ranking(t *testing.T) {
	candidates := []model.Candidate{
		newCandidate("wrong-city", "Sales executive", "Kumasi", "Ghana"),
		newCandidate("location-only", "Astronaut", "Accra", "Ghana"),
		newCandidate("keyword", "Executive assistant", "Accra", "Ghana"),
		newCandidate("best", "Sales Executive", "Accra Central", "Ghana"),
	}

	out := FilterByAdvancedSearch(candidates, "sales executive in Accra")
	assert.Equal(t, []string{"best", "keyword", "location-only"}, ids(out))
}

func TestFilterByAdvancedSearch_KeepsIdentity(t *testing.T) {
	c := newCandidate("c1", "Nurse", "Accra", "Ghana")
	c["phone"] = "+233200000000"

	out := FilterByAdvancedSearch([]model.Candidate{c}, "nurse in Accra")
	require.Len(t, out, 1)

	out[0]["seen"] = true
	assert.Equal(t, true, c["seen"])
	assert.Equal(t, "+233200000000", out[0]["phone"])
}

func TestRank_Explain(t *testing.T) {
	candidates := []model.Candidate{newCandidate("c1", "Nurse", "Accra", "Ghana")}

	plain := defaultScorer.Rank(candidates, "nurse in Accra", false)
	require.Len(t, plain, 1)
	assert.Nil(t, plain[0].Breakdown)

	explained := defaultScorer.Rank(candidates, "nurse in Accra", true)
	require.Len(t, explained, 1)
	require.NotNil(t, explained[0].Breakdown)
	assert.Equal(t, explained[0].Score, explained[0].Breakdown.Total)
}

func TestFilterByAdvancedSearch_Concurrent(t *testing.T) {
	candidates := []model.Candidate{
		newCandidate("c1", "Driver", "Kumasi", "Ghana"),
		newCandidate("c2", "Truck driver", "Kumasi", "Ghana"),
		newCandidate("c3", "Driver", "Accra", "Ghana"),
	}
	want := ids(FilterByAdvancedSearch(candidates, "driver in Kumasi"))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, ids(FilterByAdvancedSearch(candidates, "driver in Kumasi")))
		}()
	}
	wg.Wait()
}
