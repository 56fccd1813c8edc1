package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/gcbaptista/candidate-search/config"
	"github.com/gcbaptista/candidate-search/internal/importer"
	"github.com/gcbaptista/candidate-search/internal/query"
	"github.com/gcbaptista/candidate-search/internal/search"
	"github.com/gcbaptista/candidate-search/internal/terms"
	"github.com/gcbaptista/candidate-search/model"
)

const defaultToolLimit = 20

type toolset struct {
	dict *terms.Dictionary
}

type parseResult struct {
	Parsed          query.ParsedQuery `json:"parsed"`
	Mode            string            `json:"mode"`
	RelevantPhrases []string          `json:"relevant_phrases"`
	Category        string            `json:"category,omitempty"`
}

type searchHit struct {
	Candidate model.Candidate       `json:"candidate"`
	Score     int                   `json:"score"`
	Breakdown *model.ScoreBreakdown `json:"breakdown,omitempty"`
}

type searchResult struct {
	Query string      `json:"query"`
	Mode  string      `json:"mode"`
	Total int         `json:"total"`
	Hits  []searchHit `json:"hits"`
}

func (t *toolset) register(s *server.MCPServer) {
	parseTool := mcp.NewTool("parse_candidate_query",
		mcp.WithDescription("Split a free-text candidate search into its job-title part and location part"),
	)
	parseTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"query": map[string]interface{}{"type": "string", "description": "The search, e.g. 'accountant based in Tema'"},
		},
		Required: []string{"query"},
	}
	s.AddTool(parseTool, t.parseQuery)

	searchTool := mcp.NewTool("search_candidates",
		mcp.WithDescription("Rank the candidates of a JSON file against a free-text job and location search"),
	)
	searchTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"file":    map[string]interface{}{"type": "string", "description": "Path of a JSON file holding candidate objects"},
			"path":    map[string]interface{}{"type": "string", "description": "gjson path to the candidate array inside the file (optional)"},
			"query":   map[string]interface{}{"type": "string", "description": "The search text"},
			"limit":   map[string]interface{}{"type": "integer", "description": "Max candidates to return (default: 20)"},
			"explain": map[string]interface{}{"type": "boolean", "description": "Include the score breakdown of each candidate"},
		},
		Required: []string{"file", "query"},
	}
	s.AddTool(searchTool, t.searchCandidates)

	termsTool := mcp.NewTool("list_job_terms",
		mcp.WithDescription("List the job categories and phrases the ranker recognizes"),
	)
	s.AddTool(termsTool, t.listTerms)
}

func (t *toolset) parseQuery(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	raw, _ := args["query"].(string)
	if strings.TrimSpace(raw) == "" {
		return mcp.NewToolResultError("missing required field: query"), nil
	}

	scorer := search.NewScorer(t.dict, config.FieldMapping{})
	prepared := scorer.Prepare(raw)
	result := parseResult{
		Parsed:          prepared.Query,
		Mode:            search.Mode(prepared.Query, raw),
		RelevantPhrases: prepared.Phrases,
	}
	if category, found := t.dict.CategoryOf(prepared.Query.JobTitlePhrase); found {
		result.Category = category
	}
	return jsonResult(result)
}

func (t *toolset) searchCandidates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	file, _ := args["file"].(string)
	raw, _ := args["query"].(string)
	if strings.TrimSpace(file) == "" {
		return mcp.NewToolResultError("missing required field: file"), nil
	}
	path, _ := args["path"].(string)
	limit := defaultToolLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	explain, _ := args["explain"].(bool)

	data, err := os.ReadFile(file)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read candidates: %v", err)), nil
	}
	candidates, err := importer.ParseCandidates(data, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to parse candidates: %v", err)), nil
	}

	result := searchResult{Query: raw, Mode: model.SearchModePassthrough, Hits: []searchHit{}}
	var ranked []search.ScoredCandidate
	if search.IsPassThrough(raw) {
		for _, c := range candidates {
			ranked = append(ranked, search.ScoredCandidate{Candidate: c})
		}
	} else {
		scorer := search.NewScorer(t.dict, config.FieldMapping{})
		prepared := scorer.Prepare(raw)
		result.Mode = search.Mode(prepared.Query, raw)
		ranked = scorer.RankPrepared(candidates, prepared, explain)
	}

	result.Total = len(ranked)
	for i, r := range ranked {
		if i == limit {
			break
		}
		result.Hits = append(result.Hits, searchHit{Candidate: r.Candidate, Score: r.Score, Breakdown: r.Breakdown})
	}
	logrus.WithFields(logrus.Fields{"query": raw, "mode": result.Mode, "total": result.Total}).Info("search_candidates")
	return jsonResult(result)
}

func (t *toolset) listTerms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories := make(map[string][]string)
	for _, name := range t.dict.Categories() {
		phrases, _ := t.dict.Category(name)
		categories[name] = phrases
	}
	return jsonResult(map[string]interface{}{
		"categories":   categories,
		"count":        t.dict.Len(),
		"prepositions": query.Prepositions(),
	})
}
