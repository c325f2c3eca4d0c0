package server

import (
	"persona-match/internal/insights"
	"persona-match/internal/scoring"
)

// AnalyzeRequest is the JSON body for POST /api/analyze. TopK of 0 means use
// the server default.
type AnalyzeRequest struct {
	Bio   string   `json:"bio"`
	Posts []string `json:"posts"`
	TopK  int      `json:"top_k"`
}

// AnalyzeResponse bundles the ranked matches with style insights for one
// analysis request.
type AnalyzeResponse struct {
	RequestID       string                  `json:"request_id"`
	Matches         []scoring.ScoredMatch   `json:"matches"`
	TopCategories   []string                `json:"top_categories"`
	Recommendations []scoring.RankedProduct `json:"recommendations"`
	Insights        insights.StyleInsights  `json:"insights"`
}

// ErrorResponse is the JSON error envelope for all non-2xx responses.
type ErrorResponse struct {
	RequestID string `json:"request_id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
}
