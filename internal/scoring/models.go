package scoring

import "persona-match/internal/knowledge"

// ScoredMatch is one personality with its per-source and blended scores.
// Created fresh per scoring invocation.
type ScoredMatch struct {
	Personality     knowledge.PersonalityType `json:"personality"`
	SimilarityScore float64                   `json:"similarity_score"`
	ClassifierScore float64                   `json:"classifier_score"`
	CombinedScore   float64                   `json:"combined_score"`
}

// RankedProduct is one recommended product, scored by its semantic closeness
// to the user's posts.
type RankedProduct struct {
	Product  string  `json:"product"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Result is the full outcome of one scoring invocation: the ranked matches,
// the top match's sponsorship categories, and the cross-persona product
// recommendations.
type Result struct {
	Matches         []ScoredMatch   `json:"matches"`
	TopCategories   []string        `json:"top_categories"`
	Recommendations []RankedProduct `json:"recommendations"`
}
