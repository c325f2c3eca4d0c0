package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"persona-match/internal/common/logger"
	"persona-match/internal/inference"
	"persona-match/internal/knowledge"
)

// Config holds the blend weights and ranking limits. Alpha weighs embedding
// similarity, Beta weighs the zero-shot classifier; combined_score is the
// pure per-persona function alpha*similarity + beta*classifier, with no
// normalization across the candidate set.
type Config struct {
	Alpha              float64
	Beta               float64
	TopK               int
	BioWeight          float64
	MaxRecommendations int
}

// Engine ranks personality types against user text by blending embedding
// similarity with zero-shot classification. It holds no mutable per-request
// state and is safe for concurrent use once constructed.
type Engine struct {
	config     *Config
	kb         *knowledge.Base
	embedder   inference.Embedder
	classifier inference.Classifier
	logger     logger.Logger

	mu          sync.Mutex
	personaVecs [][]float64
}

func NewEngine(config *Config, kb *knowledge.Base, embedder inference.Embedder, classifier inference.Classifier, log logger.Logger) *Engine {
	return &Engine{
		config:     config,
		kb:         kb,
		embedder:   embedder,
		classifier: classifier,
		logger:     log.WithFields(map[string]interface{}{"component": "scoring"}),
	}
}

// Warm embeds every personality description once so later requests only pay
// for the user-text embedding. Analyze warms lazily when this was skipped.
func (e *Engine) Warm(ctx context.Context) error {
	_, err := e.personaVectors(ctx)
	return err
}

func (e *Engine) personaVectors(ctx context.Context) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.personaVecs != nil {
		return e.personaVecs, nil
	}
	if len(e.kb.Personalities) == 0 {
		e.personaVecs = [][]float64{}
		return e.personaVecs, nil
	}

	descriptions := make([]string, len(e.kb.Personalities))
	for i, p := range e.kb.Personalities {
		descriptions[i] = p.Description
	}

	vectors, err := e.embedder.Embed(ctx, descriptions)
	if err != nil {
		return nil, fmt.Errorf("embed personality descriptions: %w", err)
	}

	for i, v := range vectors {
		vectors[i] = l2Normalize(v)
	}
	e.personaVecs = vectors
	return e.personaVecs, nil
}

// Analyze scores every personality against the bio and posts and returns the
// top-K ranked matches plus product recommendations. topK <= 0 falls back to
// the configured default. Results are deterministic for identical inputs and
// deterministic collaborators: posts are treated as a set (sorted before any
// inference call), ranking ties break by personality name ascending.
func (e *Engine) Analyze(ctx context.Context, bio string, posts []string, topK int) (*Result, error) {
	start := time.Now()

	if topK <= 0 {
		topK = e.config.TopK
	}
	if topK <= 0 {
		topK = len(e.kb.Personalities)
	}

	if len(e.kb.Personalities) == 0 {
		return &Result{
			Matches:         []ScoredMatch{},
			TopCategories:   []string{},
			Recommendations: []RankedProduct{},
		}, nil
	}

	cleanPosts := normalizePosts(posts)
	bio = strings.TrimSpace(bio)

	sims, userVec, err := e.similarityScores(ctx, bio, cleanPosts)
	if err != nil {
		return nil, err
	}

	clsScores, err := e.classifierScores(ctx, bio, cleanPosts)
	if err != nil {
		return nil, err
	}

	matches := make([]ScoredMatch, len(e.kb.Personalities))
	for i, p := range e.kb.Personalities {
		cls := clsScores[p.Name]
		matches[i] = ScoredMatch{
			Personality:     p,
			SimilarityScore: sims[i],
			ClassifierScore: cls,
			CombinedScore:   e.config.Alpha*sims[i] + e.config.Beta*cls,
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].CombinedScore != matches[j].CombinedScore {
			return matches[i].CombinedScore > matches[j].CombinedScore
		}
		return matches[i].Personality.Name < matches[j].Personality.Name
	})

	if topK < len(matches) {
		matches = matches[:topK]
	}

	recommendations, err := e.recommendProducts(ctx, matches, userVec)
	if err != nil {
		return nil, err
	}

	e.logger.Info("scoring completed", map[string]interface{}{
		"personalities": len(e.kb.Personalities),
		"returned":      len(matches),
		"topMatch":      matches[0].Personality.Name,
		"durationMs":    time.Since(start).Milliseconds(),
	})

	return &Result{
		Matches:         matches,
		TopCategories:   e.kb.CategoriesFor(matches[0].Personality.Name),
		Recommendations: recommendations,
	}, nil
}

// similarityScores embeds the user text as a bio-weighted mean of the bio and
// post vectors, then scores it against every personality description. Empty
// input yields all-zero similarities without touching the embedder.
func (e *Engine) similarityScores(ctx context.Context, bio string, posts []string) ([]float64, []float64, error) {
	sims := make([]float64, len(e.kb.Personalities))

	texts := make([]string, 0, len(posts)+1)
	weights := make([]float64, 0, len(posts)+1)
	if bio != "" {
		texts = append(texts, bio)
		weights = append(weights, e.config.BioWeight)
	}
	for _, p := range posts {
		texts = append(texts, p)
		weights = append(weights, 1.0)
	}

	if len(texts) == 0 {
		return sims, nil, nil
	}

	personaVecs, err := e.personaVectors(ctx)
	if err != nil {
		return nil, nil, err
	}

	vectors, err := e.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("embed user text: %w", err)
	}
	for i, v := range vectors {
		vectors[i] = l2Normalize(v)
	}

	userVec := l2Normalize(weightedMean(vectors, weights))
	for i := range personaVecs {
		sims[i] = cosine(userVec, personaVecs[i])
	}
	return sims, userVec, nil
}

// classifierScores runs zero-shot classification with the personality names
// as candidate labels. Labels missing from the response default to 0.0; empty
// input skips the classifier entirely and scores everything 0.0.
func (e *Engine) classifierScores(ctx context.Context, bio string, posts []string) (map[string]float64, error) {
	blob := representativeText(bio, posts)
	if blob == "" {
		return map[string]float64{}, nil
	}

	labels := make([]string, len(e.kb.Personalities))
	for i, p := range e.kb.Personalities {
		labels[i] = p.Name
	}

	scores, err := e.classifier.Classify(ctx, blob, labels)
	if err != nil {
		return nil, fmt.Errorf("classify user text: %w", err)
	}
	return scores, nil
}

// recommendProducts collects products attached to the ranked matches and,
// when a user embedding exists, re-ranks them by semantic closeness to the
// user text. Without a user embedding the catalog order is kept with score 0.
func (e *Engine) recommendProducts(ctx context.Context, matches []ScoredMatch, userVec []float64) ([]RankedProduct, error) {
	var products []knowledge.Product
	seen := make(map[string]bool)
	for _, m := range matches {
		for _, p := range e.kb.ProductsFor(m.Personality.Name) {
			key := p.Product + "\x00" + p.Category
			if seen[key] {
				continue
			}
			seen[key] = true
			products = append(products, p)
		}
	}

	if len(products) == 0 {
		return []RankedProduct{}, nil
	}

	ranked := make([]RankedProduct, len(products))
	for i, p := range products {
		ranked[i] = RankedProduct{Product: p.Product, Category: p.Category}
	}

	if len(userVec) > 0 {
		texts := make([]string, len(products))
		for i, p := range products {
			texts[i] = p.Product + " - " + p.Category
		}
		vectors, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed products: %w", err)
		}
		for i := range ranked {
			ranked[i].Score = cosine(userVec, l2Normalize(vectors[i]))
		}
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].Score != ranked[j].Score {
				return ranked[i].Score > ranked[j].Score
			}
			return ranked[i].Product < ranked[j].Product
		})
	}

	if e.config.MaxRecommendations > 0 && len(ranked) > e.config.MaxRecommendations {
		ranked = ranked[:e.config.MaxRecommendations]
	}
	return ranked, nil
}

// normalizePosts trims posts, drops empties, and sorts the survivors so every
// downstream step sees a canonical order regardless of submission order.
func normalizePosts(posts []string) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

func representativeText(bio string, posts []string) string {
	parts := make([]string, 0, len(posts)+1)
	if bio != "" {
		parts = append(parts, bio)
	}
	parts = append(parts, posts...)
	return strings.Join(parts, " ")
}
