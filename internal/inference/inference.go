// Package inference holds the embedding and zero-shot classification
// collaborators. Both are expensive remote calls: handles are constructed once
// at startup and injected into the scoring engine, never reached for as
// ambient global state.
package inference

import "context"

// Embedder turns texts into fixed-length semantic vectors. Implementations
// must be deterministic for identical text and fixed model weights.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Classifier scores a text against arbitrary candidate labels without
// label-specific training. Scores are in [0,1]; a label absent from the
// result map is treated as 0.0 by callers.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (map[string]float64, error)
}
