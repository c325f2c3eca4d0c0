package scoring

import "math"

// l2Normalize returns v scaled to unit length. A zero vector is returned
// unchanged so that downstream cosine similarity yields a defined 0.0 instead
// of a division failure.
func l2Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = x / norm
	}
	return out
}

// cosine computes the cosine similarity between a and b. Zero vectors and
// mismatched dimensions score 0.0. The result is clamped to [0,1]: negative
// cosines carry no ranking signal here.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// weightedMean reduces vectors to a single vector using the given weights.
// The mean is a symmetric reduction: permuting (vector, weight) pairs cannot
// change the result beyond floating-point associativity, which is fixed here
// by accumulating in index order.
func weightedMean(vectors [][]float64, weights []float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}

	dim := len(vectors[0])
	out := make([]float64, dim)
	var total float64

	for i, v := range vectors {
		if len(v) != dim {
			continue
		}
		w := weights[i]
		for j, x := range v {
			out[j] += w * x
		}
		total += w
	}

	if total == 0 {
		return out
	}
	for j := range out {
		out[j] /= total
	}
	return out
}
