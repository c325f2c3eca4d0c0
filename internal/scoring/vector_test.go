package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestL2Normalize(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{
			name:     "unit vector unchanged",
			input:    []float64{1, 0},
			expected: []float64{1, 0},
		},
		{
			name:     "scales to unit length",
			input:    []float64{3, 4},
			expected: []float64{0.6, 0.8},
		},
		{
			name:     "zero vector unchanged",
			input:    []float64{0, 0, 0},
			expected: []float64{0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := l2Normalize(tt.input)
			assert.InDeltaSlice(t, tt.expected, got, 1e-12)
		})
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float64{1, 2, 3},
			b:        []float64{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float64{1, 0},
			b:        []float64{0, 1},
			expected: 0.0,
		},
		{
			name:     "opposite vectors clamp to zero",
			a:        []float64{1, 0},
			b:        []float64{-1, 0},
			expected: 0.0,
		},
		{
			name:     "zero vector scores zero",
			a:        []float64{0, 0},
			b:        []float64{1, 1},
			expected: 0.0,
		},
		{
			name:     "dimension mismatch scores zero",
			a:        []float64{1, 2},
			b:        []float64{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "empty vectors score zero",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cosine(tt.a, tt.b), 1e-12)
		})
	}
}

func TestCosine_ClampsAboveOne(t *testing.T) {
	// Accumulated rounding can push the raw quotient a hair over 1.0.
	a := []float64{0.1, 0.2, 0.3, 0.4}
	got := cosine(a, a)
	assert.LessOrEqual(t, got, 1.0)
	assert.InDelta(t, 1.0, got, 1e-12)
}

func TestWeightedMean(t *testing.T) {
	t.Run("equal weights average", func(t *testing.T) {
		got := weightedMean([][]float64{{1, 0}, {0, 1}}, []float64{1, 1})
		assert.InDeltaSlice(t, []float64{0.5, 0.5}, got, 1e-12)
	})

	t.Run("heavier vector dominates", func(t *testing.T) {
		got := weightedMean([][]float64{{1, 0}, {0, 1}}, []float64{2, 1})
		assert.InDeltaSlice(t, []float64{2.0 / 3.0, 1.0 / 3.0}, got, 1e-12)
	})

	t.Run("single vector passes through", func(t *testing.T) {
		got := weightedMean([][]float64{{0.3, 0.7}}, []float64{2})
		assert.InDeltaSlice(t, []float64{0.3, 0.7}, got, 1e-12)
	})

	t.Run("empty input yields nil", func(t *testing.T) {
		assert.Nil(t, weightedMean(nil, nil))
	})

	t.Run("mismatched dimensions are skipped", func(t *testing.T) {
		got := weightedMean([][]float64{{1, 1}, {5}}, []float64{1, 1})
		assert.InDeltaSlice(t, []float64{1, 1}, got, 1e-12)
	})

	t.Run("zero total weight returns zero vector", func(t *testing.T) {
		got := weightedMean([][]float64{{1, 2}}, []float64{0})
		assert.Equal(t, []float64{0, 0}, got)
	})
}

func TestWeightedMean_NoNaN(t *testing.T) {
	got := weightedMean([][]float64{{0, 0}, {0, 0}}, []float64{1, 1})
	for _, x := range got {
		assert.False(t, math.IsNaN(x))
	}
}
