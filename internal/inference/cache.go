package inference

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"persona-match/internal/common/logger"
	"persona-match/internal/common/metrics"
)

// CachedEmbedder is a read-through Redis cache in front of an Embedder.
// Identical texts embed to identical vectors for a fixed model, so cached
// entries are safe to reuse until the model changes; the model name is part
// of the key. Cache failures degrade to direct inference, never to request
// failure.
type CachedEmbedder struct {
	inner  Embedder
	redis  *redis.Client
	model  string
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedEmbedder(inner Embedder, rdb *redis.Client, model string, ttl time.Duration, log logger.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		inner:  inner,
		redis:  rdb,
		model:  model,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "embedding-cache"}),
	}
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, len(texts))
	var missing []string
	var missingIdx []int

	for i, text := range texts {
		if vec, ok := c.get(ctx, text); ok {
			vectors[i] = vec
			metrics.EmbeddingCacheHits.Inc()
			continue
		}
		metrics.EmbeddingCacheMisses.Inc()
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return vectors, nil
	}

	fresh, err := c.inner.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}

	for j, idx := range missingIdx {
		vectors[idx] = fresh[j]
		c.set(ctx, texts[idx], fresh[j])
	}

	return vectors, nil
}

func (c *CachedEmbedder) get(ctx context.Context, text string) ([]float64, bool) {
	val, err := c.redis.Get(ctx, c.key(text)).Result()
	if err != nil {
		return nil, false
	}

	var vec []float64
	if err := json.Unmarshal([]byte(val), &vec); err != nil {
		return nil, false
	}
	return vec, true
}

func (c *CachedEmbedder) set(ctx context.Context, text string, vec []float64) {
	data, err := json.Marshal(vec)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.key(text), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache embedding", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *CachedEmbedder) key(text string) string {
	sum := sha256.Sum256([]byte(c.model + "\x00" + text))
	return "embed:" + hex.EncodeToString(sum[:])
}
