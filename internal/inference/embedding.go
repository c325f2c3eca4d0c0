package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/httpclient"
	"persona-match/internal/common/logger"
	"persona-match/internal/common/metrics"
)

// EmbeddingClient calls a Hugging-Face-style feature-extraction endpoint and
// returns one vector per input text.
type EmbeddingClient struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

func NewEmbeddingClient(config *Config, log logger.Logger) *EmbeddingClient {
	return &EmbeddingClient{
		config: config,
		// The timeout bounds each attempt; the per-call context bounds the
		// whole retry loop.
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "embedding", "model": config.Model}),
	}
}

func (c *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	start := time.Now()

	body, err := json.Marshal(map[string]interface{}{
		"inputs": texts,
		"options": map[string]interface{}{
			"wait_for_model": true,
		},
	})
	if err != nil {
		return nil, stderrors.NewEmbeddingUnavailableError(err)
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", c.config.BaseURL, c.config.Model)
	respBody, err := doWithRetry(ctx, c.client, url, c.config.APIKey, body, c.config.MaxRetries)
	if err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("embed", "error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewInferenceTimeoutError("embed")
		}
		return nil, stderrors.NewEmbeddingUnavailableError(err)
	}

	var vectors [][]float64
	if err := json.Unmarshal(respBody, &vectors); err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("embed", "error").Inc()
		return nil, stderrors.NewInferenceResponseInvalidError("embed", err)
	}

	if len(vectors) != len(texts) {
		metrics.InferenceCallsTotal.WithLabelValues("embed", "error").Inc()
		return nil, stderrors.NewInferenceResponseInvalidError("embed",
			fmt.Errorf("expected %d vectors, got %d", len(texts), len(vectors)))
	}

	metrics.InferenceCallsTotal.WithLabelValues("embed", "ok").Inc()
	metrics.InferenceDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())

	c.logger.Debug("embedding call completed", map[string]interface{}{
		"texts":      len(texts),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return vectors, nil
}

// doWithRetry posts body to url with bounded exponential backoff. Retries stop
// as soon as the context is done; non-2xx responses count as failures.
func doWithRetry(ctx context.Context, client *httpclient.Client, url, apiKey string, body []byte, maxRetries int) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			continue
		}

		var buf bytes.Buffer
		_, err = buf.ReadFrom(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("no successful response after %d attempts: %w", maxRetries+1, lastErr)
}
