package inference

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/httpclient"
	"persona-match/internal/common/logger"
	"persona-match/internal/common/metrics"
)

// ZeroShotClient calls a Hugging-Face-style zero-shot-classification endpoint.
type ZeroShotClient struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewZeroShotClient(config *Config, log logger.Logger) *ZeroShotClient {
	return &ZeroShotClient{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.WithFields(map[string]interface{}{"component": "zeroshot", "model": config.Model}),
	}
}

func (c *ZeroShotClient) Classify(ctx context.Context, text string, labels []string) (map[string]float64, error) {
	if len(labels) == 0 {
		return map[string]float64{}, nil
	}

	start := time.Now()

	body, err := json.Marshal(map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": labels,
			"multi_label":      true,
		},
		"options": map[string]interface{}{
			"wait_for_model": true,
		},
	})
	if err != nil {
		return nil, stderrors.NewClassifierUnavailableError(err)
	}

	url := fmt.Sprintf("%s/models/%s", c.config.BaseURL, c.config.Model)
	respBody, err := doWithRetry(ctx, c.client, url, c.config.APIKey, body, c.config.MaxRetries)
	if err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("classify", "error").Inc()
		if ctx.Err() == context.DeadlineExceeded {
			return nil, stderrors.NewInferenceTimeoutError("classify")
		}
		return nil, stderrors.NewClassifierUnavailableError(err)
	}

	var apiResponse struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := json.Unmarshal(respBody, &apiResponse); err != nil {
		metrics.InferenceCallsTotal.WithLabelValues("classify", "error").Inc()
		return nil, stderrors.NewInferenceResponseInvalidError("classify", err)
	}

	if len(apiResponse.Labels) != len(apiResponse.Scores) {
		metrics.InferenceCallsTotal.WithLabelValues("classify", "error").Inc()
		return nil, stderrors.NewInferenceResponseInvalidError("classify",
			fmt.Errorf("got %d labels but %d scores", len(apiResponse.Labels), len(apiResponse.Scores)))
	}

	scores := make(map[string]float64, len(apiResponse.Labels))
	for i, label := range apiResponse.Labels {
		s := apiResponse.Scores[i]
		// Clamp out-of-range scores rather than failing the whole ranking.
		if s < 0 {
			s = 0
		} else if s > 1 {
			s = 1
		}
		scores[label] = s
	}

	metrics.InferenceCallsTotal.WithLabelValues("classify", "ok").Inc()
	metrics.InferenceDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())

	c.logger.Debug("zero-shot call completed", map[string]interface{}{
		"labels":     len(labels),
		"durationMs": time.Since(start).Milliseconds(),
	})

	return scores, nil
}
