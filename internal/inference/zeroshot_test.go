package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "persona-match/internal/common/errors"
	"persona-match/internal/common/logger"
)

func zeroShotConfig(baseURL string) *Config {
	return &Config{
		BaseURL:    baseURL,
		Model:      "facebook/bart-large-mnli",
		MaxRetries: 1,
	}
}

func TestZeroShotClient_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/models/facebook/bart-large-mnli", r.URL.Path)

		var reqBody struct {
			Inputs     string `json:"inputs"`
			Parameters struct {
				CandidateLabels []string `json:"candidate_labels"`
				MultiLabel      bool     `json:"multi_label"`
			} `json:"parameters"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "Journaling my inner chaos", reqBody.Inputs)
		assert.Equal(t, []string{"Dreamer", "Empath"}, reqBody.Parameters.CandidateLabels)
		assert.True(t, reqBody.Parameters.MultiLabel)

		w.Write([]byte(`{"sequence": "Journaling my inner chaos", "labels": ["Empath", "Dreamer"], "scores": [0.91, 0.42]}`))
	}))
	defer server.Close()

	client := NewZeroShotClient(zeroShotConfig(server.URL), logger.NewTestLogger(t))

	scores, err := client.Classify(context.Background(), "Journaling my inner chaos", []string{"Dreamer", "Empath"})

	require.NoError(t, err)
	assert.InDelta(t, 0.91, scores["Empath"], 1e-9)
	assert.InDelta(t, 0.42, scores["Dreamer"], 1e-9)
}

func TestZeroShotClient_Classify_EmptyLabels(t *testing.T) {
	client := NewZeroShotClient(zeroShotConfig("http://unused"), logger.NewNoOpLogger())

	scores, err := client.Classify(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestZeroShotClient_Classify_ClampsScores(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"labels": ["A", "B"], "scores": [1.2, -0.1]}`))
	}))
	defer server.Close()

	client := NewZeroShotClient(zeroShotConfig(server.URL), logger.NewNoOpLogger())

	scores, err := client.Classify(context.Background(), "text", []string{"A", "B"})

	require.NoError(t, err)
	assert.Equal(t, 1.0, scores["A"])
	assert.Equal(t, 0.0, scores["B"])
}

func TestZeroShotClient_Classify_LabelScoreMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"labels": ["A", "B"], "scores": [0.5]}`))
	}))
	defer server.Close()

	client := NewZeroShotClient(zeroShotConfig(server.URL), logger.NewNoOpLogger())

	scores, err := client.Classify(context.Background(), "text", []string{"A", "B"})

	assert.Nil(t, scores)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeInferenceResponseInvalid, stderrors.CodeOf(err))
}

func TestZeroShotClient_Classify_ServiceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewZeroShotClient(zeroShotConfig(server.URL), logger.NewNoOpLogger())

	scores, err := client.Classify(context.Background(), "text", []string{"A"})

	assert.Nil(t, scores)
	require.Error(t, err)
	assert.Equal(t, stderrors.ErrCodeClassifierUnavailable, stderrors.CodeOf(err))
	assert.True(t, stderrors.IsInferenceUnavailable(err))
}
