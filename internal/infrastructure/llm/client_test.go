package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/metrics"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, batchSize, maxRetries int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return NewClient(&cfg.LLMCfg{
		BaseURL:         srv.URL + "/",
		ApiKey:          "test-key",
		ChatModel:       "chat-model",
		EmbeddingModel:  "embed-model",
		MaxOutputTokens: 256,
		Timeout:         5 * time.Second,
		MaxRetries:      maxRetries,
		RetryBaseDelay:  time.Millisecond,
		RetryMaxDelay:   5 * time.Millisecond,
		EmbedBatchSize:  batchSize,
	}, metrics.New(prometheus.NewRegistry()), logger.NewNop())
}

func TestEmbed_BatchesAndRestoresOrder(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingsRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "embed-model", req.Model)
		assert.LessOrEqual(t, len(req.Input), 2)

		// отвечаем в обратном порядке, клиент должен разложить по index
		type item struct {
			Embedding []float32 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]item, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, item{Embedding: []float32{float32(len(req.Input[i])), 1}, Index: i})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
	}, 2, 0)

	vectors, err := client.Embed(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Len(t, vectors, 3)
	assert.Equal(t, []float32{1, 1}, vectors[0])
	assert.Equal(t, []float32{2, 1}, vectors[1])
	assert.Equal(t, []float32{3, 1}, vectors[2])
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbed_CountMismatchIsProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1],"index":0}]}`))
	}, 10, 0)

	_, err := client.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
	assert.ErrorIs(t, err, e.ErrEmbeddingsMismatch)
}

func TestGenerate_ReturnsFirstChoice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "chat-model", req.Model)
		assert.Equal(t, 256, req.MaxTokens)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Try EcoVision (product_id:1)"}}]}`))
	}, 10, 0)

	out, err := client.Generate(context.Background(), []domain.PromptMessage{domain.NewUserPrompt("hi")})
	require.NoError(t, err)
	assert.Equal(t, "Try EcoVision (product_id:1)", out)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}, 10, 0)

	_, err := client.Generate(context.Background(), []domain.PromptMessage{domain.NewUserPrompt("hi")})
	assert.ErrorIs(t, err, e.ErrEmptyCompletion)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
}

func TestCall_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":"overloaded"}`))
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}, 10, 2)

	out, err := client.Generate(context.Background(), []domain.PromptMessage{domain.NewUserPrompt("hi")})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(3), calls.Load())
}

func TestCall_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}, 10, 1)

	_, err := client.Generate(context.Background(), []domain.PromptMessage{domain.NewUserPrompt("hi")})
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
	assert.Equal(t, int32(2), calls.Load())
}

func TestCall_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"bad key"}`))
	}, 10, 3)

	_, err := client.Generate(context.Background(), []domain.PromptMessage{domain.NewUserPrompt("hi")})
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
	assert.Equal(t, int32(1), calls.Load())
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseRetryAfter("2"))
	assert.Zero(t, parseRetryAfter(""))
	assert.Zero(t, parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"))
}
