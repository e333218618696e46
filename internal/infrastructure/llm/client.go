// Package llm реализует клиент OpenAI-совместимого API эмбеддингов и чат-моделей
// (Gemini OpenAI endpoint, OpenAI, Ollama).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/ecospark-backend/internal/cfg"
	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/metrics"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/jitter"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
)

const providerName = "llm"

const (
	opEmbed = "embed"
	opChat  = "chat"
)

// maxErrorBody ограничивает размер тела ошибки, попадающего в лог.
const maxErrorBody = 2048

// HTTPError: ответ провайдера с кодом вне 2xx.
type HTTPError struct {
	StatusCode int
	Body       string
	RetryAfter time.Duration
}

func (h *HTTPError) Error() string {
	return fmt.Sprintf("provider http %d: %s", h.StatusCode, h.Body)
}

// Retryable сообщает, имеет ли смысл повторить запрос.
func (h *HTTPError) Retryable() bool {
	return h.StatusCode == http.StatusTooManyRequests || h.StatusCode >= http.StatusInternalServerError
}

// Client реализует usecase.Embedder и usecase.LanguageModel.
type Client struct {
	httpClient      *http.Client
	baseURL         string
	apiKey          string
	chatModel       string
	embeddingModel  string
	maxOutputTokens int
	maxRetries      int
	baseDelay       time.Duration
	maxDelay        time.Duration
	batchSize       int
	metrics         *metrics.Metrics
	logger          logger.Logger
}

func NewClient(c *cfg.LLMCfg, m *metrics.Metrics, logger logger.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: c.Timeout},
		baseURL:         strings.TrimRight(c.BaseURL, "/"),
		apiKey:          c.ApiKey,
		chatModel:       c.ChatModel,
		embeddingModel:  c.EmbeddingModel,
		maxOutputTokens: c.MaxOutputTokens,
		maxRetries:      c.MaxRetries,
		baseDelay:       c.RetryBaseDelay,
		maxDelay:        c.RetryMaxDelay,
		batchSize:       c.EmbedBatchSize,
		metrics:         m,
		logger:          logger,
	}
}

// EmbeddingModel возвращает имя модели эмбеддингов. Используется в ключах кэша.
func (c *Client) EmbeddingModel() string {
	return c.embeddingModel
}

// BatchSize возвращает максимальное число текстов в одном запросе эмбеддингов.
func (c *Client) BatchSize() int {
	return c.batchSize
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed возвращает векторы в порядке входных текстов. Большие наборы делятся на пакеты.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "llm.Client.Embed"

	batch := c.batchSize
	if batch <= 0 {
		batch = len(texts)
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batch {
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := c.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		out = append(out, vectors...)
	}

	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "llm.Client.embedBatch"

	input := make([]string, len(texts))
	for i, t := range texts {
		// пустая строка отклоняется некоторыми провайдерами
		if strings.TrimSpace(t) == "" {
			t = " "
		}
		input[i] = t
	}

	var resp embeddingsResponse
	if err := c.call(ctx, opEmbed, "/embeddings", embeddingsRequest{Model: c.embeddingModel, Input: input}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Data) != len(input) {
		return nil, e.Provider(op, fmt.Errorf("%w: requested %d, got %d", e.ErrEmbeddingsMismatch, len(input), len(resp.Data)))
	}

	out := make([][]float32, len(input))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, e.Provider(op, fmt.Errorf("%w: index %d out of range", e.ErrEmbeddingsMismatch, d.Index))
		}
		out[d.Index] = d.Embedding
	}
	for i, v := range out {
		if len(v) == 0 {
			return nil, e.Provider(op, fmt.Errorf("%w: input %d", e.ErrVectorEmbeddingEmpty, i))
		}
	}

	return out, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate отправляет сообщения в чат-модель и возвращает текст первого варианта ответа.
func (c *Client) Generate(ctx context.Context, messages []domain.PromptMessage) (string, error) {
	const op = "llm.Client.Generate"

	req := chatRequest{
		Model:     c.chatModel,
		Messages:  make([]chatMessage, 0, len(messages)),
		MaxTokens: c.maxOutputTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	var resp chatResponse
	if err := c.call(ctx, opChat, "/chat/completions", req, &resp); err != nil {
		return "", e.Wrap(op, err)
	}

	if len(resp.Choices) == 0 {
		return "", e.Provider(op, e.ErrEmptyCompletion)
	}

	return resp.Choices[0].Message.Content, nil
}

// call выполняет запрос с повторами при сетевых ошибках, 429 и 5xx.
// Задержка растёт экспоненциально с джиттером, Retry-After провайдера учитывается.
func (c *Client) call(ctx context.Context, op, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return e.Wrap(op, err)
	}

	for attempt := 0; ; attempt++ {
		raw, err := c.doOnce(ctx, path, payload)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				c.metrics.ObserveProviderCall(providerName, op, metrics.StatusError)
				return e.Provider(op, fmt.Errorf("decode response: %w", uErr))
			}
			c.metrics.ObserveProviderCall(providerName, op, metrics.StatusOK)
			return nil
		}

		if !isRetryable(ctx, err) || attempt >= c.maxRetries {
			c.metrics.ObserveProviderCall(providerName, op, metrics.StatusError)
			return e.Provider(op, err)
		}

		sleepTime := jitter.ExponentialBackoff(c.baseDelay, c.maxDelay, attempt, jitter.DefaultJitter)
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.RetryAfter > sleepTime {
			sleepTime = min(httpErr.RetryAfter, c.maxDelay)
		}

		c.logger.Warnf("provider %s call failed, retrying in %v (attempt %d of %d): %v", op, sleepTime, attempt+1, c.maxRetries, err)
		if err := jitter.Sleep(ctx, sleepTime); err != nil {
			c.metrics.ObserveProviderCall(providerName, op, metrics.StatusError)
			return e.Provider(op, err)
		}
	}
}

func (c *Client) doOnce(ctx context.Context, path string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := string(raw)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       body,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	return raw, nil
}

func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Retryable()
	}

	// сетевые ошибки и таймауты http.Client
	return !errors.Is(err, context.Canceled)
}

func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return 0
}
