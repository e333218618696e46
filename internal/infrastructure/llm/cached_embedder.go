package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
)

// CachedEmbedder отдаёт векторы из кэша и обращается к провайдеру только за промахами.
// Ошибки кэша не прерывают работу.
type CachedEmbedder struct {
	next   usecase.Embedder
	cache  usecase.EmbeddingCache
	model  string
	logger logger.Logger
}

func NewCachedEmbedder(next usecase.Embedder, cache usecase.EmbeddingCache, model string, logger logger.Logger) *CachedEmbedder {
	return &CachedEmbedder{
		next:   next,
		cache:  cache,
		model:  model,
		logger: logger,
	}
}

// CacheKey: sha256 от модели и текста.
func CacheKey(model, text string) string {
	sum := sha256.Sum256([]byte(model + "\x00" + text))
	return hex.EncodeToString(sum[:])
}

func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	const op = "CachedEmbedder.Embed"

	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = CacheKey(c.model, t)
	}

	cached, err := c.cache.GetMany(ctx, keys)
	if err != nil {
		c.logger.Warnf("embedding cache read failed, falling back to provider: %v", err)
		cached = nil
	}

	out := make([][]float32, len(texts))
	// индексы входа для каждого уникального промаха
	missing := make(map[string][]int)
	missTexts := make([]string, 0)
	missKeys := make([]string, 0)
	for i, key := range keys {
		if v, ok := cached[key]; ok {
			out[i] = v
			continue
		}
		if _, seen := missing[key]; !seen {
			missTexts = append(missTexts, texts[i])
			missKeys = append(missKeys, key)
		}
		missing[key] = append(missing[key], i)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vectors, err := c.next.Embed(ctx, missTexts)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(vectors) != len(missTexts) {
		return nil, e.Wrap(op, e.ErrEmbeddingsMismatch)
	}

	fresh := make(map[string][]float32, len(missKeys))
	for n, key := range missKeys {
		fresh[key] = vectors[n]
		for _, i := range missing[key] {
			out[i] = vectors[n]
		}
	}

	if err := c.cache.SetMany(ctx, fresh); err != nil {
		c.logger.Warnf("embedding cache write failed: %v", err)
	}

	return out, nil
}
