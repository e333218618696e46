package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/DRSN-tech/ecospark-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	calls [][]string
	err   error
}

func (c *countingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.calls = append(c.calls, texts)
	if c.err != nil {
		return nil, c.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t))}
	}
	return out, nil
}

type mapCache struct {
	data     map[string][]float32
	readErr  error
	writeErr error
}

func (m *mapCache) GetMany(_ context.Context, keys []string) (map[string][]float32, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := map[string][]float32{}
	for _, k := range keys {
		if v, ok := m.data[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (m *mapCache) SetMany(_ context.Context, vectors map[string][]float32) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	for k, v := range vectors {
		m.data[k] = v
	}
	return nil
}

func TestCachedEmbedder_OnlyMissesReachProvider(t *testing.T) {
	next := &countingEmbedder{}
	cache := &mapCache{data: map[string][]float32{CacheKey("m", "cached"): {42}}}
	emb := NewCachedEmbedder(next, cache, "m", logger.NewNop())

	got, err := emb.Embed(context.Background(), []string{"cached", "abc", "abc", "hello"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{42}, {3}, {3}, {5}}, got)

	require.Len(t, next.calls, 1)
	assert.Equal(t, []string{"abc", "hello"}, next.calls[0])
	assert.Len(t, cache.data, 3)

	_, err = emb.Embed(context.Background(), []string{"abc", "hello"})
	require.NoError(t, err)
	assert.Len(t, next.calls, 1)
}

func TestCachedEmbedder_KeyDependsOnModel(t *testing.T) {
	assert.NotEqual(t, CacheKey("a", "text"), CacheKey("b", "text"))
	assert.Equal(t, CacheKey("a", "text"), CacheKey("a", "text"))
}

func TestCachedEmbedder_CacheFailuresDegrade(t *testing.T) {
	next := &countingEmbedder{}
	cache := &mapCache{data: map[string][]float32{}, readErr: errors.New("redis down"), writeErr: errors.New("redis down")}

	got, err := NewCachedEmbedder(next, cache, "m", logger.NewNop()).Embed(context.Background(), []string{"ab"})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{2}}, got)
}

func TestCachedEmbedder_ProviderError(t *testing.T) {
	next := &countingEmbedder{err: e.Provider("embed", errors.New("quota"))}

	_, err := NewCachedEmbedder(next, &mapCache{data: map[string][]float32{}}, "m", logger.NewNop()).Embed(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, e.ErrProviderFailure)
}
