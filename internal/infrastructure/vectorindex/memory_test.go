package vectorindex

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableEmbedder возвращает заранее заданный вектор для каждого текста.
type tableEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	calls   int
	err     error
}

func (t *tableEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls++

	if t.err != nil {
		return nil, t.err
	}

	out := make([][]float32, 0, len(texts))
	for _, s := range texts {
		v, ok := t.vectors[s]
		if !ok {
			return nil, errors.New("unknown text " + s)
		}
		out = append(out, v)
	}
	return out, nil
}

func docs(contents ...string) []domain.Document {
	out := make([]domain.Document, 0, len(contents))
	for i, c := range contents {
		out = append(out, domain.Document{ProductID: int64(i + 1), Content: c, Source: domain.SourceTag(int64(i + 1))})
	}
	return out
}

func TestMemoryIndex_RanksByCosine(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"tv":     {1, 0, 0},
		"lamp":   {0, 1, 0},
		"radio":  {0.7, 0.7, 0},
		"washer": {0, 0, 1},
		"query":  {1, 0.1, 0},
	}}

	idx, err := NewMemoryBuilder(emb, 2, 2).Build(context.Background(), docs("tv", "lamp", "radio", "washer"))
	require.NoError(t, err)
	assert.Equal(t, 4, idx.Len())

	got, err := idx.Retrieve(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tv", got[0].Content)
	assert.Equal(t, "radio", got[1].Content)
}

func TestMemoryIndex_FewerDocsThanK(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"a": {1, 0}, "b": {0, 1}, "q": {1, 1},
	}}

	idx, err := NewMemoryBuilder(emb, 10, 1).Build(context.Background(), docs("a", "b"))
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "q", 4)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestMemoryIndex_TiesKeepInsertionOrder(t *testing.T) {
	emb := &tableEmbedder{vectors: map[string][]float32{
		"first": {1, 0}, "second": {2, 0}, "third": {3, 0}, "q": {5, 0},
	}}

	idx, err := NewMemoryBuilder(emb, 1, 3).Build(context.Background(), docs("first", "second", "third"))
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "q", 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Content, got[1].Content, got[2].Content})
}

func TestMemoryIndex_DefaultK(t *testing.T) {
	vectors := map[string][]float32{"q": {1}}
	contents := []string{"a", "b", "c", "d", "e", "f"}
	for _, c := range contents {
		vectors[c] = []float32{1}
	}

	idx, err := NewMemoryBuilder(&tableEmbedder{vectors: vectors}, 4, 2).Build(context.Background(), docs(contents...))
	require.NoError(t, err)

	got, err := idx.Retrieve(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestMemoryBuilder_EmptyCatalog(t *testing.T) {
	emb := &tableEmbedder{}

	idx, err := NewMemoryBuilder(emb, 4, 2).Build(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, idx.Len())

	got, err := idx.Retrieve(context.Background(), "anything", 4)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, emb.calls)
}

func TestMemoryBuilder_ProviderErrorAborts(t *testing.T) {
	emb := &tableEmbedder{err: e.Provider("embed", errors.New("quota exceeded"))}

	_, err := NewMemoryBuilder(emb, 1, 2).Build(context.Background(), docs("a", "b", "c"))
	require.Error(t, err)
	assert.ErrorIs(t, err, e.ErrProviderFailure)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}
