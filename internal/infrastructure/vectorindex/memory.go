// Package vectorindex реализует векторный индекс в памяти, который строится заново на каждый запрос.
package vectorindex

import (
	"context"
	"math"
	"sort"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"golang.org/x/sync/errgroup"
)

// MemoryBuilder эмбеддит документы пакетами параллельно и хранит векторы в порядке вставки.
type MemoryBuilder struct {
	embedder      usecase.Embedder
	batchSize     int
	maxConcurrent int
}

func NewMemoryBuilder(embedder usecase.Embedder, batchSize, maxConcurrent int) *MemoryBuilder {
	if batchSize <= 0 {
		batchSize = 1
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &MemoryBuilder{
		embedder:      embedder,
		batchSize:     batchSize,
		maxConcurrent: maxConcurrent,
	}
}

// Build эмбеддит все документы. Любая ошибка провайдера прерывает построение.
func (b *MemoryBuilder) Build(ctx context.Context, docs []domain.Document) (usecase.VectorIndex, error) {
	const op = "MemoryBuilder.Build"

	vectors, err := EmbedDocuments(ctx, b.embedder, docs, b.batchSize, b.maxConcurrent)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	entries := make([]entry, len(docs))
	for i := range docs {
		entries[i] = entry{doc: docs[i], vector: vectors[i], norm: norm(vectors[i])}
	}

	return &MemoryIndex{embedder: b.embedder, entries: entries}, nil
}

// EmbedDocuments эмбеддит содержимое документов пакетами по batchSize, не более maxConcurrent запросов одновременно.
// Результат выровнен по индексам docs.
func EmbedDocuments(ctx context.Context, embedder usecase.Embedder, docs []domain.Document, batchSize, maxConcurrent int) ([][]float32, error) {
	vectors := make([][]float32, len(docs))
	if len(docs) == 0 {
		return vectors, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for start := 0; start < len(docs); start += batchSize {
		end := min(start+batchSize, len(docs))

		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, d := range docs[start:end] {
				texts = append(texts, d.Content)
			}

			out, err := embedder.Embed(gctx, texts)
			if err != nil {
				return err
			}
			if len(out) != len(texts) {
				return e.ErrEmbeddingsMismatch
			}

			// каждая горутина пишет в свой диапазон индексов
			copy(vectors[start:end], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}

type entry struct {
	doc    domain.Document
	vector []float32
	norm   float64
}

// MemoryIndex ранжирует документы по косинусной близости к запросу.
type MemoryIndex struct {
	embedder usecase.Embedder
	entries  []entry
}

func (m *MemoryIndex) Len() int {
	return len(m.entries)
}

// Retrieve возвращает min(k, Len()) документов. При равной близости выше тот, что добавлен раньше.
func (m *MemoryIndex) Retrieve(ctx context.Context, query string, k int) ([]domain.Document, error) {
	const op = "MemoryIndex.Retrieve"

	if k <= 0 {
		k = usecase.DefaultRetrievalK
	}
	if len(m.entries) == 0 {
		return []domain.Document{}, nil
	}

	out, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(out) != 1 {
		return nil, e.Wrap(op, e.ErrEmbeddingsMismatch)
	}

	scored := rank(out[0], m.entries)
	if k > len(scored) {
		k = len(scored)
	}

	docs := make([]domain.Document, 0, k)
	for _, s := range scored[:k] {
		docs = append(docs, s.Document)
	}
	return docs, nil
}

// rank считает близость для всех записей и сортирует по убыванию с сохранением порядка вставки.
func rank(query []float32, entries []entry) []domain.ScoredDocument {
	qNorm := norm(query)

	scored := make([]domain.ScoredDocument, len(entries))
	for i, en := range entries {
		scored[i] = domain.ScoredDocument{
			Document: en.doc,
			Score:    cosine(query, qNorm, en.vector, en.norm),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// CosineSimilarity возвращает косинус угла между a и b, 0 для нулевых векторов.
func CosineSimilarity(a, b []float32) float64 {
	return cosine(a, norm(a), b, norm(b))
}

func cosine(a []float32, aNorm float64, b []float32, bNorm float64) float64 {
	if aNorm == 0 || bNorm == 0 {
		return 0
	}

	n := min(len(a), len(b))
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (aNorm * bNorm)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
