package qdrant

import (
	"context"
	"sort"

	"github.com/DRSN-tech/ecospark-backend/internal/domain"
	"github.com/DRSN-tech/ecospark-backend/internal/infrastructure/vectorindex"
	"github.com/DRSN-tech/ecospark-backend/internal/usecase"
	"github.com/DRSN-tech/ecospark-backend/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/qdrant/go-client/qdrant"
)

const (
	payloadContent   = "content"
	payloadSource    = "source"
	payloadProductID = "product_id"
)

// pointStore: часть *qdrant.Client, которой пользуется индекс.
type pointStore interface {
	Upsert(ctx context.Context, request *qdrant.UpsertPoints) (*qdrant.UpdateResult, error)
	Query(ctx context.Context, request *qdrant.QueryPoints) ([]*qdrant.ScoredPoint, error)
}

// IndexRepo строит векторный индекс каталога в коллекции Qdrant.
type IndexRepo struct {
	store         pointStore
	collection    string
	embedder      usecase.Embedder
	batchSize     int
	maxConcurrent int
}

func NewIndexRepo(store pointStore, collection string, embedder usecase.Embedder, batchSize, maxConcurrent int) *IndexRepo {
	if batchSize <= 0 {
		batchSize = 1
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	return &IndexRepo{
		store:         store,
		collection:    collection,
		embedder:      embedder,
		batchSize:     batchSize,
		maxConcurrent: maxConcurrent,
	}
}

// Build эмбеддит документы и upsert-ит по одной точке на товар (id точки = id товара).
func (q *IndexRepo) Build(ctx context.Context, docs []domain.Document) (usecase.VectorIndex, error) {
	const op = "IndexRepo.Build"

	index := &Index{
		store:      q.store,
		collection: q.collection,
		embedder:   q.embedder,
		docs:       docs,
		position:   make(map[uint64]int, len(docs)),
	}
	if len(docs) == 0 {
		return index, nil
	}

	vectors, err := vectorindex.EmbedDocuments(ctx, q.embedder, docs, q.batchSize, q.maxConcurrent)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for i, doc := range docs {
		id := uint64(doc.ProductID)
		index.position[id] = i
		index.ids = append(index.ids, qdrant.NewIDNum(id))

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				payloadContent:   doc.Content,
				payloadSource:    doc.Source,
				payloadProductID: doc.ProductID,
			}),
		})
	}

	if _, err := q.store.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         points,
	}); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return index, nil
}

// Index ищет только среди точек текущего построения.
type Index struct {
	store      pointStore
	collection string
	embedder   usecase.Embedder
	docs       []domain.Document
	ids        []*qdrant.PointId
	position   map[uint64]int
}

func (i *Index) Len() int {
	return len(i.docs)
}

// Retrieve возвращает до k документов. Равные оценки упорядочены по порядку построения.
func (i *Index) Retrieve(ctx context.Context, query string, k int) ([]domain.Document, error) {
	const op = "Index.Retrieve"

	if k <= 0 {
		k = usecase.DefaultRetrievalK
	}
	if len(i.docs) == 0 {
		return []domain.Document{}, nil
	}

	out, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if len(out) != 1 {
		return nil, e.Wrap(op, e.ErrEmbeddingsMismatch)
	}

	points, err := i.store.Query(ctx, &qdrant.QueryPoints{
		CollectionName: i.collection,
		Query:          qdrant.NewQuery(out[0]...),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{qdrant.NewHasID(i.ids...)},
		},
		Limit:       qdrant.PtrOf(uint64(min(k, len(i.docs)))),
		WithPayload: qdrant.NewWithPayload(false),
	})
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	scored := make([]domain.ScoredDocument, 0, len(points))
	order := make([]int, 0, len(points))
	for _, p := range points {
		pos, ok := i.position[p.GetId().GetNum()]
		if !ok {
			continue
		}
		scored = append(scored, domain.ScoredDocument{Document: i.docs[pos], Score: float64(p.GetScore())})
		order = append(order, pos)
	}

	idx := make([]int, len(scored))
	for n := range idx {
		idx[n] = n
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if scored[idx[a]].Score != scored[idx[b]].Score {
			return scored[idx[a]].Score > scored[idx[b]].Score
		}
		return order[idx[a]] < order[idx[b]]
	})

	docs := make([]domain.Document, 0, len(idx))
	for _, n := range idx {
		docs = append(docs, scored[n].Document)
	}
	return docs, nil
}
